package models

type Metric string

const (
	MetricWeight Metric = "weight"
	MetricWater  Metric = "water"
	MetricSteps  Metric = "steps"
	MetricSleep  Metric = "sleep"
)

// Metrics is the fixed set of tracked series, in display order.
var Metrics = []Metric{MetricWeight, MetricWater, MetricSteps, MetricSleep}

// Entry is one self-reported value. Date is YYYY-MM-DD.
type Entry struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type TrackingRecord struct {
	Weight []Entry `json:"weight"`
	Water  []Entry `json:"water"`
	Steps  []Entry `json:"steps"`
	Sleep  []Entry `json:"sleep"`
}

// Series returns a pointer to the series for m, or nil for an unknown metric.
func (r *TrackingRecord) Series(m Metric) *[]Entry {
	switch m {
	case MetricWeight:
		return &r.Weight
	case MetricWater:
		return &r.Water
	case MetricSteps:
		return &r.Steps
	case MetricSleep:
		return &r.Sleep
	}
	return nil
}
