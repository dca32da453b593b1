// Package tracker records the self-reported weight, water, steps and sleep series.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"lifesync/internal/models"
	"lifesync/pkg/logger"
)

// DateLayout is how entry dates are stored and charted.
const DateLayout = "2006-01-02"

// ChartWindow is how many trailing entries a chart shows.
const ChartWindow = 7

var ErrInvalidInput = errors.New("invalid tracking input")

// Input is the raw form submission; every field is required.
type Input struct {
	Weight string `json:"weight"`
	Water  string `json:"water"`
	Steps  string `json:"steps"`
	Sleep  string `json:"sleep"`
}

// Values are the parsed numbers for one submission.
type Values map[models.Metric]float64

// Parse coerces the form fields: weight and sleep as decimals, water and steps as whole numbers.
func (in Input) Parse() (Values, error) {
	weight, err := parseFloat("weight", in.Weight, maxWeightKg)
	if err != nil {
		return nil, err
	}
	water, err := parseInt("water", in.Water, maxWaterGlasses)
	if err != nil {
		return nil, err
	}
	steps, err := parseInt("steps", in.Steps, maxSteps)
	if err != nil {
		return nil, err
	}
	sleep, err := parseFloat("sleep", in.Sleep, maxSleepHours)
	if err != nil {
		return nil, err
	}
	return Values{
		models.MetricWeight: weight,
		models.MetricWater:  water,
		models.MetricSteps:  steps,
		models.MetricSleep:  sleep,
	}, nil
}

// Upper bounds for a single day's submission.
const (
	maxWeightKg     = 1000
	maxWaterGlasses = 100
	maxSteps        = 1000000
	maxSleepHours   = 24
)

// parseFloat accepts finite decimals in [0, max]; "NaN" and "Inf" are rejected.
func parseFloat(field, s string, max float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidInput, field)
	}
	if v < 0 || v > max {
		return 0, fmt.Errorf("%w: %s must be between 0 and %g", ErrInvalidInput, field, max)
	}
	return v, nil
}

func parseInt(field, s string, max int) (float64, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number", ErrInvalidInput, field)
	}
	if v < 0 || v > max {
		return 0, fmt.Errorf("%w: %s must be between 0 and %d", ErrInvalidInput, field, max)
	}
	return float64(v), nil
}

// Append adds one entry dated now (UTC) to every series. The record is not modified;
// entries for the same day accumulate.
func Append(record models.TrackingRecord, values Values, now time.Time) (models.TrackingRecord, map[models.Metric]models.Entry) {
	date := now.UTC().Format(DateLayout)
	added := make(map[models.Metric]models.Entry, len(models.Metrics))

	out := models.TrackingRecord{}
	for _, m := range models.Metrics {
		entry := models.Entry{Date: date, Value: values[m]}
		src := *record.Series(m)
		dst := make([]models.Entry, len(src), len(src)+1)
		copy(dst, src)
		*out.Series(m) = append(dst, entry)
		added[m] = entry
	}
	return out, added
}

type Chart struct {
	Metric models.Metric `json:"metric"`
	Label  string        `json:"label"`
	Color  string        `json:"color"`
	Labels []string      `json:"labels"`
	Values []float64     `json:"values"`
}

var chartStyle = map[models.Metric]struct{ label, color string }{
	models.MetricWeight: {"Weight (kg)", "#059669"},
	models.MetricWater:  {"Glasses", "#0891b2"},
	models.MetricSteps:  {"Steps", "#8b5cf6"},
	models.MetricSleep:  {"Hours", "#ec4899"},
}

// Charts returns the last ChartWindow points of each non-empty series.
func Charts(record models.TrackingRecord) []Chart {
	var charts []Chart
	for _, m := range models.Metrics {
		series := *record.Series(m)
		if len(series) == 0 {
			continue
		}
		if len(series) > ChartWindow {
			series = series[len(series)-ChartWindow:]
		}
		style := chartStyle[m]
		c := Chart{
			Metric: m,
			Label:  style.label,
			Color:  style.color,
			Labels: make([]string, 0, len(series)),
			Values: make([]float64, 0, len(series)),
		}
		for _, e := range series {
			c.Labels = append(c.Labels, e.Date)
			c.Values = append(c.Values, e.Value)
		}
		charts = append(charts, c)
	}
	return charts
}

type Store interface {
	GetTracking(ctx context.Context, userID string) (*models.TrackingRecord, error)
	AppendTracking(ctx context.Context, userID string, entries map[models.Metric]models.Entry) error
}

type Service struct {
	store  Store
	logger *logger.Logger
	now    func() time.Time
}

func NewService(store Store, l *logger.Logger) *Service {
	return &Service{store: store, logger: l, now: time.Now}
}

// Get returns the user's record; a user who never tracked anything gets empty series.
func (s *Service) Get(ctx context.Context, userID string) (*models.TrackingRecord, error) {
	rec, err := s.store.GetTracking(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracking: %w", err)
	}
	return rec, nil
}

// AddEntry parses the submission, appends today's values and persists them.
func (s *Service) AddEntry(ctx context.Context, userID string, in Input) (*models.TrackingRecord, error) {
	values, err := in.Parse()
	if err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, added := Append(*current, values, s.now())
	if err := s.store.AppendTracking(ctx, userID, added); err != nil {
		return nil, fmt.Errorf("failed to save tracking entry: %w", err)
	}

	s.logger.Infow("tracking entry added", "user_id", userID, "date", added[models.MetricWeight].Date)
	return &updated, nil
}
