// Package bmi computes body mass index and the diet advice attached to each category.
package bmi

import (
	"errors"
	"math"
)

var (
	ErrMissingMeasurements = errors.New("height and weight must be positive")
	ErrImplausible         = errors.New("height/weight out of plausible range")
)

type Result struct {
	BMI      float64  `json:"bmi"`
	Category string   `json:"category"`
	Diet     []string `json:"diet"`
	Tips     string   `json:"tips"`
}

// Calculate expects height in centimeters and weight in kilograms. BMI is rounded to one decimal
// before it is categorised.
func Calculate(heightCm, weightKg float64) (*Result, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return nil, ErrMissingMeasurements
	}
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return nil, ErrImplausible
	}

	h := heightCm / 100.0
	value := math.Round(weightKg/(h*h)*10) / 10

	rec := recommend(value)
	rec.BMI = value
	return &rec, nil
}

func recommend(bmi float64) Result {
	switch {
	case bmi < 18.5:
		return Result{
			Category: "Underweight",
			Diet: []string{
				"Increase caloric intake with nutrient-dense foods",
				"Include healthy fats like avocados, nuts, and olive oil",
				"Eat protein-rich foods with every meal",
				"Have frequent meals and healthy snacks",
				"Consider protein smoothies and shakes",
			},
			Tips: "Focus on gaining weight healthily through balanced nutrition and strength training.",
		}
	case bmi < 25:
		return Result{
			Category: "Normal Weight",
			Diet: []string{
				"Maintain balanced meals with varied nutrients",
				"Include plenty of fruits and vegetables",
				"Choose whole grains over refined grains",
				"Moderate portions of lean proteins",
				"Stay hydrated with water",
			},
			Tips: "Continue maintaining a balanced diet and regular exercise routine.",
		}
	case bmi < 30:
		return Result{
			Category: "Overweight",
			Diet: []string{
				"Control portion sizes",
				"Increase fiber intake through vegetables",
				"Choose lean proteins over fatty meats",
				"Limit processed foods and sugars",
				"Include more whole foods in your diet",
			},
			Tips: "Focus on creating a slight caloric deficit through diet and exercise.",
		}
	default:
		return Result{
			Category: "Obese",
			Diet: []string{
				"Consult with a healthcare provider",
				"Focus on whole, unprocessed foods",
				"Increase vegetable intake significantly",
				"Choose water over sugary drinks",
				"Monitor portion sizes carefully",
			},
			Tips: "Consider working with a registered dietitian for personalized advice.",
		}
	}
}
