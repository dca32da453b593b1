// internal/models/user.go
package models

import (
	"time"
)

type FitnessGoal string

const (
	GoalWeightLoss  FitnessGoal = "weight-loss"
	GoalMuscleGain  FitnessGoal = "muscle-gain"
	GoalMaintenance FitnessGoal = "maintenance"
	GoalEndurance   FitnessGoal = "endurance"
	GoalFlexibility FitnessGoal = "flexibility"
)

// Goals lists the selectable fitness goals in display order.
var Goals = []FitnessGoal{GoalWeightLoss, GoalMuscleGain, GoalMaintenance, GoalEndurance, GoalFlexibility}

// Valid reports whether g is one of Goals. The empty goal is "not chosen yet" and is valid too.
func (g FitnessGoal) Valid() bool {
	if g == "" {
		return true
	}
	for _, known := range Goals {
		if g == known {
			return true
		}
	}
	return false
}

type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	DisplayName  string      `json:"displayName"`
	PhotoURL     string      `json:"photoURL"`
	Age          int         `json:"age"`
	HeightCm     float64     `json:"height"`
	WeightKg     float64     `json:"weight"`
	FitnessGoal  FitnessGoal `json:"fitnessGoal"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
