package catalog

import (
	"testing"

	"lifesync/internal/models"
)

func TestEveryGoalHasContent(t *testing.T) {
	for _, g := range models.Goals {
		if len(Workouts(g)) == 0 {
			t.Errorf("no workouts for %q", g)
		}
		if len(MealPlans(g)) == 0 {
			t.Errorf("no meal plans for %q", g)
		}
	}
}

func TestUnknownGoalFallsBackToMaintenance(t *testing.T) {
	for _, g := range []models.FitnessGoal{"", "couch-potato"} {
		if got := Workouts(g)[0].Title; got != "Full Body Workout" {
			t.Errorf("Workouts(%q): got %q", g, got)
		}
		if got := MealPlans(g)[0].Title; got != "Balanced Nutrition Plan" {
			t.Errorf("MealPlans(%q): got %q", g, got)
		}
	}
}

func TestGoalSpecificContent(t *testing.T) {
	if got := Workouts(models.GoalMuscleGain)[0].Title; got != "Strength Training" {
		t.Errorf("muscle gain workout: got %q", got)
	}
	if got := MealPlans(models.GoalWeightLoss); len(got) != 2 {
		t.Errorf("weight loss meal plans: got %d", len(got))
	}
}
