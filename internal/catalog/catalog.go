// Package catalog holds the fixed workout and meal-plan content shown per fitness goal.
package catalog

import "lifesync/internal/models"

type Workout struct {
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Exercises   []string `json:"exercises"`
}

type MealPlan struct {
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Meals       []string `json:"meals"`
	Tips        []string `json:"tips"`
}

// Workouts returns the workouts for goal, falling back to maintenance.
func Workouts(goal models.FitnessGoal) []Workout {
	if w, ok := workoutsByGoal[goal]; ok {
		return w
	}
	return workoutsByGoal[models.GoalMaintenance]
}

// MealPlans returns the meal plans for goal, falling back to maintenance.
func MealPlans(goal models.FitnessGoal) []MealPlan {
	if p, ok := mealPlansByGoal[goal]; ok {
		return p
	}
	return mealPlansByGoal[models.GoalMaintenance]
}

const (
	imgCardio   = "https://images.unsplash.com/photo-1538805060514-97d9cc17730c"
	imgStrength = "https://images.unsplash.com/photo-1534438327276-14e5300c3a48"
	imgYoga     = "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b"
)

var workoutsByGoal = map[models.FitnessGoal][]Workout{
	models.GoalWeightLoss: {
		{
			Title:       "High-Intensity Cardio",
			Image:       imgCardio,
			Description: "Burn calories and improve cardiovascular health",
			Exercises:   []string{"Burpees", "Mountain Climbers", "Jump Rope", "High Knees"},
		},
		{
			Title:       "Circuit Training",
			Image:       imgStrength,
			Description: "Combined strength and cardio for maximum calorie burn",
			Exercises:   []string{"Jumping Jacks", "Squats", "Push-ups", "Lunges"},
		},
	},
	models.GoalMuscleGain: {
		{
			Title:       "Strength Training",
			Image:       imgStrength,
			Description: "Build muscle mass and increase strength",
			Exercises:   []string{"Bench Press", "Deadlifts", "Rows", "Shoulder Press"},
		},
		{
			Title:       "Progressive Overload",
			Image:       imgStrength,
			Description: "Gradually increase weights for muscle growth",
			Exercises:   []string{"Squats", "Pull-ups", "Dips", "Barbell Curls"},
		},
	},
	models.GoalFlexibility: {
		{
			Title:       "Dynamic Stretching",
			Image:       imgYoga,
			Description: "Improve range of motion and prevent injuries",
			Exercises:   []string{"Yoga Flow", "Dynamic Lunges", "Arm Circles", "Leg Swings"},
		},
		{
			Title:       "Mobility Work",
			Image:       imgYoga,
			Description: "Enhance joint mobility and flexibility",
			Exercises:   []string{"Hip Openers", "Shoulder Mobility", "Ankle Mobility", "Spine Mobility"},
		},
	},
	models.GoalEndurance: {
		{
			Title:       "Endurance Training",
			Image:       imgCardio,
			Description: "Build stamina and cardiovascular endurance",
			Exercises:   []string{"Long Distance Running", "Cycling", "Swimming", "Row Machine"},
		},
		{
			Title:       "Stamina Building",
			Image:       imgCardio,
			Description: "Increase workout duration and intensity",
			Exercises:   []string{"Interval Training", "Tempo Runs", "Circuit Training", "Tabata"},
		},
	},
	models.GoalMaintenance: {
		{
			Title:       "Full Body Workout",
			Image:       imgStrength,
			Description: "Maintain current fitness level and body composition",
			Exercises:   []string{"Body Weight Squats", "Push-ups", "Pull-ups", "Planks"},
		},
		{
			Title:       "Active Recovery",
			Image:       imgYoga,
			Description: "Stay active while preventing overtraining",
			Exercises:   []string{"Light Jogging", "Swimming", "Yoga", "Walking"},
		},
	},
}

var mealPlansByGoal = map[models.FitnessGoal][]MealPlan{
	models.GoalWeightLoss: {
		{
			Title:       "Calorie-Conscious Meal Plan",
			Image:       "https://images.unsplash.com/photo-1490645935967-10de6ba17061",
			Description: "Focus on nutrient-dense, low-calorie foods",
			Meals: []string{
				"Breakfast: Greek yogurt with berries and honey",
				"Lunch: Grilled chicken salad with avocado",
				"Dinner: Baked salmon with roasted vegetables",
				"Snacks: Apple slices with almond butter",
			},
			Tips: []string{"Create a caloric deficit", "Increase protein intake", "Choose high-fiber foods", "Stay hydrated"},
		},
		{
			Title:       "Metabolism Boosting Foods",
			Image:       "https://images.unsplash.com/photo-1498837167922-ddd27525d352",
			Description: "Foods that help increase metabolic rate",
			Meals: []string{
				"Breakfast: Oatmeal with cinnamon and protein powder",
				"Lunch: Turkey and quinoa bowl",
				"Dinner: Lean beef stir-fry with brown rice",
				"Snacks: Green tea and mixed nuts",
			},
			Tips: []string{"Eat smaller, frequent meals", "Include thermogenic foods", "Time your meals properly", "Monitor portion sizes"},
		},
	},
	models.GoalMuscleGain: {
		{
			Title:       "High-Protein Meal Plan",
			Image:       "https://images.unsplash.com/photo-1547496502-affa22d38842",
			Description: "Protein-rich meals for muscle growth",
			Meals: []string{
				"Breakfast: Protein pancakes with banana",
				"Lunch: Chicken breast with sweet potato",
				"Dinner: Steak with quinoa and vegetables",
				"Snacks: Protein shake with peanut butter",
			},
			Tips: []string{"Eat in caloric surplus", "1.6-2.2g protein per kg bodyweight", "Include complex carbs", "Time protein intake"},
		},
	},
	models.GoalFlexibility: {
		{
			Title:       "Anti-Inflammatory Diet",
			Image:       "https://images.unsplash.com/photo-1512621776951-a57141f2eefd",
			Description: "Foods that promote joint health and flexibility",
			Meals: []string{
				"Breakfast: Smoothie bowl with berries and chia seeds",
				"Lunch: Mediterranean quinoa bowl with chickpeas",
				"Dinner: Grilled fish with sweet potato and greens",
				"Snacks: Walnuts and green tea",
			},
			Tips: []string{"Include omega-3 rich foods", "Eat colorful vegetables", "Stay hydrated", "Avoid processed foods"},
		},
	},
	models.GoalEndurance: {
		{
			Title:       "Endurance Nutrition Plan",
			Image:       "https://images.unsplash.com/photo-1543352634-99a5d50ae78e",
			Description: "Fuel your body for long-duration activities",
			Meals: []string{
				"Breakfast: Overnight oats with dates and banana",
				"Lunch: Whole grain pasta with lean protein",
				"Dinner: Sweet potato, rice, and grilled chicken",
				"Snacks: Trail mix and energy bars",
			},
			Tips: []string{"Complex carbs are key", "Time your nutrition", "Maintain electrolyte balance", "Pre-workout fuel"},
		},
	},
	models.GoalMaintenance: {
		{
			Title:       "Balanced Nutrition Plan",
			Image:       "https://images.unsplash.com/photo-1466637574441-749b8f19452f",
			Description: "Maintain your current health and fitness level",
			Meals: []string{
				"Breakfast: Whole grain toast with eggs and avocado",
				"Lunch: Mixed grain bowl with tofu and vegetables",
				"Dinner: Grilled chicken with quinoa and roasted veggies",
				"Snacks: Greek yogurt with honey",
			},
			Tips: []string{"Maintain portion control", "Eat balanced meals", "Listen to hunger cues", "Stay consistent"},
		},
	},
}
