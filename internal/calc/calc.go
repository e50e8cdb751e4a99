// Package calc implements the derived-metric calculators: energy
// expenditure, body composition, macronutrient splits, and hydration. All
// functions are pure and validate their numeric inputs instead of letting
// division by zero surface as NaN.
package calc

import (
	"fmt"
	"math"

	"github.com/gymistic/gymistic/internal/errors"
)

// ErrInvalidInput signals a nonpositive weight, height, age, or calorie
// amount where a positive value is required.
var ErrInvalidInput = errors.NewSentinel("invalid calculator input")

// Sex is the biological sex used by the Mifflin-St Jeor equation.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Activity levels scaling BMR into TDEE.
const (
	ActivitySedentary        = "sedentary"
	ActivityLightlyActive    = "lightly_active"
	ActivityModeratelyActive = "moderately_active"
	ActivityVeryActive       = "very_active"
	ActivityExtraActive      = "extra_active"
)

// Goals adjusting the daily calorie target.
const (
	GoalLoseWeight  = "lose_weight"
	GoalMaintain    = "maintain"
	GoalGainWeight  = "gain_weight"
	GoalBuildMuscle = "build_muscle"
)

// BMR computes the basal metabolic rate in kcal/day using the Mifflin-St
// Jeor equation.
func BMR(weightKg, heightCm float64, ageYears int, sex Sex) (float64, error) {
	if weightKg <= 0 || heightCm <= 0 || ageYears <= 0 {
		return 0, fmt.Errorf("%w: weight %.1f, height %.1f, age %d", ErrInvalidInput, weightKg, heightCm, ageYears)
	}
	base := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if sex == SexMale {
		return base + 5, nil
	}
	return base - 161, nil
}

//nolint:gochecknoglobals // fixed multiplier table.
var activityMultipliers = map[string]float64{
	ActivitySedentary:        1.2,
	ActivityLightlyActive:    1.375,
	ActivityModeratelyActive: 1.55,
	ActivityVeryActive:       1.725,
	ActivityExtraActive:      1.9,
}

// TDEE scales a BMR by the activity level multiplier. Unknown levels fall
// back to sedentary.
func TDEE(bmr float64, activityLevel string) float64 {
	multiplier, ok := activityMultipliers[activityLevel]
	if !ok {
		multiplier = activityMultipliers[ActivitySedentary]
	}
	return bmr * multiplier
}

//nolint:gochecknoglobals // fixed adjustment table.
var goalAdjustments = map[string]float64{
	GoalLoseWeight:  -500,
	GoalMaintain:    0,
	GoalGainWeight:  300,
	GoalBuildMuscle: 200,
}

// TargetCalories adjusts a TDEE for the user's goal. Unknown goals leave the
// TDEE unchanged.
func TargetCalories(tdee float64, goal string) float64 {
	return tdee + goalAdjustments[goal]
}

// BMI computes the body mass index for weight in kilograms and height in
// centimeters.
func BMI(weightKg, heightCm float64) (float64, error) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, fmt.Errorf("%w: weight %.1f, height %.1f", ErrInvalidInput, weightKg, heightCm)
	}
	heightM := heightCm / 100
	return weightKg / (heightM * heightM), nil
}

// BMIClass is a BMI category with its advice string.
type BMIClass struct {
	Category       string
	Recommendation string
}

// ClassifyBMI buckets a BMI value into the standard categories.
func ClassifyBMI(bmi float64) BMIClass {
	switch {
	case bmi < 18.5:
		return BMIClass{
			Category:       "Underweight",
			Recommendation: "Consider increasing calorie intake and strength training",
		}
	case bmi < 25:
		return BMIClass{
			Category:       "Normal Weight",
			Recommendation: "Maintain current weight with balanced diet and exercise",
		}
	case bmi < 30:
		return BMIClass{
			Category:       "Overweight",
			Recommendation: "Consider moderate calorie deficit and increased activity",
		}
	default:
		return BMIClass{
			Category:       "Obese",
			Recommendation: "Consult healthcare provider for weight management plan",
		}
	}
}

// IdealWeightRange returns the weight bounds in kilograms corresponding to
// BMI 18.5 and 25 at the given height.
func IdealWeightRange(heightCm float64) (minKg, maxKg int, err error) {
	if heightCm <= 0 {
		return 0, 0, fmt.Errorf("%w: height %.1f", ErrInvalidInput, heightCm)
	}
	heightM := heightCm / 100
	minKg = int(math.Round(18.5 * heightM * heightM))
	maxKg = int(math.Round(25 * heightM * heightM))
	return minKg, maxKg, nil
}

// MacroSplit is a daily macronutrient allowance in grams.
type MacroSplit struct {
	ProteinG int
	CarbsG   int
	FatG     int
}

// macroRatios per goal. Protein, fat, and carb fractions sum to 1.
//
//nolint:gochecknoglobals // fixed ratio table.
var macroRatios = map[string][3]float64{
	GoalLoseWeight:  {0.30, 0.25, 0.45},
	GoalBuildMuscle: {0.25, 0.25, 0.50},
	GoalGainWeight:  {0.20, 0.30, 0.50},
	GoalMaintain:    {0.20, 0.25, 0.55},
}

// Macros distributes daily calories across protein, carbs, and fat for the
// goal, converted to grams at 4 kcal/g for protein and carbs and 9 kcal/g
// for fat. Unknown goals use the maintenance split.
func Macros(calories float64, goal string) (MacroSplit, error) {
	if calories <= 0 {
		return MacroSplit{}, fmt.Errorf("%w: calories %.1f", ErrInvalidInput, calories)
	}
	ratios, ok := macroRatios[goal]
	if !ok {
		ratios = macroRatios[GoalMaintain]
	}
	protein, fat, carbs := ratios[0], ratios[1], ratios[2]
	return MacroSplit{
		ProteinG: int(math.Round(calories * protein / 4)),
		CarbsG:   int(math.Round(calories * carbs / 4)),
		FatG:     int(math.Round(calories * fat / 9)),
	}, nil
}

// metValues are metabolic equivalents for the supported activity types.
//
//nolint:gochecknoglobals // fixed MET table.
var metValues = map[string]float64{
	"walking":       3.5,
	"running":       8.0,
	"cycling":       6.0,
	"weightlifting": 6.0,
	"yoga":          2.5,
	"swimming":      8.0,
	"basketball":    8.0,
	"football":      8.0,
}

const defaultMET = 4.0

// ExerciseCalories estimates kcal burned for an activity using the MET
// formula MET × weight × 3.5 / 200 per minute. Unknown activities use a
// moderate default MET.
func ExerciseCalories(activityType string, durationMinutes int, weightKg float64) (int, error) {
	if weightKg <= 0 || durationMinutes < 0 {
		return 0, fmt.Errorf("%w: weight %.1f, duration %d", ErrInvalidInput, weightKg, durationMinutes)
	}
	met, ok := metValues[activityType]
	if !ok {
		met = defaultMET
	}
	perMinute := met * weightKg * 3.5 / 200
	return int(math.Round(perMinute * float64(durationMinutes))), nil
}

// WaterIntake recommends a daily water intake in milliliters: 35 ml per kg
// of body weight, scaled by 1.2 for very or extra active users.
func WaterIntake(weightKg float64, activityLevel string) (int, error) {
	if weightKg <= 0 {
		return 0, fmt.Errorf("%w: weight %.1f", ErrInvalidInput, weightKg)
	}
	base := weightKg * 35
	if activityLevel == ActivityVeryActive || activityLevel == ActivityExtraActive {
		base *= 1.2
	}
	return int(math.Round(base)), nil
}

// RamadanSplit carries the fasting-day calorie distribution.
type RamadanSplit struct {
	Sahur int
	Iftar int
	Total int
}

// RamadanCalories reduces the TDEE by 10% for the fasting period and splits
// it 40% to the pre-dawn meal and 60% to breaking the fast.
func RamadanCalories(tdee float64) RamadanSplit {
	fastingTDEE := tdee * 0.9
	return RamadanSplit{
		Sahur: int(math.Round(fastingTDEE * 0.4)),
		Iftar: int(math.Round(fastingTDEE * 0.6)),
		Total: int(math.Round(fastingTDEE)),
	}
}

// DietaryGuidance returns the fixed Islamic dietary advice shown alongside
// nutrition summaries.
func DietaryGuidance() []string {
	return []string{
		"Eat in moderation - 'The son of Adam fills no worse vessel than his stomach' - Prophet Muhammad (SAW)",
		"Start meals with Bismillah and end with Alhamdulillah",
		"Consume halal and tayyib (pure) foods only",
		"Avoid overeating - divide stomach into 1/3 food, 1/3 water, 1/3 air",
		"Fast regularly as recommended in Sunnah for spiritual and physical benefits",
		"Be grateful for Allah's provision and avoid waste",
	}
}
