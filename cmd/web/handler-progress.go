package main

import (
	"net/http"

	"github.com/gymistic/gymistic/internal/calc"
	"github.com/gymistic/gymistic/internal/errors"
	"github.com/gymistic/gymistic/internal/progress"
	"github.com/gymistic/gymistic/internal/store"
)

func (app *application) bodyStatsPOST(w http.ResponseWriter, r *http.Request) {
	var input progress.BodyStats
	if !app.readJSON(w, r, &input) {
		return
	}
	if input.Weight <= 0 {
		app.clientError(w, r, http.StatusBadRequest, "weight must be positive")
		return
	}

	stats, err := app.progressService.SaveBodyStats(r.Context(), input)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, stats)
}

func (app *application) bodyStatsGET(w http.ResponseWriter, r *http.Request) {
	history, err := app.progressService.BodyStatsHistory(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"stats": history})
}

func (app *application) latestBodyStatsGET(w http.ResponseWriter, r *http.Request) {
	latest, err := app.progressService.LatestBodyStats(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, latest)
}

// trackCaloriesPOST recomputes the day's calorie targets from the profile
// and the latest weight. Responds with 422 when the profile is incomplete.
func (app *application) trackCaloriesPOST(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Date string `json:"date"`
	}
	if !app.readJSON(w, r, &input) {
		return
	}
	date, err := parseDateField(input.Date)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid date")
		return
	}

	tracking, err := app.progressService.TrackCalories(r.Context(), date)
	if errors.Is(err, progress.ErrIncompleteProfile) {
		app.clientError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, tracking)
}

func (app *application) addConsumedPOST(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Date     string  `json:"date"`
		Calories float64 `json:"calories"`
	}
	if !app.readJSON(w, r, &input) {
		return
	}
	if input.Calories <= 0 {
		app.clientError(w, r, http.StatusBadRequest, "calories must be positive")
		return
	}
	date, err := parseDateField(input.Date)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid date")
		return
	}

	tracking, err := app.progressService.AddConsumed(r.Context(), date, input.Calories)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, tracking)
}

// addBurnedPOST records burned calories. The caller sends either an explicit
// calorie count or an activity with a duration, in which case the burn is
// estimated from the latest recorded weight.
func (app *application) addBurnedPOST(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Date     string  `json:"date"`
		Calories float64 `json:"calories"`
		Activity string  `json:"activity"`
		Minutes  int     `json:"minutes"`
	}
	if !app.readJSON(w, r, &input) {
		return
	}
	date, err := parseDateField(input.Date)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid date")
		return
	}

	kcal := input.Calories
	if kcal <= 0 && input.Activity != "" {
		latest, err := app.progressService.LatestBodyStats(r.Context())
		if errors.Is(err, store.ErrNotFound) {
			app.clientError(w, r, http.StatusUnprocessableEntity, "no body stats recorded to estimate calorie burn")
			return
		}
		if err != nil {
			app.serverError(w, r, err)
			return
		}
		estimated, err := calc.ExerciseCalories(input.Activity, input.Minutes, latest.Weight)
		if err != nil {
			app.clientError(w, r, http.StatusBadRequest, "invalid activity duration")
			return
		}
		kcal = float64(estimated)
	}
	if kcal <= 0 {
		app.clientError(w, r, http.StatusBadRequest, "calories or activity with minutes required")
		return
	}

	tracking, err := app.progressService.AddBurned(r.Context(), date, kcal)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, tracking)
}

func (app *application) todayCaloriesGET(w http.ResponseWriter, r *http.Request) {
	tracking, err := app.progressService.TodayCalories(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, tracking)
}

func (app *application) logMoodPOST(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Date              string        `json:"date"`
		Mood              progress.Mood `json:"mood"`
		Notes             string        `json:"notes"`
		DhikrCompleted    bool          `json:"dhikrCompleted"`
		BreathingExercise bool          `json:"breathingExercise"`
	}
	if !app.readJSON(w, r, &input) {
		return
	}
	date, err := parseDateField(input.Date)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid date")
		return
	}

	entry, err := app.progressService.LogMood(r.Context(), date, input.Mood, input.Notes,
		input.DhikrCompleted, input.BreathingExercise)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	app.writeJSON(w, r, http.StatusCreated, entry)
}

func (app *application) moodHistoryGET(w http.ResponseWriter, r *http.Request) {
	history, err := app.progressService.MoodHistory(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"moods": history})
}

func (app *application) todayMoodGET(w http.ResponseWriter, r *http.Request) {
	entry, err := app.progressService.TodayMood(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, entry)
}

func (app *application) preferencesGET(w http.ResponseWriter, r *http.Request) {
	prefs, err := app.progressService.GetPreferences(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, prefs)
}

func (app *application) preferencesPOST(w http.ResponseWriter, r *http.Request) {
	var input progress.Preferences
	if !app.readJSON(w, r, &input) {
		return
	}

	prefs, err := app.progressService.SavePreferences(r.Context(), input)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, prefs)
}

// healthSummaryGET combines the profile and the latest measurements into a
// single report: BMI, ideal weight range, energy targets, macros, water
// intake, fasting-day calories and dietary guidance. Responds with 422 when
// the profile lacks the required inputs.
func (app *application) healthSummaryGET(w http.ResponseWriter, r *http.Request) {
	prefs, err := app.progressService.GetPreferences(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	latest, err := app.progressService.LatestBodyStats(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		app.clientError(w, r, http.StatusUnprocessableEntity, "no body stats recorded")
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	height := prefs.Height
	if height <= 0 && latest.Height != nil {
		height = *latest.Height
	}
	if height <= 0 || prefs.Age <= 0 || prefs.Gender == "" {
		app.clientError(w, r, http.StatusUnprocessableEntity, "height, age and gender must be set")
		return
	}

	bmi, err := calc.BMI(latest.Weight, height)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	bmiClass := calc.ClassifyBMI(bmi)
	minKg, maxKg, err := calc.IdealWeightRange(height)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	bmr, err := calc.BMR(latest.Weight, height, prefs.Age, prefs.Gender)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	tdee := calc.TDEE(bmr, prefs.ActivityLevel)
	target := calc.TargetCalories(tdee, prefs.Goal)
	macros, err := calc.Macros(target, prefs.Goal)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	waterMl, err := calc.WaterIntake(latest.Weight, prefs.ActivityLevel)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	ramadan := calc.RamadanCalories(tdee)

	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"weight": latest.Weight,
		"height": height,
		"bmi": map[string]any{
			"value":          bmi,
			"category":       bmiClass.Category,
			"recommendation": bmiClass.Recommendation,
		},
		"idealWeightRange": map[string]int{"min": minKg, "max": maxKg},
		"bmr":              bmr,
		"tdee":             tdee,
		"targetCalories":   target,
		"macros": map[string]int{
			"protein": macros.ProteinG,
			"carbs":   macros.CarbsG,
			"fat":     macros.FatG,
		},
		"waterIntakeMl": waterMl,
		"ramadanCalories": map[string]int{
			"sahur": ramadan.Sahur,
			"iftar": ramadan.Iftar,
			"total": ramadan.Total,
		},
		"dietaryGuidance": calc.DietaryGuidance(),
	})
}
