package main

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gymistic/gymistic/internal/catalog"
	"github.com/yuin/goldmark"
)

// quotesGET lists every motivational quote.
func (app *application) quotesGET(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, map[string]any{"quotes": app.catalog.Quotes()})
}

// dailyQuoteGET returns the quote of the day.
func (app *application) dailyQuoteGET(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, app.catalog.DailyQuote(time.Now()))
}

// mealsGET lists the meal catalogue grouped by meal type.
func (app *application) mealsGET(w http.ResponseWriter, r *http.Request) {
	grouped := make(map[catalog.MealType][]catalog.Meal)
	for _, mealType := range []catalog.MealType{
		catalog.MealBreakfast, catalog.MealLunch, catalog.MealDinner, catalog.MealSnack,
	} {
		grouped[mealType] = app.catalog.MealsByType(mealType)
	}
	app.writeJSON(w, r, http.StatusOK, grouped)
}

// exercisesGET lists the exercise library.
func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, map[string]any{"exercises": app.catalog.Exercises()})
}

// exerciseInfoGET returns one exercise with its description rendered from
// markdown to HTML.
func (app *application) exerciseInfoGET(w http.ResponseWriter, r *http.Request) {
	exercise, ok := app.catalog.ExerciseByID(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	var rendered bytes.Buffer
	if err := goldmark.Convert([]byte(exercise.Description), &rendered); err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"id":              exercise.ID,
		"name":            exercise.Name,
		"category":        exercise.Category,
		"muscleGroups":    exercise.MuscleGroups,
		"equipment":       exercise.Equipment,
		"instructions":    exercise.Instructions,
		"descriptionHTML": rendered.String(),
	})
}

// workoutPlansGET lists the workout plan templates.
func (app *application) workoutPlansGET(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, map[string]any{"plans": app.catalog.Plans()})
}
