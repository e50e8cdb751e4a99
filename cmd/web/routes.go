package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	standard := func(next http.Handler) http.Handler {
		return app.recoverPanic(app.logAndTraceRequest(secureHeaders(noCache(next))))
	}
	handle := func(pattern string, handlerFunc http.HandlerFunc) {
		mux.Handle(pattern, standard(handlerFunc))
	}

	handle("GET /api/healthy", app.healthy)

	// Reference data.
	handle("GET /api/quotes", app.quotesGET)
	handle("GET /api/quotes/daily", app.dailyQuoteGET)
	handle("GET /api/meals", app.mealsGET)
	handle("GET /api/meals/budget-friendly", app.budgetFriendlyMealsGET)
	handle("GET /api/meals/recommendations", app.mealRecommendationsGET)
	handle("GET /api/exercises", app.exercisesGET)
	handle("GET /api/exercises/{id}/info", app.exerciseInfoGET)
	handle("GET /api/workouts", app.workoutPlansGET)

	// Meal planning.
	handle("POST /api/meal-plans", app.mealPlanGeneratePOST)
	handle("POST /api/meal-plans/weekly", app.weeklyMealPlanPOST)
	handle("GET /api/meal-plans/today", app.todayMealPlanGET)
	handle("GET /api/meal-plans/{date}", app.mealPlanGET)
	handle("DELETE /api/meal-plans/{date}", app.mealPlanDELETE)
	handle("POST /api/meal-plans/{id}/meals/{mealID}/consume", app.mealConsumePOST)
	handle("GET /api/meal-plans/{id}/grocery-list", app.groceryListGET)
	handle("GET /api/meal-plans/{id}/nutrition", app.nutritionSummaryGET)

	// Workout sessions.
	handle("POST /api/workouts/sessions", app.workoutStartPOST)
	handle("GET /api/workouts/sessions/active", app.activeWorkoutGET)
	handle("POST /api/workouts/sessions/sets/{setID}/complete", app.completeSetPOST)
	handle("POST /api/workouts/sessions/finish", app.workoutFinishPOST)
	handle("GET /api/workouts/history", app.workoutHistoryGET)
	handle("GET /api/workouts/stats/weekly", app.weeklyStatsGET)
	handle("GET /api/workouts/recommendations", app.workoutRecommendationsGET)
	handle("GET /api/workouts/plans/{planID}/today", app.todaysWorkoutGET)

	// Progress tracking.
	handle("POST /api/body-stats", app.bodyStatsPOST)
	handle("GET /api/body-stats", app.bodyStatsGET)
	handle("GET /api/body-stats/latest", app.latestBodyStatsGET)
	handle("POST /api/calories/track", app.trackCaloriesPOST)
	handle("POST /api/calories/consumed", app.addConsumedPOST)
	handle("POST /api/calories/burned", app.addBurnedPOST)
	handle("GET /api/calories/today", app.todayCaloriesGET)
	handle("POST /api/moods", app.logMoodPOST)
	handle("GET /api/moods", app.moodHistoryGET)
	handle("GET /api/moods/today", app.todayMoodGET)
	handle("GET /api/preferences", app.preferencesGET)
	handle("POST /api/preferences", app.preferencesPOST)
	handle("GET /api/health-summary", app.healthSummaryGET)

	// Data portability.
	handle("GET /api/export", app.exportGET)
	handle("POST /api/import", app.importPOST)

	return mux
}
