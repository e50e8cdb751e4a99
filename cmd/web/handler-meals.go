package main

import (
	"net/http"
	"strconv"

	"github.com/gymistic/gymistic/internal/catalog"
	"github.com/gymistic/gymistic/internal/errors"
	"github.com/gymistic/gymistic/internal/store"
)

// mealPlanGeneratePOST generates and persists the meal plan for a date,
// today by default.
func (app *application) mealPlanGeneratePOST(w http.ResponseWriter, r *http.Request) {
	var input struct {
		DailyBudget float64 `json:"dailyBudget"`
		Date        string  `json:"date"`
	}
	if !app.readJSON(w, r, &input) {
		return
	}
	if input.DailyBudget <= 0 {
		app.clientError(w, r, http.StatusBadRequest, "dailyBudget must be positive")
		return
	}
	date, err := parseDateField(input.Date)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}

	plan, err := app.mealService.GenerateDailyPlan(r.Context(), date, input.DailyBudget)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, plan)
}

// weeklyMealPlanPOST generates seven daily plans starting at a date, today
// by default.
func (app *application) weeklyMealPlanPOST(w http.ResponseWriter, r *http.Request) {
	var input struct {
		DailyBudget float64 `json:"dailyBudget"`
		From        string  `json:"from"`
	}
	if !app.readJSON(w, r, &input) {
		return
	}
	if input.DailyBudget <= 0 {
		app.clientError(w, r, http.StatusBadRequest, "dailyBudget must be positive")
		return
	}
	from, err := parseDateField(input.From)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "from must be formatted YYYY-MM-DD")
		return
	}

	plans, err := app.mealService.GenerateWeeklyPlan(r.Context(), from, input.DailyBudget)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, map[string]any{"plans": plans})
}

// todayMealPlanGET returns the plan for the current date.
func (app *application) todayMealPlanGET(w http.ResponseWriter, r *http.Request) {
	plan, err := app.mealService.TodayPlan(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, plan)
}

// mealPlanGET returns the plan for the date in the URL.
func (app *application) mealPlanGET(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}
	plan, err := app.mealService.Plan(r.Context(), date)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, plan)
}

// mealPlanDELETE removes the plan for the date in the URL.
func (app *application) mealPlanDELETE(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}
	if err := app.mealService.DeletePlan(r.Context(), date); err != nil {
		app.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mealConsumePOST marks one meal of a plan as consumed.
func (app *application) mealConsumePOST(w http.ResponseWriter, r *http.Request) {
	if err := app.mealService.MarkConsumed(r.Context(), r.PathValue("id"), r.PathValue("mealID")); err != nil {
		app.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// groceryListGET derives the shopping list of a plan.
func (app *application) groceryListGET(w http.ResponseWriter, r *http.Request) {
	plan, err := app.mealService.PlanByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"items": app.mealService.GroceryList(plan)})
}

// nutritionSummaryGET sums the macros of a plan.
func (app *application) nutritionSummaryGET(w http.ResponseWriter, r *http.Request) {
	plan, err := app.mealService.PlanByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, app.mealService.NutritionalSummary(plan))
}

// budgetFriendlyMealsGET ranks affordable meals, optionally restricted to
// one meal type.
func (app *application) budgetFriendlyMealsGET(w http.ResponseWriter, r *http.Request) {
	maxCost, err := strconv.ParseFloat(r.URL.Query().Get("maxCost"), 64)
	if err != nil || maxCost <= 0 {
		app.clientError(w, r, http.StatusBadRequest, "maxCost must be a positive number")
		return
	}
	var types []catalog.MealType
	if t := r.URL.Query().Get("type"); t != "" {
		types = append(types, catalog.MealType(t))
	}
	app.writeJSON(w, r, http.StatusOK,
		map[string]any{"meals": app.mealService.BudgetFriendlyMeals(maxCost, types...)})
}

// mealRecommendationsGET buckets affordable meals into suggestion lists.
func (app *application) mealRecommendationsGET(w http.ResponseWriter, r *http.Request) {
	budget, err := strconv.ParseFloat(r.URL.Query().Get("budget"), 64)
	if err != nil || budget <= 0 {
		app.clientError(w, r, http.StatusBadRequest, "budget must be a positive number")
		return
	}
	app.writeJSON(w, r, http.StatusOK, app.mealService.DesiRecommendations(budget))
}
