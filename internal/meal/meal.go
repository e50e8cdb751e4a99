// Package meal implements budget-driven meal planning over the desi meal
// catalogue. A daily budget is split across the four meal slots, the best
// value meal per slot is picked, and grocery lists and nutrition summaries
// are derived from the persisted plan.
package meal

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/gymistic/gymistic/internal/catalog"
	"github.com/gymistic/gymistic/internal/errors"
	"github.com/gymistic/gymistic/internal/store"
)

// Budget share per slot. The shares sum to one, on purpose leaving no
// reserve: an unaffordable slot is simply omitted from the plan.
var budgetShares = map[catalog.MealType]float64{
	catalog.MealBreakfast: 0.25,
	catalog.MealLunch:     0.35,
	catalog.MealDinner:    0.35,
	catalog.MealSnack:     0.05,
}

// slotOrder fixes the slot iteration order so generated plans list meals
// breakfast first.
var slotOrder = []catalog.MealType{
	catalog.MealBreakfast,
	catalog.MealLunch,
	catalog.MealDinner,
	catalog.MealSnack,
}

// PlannedMeal references one catalogue meal within a plan.
type PlannedMeal struct {
	MealID   string           `json:"mealId"`
	Type     catalog.MealType `json:"type"`
	Consumed bool             `json:"consumed"`
}

// Plan is a persisted daily meal plan. TotalCalories and TotalCost are
// fixed at generation time.
type Plan struct {
	ID            string        `json:"id"`
	Date          string        `json:"date"`
	Meals         []PlannedMeal `json:"meals"`
	DailyBudget   float64       `json:"dailyBudget"`
	TotalCalories float64       `json:"totalCalories"`
	TotalCost     float64       `json:"totalCost"`
}

// GroceryItem is one aggregated ingredient of a plan's shopping list.
type GroceryItem struct {
	Ingredient    string `json:"ingredient"`
	Quantity      string `json:"quantity"`
	EstimatedCost int    `json:"estimatedCost"`
}

// NutritionSummary aggregates the macros of a plan. The percentage fields
// are the macro's share of total calories; a plan with zero calories
// yields an all-zero summary.
type NutritionSummary struct {
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
	Calories   float64 `json:"calories"`
	ProteinPct float64 `json:"proteinPercentage"`
	CarbsPct   float64 `json:"carbsPercentage"`
	FatPct     float64 `json:"fatPercentage"`
}

// Recommendations buckets catalogue meals by what they offer within a
// budget.
type Recommendations struct {
	Economical  []catalog.Meal `json:"economical"`
	Balanced    []catalog.Meal `json:"balanced"`
	ProteinRich []catalog.Meal `json:"proteinRich"`
}

// Service plans meals against the catalogue and persists the results.
type Service struct {
	plans   store.Collection[Plan]
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewService creates a meal planning service on top of the given store.
func NewService(st *store.Store, cat *catalog.Catalog, logger *slog.Logger) *Service {
	return &Service{
		plans:   store.NewCollection[Plan](st, store.CollectionMealPlans),
		catalog: cat,
		logger:  logger,
	}
}

// PlanID returns the record key for the plan of the given date.
func PlanID(date time.Time) string {
	return "meal-plan-" + date.Format(time.DateOnly)
}

// valueScore ranks meals by nutrition per rupee.
func valueScore(m catalog.Meal) float64 {
	return (m.Protein + m.Calories/100) / m.Cost
}

// GenerateDailyPlan builds and persists the plan for date, overwriting any
// existing plan for that date. Each slot gets its fixed share of the
// budget and the best value meal priced within it; slots with no
// affordable meal are omitted.
func (s *Service) GenerateDailyPlan(ctx context.Context, date time.Time, dailyBudget float64) (Plan, error) {
	if dailyBudget <= 0 {
		return Plan{}, fmt.Errorf("daily budget must be positive, got %v", dailyBudget)
	}

	plan := Plan{
		ID:          PlanID(date),
		Date:        date.Format(time.DateOnly),
		DailyBudget: dailyBudget,
	}
	for _, slot := range slotOrder {
		slotBudget := dailyBudget * budgetShares[slot]
		picked, ok := s.bestValueMeal(slot, slotBudget)
		if !ok {
			continue
		}
		plan.Meals = append(plan.Meals, PlannedMeal{MealID: picked.ID, Type: slot})
		plan.TotalCost += picked.Cost
		plan.TotalCalories += picked.Calories
	}

	if _, err := s.plans.Put(ctx, plan); err != nil {
		return Plan{}, fmt.Errorf("save meal plan: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated meal plan",
		slog.String("id", plan.ID),
		slog.Float64("budget", dailyBudget),
		slog.Int("meals", len(plan.Meals)))
	return plan, nil
}

func (s *Service) bestValueMeal(slot catalog.MealType, slotBudget float64) (catalog.Meal, bool) {
	var (
		best  catalog.Meal
		found bool
	)
	for _, m := range s.catalog.MealsByType(slot) {
		if m.Cost > slotBudget {
			continue
		}
		if !found || valueScore(m) > valueScore(best) {
			best = m
			found = true
		}
	}
	return best, found
}

// GenerateWeeklyPlan builds seven daily plans for consecutive dates
// starting at from. Each day is planned independently, so the same
// top-ranked meal repeats across the week.
func (s *Service) GenerateWeeklyPlan(ctx context.Context, from time.Time, dailyBudget float64) ([]Plan, error) {
	plans := make([]Plan, 0, 7)
	for i := range 7 {
		plan, err := s.GenerateDailyPlan(ctx, from.AddDate(0, 0, i), dailyBudget)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// MarkConsumed flips the consumed flag of the referenced meal within the
// plan. Unknown plan or meal ids are silently ignored; re-marking an
// already consumed meal leaves it consumed.
func (s *Service) MarkConsumed(ctx context.Context, planID, mealID string) error {
	plan, err := s.plans.Get(ctx, planID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load meal plan: %w", err)
	}

	idx := slices.IndexFunc(plan.Meals, func(m PlannedMeal) bool { return m.MealID == mealID })
	if idx < 0 {
		return nil
	}
	plan.Meals[idx].Consumed = true
	if _, err := s.plans.Put(ctx, plan); err != nil {
		return fmt.Errorf("save meal plan: %w", err)
	}
	return nil
}

// Ingredient quantities per serving, matching typical desi cooking
// amounts. Unlisted ingredients fall back to a portion count.
var ingredientUnits = map[string]struct {
	perServing float64
	unit       string
}{
	"atta":    {0.2, "kg"},
	"chawal":  {0.15, "kg"},
	"chicken": {0.25, "kg"},
	"anda":    {2, "pieces"},
	"daal":    {0.1, "kg"},
	"oil":     {0.05, "liter"},
	"dudh":    {0.2, "liter"},
	"dahi":    {0.15, "kg"},
	"pyaz":    {0.1, "kg"},
	"tamatar": {0.15, "kg"},
}

// GroceryList aggregates the ingredients of every meal in the plan into a
// shopping list with estimated quantities and costs. A meal's cost is
// spread evenly over its ingredients.
func (s *Service) GroceryList(plan Plan) []GroceryItem {
	type tally struct {
		servings int
		cost     float64
	}
	tallies := make(map[string]*tally)
	var order []string

	for _, planned := range plan.Meals {
		m, ok := s.catalog.MealByID(planned.MealID)
		if !ok {
			continue
		}
		for _, ingredient := range m.Ingredients {
			entry, seen := tallies[ingredient]
			if !seen {
				entry = &tally{}
				tallies[ingredient] = entry
				order = append(order, ingredient)
			}
			entry.servings++
			entry.cost += m.Cost / float64(len(m.Ingredients))
		}
	}

	items := make([]GroceryItem, 0, len(order))
	for _, ingredient := range order {
		entry := tallies[ingredient]
		items = append(items, GroceryItem{
			Ingredient:    ingredient,
			Quantity:      ingredientQuantity(ingredient, entry.servings),
			EstimatedCost: int(entry.cost + 0.5),
		})
	}
	return items
}

func ingredientQuantity(ingredient string, servings int) string {
	scale, ok := ingredientUnits[ingredient]
	if !ok {
		return strconv.Itoa(servings) + " portions"
	}
	amount := strconv.FormatFloat(float64(servings)*scale.perServing, 'f', -1, 64)
	return amount + " " + scale.unit
}

// NutritionalSummary sums the macros of every meal in the plan. A plan
// summing to zero calories yields defined zero percentages instead of a
// division error.
func (s *Service) NutritionalSummary(plan Plan) NutritionSummary {
	var summary NutritionSummary
	for _, planned := range plan.Meals {
		m, ok := s.catalog.MealByID(planned.MealID)
		if !ok {
			continue
		}
		summary.Protein += m.Protein
		summary.Carbs += m.Carbs
		summary.Fat += m.Fat
		summary.Calories += m.Calories
	}
	if summary.Calories > 0 {
		summary.ProteinPct = summary.Protein * 4 / summary.Calories * 100
		summary.CarbsPct = summary.Carbs * 4 / summary.Calories * 100
		summary.FatPct = summary.Fat * 9 / summary.Calories * 100
	}
	return summary
}

// BudgetFriendlyMeals returns the catalogue meals priced at or under
// maxCost ranked by value score, optionally restricted to the given
// types.
func (s *Service) BudgetFriendlyMeals(maxCost float64, types ...catalog.MealType) []catalog.Meal {
	var meals []catalog.Meal
	for _, m := range s.catalog.Meals() {
		if m.Cost > maxCost {
			continue
		}
		if len(types) > 0 && !slices.Contains(types, m.Type) {
			continue
		}
		meals = append(meals, m)
	}
	slices.SortStableFunc(meals, func(a, b catalog.Meal) int {
		switch av, bv := valueScore(a), valueScore(b); {
		case av > bv:
			return -1
		case av < bv:
			return 1
		default:
			return 0
		}
	})
	return meals
}

// DesiRecommendations buckets affordable meals into economical, balanced
// and protein-rich suggestions, three meals each.
func (s *Service) DesiRecommendations(budget float64) Recommendations {
	var recs Recommendations
	for _, m := range s.catalog.Meals() {
		if m.Cost > budget {
			continue
		}
		if m.Cost <= budget*0.3 && len(recs.Economical) < 3 {
			recs.Economical = append(recs.Economical, m)
		}
		if m.Protein >= 15 && m.Carbs >= 30 && m.Cost <= budget*0.5 && len(recs.Balanced) < 3 {
			recs.Balanced = append(recs.Balanced, m)
		}
		if m.Protein >= 20 && len(recs.ProteinRich) < 3 {
			recs.ProteinRich = append(recs.ProteinRich, m)
		}
	}
	return recs
}

// Plan returns the persisted plan for the given date. Returns
// store.ErrNotFound when no plan exists.
func (s *Service) Plan(ctx context.Context, date time.Time) (Plan, error) {
	return s.plans.Get(ctx, PlanID(date))
}

// TodayPlan returns the plan for the current date.
func (s *Service) TodayPlan(ctx context.Context) (Plan, error) {
	return s.Plan(ctx, time.Now())
}

// PlanByID returns the persisted plan with the given record id.
func (s *Service) PlanByID(ctx context.Context, id string) (Plan, error) {
	return s.plans.Get(ctx, id)
}

// DeletePlan removes the plan for the given date. Deleting an absent plan
// is not an error.
func (s *Service) DeletePlan(ctx context.Context, date time.Time) error {
	return s.plans.Delete(ctx, PlanID(date))
}
