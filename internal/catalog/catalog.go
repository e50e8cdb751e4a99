// Package catalog holds the built-in reference data: the desi meal
// catalogue, the exercise library, workout plan templates and
// motivational quotes. The data is embedded at build time and is
// read-only at runtime.
package catalog

import (
	_ "embed"
	"encoding/json"
	"time"

	"github.com/gymistic/gymistic/internal/errors"
)

//go:embed data/meals.json
var mealsJSON []byte

//go:embed data/exercises.json
var exercisesJSON []byte

//go:embed data/plans.json
var plansJSON []byte

//go:embed data/quotes.json
var quotesJSON []byte

// MealType slots a meal into the daily plan.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// Meal is a single dish from the catalogue. Cost is in PKR and
// macros are grams per serving.
type Meal struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Type            MealType `json:"type"`
	Ingredients     []string `json:"ingredients"`
	Calories        float64  `json:"calories"`
	Protein         float64  `json:"protein"`
	Carbs           float64  `json:"carbs"`
	Fat             float64  `json:"fat"`
	Cost            float64  `json:"cost"`
	PreparationTime int      `json:"preparationTime"`
}

// Exercise is a library entry. Description is markdown.
type Exercise struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	MuscleGroups []string `json:"muscleGroups"`
	Equipment    []string `json:"equipment"`
	Instructions []string `json:"instructions"`
	Description  string   `json:"description"`
}

// ScheduleDay assigns a workout to a day of the plan week, 1 being
// Monday. Days without an entry are rest days.
type ScheduleDay struct {
	Day         int      `json:"day"`
	WorkoutType string   `json:"workoutType"`
	Exercises   []string `json:"exercises"`
}

// Plan is a workout plan template.
type Plan struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	DaysPerWeek int           `json:"daysPerWeek"`
	Schedule    []ScheduleDay `json:"schedule"`
}

// Quote is a motivational quote with its source.
type Quote struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Translation string `json:"translation"`
	Category    string `json:"category"`
	Source      string `json:"source,omitempty"`
}

// Catalog is the parsed reference data. Create one with Load and
// share it; all methods are safe for concurrent use.
type Catalog struct {
	meals         []Meal
	mealsByID     map[string]Meal
	exercises     []Exercise
	exercisesByID map[string]Exercise
	plans         []Plan
	plansByID     map[string]Plan
	quotes        []Quote
}

// Load parses the embedded reference data.
func Load() (*Catalog, error) {
	var mealFile struct {
		Meals []Meal `json:"meals"`
	}
	if err := json.Unmarshal(mealsJSON, &mealFile); err != nil {
		return nil, errors.Wrap(err, "unmarshal meals")
	}
	var exerciseFile struct {
		Exercises []Exercise `json:"exercises"`
	}
	if err := json.Unmarshal(exercisesJSON, &exerciseFile); err != nil {
		return nil, errors.Wrap(err, "unmarshal exercises")
	}
	var planFile struct {
		Plans []Plan `json:"plans"`
	}
	if err := json.Unmarshal(plansJSON, &planFile); err != nil {
		return nil, errors.Wrap(err, "unmarshal plans")
	}
	var quoteFile struct {
		Quotes []Quote `json:"quotes"`
	}
	if err := json.Unmarshal(quotesJSON, &quoteFile); err != nil {
		return nil, errors.Wrap(err, "unmarshal quotes")
	}

	c := &Catalog{
		meals:         mealFile.Meals,
		mealsByID:     make(map[string]Meal, len(mealFile.Meals)),
		exercises:     exerciseFile.Exercises,
		exercisesByID: make(map[string]Exercise, len(exerciseFile.Exercises)),
		plans:         planFile.Plans,
		plansByID:     make(map[string]Plan, len(planFile.Plans)),
		quotes:        quoteFile.Quotes,
	}
	for _, m := range c.meals {
		c.mealsByID[m.ID] = m
	}
	for _, e := range c.exercises {
		c.exercisesByID[e.ID] = e
	}
	for _, p := range c.plans {
		c.plansByID[p.ID] = p
	}
	return c, nil
}

// Meals returns every meal in the catalogue.
func (c *Catalog) Meals() []Meal {
	return c.meals
}

// MealsByType returns the meals for one plan slot.
func (c *Catalog) MealsByType(t MealType) []Meal {
	var out []Meal
	for _, m := range c.meals {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// MealByID looks up a meal by its identifier.
func (c *Catalog) MealByID(id string) (Meal, bool) {
	m, ok := c.mealsByID[id]
	return m, ok
}

// Exercises returns the full exercise library.
func (c *Catalog) Exercises() []Exercise {
	return c.exercises
}

// ExerciseByID looks up an exercise by its identifier.
func (c *Catalog) ExerciseByID(id string) (Exercise, bool) {
	e, ok := c.exercisesByID[id]
	return e, ok
}

// Plans returns the workout plan templates.
func (c *Catalog) Plans() []Plan {
	return c.plans
}

// PlanByID looks up a plan template by its identifier.
func (c *Catalog) PlanByID(id string) (Plan, bool) {
	p, ok := c.plansByID[id]
	return p, ok
}

// Quotes returns all motivational quotes.
func (c *Catalog) Quotes() []Quote {
	return c.quotes
}

// DailyQuote returns the quote for the given day. The pick rotates
// with the day of the year so every day of a given year shows the
// same quote.
func (c *Catalog) DailyQuote(date time.Time) Quote {
	return c.quotes[date.YearDay()%len(c.quotes)]
}
