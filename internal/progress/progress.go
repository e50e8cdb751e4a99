// Package progress tracks the user's journey outside the gym: body
// measurements, daily calorie balance, mood logs and the preference
// profile the calorie targets are derived from.
package progress

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gymistic/gymistic/internal/calc"
	"github.com/gymistic/gymistic/internal/errors"
	"github.com/gymistic/gymistic/internal/store"
)

// ErrIncompleteProfile signals that calorie targets cannot be computed
// because weight, height, age or gender is missing.
var ErrIncompleteProfile = errors.NewSentinel("incomplete profile for calorie computation")

// preferencesID keys the singleton preference record.
const preferencesID = "preferences"

// BodyStats is one dated measurement entry. Only weight is required.
type BodyStats struct {
	ID      string   `json:"id"`
	Date    string   `json:"date"`
	Weight  float64  `json:"weight"`
	Height  *float64 `json:"height,omitempty"`
	Chest   *float64 `json:"chest,omitempty"`
	Waist   *float64 `json:"waist,omitempty"`
	Arms    *float64 `json:"arms,omitempty"`
	Thighs  *float64 `json:"thighs,omitempty"`
	BodyFat *float64 `json:"bodyFat,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}

// CalorieTracking is the calorie balance of one day.
type CalorieTracking struct {
	ID               string  `json:"id"`
	Date             string  `json:"date"`
	TargetCalories   float64 `json:"targetCalories"`
	ConsumedCalories float64 `json:"consumedCalories"`
	BurnedCalories   float64 `json:"burnedCalories"`
	BMR              float64 `json:"bmr"`
	TDEE             float64 `json:"tdee"`
}

// Mood names the logged mood of a day.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodGood     Mood = "good"
	MoodNeutral  Mood = "neutral"
	MoodStressed Mood = "stressed"
	MoodSad      Mood = "sad"
	MoodAngry    Mood = "angry"
)

// moodScores maps each mood onto the 1 to 5 scale.
var moodScores = map[Mood]int{
	MoodHappy:    5,
	MoodGood:     4,
	MoodNeutral:  3,
	MoodStressed: 2,
	MoodSad:      1,
	MoodAngry:    1,
}

// MoodLog is the mood entry of one day, keyed by date.
type MoodLog struct {
	ID                string `json:"id"`
	Date              string `json:"date"`
	Mood              Mood   `json:"mood"`
	MoodScore         int    `json:"moodScore"`
	Notes             string `json:"notes,omitempty"`
	DhikrCompleted    bool   `json:"dhikrCompleted"`
	BreathingExercise bool   `json:"breathingExercise"`
}

// Preferences is the singleton user profile.
type Preferences struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name,omitempty"`
	Age                  int      `json:"age,omitempty"`
	Gender               calc.Sex `json:"gender,omitempty"`
	Height               float64  `json:"height,omitempty"`
	ActivityLevel        string   `json:"activityLevel"`
	Goal                 string   `json:"goal"`
	MonthlyBudget        float64  `json:"monthlyBudget"`
	DhikrReminders       bool     `json:"dhikrReminders"`
	VoiceMotivation      bool     `json:"voiceMotivation"`
	WorkoutReminders     bool     `json:"workoutReminders"`
	PreferredWorkoutTime string   `json:"preferredWorkoutTime,omitempty"`
	PreferredWorkoutDays []int    `json:"preferredWorkoutDays,omitempty"`
}

// DefaultPreferences is the profile assumed before the user saves one.
func DefaultPreferences() Preferences {
	return Preferences{
		ID:               preferencesID,
		ActivityLevel:    calc.ActivitySedentary,
		Goal:             calc.GoalMaintain,
		VoiceMotivation:  true,
		WorkoutReminders: true,
	}
}

// Service persists progress data and derives calorie targets from it.
type Service struct {
	bodyStats   store.Collection[BodyStats]
	calories    store.Collection[CalorieTracking]
	moods       store.Collection[MoodLog]
	preferences store.Collection[Preferences]
	logger      *slog.Logger
}

// NewService creates a progress service on top of the given store.
func NewService(st *store.Store, logger *slog.Logger) *Service {
	return &Service{
		bodyStats:   store.NewCollection[BodyStats](st, store.CollectionBodyStats),
		calories:    store.NewCollection[CalorieTracking](st, store.CollectionCalorieTracking),
		moods:       store.NewCollection[MoodLog](st, store.CollectionMoodLogs),
		preferences: store.NewCollection[Preferences](st, store.CollectionUserPreferences),
		logger:      logger,
	}
}

// SaveBodyStats records a measurement entry. An entry without an id is
// keyed by its date, so one entry per day; re-saving the same date
// overwrites it.
func (s *Service) SaveBodyStats(ctx context.Context, stats BodyStats) (BodyStats, error) {
	if stats.Weight <= 0 {
		return BodyStats{}, fmt.Errorf("weight must be positive, got %v", stats.Weight)
	}
	if stats.Date == "" {
		stats.Date = time.Now().Format(time.DateOnly)
	}
	if stats.ID == "" {
		stats.ID = "stats-" + stats.Date
	}
	if _, err := s.bodyStats.Put(ctx, stats); err != nil {
		return BodyStats{}, fmt.Errorf("save body stats: %w", err)
	}
	return stats, nil
}

// BodyStatsHistory returns all measurement entries, newest date first.
func (s *Service) BodyStatsHistory(ctx context.Context) ([]BodyStats, error) {
	history, err := s.bodyStats.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load body stats: %w", err)
	}
	slices.SortFunc(history, func(a, b BodyStats) int {
		return strings.Compare(b.Date, a.Date)
	})
	return history, nil
}

// LatestBodyStats returns the entry with the most recent date. Returns
// store.ErrNotFound when no entry exists.
func (s *Service) LatestBodyStats(ctx context.Context) (BodyStats, error) {
	history, err := s.BodyStatsHistory(ctx)
	if err != nil {
		return BodyStats{}, err
	}
	if len(history) == 0 {
		return BodyStats{}, store.ErrNotFound
	}
	return history[0], nil
}

// TrackCalories computes BMR, TDEE and the daily calorie target for the
// given date from the preference profile and the latest recorded weight,
// and upserts the day's tracking record. Consumed and burned calories of
// an existing record are preserved. Returns ErrIncompleteProfile when
// the profile lacks the required inputs.
func (s *Service) TrackCalories(ctx context.Context, date time.Time) (CalorieTracking, error) {
	prefs, err := s.GetPreferences(ctx)
	if err != nil {
		return CalorieTracking{}, err
	}
	latest, err := s.LatestBodyStats(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return CalorieTracking{}, fmt.Errorf("%w: no body stats recorded", ErrIncompleteProfile)
	}
	if err != nil {
		return CalorieTracking{}, err
	}

	height := prefs.Height
	if height <= 0 && latest.Height != nil {
		height = *latest.Height
	}
	if height <= 0 || prefs.Age <= 0 || prefs.Gender == "" {
		return CalorieTracking{}, fmt.Errorf("%w: height, age and gender must be set", ErrIncompleteProfile)
	}

	bmr, err := calc.BMR(latest.Weight, height, prefs.Age, prefs.Gender)
	if err != nil {
		return CalorieTracking{}, fmt.Errorf("compute bmr: %w", err)
	}
	tdee := calc.TDEE(bmr, prefs.ActivityLevel)

	day := date.Format(time.DateOnly)
	tracking := CalorieTracking{
		ID:             "calories-" + day,
		Date:           day,
		TargetCalories: calc.TargetCalories(tdee, prefs.Goal),
		BMR:            bmr,
		TDEE:           tdee,
	}
	if existing, err := s.calories.Get(ctx, tracking.ID); err == nil {
		tracking.ConsumedCalories = existing.ConsumedCalories
		tracking.BurnedCalories = existing.BurnedCalories
	} else if !errors.Is(err, store.ErrNotFound) {
		return CalorieTracking{}, fmt.Errorf("load calorie tracking: %w", err)
	}

	if _, err := s.calories.Put(ctx, tracking); err != nil {
		return CalorieTracking{}, fmt.Errorf("save calorie tracking: %w", err)
	}
	return tracking, nil
}

// AddConsumed adds eaten calories to the given day's record, creating a
// bare record when none exists yet.
func (s *Service) AddConsumed(ctx context.Context, date time.Time, kcal float64) (CalorieTracking, error) {
	return s.addCalories(ctx, date, kcal, 0)
}

// AddBurned adds exercise calories to the given day's record, creating a
// bare record when none exists yet.
func (s *Service) AddBurned(ctx context.Context, date time.Time, kcal float64) (CalorieTracking, error) {
	return s.addCalories(ctx, date, 0, kcal)
}

func (s *Service) addCalories(ctx context.Context, date time.Time, consumed, burned float64) (CalorieTracking, error) {
	day := date.Format(time.DateOnly)
	id := "calories-" + day
	tracking, err := s.calories.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		tracking = CalorieTracking{ID: id, Date: day}
	} else if err != nil {
		return CalorieTracking{}, fmt.Errorf("load calorie tracking: %w", err)
	}
	tracking.ConsumedCalories += consumed
	tracking.BurnedCalories += burned
	if _, err := s.calories.Put(ctx, tracking); err != nil {
		return CalorieTracking{}, fmt.Errorf("save calorie tracking: %w", err)
	}
	return tracking, nil
}

// TodayCalories returns the tracking record for the current date.
// Returns store.ErrNotFound when the day has no record yet.
func (s *Service) TodayCalories(ctx context.Context) (CalorieTracking, error) {
	return s.calories.Get(ctx, "calories-"+time.Now().Format(time.DateOnly))
}

// LogMood records the mood of the given date, overwriting any earlier
// entry for that date. The score is derived from the mood.
func (s *Service) LogMood(ctx context.Context, date time.Time, mood Mood, notes string, dhikr, breathing bool) (MoodLog, error) {
	score, ok := moodScores[mood]
	if !ok {
		return MoodLog{}, fmt.Errorf("unknown mood %q", mood)
	}
	day := date.Format(time.DateOnly)
	entry := MoodLog{
		ID:                "mood-" + day,
		Date:              day,
		Mood:              mood,
		MoodScore:         score,
		Notes:             notes,
		DhikrCompleted:    dhikr,
		BreathingExercise: breathing,
	}
	if _, err := s.moods.Put(ctx, entry); err != nil {
		return MoodLog{}, fmt.Errorf("save mood log: %w", err)
	}
	return entry, nil
}

// TodayMood returns the mood entry of the current date. Returns
// store.ErrNotFound when today has no entry.
func (s *Service) TodayMood(ctx context.Context) (MoodLog, error) {
	return s.moods.Get(ctx, "mood-"+time.Now().Format(time.DateOnly))
}

// MoodHistory returns all mood entries, newest date first.
func (s *Service) MoodHistory(ctx context.Context) ([]MoodLog, error) {
	history, err := s.moods.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load mood logs: %w", err)
	}
	slices.SortFunc(history, func(a, b MoodLog) int {
		return strings.Compare(b.Date, a.Date)
	})
	return history, nil
}

// SavePreferences overwrites the singleton preference record.
func (s *Service) SavePreferences(ctx context.Context, prefs Preferences) (Preferences, error) {
	prefs.ID = preferencesID
	if prefs.ActivityLevel == "" {
		prefs.ActivityLevel = calc.ActivitySedentary
	}
	if prefs.Goal == "" {
		prefs.Goal = calc.GoalMaintain
	}
	if _, err := s.preferences.Put(ctx, prefs); err != nil {
		return Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	return prefs, nil
}

// GetPreferences returns the stored preference profile, or the defaults
// when none has been saved yet.
func (s *Service) GetPreferences(ctx context.Context) (Preferences, error) {
	prefs, err := s.preferences.Get(ctx, preferencesID)
	if errors.Is(err, store.ErrNotFound) {
		return DefaultPreferences(), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return prefs, nil
}
