// Package workout runs workout sessions against the exercise library. At
// most one session is active at a time; the active session is mirrored to
// the store on every mutation so it can be resumed after a restart.
package workout

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gymistic/gymistic/internal/catalog"
	"github.com/gymistic/gymistic/internal/errors"
	"github.com/gymistic/gymistic/internal/store"
)

// Type names a workout split.
type Type string

const (
	TypePush     Type = "push"
	TypePull     Type = "pull"
	TypeLegs     Type = "legs"
	TypeFullBody Type = "full_body"
	TypeUpper    Type = "upper"
	TypeLower    Type = "lower"
)

var (
	// ErrSessionActive rejects starting a session while one is active.
	ErrSessionActive = errors.NewSentinel("a workout session is already active")
	// ErrNoActiveSession rejects set completion and finishing while idle.
	ErrNoActiveSession = errors.NewSentinel("no active workout session")
	// ErrSetNotFound signals a set id outside the active session.
	ErrSetNotFound = errors.NewSentinel("set not found in active session")
)

// Set is one planned set of an exercise. Reps holds the plan target until
// the set is completed, then the actually performed reps.
type Set struct {
	ID         string   `json:"id"`
	ExerciseID string   `json:"exerciseId"`
	Reps       int      `json:"reps"`
	Weight     *float64 `json:"weight,omitempty"`
	Completed  bool     `json:"completed"`
	RestTime   int      `json:"restTime"`
}

// Session is one workout, active until finished.
type Session struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	Type      Type       `json:"type"`
	Sets      []Set      `json:"sets"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Completed bool       `json:"completed"`
	Notes     string     `json:"notes,omitempty"`
}

// Stats summarizes one session.
type Stats struct {
	TotalSets       int     `json:"totalSets"`
	CompletedSets   int     `json:"completedSets"`
	CompletionRate  float64 `json:"completionRate"`
	TotalReps       int     `json:"totalReps"`
	DurationMinutes int     `json:"durationMinutes"`
}

// WeekStats summarizes the completed sessions of the trailing week.
type WeekStats struct {
	TotalWorkouts int    `json:"totalWorkouts"`
	TotalSets     int    `json:"totalSets"`
	TotalReps     int    `json:"totalReps"`
	WorkoutTypes  []Type `json:"workoutTypes"`
}

// Muscle groups selecting an exercise into each split.
var muscleGroupsByType = map[Type][]string{
	TypePush: {"chest", "shoulders", "triceps"},
	TypePull: {"back", "lats", "rhomboids", "biceps"},
	TypeLegs: {"quadriceps", "hamstrings", "glutes", "calves"},
}

// Service drives workout sessions. Safe for concurrent use.
type Service struct {
	mu       sync.Mutex
	sessions store.Collection[Session]
	catalog  *catalog.Catalog
	logger   *slog.Logger
	now      func() time.Time

	// active mirrors the stored record of the running session; nil when
	// idle. Rebuilt from the store on demand after a restart.
	active *Session
}

// NewService creates a workout service on top of the given store.
func NewService(st *store.Store, cat *catalog.Catalog, logger *slog.Logger) *Service {
	return &Service{
		sessions: store.NewCollection[Session](st, store.CollectionWorkoutSessions),
		catalog:  cat,
		logger:   logger,
		now:      time.Now,
	}
}

// StartSession begins a new session of the given type, generating sets
// for every matching exercise and persisting the session immediately.
// Returns ErrSessionActive when a session is already running.
func (s *Service) StartSession(ctx context.Context, workoutType Type) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok, err := s.activeLocked(ctx); err != nil {
		return Session{}, err
	} else if ok {
		return Session{}, ErrSessionActive
	}

	now := s.now()
	session := Session{
		ID:        fmt.Sprintf("workout-%d", now.UnixMilli()),
		Date:      now.Format(time.DateOnly),
		Type:      workoutType,
		Sets:      generateSets(s.exercisesForType(workoutType)),
		StartTime: now,
	}
	if _, err := s.sessions.Put(ctx, session); err != nil {
		return Session{}, fmt.Errorf("save workout session: %w", err)
	}
	s.active = &session
	s.logger.LogAttrs(ctx, slog.LevelInfo, "started workout session",
		slog.String("id", session.ID),
		slog.String("type", string(workoutType)),
		slog.Int("sets", len(session.Sets)))
	return session, nil
}

func (s *Service) exercisesForType(workoutType Type) []catalog.Exercise {
	library := s.catalog.Exercises()
	groups, ok := muscleGroupsByType[workoutType]
	if !ok {
		if workoutType == TypeFullBody {
			return library[:min(5, len(library))]
		}
		return library[:min(4, len(library))]
	}
	var selected []catalog.Exercise
	for _, exercise := range library {
		if slices.ContainsFunc(exercise.MuscleGroups, func(mg string) bool {
			return slices.Contains(groups, mg)
		}) {
			selected = append(selected, exercise)
		}
	}
	return selected
}

// generateSets plans the sets for the selected exercises. Core work gets
// 3 sets of 20, everything else 4 sets of 12; the last set of each
// exercise carries the longer rest.
func generateSets(exercises []catalog.Exercise) []Set {
	var sets []Set
	for _, exercise := range exercises {
		setCount, baseReps := 4, 12
		if exercise.Category == "core" {
			setCount, baseReps = 3, 20
		}
		for setNum := 1; setNum <= setCount; setNum++ {
			restTime := 60
			if setNum == setCount {
				restTime = 120
			}
			sets = append(sets, Set{
				ID:         fmt.Sprintf("%s-set-%d", exercise.ID, setNum),
				ExerciseID: exercise.ID,
				Reps:       baseReps,
				RestTime:   restTime,
			})
		}
	}
	return sets
}

// CompleteSet records the performed reps and weight for one set of the
// active session. Returns ErrNoActiveSession when idle and ErrSetNotFound
// for an unknown set id.
func (s *Service) CompleteSet(ctx context.Context, setID string, actualReps int, weight *float64) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok, err := s.activeLocked(ctx)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, ErrNoActiveSession
	}

	idx := slices.IndexFunc(session.Sets, func(set Set) bool { return set.ID == setID })
	if idx < 0 {
		return Session{}, fmt.Errorf("%w: %s", ErrSetNotFound, setID)
	}
	session.Sets[idx].Reps = actualReps
	session.Sets[idx].Weight = weight
	session.Sets[idx].Completed = true

	if _, err := s.sessions.Put(ctx, *session); err != nil {
		return Session{}, fmt.Errorf("save workout session: %w", err)
	}
	return *session, nil
}

// FinishSession stamps the end time, marks the session completed,
// persists it and returns the engine to idle. Returns ErrNoActiveSession
// when idle.
func (s *Service) FinishSession(ctx context.Context) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok, err := s.activeLocked(ctx)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, ErrNoActiveSession
	}

	endTime := s.now()
	session.EndTime = &endTime
	session.Completed = true
	if _, err := s.sessions.Put(ctx, *session); err != nil {
		return Session{}, fmt.Errorf("save workout session: %w", err)
	}
	finished := *session
	s.active = nil
	s.logger.LogAttrs(ctx, slog.LevelInfo, "finished workout session",
		slog.String("id", finished.ID),
		slog.String("type", string(finished.Type)))
	return finished, nil
}

// Active returns the running session, restoring it from the store when
// the in-memory reference was lost. ok is false when idle.
func (s *Service) Active(ctx context.Context) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok, err := s.activeLocked(ctx)
	if err != nil || !ok {
		return Session{}, false, err
	}
	return *session, true, nil
}

// activeLocked resolves the active session under s.mu. It first consults
// the in-memory reference and falls back to the most recently started
// unfinished session in the store.
func (s *Service) activeLocked(ctx context.Context) (*Session, bool, error) {
	if s.active != nil {
		return s.active, true, nil
	}
	sessions, err := s.sessions.GetAll(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("load workout sessions: %w", err)
	}
	var latest *Session
	for i := range sessions {
		if sessions[i].Completed {
			continue
		}
		if latest == nil || sessions[i].StartTime.After(latest.StartTime) {
			latest = &sessions[i]
		}
	}
	if latest == nil {
		return nil, false, nil
	}
	s.active = latest
	return s.active, true, nil
}

// History returns every recorded session, most recently started first.
func (s *Service) History(ctx context.Context) ([]Session, error) {
	sessions, err := s.sessions.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workout sessions: %w", err)
	}
	slices.SortFunc(sessions, func(a, b Session) int {
		return b.StartTime.Compare(a.StartTime)
	})
	return sessions, nil
}

// SessionStats summarizes one session. Duration is zero until the session
// has an end time.
func (s *Service) SessionStats(session Session) Stats {
	stats := Stats{TotalSets: len(session.Sets)}
	for _, set := range session.Sets {
		stats.TotalReps += set.Reps
		if set.Completed {
			stats.CompletedSets++
		}
	}
	if stats.TotalSets > 0 {
		stats.CompletionRate = float64(stats.CompletedSets) / float64(stats.TotalSets) * 100
	}
	if session.EndTime != nil {
		stats.DurationMinutes = int(session.EndTime.Sub(session.StartTime).Round(time.Minute) / time.Minute)
	}
	return stats
}

// WeeklyStats aggregates the completed sessions of the last seven days.
// An empty history yields all zeros and no types.
func (s *Service) WeeklyStats(history []Session) WeekStats {
	weekAgo := s.now().AddDate(0, 0, -7)
	var stats WeekStats
	for _, session := range history {
		date, err := time.Parse(time.DateOnly, session.Date)
		if err != nil || date.Before(weekAgo) || !session.Completed {
			continue
		}
		stats.TotalWorkouts++
		for _, set := range session.Sets {
			if set.Completed {
				stats.TotalSets++
				stats.TotalReps += set.Reps
			}
		}
		if !slices.Contains(stats.WorkoutTypes, session.Type) {
			stats.WorkoutTypes = append(stats.WorkoutTypes, session.Type)
		}
	}
	return stats
}

// Recommendations derives training suggestions from the recent history.
func (s *Service) Recommendations(ctx context.Context) ([]string, error) {
	history, err := s.History(ctx)
	if err != nil {
		return nil, err
	}

	weekAgo := s.now().AddDate(0, 0, -7)
	var recentTypes []Type
	for _, session := range history {
		date, err := time.Parse(time.DateOnly, session.Date)
		if err != nil || date.Before(weekAgo) {
			continue
		}
		recentTypes = append(recentTypes, session.Type)
	}

	var recommendations []string
	if !slices.Contains(recentTypes, TypeLegs) {
		recommendations = append(recommendations, "Time for leg day! Your lower body needs attention.")
	}
	pushCount := 0
	for _, t := range recentTypes {
		if t == TypePush {
			pushCount++
		}
	}
	if pushCount > 2 {
		recommendations = append(recommendations, "Consider adding more pull exercises to balance your training.")
	}
	if len(history) == 0 {
		recommendations = append(recommendations, "Start with a full body workout to assess your current fitness level.")
	}
	return recommendations, nil
}

// TodaysWorkout looks up the scheduled workout of the given plan for the
// current weekday, counting Monday as day 1 and Sunday as day 7. ok is
// false on an unknown plan or a rest day.
func (s *Service) TodaysWorkout(planID string) (catalog.ScheduleDay, bool) {
	plan, ok := s.catalog.PlanByID(planID)
	if !ok {
		return catalog.ScheduleDay{}, false
	}
	day := int(s.now().Weekday())
	if day == 0 {
		day = 7
	}
	for _, scheduled := range plan.Schedule {
		if scheduled.Day == day {
			return scheduled, true
		}
	}
	return catalog.ScheduleDay{}, false
}
