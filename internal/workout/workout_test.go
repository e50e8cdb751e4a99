package workout

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gymistic/gymistic/internal/catalog"
	"github.com/gymistic/gymistic/internal/errors"
	"github.com/gymistic/gymistic/internal/ptr"
	"github.com/gymistic/gymistic/internal/sqlite"
	"github.com/gymistic/gymistic/internal/store"
	"github.com/gymistic/gymistic/internal/testhelpers"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	st := store.New(db, logger)
	return NewService(st, cat, logger), st
}

// steppedClock returns a clock that advances by step on every call.
func steppedClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func TestStartSession(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := t.Context()

	session, err := svc.StartSession(ctx, TypePush)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if session.Completed {
		t.Error("new session starts out completed")
	}
	if session.EndTime != nil {
		t.Error("new session has an end time")
	}
	if len(session.Sets) == 0 {
		t.Fatal("no sets generated")
	}

	// Push selects pressing exercises only, 4 sets of 12 each with the
	// longer rest on the final set.
	setsPerExercise := make(map[string][]Set)
	for _, set := range session.Sets {
		if set.Completed {
			t.Errorf("set %s starts out completed", set.ID)
		}
		if set.Reps != 12 {
			t.Errorf("set %s reps: got %d, want 12", set.ID, set.Reps)
		}
		setsPerExercise[set.ExerciseID] = append(setsPerExercise[set.ExerciseID], set)
	}
	for exerciseID, sets := range setsPerExercise {
		if len(sets) != 4 {
			t.Errorf("exercise %s: got %d sets, want 4", exerciseID, len(sets))
		}
		for i, set := range sets {
			wantRest := 60
			if i == len(sets)-1 {
				wantRest = 120
			}
			if set.RestTime != wantRest {
				t.Errorf("set %s rest: got %d, want %d", set.ID, set.RestTime, wantRest)
			}
		}
	}

	// The session is persisted immediately.
	active, ok, err := svc.Active(ctx)
	if err != nil || !ok {
		t.Fatalf("Active: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(session, active); diff != "" {
		t.Errorf("active session mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateSets_Core(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	plank, ok := cat.ExerciseByID("plank")
	if !ok {
		t.Fatal("plank missing from library")
	}
	sets := generateSets([]catalog.Exercise{plank})
	if len(sets) != 3 {
		t.Fatalf("core sets: got %d, want 3", len(sets))
	}
	for i, set := range sets {
		if set.Reps != 20 {
			t.Errorf("core set %d reps: got %d, want 20", i, set.Reps)
		}
	}
	if sets[2].RestTime != 120 || sets[0].RestTime != 60 {
		t.Errorf("core rest times: got %d/%d, want 60/120", sets[0].RestTime, sets[2].RestTime)
	}
}

func TestStartSession_WhileActive(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := t.Context()

	if _, err := svc.StartSession(ctx, TypePull); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := svc.StartSession(ctx, TypeLegs); !errors.Is(err, ErrSessionActive) {
		t.Errorf("second StartSession: got %v, want ErrSessionActive", err)
	}
}

func TestCompleteSet(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := t.Context()

	if _, err := svc.CompleteSet(ctx, "bench-press-set-1", 10, nil); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("CompleteSet while idle: got %v, want ErrNoActiveSession", err)
	}

	session, err := svc.StartSession(ctx, TypePush)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	setID := session.Sets[0].ID

	updated, err := svc.CompleteSet(ctx, setID, 10, ptr.Ref(42.5))
	if err != nil {
		t.Fatalf("CompleteSet: %v", err)
	}
	completed := updated.Sets[0]
	if !completed.Completed || completed.Reps != 10 || completed.Weight == nil || *completed.Weight != 42.5 {
		t.Errorf("set not updated: %+v", completed)
	}

	if _, err := svc.CompleteSet(ctx, "no-such-set", 10, nil); !errors.Is(err, ErrSetNotFound) {
		t.Errorf("CompleteSet unknown set: got %v, want ErrSetNotFound", err)
	}
}

func TestFinishSession(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	svc.now = steppedClock(time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC), 10*time.Minute)
	ctx := t.Context()

	session, err := svc.StartSession(ctx, TypeLegs)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	for _, set := range session.Sets {
		if _, err := svc.CompleteSet(ctx, set.ID, set.Reps, nil); err != nil {
			t.Fatalf("CompleteSet %s: %v", set.ID, err)
		}
	}

	finished, err := svc.FinishSession(ctx)
	if err != nil {
		t.Fatalf("FinishSession: %v", err)
	}
	if !finished.Completed {
		t.Error("finished session not marked completed")
	}
	if finished.EndTime == nil || !finished.EndTime.After(finished.StartTime) {
		t.Errorf("end time %v not after start time %v", finished.EndTime, finished.StartTime)
	}

	if _, err := svc.FinishSession(ctx); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("second FinishSession: got %v, want ErrNoActiveSession", err)
	}

	stats := svc.SessionStats(finished)
	if stats.CompletionRate != 100 {
		t.Errorf("completion rate: got %v, want 100", stats.CompletionRate)
	}
	if stats.CompletedSets != stats.TotalSets {
		t.Errorf("completed %d of %d sets", stats.CompletedSets, stats.TotalSets)
	}
	if stats.DurationMinutes <= 0 {
		t.Errorf("duration: got %d minutes", stats.DurationMinutes)
	}
}

func TestActive_RestoredFromStore(t *testing.T) {
	t.Parallel()
	svc, st := newTestService(t)
	ctx := t.Context()

	started, err := svc.StartSession(ctx, TypePull)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	// A fresh service over the same store resumes the session.
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	restarted := NewService(st, cat, testhelpers.NewLogger(testhelpers.NewWriter(t)))

	active, ok, err := restarted.Active(ctx)
	if err != nil || !ok {
		t.Fatalf("Active after restart: ok=%v err=%v", ok, err)
	}
	if active.ID != started.ID {
		t.Errorf("restored session id: got %s, want %s", active.ID, started.ID)
	}
	if _, err := restarted.StartSession(ctx, TypeLegs); !errors.Is(err, ErrSessionActive) {
		t.Errorf("StartSession after restart: got %v, want ErrSessionActive", err)
	}

	// Finishing on the restarted service frees both instances.
	if _, err := restarted.FinishSession(ctx); err != nil {
		t.Fatalf("FinishSession after restart: %v", err)
	}
	if _, ok, err := restarted.Active(ctx); err != nil || ok {
		t.Errorf("session still active after finish: ok=%v err=%v", ok, err)
	}
}

func TestWeeklyStats(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if diff := cmp.Diff(WeekStats{}, svc.WeeklyStats(nil)); diff != "" {
		t.Errorf("empty history stats (-want +got):\n%s", diff)
	}

	history := []Session{
		{
			ID: "workout-1", Date: now.AddDate(0, 0, -1).Format(time.DateOnly),
			Type: TypePush, Completed: true,
			Sets: []Set{
				{ID: "a", Reps: 12, Completed: true},
				{ID: "b", Reps: 10, Completed: true},
				{ID: "c", Reps: 12},
			},
		},
		{
			ID: "workout-2", Date: now.AddDate(0, 0, -3).Format(time.DateOnly),
			Type: TypeLegs, Completed: true,
			Sets: []Set{{ID: "d", Reps: 20, Completed: true}},
		},
		// Unfinished sessions and sessions outside the window are
		// excluded.
		{
			ID: "workout-3", Date: now.AddDate(0, 0, -2).Format(time.DateOnly),
			Type: TypePull,
			Sets: []Set{{ID: "e", Reps: 12, Completed: true}},
		},
		{
			ID: "workout-4", Date: now.AddDate(0, 0, -10).Format(time.DateOnly),
			Type: TypeFullBody, Completed: true,
			Sets: []Set{{ID: "f", Reps: 12, Completed: true}},
		},
	}
	got := svc.WeeklyStats(history)
	want := WeekStats{
		TotalWorkouts: 2,
		TotalSets:     3,
		TotalReps:     42,
		WorkoutTypes:  []Type{TypePush, TypeLegs},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("weekly stats mismatch (-want +got):\n%s", diff)
	}
}

func TestRecommendations(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := t.Context()

	recs, err := svc.Recommendations(ctx)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	// An empty history asks for both leg work and a starter session.
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2: %v", len(recs), recs)
	}

	if _, err := svc.StartSession(ctx, TypeLegs); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := svc.FinishSession(ctx); err != nil {
		t.Fatalf("FinishSession: %v", err)
	}
	recs, err = svc.Recommendations(ctx)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	for _, rec := range recs {
		if rec == "Time for leg day! Your lower body needs attention." {
			t.Error("leg day still recommended after a legs session")
		}
	}
}

func TestTodaysWorkout(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	// 2026-09-07 is a Monday; day 1 of push pull legs is push.
	svc.now = func() time.Time { return time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC) }
	scheduled, ok := svc.TodaysWorkout("push-pull-legs")
	if !ok {
		t.Fatal("expected a scheduled workout on Monday")
	}
	if scheduled.WorkoutType != "push" {
		t.Errorf("Monday workout: got %s, want push", scheduled.WorkoutType)
	}

	// 2026-09-06 is a Sunday, day 7; full body trains Mon/Wed/Fri only.
	svc.now = func() time.Time { return time.Date(2026, 9, 6, 9, 0, 0, 0, time.UTC) }
	if _, ok := svc.TodaysWorkout("full-body"); ok {
		t.Error("expected a rest day on Sunday")
	}

	if _, ok := svc.TodaysWorkout("no-such-plan"); ok {
		t.Error("expected no workout for an unknown plan")
	}
}
