package main

import (
	"net/http"
	"testing"

	"github.com/gymistic/gymistic/internal/e2etest"
	"github.com/gymistic/gymistic/internal/testhelpers"
	"github.com/gymistic/gymistic/internal/workout"
)

func Test_application_workoutSessions(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	client := server.Client()

	t.Run("No active session", func(t *testing.T) {
		resp, err := client.Get(ctx, "/api/workouts/sessions/active")
		if err != nil {
			t.Fatalf("Failed to get active session: %v", err)
		}
		defer resp.Body.Close()
		if got, want := resp.StatusCode, http.StatusNotFound; got != want {
			t.Errorf("Expected status %d, got %d", want, got)
		}
	})

	t.Run("Completing a set without a session conflicts", func(t *testing.T) {
		resp, err := client.Post(ctx, "/api/workouts/sessions/sets/set-1/complete", map[string]any{"reps": 10})
		if err != nil {
			t.Fatalf("Failed to post: %v", err)
		}
		defer resp.Body.Close()
		if got, want := resp.StatusCode, http.StatusConflict; got != want {
			t.Errorf("Expected status %d, got %d", want, got)
		}
	})

	var session workout.Session

	t.Run("Start session", func(t *testing.T) {
		if err := client.PostJSON(ctx, "/api/workouts/sessions", map[string]any{"type": "push"}, &session); err != nil {
			t.Fatalf("Failed to start session: %v", err)
		}
		if got, want := session.Type, workout.TypePush; got != want {
			t.Errorf("Expected session type %q, got %q", want, got)
		}
		if len(session.Sets) == 0 {
			t.Fatal("Expected generated sets")
		}
		for _, set := range session.Sets {
			if set.Completed {
				t.Errorf("Expected set %q to start uncompleted", set.ID)
			}
		}
	})

	t.Run("Starting a second session conflicts", func(t *testing.T) {
		resp, err := client.Post(ctx, "/api/workouts/sessions", map[string]any{"type": "legs"})
		if err != nil {
			t.Fatalf("Failed to post: %v", err)
		}
		defer resp.Body.Close()
		if got, want := resp.StatusCode, http.StatusConflict; got != want {
			t.Errorf("Expected status %d, got %d", want, got)
		}
	})

	t.Run("Complete sets", func(t *testing.T) {
		for _, set := range session.Sets {
			input := map[string]any{"reps": set.Reps, "weight": 40.0}
			if err := client.PostJSON(ctx, "/api/workouts/sessions/sets/"+set.ID+"/complete", input, &session); err != nil {
				t.Fatalf("Failed to complete set %q: %v", set.ID, err)
			}
		}
		for _, set := range session.Sets {
			if !set.Completed {
				t.Errorf("Expected set %q to be completed", set.ID)
			}
		}
	})

	t.Run("Unknown set returns 404", func(t *testing.T) {
		resp, err := client.Post(ctx, "/api/workouts/sessions/sets/no-such-set/complete", map[string]any{"reps": 10})
		if err != nil {
			t.Fatalf("Failed to post: %v", err)
		}
		defer resp.Body.Close()
		if got, want := resp.StatusCode, http.StatusNotFound; got != want {
			t.Errorf("Expected status %d, got %d", want, got)
		}
	})

	t.Run("Finish session", func(t *testing.T) {
		var result struct {
			Session workout.Session `json:"session"`
			Stats   workout.Stats   `json:"stats"`
		}
		if err := client.PostJSON(ctx, "/api/workouts/sessions/finish", nil, &result); err != nil {
			t.Fatalf("Failed to finish session: %v", err)
		}
		if !result.Session.Completed {
			t.Error("Expected finished session to be completed")
		}
		if got, want := result.Stats.CompletionRate, 100.0; got != want {
			t.Errorf("Expected completion rate %v, got %v", want, got)
		}

		resp, err := client.Get(ctx, "/api/workouts/sessions/active")
		if err != nil {
			t.Fatalf("Failed to get active session: %v", err)
		}
		defer resp.Body.Close()
		if got, want := resp.StatusCode, http.StatusNotFound; got != want {
			t.Errorf("Expected status %d after finish, got %d", want, got)
		}
	})

	t.Run("History and weekly stats", func(t *testing.T) {
		var history struct {
			Sessions []workout.Session `json:"sessions"`
		}
		if err := client.GetJSON(ctx, "/api/workouts/history", &history); err != nil {
			t.Fatalf("Failed to get history: %v", err)
		}
		if got, want := len(history.Sessions), 1; got != want {
			t.Fatalf("Expected %d sessions, got %d", want, got)
		}

		var stats workout.WeekStats
		if err := client.GetJSON(ctx, "/api/workouts/stats/weekly", &stats); err != nil {
			t.Fatalf("Failed to get weekly stats: %v", err)
		}
		if got, want := stats.TotalWorkouts, 1; got != want {
			t.Errorf("Expected %d workouts this week, got %d", want, got)
		}
		if got, want := stats.TotalSets, len(session.Sets); got != want {
			t.Errorf("Expected %d sets this week, got %d", want, got)
		}
	})

	t.Run("Recommendations", func(t *testing.T) {
		var body struct {
			Recommendations []string `json:"recommendations"`
		}
		if err := client.GetJSON(ctx, "/api/workouts/recommendations", &body); err != nil {
			t.Fatalf("Failed to get recommendations: %v", err)
		}
		if len(body.Recommendations) == 0 {
			t.Error("Expected at least one recommendation")
		}
	})

	t.Run("Today's scheduled workout", func(t *testing.T) {
		resp, err := client.Get(ctx, "/api/workouts/plans/no-such-plan/today")
		if err != nil {
			t.Fatalf("Failed to get: %v", err)
		}
		defer resp.Body.Close()
		if got, want := resp.StatusCode, http.StatusNotFound; got != want {
			t.Errorf("Expected status %d for unknown plan, got %d", want, got)
		}
	})
}
