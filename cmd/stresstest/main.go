// Command stresstest hammers a running gymistic server with realistic API
// traffic and fails when the success rate drops below the threshold.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gymistic/gymistic/internal/e2etest"
	"github.com/gymistic/gymistic/internal/logging"
	"github.com/gymistic/gymistic/internal/testhelpers"
	"github.com/gymistic/gymistic/internal/workout"
	"golang.org/x/sync/errgroup"
)

const (
	smokeTimeout            = 10 * time.Second
	scenarioTimeout         = 30 * time.Second
	historyTimeout          = 5 * time.Minute
	maxConcurrentOperations = 20
	numScenarios            = 50
	mealPlanHistoryWeeks    = 26 // 6 months of weekly meal plans
	daysPerWeek             = 7
	dailyBudget             = 1000.0
	baseWeight              = 15.0
	weightRange             = 20
	successRateThreshold    = 95.0
	percentageMultiplier    = 100
	expectedArgsCount       = 2
)

// smokeTest verifies basic functionality before the load is applied.
func smokeTest(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, smokeTimeout)
	defer cancel()

	var health struct {
		Status string `json:"status"`
	}
	if err := client.GetJSON(ctx, "/api/healthy", &health); err != nil {
		return fmt.Errorf("get health: %w", err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", health.Status)
	}

	var quotes struct {
		Quotes []struct {
			ID string `json:"id"`
		} `json:"quotes"`
	}
	if err := client.GetJSON(ctx, "/api/quotes", &quotes); err != nil {
		return fmt.Errorf("get quotes: %w", err)
	}
	if len(quotes.Quotes) == 0 {
		return fmt.Errorf("expected quotes in the catalogue")
	}
	return nil
}

// seedMealPlanHistory generates six months of weekly meal plans so the load
// test runs against a populated database.
func seedMealPlanHistory(ctx context.Context, client *e2etest.Client, logger *slog.Logger) error {
	now := time.Now()
	startDate := now.AddDate(0, -6, 0)

	for week := range mealPlanHistoryWeeks {
		planDate := startDate.AddDate(0, 0, week*daysPerWeek)
		if planDate.After(now) {
			continue
		}
		dateStr := planDate.Format(time.DateOnly)

		input := map[string]any{"dailyBudget": dailyBudget, "date": dateStr}
		if err := client.PostJSON(ctx, "/api/meal-plans", input, nil); err != nil {
			logger.LogAttrs(ctx, slog.LevelWarn, "failed to seed meal plan",
				slog.String("date", dateStr),
				slog.Any("error", err))
			continue
		}

		logger.LogAttrs(ctx, slog.LevelDebug, "seeded meal plan", slog.String("date", dateStr))
	}

	return nil
}

// workoutScenario drives a full workout flow: start a session, complete its
// sets, finish it and read the derived statistics.
func workoutScenario(ctx context.Context, client *e2etest.Client, logger *slog.Logger) error {
	var session workout.Session
	input := map[string]any{"type": "push"}
	if err := client.PostJSON(ctx, "/api/workouts/sessions", input, &session); err != nil {
		// Another scenario holds the session. Piggyback on it instead.
		resp, getErr := client.Get(ctx, "/api/workouts/sessions/active")
		if getErr != nil {
			return fmt.Errorf("get active session: %w", getErr)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("start session: %w", err)
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "session already active, skipping")
		return nil
	}

	for _, set := range session.Sets {
		setInput := map[string]any{
			"reps":   set.Reps,
			"weight": baseWeight + float64(rand.IntN(weightRange)),
		}
		if err := client.PostJSON(ctx, "/api/workouts/sessions/sets/"+set.ID+"/complete", setInput, nil); err != nil {
			return fmt.Errorf("complete set %s: %w", set.ID, err)
		}
	}

	if err := client.PostJSON(ctx, "/api/workouts/sessions/finish", nil, nil); err != nil {
		return fmt.Errorf("finish session: %w", err)
	}

	var stats workout.WeekStats
	if err := client.GetJSON(ctx, "/api/workouts/stats/weekly", &stats); err != nil {
		return fmt.Errorf("get weekly stats: %w", err)
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "workout scenario completed",
		slog.String("session_id", session.ID),
		slog.Int("total_workouts", stats.TotalWorkouts))

	return nil
}

// mealScenario reads the catalogue endpoints and today's plan the way the
// app's home screen does.
func mealScenario(ctx context.Context, client *e2etest.Client, logger *slog.Logger) error {
	resp, err := client.Get(ctx, "/api/meal-plans/today")
	if err != nil {
		return fmt.Errorf("get today's plan: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		if err = client.PostJSON(ctx, "/api/meal-plans", map[string]any{"dailyBudget": dailyBudget}, nil); err != nil {
			return fmt.Errorf("generate plan: %w", err)
		}
	}

	var recommendations struct {
		Economical []struct {
			ID string `json:"id"`
		} `json:"economical"`
	}
	if err = client.GetJSON(ctx, "/api/meals/recommendations?budget=300", &recommendations); err != nil {
		return fmt.Errorf("get recommendations: %w", err)
	}

	var quote struct {
		ID string `json:"id"`
	}
	if err = client.GetJSON(ctx, "/api/quotes/daily", &quote); err != nil {
		return fmt.Errorf("get daily quote: %w", err)
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "meal scenario completed",
		slog.String("daily_quote", quote.ID),
		slog.Int("economical_meals", len(recommendations.Economical)))

	return nil
}

// runLoadTest launches the scenarios with bounded concurrency and reports the
// aggregate success rate.
func runLoadTest(ctx context.Context, url string, logger *slog.Logger) error {
	logger.LogAttrs(ctx, slog.LevelInfo, "starting load test", slog.Int("num_scenarios", numScenarios))

	var successCount, failureCount int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)

	for i := range numScenarios {
		g.Go(func() error {
			scenarioCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
			defer cancel()

			client := e2etest.NewClient(url)
			scenario := mealScenario
			if i%2 == 0 {
				scenario = workoutScenario
			}

			if err := scenario(scenarioCtx, client, logger); err != nil {
				atomic.AddInt64(&failureCount, 1)
				// Log individual failures but keep the other scenarios running.
				logger.LogAttrs(scenarioCtx, slog.LevelWarn, "scenario failed",
					slog.Int("scenario", i),
					slog.Any("error", err))
				return nil
			}

			atomic.AddInt64(&successCount, 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	successRate := float64(successCount) / float64(numScenarios) * percentageMultiplier

	logger.LogAttrs(ctx, slog.LevelInfo, "load test completed",
		slog.Int64("successful", successCount),
		slog.Int64("failed", failureCount),
		slog.Float64("success_rate", successRate))

	if successRate < successRateThreshold {
		return fmt.Errorf("load test failed: success rate %.1f%% below threshold", successRate)
	}

	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)

	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))

	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}
	client := e2etest.NewClient(url)

	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "running smoke test first")
	if err := smokeTest(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "smoke test failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "smoke test passed")

	historyCtx, cancel := context.WithTimeout(ctx, historyTimeout)
	defer cancel()
	seedStart := time.Now()
	if err := seedMealPlanHistory(historyCtx, client, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "meal plan seeding failed, continuing with load test",
			slog.Any("error", err))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "meal plan history seeded",
		slog.Duration("seed_duration", time.Since(seedStart)))

	loadTestStart := time.Now()
	if err := runLoadTest(ctx, url, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "load test completed successfully",
		slog.Duration("total_duration", time.Since(start)),
		slog.Duration("load_test_duration", time.Since(loadTestStart)))
}
