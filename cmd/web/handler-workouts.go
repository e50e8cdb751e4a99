package main

import (
	"net/http"

	"github.com/gymistic/gymistic/internal/errors"
	"github.com/gymistic/gymistic/internal/workout"
)

// workoutStartPOST starts a new workout session. Responds with 409 when a
// session is already active.
func (app *application) workoutStartPOST(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Type workout.Type `json:"type"`
	}
	if !app.readJSON(w, r, &input) {
		return
	}
	if input.Type == "" {
		app.clientError(w, r, http.StatusBadRequest, "type is required")
		return
	}

	session, err := app.workoutService.StartSession(r.Context(), input.Type)
	if errors.Is(err, workout.ErrSessionActive) {
		app.clientError(w, r, http.StatusConflict, "a workout session is already active")
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, session)
}

// activeWorkoutGET returns the running session, 404 when idle.
func (app *application) activeWorkoutGET(w http.ResponseWriter, r *http.Request) {
	session, ok, err := app.workoutService.Active(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	app.writeJSON(w, r, http.StatusOK, session)
}

// completeSetPOST records the result of one set of the active session.
func (app *application) completeSetPOST(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Reps   int      `json:"reps"`
		Weight *float64 `json:"weight"`
	}
	if !app.readJSON(w, r, &input) {
		return
	}

	session, err := app.workoutService.CompleteSet(r.Context(), r.PathValue("setID"), input.Reps, input.Weight)
	if errors.Is(err, workout.ErrNoActiveSession) {
		app.clientError(w, r, http.StatusConflict, "no active workout session")
		return
	}
	if errors.Is(err, workout.ErrSetNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, session)
}

// workoutFinishPOST closes the active session and returns it together
// with its statistics.
func (app *application) workoutFinishPOST(w http.ResponseWriter, r *http.Request) {
	session, err := app.workoutService.FinishSession(r.Context())
	if errors.Is(err, workout.ErrNoActiveSession) {
		app.clientError(w, r, http.StatusConflict, "no active workout session")
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"session": session,
		"stats":   app.workoutService.SessionStats(session),
	})
}

// workoutHistoryGET lists all recorded sessions.
func (app *application) workoutHistoryGET(w http.ResponseWriter, r *http.Request) {
	history, err := app.workoutService.History(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"sessions": history})
}

// weeklyStatsGET aggregates the completed sessions of the last seven days.
func (app *application) weeklyStatsGET(w http.ResponseWriter, r *http.Request) {
	history, err := app.workoutService.History(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, app.workoutService.WeeklyStats(history))
}

// workoutRecommendationsGET derives training suggestions from the history.
func (app *application) workoutRecommendationsGET(w http.ResponseWriter, r *http.Request) {
	recommendations, err := app.workoutService.Recommendations(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"recommendations": recommendations})
}

// todaysWorkoutGET returns the scheduled workout of a plan for today, 404
// on rest days and unknown plans.
func (app *application) todaysWorkoutGET(w http.ResponseWriter, r *http.Request) {
	scheduled, ok := app.workoutService.TodaysWorkout(r.PathValue("planID"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	app.writeJSON(w, r, http.StatusOK, scheduled)
}
