package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/burnlog/internal/engine"
	"github.com/meltforce/burnlog/internal/models"
)

// goalResponse decorates a goal with the derived read-side fields.
type goalResponse struct {
	models.Goal
	ProgressPercentage float64 `json:"progress_percentage"`
	DaysRemaining      int     `json:"days_remaining"`
	IsExpired          bool    `json:"is_expired"`
}

func newGoalResponse(g models.Goal, today time.Time) goalResponse {
	return goalResponse{
		Goal:               g,
		ProgressPercentage: g.ProgressPercentage(),
		DaysRemaining:      g.DaysRemaining(today),
		IsExpired:          g.IsExpired(today),
	}
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var g models.Goal
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	now := time.Now().UTC()
	g.ID = uuid.New()
	g.UserID = userIDFromContext(r)
	g.CurrentValue = 0
	g.Status = models.GoalActive
	if g.StartDate.IsZero() {
		g.StartDate = engine.DateOnly(now)
	}
	if g.EndDate.IsZero() {
		g.EndDate = defaultEndDate(g.StartDate, g.Period)
	}
	if err := g.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.db.InsertGoal(r.Context(), &g); err != nil {
		s.log.Error("insert goal", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// Seed progress from activities already inside the goal's window.
	updated, err := s.engine.Goals.Recompute(r.Context(), g, now)
	if err != nil {
		s.log.Error("initial goal evaluation", "goal", g.ID, "error", err)
		updated = g
	}

	writeJSON(w, http.StatusCreated, newGoalResponse(updated, engine.DateOnly(now)))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.db.ListGoals(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	today := engine.DateOnly(time.Now().UTC())
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, newGoalResponse(g, today))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid goal ID"})
		return
	}

	goal, err := s.db.GetGoal(r.Context(), id, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if goal == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
		return
	}

	now := time.Now().UTC()
	updated, err := s.engine.Goals.Recompute(r.Context(), *goal, now)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, newGoalResponse(updated, engine.DateOnly(now)))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid goal ID"})
		return
	}

	deleted, err := s.db.DeleteGoal(r.Context(), id, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// defaultEndDate derives an end date one period after the start when the
// client does not supply one.
func defaultEndDate(start time.Time, period models.GoalPeriod) time.Time {
	switch period {
	case models.PeriodDaily:
		return start.AddDate(0, 0, 1)
	case models.PeriodWeekly:
		return start.AddDate(0, 0, 7)
	case models.PeriodMonthly:
		return start.AddDate(0, 1, 0)
	case models.PeriodYearly:
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 0, 7)
}
