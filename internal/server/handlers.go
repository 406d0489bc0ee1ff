package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/burnlog/internal/models"
)

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var a models.Activity
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	a.ID = uuid.New()
	a.UserID = userIDFromContext(r)
	if a.Intensity == "" {
		a.Intensity = models.IntensityMedium
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now().UTC()
	}
	if err := a.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if a.CaloriesBurned == 0 {
		a.CaloriesBurned = models.EstimateCalories(a.Type, a.DurationMin, a.Intensity)
	}

	if err := s.db.InsertActivity(r.Context(), &a); err != nil {
		s.log.Error("insert activity", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if err := s.engine.OnActivityRecorded(r.Context(), a.UserID, a.OccurredAt); err != nil {
		// The activity is stored; stats and goals catch up on the next
		// recompute, so report success but log the failure.
		s.log.Error("recompute after activity", "user", a.UserID, "error", err)
	}

	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	filter := models.ActivityType(r.URL.Query().Get("type"))
	if filter != "" && !filter.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unknown activity type %q", filter)})
		return
	}

	activities, err := s.db.ActivitiesInRange(r.Context(), userIDFromContext(r), start, end, filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (s *Server) handleRecentActivities(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		if n > 100 {
			n = 100
		}
		limit = n
	}

	activities, err := s.db.RecentActivities(r.Context(), userIDFromContext(r), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid activity ID"})
		return
	}

	activity, err := s.db.GetActivity(r.Context(), id, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if activity == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "activity not found"})
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid activity ID"})
		return
	}

	userID := userIDFromContext(r)
	deleted, err := s.db.DeleteActivity(r.Context(), id, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "activity not found"})
		return
	}

	if err := s.engine.OnActivityRecorded(r.Context(), userID, time.Now().UTC()); err != nil {
		s.log.Error("recompute after delete", "user", userID, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 30 days
		end = time.Now().UTC()
		start = end.AddDate(0, 0, -30)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now().UTC()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
		}
	}
	return
}
