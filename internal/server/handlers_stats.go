package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/meltforce/burnlog/internal/models"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)

	refresh := r.URL.Query().Get("refresh") != ""
	if !refresh {
		// A user with no persisted row yet gets a fresh computation so the
		// first profile view is never empty.
		exists, err := s.db.HasUserStats(r.Context(), userID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		refresh = !exists
	}

	var stats models.UserStats
	var err error
	if refresh {
		stats, err = s.engine.RefreshStats(r.Context(), userID)
	} else {
		stats, err = s.db.GetUserStats(r.Context(), userID)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	since, err := parsePeriodStart(r.URL.Query().Get("period"), time.Now().UTC())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	metrics, err := s.db.ActivityMetrics(r.Context(), userIDFromContext(r), since)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	trendType := r.URL.Query().Get("trend_type")
	if trendType == "" {
		trendType = "weekly"
	}

	buckets, err := s.db.ActivityTrends(r.Context(), userIDFromContext(r), trendType, time.Now().UTC())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"trend_type": trendType,
		"trends":     buckets,
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	period, err := parseLeaderboardPeriod(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	snapshot, err := s.engine.Leaderboard.Build(r.Context(), period, time.Now().UTC())
	if err != nil {
		s.log.Error("building leaderboard", "period", period, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleLeaderboardMe(w http.ResponseWriter, r *http.Request) {
	period, err := parseLeaderboardPeriod(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Build first so the snapshot exists for today's key.
	snapshot, err := s.engine.Leaderboard.Build(r.Context(), period, time.Now().UTC())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	entry, err := s.db.UserEntry(r.Context(), period, snapshot.SnapshotDate, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if entry == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not ranked"})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func parseLeaderboardPeriod(r *http.Request) (models.LeaderboardPeriod, error) {
	period := models.LeaderboardPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = models.LeaderboardWeekly
	}
	if !period.Valid() {
		return "", fmt.Errorf("unknown leaderboard period %q", period)
	}
	return period, nil
}

// parsePeriodStart maps a metrics period name to the start of its rolling
// window. An empty or "all" period means lifetime (nil lower bound).
func parsePeriodStart(period string, now time.Time) (*time.Time, error) {
	var since time.Time
	switch period {
	case "", "all":
		return nil, nil
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, 0, -30)
	case "year":
		since = now.AddDate(0, 0, -365)
	default:
		return nil, fmt.Errorf("unknown metrics period %q", period)
	}
	return &since, nil
}
