package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/burnlog/internal/engine"
	"github.com/meltforce/burnlog/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	engine *engine.Engine
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, eng *engine.Engine, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		engine: eng,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(Identity(s.db))

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/activities", s.handleCreateActivity)
		r.Delete("/api/v1/activities/{id}", s.handleDeleteActivity)
		r.Post("/api/v1/goals", s.handleCreateGoal)
		r.Delete("/api/v1/goals/{id}", s.handleDeleteGoal)
	})

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/activities", s.handleListActivities)
	s.router.Get("/api/v1/activities/recent", s.handleRecentActivities)
	s.router.Get("/api/v1/activities/{id}", s.handleGetActivity)
	s.router.Get("/api/v1/metrics", s.handleMetrics)
	s.router.Get("/api/v1/trends", s.handleTrends)
	s.router.Get("/api/v1/goals", s.handleListGoals)
	s.router.Get("/api/v1/goals/{id}", s.handleGetGoal)
	s.router.Get("/api/v1/profile", s.handleProfile)
	s.router.Get("/api/v1/leaderboard", s.handleLeaderboard)
	s.router.Get("/api/v1/leaderboard/me", s.handleLeaderboardMe)
}
