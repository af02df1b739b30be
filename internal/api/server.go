package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vasuvaghasia/formate/internal/config"
	"github.com/vasuvaghasia/formate/internal/engine"
)

// Server is the HTTP API server for formate.
type Server struct {
	router chi.Router
	engine *engine.Engine
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(eng *engine.Engine, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		engine: eng,
		log:    log,
		cfg:    cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.FormateAPIKey, s.log))

		r.Post("/api/format/runs", s.handleCreateRun)
		r.Get("/api/format/runs/{runID}", s.handleGetRun)
		r.Post("/api/format/runs/{runID}/changes/{changeID}", s.handleToggleChange)
		r.Post("/api/format/runs/{runID}/apply", s.handleApplyRun)
		r.Get("/api/format/runs/{runID}/report", s.handleRunReport)
		r.Get("/api/format/runs/{runID}/result", s.handleRunResult)

		r.Get("/api/format/history", s.handleGetHistory)
		r.Delete("/api/format/history", s.handleClearHistory)

		r.Get("/api/templates", s.handleListTemplates)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.engine.QueueDepth(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
