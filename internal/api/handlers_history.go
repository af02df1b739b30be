package api

import "net/http"

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	history := s.engine.AuditLog().History(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": history,
		"count":   len(history),
	})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.engine.AuditLog().Clear(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates := s.engine.Registry().List()
	writeJSON(w, http.StatusOK, map[string]any{
		"templates": templates,
		"count":     len(templates),
	})
}
