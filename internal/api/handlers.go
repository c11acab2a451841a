package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"talentops-bot/internal/models"
)

const maxQueryLength = 2000

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var query models.Query
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	query.Text = strings.TrimSpace(query.Text)
	if query.Text == "" {
		s.respondError(w, http.StatusBadRequest, "query text is required")
		return
	}
	if len(query.Text) > maxQueryLength {
		s.respondError(w, http.StatusBadRequest, "query text is too long")
		return
	}

	response := s.processor.Process(r.Context(), query)
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	deps := make(map[string]string, len(s.checks))
	healthy := true
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			deps[name] = "down"
			healthy = false
			continue
		}
		deps[name] = "up"
	}

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	s.respondJSON(w, code, map[string]interface{}{
		"status":       status,
		"name":         s.app.Name,
		"version":      s.app.Version,
		"environment":  s.app.Environment,
		"dependencies": deps,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
