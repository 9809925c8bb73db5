// Package server is the HTTP transport shell over the extraction pipeline.
package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"audioextractor/internal/service"
)

// Server exposes the extraction endpoints.
type Server struct {
	orchestrator *service.Orchestrator
	apiKey       string
	logger       *zap.Logger
}

// New creates a Server. apiKey is the shared secret checked against the
// X-API-Key header on authenticated routes.
func New(orchestrator *service.Orchestrator, apiKey string, logger *zap.Logger) *Server {
	return &Server{
		orchestrator: orchestrator,
		apiKey:       apiKey,
		logger:       logger,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /extract", s.requireAPIKey(s.handleExtract))
	mux.HandleFunc("POST /extract-async", s.requireAPIKey(s.handleExtractAsync))
	mux.HandleFunc("POST /extract-simple", s.requireAPIKey(s.handleExtractSimple))
	mux.HandleFunc("GET /jobs", s.requireAPIKey(s.handleJobs))
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  msg,
	})
}
