package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"audioextractor/internal/core/domain"
	"audioextractor/internal/jobs"
)

type extractRequest struct {
	URL             string `json:"url"`
	UserID          string `json:"user_id"`
	TranscriptionID string `json:"transcription_id"`
	WebhookURL      string `json:"webhook_url"`
}

type extractResponse struct {
	Status   string               `json:"status"`
	R2URL    string               `json:"r2_url"`
	Metadata domain.VideoMetadata `json:"metadata"`
}

// handleExtract runs the full pipeline inline. The caller blocks for the
// pipeline duration, typically 15-45 seconds.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	if req.UserID == "" || req.TranscriptionID == "" {
		writeError(w, http.StatusBadRequest, "user_id and transcription_id are required")
		return
	}

	result, err := s.orchestrator.Extract(r.Context(), domain.ExtractionRequest{
		URL:             req.URL,
		UserID:          req.UserID,
		TranscriptionID: req.TranscriptionID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{
		Status:   "completed",
		R2URL:    result.R2URL,
		Metadata: result.Metadata,
	})
}

// handleExtractSimple runs the pipeline inline with the flat downloads/ key.
func (s *Server) handleExtractSimple(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := s.orchestrator.ExtractSimple(r.Context(), req.URL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{
		Status:   "completed",
		R2URL:    result.R2URL,
		Metadata: result.Metadata,
	})
}

// handleExtractAsync acknowledges immediately and leaves the outcome to the
// webhook. Acceptance guarantees only that the work was taken on, not that
// it will succeed.
func (s *Server) handleExtractAsync(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	if req.UserID == "" || req.TranscriptionID == "" {
		writeError(w, http.StatusBadRequest, "user_id and transcription_id are required")
		return
	}
	if !validURL(req.WebhookURL) {
		writeError(w, http.StatusBadRequest, "webhook_url must be a valid http(s) URL")
		return
	}

	job, err := s.orchestrator.ExtractAsync(domain.ExtractionRequest{
		URL:             req.URL,
		UserID:          req.UserID,
		TranscriptionID: req.TranscriptionID,
		WebhookURL:      req.WebhookURL,
	})
	if err != nil {
		if errors.Is(err, jobs.ErrCapacity) {
			writeError(w, http.StatusServiceUnavailable, "too many extractions in progress, try again later")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("async job accepted",
		zap.String("job_id", job.ID),
		zap.String("transcription_id", req.TranscriptionID))

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "accepted",
		"job_id":  job.ID,
		"message": "extraction started, result will be delivered to the webhook",
	})
}

// handleJobs enumerates tracked async jobs for operational visibility.
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orchestrator.Jobs())
}

// handleHealth reports service liveness and the installed yt-dlp version.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":        "healthy",
		"ytdlp_version": s.orchestrator.ToolVersion(r.Context()),
	})
}

// decodeRequest parses the JSON body and validates the source URL. It
// writes the error response itself and returns ok=false on rejection.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (extractRequest, bool) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	if !validURL(req.URL) {
		writeError(w, http.StatusBadRequest, "url must be a valid http(s) URL")
		return req, false
	}
	return req, true
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
