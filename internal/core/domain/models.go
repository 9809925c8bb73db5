package domain

import "time"

// ExtractionRequest is an accepted request to extract audio from a video URL.
// It is immutable once accepted by the transport layer.
type ExtractionRequest struct {
	URL             string
	UserID          string
	TranscriptionID string
	WebhookURL      string
}

// VideoMetadata describes the source video as reported by the extraction tool.
type VideoMetadata struct {
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Channel  string `json:"channel"`
	VideoID  string `json:"video_id"`
}

// ExtractionResult is the output of a successful audio extraction.
// FileBytes is handed to the uploader and not retained afterwards.
type ExtractionResult struct {
	FileBytes []byte
	Metadata  VideoMetadata
}

// JobStatus tracks an async job through its lifecycle:
// accepted -> running -> (succeeded | failed).
type JobStatus string

const (
	JobStatusAccepted  JobStatus = "accepted"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// Job represents a single async extraction job. Jobs live only in process
// memory; a crash loses in-flight jobs.
type Job struct {
	ID              string     `json:"job_id"`
	URL             string     `json:"url"`
	TranscriptionID string     `json:"transcription_id"`
	Status          JobStatus  `json:"status"`
	Error           string     `json:"error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// WebhookPayload is the body POSTed to the caller's webhook when an async
// job reaches a terminal state. Status discriminates the two variants.
type WebhookPayload struct {
	Status          string         `json:"status"`
	TranscriptionID string         `json:"transcription_id"`
	R2URL           string         `json:"r2_url,omitempty"`
	Metadata        *VideoMetadata `json:"metadata,omitempty"`
	Error           string         `json:"error,omitempty"`
}

// CompletedPayload builds the success variant of a webhook payload.
func CompletedPayload(transcriptionID, r2URL string, meta VideoMetadata) WebhookPayload {
	return WebhookPayload{
		Status:          "completed",
		TranscriptionID: transcriptionID,
		R2URL:           r2URL,
		Metadata:        &meta,
	}
}

// ErrorPayload builds the failure variant of a webhook payload.
func ErrorPayload(transcriptionID, errMsg string) WebhookPayload {
	return WebhookPayload{
		Status:          "error",
		TranscriptionID: transcriptionID,
		Error:           errMsg,
	}
}
