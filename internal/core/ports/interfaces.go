package ports

import (
	"context"

	"audioextractor/internal/core/domain"
)

// AudioExtractor defines the contract for pulling the audio track out of a
// source video URL.
type AudioExtractor interface {
	// Extract downloads and transcodes the audio for the given URL.
	// The call is long-running (tool network I/O, typically 15-45s).
	Extract(ctx context.Context, sourceURL string) (*domain.ExtractionResult, error)

	// Version reports the extraction tool's version string, or "unknown"
	// if the probe fails.
	Version(ctx context.Context) string
}

// BlobUploader defines the contract for storing audio bytes in the blob
// backend.
type BlobUploader interface {
	// Upload stores data under key and returns the public URL.
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// WebhookNotifier defines the contract for delivering a terminal job
// outcome to a caller-supplied callback URL.
type WebhookNotifier interface {
	// Notify POSTs the payload to webhookURL. Delivery is best-effort:
	// exactly one attempt, no retries.
	Notify(ctx context.Context, webhookURL string, payload domain.WebhookPayload) error
}
