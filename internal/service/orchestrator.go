// Package service composes the extraction pipeline: extract audio, derive
// the storage key, upload, and report the outcome.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"audioextractor/internal/core/blobpath"
	"audioextractor/internal/core/domain"
	"audioextractor/internal/core/ports"
	"audioextractor/internal/jobs"
)

const audioContentType = "audio/mpeg"

// webhookTimeout bounds outbound callback delivery. Failed deliveries are
// logged and dropped, never retried.
const webhookTimeout = 30 * time.Second

// Result is the outcome of a completed pipeline run.
type Result struct {
	R2URL    string
	Metadata domain.VideoMetadata
}

// Orchestrator coordinates the download-upload-notify workflow.
type Orchestrator struct {
	extractor ports.AudioExtractor
	uploader  ports.BlobUploader
	notifier  ports.WebhookNotifier
	registry  *jobs.Registry
	logger    *zap.Logger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(
	extractor ports.AudioExtractor,
	uploader ports.BlobUploader,
	notifier ports.WebhookNotifier,
	registry *jobs.Registry,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		uploader:  uploader,
		notifier:  notifier,
		registry:  registry,
		logger:    logger,
	}
}

// Extract runs the pipeline synchronously with a transcription-scoped
// storage key. The caller blocks for the full pipeline duration.
func (o *Orchestrator) Extract(ctx context.Context, req domain.ExtractionRequest) (*Result, error) {
	key := blobpath.YouTubeAudio(req.UserID, req.TranscriptionID)
	return o.run(ctx, req.URL, func(domain.VideoMetadata) string { return key })
}

// ExtractSimple runs the pipeline synchronously with the flat storage key
// derived from the tool-reported video id.
func (o *Orchestrator) ExtractSimple(ctx context.Context, sourceURL string) (*Result, error) {
	return o.run(ctx, sourceURL, func(meta domain.VideoMetadata) string {
		return blobpath.SimpleDownload(meta.VideoID)
	})
}

// ExtractAsync reserves a job slot, acknowledges immediately, and runs the
// pipeline in the background. The webhook is the only completion signal.
// Returns jobs.ErrCapacity when too many jobs are already in flight.
func (o *Orchestrator) ExtractAsync(req domain.ExtractionRequest) (domain.Job, error) {
	job, err := o.registry.Accept(req.URL, req.TranscriptionID)
	if err != nil {
		return domain.Job{}, err
	}

	go o.runAsync(job.ID, req)
	return job, nil
}

// ToolVersion reports the extraction tool's version for health checks.
func (o *Orchestrator) ToolVersion(ctx context.Context) string {
	return o.extractor.Version(ctx)
}

// Jobs enumerates tracked async jobs.
func (o *Orchestrator) Jobs() []domain.Job {
	return o.registry.Snapshot()
}

func (o *Orchestrator) run(ctx context.Context, sourceURL string, keyFor func(domain.VideoMetadata) string) (*Result, error) {
	o.logger.Info("starting extraction pipeline", zap.String("url", sourceURL))

	result, err := o.extractor.Extract(ctx, sourceURL)
	if err != nil {
		o.logger.Error("extraction failed", zap.String("url", sourceURL), zap.Error(err))
		return nil, err
	}

	key := keyFor(result.Metadata)
	publicURL, err := o.uploader.Upload(ctx, key, audioContentType, result.FileBytes)
	if err != nil {
		o.logger.Error("upload failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	o.logger.Info("pipeline completed",
		zap.String("video_id", result.Metadata.VideoID),
		zap.String("r2_url", publicURL))

	return &Result{R2URL: publicURL, Metadata: result.Metadata}, nil
}

// runAsync executes the pipeline for an accepted job and delivers exactly
// one webhook with the terminal outcome. The job context is detached from
// the originating request, which has already been answered.
func (o *Orchestrator) runAsync(jobID string, req domain.ExtractionRequest) {
	ctx := context.Background()
	o.registry.Start(jobID)

	var payload domain.WebhookPayload
	result, err := o.Extract(ctx, req)
	if err != nil {
		o.registry.Finish(jobID, err.Error())
		payload = domain.ErrorPayload(req.TranscriptionID, err.Error())
	} else {
		o.registry.Finish(jobID, "")
		payload = domain.CompletedPayload(req.TranscriptionID, result.R2URL, result.Metadata)
	}

	notifyCtx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
	defer cancel()

	if err := o.notifier.Notify(notifyCtx, req.WebhookURL, payload); err != nil {
		o.logger.Warn("webhook delivery failed",
			zap.String("job_id", jobID),
			zap.String("webhook_url", req.WebhookURL),
			zap.Error(err))
	}
}
