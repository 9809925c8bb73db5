// Package ytdlp invokes the yt-dlp binary to download and transcode the
// audio track of a video URL.
package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"audioextractor/internal/core/domain"
)

const versionProbeTimeout = 5 * time.Second

// fixedArgs is the non-negotiable tool configuration: best audio stream,
// transcoded to mp3, single video only, randomized pacing between upstream
// requests, and bounded exponential backoff on transient failures.
var fixedArgs = []string{
	"-f", "bestaudio/best",
	"--extract-audio",
	"--audio-format", "mp3",
	"--audio-quality", "0",
	"--no-playlist",
	"--no-progress",
	"--sleep-interval", "10",
	"--max-sleep-interval", "30",
	"--sleep-requests", "2",
	"--retries", "10",
	"--fragment-retries", "10",
	"--retry-sleep", "http:exp=5",
	"--retry-sleep", "fragment:exp=2",
	"--print-json",
	"-o", "%(id)s.%(ext)s",
}

// Extractor runs yt-dlp in a disposable per-request working directory and
// reads the produced mp3 fully into memory.
type Extractor struct {
	binaryPath  string
	cookiePath  string
	proxyURL    string
	impersonate string
	runner      CommandRunner
	logger      *zap.Logger
}

// Option is a functional option for configuring Extractor.
type Option func(*Extractor)

// WithBinaryPath sets a custom yt-dlp executable path.
func WithBinaryPath(path string) Option {
	return func(e *Extractor) {
		e.binaryPath = path
	}
}

// WithCookieFile sets a cookies file for authenticated extraction. The flag
// is only passed to the tool when the file exists.
func WithCookieFile(path string) Option {
	return func(e *Extractor) {
		e.cookiePath = path
	}
}

// WithProxy routes tool traffic through an upstream proxy.
func WithProxy(proxyURL string) Option {
	return func(e *Extractor) {
		e.proxyURL = proxyURL
	}
}

// WithImpersonation enables yt-dlp browser impersonation (e.g. "chrome").
func WithImpersonation(target string) Option {
	return func(e *Extractor) {
		e.impersonate = target
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func WithCommandRunner(runner CommandRunner) Option {
	return func(e *Extractor) {
		e.runner = runner
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates a yt-dlp backed extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		binaryPath: "yt-dlp",
		runner:     ExecCommandRunner{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract downloads the audio for sourceURL into a temporary directory,
// reads the resulting mp3 into memory, and removes the directory on every
// exit path.
func (e *Extractor) Extract(ctx context.Context, sourceURL string) (*domain.ExtractionResult, error) {
	workDir, err := os.MkdirTemp("", "ytdlp-*")
	if err != nil {
		return nil, domain.WrapError(domain.KindExtraction, "failed to create working directory", err)
	}
	defer os.RemoveAll(workDir)

	args := e.buildArgs(sourceURL)
	e.logger.Debug("running yt-dlp",
		zap.String("url", sourceURL),
		zap.String("work_dir", workDir))

	start := time.Now()
	stdout, stderr, err := e.runner.Run(ctx, workDir, e.binaryPath, args...)
	if err != nil {
		return nil, domain.WrapError(domain.KindExtraction,
			fmt.Sprintf("yt-dlp failed: %s", lastLine(stderr)), err)
	}

	info, err := parseInfoJSON(stdout)
	if err != nil {
		return nil, domain.WrapError(domain.KindExtraction, "failed to parse yt-dlp output", err)
	}
	if info.ID == "" {
		return nil, domain.NewError(domain.KindExtraction, "yt-dlp reported no video id")
	}

	// The output template writes {id}.{ext} and the postprocessor rewrites
	// it to {id}.mp3. The lookup trusts the tool-reported id to match the
	// produced filename.
	audioPath := filepath.Join(workDir, info.ID+".mp3")
	fileBytes, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, domain.WrapError(domain.KindExtraction,
			fmt.Sprintf("audio file %s.mp3 missing after extraction", info.ID), err)
	}

	e.logger.Info("extraction completed",
		zap.String("video_id", info.ID),
		zap.Int("bytes", len(fileBytes)),
		zap.Duration("elapsed", time.Since(start)))

	return &domain.ExtractionResult{
		FileBytes: fileBytes,
		Metadata: domain.VideoMetadata{
			Title:    info.Title,
			Duration: int(info.Duration),
			Channel:  info.Channel,
			VideoID:  info.ID,
		},
	}, nil
}

// Version reports the installed yt-dlp version, or "unknown" if the probe
// errors or times out.
func (e *Extractor) Version(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	stdout, _, err := e.runner.Run(ctx, "", e.binaryPath, "--version")
	if err != nil {
		return "unknown"
	}
	v := strings.TrimSpace(string(stdout))
	if v == "" {
		return "unknown"
	}
	return v
}

func (e *Extractor) buildArgs(sourceURL string) []string {
	args := make([]string, 0, len(fixedArgs)+7)
	args = append(args, fixedArgs...)

	if e.cookiePath != "" {
		if _, err := os.Stat(e.cookiePath); err == nil {
			args = append(args, "--cookies", e.cookiePath)
		}
	}
	if e.proxyURL != "" {
		args = append(args, "--proxy", e.proxyURL)
	}
	if e.impersonate != "" {
		args = append(args, "--impersonate", e.impersonate)
	}

	return append(args, sourceURL)
}

// videoInfo is the subset of the yt-dlp info JSON we care about. Duration
// is a float in the tool output; callers truncate to whole seconds.
type videoInfo struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Channel  string  `json:"channel"`
}

// parseInfoJSON finds the info line in yt-dlp stdout. With --print-json the
// tool emits one JSON object per downloaded video alongside other output.
func parseInfoJSON(stdout []byte) (*videoInfo, error) {
	lines := strings.Split(string(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var info videoInfo
		if err := json.Unmarshal([]byte(line), &info); err != nil {
			return nil, err
		}
		return &info, nil
	}
	return nil, fmt.Errorf("no JSON object in yt-dlp output")
}

func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
