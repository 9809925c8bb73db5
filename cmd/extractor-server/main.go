package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audioextractor/internal/adapters/r2"
	"audioextractor/internal/adapters/webhook"
	"audioextractor/internal/adapters/ytdlp"
	"audioextractor/internal/config"
	"audioextractor/internal/jobs"
	"audioextractor/internal/server"
	"audioextractor/internal/service"
)

const shutdownTimeout = 10 * time.Second

var listenAddr string

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	// Environment variables may also be set directly; a missing .env file
	// is fine.
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "extractor-server",
		Short: "YouTube audio extraction service",
		Long:  "HTTP service that extracts audio from video URLs with yt-dlp, uploads the MP3 to R2, and reports the result synchronously or via webhook.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(ctx, logger)
		},
	}
	rootCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides LISTEN_ADDR)")

	if err := rootCmd.Execute(); err != nil {
		logger.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	extractor := ytdlp.New(
		ytdlp.WithBinaryPath(cfg.YtDlpPath),
		ytdlp.WithCookieFile(cfg.CookiePath),
		ytdlp.WithProxy(cfg.ProxyURL),
		ytdlp.WithImpersonation(cfg.Impersonate),
		ytdlp.WithLogger(logger),
	)

	uploader, err := r2.New(ctx, cfg.R2, logger)
	if err != nil {
		return err
	}

	notifier := webhook.NewNotifier(logger)
	registry := jobs.NewRegistry(cfg.MaxAsyncJobs)
	orchestrator := service.NewOrchestrator(extractor, uploader, notifier, registry, logger)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(orchestrator, cfg.APIKey, logger).Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.ListenAddr),
			zap.Int("max_async_jobs", cfg.MaxAsyncJobs))
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errChan; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("shutdown completed")
		return nil
	}
}
