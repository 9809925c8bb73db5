// Package config builds the immutable process configuration from the
// environment. Components never read environment variables directly; main
// constructs a Config once and passes it into each constructor.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"audioextractor/internal/core/domain"
)

const (
	defaultListenAddr   = ":8000"
	defaultCookiePath   = "/config/cookies.txt"
	defaultYtDlpPath    = "yt-dlp"
	defaultMaxAsyncJobs = 4
)

// R2Config holds the S3-compatible storage backend settings.
type R2Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

// Config is the read-only process configuration.
type Config struct {
	ListenAddr string
	APIKey     string
	R2         R2Config

	// Optional yt-dlp extras; each is a no-op when empty.
	CookiePath  string
	ProxyURL    string
	Impersonate string

	YtDlpPath    string
	MaxAsyncJobs int
}

// FromEnv reads the recognized environment variables and validates the
// required ones. Missing credentials are a startup-class failure.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr: envOr("LISTEN_ADDR", defaultListenAddr),
		APIKey:     os.Getenv("API_KEY"),
		R2: R2Config{
			Endpoint:        os.Getenv("R2_ENDPOINT"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_URL"),
		},
		CookiePath:   envOr("COOKIE_PATH", defaultCookiePath),
		ProxyURL:     os.Getenv("PROXY_URL"),
		Impersonate:  os.Getenv("YTDLP_IMPERSONATE"),
		YtDlpPath:    envOr("YTDLP_PATH", defaultYtDlpPath),
		MaxAsyncJobs: defaultMaxAsyncJobs,
	}

	if v := os.Getenv("MAX_ASYNC_JOBS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, domain.NewError(domain.KindConfig,
				fmt.Sprintf("MAX_ASYNC_JOBS must be a positive integer, got %q", v))
		}
		cfg.MaxAsyncJobs = n
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	for _, v := range []struct {
		name, value string
	}{
		{"API_KEY", c.APIKey},
		{"R2_ENDPOINT", c.R2.Endpoint},
		{"R2_ACCESS_KEY_ID", c.R2.AccessKeyID},
		{"R2_SECRET_ACCESS_KEY", c.R2.SecretAccessKey},
		{"R2_BUCKET_NAME", c.R2.Bucket},
		{"R2_PUBLIC_URL", c.R2.PublicBaseURL},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return domain.NewError(domain.KindConfig,
			"missing required environment variables: "+strings.Join(missing, ", "))
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
