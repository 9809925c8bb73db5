// Package webhook delivers terminal job outcomes to caller-supplied
// callback URLs.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"audioextractor/internal/core/domain"
)

const deliveryTimeout = 30 * time.Second

// Notifier POSTs JSON payloads to webhook URLs. Delivery is a single
// attempt with a bounded timeout; failures are the caller's to log and drop.
type Notifier struct {
	client *http.Client
	logger *zap.Logger
}

// NewNotifier creates a webhook notifier.
func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{
		client: &http.Client{
			Timeout: deliveryTimeout,
		},
		logger: logger,
	}
}

// Notify POSTs payload to webhookURL. A non-2xx response counts as a
// delivery failure.
func (n *Notifier) Notify(ctx context.Context, webhookURL string, payload domain.WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.WrapError(domain.KindWebhook, "failed to encode webhook payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return domain.WrapError(domain.KindWebhook, "failed to create webhook request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return domain.WrapError(domain.KindWebhook, "webhook delivery failed", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.NewError(domain.KindWebhook,
			fmt.Sprintf("webhook returned status %d", resp.StatusCode))
	}

	n.logger.Debug("webhook delivered",
		zap.String("url", webhookURL),
		zap.String("status", payload.Status))
	return nil
}
