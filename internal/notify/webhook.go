package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stockwatch/internal/models"
)

// Webhook posts triggered alerts as JSON to a configured URL.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a webhook notification channel.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the channel name.
func (w *Webhook) Name() string {
	return "webhook"
}

type webhookPayload struct {
	Source    string         `json:"source"`
	Timestamp time.Time      `json:"timestamp"`
	Alerts    []models.Alert `json:"alerts"`
}

// Notify posts the alert batch. Empty batches are not sent.
func (w *Webhook) Notify(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	body, err := json.Marshal(webhookPayload{
		Source:    "stockwatch",
		Timestamp: time.Now(),
		Alerts:    alerts,
	})
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
