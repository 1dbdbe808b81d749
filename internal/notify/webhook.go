package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Webhook POSTs events as JSON. A monitor-level webhookUrl overrides the
// globally configured URL for that monitor's events.
type Webhook struct {
	URL    string
	Client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookMonitor struct {
	Name   string    `json:"name"`
	URL    string    `json:"url"`
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

type webhookPayload struct {
	Event         string         `json:"event"`
	Monitor       webhookMonitor `json:"monitor"`
	DaysRemaining *int           `json:"daysRemaining,omitempty"`
}

func (w *Webhook) Dispatch(ctx context.Context, ev Event) error {
	url := w.URL
	if ev.Monitor.WebhookURL != "" {
		url = ev.Monitor.WebhookURL
	}
	if url == "" {
		return nil // nothing configured for this monitor
	}

	payload := webhookPayload{
		Event: string(ev.Kind),
		Monitor: webhookMonitor{
			Name:   ev.Monitor.DisplayName(),
			URL:    ev.Monitor.Target,
			Status: ev.Status.String(),
			Time:   time.Now().UTC(),
		},
	}
	if ev.Kind == KindSSLExpiring {
		d := ev.DaysRemaining
		payload.DaysRemaining = &d
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return errors.New("webhook non-2xx: " + resp.Status)
	}
	return nil
}
