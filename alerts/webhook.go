package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"go-disasterai/types"
)

// webhookTimeout bounds one delivery attempt.
const webhookTimeout = 10 * time.Second

// WebhookSender delivers alerts by POSTing the alert JSON to each configured
// endpoint. Email, SMS, and mobile push have no provider wired up and are
// logged only.
type WebhookSender struct {
	urls   []string
	client *http.Client
}

// NewWebhookSender builds a sender for the given endpoints.
func NewWebhookSender(urls []string) *WebhookSender {
	return &WebhookSender{
		urls:   urls,
		client: &http.Client{Timeout: webhookTimeout},
	}
}

// NewWebhookSenderFromEnv reads the comma-separated ALERT_WEBHOOK_URLS list.
// Returns nil when no endpoint is configured.
func NewWebhookSenderFromEnv() *WebhookSender {
	var urls []string
	for _, u := range strings.Split(os.Getenv("ALERT_WEBHOOK_URLS"), ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return nil
	}
	return NewWebhookSender(urls)
}

// Send delivers one alert on one channel. Only the webhook channel performs
// I/O; a failed endpoint does not stop delivery to the remaining ones.
func (w *WebhookSender) Send(alert types.AlertMessage, channel types.AlertChannel) error {
	if channel != types.ChannelWebhook {
		log.Printf("alerts: %s channel has no provider, %s logged for %d recipients",
			channel, alert.AlertID, len(alert.Recipients))
		return nil
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert %s: %w", alert.AlertID, err)
	}

	var firstErr error
	for _, url := range w.urls {
		resp, err := w.client.Post(url, "application/json", bytes.NewReader(body))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("webhook %s: %w", url, err)
			}
			continue
		}
		resp.Body.Close()
		if resp.StatusCode >= http.StatusMultipleChoices {
			if firstErr == nil {
				firstErr = fmt.Errorf("webhook %s returned %d", url, resp.StatusCode)
			}
			continue
		}
		log.Printf("alerts: webhook delivered %s to %s", alert.AlertID, url)
	}
	return firstErr
}
