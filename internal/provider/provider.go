// internal/provider/provider.go
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Contact is one recipient entry of the handoff payload. LogID lets the
// provider correlate its later status callback to a message log row.
type Contact struct {
	Number string `json:"number"`
	Text   string `json:"text"`
	LogID  string `json:"log_id"`
}

// Payload is the body posted to the delivery workflow. Field names match the
// workflow's expected format.
type Payload struct {
	InstanceName    string    `json:"instanceName"`
	APIKey          string    `json:"api_key"`
	MediaURL        string    `json:"mediaUrl"`
	MediaType       string    `json:"mediaType"`
	Contacts        []Contact `json:"contacts"`
	CampaignID      string    `json:"campaign_id"`
	CallbackURL     string    `json:"callback_url"`
	UpdateStatusURL string    `json:"update_status_url"`
	CheckStatusURL  string    `json:"check_status_url"`
	CallbackSecret  string    `json:"callback_secret"`
}

// Sender hands a campaign off to the external delivery provider. The call
// only covers the handoff acknowledgment; actual sends happen asynchronously
// on the provider side.
type Sender interface {
	Send(ctx context.Context, p *Payload) error
}

// WebhookSender posts the payload to the marketing webhook.
type WebhookSender struct {
	URL    string
	Client *http.Client
}

func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *WebhookSender) Send(ctx context.Context, p *Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}

var _ Sender = (*WebhookSender)(nil)
