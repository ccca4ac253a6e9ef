package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"uptimeping/internal/domain"
)

// Webhook posts a Slack-compatible {"text": ...} payload to any URL.
type Webhook struct {
	URL    string
	Client *http.Client
}

func NewWebhook(url string) *Webhook {
	if url == "" {
		return nil
	}
	return &Webhook{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	Text string `json:"text"`
}

func (w *Webhook) Notify(ctx context.Context, inc domain.Incident) error {
	if w == nil || w.URL == "" {
		return errors.New("webhook disabled")
	}
	text := fmt.Sprintf("*%s*: %s → %s", inc.URL, inc.PrevStatus, inc.NewStatus)
	if inc.Reason != "" {
		text += "\n" + inc.Reason
	}
	body, _ := json.Marshal(webhookPayload{Text: text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
