package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"uptimeping/internal/domain"
)

const telegramAPI = "https://api.telegram.org"

// Telegram sends incident alerts through the Bot API sendMessage call.
type Telegram struct {
	Token  string
	ChatID string
	API    string // overridable for tests
	Client *http.Client
}

func NewTelegram(token, chatID string) *Telegram {
	if token == "" || chatID == "" {
		return nil
	}
	return &Telegram{
		Token:  token,
		ChatID: chatID,
		API:    telegramAPI,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type telegramPayload struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func (t *Telegram) Notify(ctx context.Context, inc domain.Incident) error {
	if t == nil || t.Token == "" {
		return errors.New("telegram disabled")
	}
	body, _ := json.Marshal(telegramPayload{
		ChatID:    t.ChatID,
		Text:      formatIncident(inc),
		ParseMode: "HTML",
	})
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.API, t.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("telegram status %d", resp.StatusCode)
	}
	return nil
}

func formatIncident(inc domain.Incident) string {
	var emoji, title string
	switch {
	case inc.NewStatus == domain.StatusDown:
		emoji, title = "🔴", "Endpoint DOWN"
	case inc.NewStatus == domain.StatusUp && inc.PrevStatus == domain.StatusDown:
		emoji, title = "🟢", "Endpoint RECOVERED"
	case inc.NewStatus == domain.StatusDegraded:
		emoji, title = "⚠️", "Endpoint DEGRADED"
	default:
		emoji, title = "ℹ️", "Status changed"
	}

	lines := []string{
		fmt.Sprintf("%s <b>%s</b>", emoji, title),
		"",
		"🔗 " + inc.URL,
		fmt.Sprintf("📊 %s → %s", inc.PrevStatus, inc.NewStatus),
	}
	if inc.Reason != "" {
		lines = append(lines, "❗ "+inc.Reason)
	}
	if inc.WasDownSince != nil {
		lines = append(lines, "⏱️ down since "+inc.WasDownSince.Format(time.RFC3339))
	}
	lines = append(lines, "🕐 "+inc.ChangedAt.Format(time.RFC3339))
	return strings.Join(lines, "\n")
}
