// Package notify posts run outcomes to the chat-bot relay.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/klcheung/opw-data/internal/config"
)

// Webhook posts bot-command messages to the relay endpoint. A zero
// webhook URL disables it entirely.
type Webhook struct {
	url         string
	developerID string
	recipients  []string
	client      *http.Client
	logger      *slog.Logger
	now         func() time.Time
}

// NewWebhook creates a notifier from config.
func NewWebhook(cfg config.NotifyConfig, logger *slog.Logger) *Webhook {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultNotifyTimeout
	}
	return &Webhook{
		url:         cfg.WebhookURL,
		developerID: cfg.DeveloperID,
		recipients:  cfg.Recipients,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
		now:         time.Now,
	}
}

// Enabled reports whether a relay URL is configured.
func (w *Webhook) Enabled() bool {
	return w.url != ""
}

// Alert tells every recipient that fresh prices landed. Fridays and
// Saturdays are skipped: the promotion week starts then and the new
// week's offers are not worth waking anyone for yet. Per-recipient
// failures are logged and the rest still go out.
func (w *Webhook) Alert(ctx context.Context) {
	if !w.Enabled() {
		return
	}

	wd := w.now().Weekday()
	if wd == time.Friday || wd == time.Saturday {
		w.logger.Info("alert skipped", "weekday", wd.String())
		return
	}

	for _, id := range w.recipients {
		if err := w.post(ctx, id, "/alert"); err != nil {
			w.logger.Error("alert failed", "recipient", id, "error", err)
		}
	}
	w.logger.Info("alerts sent", "recipients", len(w.recipients))
}

// ReportError tells the developer a run failed.
func (w *Webhook) ReportError(ctx context.Context, runErr error) {
	if !w.Enabled() || w.developerID == "" {
		return
	}
	if err := w.post(ctx, w.developerID, "/error"); err != nil {
		w.logger.Error("error report failed", "error", err, "run_error", runErr)
	}
}

type message struct {
	Message struct {
		From struct {
			ID string `json:"id"`
		} `json:"from"`
		Text string `json:"text"`
	} `json:"message"`
}

func (w *Webhook) post(ctx context.Context, recipientID, text string) error {
	var msg message
	msg.Message.From.ID = recipientID
	msg.Message.Text = text

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
