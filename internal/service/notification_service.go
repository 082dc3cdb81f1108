package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/supportops/ticketsync/internal/config"
	"github.com/supportops/ticketsync/internal/events"
)

const webhookTimeout = 10 * time.Second

// NotificationService reacts to sync events: it logs them and posts run
// summaries to the configured webhook.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
	http   *resty.Client
}

// WebhookPayload is the body posted when a run completes.
type WebhookPayload struct {
	Text  string       `json:"text"`
	Event events.Event `json:"event"`
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		logger: logger,
		cfg:    cfg,
		http: resty.New().
			SetTimeout(webhookTimeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// Attach subscribes to customer failures and run completions.
func (n *NotificationService) Attach(d events.Dispatcher) {
	d.Subscribe(events.EventSyncCustomerFailed, n.handleCustomerFailed)
	d.Subscribe(events.EventSyncRunCompleted, n.handleRunCompleted)
}

func (n *NotificationService) handleCustomerFailed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CustomerResultPayload)
	if !ok {
		return nil
	}
	n.logger.Warn("SyncCustomerFailed",
		zap.String("run_id", event.RunID),
		zap.String("customer", payload.Result.Name),
		zap.String("error", payload.Result.Error))
	return nil
}

func (n *NotificationService) handleRunCompleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RunCompletedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("SyncRunCompleted",
		zap.String("run_id", event.RunID),
		zap.String("status", string(payload.Report.Status)),
		zap.Int("created", payload.Report.TotalCreated))
	return n.sendWebhook(ctx, event, RunSummary(payload))
}

// RunSummary renders a one-line description of a finished run.
func RunSummary(payload events.RunCompletedPayload) string {
	r := payload.Report
	summary := fmt.Sprintf("Ticket sync %s: %d tickets created across %d customers", strings.ToLower(string(r.Status)), r.TotalCreated, len(r.Customers))
	if r.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", r.Failed)
	}
	if r.Error != "" {
		summary += " (" + r.Error + ")"
	}
	return summary
}

func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event, text string) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}
	resp, err := n.http.R().
		SetContext(ctx).
		SetBody(WebhookPayload{Text: text, Event: event}).
		Post(url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("post webhook: status %d", resp.StatusCode())
	}
	n.logger.Debug("webhook delivered", zap.String("event_type", string(event.Type)))
	return nil
}
