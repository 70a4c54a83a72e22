package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dulieucongty68/pmql-be/internal/events"
)

// NotificationService reacts to domain events: every event is logged, and
// when a webhook URL is configured the event is also POSTed there.
type NotificationService struct {
	logger     *zap.Logger
	webhookURL string
	client     *http.Client
}

// NewNotificationService constructs the service. webhookURL may be empty, in
// which case events are only logged.
func NewNotificationService(logger *zap.Logger, webhookURL string) *NotificationService {
	return &NotificationService{
		logger:     logger,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Register subscribes the service to the event types it handles.
func (s *NotificationService) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventCustomerCreated, s.handle)
	dispatcher.Subscribe(events.EventCustomerStatusChanged, s.handle)
	dispatcher.Subscribe(events.EventCustomerDeleted, s.handle)
	dispatcher.Subscribe(events.EventEmployeeCreated, s.handle)
}

func (s *NotificationService) handle(ctx context.Context, event events.Event) error {
	s.logger.Info("domain event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("actor_id", event.Actor.UserID),
		zap.String("actor_role", string(event.Actor.Role)),
	)

	if s.webhookURL == "" {
		return nil
	}
	return s.deliver(ctx, event)
}

func (s *NotificationService) deliver(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("webhook delivery failed", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.logger.Warn("webhook rejected event",
			zap.String("event_id", event.ID),
			zap.Int("status", resp.StatusCode),
		)
	}
	return nil
}
