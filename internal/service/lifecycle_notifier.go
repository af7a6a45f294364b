package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
)

// LifecycleNotifier surfaces lifecycle events for operators: structured log
// lines plus an optional webhook stub.
type LifecycleNotifier struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotifyConfig
}

// NewLifecycleNotifier creates the notifier.
func NewLifecycleNotifier(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotifyConfig) *LifecycleNotifier {
	return &LifecycleNotifier{dispatcher: dispatcher, logger: logger, cfg: cfg}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *LifecycleNotifier) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventWorkItemCreated, n.handle)
	n.dispatcher.Subscribe(events.EventWorkItemAccepted, n.handle)
	n.dispatcher.Subscribe(events.EventWorkItemCompleted, n.handle)
	n.dispatcher.Subscribe(events.EventDiscussionMessage, n.handle)
}

func (n *LifecycleNotifier) handle(ctx context.Context, event events.Event) error {
	n.logger.Info("lifecycle event",
		zap.String("type", string(event.Type)),
		zap.String("kind", string(event.Kind)),
		zap.String("ref_id", event.RefID),
		zap.String("actor_id", event.ActorID))
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *LifecycleNotifier) sendWebhookStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ref_id", event.RefID),
		zap.String("event_type", string(event.Type)))
}
