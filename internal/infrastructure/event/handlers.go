package event

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// HandlerFunc adapts a function to the EventHandler interface
type HandlerFunc struct {
	fn         func(ctx context.Context, event shared.DomainEvent) error
	eventTypes []string
}

// NewHandlerFunc wraps fn as an EventHandler for the given event types.
// An empty eventTypes list subscribes the handler to all events.
func NewHandlerFunc(fn func(ctx context.Context, event shared.DomainEvent) error, eventTypes ...string) *HandlerFunc {
	return &HandlerFunc{fn: fn, eventTypes: eventTypes}
}

// Handle invokes the wrapped function
func (h *HandlerFunc) Handle(ctx context.Context, event shared.DomainEvent) error {
	return h.fn(ctx, event)
}

// EventTypes returns the event types this handler is interested in
func (h *HandlerFunc) EventTypes() []string {
	return h.eventTypes
}

// AuditLogHandler writes every published domain event to the log.
// It subscribes as a wildcard handler.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates an audit log handler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// Handle logs the event
func (h *AuditLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice so the handler receives all events
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*HandlerFunc)(nil)
var _ shared.EventHandler = (*AuditLogHandler)(nil)
