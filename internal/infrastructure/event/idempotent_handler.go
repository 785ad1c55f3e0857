package event

import (
	"context"
	"fmt"
	"time"

	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultDedupTTL is how long an event ID is remembered
const DefaultDedupTTL = 24 * time.Hour

// IdempotentHandler wraps an EventHandler so each event ID is handled once
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	ttl     time.Duration
	logger  *zap.Logger
}

// NewIdempotentHandler wraps handler. A non-positive ttl uses DefaultDedupTTL.
func NewIdempotentHandler(handler shared.EventHandler, store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *IdempotentHandler {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdempotentHandler{handler: handler, store: store, ttl: ttl, logger: logger}
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle forwards the event unless its ID was already seen
func (h *IdempotentHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	key := "event:" + ev.EventID().String()
	first, err := h.store.MarkProcessed(ctx, key, h.ttl)
	if err != nil {
		return fmt.Errorf("idempotency check for event %s: %w", ev.EventID(), err)
	}
	if !first {
		h.logger.Debug("Duplicate event skipped",
			zap.String("event_type", ev.EventType()),
			zap.String("event_id", ev.EventID().String()),
		)
		return nil
	}
	if err := h.handler.Handle(ctx, ev); err != nil {
		if uerr := h.store.Unmark(ctx, key); uerr != nil {
			h.logger.Warn("Failed to release event key after handler error",
				zap.String("event_id", ev.EventID().String()),
				zap.Error(uerr),
			)
		}
		return err
	}
	return nil
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
