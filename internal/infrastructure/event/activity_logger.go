package event

import (
	"context"

	"github.com/nadwivedi/hostel-sub000/internal/domain/occupancy"
	"github.com/nadwivedi/hostel-sub000/internal/domain/payment"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ActivityLogger writes one structured log line per billing and occupancy event
type ActivityLogger struct {
	logger *zap.Logger
}

// NewActivityLogger creates an ActivityLogger
func NewActivityLogger(log *zap.Logger) *ActivityLogger {
	return &ActivityLogger{logger: log.Named("activity")}
}

// EventTypes returns the payment and occupancy lifecycle events
func (a *ActivityLogger) EventTypes() []string {
	return []string{
		payment.EventTypePaymentGenerated,
		payment.EventTypePaymentPaid,
		occupancy.EventTypeOccupancyCreated,
		occupancy.EventTypeOccupancyCompleted,
		occupancy.EventTypeOccupancyDeleted,
	}
}

// Handle logs ev with its type-specific fields
func (a *ActivityLogger) Handle(ctx context.Context, ev shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", ev.EventType()),
		zap.String("event_id", ev.EventID().String()),
		zap.String("aggregate_id", ev.AggregateID().String()),
		zap.String("owner_id", ev.OwnerID().String()),
		zap.Time("occurred_at", ev.OccurredAt()),
	}

	switch e := ev.(type) {
	case *payment.PaymentGeneratedEvent:
		fields = append(fields,
			zap.String("occupancy_id", e.OccupancyID.String()),
			zap.Int("year", e.Year),
			zap.Int("month", e.Month),
			zap.String("rent_amount", e.RentAmount.StringFixed(2)),
			zap.Time("due_date", e.DueDate),
			zap.String("status", string(e.Status)),
			zap.String("source", string(e.Source)),
		)
	case *payment.PaymentPaidEvent:
		fields = append(fields,
			zap.String("occupancy_id", e.OccupancyID.String()),
			zap.Int("year", e.Year),
			zap.Int("month", e.Month),
			zap.String("amount_paid", e.AmountPaid.StringFixed(2)),
			zap.Time("paid_at", e.PaidAt),
		)
	case *occupancy.OccupancyCreatedEvent:
		fields = append(fields,
			zap.String("kind", string(e.Kind)),
			zap.String("rent_amount", e.RentAmount.StringFixed(2)),
			zap.Time("join_date", e.JoinDate),
		)
		if e.RoomID != nil {
			fields = append(fields, zap.String("room_id", e.RoomID.String()))
		}
		if e.BedNumber != nil {
			fields = append(fields, zap.String("bed_number", *e.BedNumber))
		}
	case *occupancy.OccupancyCompletedEvent:
		fields = append(fields, zap.Time("leave_date", e.LeaveDate))
		if e.RoomID != nil {
			fields = append(fields, zap.String("room_id", e.RoomID.String()))
		}
	case *occupancy.OccupancyDeletedEvent:
		fields = append(fields, zap.Bool("was_active", e.WasActive))
	}

	logger.Enrich(ctx, a.logger).Info("Domain event", fields...)
	return nil
}

var _ shared.EventHandler = (*ActivityLogger)(nil)
