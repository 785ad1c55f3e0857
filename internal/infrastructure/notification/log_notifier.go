// Package notification delivers rent reminders to tenants.
package notification

import (
	"context"
	"time"

	"github.com/nadwivedi/hostel-sub000/internal/application/billing"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LogNotifier records reminders in the application log instead of sending them.
// Deployments forward these lines to their messaging gateway.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: log.Named("reminder")}
}

// NotifyDue logs r
func (n *LogNotifier) NotifyDue(ctx context.Context, r billing.Reminder) error {
	msg := "Rent reminder"
	if r.Overdue {
		msg = "Overdue rent reminder"
	}
	logger.Enrich(ctx, n.logger).Info(msg,
		zap.String("payment_id", r.PaymentID.String()),
		zap.String("occupancy_id", r.OccupancyID.String()),
		zap.String("owner_id", r.OwnerID.String()),
		zap.String("tenant_name", r.TenantName),
		zap.String("phone", maskPhone(r.Phone)),
		zap.String("period", r.Period.String()),
		zap.String("outstanding", r.Outstanding.StringFixed(2)),
		zap.String("due_date", r.DueDate.Format(time.DateOnly)),
	)
	return nil
}

// maskPhone keeps the last four digits
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	masked := make([]byte, len(phone))
	for i := range phone {
		if i < len(phone)-4 {
			masked[i] = '*'
		} else {
			masked[i] = phone[i]
		}
	}
	return string(masked)
}

var _ billing.Notifier = (*LogNotifier)(nil)
