package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/occupancy"
	"github.com/nadwivedi/hostel-sub000/internal/domain/payment"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared/valueobject"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Reminder is one rent reminder addressed to a tenant
type Reminder struct {
	PaymentID   uuid.UUID
	OccupancyID uuid.UUID
	OwnerID     uuid.UUID
	TenantName  string
	Phone       string
	Period      valueobject.BillingPeriod
	Outstanding decimal.Decimal
	DueDate     time.Time
	Overdue     bool
}

// Notifier delivers reminders
type Notifier interface {
	NotifyDue(ctx context.Context, r Reminder) error
}

// ReminderConfig configures the reminder pass
type ReminderConfig struct {
	// DaysAhead selects payments falling due within this many days
	DaysAhead int
	Location  *time.Location
	// KeyTTL is how long a sent reminder is remembered in the idempotency store
	KeyTTL time.Duration
}

// DefaultReminderConfig returns the default reminder configuration
func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		DaysAhead: 3,
		Location:  time.Local,
		KeyTTL:    36 * time.Hour,
	}
}

// ReminderResult summarizes one reminder pass
type ReminderResult struct {
	Candidates int `json:"candidates"`
	Sent       int `json:"sent"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// ReminderService sends at most one reminder per open payment per day
type ReminderService struct {
	payments    payment.Repository
	occupancies occupancy.Repository
	notifier    Notifier
	sent        shared.IdempotencyStore
	metrics     *telemetry.BillingMetrics
	logger      *zap.Logger
	config      ReminderConfig
	now         func() time.Time
}

// NewReminderService creates a ReminderService. sent may be nil, in which
// case only the payment's last reminder date prevents repeats.
func NewReminderService(
	payments payment.Repository,
	occupancies occupancy.Repository,
	notifier Notifier,
	sent shared.IdempotencyStore,
	metrics *telemetry.BillingMetrics,
	logger *zap.Logger,
	cfg ReminderConfig,
) *ReminderService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.KeyTTL <= 0 {
		cfg.KeyTTL = DefaultReminderConfig().KeyTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		payments:    payments,
		occupancies: occupancies,
		notifier:    notifier,
		sent:        sent,
		metrics:     metrics,
		logger:      logger.Named("reminders"),
		config:      cfg,
		now:         time.Now,
	}
}

// SetClock overrides the time source
func (s *ReminderService) SetClock(now func() time.Time) {
	s.now = now
}

// SendDueReminders reminds tenants of payments due soon or overdue.
// Per-payment failures are counted and logged; the pass continues.
func (s *ReminderService) SendDueReminders(ctx context.Context) (*ReminderResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "send_reminders")
	defer span.End()

	now := s.now()
	today := valueobject.StartOfDay(now, s.config.Location)
	until := valueobject.EndOfDay(today.AddDate(0, 0, s.config.DaysAhead), s.config.Location)

	upcoming, err := s.payments.FindDueBetween(ctx, nil, payment.OpenStatuses, today, until)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("find upcoming payments: %w", err)
	}
	overdue, err := s.payments.FindOverdue(ctx, nil, today)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("find overdue payments: %w", err)
	}

	candidates := append(overdue, upcoming...)
	result := &ReminderResult{Candidates: len(candidates)}
	for i := range candidates {
		p := &candidates[i]
		sent, err := s.remind(ctx, p, now, today)
		switch {
		case err != nil:
			result.Failed++
			s.logger.Error("Failed to send reminder",
				zap.String("payment_id", p.ID.String()),
				zap.Error(err),
			)
		case sent:
			result.Sent++
		default:
			result.Skipped++
		}
	}

	s.logger.Info("Reminder pass finished",
		zap.Int("candidates", result.Candidates),
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *ReminderService) remind(ctx context.Context, p *payment.Payment, now, today time.Time) (bool, error) {
	if p.RemindedOn(now, s.config.Location) {
		return false, nil
	}

	// release gives the day's key back when nothing was delivered
	release := func() {}
	if s.sent != nil {
		key := fmt.Sprintf("reminder:%s:%s", p.ID, today.Format("2006-01-02"))
		fresh, err := s.sent.MarkProcessed(ctx, key, s.config.KeyTTL)
		switch {
		case err != nil:
			s.logger.Warn("Idempotency store unavailable, relying on last reminder date",
				zap.String("payment_id", p.ID.String()),
				zap.Error(err),
			)
		case !fresh:
			return false, nil
		default:
			release = func() {
				if err := s.sent.Unmark(ctx, key); err != nil {
					s.logger.Warn("Failed to release reminder key",
						zap.String("payment_id", p.ID.String()),
						zap.Error(err),
					)
				}
			}
		}
	}

	r := Reminder{
		PaymentID:   p.ID,
		OccupancyID: p.OccupancyID,
		OwnerID:     p.OwnerID,
		Period:      p.Period(),
		Outstanding: p.Outstanding(),
		DueDate:     p.DueDate,
		Overdue:     p.IsOverdue(now, s.config.Location),
	}
	if o, err := s.occupancies.FindByID(ctx, p.OccupancyID); err == nil {
		if !o.IsActive() && !r.Overdue {
			return false, nil
		}
		r.TenantName = o.TenantName
		r.Phone = o.Phone
	} else if !shared.IsNotFound(err) {
		release()
		return false, fmt.Errorf("load occupancy: %w", err)
	}

	if err := s.notifier.NotifyDue(ctx, r); err != nil {
		release()
		return false, fmt.Errorf("notify: %w", err)
	}
	s.metrics.ReminderSent(ctx)

	p.RecordReminder(now)
	if err := s.payments.Save(ctx, p); err != nil {
		return true, fmt.Errorf("save reminder state: %w", err)
	}
	return true, nil
}
