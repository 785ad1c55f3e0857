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

// GeneratorConfig configures rent generation
type GeneratorConfig struct {
	// LeadDays is how many days before its due date a payment is created by the scan
	LeadDays int
	// Location is the calendar used for due days and "today"
	Location *time.Location
}

// DefaultGeneratorConfig returns the default generator configuration
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		LeadDays: payment.DefaultLeadDays,
		Location: time.Local,
	}
}

// ScanResult summarizes one ScanAndGenerateUpcoming run
type ScanResult struct {
	Scanned  int           `json:"scanned"`
	Created  int           `json:"created"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// PaymentGenerator creates monthly rent payments: the move-in month, the
// month after a settled one, and upcoming months found by the daily scan.
type PaymentGenerator struct {
	payments    payment.Repository
	occupancies occupancy.Repository
	publisher   shared.EventPublisher
	metrics     *telemetry.BillingMetrics
	logger      *zap.Logger
	config      GeneratorConfig
	now         func() time.Time
}

// GeneratorOption customizes a PaymentGenerator
type GeneratorOption func(*PaymentGenerator)

// WithClock overrides the time source
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *PaymentGenerator) { g.now = now }
}

// WithEventPublisher publishes payment events after they are persisted
func WithEventPublisher(p shared.EventPublisher) GeneratorOption {
	return func(g *PaymentGenerator) { g.publisher = p }
}

// WithMetrics records generation counters
func WithMetrics(m *telemetry.BillingMetrics) GeneratorOption {
	return func(g *PaymentGenerator) { g.metrics = m }
}

// NewPaymentGenerator creates a PaymentGenerator
func NewPaymentGenerator(
	payments payment.Repository,
	occupancies occupancy.Repository,
	logger *zap.Logger,
	cfg GeneratorConfig,
	opts ...GeneratorOption,
) *PaymentGenerator {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.LeadDays < 0 {
		cfg.LeadDays = payment.DefaultLeadDays
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &PaymentGenerator{
		payments:    payments,
		occupancies: occupancies,
		logger:      logger.Named("payment_generator"),
		config:      cfg,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns the generator configuration
func (g *PaymentGenerator) Config() GeneratorConfig {
	return g.config
}

// CreateInitialPayment records the move-in month as already paid.
// Occupancies without a room or without rent get nothing. If the month
// already has a payment, that payment is returned unchanged.
func (g *PaymentGenerator) CreateInitialPayment(ctx context.Context, o occupancy.Occupant) (*payment.Payment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "create_initial_payment")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrOccupancyID, o.GetID().String())

	if o.GetRoomRef() == nil || !o.GetRentAmount().IsPositive() {
		return nil, nil
	}

	join := o.GetJoinDate().In(g.config.Location)
	period := valueobject.PeriodOf(join)
	log := g.logger.With(
		zap.String("occupancy_id", o.GetID().String()),
		zap.String("period", period.String()),
	)

	existing, err := g.payments.FindByPeriod(ctx, o.GetID(), period)
	if err == nil {
		log.Info("Initial payment already exists, skipping")
		return existing, nil
	}
	if !shared.IsNotFound(err) {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("check initial payment: %w", err)
	}

	due := occupancy.DueDateFor(o, period, g.config.Location)
	p, err := payment.NewInitialPayment(o, period, due, o.GetJoinDate())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	created, err := g.insert(ctx, p, payment.SourceInitial)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if created == p {
		log.Info("Initial payment created", zap.String("payment_id", p.ID.String()))
	}
	return created, nil
}

// ScanAndGenerateUpcoming creates the next PENDING payment for every active
// occupancy whose next due date falls within leadDays of today. A failure on
// one occupancy is logged and the scan moves on. Re-running is harmless.
func (g *PaymentGenerator) ScanAndGenerateUpcoming(ctx context.Context, leadDays int) (*ScanResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "scan_upcoming")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrLeadDays, leadDays)

	started := g.now()
	today := started.In(g.config.Location)

	list, err := g.occupancies.FindActiveWithRoom(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("list active occupancies: %w", err)
	}

	result := &ScanResult{Scanned: len(list)}
	for i := range list {
		if err := ctx.Err(); err != nil {
			g.logger.Warn("Scan interrupted", zap.Int("processed", i), zap.Error(err))
			break
		}
		o := &list[i]
		created, err := g.generateNext(ctx, o, today, leadDays)
		switch {
		case err != nil:
			result.Failed++
			g.metrics.ScanFailure(ctx)
			g.logger.Error("Failed to generate upcoming payment",
				zap.String("occupancy_id", o.ID.String()),
				zap.Error(err),
			)
		case created:
			result.Created++
		default:
			result.Skipped++
		}
	}

	result.Duration = g.now().Sub(started)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCreated, result.Created,
		telemetry.SpanAttrFailed, result.Failed,
	)
	g.logger.Info("Upcoming payment scan finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (g *PaymentGenerator) generateNext(ctx context.Context, o *occupancy.Occupancy, today time.Time, leadDays int) (bool, error) {
	latest, err := g.payments.FindLatestForOccupancy(ctx, o.ID)
	if err != nil {
		if !shared.IsNotFound(err) {
			return false, fmt.Errorf("find latest payment: %w", err)
		}
		latest = nil
	}

	plan := payment.PlanNext(today, o, latest, leadDays, g.config.Location)
	if !plan.ShouldCreate() {
		g.logger.Debug("No payment due in window",
			zap.String("occupancy_id", o.ID.String()),
			zap.String("decision", string(plan.Decision)),
		)
		return false, nil
	}

	exists, err := g.payments.ExistsForPeriod(ctx, o.ID, plan.Period)
	if err != nil {
		return false, fmt.Errorf("check existing payment: %w", err)
	}
	if exists {
		return false, nil
	}

	p, err := payment.NewPendingPayment(o, plan.Period, plan.DueDate, payment.SourceScheduled)
	if err != nil {
		return false, err
	}
	if err := g.payments.Create(ctx, p); err != nil {
		if shared.IsDuplicateKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("create payment: %w", err)
	}
	g.afterCreate(ctx, p, payment.SourceScheduled)
	return true, nil
}

// MarkAsPaid settles a payment in full on paidAt (now when zero) and then
// generates the following month. Only the settlement can fail the call;
// problems creating the next month are logged.
func (g *PaymentGenerator) MarkAsPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (*payment.Payment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "mark_paid")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPaymentID, id.String())

	p, err := g.payments.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if paidAt.IsZero() {
		paidAt = g.now()
	}

	if p.MarkPaid(paidAt) {
		if err := g.payments.Save(ctx, p); err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("save payment: %w", err)
		}
		g.metrics.PaymentPaid(ctx)
		g.publish(ctx, p)
	}

	g.cascade(ctx, p)
	return p, nil
}

// RecordPayment adds a part payment. Reaching the full rent settles the
// payment and generates the following month like MarkAsPaid.
func (g *PaymentGenerator) RecordPayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal, paidAt time.Time) (*payment.Payment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "record_payment")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPaymentID, id.String())

	p, err := g.payments.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if paidAt.IsZero() {
		paidAt = g.now()
	}
	if err := p.RecordAmount(amount, paidAt); err != nil {
		return nil, err
	}
	if err := g.payments.Save(ctx, p); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save payment: %w", err)
	}
	g.publish(ctx, p)

	if p.Status == payment.StatusPaid {
		g.metrics.PaymentPaid(ctx)
		g.cascade(ctx, p)
	}
	return p, nil
}

func (g *PaymentGenerator) cascade(ctx context.Context, p *payment.Payment) {
	if _, err := g.CreateNextMonthPayment(ctx, p); err != nil {
		g.logger.Error("Failed to create next month payment",
			zap.String("payment_id", p.ID.String()),
			zap.String("occupancy_id", p.OccupancyID.String()),
			zap.Error(err),
		)
	}
}

// CreateNextMonthPayment creates the PENDING payment for the month after
// current. It returns nil when the occupancy is no longer active, and the
// existing payment when the month was already generated.
func (g *PaymentGenerator) CreateNextMonthPayment(ctx context.Context, current *payment.Payment) (*payment.Payment, error) {
	o, err := g.occupancies.FindByID(ctx, current.OccupancyID)
	if err != nil {
		return nil, fmt.Errorf("load occupancy: %w", err)
	}
	if o.Status != occupancy.StatusActive {
		g.logger.Info("Occupancy not active, no next month payment",
			zap.String("occupancy_id", o.ID.String()),
			zap.String("status", string(o.Status)),
		)
		return nil, nil
	}

	period, due := payment.NextPeriodFor(o, current, g.config.Location)
	existing, err := g.payments.FindByPeriod(ctx, o.ID, period)
	if err == nil {
		return existing, nil
	}
	if !shared.IsNotFound(err) {
		return nil, fmt.Errorf("check next month payment: %w", err)
	}

	next, err := payment.NewPendingPayment(o, period, due, payment.SourceCascade)
	if err != nil {
		return nil, err
	}
	return g.insert(ctx, next, payment.SourceCascade)
}

// insert creates p, resolving a lost race on the (occupancy, month) key to
// the payment that won it.
func (g *PaymentGenerator) insert(ctx context.Context, p *payment.Payment, source payment.Source) (*payment.Payment, error) {
	if err := g.payments.Create(ctx, p); err != nil {
		if !shared.IsDuplicateKey(err) {
			return nil, fmt.Errorf("create payment: %w", err)
		}
		g.logger.Info("Payment already created concurrently",
			zap.String("occupancy_id", p.OccupancyID.String()),
			zap.String("period", p.Period().String()),
		)
		existing, findErr := g.payments.FindByPeriod(ctx, p.OccupancyID, p.Period())
		if findErr != nil {
			return nil, fmt.Errorf("load concurrently created payment for %s: %w", p.Period(), findErr)
		}
		return existing, nil
	}
	g.afterCreate(ctx, p, source)
	return p, nil
}

func (g *PaymentGenerator) afterCreate(ctx context.Context, p *payment.Payment, source payment.Source) {
	g.metrics.PaymentGenerated(ctx, string(source))
	g.publish(ctx, p)
}

func (g *PaymentGenerator) publish(ctx context.Context, p *payment.Payment) {
	events := p.GetDomainEvents()
	p.ClearDomainEvents()
	if g.publisher == nil || len(events) == 0 {
		return
	}
	if err := g.publisher.Publish(ctx, events...); err != nil {
		g.logger.Warn("Failed to publish payment events",
			zap.String("payment_id", p.ID.String()),
			zap.Error(err),
		)
	}
}

// GetUpcoming returns open payments (PENDING or PARTIAL) due between today
// and today+daysAhead inclusive. ownerID nil means every owner.
func (g *PaymentGenerator) GetUpcoming(ctx context.Context, ownerID *uuid.UUID, daysAhead int) ([]payment.Payment, error) {
	if daysAhead < 0 {
		daysAhead = 0
	}
	today := valueobject.StartOfDay(g.now(), g.config.Location)
	until := valueobject.EndOfDay(today.AddDate(0, 0, daysAhead), g.config.Location)
	return g.payments.FindDueBetween(ctx, ownerID, payment.OpenStatuses, today, until)
}

// GetOverdue returns open payments whose due date is before today
func (g *PaymentGenerator) GetOverdue(ctx context.Context, ownerID *uuid.UUID) ([]payment.Payment, error) {
	today := valueobject.StartOfDay(g.now(), g.config.Location)
	return g.payments.FindOverdue(ctx, ownerID, today)
}
