package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/payment"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentService exposes payment reads and settlement to callers, applying
// owner-or-admin access on top of the generator
type PaymentService struct {
	payments  payment.Repository
	generator *PaymentGenerator
	logger    *zap.Logger
}

// NewPaymentService creates a PaymentService
func NewPaymentService(payments payment.Repository, generator *PaymentGenerator, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{payments: payments, generator: generator, logger: logger}
}

// Get returns one payment visible to actor
func (s *PaymentService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// List returns a page of payments visible to actor
func (s *PaymentService) List(ctx context.Context, actor shared.Actor, f PaymentListFilter) (*shared.Paginated[PaymentResponse], error) {
	filter := payment.Filter{
		Filter:      shared.DefaultFilter(),
		OwnerID:     actor.OwnerScope(),
		OccupancyID: f.OccupancyID,
		Year:        f.Year,
		Month:       f.Month,
	}
	filter.OrderBy = "due_date"
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 && f.PageSize <= 100 {
		filter.PageSize = f.PageSize
	}
	if f.Status != "" {
		status := payment.Status(strings.ToUpper(f.Status))
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Status must be PENDING, PARTIAL or PAID")
		}
		filter.Statuses = []payment.Status{status}
	}

	items, total, err := s.payments.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToPaymentResponses(items), total, filter.Page, filter.PageSize)
	return &page, nil
}

// MarkPaid settles a payment in full
func (s *PaymentService) MarkPaid(ctx context.Context, actor shared.Actor, id uuid.UUID, req MarkPaidRequest) (*PaymentResponse, error) {
	if _, err := s.load(ctx, actor, id); err != nil {
		return nil, err
	}
	var paidAt time.Time
	if req.PaymentDate != nil {
		paidAt = *req.PaymentDate
	}
	p, err := s.generator.MarkAsPaid(ctx, id, paidAt)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// RecordPayment records a part payment
func (s *PaymentService) RecordPayment(ctx context.Context, actor shared.Actor, id uuid.UUID, req RecordPaymentRequest) (*PaymentResponse, error) {
	if _, err := s.load(ctx, actor, id); err != nil {
		return nil, err
	}
	var paidAt time.Time
	if req.PaymentDate != nil {
		paidAt = *req.PaymentDate
	}
	p, err := s.generator.RecordPayment(ctx, id, req.Amount, paidAt)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// Delete removes a payment. Admin only.
func (s *PaymentService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.NewDomainError("FORBIDDEN", "Only admins can delete payments")
	}
	if _, err := s.payments.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.payments.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Payment deleted",
		zap.String("payment_id", id.String()),
		zap.String("user_id", actor.UserID.String()),
	)
	return nil
}

// Upcoming lists open payments due within daysAhead days
func (s *PaymentService) Upcoming(ctx context.Context, actor shared.Actor, daysAhead int) ([]PaymentResponse, error) {
	items, err := s.generator.GetUpcoming(ctx, actor.OwnerScope(), daysAhead)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(items), nil
}

// Overdue lists open payments past their due date
func (s *PaymentService) Overdue(ctx context.Context, actor shared.Actor) ([]PaymentResponse, error) {
	items, err := s.generator.GetOverdue(ctx, actor.OwnerScope())
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(items), nil
}

// load fetches a payment and hides other owners' payments behind NOT_FOUND
func (s *PaymentService) load(ctx context.Context, actor shared.Actor, id uuid.UUID) (*payment.Payment, error) {
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(p.OwnerID) {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment not found")
	}
	return p, nil
}
