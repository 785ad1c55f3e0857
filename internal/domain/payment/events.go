package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypePaymentGenerated = "PaymentGenerated"
	EventTypePaymentPaid      = "PaymentPaid"

	aggregateType = "Payment"
)

// PaymentGeneratedEvent is raised when a monthly payment record is created
type PaymentGeneratedEvent struct {
	shared.BaseDomainEvent
	OccupancyID uuid.UUID       `json:"occupancy_id"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	RentAmount  decimal.Decimal `json:"rent_amount"`
	DueDate     time.Time       `json:"due_date"`
	Status      Status          `json:"status"`
	Source      Source          `json:"source"`
}

// NewPaymentGeneratedEvent creates a PaymentGeneratedEvent
func NewPaymentGeneratedEvent(p *Payment, source Source) *PaymentGeneratedEvent {
	return &PaymentGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentGenerated, aggregateType, p.ID, p.OwnerID),
		OccupancyID:     p.OccupancyID,
		Year:            p.Year,
		Month:           p.Month,
		RentAmount:      p.RentAmount,
		DueDate:         p.DueDate,
		Status:          p.Status,
		Source:          source,
	}
}

// PaymentPaidEvent is raised when a payment becomes fully paid
type PaymentPaidEvent struct {
	shared.BaseDomainEvent
	OccupancyID uuid.UUID       `json:"occupancy_id"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	PaidAt      time.Time       `json:"paid_at"`
}

// NewPaymentPaidEvent creates a PaymentPaidEvent
func NewPaymentPaidEvent(p *Payment) *PaymentPaidEvent {
	paidAt := time.Now()
	if p.PaymentDate != nil {
		paidAt = *p.PaymentDate
	}
	return &PaymentPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentPaid, aggregateType, p.ID, p.OwnerID),
		OccupancyID:     p.OccupancyID,
		Year:            p.Year,
		Month:           p.Month,
		AmountPaid:      p.AmountPaid,
		PaidAt:          paidAt,
	}
}
