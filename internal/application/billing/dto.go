package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// PaymentResponse is the API view of a payment
type PaymentResponse struct {
	ID               uuid.UUID       `json:"id"`
	OwnerID          uuid.UUID       `json:"owner_id"`
	OccupancyID      uuid.UUID       `json:"occupancy_id"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	RentAmount       decimal.Decimal `json:"rent_amount"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	DueDate          time.Time       `json:"due_date"`
	PaymentDate      *time.Time      `json:"payment_date,omitempty"`
	Status           string          `json:"status"`
	ReminderCount    int             `json:"reminder_count"`
	LastReminderDate *time.Time      `json:"last_reminder_date,omitempty"`
	Remark           string          `json:"remark,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// ToPaymentResponse converts a domain payment to its response form
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:               p.ID,
		OwnerID:          p.OwnerID,
		OccupancyID:      p.OccupancyID,
		Year:             p.Year,
		Month:            p.Month,
		RentAmount:       p.RentAmount,
		AmountPaid:       p.AmountPaid,
		Outstanding:      p.Outstanding(),
		DueDate:          p.DueDate,
		PaymentDate:      p.PaymentDate,
		Status:           string(p.Status),
		ReminderCount:    p.ReminderCount,
		LastReminderDate: p.LastReminderDate,
		Remark:           p.Remark,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		Version:          p.Version,
	}
}

// ToPaymentResponses converts a list of payments
func ToPaymentResponses(ps []payment.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(ps))
	for i := range ps {
		out[i] = ToPaymentResponse(&ps[i])
	}
	return out
}

// MarkPaidRequest settles a payment in full
type MarkPaidRequest struct {
	PaymentDate *time.Time `json:"payment_date"`
}

// RecordPaymentRequest records a part payment
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate *time.Time      `json:"payment_date"`
}

// PaymentListFilter narrows payment listings
type PaymentListFilter struct {
	OccupancyID *uuid.UUID
	Status      string
	Year        *int
	Month       *int
	Page        int
	PageSize    int
}
