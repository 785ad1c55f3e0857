package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/occupancy"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the settlement state of a monthly rent payment
type Status string

const (
	StatusPending Status = "PENDING" // nothing paid yet
	StatusPartial Status = "PARTIAL" // 0 < paid < rent
	StatusPaid    Status = "PAID"    // paid >= rent
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for PAID
func (s Status) IsTerminal() bool {
	return s == StatusPaid
}

// OpenStatuses are the statuses that still expect money
var OpenStatuses = []Status{StatusPending, StatusPartial}

// DeriveStatus computes the status implied by the amount paid against the rent
func DeriveStatus(amountPaid, rentAmount decimal.Decimal) Status {
	switch {
	case amountPaid.GreaterThanOrEqual(rentAmount):
		return StatusPaid
	case amountPaid.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}

// Source tells which path generated a payment
type Source string

const (
	SourceInitial   Source = "INITIAL"    // first month, at move-in
	SourceScheduled Source = "SCHEDULED"  // daily scan
	SourceCascade   Source = "NEXT_MONTH" // after the previous month was paid
)

// Payment is one month of rent for one occupancy. At most one exists per
// (occupancy, year, month).
type Payment struct {
	shared.OwnedAggregateRoot
	OccupancyID      uuid.UUID
	Year             int
	Month            int
	RentAmount       decimal.Decimal
	AmountPaid       decimal.Decimal
	DueDate          time.Time
	PaymentDate      *time.Time
	Status           Status
	ReminderCount    int
	LastReminderDate *time.Time
	Remark           string
}

func newPayment(o occupancy.Occupant, period valueobject.BillingPeriod, dueDate time.Time) (*Payment, error) {
	if o == nil {
		return nil, shared.NewDomainError("INVALID_OCCUPANCY", "Occupancy is required")
	}
	if o.GetID() == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OCCUPANCY", "Occupancy ID cannot be empty")
	}
	if _, err := valueobject.NewBillingPeriod(period.Year, period.Month); err != nil {
		return nil, shared.NewDomainError("INVALID_PERIOD", err.Error())
	}
	rent := o.GetRentAmount()
	if !rent.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Rent amount must be positive")
	}
	return &Payment{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(o.GetOwnerID()),
		OccupancyID:        o.GetID(),
		Year:               period.Year,
		Month:              period.Month,
		RentAmount:         rent,
		AmountPaid:         decimal.Zero,
		DueDate:            dueDate,
		Status:             StatusPending,
	}, nil
}

// NewPendingPayment creates an unpaid payment for period, snapshotting the current rent
func NewPendingPayment(o occupancy.Occupant, period valueobject.BillingPeriod, dueDate time.Time, source Source) (*Payment, error) {
	p, err := newPayment(o, period, dueDate)
	if err != nil {
		return nil, err
	}
	p.AddDomainEvent(NewPaymentGeneratedEvent(p, source))
	return p, nil
}

// NewInitialPayment creates the move-in month's payment, already settled on paidAt
func NewInitialPayment(o occupancy.Occupant, period valueobject.BillingPeriod, dueDate, paidAt time.Time) (*Payment, error) {
	p, err := newPayment(o, period, dueDate)
	if err != nil {
		return nil, err
	}
	p.AmountPaid = p.RentAmount
	p.Status = StatusPaid
	p.PaymentDate = &paidAt
	p.AddDomainEvent(NewPaymentGeneratedEvent(p, SourceInitial))
	return p, nil
}

// Period returns the billing month of the payment
func (p *Payment) Period() valueobject.BillingPeriod {
	return valueobject.BillingPeriod{Year: p.Year, Month: p.Month}
}

// MarkPaid settles the payment in full on paidAt. Marking an already paid
// payment changes nothing and returns false.
func (p *Payment) MarkPaid(paidAt time.Time) bool {
	if p.Status == StatusPaid {
		return false
	}
	p.AmountPaid = p.RentAmount
	p.settle(paidAt)
	return true
}

// RecordAmount adds amount to what has been paid and re-derives the status
func (p *Payment) RecordAmount(amount decimal.Decimal, paidAt time.Time) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Payment is already paid")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	return p.setAmountPaid(p.AmountPaid.Add(amount), paidAt)
}

// AdjustAmountPaid overwrites the paid amount of an open payment and re-derives the status
func (p *Payment) AdjustAmountPaid(total decimal.Decimal, at time.Time) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Payment is already paid")
	}
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount paid cannot be negative")
	}
	return p.setAmountPaid(total, at)
}

func (p *Payment) setAmountPaid(total decimal.Decimal, at time.Time) error {
	p.AmountPaid = total
	if DeriveStatus(total, p.RentAmount) == StatusPaid {
		p.settle(at)
		return nil
	}
	p.Status = DeriveStatus(total, p.RentAmount)
	p.touch()
	return nil
}

func (p *Payment) settle(at time.Time) {
	p.Status = StatusPaid
	p.PaymentDate = &at
	p.touch()
	p.AddDomainEvent(NewPaymentPaidEvent(p))
}

// RecordReminder notes that a reminder went out at at
func (p *Payment) RecordReminder(at time.Time) {
	p.ReminderCount++
	p.LastReminderDate = &at
	p.touch()
}

// RemindedOn reports whether a reminder was already sent on day's calendar date in loc
func (p *Payment) RemindedOn(day time.Time, loc *time.Location) bool {
	if p.LastReminderDate == nil {
		return false
	}
	return valueobject.StartOfDay(*p.LastReminderDate, loc).Equal(valueobject.StartOfDay(day, loc))
}

// Outstanding returns how much rent is still owed
func (p *Payment) Outstanding() decimal.Decimal {
	left := p.RentAmount.Sub(p.AmountPaid)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

// IsOverdue reports whether the payment is open and its due date is before today's date
func (p *Payment) IsOverdue(today time.Time, loc *time.Location) bool {
	return !p.Status.IsTerminal() && p.DueDate.Before(valueobject.StartOfDay(today, loc))
}

// String renders a short identifier for logs
func (p *Payment) String() string {
	return fmt.Sprintf("payment %s %s %s", p.OccupancyID, p.Period(), p.Status)
}

func (p *Payment) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
