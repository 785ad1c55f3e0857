package payment

import (
	"time"

	"github.com/nadwivedi/hostel-sub000/internal/domain/occupancy"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared/valueobject"
)

// DefaultLeadDays is how many days ahead of its due date a payment is created
const DefaultLeadDays = 4

// Decision is the outcome of planning the next payment for an occupancy
type Decision string

const (
	DecisionCreate        Decision = "CREATE"
	DecisionInactive      Decision = "INACTIVE"
	DecisionNoRoom        Decision = "NO_ROOM"
	DecisionNoBase        Decision = "NO_BASE_PAYMENT"
	DecisionOutsideWindow Decision = "OUTSIDE_WINDOW"
)

// Plan describes the payment that follows the latest one
type Plan struct {
	Decision Decision
	Period   valueobject.BillingPeriod
	DueDate  time.Time
}

// ShouldCreate reports whether the plan asks for a new payment
func (p Plan) ShouldCreate() bool {
	return p.Decision == DecisionCreate
}

// NextPeriodFor returns the month after latest and its due date for o
func NextPeriodFor(o occupancy.Occupant, latest *Payment, loc *time.Location) (valueobject.BillingPeriod, time.Time) {
	next := latest.Period().Next()
	return next, occupancy.DueDateFor(o, next, loc)
}

// PlanNext decides whether the month after latest must be generated today.
// The next due date must fall within [start of today, end of today+leadDays].
// Existence of the planned payment is checked by the caller.
func PlanNext(today time.Time, o occupancy.Occupant, latest *Payment, leadDays int, loc *time.Location) Plan {
	if o.GetStatus() != occupancy.StatusActive {
		return Plan{Decision: DecisionInactive}
	}
	if o.GetRoomRef() == nil {
		return Plan{Decision: DecisionNoRoom}
	}
	if latest == nil {
		return Plan{Decision: DecisionNoBase}
	}
	if leadDays < 0 {
		leadDays = 0
	}

	period, due := NextPeriodFor(o, latest, loc)
	plan := Plan{Period: period, DueDate: due}

	windowStart := valueobject.StartOfDay(today, loc)
	windowEnd := valueobject.EndOfDay(windowStart.AddDate(0, 0, leadDays), loc)
	if due.Before(windowStart) || due.After(windowEnd) {
		plan.Decision = DecisionOutsideWindow
		return plan
	}
	plan.Decision = DecisionCreate
	return plan
}
