package occupancy

import (
	"time"

	"github.com/nadwivedi/hostel-sub000/internal/domain/shared/valueobject"
)

// DueDay is the day of month rent falls due, taken from the join date as
// seen in loc. It is derived on every call and never stored.
func DueDay(joinDate time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	return joinDate.In(loc).Day()
}

// DueDateFor returns when the occupant's rent for period is due, clamped to
// the period's last day for due days the month does not have.
func DueDateFor(o Occupant, period valueobject.BillingPeriod, loc *time.Location) time.Time {
	return period.DueDate(DueDay(o.GetJoinDate(), loc), loc)
}
