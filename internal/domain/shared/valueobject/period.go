package valueobject

import (
	"fmt"
	"time"
)

// BillingPeriod identifies one calendar month of rent
type BillingPeriod struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// NewBillingPeriod validates and creates a billing period
func NewBillingPeriod(year, month int) (BillingPeriod, error) {
	if month < 1 || month > 12 {
		return BillingPeriod{}, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 1 {
		return BillingPeriod{}, fmt.Errorf("year must be positive, got %d", year)
	}
	return BillingPeriod{Year: year, Month: month}, nil
}

// PeriodOf returns the billing period containing t, read in t's own location
func PeriodOf(t time.Time) BillingPeriod {
	return BillingPeriod{Year: t.Year(), Month: int(t.Month())}
}

// Next returns the following calendar month. December rolls to January of the next year.
func (p BillingPeriod) Next() BillingPeriod {
	if p.Month >= 12 {
		return BillingPeriod{Year: p.Year + 1, Month: 1}
	}
	return BillingPeriod{Year: p.Year, Month: p.Month + 1}
}

// Before reports whether p is earlier than other
func (p BillingPeriod) Before(other BillingPeriod) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// After reports whether p is later than other
func (p BillingPeriod) After(other BillingPeriod) bool {
	return other.Before(p)
}

// IsZero reports whether the period is unset
func (p BillingPeriod) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Days returns the number of days in the period's month
func (p BillingPeriod) Days() int {
	return DaysIn(p.Year, p.Month)
}

// DueDate returns midnight of dueDay within the period in loc.
// A day past the end of the month is clamped to the month's last day;
// it never spills into the following month.
func (p BillingPeriod) DueDate(dueDay int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	day := ClampDay(dueDay, p.Year, p.Month)
	return time.Date(p.Year, time.Month(p.Month), day, 0, 0, 0, 0, loc)
}

// String renders the period as YYYY-MM
func (p BillingPeriod) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// DaysIn returns the number of days in the given month
func DaysIn(year, month int) int {
	// day 0 of the following month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay bounds day to [1, DaysIn(year, month)]
func ClampDay(day, year, month int) int {
	if day < 1 {
		return 1
	}
	if last := DaysIn(year, month); day > last {
		return last
	}
	return day
}

// StartOfDay returns t's calendar date at 00:00:00 in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last representable instant of t's calendar date in loc
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
