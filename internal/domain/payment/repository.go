package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared/valueobject"
)

// Filter narrows payment queries
type Filter struct {
	shared.Filter
	OwnerID     *uuid.UUID
	OccupancyID *uuid.UUID
	Statuses    []Status
	Year        *int
	Month       *int
	DueFrom     *time.Time
	DueTo       *time.Time
}

// Repository persists payments
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByPeriod returns the occupancy's payment for period or shared.ErrNotFound
	FindByPeriod(ctx context.Context, occupancyID uuid.UUID, period valueobject.BillingPeriod) (*Payment, error)

	ExistsForPeriod(ctx context.Context, occupancyID uuid.UUID, period valueobject.BillingPeriod) (bool, error)

	// FindLatestForOccupancy returns the payment with the highest (year, month)
	// or shared.ErrNotFound when the occupancy has none
	FindLatestForOccupancy(ctx context.Context, occupancyID uuid.UUID) (*Payment, error)

	FindAll(ctx context.Context, filter Filter) ([]Payment, int64, error)

	// FindDueBetween returns payments in statuses whose due date is within [from, to]
	FindDueBetween(ctx context.Context, ownerID *uuid.UUID, statuses []Status, from, to time.Time) ([]Payment, error)

	// FindOverdue returns open payments due strictly before before
	FindOverdue(ctx context.Context, ownerID *uuid.UUID, before time.Time) ([]Payment, error)

	// Create inserts a new payment. It returns shared.ErrDuplicateKey when the
	// occupancy already has a payment for the same month.
	Create(ctx context.Context, p *Payment) error

	Save(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
