package occupancy

import (
	"context"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
)

// Filter narrows occupancy queries
type Filter struct {
	shared.Filter
	OwnerID    *uuid.UUID
	PropertyID *uuid.UUID
	RoomID     *uuid.UUID
	Status     *Status
	Kind       *Kind
}

// Repository persists occupancies
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Occupancy, error)
	FindAll(ctx context.Context, filter Filter) ([]Occupancy, int64, error)

	// FindActiveWithRoom returns every ACTIVE occupancy linked to a room, across all owners
	FindActiveWithRoom(ctx context.Context) ([]Occupancy, error)

	// FindActiveInRoom returns ACTIVE occupancies currently holding the room
	FindActiveInRoom(ctx context.Context, roomID uuid.UUID) ([]Occupancy, error)

	Save(ctx context.Context, o *Occupancy) error
	Delete(ctx context.Context, id uuid.UUID) error
}
