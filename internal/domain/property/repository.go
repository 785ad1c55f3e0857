package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
)

// RoomFilter narrows room queries
type RoomFilter struct {
	shared.Filter
	OwnerID    *uuid.UUID
	PropertyID *uuid.UUID
	RentType   *RentType
}

// RoomRepository persists rooms
type RoomRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	// FindAll returns one page of rooms and the total count. A PageSize of
	// zero or less returns every match.
	FindAll(ctx context.Context, filter RoomFilter) ([]Room, int64, error)

	// ExistsByNumber reports whether the owner already has the room number
	// inside the property, ignoring excludeID
	ExistsByNumber(ctx context.Context, ownerID uuid.UUID, propertyID *uuid.UUID, roomNumber string, excludeID *uuid.UUID) (bool, error)

	// Save creates or updates a room (last write wins)
	Save(ctx context.Context, room *Room) error

	// SaveWithLock updates a room only if its stored version still equals
	// expectedVersion; otherwise it returns shared.ErrConcurrencyConflict
	SaveWithLock(ctx context.Context, room *Room, expectedVersion int) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// PropertyRepository persists properties
type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
	FindAll(ctx context.Context, ownerID *uuid.UUID, filter shared.Filter) ([]Property, int64, error)
	Save(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id uuid.UUID) error
}
