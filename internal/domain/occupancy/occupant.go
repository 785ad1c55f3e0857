package occupancy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoomRef points at a whole room, or at one bed when BedNumber is set
type RoomRef struct {
	RoomID    uuid.UUID
	BedNumber *string
}

// Occupant is the view of a tenant or occupancy record that billing needs
type Occupant interface {
	GetID() uuid.UUID
	GetOwnerID() uuid.UUID
	GetRentAmount() decimal.Decimal
	GetJoinDate() time.Time
	GetStatus() Status
	GetRoomRef() *RoomRef
}

var _ Occupant = (*Occupancy)(nil)
