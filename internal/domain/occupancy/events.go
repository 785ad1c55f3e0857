package occupancy

import (
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypeOccupancyCreated   = "OccupancyCreated"
	EventTypeOccupancyCompleted = "OccupancyCompleted"
	EventTypeOccupancyDeleted   = "OccupancyDeleted"

	aggregateType = "Occupancy"
)

// OccupancyCreatedEvent is raised when a tenant moves in
type OccupancyCreatedEvent struct {
	shared.BaseDomainEvent
	Kind       Kind            `json:"kind"`
	RoomID     *uuid.UUID      `json:"room_id,omitempty"`
	BedNumber  *string         `json:"bed_number,omitempty"`
	RentAmount decimal.Decimal `json:"rent_amount"`
	JoinDate   time.Time       `json:"join_date"`
}

// NewOccupancyCreatedEvent creates an OccupancyCreatedEvent
func NewOccupancyCreatedEvent(o *Occupancy) *OccupancyCreatedEvent {
	return &OccupancyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOccupancyCreated, aggregateType, o.ID, o.OwnerID),
		Kind:            o.Kind,
		RoomID:          o.RoomID,
		BedNumber:       o.BedNumber,
		RentAmount:      o.RentAmount,
		JoinDate:        o.JoinDate,
	}
}

// OccupancyCompletedEvent is raised when a tenant moves out
type OccupancyCompletedEvent struct {
	shared.BaseDomainEvent
	RoomID    *uuid.UUID `json:"room_id,omitempty"`
	BedNumber *string    `json:"bed_number,omitempty"`
	LeaveDate time.Time  `json:"leave_date"`
}

// NewOccupancyCompletedEvent creates an OccupancyCompletedEvent
func NewOccupancyCompletedEvent(o *Occupancy) *OccupancyCompletedEvent {
	e := &OccupancyCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOccupancyCompleted, aggregateType, o.ID, o.OwnerID),
		RoomID:          o.RoomID,
		BedNumber:       o.BedNumber,
	}
	if o.LeaveDate != nil {
		e.LeaveDate = *o.LeaveDate
	}
	return e
}

// OccupancyDeletedEvent is raised when an occupancy record is removed
type OccupancyDeletedEvent struct {
	shared.BaseDomainEvent
	WasActive bool `json:"was_active"`
}

// NewOccupancyDeletedEvent creates an OccupancyDeletedEvent
func NewOccupancyDeletedEvent(o *Occupancy) *OccupancyDeletedEvent {
	return &OccupancyDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOccupancyDeleted, aggregateType, o.ID, o.OwnerID),
		WasActive:       o.IsActive(),
	}
}
