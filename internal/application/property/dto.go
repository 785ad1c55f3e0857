package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/property"
	"github.com/shopspring/decimal"
)

// CreatePropertyRequest creates a property
type CreatePropertyRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Address     string `json:"address" binding:"max=500"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdatePropertyRequest updates a property
type UpdatePropertyRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// PropertyResponse is the API view of a property
type PropertyResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToPropertyResponse converts a domain property
func ToPropertyResponse(p *property.Property) PropertyResponse {
	return PropertyResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Address:     p.Address,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CreateRoomRequest creates a room
type CreateRoomRequest struct {
	PropertyID  *uuid.UUID      `json:"property_id"`
	RoomNumber  string          `json:"room_number" binding:"required,min=1,max=50"`
	RentType    string          `json:"rent_type" binding:"required,oneof=PER_ROOM PER_BED"`
	RentAmount  decimal.Decimal `json:"rent_amount" binding:"required"`
	Beds        []string        `json:"beds" binding:"omitempty,dive,min=1,max=20"`
	Description string          `json:"description" binding:"max=2000"`
}

// UpdateRoomRequest updates a room. Beds replaces the bed list when set.
type UpdateRoomRequest struct {
	RoomNumber  *string          `json:"room_number" binding:"omitempty,min=1,max=50"`
	RentAmount  *decimal.Decimal `json:"rent_amount"`
	Beds        []string         `json:"beds" binding:"omitempty,dive,min=1,max=20"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
}

// BedResponse is one bed of a PER_BED room
type BedResponse struct {
	BedNumber string `json:"bed_number"`
	Status    string `json:"status"`
}

// RoomResponse is the API view of a room
type RoomResponse struct {
	ID           uuid.UUID       `json:"id"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	PropertyID   *uuid.UUID      `json:"property_id,omitempty"`
	RoomNumber   string          `json:"room_number"`
	RentType     string          `json:"rent_type"`
	RentAmount   decimal.Decimal `json:"rent_amount"`
	Status       string          `json:"status"`
	Beds         []BedResponse   `json:"beds"`
	OccupiedBeds int             `json:"occupied_beds"`
	HasVacancy   bool            `json:"has_vacancy"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ToRoomResponse converts a domain room
func ToRoomResponse(r *property.Room) RoomResponse {
	beds := make([]BedResponse, len(r.Beds))
	for i, b := range r.Beds {
		beds[i] = BedResponse{BedNumber: b.BedNumber, Status: string(b.Status)}
	}
	return RoomResponse{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		PropertyID:   r.PropertyID,
		RoomNumber:   r.RoomNumber,
		RentType:     string(r.RentType),
		RentAmount:   r.RentAmount,
		Status:       string(r.Status),
		Beds:         beds,
		OccupiedBeds: r.OccupiedBeds(),
		HasVacancy:   r.HasVacancy(),
		Description:  r.Description,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}

// ToRoomResponses converts a list of rooms
func ToRoomResponses(rooms []property.Room) []RoomResponse {
	out := make([]RoomResponse, len(rooms))
	for i := range rooms {
		out[i] = ToRoomResponse(&rooms[i])
	}
	return out
}

// RoomListFilter narrows room listings
type RoomListFilter struct {
	PropertyID *uuid.UUID
	RentType   string
	Page       int
	PageSize   int
}

// PropertyListFilter narrows property listings
type PropertyListFilter struct {
	Page     int
	PageSize int
}
