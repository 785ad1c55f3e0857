package occupancy

import (
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/occupancy"
	"github.com/shopspring/decimal"
)

// CreateOccupancyRequest opens a tenancy
type CreateOccupancyRequest struct {
	Kind          string          `json:"kind" binding:"omitempty,oneof=TENANT OCCUPANCY"`
	TenantName    string          `json:"tenant_name" binding:"required,min=1,max=200"`
	Phone         string          `json:"phone" binding:"max=30"`
	Email         string          `json:"email" binding:"omitempty,email"`
	PropertyID    *uuid.UUID      `json:"property_id"`
	RoomID        *uuid.UUID      `json:"room_id"`
	BedNumber     *string         `json:"bed_number" binding:"omitempty,max=20"`
	RentAmount    decimal.Decimal `json:"rent_amount"`
	AdvanceAmount decimal.Decimal `json:"advance_amount"`
	JoinDate      time.Time       `json:"join_date" binding:"required"`
	Notes         string          `json:"notes" binding:"max=2000"`
}

// UpdateOccupancyRequest changes an occupancy. Status COMPLETED ends it;
// RoomID/BedNumber move an active occupancy to another slot.
type UpdateOccupancyRequest struct {
	TenantName    *string          `json:"tenant_name" binding:"omitempty,min=1,max=200"`
	Phone         *string          `json:"phone" binding:"omitempty,max=30"`
	Email         *string          `json:"email" binding:"omitempty,email"`
	Notes         *string          `json:"notes" binding:"omitempty,max=2000"`
	RentAmount    *decimal.Decimal `json:"rent_amount"`
	AdvanceAmount *decimal.Decimal `json:"advance_amount"`
	PropertyID    *uuid.UUID       `json:"property_id"`
	RoomID        *uuid.UUID       `json:"room_id"`
	BedNumber     *string          `json:"bed_number" binding:"omitempty,max=20"`
	Status        *string          `json:"status" binding:"omitempty,oneof=ACTIVE COMPLETED"`
	LeaveDate     *time.Time       `json:"leave_date"`
}

// OccupancyResponse is the API view of an occupancy
type OccupancyResponse struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	Kind          string          `json:"kind"`
	TenantName    string          `json:"tenant_name"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	PropertyID    *uuid.UUID      `json:"property_id,omitempty"`
	RoomID        *uuid.UUID      `json:"room_id,omitempty"`
	BedNumber     *string         `json:"bed_number,omitempty"`
	RentAmount    decimal.Decimal `json:"rent_amount"`
	AdvanceAmount decimal.Decimal `json:"advance_amount"`
	AdvanceLeft   decimal.Decimal `json:"advance_left"`
	JoinDate      time.Time       `json:"join_date"`
	LeaveDate     *time.Time      `json:"leave_date,omitempty"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToOccupancyResponse converts a domain occupancy
func ToOccupancyResponse(o *occupancy.Occupancy) OccupancyResponse {
	return OccupancyResponse{
		ID:            o.ID,
		OwnerID:       o.OwnerID,
		Kind:          string(o.Kind),
		TenantName:    o.TenantName,
		Phone:         o.Phone,
		Email:         o.Email,
		PropertyID:    o.PropertyID,
		RoomID:        o.RoomID,
		BedNumber:     o.BedNumber,
		RentAmount:    o.RentAmount,
		AdvanceAmount: o.AdvanceAmount,
		AdvanceLeft:   o.AdvanceLeft,
		JoinDate:      o.JoinDate,
		LeaveDate:     o.LeaveDate,
		Status:        string(o.Status),
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// OccupancyListFilter narrows occupancy listings
type OccupancyListFilter struct {
	Status     string
	Kind       string
	RoomID     *uuid.UUID
	PropertyID *uuid.UUID
	Page       int
	PageSize   int
}
