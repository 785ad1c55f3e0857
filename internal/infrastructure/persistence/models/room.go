package models

import (
	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/property"
	"github.com/shopspring/decimal"
)

// RoomModel is the persistence model for a room. Beds are kept inline as JSON.
type RoomModel struct {
	OwnedModel
	PropertyID  *uuid.UUID          `gorm:"type:uuid;index"`
	RoomNumber  string              `gorm:"type:varchar(50);not null"`
	RentType    property.RentType   `gorm:"type:varchar(20);not null"`
	RentAmount  decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Status      property.SlotStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE'"`
	Beds        property.Beds       `gorm:"type:jsonb"`
	Description string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RoomModel) TableName() string {
	return "rooms"
}

// ToDomain converts the persistence model to a domain Room
func (m *RoomModel) ToDomain() *property.Room {
	beds := make(property.Beds, len(m.Beds))
	copy(beds, m.Beds)
	return &property.Room{
		OwnedAggregateRoot: m.toOwned(),
		PropertyID:         m.PropertyID,
		RoomNumber:         m.RoomNumber,
		RentType:           m.RentType,
		RentAmount:         m.RentAmount,
		Status:             m.Status,
		Beds:               beds,
		Description:        m.Description,
	}
}

// RoomModelFromDomain creates a persistence model from a domain Room
func RoomModelFromDomain(r *property.Room) *RoomModel {
	m := &RoomModel{
		PropertyID:  r.PropertyID,
		RoomNumber:  r.RoomNumber,
		RentType:    r.RentType,
		RentAmount:  r.RentAmount,
		Status:      r.Status,
		Beds:        r.Beds,
		Description: r.Description,
	}
	if m.Beds == nil {
		m.Beds = property.Beds{}
	}
	m.fromOwned(r.OwnedAggregateRoot)
	return m
}
