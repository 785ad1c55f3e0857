package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/occupancy"
	"github.com/shopspring/decimal"
)

// OccupancyModel is the persistence model for tenants and occupancies
type OccupancyModel struct {
	OwnedModel
	Kind          occupancy.Kind   `gorm:"type:varchar(20);not null;default:'TENANT'"`
	TenantName    string           `gorm:"type:varchar(200);not null"`
	Phone         string           `gorm:"type:varchar(50)"`
	Email         string           `gorm:"type:varchar(200)"`
	PropertyID    *uuid.UUID       `gorm:"type:uuid;index"`
	RoomID        *uuid.UUID       `gorm:"type:uuid;index"`
	BedNumber     *string          `gorm:"type:varchar(50)"`
	RentAmount    decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	AdvanceAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	AdvanceLeft   decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	JoinDate      time.Time        `gorm:"not null"`
	LeaveDate     *time.Time
	Status        occupancy.Status `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	Notes         string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OccupancyModel) TableName() string {
	return "occupancies"
}

// ToDomain converts the persistence model to a domain Occupancy
func (m *OccupancyModel) ToDomain() *occupancy.Occupancy {
	return &occupancy.Occupancy{
		OwnedAggregateRoot: m.toOwned(),
		Kind:               m.Kind,
		TenantName:         m.TenantName,
		Phone:              m.Phone,
		Email:              m.Email,
		PropertyID:         m.PropertyID,
		RoomID:             m.RoomID,
		BedNumber:          m.BedNumber,
		RentAmount:         m.RentAmount,
		AdvanceAmount:      m.AdvanceAmount,
		AdvanceLeft:        m.AdvanceLeft,
		JoinDate:           m.JoinDate,
		LeaveDate:          m.LeaveDate,
		Status:             m.Status,
		Notes:              m.Notes,
	}
}

// OccupancyModelFromDomain creates a persistence model from a domain Occupancy
func OccupancyModelFromDomain(o *occupancy.Occupancy) *OccupancyModel {
	m := &OccupancyModel{
		Kind:          o.Kind,
		TenantName:    o.TenantName,
		Phone:         o.Phone,
		Email:         o.Email,
		PropertyID:    o.PropertyID,
		RoomID:        o.RoomID,
		BedNumber:     o.BedNumber,
		RentAmount:    o.RentAmount,
		AdvanceAmount: o.AdvanceAmount,
		AdvanceLeft:   o.AdvanceLeft,
		JoinDate:      o.JoinDate.UTC(),
		LeaveDate:     utcPtr(o.LeaveDate),
		Status:        o.Status,
		Notes:         o.Notes,
	}
	m.fromOwned(o.OwnedAggregateRoot)
	return m
}
