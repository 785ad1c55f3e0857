package models

import (
	"github.com/nadwivedi/hostel-sub000/internal/domain/property"
)

// PropertyModel is the persistence model for a property
type PropertyModel struct {
	OwnedModel
	Name        string `gorm:"type:varchar(200);not null"`
	Address     string `gorm:"type:text"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property
func (m *PropertyModel) ToDomain() *property.Property {
	return &property.Property{
		OwnedAggregateRoot: m.toOwned(),
		Name:               m.Name,
		Address:            m.Address,
		Description:        m.Description,
	}
}

// PropertyModelFromDomain creates a persistence model from a domain Property
func PropertyModelFromDomain(p *property.Property) *PropertyModel {
	m := &PropertyModel{
		Name:        p.Name,
		Address:     p.Address,
		Description: p.Description,
	}
	m.fromOwned(p.OwnedAggregateRoot)
	return m
}
