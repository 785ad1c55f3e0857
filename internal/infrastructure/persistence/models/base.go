package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// OwnedModel carries the fields of an owner-scoped aggregate root
type OwnedModel struct {
	BaseModel
	Version int       `gorm:"not null;default:1"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// fromOwned copies the aggregate root fields into the model. Timestamps are
// stored in UTC so that range queries compare the same representation on
// every driver.
func (m *OwnedModel) fromOwned(a shared.OwnedAggregateRoot) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt.UTC()
	m.UpdatedAt = a.UpdatedAt.UTC()
	m.Version = a.Version
	m.OwnerID = a.OwnerID
}

func (m *OwnedModel) toOwned() shared.OwnedAggregateRoot {
	return shared.OwnedAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		OwnerID: m.OwnerID,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// All returns every model managed by the schema, in dependency order
func All() []any {
	return []any{
		&PropertyModel{},
		&RoomModel{},
		&OccupancyModel{},
		&PaymentModel{},
	}
}
