package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/property"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRoomRepository implements property.RoomRepository using GORM
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

var _ property.RoomRepository = (*GormRoomRepository)(nil)

// FindByID finds a room by its ID
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Room, error) {
	var model models.RoomModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns rooms matching the filter and the total match count
func (r *GormRoomRepository) FindAll(ctx context.Context, filter property.RoomFilter) ([]property.Room, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RoomModel{})
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.RentType != nil {
		query = query.Where("rent_type = ?", *filter.RentType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.RoomModel
	if err := applyPaging(query, filter.Filter, RoomSortFields).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	rooms := make([]property.Room, len(rows))
	for i := range rows {
		rooms[i] = *rows[i].ToDomain()
	}
	return rooms, total, nil
}

// ExistsByNumber checks whether the owner already uses roomNumber in the property
func (r *GormRoomRepository) ExistsByNumber(ctx context.Context, ownerID uuid.UUID, propertyID *uuid.UUID, roomNumber string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.RoomModel{}).
		Where("owner_id = ? AND room_number = ?", ownerID, roomNumber)
	if propertyID != nil {
		query = query.Where("property_id = ?", *propertyID)
	} else {
		query = query.Where("property_id IS NULL")
	}
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a room
func (r *GormRoomRepository) Save(ctx context.Context, room *property.Room) error {
	return translateError(r.db.WithContext(ctx).Save(models.RoomModelFromDomain(room)).Error)
}

// SaveWithLock saves with optimistic locking against expectedVersion
func (r *GormRoomRepository) SaveWithLock(ctx context.Context, room *property.Room, expectedVersion int) error {
	model := models.RoomModelFromDomain(room)
	result := r.db.WithContext(ctx).
		Model(&models.RoomModel{}).
		Where("id = ? AND version = ?", room.ID, expectedVersion).
		Updates(map[string]interface{}{
			"room_number": model.RoomNumber,
			"rent_type":   model.RentType,
			"rent_amount": model.RentAmount,
			"status":      model.Status,
			"beds":        model.Beds,
			"description": model.Description,
			"property_id": model.PropertyID,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a room
func (r *GormRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RoomModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
