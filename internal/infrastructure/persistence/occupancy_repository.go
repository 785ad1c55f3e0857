package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/occupancy"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOccupancyRepository implements occupancy.Repository using GORM
type GormOccupancyRepository struct {
	db *gorm.DB
}

// NewGormOccupancyRepository creates a new GormOccupancyRepository
func NewGormOccupancyRepository(db *gorm.DB) *GormOccupancyRepository {
	return &GormOccupancyRepository{db: db}
}

var _ occupancy.Repository = (*GormOccupancyRepository)(nil)

// FindByID finds an occupancy by its ID
func (r *GormOccupancyRepository) FindByID(ctx context.Context, id uuid.UUID) (*occupancy.Occupancy, error) {
	var model models.OccupancyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns occupancies matching the filter and the total match count
func (r *GormOccupancyRepository) FindAll(ctx context.Context, filter occupancy.Filter) ([]occupancy.Occupancy, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OccupancyModel{})
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.RoomID != nil {
		query = query.Where("room_id = ?", *filter.RoomID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OccupancyModel
	if err := applyPaging(query, filter.Filter, OccupancySortFields).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toOccupancies(rows), total, nil
}

// FindActiveWithRoom returns all ACTIVE occupancies that hold a room
func (r *GormOccupancyRepository) FindActiveWithRoom(ctx context.Context) ([]occupancy.Occupancy, error) {
	var rows []models.OccupancyModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND room_id IS NOT NULL", occupancy.StatusActive).
		Order("join_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOccupancies(rows), nil
}

// FindActiveInRoom returns ACTIVE occupancies holding roomID
func (r *GormOccupancyRepository) FindActiveInRoom(ctx context.Context, roomID uuid.UUID) ([]occupancy.Occupancy, error) {
	var rows []models.OccupancyModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND room_id = ?", occupancy.StatusActive, roomID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOccupancies(rows), nil
}

// Save creates or updates an occupancy
func (r *GormOccupancyRepository) Save(ctx context.Context, o *occupancy.Occupancy) error {
	return translateError(r.db.WithContext(ctx).Save(models.OccupancyModelFromDomain(o)).Error)
}

// Delete deletes an occupancy
func (r *GormOccupancyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OccupancyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toOccupancies(rows []models.OccupancyModel) []occupancy.Occupancy {
	items := make([]occupancy.Occupancy, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items
}
