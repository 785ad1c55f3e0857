package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/payment"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared/valueobject"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements payment.Repository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

var _ payment.Repository = (*GormPaymentRepository)(nil)

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByPeriod finds the occupancy's payment for one month
func (r *GormPaymentRepository) FindByPeriod(ctx context.Context, occupancyID uuid.UUID, period valueobject.BillingPeriod) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("occupancy_id = ? AND year = ? AND month = ?", occupancyID, period.Year, period.Month).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsForPeriod checks whether the occupancy already has a payment for the month
func (r *GormPaymentRepository) ExistsForPeriod(ctx context.Context, occupancyID uuid.UUID, period valueobject.BillingPeriod) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("occupancy_id = ? AND year = ? AND month = ?", occupancyID, period.Year, period.Month).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindLatestForOccupancy returns the payment with the highest (year, month)
func (r *GormPaymentRepository) FindLatestForOccupancy(ctx context.Context, occupancyID uuid.UUID) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("occupancy_id = ?", occupancyID).
		Order("year DESC").Order("month DESC").
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns payments matching the filter and the total match count
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter payment.Filter) ([]payment.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{})
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.OccupancyID != nil {
		query = query.Where("occupancy_id = ?", *filter.OccupancyID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	if filter.Month != nil {
		query = query.Where("month = ?", *filter.Month)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", filter.DueFrom.UTC())
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", filter.DueTo.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PaymentModel
	if err := applyPaging(query, filter.Filter, PaymentSortFields).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toPayments(rows), total, nil
}

// FindDueBetween returns payments in one of statuses due within [from, to]
func (r *GormPaymentRepository) FindDueBetween(ctx context.Context, ownerID *uuid.UUID, statuses []payment.Status, from, to time.Time) ([]payment.Payment, error) {
	query := r.db.WithContext(ctx).
		Where("due_date >= ? AND due_date <= ?", from.UTC(), to.UTC())
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var rows []models.PaymentModel
	if err := query.Order("due_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPayments(rows), nil
}

// FindOverdue returns unpaid payments due strictly before before
func (r *GormPaymentRepository) FindOverdue(ctx context.Context, ownerID *uuid.UUID, before time.Time) ([]payment.Payment, error) {
	query := r.db.WithContext(ctx).
		Where("due_date < ? AND status <> ?", before.UTC(), payment.StatusPaid)
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var rows []models.PaymentModel
	if err := query.Order("due_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPayments(rows), nil
}

// Create inserts a new payment. The unique period index turns a concurrent
// duplicate into shared.ErrDuplicateKey.
func (r *GormPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	return translateError(r.db.WithContext(ctx).Create(models.PaymentModelFromDomain(p)).Error)
}

// Save updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return translateError(r.db.WithContext(ctx).Save(models.PaymentModelFromDomain(p)).Error)
}

// Delete deletes a payment
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PaymentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toPayments(rows []models.PaymentModel) []payment.Payment {
	items := make([]payment.Payment, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items
}
