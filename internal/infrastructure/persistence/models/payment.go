package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for a monthly payment. The unique
// index on (occupancy_id, year, month) is what makes generation idempotent
// across concurrent callers.
type PaymentModel struct {
	OwnedModel
	OccupancyID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_payment_occupancy_period,priority:1"`
	Year             int             `gorm:"not null;uniqueIndex:idx_payment_occupancy_period,priority:2"`
	Month            int             `gorm:"not null;uniqueIndex:idx_payment_occupancy_period,priority:3"`
	RentAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountPaid       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DueDate          time.Time       `gorm:"not null;index"`
	PaymentDate      *time.Time
	Status           payment.Status `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ReminderCount    int            `gorm:"not null;default:0"`
	LastReminderDate *time.Time
	Remark           string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *payment.Payment {
	return &payment.Payment{
		OwnedAggregateRoot: m.toOwned(),
		OccupancyID:        m.OccupancyID,
		Year:               m.Year,
		Month:              m.Month,
		RentAmount:         m.RentAmount,
		AmountPaid:         m.AmountPaid,
		DueDate:            m.DueDate,
		PaymentDate:        m.PaymentDate,
		Status:             m.Status,
		ReminderCount:      m.ReminderCount,
		LastReminderDate:   m.LastReminderDate,
		Remark:             m.Remark,
	}
}

// PaymentModelFromDomain creates a persistence model from a domain Payment
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	m := &PaymentModel{
		OccupancyID:      p.OccupancyID,
		Year:             p.Year,
		Month:            p.Month,
		RentAmount:       p.RentAmount,
		AmountPaid:       p.AmountPaid,
		DueDate:          p.DueDate.UTC(),
		PaymentDate:      utcPtr(p.PaymentDate),
		Status:           p.Status,
		ReminderCount:    p.ReminderCount,
		LastReminderDate: utcPtr(p.LastReminderDate),
		Remark:           p.Remark,
	}
	m.fromOwned(p.OwnedAggregateRoot)
	return m
}
