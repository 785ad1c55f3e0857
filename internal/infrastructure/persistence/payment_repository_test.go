package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/occupancy"
	"github.com/nadwivedi/hostel-sub000/internal/domain/payment"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func period(t *testing.T, y, m int) valueobject.BillingPeriod {
	t.Helper()
	p, err := valueobject.NewBillingPeriod(y, m)
	require.NoError(t, err)
	return p
}

func pendingPayment(t *testing.T, o *occupancy.Occupancy, y, m, day int) *payment.Payment {
	t.Helper()
	p, err := payment.NewPendingPayment(o, period(t, y, m), date(y, time.Month(m), day), payment.SourceScheduled)
	require.NoError(t, err)
	return p
}

func TestGormPaymentRepository_CreateIsUniquePerPeriod(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPaymentRepository(newTestDB(t))
	o := newOccupancy(t, uuid.New(), nil, nil)

	first := pendingPayment(t, o, 2025, 3, 15)
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, pendingPayment(t, o, 2025, 3, 15))
	assert.ErrorIs(t, err, shared.ErrDuplicateKey)

	found, err := repo.FindByPeriod(ctx, o.ID, period(t, 2025, 3))
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.True(t, found.RentAmount.Equal(decimal.NewFromInt(4000)))
	assert.Equal(t, payment.StatusPending, found.Status)

	exists, err := repo.ExistsForPeriod(ctx, o.ID, period(t, 2025, 4))
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.FindByPeriod(ctx, o.ID, period(t, 2025, 4))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPaymentRepository_FindLatestForOccupancy(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPaymentRepository(newTestDB(t))
	o := newOccupancy(t, uuid.New(), nil, nil)

	_, err := repo.FindLatestForOccupancy(ctx, o.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	for _, ym := range [][2]int{{2024, 12}, {2025, 2}, {2025, 1}} {
		require.NoError(t, repo.Create(ctx, pendingPayment(t, o, ym[0], ym[1], 15)))
	}

	latest, err := repo.FindLatestForOccupancy(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 2025, latest.Year)
	assert.Equal(t, 2, latest.Month)
}

func TestGormPaymentRepository_DueQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPaymentRepository(newTestDB(t))
	owner := uuid.New()
	a := newOccupancy(t, owner, nil, nil)
	b := newOccupancy(t, uuid.New(), nil, nil)

	overdue := pendingPayment(t, a, 2025, 3, 1)
	dueSoon := pendingPayment(t, a, 2025, 4, 12)
	paid := pendingPayment(t, b, 2025, 3, 5)
	paid.MarkPaid(date(2025, 3, 5))
	later := pendingPayment(t, b, 2025, 4, 30)
	for _, p := range []*payment.Payment{overdue, dueSoon, paid, later} {
		require.NoError(t, repo.Create(ctx, p))
	}

	today := date(2025, 4, 10)
	open := []payment.Status{payment.StatusPending, payment.StatusPartial}

	due, err := repo.FindDueBetween(ctx, nil, open, today, today.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, dueSoon.ID, due[0].ID)

	late, err := repo.FindOverdue(ctx, nil, today)
	require.NoError(t, err)
	require.Len(t, late, 1)
	assert.Equal(t, overdue.ID, late[0].ID)

	other := uuid.New()
	late, err = repo.FindOverdue(ctx, &other, today)
	require.NoError(t, err)
	assert.Empty(t, late)

	from, to := date(2025, 3, 1), date(2025, 3, 31)
	items, total, err := repo.FindAll(ctx, payment.Filter{DueFrom: &from, DueTo: &to})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)

	items, total, err = repo.FindAll(ctx, payment.Filter{OwnerID: &owner, Statuses: open})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)
}

func TestGormPaymentRepository_SaveUpdatesAmounts(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPaymentRepository(newTestDB(t))
	o := newOccupancy(t, uuid.New(), nil, nil)
	p := pendingPayment(t, o, 2025, 5, 15)
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, p.RecordAmount(decimal.NewFromInt(1500), date(2025, 5, 16)))
	p.RecordReminder(date(2025, 5, 12))
	require.NoError(t, repo.Save(ctx, p))

	loaded, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPartial, loaded.Status)
	assert.True(t, loaded.AmountPaid.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, 1, loaded.ReminderCount)
	require.NotNil(t, loaded.LastReminderDate)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func newMockPaymentRepository(t *testing.T) (*GormPaymentRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewGormPaymentRepository(gormDB), mock, mockDB
}

func TestGormPaymentRepository_FindLatestForOccupancy_SQL(t *testing.T) {
	repo, mock, mockDB := newMockPaymentRepository(t)
	defer mockDB.Close()

	occupancyID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "occupancy_id", "year", "month", "status", "rent_amount", "amount_paid"}).
		AddRow(uuid.New(), occupancyID, 2025, 6, "PENDING", "4000", "0")

	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE occupancy_id = \$1 ORDER BY year DESC,month DESC.* LIMIT .*`).
		WithArgs(occupancyID, 1).
		WillReturnRows(rows)

	p, err := repo.FindLatestForOccupancy(context.Background(), occupancyID)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Month)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPaymentRepository_FindByID_DBError(t *testing.T) {
	repo, mock, mockDB := newMockPaymentRepository(t)
	defer mockDB.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}
