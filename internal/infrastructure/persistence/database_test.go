package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/occupancy"
	"github.com/nadwivedi/hostel-sub000/internal/domain/property"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newTestDB opens a migrated in-memory sqlite database
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"}, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate(zap.NewNop()))
	return db.DB
}

func TestNewDatabase_SQLite(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"}, Options{})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, DriverSQLite, db.Driver())
	assert.NoError(t, db.Ping(context.Background()))
	require.NoError(t, db.AutoMigrate(zap.NewNop()))

	for _, table := range []string{"properties", "rooms", "occupancies", "payments"} {
		assert.True(t, db.DB.Migrator().HasTable(table), table)
	}

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "mysql"}, Options{})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestDatabase_TransactionRollsBack(t *testing.T) {
	gdb := newTestDB(t)
	db := NewDatabaseFromGorm(gdb, DriverSQLite)
	rooms := NewGormRoomRepository(gdb)
	room := newRoom(t, uuid.New(), nil, "T1")

	err := db.Transaction(context.Background(), func(tx *gorm.DB) error {
		require.NoError(t, NewGormRoomRepository(tx).Save(context.Background(), room))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = rooms.FindByID(context.Background(), room.ID)
	assert.Error(t, err)
}

func newRoom(t *testing.T, owner uuid.UUID, propertyID *uuid.UUID, number string, beds ...string) *property.Room {
	t.Helper()
	rentType := property.RentTypePerRoom
	if len(beds) > 0 {
		rentType = property.RentTypePerBed
	}
	room, err := property.NewRoom(owner, propertyID, number, rentType, decimal.NewFromInt(4000), beds)
	require.NoError(t, err)
	return room
}

func newOccupancy(t *testing.T, owner uuid.UUID, roomID *uuid.UUID, bed *string) *occupancy.Occupancy {
	t.Helper()
	o, err := occupancy.NewOccupancy(occupancy.NewOccupancyParams{
		OwnerID:       owner,
		TenantName:    "Ravi",
		RoomID:        roomID,
		BedNumber:     bed,
		RentAmount:    decimal.NewFromInt(4000),
		AdvanceAmount: decimal.NewFromInt(8000),
		JoinDate:      date(2025, 1, 15),
	})
	require.NoError(t, err)
	return o
}
