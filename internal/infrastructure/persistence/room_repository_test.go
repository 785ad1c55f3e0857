package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/property"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRoomRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRoomRepository(newTestDB(t))
	owner := uuid.New()

	room := newRoom(t, owner, nil, "101", "A", "B")
	require.NoError(t, repo.Save(ctx, room))

	loaded, err := repo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "101", loaded.RoomNumber)
	assert.Equal(t, property.RentTypePerBed, loaded.RentType)
	require.Len(t, loaded.Beds, 2)
	assert.Equal(t, "A", loaded.Beds[0].BedNumber)
	assert.True(t, loaded.RentAmount.Equal(room.RentAmount))

	bed := "B"
	require.NoError(t, loaded.Occupy(&bed))
	require.NoError(t, repo.Save(ctx, loaded))

	again, err := repo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, property.SlotOccupied, again.FindBed("B").Status)
	assert.Equal(t, property.SlotAvailable, again.FindBed("A").Status)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormRoomRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRoomRepository(newTestDB(t))
	owner, other := uuid.New(), uuid.New()
	propertyID := uuid.New()

	for _, n := range []string{"103", "101", "102"} {
		require.NoError(t, repo.Save(ctx, newRoom(t, owner, &propertyID, n)))
	}
	require.NoError(t, repo.Save(ctx, newRoom(t, owner, nil, "201", "A")))
	require.NoError(t, repo.Save(ctx, newRoom(t, other, nil, "101")))

	filter := property.RoomFilter{Filter: shared.Filter{Page: 1, PageSize: 2, OrderBy: "room_number", OrderDir: "asc"}, OwnerID: &owner}
	rooms, total, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].RoomNumber)
	assert.Equal(t, "102", rooms[1].RoomNumber)

	filter.PropertyID = &propertyID
	filter.PageSize = 0
	rooms, total, err = repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rooms, 3)

	perBed := property.RentTypePerBed
	rooms, _, err = repo.FindAll(ctx, property.RoomFilter{RentType: &perBed})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "201", rooms[0].RoomNumber)
}

func TestGormRoomRepository_ExistsByNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRoomRepository(newTestDB(t))
	owner := uuid.New()
	propertyID := uuid.New()

	room := newRoom(t, owner, &propertyID, "101")
	require.NoError(t, repo.Save(ctx, room))

	exists, err := repo.ExistsByNumber(ctx, owner, &propertyID, "101", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByNumber(ctx, owner, &propertyID, "101", &room.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByNumber(ctx, owner, nil, "101", nil)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByNumber(ctx, uuid.New(), &propertyID, "101", nil)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormRoomRepository_UniqueNumberPerProperty(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRoomRepository(newTestDB(t))
	owner := uuid.New()
	propertyID := uuid.New()

	require.NoError(t, repo.Save(ctx, newRoom(t, owner, &propertyID, "101")))
	err := repo.Save(ctx, newRoom(t, owner, &propertyID, "101"))
	assert.ErrorIs(t, err, shared.ErrDuplicateKey)
}

func TestGormRoomRepository_UniqueNumberWithoutProperty(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRoomRepository(newTestDB(t))
	owner := uuid.New()
	propertyID := uuid.New()

	require.NoError(t, repo.Save(ctx, newRoom(t, owner, nil, "G1")))
	assert.ErrorIs(t, repo.Save(ctx, newRoom(t, owner, nil, "G1")), shared.ErrDuplicateKey)

	require.NoError(t, repo.Save(ctx, newRoom(t, owner, &propertyID, "G1")))
	require.NoError(t, repo.Save(ctx, newRoom(t, uuid.New(), nil, "G1")))
}

func TestGormRoomRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRoomRepository(newTestDB(t))
	room := newRoom(t, uuid.New(), nil, "301", "A", "B")
	require.NoError(t, repo.Save(ctx, room))

	first, err := repo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	stale, err := repo.FindByID(ctx, room.ID)
	require.NoError(t, err)

	loadedVersion := first.Version
	a, b := "A", "B"
	require.NoError(t, first.Occupy(&a))
	require.NoError(t, first.Update("301", first.RentAmount, "corner"))
	require.NoError(t, repo.SaveWithLock(ctx, first, loadedVersion))

	require.NoError(t, stale.Occupy(&b))
	assert.ErrorIs(t, repo.SaveWithLock(ctx, stale, loadedVersion), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, property.SlotOccupied, stored.FindBed("A").Status)
	assert.Equal(t, property.SlotAvailable, stored.FindBed("B").Status)
	assert.Equal(t, first.Version, stored.Version)
}

func TestGormRoomRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRoomRepository(newTestDB(t))
	room := newRoom(t, uuid.New(), nil, "401")
	require.NoError(t, repo.Save(ctx, room))

	require.NoError(t, repo.Delete(ctx, room.ID))
	assert.ErrorIs(t, repo.Delete(ctx, room.ID), shared.ErrNotFound)
}

func TestGormPropertyRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPropertyRepository(newTestDB(t))
	owner := uuid.New()

	for _, name := range []string{"Sunrise", "Annex"} {
		p, err := property.NewProperty(owner, name, "MG Road", "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p))
	}
	other, err := property.NewProperty(uuid.New(), "Elsewhere", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	items, total, err := repo.FindAll(ctx, &owner, shared.Filter{Page: 1, PageSize: 10, OrderBy: "name", OrderDir: "asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Annex", items[0].Name)

	_, total, err = repo.FindAll(ctx, nil, shared.DefaultFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	loaded, err := repo.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Elsewhere", loaded.Name)

	require.NoError(t, repo.Delete(ctx, other.ID))
	_, err = repo.FindByID(ctx, other.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
