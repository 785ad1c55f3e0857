package property

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newBedRoom(t *testing.T, beds ...string) *Room {
	t.Helper()
	r, err := NewRoom(uuid.New(), nil, "101", RentTypePerBed, decimal.NewFromInt(3000), beds)
	require.NoError(t, err)
	return r
}

func TestNewRoom(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name     string
		owner    uuid.UUID
		number   string
		rentType RentType
		rent     decimal.Decimal
		beds     []string
		wantCode string
	}{
		{"per room", owner, "A1", RentTypePerRoom, decimal.NewFromInt(5000), nil, ""},
		{"per bed", owner, "B1", RentTypePerBed, decimal.NewFromInt(2500), []string{"1", "2"}, ""},
		{"missing owner", uuid.Nil, "A1", RentTypePerRoom, decimal.NewFromInt(5000), nil, "INVALID_OWNER"},
		{"blank number", owner, "  ", RentTypePerRoom, decimal.NewFromInt(5000), nil, "INVALID_ROOM_NUMBER"},
		{"bad rent type", owner, "A1", RentType("HOURLY"), decimal.NewFromInt(5000), nil, "INVALID_RENT_TYPE"},
		{"zero rent", owner, "A1", RentTypePerRoom, decimal.Zero, nil, "INVALID_AMOUNT"},
		{"beds on per room", owner, "A1", RentTypePerRoom, decimal.NewFromInt(5000), []string{"1"}, "INVALID_BEDS"},
		{"duplicate beds", owner, "B1", RentTypePerBed, decimal.NewFromInt(2500), []string{"1", "1"}, "INVALID_BEDS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRoom(tt.owner, nil, tt.number, tt.rentType, tt.rent, tt.beds)
			if tt.wantCode != "" {
				require.Error(t, err)
				de, ok := shared.AsDomainError(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, de.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, SlotAvailable, r.Status)
			assert.Len(t, r.Beds, len(tt.beds))
			for _, b := range r.Beds {
				assert.Equal(t, SlotAvailable, b.Status)
			}
		})
	}
}

func TestRoom_OccupyAndReleaseBed(t *testing.T) {
	r := newBedRoom(t, "1", "2", "3")

	require.NoError(t, r.Occupy(strPtr("2")))
	assert.Equal(t, SlotOccupied, r.FindBed("2").Status)
	assert.Equal(t, SlotAvailable, r.FindBed("1").Status)
	assert.Equal(t, SlotAvailable, r.FindBed("3").Status)
	assert.Equal(t, 1, r.OccupiedBeds())
	assert.True(t, r.HasVacancy())

	require.NoError(t, r.Occupy(strPtr("1")))
	require.NoError(t, r.Release(strPtr("2")))
	assert.Equal(t, SlotAvailable, r.FindBed("2").Status)
	assert.Equal(t, SlotOccupied, r.FindBed("1").Status, "sibling bed must be untouched")
}

func TestRoom_OccupyUnknownBed(t *testing.T) {
	r := newBedRoom(t, "1")
	version := r.Version

	err := r.Occupy(strPtr("9"))
	assert.ErrorIs(t, err, ErrBedNotFound)
	assert.Equal(t, version, r.Version)
	assert.Equal(t, SlotAvailable, r.FindBed("1").Status)
}

func TestRoom_WholeRoom(t *testing.T) {
	r, err := NewRoom(uuid.New(), nil, "A1", RentTypePerRoom, decimal.NewFromInt(5000), nil)
	require.NoError(t, err)

	assert.True(t, r.IsSlotAvailable(nil))
	require.NoError(t, r.Occupy(nil))
	assert.Equal(t, SlotOccupied, r.Status)
	assert.False(t, r.IsSlotAvailable(nil))
	assert.False(t, r.HasVacancy())
	assert.True(t, r.IsOccupied())

	require.NoError(t, r.Release(nil))
	assert.Equal(t, SlotAvailable, r.Status)
}

func TestRoom_SetBedsKeepsStatus(t *testing.T) {
	r := newBedRoom(t, "1", "2")
	require.NoError(t, r.Occupy(strPtr("1")))

	require.NoError(t, r.SetBeds([]string{"1", "3"}))
	assert.Equal(t, SlotOccupied, r.FindBed("1").Status)
	assert.Equal(t, SlotAvailable, r.FindBed("3").Status)
	assert.Nil(t, r.FindBed("2"))

	err := r.SetBeds([]string{"3"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestRoom_IsSlotAvailable_PerBedWholeRoom(t *testing.T) {
	r := newBedRoom(t, "1", "2")
	assert.True(t, r.IsSlotAvailable(nil))
	require.NoError(t, r.Occupy(strPtr("1")))
	assert.False(t, r.IsSlotAvailable(nil))
	assert.False(t, r.IsSlotAvailable(strPtr("1")))
	assert.True(t, r.IsSlotAvailable(strPtr("2")))
	assert.False(t, r.IsSlotAvailable(strPtr("7")))
}

func TestBeds_ValueScan(t *testing.T) {
	beds := Beds{{BedNumber: "1", Status: SlotOccupied}}
	v, err := beds.Value()
	require.NoError(t, err)

	var out Beds
	require.NoError(t, out.Scan(v))
	assert.Equal(t, beds, out)

	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)
	assert.Error(t, out.Scan(42))
}

func TestNewProperty(t *testing.T) {
	p, err := NewProperty(uuid.New(), " Sunrise Hostel ", "MG Road", "")
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Hostel", p.Name)

	_, err = NewProperty(uuid.New(), "", "", "")
	assert.Error(t, err)
}
