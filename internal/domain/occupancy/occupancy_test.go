package occupancy

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewOccupancyParams {
	roomID := uuid.New()
	bed := "2"
	return NewOccupancyParams{
		OwnerID:       uuid.New(),
		TenantName:    "Ravi Kumar",
		Phone:         "9876543210",
		RoomID:        &roomID,
		BedNumber:     &bed,
		RentAmount:    decimal.NewFromInt(4000),
		AdvanceAmount: decimal.NewFromInt(10000),
		JoinDate:      time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewOccupancy(t *testing.T) {
	o, err := NewOccupancy(validParams())
	require.NoError(t, err)

	assert.Equal(t, KindTenant, o.Kind)
	assert.Equal(t, StatusActive, o.Status)
	assert.True(t, o.AdvanceLeft.Equal(decimal.NewFromInt(6000)))
	require.Len(t, o.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeOccupancyCreated, o.GetDomainEvents()[0].EventType())

	ref := o.GetRoomRef()
	require.NotNil(t, ref)
	assert.Equal(t, "2", *ref.BedNumber)
}

func TestNewOccupancy_Validation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(p *NewOccupancyParams)
		wantCode string
	}{
		{"missing owner", func(p *NewOccupancyParams) { p.OwnerID = uuid.Nil }, "INVALID_OWNER"},
		{"bad kind", func(p *NewOccupancyParams) { p.Kind = "LEASE" }, "INVALID_KIND"},
		{"blank name", func(p *NewOccupancyParams) { p.TenantName = " " }, "INVALID_NAME"},
		{"zero rent", func(p *NewOccupancyParams) { p.RentAmount = decimal.Zero }, "INVALID_AMOUNT"},
		{"negative rent", func(p *NewOccupancyParams) { p.RentAmount = decimal.NewFromInt(-1) }, "INVALID_AMOUNT"},
		{"negative advance", func(p *NewOccupancyParams) { p.AdvanceAmount = decimal.NewFromInt(-5) }, "INVALID_AMOUNT"},
		{"no join date", func(p *NewOccupancyParams) { p.JoinDate = time.Time{} }, "INVALID_JOIN_DATE"},
		{"bed without room", func(p *NewOccupancyParams) { p.RoomID = nil }, "INVALID_ROOM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			_, err := NewOccupancy(p)
			require.Error(t, err)
			de, ok := shared.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, de.Code)
		})
	}
}

func TestAdvanceLeftover(t *testing.T) {
	assert.True(t, AdvanceLeftover(decimal.NewFromInt(5000), decimal.NewFromInt(3000)).Equal(decimal.NewFromInt(2000)))
	assert.True(t, AdvanceLeftover(decimal.NewFromInt(2000), decimal.NewFromInt(3000)).IsZero())
	assert.True(t, AdvanceLeftover(decimal.Zero, decimal.NewFromInt(3000)).IsZero())
}

func TestOccupancy_Complete(t *testing.T) {
	o, err := NewOccupancy(validParams())
	require.NoError(t, err)
	o.ClearDomainEvents()

	leave := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, o.Complete(leave))
	assert.Equal(t, StatusCompleted, o.Status)
	assert.Equal(t, leave, *o.LeaveDate)
	assert.False(t, o.IsActive())
	require.Len(t, o.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeOccupancyCompleted, o.GetDomainEvents()[0].EventType())

	err = o.Complete(leave)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.ErrorIs(t, o.MoveTo(nil, nil, nil), shared.ErrInvalidState)
}

func TestOccupancy_CompleteBeforeJoin(t *testing.T) {
	o, err := NewOccupancy(validParams())
	require.NoError(t, err)
	err = o.Complete(o.JoinDate.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.True(t, o.IsActive())
}

func TestOccupancy_MoveTo(t *testing.T) {
	o, err := NewOccupancy(validParams())
	require.NoError(t, err)

	newRoom := uuid.New()
	blank := "  "
	require.NoError(t, o.MoveTo(nil, &newRoom, &blank))
	assert.Equal(t, newRoom, *o.RoomID)
	assert.Nil(t, o.BedNumber)

	bed := "4"
	assert.Error(t, o.MoveTo(nil, nil, &bed))
	require.NoError(t, o.MoveTo(nil, nil, nil))
	assert.Nil(t, o.GetRoomRef())
}

func TestOccupancy_ChangeAmounts(t *testing.T) {
	o, err := NewOccupancy(validParams())
	require.NoError(t, err)

	require.NoError(t, o.ChangeAmounts(decimal.NewFromInt(4500), decimal.NewFromInt(4000)))
	assert.True(t, o.AdvanceLeft.IsZero())
	assert.Error(t, o.ChangeAmounts(decimal.Zero, decimal.Zero))
}

func TestDueDay(t *testing.T) {
	join := time.Date(2025, 1, 31, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, 31, DueDay(join, time.UTC))

	ist := time.FixedZone("IST", 5*3600+1800)
	assert.Equal(t, 1, DueDay(join, ist), "day is read in the billing location")
}

func TestDueDateFor_Clamps(t *testing.T) {
	o, err := NewOccupancy(validParams()) // joined on the 31st
	require.NoError(t, err)

	tests := []struct {
		period valueobject.BillingPeriod
		want   time.Time
	}{
		{valueobject.BillingPeriod{Year: 2025, Month: 2}, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{valueobject.BillingPeriod{Year: 2025, Month: 4}, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)},
		{valueobject.BillingPeriod{Year: 2025, Month: 5}, time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.period.String(), func(t *testing.T) {
			assert.True(t, tt.want.Equal(DueDateFor(o, tt.period, time.UTC)))
		})
	}
}
