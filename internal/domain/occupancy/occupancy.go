package occupancy

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Kind tags which external record shape an occupancy was created through.
// Both shapes share one entity and behave identically for billing.
type Kind string

const (
	KindTenant    Kind = "TENANT"
	KindOccupancy Kind = "OCCUPANCY"
)

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	return k == KindTenant || k == KindOccupancy
}

// Status is the lifecycle state of an occupancy
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusCompleted
}

// IsTerminal returns true once no further rent is generated
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// Occupancy is a person renting a room, or one bed of it, from a join date
type Occupancy struct {
	shared.OwnedAggregateRoot
	Kind          Kind
	TenantName    string
	Phone         string
	Email         string
	PropertyID    *uuid.UUID
	RoomID        *uuid.UUID
	BedNumber     *string
	RentAmount    decimal.Decimal
	AdvanceAmount decimal.Decimal
	AdvanceLeft   decimal.Decimal
	JoinDate      time.Time
	LeaveDate     *time.Time
	Status        Status
	Notes         string
}

// NewOccupancyParams carries the fields needed to open an occupancy
type NewOccupancyParams struct {
	OwnerID       uuid.UUID
	Kind          Kind
	TenantName    string
	Phone         string
	Email         string
	PropertyID    *uuid.UUID
	RoomID        *uuid.UUID
	BedNumber     *string
	RentAmount    decimal.Decimal
	AdvanceAmount decimal.Decimal
	JoinDate      time.Time
	Notes         string
}

// NewOccupancy validates params and creates an ACTIVE occupancy
func NewOccupancy(p NewOccupancyParams) (*Occupancy, error) {
	if p.OwnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if p.Kind == "" {
		p.Kind = KindTenant
	}
	if !p.Kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Kind must be TENANT or OCCUPANCY")
	}
	name := strings.TrimSpace(p.TenantName)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if p.JoinDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_JOIN_DATE", "Join date is required")
	}
	if p.BedNumber != nil && p.RoomID == nil {
		return nil, shared.NewDomainError("INVALID_ROOM", "A bed cannot be assigned without a room")
	}

	o := &Occupancy{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(p.OwnerID),
		Kind:               p.Kind,
		TenantName:         name,
		Phone:              strings.TrimSpace(p.Phone),
		Email:              strings.TrimSpace(p.Email),
		PropertyID:         p.PropertyID,
		RoomID:             p.RoomID,
		BedNumber:          normalizeBed(p.BedNumber),
		JoinDate:           p.JoinDate,
		Status:             StatusActive,
		Notes:              p.Notes,
	}
	if err := o.setAmounts(p.RentAmount, p.AdvanceAmount); err != nil {
		return nil, err
	}

	o.AddDomainEvent(NewOccupancyCreatedEvent(o))
	return o, nil
}

// AdvanceLeftover returns what remains of the advance after the first month's rent
func AdvanceLeftover(advance, rent decimal.Decimal) decimal.Decimal {
	left := advance.Sub(rent)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

func (o *Occupancy) setAmounts(rent, advance decimal.Decimal) error {
	if !rent.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Rent amount must be positive")
	}
	if advance.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Advance amount cannot be negative")
	}
	o.RentAmount = rent
	o.AdvanceAmount = advance
	o.AdvanceLeft = AdvanceLeftover(advance, rent)
	return nil
}

// UpdateDetails changes contact details
func (o *Occupancy) UpdateDetails(name, phone, email, notes string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	o.TenantName = name
	o.Phone = strings.TrimSpace(phone)
	o.Email = strings.TrimSpace(email)
	o.Notes = notes
	o.touch()
	return nil
}

// ChangeAmounts updates rent and advance. Payments already generated keep
// the rent they were created with.
func (o *Occupancy) ChangeAmounts(rent, advance decimal.Decimal) error {
	if err := o.setAmounts(rent, advance); err != nil {
		return err
	}
	o.touch()
	return nil
}

// MoveTo reassigns the occupancy to another room or bed
func (o *Occupancy) MoveTo(propertyID, roomID *uuid.UUID, bedNumber *string) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot move a completed occupancy")
	}
	bedNumber = normalizeBed(bedNumber)
	if bedNumber != nil && roomID == nil {
		return shared.NewDomainError("INVALID_ROOM", "A bed cannot be assigned without a room")
	}
	o.PropertyID = propertyID
	o.RoomID = roomID
	o.BedNumber = bedNumber
	o.touch()
	return nil
}

// Complete ends the occupancy. It is terminal.
func (o *Occupancy) Complete(leaveDate time.Time) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Occupancy is already completed")
	}
	if leaveDate.Before(o.JoinDate) {
		return shared.NewDomainError("INVALID_LEAVE_DATE", "Leave date cannot be before join date")
	}
	o.Status = StatusCompleted
	o.LeaveDate = &leaveDate
	o.touch()
	o.AddDomainEvent(NewOccupancyCompletedEvent(o))
	return nil
}

// IsActive returns true while rent is still generated
func (o *Occupancy) IsActive() bool {
	return o.Status == StatusActive
}

// HoldsRoom returns true if the occupancy is linked to a room
func (o *Occupancy) HoldsRoom() bool {
	return o.RoomID != nil
}

func (o *Occupancy) GetRentAmount() decimal.Decimal { return o.RentAmount }
func (o *Occupancy) GetJoinDate() time.Time         { return o.JoinDate }
func (o *Occupancy) GetStatus() Status              { return o.Status }

// GetRoomRef returns the room slot held, or nil
func (o *Occupancy) GetRoomRef() *RoomRef {
	if o.RoomID == nil {
		return nil
	}
	return &RoomRef{RoomID: *o.RoomID, BedNumber: o.BedNumber}
}

func (o *Occupancy) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

func normalizeBed(bed *string) *string {
	if bed == nil {
		return nil
	}
	b := strings.TrimSpace(*bed)
	if b == "" {
		return nil
	}
	return &b
}
