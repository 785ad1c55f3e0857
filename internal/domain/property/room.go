package property

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RentType decides whether a room is let as a whole or bed by bed
type RentType string

const (
	RentTypePerRoom RentType = "PER_ROOM"
	RentTypePerBed  RentType = "PER_BED"
)

// IsValid checks if the rent type is known
func (t RentType) IsValid() bool {
	return t == RentTypePerRoom || t == RentTypePerBed
}

// SlotStatus is the availability of a room or a single bed
type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotOccupied  SlotStatus = "OCCUPIED"
)

// IsValid checks if the status is known
func (s SlotStatus) IsValid() bool {
	return s == SlotAvailable || s == SlotOccupied
}

// ErrBedNotFound is returned when a bed number does not exist in the room
var ErrBedNotFound = shared.NewDomainError("BED_NOT_FOUND", "Bed not found in room")

// Bed is a single rentable bed inside a PER_BED room
type Bed struct {
	BedNumber string     `json:"bed_number"`
	Status    SlotStatus `json:"status"`
}

// Beds is the ordered bed list of a room, stored as JSONB
type Beds []Bed

// Value implements driver.Valuer for JSONB storage
func (b Beds) Value() (driver.Value, error) {
	if b == nil {
		return "[]", nil
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for JSONB storage
func (b *Beds) Scan(value interface{}) error {
	if value == nil {
		*b = Beds{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("failed to scan Beds: unsupported type")
	}
	if len(data) == 0 {
		*b = Beds{}
		return nil
	}
	return json.Unmarshal(data, b)
}

// Room is a rentable room. PER_ROOM rooms track availability on Status;
// PER_BED rooms track it per bed and Status is not authoritative.
type Room struct {
	shared.OwnedAggregateRoot
	PropertyID  *uuid.UUID
	RoomNumber  string
	RentType    RentType
	RentAmount  decimal.Decimal
	Status      SlotStatus
	Beds        Beds
	Description string
}

// NewRoom creates a room. Bed numbers are only accepted for PER_BED rooms.
func NewRoom(ownerID uuid.UUID, propertyID *uuid.UUID, roomNumber string, rentType RentType, rentAmount decimal.Decimal, bedNumbers []string) (*Room, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	roomNumber = strings.TrimSpace(roomNumber)
	if roomNumber == "" {
		return nil, shared.NewDomainError("INVALID_ROOM_NUMBER", "Room number cannot be empty")
	}
	if len(roomNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ROOM_NUMBER", "Room number cannot exceed 50 characters")
	}
	if !rentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RENT_TYPE", "Rent type must be PER_ROOM or PER_BED")
	}
	if !rentAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Rent amount must be positive")
	}

	r := &Room{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		PropertyID:         propertyID,
		RoomNumber:         roomNumber,
		RentType:           rentType,
		RentAmount:         rentAmount,
		Status:             SlotAvailable,
		Beds:               Beds{},
	}
	if err := r.SetBeds(bedNumbers); err != nil {
		return nil, err
	}
	return r, nil
}

// Update changes the editable room details
func (r *Room) Update(roomNumber string, rentAmount decimal.Decimal, description string) error {
	roomNumber = strings.TrimSpace(roomNumber)
	if roomNumber == "" {
		return shared.NewDomainError("INVALID_ROOM_NUMBER", "Room number cannot be empty")
	}
	if !rentAmount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Rent amount must be positive")
	}
	r.RoomNumber = roomNumber
	r.RentAmount = rentAmount
	r.Description = description
	r.touch()
	return nil
}

// SetBeds replaces the bed list, keeping the status of beds that survive.
// Removing an occupied bed is rejected.
func (r *Room) SetBeds(bedNumbers []string) error {
	if r.RentType == RentTypePerRoom {
		if len(bedNumbers) > 0 {
			return shared.NewDomainError("INVALID_BEDS", "PER_ROOM rooms cannot have beds")
		}
		r.Beds = Beds{}
		return nil
	}

	seen := make(map[string]struct{}, len(bedNumbers))
	next := make(Beds, 0, len(bedNumbers))
	for _, n := range bedNumbers {
		n = strings.TrimSpace(n)
		if n == "" {
			return shared.NewDomainError("INVALID_BEDS", "Bed number cannot be empty")
		}
		if _, dup := seen[n]; dup {
			return shared.NewDomainError("INVALID_BEDS", fmt.Sprintf("Duplicate bed number %s", n))
		}
		seen[n] = struct{}{}

		status := SlotAvailable
		if existing := r.FindBed(n); existing != nil {
			status = existing.Status
		}
		next = append(next, Bed{BedNumber: n, Status: status})
	}

	for _, b := range r.Beds {
		if _, kept := seen[b.BedNumber]; !kept && b.Status == SlotOccupied {
			return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Bed %s is occupied and cannot be removed", b.BedNumber))
		}
	}

	r.Beds = next
	r.touch()
	return nil
}

// FindBed returns the bed with the given number, or nil
func (r *Room) FindBed(bedNumber string) *Bed {
	for i := range r.Beds {
		if r.Beds[i].BedNumber == bedNumber {
			return &r.Beds[i]
		}
	}
	return nil
}

// Occupy marks the bed (or the whole room when bedNumber is nil) as occupied
func (r *Room) Occupy(bedNumber *string) error {
	return r.setSlot(bedNumber, SlotOccupied)
}

// Release marks the bed (or the whole room when bedNumber is nil) as available
func (r *Room) Release(bedNumber *string) error {
	return r.setSlot(bedNumber, SlotAvailable)
}

func (r *Room) setSlot(bedNumber *string, status SlotStatus) error {
	if bedNumber != nil {
		bed := r.FindBed(*bedNumber)
		if bed == nil {
			return ErrBedNotFound
		}
		bed.Status = status
	} else {
		r.Status = status
	}
	r.touch()
	return nil
}

// IsSlotAvailable reports whether the bed (or whole room) can be assigned
func (r *Room) IsSlotAvailable(bedNumber *string) bool {
	if bedNumber != nil {
		bed := r.FindBed(*bedNumber)
		return bed != nil && bed.Status == SlotAvailable
	}
	if r.RentType == RentTypePerBed {
		return r.OccupiedBeds() == 0 && r.Status != SlotOccupied
	}
	return r.Status == SlotAvailable
}

// OccupiedBeds counts occupied beds
func (r *Room) OccupiedBeds() int {
	n := 0
	for _, b := range r.Beds {
		if b.Status == SlotOccupied {
			n++
		}
	}
	return n
}

// HasVacancy reports whether anything in the room can still be let
func (r *Room) HasVacancy() bool {
	if r.RentType == RentTypePerBed {
		return r.OccupiedBeds() < len(r.Beds)
	}
	return r.Status == SlotAvailable
}

// IsOccupied reports whether anyone is recorded as living in the room
func (r *Room) IsOccupied() bool {
	return r.Status == SlotOccupied || r.OccupiedBeds() > 0
}

func (r *Room) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
