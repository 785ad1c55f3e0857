package property

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
)

// Property is a building or hostel that groups rooms
type Property struct {
	shared.OwnedAggregateRoot
	Name        string
	Address     string
	Description string
}

// NewProperty creates a property
func NewProperty(ownerID uuid.UUID, name, address, description string) (*Property, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	p := &Property{OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID)}
	if err := p.Update(name, address, description); err != nil {
		return nil, err
	}
	return p, nil
}

// Update changes the property details
func (p *Property) Update(name, address, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Property name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Property name cannot exceed 200 characters")
	}
	p.Name = name
	p.Address = strings.TrimSpace(address)
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
