package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/property"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// PropertyService handles property operations
type PropertyService struct {
	properties property.PropertyRepository
	rooms      property.RoomRepository
	logger     *zap.Logger
}

// NewPropertyService creates a PropertyService
func NewPropertyService(properties property.PropertyRepository, rooms property.RoomRepository, logger *zap.Logger) *PropertyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PropertyService{properties: properties, rooms: rooms, logger: logger}
}

// Create creates a property owned by the actor
func (s *PropertyService) Create(ctx context.Context, actor shared.Actor, req CreatePropertyRequest) (*PropertyResponse, error) {
	p, err := property.NewProperty(actor.UserID, req.Name, req.Address, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.properties.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(p)
	return &resp, nil
}

// Get returns a property visible to actor
func (s *PropertyService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*PropertyResponse, error) {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(p)
	return &resp, nil
}

// List returns a page of properties visible to actor
func (s *PropertyService) List(ctx context.Context, actor shared.Actor, f PropertyListFilter) (*shared.Paginated[PropertyResponse], error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 && f.PageSize <= 100 {
		filter.PageSize = f.PageSize
	}

	items, total, err := s.properties.FindAll(ctx, actor.OwnerScope(), filter)
	if err != nil {
		return nil, err
	}
	out := make([]PropertyResponse, len(items))
	for i := range items {
		out[i] = ToPropertyResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update changes the property details
func (s *PropertyService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error) {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	name, address, description := p.Name, p.Address, p.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := p.Update(name, address, description); err != nil {
		return nil, err
	}
	if err := s.properties.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(p)
	return &resp, nil
}

// Delete removes a property that has no rooms left
func (s *PropertyService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	filter := property.RoomFilter{Filter: shared.DefaultFilter(), PropertyID: &p.ID}
	filter.PageSize = 1
	_, count, err := s.rooms.FindAll(ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a property that still has rooms")
	}
	if err := s.properties.Delete(ctx, p.ID); err != nil {
		return err
	}
	s.logger.Info("Property deleted", zap.String("property_id", p.ID.String()))
	return nil
}

func (s *PropertyService) load(ctx context.Context, actor shared.Actor, id uuid.UUID) (*property.Property, error) {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(p.OwnerID) {
		return nil, shared.NewDomainError("NOT_FOUND", "Property not found")
	}
	return p, nil
}
