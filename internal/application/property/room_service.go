package property

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/occupancy"
	"github.com/nadwivedi/hostel-sub000/internal/domain/property"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// RoomService handles room operations
type RoomService struct {
	rooms       property.RoomRepository
	properties  property.PropertyRepository
	occupancies occupancy.Repository
	logger      *zap.Logger
}

// NewRoomService creates a RoomService
func NewRoomService(
	rooms property.RoomRepository,
	properties property.PropertyRepository,
	occupancies occupancy.Repository,
	logger *zap.Logger,
) *RoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{
		rooms:       rooms,
		properties:  properties,
		occupancies: occupancies,
		logger:      logger,
	}
}

// Create creates a room owned by the actor
func (s *RoomService) Create(ctx context.Context, actor shared.Actor, req CreateRoomRequest) (*RoomResponse, error) {
	if req.PropertyID != nil {
		if _, err := s.loadProperty(ctx, actor, *req.PropertyID); err != nil {
			return nil, err
		}
	}

	exists, err := s.rooms.ExistsByNumber(ctx, actor.UserID, req.PropertyID, strings.TrimSpace(req.RoomNumber), nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Room with this number already exists")
	}

	room, err := property.NewRoom(actor.UserID, req.PropertyID, req.RoomNumber,
		property.RentType(strings.ToUpper(req.RentType)), req.RentAmount, req.Beds)
	if err != nil {
		return nil, err
	}
	room.Description = req.Description

	if err := s.rooms.Save(ctx, room); err != nil {
		if shared.IsDuplicateKey(err) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Room with this number already exists")
		}
		return nil, err
	}
	s.logger.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("room_number", room.RoomNumber),
	)
	resp := ToRoomResponse(room)
	return &resp, nil
}

// Get returns a room visible to actor
func (s *RoomService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*RoomResponse, error) {
	room, err := s.Load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToRoomResponse(room)
	return &resp, nil
}

// List returns a page of rooms visible to actor
func (s *RoomService) List(ctx context.Context, actor shared.Actor, f RoomListFilter) (*shared.Paginated[RoomResponse], error) {
	filter, err := s.roomFilter(actor, f)
	if err != nil {
		return nil, err
	}
	rooms, total, err := s.rooms.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToRoomResponses(rooms), total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListAvailable returns rooms that still have a free bed or are vacant as a whole
func (s *RoomService) ListAvailable(ctx context.Context, actor shared.Actor, f RoomListFilter) ([]RoomResponse, error) {
	filter, err := s.roomFilter(actor, f)
	if err != nil {
		return nil, err
	}
	filter.Page = 1
	filter.PageSize = 0
	rooms, _, err := s.rooms.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	available := make([]property.Room, 0, len(rooms))
	for i := range rooms {
		if rooms[i].HasVacancy() {
			available = append(available, rooms[i])
		}
	}
	return ToRoomResponses(available), nil
}

// Update changes a room's number, rent, description or bed list
func (s *RoomService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateRoomRequest) (*RoomResponse, error) {
	room, err := s.Load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	loadedVersion := room.Version
	number := room.RoomNumber
	if req.RoomNumber != nil {
		number = strings.TrimSpace(*req.RoomNumber)
		if number != room.RoomNumber {
			exists, err := s.rooms.ExistsByNumber(ctx, room.OwnerID, room.PropertyID, number, &room.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Room with this number already exists")
			}
		}
	}
	rent := room.RentAmount
	if req.RentAmount != nil {
		rent = *req.RentAmount
	}
	description := room.Description
	if req.Description != nil {
		description = *req.Description
	}

	if err := room.Update(number, rent, description); err != nil {
		return nil, err
	}
	if req.Beds != nil {
		if err := room.SetBeds(req.Beds); err != nil {
			return nil, err
		}
	}

	// a concurrent slot assignment wins; the caller retries the edit
	if err := s.rooms.SaveWithLock(ctx, room, loadedVersion); err != nil {
		if shared.IsDuplicateKey(err) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Room with this number already exists")
		}
		return nil, err
	}
	resp := ToRoomResponse(room)
	return &resp, nil
}

// Delete removes a room that nobody occupies
func (s *RoomService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	room, err := s.Load(ctx, actor, id)
	if err != nil {
		return err
	}
	active, err := s.occupancies.FindActiveInRoom(ctx, room.ID)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a room with active occupants")
	}
	if err := s.rooms.Delete(ctx, room.ID); err != nil {
		return err
	}
	s.logger.Info("Room deleted", zap.String("room_id", room.ID.String()))
	return nil
}

// Load fetches a room and hides other owners' rooms behind NOT_FOUND
func (s *RoomService) Load(ctx context.Context, actor shared.Actor, id uuid.UUID) (*property.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(room.OwnerID) {
		return nil, shared.NewDomainError("NOT_FOUND", "Room not found")
	}
	return room, nil
}

func (s *RoomService) loadProperty(ctx context.Context, actor shared.Actor, id uuid.UUID) (*property.Property, error) {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_PROPERTY", "Property not found")
		}
		return nil, err
	}
	if !actor.CanAccess(p.OwnerID) {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property not found")
	}
	return p, nil
}

func (s *RoomService) roomFilter(actor shared.Actor, f RoomListFilter) (property.RoomFilter, error) {
	filter := property.RoomFilter{
		Filter:     shared.DefaultFilter(),
		OwnerID:    actor.OwnerScope(),
		PropertyID: f.PropertyID,
	}
	filter.OrderBy = "room_number"
	filter.OrderDir = "asc"
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 && f.PageSize <= 100 {
		filter.PageSize = f.PageSize
	}
	if f.RentType != "" {
		rt := property.RentType(strings.ToUpper(f.RentType))
		if !rt.IsValid() {
			return filter, shared.NewDomainError("INVALID_RENT_TYPE", "Rent type must be PER_ROOM or PER_BED")
		}
		filter.RentType = &rt
	}
	return filter, nil
}
