package occupancy

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/occupancy"
	"github.com/nadwivedi/hostel-sub000/internal/domain/payment"
	"github.com/nadwivedi/hostel-sub000/internal/domain/property"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SlotTracker keeps room and bed availability in step with occupancies
type SlotTracker interface {
	OnAssign(ctx context.Context, room *property.Room, bedNumber *string) error
	AssignSlot(ctx context.Context, ref *occupancy.RoomRef) error
	ReleaseSlot(ctx context.Context, ref *occupancy.RoomRef) error
}

// InitialPaymentCreator records the move-in month's rent
type InitialPaymentCreator interface {
	CreateInitialPayment(ctx context.Context, o occupancy.Occupant) (*payment.Payment, error)
}

// Service runs the occupancy lifecycle: move-in, changes, move-out and removal
type Service struct {
	occupancies occupancy.Repository
	rooms       property.RoomRepository
	tracker     SlotTracker
	payments    InitialPaymentCreator
	publisher   shared.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates an occupancy Service. publisher may be nil.
func NewService(
	occupancies occupancy.Repository,
	rooms property.RoomRepository,
	tracker SlotTracker,
	payments InitialPaymentCreator,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		occupancies: occupancies,
		rooms:       rooms,
		tracker:     tracker,
		payments:    payments,
		publisher:   publisher,
		logger:      logger.Named("occupancy"),
		now:         time.Now,
	}
}

// SetClock overrides the time source used for default leave dates
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Create opens an occupancy, occupies its slot and records the first month as paid
func (s *Service) Create(ctx context.Context, actor shared.Actor, req CreateOccupancyRequest) (*OccupancyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "occupancy", "create")
	defer span.End()

	req.BedNumber = trimBed(req.BedNumber)
	ownerID := actor.UserID
	propertyID := req.PropertyID
	var room *property.Room
	if req.RoomID != nil {
		var err error
		room, err = s.loadFreeSlot(ctx, actor, *req.RoomID, req.BedNumber, nil)
		if err != nil {
			return nil, err
		}
		ownerID = room.OwnerID
		if propertyID == nil {
			propertyID = room.PropertyID
		}
	}

	o, err := occupancy.NewOccupancy(occupancy.NewOccupancyParams{
		OwnerID:       ownerID,
		Kind:          occupancy.Kind(strings.ToUpper(req.Kind)),
		TenantName:    req.TenantName,
		Phone:         req.Phone,
		Email:         req.Email,
		PropertyID:    propertyID,
		RoomID:        req.RoomID,
		BedNumber:     req.BedNumber,
		RentAmount:    req.RentAmount,
		AdvanceAmount: req.AdvanceAmount,
		JoinDate:      req.JoinDate,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.occupancies.Save(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrOccupancyID, o.ID.String())
	log := s.logger.With(zap.String("occupancy_id", o.ID.String()))
	log.Info("Occupancy created", zap.String("tenant_name", o.TenantName))

	if room != nil {
		if err := s.tracker.OnAssign(ctx, room, o.BedNumber); err != nil {
			log.Error("Failed to mark slot occupied", zap.Error(err))
		}
	}
	if _, err := s.payments.CreateInitialPayment(ctx, o); err != nil {
		log.Error("Failed to create initial payment", zap.Error(err))
	}

	s.publish(ctx, o)
	resp := ToOccupancyResponse(o)
	return &resp, nil
}

// Update changes details, amounts or the held slot, or completes the occupancy
func (s *Service) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateOccupancyRequest) (*OccupancyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "occupancy", "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrOccupancyID, id.String())

	o, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.TenantName != nil || req.Phone != nil || req.Email != nil || req.Notes != nil {
		name, phone, email, notes := o.TenantName, o.Phone, o.Email, o.Notes
		if req.TenantName != nil {
			name = *req.TenantName
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Notes != nil {
			notes = *req.Notes
		}
		if err := o.UpdateDetails(name, phone, email, notes); err != nil {
			return nil, err
		}
	}

	if req.RentAmount != nil || req.AdvanceAmount != nil {
		rent, advance := o.RentAmount, o.AdvanceAmount
		if req.RentAmount != nil {
			rent = *req.RentAmount
		}
		if req.AdvanceAmount != nil {
			advance = *req.AdvanceAmount
		}
		if err := o.ChangeAmounts(rent, advance); err != nil {
			return nil, err
		}
	}

	req.BedNumber = trimBed(req.BedNumber)
	var released, assigned *occupancy.RoomRef
	if s.slotChanged(o, req) {
		if !o.IsActive() {
			return nil, shared.NewDomainError("INVALID_STATE", "Cannot move a completed occupancy")
		}
		room, err := s.loadFreeSlot(ctx, actor, *req.RoomID, req.BedNumber, o.GetRoomRef())
		if err != nil {
			return nil, err
		}
		propertyID := req.PropertyID
		if propertyID == nil {
			propertyID = room.PropertyID
		}
		released = o.GetRoomRef()
		if err := o.MoveTo(propertyID, &room.ID, req.BedNumber); err != nil {
			return nil, err
		}
		assigned = o.GetRoomRef()
	}

	if req.Status != nil {
		switch occupancy.Status(strings.ToUpper(*req.Status)) {
		case occupancy.StatusCompleted:
			if o.IsActive() {
				leave := s.now()
				if req.LeaveDate != nil {
					leave = *req.LeaveDate
				}
				if err := o.Complete(leave); err != nil {
					return nil, err
				}
				if released == nil {
					released = o.GetRoomRef()
				}
				assigned = nil
			}
		case occupancy.StatusActive:
			if !o.IsActive() {
				return nil, shared.NewDomainError("INVALID_STATE", "A completed occupancy cannot be reactivated")
			}
		default:
			return nil, shared.NewDomainError("INVALID_STATUS", "Status must be ACTIVE or COMPLETED")
		}
	}

	if err := s.occupancies.Save(ctx, o); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	log := s.logger.With(zap.String("occupancy_id", o.ID.String()))
	if released != nil {
		if err := s.tracker.ReleaseSlot(ctx, released); err != nil {
			log.Error("Failed to release slot", zap.Error(err))
		}
	}
	if assigned != nil {
		if err := s.tracker.AssignSlot(ctx, assigned); err != nil {
			log.Error("Failed to mark slot occupied", zap.Error(err))
		}
	}
	if o.Status == occupancy.StatusCompleted && released != nil {
		log.Info("Occupancy completed")
	}

	s.publish(ctx, o)
	resp := ToOccupancyResponse(o)
	return &resp, nil
}

// Delete removes an occupancy, freeing its slot when it is still active.
// Its payments are kept.
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	o, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	ref := o.GetRoomRef()
	wasActive := o.IsActive()
	o.AddDomainEvent(occupancy.NewOccupancyDeletedEvent(o))

	if err := s.occupancies.Delete(ctx, o.ID); err != nil {
		return err
	}
	if wasActive && ref != nil {
		if err := s.tracker.ReleaseSlot(ctx, ref); err != nil {
			s.logger.Error("Failed to release slot of deleted occupancy",
				zap.String("occupancy_id", o.ID.String()),
				zap.Error(err),
			)
		}
	}
	s.logger.Info("Occupancy deleted", zap.String("occupancy_id", o.ID.String()))
	s.publish(ctx, o)
	return nil
}

// Get returns an occupancy visible to actor
func (s *Service) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*OccupancyResponse, error) {
	o, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToOccupancyResponse(o)
	return &resp, nil
}

// List returns a page of occupancies visible to actor
func (s *Service) List(ctx context.Context, actor shared.Actor, f OccupancyListFilter) (*shared.Paginated[OccupancyResponse], error) {
	filter := occupancy.Filter{
		Filter:     shared.DefaultFilter(),
		OwnerID:    actor.OwnerScope(),
		RoomID:     f.RoomID,
		PropertyID: f.PropertyID,
	}
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 && f.PageSize <= 100 {
		filter.PageSize = f.PageSize
	}
	if f.Status != "" {
		status := occupancy.Status(strings.ToUpper(f.Status))
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Status must be ACTIVE or COMPLETED")
		}
		filter.Status = &status
	}
	if f.Kind != "" {
		kind := occupancy.Kind(strings.ToUpper(f.Kind))
		if !kind.IsValid() {
			return nil, shared.NewDomainError("INVALID_KIND", "Kind must be TENANT or OCCUPANCY")
		}
		filter.Kind = &kind
	}

	items, total, err := s.occupancies.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]OccupancyResponse, len(items))
	for i := range items {
		out[i] = ToOccupancyResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *Service) load(ctx context.Context, actor shared.Actor, id uuid.UUID) (*occupancy.Occupancy, error) {
	o, err := s.occupancies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(o.OwnerID) {
		return nil, shared.NewDomainError("NOT_FOUND", "Occupancy not found")
	}
	return o, nil
}

// loadFreeSlot loads the room and checks the requested bed (or whole room)
// can be taken. held is the slot the caller already occupies, if any.
func (s *Service) loadFreeSlot(ctx context.Context, actor shared.Actor, roomID uuid.UUID, bedNumber *string, held *occupancy.RoomRef) (*property.Room, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_ROOM", "Room not found")
		}
		return nil, err
	}
	if !actor.CanAccess(room.OwnerID) {
		return nil, shared.NewDomainError("INVALID_ROOM", "Room not found")
	}
	if bedNumber != nil && room.FindBed(*bedNumber) == nil {
		return nil, shared.NewDomainError("INVALID_BED", "Bed not found in room")
	}
	if held != nil && held.RoomID == room.ID && sameBed(held.BedNumber, bedNumber) {
		return room, nil
	}
	if !room.IsSlotAvailable(bedNumber) {
		if bedNumber != nil {
			return nil, shared.NewDomainError("INVALID_STATE", "Bed is already occupied")
		}
		return nil, shared.NewDomainError("INVALID_STATE", "Room is already occupied")
	}
	return room, nil
}

func (s *Service) slotChanged(o *occupancy.Occupancy, req UpdateOccupancyRequest) bool {
	if req.RoomID == nil {
		return false
	}
	return o.RoomID == nil || *o.RoomID != *req.RoomID || !sameBed(o.BedNumber, req.BedNumber)
}

func trimBed(bed *string) *string {
	if bed == nil {
		return nil
	}
	b := strings.TrimSpace(*bed)
	if b == "" {
		return nil
	}
	return &b
}

func sameBed(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *Service) publish(ctx context.Context, o *occupancy.Occupancy) {
	events := o.GetDomainEvents()
	o.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish occupancy events",
			zap.String("occupancy_id", o.ID.String()),
			zap.Error(err),
		)
	}
}
