package property

import (
	"context"
	"errors"
	"fmt"

	"github.com/nadwivedi/hostel-sub000/internal/domain/occupancy"
	"github.com/nadwivedi/hostel-sub000/internal/domain/property"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AvailabilityTracker keeps room and bed status in step with occupancies.
//
// Updates are read-modify-write on the room document and are not locked:
// two assignments to different beds of the same room racing each other can
// lose one update. Room edits from RoomService go through
// RoomRepository.SaveWithLock and fail instead of overwriting a slot change.
type AvailabilityTracker struct {
	rooms  property.RoomRepository
	logger *zap.Logger
}

// NewAvailabilityTracker creates an AvailabilityTracker
func NewAvailabilityTracker(rooms property.RoomRepository, logger *zap.Logger) *AvailabilityTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityTracker{rooms: rooms, logger: logger.Named("availability")}
}

// OnAssign marks the bed (or the whole room when bedNumber is nil) as occupied
func (t *AvailabilityTracker) OnAssign(ctx context.Context, room *property.Room, bedNumber *string) error {
	return t.apply(ctx, room, bedNumber, "assign", room.Occupy)
}

// OnRelease marks the bed (or the whole room when bedNumber is nil) as available
func (t *AvailabilityTracker) OnRelease(ctx context.Context, room *property.Room, bedNumber *string) error {
	return t.apply(ctx, room, bedNumber, "release", room.Release)
}

// AssignSlot loads the room referenced by ref and marks the slot occupied
func (t *AvailabilityTracker) AssignSlot(ctx context.Context, ref *occupancy.RoomRef) error {
	return t.withRoom(ctx, ref, t.OnAssign)
}

// ReleaseSlot loads the room referenced by ref and marks the slot available
func (t *AvailabilityTracker) ReleaseSlot(ctx context.Context, ref *occupancy.RoomRef) error {
	return t.withRoom(ctx, ref, t.OnRelease)
}

func (t *AvailabilityTracker) withRoom(ctx context.Context, ref *occupancy.RoomRef, fn func(context.Context, *property.Room, *string) error) error {
	if ref == nil {
		return nil
	}
	room, err := t.rooms.FindByID(ctx, ref.RoomID)
	if err != nil {
		if shared.IsNotFound(err) {
			t.logger.Warn("Room referenced by occupancy no longer exists",
				zap.String("room_id", ref.RoomID.String()),
			)
			return nil
		}
		return fmt.Errorf("load room: %w", err)
	}
	return fn(ctx, room, ref.BedNumber)
}

func (t *AvailabilityTracker) apply(ctx context.Context, room *property.Room, bedNumber *string, action string, change func(*string) error) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "availability", action)
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrRoomID, room.ID.String())
	if bedNumber != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrBedNumber, *bedNumber)
	}

	if err := change(bedNumber); err != nil {
		if errors.Is(err, property.ErrBedNotFound) {
			t.logger.Warn("Bed not found in room, availability unchanged",
				zap.String("room_id", room.ID.String()),
				zap.String("bed_number", *bedNumber),
				zap.String("action", action),
			)
			return nil
		}
		return err
	}
	if err := t.rooms.Save(ctx, room); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("save room: %w", err)
	}
	return nil
}
