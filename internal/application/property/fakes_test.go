package property

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/occupancy"
	"github.com/nadwivedi/hostel-sub000/internal/domain/property"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
)

type memRooms struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]property.Room
	saves int
}

func newMemRooms(rooms ...*property.Room) *memRooms {
	r := &memRooms{byID: map[uuid.UUID]property.Room{}}
	for _, room := range rooms {
		r.byID[room.ID] = cloneRoom(room)
	}
	return r
}

func cloneRoom(r *property.Room) property.Room {
	cp := *r
	cp.Beds = append(property.Beds{}, r.Beds...)
	return cp
}

func (r *memRooms) FindByID(_ context.Context, id uuid.UUID) (*property.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := cloneRoom(&room)
	return &cp, nil
}

func (r *memRooms) FindAll(_ context.Context, f property.RoomFilter) ([]property.Room, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []property.Room{}
	for _, room := range r.byID {
		if f.OwnerID != nil && room.OwnerID != *f.OwnerID {
			continue
		}
		if f.PropertyID != nil && (room.PropertyID == nil || *room.PropertyID != *f.PropertyID) {
			continue
		}
		if f.RentType != nil && room.RentType != *f.RentType {
			continue
		}
		out = append(out, cloneRoom(&room))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	total := int64(len(out))
	if f.PageSize > 0 && len(out) > f.PageSize {
		out = out[:f.PageSize]
	}
	return out, total, nil
}

func (r *memRooms) ExistsByNumber(_ context.Context, ownerID uuid.UUID, propertyID *uuid.UUID, number string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.byID {
		if excludeID != nil && room.ID == *excludeID {
			continue
		}
		sameProperty := (room.PropertyID == nil && propertyID == nil) ||
			(room.PropertyID != nil && propertyID != nil && *room.PropertyID == *propertyID)
		if room.OwnerID == ownerID && sameProperty && room.RoomNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRooms) Save(_ context.Context, room *property.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.byID[room.ID] = cloneRoom(room)
	return nil
}

func (r *memRooms) SaveWithLock(ctx context.Context, room *property.Room, expectedVersion int) error {
	r.mu.Lock()
	stored, ok := r.byID[room.ID]
	r.mu.Unlock()
	if ok && stored.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	return r.Save(ctx, room)
}

func (r *memRooms) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *memRooms) get(id uuid.UUID) property.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

type memProperties struct {
	mu   sync.Mutex
	byID map[uuid.UUID]property.Property
}

func newMemProperties() *memProperties {
	return &memProperties{byID: map[uuid.UUID]property.Property{}}
}

func (r *memProperties) FindByID(_ context.Context, id uuid.UUID) (*property.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *memProperties) FindAll(_ context.Context, ownerID *uuid.UUID, _ shared.Filter) ([]property.Property, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []property.Property{}
	for _, p := range r.byID {
		if ownerID == nil || p.OwnerID == *ownerID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memProperties) Save(_ context.Context, p *property.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = *p
	return nil
}

func (r *memProperties) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

// activeRooms is an occupancy.Repository stub that only answers FindActiveInRoom
type activeRooms struct {
	occupancy.Repository
	byRoom map[uuid.UUID][]occupancy.Occupancy
}

func (a *activeRooms) FindActiveInRoom(_ context.Context, roomID uuid.UUID) ([]occupancy.Occupancy, error) {
	return a.byRoom[roomID], nil
}
