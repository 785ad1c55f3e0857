package billing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/occupancy"
	"github.com/nadwivedi/hostel-sub000/internal/domain/payment"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/mock"
)

// memPayments is an in-memory payment.Repository that enforces the
// (occupancy, year, month) uniqueness like the database does
type memPayments struct {
	mu          sync.Mutex
	byID        map[uuid.UUID]payment.Payment
	failLatest  map[uuid.UUID]error
	createCalls int
}

func newMemPayments() *memPayments {
	return &memPayments{byID: map[uuid.UUID]payment.Payment{}, failLatest: map[uuid.UUID]error{}}
}

func (r *memPayments) FindByID(_ context.Context, id uuid.UUID) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *memPayments) FindByPeriod(_ context.Context, occID uuid.UUID, period valueobject.BillingPeriod) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.OccupancyID == occID && p.Year == period.Year && p.Month == period.Month {
			cp := p
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memPayments) ExistsForPeriod(ctx context.Context, occID uuid.UUID, period valueobject.BillingPeriod) (bool, error) {
	_, err := r.FindByPeriod(ctx, occID, period)
	if shared.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (r *memPayments) FindLatestForOccupancy(_ context.Context, occID uuid.UUID) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failLatest[occID]; ok {
		return nil, err
	}
	var latest *payment.Payment
	for _, p := range r.byID {
		if p.OccupancyID != occID {
			continue
		}
		if latest == nil || latest.Period().Before(p.Period()) {
			cp := p
			latest = &cp
		}
	}
	if latest == nil {
		return nil, shared.ErrNotFound
	}
	return latest, nil
}

func (r *memPayments) FindAll(_ context.Context, f payment.Filter) ([]payment.Payment, int64, error) {
	all := r.filter(func(p payment.Payment) bool {
		if f.OwnerID != nil && p.OwnerID != *f.OwnerID {
			return false
		}
		if f.OccupancyID != nil && p.OccupancyID != *f.OccupancyID {
			return false
		}
		return len(f.Statuses) == 0 || hasStatus(f.Statuses, p.Status)
	})
	return all, int64(len(all)), nil
}

func (r *memPayments) FindDueBetween(_ context.Context, ownerID *uuid.UUID, statuses []payment.Status, from, to time.Time) ([]payment.Payment, error) {
	return r.filter(func(p payment.Payment) bool {
		return (ownerID == nil || p.OwnerID == *ownerID) &&
			hasStatus(statuses, p.Status) &&
			!p.DueDate.Before(from) && !p.DueDate.After(to)
	}), nil
}

func (r *memPayments) FindOverdue(_ context.Context, ownerID *uuid.UUID, before time.Time) ([]payment.Payment, error) {
	return r.filter(func(p payment.Payment) bool {
		return (ownerID == nil || p.OwnerID == *ownerID) &&
			hasStatus(payment.OpenStatuses, p.Status) &&
			p.DueDate.Before(before)
	}), nil
}

func (r *memPayments) Create(_ context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	for _, existing := range r.byID {
		if existing.OccupancyID == p.OccupancyID && existing.Year == p.Year && existing.Month == p.Month {
			return shared.ErrDuplicateKey
		}
	}
	r.byID[p.ID] = *p
	return nil
}

func (r *memPayments) Save(_ context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = *p
	return nil
}

func (r *memPayments) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *memPayments) filter(keep func(payment.Payment) bool) []payment.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []payment.Payment{}
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}

func (r *memPayments) forOccupancy(occID uuid.UUID) []payment.Payment {
	return r.filter(func(p payment.Payment) bool { return p.OccupancyID == occID })
}

func (r *memPayments) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func hasStatus(list []payment.Status, s payment.Status) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// memOccupancies is an in-memory occupancy.Repository
type memOccupancies struct {
	mu   sync.Mutex
	byID map[uuid.UUID]occupancy.Occupancy
	ids  []uuid.UUID
}

func newMemOccupancies(list ...*occupancy.Occupancy) *memOccupancies {
	r := &memOccupancies{byID: map[uuid.UUID]occupancy.Occupancy{}}
	for _, o := range list {
		_ = r.Save(context.Background(), o)
	}
	return r
}

func (r *memOccupancies) FindByID(_ context.Context, id uuid.UUID) (*occupancy.Occupancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}

func (r *memOccupancies) FindAll(_ context.Context, _ occupancy.Filter) ([]occupancy.Occupancy, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]occupancy.Occupancy, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.byID[id])
	}
	return out, int64(len(out)), nil
}

func (r *memOccupancies) FindActiveWithRoom(_ context.Context) ([]occupancy.Occupancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []occupancy.Occupancy{}
	for _, id := range r.ids {
		o := r.byID[id]
		if o.Status == occupancy.StatusActive && o.RoomID != nil {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOccupancies) FindActiveInRoom(_ context.Context, roomID uuid.UUID) ([]occupancy.Occupancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []occupancy.Occupancy{}
	for _, id := range r.ids {
		o := r.byID[id]
		if o.Status == occupancy.StatusActive && o.RoomID != nil && *o.RoomID == roomID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOccupancies) Save(_ context.Context, o *occupancy.Occupancy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[o.ID]; !ok {
		r.ids = append(r.ids, o.ID)
	}
	r.byID[o.ID] = *o
	return nil
}

func (r *memOccupancies) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

// MockPaymentRepository is a testify mock of payment.Repository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByPeriod(ctx context.Context, occID uuid.UUID, period valueobject.BillingPeriod) (*payment.Payment, error) {
	args := m.Called(ctx, occID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ExistsForPeriod(ctx context.Context, occID uuid.UUID, period valueobject.BillingPeriod) (bool, error) {
	args := m.Called(ctx, occID, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) FindLatestForOccupancy(ctx context.Context, occID uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, occID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, f payment.Filter) ([]payment.Payment, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]payment.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) FindDueBetween(ctx context.Context, ownerID *uuid.UUID, statuses []payment.Status, from, to time.Time) ([]payment.Payment, error) {
	args := m.Called(ctx, ownerID, statuses, from, to)
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindOverdue(ctx context.Context, ownerID *uuid.UUID, before time.Time) ([]payment.Payment, error) {
	args := m.Called(ctx, ownerID, before)
	return args.Get(0).([]payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
