package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/application/billing"
	appoccupancy "github.com/nadwivedi/hostel-sub000/internal/application/occupancy"
	appproperty "github.com/nadwivedi/hostel-sub000/internal/application/property"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/auth"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/config"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/persistence"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/scheduler"
	"github.com/nadwivedi/hostel-sub000/internal/interfaces/http/handler"
	"github.com/nadwivedi/hostel-sub000/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRunner struct {
	err error
}

func (s *stubRunner) RunGenerationNow(context.Context) (*billing.ScanResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &billing.ScanResult{Scanned: 2, Created: 1}, nil
}

func (s *stubRunner) RunRemindersNow(context.Context) (*billing.ReminderResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &billing.ReminderResult{}, nil
}

func (s *stubRunner) Stats() scheduler.Stats {
	return scheduler.Stats{Enabled: true, GenerationCron: "5 0 * * *"}
}

type apiFixture struct {
	t      *testing.T
	engine *gin.Engine
	jwt    *auth.JWTService
	runner *stubRunner
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	middleware.SetupValidator()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: persistence.DriverSQLite, Path: ":memory:"}, persistence.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate(zap.NewNop()))

	log := zap.NewNop()
	properties := persistence.NewGormPropertyRepository(db.DB)
	rooms := persistence.NewGormRoomRepository(db.DB)
	occupancies := persistence.NewGormOccupancyRepository(db.DB)
	payments := persistence.NewGormPaymentRepository(db.DB)

	generator := billing.NewPaymentGenerator(payments, occupancies, log,
		billing.GeneratorConfig{LeadDays: 4, Location: time.UTC})
	tracker := appproperty.NewAvailabilityTracker(rooms, log)
	runner := &stubRunner{}

	h := Handlers{
		System:    handler.NewSystemHandler("hostel-backend", "test", db),
		Property:  handler.NewPropertyHandler(appproperty.NewPropertyService(properties, rooms, log)),
		Room:      handler.NewRoomHandler(appproperty.NewRoomService(rooms, properties, occupancies, log)),
		Occupancy: handler.NewOccupancyHandler(appoccupancy.NewService(occupancies, rooms, tracker, generator, nil, log)),
		Payment:   handler.NewPaymentHandler(billing.NewPaymentService(payments, generator, log), 7),
		Scheduler: handler.NewSchedulerHandler(runner),
	}

	jwtSvc := auth.NewJWTService(config.JWTConfig{Secret: "test-secret-that-is-long-enough-32", Issuer: "hostel-auth"})
	engine, err := NewEngine(EngineConfig{
		Logger: log,
		HTTP:   config.HTTPConfig{MaxBodySize: 1 << 20},
		Tokens: jwtSvc,
	}, h)
	require.NoError(t, err)

	return &apiFixture{t: t, engine: engine, jwt: jwtSvc, runner: runner}
}

func (f *apiFixture) token(userID uuid.UUID, role shared.Role) string {
	tok, err := f.jwt.Issue(userID, role, time.Hour)
	require.NoError(f.t, err)
	return tok
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
	Meta *struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

func (f *apiFixture) do(method, path, token string, body any) (int, envelope) {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(f.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestAPI_PublicEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	health := decode[handler.HealthResponse](t, env)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.Checks["database"])

	code, env = f.do(http.MethodGet, "/api/v1/system/ping", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", decode[handler.PingResponse](t, env).Message)

	code, env = f.do(http.MethodGet, "/api/v1/properties", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ERR_UNAUTHORIZED", env.Error.Code)
}

func TestAPI_OwnershipIsolation(t *testing.T) {
	f := newAPIFixture(t)
	alice := f.token(uuid.New(), shared.RoleUser)
	bob := f.token(uuid.New(), shared.RoleUser)
	admin := f.token(uuid.New(), shared.RoleAdmin)

	code, env := f.do(http.MethodPost, "/api/v1/properties", alice, map[string]any{"name": "Green Hostel"})
	require.Equal(t, http.StatusCreated, code)
	prop := decode[appproperty.PropertyResponse](t, env)

	code, _ = f.do(http.MethodGet, "/api/v1/properties/"+prop.ID.String(), bob, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = f.do(http.MethodGet, "/api/v1/properties", bob, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(0), env.Meta.Total)

	code, env = f.do(http.MethodGet, "/api/v1/properties", admin, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), env.Meta.Total)

	code, _ = f.do(http.MethodDelete, "/api/v1/properties/"+prop.ID.String(), bob, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = f.do(http.MethodDelete, "/api/v1/properties/"+prop.ID.String(), alice, nil)
	assert.Equal(t, http.StatusNoContent, code)
}

func TestAPI_ValidationErrors(t *testing.T) {
	f := newAPIFixture(t)
	tok := f.token(uuid.New(), shared.RoleUser)

	code, env := f.do(http.MethodPost, "/api/v1/rooms", tok, map[string]any{
		"room_number": "101",
		"rent_type":   "PER_FLOOR",
		"rent_amount": 5000,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "ERR_VALIDATION", env.Error.Code)

	code, _ = f.do(http.MethodGet, "/api/v1/rooms/not-a-uuid", tok, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(http.MethodGet, "/api/v1/payments?month=13", tok, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(http.MethodGet, "/api/v1/payments/upcoming?days=-1", tok, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAPI_MoveInLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	tok := f.token(uuid.New(), shared.RoleUser)

	code, env := f.do(http.MethodPost, "/api/v1/rooms", tok, map[string]any{
		"room_number": "101",
		"rent_type":   "PER_ROOM",
		"rent_amount": "5000",
	})
	require.Equal(t, http.StatusCreated, code)
	room := decode[appproperty.RoomResponse](t, env)
	assert.True(t, room.HasVacancy)

	code, env = f.do(http.MethodGet, "/api/v1/rooms/available", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]appproperty.RoomResponse](t, env), 1)

	join := time.Now().UTC().Truncate(time.Second)
	code, env = f.do(http.MethodPost, "/api/v1/occupancies", tok, map[string]any{
		"tenant_name": "Ravi",
		"room_id":     room.ID,
		"rent_amount": "5000",
		"join_date":   join,
	})
	require.Equal(t, http.StatusCreated, code)
	occ := decode[appoccupancy.OccupancyResponse](t, env)
	assert.Equal(t, "ACTIVE", occ.Status)

	// the room is full now
	code, env = f.do(http.MethodGet, "/api/v1/rooms/available", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]appproperty.RoomResponse](t, env))

	code, env = f.do(http.MethodPost, "/api/v1/occupancies", tok, map[string]any{
		"tenant_name": "Second",
		"room_id":     room.ID,
		"rent_amount": "5000",
		"join_date":   join,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "ERR_INVALID_STATE", env.Error.Code)

	// the move-in month is settled on creation
	code, env = f.do(http.MethodGet, "/api/v1/payments?occupancy_id="+occ.ID.String(), tok, nil)
	require.Equal(t, http.StatusOK, code)
	initial := decode[[]billing.PaymentResponse](t, env)
	require.Len(t, initial, 1)
	assert.Equal(t, "PAID", initial[0].Status)
	assert.Equal(t, int(join.Month()), initial[0].Month)

	// marking it again is a no-op that still yields next month
	code, _ = f.do(http.MethodPost, "/api/v1/payments/"+initial[0].ID.String()+"/mark-paid", tok, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = f.do(http.MethodGet, "/api/v1/payments?status=PENDING&occupancy_id="+occ.ID.String(), tok, nil)
	require.Equal(t, http.StatusOK, code)
	pending := decode[[]billing.PaymentResponse](t, env)
	require.Len(t, pending, 1)

	code, env = f.do(http.MethodPost, "/api/v1/payments/"+pending[0].ID.String()+"/record", tok, map[string]any{
		"amount": "2000",
	})
	require.Equal(t, http.StatusOK, code)
	partial := decode[billing.PaymentResponse](t, env)
	assert.Equal(t, "PARTIAL", partial.Status)
	assert.Equal(t, "3000", partial.Outstanding.String())

	code, _ = f.do(http.MethodDelete, "/api/v1/payments/"+pending[0].ID.String(), tok, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// moving out frees the room
	code, env = f.do(http.MethodPut, "/api/v1/occupancies/"+occ.ID.String(), tok, map[string]any{
		"status": "COMPLETED",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "COMPLETED", decode[appoccupancy.OccupancyResponse](t, env).Status)

	code, env = f.do(http.MethodGet, "/api/v1/rooms/"+room.ID.String(), tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, decode[appproperty.RoomResponse](t, env).HasVacancy)
}

func TestAPI_SchedulerAdminOnly(t *testing.T) {
	f := newAPIFixture(t)
	user := f.token(uuid.New(), shared.RoleUser)
	admin := f.token(uuid.New(), shared.RoleAdmin)

	code, _ := f.do(http.MethodGet, "/api/v1/admin/scheduler/status", user, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := f.do(http.MethodGet, "/api/v1/admin/scheduler/status", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, decode[scheduler.Stats](t, env).Enabled)

	code, env = f.do(http.MethodPost, "/api/v1/admin/scheduler/generate", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, decode[billing.ScanResult](t, env).Created)

	f.runner.err = scheduler.ErrJobInProgress
	code, env = f.do(http.MethodPost, "/api/v1/admin/scheduler/reminders", admin, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "ERR_JOB_RUNNING", env.Error.Code)
}
