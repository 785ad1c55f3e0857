package router

import (
	"github.com/gin-gonic/gin"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/config"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/logger"
	"github.com/nadwivedi/hostel-sub000/internal/interfaces/http/handler"
	"github.com/nadwivedi/hostel-sub000/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

const (
	healthPath = "/health"
	pingPath   = "/system/ping"
)

// Handlers bundles the API handlers. Scheduler may be nil when the
// scheduler is disabled.
type Handlers struct {
	System    *handler.SystemHandler
	Property  *handler.PropertyHandler
	Room      *handler.RoomHandler
	Occupancy *handler.OccupancyHandler
	Payment   *handler.PaymentHandler
	Scheduler *handler.SchedulerHandler
}

// EngineConfig holds what the engine needs besides its handlers
type EngineConfig struct {
	Logger  *zap.Logger
	HTTP    config.HTTPConfig
	Tokens  middleware.TokenValidator
	Tracing middleware.TracingConfig
}

// NewEngine builds the gin engine with the middleware chain and all routes.
// Only /health and the ping endpoint are reachable without a token.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return nil, err
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Tracing))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	engine.Use(middleware.SpanErrorMarker())

	engine.GET(healthPath, h.System.Health)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(
		middleware.JWTAuth(middleware.JWTConfig{
			Validator: cfg.Tokens,
			SkipPaths: []string{r.Prefix() + pingPath},
			Logger:    log,
		}),
		middleware.SpanAttributes(),
	)
	r.Register(routes(h)...)
	r.Setup()

	return engine, nil
}

func routes(h Handlers) []RouteRegistrar {
	system := NewDomainGroup("system", "/system")
	system.GET("/ping", h.System.Ping)

	properties := NewDomainGroup("properties", "/properties")
	properties.POST("", h.Property.Create)
	properties.GET("", h.Property.List)
	properties.GET("/:id", h.Property.Get)
	properties.PUT("/:id", h.Property.Update)
	properties.DELETE("/:id", h.Property.Delete)

	rooms := NewDomainGroup("rooms", "/rooms")
	rooms.POST("", h.Room.Create)
	rooms.GET("", h.Room.List)
	rooms.GET("/available", h.Room.ListAvailable)
	rooms.GET("/:id", h.Room.Get)
	rooms.PUT("/:id", h.Room.Update)
	rooms.DELETE("/:id", h.Room.Delete)

	occupancies := NewDomainGroup("occupancies", "/occupancies")
	occupancies.POST("", h.Occupancy.Create)
	occupancies.GET("", h.Occupancy.List)
	occupancies.GET("/:id", h.Occupancy.Get)
	occupancies.PUT("/:id", h.Occupancy.Update)
	occupancies.DELETE("/:id", h.Occupancy.Delete)

	payments := NewDomainGroup("payments", "/payments")
	payments.GET("", h.Payment.List)
	payments.GET("/upcoming", h.Payment.Upcoming)
	payments.GET("/overdue", h.Payment.Overdue)
	payments.GET("/:id", h.Payment.Get)
	payments.POST("/:id/mark-paid", h.Payment.MarkPaid)
	payments.POST("/:id/record", h.Payment.Record)
	payments.DELETE("/:id", h.Payment.Delete)

	out := []RouteRegistrar{system, properties, rooms, occupancies, payments}

	if h.Scheduler != nil {
		admin := NewDomainGroup("admin", "/admin").Use(middleware.RequireAdmin())
		sched := admin.Group("scheduler", "/scheduler")
		sched.GET("/status", h.Scheduler.Status)
		sched.POST("/generate", h.Scheduler.Generate)
		sched.POST("/reminders", h.Scheduler.Reminders)
		out = append(out, admin)
	}
	return out
}
