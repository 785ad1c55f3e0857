package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nadwivedi/hostel-sub000/internal/application/billing"
	appoccupancy "github.com/nadwivedi/hostel-sub000/internal/application/occupancy"
	appproperty "github.com/nadwivedi/hostel-sub000/internal/application/property"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/auth"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/cache"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/config"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/event"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/logger"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/migration"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/notification"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/persistence"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/scheduler"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/telemetry"
	"github.com/nadwivedi/hostel-sub000/internal/interfaces/http/handler"
	"github.com/nadwivedi/hostel-sub000/internal/interfaces/http/middleware"
	"github.com/nadwivedi/hostel-sub000/internal/interfaces/http/router"
	"github.com/nadwivedi/hostel-sub000/migrations"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.ForEnvironment(cfg.App.Env)
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.Output = cfg.Log.Output
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting hostel backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	// Telemetry
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceVersion:    version,
		Environment:       cfg.App.Env,
	}, log)
	if err != nil {
		return err
	}
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceVersion:    version,
		Environment:       cfg.App.Env,
	}, log)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(tp, mp, log)

	metrics, err := telemetry.NewBillingMetrics(mp.Meter("hostel-backend"))
	if err != nil {
		return err
	}

	// Database
	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	// Redis-backed coordination, in memory when Redis is off or unreachable
	coord, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log)).Create(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = coord.Close() }()
	log.Info("Coordination backend ready", zap.String("backend", coord.Backend))

	// Events
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.NewIdempotentHandler(
		event.NewActivityLogger(log), coord.Store, event.DefaultDedupTTL, log,
	))
	if err := bus.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = bus.Stop(context.Background()) }()

	// Repositories and services
	properties := persistence.NewGormPropertyRepository(db.DB)
	rooms := persistence.NewGormRoomRepository(db.DB)
	occupancies := persistence.NewGormOccupancyRepository(db.DB)
	payments := persistence.NewGormPaymentRepository(db.DB)

	generator := billing.NewPaymentGenerator(payments, occupancies, log,
		billing.GeneratorConfig{LeadDays: cfg.Scheduler.LeadDays, Location: loc},
		billing.WithEventPublisher(bus),
		billing.WithMetrics(metrics),
	)
	reminders := billing.NewReminderService(payments, occupancies,
		notification.NewLogNotifier(log), coord.Store, metrics, log,
		billing.ReminderConfig{DaysAhead: cfg.Scheduler.ReminderDaysAhead, Location: loc},
	)
	tracker := appproperty.NewAvailabilityTracker(rooms, log)

	propertySvc := appproperty.NewPropertyService(properties, rooms, log)
	roomSvc := appproperty.NewRoomService(rooms, properties, occupancies, log)
	occupancySvc := appoccupancy.NewService(occupancies, rooms, tracker, generator, bus, log)
	paymentSvc := billing.NewPaymentService(payments, generator, log)

	// Scheduler
	sched := scheduler.NewPaymentScheduler(
		scheduler.ConfigFrom(cfg.Scheduler, loc),
		generator, reminders, coord.Locker, metrics, log,
	)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := sched.Stop(stopCtx); err != nil {
			log.Warn("Scheduler did not stop cleanly", zap.Error(err))
		}
	}()

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine, err := router.NewEngine(router.EngineConfig{
		Logger: log,
		HTTP:   cfg.HTTP,
		Tokens: auth.NewJWTService(cfg.JWT),
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
	}, router.Handlers{
		System:    handler.NewSystemHandler(cfg.App.Name, version, db),
		Property:  handler.NewPropertyHandler(propertySvc),
		Room:      handler.NewRoomHandler(roomSvc),
		Occupancy: handler.NewOccupancyHandler(occupancySvc),
		Payment:   handler.NewPaymentHandler(paymentSvc, cfg.Scheduler.ReminderDaysAhead),
		Scheduler: handler.NewSchedulerHandler(sched),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server exited")
	return nil
}

// openDatabase connects and brings the schema up to date: SQL migrations on
// Postgres, AutoMigrate on sqlite
func openDatabase(cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{Logger: gormLog})
	if err != nil {
		return nil, err
	}

	dbSystem := "postgresql"
	if db.Driver() == persistence.DriverSQLite {
		dbSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBSystem:   dbSystem,
		SlowQuery:  cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	if db.Driver() == persistence.DriverSQLite {
		if err := db.AutoMigrate(log); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	m, err := migration.NewEmbedded(sqlDB, migrations.FS, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	// closing the migrator would close sqlDB as well
	if err := m.Up(); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("Database connected", zap.String("driver", db.Driver()))
	return db, nil
}

func shutdownTelemetry(tp *telemetry.TracerProvider, mp *telemetry.MeterProvider, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mp.Shutdown(ctx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
}
