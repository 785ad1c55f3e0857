package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Coordination bundles the stores used to keep batch jobs single-run
type Coordination struct {
	Store   shared.IdempotencyStore
	Locker  shared.JobLocker
	Backend string // "redis" or "memory"
	client  *redis.Client
}

// Close releases the store and the Redis connection if any
func (c *Coordination) Close() error {
	err := c.Store.Close()
	if c.client != nil {
		if cerr := c.client.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Factory picks the coordination backend from configuration
type Factory struct {
	cfg           config.RedisConfig
	logger        *zap.Logger
	allowFallback bool
	connect       func(context.Context, config.RedisConfig) (*redis.Client, error)
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to memory.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowFallback = allow
	}
}

// NewFactory creates a Factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cfg:           cfg,
		logger:        zap.NewNop(),
		allowFallback: true,
		connect:       NewRedisClient,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns Redis-backed coordination when Redis is enabled and
// reachable, in-memory otherwise
func (f *Factory) Create(ctx context.Context) (*Coordination, error) {
	if !f.cfg.Enabled {
		f.logger.Info("Redis disabled, using in-memory job coordination")
		return f.memory(), nil
	}

	client, err := f.connect(ctx, f.cfg)
	if err == nil {
		f.logger.Info("Using Redis job coordination", zap.String("addr", f.cfg.Addr()))
		return &Coordination{
			Store:   NewRedisIdempotencyStore(client, ""),
			Locker:  NewRedisJobLocker(client, f.logger),
			Backend: "redis",
			client:  client,
		}, nil
	}

	if !f.allowFallback {
		return nil, fmt.Errorf("redis required for job coordination but unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory job coordination. "+
		"Replicas will not see each other's locks.",
		zap.Error(err),
	)
	return f.memory(), nil
}

func (f *Factory) memory() *Coordination {
	return &Coordination{
		Store:   NewInMemoryIdempotencyStore(10 * time.Minute),
		Locker:  NewInMemoryJobLocker(),
		Backend: "memory",
	}
}
