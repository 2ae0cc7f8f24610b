package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vsinha/mrpcore/pkg/application/services/orchestration"
	"github.com/vsinha/mrpcore/pkg/domain/repositories"
	"github.com/vsinha/mrpcore/pkg/infrastructure/config"
	"github.com/vsinha/mrpcore/pkg/infrastructure/lock"
	"github.com/vsinha/mrpcore/pkg/infrastructure/logging"
	"github.com/vsinha/mrpcore/pkg/infrastructure/metrics"
	"github.com/vsinha/mrpcore/pkg/infrastructure/repositories/gormstore"
	"github.com/vsinha/mrpcore/pkg/infrastructure/repositories/memory"
)

// runtime is the configured infrastructure shared by the commands
type runtime struct {
	config  config.Config
	logger  *zap.Logger
	plans   repositories.PlanRepository
	guard   orchestration.RunGuard
	closers []func() error
}

// newRuntime wires the infrastructure for a command. Configuration problems
// exit with the usage code; a store that cannot be opened is fatal.
func newRuntime(opts *rootOptions) (*runtime, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}

	rt := &runtime{config: cfg, logger: logger}
	if err := rt.openPlanStore(); err != nil {
		rt.Close()
		return nil, withCode(exitFatal, fmt.Errorf("opening plan store: %w", err))
	}
	if err := rt.openGuard(); err != nil {
		rt.Close()
		return nil, withCode(exitUsage, fmt.Errorf("configuring run lock: %w", err))
	}
	return rt, nil
}

func (rt *runtime) openPlanStore() error {
	switch rt.config.Store.Driver {
	case config.StoreMemory:
		rt.plans = memory.NewPlanRepository()
		return nil
	case config.StoreSQLite, config.StorePostgres:
		db, err := gormstore.Open(rt.config.Store.Driver, rt.config.Store.DSN, rt.logger)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			rt.closers = append(rt.closers, sqlDB.Close)
		}
		rt.plans = gormstore.NewPlanRepository(db)
		return nil
	default:
		return fmt.Errorf("unknown store driver %q", rt.config.Store.Driver)
	}
}

func (rt *runtime) openGuard() error {
	switch rt.config.Lock.Driver {
	case config.LockMemory:
		rt.guard = lock.NewMemoryGuard()
		return nil
	case config.LockRedis:
		client := redis.NewClient(&redis.Options{Addr: rt.config.Lock.RedisAddr})
		rt.closers = append(rt.closers, client.Close)
		guard, err := lock.NewRedisGuard(client, rt.config.Lock.TTL, rt.logger)
		if err != nil {
			return err
		}
		rt.guard = guard
		return nil
	default:
		return fmt.Errorf("unknown lock driver %q", rt.config.Lock.Driver)
	}
}

// pushMetrics sends run metrics when a Pushgateway is configured. A failed
// push is logged and does not change the command's outcome.
func (rt *runtime) pushMetrics(ctx context.Context, runMetrics *metrics.RunMetrics, facilityID string) {
	endpoint := strings.TrimSpace(rt.config.Metrics.PushgatewayURL)
	if endpoint == "" {
		return
	}
	pusher := metrics.NewPushgatewayPusher(endpoint, rt.config.Metrics.Job, map[string]string{"facility": facilityID})
	if err := pusher.Push(ctx, runMetrics); err != nil {
		rt.logger.Warn("pushing run metrics failed", zap.String("endpoint", endpoint), zap.Error(err))
	}
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		_ = rt.closers[i]()
	}
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
}
