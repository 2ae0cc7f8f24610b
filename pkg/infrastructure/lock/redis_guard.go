package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

const keyPrefix = "mrp:run:"

// RedisGuard serializes runs across processes sharing one Redis.
// The TTL bounds how long a crashed run can block its facility.
type RedisGuard struct {
	client *redis.Client
	script *redis.Script
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisGuard creates a guard backed by the given client
func NewRedisGuard(client *redis.Client, ttl time.Duration, logger *zap.Logger) (*RedisGuard, error) {
	if client == nil {
		return nil, errors.New("lock client not configured")
	}
	if ttl <= 0 {
		return nil, errors.New("lock ttl must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisGuard{
		client: client,
		script: redis.NewScript(lockReleaseScript),
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (g *RedisGuard) Acquire(ctx context.Context, facilityID string) (func(), error) {
	if facilityID == "" {
		return nil, errors.New("lock key is empty")
	}

	key := keyPrefix + facilityID
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &entities.RunInProgressError{FacilityID: facilityID}
	}

	return func() {
		// The run's context may already be cancelled; release regardless
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := g.script.Run(releaseCtx, g.client, []string{key}, token).Err(); err != nil {
			g.logger.Warn("releasing run lock failed",
				zap.String("facility_id", facilityID),
				zap.Error(err))
		}
	}, nil
}
