package lock

import (
	"context"
	"time"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/config"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	keyPrefix      = "booking-lock:"
	DefaultLockTTL = 10 * time.Second
	releaseTimeout = 2 * time.Second
)

// releaseScript deletes the lock only while it still carries the caller's
// token, in one round trip so an expiry cannot slip in between.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisClient is the subset of *redis.Client the lock needs.
type RedisClient interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisBookingLocker holds one short-lived Redis key per booking key so
// that concurrent submissions of the same triple are serialized across
// API instances.
type RedisBookingLocker struct {
	client RedisClient
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

var _ ports.BookingLocker = (*RedisBookingLocker)(nil)

func NewRedisBookingLocker(client RedisClient, ttl time.Duration, logger *zap.Logger) *RedisBookingLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &RedisBookingLocker{
		client: client,
		ttl:    ttl,
		cb:     config.NewCircuitBreaker(config.BreakerRedisLock),
		logger: logger,
	}
}

func lockKey(key domain.BookingKey) string {
	return keyPrefix + key.String()
}

func (l *RedisBookingLocker) Acquire(ctx context.Context, key domain.BookingKey) (func(), error) {
	k := lockKey(key)
	token := uuid.NewString()

	res, err := l.cb.Execute(func() (interface{}, error) {
		return l.client.SetNX(ctx, k, token, l.ttl).Result()
	})
	if err != nil {
		return nil, err
	}
	if !res.(bool) {
		return nil, ports.ErrLockHeld
	}

	return func() { l.release(k, token) }, nil
}

// release deletes the key only while it still carries our token; after a
// TTL expiry it may belong to someone else.
func (l *RedisBookingLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.logger.Warn("releasing booking lock", zap.String("key", key), zap.Error(err))
	}
}
