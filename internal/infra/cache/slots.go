package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

// Entries live under slots:e:<date>:<duration>. Every entry carries the
// version it was computed under: the global counter slots:v:all and the
// per-date counter slots:v:<date>. Invalidation bumps a counter, so an entry
// computed before it stops matching even if it is written afterwards.
const (
	entryPrefix   = "slots:e:"
	versionPrefix = "slots:v:"
	versionAll    = versionPrefix + "all"
)

// per-date counters outlive any entry stamped with them
const minVersionTTL = 24 * time.Hour

// consecutive Redis failures before the breaker opens
const tripAfter = 5

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisSlotCache stores computed day slots per (date, duration). Every
// failure degrades to a miss; callers never see Redis errors.
type RedisSlotCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[any]
	logger  zerolog.Logger
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisSlotCache {
	logger = logger.With().Str("component", "slot_cache").Logger()

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "redis-slots",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &RedisSlotCache{
		client:  client,
		ttl:     ttl,
		breaker: breaker,
		logger:  logger,
	}
}

func entryKey(date wallclock.Date, duration int) string {
	return fmt.Sprintf("%s%s:%d", entryPrefix, date, duration)
}

func versionKey(date wallclock.Date) string {
	return versionPrefix + date.String()
}

type versionedSlots struct {
	Version string          `json:"version"`
	Slots   domain.DaySlots `json:"slots"`
}

// Get returns the cached slots when they were computed under the current
// version. On a miss it still returns that version for the following Set.
func (c *RedisSlotCache) Get(ctx context.Context, date wallclock.Date, duration int) (domain.DaySlots, string, bool) {
	res, err := c.breaker.Execute(func() (any, error) {
		return c.client.MGet(ctx, versionAll, versionKey(date), entryKey(date, duration)).Result()
	})
	if err != nil {
		metrics.IncSlotCache(metrics.CacheError)
		c.logger.Debug().Err(err).Str("date", date.String()).Msg("slot cache read failed")
		return domain.DaySlots{}, "", false
	}

	vals, _ := res.([]any)
	if len(vals) != 3 {
		metrics.IncSlotCache(metrics.CacheError)
		return domain.DaySlots{}, "", false
	}
	version := counter(vals[0]) + "." + counter(vals[1])

	raw, ok := vals[2].(string)
	if !ok {
		metrics.IncSlotCache(metrics.CacheMiss)
		return domain.DaySlots{}, version, false
	}

	var entry versionedSlots
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		metrics.IncSlotCache(metrics.CacheError)
		c.logger.Warn().Err(err).Str("date", date.String()).Msg("slot cache entry corrupt")
		return domain.DaySlots{}, version, false
	}
	if entry.Version != version {
		metrics.IncSlotCache(metrics.CacheMiss)
		return domain.DaySlots{}, version, false
	}

	metrics.IncSlotCache(metrics.CacheHit)
	return entry.Slots, version, true
}

func counter(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "0"
}

// Set stores slots stamped with the version Get reported. An empty version
// means Get could not read one, and nothing is stored.
func (c *RedisSlotCache) Set(ctx context.Context, date wallclock.Date, duration int, version string, slots domain.DaySlots) {
	if version == "" {
		return
	}

	payload, err := json.Marshal(versionedSlots{Version: version, Slots: slots})
	if err != nil {
		c.logger.Warn().Err(err).Msg("encode slots")
		return
	}

	_, err = c.breaker.Execute(func() (any, error) {
		return nil, c.client.Set(ctx, entryKey(date, duration), payload, c.ttl).Err()
	})
	if err != nil {
		c.logger.Debug().Err(err).Str("date", date.String()).Msg("slot cache write failed")
	}
}

// InvalidateDate retires every duration cached for date.
func (c *RedisSlotCache) InvalidateDate(ctx context.Context, date wallclock.Date) {
	key := versionKey(date)
	c.bump(ctx, key, max(minVersionTTL, 2*c.ttl))
	c.deleteMatching(ctx, fmt.Sprintf("%s%s:*", entryPrefix, date))
}

// InvalidateAll retires every cached day, used when the weekly policy changes.
func (c *RedisSlotCache) InvalidateAll(ctx context.Context) {
	c.bump(ctx, versionAll, 0)
	c.deleteMatching(ctx, entryPrefix+"*")
}

func (c *RedisSlotCache) bump(ctx context.Context, key string, ttl time.Duration) {
	_, err := c.breaker.Execute(func() (any, error) {
		pipe := c.client.TxPipeline()
		pipe.Incr(ctx, key)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, err := pipe.Exec(ctx)
		return nil, err
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("slot cache version bump failed")
	}
}

func (c *RedisSlotCache) deleteMatching(ctx context.Context, pattern string) {
	_, err := c.breaker.Execute(func() (any, error) {
		var keys []string
		iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			return nil, nil
		}
		return nil, c.client.Del(ctx, keys...).Err()
	})
	if err != nil {
		// stale entries expire with the TTL
		c.logger.Warn().Err(err).Str("pattern", pattern).Msg("slot cache invalidation failed")
	}
}

func (c *RedisSlotCache) Close() error {
	return c.client.Close()
}

// NoopSlotCache is used when Redis is not configured.
type NoopSlotCache struct{}

func (NoopSlotCache) Get(context.Context, wallclock.Date, int) (domain.DaySlots, string, bool) {
	return domain.DaySlots{}, "", false
}

func (NoopSlotCache) Set(context.Context, wallclock.Date, int, string, domain.DaySlots) {}
func (NoopSlotCache) InvalidateDate(context.Context, wallclock.Date) {}
func (NoopSlotCache) InvalidateAll(context.Context) {}
func (NoopSlotCache) Close() error { return nil }
