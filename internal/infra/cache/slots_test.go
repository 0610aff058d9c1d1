package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

func newTestCache(t *testing.T) (*RedisSlotCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	c := NewRedisSlotCache(NewRedisClient(srv.Addr(), "", 0), time.Minute, zerolog.Nop())
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func sampleSlots() domain.DaySlots {
	return domain.EnumerateSlots(
		wallclock.MustParseTimeOfDay("09:00"),
		wallclock.MustParseTimeOfDay("11:00"),
		30,
		[]domain.Interval{{ID: 1, Start: wallclock.MustParseTimeOfDay("10:00"), End: wallclock.MustParseTimeOfDay("10:30")}},
	)
}

func TestSetAndGet(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()
	day := wallclock.MustParseDate("2024-06-03")

	_, version, ok := c.Get(ctx, day, 30)
	assert.False(t, ok)
	assert.Equal(t, "0.0", version)

	c.Set(ctx, day, 30, version, sampleSlots())

	got, version, ok := c.Get(ctx, day, 30)
	require.True(t, ok)
	assert.Equal(t, "0.0", version)
	assert.Equal(t, sampleSlots(), got)

	assert.True(t, srv.Exists("slots:e:2024-06-03:30"))
	assert.Equal(t, time.Minute, srv.TTL("slots:e:2024-06-03:30"))
}

func TestSetAfterInvalidationIsNotServed(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	day := wallclock.MustParseDate("2024-06-03")

	// slots computed, then a booking lands before they are stored
	_, before, ok := c.Get(ctx, day, 30)
	require.False(t, ok)
	c.InvalidateDate(ctx, day)
	c.Set(ctx, day, 30, before, sampleSlots())

	_, current, ok := c.Get(ctx, day, 30)
	assert.False(t, ok)
	assert.Equal(t, "0.1", current)

	c.Set(ctx, day, 30, current, sampleSlots())
	_, _, ok = c.Get(ctx, day, 30)
	assert.True(t, ok)

	// a weekly policy change retires it as well
	c.InvalidateAll(ctx)
	_, current, ok = c.Get(ctx, day, 30)
	assert.False(t, ok)
	assert.Equal(t, "1.1", current)
}

func TestEmptyVersionIsNotStored(t *testing.T) {
	c, srv := newTestCache(t)
	c.Set(context.Background(), wallclock.MustParseDate("2024-06-03"), 30, "", sampleSlots())
	assert.False(t, srv.Exists("slots:e:2024-06-03:30"))
}

func TestInvalidateDateKeepsOtherDays(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()
	day := wallclock.MustParseDate("2024-06-03")
	next := day.AddDays(1)

	c.Set(ctx, day, 30, "0.0", sampleSlots())
	c.Set(ctx, day, 60, "0.0", sampleSlots())
	c.Set(ctx, next, 30, "0.0", sampleSlots())

	c.InvalidateDate(ctx, day)

	assert.False(t, srv.Exists("slots:e:2024-06-03:30"))
	assert.False(t, srv.Exists("slots:e:2024-06-03:60"))
	assert.True(t, srv.Exists("slots:e:2024-06-04:30"))
	assert.Equal(t, 24*time.Hour, srv.TTL("slots:v:2024-06-03"))

	_, _, ok := c.Get(ctx, next, 30)
	assert.True(t, ok)

	c.InvalidateAll(ctx)
	assert.False(t, srv.Exists("slots:e:2024-06-04:30"))
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	c, srv := newTestCache(t)
	require.NoError(t, srv.Set("slots:e:2024-06-03:30", "{not json"))

	_, _, ok := c.Get(context.Background(), wallclock.MustParseDate("2024-06-03"), 30)
	assert.False(t, ok)
}

func TestRedisOutageOpensBreaker(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()
	day := wallclock.MustParseDate("2024-06-03")

	srv.Close()

	for i := 0; i < tripAfter; i++ {
		_, version, ok := c.Get(ctx, day, 30)
		assert.False(t, ok)
		assert.Empty(t, version)
	}
	assert.Equal(t, gobreaker.StateOpen, c.breaker.State())

	assert.NotPanics(t, func() {
		c.Set(ctx, day, 30, "0.0", sampleSlots())
		c.InvalidateDate(ctx, day)
	})
}

func TestNoopSlotCache(t *testing.T) {
	var c NoopSlotCache
	ctx := context.Background()
	day := wallclock.MustParseDate("2024-06-03")

	c.Set(ctx, day, 30, "0.0", sampleSlots())
	_, _, ok := c.Get(ctx, day, 30)
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}
