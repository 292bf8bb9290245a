package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, ttl time.Duration) (*PriceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewPriceCache(rdb, ttl), mr
}

func TestPriceCacheRoundTrip(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrCacheMiss)

	date := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)
	require.NoError(t, c.Set(ctx, Price{SecurityID: 7, Close: decimal.RequireFromString("252.75"), Date: date}))
	assert.True(t, mr.Exists("security:7:price"))

	got, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, got.Close.Equal(decimal.RequireFromString("252.75")))
	assert.True(t, got.Date.Equal(date))

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestPriceCacheInvalidate(t *testing.T) {
	c, mr := newCache(t, 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, Price{SecurityID: 1, Close: decimal.NewFromInt(10)}))
	require.NoError(t, c.Set(ctx, Price{SecurityID: 2, Close: decimal.NewFromInt(20)}))
	assert.Equal(t, DefaultPriceTTL, mr.TTL("security:1:price"))

	require.NoError(t, c.Invalidate(ctx, 1))
	_, err := c.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, 2)
	assert.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx))
}

func TestPriceCacheCorruptPayload(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	require.NoError(t, mr.Set("security:3:price", "not json"))

	_, err := c.Get(context.Background(), 3)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.False(t, mr.Exists("security:3:price"))
}
