// Package cache keeps the latest security close in redis so price reads do
// not hit the pricing table on every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

const DefaultPriceTTL = 5 * time.Minute

var ErrCacheMiss = fmt.Errorf("cache miss")

type Price struct {
	SecurityID uint            `json:"securityId"`
	Close      decimal.Decimal `json:"price"`
	Date       time.Time       `json:"date"`
}

type PriceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPriceCache(rdb *redis.Client, ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}
	return &PriceCache{rdb: rdb, ttl: ttl}
}

func priceKey(securityID uint) string {
	return fmt.Sprintf("security:%d:price", securityID)
}

func (c *PriceCache) Get(ctx context.Context, securityID uint) (*Price, error) {
	raw, err := c.rdb.Get(ctx, priceKey(securityID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get cached price %d: %w", securityID, err)
	}

	var p Price
	if err := json.Unmarshal(raw, &p); err != nil {
		// a payload we cannot read is as good as absent
		_ = c.rdb.Del(ctx, priceKey(securityID)).Err()
		return nil, ErrCacheMiss
	}
	return &p, nil
}

func (c *PriceCache) Set(ctx context.Context, p Price) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal price: %w", err)
	}
	if err := c.rdb.Set(ctx, priceKey(p.SecurityID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache price %d: %w", p.SecurityID, err)
	}
	return nil
}

// Invalidate drops the cached prices of the given securities, typically
// after new closes were written.
func (c *PriceCache) Invalidate(ctx context.Context, securityIDs ...uint) error {
	if len(securityIDs) == 0 {
		return nil
	}
	keys := make([]string, len(securityIDs))
	for i, id := range securityIDs {
		keys[i] = priceKey(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate prices: %w", err)
	}
	return nil
}
