// Package cache memoizes the parameterless read accessors (active/all cashiers
// and items) behind a TTL store. Writers invalidate explicitly after commit.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AIforimpact22/bootcampx/pkg/logger"
	"github.com/AIforimpact22/bootcampx/pkg/metrics"
)

const (
	KeyCashiersActive = "cashiers:active"
	KeyCashiersIndex  = "cashiers:index"
	KeyItemsActive    = "items:active"
	KeyItemsIndex     = "items:index"

	DefaultTTL = 60 * time.Second
)

// CashierKeys are the entries a cashier write must clear.
var CashierKeys = []string{KeyCashiersActive, KeyCashiersIndex}

// ItemKeys are the entries an item write or a sale must clear.
var ItemKeys = []string{KeyItemsActive, KeyItemsIndex}

// Cache wraps a Store with JSON encoding, a default TTL and hit/miss metrics.
type Cache struct {
	store   Store
	ttl     time.Duration
	metrics *metrics.POSMetrics
	logg    *logger.Logger
}

// Options configures a Cache.
type Options struct {
	Store   Store
	TTL     time.Duration
	Metrics *metrics.POSMetrics
	Logger  *logger.Logger
}

// New builds a cache. A nil store falls back to process memory.
func New(opts Options) *Cache {
	store := opts.Store
	if store == nil {
		store = NewMemoryStore()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, ttl: ttl, metrics: opts.Metrics, logg: opts.Logger}
}

// TTL returns the default freshness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// GetOrCompute decodes the cached value for key into dest, or runs compute,
// stores its result for ttl (the cache default when ttl is zero) and decodes
// that into dest. Backend failures degrade to computing the value.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, dest any, compute func(ctx context.Context) (any, error)) error {
	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		decodeErr := json.Unmarshal(raw, dest)
		if decodeErr == nil {
			c.metrics.CacheHit(key)
			return nil
		}
		c.warn(ctx, "cache entry undecodable, recomputing", key, decodeErr)
	case !errors.Is(err, ErrMiss):
		c.warn(ctx, "cache read failed, recomputing", key, err)
	}
	c.metrics.CacheMiss(key)

	value, err := compute(ctx)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	if err := c.store.Set(ctx, key, encoded, ttl); err != nil {
		c.warn(ctx, "cache write failed", key, err)
	}
	return json.Unmarshal(encoded, dest)
}

// Invalidate drops the given keys so the next read recomputes.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if err := c.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("invalidate %v: %w", keys, err)
	}
	return nil
}

func (c *Cache) warn(ctx context.Context, msg, key string, err error) {
	if c.logg == nil {
		return
	}
	ctx = c.logg.WithField(ctx, "cache_key", key)
	c.logg.WarnErr(ctx, msg, err)
}
