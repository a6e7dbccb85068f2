// Package cache puts a Redis read-through cache in front of the pricing
// settings store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/esim-pricing-service/internal/model"
)

const SettingsKey = "pricing:settings"

// SettingsSource is the store behind the cache.
type SettingsSource interface {
	Get(ctx context.Context) (*model.PricingSettingsRecord, error)
	Save(ctx context.Context, rec *model.PricingSettingsRecord) error
}

// Client is the subset of redis.Cmdable the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type SettingsCache struct {
	client Client
	source SettingsSource
	ttl    time.Duration
}

func NewSettingsCache(client Client, source SettingsSource, ttl time.Duration) *SettingsCache {
	return &SettingsCache{client: client, source: source, ttl: ttl}
}

// Get serves from Redis when possible. Redis failures fall through to the
// source; source failures are returned as-is.
func (c *SettingsCache) Get(ctx context.Context) (*model.PricingSettingsRecord, error) {
	raw, err := c.client.Get(ctx, SettingsKey).Bytes()
	switch {
	case err == nil:
		var rec model.PricingSettingsRecord
		if uerr := json.Unmarshal(raw, &rec); uerr == nil {
			return &rec, nil
		}
		log.Warn().Str("key", SettingsKey).Msg("discarding undecodable cached settings")
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Msg("settings cache read failed")
	}

	rec, err := c.source.Get(ctx)
	if err != nil {
		return nil, err
	}

	// SETNX: a record written by a concurrent Save must not be replaced
	// with the older copy this reader loaded.
	if payload, err := json.Marshal(rec); err == nil {
		if err := c.client.SetNX(ctx, SettingsKey, payload, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Msg("settings cache write failed")
		}
	}
	return rec, nil
}

// Save writes through to the source, then replaces the cached copy with the
// saved record. If the cache cannot be written the key is dropped instead.
func (c *SettingsCache) Save(ctx context.Context, rec *model.PricingSettingsRecord) error {
	if err := c.source.Save(ctx, rec); err != nil {
		return err
	}

	payload, err := json.Marshal(rec)
	if err == nil {
		err = c.client.Set(ctx, SettingsKey, payload, c.ttl).Err()
	}
	if err != nil {
		log.Warn().Err(err).Msg("settings cache refresh failed")
		c.Invalidate(ctx)
	}
	return nil
}

func (c *SettingsCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, SettingsKey).Err(); err != nil {
		log.Warn().Err(err).Msg("settings cache invalidate failed")
	}
}
