// Package rediscache caches the social feed in Redis. The feed is read far
// more often than it changes, and the underlying query scans the newest rows
// on every request.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
)

const versionKey = "socialfeed:version"

// SocialFeed decorates a domain.SocialStore with a versioned Redis cache.
// Every successful insert bumps the version, implicitly invalidating all
// cached pages. Redis failures degrade to the underlying store.
type SocialFeed struct {
	store  domain.SocialStore
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSocialFeed wraps store with caching backed by the given Redis client.
func NewSocialFeed(store domain.SocialStore, client *redis.Client, ttl time.Duration, logger *slog.Logger) *SocialFeed {
	return &SocialFeed{
		store:  store,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// InsertSocialItem delegates to the store and invalidates the cache when a
// new item was actually written.
func (f *SocialFeed) InsertSocialItem(ctx context.Context, item domain.SocialItem) (bool, error) {
	inserted, err := f.store.InsertSocialItem(ctx, item)
	if err != nil {
		return false, err
	}
	if inserted {
		if err := f.client.Incr(ctx, versionKey).Err(); err != nil {
			f.logger.Warn("bump social feed cache version failed", "error", err)
		}
	}
	return inserted, nil
}

// ListSocialItems serves from cache when possible, falling back to the store.
func (f *SocialFeed) ListSocialItems(ctx context.Context, limit int) ([]domain.SocialItem, error) {
	key, ok := f.cacheKey(ctx, limit)
	if ok {
		cached, err := f.client.Get(ctx, key).Bytes()
		if err == nil {
			var items []domain.SocialItem
			if err := json.Unmarshal(cached, &items); err == nil {
				return items, nil
			}
			f.logger.Warn("corrupt social feed cache entry, refetching", "key", key)
		} else if err != redis.Nil {
			f.logger.Warn("social feed cache read failed", "error", err)
			ok = false
		}
	}

	items, err := f.store.ListSocialItems(ctx, limit)
	if err != nil {
		return nil, err
	}

	if ok {
		data, err := json.Marshal(items)
		if err == nil {
			if err := f.client.Set(ctx, key, data, f.ttl).Err(); err != nil {
				f.logger.Warn("social feed cache write failed", "error", err)
			}
		}
	}
	return items, nil
}

// cacheKey builds a version-scoped key for a page of the feed. Returns false
// when the version cannot be read, which disables caching for this request.
func (f *SocialFeed) cacheKey(ctx context.Context, limit int) (string, bool) {
	version, err := f.client.Get(ctx, versionKey).Int64()
	if err == redis.Nil {
		version = 0
	} else if err != nil {
		f.logger.Warn("social feed cache version read failed", "error", err)
		return "", false
	}
	return fmt.Sprintf("socialfeed:%d:limit=%d", version, limit), true
}
