//go:build redis

package rediscache

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hazard-report-service/internal/adapter/memory"
	"github.com/couchcryptid/hazard-report-service/internal/domain"
)

// These tests need a running Redis and a REDIS_ADDR env var.
// Run with: go test -tags=redis ./internal/adapter/rediscache/ -v -count=1

func smokeFeed(t *testing.T) (*SocialFeed, *memory.Store) {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Fatal("REDIS_ADDR must be set to run smoke tests")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.FlushDB(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })

	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSocialFeed(store, client, time.Minute, logger), store
}

func smokeItem(url string) domain.SocialItem {
	return domain.SocialItem{
		ID:         url,
		Source:     domain.SourceNews,
		Title:      "storm surge update",
		URL:        url,
		IngestedAt: time.Now().UTC(),
	}
}

func TestSmoke_ListServesFromCache(t *testing.T) {
	feed, store := smokeFeed(t)
	ctx := context.Background()

	inserted, err := feed.InsertSocialItem(ctx, smokeItem("https://news.example/1"))
	require.NoError(t, err)
	require.True(t, inserted)

	first, err := feed.ListSocialItems(ctx, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Write behind the cache's back; the stale page must still be served.
	_, err = store.InsertSocialItem(ctx, smokeItem("https://news.example/sneaky"))
	require.NoError(t, err)

	second, err := feed.ListSocialItems(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, second, 1, "cached page served")
}

func TestSmoke_InsertInvalidatesCache(t *testing.T) {
	feed, _ := smokeFeed(t)
	ctx := context.Background()

	_, err := feed.InsertSocialItem(ctx, smokeItem("https://news.example/1"))
	require.NoError(t, err)

	first, err := feed.ListSocialItems(ctx, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = feed.InsertSocialItem(ctx, smokeItem("https://news.example/2"))
	require.NoError(t, err)

	second, err := feed.ListSocialItems(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, second, 2, "version bump invalidates cached pages")
}

func TestSmoke_DuplicateInsertKeepsCache(t *testing.T) {
	feed, _ := smokeFeed(t)
	ctx := context.Background()

	_, err := feed.InsertSocialItem(ctx, smokeItem("https://news.example/1"))
	require.NoError(t, err)

	first, err := feed.ListSocialItems(ctx, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	inserted, err := feed.InsertSocialItem(ctx, smokeItem("https://news.example/1"))
	require.NoError(t, err)
	assert.False(t, inserted)

	second, err := feed.ListSocialItems(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}
