package social

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGNewsFetcher_ParsesArticles(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("token"))

		if r.URL.Query().Get("q") != "tsunami" {
			_, _ = w.Write([]byte(`{"articles":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"articles":[
			{"title":"Tsunami advisory lifted","description":"All clear for the coast",
			 "url":"https://news.example/advisory","publishedAt":"2025-06-12T08:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	f := NewGNewsFetcher("test-key", 5*time.Second, discardLogger())
	f.baseURL = srv.URL

	posts, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, hazardQueries, queries, "every hazard term queried")
	require.Len(t, posts, 1)
	assert.Equal(t, "Tsunami advisory lifted", posts[0].Title)
	assert.Equal(t, "All clear for the coast", posts[0].Snippet)
	assert.Equal(t, "https://news.example/advisory", posts[0].URL)
	require.NotNil(t, posts[0].PublishedAt)
	assert.Equal(t, time.Date(2025, 6, 12, 8, 0, 0, 0, time.UTC), *posts[0].PublishedAt)
	assert.Equal(t, domain.SourceNews, f.Source())
}

func TestGNewsFetcher_SkipsFailingQueries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "tsunami" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"articles":[{"title":"Waves update","url":"https://news.example/w"}]}`))
	}))
	defer srv.Close()

	f := NewGNewsFetcher("test-key", 5*time.Second, discardLogger())
	f.baseURL = srv.URL

	posts, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, len(hazardQueries)-1, "failed query skipped, the rest succeed")
}

func TestRedditFetcher_ParsesListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/chennai/search.json", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("restrict_sr"))
		assert.Equal(t, redditUserAgent, r.Header.Get("User-Agent"))

		_, _ = w.Write([]byte(`{"data":{"children":[
			{"data":{"title":"Waves breaching the seawall","selftext":"Stay away from the marina",
			 "permalink":"/r/chennai/comments/abc/waves/","created_utc":1749715200}}
		]}}`))
	}))
	defer srv.Close()

	f := NewRedditFetcher([]string{"chennai"}, 0, 5*time.Second, discardLogger())
	f.baseURL = srv.URL

	posts, err := f.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, "Waves breaching the seawall", posts[0].Title)
	assert.Equal(t, "Stay away from the marina", posts[0].Snippet)
	assert.Equal(t, srv.URL+"/r/chennai/comments/abc/waves/", posts[0].URL)
	require.NotNil(t, posts[0].PublishedAt)
	assert.Equal(t, time.Unix(1749715200, 0).UTC(), *posts[0].PublishedAt)
	assert.Equal(t, domain.SourceForum, f.Source())
}

func TestRedditFetcher_SkipsFailingSubreddits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/r/broken/search.json" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"children":[
			{"data":{"title":"High waves","permalink":"/r/mumbai/comments/x/waves/"}}
		]}}`))
	}))
	defer srv.Close()

	f := NewRedditFetcher([]string{"broken", "mumbai"}, 0, 5*time.Second, discardLogger())
	f.baseURL = srv.URL

	posts, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "High waves", posts[0].Title)
	assert.Nil(t, posts[0].PublishedAt, "zero created_utc leaves publish time unset")
}

func TestRedditFetcher_CancelledDuringDelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"children":[]}}`))
	}))
	defer srv.Close()

	f := NewRedditFetcher([]string{"a", "b"}, time.Minute, 5*time.Second, discardLogger())
	f.baseURL = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
