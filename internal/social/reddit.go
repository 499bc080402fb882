package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
)

const redditUserAgent = "hazard-report-service/1.0"

// RedditFetcher searches configured subreddits via the public JSON endpoints.
// No authentication; the courtesy delay between requests keeps us inside the
// unauthenticated rate limits.
type RedditFetcher struct {
	subreddits []string
	baseURL    string
	delay      time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRedditFetcher creates a forum fetcher for the given subreddits.
func NewRedditFetcher(subreddits []string, delay, timeout time.Duration, logger *slog.Logger) *RedditFetcher {
	return &RedditFetcher{
		subreddits: subreddits,
		baseURL:    "https://www.reddit.com",
		delay:      delay,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (f *RedditFetcher) Source() domain.SocialSource {
	return domain.SourceForum
}

// Fetch searches every subreddit for the hazard vocabulary, pausing between
// requests. A failing subreddit is logged and skipped.
func (f *RedditFetcher) Fetch(ctx context.Context) ([]RawPost, error) {
	query := strings.Join(hazardQueries, " OR ")

	var posts []RawPost
	for i, subreddit := range f.subreddits {
		if i > 0 && !sleepWithContext(ctx, f.delay) {
			return posts, ctx.Err()
		}

		batch, err := f.search(ctx, subreddit, query)
		if err != nil {
			if ctx.Err() != nil {
				return posts, ctx.Err()
			}
			f.logger.Warn("subreddit search failed", "subreddit", subreddit, "error", err)
			continue
		}
		posts = append(posts, batch...)
	}
	return posts, nil
}

func (f *RedditFetcher) search(ctx context.Context, subreddit, query string) ([]RawPost, error) {
	params := url.Values{
		"q":           {query},
		"restrict_sr": {"1"},
		"sort":        {"new"},
		"limit":       {"10"},
	}
	u := fmt.Sprintf("%s/r/%s/search.json?%s", f.baseURL, url.PathEscape(subreddit), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subreddit search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("reddit API status %d: %s", resp.StatusCode, body)
	}

	var payload redditListing
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	posts := make([]RawPost, 0, len(payload.Data.Children))
	for _, child := range payload.Data.Children {
		post := RawPost{
			Title:   child.Data.Title,
			Snippet: child.Data.Selftext,
			URL:     f.baseURL + child.Data.Permalink,
		}
		if child.Data.CreatedUTC > 0 {
			publishedAt := time.Unix(int64(child.Data.CreatedUTC), 0).UTC()
			post.PublishedAt = &publishedAt
		}
		posts = append(posts, post)
	}
	return posts, nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				Selftext   string  `json:"selftext"`
				Permalink  string  `json:"permalink"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
