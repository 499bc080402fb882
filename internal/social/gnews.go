package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
)

// GNewsFetcher pulls news articles from the GNews search API.
type GNewsFetcher struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGNewsFetcher creates a news fetcher using the given API key.
func NewGNewsFetcher(apiKey string, timeout time.Duration, logger *slog.Logger) *GNewsFetcher {
	return &GNewsFetcher{
		apiKey:     apiKey,
		baseURL:    "https://gnews.io/api/v4/search",
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (f *GNewsFetcher) Source() domain.SocialSource {
	return domain.SourceNews
}

// Fetch queries the news API for each hazard term and flattens the results.
// A failing query is logged and skipped.
func (f *GNewsFetcher) Fetch(ctx context.Context) ([]RawPost, error) {
	var posts []RawPost
	for _, query := range hazardQueries {
		batch, err := f.search(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return posts, ctx.Err()
			}
			f.logger.Warn("news search failed", "query", query, "error", err)
			continue
		}
		posts = append(posts, batch...)
	}
	return posts, nil
}

func (f *GNewsFetcher) search(ctx context.Context, query string) ([]RawPost, error) {
	params := url.Values{
		"q":     {query},
		"token": {f.apiKey},
		"lang":  {"en"},
		"max":   {"10"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("news API status %d: %s", resp.StatusCode, body)
	}

	var payload gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	posts := make([]RawPost, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		post := RawPost{
			Title:   a.Title,
			Snippet: a.Description,
			URL:     a.URL,
		}
		if !a.PublishedAt.IsZero() {
			publishedAt := a.PublishedAt.UTC()
			post.PublishedAt = &publishedAt
		}
		posts = append(posts, post)
	}
	return posts, nil
}

type gnewsResponse struct {
	Articles []gnewsArticle `json:"articles"`
}

type gnewsArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}
