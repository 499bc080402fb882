package social

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
	"github.com/couchcryptid/hazard-report-service/internal/nlp"
	"github.com/couchcryptid/hazard-report-service/internal/observability"
)

var clock clockwork.Clock = clockwork.NewRealClock()

// SetClock swaps the package clock for tests. Pass nil to restore the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Stats summarizes one ingestion run.
type Stats struct {
	Fetched    int `json:"fetched"`
	Ingested   int `json:"ingested"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}

// Ingester runs the fetch-analyze-store loop across all configured sources.
type Ingester struct {
	store    domain.SocialStore
	fetchers []Fetcher
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewIngester creates an Ingester over the given fetchers.
func NewIngester(store domain.SocialStore, fetchers []Fetcher, logger *slog.Logger, metrics *observability.Metrics) *Ingester {
	return &Ingester{
		store:    store,
		fetchers: fetchers,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run fetches from every source and ingests the results. One source failing
// does not stop the others; the error count lands in the returned stats.
func (i *Ingester) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	for _, fetcher := range i.fetchers {
		source := fetcher.Source()

		posts, err := fetcher.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			i.metrics.SocialFetchErrs.WithLabelValues(string(source)).Inc()
			i.logger.Warn("social fetch failed", "source", source, "error", err)
			stats.Errors++
			continue
		}
		stats.Fetched += len(posts)

		for _, post := range posts {
			inserted, err := i.ingest(ctx, source, post)
			if err != nil {
				i.logger.Warn("ingest post failed", "source", source, "url", post.URL, "error", err)
				stats.Errors++
				continue
			}
			if inserted {
				stats.Ingested++
			} else {
				stats.Duplicates++
			}
		}
	}

	i.logger.Info("social ingestion run finished",
		"fetched", stats.Fetched, "ingested", stats.Ingested,
		"duplicates", stats.Duplicates, "errors", stats.Errors)
	return stats, nil
}

// IngestItem analyzes and stores a single externally supplied post, for the
// manual ingestion endpoint. Returns the stored item and whether it was new.
func (i *Ingester) IngestItem(ctx context.Context, source domain.SocialSource, post RawPost) (domain.SocialItem, bool, error) {
	item, err := i.buildItem(source, post)
	if err != nil {
		return domain.SocialItem{}, false, err
	}

	inserted, err := i.store.InsertSocialItem(ctx, item)
	if err != nil {
		return domain.SocialItem{}, false, fmt.Errorf("store social item: %w", err)
	}
	if inserted {
		i.metrics.SocialIngested.WithLabelValues(string(source)).Inc()
	} else {
		i.metrics.SocialDuplicates.Inc()
	}
	return item, inserted, nil
}

func (i *Ingester) ingest(ctx context.Context, source domain.SocialSource, post RawPost) (bool, error) {
	_, inserted, err := i.IngestItem(ctx, source, post)
	return inserted, err
}

// buildItem runs text analysis over the post and assembles the stored item.
func (i *Ingester) buildItem(source domain.SocialSource, post RawPost) (domain.SocialItem, error) {
	analysis := nlp.Analyze(strings.TrimSpace(post.Title + " " + post.Snippet))

	item := domain.SocialItem{
		ID:             uuid.NewString(),
		Source:         source,
		Title:          strings.TrimSpace(post.Title),
		Snippet:        strings.TrimSpace(post.Snippet),
		URL:            strings.TrimSpace(post.URL),
		PublishedAt:    post.PublishedAt,
		SentimentScore: analysis.Sentiment,
		Keywords:       analysis.Keywords,
		Hashtags:       analysis.Hashtags,
		IngestedAt:     clock.Now().UTC(),
	}

	if err := domain.ValidateSocialItem(item); err != nil {
		return domain.SocialItem{}, err
	}
	return item, nil
}
