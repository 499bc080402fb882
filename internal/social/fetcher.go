// Package social pulls hazard chatter from external sources (news search,
// forum posts), enriches it with offline text analysis, and stores it for the
// analyst feed. Fetch failures from one source never block the others.
package social

import (
	"context"
	"time"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
)

// hazardQueries is the search vocabulary used against every source.
var hazardQueries = []string{
	"tsunami",
	"storm surge",
	"high waves",
	"coastal flooding",
}

// RawPost is an unprocessed post as returned by a source.
type RawPost struct {
	Title       string
	Snippet     string
	URL         string
	PublishedAt *time.Time
}

// Fetcher retrieves recent posts from one external source.
type Fetcher interface {
	Source() domain.SocialSource
	Fetch(ctx context.Context) ([]RawPost, error)
}
