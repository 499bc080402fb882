// Package memory provides in-memory implementations of the domain stores,
// used when no DATABASE_URL is configured and as a test double elsewhere.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
	"github.com/jonboulle/clockwork"
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

// Store holds reports and social items behind a mutex. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	reports map[string]domain.Report
	social  map[string]domain.SocialItem // keyed by URL
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		reports: make(map[string]domain.Report),
		social:  make(map[string]domain.SocialItem),
	}
}

// CreateReport stores a new report.
func (s *Store) CreateReport(_ context.Context, report domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = report
	return nil
}

// GetReport returns the report with the given ID or domain.ErrNotFound.
func (s *Store) GetReport(_ context.Context, id string) (domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		return domain.Report{}, domain.ErrNotFound
	}
	return report, nil
}

// ListReports returns reports newest first, optionally filtered by status.
func (s *Store) ListReports(_ context.Context, filter domain.ReportFilter) ([]domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Report, 0, len(s.reports))
	for _, report := range s.reports {
		if filter.Status != "" && report.Status != filter.Status {
			continue
		}
		out = append(out, report)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateStatus sets the status unconditionally, for manual moderator decisions.
func (s *Store) UpdateStatus(_ context.Context, id string, status domain.ReportStatus) (domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return domain.Report{}, domain.ErrNotFound
	}
	report.Status = status
	s.reports[id] = report
	return report, nil
}

// SetOutcomeIfPending applies the verification outcome only when the report is
// still pending. Returns false without modifying the status when a manual
// decision got there first.
func (s *Store) SetOutcomeIfPending(_ context.Context, id string, score int, status domain.ReportStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if report.Status != domain.StatusPending {
		return false, nil
	}

	now := clock.Now().UTC()
	report.ConfidenceScore = score
	report.Status = status
	report.ScoredAt = &now
	s.reports[id] = report
	return true, nil
}

// RecordScore stores the confidence score without touching the status.
func (s *Store) RecordScore(_ context.Context, id string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := clock.Now().UTC()
	report.ConfidenceScore = score
	report.ScoredAt = &now
	s.reports[id] = report
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// InsertSocialItem stores the item unless one with the same URL already
// exists. Returns false for duplicates.
func (s *Store) InsertSocialItem(_ context.Context, item domain.SocialItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.social[item.URL]; ok {
		return false, nil
	}
	s.social[item.URL] = item
	return true, nil
}

// ListSocialItems returns up to limit items, newest ingested first.
func (s *Store) ListSocialItems(_ context.Context, limit int) ([]domain.SocialItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SocialItem, 0, len(s.social))
	for _, item := range s.social {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IngestedAt.Equal(out[j].IngestedAt) {
			return out[i].IngestedAt.After(out[j].IngestedAt)
		}
		return out[i].URL < out[j].URL
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
