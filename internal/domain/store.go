package domain

import "context"

// ReportFilter narrows ListReports. A zero value lists everything.
type ReportFilter struct {
	Status ReportStatus // empty = all statuses
}

// ReportStore persists hazard reports. The store is the only shared mutable
// resource between the HTTP surface and the scoring pipeline, so the
// score-and-status write is expressed as a conditional update rather than a
// read-modify-write.
type ReportStore interface {
	CreateReport(ctx context.Context, report Report) error

	GetReport(ctx context.Context, id string) (Report, error)

	// ListReports returns matching reports newest-first.
	ListReports(ctx context.Context, filter ReportFilter) ([]Report, error)

	// UpdateStatus is the manual override. Staff can move a report between
	// any states at any time, including re-deciding a closed report.
	// Returns ErrNotFound for unknown IDs.
	UpdateStatus(ctx context.Context, id string, status ReportStatus) (Report, error)

	// SetOutcomeIfPending atomically writes the automatic score and status,
	// but only while the report is still pending. Returns false (and no
	// error) when a manual decision won the race; the pipeline must not
	// regress a human's status.
	SetOutcomeIfPending(ctx context.Context, id string, score int, status ReportStatus) (bool, error)

	// RecordScore writes only the confidence score, leaving status alone.
	// Used for audit when the conditional outcome write was refused.
	RecordScore(ctx context.Context, id string, score int) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// SocialStore persists ingested social items. Items are write-once; the URL
// is the natural key.
type SocialStore interface {
	// InsertSocialItem stores the item unless its URL is already present.
	// Returns false (and no error) on a duplicate: dedup is a no-op, not a
	// failure.
	InsertSocialItem(ctx context.Context, item SocialItem) (bool, error)

	// ListSocialItems returns up to limit items, newest ingestion first.
	ListSocialItems(ctx context.Context, limit int) ([]SocialItem, error)
}
