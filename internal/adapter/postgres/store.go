// Package postgres persists reports and social items with sqlx over lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id               TEXT PRIMARY KEY,
	longitude        DOUBLE PRECISION NOT NULL,
	latitude         DOUBLE PRECISION NOT NULL,
	description      TEXT NOT NULL,
	media_url        TEXT NOT NULL,
	hazard_kind      TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'pending',
	confidence_score INTEGER NOT NULL DEFAULT 0,
	submitted_by     TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL,
	scored_at        TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_reports_status ON reports (status);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at DESC);

CREATE TABLE IF NOT EXISTS social_items (
	id              TEXT PRIMARY KEY,
	source          TEXT NOT NULL,
	title           TEXT NOT NULL,
	snippet         TEXT NOT NULL DEFAULT '',
	url             TEXT NOT NULL UNIQUE,
	published_at    TIMESTAMPTZ,
	sentiment_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	keywords        TEXT[] NOT NULL DEFAULT '{}',
	hashtags        TEXT[] NOT NULL DEFAULT '{}',
	ingested_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_social_items_ingested_at ON social_items (ingested_at DESC);
`

// Store implements the domain stores on Postgres.
type Store struct {
	db *sqlx.DB
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &Store{db: db}, nil
}

// RunMigrations applies the schema. Idempotent.
func (s *Store) RunMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies database connectivity, for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type dbReport struct {
	ID              string       `db:"id"`
	Longitude       float64      `db:"longitude"`
	Latitude        float64      `db:"latitude"`
	Description     string       `db:"description"`
	MediaURL        string       `db:"media_url"`
	HazardKind      string       `db:"hazard_kind"`
	Status          string       `db:"status"`
	ConfidenceScore int          `db:"confidence_score"`
	SubmittedBy     string       `db:"submitted_by"`
	CreatedAt       time.Time    `db:"created_at"`
	ScoredAt        sql.NullTime `db:"scored_at"`
}

func (r dbReport) toDomain() domain.Report {
	report := domain.Report{
		ID:              r.ID,
		Longitude:       r.Longitude,
		Latitude:        r.Latitude,
		Description:     r.Description,
		MediaURL:        r.MediaURL,
		HazardKind:      domain.HazardKind(r.HazardKind),
		Status:          domain.ReportStatus(r.Status),
		ConfidenceScore: r.ConfidenceScore,
		SubmittedBy:     r.SubmittedBy,
		CreatedAt:       r.CreatedAt.UTC(),
	}
	if r.ScoredAt.Valid {
		scoredAt := r.ScoredAt.Time.UTC()
		report.ScoredAt = &scoredAt
	}
	return report
}

// CreateReport inserts a new report row.
func (s *Store) CreateReport(ctx context.Context, report domain.Report) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (id, longitude, latitude, description, media_url,
			hazard_kind, status, confidence_score, submitted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		report.ID, report.Longitude, report.Latitude, report.Description, report.MediaURL,
		string(report.HazardKind), string(report.Status), report.ConfidenceScore,
		report.SubmittedBy, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetReport fetches a single report by ID.
func (s *Store) GetReport(ctx context.Context, id string) (domain.Report, error) {
	var row dbReport
	err := s.db.GetContext(ctx, &row, `SELECT * FROM reports WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Report{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Report{}, fmt.Errorf("get report: %w", err)
	}
	return row.toDomain(), nil
}

// ListReports returns reports newest first, optionally filtered by status.
func (s *Store) ListReports(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error) {
	query := `SELECT * FROM reports ORDER BY created_at DESC, id`
	args := []any{}
	if filter.Status != "" {
		query = `SELECT * FROM reports WHERE status = $1 ORDER BY created_at DESC, id`
		args = append(args, string(filter.Status))
	}

	var rows []dbReport
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	out := make([]domain.Report, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// UpdateStatus sets the status unconditionally, for manual moderator decisions.
func (s *Store) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) (domain.Report, error) {
	var row dbReport
	err := s.db.GetContext(ctx, &row, `
		UPDATE reports SET status = $2 WHERE id = $1
		RETURNING *`,
		id, string(status))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Report{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Report{}, fmt.Errorf("update status: %w", err)
	}
	return row.toDomain(), nil
}

// SetOutcomeIfPending applies the verification outcome only when the report is
// still pending. The WHERE clause makes the race with manual decisions a
// single atomic statement; zero rows affected means a manual decision won.
func (s *Store) SetOutcomeIfPending(ctx context.Context, id string, score int, status domain.ReportStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reports
		SET confidence_score = $2, status = $3, scored_at = NOW()
		WHERE id = $1 AND status = 'pending'`,
		id, score, string(status))
	if err != nil {
		return false, fmt.Errorf("set verification outcome: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// RecordScore stores the confidence score without touching the status.
func (s *Store) RecordScore(ctx context.Context, id string, score int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reports SET confidence_score = $2, scored_at = NOW() WHERE id = $1`,
		id, score)
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type dbSocialItem struct {
	ID             string         `db:"id"`
	Source         string         `db:"source"`
	Title          string         `db:"title"`
	Snippet        string         `db:"snippet"`
	URL            string         `db:"url"`
	PublishedAt    sql.NullTime   `db:"published_at"`
	SentimentScore float64        `db:"sentiment_score"`
	Keywords       pq.StringArray `db:"keywords"`
	Hashtags       pq.StringArray `db:"hashtags"`
	IngestedAt     time.Time      `db:"ingested_at"`
}

func (i dbSocialItem) toDomain() domain.SocialItem {
	item := domain.SocialItem{
		ID:             i.ID,
		Source:         domain.SocialSource(i.Source),
		Title:          i.Title,
		Snippet:        i.Snippet,
		URL:            i.URL,
		SentimentScore: i.SentimentScore,
		Keywords:       []string(i.Keywords),
		Hashtags:       []string(i.Hashtags),
		IngestedAt:     i.IngestedAt.UTC(),
	}
	if i.PublishedAt.Valid {
		publishedAt := i.PublishedAt.Time.UTC()
		item.PublishedAt = &publishedAt
	}
	return item
}

// InsertSocialItem inserts the item, skipping URLs already stored.
// Returns false for duplicates.
func (s *Store) InsertSocialItem(ctx context.Context, item domain.SocialItem) (bool, error) {
	var publishedAt sql.NullTime
	if item.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *item.PublishedAt, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO social_items (id, source, title, snippet, url, published_at,
			sentiment_score, keywords, hashtags, ingested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (url) DO NOTHING`,
		item.ID, string(item.Source), item.Title, item.Snippet, item.URL, publishedAt,
		item.SentimentScore, pq.StringArray(item.Keywords), pq.StringArray(item.Hashtags),
		item.IngestedAt)
	if err != nil {
		return false, fmt.Errorf("insert social item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListSocialItems returns up to limit items, newest ingested first.
func (s *Store) ListSocialItems(ctx context.Context, limit int) ([]domain.SocialItem, error) {
	var rows []dbSocialItem
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM social_items ORDER BY ingested_at DESC, url LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list social items: %w", err)
	}

	out := make([]domain.SocialItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
