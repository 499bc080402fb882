package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReportStatus is the verification lifecycle state of a hazard report.
type ReportStatus string

const (
	StatusPending  ReportStatus = "pending"
	StatusVerified ReportStatus = "verified"
	StatusRejected ReportStatus = "rejected"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s ReportStatus) bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	default:
		return false
	}
}

// HazardKind classifies the reported ocean hazard.
type HazardKind string

const (
	HazardTsunami    HazardKind = "Tsunami"
	HazardStormSurge HazardKind = "Storm Surge"
	HazardHighWaves  HazardKind = "High Waves"
	HazardAbnormal   HazardKind = "Abnormal"
	HazardOther      HazardKind = "Other"
)

// ValidHazardKind reports whether k is one of the known hazard kinds.
func ValidHazardKind(k HazardKind) bool {
	switch k {
	case HazardTsunami, HazardStormSurge, HazardHighWaves, HazardAbnormal, HazardOther:
		return true
	default:
		return false
	}
}

// AnonymousSubmitter is recorded when a report arrives without an identity.
const AnonymousSubmitter = "anonymous"

// Report is a single citizen hazard submission.
type Report struct {
	ID              string       `json:"id"`
	Longitude       float64      `json:"longitude"`
	Latitude        float64      `json:"latitude"`
	Description     string       `json:"description"`
	MediaURL        string       `json:"mediaUrl"`
	HazardKind      HazardKind   `json:"hazardKind"`
	Status          ReportStatus `json:"status"`
	ConfidenceScore int          `json:"confidenceScore"`
	SubmittedBy     string       `json:"submittedBy"`
	CreatedAt       time.Time    `json:"createdAt"`
	ScoredAt        *time.Time   `json:"scoredAt,omitempty"`
}

// NewReport validates a submission and builds a pending, unscored report.
// Validation failures wrap ErrInvalidInput and surface to the submitter
// synchronously; a report that passes here never fails the scoring pipeline
// on input grounds.
func NewReport(longitude, latitude float64, description, mediaURL string, kind HazardKind, submittedBy string) (Report, error) {
	if err := ValidateCoordinates(longitude, latitude); err != nil {
		return Report{}, err
	}
	if strings.TrimSpace(description) == "" {
		return Report{}, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if strings.TrimSpace(mediaURL) == "" {
		return Report{}, fmt.Errorf("%w: mediaUrl is required", ErrInvalidInput)
	}
	if !ValidHazardKind(kind) {
		return Report{}, fmt.Errorf("%w: unknown hazard kind %q", ErrInvalidInput, kind)
	}
	if submittedBy == "" {
		submittedBy = AnonymousSubmitter
	}

	return Report{
		ID:          uuid.NewString(),
		Longitude:   longitude,
		Latitude:    latitude,
		Description: strings.TrimSpace(description),
		MediaURL:    mediaURL,
		HazardKind:  kind,
		Status:      StatusPending,
		SubmittedBy: submittedBy,
		CreatedAt:   clock.Now().UTC(),
	}, nil
}

// ValidateCoordinates rejects NaN and infinite values. Values outside the
// ±180/±90 degree range are numerically valid; they simply fall outside any
// bounding region.
func ValidateCoordinates(longitude, latitude float64) error {
	if math.IsNaN(longitude) || math.IsInf(longitude, 0) {
		return fmt.Errorf("%w: longitude is not a finite number", ErrInvalidInput)
	}
	if math.IsNaN(latitude) || math.IsInf(latitude, 0) {
		return fmt.Errorf("%w: latitude is not a finite number", ErrInvalidInput)
	}
	return nil
}

// SocialSource identifies where a social item was ingested from.
type SocialSource string

const (
	SourceNews  SocialSource = "News"
	SourceForum SocialSource = "Forum"
)

// SocialItem is a piece of ingested social or news content, enriched with
// local text analysis. Items are immutable after ingestion; the URL is the
// natural dedup key.
type SocialItem struct {
	ID             string       `json:"id"`
	Source         SocialSource `json:"source"`
	Title          string       `json:"title"`
	Snippet        string       `json:"snippet"`
	URL            string       `json:"url"`
	PublishedAt    *time.Time   `json:"publishedAt,omitempty"`
	SentimentScore float64      `json:"sentimentScore"`
	Keywords       []string     `json:"keywords"`
	Hashtags       []string     `json:"hashtags"`
	IngestedAt     time.Time    `json:"ingestedAt"`
}

// ValidateSocialItem checks the fields that must be present before ingestion.
func ValidateSocialItem(item SocialItem) error {
	if item.Source != SourceNews && item.Source != SourceForum {
		return fmt.Errorf("%w: unknown social source %q", ErrInvalidInput, item.Source)
	}
	if strings.TrimSpace(item.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(item.URL) == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidInput)
	}
	return nil
}
