package domain

import (
	"errors"
	"math"
)

// DefaultCandidateLabels is the fixed vocabulary sent to the zero-shot
// classifier. A match on any of these suggests the media shows a coastal
// scene consistent with the report.
var DefaultCandidateLabels = []string{
	"ocean", "waves", "beach", "water", "coast", "sea", "surge", "flood",
}

// ScoringConfig carries every tunable of the verification pipeline. The
// values are global, not per hazard kind; tests exercise boundary values by
// constructing their own config.
type ScoringConfig struct {
	// Bounds is the geo-fence for Gate A.
	Bounds BoundingBox

	// GeoGatePoints is awarded when the report lies inside Bounds.
	GeoGatePoints int

	// ClassificationWeight scales the classifier's top score into Gate B
	// points: round(topScore * ClassificationWeight).
	ClassificationWeight int

	// LabelThreshold is the minimum classifier confidence (exclusive) for a
	// candidate-label match to award any points.
	LabelThreshold float64

	// VerifyThreshold is the composed score (inclusive) at which a report is
	// auto-verified.
	VerifyThreshold int

	// CandidateLabels is the vocabulary sent with every classification call.
	CandidateLabels []string
}

// DefaultScoringConfig returns the production 30/70 split with an 85
// auto-verify threshold over the Indian coastal box.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Bounds:               IndiaCoastalBounds,
		GeoGatePoints:        30,
		ClassificationWeight: 70,
		LabelThreshold:       0.70,
		VerifyThreshold:      85,
		CandidateLabels:      DefaultCandidateLabels,
	}
}

// Validate rejects configs whose point budget could exceed 100 or whose
// thresholds are out of range.
func (c ScoringConfig) Validate() error {
	if !c.Bounds.Valid() {
		return errors.New("scoring config: bounding box has no extent")
	}
	if c.GeoGatePoints < 0 || c.ClassificationWeight < 0 {
		return errors.New("scoring config: point weights must be non-negative")
	}
	if c.GeoGatePoints+c.ClassificationWeight > 100 {
		return errors.New("scoring config: point budget exceeds 100")
	}
	if c.LabelThreshold < 0 || c.LabelThreshold >= 1 {
		return errors.New("scoring config: label threshold must be in [0,1)")
	}
	if c.VerifyThreshold < 0 || c.VerifyThreshold > 100 {
		return errors.New("scoring config: verify threshold must be in [0,100]")
	}
	if len(c.CandidateLabels) == 0 {
		return errors.New("scoring config: candidate labels are required")
	}
	return nil
}

// ClassificationResult is the top label returned by the external classifier.
type ClassificationResult struct {
	Label string
	Score float64
}

// ClassificationPoints converts a classifier result into Gate B points.
// Only a candidate-set label with confidence strictly above the threshold
// scores; everything else is worth nothing.
func (c ScoringConfig) ClassificationPoints(result ClassificationResult) int {
	if result.Score <= c.LabelThreshold {
		return 0
	}
	for _, label := range c.CandidateLabels {
		if label == result.Label {
			return int(math.Round(result.Score * float64(c.ClassificationWeight)))
		}
	}
	return 0
}

// ComposeScore sums gate points and clamps the result to [0,100].
func ComposeScore(geoPoints, classificationPoints int) int {
	score := geoPoints + classificationPoints
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Decide maps a composed score to the automatic status outcome. Anything
// below the verify threshold stays pending for a human.
func (c ScoringConfig) Decide(score int) ReportStatus {
	if score >= c.VerifyThreshold {
		return StatusVerified
	}
	return StatusPending
}
