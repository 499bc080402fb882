package domain

import "context"

// Classifier sends media to an external zero-shot image classifier and
// returns the top label with its confidence.
//
// Implementations make a single attempt with a fixed timeout and surface
// every failure mode as an error wrapping ErrClassificationFailed; the
// scoring engine degrades gracefully rather than retrying.
type Classifier interface {
	Classify(ctx context.Context, mediaURL string, candidateLabels []string) (ClassificationResult, error)
}
