package domain_test

import (
	"testing"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoringConfig_ClassificationPoints(t *testing.T) {
	cfg := domain.DefaultScoringConfig()

	cases := []struct {
		name   string
		result domain.ClassificationResult
		points int
	}{
		{"strong ocean match", domain.ClassificationResult{Label: "ocean", Score: 0.9}, 63},
		{"perfect match", domain.ClassificationResult{Label: "waves", Score: 1.0}, 70},
		{"just above threshold", domain.ClassificationResult{Label: "flood", Score: 0.71}, 50},
		{"at threshold scores nothing", domain.ClassificationResult{Label: "ocean", Score: 0.70}, 0},
		{"below threshold", domain.ClassificationResult{Label: "ocean", Score: 0.5}, 0},
		{"label outside candidate set", domain.ClassificationResult{Label: "mountain", Score: 0.99}, 0},
		{"zero result", domain.ClassificationResult{}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.points, cfg.ClassificationPoints(tc.result))
		})
	}
}

func TestComposeScore_Clamps(t *testing.T) {
	assert.Equal(t, 93, domain.ComposeScore(30, 63))
	assert.Equal(t, 30, domain.ComposeScore(30, 0))
	assert.Equal(t, 0, domain.ComposeScore(0, 0))
	assert.Equal(t, 100, domain.ComposeScore(60, 70))
	assert.Equal(t, 0, domain.ComposeScore(-5, 0))
}

func TestScoringConfig_Decide(t *testing.T) {
	cfg := domain.DefaultScoringConfig()

	assert.Equal(t, domain.StatusVerified, cfg.Decide(85))
	assert.Equal(t, domain.StatusVerified, cfg.Decide(100))
	assert.Equal(t, domain.StatusPending, cfg.Decide(84))
	assert.Equal(t, domain.StatusPending, cfg.Decide(0))
}

func TestScoringConfig_Validate(t *testing.T) {
	require.NoError(t, domain.DefaultScoringConfig().Validate())

	overBudget := domain.DefaultScoringConfig()
	overBudget.GeoGatePoints = 40
	assert.Error(t, overBudget.Validate())

	badThreshold := domain.DefaultScoringConfig()
	badThreshold.LabelThreshold = 1.0
	assert.Error(t, badThreshold.Validate())

	badVerify := domain.DefaultScoringConfig()
	badVerify.VerifyThreshold = 101
	assert.Error(t, badVerify.Validate())

	noLabels := domain.DefaultScoringConfig()
	noLabels.CandidateLabels = nil
	assert.Error(t, noLabels.Validate())

	flatBox := domain.DefaultScoringConfig()
	flatBox.Bounds = domain.BoundingBox{MinLon: 1, MaxLon: 1, MinLat: 0, MaxLat: 1}
	assert.Error(t, flatBox.Validate())
}
