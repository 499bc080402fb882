package domain_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReport_Valid(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2025, time.June, 12, 9, 30, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() { domain.SetClock(nil) })

	report, err := domain.NewReport(80.27, 13.08, "  High waves near the harbour  ", "https://media.example/abc.jpg", domain.HazardHighWaves, "")
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, domain.StatusPending, report.Status)
	assert.Equal(t, 0, report.ConfidenceScore)
	assert.Equal(t, "High waves near the harbour", report.Description)
	assert.Equal(t, domain.AnonymousSubmitter, report.SubmittedBy)
	assert.Equal(t, fakeClock.Now().UTC(), report.CreatedAt)
	assert.Nil(t, report.ScoredAt)
}

func TestNewReport_UniqueIDs(t *testing.T) {
	a, err := domain.NewReport(80, 13, "waves", "https://m/1.jpg", domain.HazardOther, "riya")
	require.NoError(t, err)
	b, err := domain.NewReport(80, 13, "waves", "https://m/1.jpg", domain.HazardOther, "riya")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewReport_Invalid(t *testing.T) {
	cases := []struct {
		name string
		run  func() error
	}{
		{"empty description", func() error {
			_, err := domain.NewReport(80, 13, "   ", "https://m/1.jpg", domain.HazardTsunami, "x")
			return err
		}},
		{"empty media url", func() error {
			_, err := domain.NewReport(80, 13, "waves", "", domain.HazardTsunami, "x")
			return err
		}},
		{"unknown hazard kind", func() error {
			_, err := domain.NewReport(80, 13, "waves", "https://m/1.jpg", domain.HazardKind("Meteor"), "x")
			return err
		}},
		{"nan longitude", func() error {
			_, err := domain.NewReport(math.NaN(), 13, "waves", "https://m/1.jpg", domain.HazardTsunami, "x")
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestValidateSocialItem(t *testing.T) {
	valid := domain.SocialItem{
		Source: domain.SourceNews,
		Title:  "Storm surge warning issued",
		URL:    "https://news.example/surge",
	}
	require.NoError(t, domain.ValidateSocialItem(valid))

	noURL := valid
	noURL.URL = " "
	assert.ErrorIs(t, domain.ValidateSocialItem(noURL), domain.ErrInvalidInput)

	badSource := valid
	badSource.Source = "Telegraph"
	assert.ErrorIs(t, domain.ValidateSocialItem(badSource), domain.ErrInvalidInput)
}

func TestSocialItemJSON_OptionalPublishTime(t *testing.T) {
	publishedAt := time.Date(2025, time.June, 12, 8, 0, 0, 0, time.UTC)
	item := domain.SocialItem{
		ID:             "s-1",
		Source:         domain.SourceForum,
		Title:          "Flooding on the beach road",
		URL:            "https://forum.example/1",
		PublishedAt:    &publishedAt,
		SentimentScore: -0.5,
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"publishedAt":"2025-06-12T08:00:00Z"`)
	assert.Contains(t, string(data), `"sentimentScore":-0.5`)

	item.PublishedAt = nil
	data, err = json.Marshal(item)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "publishedAt", "unknown publish time is omitted")
}

func TestValidStatusAndHazardKind(t *testing.T) {
	assert.True(t, domain.ValidStatus(domain.StatusVerified))
	assert.False(t, domain.ValidStatus("approved"))
	assert.True(t, domain.ValidHazardKind(domain.HazardStormSurge))
	assert.False(t, domain.ValidHazardKind("Earthquake"))
}
