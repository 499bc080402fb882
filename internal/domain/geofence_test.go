package domain_test

import (
	"math"
	"testing"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBox_Contains(t *testing.T) {
	box := domain.IndiaCoastalBounds

	cases := []struct {
		name   string
		lon    float64
		lat    float64
		inside bool
	}{
		{"chennai coast", 80.27, 13.08, true},
		{"mumbai coast", 72.87, 19.07, true},
		{"min corner inclusive", 68.0, 6.0, true},
		{"max corner inclusive", 98.0, 24.0, true},
		{"west of box", 67.99, 15.0, false},
		{"north of box", 80.0, 24.01, false},
		{"southern hemisphere", 80.0, -13.0, false},
		{"nonsense degrees", 500.0, 300.0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inside, err := box.Contains(tc.lon, tc.lat)
			require.NoError(t, err)
			assert.Equal(t, tc.inside, inside)
		})
	}
}

func TestBoundingBox_Contains_RejectsNonFiniteInput(t *testing.T) {
	box := domain.IndiaCoastalBounds

	for _, bad := range []struct {
		name string
		lon  float64
		lat  float64
	}{
		{"nan longitude", math.NaN(), 10},
		{"nan latitude", 80, math.NaN()},
		{"positive inf longitude", math.Inf(1), 10},
		{"negative inf latitude", 80, math.Inf(-1)},
	} {
		t.Run(bad.name, func(t *testing.T) {
			_, err := box.Contains(bad.lon, bad.lat)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestBoundingBox_Valid(t *testing.T) {
	assert.True(t, domain.IndiaCoastalBounds.Valid())
	assert.False(t, domain.BoundingBox{MinLon: 10, MaxLon: 10, MinLat: 0, MaxLat: 5}.Valid())
	assert.False(t, domain.BoundingBox{MinLon: 10, MaxLon: 20, MinLat: 5, MaxLat: 0}.Valid())
}
