package domain

import (
	"math"
	"sort"
)

// DefaultHotspotPrecision rounds coordinates to 2 decimal places, roughly a
// one-kilometre grid cell near the equator.
const DefaultHotspotPrecision = 2

// HotspotCluster is a grid cell containing more than one verified report.
// Derived on every query; clusters have no stored identity.
type HotspotCluster struct {
	// Center is the rounded (longitude, latitude) of the grid cell, matching
	// the report's native coordinate order.
	Center [2]float64 `json:"center"`
	Count  int        `json:"count"`
}

// ComputeHotspots buckets verified reports by rounding latitude and longitude
// independently to the given decimal precision and emits cells holding more
// than one report. Singletons are not hotspots.
//
// This is a fixed-grid approximation: two nearby reports straddling a cell
// boundary land in different buckets. Kept as-is intentionally.
func ComputeHotspots(reports []Report, precision int) []HotspotCluster {
	type cell struct {
		lon float64
		lat float64
	}

	counts := make(map[cell]int)
	for _, r := range reports {
		if r.Status != StatusVerified {
			continue
		}
		c := cell{
			lon: roundTo(r.Longitude, precision),
			lat: roundTo(r.Latitude, precision),
		}
		counts[c]++
	}

	clusters := make([]HotspotCluster, 0, len(counts))
	for c, n := range counts {
		if n <= 1 {
			continue
		}
		clusters = append(clusters, HotspotCluster{
			Center: [2]float64{c.lon, c.lat},
			Count:  n,
		})
	}

	// The contract treats the result as an unordered set; sorting here keeps
	// output deterministic for display and tests.
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Count != clusters[j].Count {
			return clusters[i].Count > clusters[j].Count
		}
		if clusters[i].Center[0] != clusters[j].Center[0] {
			return clusters[i].Center[0] < clusters[j].Center[0]
		}
		return clusters[i].Center[1] < clusters[j].Center[1]
	})

	return clusters
}

func roundTo(v float64, precision int) float64 {
	factor := math.Pow(10, float64(precision))
	return math.Round(v*factor) / factor
}
