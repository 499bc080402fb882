package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// report verification pipeline and social ingestion.
type Metrics struct {
	ReportsCreated  prometheus.Counter
	ScoringRuns     *prometheus.CounterVec // labels: outcome={verified,pending,rejected}
	ScoringDuration prometheus.Histogram
	StatusConflicts prometheus.Counter
	ScoringInFlight prometheus.Gauge

	// Image classification metrics.
	ClassifyRequests *prometheus.CounterVec // labels: outcome={success,error}
	ClassifyDuration prometheus.Histogram
	ClassifyEnabled  prometheus.Gauge

	// Social ingestion metrics.
	SocialIngested   *prometheus.CounterVec // labels: source={News,Forum}
	SocialDuplicates prometheus.Counter
	SocialFetchErrs  *prometheus.CounterVec // labels: source={News,Forum}

	// Scored-event publishing metrics.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReportsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_reports",
			Name:      "reports_created_total",
			Help:      "Total hazard reports accepted for scoring.",
		}),
		ScoringRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_reports",
			Name:      "scoring_runs_total",
			Help:      "Completed verification runs by resulting status.",
		}, []string{"outcome"}),
		ScoringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_reports",
			Name:      "scoring_duration_seconds",
			Help:      "Duration of a complete verification run including classification.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 15},
		}),
		StatusConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_reports",
			Name:      "status_conflicts_total",
			Help:      "Scoring outcomes discarded because a manual decision landed first.",
		}),
		ScoringInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hazard_reports",
			Name:      "scoring_in_flight",
			Help:      "Number of verification runs currently executing.",
		}),
		ClassifyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_reports",
			Name:      "classify_requests_total",
			Help:      "Image classification API requests by outcome.",
		}, []string{"outcome"}),
		ClassifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_reports",
			Name:      "classify_duration_seconds",
			Help:      "Classification API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ClassifyEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hazard_reports",
			Name:      "classify_enabled",
			Help:      "1 when image classification is enabled, 0 otherwise.",
		}),
		SocialIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_reports",
			Name:      "social_ingested_total",
			Help:      "Social items stored by source.",
		}, []string{"source"}),
		SocialDuplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_reports",
			Name:      "social_duplicates_total",
			Help:      "Social items skipped because the URL was already stored.",
		}),
		SocialFetchErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_reports",
			Name:      "social_fetch_errors_total",
			Help:      "Failed social source fetches by source.",
		}, []string{"source"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_reports",
			Name:      "events_published_total",
			Help:      "Scored-report events written to the broker.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_reports",
			Name:      "publish_errors_total",
			Help:      "Scored-report events that failed to publish.",
		}),
	}

	prometheus.MustRegister(
		m.ReportsCreated,
		m.ScoringRuns,
		m.ScoringDuration,
		m.StatusConflicts,
		m.ScoringInFlight,
		m.ClassifyRequests,
		m.ClassifyDuration,
		m.ClassifyEnabled,
		m.SocialIngested,
		m.SocialDuplicates,
		m.SocialFetchErrs,
		m.EventsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReportsCreated:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hazard_reports", Name: "reports_created_total"}),
		ScoringRuns:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hazard_reports", Name: "scoring_runs_total"}, []string{"outcome"}),
		ScoringDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "hazard_reports", Name: "scoring_duration_seconds"}),
		StatusConflicts:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hazard_reports", Name: "status_conflicts_total"}),
		ScoringInFlight:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "hazard_reports", Name: "scoring_in_flight"}),
		ClassifyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hazard_reports", Name: "classify_requests_total"}, []string{"outcome"}),
		ClassifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "hazard_reports", Name: "classify_duration_seconds"}),
		ClassifyEnabled:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "hazard_reports", Name: "classify_enabled"}),
		SocialIngested:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hazard_reports", Name: "social_ingested_total"}, []string{"source"}),
		SocialDuplicates: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hazard_reports", Name: "social_duplicates_total"}),
		SocialFetchErrs:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hazard_reports", Name: "social_fetch_errors_total"}, []string{"source"}),
		EventsPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hazard_reports", Name: "events_published_total"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hazard_reports", Name: "publish_errors_total"}),
	}
}
