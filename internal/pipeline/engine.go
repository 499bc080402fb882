// Package pipeline runs the asynchronous verification of submitted hazard
// reports: a location gate against the monitored coastal region, an optional
// zero-shot image classification gate, and a status-conditioned write of the
// composed confidence score. Manual moderator decisions always beat a
// concurrently finishing verification run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
	"github.com/couchcryptid/hazard-report-service/internal/observability"
)

// Publisher emits an event for a report whose verification run completed.
type Publisher interface {
	PublishScored(ctx context.Context, report domain.Report) error
}

// Engine scores reports in the background. Classifier and publisher are
// optional; pass nil to disable the classification gate or event publishing.
type Engine struct {
	cfg        domain.ScoringConfig
	store      domain.ReportStore
	classifier domain.Classifier
	publisher  Publisher
	logger     *slog.Logger
	metrics    *observability.Metrics

	runTimeout time.Duration
	wg         sync.WaitGroup
}

// New creates an Engine. The configuration must already be validated.
func New(cfg domain.ScoringConfig, store domain.ReportStore, classifier domain.Classifier, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		cfg:        cfg,
		store:      store,
		classifier: classifier,
		publisher:  publisher,
		logger:     logger,
		metrics:    metrics,
		runTimeout: 30 * time.Second,
	}
}

// Enqueue starts a verification run for the report and returns immediately.
// Submission latency never includes classification latency.
func (e *Engine) Enqueue(report domain.Report) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("verification run panicked", "report_id", report.ID, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), e.runTimeout)
		defer cancel()

		if err := e.Run(ctx, report); err != nil {
			e.logger.Error("verification run failed", "report_id", report.ID, "error", err)
		}
	}()
}

// Wait blocks until all in-flight verification runs finish. Called during
// graceful shutdown.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Run executes one verification run synchronously: location gate, optional
// classification gate, score composition, and the conditional status write.
func (e *Engine) Run(ctx context.Context, report domain.Report) error {
	start := time.Now()
	e.metrics.ScoringInFlight.Inc()
	defer e.metrics.ScoringInFlight.Dec()

	geoPoints := 0
	classPoints := 0

	inside, err := e.cfg.Bounds.Contains(report.Longitude, report.Latitude)
	if err != nil {
		return fmt.Errorf("location gate: %w", err)
	}

	if inside {
		geoPoints = e.cfg.GeoGatePoints
		classPoints = e.classify(ctx, report)
	} else {
		e.logger.Info("report outside monitored region, skipping classification",
			"report_id", report.ID, "longitude", report.Longitude, "latitude", report.Latitude)
	}

	score := domain.ComposeScore(geoPoints, classPoints)
	status := e.cfg.Decide(score)

	applied, err := e.store.SetOutcomeIfPending(ctx, report.ID, score, status)
	if err != nil {
		return fmt.Errorf("store verification outcome: %w", err)
	}
	if !applied {
		// A moderator decided while we were scoring. Keep the score for
		// audit, leave the status alone.
		e.metrics.StatusConflicts.Inc()
		if err := e.store.RecordScore(ctx, report.ID, score); err != nil {
			e.logger.Warn("record score after manual decision failed", "report_id", report.ID, "error", err)
		}
		e.logger.Info("manual decision won, verification outcome discarded",
			"report_id", report.ID, "score", score)
		return nil
	}

	e.metrics.ScoringRuns.WithLabelValues(string(status)).Inc()
	e.metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	e.logger.Info("report scored",
		"report_id", report.ID, "score", score, "status", status,
		"geo_points", geoPoints, "classification_points", classPoints)

	e.publish(ctx, report, score, status)
	return nil
}

// classify runs the image classification gate. Any failure contributes zero
// points; the run itself continues.
func (e *Engine) classify(ctx context.Context, report domain.Report) int {
	if e.classifier == nil {
		return 0
	}

	start := time.Now()
	result, err := e.classifier.Classify(ctx, report.MediaURL, e.cfg.CandidateLabels)
	e.metrics.ClassifyDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		e.metrics.ClassifyRequests.WithLabelValues("error").Inc()
		e.logger.Warn("image classification failed, scoring without it",
			"report_id", report.ID, "error", err)
		return 0
	}

	e.metrics.ClassifyRequests.WithLabelValues("success").Inc()
	return e.cfg.ClassificationPoints(result)
}

// publish emits the scored event on a best-effort basis.
func (e *Engine) publish(ctx context.Context, report domain.Report, score int, status domain.ReportStatus) {
	if e.publisher == nil {
		return
	}

	report.ConfidenceScore = score
	report.Status = status
	if err := e.publisher.PublishScored(ctx, report); err != nil {
		e.metrics.PublishErrors.Inc()
		e.logger.Warn("publish scored event failed", "report_id", report.ID, "error", err)
		return
	}
	e.metrics.EventsPublished.Inc()
}
