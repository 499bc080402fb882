// Package kafka publishes scored-report events so downstream consumers
// (dashboards, alerting) can react without polling the API.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/hazard-report-service/internal/config"
	"github.com/couchcryptid/hazard-report-service/internal/domain"
)

// Publisher produces report.scored events to a Kafka topic.
// It implements pipeline.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured score topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaScoreTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishScored serializes and publishes a scored report. Messages are keyed
// by report ID so per-report ordering survives partitioning.
func (p *Publisher) PublishScored(ctx context.Context, report domain.Report) error {
	msg, err := serializeToMessage(report)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a scored report into a Kafka message.
func serializeToMessage(report domain.Report) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize scored report: %w", err)
	}

	headers := []kafkago.Header{
		{Key: "hazard_kind", Value: []byte(report.HazardKind)},
		{Key: "status", Value: []byte(report.Status)},
	}
	if report.ScoredAt != nil {
		headers = append(headers, kafkago.Header{
			Key: "scored_at", Value: []byte(report.ScoredAt.Format(time.RFC3339)),
		})
	}

	return kafkago.Message{
		Key:     []byte(report.ID),
		Value:   data,
		Headers: headers,
	}, nil
}
