//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/couchcryptid/hazard-report-service/internal/adapter/kafka"
	"github.com/couchcryptid/hazard-report-service/internal/adapter/memory"
	"github.com/couchcryptid/hazard-report-service/internal/config"
	"github.com/couchcryptid/hazard-report-service/internal/domain"
	"github.com/couchcryptid/hazard-report-service/internal/observability"
	"github.com/couchcryptid/hazard-report-service/internal/pipeline"
)

const testScoreTopic = "test-hazard-report-scored"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-broker Kafka container and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve broker addresses")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPublishScoredRoundTrip runs a real verification run against a real
// broker and verifies the scored event lands on the topic with the expected
// key, headers, and payload.
func TestPublishScoredRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testScoreTopic)

	cfg := &config.Config{
		KafkaBrokers:    []string{broker},
		KafkaScoreTopic: testScoreTopic,
	}

	publisher := kafkaadapter.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	store := memory.NewStore()
	report, err := domain.NewReport(80.27, 13.08, "high waves at the harbour",
		"https://media.example/wave.jpg", domain.HazardHighWaves, "riya")
	require.NoError(t, err)
	require.NoError(t, store.CreateReport(ctx, report))

	// No classifier: the location gate alone yields 30 points, pending.
	engine := pipeline.New(domain.DefaultScoringConfig(), store, nil, publisher,
		discardLogger(), observability.NewMetricsForTesting())
	require.NoError(t, engine.Run(ctx, report))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testScoreTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read scored event")

	assert.Equal(t, report.ID, string(msg.Key))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "High Waves", headers["hazard_kind"])
	assert.Equal(t, "pending", headers["status"])

	var scored domain.Report
	require.NoError(t, json.Unmarshal(msg.Value, &scored))
	assert.Equal(t, report.ID, scored.ID)
	assert.Equal(t, 30, scored.ConfidenceScore)
	assert.Equal(t, domain.StatusPending, scored.Status)

	// The store reflects the same outcome.
	stored, err := store.GetReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.ConfidenceScore)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.NotNil(t, stored.ScoredAt)
}

// TestPublishScoredManualWinSuppressed verifies that no event is published
// when a manual decision beat the verification run.
func TestPublishScoredManualWinSuppressed(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testScoreTopic)

	cfg := &config.Config{
		KafkaBrokers:    []string{broker},
		KafkaScoreTopic: testScoreTopic,
	}
	publisher := kafkaadapter.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	store := memory.NewStore()
	report, err := domain.NewReport(80.27, 13.08, "surge flooding the road",
		"https://media.example/surge.jpg", domain.HazardStormSurge, "dev")
	require.NoError(t, err)
	require.NoError(t, store.CreateReport(ctx, report))

	_, err = store.UpdateStatus(ctx, report.ID, domain.StatusRejected)
	require.NoError(t, err)

	engine := pipeline.New(domain.DefaultScoringConfig(), store, nil, publisher,
		discardLogger(), observability.NewMetricsForTesting())
	require.NoError(t, engine.Run(ctx, report))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testScoreTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 10*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "no event expected for a discarded outcome")

	stored, err := store.GetReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, stored.Status)
	assert.Equal(t, 30, stored.ConfidenceScore, "score still recorded for audit")
}
