//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/flood-sentry/internal/adapter/kafka"
	"github.com/couchcryptid/flood-sentry/internal/config"
	"github.com/couchcryptid/flood-sentry/internal/domain"
	"github.com/couchcryptid/flood-sentry/internal/observability"
	"github.com/couchcryptid/flood-sentry/internal/pipeline"
	"github.com/couchcryptid/flood-sentry/internal/vision"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAlertTopic = "test-flood-alerts"

// publishedAlert holds a deserialized message read from the alert topic.
type publishedAlert struct {
	Assessment domain.Assessment
	Key        string
	Headers    map[string]string
}

func readAlert(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedAlert {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from alert topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var a domain.Assessment
	require.NoError(t, json.Unmarshal(msg.Value, &a), "unmarshal alert message")

	return publishedAlert{Assessment: a, Key: string(msg.Key), Headers: headers}
}

func writeFrame(t *testing.T, level uint8) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = level
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(t.TempDir(), "cam.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func newConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAlertTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestAlertPublishing runs a full cycle through the Evaluator with the Kafka
// writer attached and reads the published assessment back from the topic.
func TestAlertPublishing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAlertTopic)

	cfg := &config.Config{
		KafkaBrokers:    []string{broker},
		KafkaAlertTopic: testAlertTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	evaluator := pipeline.NewEvaluator(
		domain.NewRainfallSource(nil, "Delhi", 0),
		vision.NewVerifier(vision.DemoFixtures(), discardLogger()),
		domain.ReferenceSites(),
		domain.CameraFeeds{"underpass": writeFrame(t, 130)},
		writer,
		discardLogger(),
		metrics,
	)

	a, err := evaluator.Evaluate(ctx, pipeline.CycleInput{
		RainfallMode:   domain.RainfallManual,
		ManualRainfall: 40,
		DistressText:   "SOS car stuck under the bridge",
		CameraFeed:     "underpass",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StateCritical, a.State)

	alert := readAlert(ctx, t, newConsumer(t, broker))
	assert.Equal(t, "underpass", alert.Key)
	assert.Equal(t, a.ID, alert.Headers["assessment_id"])
	assert.Equal(t, "CRITICAL", alert.Headers["system_state"])
	_, err = time.Parse(time.RFC3339, alert.Headers["evaluated_at"])
	require.NoError(t, err, "evaluated_at should be valid RFC3339")

	assert.Equal(t, domain.RuleDistress, alert.Assessment.Rule)
	assert.True(t, alert.Assessment.Distress)
	assert.Equal(t, domain.VisionWarning, alert.Assessment.Vision.Status)
	assert.Equal(t, domain.RainfallReading{IntensityMMPerHr: 40, Provenance: domain.ProvenanceSimulated}, alert.Assessment.Rainfall)
	assert.Len(t, alert.Assessment.Sites, len(domain.ReferenceSites()))
}

// TestMonitorPublishesOnSchedule verifies the scheduled monitor publishes its
// first cycle immediately and becomes ready.
func TestMonitorPublishesOnSchedule(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAlertTopic)

	writer := kafka.NewWriter(&config.Config{KafkaBrokers: []string{broker}, KafkaAlertTopic: testAlertTopic}, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	evaluator := pipeline.NewEvaluator(
		domain.NewRainfallSource(nil, "Delhi", 0),
		vision.NewVerifier(nil, discardLogger()),
		domain.ReferenceSites(),
		domain.CameraFeeds{"normal": writeFrame(t, 200)},
		writer,
		discardLogger(),
		metrics,
	)
	monitor := pipeline.NewMonitor(evaluator, pipeline.CycleInput{
		RainfallMode:   domain.RainfallManual,
		ManualRainfall: 95,
		CameraFeed:     "normal",
	}, "@every 1h", discardLogger(), metrics)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- monitor.Run(runCtx) }()

	alert := readAlert(ctx, t, newConsumer(t, broker))
	assert.Equal(t, domain.StatePredicted, alert.Assessment.State)
	assert.Equal(t, "normal", alert.Key)

	stop()
	require.NoError(t, <-done)
	assert.True(t, monitor.Ready())
}
