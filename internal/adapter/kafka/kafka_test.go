package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/flood-sentry/internal/config"
	"github.com/couchcryptid/flood-sentry/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2025, 7, 14, 9, 30, 0, 0, time.UTC)
	a := domain.Assessment{
		ID:          "3f0c7c1e-1111-4a52-9a4e-2b7a1d0c9e55",
		State:       domain.StateWarning,
		Rule:        domain.RuleVisionWarning,
		Directive:   domain.StateWarning.Directive(),
		Rainfall:    domain.RainfallReading{IntensityMMPerHr: 42.5, Provenance: domain.ProvenanceLive},
		CameraFeed:  "flooded",
		Vision:      domain.VisionAssessment{Status: domain.VisionWarning, DepthFt: 1.2, OcclusionFraction: 0.6},
		EvaluatedAt: now,
	}

	msg, err := serializeToMessage(a)
	require.NoError(t, err)

	assert.Equal(t, []byte("flooded"), msg.Key)
	assert.Contains(t, string(msg.Value), `"state":"WARNING"`)
	assert.Contains(t, string(msg.Value), `"provenance":"LIVE"`)

	require.Len(t, msg.Headers, 3)
	assert.Equal(t, kafkago.Header{Key: "assessment_id", Value: []byte(a.ID)}, msg.Headers[0])
	assert.Equal(t, kafkago.Header{Key: "system_state", Value: []byte("WARNING")}, msg.Headers[1])
	assert.Equal(t, kafkago.Header{Key: "evaluated_at", Value: []byte(now.Format(time.RFC3339))}, msg.Headers[2])

	var decoded domain.Assessment
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, a.Vision, decoded.Vision)
	assert.True(t, now.Equal(decoded.EvaluatedAt))
}

func TestNewWriter_UsesAlertTopic(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers:    []string{"broker-1:9092", "broker-2:9092"},
		KafkaAlertTopic: "flood-alerts",
	}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "flood-alerts", w.writer.Topic)
	assert.Equal(t, kafkago.RequireAll, w.writer.RequiredAcks)
}
