package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-sentry/internal/config"
	"github.com/couchcryptid/flood-sentry/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes assessments to the alert topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured alert topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAlertTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one assessment. Messages are keyed by camera feed so the
// assessments of a feed stay ordered within a partition.
func (w *Writer) Publish(ctx context.Context, a domain.Assessment) error {
	msg, err := serializeToMessage(a)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish assessment %s: %w", a.ID, err)
	}
	w.logger.Debug("assessment published", "assessment_id", a.ID, "topic", w.writer.Topic, "state", a.State)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeToMessage(a domain.Assessment) (kafkago.Message, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(a.CameraFeed),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "assessment_id", Value: []byte(a.ID)},
			{Key: "system_state", Value: []byte(a.State)},
			{Key: "evaluated_at", Value: []byte(a.EvaluatedAt.Format(time.RFC3339))},
		},
	}, nil
}
