package kafka

import (
	"context"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/repeaterlab/mmdvm-dash/internal/config"
	"github.com/repeaterlab/mmdvm-dash/internal/domain"
)

// Writer publishes heard events to the ingest topic. The service itself
// only consumes; the writer exists for the MQTT bridge and the heardgen
// test tool.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured ingest topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishBatch serializes and publishes heard events in a single
// WriteMessages call.
func (w *Writer) PublishBatch(ctx context.Context, events []domain.HeardEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a HeardEvent into the flat string-field JSON
// the bridge publishes, keyed by callsign.
func serializeToMessage(ev domain.HeardEvent) (kafkago.Message, error) {
	data, err := domain.EncodeRawHeard(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize heard event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(ev.Callsign),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "mode", Value: []byte(ev.Mode)},
		},
	}, nil
}
