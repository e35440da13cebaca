// Package kafka adapts segmentio/kafka-go to the ingest pipeline's
// extractor and loader interfaces.
package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/repeaterlab/mmdvm-dash/internal/config"
	"github.com/repeaterlab/mmdvm-dash/internal/domain"
)

// Reader consumes heard-event messages from the ingest topic.
// It implements pipeline.BatchExtractor.
type Reader struct {
	reader    *kafkago.Reader
	fetchWait time.Duration
	logger    *slog.Logger
}

// NewReader creates a Kafka consumer for the configured ingest topic.
// Offsets are committed explicitly after a batch has been stored.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaTopic,
		GroupID:        cfg.KafkaGroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
	})
	fetchWait := cfg.BatchFlushInterval
	if fetchWait <= 0 {
		fetchWait = 500 * time.Millisecond
	}
	return &Reader{reader: r, fetchWait: fetchWait, logger: logger}
}

// ExtractBatch reads up to batchSize messages, returning early once a fetch
// waits fetchWait without a message. An empty batch is not an error.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	batch := make([]domain.RawEvent, 0, batchSize)

	for len(batch) < batchSize {
		fetchCtx, cancel := context.WithTimeout(ctx, r.fetchWait)
		msg, err := r.reader.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			if ctx.Err() != nil {
				return batch, ctx.Err()
			}
			return batch, err
		}
		batch = append(batch, r.mapMessage(msg))
	}

	return batch, nil
}

func (r *Reader) mapMessage(msg kafkago.Message) domain.RawEvent {
	return domain.RawEvent{
		Key:       msg.Key,
		Value:     msg.Value,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Commit: func(ctx context.Context) error {
			return r.reader.CommitMessages(ctx, msg)
		},
	}
}

func (r *Reader) Close() error {
	return r.reader.Close()
}
