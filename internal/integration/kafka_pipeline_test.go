//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/repeaterlab/mmdvm-dash/internal/adapter/kafka"
	"github.com/repeaterlab/mmdvm-dash/internal/config"
	"github.com/repeaterlab/mmdvm-dash/internal/domain"
	"github.com/repeaterlab/mmdvm-dash/internal/observability"
	"github.com/repeaterlab/mmdvm-dash/internal/pipeline"
)

const testTopic = "test-mmdvm-heard"

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memLoader collects stored events in memory in place of the database.
type memLoader struct {
	mu     sync.Mutex
	events []domain.HeardEvent
}

func (m *memLoader) InsertHeardBatch(_ context.Context, events []domain.HeardEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *memLoader) stored() []domain.HeardEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.HeardEvent(nil), m.events...)
}

func ptr[T any](v T) *T { return &v }

// TestIngestEndToEnd publishes heard events through real Kafka, runs the
// ingest pipeline against it, and verifies the parsed events reach the
// loader with offsets committed.
func TestIngestEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaTopic:         testTopic,
		KafkaGroupID:       fmt.Sprintf("test-ingest-%d", time.Now().UnixNano()),
		BatchFlushInterval: 500 * time.Millisecond,
	}

	// Publish a mix of events via the adapter's writer.
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	published := []domain.HeardEvent{
		{Callsign: "DL1ABC", Mode: "DMR Slot 2", Slot: ptr(2), DGID: ptr(26238),
			Source: domain.SourceRF, Duration: ptr(12.5), Timestamp: base},
		{Callsign: "OE3XYZ", Mode: "System Fusion", Source: domain.SourceNET,
			Duration: ptr(4.0), Timestamp: base.Add(time.Minute)},
		{Callsign: "F4GHI", Mode: "D-Star", Source: domain.SourceRF,
			Duration: ptr(33.0), Timestamp: base.Add(2 * time.Minute)},
	}

	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.PublishBatch(ctx, published))

	// Inject a poison pill between valid messages.
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte("bad"),
		Value: []byte("not-json{{{"),
	}))

	reader := kafkaadapter.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	loader := &memLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, loader, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Wait for the valid events to arrive; the poison pill is skipped.
	deadline := time.After(60 * time.Second)
	for len(loader.stored()) < len(published) {
		select {
		case <-deadline:
			t.Fatalf("timed out, stored %d of %d events", len(loader.stored()), len(published))
		case <-time.After(250 * time.Millisecond):
		}
	}

	pipelineCancel()
	require.NoError(t, <-errCh)

	stored := loader.stored()
	require.Len(t, stored, len(published))

	byCall := map[string]domain.HeardEvent{}
	for _, ev := range stored {
		byCall[ev.Callsign] = ev
	}

	dmr, ok := byCall["DL1ABC"]
	require.True(t, ok)
	assert.Equal(t, "DMR Slot 2", dmr.Mode)
	assert.Equal(t, domain.SourceRF, dmr.Source)
	require.NotNil(t, dmr.Slot)
	assert.Equal(t, 2, *dmr.Slot)
	require.NotNil(t, dmr.DGID)
	assert.Equal(t, 26238, *dmr.DGID)
	require.NotNil(t, dmr.Duration)
	assert.InDelta(t, 12.5, *dmr.Duration, 1e-9)
	assert.True(t, dmr.Timestamp.Equal(base))

	ysf, ok := byCall["OE3XYZ"]
	require.True(t, ok)
	assert.Equal(t, domain.SourceNET, ysf.Source)

	// Readiness flips once events have been stored.
	assert.NoError(t, p.CheckReadiness(ctx))
}
