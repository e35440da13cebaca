// Command heardgen publishes synthetic heard events to the ingest topic.
// It exists to exercise the full ingest path (Kafka, pipeline, store,
// reports) on a bench without a repeater on the air.
//
// Usage:
//
//	go run ./cmd/heardgen -brokers localhost:9092 -topic mmdvm-heard -count 200
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	kafkaadapter "github.com/repeaterlab/mmdvm-dash/internal/adapter/kafka"
	"github.com/repeaterlab/mmdvm-dash/internal/config"
	"github.com/repeaterlab/mmdvm-dash/internal/domain"
)

var callsigns = []string{
	"DL1ABC", "DB0XYZ", "OE3DEF", "HB9GHI", "PA3JKL",
	"ON4MNO", "F4PQR", "G7STU", "EA1VWX", "SP5YZA",
	"OH2BCD", "OK1EFG", "SM0HIJ", "LA4KLM", "OZ1NOP",
}

var modes = []string{
	"D-Star", "DMR Slot 1", "DMR Slot 2", "System Fusion", "YSF",
}

func main() {
	brokers := flag.String("brokers", "localhost:9092", "comma-separated Kafka brokers")
	topic := flag.String("topic", "mmdvm-heard", "ingest topic")
	count := flag.Int("count", 100, "number of events to publish")
	spread := flag.Duration("spread", 48*time.Hour, "spread event timestamps over this past window")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	cfg := &config.Config{
		KafkaBrokers: strings.Split(*brokers, ","),
		KafkaTopic:   *topic,
	}
	writer := kafkaadapter.NewWriter(cfg, logger)
	defer writer.Close()

	now := time.Now().UTC()
	events := make([]domain.HeardEvent, 0, *count)
	for i := 0; i < *count; i++ {
		events = append(events, randomEvent(rng, now, *spread))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := writer.PublishBatch(ctx, events); err != nil {
		logger.Error("publish failed", "error", err)
		os.Exit(1)
	}
	logger.Info("published", "count", len(events), "topic", *topic, "seed", *seed)
}

func randomEvent(rng *rand.Rand, now time.Time, spread time.Duration) domain.HeardEvent {
	mode := modes[rng.Intn(len(modes))]
	src := domain.SourceRF
	if rng.Intn(2) == 1 {
		src = domain.SourceNET
	}

	dur := 1 + rng.Float64()*120
	ber := rng.Float64() * 2

	ev := domain.HeardEvent{
		Callsign:  callsigns[rng.Intn(len(callsigns))],
		Mode:      mode,
		Source:    src,
		Duration:  &dur,
		BER:       &ber,
		Timestamp: now.Add(-time.Duration(rng.Int63n(int64(spread)))),
	}

	if strings.HasPrefix(mode, "DMR") {
		slot := 1 + rng.Intn(2)
		tg := []int{262, 2621, 26238, 91, 9990}[rng.Intn(5)]
		ev.Slot = &slot
		ev.DGID = &tg
	}
	return ev
}
