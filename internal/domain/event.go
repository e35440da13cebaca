package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Source tells whether a transmission was heard over the air or came in
// from the network side of the repeater.
type Source string

const (
	SourceRF  Source = "RF"
	SourceNET Source = "NET"
)

// HeardEvent is one detected transmission. Duration and BER are nil when
// the repeater closed the transmission without reporting them; Callsign may
// be empty for unresolved stations.
type HeardEvent struct {
	Callsign  string    `json:"callsign"`
	Mode      string    `json:"mode"`
	DGID      *int      `json:"dgid"`
	Slot      *int      `json:"slot"`
	Source    Source    `json:"source"`
	Duration  *float64  `json:"duration"`
	BER       *float64  `json:"ber"`
	Timestamp time.Time `json:"ts"`
}

// RawEvent is an unprocessed message from the heard-event topic.
// Commit acknowledges the message at the source once it has been stored;
// it is nil for sources without offset tracking.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// rawHeardRecord is the flat JSON the MQTT bridge publishes per talker
// event. Every field arrives as a string; numeric fields are parsed
// tolerantly because the repeater omits them on some state transitions.
type rawHeardRecord struct {
	Time   string `json:"time"`
	Mode   string `json:"mode"`
	Call   string `json:"call"`
	TG     string `json:"tg"`
	Slot   string `json:"slot"`
	Source string `json:"source"`
	Talk   string `json:"talk"` // transmission duration in seconds
	BER    string `json:"ber"`
}

// ParseRawHeard deserializes a RawEvent's value into a HeardEvent.
// The event timestamp comes from the record's own time field when it parses,
// falling back to the message timestamp.
func ParseRawHeard(raw RawEvent) (HeardEvent, error) {
	var rec rawHeardRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return HeardEvent{}, fmt.Errorf("parse heard event: %w", err)
	}

	ev := HeardEvent{
		Callsign:  strings.ToUpper(strings.TrimSpace(rec.Call)),
		Mode:      strings.TrimSpace(rec.Mode),
		DGID:      parseIntOrNil(rec.TG),
		Slot:      parseIntOrNil(rec.Slot),
		Source:    parseSource(rec.Source),
		Duration:  parseFloatOrNil(rec.Talk),
		BER:       parseFloatOrNil(rec.BER),
		Timestamp: parseEventTime(rec.Time, raw.Timestamp),
	}
	return ev, nil
}

// EncodeRawHeard serializes a HeardEvent into the bridge's flat
// string-field JSON, the inverse of ParseRawHeard.
func EncodeRawHeard(ev HeardEvent) ([]byte, error) {
	rec := rawHeardRecord{
		Time:   ev.Timestamp.UTC().Format("2006-01-02 15:04:05"),
		Mode:   ev.Mode,
		Call:   ev.Callsign,
		Source: string(ev.Source),
	}
	if ev.DGID != nil {
		rec.TG = strconv.Itoa(*ev.DGID)
	}
	if ev.Slot != nil {
		rec.Slot = strconv.Itoa(*ev.Slot)
	}
	if ev.Duration != nil {
		rec.Talk = strconv.FormatFloat(*ev.Duration, 'f', -1, 64)
	}
	if ev.BER != nil {
		rec.BER = strconv.FormatFloat(*ev.BER, 'f', -1, 64)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode heard event: %w", err)
	}
	return data, nil
}

func parseSource(s string) Source {
	if strings.EqualFold(strings.TrimSpace(s), "NET") {
		return SourceNET
	}
	return SourceRF
}

func parseIntOrNil(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloatOrNil(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseEventTime parses the repeater's "2006-01-02 15:04:05" timestamps,
// which carry second precision and no zone (the repeater reports UTC).
func parseEventTime(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return fallback
	}
	return t.UTC()
}
