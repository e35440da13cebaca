// Package report computes the read-only analytics reports served by the
// dashboard API. Every function is a pure computation over heard-station
// rows the storage layer has already filtered to the report's time window;
// none of them issue queries, block, or share mutable state, so they are
// safe to call from any number of requests at once.
package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/repeaterlab/mmdvm-dash/internal/domain"
)

const (
	// DefaultFameWindowHours is the Hall of Fame lookback when the caller
	// does not supply one (30 days).
	DefaultFameWindowHours = 720

	// DefaultFameMinDuration drops key-up blips: a transmission must run at
	// least this many seconds to count towards the Hall of Fame.
	DefaultFameMinDuration = 15.0

	// MaxFameLimit caps the Hall of Fame result size.
	MaxFameLimit = 50
)

// ActivityBucket is one hour of RF vs. NET activity. Hours without events
// are omitted, not zero-filled.
type ActivityBucket struct {
	Hour string `json:"hour"` // "2006-01-02 15:00:00"
	RF   int    `json:"rf"`
	NET  int    `json:"net"`
}

// ModeTotals is the fixed-shape per-mode count report. All three keys are
// always present; external clients rely on that.
type ModeTotals struct {
	DStar int `json:"dstar"`
	YSF   int `json:"ysf"`
	DMR   int `json:"dmr"`
}

// SourceSplit separates RF and NET counts.
type SourceSplit struct {
	RF  int `json:"RF"`
	NET int `json:"NET"`
}

// ModeSplitTotals is the fixed-shape per-mode, per-source report: all six
// cells present, defaulting to zero.
type ModeSplitTotals struct {
	DStar SourceSplit `json:"dstar"`
	YSF   SourceSplit `json:"ysf"`
	DMR   SourceSplit `json:"dmr"`
}

// HeatmapCell is the event count for one weekday/hour combination.
// Dow follows the SQL DAYOFWEEK convention: 1=Sunday .. 7=Saturday.
type HeatmapCell struct {
	Dow   int `json:"dow"`
	Hour  int `json:"hh"`
	Count int `json:"cnt"`
}

// ModeDuration is the mean transmission duration for one raw mode label.
type ModeDuration struct {
	Mode string  `json:"mode"`
	Avg  float64 `json:"avg"`
}

// TopMetric selects the ranking metric for TopCallsigns.
type TopMetric string

const (
	TopByCount    TopMetric = "count"
	TopByDuration TopMetric = "totalDuration"
)

// TopCallsign is one leaderboard row. Count and Seconds are both populated
// regardless of the ranking metric; the handler picks which to serialize.
type TopCallsign struct {
	Callsign    string
	Count       int
	Seconds     float64
	CountryCode *string
}

// FameEntry is one Hall of Fame row. Score is a weighted blend of QSO count
// (60%) and total airtime (40%), each normalized against the window maximum,
// so it always lands in [0,100].
type FameEntry struct {
	Callsign    string  `json:"callsign"`
	QSOCount    int     `json:"qso_count"`
	TotalSec    float64 `json:"total_sec"`
	AvgSec      float64 `json:"avg_sec"`
	Score       float64 `json:"score"`
	CountryCode *string `json:"country_code"`
}

// ActivityByHour buckets rows into hours, counting RF and NET separately.
// The result is ordered by hour ascending and sparse: only hours with at
// least one event appear.
func ActivityByHour(rows []domain.HeardEvent) []ActivityBucket {
	buckets := make(map[string]*ActivityBucket)
	for _, r := range rows {
		hour := r.Timestamp.Truncate(time.Hour).Format("2006-01-02 15:00:00")
		b, ok := buckets[hour]
		if !ok {
			b = &ActivityBucket{Hour: hour}
			buckets[hour] = b
		}
		switch r.Source {
		case domain.SourceRF:
			b.RF++
		case domain.SourceNET:
			b.NET++
		}
	}

	out := make([]ActivityBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// ActivityByMode counts rows per mode category. Unclassified rows are
// excluded entirely; the three known categories are always present.
func ActivityByMode(rows []domain.HeardEvent) ModeTotals {
	var t ModeTotals
	for _, r := range rows {
		switch domain.ClassifyMode(r.Mode) {
		case domain.ModeDStar:
			t.DStar++
		case domain.ModeYSF:
			t.YSF++
		case domain.ModeDMR:
			t.DMR++
		}
	}
	return t
}

// ActivityByModeSplit counts rows per mode category and source. Rows that
// are neither RF nor NET, and unclassified modes, are excluded.
func ActivityByModeSplit(rows []domain.HeardEvent) ModeSplitTotals {
	var t ModeSplitTotals
	for _, r := range rows {
		var cell *SourceSplit
		switch domain.ClassifyMode(r.Mode) {
		case domain.ModeDStar:
			cell = &t.DStar
		case domain.ModeYSF:
			cell = &t.YSF
		case domain.ModeDMR:
			cell = &t.DMR
		default:
			continue
		}
		switch r.Source {
		case domain.SourceRF:
			cell.RF++
		case domain.SourceNET:
			cell.NET++
		}
	}
	return t
}

// Heatmap counts events per (day-of-week, hour-of-day) cell, ordered by
// day then hour, sparse.
func Heatmap(rows []domain.HeardEvent) []HeatmapCell {
	counts := make(map[[2]int]int)
	for _, r := range rows {
		dow := int(r.Timestamp.Weekday()) + 1 // 1=Sunday .. 7=Saturday
		counts[[2]int{dow, r.Timestamp.Hour()}]++
	}

	out := make([]HeatmapCell, 0, len(counts))
	for k, n := range counts {
		out = append(out, HeatmapCell{Dow: k[0], Hour: k[1], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dow != out[j].Dow {
			return out[i].Dow < out[j].Dow
		}
		return out[i].Hour < out[j].Hour
	})
	return out
}

// AverageDurationByMode computes the mean duration per distinct raw mode
// label (the label as logged, not the 3-way classification). Rows without a
// duration or without a mode label are skipped; labels are ordered ascending.
func AverageDurationByMode(rows []domain.HeardEvent) []ModeDuration {
	type acc struct {
		sum float64
		n   int
	}
	byMode := make(map[string]*acc)
	for _, r := range rows {
		if r.Duration == nil || r.Mode == "" {
			continue
		}
		a, ok := byMode[r.Mode]
		if !ok {
			a = &acc{}
			byMode[r.Mode] = a
		}
		a.sum += *r.Duration
		a.n++
	}

	out := make([]ModeDuration, 0, len(byMode))
	for mode, a := range byMode {
		out = append(out, ModeDuration{Mode: mode, Avg: round3(a.sum / float64(a.n))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mode < out[j].Mode })
	return out
}

// TopCallsigns groups rows by uppercased callsign and ranks them descending
// by the chosen metric, truncated to limit. Empty callsigns are excluded;
// durations only accumulate when present. Each entry carries the resolved
// country code for display.
func TopCallsigns(rows []domain.HeardEvent, by TopMetric, limit int) []TopCallsign {
	type acc struct {
		count   int
		seconds float64
	}
	byCall := make(map[string]*acc)
	for _, r := range rows {
		call := strings.ToUpper(strings.TrimSpace(r.Callsign))
		if call == "" {
			continue
		}
		a, ok := byCall[call]
		if !ok {
			a = &acc{}
			byCall[call] = a
		}
		a.count++
		if r.Duration != nil {
			a.seconds += *r.Duration
		}
	}

	out := make([]TopCallsign, 0, len(byCall))
	for call, a := range byCall {
		out = append(out, TopCallsign{
			Callsign:    call,
			Count:       a.count,
			Seconds:     round3(a.seconds),
			CountryCode: countryOf(call),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if by == TopByDuration {
			if out[i].Seconds != out[j].Seconds {
				return out[i].Seconds > out[j].Seconds
			}
		} else {
			if out[i].Count != out[j].Count {
				return out[i].Count > out[j].Count
			}
		}
		return out[i].Callsign < out[j].Callsign
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// HallOfFame ranks callsigns by a weighted score over the given window.
// The duration filter applies per row: a 10-second transmission never
// counts, even for a station with other qualifying transmissions.
func HallOfFame(rows []domain.HeardEvent, windowHours int, minDuration float64, limit int) []FameEntry {
	windowHours = ClampWindowHours(windowHours)
	limit = ClampLimit(limit)
	cutoff := clock.Now().Add(-time.Duration(windowHours) * time.Hour)

	type acc struct {
		count int
		total float64
	}
	byCall := make(map[string]*acc)
	for _, r := range rows {
		call := strings.ToUpper(strings.TrimSpace(r.Callsign))
		if call == "" || r.Duration == nil || *r.Duration < minDuration {
			continue
		}
		if r.Timestamp.Before(cutoff) {
			continue
		}
		a, ok := byCall[call]
		if !ok {
			a = &acc{}
			byCall[call] = a
		}
		a.count++
		a.total += *r.Duration
	}

	var maxQSO int
	var maxSec float64
	for _, a := range byCall {
		maxQSO = max(maxQSO, a.count)
		maxSec = max(maxSec, a.total)
	}

	out := make([]FameEntry, 0, len(byCall))
	for call, a := range byCall {
		var score float64
		if maxQSO > 0 {
			score += float64(a.count) / float64(maxQSO) * 60
		}
		if maxSec > 0 {
			score += a.total / maxSec * 40
		}
		out = append(out, FameEntry{
			Callsign:    call,
			QSOCount:    a.count,
			TotalSec:    round3(a.total),
			AvgSec:      round3(a.total / float64(a.count)),
			Score:       round3(score),
			CountryCode: countryOf(call),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.QSOCount != b.QSOCount {
			return a.QSOCount > b.QSOCount
		}
		if a.TotalSec != b.TotalSec {
			return a.TotalSec > b.TotalSec
		}
		return a.Callsign < b.Callsign
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ClampWindowHours enforces the Hall of Fame window lower bound of one
// hour. Defaulting an absent parameter to DefaultFameWindowHours is the
// caller's job; an explicit zero still clamps to one.
func ClampWindowHours(h int) int {
	return max(h, 1)
}

// ClampLimit bounds a caller-supplied result limit to [1, MaxFameLimit].
func ClampLimit(n int) int {
	return min(max(n, 1), MaxFameLimit)
}

// round3 rounds half away from zero to three decimal places.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// countryOf returns the resolved country code, or nil so the JSON field
// renders as null when no prefix matches.
func countryOf(callsign string) *string {
	if cc, ok := domain.CountryForCallsign(callsign); ok {
		return &cc
	}
	return nil
}
