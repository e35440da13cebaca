package report

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repeaterlab/mmdvm-dash/internal/domain"
)

var testNow = time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

func freezeClock(t *testing.T) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(testNow))
	t.Cleanup(func() { SetClock(nil) })
}

func ptr[T any](v T) *T { return &v }

func heard(call, mode string, src domain.Source, dur *float64, ts time.Time) domain.HeardEvent {
	return domain.HeardEvent{Callsign: call, Mode: mode, Source: src, Duration: dur, Timestamp: ts}
}

func TestActivityByHour(t *testing.T) {
	h0 := time.Date(2025, 8, 30, 10, 12, 0, 0, time.UTC)
	h1 := time.Date(2025, 8, 30, 11, 3, 0, 0, time.UTC)

	rows := []domain.HeardEvent{
		heard("DL1ABC", "DMR Slot 1", domain.SourceRF, nil, h0),
		heard("DL2DEF", "DMR Slot 2", domain.SourceNET, nil, h0),
		heard("G4ABC", "YSF", domain.SourceNET, nil, h0),
		heard("OH0ABC", "D-Star", domain.SourceRF, nil, h1),
	}

	got := ActivityByHour(rows)

	require.Len(t, got, 2, "hours without events must be omitted")
	assert.Equal(t, ActivityBucket{Hour: "2025-08-30 10:00:00", RF: 1, NET: 2}, got[0])
	assert.Equal(t, ActivityBucket{Hour: "2025-08-30 11:00:00", RF: 1, NET: 0}, got[1])
}

func TestActivityByHour_Empty(t *testing.T) {
	assert.Empty(t, ActivityByHour(nil))
}

func TestActivityByMode(t *testing.T) {
	ts := testNow

	t.Run("counts per category", func(t *testing.T) {
		rows := []domain.HeardEvent{
			heard("A", "DMR Slot 1", domain.SourceRF, nil, ts),
			heard("B", "DMR Slot 2", domain.SourceNET, nil, ts),
			heard("C", "D-Star", domain.SourceRF, nil, ts),
			heard("D", "System Fusion", domain.SourceRF, nil, ts),
			heard("E", "YSF", domain.SourceNET, nil, ts),
			heard("F", "FM", domain.SourceRF, nil, ts), // unclassified, excluded
		}

		assert.Equal(t, ModeTotals{DStar: 1, YSF: 2, DMR: 2}, ActivityByMode(rows))
	})

	t.Run("empty rows keep all keys", func(t *testing.T) {
		assert.Equal(t, ModeTotals{DStar: 0, YSF: 0, DMR: 0}, ActivityByMode(nil))
	})
}

func TestActivityByModeSplit(t *testing.T) {
	ts := testNow
	rows := []domain.HeardEvent{
		heard("A", "DMR Slot 1", domain.SourceRF, nil, ts),
		heard("B", "DMR Slot 1", domain.SourceNET, nil, ts),
		heard("C", "DMR Slot 2", domain.SourceNET, nil, ts),
		heard("D", "YSF", domain.SourceRF, nil, ts),
		heard("E", "FM", domain.SourceRF, nil, ts),        // unclassified
		heard("F", "DMR Slot 1", domain.Source(""), nil, ts), // neither RF nor NET
	}

	got := ActivityByModeSplit(rows)

	assert.Equal(t, SourceSplit{RF: 1, NET: 2}, got.DMR)
	assert.Equal(t, SourceSplit{RF: 1, NET: 0}, got.YSF)
	assert.Equal(t, SourceSplit{RF: 0, NET: 0}, got.DStar, "empty cells stay present")
}

func TestHeatmap(t *testing.T) {
	sunday := time.Date(2025, 8, 24, 9, 0, 0, 0, time.UTC) // a Sunday
	monday := sunday.AddDate(0, 0, 1)

	rows := []domain.HeardEvent{
		heard("A", "DMR", domain.SourceRF, nil, sunday),
		heard("B", "DMR", domain.SourceRF, nil, sunday.Add(10*time.Minute)),
		heard("C", "DMR", domain.SourceRF, nil, monday.Add(22*time.Hour)),
	}

	got := Heatmap(rows)

	require.Len(t, got, 2)
	assert.Equal(t, HeatmapCell{Dow: 1, Hour: 9, Count: 2}, got[0], "Sunday is day 1")
	assert.Equal(t, HeatmapCell{Dow: 2, Hour: 22, Count: 1}, got[1])
}

func TestAverageDurationByMode(t *testing.T) {
	ts := testNow
	rows := []domain.HeardEvent{
		heard("A", "DMR Slot 1", domain.SourceRF, ptr(4.0), ts),
		heard("B", "DMR Slot 1", domain.SourceRF, ptr(5.0), ts),
		heard("C", "DMR Slot 1", domain.SourceRF, nil, ts), // no duration, skipped
		heard("D", "YSF", domain.SourceNET, ptr(10.0), ts),
		heard("E", "D-Star", domain.SourceRF, nil, ts), // label never appears
		heard("F", "", domain.SourceRF, ptr(7.0), ts),  // empty label, skipped
	}

	got := AverageDurationByMode(rows)

	require.Len(t, got, 2)
	assert.Equal(t, ModeDuration{Mode: "DMR Slot 1", Avg: 4.5}, got[0], "raw label, not category")
	assert.Equal(t, ModeDuration{Mode: "YSF", Avg: 10.0}, got[1])
}

func TestAverageDurationByMode_Rounding(t *testing.T) {
	rows := []domain.HeardEvent{
		heard("A", "DMR", domain.SourceRF, ptr(1.0), testNow),
		heard("B", "DMR", domain.SourceRF, ptr(1.0), testNow),
		heard("C", "DMR", domain.SourceRF, ptr(2.0), testNow),
	}

	got := AverageDurationByMode(rows)

	require.Len(t, got, 1)
	assert.Equal(t, 1.333, got[0].Avg)
}

func TestTopCallsigns(t *testing.T) {
	ts := testNow

	rows := []domain.HeardEvent{
		heard("dl1abc", "DMR", domain.SourceRF, ptr(10.0), ts),
		heard("DL1ABC", "DMR", domain.SourceRF, ptr(20.0), ts),
		heard("DL1ABC", "DMR", domain.SourceRF, nil, ts),
		heard("G4ABC", "YSF", domain.SourceNET, ptr(100.0), ts),
		heard("", "DMR", domain.SourceRF, ptr(50.0), ts),   // excluded
		heard("   ", "DMR", domain.SourceRF, ptr(50.0), ts), // excluded
	}

	t.Run("by count", func(t *testing.T) {
		got := TopCallsigns(rows, TopByCount, 10)

		require.Len(t, got, 2)
		assert.Equal(t, "DL1ABC", got[0].Callsign, "case-folded grouping")
		assert.Equal(t, 3, got[0].Count)
		require.NotNil(t, got[0].CountryCode)
		assert.Equal(t, "DE", *got[0].CountryCode)
	})

	t.Run("by duration", func(t *testing.T) {
		got := TopCallsigns(rows, TopByDuration, 10)

		require.Len(t, got, 2)
		assert.Equal(t, "G4ABC", got[0].Callsign)
		assert.Equal(t, 100.0, got[0].Seconds)
		assert.Equal(t, 30.0, got[1].Seconds, "nil durations do not contribute")
	})

	t.Run("limit honored", func(t *testing.T) {
		var many []domain.HeardEvent
		for _, c := range []string{"DL1AA", "DL1AB", "DL1AC", "DL1AD", "DL1AE", "DL1AF", "DL1AG", "DL1AH", "DL1AI", "DL1AJ", "DL1AK", "DL1AL"} {
			many = append(many, heard(c, "DMR", domain.SourceRF, nil, ts))
		}
		assert.Len(t, TopCallsigns(many, TopByCount, 10), 10)
	})

	t.Run("unknown prefix yields nil country", func(t *testing.T) {
		got := TopCallsigns([]domain.HeardEvent{heard("XX9XX", "DMR", domain.SourceRF, nil, ts)}, TopByCount, 10)
		require.Len(t, got, 1)
		assert.Nil(t, got[0].CountryCode)
	})
}

func TestHallOfFame(t *testing.T) {
	freezeClock(t)
	ts := testNow.Add(-time.Hour)

	t.Run("score weighting", func(t *testing.T) {
		// A: 10 QSOs, 100 s total. B: 5 QSOs, 200 s total.
		var rows []domain.HeardEvent
		for range 10 {
			rows = append(rows, heard("AA1A", "DMR", domain.SourceRF, ptr(10.0), ts))
		}
		for range 5 {
			rows = append(rows, heard("AB1B", "DMR", domain.SourceRF, ptr(40.0), ts))
		}

		got := HallOfFame(rows, 48, DefaultFameMinDuration, 10)

		require.Len(t, got, 2)
		// maxQso=10, maxSec=200: A = 60 + 20 = 80, B = 30 + 40 = 70.
		assert.Equal(t, "AA1A", got[0].Callsign)
		assert.Equal(t, 80.0, got[0].Score)
		assert.Equal(t, 100.0, got[0].TotalSec)
		assert.Equal(t, 10.0, got[0].AvgSec)
		assert.Equal(t, "AB1B", got[1].Callsign)
		assert.Equal(t, 70.0, got[1].Score)
	})

	t.Run("duration filter is per row", func(t *testing.T) {
		rows := []domain.HeardEvent{
			heard("DL1ABC", "DMR", domain.SourceRF, ptr(10.0), ts), // below 15 s, dropped
			heard("DL1ABC", "DMR", domain.SourceRF, ptr(20.0), ts),
			heard("DL1ABC", "DMR", domain.SourceRF, nil, ts), // nil duration, dropped
		}

		got := HallOfFame(rows, 48, DefaultFameMinDuration, 10)

		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].QSOCount, "only the qualifying row counts")
		assert.Equal(t, 20.0, got[0].TotalSec)
	})

	t.Run("rows outside the window excluded", func(t *testing.T) {
		rows := []domain.HeardEvent{
			heard("DL1ABC", "DMR", domain.SourceRF, ptr(20.0), testNow.Add(-49*time.Hour)),
			heard("G4ABC", "DMR", domain.SourceRF, ptr(20.0), ts),
		}

		got := HallOfFame(rows, 48, DefaultFameMinDuration, 10)

		require.Len(t, got, 1)
		assert.Equal(t, "G4ABC", got[0].Callsign)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, HallOfFame(nil, 48, DefaultFameMinDuration, 10))
	})

	t.Run("single station scores full marks", func(t *testing.T) {
		rows := []domain.HeardEvent{heard("DL1ABC", "DMR", domain.SourceRF, ptr(30.0), ts)}

		got := HallOfFame(rows, 48, DefaultFameMinDuration, 10)

		require.Len(t, got, 1)
		assert.Equal(t, 100.0, got[0].Score)
	})

	t.Run("limit clamped to maximum", func(t *testing.T) {
		var rows []domain.HeardEvent
		for i := range 60 {
			call := "DL" + string(rune('A'+i%26)) + string(rune('A'+i/26))
			rows = append(rows, heard(call, "DMR", domain.SourceRF, ptr(30.0), ts))
		}

		got := HallOfFame(rows, 48, DefaultFameMinDuration, 100)

		assert.Len(t, got, MaxFameLimit)
	})
}

func TestClamps(t *testing.T) {
	assert.Equal(t, 1, ClampWindowHours(0))
	assert.Equal(t, 1, ClampWindowHours(-5))
	assert.Equal(t, 720, ClampWindowHours(720))

	assert.Equal(t, 1, ClampLimit(0))
	assert.Equal(t, 10, ClampLimit(10))
	assert.Equal(t, MaxFameLimit, ClampLimit(500))
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 0.333, round3(1.0/3.0))
	assert.Equal(t, 0.667, round3(2.0/3.0))
	assert.Equal(t, -0.667, round3(-2.0/3.0), "rounds away from zero")
	assert.Equal(t, 0.0, round3(0))
}
