package talkgroup

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("field name fallbacks", func(t *testing.T) {
		static := []Record{
			{"slot": float64(1), "talkgroup": float64(262)},
			{"timeslot": float64(2), "tg": float64(26223)},
			{"id": float64(91)}, // no slot at all -> slot 2
		}

		got := Normalize(static, nil)

		assert.Equal(t, []int{262}, got.Static.TS1)
		assert.Equal(t, []int{91, 26223}, got.Static.TS2)
	})

	t.Run("null fields fall through to the next name", func(t *testing.T) {
		static := []Record{
			{"talkgroup": nil, "tg": float64(262), "slot": nil, "timeslot": float64(1)},
			{"talkgroup": nil, "tg": nil, "id": "91", "slot": float64(2)},
			{"talkgroup": nil, "tg": nil, "id": nil}, // every id field null -> dropped
		}

		got := Normalize(static, nil)

		assert.Equal(t, []int{262}, got.Static.TS1)
		assert.Equal(t, []int{91}, got.Static.TS2)
	})

	t.Run("slot other than 1 means slot 2", func(t *testing.T) {
		static := []Record{
			{"slot": float64(0), "tg": float64(1)},
			{"slot": float64(3), "tg": float64(2)},
			{"slot": "garbage", "tg": float64(3)},
		}

		got := Normalize(static, nil)

		assert.Empty(t, got.Static.TS1)
		assert.Equal(t, []int{1, 2, 3}, got.Static.TS2)
	})

	t.Run("string coercion", func(t *testing.T) {
		static := []Record{
			{"slot": "1", "talkgroup": "262"},
			{"slot": " 2 ", "tg": " 91 "},
		}

		got := Normalize(static, nil)

		assert.Equal(t, []int{262}, got.Static.TS1)
		assert.Equal(t, []int{91}, got.Static.TS2)
	})

	t.Run("non-positive ids dropped", func(t *testing.T) {
		static := []Record{
			{"slot": float64(1), "talkgroup": float64(0)},
			{"slot": float64(1), "talkgroup": float64(-5)},
			{"slot": float64(1)}, // no id field
			{"slot": float64(1), "talkgroup": "NaN"},
		}

		got := Normalize(static, nil)

		assert.Empty(t, got.Static.TS1)
		assert.Empty(t, got.Static.TS2)
	})

	t.Run("duplicates collapse and sort ascending", func(t *testing.T) {
		static := []Record{
			{"slot": float64(2), "tg": float64(26223)},
			{"slot": float64(2), "talkgroup": float64(262)},
			{"timeslot": float64(2), "id": float64(262)},
			{"slot": float64(2), "tg": "262"},
		}

		got := Normalize(static, nil)

		assert.Equal(t, []int{262, 26223}, got.Static.TS2)
	})

	t.Run("static and dynamic independent", func(t *testing.T) {
		static := []Record{{"slot": float64(1), "tg": float64(262)}}
		dynamic := []Record{{"slot": float64(2), "tg": float64(91)}}

		got := Normalize(static, dynamic)

		assert.Equal(t, []int{262}, got.Static.TS1)
		assert.Empty(t, got.Static.TS2)
		assert.Equal(t, []int{91}, got.Dynamic.TS2)
		assert.Empty(t, got.Dynamic.TS1)
	})

	t.Run("nil payloads degrade to empty sets", func(t *testing.T) {
		got := Normalize(nil, nil)

		assert.NotNil(t, got.Static.TS1)
		assert.NotNil(t, got.Static.TS2)
		assert.NotNil(t, got.Dynamic.TS1)
		assert.NotNil(t, got.Dynamic.TS2)
		assert.Empty(t, got.Static.TS1)
	})
}

func TestNormalize_Idempotent(t *testing.T) {
	static := []Record{
		{"timeslot": float64(1), "tg": float64(262)},
		{"slot": float64(2), "id": "26223"},
		{"tg": float64(91)},
	}

	once := Normalize(static, nil)
	again := Normalize(once.Static.Records(), once.Dynamic.Records())

	assert.Equal(t, once, again)
}

func TestSet_JSONShape(t *testing.T) {
	data, err := json.Marshal(Normalize(nil, nil))
	require.NoError(t, err)

	// Empty buckets must serialize as arrays, never null.
	assert.JSONEq(t, `{"static":{"TS1":[],"TS2":[]},"dynamic":{"TS1":[],"TS2":[]}}`, string(data))
}
