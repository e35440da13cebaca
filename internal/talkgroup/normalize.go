// Package talkgroup normalizes talkgroup assignment lists fetched from the
// BrandMeister device registry into a canonical per-timeslot structure.
//
// Registry records are loosely typed: the slot may arrive as "slot" or
// "timeslot", the talkgroup id as "talkgroup", "tg", or "id", and either as
// a JSON number or a numeric string. The normalizer accepts whatever is
// present, coerces to integer, and silently drops anything that does not
// yield a positive talkgroup id. A missing or malformed payload degrades to
// empty sets rather than failing.
package talkgroup

import (
	"sort"
	"strconv"
	"strings"
)

// Record is one loosely-typed assignment entry as decoded from registry JSON.
type Record map[string]any

// SlotSet holds the deduplicated, ascending talkgroup ids per timeslot.
// Slices are always non-nil so they serialize as [] rather than null.
type SlotSet struct {
	TS1 []int `json:"TS1"`
	TS2 []int `json:"TS2"`
}

// Set is the canonical static + dynamic assignment structure built fresh
// per request; it is never cached.
type Set struct {
	Static  SlotSet `json:"static"`
	Dynamic SlotSet `json:"dynamic"`
}

// Normalize merges the static and dynamic registry payloads independently
// into a Set. Each of the four buckets ends up deduplicated and sorted
// ascending.
func Normalize(static, dynamic []Record) Set {
	return Set{
		Static:  normalizeSlots(static),
		Dynamic: normalizeSlots(dynamic),
	}
}

// slotFields and tgFields are the accepted field names, in fallback order.
var (
	slotFields = []string{"slot", "timeslot"}
	tgFields   = []string{"talkgroup", "tg", "id"}
)

func normalizeSlots(records []Record) SlotSet {
	ts1 := make(map[int]struct{})
	ts2 := make(map[int]struct{})

	for _, rec := range records {
		tg := firstInt(rec, tgFields)
		if tg <= 0 {
			continue
		}
		// Anything other than exactly slot 1 lands on slot 2, including a
		// missing or unparsable slot field.
		if firstInt(rec, slotFields) == 1 {
			ts1[tg] = struct{}{}
		} else {
			ts2[tg] = struct{}{}
		}
	}

	return SlotSet{TS1: sortedKeys(ts1), TS2: sortedKeys(ts2)}
}

// firstInt returns the first of the named fields that is present and
// non-null, coerced to int; 0 when none resolve. A JSON null counts as
// absent so the lookup falls through to the next field name.
func firstInt(rec Record, fields []string) int {
	for _, f := range fields {
		if v, ok := rec[f]; ok && v != nil {
			return coerceInt(v)
		}
	}
	return 0
}

// coerceInt converts the value types encoding/json produces (float64,
// string, bool, nil) to an integer, returning 0 for anything non-numeric.
func coerceInt(v any) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case int:
		return x
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Records converts a SlotSet back into the loose record form, so an
// already-normalized set can be fed through Normalize again; normalization
// is idempotent.
func (s SlotSet) Records() []Record {
	out := make([]Record, 0, len(s.TS1)+len(s.TS2))
	for _, tg := range s.TS1 {
		out = append(out, Record{"slot": float64(1), "talkgroup": float64(tg)})
	}
	for _, tg := range s.TS2 {
		out = append(out, Record{"slot": float64(2), "talkgroup": float64(tg)})
	}
	return out
}
