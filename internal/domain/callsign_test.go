package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryForCallsign(t *testing.T) {
	tests := []struct {
		name     string
		callsign string
		want     string
		found    bool
	}{
		{"german prefix", "DL1ABC", "DE", true},
		{"aland overrides finland", "OH0ABC", "AX", true},
		{"finland generic", "OH2XYZ", "FI", true},
		{"lowercase input", "dl1abc", "DE", true},
		{"surrounding whitespace", "  G4ABC ", "GB", true},
		{"us single letter", "K1ABC", "US", true},
		{"swiss three char", "HB9ABC", "CH", true},
		{"duplicate key keeps value", "LY5A", "LT", true},
		{"no match", "XX9XX", "", false},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CountryForCallsign(tt.callsign)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountryForCallsign_Deterministic(t *testing.T) {
	first, ok := CountryForCallsign("OH0ABC")
	require.True(t, ok)
	for range 100 {
		got, ok := CountryForCallsign("OH0ABC")
		require.True(t, ok)
		require.Equal(t, first, got)
	}
}

func TestBuildPrefixTable_DuplicateKeepsFirstPositionLastValue(t *testing.T) {
	table := buildPrefixTable([]PrefixEntry{
		{"AB", "XX"},
		{"CD", "YY"},
		{"AB", "ZZ"},
		{"EF", "WW"},
	})

	require.Len(t, table, 3)
	// last assigned value wins...
	assert.Equal(t, PrefixEntry{"AB", "ZZ"}, table[0])
	// ...but the entry holds its first-declared position.
	assert.Equal(t, PrefixEntry{"CD", "YY"}, table[1])
	assert.Equal(t, PrefixEntry{"EF", "WW"}, table[2])
}

func TestBuildPrefixTable_OrderDecidesPrecedence(t *testing.T) {
	specificFirst := buildPrefixTable([]PrefixEntry{{"OH0", "AX"}, {"OH", "FI"}})
	genericFirst := buildPrefixTable([]PrefixEntry{{"OH", "FI"}, {"OH0", "AX"}})

	match := func(table []PrefixEntry, call string) string {
		for _, e := range table {
			if len(call) >= len(e.Prefix) && call[:len(e.Prefix)] == e.Prefix {
				return e.Country
			}
		}
		return ""
	}

	// With the specific prefix declared first it wins; declared after the
	// generic one it is unreachable. Both behaviors are intentional.
	assert.Equal(t, "AX", match(specificFirst, "OH0ABC"))
	assert.Equal(t, "FI", match(genericFirst, "OH0ABC"))
}

func TestPrefixTable_BuiltOnce(t *testing.T) {
	assert.Equal(t, len(prefixTable()), len(prefixTable()), "table must be stable across calls")
	assert.Less(t, len(prefixTable()), len(prefixPairs), "duplicates must collapse")
}
