package domain

import (
	"strings"
	"sync"
)

// PrefixEntry is one callsign-prefix → country-code mapping.
type PrefixEntry struct {
	Prefix  string
	Country string
}

// prefixTable is built exactly once from prefixPairs and shared read-only
// by every request afterwards.
var prefixTable = sync.OnceValue(func() []PrefixEntry {
	return buildPrefixTable(prefixPairs)
})

// buildPrefixTable collapses duplicate prefixes: the last assigned country
// code wins, but the entry stays at the position of its first declaration.
// Matching depends on that position.
func buildPrefixTable(pairs []PrefixEntry) []PrefixEntry {
	firstIndex := make(map[string]int, len(pairs))
	table := make([]PrefixEntry, 0, len(pairs))
	for _, p := range pairs {
		if i, ok := firstIndex[p.Prefix]; ok {
			table[i].Country = p.Country
			continue
		}
		firstIndex[p.Prefix] = len(table)
		table = append(table, p)
	}
	return table
}

// CountryForCallsign resolves a callsign to an ISO-3166 alpha-2 country code
// by first-match prefix lookup in declared table order. The callsign is
// trimmed and uppercased first. The second return is false when the callsign
// is empty after trimming or no prefix matches; absence is not an error.
func CountryForCallsign(callsign string) (string, bool) {
	call := strings.ToUpper(strings.TrimSpace(callsign))
	if call == "" {
		return "", false
	}
	for _, e := range prefixTable() {
		if strings.HasPrefix(call, e.Prefix) {
			return e.Country, true
		}
	}
	return "", false
}
