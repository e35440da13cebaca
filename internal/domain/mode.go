package domain

import "strings"

// ModeCategory is the normalized digital-voice mode bucket used by the
// mode-based activity reports.
type ModeCategory string

const (
	ModeDStar        ModeCategory = "dstar"
	ModeYSF          ModeCategory = "ysf"
	ModeDMR          ModeCategory = "dmr"
	ModeUnclassified ModeCategory = ""
)

// ModeCategories lists the classifiable categories in report key order.
// Reports with a fixed-shape contract emit all of these even when zero.
var ModeCategories = []ModeCategory{ModeDStar, ModeYSF, ModeDMR}

// ClassifyMode maps a free-text mode label ("DMR Slot 1", "D-Star",
// "System Fusion", ...) to its category. Rules are checked in order and the
// first match wins; anything else is unclassified and excluded from
// mode-based reports.
func ClassifyMode(label string) ModeCategory {
	switch {
	case strings.HasPrefix(label, "D-Star"):
		return ModeDStar
	case strings.HasPrefix(label, "System Fusion"), strings.HasPrefix(label, "YSF"):
		return ModeYSF
	case strings.HasPrefix(label, "DMR"):
		return ModeDMR
	default:
		return ModeUnclassified
	}
}
