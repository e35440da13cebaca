// Package domain models heard-station events from an MMDVM multi-mode
// digital-voice repeater and the static lookup data used to enrich them.
//
// # Data Source
//
// An MMDVM host logs every transmission it opens and closes across its
// digital-voice modes (DMR, D-Star, System Fusion). A bridge on the
// repeater publishes each closed transmission as flat JSON (callsign,
// mode label, talkgroup/DG-ID, timeslot, RF/NET origin, duration, and bit
// error rate), which the ingest pipeline parses into [HeardEvent] rows.
//
// # Mode Labels
//
// Mode labels are free text as the repeater emits them ("DMR Slot 1",
// "D-Star", "System Fusion", "YSF"). [ClassifyMode] folds them into the
// three report categories; anything unrecognized (FM, POCSAG, Idle) is
// left unclassified and never counted in mode-based reports.
//
// # Callsign Prefixes
//
// [CountryForCallsign] resolves an operator's country from the leading
// characters of the callsign against a static prefix table. ITU prefix
// allocation is messy in practice, and the table mirrors that: it is
// intentionally incomplete, order-sensitive, and contains duplicates.
// Matching is a plain first-match scan in declared order; longer prefixes
// win only because they are declared first ("OH0" for the Åland Islands
// ahead of "OH" for Finland). The table is never sorted or deduplicated;
// see buildPrefixTable for the duplicate-key rule.
package domain
