package httpapi

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/repeaterlab/mmdvm-dash/internal/domain"
	"github.com/repeaterlab/mmdvm-dash/internal/report"
	"github.com/repeaterlab/mmdvm-dash/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

// handleQuery dispatches GET /api?q=<selector>. The selector set and the
// response shapes are frozen; the dashboard frontend consumes them as-is.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		q = "status"
	}

	var err error
	switch q {
	case "status":
		err = s.queryStatus(w, r)
	case "lastheard":
		err = s.queryLastHeard(w, r)
	case "activity48h":
		err = s.queryActivity48h(w, r)
	case "activityByMode48h":
		err = s.queryActivityByMode(w, r)
	case "activityByMode48hSplit":
		err = s.queryActivityByModeSplit(w, r)
	case "heatmap30d":
		err = s.queryHeatmap(w, r)
	case "avgDurationByMode":
		err = s.queryAvgDuration(w, r)
	case "callsignTop10Count":
		err = s.queryTopCallsigns(w, r, report.TopByCount)
	case "callsignTop10Duration":
		err = s.queryTopCallsigns(w, r, report.TopByDuration)
	case "hallOfFame":
		err = s.queryHallOfFame(w, r)
	case "reflector":
		err = s.queryReflector(w, r)
	case "localconfig":
		err = s.queryLocalConfig(w, r)
	case "config_inbox":
		err = s.queryConfigInbox(w, r)
	case "bm_tgs":
		s.queryTalkgroups(w, r)
		return
	default:
		s.metrics.APIRequests.WithLabelValues(q, "bad_request").Inc()
		writeError(w, http.StatusBadRequest, "bad query")
		return
	}

	if err != nil {
		s.logger.Error("query failed", "query", q, "error", err)
		s.metrics.APIRequests.WithLabelValues(q, "error").Inc()
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.metrics.APIRequests.WithLabelValues(q, "ok").Inc()
}

// statusResponse is a StatusRow with the resolved country appended.
type statusResponse struct {
	*store.StatusRow
	CountryCode *string `json:"country_code"`
}

func (s *Server) queryStatus(w http.ResponseWriter, r *http.Request) error {
	row, err := s.store.Status(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, []any{})
		return nil
	}
	if err != nil {
		return err
	}

	resp := statusResponse{StatusRow: row}
	if row.Callsign != nil {
		resp.CountryCode = countryOf(*row.Callsign)
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

// heardRow is one lastheard entry with the wire timestamp format and the
// resolved country.
type heardRow struct {
	Callsign    string   `json:"callsign"`
	Mode        string   `json:"mode"`
	DGID        *int     `json:"dgid"`
	Slot        *int     `json:"slot"`
	Source      string   `json:"source"`
	Duration    *float64 `json:"duration"`
	BER         *float64 `json:"ber"`
	TS          string   `json:"ts"`
	CountryCode *string  `json:"country_code"`
}

func (s *Server) queryLastHeard(w http.ResponseWriter, r *http.Request) error {
	events, err := s.store.LastHeard(r.Context(), 10)
	if err != nil {
		return err
	}

	rows := make([]heardRow, 0, len(events))
	for _, ev := range events {
		rows = append(rows, heardRow{
			Callsign:    ev.Callsign,
			Mode:        ev.Mode,
			DGID:        ev.DGID,
			Slot:        ev.Slot,
			Source:      string(ev.Source),
			Duration:    ev.Duration,
			BER:         ev.BER,
			TS:          ev.Timestamp.Format(timeLayout),
			CountryCode: countryOf(ev.Callsign),
		})
	}
	writeJSON(w, http.StatusOK, rows)
	return nil
}

func (s *Server) heardWindow(r *http.Request, window time.Duration) ([]domain.HeardEvent, error) {
	return s.store.HeardSince(r.Context(), report.Now().Add(-window))
}

func (s *Server) queryActivity48h(w http.ResponseWriter, r *http.Request) error {
	rows, err := s.heardWindow(r, 48*time.Hour)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, report.ActivityByHour(rows))
	return nil
}

func (s *Server) queryActivityByMode(w http.ResponseWriter, r *http.Request) error {
	rows, err := s.heardWindow(r, 48*time.Hour)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, report.ActivityByMode(rows))
	return nil
}

func (s *Server) queryActivityByModeSplit(w http.ResponseWriter, r *http.Request) error {
	rows, err := s.heardWindow(r, 48*time.Hour)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, report.ActivityByModeSplit(rows))
	return nil
}

func (s *Server) queryHeatmap(w http.ResponseWriter, r *http.Request) error {
	rows, err := s.heardWindow(r, 30*24*time.Hour)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, report.Heatmap(rows))
	return nil
}

func (s *Server) queryAvgDuration(w http.ResponseWriter, r *http.Request) error {
	// All-time, no window.
	rows, err := s.store.HeardSince(r.Context(), time.Time{})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, report.AverageDurationByMode(rows))
	return nil
}

// topCountRow and topDurationRow pick which aggregate the frontend sees.
type topCountRow struct {
	Callsign    string  `json:"callsign"`
	Count       int     `json:"cnt"`
	CountryCode *string `json:"country_code"`
}

type topDurationRow struct {
	Callsign    string  `json:"callsign"`
	Seconds     float64 `json:"sec"`
	CountryCode *string `json:"country_code"`
}

func (s *Server) queryTopCallsigns(w http.ResponseWriter, r *http.Request, by report.TopMetric) error {
	rows, err := s.store.HeardSince(r.Context(), time.Time{})
	if err != nil {
		return err
	}

	top := report.TopCallsigns(rows, by, 10)
	if by == report.TopByCount {
		out := make([]topCountRow, 0, len(top))
		for _, t := range top {
			out = append(out, topCountRow{Callsign: t.Callsign, Count: t.Count, CountryCode: t.CountryCode})
		}
		writeJSON(w, http.StatusOK, out)
		return nil
	}

	out := make([]topDurationRow, 0, len(top))
	for _, t := range top {
		out = append(out, topDurationRow{Callsign: t.Callsign, Seconds: t.Seconds, CountryCode: t.CountryCode})
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

func (s *Server) queryHallOfFame(w http.ResponseWriter, r *http.Request) error {
	hours := report.ClampWindowHours(intParam(r, "since_h", report.DefaultFameWindowHours))
	limit := report.ClampLimit(intParam(r, "limit", 10))

	rows, err := s.store.HeardSince(r.Context(), report.Now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		return err
	}

	fame := report.HallOfFame(rows, hours, report.DefaultFameMinDuration, limit)
	writeJSON(w, http.StatusOK, fame)
	return nil
}

// reflectorResponse renders unlinked reflectors as the dashboard's dash
// placeholder instead of null.
type reflectorResponse struct {
	DStar     string `json:"dstar"`
	DMR       string `json:"dmr"`
	Fusion    string `json:"fusion"`
	UpdatedAt string `json:"updated_at"`
}

func (s *Server) queryReflector(w http.ResponseWriter, r *http.Request) error {
	row, err := s.store.Reflector(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, []any{})
		return nil
	}
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, reflectorResponse{
		DStar:     orPlaceholder(row.DStar),
		DMR:       orPlaceholder(row.DMR),
		Fusion:    orPlaceholder(row.Fusion),
		UpdatedAt: row.UpdatedAt,
	})
	return nil
}

func (s *Server) queryLocalConfig(w http.ResponseWriter, r *http.Request) error {
	row, err := s.store.LocalConfig(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, []any{})
		return nil
	}
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, row)
	return nil
}

func (s *Server) queryConfigInbox(w http.ResponseWriter, r *http.Request) error {
	row, err := s.store.ConfigInbox(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, []any{})
		return nil
	}
	if err != nil {
		return err
	}

	base, module := splitReflector(row.RawReflector, row.Module)
	row.Reflector = base
	row.ReflectorModule = module
	writeJSON(w, http.StatusOK, row)
	return nil
}

var reflectorPattern = regexp.MustCompile(`^([A-Z]+[0-9]+)\s*([A-Z])?$`)

// splitReflector breaks a stored reflector string like "DCS001 R" or
// "DCS001R" into base and module. A missing module letter falls back to the
// first letter of the repeater's module column.
func splitReflector(raw, module *string) (string, string) {
	s := ""
	if raw != nil {
		s = strings.ToUpper(strings.TrimSpace(*raw))
		s = strings.Join(strings.Fields(s), " ")
	}

	base, mod := s, ""
	if m := reflectorPattern.FindStringSubmatch(s); m != nil {
		base = m[1]
		mod = m[2]
	}

	if mod == "" {
		fallback := "B"
		if module != nil {
			fallback = *module
		}
		if fallback != "" {
			mod = strings.ToUpper(fallback[:1])
		}
	}
	return base, mod
}

func orPlaceholder(s *string) string {
	if s == nil {
		return "-----"
	}
	return *s
}

func countryOf(callsign string) *string {
	if c, ok := domain.CountryForCallsign(callsign); ok {
		return &c
	}
	return nil
}

// intParam parses an integer query parameter, returning def when absent and
// zero when malformed so the caller's clamp applies.
func intParam(r *http.Request, name string, def int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
