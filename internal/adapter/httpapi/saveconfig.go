package httpapi

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/repeaterlab/mmdvm-dash/internal/store"
)

var (
	callsignPattern = regexp.MustCompile(`^[A-Za-z0-9/]{3,}$`)
	digitsPattern   = regexp.MustCompile(`^\d+$`)
)

// handleSaveConfig validates a configuration submission and upserts the
// single config row, marking it for pickup by the repeater backend.
func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad form"})
		return
	}

	if !s.checkPassword(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "auth required"})
		return
	}

	u, errs := parseConfigForm(r)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": strings.Join(errs, "; ")})
		return
	}

	if err := s.store.SaveConfig(r.Context(), u); err != nil {
		s.logger.Error("config save failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "internal error"})
		return
	}

	s.logger.Info("configuration saved", "callsign", u.Callsign)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// parseConfigForm validates the submitted fields and assembles the update.
// All reported problems are collected rather than failing on the first.
func parseConfigForm(r *http.Request) (store.ConfigUpdate, []string) {
	var errs []string

	get := func(key string) string { return strings.TrimSpace(r.PostFormValue(key)) }

	callsign := get("Callsign")
	if !callsignPattern.MatchString(callsign) {
		errs = append(errs, "Invalid callsign")
	}

	rxfreq := get("RXFrequency")
	if !digitsPattern.MatchString(rxfreq) {
		errs = append(errs, "RXFrequency must be an integer number (Hz)")
	}
	txfreq := get("TXFrequency")
	if !digitsPattern.MatchString(txfreq) {
		errs = append(errs, "TXFrequency must be an integer number (Hz)")
	}

	dmrID := get("Id")
	if !digitsPattern.MatchString(dmrID) {
		errs = append(errs, "Id (DMR) missing/invalid")
	}

	// Decimal comma is accepted for coordinates.
	lat := strings.ReplaceAll(get("Latitude"), ",", ".")
	lon := strings.ReplaceAll(get("Longitude"), ",", ".")
	latV, latErr := strconv.ParseFloat(lat, 64)
	lonV, lonErr := strconv.ParseFloat(lon, 64)
	if lat == "" || lon == "" || latErr != nil || lonErr != nil {
		errs = append(errs, "Latitude/Longitude invalid")
	}

	if len(errs) > 0 {
		return store.ConfigUpdate{}, errs
	}

	rx, _ := strconv.Atoi(rxfreq)
	tx, _ := strconv.Atoi(txfreq)
	id, _ := strconv.Atoi(dmrID)
	duplex, _ := strconv.Atoi(get("Duplex"))

	var height *int
	if h := get("Height"); h != "" {
		if v, err := strconv.Atoi(h); err == nil {
			height = &v
		}
	}

	// The module is a single letter; an absent field defaults to "B".
	module := get("Module")
	if module == "" {
		module = "B"
	}
	module = strings.ToUpper(module[:1])

	u := store.ConfigUpdate{
		Callsign:    strings.ToUpper(callsign),
		Module:      module,
		DMRID:       id,
		Duplex:      duplex,
		RXFreq:      rx,
		TXFreq:      tx,
		Latitude:    latV,
		Longitude:   lonV,
		Height:      height,
		Location:    optField(r, "Location"),
		Description: optField(r, "Description"),
		URL:         optField(r, "URL"),
		Reflector:   combineReflector(get("reflector1"), get("reflector_module")),
		Suffix:      optField(r, "Suffix"),
		Startup:     optField(r, "Startup"),
		Options:     optField(r, "Options"),
		Address:     optField(r, "Address"),
		Password:    optField(r, "Password"),
		Name:        optField(r, "Name"),
		BmApiKey:    optField(r, "BmApiKey"),
	}
	return u, nil
}

// combineReflector joins the base name and module letter back into the
// stored "DCS001 R" form, the inverse of splitReflector.
func combineReflector(base, module string) string {
	base = strings.ToUpper(base)
	if module != "" {
		module = strings.ToUpper(module[:1])
	}
	return strings.TrimSpace(base + " " + module)
}

// optField returns the trimmed form value, or nil when the field was not
// submitted at all.
func optField(r *http.Request, key string) *string {
	if !r.PostForm.Has(key) {
		return nil
	}
	v := strings.TrimSpace(r.PostFormValue(key))
	return &v
}
