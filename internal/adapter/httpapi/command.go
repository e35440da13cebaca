package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// checkPassword compares the submitted ConfigPassword against the configured
// one in constant time. An unset service password locks the endpoint.
func (s *Server) checkPassword(r *http.Request) bool {
	if s.password == "" {
		return false
	}
	given := r.PostFormValue("ConfigPassword")
	return subtle.ConstantTimeCompare([]byte(s.password), []byte(given)) == 1
}

// handleCommand relays a reflector link command to the local gateway.
// cmd=connect&reflector=X links, cmd=disconnect unlinks.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad form"})
		return
	}

	if !s.checkPassword(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "auth required"})
		return
	}

	cmd := strings.TrimSpace(r.PostFormValue("cmd"))

	var sent string
	var err error
	switch cmd {
	case "connect":
		reflector := strings.TrimSpace(r.PostFormValue("reflector"))
		if reflector == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Missing reflector"})
			return
		}
		sent = "LinkYSF " + reflector
		err = s.relay.Link(r.Context(), reflector)
	case "disconnect":
		sent = "UnLink"
		err = s.relay.Unlink(r.Context())
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Invalid command"})
		return
	}

	if err != nil {
		s.logger.Error("gateway command failed", "cmd", cmd, "error", err)
		s.metrics.CommandsRelayed.WithLabelValues(cmd, "error").Inc()
		writeJSON(w, http.StatusBadGateway, map[string]any{"ok": false, "error": "failed to send command"})
		return
	}

	s.metrics.CommandsRelayed.WithLabelValues(cmd, "ok").Inc()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sent": sent})
}
