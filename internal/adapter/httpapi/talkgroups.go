package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/repeaterlab/mmdvm-dash/internal/adapter/brandmeister"
	"github.com/repeaterlab/mmdvm-dash/internal/report"
	"github.com/repeaterlab/mmdvm-dash/internal/store"
	"github.com/repeaterlab/mmdvm-dash/internal/talkgroup"
)

// talkgroupResponse is the bm_tgs payload: the device identity, its static
// and dynamic subscriptions grouped by timeslot, and the fetch time.
type talkgroupResponse struct {
	Device    deviceInfo        `json:"device"`
	Static    talkgroup.SlotSet `json:"static"`
	Dynamic   talkgroup.SlotSet `json:"dynamic"`
	UpdatedAt string            `json:"updated_at"`
}

type deviceInfo struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
	Type *string `json:"type"`
}

// queryTalkgroups serves q=bm_tgs. The device id comes from the request or
// the stored configuration; the API key always comes from the configuration.
// Static subscription failures are authoritative, dynamic and metadata
// lookups degrade to empty.
func (s *Server) queryTalkgroups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storedID, apiKey, err := s.store.DeviceCredentials(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Error("device credentials lookup failed", "error", err)
		s.metrics.APIRequests.WithLabelValues("bm_tgs", "error").Inc()
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	deviceID := strings.TrimSpace(r.URL.Query().Get("id"))
	if deviceID == "" {
		deviceID = storedID
	}

	if deviceID == "" || apiKey == "" {
		s.metrics.APIRequests.WithLabelValues("bm_tgs", "bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":      "missing device id or api key",
			"error_code": "NO_API_KEY",
		})
		return
	}

	reg := s.newRegistry(apiKey)

	start := time.Now()
	static, err := reg.StaticTalkgroups(ctx, deviceID)
	s.metrics.BMAPIDuration.WithLabelValues("static").Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.BMRequests.WithLabelValues("static", "error").Inc()
	} else {
		s.metrics.BMRequests.WithLabelValues("static", "success").Inc()
	}
	if errors.Is(err, brandmeister.ErrUnauthorized) {
		s.metrics.APIRequests.WithLabelValues("bm_tgs", "bad_request").Inc()
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":      "invalid or missing BrandMeister API key",
			"error_code": "BAD_API_KEY",
		})
		return
	}
	if err != nil {
		s.logger.Error("static talkgroup fetch failed", "device", deviceID, "error", err)
		s.metrics.APIRequests.WithLabelValues("bm_tgs", "error").Inc()
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	start = time.Now()
	dynamic := reg.DynamicTalkgroups(ctx, deviceID)
	s.metrics.BMAPIDuration.WithLabelValues("dynamic").Observe(time.Since(start).Seconds())
	if len(dynamic) == 0 {
		s.metrics.BMRequests.WithLabelValues("dynamic", "empty").Inc()
	} else {
		s.metrics.BMRequests.WithLabelValues("dynamic", "success").Inc()
	}

	start = time.Now()
	dev := reg.DeviceInfo(ctx, deviceID)
	s.metrics.BMAPIDuration.WithLabelValues("device").Observe(time.Since(start).Seconds())
	s.metrics.BMRequests.WithLabelValues("device", "success").Inc()

	set := talkgroup.Normalize(static, dynamic)

	s.metrics.APIRequests.WithLabelValues("bm_tgs", "ok").Inc()
	writeJSON(w, http.StatusOK, talkgroupResponse{
		Device:    deviceInfo{ID: deviceID, Name: dev.Name, Type: dev.Type},
		Static:    set.Static,
		Dynamic:   set.Dynamic,
		UpdatedAt: report.Now().Format(timeLayout),
	})
}
