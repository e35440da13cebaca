// Package httpapi exposes the dashboard's query API, the gateway command
// relay, and the configuration endpoint over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/repeaterlab/mmdvm-dash/internal/adapter/brandmeister"
	"github.com/repeaterlab/mmdvm-dash/internal/domain"
	"github.com/repeaterlab/mmdvm-dash/internal/observability"
	"github.com/repeaterlab/mmdvm-dash/internal/store"
	"github.com/repeaterlab/mmdvm-dash/internal/talkgroup"
)

// Store is the persistence surface the API reads from and writes to.
type Store interface {
	Status(ctx context.Context) (*store.StatusRow, error)
	LastHeard(ctx context.Context, limit int) ([]domain.HeardEvent, error)
	HeardSince(ctx context.Context, since time.Time) ([]domain.HeardEvent, error)
	Reflector(ctx context.Context) (*store.ReflectorRow, error)
	LocalConfig(ctx context.Context) (*store.LocalConfigRow, error)
	ConfigInbox(ctx context.Context) (*store.ConfigInboxRow, error)
	DeviceCredentials(ctx context.Context) (deviceID, apiKey string, err error)
	SaveConfig(ctx context.Context, u store.ConfigUpdate) error
}

// RegistryFactory builds a Registry client for a stored API key. The key
// lives in the configuration row and can change between requests.
type RegistryFactory func(apiKey string) Registry

// Registry looks up talkgroup subscriptions and device metadata for a DMR
// device.
type Registry interface {
	StaticTalkgroups(ctx context.Context, deviceID string) ([]talkgroup.Record, error)
	DynamicTalkgroups(ctx context.Context, deviceID string) []talkgroup.Record
	DeviceInfo(ctx context.Context, deviceID string) brandmeister.Device
}

// CommandRelay forwards link commands to the local gateway.
type CommandRelay interface {
	Link(ctx context.Context, reflector string) error
	Unlink(ctx context.Context) error
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// alwaysReady is the readiness check when the ingest pipeline is disabled.
type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }

// AlwaysReady returns a ReadinessChecker that always succeeds.
func AlwaysReady() ReadinessChecker { return alwaysReady{} }

// Server is the dashboard HTTP server.
type Server struct {
	httpServer  *http.Server
	store       Store
	newRegistry RegistryFactory
	relay       CommandRelay
	ready       ReadinessChecker
	password    string
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewServer wires the API routes. password guards the command and config
// endpoints; an empty password rejects every write.
func NewServer(addr string, st Store, newRegistry RegistryFactory, relay CommandRelay, ready ReadinessChecker, password string, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		store:       st,
		newRegistry: newRegistry,
		relay:       relay,
		ready:       ready,
		password:    password,
		logger:      logger,
		metrics:     metrics,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/api", s.handleQuery)
	r.Post("/api/command", s.handleCommand)
	r.Post("/api/config", s.handleSaveConfig)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
