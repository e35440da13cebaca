package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/repeaterlab/mmdvm-dash/internal/adapter/brandmeister"
	"github.com/repeaterlab/mmdvm-dash/internal/adapter/httpapi"
	kafkaadapter "github.com/repeaterlab/mmdvm-dash/internal/adapter/kafka"
	"github.com/repeaterlab/mmdvm-dash/internal/config"
	"github.com/repeaterlab/mmdvm-dash/internal/observability"
	"github.com/repeaterlab/mmdvm-dash/internal/pipeline"
	"github.com/repeaterlab/mmdvm-dash/internal/relay"
	"github.com/repeaterlab/mmdvm-dash/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.CreateSchema(ctx); err != nil {
		logger.Error("failed to create schema", "error", err)
		os.Exit(1)
	}

	registry := func(apiKey string) httpapi.Registry {
		return brandmeister.NewClient(apiKey, cfg.BrandmeisterTimeout, logger)
	}
	gateway := relay.New(cfg.GatewayAddr, logger)

	// Without the ingest pipeline the service is read-only over whatever the
	// bridge already stored; readiness then only tracks the HTTP server.
	ready := httpapi.AlwaysReady()

	var reader *kafkaadapter.Reader
	var p *pipeline.Pipeline
	if cfg.IngestEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		p = pipeline.New(reader, st, logger, metrics, cfg.BatchSize)
		ready = p
		logger.Info("ingest enabled", "topic", cfg.KafkaTopic, "group", cfg.KafkaGroupID)
	} else {
		logger.Info("ingest disabled")
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, st, registry, gateway, ready,
		cfg.CommandPassword, logger, metrics)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if p != nil {
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("ingest pipeline error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
