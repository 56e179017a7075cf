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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/JonMunkholm/inventory/internal/metrics"
	"github.com/JonMunkholm/inventory/internal/store"
	"github.com/JonMunkholm/inventory/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"store_path", cfg.Store.Path,
		"store_sheet", cfg.Store.Sheet,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"metrics_enabled", cfg.Metrics.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	// Metrics registry with runtime collectors
	var (
		recorder core.Recorder
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder = metrics.New(reg, metrics.DefaultNamespace)
		gatherer = reg
	}

	// Controller over the backing workbook
	xlsx := store.New(cfg.Store.Path, cfg.Store.Sheet)
	gate := core.NewActionGate(cfg.Store.ActionWait)
	ctrl := core.NewController(xlsx,
		core.WithRecorder(recorder),
		core.WithGate(gate),
	)

	ctx := context.Background()
	state, err := ctrl.Open(ctx)
	if err != nil {
		slog.Error("failed to load inventory", "path", cfg.Store.Path, "error", err)
		os.Exit(1)
	}

	exporter := store.NewExporter(cfg.Export.FileName, cfg.Export.Sheet)
	server := web.NewServer(cfg, ctrl, state, exporter, gatherer)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Let a running action finish its save
		if gate.Busy() {
			slog.Info("waiting for running action to complete")
			if err := gate.WaitIdle(shutdownCtx); err != nil {
				slog.Warn("action did not complete in time", "error", err)
			}
		}
		if view, err := ctrl.View(shutdownCtx, state, ""); err == nil && view.Dirty {
			slog.Warn("exiting with unsaved changes", "path", cfg.Store.Path, "products", len(view.All))
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
