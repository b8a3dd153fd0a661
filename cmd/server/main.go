// Package main is the entry point for the videotube API server.
//
// main stays minimal: load configuration, build the logger, hand both to
// server.New, start. All logic lives in internal/.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/sakif/videotube/internal/config"
	"github.com/sakif/videotube/internal/server"
)

func main() {
	// === 1. CONFIGURATION ===
	// .env (optional) plus the environment; invalid settings stop startup.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. LOGGING ===
	// Human-readable key=value lines on stdout; LOG_LEVEL picks the threshold.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// === 3. WIRING ===
	// Connecting to MongoDB and S3 must finish within the startup budget.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	srv, err := server.New(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to initialise server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 4. SERVE ===
	// Blocks until SIGINT/SIGTERM, then shuts down gracefully.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
