package main

import (
	"context"
	"esignserver/internal/app"
	"esignserver/internal/config"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// One-shot orphaned file scan, meant to be run from cron.
func main() {
	cfg := config.MustLoad()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := app.NewApp(ctx, log, cfg)
	if err != nil {
		log.Error("failed to init app", slog.String("error", err.Error()))
		os.Exit(1)
	}

	removed, err := app.CleanupService.Run(ctx)
	if err != nil {
		log.Error("orphaned file scan failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("orphaned file scan finished", slog.Int("removed", removed))
}
