package main

import (
	"context"
	"esignserver/internal/app"
	"esignserver/internal/config"
	"esignserver/internal/http/server"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	envDev   = "dev"
	envProd  = "prod"
	envLocal = "local"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting application", "env", cfg.Env)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := app.NewApp(ctx, log, cfg)
	if err != nil {
		log.Error("failed to init app", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Cleanup.Interval > 0 {
		go runCleanupLoop(ctx, log, app.CleanupService, cfg.Cleanup.Interval)
	}

	err = server.StartServer(ctx, &cfg.HTTPServer, log,
		app.AuthService,
		app.DocumentService,
		app.SignatureService,
		app.SigningService,
		app.InvitationService,
		app.NotificationService,
		app.AuthService,
	)
	if err != nil {
		log.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

func runCleanupLoop(ctx context.Context, log *slog.Logger, cleanup app.CleanupService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := cleanup.Run(ctx); err != nil {
				log.Error("orphaned file scan failed", slog.String("error", err.Error()))
			}
		}
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return log
}
