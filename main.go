package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"newsdeck/internal/auth"
	"newsdeck/internal/config"
	"newsdeck/internal/database"
	"newsdeck/internal/feed"
	"newsdeck/internal/ingest"
	"newsdeck/internal/news"
	"newsdeck/internal/rest"
	"newsdeck/internal/scheduler"
	"newsdeck/internal/share"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config",
			slog.Any("err", err))

		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DBPath, logger)
	if err != nil {
		slog.Error("Failed to initialize db",
			slog.Any("err", err),
			slog.String("dbPath", cfg.DBPath))

		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close db",
				slog.Any("err", err),
				slog.String("dbPath", cfg.DBPath))
		}
	}()
	slog.Info("DB is initialized")

	fetcher := feed.NewFetcher(cfg.FetchTimeout)
	discoverer := feed.NewDiscoverer(fetcher, logger)
	pipeline := ingest.New(db, fetcher, logger)
	service := news.New(db, discoverer, pipeline, logger)
	tracker := share.NewTracker(db, logger)
	verifier := auth.NewVerifier(cfg.JWTSecret)

	handler := rest.NewHandler(service, tracker, logger)
	router := rest.NewRouter(handler, verifier, cfg.CORSOrigins, logger)

	if cfg.RefreshCronEnabled {
		sched := scheduler.New(ctx, db, pipeline, logger)
		if err := sched.Start(); err != nil {
			slog.Error("Failed to start scheduler",
				slog.Any("err", err))

			return
		}
		defer sched.Stop()
		slog.Info("Scheduler is started")
	}

	go func() {
		if err := router.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server stopped",
				slog.Any("err", err))
			cancel()
		}
	}()
	slog.Info("Server is started",
		slog.String("addr", cfg.Addr))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case <-c:
	case <-ctx.Done():
	}
	slog.Info("Exiting...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shut down server",
			slog.Any("err", err))
	}
	slog.Info("Server is stopped")
}
