package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/sumrunner/internal/api"
	"github.com/vytor/sumrunner/internal/clock"
	"github.com/vytor/sumrunner/internal/config"
	"github.com/vytor/sumrunner/internal/game"
	"github.com/vytor/sumrunner/internal/highscore"
	"github.com/vytor/sumrunner/internal/jobs"
	"github.com/vytor/sumrunner/internal/logger"
	"github.com/vytor/sumrunner/internal/problem"
	"github.com/vytor/sumrunner/internal/progress"
	"github.com/vytor/sumrunner/internal/records"
	"github.com/vytor/sumrunner/internal/services"
	"github.com/vytor/sumrunner/internal/settings"
	"github.com/vytor/sumrunner/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(cfg.LogFormat != "json"),
		logger.WithJSON(cfg.LogFormat == "json"),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Sum Runner Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("storage_driver=%s", cfg.StorageDriver)
	log.Debug("persist_queue_size=%d", cfg.PersistQueueSize)
	log.Debug("feedback_delay=%s", cfg.FeedbackDelay)

	ctx, cancel := context.WithCancel(context.Background())
	ctx = logger.NewContext(ctx, log)

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing storage")
		if err := store.close(); err != nil {
			log.Warn("storage close error: %v", err)
		}
	}()

	profile := problem.DefaultProfile()
	if cfg.DifficultyProfile != "" {
		profile, err = problem.LoadProfile(cfg.DifficultyProfile)
		if err != nil {
			log.Error("failed to load difficulty profile: %v", err)
			os.Exit(1)
		}
		log.Info("loaded difficulty profile from %s (%d tiers)", cfg.DifficultyProfile, profile.MaxTier())
	}
	seed, err := problem.ResolveSeed(cfg.RNGSeed)
	if err != nil {
		log.Error("failed to seed problem generator: %v", err)
		os.Exit(1)
	}
	log.Debug("rng_seed=%d", seed)

	// A single writer keeps persisted records in submission order.
	persistPool := worker.NewPool(1, cfg.PersistQueueSize)
	persistPool.Start(ctx)
	rec := records.New(store.repo, jobs.NewWorkerQueue(persistPool, store.repo))

	progressStore := progress.Load(ctx, rec)
	highScores := highscore.Load(ctx, rec)
	settingsStore := settings.Load(ctx, rec)

	manager := game.NewManager(game.Config{
		Generator:     problem.NewSeeded(seed, profile),
		Progress:      progressStore,
		HighScores:    highScores,
		Clock:         clock.New(),
		FeedbackDelay: cfg.FeedbackDelay,
		Log:           log,
	})

	srv := &api.Server{
		Sessions: services.NewSessionService(manager),
		Progress: services.NewProgressService(progressStore, highScores),
		Settings: services.NewSettingsService(settingsStore),
		Storage:  store.health,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping game timers")
	manager.Close()

	// Stop drains queued writes before the storage is closed.
	log.Debug("stopping persist pool (%d queued)", persistPool.QueueSize())
	persistPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("Sum Runner Server Stopped")
	log.Info("===========================================")
}
