package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/joelgonn/enfermaria-api/auth"
	"github.com/joelgonn/enfermaria-api/config"
	"github.com/joelgonn/enfermaria-api/data"
	"github.com/joelgonn/enfermaria-api/handlers"
	"github.com/joelgonn/enfermaria-api/health"
	"github.com/joelgonn/enfermaria-api/logging"
	"github.com/joelgonn/enfermaria-api/schedule"
	"github.com/joelgonn/enfermaria-api/scheduler"
	"github.com/joelgonn/enfermaria-api/server"
	"github.com/joelgonn/enfermaria-api/store"
)

func main() {
	// A missing .env is fine in production, where everything comes from
	// the real environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.Init(logging.Options{
		LogDir:         "logs",
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})
	defer logging.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logging.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = store.Migrate(ctx, pool)
	cancel()
	if err != nil {
		logging.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	patients := store.NewPatientStore(pool)
	prescriptions := store.NewPrescriptionStore(pool)
	administrations := store.NewAdministrationStore(pool)
	catalog := store.NewCatalogStore(pool)

	cache := data.NewCatalogContainer()
	cache.SetServerStartTime(time.Now())

	evaluator := schedule.New(cfg.DueSoonWindow, cfg.Location())

	jobs := scheduler.NewScheduler(catalog, prescriptions, administrations, cache, evaluator)
	if err := jobs.Start(); err != nil {
		logging.Error("Failed to start background jobs", "error", err)
		os.Exit(1)
	}
	defer jobs.Stop()

	checker := health.NewHealthChecker(pool, cache)
	handler := handlers.NewHTTPHandler(patients, prescriptions, administrations, cache, checker, evaluator)
	verifier := auth.NewVerifier(cfg.JWTSecret)

	srv := server.NewServer(cfg, handler, verifier)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Shutdown failed", "error", err)
	}
}
