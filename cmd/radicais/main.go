package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"radicais/internal/amqp"
	"radicais/internal/backend"
	"radicais/internal/cache"
	"radicais/internal/cli"
	"radicais/internal/core"
	apphttp "radicais/internal/http"
	"radicais/internal/ledger"
	"radicais/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// Data backend for ledger snapshots (memory, sqlite, or sheets).
	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backend.ConfigFromAppConfig(
		cfg.DataBackend, cfg.SQLiteDBPath, cfg.GoogleSpreadsheetID,
		cfg.TitheSheetName, cfg.AttendanceSheetName, cfg.SeedDir))
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	session, err := ledger.NewSession(result.Backend, core.DefaultRoster(), cfg.TitheAutoPaid)
	if err != nil {
		logger.Error("Failed to create ledger session", "error", err)
		os.Exit(1)
	}

	loaded := session.Load(context.Background())
	logger.Info("Ledgers loaded",
		"backend", cfg.DataBackend,
		"tithes", loaded.Tithes.String(),
		"attendance", loaded.Attendance.String())

	// AMQP is optional; without it the mirror worker relies on its
	// periodic revision check.
	var publisher services.SavedPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client, saves will not be announced", "error", err)
		} else {
			publisher = client
			logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	caches := cache.NewManager()
	caches.StartCleanup(time.Minute)
	defer caches.Stop()

	svc := services.NewLedgerService(session, publisher, caches)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Service close error", "error", err)
		}
	}()

	srv := apphttp.NewServer(apphttp.Options{
		Addr:          ":" + cfg.Port,
		Year:          cfg.DashboardYear,
		AdminPassword: cfg.AdminPassword,
	}, svc, caches)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting radicais server",
		"port", cfg.Port,
		"year", cfg.DashboardYear,
		"backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
