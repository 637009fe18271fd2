package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"radicais/internal/amqp"
	"radicais/internal/cli"
	gsheet "radicais/internal/sheets/google"
	"radicais/internal/worker"
)

// radicais-worker mirrors the SQLite ledger snapshots to Google Sheets.
// It reacts to saved messages from the dashboard and runs a periodic
// revision check to recover anything a lost message left behind.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting radicais-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the mirror worker")
		os.Exit(1)
	}
	sheetsClient, err := gsheet.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	mirror := worker.NewMirrorWorker(sqliteRepo, sheetsClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catch up on anything saved while the worker was down.
	logger.Info("Performing startup mirror check...")
	if err := mirror.StartupMirrorCheck(ctx); err != nil {
		logger.Error("Startup mirror check failed", "error", err)
		// Keep running; the periodic check retries.
	}

	// AMQP consumption is optional. Without a broker the worker falls
	// back to polling the stored revision.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client, falling back to periodic checks", "error", err)
		} else {
			defer amqpClient.Close()
			go func() {
				if err := amqpClient.ConsumeLedgerSaved(ctx, func(msg *amqp.LedgerSavedMessage) error {
					return mirror.HandleSavedMessage(ctx, msg)
				}); err != nil && err != context.Canceled {
					logger.Error("Message consumption failed", "error", err)
					cancel()
				}
			}()
			logger.Info("Consuming ledger saved messages", "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - relying on periodic mirror checks")
	}

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := mirror.PeriodicMirrorCheck(ctx); err != nil {
					logger.Error("Periodic mirror check failed", "error", err)
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down worker...")
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
