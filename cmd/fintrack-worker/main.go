package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/sheets/memory"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

// mirror is what the worker needs from a ledger backend.
type mirror interface {
	sheets.LedgerMirror
	sheets.LedgerReader
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentWorker)
	logger.Info("Starting fintrack-worker", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.AMQPEnabled() {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	ledger := initMirror(startupCtx, logger, cfg)
	cancelStartup()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	store := cli.InitBackend(context.Background(), logger, cfg)
	syncWorker := worker.NewSyncWorker(ledger, ledger, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Error("Failed to close AMQP client", log.FieldError, err)
		}
		if err := store.Close(); err != nil {
			logger.Error("Failed to close backend", log.FieldError, err)
		}
	})

	// Catch up on anything recorded while the worker was down.
	if cfg.WorkerBackfill {
		backfill(ctx, logger, store.Gateway, syncWorker)
	}

	go func() {
		err := amqpClient.ConsumeTransactionRecorded(ctx, syncWorker.HandleTransactionRecorded)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}

func initMirror(ctx context.Context, logger *log.Logger, cfg *config.Config) mirror {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets disabled - mirroring to memory")
		return memory.New()
	}
	client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", log.FieldSheetsRef, cfg.GoogleSpreadsheetID)
	return client
}

func backfill(ctx context.Context, logger *log.Logger, gw storage.Gateway, w *worker.SyncWorker) {
	snap, err := gw.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Info("No snapshot stored yet, skipping backfill")
		return
	}
	if err != nil {
		logger.Error("Failed to load snapshot for backfill", log.FieldError, err)
		return
	}
	synced, err := w.Backfill(ctx, snap.Transactions)
	if err != nil {
		// Don't exit - live messages still flow
		logger.Error("Backfill incomplete", log.FieldError, err, "synced", synced)
		return
	}
	logger.Info("Backfill complete", "synced", synced, "ledger_size", len(snap.Transactions))
}
