package main

import (
	"context"
	"errors"
	"os"
	"time"

	"finview/internal/amqp"
	"finview/internal/cli"
	"finview/internal/finance/google"
	applog "finview/internal/log"
	"finview/internal/services"
	"finview/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	logger.Info("Starting finview-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	// Consumed logs are persisted to SQLite whatever DATA_BACKEND says.
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	var mirror *services.MirrorProcessor
	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := google.NewFromEnv(context.Background(), google.Options{
			SpreadsheetID:     cfg.GoogleSpreadsheetID,
			SnapshotSheet:     cfg.GoogleSnapshotSheet,
			ConversationSheet: cfg.GoogleConversationSheet,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		mirror = services.NewMirrorProcessor(repo, sheets, services.MirrorProcessorConfig{
			PollInterval: cfg.MirrorInterval,
			BatchSize:    cfg.MirrorBatchSize,
		})
		logger.Info("Google Sheets mirroring enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets mirroring disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if mirror != nil {
			if err := mirror.Stop(ctx); err != nil {
				logger.Error("Failed to stop mirror processor", applog.FieldError, err)
			}
		}
	})

	if mirror != nil {
		if err := mirror.Start(ctx); err != nil {
			logger.Error("Failed to start mirror processor", applog.FieldError, err)
			os.Exit(1)
		}
	}

	handler := worker.NewConversationLogWorker(repo)
	go func() {
		err := amqpClient.ConsumeConversationLogs(ctx, handler.HandleMessage)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", applog.FieldError, err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
