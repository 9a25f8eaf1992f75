package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"finview/internal/amqp"
	"finview/internal/auth"
	"finview/internal/backend"
	"finview/internal/cli"
	apphttp "finview/internal/http"
	applog "finview/internal/log"
	"finview/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendConfig)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	var sessions auth.SessionProvider = auth.NewStub()
	if cfg.JWTSecret != "" {
		provider, err := auth.NewJWTProvider(cfg.JWTSecret)
		if err != nil {
			logger.Error("Failed to initialize JWT provider", applog.FieldError, err)
			os.Exit(1)
		}
		sessions = provider
	}
	identity, err := auth.NewResolver(auth.IdentityMode(cfg.IdentityMode), sessions)
	if err != nil {
		logger.Error("Failed to initialize identity resolver", applog.FieldError, err)
		os.Exit(1)
	}

	// AMQP is optional; without it conversations go to the backend only.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		publisher = client
		logger.Info("AMQP publishing enabled", "exchange", cfg.AMQPExchange)
	}

	conversations := services.NewConversationService(res.Backend, publisher)
	chat := services.NewChatService(res.Snapshots, conversations)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		Chat:               chat,
		Identity:           identity,
		Ready:              res.Health,
		CacheSize:          res.CacheSize,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		chat.Wait()
		if err := conversations.Close(); err != nil {
			logger.Error("Failed to close conversation publisher", applog.FieldError, err)
		}
		if err := res.Close(); err != nil {
			logger.Error("Failed to close backend", applog.FieldError, err)
		}
	})

	logger.Info("Starting FinView chat server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		applog.FieldIdentityMode, identity.Mode())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
