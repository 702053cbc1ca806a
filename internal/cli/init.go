// Package cli provides common initialization utilities shared by
// cmd/fintrack, cmd/fintrack-worker and cmd/fintrackctl.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/engine"
	"fintrack/internal/insights"
	"fintrack/internal/insights/gemini"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// SetupLogger initializes structured logging at the given LOG_LEVEL value.
// The logger is also installed as the slog default.
func SetupLogger(level string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentApp,
		Handler: slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: log.ParseLevel(level),
		}),
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitBackend creates the snapshot gateway selected by DATA_BACKEND.
// Returns the backend or exits the process on failure.
func InitBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.BackendResult {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend",
			log.FieldBackend, bcfg.Type.String(),
			log.FieldError, err)
		os.Exit(1)
	}
	return res
}

// InitPublisher connects to AMQP when AMQP_URL is set. A connection failure
// is logged and the application continues without events.
func InitPublisher(logger *log.Logger, cfg *config.Config) *amqp.Client {
	if !cfg.AMQPEnabled() {
		logger.Info("AMQP disabled - no AMQP_URL provided")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		return nil
	}
	logger.Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client
}

// InitGenerator returns the insights generator selected by INSIGHTS_PROVIDER.
// Gemini falls back to the static generator when the client cannot be built.
func InitGenerator(ctx context.Context, logger *log.Logger, cfg *config.Config) insights.Generator {
	if cfg.InsightsProvider != config.ProviderGemini {
		logger.Info("Using static insights generator", log.FieldProvider, config.ProviderStatic)
		return insights.StaticGenerator{}
	}
	g, err := gemini.New(ctx, cfg.GeminiModel, cfg.InsightsTimeout)
	if err != nil {
		logger.Warn("Failed to initialize Gemini, using static insights",
			log.FieldProvider, config.ProviderGemini,
			log.FieldError, err)
		return insights.StaticGenerator{}
	}
	logger.Info("Using Gemini insights generator",
		log.FieldProvider, config.ProviderGemini,
		"model", cfg.GeminiModel)
	return g
}

// OpenEngine loads the snapshot from gw and wires the optional publisher.
// Returns the engine or exits the process on failure.
func OpenEngine(ctx context.Context, logger *log.Logger, gw storage.Gateway, publisher *amqp.Client) *engine.Engine {
	opts := []engine.Option{engine.WithLogger(logger)}
	if publisher != nil {
		opts = append(opts, engine.WithPublisher(publisher))
	}
	eng, err := engine.Open(ctx, gw, opts...)
	if err != nil {
		logger.Error("Failed to open engine", log.FieldError, err)
		os.Exit(1)
	}
	return eng
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cleanupDone := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(cleanupDone)
		}()

		cancel()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-cleanupDone:
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
