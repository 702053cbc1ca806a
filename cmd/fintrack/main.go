package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/cli"
	"fintrack/internal/engine"
	apphttp "fintrack/internal/http"
	"fintrack/internal/insights"
	"fintrack/internal/log"
	"fintrack/internal/statements"
)

// periodCheckInterval is how often the server checks for a month change.
const periodCheckInterval = time.Hour

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close backend", log.FieldError, err)
		}
	}()

	publisher := cli.InitPublisher(logger, cfg)
	if publisher != nil {
		defer publisher.Close()
	}

	eng := cli.OpenEngine(ctx, logger, store.Gateway, publisher)
	cache := insights.NewCache(eng, cli.InitGenerator(ctx, logger, cfg),
		insights.WithTTL(cfg.InsightsTTL),
		insights.WithLogger(logger))

	books := statements.NewService(eng, statements.WithLogger(logger))

	srv := apphttp.NewServer(":"+cfg.Port, eng, cache, logger, apphttp.WithStatements(books))

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = cfg.InsightsTimeout + 10*time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting fintrack server", "port", cfg.Port, log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		rollPeriods(gctx, logger, eng)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// rollPeriods rebuilds the chart skeletons at startup when the stored
// series belong to another month, then whenever the month changes.
func rollPeriods(ctx context.Context, logger *log.Logger, eng *engine.Engine) {
	roll := func(now time.Time) {
		if _, err := eng.RollIfStale(ctx, now); err != nil {
			logger.Error("Failed to roll chart periods", log.FieldError, err)
		}
	}
	roll(time.Now())

	ticker := time.NewTicker(periodCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			roll(now)
		}
	}
}
