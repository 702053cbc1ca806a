package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/engine"
	"fintrack/internal/log"
	"fintrack/internal/render"
)

// session is an opened engine plus whatever must be closed afterwards.
type session struct {
	cfg    *config.Config
	logger *log.Logger
	engine *engine.Engine
	store  *backend.BackendResult
	closer func() error
}

// openSession loads configuration and the stored snapshot. Logs go to
// stderr so command output stays pipeable.
func openSession(ctx context.Context) *session {
	cli.LoadEnvFile()
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentCLI,
		Handler:   slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: log.ParseLevel(level)}),
	})

	cfg := cli.LoadAndValidateConfig(logger)
	store := cli.InitBackend(ctx, logger, cfg)
	publisher := cli.InitPublisher(logger, cfg)

	s := &session{cfg: cfg, logger: logger, store: store}
	if publisher != nil {
		s.closer = publisher.Close
	}
	s.engine = cli.OpenEngine(ctx, logger, store.Gateway, publisher)
	return s
}

func (s *session) Close() {
	if s.closer != nil {
		if err := s.closer(); err != nil {
			s.logger.Warn("Failed to close publisher", log.FieldError, err)
		}
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("Failed to close backend", log.FieldError, err)
	}
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md, style string, width int) {
	out, err := render.Terminal(md, style, width)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
