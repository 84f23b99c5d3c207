// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/flashdeck/internal/command"
	"github.com/starford/flashdeck/internal/deckservice"
	"github.com/starford/flashdeck/internal/seed"
	"github.com/starford/flashdeck/internal/store"
)

// Run opens the database, seeds it on first start and then serves deck
// commands until the input stream closes or a shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		version:   "dev",
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		logOutput: os.Stderr,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Stdout carries the command protocol, so logs go elsewhere.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.Int("max_open_conns", cfg.Database.MaxOpenConns),
		slog.Bool("seed_enabled", cfg.Seed.Enabled),
		slog.String("seed_file", cfg.Seed.File),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, err := store.Open(cfg.Database.URL, logger)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// Seeding must finish before any command is read.
	if cfg.Seed.Enabled {
		baseline, err := seed.Load(cfg.Seed.File)
		if err != nil {
			return fmt.Errorf("load baseline: %w", err)
		}
		if err := seed.Run(ctx, db, baseline, logger); err != nil {
			return err
		}
	}

	svc := deckservice.NewService(db, logger)
	srv := command.New(svc, logger, app.version)

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	g, gCtx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer stop()
		logger.Info("Command server listening on stdio", slog.String("version", app.version))
		err := srv.Serve(gCtx, app.stdin, app.stdout)
		if err == nil || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			logger.Info("Command stream closed")
			return nil
		}
		return fmt.Errorf("command server: %w", err)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			stop()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Stopped")
	return nil
}
