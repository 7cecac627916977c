// Package worker provides a small ticker loop for periodic background work
// with context cancellation.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Config configures the loop.
type Config struct {
	// Name identifies the worker for logging.
	Name string

	// Interval is the time between runs.
	Interval time.Duration

	// Run does the work. Errors are logged; the loop keeps going.
	Run func(ctx context.Context) error

	// RunOnStart triggers one run immediately before the first tick.
	RunOnStart bool

	// Logger for the worker.
	Logger *zerolog.Logger
}

// Loop runs the periodic task until the context is cancelled. Returns
// ctx.Err() on cancellation.
func Loop(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	logger.Info().Str("worker", cfg.Name).Dur("interval", cfg.Interval).Msg("worker starting")

	if cfg.RunOnStart {
		if err := cfg.Run(ctx); err != nil {
			logger.Error().Err(err).Str("worker", cfg.Name).Msg("worker run failed")
		}
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Str("worker", cfg.Name).Msg("worker stopping")

			return ctx.Err()
		case <-ticker.C:
			if err := cfg.Run(ctx); err != nil {
				logger.Error().Err(err).Str("worker", cfg.Name).Msg("worker run failed")
			}
		}
	}
}
