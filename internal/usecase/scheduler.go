package usecase

import (
	"context"
	"log/slog"
	"time"

	"AutoPress/internal/config"
)

// Driver controls when recurring pipeline runs execute.
type Driver interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// Scheduler wires the interval driver with the pipeline use case.
type Scheduler struct {
	driver   Driver
	pipeline *Pipeline
	brands   []config.BrandConfig
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver Driver, pipeline *Pipeline, brands []config.BrandConfig, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, brands: brands, logger: logger}
}

// Start registers the pipeline with the provided driver. Scheduled runs use
// the configured engine preference; there is no override path here.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		report, err := s.pipeline.Run(ctx, s.brands, "")
		if err != nil {
			if s.logger != nil {
				s.logger.Error("scheduled run aborted", "error", err)
			}
			return
		}
		if s.logger != nil {
			s.logger.Info("scheduled run finished",
				"engine", report.Engine,
				"brands", len(report.Outcomes),
				"elapsed", report.Elapsed)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
