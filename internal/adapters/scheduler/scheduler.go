package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/viralforge/forensics-engine/internal/application"
)

// Sweeper is anything that can reclaim expired state between requests.
type Sweeper interface {
	Sweep() int
}

// Scheduler runs the engine's background maintenance: pricing-model
// recalibration and rate-limiter window sweeps.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), logger: logger}
}

// AddRecalibration schedules a pricing-model refit. spec accepts standard
// cron expressions and descriptors like "@hourly".
func (s *Scheduler) AddRecalibration(spec string, svc *application.Service) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := svc.RecalibratePricing(context.Background()); err != nil {
			s.logger.Error("pricing recalibration failed",
				"operation", "pricing_recalibration",
				"outcome", "failure",
				"error", err.Error(),
			)
		}
	})
	return err
}

// AddSweep schedules expired-window cleanup for an in-memory limiter.
func (s *Scheduler) AddSweep(spec string, sweeper Sweeper) error {
	_, err := s.cron.AddFunc(spec, func() {
		removed := sweeper.Sweep()
		if removed > 0 {
			s.logger.Info("rate limit windows swept",
				"operation", "rate_limit_sweep",
				"outcome", "success",
				"removed", removed,
			)
		}
	})
	return err
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
