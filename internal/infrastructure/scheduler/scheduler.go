// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appctx "bizdesk/internal/core/context"
	"bizdesk/pkg/logger"
)

// OverdueMarker moves pending invoices past their due date to overdue.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron    *cron.Cron
	overdue OverdueMarker
	log     *logger.Logger
	now     func() time.Time
}

// New creates a scheduler instance.
func New(overdue OverdueMarker, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		cron:    cron.New(),
		overdue: overdue,
		log:     log.WithComponent("scheduler"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start registers the jobs and starts the cron loop.
// spec is a standard cron expression or descriptor such as "@hourly".
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.sweepOverdue); err != nil {
		return fmt.Errorf("schedule overdue sweep %q: %w", spec, err)
	}
	s.log.Infow("starting scheduler", "overdue_spec", spec)
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.log.Infow("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sweepOverdue() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = appctx.System(ctx)
	ctx = logger.WithLogger(ctx, s.log)

	if _, err := s.RunOverdueSweep(ctx); err != nil {
		s.log.Errorw("overdue sweep failed", "error", err)
	}
}

// RunOverdueSweep runs the overdue job once.
func (s *Scheduler) RunOverdueSweep(ctx context.Context) (int, error) {
	n, err := s.overdue.MarkOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	s.log.Debugw("overdue sweep finished", "marked", n)
	return n, nil
}
