package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/go-data-exporter/excel/internal/config"
)

// RunFunc exports one job and returns where it was written.
type RunFunc func(ctx context.Context, job config.JobConfig) (string, error)

// Scheduler runs the jobs that carry a cron schedule.
type Scheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	run    RunFunc
	logger *slog.Logger
}

func NewScheduler(run RunFunc, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		run:    run,
		logger: logger.With("component", "scheduler"),
	}
}

// Start schedules jobs, replacing whatever was scheduled before. It returns
// the number of scheduled jobs. The scheduler stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, jobs []config.JobConfig) (int, error) {
	c := cron.New()
	for _, job := range jobs {
		if job.Schedule == "" {
			continue
		}
		if _, err := c.AddFunc(job.Schedule, func() { s.runJob(ctx, job) }); err != nil {
			return 0, fmt.Errorf("scheduler: job %q: invalid schedule %q: %w", job.Name, job.Schedule, err)
		}
	}

	s.mu.Lock()
	old := s.cron
	s.cron = c
	s.mu.Unlock()
	if old != nil {
		<-old.Stop().Done()
	}
	c.Start()

	n := len(c.Entries())
	s.logger.Info("scheduler started", slog.Int("jobs", n))
	if old == nil {
		go func() {
			<-ctx.Done()
			s.Stop()
		}()
	}
	return n, nil
}

func (s *Scheduler) runJob(ctx context.Context, job config.JobConfig) {
	start := time.Now()
	target, err := s.run(ctx, job)
	if err != nil {
		s.logger.Error("scheduled export failed", slog.String("job", job.Name), slog.Any("error", err))
		return
	}
	s.logger.Info("scheduled export completed",
		slog.String("job", job.Name),
		slog.String("target", target),
		slog.Duration("elapsed", time.Since(start)),
	)
}

// Stop waits for running exports and unschedules every job.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
		s.logger.Info("scheduler stopped")
	}
}

// NextRuns maps each scheduled entry to its next activation.
func (s *Scheduler) NextRuns() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return nil
	}
	var next []time.Time
	for _, e := range s.cron.Entries() {
		next = append(next, e.Next)
	}
	return next
}
