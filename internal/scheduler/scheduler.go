// Package scheduler runs a backup on a cron schedule until its context is
// cancelled.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/thoreinstein/duplifolder/internal/errors"
)

// RunFunc performs one backup.
type RunFunc func(ctx context.Context) error

// Scheduler fires a RunFunc on a cron schedule. A firing that arrives while
// the previous run is still copying is skipped.
type Scheduler struct {
	spec     string
	schedule cron.Schedule
	run      RunFunc
	logger   *slog.Logger
	location *time.Location

	mu   sync.Mutex
	runs int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLocation sets the time zone the schedule is evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.location = loc
		}
	}
}

// parser accepts standard five-field specs and descriptors such as
// "@hourly" or "@every 30m".
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Parse validates a cron spec.
func Parse(spec string) (cron.Schedule, error) {
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "invalid schedule %q: %v", spec, err)
	}
	return sched, nil
}

// New validates spec and returns a Scheduler for run.
func New(spec string, run RunFunc, opts ...Option) (*Scheduler, error) {
	sched, err := Parse(spec)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		spec:     spec,
		schedule: sched,
		run:      run,
		logger:   slog.Default(),
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Next returns the first activation after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.location))
}

// Runs returns the number of completed runs, failed or not.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// Run blocks until ctx is cancelled, firing the backup on schedule. On
// cancellation it waits for an in-flight run to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	cl := cronLogger{s.logger}
	c := cron.New(
		cron.WithLocation(s.location),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.fire(ctx) }))

	c.Start()
	s.logger.Info("schedule started", "spec", s.spec, "next", s.Next(time.Now()).Format(time.RFC3339))

	<-ctx.Done()
	s.logger.Info("schedule stopping")
	<-c.Stop().Done()
	return nil
}

func (s *Scheduler) fire(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	err := s.run(ctx)

	s.mu.Lock()
	s.runs++
	s.mu.Unlock()

	switch {
	case err == nil:
		s.logger.Info("scheduled backup finished", "duration", time.Since(start).Round(time.Millisecond))
	case errors.Is(err, errors.ErrDestinationExists):
		s.logger.Info("scheduled backup skipped, a backup already exists for this minute")
	default:
		s.logger.Error("scheduled backup failed", "error", err)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
