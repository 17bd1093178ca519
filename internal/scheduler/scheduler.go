// Package scheduler runs the periodic reminder and automation jobs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of periodic work. The context is canceled when the
// scheduler stops.
type Job func(ctx context.Context)

// Scheduler wraps cron-based jobs. A job that is still running when its
// next tick arrives skips that tick.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler evaluating specs in loc.
func New(loc *time.Location, log zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	logger := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Cron registers job on a standard five-field cron spec or a descriptor
// such as "@hourly" or "@every 5m".
func (s *Scheduler) Cron(spec string, job Job) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() { job(s.ctx) })
	if err != nil {
		return 0, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return id, nil
}

// Every registers job to run once per interval.
func (s *Scheduler) Every(interval time.Duration, job Job) (cron.EntryID, error) {
	if interval < time.Second {
		return 0, errors.New("interval must be at least one second")
	}
	return s.Cron(fmt.Sprintf("@every %s", interval.Truncate(time.Second)), job)
}

// Next returns the next activation time of the entry, or the zero time if
// the scheduler is not running.
func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg("cron " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron " + msg)
}
