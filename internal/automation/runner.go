// Package automation fires due automations and creates new ones from
// free-text descriptions.
package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/javiermolinar/flowdesk/internal/clock"
	"github.com/javiermolinar/flowdesk/internal/mailer"
	"github.com/javiermolinar/flowdesk/internal/recurrence"
	"github.com/javiermolinar/flowdesk/internal/task"
)

// ErrMalformedRule is reported for a due task whose stored rule could not be read.
var ErrMalformedRule = errors.New("automation rule could not be decoded")

// DefaultConcurrency is the number of automations fired at once.
const DefaultConcurrency = 4

// Store is the storage the runner needs.
type Store interface {
	// ListDueAutomations returns not-done tasks with an automation whose
	// next run is at or before now.
	ListDueAutomations(ctx context.Context, now time.Time) ([]*task.Task, error)

	// SetNextRun stores the next scheduled run of a task.
	SetNextRun(ctx context.Context, id string, next time.Time) error

	// OwnerEmail returns the owner's email address, or "" if none is known.
	OwnerEmail(ctx context.Context, owner string) (string, error)
}

// ItemError is the failure of one automation in a sweep.
type ItemError struct {
	TaskID string
	Err    error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("task %s: %v", e.TaskID, e.Err)
}

func (e ItemError) Unwrap() error {
	return e.Err
}

// Report summarizes a sweep.
type Report struct {
	Processed int
	Total     int
	Errors    []ItemError
}

// Runner fires due automations.
type Runner struct {
	store       Store
	mail        mailer.Sender
	clock       clock.Clock
	log         zerolog.Logger
	concurrency int
}

// NewRunner creates a runner. A concurrency below one uses DefaultConcurrency.
func NewRunner(store Store, mail mailer.Sender, clk clock.Clock, log zerolog.Logger, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Runner{store: store, mail: mail, clock: clk, log: log, concurrency: concurrency}
}

// Sweep fires every due automation. A failing automation is reported and
// keeps its next run, so it is retried by the next sweep; the others still
// advance. The returned error is only set when the due list cannot be read.
func (r *Runner) Sweep(ctx context.Context) (Report, error) {
	due, err := r.store.ListDueAutomations(ctx, r.clock.Now())
	if err != nil {
		return Report{}, fmt.Errorf("listing due automations: %w", err)
	}

	results := make([]error, len(due))
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, t := range due {
		g.Go(func() error {
			results[i] = r.fire(ctx, t)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Total: len(due)}
	for i, err := range results {
		if err == nil {
			report.Processed++
			continue
		}
		r.log.Error().Str("task", due[i].ID).Err(err).Msg("automation failed")
		report.Errors = append(report.Errors, ItemError{TaskID: due[i].ID, Err: err})
	}
	return report, nil
}

// fire sends the automation's email, if any, and advances its next run.
func (r *Runner) fire(ctx context.Context, t *task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rule := t.Automation
	if rule == nil {
		return ErrMalformedRule
	}

	if rule.SendsEmail() {
		to, err := r.store.OwnerEmail(ctx, t.Owner)
		if err != nil {
			return fmt.Errorf("looking up owner email: %w", err)
		}
		if to == "" {
			r.log.Debug().Str("task", t.ID).Str("owner", t.Owner).Msg("owner has no email, skipping delivery")
		} else if err := r.mail.Send(ctx, mailer.Message{To: to, Subject: rule.EmailSubject, HTML: rule.EmailBody}); err != nil {
			return fmt.Errorf("sending email: %w", err)
		}
	}

	next, freq := recurrence.NextRun(rule.Frequency, r.clock.Now())
	if !freq.Recognized {
		r.log.Warn().Str("task", t.ID).Str("frequency", rule.Frequency).Msg("frequency not recognized, defaulted to daily")
	}
	if err := r.store.SetNextRun(ctx, t.ID, next); err != nil {
		return fmt.Errorf("updating next run: %w", err)
	}
	r.log.Info().Str("task", t.ID).Time("next_run", next).Msg("automation fired")
	return nil
}
