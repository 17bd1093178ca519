package reminder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/flowdesk/internal/clock"
	"github.com/javiermolinar/flowdesk/internal/task"
)

// Service fetches reminder candidates and records responses.
type Service struct {
	repo  task.Repository
	clock clock.Clock
	log   zerolog.Logger
}

// NewService creates a reminder service.
func NewService(repo task.Repository, clk clock.Clock, log zerolog.Logger) *Service {
	return &Service{repo: repo, clock: clk, log: log}
}

// Due returns the owner's reminders that are due now.
func (s *Service) Due(ctx context.Context, owner string) ([]*task.Task, error) {
	candidates, err := s.repo.ListReminderCandidates(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listing reminder candidates: %w", err)
	}

	for _, t := range candidates {
		if _, _, err := t.LastReminderSent(); err != nil {
			s.log.Warn().Str("task", t.ID).Err(err).Msg("skipping task with malformed reminder timestamp")
		}
	}

	return DueReminders(candidates, s.clock.Now()), nil
}

// Respond records the answer to a reminder. A completed task becomes done;
// otherwise it moves to in progress and the repeat interval starts now.
func (s *Service) Respond(ctx context.Context, owner, id string, completed bool) (task.Status, error) {
	status := ResponseStatus(completed)
	if err := s.repo.RecordReminderResponse(ctx, owner, id, status, s.clock.Now()); err != nil {
		return "", fmt.Errorf("recording reminder response: %w", err)
	}
	s.log.Debug().Str("task", id).Str("status", string(status)).Msg("reminder answered")
	return status, nil
}
