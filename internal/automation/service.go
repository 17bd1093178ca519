package automation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/flowdesk/internal/clock"
	"github.com/javiermolinar/flowdesk/internal/llm"
	"github.com/javiermolinar/flowdesk/internal/recurrence"
	"github.com/javiermolinar/flowdesk/internal/task"
)

// ErrEmptyDescription is returned when there is nothing to automate.
var ErrEmptyDescription = errors.New("description cannot be empty")

// Service creates automations from free text.
type Service struct {
	repo  task.Repository
	llm   llm.Client
	clock clock.Clock
	log   zerolog.Logger
}

// NewService creates an automation service.
func NewService(repo task.Repository, client llm.Client, clk clock.Clock, log zerolog.Logger) *Service {
	return &Service{repo: repo, llm: client, clock: clk, log: log}
}

// Proposal is an automation rule the model derived from a description,
// with the first run it would get. Nothing is stored yet.
type Proposal struct {
	Rule      task.AutomationRule
	Frequency recurrence.Frequency
	NextRun   time.Time
}

// Created is the result of Create.
type Created struct {
	Task      *task.Task
	Frequency recurrence.Frequency
}

// Propose asks the model to turn description into an automation rule.
func (s *Service) Propose(ctx context.Context, description string) (Proposal, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Proposal{}, ErrEmptyDescription
	}

	rule, err := llm.ParseAutomation(ctx, s.llm, description)
	if err != nil {
		return Proposal{}, err
	}

	next, freq := recurrence.NextRun(rule.Frequency, s.clock.Now())
	return Proposal{Rule: rule, Frequency: freq, NextRun: next}, nil
}

// Save stores a todo task carrying the proposed rule.
func (s *Service) Save(ctx context.Context, owner string, p Proposal) (Created, error) {
	t, err := task.NewAutomation(owner, p.Rule, p.NextRun)
	if err != nil {
		return Created{}, err
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		return Created{}, fmt.Errorf("creating automation task: %w", err)
	}

	if !p.Frequency.Recognized {
		s.log.Warn().Str("task", t.ID).Str("frequency", p.Rule.Frequency).Msg("frequency not recognized, defaulted to daily")
	}
	return Created{Task: t, Frequency: p.Frequency}, nil
}

// Create turns description into an automation rule and stores a todo task
// carrying it, with its first run seeded from now.
func (s *Service) Create(ctx context.Context, owner, description string) (Created, error) {
	p, err := s.Propose(ctx, description)
	if err != nil {
		return Created{}, err
	}
	return s.Save(ctx, owner, p)
}
