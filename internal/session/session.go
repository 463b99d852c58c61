// Package session drives a machine step by step under a context. A session
// tracks the run lifecycle with a finite state machine and keeps a history
// of everything it logged so the shell can replay it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlanticdynamic/tms/internal/machine"
	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater"
	"github.com/robbyt/go-loglater/storage"
)

// Source describes where the machine of a session came from
type Source string

const (
	// SourceFile indicates a machine read from a program file
	SourceFile Source = "file"
	// SourceShell indicates a machine created by the interactive shell
	SourceShell Source = "shell"
	// SourceTest indicates a machine built by a test
	SourceTest Source = "test"
)

// Session runs one machine. It is not safe for concurrent use.
type Session struct {
	ID           uuid.UUID
	Source       Source
	SourceDetail string
	CreatedAt    time.Time

	machine *machine.Machine
	fsm     lifecycle

	logger       *slog.Logger
	logCollector *loglater.LogCollector

	// err is the rule lookup failure that moved the session to failed
	err error
}

// New starts a session for m. Log records go to handler and are kept for
// PlaybackLogs.
func New(m *machine.Machine, source Source, sourceDetail string, handler slog.Handler) (*Session, error) {
	if m == nil {
		return nil, ErrNilInput
	}
	if handler == nil {
		handler = slog.Default().Handler()
	}

	id := uuid.Must(uuid.NewV6())

	sm, err := newLifecycle(handler)
	if err != nil {
		return nil, fmt.Errorf("%s failed to create state machine: %w", id, err)
	}

	logCollector := loglater.NewLogCollector(handler)
	logger := slog.New(logCollector).With(
		"session", id,
		"source", source,
		"sourceDetail", sourceDetail)

	s := &Session{
		ID:           id,
		Source:       source,
		SourceDetail: sourceDetail,
		CreatedAt:    time.Now(),
		machine:      m,
		fsm:          sm,
		logger:       logger,
		logCollector: logCollector,
	}

	if m.IsHalted() {
		if err := s.fsm.Transition(StateHalted); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("Session created",
		"state", m.State(),
		"rules", len(m.Rules()),
		"lifecycle", s.GetState())
	return s, nil
}

// FromFile starts a session for a machine read from path.
func FromFile(path string, m *machine.Machine, handler slog.Handler) (*Session, error) {
	return New(m, SourceFile, path, handler)
}

// FromTest starts a session for a machine built by a test.
func FromTest(name string, m *machine.Machine, handler slog.Handler) (*Session, error) {
	return New(m, SourceTest, name, handler)
}

// Machine returns the machine driven by the session.
func (s *Session) Machine() *machine.Machine {
	return s.machine
}

// GetState returns the lifecycle state.
func (s *Session) GetState() string {
	return s.fsm.GetState()
}

// IsFinished reports whether the session can no longer make progress.
func (s *Session) IsFinished() bool {
	switch s.GetState() {
	case StateHalted, StateFailed:
		return true
	}
	return false
}

// Step applies up to n steps, ignoring break states. It stops early when the
// machine halts, no rule matches, or ctx is done.
func (s *Session) Step(ctx context.Context, n int) error {
	if err := s.begin(); err != nil {
		return err
	}

	start := s.machine.Steps()
	for range max(n, 1) {
		if err := ctx.Err(); err != nil {
			return s.cancel(err)
		}
		if err := s.step(); err != nil {
			return err
		}
		if s.machine.IsHalted() {
			return s.halt(start)
		}
	}

	return s.finish(StatePaused, "Stepped", start)
}

// Run steps the machine until it halts or reaches a break state, with the
// same do-while semantics as machine.Machine.Run. It also stops when ctx is
// done, or once maxSteps steps were applied by this call if maxSteps > 0.
func (s *Session) Run(ctx context.Context, maxSteps int) error {
	if err := s.begin(); err != nil {
		return err
	}

	start := s.machine.Steps()
	for {
		if err := ctx.Err(); err != nil {
			return s.cancel(err)
		}
		if maxSteps > 0 && s.machine.Steps()-start >= maxSteps {
			if err := s.finish(StateLimited, "Step limit reached", start); err != nil {
				return err
			}
			return fmt.Errorf("%w: %d steps", ErrStepLimit, maxSteps)
		}

		if err := s.step(); err != nil {
			return err
		}

		if s.machine.IsHalted() {
			return s.halt(start)
		}
		if s.machine.IsInterrupted() {
			return s.finish(StatePaused, "Break state reached", start)
		}
	}
}

// GetLogs returns every record the session logged.
func (s *Session) GetLogs() []storage.Record {
	return s.logCollector.GetLogs()
}

// PlaybackLogs replays every record the session logged to handler.
func (s *Session) PlaybackLogs(handler slog.Handler) error {
	return s.logCollector.PlayLogs(handler)
}

// GetTotalDuration returns the time since the session was created.
func (s *Session) GetTotalDuration() time.Duration {
	return time.Since(s.CreatedAt)
}

func (s *Session) begin() error {
	switch s.GetState() {
	case StateHalted:
		return ErrHalted
	case StateFailed:
		return s.err
	}

	if err := s.fsm.Transition(StateRunning); err != nil {
		s.logger.Error("Failed to transition to running state", "error", err)
		return err
	}
	return nil
}

func (s *Session) step() error {
	err := s.machine.Step()
	if err == nil {
		return nil
	}

	s.err = err
	if tErr := s.fsm.Transition(StateFailed); tErr != nil {
		return errors.Join(err, tErr)
	}

	var notFound *machine.RuleNotFoundError
	if errors.As(err, &notFound) {
		s.logger.Error("No rule matches",
			"state", notFound.State,
			"symbol", string(notFound.Symbol),
			"head", s.machine.Tape().Head(),
			"steps", s.machine.Steps())
	} else {
		s.logger.Error("Step failed", "error", err)
	}
	return err
}

func (s *Session) halt(start int) error {
	return s.finish(StateHalted, "Machine halted", start)
}

func (s *Session) cancel(cause error) error {
	if err := s.fsm.Transition(StateCanceled); err != nil {
		return errors.Join(cause, err)
	}
	s.logger.Warn("Run canceled", "steps", s.machine.Steps(), "error", cause)
	return fmt.Errorf("%w: %w", ErrCanceled, cause)
}

func (s *Session) finish(state, msg string, start int) error {
	if err := s.fsm.Transition(state); err != nil {
		s.logger.Error("Failed to transition", "to", state, "error", err)
		return err
	}

	s.logger.Info(msg,
		"state", s.machine.State(),
		"steps", s.machine.Steps(),
		"applied", s.machine.Steps()-start,
		"lifecycle", state)
	return nil
}
