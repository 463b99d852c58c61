package session

import (
	"log/slog"

	"github.com/robbyt/go-fsm"
)

// Lifecycle states of a session.
const (
	StateLoaded   = "loaded"   // built, never stepped
	StateRunning  = "running"  // Step or Run in progress
	StatePaused   = "paused"   // stopped at a break state or after Step
	StateLimited  = "limited"  // stopped by the step limit
	StateCanceled = "canceled" // stopped by the context
	StateHalted   = "halted"   // reached an end state (terminal)
	StateFailed   = "failed"   // no rule matched (terminal)
)

// Transitions lists the valid lifecycle transitions. Every stopped state
// can resume except halted and failed.
var Transitions = map[string][]string{
	StateLoaded:   {StateRunning, StateHalted},
	StateRunning:  {StatePaused, StateLimited, StateCanceled, StateHalted, StateFailed},
	StatePaused:   {StateRunning},
	StateLimited:  {StateRunning},
	StateCanceled: {StateRunning},
	StateHalted:   {},
	StateFailed:   {},
}

// lifecycle is the subset of the state machine a session drives.
type lifecycle interface {
	Transition(state string) error
	GetState() string
}

func newLifecycle(handler slog.Handler) (lifecycle, error) {
	return fsm.New(handler, StateLoaded, Transitions)
}
