// Package machine implements a single-tape Turing machine: the tape, the rule
// table with wildcard resolution, and the step/run execution engine.
package machine

import (
	"maps"
	"slices"
)

// Machine executes a fixed rule table against a tape it owns exclusively.
// It is not safe for concurrent use.
type Machine struct {
	tape  *Tape
	rules map[Trigger]Rule

	state string
	steps int

	endStates   map[string]struct{}
	breakStates map[string]struct{}
	whitespace  rune

	allStates []string
}

func newMachine(
	rules []Rule,
	initialState string,
	endStates []string,
	whitespace rune,
	headPosition int,
	tape string,
) *Machine {
	m := &Machine{
		tape:        NewTape(whitespace, headPosition, tape),
		rules:       make(map[Trigger]Rule, len(rules)),
		state:       initialState,
		endStates:   make(map[string]struct{}, len(endStates)),
		breakStates: make(map[string]struct{}),
		whitespace:  whitespace,
	}

	states := make(map[string]struct{})
	for _, rule := range rules {
		// last definition of a trigger wins
		m.rules[rule.Trigger] = rule

		for _, s := range []State{rule.Trigger.State, rule.Action.State} {
			if !s.IsWildcard() {
				states[s.Name()] = struct{}{}
			}
		}
	}
	m.allStates = slices.Sorted(maps.Keys(states))

	for _, s := range endStates {
		m.endStates[s] = struct{}{}
	}

	return m
}

// Tape returns the tape of the machine. Callers must treat it as read-only.
func (m *Machine) Tape() *Tape {
	return m.tape
}

// State returns the current state.
func (m *Machine) State() string {
	return m.state
}

// Steps returns the number of steps executed so far.
func (m *Machine) Steps() int {
	return m.steps
}

// Whitespace returns the blank symbol.
func (m *Machine) Whitespace() rune {
	return m.whitespace
}

// AllStates returns every concrete state named by a rule, sorted.
func (m *Machine) AllStates() []string {
	return slices.Clone(m.allStates)
}

// EndStates returns the halting states, sorted.
func (m *Machine) EndStates() []string {
	return slices.Sorted(maps.Keys(m.endStates))
}

// BreakStates returns the states that pause Run, sorted.
func (m *Machine) BreakStates() []string {
	return slices.Sorted(maps.Keys(m.breakStates))
}

// AddBreakStates makes Run pause after reaching any of states.
func (m *Machine) AddBreakStates(states ...string) {
	for _, s := range states {
		m.breakStates[s] = struct{}{}
	}
}

// RemoveBreakStates undoes AddBreakStates for the given states.
func (m *Machine) RemoveBreakStates(states ...string) {
	for _, s := range states {
		delete(m.breakStates, s)
	}
}

// ClearBreakStates removes every break state.
func (m *Machine) ClearBreakStates() {
	clear(m.breakStates)
}

// Rules returns the rule table ordered by state and symbol.
func (m *Machine) Rules() []Rule {
	return slices.SortedFunc(maps.Values(m.rules), compareRules)
}

// IsHalted reports whether the machine reached one of its end states.
func (m *Machine) IsHalted() bool {
	_, ok := m.endStates[m.state]
	return ok
}

// IsInterrupted reports whether the machine is at one of its break states.
func (m *Machine) IsInterrupted() bool {
	_, ok := m.breakStates[m.state]
	return ok
}

// NextRule returns the rule the next step would apply, with wildcards
// resolved against the current state and the symbol under the head. An exact
// trigger match takes precedence over a wildcard-symbol match.
func (m *Machine) NextRule() (Rule, error) {
	read := m.tape.Read()
	state := RealState(m.state)

	rule, ok := m.rules[Trigger{State: state, Symbol: RealSymbol(read)}]
	if !ok {
		rule, ok = m.rules[Trigger{State: state, Symbol: WildcardSymbol}]
	}
	if !ok {
		return Rule{}, &RuleNotFoundError{State: m.state, Symbol: read}
	}

	return rule.resolve(m.state, read), nil
}

// Step executes a single step. A halted machine is left untouched. If no rule
// matches, the machine is left untouched and a *RuleNotFoundError is returned.
func (m *Machine) Step() error {
	if m.IsHalted() {
		return nil
	}

	rule, err := m.NextRule()
	if err != nil {
		return err
	}

	m.tape.Write(rule.Action.Symbol.Rune())
	m.tape.Move(rule.Action.Direction)
	m.state = rule.Action.State.Name()
	m.steps++

	return nil
}

// Run executes steps until the machine halts or reaches a break state.
//
// Break states are only checked after a step, so Run always executes at least
// one step, even when called while the machine sits at a break state. Run
// does not return for a machine that never halts; callers that need to stop
// it should drive Step themselves.
func (m *Machine) Run() error {
	for {
		if err := m.Step(); err != nil {
			return err
		}
		if m.IsHalted() || m.IsInterrupted() {
			return nil
		}
	}
}
