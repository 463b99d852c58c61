package machine

import (
	"errors"
	"fmt"
)

// ErrRuleNotFound is returned when neither an exact nor a wildcard rule matches
// the current state and symbol.
var ErrRuleNotFound = errors.New("rule not found")

// RuleNotFoundError carries the trigger that could not be resolved
type RuleNotFoundError struct {
	State  string
	Symbol rune
}

// Error implements the error interface
func (e *RuleNotFoundError) Error() string {
	return fmt.Sprintf("%s: state %q, symbol %q", ErrRuleNotFound, e.State, e.Symbol)
}

// Unwrap returns ErrRuleNotFound so callers can use errors.Is
func (e *RuleNotFoundError) Unwrap() error {
	return ErrRuleNotFound
}
