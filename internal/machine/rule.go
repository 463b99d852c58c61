package machine

import (
	"cmp"
	"fmt"
)

// Trigger selects a rule: the current state and the symbol under the head.
type Trigger struct {
	State  State
	Symbol Symbol
}

// Action is what a matched rule does: write Symbol, move in Direction, and
// switch to State.
type Action struct {
	State     State
	Symbol    Symbol
	Direction Direction
}

// Rule maps a Trigger to an Action.
type Rule struct {
	Trigger Trigger
	Action  Action
}

// NewRule builds a rule with its fields in program-text order.
func NewRule(
	currentState State,
	currentSymbol Symbol,
	newSymbol Symbol,
	direction Direction,
	newState State,
) Rule {
	return Rule{
		Trigger: Trigger{State: currentState, Symbol: currentSymbol},
		Action:  Action{State: newState, Symbol: newSymbol, Direction: direction},
	}
}

// resolve substitutes the wildcards of r against the concrete state and the
// symbol that was actually read. The result holds no wildcards.
func (r Rule) resolve(state string, read rune) Rule {
	trigger := Trigger{State: RealState(state), Symbol: RealSymbol(read)}

	action := r.Action
	if action.State.IsWildcard() {
		action.State = trigger.State
	}
	if action.Symbol.IsWildcard() {
		action.Symbol = trigger.Symbol
	}

	return Rule{Trigger: trigger, Action: action}
}

func (r Rule) String() string {
	return fmt.Sprintf(
		"%s %s -> %s %s %s",
		r.Trigger.State,
		r.Trigger.Symbol,
		r.Action.Symbol,
		r.Action.Direction,
		r.Action.State,
	)
}

// compareRules orders rules by state name, then symbol, wildcards last.
func compareRules(a, b Rule) int {
	if c := cmp.Compare(a.Trigger.State.name, b.Trigger.State.name); c != 0 {
		return c
	}
	if a.Trigger.Symbol.wild != b.Trigger.Symbol.wild {
		if a.Trigger.Symbol.wild {
			return 1
		}
		return -1
	}
	return cmp.Compare(a.Trigger.Symbol.r, b.Trigger.Symbol.r)
}
