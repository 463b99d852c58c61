package machine

import (
	"fmt"
	"strings"
)

// Symbol is a tape symbol as it appears in a rule: either a concrete rune or
// the wildcard sentinel. The zero value is the real symbol for rune 0.
type Symbol struct {
	r    rune
	wild bool
}

// WildcardSymbol matches any symbol in a trigger and keeps the symbol just
// read when used in an action.
var WildcardSymbol = Symbol{wild: true}

// RealSymbol returns the concrete symbol for r.
func RealSymbol(r rune) Symbol {
	return Symbol{r: r}
}

// IsWildcard reports whether s is the wildcard sentinel.
func (s Symbol) IsWildcard() bool {
	return s.wild
}

// Rune returns the concrete rune. It is meaningless for the wildcard.
func (s Symbol) Rune() rune {
	return s.r
}

func (s Symbol) String() string {
	if s.wild {
		return "<any>"
	}
	return string(s.r)
}

// State is a machine state as it appears in a rule: either a concrete name or
// the wildcard sentinel.
type State struct {
	name string
	wild bool
}

// WildcardState keeps the current state when used in an action.
var WildcardState = State{wild: true}

// RealState returns the concrete state called name.
func RealState(name string) State {
	return State{name: name}
}

// IsWildcard reports whether s is the wildcard sentinel.
func (s State) IsWildcard() bool {
	return s.wild
}

// Name returns the concrete state name, or "" for the wildcard.
func (s State) Name() string {
	return s.name
}

func (s State) String() string {
	if s.wild {
		return "<same>"
	}
	return s.name
}

// Direction is the head movement of an action.
type Direction int8

const (
	Left  Direction = -1
	Stay  Direction = 0
	Right Direction = +1
)

// Offset returns the change of the head position.
func (d Direction) Offset() int {
	return int(d)
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "L"
	case Stay:
		return "*"
	case Right:
		return "R"
	default:
		return fmt.Sprintf("Direction(%d)", int8(d))
	}
}

// directionNames maps the program-text spelling to a direction, in display order.
var directionNames = []struct {
	name string
	dir  Direction
}{
	{"l", Left},
	{"*", Stay},
	{"r", Right},
}

// ParseDirection parses l, r or * case-insensitively.
func ParseDirection(s string) (Direction, bool) {
	lower := strings.ToLower(s)
	for _, d := range directionNames {
		if d.name == lower {
			return d.dir, true
		}
	}
	return Stay, false
}

// DirectionNames returns the accepted direction spellings, for error messages.
func DirectionNames() []string {
	names := make([]string, 0, len(directionNames))
	for _, d := range directionNames {
		names = append(names, d.name)
	}
	return names
}
