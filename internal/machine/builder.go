package machine

// Defaults applied by New for every field left unset in Config.
const (
	DefaultTape         = ""
	DefaultHeadPosition = 0
	DefaultInitialState = "0"
	DefaultWhitespace   = '_'
)

// DefaultEndStates returns the end states used when Config.EndStates is empty.
func DefaultEndStates() []string {
	return []string{"halt", "H"}
}

// Config describes a machine to build. Every field is optional; nil or empty
// fields fall back to the Default* values.
type Config struct {
	// Tape is the initial tape content, laid out from position 0.
	Tape *string

	// HeadPosition is the initial head position.
	HeadPosition *int

	// Rules is the program. A later rule replaces an earlier one with the
	// same trigger.
	Rules []Rule

	// InitialState is the state the machine starts in.
	InitialState *string

	// EndStates are the states at which the machine halts.
	EndStates []string

	// Whitespace is the blank symbol.
	Whitespace *rune
}

// New builds a Machine from cfg. It never fails.
func New(cfg Config) *Machine {
	tape := DefaultTape
	if cfg.Tape != nil {
		tape = *cfg.Tape
	}

	head := DefaultHeadPosition
	if cfg.HeadPosition != nil {
		head = *cfg.HeadPosition
	}

	initialState := DefaultInitialState
	if cfg.InitialState != nil {
		initialState = *cfg.InitialState
	}

	endStates := cfg.EndStates
	if len(endStates) == 0 {
		endStates = DefaultEndStates()
	}

	var whitespace rune = DefaultWhitespace
	if cfg.Whitespace != nil {
		whitespace = *cfg.Whitespace
	}

	return newMachine(cfg.Rules, initialState, endStates, whitespace, head, tape)
}
