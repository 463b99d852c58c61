// Package reader parses the textual program format into a machine
// configuration, collecting compiler-style diagnostics for every malformed
// line instead of stopping at the first one.
package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/atlanticdynamic/tms/internal/machine"
)

// DefaultWildcard is the wildcard character used when the program sets none.
const DefaultWildcard = '*'

// Keywords of the program format. A line starting with any other token is a
// rule without the RULE keyword.
const (
	KeywordTape       = "TAPE"
	KeywordHead       = "HEAD"
	KeywordState      = "STATE"
	KeywordHalt       = "HALT"
	KeywordWildcard   = "WILDCARD"
	KeywordWhitespace = "WHITESPACE"
	KeywordRule       = "RULE"
)

// ruleLine is a validated rule whose wildcard characters are resolved only
// when the configuration is produced, since WILDCARD may come later in the file.
type ruleLine struct {
	lineNo        int
	currentState  string
	currentSymbol rune
	newSymbol     rune
	direction     machine.Direction
	newState      string
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Reader reads one program. Use it once, check Success, then build the
// machine and discard it.
type Reader struct {
	path   string
	logger *slog.Logger

	// overrides, nil when the program does not set them
	tape         *string
	headPosition *int
	initialState *string
	endStates    []string
	wildcard     *rune
	whitespace   *rune

	rules       []ruleLine
	diagnostics []Diagnostic

	// line being processed
	line   string
	lineNo int
	tokens []token
}

// New creates a Reader for the program at path.
func New(path string, opts ...Option) *Reader {
	r := &Reader{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the program path.
func (r *Reader) Path() string {
	return r.path
}

// Read opens the program file and processes every line of it. A file that
// cannot be opened yields a single diagnostic.
func (r *Reader) Read() {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.addSourceError(fmt.Sprintf("no such file or directory: %q", r.path))
		} else {
			r.addSourceError(fmt.Sprintf("cannot read file: %v", err))
		}
		return
	}
	defer func() { _ = f.Close() }()

	r.ReadSource(f)
}

// ReadSource processes every line of src as the content of the program file.
func (r *Reader) ReadSource(src io.Reader) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		r.parseLine(lineNo, strings.TrimSuffix(scanner.Text(), "\r"))
	}

	if err := scanner.Err(); err != nil {
		r.addSourceError(fmt.Sprintf("cannot read file: %v", err))
	}

	r.logger.Debug("Program read",
		"path", r.path,
		"lines", lineNo,
		"rules", len(r.rules),
		"diagnostics", len(r.diagnostics))
}

// Diagnostics returns every problem found, in line order.
func (r *Reader) Diagnostics() []Diagnostic {
	return r.diagnostics
}

// Success reports whether the program was read without any diagnostic.
func (r *Reader) Success() bool {
	return len(r.diagnostics) == 0
}

// Err joins every diagnostic into a single error, or returns nil on success.
func (r *Reader) Err() error {
	errs := make([]error, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		errs = append(errs, d)
	}
	return errors.Join(errs...)
}

// Config returns the machine configuration described by the program. Fields
// the program does not set are left nil so the machine defaults apply.
func (r *Reader) Config() machine.Config {
	wildcard := rune(DefaultWildcard)
	if r.wildcard != nil {
		wildcard = *r.wildcard
	}

	symbol := func(c rune) machine.Symbol {
		if c == wildcard {
			return machine.WildcardSymbol
		}
		return machine.RealSymbol(c)
	}
	state := func(name string) machine.State {
		if name == string(wildcard) {
			return machine.WildcardState
		}
		return machine.RealState(name)
	}

	rules := make([]machine.Rule, 0, len(r.rules))
	defined := make(map[machine.Trigger]int, len(r.rules))
	for _, line := range r.rules {
		rule := machine.NewRule(
			machine.RealState(line.currentState),
			symbol(line.currentSymbol),
			symbol(line.newSymbol),
			line.direction,
			state(line.newState),
		)

		if prev, ok := defined[rule.Trigger]; ok {
			r.logger.Debug("Rule overrides an earlier definition",
				"path", r.path,
				"line", line.lineNo,
				"previous", prev,
				"trigger", rule.Trigger)
		}
		defined[rule.Trigger] = line.lineNo

		rules = append(rules, rule)
	}

	return machine.Config{
		Tape:         r.tape,
		HeadPosition: r.headPosition,
		Rules:        rules,
		InitialState: r.initialState,
		EndStates:    r.endStates,
		Whitespace:   r.whitespace,
	}
}

// BuildMachine builds the machine described by the program, or a default
// machine if the program has diagnostics.
func (r *Reader) BuildMachine() *machine.Machine {
	if !r.Success() {
		return machine.New(machine.Config{})
	}
	return machine.New(r.Config())
}

func (r *Reader) parseLine(lineNo int, line string) {
	r.line = line
	r.lineNo = lineNo
	r.tokens = tokenize(stripComment([]rune(line)))

	if len(r.tokens) == 0 {
		return
	}

	switch r.tokens[0].value {
	case KeywordTape:
		r.processTape()
	case KeywordHead:
		r.processHead()
	case KeywordState:
		r.processState()
	case KeywordHalt:
		r.processHalt()
	case KeywordWildcard:
		if c := r.processCharacter("wildcard"); c != nil {
			r.wildcard = c
		}
	case KeywordWhitespace:
		if c := r.processCharacter("whitespace"); c != nil {
			r.whitespace = c
		}
	case KeywordRule:
		r.processRule(1)
	default:
		r.processRule(0)
	}
}

func (r *Reader) addSourceError(message string) {
	r.diagnostics = append(r.diagnostics, Diagnostic{
		Path:    r.path,
		Message: message,
	})
}

func (r *Reader) addSyntaxError(start, end int, message, note string) {
	r.diagnostics = append(r.diagnostics, Diagnostic{
		Path:    r.path,
		Line:    r.line,
		LineNo:  r.lineNo,
		Start:   start,
		End:     end,
		Message: message,
		Note:    note,
	})
}

// checkMissingArgs reports a keyword given without any argument. The
// diagnostic points one column past the keyword, where the argument belongs.
func (r *Reader) checkMissingArgs(argNames, note string) bool {
	if len(r.tokens) > 1 {
		return true
	}

	at := r.tokens[0].end + 1
	r.addSyntaxError(at, at, "missing "+argNames, note)
	return false
}

// checkSingleArg reports a keyword that does not have exactly one argument.
func (r *Reader) checkSingleArg(argName, note string) bool {
	if !r.checkMissingArgs(argName, note) {
		return false
	}

	if len(r.tokens) != 2 {
		last := r.tokens[len(r.tokens)-1]
		r.addSyntaxError(r.tokens[2].start, last.end, "extra arguments", note)
		return false
	}

	return true
}

func (r *Reader) processTape() {
	if !r.checkSingleArg("tape", "to specify an empty tape, just don't use the TAPE keyword") {
		return
	}

	tape := r.tokens[1].value
	r.tape = &tape
}

func (r *Reader) processHead() {
	if !r.checkSingleArg("head position", "") {
		return
	}

	tok := r.tokens[1]
	head, err := strconv.Atoi(tok.value)
	if err != nil {
		r.addSyntaxError(tok.start, tok.end, "the position of the head must be an integer", "")
		return
	}
	r.headPosition = &head
}

func (r *Reader) processState() {
	if !r.checkSingleArg("state", "") {
		return
	}

	state := r.tokens[1].value
	r.initialState = &state
}

func (r *Reader) processHalt() {
	if !r.checkMissingArgs("halt states", "") {
		return
	}

	for _, tok := range r.tokens[1:] {
		r.endStates = append(r.endStates, tok.value)
	}
}

// processCharacter parses the single-character argument of WILDCARD or
// WHITESPACE. It returns nil when the line is malformed.
func (r *Reader) processCharacter(name string) *rune {
	if !r.checkSingleArg(name, "") {
		return nil
	}

	tok := r.tokens[1]
	c, ok := singleRune(tok.value)
	if !ok {
		r.addSyntaxError(tok.start, tok.end, name+" should be a single character", "")
		return nil
	}
	return &c
}

// processRule parses the five rule fields starting at token index first.
// Parsing stops at the first malformed field of the line.
func (r *Reader) processRule(first int) {
	idx := first
	next := func(name string) (token, bool) {
		if idx >= len(r.tokens) {
			at := 0
			if idx > 0 {
				at = r.tokens[idx-1].end
			}
			r.addSyntaxError(at, at, fmt.Sprintf("missing %s at position %d", name, idx-first+1), "")
			return token{}, false
		}
		tok := r.tokens[idx]
		idx++
		return tok, true
	}

	symbolField := func(name string) (rune, bool) {
		tok, ok := next(name)
		if !ok {
			return 0, false
		}
		c, ok := singleRune(tok.value)
		if !ok {
			r.addSyntaxError(tok.start, tok.end, name+" should be a single character", "")
		}
		return c, ok
	}

	current, ok := next("CURRENT_STATE")
	if !ok {
		return
	}
	currentSymbol, ok := symbolField("CURRENT_SYMBOL")
	if !ok {
		return
	}
	newSymbol, ok := symbolField("NEW_SYMBOL")
	if !ok {
		return
	}
	dirTok, ok := next("DIRECTION")
	if !ok {
		return
	}
	direction, ok := machine.ParseDirection(dirTok.value)
	if !ok {
		r.addSyntaxError(dirTok.start, dirTok.end,
			"DIRECTION should be one of "+strings.Join(machine.DirectionNames(), ", "), "")
		return
	}
	newState, ok := next("NEW_STATE")
	if !ok {
		return
	}

	if len(r.tokens) > idx {
		r.addSyntaxError(r.tokens[idx].start, r.tokens[len(r.tokens)-1].end,
			fmt.Sprintf("too many entries, require: %d, actual %d", idx, len(r.tokens)), "")
	}

	r.rules = append(r.rules, ruleLine{
		lineNo:        r.lineNo,
		currentState:  current.value,
		currentSymbol: currentSymbol,
		newSymbol:     newSymbol,
		direction:     direction,
		newState:      newState.value,
	})
}

// singleRune returns the only rune of s.
func singleRune(s string) (rune, bool) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(s)
	return c, true
}
