package fancy

import (
	"fmt"
	"strings"

	"github.com/atlanticdynamic/tms/internal/machine"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

// maxTapeText bounds the tape content shown in a tree.
const maxTapeText = 60

// Tree returns a new tree with common styling applied
func Tree() *tree.Tree {
	t := tree.New()
	t.EnumeratorStyle(BranchStyle)
	t.Enumerator(tree.RoundedEnumerator)
	return t
}

// BranchNode creates a styled section header node
func BranchNode(title string, count string) *tree.Tree {
	return tree.New().Root(
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			HeaderStyle.Render(title),
			" ",
			InfoStyle.Render(count),
		),
	)
}

func field(name, value string) string {
	return HeaderStyle.Render(name+":") + " " + value
}

// Status labels the run state of the machine.
func Status(m *machine.Machine) string {
	switch {
	case m.IsHalted():
		return ValidText("halted")
	case m.IsInterrupted():
		return StateText("interrupted")
	default:
		return InfoStyle.Render("ready")
	}
}

// MachineTree summarizes a machine along with the rule the next step would
// apply.
func MachineTree(title string, m *machine.Machine) *tree.Tree {
	t := Tree().Root(RootStyle.Render(title))

	tape := m.Tape()
	t.Child(field("State", StateText(m.State())+" "+Status(m)))
	t.Child(field("Steps", CountText(fmt.Sprint(m.Steps()))))
	t.Child(field("Head", CountText(fmt.Sprint(tape.Head()))))

	content := "(empty)"
	if !tape.Empty() {
		content = fmt.Sprintf("%s [%d, %d]",
			SymbolText(TruncateString(tape.String(), maxTapeText)), tape.Leftmost(), tape.Rightmost())
	}
	t.Child(field("Tape", content))
	t.Child(field("Whitespace", SymbolText(string(m.Whitespace()))))

	t.Child(stateBranch("End states", m.EndStates()))
	t.Child(stateBranch("Break states", m.BreakStates()))
	t.Child(stateBranch("States", m.AllStates()))

	counts := tape.SymbolCounts()
	symbols := BranchNode("Symbols", fmt.Sprintf("(%d)", len(counts)))
	for _, r := range sortedRunes(counts) {
		symbols.Child(fmt.Sprintf("%s × %s", SymbolText(string(r)), CountText(fmt.Sprint(counts[r]))))
	}
	t.Child(symbols)

	rules := m.Rules()
	ruleBranch := BranchNode("Rules", fmt.Sprintf("(%d)", len(rules)))
	for _, r := range rules {
		ruleBranch.Child(RuleText(r.String()))
	}
	t.Child(ruleBranch)

	if !m.IsHalted() {
		next, err := m.NextRule()
		if err != nil {
			t.Child(field("Next", ErrorText(err.Error())))
		} else {
			t.Child(field("Next", RuleText(next.String())))
		}
	}

	return t
}

func stateBranch(title string, states []string) *tree.Tree {
	b := BranchNode(title, fmt.Sprintf("(%d)", len(states)))
	if len(states) > 0 {
		styled := make([]string, len(states))
		for i, s := range states {
			styled[i] = StateText(s)
		}
		b.Child(strings.Join(styled, ", "))
	}
	return b
}
