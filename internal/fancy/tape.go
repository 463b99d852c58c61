package fancy

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/atlanticdynamic/tms/internal/machine"
)

// TapeView draws the cells around the head on five lines of width columns:
//
//	          0                   10
//	          |                   |
//	_ _ _ _ _ 1 0 1 1 _ _ _ _ _ _ _ _ _ _ _
//	                |
//	                3
//
// Cells are separated by a space, so width/2 cells fit. Position labels are
// drawn every legendStep cells and the head sits at column width/2.
func TapeView(tape *machine.Tape, width, legendStep int) string {
	width = max(width, 4)
	legendStep = max(legendStep, 1)

	const (
		labels = iota
		ticks
		cells
		marker
		position
	)
	var lines [5][]rune

	head := tape.Head()
	// start one legend step early so labels cut by the left border still show
	leftmost := head - width/4 - legendStep
	rightmost := head + width/4

	anchor := 0
	for pos := leftmost; pos <= rightmost; pos++ {
		if pos%legendStep == 0 {
			// a long label is cut so the next one still starts at its tick
			col := len(lines[cells])
			lines[labels] = padRunes(clipRunes(lines[labels], col-1), col)
			lines[labels] = append(lines[labels], []rune(strconv.Itoa(pos))...)
			lines[ticks] = append(lines[ticks], '|')
		}
		if pos == head {
			anchor = len(lines[cells])
			lines[marker] = append(lines[marker], '|')
			lines[position] = append(lines[position], []rune(strconv.Itoa(pos))...)
		}

		lines[cells] = append(lines[cells], tape.ReadAt(pos), ' ')

		n := len(lines[cells])
		for _, i := range []int{labels, ticks, marker, position} {
			lines[i] = padRunes(lines[i], n)
		}
	}

	from := anchor - width/2
	to := from + width
	styles := [5]func(...string) string{
		labels:   InfoStyle.Render,
		ticks:    BranchStyle.Render,
		cells:    SymbolStyle.Render,
		marker:   RootStyle.Render,
		position: RootStyle.Render,
	}

	var sb strings.Builder
	for i, line := range lines {
		line = padRunes(line, to)
		text := strings.TrimRight(string(line[from:to]), " ")
		if text != "" {
			text = styles[i](text)
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// StepStateLine puts the step counter on the left and the state on the
// right of a line of width columns.
func StepStateLine(m *machine.Machine, width int) string {
	step := "Step: " + strconv.Itoa(m.Steps())
	state := "State: " + m.State()
	gap := max(width-utf8.RuneCountInString(step)-utf8.RuneCountInString(state), 1)
	return CountText(step) + strings.Repeat(" ", gap) + StateText(state)
}

// MachineView is the tape view followed by the step and state line.
func MachineView(m *machine.Machine, width, legendStep int) string {
	return TapeView(m.Tape(), width, legendStep) + StepStateLine(m, width) + "\n"
}

func padRunes(line []rune, n int) []rune {
	for len(line) < n {
		line = append(line, ' ')
	}
	return line
}

func clipRunes(line []rune, n int) []rune {
	if n < 0 {
		n = 0
	}
	if len(line) > n {
		return line[:n]
	}
	return line
}

func sortedRunes(counts map[rune]int) []rune {
	runes := make([]rune, 0, len(counts))
	for r := range counts {
		runes = append(runes, r)
	}
	slices.Sort(runes)
	return runes
}
