package reader

import (
	"fmt"
	"strings"
)

// Diagnostic describes a problem found while reading a program, precise
// enough to underline the offending columns the way a compiler does.
type Diagnostic struct {
	// Path of the program file.
	Path string

	// Line is the full text of the offending line.
	Line string

	// LineNo is 1-based. Zero marks a problem with the file itself.
	LineNo int

	// Start and End are rune columns into Line, End exclusive.
	Start int
	End   int

	Message string
	Note    string
}

// Error returns the one-line form "path:line:col: message".
func (d Diagnostic) Error() string {
	if d.LineNo == 0 {
		return fmt.Sprintf("%s: %s", d.Path, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", d.Path, d.LineNo, d.Start, d.Message)
}

// Unwrap returns ErrSource for file-level diagnostics and ErrSyntax otherwise.
func (d Diagnostic) Unwrap() error {
	if d.LineNo == 0 {
		return ErrSource
	}
	return ErrSyntax
}

// Tildes returns how many '~' follow the caret when underlining the span.
func (d Diagnostic) Tildes() int {
	return max(d.End-d.Start-1, 0)
}

// String renders the diagnostic gcc-style:
//
//	machine.txt:12:5: CURRENT_SYMBOL should be a single character
//	  12 | left 0042 _ * *
//	     |      ^~~~
func (d Diagnostic) String() string {
	var sb strings.Builder

	sb.WriteString(d.Error())
	sb.WriteByte('\n')

	if d.Note != "" {
		fmt.Fprintf(&sb, "note: %s\n", d.Note)
	}

	if d.LineNo == 0 {
		return sb.String()
	}

	fmt.Fprintf(&sb, "%4d | %s\n", d.LineNo, d.Line)
	sb.WriteString("     | ")
	sb.WriteString(strings.Repeat(" ", d.Start))
	sb.WriteByte('^')
	sb.WriteString(strings.Repeat("~", d.Tildes()))
	sb.WriteByte('\n')

	return sb.String()
}
