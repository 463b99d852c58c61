package fancy

import (
	"fmt"
	"strings"

	"github.com/atlanticdynamic/tms/internal/reader"
)

// Diagnostic renders d like reader.Diagnostic.String, with the location,
// message and underline colored.
func Diagnostic(d reader.Diagnostic) string {
	var sb strings.Builder

	if d.LineNo == 0 {
		sb.WriteString(PathText(d.Path) + ": " + ErrorText(d.Message) + "\n")
	} else {
		loc := fmt.Sprintf("%s:%d:%d", d.Path, d.LineNo, d.Start)
		sb.WriteString(PathText(loc) + ": " + ErrorText(d.Message) + "\n")
	}

	if d.Note != "" {
		sb.WriteString(InfoStyle.Render("note: "+d.Note) + "\n")
	}

	if d.LineNo == 0 {
		return sb.String()
	}

	sb.WriteString(SummaryText(fmt.Sprintf("%4d | ", d.LineNo)) + d.Line + "\n")
	sb.WriteString(SummaryText("     | ") + strings.Repeat(" ", d.Start))
	sb.WriteString(ErrorText("^"+strings.Repeat("~", d.Tildes())) + "\n")

	return sb.String()
}

// Diagnostics renders every diagnostic in order.
func Diagnostics(diags []reader.Diagnostic) string {
	var sb strings.Builder
	for _, d := range diags {
		sb.WriteString(Diagnostic(d))
	}
	return sb.String()
}
