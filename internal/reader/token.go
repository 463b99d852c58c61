package reader

import (
	"strings"
	"unicode"
)

const (
	commentDelimiter = ';'
	escape           = '\\'
)

// token is a whitespace-delimited field of a line. start and end are rune
// columns into the line, end exclusive.
type token struct {
	value string
	start int
	end   int
}

// stripComment cuts line at the first comment delimiter that is not escaped.
func stripComment(line []rune) []rune {
	for i, r := range line {
		if r == commentDelimiter && (i == 0 || line[i-1] != escape) {
			return line[:i]
		}
	}
	return line
}

// tokenize splits line on whitespace. An escaped comment delimiter inside a
// token is kept as a literal delimiter.
func tokenize(line []rune) []token {
	var tokens []token

	i := 0
	for {
		for i < len(line) && unicode.IsSpace(line[i]) {
			i++
		}
		if i >= len(line) {
			return tokens
		}

		start := i
		for i < len(line) && !unicode.IsSpace(line[i]) {
			i++
		}

		raw := string(line[start:i])
		tokens = append(tokens, token{
			value: strings.ReplaceAll(raw, string([]rune{escape, commentDelimiter}), string(commentDelimiter)),
			start: start,
			end:   i,
		})
	}
}
