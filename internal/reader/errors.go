package reader

import "errors"

var (
	// ErrSyntax is matched by every line-level diagnostic.
	ErrSyntax = errors.New("syntax error")

	// ErrSource is matched by the diagnostic reported when the program file
	// cannot be opened or read.
	ErrSource = errors.New("cannot read source")
)
