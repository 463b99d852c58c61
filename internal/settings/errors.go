package settings

import (
	"errors"
	"fmt"
)

var (
	ErrNoSourceData  = errors.New("no source data provided")
	ErrParseToml     = errors.New("failed to parse TOML")
	ErrInvalidValue  = errors.New("invalid value")
	ErrInterpolation = errors.New("environment interpolation failed")
)

func invalid(field string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidValue, field, fmt.Sprintf(format, args...))
}
