package session

import "errors"

var (
	ErrHalted    = errors.New("machine is halted")
	ErrStepLimit = errors.New("step limit reached")
	ErrCanceled  = errors.New("run canceled")
	ErrNilInput  = errors.New("machine is nil")
)
