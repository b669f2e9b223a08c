package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicate         = errors.New("booking already exists")
)

// TransitionError is returned when a command is not enabled for the booking's status.
type TransitionError struct {
	ID      string
	From    Status
	Command Command
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booking %s: %s is not allowed from status %s", e.ID, e.Command, e.From)
}

// Is makes errors.Is(err, ErrInvalidTransition) hold.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
