package urlbuilder

import (
	"errors"
	"fmt"
)

var (
	ErrNullArgument    = errors.New("argument cannot be nil")
	ErrEmptyArgument   = errors.New("argument cannot be empty")
	ErrInvalidArgument = errors.New("argument is invalid")
)

// ArgumentError records which argument of a call was rejected.
type ArgumentError struct {
	Name string
	Err  error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("urlbuilder: %s: %v", e.Name, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

func argumentError(name string, err error) error {
	return &ArgumentError{Name: name, Err: err}
}
