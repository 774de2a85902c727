package interpreter

import (
	"errors"
	"fmt"

	"kiln/pkg/lexer"
)

var (
	ErrDivisionByZero    = errors.New("division by zero")
	ErrCallDepthExceeded = errors.New("maximum call depth exceeded")
	ErrMaxStepsExceeded  = errors.New("maximum steps exceeded")
)

// RuntimeError is a fatal failure while executing the program
type RuntimeError struct {
	Pos lexer.Position
	Err error
}

func (e *RuntimeError) Error() string {
	return e.Pos.String() + ": " + e.Message()
}

// Message describes the error without its position
func (e *RuntimeError) Message() string {
	return fmt.Sprintf("Runtime error: %v", e.Err)
}

// Position returns where execution failed
func (e *RuntimeError) Position() lexer.Position {
	return e.Pos
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// exitSignal unwinds every active call when an exit statement runs
type exitSignal struct {
	code int
}

func (e *exitSignal) Error() string {
	return fmt.Sprintf("exit %d", e.code)
}
