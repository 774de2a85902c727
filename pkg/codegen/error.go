package codegen

import (
	"fmt"

	"kiln/pkg/lexer"
)

// InternalError is a construct lowering could not handle. A resolved program
// never produces one; seeing it means a compiler defect.
type InternalError struct {
	Pos    lexer.Position
	Detail string
}

func (e *InternalError) Error() string {
	return e.Pos.String() + ": " + e.Message()
}

// Message describes the error without its position
func (e *InternalError) Message() string {
	return "internal compiler error: " + e.Detail
}

// Position returns the node lowering failed on
func (e *InternalError) Position() lexer.Position {
	return e.Pos
}

func internalErrorf(pos lexer.Position, format string, args ...any) *InternalError {
	return &InternalError{Pos: pos, Detail: fmt.Sprintf(format, args...)}
}
