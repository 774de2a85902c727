package resolver

import (
	"errors"
	"fmt"

	"kiln/pkg/lexer"
)

var (
	ErrUndeclaredVariable = errors.New("undeclared variable")
	ErrRedeclaredVariable = errors.New("redeclared variable")
	ErrUndeclaredFunction = errors.New("undeclared function")
	ErrRedeclaredFunction = errors.New("redeclared function")
	ErrMissingEntry       = errors.New("missing entry function")
)

// Error is a static name-resolution failure. Kind is one of the Err* sentinels.
type Error struct {
	Kind  error
	Name  string
	Pos   lexer.Position
	Prior lexer.Position // earlier declaration, for redeclarations
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Message()
}

// Message describes the error without its position
func (e *Error) Message() string {
	switch e.Kind {
	case ErrUndeclaredVariable:
		return fmt.Sprintf("Undefined variable `%s`", e.Name)
	case ErrRedeclaredVariable:
		return fmt.Sprintf("Redeclaration of variable `%s` (previously declared at %s)", e.Name, e.Prior)
	case ErrUndeclaredFunction:
		return fmt.Sprintf("Undefined function `%s`", e.Name)
	case ErrRedeclaredFunction:
		return fmt.Sprintf("Redeclaration of function `%s` (previously declared at %s)", e.Name, e.Prior)
	case ErrMissingEntry:
		return fmt.Sprintf("No entry function: declare `func %s { ... }`", e.Name)
	default:
		return fmt.Sprintf("%v `%s`", e.Kind, e.Name)
	}
}

// Position returns the location of the offending name
func (e *Error) Position() lexer.Position {
	return e.Pos
}

func (e *Error) Unwrap() error {
	return e.Kind
}
