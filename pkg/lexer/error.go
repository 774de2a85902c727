package lexer

import (
	"fmt"
	"unicode/utf8"
)

// LexError reports a character no token kind matches.
type LexError struct {
	Pos  Position
	Char rune
}

func newLexError(pos Position, remaining string) *LexError {
	r, _ := utf8.DecodeRuneInString(remaining)
	return &LexError{Pos: pos, Char: r}
}

func (e *LexError) Error() string {
	return e.Pos.String() + ": " + e.Message()
}

// Message describes the error without its position
func (e *LexError) Message() string {
	switch e.Char {
	case '"':
		return "unterminated string literal"
	case '\'':
		return "unterminated char literal"
	case utf8.RuneError:
		return "invalid UTF-8 in source"
	}
	return fmt.Sprintf("unexpected character %q", e.Char)
}

// Position returns where lexing stopped
func (e *LexError) Position() Position {
	return e.Pos
}
