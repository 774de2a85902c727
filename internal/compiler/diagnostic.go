package compiler

import (
	"errors"
	"strings"

	"kiln/pkg/color"
	"kiln/pkg/lexer"
)

// positioned is implemented by every error the pipeline reports against source
type positioned interface {
	error
	Position() lexer.Position
	Message() string
}

// ReportedError is an error already shown to the user as a diagnostic
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string {
	return e.Err.Error()
}

func (e *ReportedError) Unwrap() error {
	return e.Err
}

// Render formats err with the offending source line and a caret under the
// column. Errors without a position render as a plain error line.
func Render(src string, err error) string {
	var p positioned
	if !errors.As(err, &p) {
		return color.Error(err.Error())
	}

	pos := p.Position()
	line := sourceLine(src, pos.Line)

	return color.ErrorWithPosition(pos.Line, pos.Column, p.Message(), line+"\n"+caret(line, pos.Column))
}

// sourceLine returns the 1-based line n of src without its newline
func sourceLine(src string, n int) string {
	lines := strings.Split(src, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}

	return strings.TrimRight(lines[n-1], "\r")
}

// caret points at the 1-based byte column of line, keeping tabs so it lines up
func caret(line string, column int) string {
	var b strings.Builder
	for i := 0; i < column-1; i++ {
		if i < len(line) && line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')

	return b.String()
}
