// Package interpreter executes a resolved program by walking its syntax tree.
package interpreter

import (
	"errors"
	"io"
	"os"

	"kiln/pkg/resolver"
)

// DefaultMaxDepth bounds recursion when no WithMaxDepth option is given
const DefaultMaxDepth = 10000

// Interpreter executes a resolved program
type Interpreter struct {
	prog *resolver.Program

	stack []*Frame // call stack (frames)

	out io.Writer // output writer for dump

	maxDepth int // maximum call depth
	maxSteps int // maximum statements executed (0 = unlimited)
	steps    int // statements executed

	buf []byte // scratch for formatting dump output
}

type Option func(*Interpreter)

// WithWriter sets the output writer for dump statements
func WithWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithMaxDepth sets the call depth at which Run fails with ErrCallDepthExceeded
func WithMaxDepth(n int) Option {
	return func(i *Interpreter) { i.maxDepth = n }
}

// WithMaxSteps sets a maximum number of executed statements before returning ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// NewInterpreter creates a new Interpreter instance
func NewInterpreter(prog *resolver.Program, opts ...Option) *Interpreter {
	it := &Interpreter{
		prog:     prog,
		stack:    make([]*Frame, 0, 8),
		maxDepth: DefaultMaxDepth,
		buf:      make([]byte, 0, 24),
	}

	for _, o := range opts {
		o(it)
	}

	if it.out == nil {
		it.out = os.Stdout
	}

	return it
}

// Reset clears runtime state (call stack, counters)
func (i *Interpreter) Reset() {
	i.stack = i.stack[:0]
	i.steps = 0
}

// Run executes the entry function and returns the program's exit code:
// the low 8 bits of the value given to exit, or 0 when main returns.
func (i *Interpreter) Run() (int, error) {
	i.Reset()

	err := i.call(i.prog.Entry, i.prog.Entry.Decl.Pos)

	var exit *exitSignal
	if errors.As(err, &exit) {
		return exit.code, nil
	}
	if err != nil {
		return 0, err
	}

	return 0, nil
}

// Depth returns the number of active frames
func (i *Interpreter) Depth() int {
	return len(i.stack)
}

func (i *Interpreter) currentFrame() *Frame {
	if len(i.stack) == 0 {
		return nil
	}

	return i.stack[len(i.stack)-1]
}

func (i *Interpreter) pushFrame(fn *resolver.Function) *Frame {
	frame := newFrame(fn)
	i.stack = append(i.stack, frame)
	return frame
}

func (i *Interpreter) popFrame() *Frame {
	if len(i.stack) == 0 {
		return nil
	}

	f := i.stack[len(i.stack)-1]
	i.stack = i.stack[:len(i.stack)-1]
	return f
}
