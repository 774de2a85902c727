// Package qbe emits QBE intermediate language and lowers it to native
// assembly with libqbe.
package qbe

import (
	"bytes"
	"fmt"
	"runtime"

	"modernc.org/libqbe"

	"kiln/pkg/codegen"
	"kiln/pkg/codegen/assembly"
	"kiln/pkg/resolver"
)

// Target is the name used for this backend on the command line and in the build cache
const Target = "qbe"

type qbeBackend struct {
	prog *resolver.Program

	output  string // output executable path
	machine string // QBE target, e.g. amd64_sysv

	ir  bytes.Buffer // QBE IL
	asm string       // native assembly produced from ir

	depth   int                   // operand stack depth; %s<n> holds slot n
	depths  map[codegen.Label]int // depth on arrival at each branch target
	blocks  int                   // counter for fallthrough and helper blocks
	cutting bool                  // last instruction ended a block
	err     error                 // first operation the emitter could not encode
}

// NewQBE creates a QBE generator for the host machine
func NewQBE(prog *resolver.Program, output string) assembly.Assembly {
	return NewQBEFor(prog, output, libqbe.DefaultTarget(runtime.GOOS, runtime.GOARCH))
}

// NewQBEFor creates a QBE generator for the given QBE target
func NewQBEFor(prog *resolver.Program, output, machine string) assembly.Assembly {
	return &qbeBackend{
		prog:    prog,
		output:  output,
		machine: machine,
	}
}

// Generate builds the IL for the whole program and compiles it to assembly
func (b *qbeBackend) Generate() error {
	b.ir.Reset()
	b.depths = make(map[codegen.Label]int)
	b.blocks = 0
	b.err = nil

	if err := codegen.Lower(b.prog, b); err != nil {
		return err
	}
	if b.err != nil {
		return b.err
	}
	b.emitMain()
	b.emitData()

	asm, err := compileIR(b.machine, b.ir.String())
	if err != nil {
		return fmt.Errorf("\n--- QBE Compilation Failed ---\nGenerated IR:\n%s\n\nlibqbe error: %w", b.ir.String(), err)
	}
	b.asm = asm

	return nil
}

// GetCode returns the native assembly
func (b *qbeBackend) GetCode() string {
	return b.asm
}

// IR returns the QBE IL the assembly was compiled from
func (b *qbeBackend) IR() string {
	return b.ir.String()
}
