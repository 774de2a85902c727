package x86_64_linux

import (
	"bytes"

	"kiln/pkg/codegen"
	"kiln/pkg/codegen/assembly"
	"kiln/pkg/resolver"
)

// Target is the name used for this backend on the command line and in the build cache
const Target = "x86_64-linux"

type x86_64Linux struct {
	prog *resolver.Program

	output string // output executable path

	text bytes.Buffer // .text section

	local int   // counter for labels private to one instruction sequence
	err   error // first operation the emitter could not encode
}

// NewX86_64Linux creates a NASM generator for x86-64 Linux ELF executables
func NewX86_64Linux(prog *resolver.Program, output string) assembly.Assembly {
	return &x86_64Linux{
		prog:   prog,
		output: output,
	}
}

// Generate generates the assembly code for the whole program
func (a *x86_64Linux) Generate() error {
	a.text.Reset()
	a.local = 0
	a.err = nil

	a.addText("\tbits 64")
	a.addText("\tdefault rel")
	a.addText("")
	a.addText("\tsection .text")
	a.addText("\tglobal _start")
	a.emitStart()

	if err := codegen.Lower(a.prog, a); err != nil {
		return err
	}
	if a.err != nil {
		return a.err
	}

	a.emitDumpRoutine()

	return nil
}

// GetCode returns the generated assembly code as a string
func (a *x86_64Linux) GetCode() string {
	return a.text.String()
}
