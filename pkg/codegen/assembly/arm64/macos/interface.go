package arm64_macos

import (
	"bytes"

	"kiln/pkg/codegen"
	"kiln/pkg/codegen/assembly"
	"kiln/pkg/resolver"
)

// Target is the name used for this backend on the command line and in the build cache
const Target = "arm64-macos"

type arm64Macos struct {
	prog *resolver.Program

	output string // output executable path

	text    bytes.Buffer // .text section
	cstring bytes.Buffer // .cstring section

	err error // first operation the emitter could not encode
}

// NewArm64Macos creates a new arm64Macos assembly generator instance
func NewArm64Macos(prog *resolver.Program, output string) assembly.Assembly {
	return &arm64Macos{
		prog:   prog,
		output: output,
	}
}

// Generate generates the assembly code for the whole program
func (a *arm64Macos) Generate() error {
	a.text.Reset()
	a.cstring.Reset()
	a.err = nil

	// Emit header
	a.addText("\t.text")
	a.addText("\t.globl _main")
	a.addText("\t.p2align 2")

	if err := codegen.Lower(a.prog, a); err != nil {
		return err
	}
	if a.err != nil {
		return a.err
	}

	a.emitMain()

	return nil
}

// GetCode returns the generated assembly code as a string
func (a *arm64Macos) GetCode() string {
	var b bytes.Buffer

	// .text first
	b.Write(a.text.Bytes())

	// .cstring section for the dump format
	if a.cstring.Len() > 0 {
		b.WriteString("\n\t.section\t__TEXT,__cstring\n")
		b.Write(a.cstring.Bytes())
	}

	return b.String()
}
