package arm64_macos

import (
	"fmt"
	"strings"

	"kiln/pkg/codegen"
)

const printfIntFormat = "__kiln_printf_int"

// fail keeps the first encoding failure for Generate to return
func (a *arm64Macos) fail(err error) {
	if a.err == nil {
		a.err = err
	}
}

// addText adds an instruction to the text section
func (a *arm64Macos) addText(instruction string) {
	a.text.WriteString(instruction + "\n")
}

func (a *arm64Macos) addf(format string, args ...any) {
	a.addText(fmt.Sprintf(format, args...))
}

// addCString adds an instruction to the cstring section
func (a *arm64Macos) addCString(instruction string) {
	a.cstring.WriteString(instruction + "\n")
}

// ensurePrintfIntFormat ensures we have a "%lld\n" C-format string available and returns its label.
func (a *arm64Macos) ensurePrintfIntFormat() string {
	if !strings.Contains(a.cstring.String(), printfIntFormat+":") {
		a.addCString(fmt.Sprintf("%s:", printfIntFormat))
		a.addCString("\t.asciz\t\"%lld\\n\"")
	}
	return printfIntFormat
}

func funcLabel(name string) string {
	return "_fn_" + name
}

// label names a jump target; the L prefix keeps it out of the symbol table
func label(l codegen.Label) string {
	return "L" + l.String()
}

// movImmediate loads any 64-bit value into reg. Small values use a single
// mov, everything else one movz plus a movk per nonzero halfword.
func (a *arm64Macos) movImmediate(reg string, v int64) {
	if v > -65536 && v < 65536 {
		a.addf("\tmov\t%s, #%d", reg, v)
		return
	}

	u := uint64(v)
	a.addf("\tmovz\t%s, #%d", reg, u&0xffff)
	for shift := 16; shift < 64; shift += 16 {
		if half := (u >> shift) & 0xffff; half != 0 {
			a.addf("\tmovk\t%s, #%d, lsl #%d", reg, half, shift)
		}
	}
}

// slotAddress returns a memory operand for the variable offset bytes below
// the frame pointer. ldur/stur reach 256 bytes; deeper slots go through X9.
func (a *arm64Macos) slotAddress(offset int) string {
	if offset <= 256 {
		return fmt.Sprintf("[X29, #-%d]", offset)
	}

	a.movImmediate("X9", int64(offset))
	a.addText("\tsub\tX9, X29, X9")
	return "[X9]"
}
