package x86_64_linux

import (
	"fmt"
	"math"

	"kiln/pkg/codegen"
	"kiln/pkg/resolver"
)

// addText adds an instruction to the text section
func (a *x86_64Linux) addText(instruction string) {
	a.text.WriteString(instruction + "\n")
}

func (a *x86_64Linux) addf(format string, args ...any) {
	a.addText(fmt.Sprintf(format, args...))
}

// newLocal returns a fresh label for code private to one operation
func (a *x86_64Linux) newLocal(kind string) string {
	a.local++
	return fmt.Sprintf(".K%s_%d", kind, a.local)
}

// fail keeps the first encoding failure for Generate to return
func (a *x86_64Linux) fail(err error) {
	if a.err == nil {
		a.err = err
	}
}

func funcLabel(name string) string {
	return "fn_" + name
}

func label(l codegen.Label) string {
	return ".L" + l.String()
}

// slotOperand addresses a variable relative to the frame base pointer
func slotOperand(slot resolver.Slot) string {
	return fmt.Sprintf("qword [rbp - %d]", slot.Offset)
}

// fitsImm32 reports whether v can be pushed as a sign-extended immediate
func fitsImm32(v int64) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}
