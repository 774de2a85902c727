package arm64_macos

import (
	"fmt"
	"strings"

	"kiln/pkg/ast"
	"kiln/pkg/codegen"
	"kiln/pkg/resolver"

	"github.com/charmbracelet/log"
)

// The working stack keeps one value per 16-byte slot so SP stays aligned
// for calls into libc.
const (
	push = "\tstr\tX0, [SP, #-16]!"
	pop0 = "\tldr\tX0, [SP], #16"
	pop1 = "\tldr\tX1, [SP], #16"
)

// emitMain emits `_main`, which runs the entry function and returns 0
func (a *arm64Macos) emitMain() {
	a.addText("")
	a.addText("_main:")
	a.addText("\tstp\tX29, X30, [SP, #-16]!")
	a.addText("\tmov\tX29, SP")
	a.addf("\tbl\t%s", funcLabel(a.prog.Entry.Name))
	a.addText("\tmov\tX0, #0")
	a.addText("\tldp\tX29, X30, [SP], #16")
	a.addText("\tret")
}

func (a *arm64Macos) BeginFunction(fn *resolver.Function) {
	a.addText("") // blank line before function
	a.addf("%s:", funcLabel(fn.Name))
	// function prologue (standard AArch64)
	a.addText("\tstp\tX29, X30, [SP, #-16]!")
	a.addText("\tmov\tX29, SP")
	// allocate locals for this function if any
	if fn.FrameSize > 0 {
		a.addf("\tsub\tSP, SP, #%d", fn.FrameSize)
	}
}

func (a *arm64Macos) EndFunction(fn *resolver.Function) {
	a.addText("\tmov\tSP, X29")
	a.addText("\tldp\tX29, X30, [SP], #16")
	a.addText("\tret")
}

func (a *arm64Macos) PushInt(v int64) {
	a.movImmediate("X0", v)
	a.addText(push)
}

func (a *arm64Macos) Load(slot resolver.Slot) {
	addr := a.slotAddress(slot.Offset)
	a.addf("\t%s\tX0, %s", loadOp(addr), addr)
	a.addText(push)
}

func (a *arm64Macos) Store(slot resolver.Slot) {
	a.addText(pop0)
	addr := a.slotAddress(slot.Offset)
	a.addf("\t%s\tX0, %s", storeOp(addr), addr)
}

// loadOp picks ldur for negative immediate offsets
func loadOp(addr string) string {
	if strings.Contains(addr, "#-") {
		return "ldur"
	}
	return "ldr"
}

func storeOp(addr string) string {
	if strings.Contains(addr, "#-") {
		return "stur"
	}
	return "str"
}

func (a *arm64Macos) Negate() {
	a.addText(pop0)
	a.addText("\tneg\tX0, X0")
	a.addText(push)
}

var conditions = map[ast.Operator]string{
	ast.OpEq:  "eq",
	ast.OpNeq: "ne",
	ast.OpLt:  "lt",
	ast.OpLe:  "le",
	ast.OpGt:  "gt",
	ast.OpGe:  "ge",
}

func (a *arm64Macos) Binary(op ast.Operator) {
	a.addText(pop1)
	a.addText(pop0)

	switch op {
	case ast.OpAdd:
		a.addText("\tadd\tX0, X0, X1")
	case ast.OpSub:
		a.addText("\tsub\tX0, X0, X1")
	case ast.OpMul:
		a.addText("\tmul\tX0, X0, X1")
	case ast.OpDiv:
		a.addText("\tsdiv\tX0, X0, X1")
	default:
		cond, ok := conditions[op]
		if !ok {
			log.Error("arm64: unsupported binary operator", "op", op)
			a.fail(fmt.Errorf("arm64: unsupported binary operator %s", op))
			return
		}
		a.addText("\tcmp\tX0, X1")
		a.addf("\tcset\tX0, %s", cond)
	}

	a.addText(push)
}

func (a *arm64Macos) BranchIfZero(l codegen.Label) {
	a.addText(pop0)
	a.addf("\tcbz\tX0, %s", label(l))
}

func (a *arm64Macos) BranchIfNonZero(l codegen.Label) {
	a.addText(pop0)
	a.addf("\tcbnz\tX0, %s", label(l))
}

func (a *arm64Macos) Jump(l codegen.Label) {
	a.addf("\tb\t%s", label(l))
}

func (a *arm64Macos) PlaceLabel(l codegen.Label) {
	a.addf("%s:", label(l))
}

func (a *arm64Macos) Call(fn *resolver.Function) {
	a.addf("\tbl\t%s", funcLabel(fn.Name))
}

// Dump prints with printf; Apple passes variadic arguments on the stack
func (a *arm64Macos) Dump() {
	fmtLabel := a.ensurePrintfIntFormat()

	a.addText(pop1)
	a.addf("\tadrp\tX0, %s@PAGE", fmtLabel)
	a.addf("\tadd\tX0, X0, %s@PAGEOFF", fmtLabel)
	a.addText("\tsub\tSP, SP, #16")
	a.addText("\tstr\tX1, [SP, #0]")
	a.addText("\tbl\t_printf")
	a.addText("\tadd\tSP, SP, #16")
}

// Exit calls libc exit so buffered dump output is flushed
func (a *arm64Macos) Exit() {
	a.addText(pop0)
	a.addText("\tand\tX0, X0, #255")
	a.addText("\tbl\t_exit")
}
