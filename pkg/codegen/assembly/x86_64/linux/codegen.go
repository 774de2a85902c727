package x86_64_linux

import (
	"fmt"

	"kiln/pkg/ast"
	"kiln/pkg/codegen"
	"kiln/pkg/resolver"

	"github.com/charmbracelet/log"
)

// emitStart is the process entry: run main, then exit with status 0
func (a *x86_64Linux) emitStart() {
	a.addText("")
	a.addText("_start:")
	a.addf("\tcall\t%s", funcLabel(a.prog.Entry.Name))
	a.addText("\tmov\trdi, 0")
	a.addText("\tmov\trax, 60")
	a.addText("\tsyscall")
}

func (a *x86_64Linux) BeginFunction(fn *resolver.Function) {
	a.addText("")
	a.addf("%s:", funcLabel(fn.Name))
	a.addText("\tpush\trbp")
	a.addText("\tmov\trbp, rsp")
	if fn.FrameSize > 0 {
		a.addf("\tsub\trsp, %d", fn.FrameSize)
	}
}

func (a *x86_64Linux) EndFunction(fn *resolver.Function) {
	a.addText("\tleave")
	a.addText("\tret")
}

func (a *x86_64Linux) PushInt(v int64) {
	if fitsImm32(v) {
		a.addf("\tpush\tqword %d", v)
		return
	}

	a.addf("\tmov\trax, %d", v)
	a.addText("\tpush\trax")
}

func (a *x86_64Linux) Load(slot resolver.Slot) {
	a.addf("\tpush\t%s", slotOperand(slot))
}

func (a *x86_64Linux) Store(slot resolver.Slot) {
	a.addText("\tpop\trax")
	a.addf("\tmov\t%s, rax", slotOperand(slot))
}

func (a *x86_64Linux) Negate() {
	a.addText("\tneg\tqword [rsp]")
}

var setcc = map[ast.Operator]string{
	ast.OpEq:  "sete",
	ast.OpNeq: "setne",
	ast.OpLt:  "setl",
	ast.OpLe:  "setle",
	ast.OpGt:  "setg",
	ast.OpGe:  "setge",
}

func (a *x86_64Linux) Binary(op ast.Operator) {
	a.addText("\tpop\trbx")
	a.addText("\tpop\trax")

	switch op {
	case ast.OpAdd:
		a.addText("\tadd\trax, rbx")
	case ast.OpSub:
		a.addText("\tsub\trax, rbx")
	case ast.OpMul:
		a.addText("\timul\trax, rbx")
	case ast.OpDiv:
		a.emitDivide()
	default:
		set, ok := setcc[op]
		if !ok {
			log.Error("x86_64: unsupported binary operator", "op", op)
			a.fail(fmt.Errorf("x86_64: unsupported binary operator %s", op))
			return
		}
		a.addText("\tcmp\trax, rbx")
		a.addf("\t%s\tal", set)
		a.addText("\tmovzx\trax, al")
	}

	a.addText("\tpush\trax")
}

// emitDivide leaves rax / rbx in rax. idiv faults on MinInt64 / -1, so a
// divisor of -1 negates instead, which wraps like the interpreter.
func (a *x86_64Linux) emitDivide() {
	divide := a.newLocal("div")
	done := a.newLocal("divdone")

	a.addText("\tcmp\trbx, -1")
	a.addf("\tjne\t%s", divide)
	a.addText("\tneg\trax")
	a.addf("\tjmp\t%s", done)
	a.addf("%s:", divide)
	a.addText("\tcqo")
	a.addText("\tidiv\trbx")
	a.addf("%s:", done)
}

func (a *x86_64Linux) BranchIfZero(l codegen.Label) {
	a.addText("\tpop\trax")
	a.addText("\ttest\trax, rax")
	a.addf("\tjz\t%s", label(l))
}

func (a *x86_64Linux) BranchIfNonZero(l codegen.Label) {
	a.addText("\tpop\trax")
	a.addText("\ttest\trax, rax")
	a.addf("\tjnz\t%s", label(l))
}

func (a *x86_64Linux) Jump(l codegen.Label) {
	a.addf("\tjmp\t%s", label(l))
}

func (a *x86_64Linux) PlaceLabel(l codegen.Label) {
	a.addf("%s:", label(l))
}

func (a *x86_64Linux) Call(fn *resolver.Function) {
	a.addf("\tcall\t%s", funcLabel(fn.Name))
}

func (a *x86_64Linux) Dump() {
	a.addText("\tpop\trdi")
	a.addText("\tcall\tdump")
}

func (a *x86_64Linux) Exit() {
	a.addText("\tpop\trdi")
	a.addText("\tand\trdi, 255")
	a.addText("\tmov\trax, 60")
	a.addText("\tsyscall")
}
