package qbe

import (
	"fmt"

	"kiln/pkg/ast"
	"kiln/pkg/codegen"
	"kiln/pkg/resolver"

	"github.com/charmbracelet/log"
)

const dumpFormat = "$kiln_fmt"

var ops = map[ast.Operator]string{
	ast.OpAdd: "add",
	ast.OpSub: "sub",
	ast.OpMul: "mul",
	ast.OpEq:  "ceql",
	ast.OpNeq: "cnel",
	ast.OpLt:  "csltl",
	ast.OpLe:  "cslel",
	ast.OpGt:  "csgtl",
	ast.OpGe:  "csgel",
}

func (b *qbeBackend) line(s string) {
	b.ir.WriteString(s + "\n")
}

// inst writes one instruction, opening a new block if the previous one was cut
func (b *qbeBackend) inst(format string, args ...any) {
	if b.cutting {
		b.block(b.newBlock("dead"))
	}
	b.line("\t" + fmt.Sprintf(format, args...))
}

func (b *qbeBackend) block(name string) {
	b.line("@" + name)
	b.cutting = false
}

func (b *qbeBackend) newBlock(kind string) string {
	b.blocks++
	return fmt.Sprintf("%s_%d", kind, b.blocks)
}

// top is the temporary holding the operand n places below the top
func (b *qbeBackend) top(n int) string {
	return fmt.Sprintf("%%s%d", b.depth-1-n)
}

func (b *qbeBackend) push() string {
	b.depth++
	return b.top(0)
}

func (b *qbeBackend) pop() string {
	t := b.top(0)
	b.depth--
	return t
}

func slotVar(slot resolver.Slot) string {
	return fmt.Sprintf("%%v%d", slot.Index)
}

func funcName(name string) string {
	return "$fn_" + name
}

// emitMain exports a C main that runs the entry function
func (b *qbeBackend) emitMain() {
	b.line("")
	b.line("export function w $main() {")
	b.block("start")
	b.inst("call %s()", funcName(b.prog.Entry.Name))
	b.inst("ret 0")
	b.line("}")
}

func (b *qbeBackend) emitData() {
	b.line("")
	b.line(fmt.Sprintf("data %s = { b \"%%lld\\n\", b 0 }", dumpFormat))
}

func (b *qbeBackend) BeginFunction(fn *resolver.Function) {
	b.depth = 0
	b.line("")
	b.line(fmt.Sprintf("function %s() {", funcName(fn.Name)))
	b.block("start")
	for _, slot := range fn.Slots {
		b.inst("%s =l alloc8 8", slotVar(slot))
	}
}

func (b *qbeBackend) EndFunction(fn *resolver.Function) {
	b.inst("ret")
	b.line("}")
}

func (b *qbeBackend) PushInt(v int64) {
	b.inst("%s =l copy %d", b.push(), v)
}

func (b *qbeBackend) Load(slot resolver.Slot) {
	b.inst("%s =l loadl %s", b.push(), slotVar(slot))
}

func (b *qbeBackend) Store(slot resolver.Slot) {
	b.inst("storel %s, %s", b.pop(), slotVar(slot))
}

func (b *qbeBackend) Negate() {
	t := b.top(0)
	b.inst("%s =l neg %s", t, t)
}

func (b *qbeBackend) Binary(op ast.Operator) {
	r := b.pop()
	l := b.top(0)

	if op == ast.OpDiv {
		b.emitDivide(l, r)
		return
	}

	name, ok := ops[op]
	if !ok {
		log.Error("qbe: unsupported binary operator", "op", op)
		if b.err == nil {
			b.err = fmt.Errorf("qbe: unsupported binary operator %s", op)
		}
		return
	}
	b.inst("%s =l %s %s, %s", l, name, l, r)
}

// emitDivide negates for a divisor of -1, since div faults on MinInt64 / -1
func (b *qbeBackend) emitDivide(l, r string) {
	negate, divide, done := b.newBlock("neg"), b.newBlock("div"), b.newBlock("divdone")

	b.inst("%%c =w ceql %s, -1", r)
	b.inst("jnz %%c, @%s, @%s", negate, divide)
	b.block(negate)
	b.inst("%s =l neg %s", l, l)
	b.inst("jmp @%s", done)
	b.block(divide)
	b.inst("%s =l div %s, %s", l, l, r)
	b.block(done)
}

// branch pops the condition and jumps to l or falls through to a new block
func (b *qbeBackend) branch(l codegen.Label, ifNonZero bool) {
	cond := b.pop()
	b.depths[l] = b.depth

	fall := b.newBlock("fall")
	b.inst("%%c =w cnel %s, 0", cond)
	if ifNonZero {
		b.inst("jnz %%c, @%s, @%s", l, fall)
	} else {
		b.inst("jnz %%c, @%s, @%s", fall, l)
	}
	b.block(fall)
}

func (b *qbeBackend) BranchIfZero(l codegen.Label) {
	b.branch(l, false)
}

func (b *qbeBackend) BranchIfNonZero(l codegen.Label) {
	b.branch(l, true)
}

func (b *qbeBackend) Jump(l codegen.Label) {
	b.depths[l] = b.depth
	b.inst("jmp @%s", l)
	b.cutting = true
}

// PlaceLabel starts a block. The operand depth is the one recorded by the
// branches into it, which differs from the fallthrough path after a jump.
func (b *qbeBackend) PlaceLabel(l codegen.Label) {
	if d, ok := b.depths[l]; ok {
		b.depth = d
	}
	b.block(l.String())
}

func (b *qbeBackend) Call(fn *resolver.Function) {
	b.inst("call %s()", funcName(fn.Name))
}

func (b *qbeBackend) Dump() {
	b.inst("call $printf(l %s, ..., l %s)", dumpFormat, b.pop())
}

// Exit calls libc exit so buffered dump output is flushed
func (b *qbeBackend) Exit() {
	t := b.pop()
	b.inst("%s =l and %s, 255", t, t)
	b.inst("call $exit(w %s)", t)
}
