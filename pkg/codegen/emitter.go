package codegen

import (
	"fmt"

	"kiln/pkg/ast"
	"kiln/pkg/resolver"
)

// Label names a jump target. IDs are unique across the whole program, so a
// target may format a label however its assembler requires.
type Label struct {
	Kind string
	ID   int
}

func (l Label) String() string {
	return fmt.Sprintf("%s_%d", l.Kind, l.ID)
}

// Emitter is a stack machine a target implements. Values live on a working
// stack: every operation pops its operands and pushes its result.
type Emitter interface {
	BeginFunction(fn *resolver.Function)
	EndFunction(fn *resolver.Function)

	PushInt(v int64)
	Load(slot resolver.Slot)  // push the slot's value
	Store(slot resolver.Slot) // pop into the slot
	Negate()
	Binary(op ast.Operator) // pop right, pop left, push left op right

	BranchIfZero(l Label)    // pop, jump when zero
	BranchIfNonZero(l Label) // pop, jump when nonzero
	Jump(l Label)
	PlaceLabel(l Label)

	Call(fn *resolver.Function)
	Dump() // pop and print as a decimal line
	Exit() // pop and terminate the process with its low 8 bits
}
