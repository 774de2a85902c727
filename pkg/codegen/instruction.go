package codegen

import (
	"fmt"

	"kiln/pkg/ast"
	"kiln/pkg/resolver"
)

type Operation string

// List of stack machine operations
const (
	OpFunc   Operation = "func"
	OpEnd    Operation = "end"
	OpPush   Operation = "push"
	OpLoad   Operation = "load"
	OpStore  Operation = "store"
	OpNeg    Operation = "neg"
	OpBinary Operation = "binop"
	OpJmpf   Operation = "jmpf"
	OpJmpt   Operation = "jmpt"
	OpJmp    Operation = "jmp"
	OpLabel  Operation = "label"
	OpCall   Operation = "call"
	OpDump   Operation = "dump"
	OpExit   Operation = "exit"
)

type Instruction struct {
	Op  Operation
	Arg any // int64, slot index, ast.Operator, Label or function name
}

// String returns a string representation of the instruction
func (i Instruction) String() string {
	if i.Arg == nil {
		return fmt.Sprintf("(%s)", i.Op)
	}

	return fmt.Sprintf("(%s, %v)", i.Op, i.Arg)
}

// Recorder is an Emitter that keeps the program block as a list of
// instructions instead of producing assembly.
type Recorder struct {
	pb []Instruction
}

// Record lowers prog and returns its program block
func Record(prog *resolver.Program) ([]Instruction, error) {
	r := &Recorder{}
	if err := Lower(prog, r); err != nil {
		return nil, err
	}

	return r.Program(), nil
}

// Program returns the recorded program block
func (r *Recorder) Program() []Instruction {
	return r.pb
}

func (r *Recorder) add(op Operation, arg any) {
	r.pb = append(r.pb, Instruction{Op: op, Arg: arg})
}

func (r *Recorder) BeginFunction(fn *resolver.Function) { r.add(OpFunc, fn.Name) }
func (r *Recorder) EndFunction(fn *resolver.Function)   { r.add(OpEnd, nil) }
func (r *Recorder) PushInt(v int64)                     { r.add(OpPush, v) }
func (r *Recorder) Load(slot resolver.Slot)             { r.add(OpLoad, slot.Index) }
func (r *Recorder) Store(slot resolver.Slot)            { r.add(OpStore, slot.Index) }
func (r *Recorder) Negate()                             { r.add(OpNeg, nil) }
func (r *Recorder) Binary(op ast.Operator)              { r.add(OpBinary, op) }
func (r *Recorder) BranchIfZero(l Label)                { r.add(OpJmpf, l) }
func (r *Recorder) BranchIfNonZero(l Label)             { r.add(OpJmpt, l) }
func (r *Recorder) Jump(l Label)                        { r.add(OpJmp, l) }
func (r *Recorder) PlaceLabel(l Label)                  { r.add(OpLabel, l) }
func (r *Recorder) Call(fn *resolver.Function)          { r.add(OpCall, fn.Name) }
func (r *Recorder) Dump()                               { r.add(OpDump, nil) }
func (r *Recorder) Exit()                               { r.add(OpExit, nil) }
