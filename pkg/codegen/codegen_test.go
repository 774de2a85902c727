package codegen_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"kiln/pkg/ast"
	"kiln/pkg/codegen"
	"kiln/pkg/interpreter"
	"kiln/pkg/parser"
	"kiln/pkg/resolver"
)

func resolve(t *testing.T, src string) *resolver.Program {
	t.Helper()

	tree, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	prog, err := resolver.Resolve(tree)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return prog
}

func record(t *testing.T, src string) []codegen.Instruction {
	t.Helper()

	pb, err := codegen.Record(resolve(t, src))
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	return pb
}

func listing(pb []codegen.Instruction) []string {
	out := make([]string, len(pb))
	for i, in := range pb {
		out[i] = in.String()
	}
	return out
}

func TestShortCircuitLowering(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			"and",
			"func main { dump 0 && (1 / 0); }",
			[]string{
				"(func, main)",
				"(push, 0)",
				"(jmpf, false_1)",
				"(push, 1)",
				"(push, 0)",
				"(binop, /)",
				"(jmpf, false_1)",
				"(push, 1)",
				"(jmp, end_2)",
				"(label, false_1)",
				"(push, 0)",
				"(label, end_2)",
				"(dump)",
				"(end)",
			},
		},
		{
			"or",
			"func main { dump 1 || 2; }",
			[]string{
				"(func, main)",
				"(push, 1)",
				"(jmpt, true_1)",
				"(push, 2)",
				"(jmpt, true_1)",
				"(push, 0)",
				"(jmp, end_2)",
				"(label, true_1)",
				"(push, 1)",
				"(label, end_2)",
				"(dump)",
				"(end)",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if diff := cmp.Diff(test.expected, listing(record(t, test.input))); diff != "" {
				t.Errorf("lowering mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStatementLowering(t *testing.T) {
	src := `
func main {
	let x;
	let y = -x;
	if x < y {
		x = 2;
	} else {
		helper();
	}
	exit helper();
}

func helper {
}`
	expected := []string{
		"(func, main)",
		"(push, 0)",
		"(store, 0)",
		"(load, 0)",
		"(neg)",
		"(store, 1)",
		"(load, 0)",
		"(load, 1)",
		"(binop, <)",
		"(jmpf, else_1)",
		"(push, 2)",
		"(store, 0)",
		"(jmp, end_2)",
		"(label, else_1)",
		"(call, helper)",
		"(label, end_2)",
		"(call, helper)",
		"(push, 0)",
		"(exit)",
		"(end)",
		"(func, helper)",
		"(end)",
	}

	if diff := cmp.Diff(expected, listing(record(t, src))); diff != "" {
		t.Errorf("lowering mismatch (-want +got):\n%s", diff)
	}
}

func TestLabelsAreUnique(t *testing.T) {
	src := `
func main {
	if 1 && 2 { if 3 || 4 { dump 1; } }
	if 5 { } else { dump 0 && 1; }
}
func other {
	if 1 { }
}`
	seen := make(map[codegen.Label]bool)
	for _, in := range record(t, src) {
		if in.Op != codegen.OpLabel {
			continue
		}
		l := in.Arg.(codegen.Label)
		if seen[l] {
			t.Errorf("label %s placed twice", l)
		}
		seen[l] = true
	}
	if len(seen) != 14 {
		t.Errorf("expected 14 labels, got %d", len(seen))
	}
}

func TestUnresolvedProgramIsInternalError(t *testing.T) {
	prog := resolve(t, "func main { let x = 1; dump x; }")
	// detach the use from its slot, as if resolution had been skipped
	dump := prog.Entry.Decl.Body.Stmts[1].(*ast.Dump)
	dump.Value.(*ast.Identifier).Binding = ast.Binding{}

	_, err := codegen.Record(prog)
	var internal *codegen.InternalError
	if !errors.As(err, &internal) {
		t.Fatalf("expected InternalError, got %v", err)
	}
	if !strings.Contains(internal.Error(), "internal compiler error") {
		t.Errorf("unexpected message %q", internal.Error())
	}
}

func TestUnsupportedOperatorIsInternalError(t *testing.T) {
	prog := resolve(t, "func main { dump 1 + 2; }")
	sum := prog.Entry.Decl.Body.Stmts[0].(*ast.Dump).Value.(*ast.Binary)
	sum.Op = ast.OpNop

	rec := &codegen.Recorder{}
	err := codegen.Lower(prog, rec)

	var internal *codegen.InternalError
	if !errors.As(err, &internal) {
		t.Fatalf("expected InternalError, got %v", err)
	}
	if internal.Pos.Line != 1 || internal.Pos.Column != 20 {
		t.Errorf("expected position 1:20, got %s", internal.Pos)
	}
	for _, instr := range rec.Program() {
		if instr.Op == codegen.OpBinary {
			t.Errorf("operator reached the emitter: %s", instr)
		}
	}
}

// vm executes a recorded program block, so lowering can be checked against
// the interpreter without an assembler.
type vm struct {
	pb     []codegen.Instruction
	funcs  map[string]int
	labels map[codegen.Label]int
	slots  map[string]int
	out    bytes.Buffer
}

type vmExit struct{ code int }

func (e vmExit) Error() string { return fmt.Sprintf("exit %d", e.code) }

func newVM(prog *resolver.Program, pb []codegen.Instruction) *vm {
	m := &vm{pb: pb, funcs: map[string]int{}, labels: map[codegen.Label]int{}, slots: map[string]int{}}
	for i, in := range pb {
		switch in.Op {
		case codegen.OpFunc:
			m.funcs[in.Arg.(string)] = i
		case codegen.OpLabel:
			m.labels[in.Arg.(codegen.Label)] = i
		}
	}
	for _, fn := range prog.Funcs {
		m.slots[fn.Name] = len(fn.Slots)
	}
	return m
}

func (m *vm) run() (int, error) {
	err := m.call("main")
	var exit vmExit
	if errors.As(err, &exit) {
		return exit.code, nil
	}
	return 0, err
}

func (m *vm) call(name string) error {
	frame := make([]int64, m.slots[name])
	var stack []int64
	pop := func() int64 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	for pc := m.funcs[name] + 1; ; pc++ {
		in := m.pb[pc]
		switch in.Op {
		case codegen.OpEnd:
			if len(stack) != 0 {
				return fmt.Errorf("%s: %d values left on the stack", name, len(stack))
			}
			return nil
		case codegen.OpPush:
			stack = append(stack, in.Arg.(int64))
		case codegen.OpLoad:
			stack = append(stack, frame[in.Arg.(int)])
		case codegen.OpStore:
			frame[in.Arg.(int)] = pop()
		case codegen.OpNeg:
			stack = append(stack, -pop())
		case codegen.OpBinary:
			r, l := pop(), pop()
			stack = append(stack, binary(in.Arg.(ast.Operator), l, r))
		case codegen.OpJmpf:
			if pop() == 0 {
				pc = m.labels[in.Arg.(codegen.Label)]
			}
		case codegen.OpJmpt:
			if pop() != 0 {
				pc = m.labels[in.Arg.(codegen.Label)]
			}
		case codegen.OpJmp:
			pc = m.labels[in.Arg.(codegen.Label)]
		case codegen.OpLabel:
		case codegen.OpCall:
			if err := m.call(in.Arg.(string)); err != nil {
				return err
			}
		case codegen.OpDump:
			fmt.Fprintf(&m.out, "%d\n", pop())
		case codegen.OpExit:
			return vmExit{code: int(pop() & 0xff)}
		default:
			return fmt.Errorf("unknown op %s", in.Op)
		}
	}
}

func binary(op ast.Operator, l, r int64) int64 {
	b := func(v bool) int64 {
		if v {
			return 1
		}
		return 0
	}
	switch op {
	case ast.OpAdd:
		return l + r
	case ast.OpSub:
		return l - r
	case ast.OpMul:
		return l * r
	case ast.OpDiv:
		return l / r
	case ast.OpEq:
		return b(l == r)
	case ast.OpNeq:
		return b(l != r)
	case ast.OpLt:
		return b(l < r)
	case ast.OpLe:
		return b(l <= r)
	case ast.OpGt:
		return b(l > r)
	default:
		return b(l >= r)
	}
}

func TestLoweringMatchesInterpreter(t *testing.T) {
	programs := []string{
		"func main { dump 1 + 2 * 3; dump 10 / 2 * (1 + 3); dump 10 - 3 - 2; }",
		"func main { if 0 && (1 / 0) { dump 1; } if 1 || (1 / 0) { dump 2; } }",
		"func main { let x = 1; if 1 { let x = 2; dump x; } dump x; }",
		"func main { exit 300; }",
		"func main { later(); dump 2; }\nfunc later { dump 1; }",
		"func main { let a = 3; let b; b = a * a - 1; if b >= 8 && b != 9 { dump b; } else { dump 0 - b; } }",
		"func main { dump (1 < 2) + (2 <= 2) + (3 > 4) + (5 == 5); dump -(-7) / 2; }",
		"func main { a(); dump 9; }\nfunc a { b(); exit 12; }\nfunc b { dump 1 || c(); }\nfunc c { exit 99; }",
	}

	for _, src := range programs {
		prog := resolve(t, src)

		var want bytes.Buffer
		wantCode, err := interpreter.NewInterpreter(prog, interpreter.WithWriter(&want)).Run()
		if err != nil {
			t.Fatalf("%q: interpreter failed: %v", src, err)
		}

		pb, err := codegen.Record(prog)
		if err != nil {
			t.Fatalf("%q: Record failed: %v", src, err)
		}
		m := newVM(prog, pb)
		gotCode, err := m.run()
		if err != nil {
			t.Fatalf("%q: vm failed: %v", src, err)
		}

		if diff := cmp.Diff(want.String(), m.out.String()); diff != "" {
			t.Errorf("%q: output mismatch (-interpreter +lowered):\n%s", src, diff)
		}
		if gotCode != wantCode {
			t.Errorf("%q: exit code %d, interpreter %d", src, gotCode, wantCode)
		}
	}
}
