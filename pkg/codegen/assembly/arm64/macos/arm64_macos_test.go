package arm64_macos_test

import (
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"kiln/pkg/ast"
	"kiln/pkg/codegen"
	"kiln/pkg/codegen/assembly"
	arm64_macos "kiln/pkg/codegen/assembly/arm64/macos"
	"kiln/pkg/parser"
	"kiln/pkg/resolver"
)

func generate(t *testing.T, src, output string) assembly.Assembly {
	t.Helper()

	tree, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	prog, err := resolver.Resolve(tree)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	asm := arm64_macos.NewArm64Macos(prog, output)
	if err := asm.Generate(); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return asm
}

func TestGenerate(t *testing.T) {
	src := `
func main {
	let x = -7000;
	if x < 0 || x == 3 {
		dump x;
	}
	exit 300;
}`
	code := generate(t, src, "out").GetCode()

	for _, want := range []string{
		"\t.globl _main\n",
		"_fn_main:\n\tstp\tX29, X30, [SP, #-16]!\n\tmov\tX29, SP\n\tsub\tSP, SP, #16\n",
		"\tmov\tX0, #7000\n",
		"\tneg\tX0, X0\n",
		"\tstur\tX0, [X29, #-8]\n",
		"\tldur\tX0, [X29, #-8]\n",
		"\tcmp\tX0, X1\n\tcset\tX0, lt\n",
		"\tcbnz\tX0, Ltrue_3\n",
		"\tcbz\tX0, Lelse_1\n",
		"\tbl\t_printf\n",
		"\tand\tX0, X0, #255\n\tbl\t_exit\n",
		"_main:\n\tstp\tX29, X30, [SP, #-16]!\n\tmov\tX29, SP\n\tbl\t_fn_main\n\tmov\tX0, #0\n",
		"\t.section\t__TEXT,__cstring\n__kiln_printf_int:\n\t.asciz\t\"%lld\\n\"\n",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated code does not contain %q\n%s", want, code)
		}
	}

	if n := strings.Count(code, "__kiln_printf_int:"); n != 1 {
		t.Errorf("format string emitted %d times", n)
	}
}

func TestLargeImmediates(t *testing.T) {
	code := generate(t, "func main { dump 81985529216486895; dump 65536; }", "out").GetCode()

	for _, want := range []string{
		// 0x0123456789abcdef
		"\tmovz\tX0, #52719\n\tmovk\tX0, #35243, lsl #16\n\tmovk\tX0, #17767, lsl #32\n\tmovk\tX0, #291, lsl #48\n",
		// 0x10000: zero low halfword, only one movk
		"\tmovz\tX0, #0\n\tmovk\tX0, #1, lsl #16\n\tstr",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated code does not contain %q", want)
		}
	}
}

func TestDeepSlots(t *testing.T) {
	var src strings.Builder
	src.WriteString("func main {")
	for i := range 40 {
		src.WriteString(" let v" + string(rune('a'+i%26)) + string(rune('a'+i/26)) + ";")
	}
	src.WriteString(" dump vnb; }")

	code := generate(t, src.String(), "out").GetCode()
	// the 40th slot lives 320 bytes below the frame pointer
	if !strings.Contains(code, "\tmov\tX9, #320\n\tsub\tX9, X29, X9\n\tldr\tX0, [X9]\n") {
		t.Errorf("deep slot not addressed through X9\n%s", code)
	}
}

func TestBuildAndRun(t *testing.T) {
	if runtime.GOOS != "darwin" || runtime.GOARCH != "arm64" {
		t.Skip("needs an Apple silicon host")
	}
	if !assembly.Available("as", "clang") {
		t.Skip("as or clang not found")
	}
	t.Setenv("KILN_NO_CACHE", "1")

	exe := filepath.Join(t.TempDir(), "program")
	asm := generate(t, "func main { dump -5; dump 1 + 2 * 3; }", exe)
	if err := asm.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	out, err := exec.Command(exe).Output()
	if err != nil {
		t.Fatalf("running program: %v", err)
	}
	if got, want := string(out), "-5\n7\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestUnsupportedOperatorFailsGenerate(t *testing.T) {
	tree, err := parser.Parse("func main { dump 6 * 7; }")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	prog, err := resolver.Resolve(tree)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	tree.Funcs[0].Body.Stmts[0].(*ast.Dump).Value.(*ast.Binary).Op = ast.OpNop

	err = arm64_macos.NewArm64Macos(prog, "out").Generate()
	var internal *codegen.InternalError
	if !errors.As(err, &internal) {
		t.Fatalf("expected InternalError, got %v", err)
	}
}
