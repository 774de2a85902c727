package qbe_test

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
	"kiln/pkg/codegen/assembly/qbe"
	"kiln/pkg/parser"
	"kiln/pkg/resolver"
)

type irSource interface {
	IR() string
}

func generate(t *testing.T, src, output string) assembly.Assembly {
	t.Helper()

	if runtime.GOOS == "windows" && !assembly.Available("qbe") {
		t.Skip("qbe not found")
	}

	tree, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	prog, err := resolver.Resolve(tree)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	asm := qbe.NewQBEFor(prog, output, "amd64_sysv")
	if err := asm.Generate(); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return asm
}

func TestGenerateIR(t *testing.T) {
	src := `
func main {
	let x = 7;
	dump x / 2;
	helper();
	exit x;
}

func helper {
}`
	asm := generate(t, src, "out")
	ir := asm.(irSource).IR()

	for _, want := range []string{
		"function $fn_main() {\n@start\n\t%v0 =l alloc8 8\n",
		"\t%s0 =l copy 7\n\tstorel %s0, %v0\n",
		"\t%s0 =l loadl %v0\n\t%s1 =l copy 2\n",
		"\t%c =w ceql %s1, -1\n",
		"\t%s0 =l div %s0, %s1\n",
		"\tcall $printf(l $kiln_fmt, ..., l %s0)\n",
		"\tcall $fn_helper()\n",
		"\t%s0 =l and %s0, 255\n\tcall $exit(w %s0)\n",
		"function $fn_helper() {\n@start\n\tret\n}\n",
		"export function w $main() {\n@start\n\tcall $fn_main()\n\tret 0\n}\n",
		"data $kiln_fmt = { b \"%lld\\n\", b 0 }\n",
	} {
		if !strings.Contains(ir, want) {
			t.Errorf("IR does not contain %q\n%s", want, ir)
		}
	}

	code := asm.GetCode()
	if !strings.Contains(code, "main:") || !strings.Contains(code, "fn_main:") {
		t.Errorf("assembly is missing function symbols\n%s", code)
	}
}

func TestShortCircuitTemporaries(t *testing.T) {
	ir := generate(t, "func main { dump 1 + (0 && 5); }", "out").(irSource).IR()

	// both paths into the end block leave the result in %s1
	for _, want := range []string{
		"\t%s0 =l copy 1\n\t%s1 =l copy 0\n\t%c =w cnel %s1, 0\n\tjnz %c, @fall_1, @false_1\n@fall_1\n",
		"\t%s1 =l copy 1\n\tjmp @end_2\n@false_1\n\t%s1 =l copy 0\n@end_2\n\t%s0 =l add %s0, %s1\n",
	} {
		if !strings.Contains(ir, want) {
			t.Errorf("IR does not contain %q\n%s", want, ir)
		}
	}
}

func TestBuildAndRun(t *testing.T) {
	if runtime.GOOS != "linux" || runtime.GOARCH != "amd64" {
		t.Skip("needs an x86-64 Linux host")
	}
	if !assembly.Available("cc") {
		t.Skip("cc not found")
	}
	t.Setenv("KILN_NO_CACHE", "1")

	exe := filepath.Join(t.TempDir(), "program")
	asm := generate(t, "func main { dump -9223372036854775808 / -1; dump 10 - 3 - 2; if 0 || 1 { exit 300; } }", exe)
	if err := asm.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	out, err := exec.Command(exe).Output()
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected a nonzero exit, got %v", err)
	}
	if got, want := string(out), "-9223372036854775808\n5\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if exitErr.ExitCode() != 44 {
		t.Errorf("expected exit code 44, got %d", exitErr.ExitCode())
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

	err = qbe.NewQBEFor(prog, "out", "amd64_sysv").Generate()
	var internal *codegen.InternalError
	if !errors.As(err, &internal) {
		t.Fatalf("expected InternalError, got %v", err)
	}
}
