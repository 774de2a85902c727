package parser_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"kiln/pkg/ast"
	"kiln/pkg/lexer"
	"kiln/pkg/parser"
)

// parseExpr wraps src in `func main { dump <src>; }` and returns the dumped expression
func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()

	prog, err := parser.Parse("func main { dump " + src + "; }")
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}

	dump, ok := prog.Funcs[0].Body.Stmts[0].(*ast.Dump)
	if !ok {
		t.Fatalf("expected dump statement, got %T", prog.Funcs[0].Body.Stmts[0])
	}
	return dump.Value
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"10 / 2 * (1 + 3)", "(* (/ 10 2) (+ 1 3))"},
		{"10 - 3 - 2", "(- (- 10 3) 2)"},
		{"1 || 0 && 0", "(|| 1 (&& 0 0))"},
		{"1 && 2 || 3 && 4", "(|| (&& 1 2) (&& 3 4))"},
		{"a == b < c", "(== a (< b c))"},
		{"a < b == c >= d", "(== (< a b) (>= c d))"},
		{"a + b > c * d", "(> (+ a b) (* c d))"},
		{"-a * b", "(* (- a) b)"},
		{"- -3", "(- (- 3))"},
		{"a - -b", "(- a (- b))"},
		{"f() + 1", "(+ f() 1)"},
		{"a != b <= c", "(!= a (<= b c))"},
		{"(((1)))", "1"},
		{"0 && (1 / 0)", "(&& 0 (/ 1 0))"},
	}

	for _, test := range tests {
		got := ast.ExprString(parseExpr(t, test.input))
		if got != test.expected {
			t.Errorf("%q: expected %s, got %s", test.input, test.expected, got)
		}
	}
}

func TestStatements(t *testing.T) {
	src := `
func main {
	let x;
	let y = 2;
	x = y * 3;
	if x > 4 {
		dump x;
	} else if x == 0 {
		exit 1;
	} else {
		helper();
	}
	exit 300;
}

func helper {
}
`
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var out bytes.Buffer
	ast.Fprint(&out, prog)

	expected := `func main
    let x
    let y = 2
    x = (* y 3)
    if (> x 4)
        dump x
    else
        if (== x 0)
            exit 1
        else
            helper()
    exit 300
func helper
`
	if diff := cmp.Diff(expected, out.String()); diff != "" {
		t.Errorf("program outline mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyProgram(t *testing.T) {
	prog, err := parser.Parse("// nothing here\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(prog.Funcs) != 0 {
		t.Errorf("expected no functions, got %d", len(prog.Funcs))
	}
}

func TestIntegerRange(t *testing.T) {
	lit, ok := parseExpr(t, "-9223372036854775808").(*ast.Unary)
	if !ok {
		t.Fatal("expected unary minus")
	}
	if v := lit.X.(*ast.IntLiteral).Value; v != -9223372036854775808 {
		t.Errorf("expected wrap to MinInt64, got %d", v)
	}

	_, err := parser.Parse("func main { dump 9223372036854775809; }")
	var parseErr *parser.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    lexer.TokenType
		line     int
		col      int
	}{
		{"missing semicolon", "func main { dump 1 }", ";", lexer.RBRACE, 1, 20},
		{"missing brace", "func main { dump 1;", "}", lexer.EOF, 1, 20},
		{"statement at top level", "dump 1;", "func", lexer.DUMP, 1, 1},
		{"missing expression", "func main { let x = ; }", "expression", lexer.SEMICOLON, 1, 21},
		{"call with arguments", "func main { f(1); }", ")", lexer.NUM, 1, 15},
		{"parameter list", "func main() { }", "{", lexer.LPAREN, 1, 10},
		{"bare identifier", "func main { x; }", "= or (", lexer.SEMICOLON, 1, 14},
		{"reserved elif", "func main { if 1 { } elif 2 { } }", "`else if` (`elif` is reserved)", lexer.ELIF, 1, 22},
		{"keyword as name", "func main { let if = 1; }", "identifier", lexer.IF, 1, 17},
		{"unclosed paren", "func main { dump (1 + 2; }", ")", lexer.SEMICOLON, 1, 24},
		{"nested func", "func main { func inner { } }", "statement", lexer.FUNC, 1, 13},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			prog, err := parser.Parse(test.input)
			if prog != nil {
				t.Errorf("expected no partial program, got %v", prog)
			}

			var parseErr *parser.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if parseErr.Expected != test.expected {
				t.Errorf("expected %q, got %q", test.expected, parseErr.Expected)
			}
			if parseErr.Found.Type != test.found {
				t.Errorf("expected found token %s, got %s", test.found, parseErr.Found.Type)
			}
			if parseErr.Pos.Line != test.line || parseErr.Pos.Column != test.col {
				t.Errorf("expected position %d:%d, got %s", test.line, test.col, parseErr.Pos)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := parser.Parse("func main {\n  dump 1\n}")
	if err == nil {
		t.Fatal("expected an error")
	}

	msg := err.Error()
	for _, want := range []string{"3:1", "Missing semicolon", "expected ;", "found `}`"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not contain %q", msg, want)
		}
	}
}

func TestLexErrorSurfacesBeforeSyntaxErrors(t *testing.T) {
	// the syntax error (missing ';') comes first in the source, the lex error later
	_, err := parser.Parse("func main { dump 1 }\nfunc other { dump # ; }")

	var lexErr *lexer.LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected LexError, got %v", err)
	}
	if lexErr.Char != '#' || lexErr.Pos.Line != 2 {
		t.Errorf("unexpected lex error %v", lexErr)
	}
}
