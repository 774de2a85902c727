package ast

import (
	"fmt"
	"io"
	"strings"
)

// ExprString renders an expression fully parenthesised, e.g. (+ 1 (* 2 3))
func ExprString(e Expr) string {
	switch e := e.(type) {
	case *IntLiteral:
		return fmt.Sprintf("%d", e.Value)
	case *Identifier:
		return e.Name
	case *Unary:
		return fmt.Sprintf("(- %s)", ExprString(e.X))
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", e.Op, ExprString(e.Left), ExprString(e.Right))
	case *Call:
		return e.Name + "()"
	case *Grouping:
		return ExprString(e.X)
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

// Fprint writes an indented outline of the program
func Fprint(w io.Writer, prog *Program) {
	for _, fn := range prog.Funcs {
		fmt.Fprintf(w, "func %s\n", fn.Name)
		fprintBlock(w, fn.Body, 1)
	}
}

func fprintBlock(w io.Writer, b *Block, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, s := range b.Stmts {
		switch s := s.(type) {
		case *LetDecl:
			if s.Init == nil {
				fmt.Fprintf(w, "%slet %s\n", indent, s.Name)
			} else {
				fmt.Fprintf(w, "%slet %s = %s\n", indent, s.Name, ExprString(s.Init))
			}
		case *Assign:
			fmt.Fprintf(w, "%s%s = %s\n", indent, s.Name, ExprString(s.Value))
		case *If:
			fmt.Fprintf(w, "%sif %s\n", indent, ExprString(s.Cond))
			fprintBlock(w, s.Then, depth+1)
			if s.Else != nil {
				fmt.Fprintf(w, "%selse\n", indent)
				fprintBlock(w, s.Else, depth+1)
			}
		case *Dump:
			fmt.Fprintf(w, "%sdump %s\n", indent, ExprString(s.Value))
		case *Exit:
			fmt.Fprintf(w, "%sexit %s\n", indent, ExprString(s.Value))
		case *ExprStmt:
			fmt.Fprintf(w, "%s%s\n", indent, ExprString(s.Call))
		}
	}
}
