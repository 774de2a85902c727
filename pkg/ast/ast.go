// Package ast defines the syntax tree produced by the parser.
//
// The tree is immutable after parsing except for the Binding fields, which
// the resolver fills in exactly once.
package ast

import (
	"kiln/pkg/lexer"
)

type Node interface {
	Position() lexer.Position
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

type BindingKind int

const (
	Unresolved BindingKind = iota
	BindLocal
	BindFunc
)

// Binding is the resolved identity of a name. Locals use Slot (index into the
// function's frame) and Depth (scope nesting); functions use Func (index into
// the program's function table).
type Binding struct {
	Kind  BindingKind
	Slot  int
	Depth int
	Func  int
}

type Program struct {
	Funcs []*FuncDecl
}

type FuncDecl struct {
	Pos  lexer.Position
	Name string
	Body *Block
}

func (f *FuncDecl) Position() lexer.Position { return f.Pos }

type Block struct {
	Pos   lexer.Position // opening brace
	End   lexer.Position // closing brace
	Stmts []Stmt
}

func (b *Block) Position() lexer.Position { return b.Pos }

// Statements

type LetDecl struct {
	Pos     lexer.Position
	Name    string
	Init    Expr // nil when the variable starts at 0
	Binding Binding
}

type Assign struct {
	Pos     lexer.Position
	Name    string
	Value   Expr
	Binding Binding
}

type If struct {
	Pos  lexer.Position
	Cond Expr
	Then *Block
	Else *Block // nil without else
}

type Dump struct {
	Pos   lexer.Position
	Value Expr
}

type Exit struct {
	Pos   lexer.Position
	Value Expr
}

type ExprStmt struct {
	Pos  lexer.Position
	Call *Call
}

func (s *LetDecl) Position() lexer.Position  { return s.Pos }
func (s *Assign) Position() lexer.Position   { return s.Pos }
func (s *If) Position() lexer.Position       { return s.Pos }
func (s *Dump) Position() lexer.Position     { return s.Pos }
func (s *Exit) Position() lexer.Position     { return s.Pos }
func (s *ExprStmt) Position() lexer.Position { return s.Pos }

func (*LetDecl) stmtNode()  {}
func (*Assign) stmtNode()   {}
func (*If) stmtNode()       {}
func (*Dump) stmtNode()     {}
func (*Exit) stmtNode()     {}
func (*ExprStmt) stmtNode() {}

// Expressions

type IntLiteral struct {
	Pos   lexer.Position
	Value int64
}

type Identifier struct {
	Pos     lexer.Position
	Name    string
	Binding Binding
}

type Unary struct {
	Pos lexer.Position
	Op  Operator
	X   Expr
}

type Binary struct {
	Pos   lexer.Position // operator position
	Op    Operator
	Left  Expr
	Right Expr
}

type Call struct {
	Pos     lexer.Position
	Name    string
	Binding Binding
}

type Grouping struct {
	Pos lexer.Position
	X   Expr
}

func (e *IntLiteral) Position() lexer.Position { return e.Pos }
func (e *Identifier) Position() lexer.Position { return e.Pos }
func (e *Unary) Position() lexer.Position      { return e.Pos }
func (e *Binary) Position() lexer.Position     { return e.Pos }
func (e *Call) Position() lexer.Position       { return e.Pos }
func (e *Grouping) Position() lexer.Position   { return e.Pos }

func (*IntLiteral) exprNode() {}
func (*Identifier) exprNode() {}
func (*Unary) exprNode()      {}
func (*Binary) exprNode()     {}
func (*Call) exprNode()       {}
func (*Grouping) exprNode()   {}
