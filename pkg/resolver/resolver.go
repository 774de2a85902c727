// Package resolver binds every name in a parsed program to its declaration
// and lays out each function's stack frame. Both backends consume its output,
// so they agree on scoping by construction.
package resolver

import (
	"kiln/pkg/ast"
	"kiln/pkg/lexer"
)

const (
	EntryName      = "main" // function execution starts at
	SlotSize       = 8      // bytes per variable slot
	StackAlignment = 16     // frame sizes are rounded up to this
)

// Slot is one declared variable of a function, in declaration order.
type Slot struct {
	Index  int
	Name   string
	Depth  int            // scope depth, 0 is the function body
	Offset int            // bytes below the frame base pointer
	Pos    lexer.Position // declaration
}

type Function struct {
	Index     int
	Name      string
	Decl      *ast.FuncDecl
	Slots     []Slot
	FrameSize int
}

// Program is a resolved program: the AST with bindings attached plus the
// function table and frame layouts.
type Program struct {
	AST   *ast.Program
	Funcs []*Function
	Entry *Function

	byName map[string]*Function
}

// Lookup finds a function by name
func (p *Program) Lookup(name string) (*Function, bool) {
	fn, ok := p.byName[name]
	return fn, ok
}

// Callee returns the function a call binding refers to
func (p *Program) Callee(b ast.Binding) *Function {
	if b.Kind != ast.BindFunc || b.Func < 0 || b.Func >= len(p.Funcs) {
		return nil
	}
	return p.Funcs[b.Func]
}

type scope struct {
	parent int            // index into the arena, -1 for the function body
	depth  int            // nesting level
	names  map[string]int // name -> slot index
}

type Resolver struct {
	prog    *Program
	scopes  []scope // arena of every scope of the current function
	current int     // innermost scope, -1 outside any
	fn      *Function
}

// Resolve binds all names of prog in place and computes frame layouts.
// It never executes code and stops at the first error.
func Resolve(prog *ast.Program) (*Program, error) {
	r := &Resolver{
		prog: &Program{
			AST:    prog,
			byName: make(map[string]*Function),
		},
		current: -1,
	}

	if err := r.collectFunctions(); err != nil {
		return nil, err
	}

	for _, fn := range r.prog.Funcs {
		if err := r.resolveFunction(fn); err != nil {
			return nil, err
		}
	}

	entry, ok := r.prog.byName[EntryName]
	if !ok {
		return nil, &Error{Kind: ErrMissingEntry, Name: EntryName, Pos: lexer.NewPosition(1, 1, 0)}
	}
	r.prog.Entry = entry

	return r.prog, nil
}

// collectFunctions is the first pass: the flat function namespace, so calls
// may refer to functions declared later
func (r *Resolver) collectFunctions() error {
	for _, decl := range r.prog.AST.Funcs {
		if prior, exists := r.prog.byName[decl.Name]; exists {
			return &Error{Kind: ErrRedeclaredFunction, Name: decl.Name, Pos: decl.Pos, Prior: prior.Decl.Pos}
		}

		fn := &Function{Index: len(r.prog.Funcs), Name: decl.Name, Decl: decl}
		r.prog.Funcs = append(r.prog.Funcs, fn)
		r.prog.byName[decl.Name] = fn
	}

	return nil
}

func (r *Resolver) resolveFunction(fn *Function) error {
	r.fn = fn
	r.scopes = r.scopes[:0]
	r.current = -1

	r.pushScope()
	if err := r.resolveStatements(fn.Decl.Body.Stmts); err != nil {
		return err
	}
	r.popScope()

	fn.FrameSize = alignUp(len(fn.Slots)*SlotSize, StackAlignment)
	r.fn = nil

	return nil
}

func (r *Resolver) pushScope() {
	depth := 0
	if r.current >= 0 {
		depth = r.scopes[r.current].depth + 1
	}

	r.scopes = append(r.scopes, scope{parent: r.current, depth: depth, names: make(map[string]int)})
	r.current = len(r.scopes) - 1
}

func (r *Resolver) popScope() {
	r.current = r.scopes[r.current].parent
}

// declare adds name to the innermost scope
func (r *Resolver) declare(name string, pos lexer.Position) (ast.Binding, error) {
	sc := &r.scopes[r.current]
	if idx, exists := sc.names[name]; exists {
		return ast.Binding{}, &Error{Kind: ErrRedeclaredVariable, Name: name, Pos: pos, Prior: r.fn.Slots[idx].Pos}
	}

	slot := Slot{
		Index:  len(r.fn.Slots),
		Name:   name,
		Depth:  sc.depth,
		Offset: (len(r.fn.Slots) + 1) * SlotSize,
		Pos:    pos,
	}
	r.fn.Slots = append(r.fn.Slots, slot)
	sc.names[name] = slot.Index

	return ast.Binding{Kind: ast.BindLocal, Slot: slot.Index, Depth: slot.Depth}, nil
}

// lookup walks the scope chain outwards from the innermost scope
func (r *Resolver) lookup(name string, pos lexer.Position) (ast.Binding, error) {
	for i := r.current; i >= 0; i = r.scopes[i].parent {
		if idx, ok := r.scopes[i].names[name]; ok {
			return ast.Binding{Kind: ast.BindLocal, Slot: idx, Depth: r.scopes[i].depth}, nil
		}
	}

	return ast.Binding{}, &Error{Kind: ErrUndeclaredVariable, Name: name, Pos: pos}
}

func (r *Resolver) resolveBlock(b *ast.Block) error {
	r.pushScope()
	defer r.popScope()

	return r.resolveStatements(b.Stmts)
}

func (r *Resolver) resolveStatements(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := r.resolveStatement(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (r *Resolver) resolveStatement(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.LetDecl:
		// the initializer sees the enclosing binding, not the one being declared
		if s.Init != nil {
			if err := r.resolveExpr(s.Init); err != nil {
				return err
			}
		}
		b, err := r.declare(s.Name, s.Pos)
		if err != nil {
			return err
		}
		s.Binding = b

	case *ast.Assign:
		b, err := r.lookup(s.Name, s.Pos)
		if err != nil {
			return err
		}
		s.Binding = b
		return r.resolveExpr(s.Value)

	case *ast.If:
		if err := r.resolveExpr(s.Cond); err != nil {
			return err
		}
		if err := r.resolveBlock(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return r.resolveBlock(s.Else)
		}

	case *ast.Dump:
		return r.resolveExpr(s.Value)

	case *ast.Exit:
		return r.resolveExpr(s.Value)

	case *ast.ExprStmt:
		return r.resolveExpr(s.Call)
	}

	return nil
}

func (r *Resolver) resolveExpr(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return nil

	case *ast.Identifier:
		b, err := r.lookup(e.Name, e.Pos)
		if err != nil {
			return err
		}
		e.Binding = b

	case *ast.Unary:
		return r.resolveExpr(e.X)

	case *ast.Binary:
		if err := r.resolveExpr(e.Left); err != nil {
			return err
		}
		return r.resolveExpr(e.Right)

	case *ast.Grouping:
		return r.resolveExpr(e.X)

	case *ast.Call:
		fn, ok := r.prog.byName[e.Name]
		if !ok {
			return &Error{Kind: ErrUndeclaredFunction, Name: e.Name, Pos: e.Pos}
		}
		e.Binding = ast.Binding{Kind: ast.BindFunc, Func: fn.Index}
	}

	return nil
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
