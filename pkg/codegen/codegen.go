// Package codegen lowers a resolved program onto a target-neutral stack
// machine. Targets implement Emitter and turn each operation into assembly.
package codegen

import (
	"kiln/pkg/ast"
	"kiln/pkg/resolver"
)

// Label kinds
const (
	LabelElse  = "else"
	LabelEnd   = "end"
	LabelFalse = "false"
	LabelTrue  = "true"
)

type Codegen struct {
	prog   *resolver.Program
	e      Emitter
	fn     *resolver.Function // function being lowered
	labels int                // label counter, never reset
}

// Lower walks every function once, in declaration order, driving e.
func Lower(prog *resolver.Program, e Emitter) error {
	c := &Codegen{prog: prog, e: e}

	for _, fn := range prog.Funcs {
		if err := c.lowerFunction(fn); err != nil {
			return err
		}
	}

	return nil
}

func (c *Codegen) newLabel(kind string) Label {
	c.labels++
	return Label{Kind: kind, ID: c.labels}
}

func (c *Codegen) lowerFunction(fn *resolver.Function) error {
	c.fn = fn
	defer func() { c.fn = nil }()

	c.e.BeginFunction(fn)
	if err := c.lowerBlock(fn.Decl.Body); err != nil {
		return err
	}
	c.e.EndFunction(fn)

	return nil
}

func (c *Codegen) lowerBlock(b *ast.Block) error {
	for _, stmt := range b.Stmts {
		if err := c.lowerStatement(stmt); err != nil {
			return err
		}
	}

	return nil
}

// slot maps a local binding onto the current frame
func (c *Codegen) slot(node ast.Node, b ast.Binding) (resolver.Slot, error) {
	if b.Kind != ast.BindLocal || b.Slot < 0 || b.Slot >= len(c.fn.Slots) {
		return resolver.Slot{}, internalErrorf(node.Position(), "no frame slot for binding %+v in %s", b, c.fn.Name)
	}

	return c.fn.Slots[b.Slot], nil
}

func (c *Codegen) lowerStatement(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.LetDecl:
		slot, err := c.slot(s, s.Binding)
		if err != nil {
			return err
		}
		if s.Init == nil {
			c.e.PushInt(0)
		} else if err := c.lowerExpr(s.Init); err != nil {
			return err
		}
		c.e.Store(slot)

	case *ast.Assign:
		slot, err := c.slot(s, s.Binding)
		if err != nil {
			return err
		}
		if err := c.lowerExpr(s.Value); err != nil {
			return err
		}
		c.e.Store(slot)

	case *ast.If:
		return c.lowerIf(s)

	case *ast.Dump:
		if err := c.lowerExpr(s.Value); err != nil {
			return err
		}
		c.e.Dump()

	case *ast.Exit:
		if err := c.lowerExpr(s.Value); err != nil {
			return err
		}
		c.e.Exit()

	case *ast.ExprStmt:
		// the call's value is discarded, so it is never pushed
		return c.lowerCall(s.Call)

	default:
		return internalErrorf(stmt.Position(), "cannot lower statement %T", stmt)
	}

	return nil
}

// lowerIf branches to the else label on a zero condition; the then block
// jumps over the else block to the end label.
func (c *Codegen) lowerIf(s *ast.If) error {
	elseLabel := c.newLabel(LabelElse)
	endLabel := c.newLabel(LabelEnd)

	if err := c.lowerExpr(s.Cond); err != nil {
		return err
	}
	c.e.BranchIfZero(elseLabel)

	if err := c.lowerBlock(s.Then); err != nil {
		return err
	}
	c.e.Jump(endLabel)

	c.e.PlaceLabel(elseLabel)
	if s.Else != nil {
		if err := c.lowerBlock(s.Else); err != nil {
			return err
		}
	}
	c.e.PlaceLabel(endLabel)

	return nil
}

func (c *Codegen) lowerExpr(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		c.e.PushInt(e.Value)

	case *ast.Identifier:
		slot, err := c.slot(e, e.Binding)
		if err != nil {
			return err
		}
		c.e.Load(slot)

	case *ast.Grouping:
		return c.lowerExpr(e.X)

	case *ast.Unary:
		if err := c.lowerExpr(e.X); err != nil {
			return err
		}
		c.e.Negate()

	case *ast.Binary:
		if e.Op.Precedence() == ast.PrecNone {
			return internalErrorf(e.Pos, "cannot lower binary operator %s", e.Op)
		}
		if e.Op.IsLogical() {
			return c.lowerLogical(e)
		}
		if err := c.lowerExpr(e.Left); err != nil {
			return err
		}
		if err := c.lowerExpr(e.Right); err != nil {
			return err
		}
		c.e.Binary(e.Op)

	case *ast.Call:
		if err := c.lowerCall(e); err != nil {
			return err
		}
		// functions are void; as a value a call is 0
		c.e.PushInt(0)

	default:
		return internalErrorf(expr.Position(), "cannot lower expression %T", expr)
	}

	return nil
}

func (c *Codegen) lowerCall(call *ast.Call) error {
	callee := c.prog.Callee(call.Binding)
	if callee == nil {
		return internalErrorf(call.Pos, "unresolved call to %s", call.Name)
	}

	c.e.Call(callee)
	return nil
}

// lowerLogical branches around the right operand; it is only evaluated when
// the left one does not decide the result. Either operand deciding the result
// jumps to the short label, which pushes 0 for && and 1 for ||.
func (c *Codegen) lowerLogical(e *ast.Binary) error {
	var short Label
	var branch func(Label)
	var fallthroughValue, shortValue int64

	switch e.Op {
	case ast.OpAnd:
		short = c.newLabel(LabelFalse)
		branch = c.e.BranchIfZero
		fallthroughValue, shortValue = 1, 0
	case ast.OpOr:
		short = c.newLabel(LabelTrue)
		branch = c.e.BranchIfNonZero
		fallthroughValue, shortValue = 0, 1
	default:
		return internalErrorf(e.Pos, "%s is not a logical operator", e.Op)
	}
	end := c.newLabel(LabelEnd)

	if err := c.lowerExpr(e.Left); err != nil {
		return err
	}
	branch(short)

	if err := c.lowerExpr(e.Right); err != nil {
		return err
	}
	branch(short)

	c.e.PushInt(fallthroughValue)
	c.e.Jump(end)

	c.e.PlaceLabel(short)
	c.e.PushInt(shortValue)
	c.e.PlaceLabel(end)

	return nil
}
