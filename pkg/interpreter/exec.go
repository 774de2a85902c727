package interpreter

import (
	"fmt"
	"strconv"

	"kiln/pkg/ast"
	"kiln/pkg/lexer"
	"kiln/pkg/resolver"
)

// call runs fn in a fresh frame. pos is the call site, for depth errors.
func (i *Interpreter) call(fn *resolver.Function, pos lexer.Position) error {
	if i.maxDepth > 0 && len(i.stack) >= i.maxDepth {
		return &RuntimeError{Pos: pos, Err: ErrCallDepthExceeded}
	}

	i.pushFrame(fn)
	defer i.popFrame()

	return i.execBlock(fn.Decl.Body)
}

func (i *Interpreter) execBlock(b *ast.Block) error {
	for _, stmt := range b.Stmts {
		if err := i.exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (i *Interpreter) exec(stmt ast.Stmt) error {
	if i.maxSteps > 0 && i.steps >= i.maxSteps {
		return &RuntimeError{Pos: stmt.Position(), Err: ErrMaxStepsExceeded}
	}
	i.steps++

	frame := i.currentFrame()

	switch s := stmt.(type) {
	case *ast.LetDecl:
		var v int64
		if s.Init != nil {
			var err error
			if v, err = i.eval(s.Init); err != nil {
				return err
			}
		}
		frame.Slots[s.Binding.Slot] = v

	case *ast.Assign:
		v, err := i.eval(s.Value)
		if err != nil {
			return err
		}
		frame.Slots[s.Binding.Slot] = v

	case *ast.If:
		cond, err := i.eval(s.Cond)
		if err != nil {
			return err
		}
		if cond != 0 {
			return i.execBlock(s.Then)
		}
		if s.Else != nil {
			return i.execBlock(s.Else)
		}

	case *ast.Dump:
		v, err := i.eval(s.Value)
		if err != nil {
			return err
		}
		i.buf = strconv.AppendInt(i.buf[:0], v, 10)
		i.buf = append(i.buf, '\n')
		if _, err := i.out.Write(i.buf); err != nil {
			return fmt.Errorf("dump: %w", err)
		}

	case *ast.Exit:
		v, err := i.eval(s.Value)
		if err != nil {
			return err
		}
		return &exitSignal{code: int(v & 0xff)}

	case *ast.ExprStmt:
		_, err := i.eval(s.Call)
		return err

	default:
		return fmt.Errorf("%s: unsupported statement %T", stmt.Position(), stmt)
	}

	return nil
}

func (i *Interpreter) eval(expr ast.Expr) (int64, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return e.Value, nil

	case *ast.Identifier:
		return i.currentFrame().Slots[e.Binding.Slot], nil

	case *ast.Grouping:
		return i.eval(e.X)

	case *ast.Unary:
		v, err := i.eval(e.X)
		if err != nil {
			return 0, err
		}
		return -v, nil

	case *ast.Binary:
		if e.Op.IsLogical() {
			return i.evalLogical(e)
		}

		l, err := i.eval(e.Left)
		if err != nil {
			return 0, err
		}
		r, err := i.eval(e.Right)
		if err != nil {
			return 0, err
		}
		return evalBinary(e, l, r)

	case *ast.Call:
		callee := i.prog.Callee(e.Binding)
		if callee == nil {
			return 0, fmt.Errorf("%s: unresolved call to %s", e.Pos, e.Name)
		}
		// functions are void; a call used as a value is 0
		return 0, i.call(callee, e.Pos)

	default:
		return 0, fmt.Errorf("%s: unsupported expression %T", expr.Position(), expr)
	}
}

// evalLogical never evaluates the right operand once the left decides the result
func (i *Interpreter) evalLogical(e *ast.Binary) (int64, error) {
	l, err := i.eval(e.Left)
	if err != nil {
		return 0, err
	}

	switch e.Op {
	case ast.OpAnd:
		if l == 0 {
			return 0, nil
		}
	case ast.OpOr:
		if l != 0 {
			return 1, nil
		}
	}

	r, err := i.eval(e.Right)
	if err != nil {
		return 0, err
	}
	return boolToInt(r != 0), nil
}

func evalBinary(e *ast.Binary, l, r int64) (int64, error) {
	switch e.Op {
	case ast.OpAdd:
		return l + r, nil
	case ast.OpSub:
		return l - r, nil
	case ast.OpMul:
		return l * r, nil
	case ast.OpDiv:
		if r == 0 {
			return 0, &RuntimeError{Pos: e.Pos, Err: ErrDivisionByZero}
		}
		return l / r, nil
	case ast.OpEq:
		return boolToInt(l == r), nil
	case ast.OpNeq:
		return boolToInt(l != r), nil
	case ast.OpLt:
		return boolToInt(l < r), nil
	case ast.OpLe:
		return boolToInt(l <= r), nil
	case ast.OpGt:
		return boolToInt(l > r), nil
	case ast.OpGe:
		return boolToInt(l >= r), nil
	}

	return 0, fmt.Errorf("%s: unsupported binary op: %s", e.Pos, e.Op)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
