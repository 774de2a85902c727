package ast

import (
	"kiln/pkg/lexer"
)

type Operator string

// List of operators
const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
	OpAnd Operator = "&&"
	OpOr  Operator = "||"
	OpEq  Operator = "=="
	OpNeq Operator = "!="
	OpLt  Operator = "<"
	OpLe  Operator = "<="
	OpGt  Operator = ">"
	OpGe  Operator = ">="
	OpNeg Operator = "neg"
	OpNop Operator = "nop"
)

// Precedence levels, low to high
const (
	PrecNone = iota
	PrecOr
	PrecAnd
	PrecEquality
	PrecRelational
	PrecAdditive
	PrecMultiplicative
)

// GetLexOperation maps a lexer token type to a binary operator
func GetLexOperation(t lexer.TokenType) Operator {
	switch t {
	case lexer.PLUS:
		return OpAdd
	case lexer.MINUS:
		return OpSub
	case lexer.MULT:
		return OpMul
	case lexer.DIV:
		return OpDiv
	case lexer.AND:
		return OpAnd
	case lexer.OR:
		return OpOr
	case lexer.EQ:
		return OpEq
	case lexer.NE:
		return OpNeq
	case lexer.LT:
		return OpLt
	case lexer.LE:
		return OpLe
	case lexer.GT:
		return OpGt
	case lexer.GE:
		return OpGe
	default:
		return OpNop
	}
}

// Precedence returns the binding power of a binary operator, PrecNone for anything else
func (op Operator) Precedence() int {
	switch op {
	case OpOr:
		return PrecOr
	case OpAnd:
		return PrecAnd
	case OpEq, OpNeq:
		return PrecEquality
	case OpLt, OpLe, OpGt, OpGe:
		return PrecRelational
	case OpAdd, OpSub:
		return PrecAdditive
	case OpMul, OpDiv:
		return PrecMultiplicative
	default:
		return PrecNone
	}
}

// IsLogical reports whether op short-circuits
func (op Operator) IsLogical() bool {
	return op == OpAnd || op == OpOr
}
