package parser

import (
	"fmt"

	"kiln/pkg/lexer"
)

// ParseError names the construct the parser expected and the token it found instead.
type ParseError struct {
	Pos      lexer.Position
	Expected string
	Found    lexer.Token
}

func (e *ParseError) Error() string {
	return e.Pos.String() + ": " + e.Message()
}

// Message describes the error without its position
func (e *ParseError) Message() string {
	detail := fmt.Sprintf("expected %s, found %s", e.Expected, e.Found.Describe())
	if summary := categorizeError(e.Expected, e.Found); summary != "" {
		return summary + ": " + detail
	}
	return detail
}

// Position returns the location of the offending token
func (e *ParseError) Position() lexer.Position {
	return e.Pos
}

// errorf reports that `expected` was wanted where the current token is.
// It does NOT advance tokens.
func (p *Parser) errorf(expected string) *ParseError {
	current := p.cur.current()
	return &ParseError{Pos: current.Pos, Expected: expected, Found: current}
}

// reservedError rejects the reserved else-if shorthand keyword
func (p *Parser) reservedError() *ParseError {
	current := p.cur.current()
	return &ParseError{Pos: current.Pos, Expected: "`else if` (`elif` is reserved)", Found: current}
}

// categorizeError provides a specific headline based on expected symbol and current token
func categorizeError(expected string, current lexer.Token) string {
	// Delimiters
	switch expected {
	case ")":
		if current.Type != lexer.EOF && current.Type != lexer.SEMICOLON && current.Type != lexer.LBRACE {
			return "Functions take no arguments"
		}
		return "Missing closing parenthesis"
	case "}":
		return "Missing closing brace"
	case "{":
		if current.Type == lexer.LPAREN {
			return "Function declarations have no parameter list"
		}
		return "Missing opening brace"
	case ";":
		if isStatementBoundary(current.Type) {
			return "Missing semicolon"
		}
		return ""
	case "(":
		if current.Type == lexer.LBRACE {
			return "Wrong bracket type - expected parenthesis"
		}
		return "Missing opening parenthesis"
	}

	// Identifiers and literals
	switch expected {
	case "identifier":
		if current.Type == lexer.ASSIGN || current.Type == lexer.SEMICOLON {
			return "Missing identifier"
		}
		if current.Type.GetCategory() == lexer.KEYWORD {
			return "Cannot use reserved keyword as identifier"
		}
	case "expression":
		if current.Type == lexer.SEMICOLON || current.Type == lexer.LBRACE || current.Type == lexer.RPAREN {
			return "Missing expression"
		}
	case "statement":
		if current.Type == lexer.FUNC {
			return "Functions cannot be nested"
		}
	case "func":
		return "Only function declarations are allowed at top level"
	}

	return ""
}

// isStatementBoundary checks if a token type indicates the start of a new statement or block boundary
func isStatementBoundary(t lexer.TokenType) bool {
	switch t {
	case lexer.LET, lexer.ID, lexer.IF, lexer.DUMP, lexer.EXIT, lexer.ELSE, lexer.RBRACE, lexer.EOF:
		return true
	default:
		return false
	}
}
