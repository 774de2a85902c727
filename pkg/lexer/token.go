package lexer

import (
	"fmt"
)

type TokenType int
type TokenCategory int

type Token struct {
	Type    TokenType // Type of the token
	Lexeme  string    // Actual string from source code
	Literal string    // Literal value (if applicable), empty string if not
	Pos     Position  // Position in source code
}

// NewToken creates a new Token instance
func NewToken(tokenType TokenType, lexeme string, literal string, pos Position) Token {
	return Token{
		Type:    tokenType,
		Lexeme:  lexeme,
		Literal: literal,
		Pos:     pos,
	}
}

const (
	NONE TokenCategory = iota
	KEYWORD
	IDENTIFIER
	LITERAL
	OPERATOR
	DELIMITER
)

const (
	EOF TokenType = iota // End of file

	FUNC // func
	LET  // let
	IF   // if
	ELSE // else
	ELIF // elif (reserved else-if shorthand)
	DUMP // dump
	EXIT // exit

	ID     // id (identifier)
	NUM    // num (integer literal)
	STRING // string literal
	CHAR   // char literal

	ASSIGN // =
	PLUS   // +
	MINUS  // -
	MULT   // *
	DIV    // /
	LT     // <
	GT     // >
	LE     // <=
	GE     // >=
	EQ     // ==
	NE     // !=
	AND    // &&
	OR     // ||

	SEMICOLON // ;
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }

	ILLEGAL // illegal token
)

var tokenNames = map[TokenType]string{
	FUNC:      "func",
	LET:       "let",
	IF:        "if",
	ELSE:      "else",
	ELIF:      "elif",
	DUMP:      "dump",
	EXIT:      "exit",
	ID:        "identifier",
	NUM:       "integer",
	STRING:    "string",
	CHAR:      "char",
	ASSIGN:    "=",
	PLUS:      "+",
	MINUS:     "-",
	MULT:      "*",
	DIV:       "/",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	EQ:        "==",
	NE:        "!=",
	AND:       "&&",
	OR:        "||",
	SEMICOLON: ";",
	COMMA:     ",",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	EOF:       "end of input",
	ILLEGAL:   "illegal",
}

// String returns a string representation of the Token
func (t Token) String() string {
	if t.Literal == "" {
		return fmt.Sprintf("T_{%s, %q, nil, %s}", t.Type, t.Lexeme, t.Pos)
	}

	return fmt.Sprintf("T_{%s, %q, %q, %s}", t.Type, t.Lexeme, t.Literal, t.Pos)
}

// Describe renders the token the way diagnostics quote it
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case ID, NUM, STRING, CHAR:
		return fmt.Sprintf("%s `%s`", t.Type, t.Lexeme)
	default:
		return fmt.Sprintf("`%s`", t.Lexeme)
	}
}

// String returns a string representation of the TokenType
func (t TokenType) String() string {
	if str, ok := tokenNames[t]; ok {
		return str
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// GetCategory returns the category of the token
func (t TokenType) GetCategory() TokenCategory {
	switch t {
	case FUNC, LET, IF, ELSE, ELIF, DUMP, EXIT:
		return KEYWORD
	case ID:
		return IDENTIFIER
	case NUM, STRING, CHAR:
		return LITERAL
	case ASSIGN, PLUS, MINUS, MULT, DIV, LT, GT, LE, GE, EQ, NE, AND, OR:
		return OPERATOR
	case SEMICOLON, COMMA, LPAREN, RPAREN, LBRACE, RBRACE:
		return DELIMITER
	default:
		return NONE
	}
}
