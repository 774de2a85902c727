package lexer

import (
	"regexp"
)

type tokenRegex struct {
	Pattern *regexp.Regexp
}

func rx(raw string) tokenRegex {
	return tokenRegex{regexp.MustCompile(raw)}
}

// Token regex patterns
var tokenRegexes = map[TokenType]tokenRegex{
	LE:  rx(`^<=`),
	GE:  rx(`^>=`),
	EQ:  rx(`^==`),
	NE:  rx(`^!=`),
	AND: rx(`^&&`),
	OR:  rx(`^\|\|`),

	FUNC: rx(`^func\b`),
	LET:  rx(`^let\b`),
	IF:   rx(`^if\b`),
	ELSE: rx(`^else\b`),
	ELIF: rx(`^elif\b`),
	DUMP: rx(`^dump\b`),
	EXIT: rx(`^exit\b`),

	ASSIGN: rx(`^=`),
	PLUS:   rx(`^\+`),
	MINUS:  rx(`^-`),
	MULT:   rx(`^\*`),
	DIV:    rx(`^/`),
	LT:     rx(`^<`),
	GT:     rx(`^>`),

	SEMICOLON: rx(`^;`),
	COMMA:     rx(`^,`),
	LPAREN:    rx(`^\(`),
	RPAREN:    rx(`^\)`),
	LBRACE:    rx(`^\{`),
	RBRACE:    rx(`^\}`),

	NUM:    rx(`^[0-9]+`),
	STRING: rx(`^"([^"\\\n]|\\.)*"`),
	CHAR:   rx(`^'([^'\\\n]|\\.)*'`),
	ID:     rx(`^[a-zA-Z_][a-zA-Z0-9_]*`),
}

var (
	whitespaceRegex = regexp.MustCompile(`^[ \t\r\n]+`)
	commentRegex    = regexp.MustCompile(`^//[^\n]*`)
)

// Token precedence order for matching (longer patterns first)
var tokenPrecedenceOrder = []TokenType{
	FUNC, ELSE, ELIF, DUMP, EXIT, LET, IF,
	LE, GE, EQ, NE, AND, OR,
	ASSIGN, PLUS, MINUS, MULT, DIV, LT, GT,
	SEMICOLON, COMMA, LPAREN, RPAREN, LBRACE, RBRACE,
	NUM, STRING, CHAR, ID,
}

// MatchToken matches the first token at the start of the string.
// Whitespace and comments report EOF with a non-empty lexeme so the caller can skip them.
func MatchToken(s string) (TokenType, string, bool) {
	if s == "" {
		return EOF, "", false
	} else if match := whitespaceRegex.FindString(s); match != "" {
		return EOF, match, true
	} else if match := commentRegex.FindString(s); match != "" {
		return EOF, match, true
	}

	for _, tokenType := range tokenPrecedenceOrder {
		if regex, ok := tokenRegexes[tokenType]; ok {
			if match := regex.Pattern.FindString(s); match != "" {
				return tokenType, match, true
			}
		}
	}

	return ILLEGAL, string(s[0]), false
}
