package parser

import (
	"kiln/pkg/lexer"
)

// cursor walks a fully lexed token slice that always ends with EOF
type cursor struct {
	offset int
	tokens []lexer.Token
}

func newCursor(tokens []lexer.Token) *cursor {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.EOF {
		tokens = append(tokens, lexer.NewToken(lexer.EOF, "", "", lexer.Position{}))
	}
	return &cursor{offset: 0, tokens: tokens}
}

func (c *cursor) current() lexer.Token {
	return c.tokens[c.offset]
}

func (c *cursor) lookahead() lexer.Token {
	if c.offset+1 < len(c.tokens) {
		return c.tokens[c.offset+1]
	}
	return c.tokens[len(c.tokens)-1]
}

func (c *cursor) next() lexer.Token {
	tok := c.tokens[c.offset]
	if c.offset < len(c.tokens)-1 {
		c.offset++
	}
	return tok
}

func (c *cursor) is(t lexer.TokenType) bool {
	return c.current().Type == t
}
