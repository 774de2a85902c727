package lexer

import (
	"iter"
)

type Lexer struct {
	input    string // input string to be tokenized
	length   int    // length of the input string
	position int    // current position in the input string
	line     int    // current line number for error reporting
	column   int    // current column number for error reporting
	done     bool   // EOF or an error has been produced
}

// Create a new lexer instance
func NewLexer(s string) *Lexer {
	l := &Lexer{
		input:  s,
		length: len(s),
	}
	l.Reset()

	return l
}

// Reset rewinds the lexer to the start of its input
func (l *Lexer) Reset() {
	l.position = 0
	l.line = 1
	l.column = 1
	l.done = false
}

// Get the next token from the input.
// Once EOF has been returned every further call returns EOF again.
func (l *Lexer) NextToken() (Token, error) {
	for {
		pos := l.currentPosition()

		if l.position >= l.length {
			l.done = true
			return NewToken(EOF, "", "", pos), nil
		}

		// Regex match the first token it sees from the remaining input from current position to the end
		remaining := l.input[l.position:]
		tokenType, lexeme, matched := MatchToken(remaining)

		if !matched {
			l.done = true
			return NewToken(ILLEGAL, lexeme, "", pos), newLexError(pos, remaining)
		}

		l.advance(len(lexeme))

		// whitespace and comments
		if tokenType == EOF {
			continue
		}

		literal := lexeme
		switch tokenType {
		case STRING, CHAR:
			literal = lexeme[1 : len(lexeme)-1]
		}

		return NewToken(tokenType, lexeme, literal, pos), nil
	}
}

// View next token without advancing the position
func (l *Lexer) Peek() (Token, error) {
	// save state
	cpos := l.position
	cline := l.line
	ccol := l.column
	cdone := l.done

	token, err := l.NextToken()

	// restore state
	l.position = cpos
	l.line = cline
	l.column = ccol
	l.done = cdone

	return token, err
}

// All returns the token sequence of the whole input, ending with EOF.
// Every iteration starts over from the beginning of the input.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		lx := NewLexer(l.input)
		for {
			tok, err := lx.NextToken()
			if !yield(tok, err) {
				return
			}
			if err != nil || tok.Type == EOF {
				return
			}
		}
	}
}

// Tokenize lexes the whole input, stopping at the first error
func Tokenize(s string) ([]Token, error) {
	var toks []Token
	for tok, err := range NewLexer(s).All() {
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}

	return toks, nil
}

// Check if there are more tokens to read
func (l *Lexer) HasMore() bool {
	return !l.done
}

// Advance the lexer position by n bytes
func (l *Lexer) advance(n int) {
	for range n {
		if l.position >= l.length {
			break
		}

		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}

		l.position++
	}
}

// Get the current position of the lexer
func (l *Lexer) currentPosition() Position {
	return Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}
