package parser

import (
	"math"
	"strconv"

	"kiln/pkg/ast"
	"kiln/pkg/lexer"
)

type Parser struct {
	lexer *lexer.Lexer // lexer instance
	cur   *cursor      // tokens of the whole input
}

// NewParser creates a new parser instance
func NewParser(l *lexer.Lexer) *Parser {
	return &Parser{lexer: l}
}

// Parse lexes and parses a whole source text
func Parse(src string) (*ast.Program, error) {
	return NewParser(lexer.NewLexer(src)).ParseProgram()
}

// ParseProgram parses `func name { ... }` declarations until end of input.
// The input is lexed completely first, so a lex error anywhere wins over a
// syntax error. The first malformed construct aborts parsing and no partial
// tree is returned.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	var tokens []lexer.Token
	for tok, err := range p.lexer.All() {
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	p.cur = newCursor(tokens)

	prog := &ast.Program{}
	for !p.cur.is(lexer.EOF) {
		fn, err := p.parseFunc()
		if err != nil {
			return nil, err
		}
		prog.Funcs = append(prog.Funcs, fn)
	}

	return prog, nil
}

// expect consumes the current token if it has type t
func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if !p.cur.is(t) {
		return p.cur.current(), p.errorf(t.String())
	}

	return p.cur.next(), nil
}

func (p *Parser) parseFunc() (*ast.FuncDecl, error) {
	start, err := p.expect(lexer.FUNC)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.ID)
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FuncDecl{Pos: start.Pos, Name: name.Lexeme, Body: body}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(lexer.LBRACE)
	if err != nil {
		return nil, err
	}

	block := &ast.Block{Pos: open.Pos}
	for !p.cur.is(lexer.RBRACE) {
		if p.cur.is(lexer.EOF) {
			return nil, p.errorf("}")
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}

	block.End = p.cur.next().Pos
	return block, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur.current().Type {
	case lexer.LET:
		return p.parseLet()
	case lexer.DUMP:
		pos := p.cur.next().Pos
		value, err := p.parseTerminatedExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Dump{Pos: pos, Value: value}, nil
	case lexer.EXIT:
		pos := p.cur.next().Pos
		value, err := p.parseTerminatedExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Exit{Pos: pos, Value: value}, nil
	case lexer.IF:
		return p.parseIf()
	case lexer.ELIF:
		return nil, p.reservedError()
	case lexer.ID:
		switch p.cur.lookahead().Type {
		case lexer.ASSIGN:
			return p.parseAssign()
		case lexer.LPAREN:
			return p.parseCallStatement()
		default:
			p.cur.next()
			return nil, p.errorf("= or (")
		}
	default:
		return nil, p.errorf("statement")
	}
}

func (p *Parser) parseLet() (ast.Stmt, error) {
	start := p.cur.next().Pos

	name, err := p.expect(lexer.ID)
	if err != nil {
		return nil, err
	}

	decl := &ast.LetDecl{Pos: start, Name: name.Lexeme}
	if p.cur.is(lexer.ASSIGN) {
		p.cur.next()
		if decl.Init, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	return decl, nil
}

// parseTerminatedExpr parses the `expr ;` following dump and exit
func (p *Parser) parseTerminatedExpr() (ast.Expr, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	return value, nil
}

func (p *Parser) parseAssign() (ast.Stmt, error) {
	name := p.cur.next()
	p.cur.next() // '='

	value, err := p.parseTerminatedExpr()
	if err != nil {
		return nil, err
	}

	return &ast.Assign{Pos: name.Pos, Name: name.Lexeme, Value: value}, nil
}

func (p *Parser) parseCallStatement() (ast.Stmt, error) {
	call, err := p.parseCall()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.ExprStmt{Pos: call.Pos, Call: call}, nil
}

// parseCall parses `name ( )`; functions take no arguments
func (p *Parser) parseCall() (*ast.Call, error) {
	name, err := p.expect(lexer.ID)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	return &ast.Call{Pos: name.Pos, Name: name.Lexeme}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	start := p.cur.next().Pos

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &ast.If{Pos: start, Cond: cond, Then: then}

	switch p.cur.current().Type {
	case lexer.ELIF:
		return nil, p.reservedError()
	case lexer.ELSE:
		p.cur.next()
	default:
		return stmt, nil
	}

	// else if: an else block holding the nested if
	if p.cur.is(lexer.IF) {
		pos := p.cur.current().Pos
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		stmt.Else = &ast.Block{Pos: pos, End: pos, Stmts: []ast.Stmt{nested}}
		return stmt, nil
	}

	if stmt.Else, err = p.parseBlock(); err != nil {
		return nil, err
	}

	return stmt, nil
}

// parseExpression parses an expression starting at the lowest precedence level
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseBinary(ast.PrecOr)
}

// parseBinary is a precedence climber: it folds every operator binding at
// least as tightly as minPrec, recursing one level higher for the right
// operand so equal-precedence operators associate to the left.
func (p *Parser) parseBinary(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op := ast.GetLexOperation(p.cur.current().Type)
		prec := op.Precedence()
		if prec == ast.PrecNone || prec < minPrec {
			return left, nil
		}

		pos := p.cur.next().Pos

		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}

		left = &ast.Binary{Pos: pos, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if !p.cur.is(lexer.MINUS) {
		return p.parsePrimary()
	}

	pos := p.cur.next().Pos

	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &ast.Unary{Pos: pos, Op: ast.OpNeg, X: x}, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur.current()

	switch tok.Type {
	case lexer.NUM:
		// 9223372036854775808 is accepted so that its negation is MinInt64
		value, err := strconv.ParseUint(tok.Lexeme, 10, 64)
		if err != nil || value > math.MaxInt64+1 {
			return nil, &ParseError{Pos: tok.Pos, Expected: "integer in 64-bit range", Found: tok}
		}
		p.cur.next()
		return &ast.IntLiteral{Pos: tok.Pos, Value: int64(value)}, nil

	case lexer.ID:
		if p.cur.lookahead().Type == lexer.LPAREN {
			return p.parseCall()
		}
		p.cur.next()
		return &ast.Identifier{Pos: tok.Pos, Name: tok.Lexeme}, nil

	case lexer.LPAREN:
		p.cur.next()
		x, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return &ast.Grouping{Pos: tok.Pos, X: x}, nil

	default:
		return nil, p.errorf("expression")
	}
}
