package parser

import (
	"nyaa/interpreter-go/pkg/ast"
	"nyaa/interpreter-go/pkg/diag"
	"nyaa/interpreter-go/pkg/lexer"
)

var expressionStart = map[lexer.Kind]bool{
	lexer.INT:       true,
	lexer.FLOAT:     true,
	lexer.STR:       true,
	lexer.TRUE:      true,
	lexer.FALSE:     true,
	lexer.LPAREN:    true,
	lexer.NOT:       true,
	lexer.MINUS:     true,
	lexer.ID:        true,
	lexer.INPUT:     true,
	lexer.ASCHAR:    true,
	lexer.ASINT:     true,
	lexer.LEN:       true,
	lexer.FREAD:     true,
	lexer.FREADLINE: true,
	lexer.FEOF:      true,
}

var relationalOps = map[lexer.Kind]string{
	lexer.EQ: ast.OpEq,
	lexer.NE: ast.OpNe,
	lexer.LT: ast.OpLt,
	lexer.LE: ast.OpLe,
	lexer.GT: ast.OpGt,
	lexer.GE: ast.OpGe,
}

var additiveOps = map[lexer.Kind]string{
	lexer.PLUS:  ast.OpAdd,
	lexer.MINUS: ast.OpSub,
	lexer.OR:    ast.OpOr,
}

var multiplicativeOps = map[lexer.Kind]string{
	lexer.MUL: ast.OpMul,
	lexer.DIV: ast.OpDiv,
	lexer.MOD: ast.OpMod,
	lexer.AND: ast.OpAnd,
}

// parseExpr parses `expr : simpleExpr ( relOp simpleExpr )?`.
func (p *Parser) parseExpr() (ast.Expression, error) {
	start := p.cur.Start
	left, err := p.parseSimpleExpr()
	if err != nil {
		return nil, err
	}
	return p.parseExprRest(left, start)
}

// parseExprFrom continues an expression whose first factor is already parsed.
func (p *Parser) parseExprFrom(first ast.Expression, start diag.Position) (ast.Expression, error) {
	left, err := p.parseTermRest(first, start)
	if err != nil {
		return nil, err
	}
	if left, err = p.parseSimpleRest(left, start); err != nil {
		return nil, err
	}
	return p.parseExprRest(left, start)
}

func (p *Parser) parseExprRest(left ast.Expression, start diag.Position) (ast.Expression, error) {
	symbol, ok := relationalOps[p.cur.Kind]
	if !ok {
		return left, nil
	}
	op, err := p.operator(symbol)
	if err != nil {
		return nil, err
	}
	right, err := p.parseSimpleExpr()
	if err != nil {
		return nil, err
	}
	node := ast.NewExpr(left, op, right)
	p.finish(node, start)
	return node, nil
}

// parseSimpleExpr parses `simpleExpr : term ( addOp term )*`, folding left.
func (p *Parser) parseSimpleExpr() (ast.Expression, error) {
	start := p.cur.Start
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return p.parseSimpleRest(left, start)
}

func (p *Parser) parseSimpleRest(left ast.Expression, start diag.Position) (ast.Expression, error) {
	for {
		symbol, ok := additiveOps[p.cur.Kind]
		if !ok {
			return left, nil
		}
		op, err := p.operator(symbol)
		if err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		node := ast.NewSimpleExpr(left, op, right)
		p.finish(node, start)
		left = node
	}
}

// parseTerm parses `term : factor ( mulOp factor )*`, folding left.
func (p *Parser) parseTerm() (ast.Expression, error) {
	start := p.cur.Start
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return p.parseTermRest(left, start)
}

func (p *Parser) parseTermRest(left ast.Expression, start diag.Position) (ast.Expression, error) {
	for {
		symbol, ok := multiplicativeOps[p.cur.Kind]
		if !ok {
			return left, nil
		}
		op, err := p.operator(symbol)
		if err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		node := ast.NewTerm(left, op, right)
		p.finish(node, start)
		left = node
	}
}

func (p *Parser) operator(symbol string) (*ast.Operator, error) {
	op := ast.NewOperator(symbol)
	ast.SetSpan(op, p.cur.Span())
	return op, p.advance()
}

func (p *Parser) parseFactor() (ast.Expression, error) {
	start := p.cur.Start
	tok := p.cur

	var node ast.Expression
	switch tok.Kind {
	case lexer.INT:
		node = ast.NewIntegerLiteral(tok.Int)
	case lexer.FLOAT:
		node = ast.NewFloatLiteral(tok.Float)
	case lexer.STR:
		node = ast.NewStringLiteral(tok.Text)
	case lexer.TRUE, lexer.FALSE:
		node = ast.NewBooleanLiteral(tok.Kind == lexer.TRUE)
	case lexer.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		factor := ast.NewFactor(nil, inner)
		p.finish(factor, start)
		return factor, nil
	case lexer.NOT, lexer.MINUS:
		symbol := ast.OpNot
		if tok.Kind == lexer.MINUS {
			symbol = ast.OpSub
		}
		op, err := p.operator(symbol)
		if err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		factor := ast.NewFactor(op, operand)
		p.finish(factor, start)
		return factor, nil
	case lexer.ID:
		next, err := p.lex.PeekToken()
		if err != nil {
			return nil, err
		}
		switch next.Kind {
		case lexer.LPAREN:
			return p.parseCall()
		case lexer.LBRACKET:
			return p.parseArrayAccess()
		}
		node = p.identifier(tok)
	case lexer.INPUT:
		return p.parseInput()
	case lexer.ASCHAR, lexer.ASINT, lexer.LEN:
		return p.parseConversion()
	case lexer.FREAD, lexer.FREADLINE:
		stmt, err := p.parseFileVerb()
		if err != nil {
			return nil, err
		}
		return stmt.(ast.Expression), nil
	case lexer.FEOF:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		fileTok, err := p.expect(lexer.ID)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		eof := ast.NewFileEOF(p.identifier(fileTok))
		p.finish(eof, start)
		return eof, nil
	default:
		return nil, p.unexpected("expression")
	}

	if err := p.advance(); err != nil {
		return nil, err
	}
	p.finish(node, start)
	return node, nil
}

// parseConversion parses asChar, asInt, and len applied to one expression.
func (p *Parser) parseConversion() (ast.Expression, error) {
	start := p.cur.Start
	kind := p.cur.Kind
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	var node ast.Expression
	switch kind {
	case lexer.ASCHAR:
		node = ast.NewCharCode(value)
	case lexer.ASINT:
		node = ast.NewIntCode(value)
	default:
		node = ast.NewLength(value)
	}
	p.finish(node, start)
	return node, nil
}
