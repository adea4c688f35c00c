package parser

import (
	"nyaa/interpreter-go/pkg/ast"
	"nyaa/interpreter-go/pkg/diag"
	"nyaa/interpreter-go/pkg/lexer"
)

var statementStart = map[lexer.Kind]bool{
	lexer.RET:        true,
	lexer.ID:         true,
	lexer.WHILE:      true,
	lexer.FOR:        true,
	lexer.IF:         true,
	lexer.PRINT:      true,
	lexer.PRINTLN:    true,
	lexer.INPUT:      true,
	lexer.FCLOSE:     true,
	lexer.FREAD:      true,
	lexer.FREADLINE:  true,
	lexer.FWRITE:     true,
	lexer.FWRITELINE: true,
}

// parseFuncDef parses
//
//	funcDef : DEF ID ( '(' params? ')' )? '=>' ( '{' body '}' | statement ';' )
func (p *Parser) parseFuncDef() (*ast.FuncDef, error) {
	p.trace("<FuncDef>")
	start := p.cur.Start
	if _, err := p.expect(lexer.DEF); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.ID)
	if err != nil {
		return nil, err
	}
	name := p.identifier(nameTok)

	var params []*ast.Identifier
	if p.at(lexer.LPAREN) {
		if params, err = p.parseParams(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.TO); err != nil {
		return nil, err
	}
	body, err := p.parseBlockOrSingle()
	if err != nil {
		return nil, err
	}
	fn := ast.NewFuncDef(name, params, body)
	p.finish(fn, start)
	return fn, nil
}

func (p *Parser) parseParams() ([]*ast.Identifier, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Identifier
	if p.at(lexer.ID) {
		for {
			tok, err := p.expect(lexer.ID)
			if err != nil {
				return nil, err
			}
			params = append(params, p.identifier(tok))
			if !p.at(lexer.COMMA) {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

// parseBlockOrSingle parses `'{' body '}'` or a single `statement ';'`.
func (p *Parser) parseBlockOrSingle() (*ast.Body, error) {
	if p.at(lexer.LBRACE) {
		return p.parseBraced(false)
	}
	start := p.cur.Start
	if !statementStart[p.cur.Kind] {
		return nil, p.unexpected(`"{"`, "statement")
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	body := ast.NewBody([]ast.Statement{stmt})
	p.finish(body, start)
	return body, nil
}

func (p *Parser) parseBraced(conditional bool) (*ast.Body, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBody(conditional)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return body, nil
}

// parseBody parses statements, each optionally followed by ';'. A
// conditional body may end with a break or continue.
func (p *Parser) parseBody(conditional bool) (*ast.Body, error) {
	p.trace("<Body>")
	start := p.cur.Start
	stmts := []ast.Statement{}
	for statementStart[p.cur.Kind] {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if err := p.skipSemi(); err != nil {
			return nil, err
		}
	}
	if conditional && (p.at(lexer.BREAK) || p.at(lexer.CONTINUE)) {
		tokStart := p.cur.Start
		var stmt ast.Statement = ast.NewContinue()
		if p.at(lexer.BREAK) {
			stmt = ast.NewBreak()
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		p.finish(stmt, tokStart)
		stmts = append(stmts, stmt)
		if err := p.skipSemi(); err != nil {
			return nil, err
		}
	}
	body := ast.NewBody(stmts)
	p.finish(body, start)
	return body, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	p.trace("<Statement>")
	switch p.cur.Kind {
	case lexer.RET:
		return p.parseReturn()
	case lexer.ID:
		return p.parseIDStatement()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.IF:
		return p.parseIf()
	case lexer.PRINT, lexer.PRINTLN:
		return p.parsePrint()
	case lexer.INPUT:
		return p.parseInput()
	case lexer.FCLOSE, lexer.FREAD, lexer.FREADLINE, lexer.FWRITE, lexer.FWRITELINE:
		return p.parseFileVerb()
	default:
		return nil, p.unexpected("statement")
	}
}

func (p *Parser) parseReturn() (*ast.Return, error) {
	start := p.cur.Start
	if err := p.advance(); err != nil {
		return nil, err
	}
	var value ast.Expression
	if expressionStart[p.cur.Kind] {
		assign := false
		if p.at(lexer.ID) {
			var err error
			if assign, err = p.peekIs(lexer.ASSIGN); err != nil {
				return nil, err
			}
		}
		if !assign {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			value = expr
		}
	}
	ret := ast.NewReturn(value)
	p.finish(ret, start)
	return ret, nil
}

func (p *Parser) parseIDStatement() (ast.Statement, error) {
	next, err := p.lex.PeekToken()
	if err != nil {
		return nil, err
	}
	switch next.Kind {
	case lexer.ASSIGN:
		return p.parseAssignment()
	case lexer.INC, lexer.DEC:
		return p.parsePostfix()
	case lexer.LPAREN:
		return p.parseCall()
	case lexer.TO:
		return p.parsePointerDecl()
	case lexer.LBRACKET:
		start := p.cur.Start
		access, err := p.parseArrayAccess()
		if err != nil {
			return nil, err
		}
		return p.parseArrayUpdateFrom(access, start)
	default:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return nil, p.unexpected(`"="`, `"++"`, `"--"`, `"("`, `"=>"`, `"["`)
	}
}

func (p *Parser) parseAssignment() (*ast.Assignment, error) {
	start := p.cur.Start
	target := p.identifier(p.cur)
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	node := ast.NewAssignment(target, value)
	p.finish(node, start)
	return node, nil
}

func (p *Parser) parsePostfix() (*ast.Postfix, error) {
	start := p.cur.Start
	target := p.identifier(p.cur)
	if err := p.advance(); err != nil {
		return nil, err
	}
	opTok, err := p.expect(lexer.INC, lexer.DEC)
	if err != nil {
		return nil, err
	}
	symbol := ast.OpInc
	if opTok.Kind == lexer.DEC {
		symbol = ast.OpDec
	}
	op := ast.NewOperator(symbol)
	ast.SetSpan(op, opTok.Span())
	node := ast.NewPostfix(target, op)
	p.finish(node, start)
	return node, nil
}

func (p *Parser) parseCall() (*ast.Call, error) {
	start := p.cur.Start
	callee := p.identifier(p.cur)
	if err := p.advance(); err != nil {
		return nil, err
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	call := ast.NewCall(callee, args)
	p.finish(call, start)
	return call, nil
}

// parseArgs parses `'(' (expr (',' expr)*)? ')'`.
func (p *Parser) parseArgs() ([]ast.Expression, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	args := []ast.Expression{}
	if expressionStart[p.cur.Kind] {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.at(lexer.COMMA) {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// parsePointerDecl parses
//
//	ID '=>' ( '[' simpleExpr ']' | '{' exprList? '}' | f_open args | split args )
func (p *Parser) parsePointerDecl() (ast.Statement, error) {
	start := p.cur.Start
	target := p.identifier(p.cur)
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TO); err != nil {
		return nil, err
	}

	var node ast.Statement
	switch p.cur.Kind {
	case lexer.LBRACKET:
		if err := p.advance(); err != nil {
			return nil, err
		}
		size, err := p.parseSimpleExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBRACKET); err != nil {
			return nil, err
		}
		node = ast.NewArraySized(target, size)
	case lexer.LBRACE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		var elems []ast.Expression
		for !p.at(lexer.RBRACE) {
			elem, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			if !p.at(lexer.COMMA) {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.RBRACE); err != nil {
			return nil, err
		}
		node = ast.NewArrayLiteral(target, elems)
	case lexer.FOPEN, lexer.SPLIT:
		kind := p.cur.Kind
		if err := p.advance(); err != nil {
			return nil, err
		}
		first, second, err := p.parsePair()
		if err != nil {
			return nil, err
		}
		if kind == lexer.FOPEN {
			node = ast.NewFileOpen(target, first, second)
		} else {
			node = ast.NewSplit(target, first, second)
		}
	default:
		return nil, p.unexpected(`"["`, `"{"`, `"f_open"`, `"split"`)
	}
	p.finish(node, start)
	return node, nil
}

// parsePair parses `'(' expr ',' expr ')'`.
func (p *Parser) parsePair() (ast.Expression, ast.Expression, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, nil, err
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.expect(lexer.COMMA); err != nil {
		return nil, nil, err
	}
	second, err := p.parseExpr()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (p *Parser) parseArrayAccess() (*ast.ArrayAccess, error) {
	start := p.cur.Start
	tok, err := p.expect(lexer.ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}
	index, err := p.parseSimpleExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	access := ast.NewArrayAccess(p.identifier(tok), index)
	p.finish(access, start)
	return access, nil
}

func (p *Parser) parseArrayUpdateFrom(access *ast.ArrayAccess, start diag.Position) (*ast.ArrayUpdate, error) {
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	node := ast.NewArrayUpdate(access, value)
	p.finish(node, start)
	return node, nil
}

func (p *Parser) parseCondition() (ast.Expression, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseWhile() (*ast.While, error) {
	p.trace("<While>")
	start := p.cur.Start
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBraced(true)
	if err != nil {
		return nil, err
	}
	node := ast.NewWhile(cond, body)
	p.finish(node, start)
	return node, nil
}

func (p *Parser) parseFor() (*ast.For, error) {
	p.trace("<For>")
	start := p.cur.Start
	if err := p.advance(); err != nil {
		return nil, err
	}
	varTok, err := p.expect(lexer.ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TO); err != nil {
		return nil, err
	}
	from, to, err := p.parsePair()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBraced(true)
	if err != nil {
		return nil, err
	}
	node := ast.NewFor(p.identifier(varTok), from, to, body)
	p.finish(node, start)
	return node, nil
}

func (p *Parser) parseIf() (*ast.If, error) {
	p.trace("<If>")
	start := p.cur.Start
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBraced(true)
	if err != nil {
		return nil, err
	}

	var elifs []*ast.Elif
	for p.at(lexer.ELIF) {
		elifStart := p.cur.Start
		if err := p.advance(); err != nil {
			return nil, err
		}
		elifCond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		elifBody, err := p.parseBraced(true)
		if err != nil {
			return nil, err
		}
		elif := ast.NewElif(elifCond, elifBody)
		p.finish(elif, elifStart)
		elifs = append(elifs, elif)
	}

	var els *ast.Else
	if p.at(lexer.ELSE) {
		elseStart := p.cur.Start
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseBody, err := p.parseBraced(true)
		if err != nil {
			return nil, err
		}
		els = ast.NewElse(elseBody)
		p.finish(els, elseStart)
	}

	node := ast.NewIf(cond, body, elifs, els)
	p.finish(node, start)
	return node, nil
}

func (p *Parser) parsePrint() (*ast.Print, error) {
	start := p.cur.Start
	newline := p.at(lexer.PRINTLN)
	if err := p.advance(); err != nil {
		return nil, err
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	node := ast.NewPrint(args, newline)
	p.finish(node, start)
	return node, nil
}

func (p *Parser) parseInput() (*ast.Input, error) {
	start := p.cur.Start
	if _, err := p.expect(lexer.INPUT); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var prompt *ast.StringLiteral
	if p.at(lexer.STR) {
		prompt = ast.NewStringLiteral(p.cur.Text)
		ast.SetSpan(prompt, p.cur.Span())
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	node := ast.NewInput(prompt)
	p.finish(node, start)
	return node, nil
}

// parseFileVerb parses f_close, f_read, f_readline, f_write, and f_writeline.
func (p *Parser) parseFileVerb() (ast.Statement, error) {
	start := p.cur.Start
	verb := p.cur.Kind
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
	file := p.identifier(fileTok)

	var node ast.Statement
	switch verb {
	case lexer.FCLOSE:
		node = ast.NewFileClose(file)
	case lexer.FREADLINE:
		node = ast.NewFileReadLine(file)
	case lexer.FREAD:
		var count ast.Expression
		if p.at(lexer.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if expressionStart[p.cur.Kind] {
				if count, err = p.parseExpr(); err != nil {
					return nil, err
				}
			}
		}
		node = ast.NewFileRead(file, count)
	case lexer.FWRITE, lexer.FWRITELINE:
		if _, err := p.expect(lexer.COMMA); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if verb == lexer.FWRITE {
			node = ast.NewFileWrite(file, value)
		} else {
			node = ast.NewFileWriteLine(file, value)
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	p.finish(node, start)
	return node, nil
}

func (p *Parser) identifier(tok lexer.Token) *ast.Identifier {
	id := ast.NewIdentifier(tok.Text)
	ast.SetSpan(id, tok.Span())
	return id
}
