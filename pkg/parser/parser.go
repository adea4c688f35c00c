package parser

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/log"

	"nyaa/interpreter-go/pkg/ast"
	"nyaa/interpreter-go/pkg/diag"
	"nyaa/interpreter-go/pkg/lexer"
)

// Parser is a recursive-descent parser with one token of lookahead (cur)
// plus the lexer's peek buffer.
type Parser struct {
	lex     *lexer.Lexer
	cur     lexer.Token
	lastEnd diag.Position
	verbose bool
}

// New creates a parser over a lexer that has already been given input.
func New(lex *lexer.Lexer) *Parser {
	return &Parser{lex: lex}
}

// SetVerbose enables production tracing through the logger.
func (p *Parser) SetVerbose(v bool) { p.verbose = v }

// ParseSource lexes and parses a complete program.
func ParseSource(src string, opts lexer.Options) (*ast.Program, error) {
	lex := lexer.New(opts)
	lex.Analyze(src)
	p := New(lex)
	p.SetVerbose(opts.Verbose)
	return p.ParseProgram()
}

// ParseInteractiveSource parses one interactive entry. A nil node means
// there was nothing to run.
func ParseInteractiveSource(src string, opts lexer.Options) (ast.Node, error) {
	lex := lexer.New(opts)
	lex.Analyze(src)
	p := New(lex)
	p.SetVerbose(opts.Verbose)
	return p.ParseInteractive()
}

// IsIncomplete reports whether err was caused by running out of input,
// meaning more text could complete the parse.
func IsIncomplete(err error) bool {
	return errors.Is(err, diag.ErrUnexpectedEOF)
}

// ParseProgram parses
//
//	program : funcDef* MAIN '(' ')' '=>' ( '{' body '}' | statement ';' ) EOF | EOF
func (p *Parser) ParseProgram() (*ast.Program, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	start := p.cur.Start
	if p.at(lexer.EOF) {
		prog := ast.NewProgram(nil, nil)
		ast.SetSpan(prog, diag.NewSpan(start, start))
		return prog, nil
	}
	p.trace("<Program>")

	var funcs []*ast.FuncDef
	for p.at(lexer.DEF) {
		fn, err := p.parseFuncDef()
		if err != nil {
			return nil, err
		}
		funcs = append(funcs, fn)
	}
	for _, k := range []lexer.Kind{lexer.MAIN, lexer.LPAREN, lexer.RPAREN, lexer.TO} {
		if _, err := p.expect(k); err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlockOrSingle()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.EOF); err != nil {
		return nil, err
	}
	prog := ast.NewProgram(funcs, body)
	p.finish(prog, start)
	return prog, nil
}

// ParseInteractive parses a function definition, a statement list, or an
// expression, followed by end of input.
func (p *Parser) ParseInteractive() (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.at(lexer.EOF) {
		return nil, nil
	}
	p.trace("<Interactive>")

	var node ast.Node
	var err error
	switch {
	case p.at(lexer.DEF):
		node, err = p.parseFuncDef()
	case p.at(lexer.ID):
		node, err = p.parseInteractiveID()
	case statementStart[p.cur.Kind]:
		node, err = p.parseBody(false)
	default:
		node, err = p.parseExpr()
	}
	if err != nil {
		return nil, err
	}
	if _, isExpr := node.(ast.Expression); isExpr && p.at(lexer.SEMI) {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if !p.at(lexer.EOF) {
		return nil, p.unexpected("end of input")
	}
	return node, nil
}

func (p *Parser) parseInteractiveID() (ast.Node, error) {
	next, err := p.lex.PeekToken()
	if err != nil {
		return nil, err
	}
	switch next.Kind {
	case lexer.ASSIGN, lexer.INC, lexer.DEC, lexer.TO:
		return p.parseBody(false)
	case lexer.LBRACKET:
		start := p.cur.Start
		access, err := p.parseArrayAccess()
		if err != nil {
			return nil, err
		}
		if !p.at(lexer.ASSIGN) {
			return p.parseExprFrom(access, start)
		}
		update, err := p.parseArrayUpdateFrom(access, start)
		if err != nil {
			return nil, err
		}
		if err := p.skipSemi(); err != nil {
			return nil, err
		}
		rest, err := p.parseBody(false)
		if err != nil {
			return nil, err
		}
		body := ast.NewBody(append([]ast.Statement{update}, rest.Statements...))
		p.finish(body, start)
		return body, nil
	default:
		return p.parseExpr()
	}
}

func (p *Parser) trace(production string) {
	if p.verbose {
		log.Infof("parser: %s at %s (current %s)", production, p.cur.Start, p.cur)
	}
}

func (p *Parser) advance() error {
	p.lastEnd = p.cur.End
	tok, err := p.lex.GetToken()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) at(k lexer.Kind) bool { return p.cur.Kind == k }

func (p *Parser) peekIs(k lexer.Kind) (bool, error) {
	next, err := p.lex.PeekToken()
	if err != nil {
		return false, err
	}
	return next.Kind == k, nil
}

// expect consumes the current token when it is one of kinds.
func (p *Parser) expect(kinds ...lexer.Kind) (lexer.Token, error) {
	for _, k := range kinds {
		if p.cur.Kind == k {
			tok := p.cur
			return tok, p.advance()
		}
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = quoteKind(k)
	}
	return lexer.Token{}, p.unexpected(names...)
}

func (p *Parser) skipSemi() error {
	if p.at(lexer.SEMI) {
		return p.advance()
	}
	return nil
}

func (p *Parser) unexpected(expected ...string) error {
	kind := diag.ErrUnexpectedToken
	if p.at(lexer.EOF) {
		kind = diag.ErrUnexpectedEOF
	}
	want := expected[0]
	if len(expected) > 1 {
		want = "one of " + strings.Join(expected, ", ")
	}
	return diag.New(diag.Syntax, kind, p.cur.Span(), "expected %s but found %s", want, p.cur.Describe())
}

func (p *Parser) finish(n ast.Node, start diag.Position) {
	end := p.lastEnd
	if end.IsZero() {
		end = start
	}
	ast.SetSpan(n, diag.NewSpan(start, end))
}

func quoteKind(k lexer.Kind) string {
	switch k {
	case lexer.ID, lexer.INT, lexer.FLOAT, lexer.STR, lexer.EOF:
		return k.String()
	default:
		return fmt.Sprintf("%q", k.String())
	}
}
