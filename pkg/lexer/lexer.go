package lexer

import (
	"math"
	"strings"
	"unicode"

	"fortio.org/log"

	"nyaa/interpreter-go/pkg/diag"
)

const (
	DefaultMaxIdentifierLength = 64
	DefaultMaxStringLength     = 4096
)

// Options tunes scanner limits and logging.
type Options struct {
	MaxIdentifierLength int
	MaxStringLength     int
	Verbose             bool
}

// DefaultOptions returns the stock limits.
func DefaultOptions() Options {
	return Options{
		MaxIdentifierLength: DefaultMaxIdentifierLength,
		MaxStringLength:     DefaultMaxStringLength,
	}
}

const eof rune = -1

// Lexer scans tokens on demand from a source string.
type Lexer struct {
	opts Options

	src  []rune
	pos  int
	ch   rune
	line int
	col  int

	// last consumed character position, used for token end positions
	prev diag.Position

	buffer []Token
}

// New creates a lexer with no input; call Analyze before scanning.
func New(opts Options) *Lexer {
	if opts.MaxIdentifierLength <= 0 {
		opts.MaxIdentifierLength = DefaultMaxIdentifierLength
	}
	if opts.MaxStringLength <= 0 {
		opts.MaxStringLength = DefaultMaxStringLength
	}
	l := &Lexer{opts: opts}
	l.Analyze("")
	return l
}

// Analyze resets the cursor over new input and drops any buffered tokens.
func (l *Lexer) Analyze(src string) {
	l.src = []rune(src)
	l.pos = 0
	l.line = 1
	l.col = 1
	l.prev = diag.Position{Line: 1, Column: 1}
	l.buffer = l.buffer[:0]
	l.ch = eof
	if len(l.src) > 0 {
		l.ch = l.src[0]
	}
}

// Tokenize scans the whole source. The final token is EOF.
func Tokenize(src string, opts Options) ([]Token, error) {
	l := New(opts)
	l.Analyze(src)
	var out []Token
	for {
		tok, err := l.GetToken()
		if err != nil {
			return out, err
		}
		out = append(out, tok)
		if tok.Kind == EOF {
			return out, nil
		}
	}
}

// PeekToken returns the next token without consuming it.
func (l *Lexer) PeekToken() (Token, error) {
	if len(l.buffer) > 0 {
		return l.buffer[0], nil
	}
	tok, err := l.scan()
	if err != nil {
		return Token{}, err
	}
	l.buffer = append(l.buffer, tok)
	return tok, nil
}

// GetToken consumes and returns the next token.
func (l *Lexer) GetToken() (Token, error) {
	if len(l.buffer) > 0 {
		tok := l.buffer[0]
		l.buffer = l.buffer[1:]
		return tok, nil
	}
	return l.scan()
}

func (l *Lexer) here() diag.Position {
	return diag.Position{Line: l.line, Column: l.col}
}

func (l *Lexer) next() {
	if l.ch == eof {
		return
	}
	l.prev = l.here()
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
	if l.pos < len(l.src) {
		l.ch = l.src[l.pos]
	} else {
		l.ch = eof
	}
}

func (l *Lexer) errorf(kind error, at diag.Position, format string, args ...any) error {
	return diag.New(diag.Lexical, kind, diag.NewSpan(at, at), format, args...)
}

func (l *Lexer) scan() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}
	start := l.here()
	tok := Token{Start: start}

	switch {
	case l.ch == eof:
		tok.Kind = EOF
		tok.End = start
		l.logToken(tok)
		return tok, nil
	case isLetter(l.ch):
		if err := l.scanWord(&tok); err != nil {
			return Token{}, err
		}
	case isDigit(l.ch):
		if err := l.scanNumber(&tok); err != nil {
			return Token{}, err
		}
	case l.ch == '"':
		if err := l.scanString(&tok); err != nil {
			return Token{}, err
		}
	default:
		if err := l.scanOperator(&tok); err != nil {
			return Token{}, err
		}
	}
	tok.End = l.prev
	l.logToken(tok)
	return tok, nil
}

func (l *Lexer) logToken(tok Token) {
	if l.opts.Verbose {
		log.Infof("lexer: %s at %s", tok, tok.Start)
	}
}

func (l *Lexer) skipTrivia() error {
	for {
		switch {
		case l.ch != eof && unicode.IsSpace(l.ch):
			l.next()
		case l.ch == '#':
			l.next()
			if l.ch == '#' {
				l.next()
				l.skipBlockComment()
			} else {
				for l.ch != '\n' && l.ch != eof {
					l.next()
				}
			}
		default:
			return nil
		}
	}
}

// skipBlockComment consumes through the closing "##" or to end of input.
func (l *Lexer) skipBlockComment() {
	for l.ch != eof {
		if l.ch == '#' {
			l.next()
			if l.ch == '#' {
				l.next()
				return
			}
			continue
		}
		l.next()
	}
}

func (l *Lexer) scanWord(tok *Token) error {
	var b strings.Builder
	runes := 0
	for isLetter(l.ch) {
		if runes >= l.opts.MaxIdentifierLength {
			return l.errorf(diag.ErrIdentifierTooLong, tok.Start,
				"identifier exceeds the maximum length of %d characters", l.opts.MaxIdentifierLength)
		}
		b.WriteRune(l.ch)
		runes++
		l.next()
	}
	word := b.String()
	tok.Kind = LookupKeyword(word)
	tok.Text = word
	return nil
}

func (l *Lexer) scanNumber(tok *Token) error {
	var n int64
	for isDigit(l.ch) {
		d := int64(l.ch - '0')
		if n > (math.MaxInt64-d)/10 {
			return l.errorf(diag.ErrIntegerOverflow, tok.Start, "integer literal exceeds %d", int64(math.MaxInt64))
		}
		n = n*10 + d
		l.next()
	}
	if l.ch != '.' {
		tok.Kind = INT
		tok.Int = n
		return nil
	}
	l.next()
	if !isDigit(l.ch) {
		return l.errorf(diag.ErrUnrecognizedCharacter, l.here(), "invalid float literal: expected a digit after '.'")
	}
	fraction := 0.0
	divisor := 1.0
	for isDigit(l.ch) {
		fraction = fraction*10 + float64(l.ch-'0')
		divisor *= 10
		l.next()
	}
	tok.Kind = FLOAT
	tok.Float = float64(n) + fraction/divisor
	return nil
}

func (l *Lexer) scanString(tok *Token) error {
	l.next()
	var b strings.Builder
	length := 0
	for l.ch != '"' {
		if l.ch == eof {
			return l.errorf(diag.ErrUnterminatedString, tok.Start, "unterminated string")
		}
		if !unicode.IsPrint(l.ch) {
			return l.errorf(diag.ErrNonPrintable, l.here(), "non-printable character with code %d", l.ch)
		}
		if length+1 > l.opts.MaxStringLength {
			return l.errorf(diag.ErrStringTooLong, tok.Start, "string exceeds the maximum length of %d characters", l.opts.MaxStringLength)
		}
		if l.ch == '\\' {
			at := l.here()
			l.next()
			switch l.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case eof:
				return l.errorf(diag.ErrUnterminatedString, tok.Start, "unterminated string")
			default:
				return l.errorf(diag.ErrInvalidEscape, at, "invalid escape sequence '\\%c'", l.ch)
			}
		} else {
			b.WriteRune(l.ch)
		}
		length++
		l.next()
	}
	l.next()
	tok.Kind = STR
	tok.Text = b.String()
	return nil
}

// twoChar lists operators formed by one character of lookahead.
var twoChar = map[rune]map[rune]Kind{
	'=': {'=': EQ, '>': TO},
	'+': {'+': INC},
	'-': {'-': DEC},
	'!': {'=': NE},
	'<': {'=': LE},
	'>': {'=': GE},
	'&': {'&': AND},
	'|': {'|': OR},
	':': {':': COLONS},
}

var oneChar = map[rune]Kind{
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	'[': LBRACKET,
	']': RBRACKET,
	',': COMMA,
	';': SEMI,
	'*': MUL,
	'/': DIV,
	'%': MOD,
	'=': ASSIGN,
	'+': PLUS,
	'-': MINUS,
	'!': NOT,
	'<': LT,
	'>': GT,
}

func (l *Lexer) scanOperator(tok *Token) error {
	first := l.ch
	at := l.here()
	l.next()
	if follow, ok := twoChar[first]; ok {
		if kind, ok := follow[l.ch]; ok {
			l.next()
			tok.Kind = kind
			return nil
		}
	}
	if kind, ok := oneChar[first]; ok {
		tok.Kind = kind
		return nil
	}
	if unicode.IsPrint(first) {
		return l.errorf(diag.ErrUnrecognizedCharacter, at, "unrecognized character '%c'", first)
	}
	return l.errorf(diag.ErrUnrecognizedCharacter, at, "unrecognized character with code %d", first)
}

func isLetter(r rune) bool { return r == '_' || (r != eof && unicode.IsLetter(r)) }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
