package lexer

import (
	"fmt"

	"nyaa/interpreter-go/pkg/diag"
)

// Kind identifies a token category.
type Kind int

const (
	EOF Kind = iota

	ID
	INT
	FLOAT
	STR

	// reserved words
	MAIN
	PRINT
	PRINTLN
	INPUT
	WHILE
	FOR
	IF
	ELIF
	ELSE
	BREAK
	CONTINUE
	DEF
	RET
	TRUE
	FALSE
	FOPEN
	FCLOSE
	FREAD
	FREADLINE
	FWRITE
	FWRITELINE
	FEOF
	ASCHAR
	ASINT
	SPLIT
	LEN

	// operators and punctuation
	PLUS
	MINUS
	MUL
	DIV
	MOD
	AND
	OR
	NOT
	EQ
	NE
	LT
	LE
	GT
	GE
	ASSIGN
	TO
	INC
	DEC
	COLONS
	COMMA
	SEMI
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
)

var kindNames = map[Kind]string{
	EOF:        "end of input",
	ID:         "identifier",
	INT:        "integer",
	FLOAT:      "float",
	STR:        "string",
	MAIN:       "uWu_nyaa",
	PRINT:      "yomu",
	PRINTLN:    "yomu_ln",
	INPUT:      "ohayo",
	WHILE:      "daijoubu",
	FOR:        "for",
	IF:         "nani",
	ELIF:       "nandesuka",
	ELSE:       "baka",
	BREAK:      "yamete",
	CONTINUE:   "motto",
	DEF:        "kawaii",
	RET:        "modoru",
	TRUE:       "HAI",
	FALSE:      "IIE",
	FOPEN:      "f_open",
	FCLOSE:     "f_close",
	FREAD:      "f_read",
	FREADLINE:  "f_readline",
	FWRITE:     "f_write",
	FWRITELINE: "f_writeline",
	FEOF:       "f_EOF",
	ASCHAR:     "asChar",
	ASINT:      "asInt",
	SPLIT:      "split",
	LEN:        "len",
	PLUS:       "+",
	MINUS:      "-",
	MUL:        "*",
	DIV:        "/",
	MOD:        "%",
	AND:        "&&",
	OR:         "||",
	NOT:        "!",
	EQ:         "==",
	NE:         "!=",
	LT:         "<",
	LE:         "<=",
	GT:         ">",
	GE:         ">=",
	ASSIGN:     "=",
	TO:         "=>",
	INC:        "++",
	DEC:        "--",
	COLONS:     "::",
	COMMA:      ",",
	SEMI:       ";",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACE:     "{",
	RBRACE:     "}",
	LBRACKET:   "[",
	RBRACKET:   "]",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

// keywords maps reserved words, including the spelled-out operators, to kinds.
var keywords = map[string]Kind{
	"uWu_nyaa":    MAIN,
	"yomu":        PRINT,
	"yomu_ln":     PRINTLN,
	"ohayo":       INPUT,
	"daijoubu":    WHILE,
	"for":         FOR,
	"nani":        IF,
	"nandesuka":   ELIF,
	"baka":        ELSE,
	"yamete":      BREAK,
	"motto":       CONTINUE,
	"kawaii":      DEF,
	"modoru":      RET,
	"HAI":         TRUE,
	"IIE":         FALSE,
	"f_open":      FOPEN,
	"f_close":     FCLOSE,
	"f_read":      FREAD,
	"f_readline":  FREADLINE,
	"f_write":     FWRITE,
	"f_writeline": FWRITELINE,
	"f_EOF":       FEOF,
	"asChar":      ASCHAR,
	"asInt":       ASINT,
	"split":       SPLIT,
	"len":         LEN,
	"purasu":      PLUS,
	"mainasu":     MINUS,
	"purodakuto":  MUL,
	"supuritto":   DIV,
	"ando":        AND,
	"matawa":      OR,
	"nai":         NOT,
}

// LookupKeyword resolves a scanned word to its reserved kind, or ID.
func LookupKeyword(word string) Kind {
	if k, ok := keywords[word]; ok {
		return k
	}
	return ID
}

// Token is one lexeme. Int and Float are only meaningful for INT and FLOAT;
// Text holds identifier names, string contents, and reserved spellings.
type Token struct {
	Kind  Kind
	Text  string
	Int   int64
	Float float64
	Start diag.Position
	End   diag.Position
}

// Span returns the token's source range.
func (t Token) Span() diag.Span { return diag.NewSpan(t.Start, t.End) }

func (t Token) String() string {
	switch t.Kind {
	case ID:
		return fmt.Sprintf("ID(%s)", t.Text)
	case STR:
		return fmt.Sprintf("STR(%q)", t.Text)
	case INT:
		return fmt.Sprintf("INT(%d)", t.Int)
	case FLOAT:
		return fmt.Sprintf("FLOAT(%g)", t.Float)
	case EOF:
		return "EOF"
	default:
		return t.Kind.String()
	}
}

// Describe renders the token for "found X" messages.
func (t Token) Describe() string {
	switch t.Kind {
	case ID:
		return fmt.Sprintf("identifier %q", t.Text)
	case STR:
		return fmt.Sprintf("string %q", t.Text)
	case INT:
		return fmt.Sprintf("integer %d", t.Int)
	case FLOAT:
		return fmt.Sprintf("float %g", t.Float)
	case EOF:
		return "end of input"
	default:
		return fmt.Sprintf("%q", t.Kind.String())
	}
}
