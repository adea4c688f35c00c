package lexer

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nyaa/interpreter-go/pkg/diag"
)

func kinds(t *testing.T, src string) []Kind {
	t.Helper()
	toks, err := Tokenize(src, DefaultOptions())
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeProgramSkeleton(t *testing.T) {
	got := kinds(t, `uWu_nyaa() => { yomu_ln("hi"); }`)
	want := []Kind{MAIN, LPAREN, RPAREN, TO, LBRACE, PRINTLN, LPAREN, STR, RPAREN, SEMI, RBRACE, EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeOperators(t *testing.T) {
	got := kinds(t, "== => = ++ + -- - != ! <= < >= > && || :: , ; % * / [ ]")
	want := []Kind{EQ, TO, ASSIGN, INC, PLUS, DEC, MINUS, NE, NOT, LE, LT, GE, GT, AND, OR, COLONS, COMMA, SEMI, MOD, MUL, DIV, LBRACKET, RBRACKET, EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestSpelledOperatorsShareKinds(t *testing.T) {
	got := kinds(t, "purasu mainasu purodakuto supuritto ando matawa nai")
	want := []Kind{PLUS, MINUS, MUL, DIV, AND, OR, NOT, EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywordsResolveAfterScan(t *testing.T) {
	cases := map[string]Kind{
		"kawaii":      DEF,
		"modoru":      RET,
		"daijoubu":    WHILE,
		"nani":        IF,
		"nandesuka":   ELIF,
		"baka":        ELSE,
		"yamete":      BREAK,
		"motto":       CONTINUE,
		"HAI":         TRUE,
		"IIE":         FALSE,
		"f_EOF":       FEOF,
		"f_writeline": FWRITELINE,
		"kawaii_x":    ID,
		"Hai":         ID,
	}
	for word, want := range cases {
		if got := LookupKeyword(word); got != want {
			t.Errorf("LookupKeyword(%q) = %v, want %v", word, got, want)
		}
	}
}

func TestNumbers(t *testing.T) {
	toks, err := Tokenize("42 3.25 0.5", DefaultOptions())
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if toks[0].Kind != INT || toks[0].Int != 42 {
		t.Fatalf("expected INT 42, got %v", toks[0])
	}
	if toks[1].Kind != FLOAT || toks[1].Float != 3.25 {
		t.Fatalf("expected FLOAT 3.25, got %v", toks[1])
	}
	if toks[2].Kind != FLOAT || toks[2].Float != 0.5 {
		t.Fatalf("expected FLOAT 0.5, got %v", toks[2])
	}
}

func TestStringEscapes(t *testing.T) {
	toks, err := Tokenize(`"a\tb\n\"q\"\\"`, DefaultOptions())
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if toks[0].Text != "a\tb\n\"q\"\\" {
		t.Fatalf("unexpected string contents %q", toks[0].Text)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	src := "# line comment\nx ## block\ncomment ## y # trailing"
	got := kinds(t, src)
	want := []Kind{ID, ID, EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestPositionsAreOneBased(t *testing.T) {
	toks, err := Tokenize("x = 1\n  yomu", DefaultOptions())
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	want := []diag.Position{{Line: 1, Column: 1}, {Line: 1, Column: 3}, {Line: 1, Column: 5}, {Line: 2, Column: 3}}
	for i, pos := range want {
		if toks[i].Start != pos {
			t.Errorf("token %d start = %v, want %v", i, toks[i].Start, pos)
		}
	}
	if toks[3].End != (diag.Position{Line: 2, Column: 6}) {
		t.Errorf("yomu end = %v", toks[3].End)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New(DefaultOptions())
	l.Analyze("a b")
	peeked, err := l.PeekToken()
	if err != nil {
		t.Fatalf("PeekToken: %v", err)
	}
	again, _ := l.PeekToken()
	got, _ := l.GetToken()
	if peeked != again || peeked != got || got.Text != "a" {
		t.Fatalf("peek/get mismatch: %v %v %v", peeked, again, got)
	}
	second, _ := l.GetToken()
	if second.Text != "b" {
		t.Fatalf("expected b, got %v", second)
	}
}

func TestLexicalErrors(t *testing.T) {
	long := strings.Repeat("a", DefaultMaxIdentifierLength+1)
	cases := []struct {
		name string
		src  string
		kind error
	}{
		{"unrecognized", "x @ y", diag.ErrUnrecognizedCharacter},
		{"single colon", "a : b", diag.ErrUnrecognizedCharacter},
		{"identifier too long", long, diag.ErrIdentifierTooLong},
		{"unterminated", `"abc`, diag.ErrUnterminatedString},
		{"bad escape", `"a\qb"`, diag.ErrInvalidEscape},
		{"non printable", "\"a\x01b\"", diag.ErrNonPrintable},
		{"overflow", "99999999999999999999", diag.ErrIntegerOverflow},
		{"dangling dot", "1.", diag.ErrUnrecognizedCharacter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Tokenize(tc.src, DefaultOptions())
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			if class, _ := diag.ClassOf(err); class != diag.Lexical {
				t.Fatalf("expected lexical class, got %v", class)
			}
		})
	}
}

func TestStringLimitIsConfigurable(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxStringLength = 3
	if _, err := Tokenize(`"abc"`, opts); err != nil {
		t.Fatalf("expected 3-char string to pass: %v", err)
	}
	if _, err := Tokenize(`"abcd"`, opts); !errors.Is(err, diag.ErrStringTooLong) {
		t.Fatalf("expected ErrStringTooLong, got %v", err)
	}
}

func TestDigitsEndAnIdentifier(t *testing.T) {
	toks, err := Tokenize("x1", DefaultOptions())
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	got := make([]string, len(toks))
	for i, tok := range toks {
		got[i] = tok.String()
	}
	if diff := cmp.Diff([]string{"ID(x)", "INT(1)", "EOF"}, got); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestIdentifierLimitCountsCharacters(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIdentifierLength = 3
	if _, err := Tokenize("ねこだ", opts); err != nil {
		t.Fatalf("expected 3-character identifier to pass: %v", err)
	}
	if _, err := Tokenize("ねこだよ", opts); !errors.Is(err, diag.ErrIdentifierTooLong) {
		t.Fatalf("expected ErrIdentifierTooLong, got %v", err)
	}
}
