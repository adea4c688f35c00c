package diag

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorMessageIncludesPosition(t *testing.T) {
	err := New(Runtime, ErrDivisionByZero, NewSpan(Position{Line: 3, Column: 9}, Position{Line: 3, Column: 13}), "division by zero")
	want := "Runtime Error: division by zero at position 3:9 to 3:13"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorMessageOmitsZeroSpan(t *testing.T) {
	err := New(Recursion, ErrMaxCallDepth, Span{}, "maximum call depth of %d exceeded", 10)
	if strings.Contains(err.Error(), "position") {
		t.Fatalf("expected no position in %q", err.Error())
	}
}

func TestErrorUnwrapsKindAndCause(t *testing.T) {
	cause := &fs.PathError{Op: "open", Path: "missing.txt", Err: fs.ErrNotExist}
	err := Wrap(Runtime, ErrFileIO, Span{}, cause, "cannot open %q", "missing.txt")
	if !errors.Is(err, ErrFileIO) {
		t.Fatalf("expected ErrFileIO in chain")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist in chain")
	}
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("expected *fs.PathError in chain")
	}
	if class, ok := ClassOf(err); !ok || class != Runtime {
		t.Fatalf("ClassOf = %v, %v", class, ok)
	}
}

func TestWithSpanKeepsExistingPosition(t *testing.T) {
	first := NewSpan(Position{Line: 1, Column: 2}, Position{Line: 1, Column: 4})
	err := New(Type, ErrInvalidOperation, first, "bad")
	_ = WithSpan(err, NewSpan(Position{Line: 9, Column: 9}, Position{}))
	if err.Span != first {
		t.Fatalf("span overwritten: %v", err.Span)
	}
	bare := New(Type, ErrInvalidOperation, Span{}, "bad")
	_ = WithSpan(bare, first)
	if bare.Span != first {
		t.Fatalf("span not applied: %v", bare.Span)
	}
}

func TestRenderPlacesCaret(t *testing.T) {
	src := "uWu_nyaa() => {\n  x = 5 / 0;\n}\n"
	err := New(Runtime, ErrDivisionByZero, NewSpan(Position{Line: 2, Column: 7}, Position{Line: 2, Column: 11}), "division by zero")
	out := Render(err, "main.ny", src)
	if !strings.Contains(out, "--> main.ny:2:7") {
		t.Fatalf("missing location header:\n%s", out)
	}
	if !strings.Contains(out, "     |       ^^^^^\n") {
		t.Fatalf("caret misplaced:\n%s", out)
	}
}
