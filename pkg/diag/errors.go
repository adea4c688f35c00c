package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Class is the stage-level category of a diagnostic.
type Class int

const (
	Lexical Class = iota
	Syntax
	Type
	Runtime
	Recursion
)

func (c Class) String() string {
	switch c {
	case Lexical:
		return "Lexical"
	case Syntax:
		return "Syntax"
	case Type:
		return "Type"
	case Runtime:
		return "Runtime"
	case Recursion:
		return "Recursion"
	default:
		return fmt.Sprintf("unknown_class_%d", int(c))
	}
}

// Sentinel kinds. Match them with errors.Is.
var (
	ErrUnrecognizedCharacter = errors.New("unrecognized character")
	ErrIdentifierTooLong     = errors.New("identifier too long")
	ErrStringTooLong         = errors.New("string too long")
	ErrUnterminatedString    = errors.New("unterminated string")
	ErrInvalidEscape         = errors.New("invalid escape sequence")
	ErrNonPrintable          = errors.New("non-printable character in string")
	ErrIntegerOverflow       = errors.New("integer literal overflow")

	ErrUnexpectedToken = errors.New("unexpected token")
	// ErrUnexpectedEOF also matches ErrUnexpectedToken.
	ErrUnexpectedEOF = fmt.Errorf("%w: end of input", ErrUnexpectedToken)

	ErrInvalidOperation = errors.New("invalid operation")
	ErrUnaryType        = errors.New("invalid unary operand")

	ErrDivisionByZero     = errors.New("division by zero")
	ErrUndefined          = errors.New("undefined name")
	ErrDuplicateParameter = errors.New("duplicate parameter")
	ErrArity              = errors.New("wrong number of arguments")
	ErrIndexOutOfBounds   = errors.New("index out of bounds")
	ErrNonIntegerRange    = errors.New("non-integer range bound")
	ErrNotAnArray         = errors.New("not an array")
	ErrArgumentType       = errors.New("invalid argument")
	ErrFileMode           = errors.New("invalid file mode")
	ErrFileState          = errors.New("invalid file state")
	ErrFileIO             = errors.New("file i/o failure")
	ErrTooLarge           = errors.New("allocation too large")

	ErrMaxCallDepth = errors.New("maximum call depth exceeded")
)

// Error is the single diagnostic type produced by every stage.
type Error struct {
	Class Class
	Kind  error
	Msg   string
	Span  Span
	Err   error
}

// New builds a diagnostic. Kind may be nil for purely descriptive errors.
func New(class Class, kind error, span Span, format string, args ...any) *Error {
	return &Error{Class: class, Kind: kind, Msg: fmt.Sprintf(format, args...), Span: span}
}

// Wrap builds a diagnostic carrying a host cause.
func Wrap(class Class, kind error, span Span, cause error, format string, args ...any) *Error {
	e := New(class, kind, span, format, args...)
	e.Err = cause
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Class.String())
	b.WriteString(" Error: ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if !e.Span.IsZero() {
		b.WriteString(" at position ")
		b.WriteString(e.Span.String())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// WithSpan returns e positioned at span unless it already carries a position.
func WithSpan(err error, span Span) error {
	var d *Error
	if errors.As(err, &d) && d.Span.IsZero() {
		d.Span = span
	}
	return err
}

// ClassOf reports the class of err, or false when err is not a diagnostic.
func ClassOf(err error) (Class, bool) {
	var d *Error
	if errors.As(err, &d) {
		return d.Class, true
	}
	return 0, false
}
