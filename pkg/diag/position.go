package diag

import "fmt"

// Position is a 1-based line/column pair. The zero value means "unknown".
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) IsZero() bool { return p.Line == 0 && p.Column == 0 }

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span covers the source text between Start and End (both inclusive positions).
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewSpan builds a span from two positions.
func NewSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

func (s Span) IsZero() bool { return s.Start.IsZero() && s.End.IsZero() }

// String renders "L:C" or "L:C to L:C" when the span covers more than one point.
func (s Span) String() string {
	if s.End.IsZero() || s.End == s.Start {
		return s.Start.String()
	}
	return s.Start.String() + " to " + s.End.String()
}
