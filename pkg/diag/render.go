package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Render formats err with a numbered source excerpt and a caret under the
// offending column. Errors without a position render as their message.
func Render(err error, name, src string) string {
	var d *Error
	if !errors.As(err, &d) || d.Span.IsZero() || src == "" {
		return err.Error()
	}
	lines := strings.Split(src, "\n")
	line := clamp(d.Span.Start.Line, 1, len(lines))
	col := d.Span.Start.Column
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s\n  --> %s:%d:%d\n", err.Error(), name, line, col)
	} else {
		fmt.Fprintf(&b, "%s\n", err.Error())
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])

	width := 1
	if d.Span.End.Line == d.Span.Start.Line && d.Span.End.Column > col {
		width = d.Span.End.Column - col + 1
	}
	fmt.Fprintf(&b, "     | %s%s\n", strings.Repeat(" ", col-1), strings.Repeat("^", width))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
