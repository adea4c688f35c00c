package ast_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nyaa/interpreter-go/pkg/ast"
	"nyaa/interpreter-go/pkg/diag"
	"nyaa/interpreter-go/pkg/lexer"
	"nyaa/interpreter-go/pkg/parser"
)

const sample = `
kawaii fib(n) => {
  nani (n <= 1) { modoru n; }
  modoru fib(n - 1) + fib(n - 2);
}
uWu_nyaa() => {
  xs => {1, 2.5, "three", HAI};
  for i => (0, 3) { yomu(xs[i]); }
  yomu_ln(fib(10));
}
`

func TestEncodeIsStableAcrossParses(t *testing.T) {
	first, err := parser.ParseSource(sample, lexer.DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	second, err := parser.ParseSource(sample, lexer.DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a, err := json.Marshal(ast.Encode(first))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(ast.Encode(second))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if diff := cmp.Diff(string(a), string(b)); diff != "" {
		t.Fatalf("encodings differ (-first +second):\n%s", diff)
	}
}

func TestEncodeKeepsFieldOrder(t *testing.T) {
	expr := ast.NewSimpleExpr(ast.NewIntegerLiteral(1), ast.NewOperator(ast.OpAdd), ast.NewIdentifier("x"))
	got, err := json.Marshal(ast.Encode(expr))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"SimpleExpr","left":{"type":"NumericLiteral","int":1},"op":"+","right":{"type":"Identifier","name":"x"}}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("encoding mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeIncludesSpans(t *testing.T) {
	id := ast.NewIdentifier("x")
	ast.SetSpan(id, diag.NewSpan(diag.Position{Line: 2, Column: 3}, diag.Position{Line: 2, Column: 3}))
	obj := ast.Encode(id).(ast.Object)
	span, ok := obj.Get("span")
	if !ok || span != "2:3" {
		t.Fatalf("expected span 2:3, got %v", span)
	}
}

func TestBinaryRequiresOperatorAndRightTogether(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for operator without right operand")
		}
	}()
	ast.NewTerm(ast.NewIntegerLiteral(1), ast.NewOperator(ast.OpMul), nil)
}

func TestBinaryWithoutRight(t *testing.T) {
	expr := ast.NewExpr(ast.NewIntegerLiteral(1), nil, nil)
	if expr.HasRight() {
		t.Fatalf("expected no right operand")
	}
	left, op, right := ast.Operands(expr)
	if left == nil || op != nil || right != nil {
		t.Fatalf("unexpected operands %v %v %v", left, op, right)
	}
}
