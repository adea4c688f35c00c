package parser

import (
	"errors"
	"testing"

	"nyaa/interpreter-go/pkg/ast"
	"nyaa/interpreter-go/pkg/diag"
	"nyaa/interpreter-go/pkg/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := ParseSource(src, lexer.DefaultOptions())
	if err != nil {
		t.Fatalf("ParseSource returned error: %v", err)
	}
	return prog
}

func mustInteractive(t *testing.T, src string) ast.Node {
	t.Helper()
	node, err := ParseInteractiveSource(src, lexer.DefaultOptions())
	if err != nil {
		t.Fatalf("ParseInteractiveSource(%q) returned error: %v", src, err)
	}
	return node
}

func TestParseEmptyProgram(t *testing.T) {
	prog := mustParse(t, "   # nothing here\n")
	if !prog.Empty() {
		t.Fatalf("expected empty program, got %#v", prog)
	}
}

func TestParseProgramWithFunctions(t *testing.T) {
	src := `
kawaii add(a, b) => { modoru a + b; }
kawaii greet => yomu_ln("hi");
uWu_nyaa() => {
  x = add(2, 3);
  greet();
}
`
	prog := mustParse(t, src)
	if len(prog.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(prog.Functions))
	}
	add := prog.Functions[0]
	if add.Name.Name != "add" || len(add.Params) != 2 || add.Params[1].Name != "b" {
		t.Fatalf("unexpected add definition: %#v", add)
	}
	if _, ok := add.Body.Statements[0].(*ast.Return); !ok {
		t.Fatalf("expected return statement, got %T", add.Body.Statements[0])
	}
	greet := prog.Functions[1]
	if len(greet.Params) != 0 || len(greet.Body.Statements) != 1 {
		t.Fatalf("unexpected greet definition: %#v", greet)
	}
	if len(prog.Body.Statements) != 2 {
		t.Fatalf("expected 2 main statements, got %d", len(prog.Body.Statements))
	}
}

func TestParseSingleStatementMain(t *testing.T) {
	prog := mustParse(t, `uWu_nyaa() => yomu("x");`)
	if len(prog.Body.Statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(prog.Body.Statements))
	}
	if _, err := ParseSource(`uWu_nyaa() => yomu("x")`, lexer.DefaultOptions()); err == nil {
		t.Fatalf("expected missing ';' to fail")
	}
}

func TestPrecedenceLayers(t *testing.T) {
	node := mustInteractive(t, "1 + 2 * 3")
	sum, ok := node.(*ast.SimpleExpr)
	if !ok {
		t.Fatalf("expected SimpleExpr, got %T", node)
	}
	if sum.Op.Symbol != ast.OpAdd {
		t.Fatalf("expected +, got %s", sum.Op)
	}
	product, ok := sum.Right.(*ast.Term)
	if !ok || product.Op.Symbol != ast.OpMul {
		t.Fatalf("expected Term on the right, got %T", sum.Right)
	}
}

func TestAdditiveIsLeftAssociative(t *testing.T) {
	node := mustInteractive(t, "10 - 4 - 3")
	outer, ok := node.(*ast.SimpleExpr)
	if !ok {
		t.Fatalf("expected SimpleExpr, got %T", node)
	}
	if _, ok := outer.Left.(*ast.SimpleExpr); !ok {
		t.Fatalf("expected nested left SimpleExpr, got %T", outer.Left)
	}
	if lit, ok := outer.Right.(*ast.NumericLiteral); !ok || lit.Int != 3 {
		t.Fatalf("expected literal 3 on the right, got %#v", outer.Right)
	}
}

func TestRelationalWrapsSimpleExprs(t *testing.T) {
	node := mustInteractive(t, "a + 1 <= b ando HAI")
	expr, ok := node.(*ast.Expr)
	if !ok || expr.Op.Symbol != ast.OpLe {
		t.Fatalf("expected Expr with <=, got %T", node)
	}
	if term, ok := expr.Right.(*ast.Term); !ok || term.Op.Symbol != ast.OpAnd {
		t.Fatalf("expected and-term on the right, got %T", expr.Right)
	}
}

func TestUnaryAndParens(t *testing.T) {
	node := mustInteractive(t, "-(1 + 2)")
	neg, ok := node.(*ast.Factor)
	if !ok || neg.Op == nil || neg.Op.Symbol != ast.OpSub {
		t.Fatalf("expected unary minus, got %#v", node)
	}
	paren, ok := neg.Operand.(*ast.Factor)
	if !ok || paren.Op != nil {
		t.Fatalf("expected parenthesised factor, got %#v", neg.Operand)
	}
	not := mustInteractive(t, "!HAI")
	if f, ok := not.(*ast.Factor); !ok || f.Op.Symbol != ast.OpNot {
		t.Fatalf("expected not factor, got %#v", not)
	}
}

func TestPointerDeclarations(t *testing.T) {
	src := `uWu_nyaa() => {
  arr => [3];
  lst => {1, "two", HAI};
  f => f_open("out.txt", "w");
  parts => split("a,b", ",");
  arr[0] = 9;
}`
	prog := mustParse(t, src)
	stmts := prog.Body.Statements
	if def, ok := stmts[0].(*ast.ArrayDefine); !ok || def.Size == nil {
		t.Fatalf("expected sized array, got %#v", stmts[0])
	}
	if def, ok := stmts[1].(*ast.ArrayDefine); !ok || len(def.Elements) != 3 {
		t.Fatalf("expected literal array, got %#v", stmts[1])
	}
	if _, ok := stmts[2].(*ast.FileOpen); !ok {
		t.Fatalf("expected file open, got %T", stmts[2])
	}
	if _, ok := stmts[3].(*ast.Split); !ok {
		t.Fatalf("expected split, got %T", stmts[3])
	}
	if upd, ok := stmts[4].(*ast.ArrayUpdate); !ok || upd.Access.Array.Name != "arr" {
		t.Fatalf("expected array update, got %#v", stmts[4])
	}
}

func TestControlFlow(t *testing.T) {
	src := `uWu_nyaa() => {
  i = 0;
  daijoubu (i < 10) {
    nani (i == 5) { yamete; }
    nandesuka (i == 3) { i++; motto; }
    baka { i++; }
  }
  for j => (1, 3) { yomu(j); }
}`
	prog := mustParse(t, src)
	loop, ok := prog.Body.Statements[1].(*ast.While)
	if !ok {
		t.Fatalf("expected while, got %T", prog.Body.Statements[1])
	}
	cond, ok := loop.Body.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("expected if, got %T", loop.Body.Statements[0])
	}
	if _, ok := cond.Body.Statements[0].(*ast.Break); !ok {
		t.Fatalf("expected break in if body")
	}
	if len(cond.Elifs) != 1 || cond.Else == nil {
		t.Fatalf("expected one elif and an else")
	}
	if _, ok := cond.Elifs[0].Body.Statements[1].(*ast.Continue); !ok {
		t.Fatalf("expected continue closing the elif body")
	}
	if f, ok := prog.Body.Statements[2].(*ast.For); !ok || f.Var.Name != "j" {
		t.Fatalf("expected for loop, got %#v", prog.Body.Statements[2])
	}
}

func TestBreakOutsideConditionalBodyFails(t *testing.T) {
	_, err := ParseSource(`uWu_nyaa() => { yamete; }`, lexer.DefaultOptions())
	if !errors.Is(err, diag.ErrUnexpectedToken) {
		t.Fatalf("expected unexpected token error, got %v", err)
	}
}

func TestFileBuiltins(t *testing.T) {
	src := `uWu_nyaa() => {
  f => f_open("in.txt", "r");
  line = f_readline(f);
  chunk = f_read(f, 4);
  rest = f_read(f);
  done = f_EOF(f);
  f_close(f);
  g => f_open("out.txt", "a");
  f_write(g, "x");
  f_writeline(g, 1 + 2);
  f_close(g);
}`
	prog := mustParse(t, src)
	if got := len(prog.Body.Statements); got != 10 {
		t.Fatalf("expected 10 statements, got %d", got)
	}
	read := prog.Body.Statements[2].(*ast.Assignment).Value.(*ast.FileRead)
	if read.Count == nil {
		t.Fatalf("expected count on f_read")
	}
	rest := prog.Body.Statements[3].(*ast.Assignment).Value.(*ast.FileRead)
	if rest.Count != nil {
		t.Fatalf("expected no count on bare f_read")
	}
}

func TestInteractiveForms(t *testing.T) {
	cases := []struct {
		src  string
		want ast.NodeType
	}{
		{"kawaii sq(x) => modoru x * x;", ast.NodeFuncDef},
		{"x = 5;", ast.NodeBody},
		{"x = 5; y = x + 1", ast.NodeBody},
		{"x++", ast.NodeBody},
		{"yomu_ln(1, 2)", ast.NodeBody},
		{"sq(4)", ast.NodeCall},
		{"arr[1]", ast.NodeArrayAccess},
		{"arr[1] + 2", ast.NodeSimpleExpr},
		{"arr[1] = 2; yomu(arr[1])", ast.NodeBody},
		{"x", ast.NodeIdentifier},
		{"asInt(\"a\") + len(\"abc\");", ast.NodeSimpleExpr},
	}
	for _, tc := range cases {
		node := mustInteractive(t, tc.src)
		if node.NodeType() != tc.want {
			t.Errorf("%q parsed as %s, want %s", tc.src, node.NodeType(), tc.want)
		}
	}
}

func TestInteractiveEmptyInput(t *testing.T) {
	node, err := ParseInteractiveSource("  # only a comment", lexer.DefaultOptions())
	if err != nil || node != nil {
		t.Fatalf("expected nil node and nil error, got %v, %v", node, err)
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := ParseSource("uWu_nyaa() => {\n  x = ;\n}", lexer.DefaultOptions())
	var d *diag.Error
	if !errors.As(err, &d) {
		t.Fatalf("expected *diag.Error, got %v", err)
	}
	if d.Class != diag.Syntax {
		t.Fatalf("expected syntax class, got %v", d.Class)
	}
	if d.Span.Start != (diag.Position{Line: 2, Column: 7}) {
		t.Fatalf("expected error at 2:7, got %v", d.Span.Start)
	}
}

func TestLexicalErrorsPropagate(t *testing.T) {
	_, err := ParseSource(`uWu_nyaa() => { x = "oops; }`, lexer.DefaultOptions())
	if !errors.Is(err, diag.ErrUnterminatedString) {
		t.Fatalf("expected unterminated string, got %v", err)
	}
}

func TestIsIncomplete(t *testing.T) {
	_, err := ParseInteractiveSource("kawaii f(a) => {\n  modoru a;", lexer.DefaultOptions())
	if !IsIncomplete(err) {
		t.Fatalf("expected incomplete input error, got %v", err)
	}
	_, err = ParseInteractiveSource("x = = 1", lexer.DefaultOptions())
	if err == nil || IsIncomplete(err) {
		t.Fatalf("expected a complete-input syntax error, got %v", err)
	}
}

func TestNodeSpans(t *testing.T) {
	node := mustInteractive(t, "foo = 1 + 22")
	body := node.(*ast.Body)
	assign := body.Statements[0].(*ast.Assignment)
	want := diag.NewSpan(diag.Position{Line: 1, Column: 1}, diag.Position{Line: 1, Column: 12})
	if assign.Span() != want {
		t.Fatalf("assignment span = %v, want %v", assign.Span(), want)
	}
	if got := assign.Value.Span().Start; got != (diag.Position{Line: 1, Column: 7}) {
		t.Fatalf("value starts at %v", got)
	}
}
