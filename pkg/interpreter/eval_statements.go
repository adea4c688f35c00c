package interpreter

import (
	"errors"
	"io"
	"strings"

	"github.com/golang/groupcache/lru"

	"nyaa/interpreter-go/pkg/ast"
	"nyaa/interpreter-go/pkg/diag"
	"nyaa/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateProgram(p *ast.Program) (runtime.Value, error) {
	for _, fn := range p.Functions {
		if _, err := i.evaluateFuncDef(fn); err != nil {
			return nil, err
		}
	}
	if p.Body == nil {
		return nil, nil
	}
	return nil, i.evaluateBody(p.Body)
}

func (i *Interpreter) evaluateFuncDef(def *ast.FuncDef) (runtime.Value, error) {
	i.trace("define %s/%d", def.Name.Name, len(def.Params))
	i.arena.Define(i.scope, def.Name.Name, runtime.NewFunction(def))
	// Cached results may belong to a body this definition replaces.
	if i.cache != nil && i.cache.Len() > 0 {
		i.cache = lru.New(i.opts.CallCacheSize)
	}
	return nil, nil
}

// evaluateBody runs statements until one raises a control flag.
func (i *Interpreter) evaluateBody(b *ast.Body) error {
	if b == nil {
		return nil
	}
	for _, stmt := range b.Statements {
		if i.breaking || i.continuing || i.returning {
			return nil
		}
		if _, err := i.eval(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluateReturn(r *ast.Return) (runtime.Value, error) {
	var v runtime.Value = runtime.NullValue{}
	if r.Value != nil {
		var err error
		if v, err = i.evalValue(r.Value); err != nil {
			return nil, err
		}
	}
	i.returning = true
	i.returnValue = v
	return nil, nil
}

func (i *Interpreter) evaluateCondition(expr ast.Expression) (bool, error) {
	v, err := i.evalValue(expr)
	if err != nil {
		return false, err
	}
	return runtime.Truthy(v), nil
}

func (i *Interpreter) evaluateIf(n *ast.If) error {
	ok, err := i.evaluateCondition(n.Cond)
	if err != nil {
		return err
	}
	if ok {
		return i.evaluateBody(n.Body)
	}
	for _, elif := range n.Elifs {
		ok, err := i.evaluateCondition(elif.Cond)
		if err != nil {
			return err
		}
		if ok {
			return i.evaluateBody(elif.Body)
		}
	}
	if n.Else != nil {
		return i.evaluateBody(n.Else.Body)
	}
	return nil
}

// loopStep consumes break/continue after one iteration and reports whether
// the loop should stop.
func (i *Interpreter) loopStep() bool {
	if i.breaking {
		i.breaking = false
		return true
	}
	i.continuing = false
	return i.returning
}

func (i *Interpreter) evaluateWhile(n *ast.While) error {
	for {
		ok, err := i.evaluateCondition(n.Cond)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := i.evaluateBody(n.Body); err != nil {
			return err
		}
		if i.loopStep() {
			return nil
		}
	}
}

func (i *Interpreter) evaluateFor(n *ast.For) error {
	bound := func(expr ast.Expression) (int64, error) {
		v, err := i.evalValue(expr)
		if err != nil {
			return 0, err
		}
		iv, ok := v.(runtime.IntegerValue)
		if !ok {
			return 0, runtimeErr(diag.ErrNonIntegerRange, expr, "for range bounds must be integers, got %s", v.Kind())
		}
		return iv.Val, nil
	}
	start, err := bound(n.Start)
	if err != nil {
		return err
	}
	end, err := bound(n.End)
	if err != nil {
		return err
	}
	step := int64(1)
	if start > end {
		step = -1
	}
	for v := start; ; v += step {
		i.arena.Define(i.scope, n.Var.Name, runtime.IntegerValue{Val: v})
		if err := i.evaluateBody(n.Body); err != nil {
			return err
		}
		if i.loopStep() || v == end {
			return nil
		}
	}
}

func (i *Interpreter) evaluateAssignment(n *ast.Assignment) (runtime.Value, error) {
	v, err := i.evalValue(n.Value)
	if err != nil {
		return nil, err
	}
	i.arena.Define(i.scope, n.Target.Name, v)
	return nil, nil
}

func (i *Interpreter) evaluatePostfix(n *ast.Postfix) (runtime.Value, error) {
	current, err := i.resolve(runtime.ReferenceValue{Name: n.Target.Name}, n.Target.Span())
	if err != nil {
		return nil, err
	}
	delta := int64(1)
	if n.Op.Symbol == ast.OpDec {
		delta = -1
	}
	var next runtime.Value
	switch v := current.(type) {
	case runtime.IntegerValue:
		next = runtime.IntegerValue{Val: v.Val + delta}
	case runtime.FloatValue:
		next = runtime.FloatValue{Val: v.Val + float64(delta)}
	default:
		return nil, typeErr(diag.ErrUnaryType, n, "operator %s needs a number, got %s", n.Op.Symbol, describe(current))
	}
	i.arena.Define(i.scope, n.Target.Name, next)
	return nil, nil
}

func (i *Interpreter) evaluatePrint(n *ast.Print) error {
	parts := make([]string, len(n.Args))
	for idx, arg := range n.Args {
		v, err := i.evalValue(arg)
		if err != nil {
			return err
		}
		parts[idx] = runtime.Format(v)
	}
	line := strings.Join(parts, " ")
	if n.Newline {
		line += "\n"
	}
	return diag.WithSpan(i.write(line), n.Span())
}

func (i *Interpreter) evaluateInput(n *ast.Input) (runtime.Value, error) {
	if n.Prompt != nil {
		if err := i.write(n.Prompt.Value); err != nil {
			return nil, diag.WithSpan(err, n.Span())
		}
	}
	line, err := i.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, diag.Wrap(diag.Runtime, diag.ErrFileIO, n.Span(), err, "read input")
	}
	line = strings.TrimSuffix(line, "\n")
	return runtime.StringValue{Val: strings.TrimSuffix(line, "\r")}, nil
}
