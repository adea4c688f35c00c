package interpreter

import (
	"fortio.org/log"

	"nyaa/interpreter-go/pkg/ast"
	"nyaa/interpreter-go/pkg/diag"
	"nyaa/interpreter-go/pkg/runtime"
)

// evaluateCall runs a user function in a fresh scope parented at global.
// Results are memoised by the digest of that scope, so a repeated call with
// the same arguments returns the cached value without running the body.
func (i *Interpreter) evaluateCall(n *ast.Call) (runtime.Value, error) {
	fn, err := i.arena.LookupFunction(i.scope, n.Callee.Name)
	if err != nil {
		return nil, diag.WithSpan(err, n.Callee.Span())
	}
	if i.calls.Size() >= i.opts.MaxCallDepth {
		i.calls.Clear()
		return nil, diag.New(diag.Recursion, diag.ErrMaxCallDepth, n.Span(),
			"maximum call depth %d exceeded calling '%s'", i.opts.MaxCallDepth, fn.Name)
	}
	if len(n.Args) != len(fn.Params) {
		return nil, runtimeErr(diag.ErrArity, n, "'%s' takes %d argument(s) but %d were given", fn.Name, len(fn.Params), len(n.Args))
	}
	args := make([]runtime.Value, len(n.Args))
	for idx, arg := range n.Args {
		v, err := i.evalValue(arg)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	i.calls.Push(callFrame{name: fn.Name, span: n.Span()})
	callee := i.arena.Push(fn.Name, runtime.GlobalScope)
	for idx, name := range fn.Params {
		if _, dup := i.arena.LookupSymbol(callee, name, true); dup {
			return nil, runtimeErr(diag.ErrDuplicateParameter, n, "duplicate parameter '%s' in '%s'", name, fn.Name)
		}
		i.arena.Define(callee, name, args[idx])
	}

	key := i.arena.Digest(callee)
	if i.cache != nil {
		if hit, ok := i.cache.Get(key); ok {
			i.cacheHits++
			log.LogVf("call cache hit for %s (depth %d)", fn.Name, i.calls.Size())
			i.arena.Pop(callee)
			i.calls.Pop()
			return hit.(runtime.Value), nil
		}
		i.cacheMisses++
	}

	i.trace("call %s depth=%d", fn.Name, i.calls.Size())
	caller := i.scope
	breaking, continuing := i.breaking, i.continuing
	i.breaking, i.continuing = false, false
	i.scope = callee

	if err := i.evaluateBody(fn.Body); err != nil {
		return nil, err
	}
	var result runtime.Value = runtime.NullValue{}
	if i.returning && i.returnValue != nil {
		result = i.returnValue
	}

	i.returning, i.returnValue = false, nil
	i.breaking, i.continuing = breaking, continuing
	i.scope = caller
	i.arena.Pop(callee)
	i.calls.Pop()

	if i.cache != nil {
		i.cache.Add(key, result)
	}
	return result, nil
}
