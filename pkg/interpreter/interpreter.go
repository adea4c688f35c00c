package interpreter

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"fortio.org/log"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/golang/groupcache/lru"

	"nyaa/interpreter-go/pkg/ast"
	"nyaa/interpreter-go/pkg/diag"
	"nyaa/interpreter-go/pkg/runtime"
)

const (
	DefaultMaxCallDepth  = 1000
	DefaultCallCacheSize = 1000

	// MaxAllocation bounds repeated strings (bytes) and sized arrays (slots).
	MaxAllocation = 1 << 24
)

// Options configures an interpreter. Use DefaultOptions as the base.
type Options struct {
	Stdout io.Writer
	Stdin  io.Reader
	// MaxCallDepth bounds nested calls; values <= 0 mean the default.
	MaxCallDepth int
	// CallCacheSize is the call-result cache capacity; 0 disables it.
	CallCacheSize int
	Verbose       bool
}

// DefaultOptions wires the process streams and stock limits.
func DefaultOptions() Options {
	return Options{
		Stdout:        os.Stdout,
		Stdin:         os.Stdin,
		MaxCallDepth:  DefaultMaxCallDepth,
		CallCacheSize: DefaultCallCacheSize,
	}
}

type callFrame struct {
	name string
	span diag.Span
}

// Interpreter evaluates Nyaa trees. It is not safe for concurrent use.
type Interpreter struct {
	opts  Options
	out   io.Writer
	in    *bufio.Reader
	arena *runtime.Arena
	scope runtime.ScopeID

	calls *arraystack.Stack
	cache *lru.Cache

	breaking    bool
	continuing  bool
	returning   bool
	returnValue runtime.Value

	cacheHits   int
	cacheMisses int
}

// New returns an interpreter with DefaultOptions.
func New() *Interpreter {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions returns an interpreter with an empty global scope.
func NewWithOptions(opts Options) *Interpreter {
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stdin == nil {
		opts.Stdin = eofReader{}
	}
	i := &Interpreter{
		opts:  opts,
		out:   opts.Stdout,
		in:    bufio.NewReader(opts.Stdin),
		arena: runtime.NewArena(),
		scope: runtime.GlobalScope,
		calls: arraystack.New(),
	}
	if opts.CallCacheSize > 0 {
		i.cache = lru.New(opts.CallCacheSize)
	}
	return i
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

// Arena exposes the scope arena (global scope is runtime.GlobalScope).
func (i *Interpreter) Arena() *runtime.Arena { return i.arena }

// CallDepth is the number of active call frames.
func (i *Interpreter) CallDepth() int { return i.calls.Size() }

// CacheStats reports call-result cache hits and misses so far.
func (i *Interpreter) CacheStats() (hits, misses int) { return i.cacheHits, i.cacheMisses }

// Interpret evaluates a program, definition, statement list, or expression.
// A nil value means the node produced nothing to show. After an error the
// transient state is reset so the interpreter can keep going.
func (i *Interpreter) Interpret(node ast.Node) (runtime.Value, error) {
	if node == nil {
		return nil, nil
	}
	v, err := i.eval(node)
	if err != nil {
		i.reset()
		return nil, err
	}
	if i.returning {
		v = i.returnValue
	}
	i.clearFlags()
	if ref, ok := v.(runtime.ReferenceValue); ok {
		if v, err = i.resolve(ref, node.Span()); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (i *Interpreter) clearFlags() {
	i.breaking = false
	i.continuing = false
	i.returning = false
	i.returnValue = nil
}

func (i *Interpreter) reset() {
	i.clearFlags()
	i.calls.Clear()
	i.arena.Reset()
	i.scope = runtime.GlobalScope
}

func (i *Interpreter) trace(format string, args ...any) {
	if i.opts.Verbose {
		log.Infof("interpreter: "+format, args...)
	}
}

// eval dispatches on the node variant.
func (i *Interpreter) eval(node ast.Node) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Program:
		return i.evaluateProgram(n)
	case *ast.FuncDef:
		return i.evaluateFuncDef(n)
	case *ast.Body:
		return nil, i.evaluateBody(n)
	case *ast.Return:
		return i.evaluateReturn(n)
	case *ast.Break:
		i.breaking = true
		return nil, nil
	case *ast.Continue:
		i.continuing = true
		return nil, nil
	case *ast.If:
		return nil, i.evaluateIf(n)
	case *ast.While:
		return nil, i.evaluateWhile(n)
	case *ast.For:
		return nil, i.evaluateFor(n)
	case *ast.Assignment:
		return i.evaluateAssignment(n)
	case *ast.Postfix:
		return i.evaluatePostfix(n)
	case *ast.Call:
		return i.evaluateCall(n)
	case *ast.Print:
		return nil, i.evaluatePrint(n)
	case *ast.Input:
		return i.evaluateInput(n)
	case *ast.FileOpen:
		return nil, i.evaluateFileOpen(n)
	case *ast.FileClose:
		return nil, i.evaluateFileClose(n)
	case *ast.FileRead:
		return i.evaluateFileRead(n)
	case *ast.FileReadLine:
		return i.evaluateFileReadLine(n)
	case *ast.FileWrite:
		return nil, i.evaluateFileWrite(n.File, n.Value, false, n.Span())
	case *ast.FileWriteLine:
		return nil, i.evaluateFileWrite(n.File, n.Value, true, n.Span())
	case *ast.FileEOF:
		return i.evaluateFileEOF(n)
	case *ast.ArrayDefine:
		return nil, i.evaluateArrayDefine(n)
	case *ast.ArrayAccess:
		return i.evaluateArrayAccess(n)
	case *ast.ArrayUpdate:
		return nil, i.evaluateArrayUpdate(n)
	case *ast.CharCode:
		return i.evaluateCharCode(n)
	case *ast.IntCode:
		return i.evaluateIntCode(n)
	case *ast.Length:
		return i.evaluateLength(n)
	case *ast.Split:
		return nil, i.evaluateSplit(n)
	case *ast.Expr:
		return i.evaluateBinary(n)
	case *ast.SimpleExpr:
		return i.evaluateBinary(n)
	case *ast.Term:
		return i.evaluateBinary(n)
	case *ast.Factor:
		return i.evaluateFactor(n)
	case *ast.Identifier:
		return runtime.ReferenceValue{Name: n.Name}, nil
	case *ast.NumericLiteral:
		if n.IsFloat {
			return runtime.FloatValue{Val: n.Float}, nil
		}
		return runtime.IntegerValue{Val: n.Int}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	default:
		return nil, diag.New(diag.Runtime, nil, node.Span(), "cannot evaluate %s node", node.NodeType())
	}
}

// evalValue evaluates an expression and resolves identifier references.
func (i *Interpreter) evalValue(expr ast.Expression) (runtime.Value, error) {
	v, err := i.eval(expr)
	if err != nil {
		return nil, err
	}
	if ref, ok := v.(runtime.ReferenceValue); ok {
		return i.resolve(ref, expr.Span())
	}
	if v == nil {
		return runtime.NullValue{}, nil
	}
	return v, nil
}

func (i *Interpreter) resolve(ref runtime.ReferenceValue, span diag.Span) (runtime.Value, error) {
	v, err := i.arena.Lookup(i.scope, ref.Name, false)
	if err != nil {
		return nil, diag.WithSpan(err, span)
	}
	return v, nil
}

func (i *Interpreter) write(s string) error {
	if _, err := io.WriteString(i.out, s); err != nil {
		return diag.Wrap(diag.Runtime, diag.ErrFileIO, diag.Span{}, err, "write output")
	}
	return nil
}

func runtimeErr(kind error, node ast.Node, format string, args ...any) error {
	return diag.New(diag.Runtime, kind, node.Span(), format, args...)
}

func typeErr(kind error, node ast.Node, format string, args ...any) error {
	return diag.New(diag.Type, kind, node.Span(), format, args...)
}

func describe(v runtime.Value) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%s %s", v.Kind(), runtime.Format(v))
}
