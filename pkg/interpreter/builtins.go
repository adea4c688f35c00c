package interpreter

import (
	"strings"
	"unicode/utf8"

	"nyaa/interpreter-go/pkg/ast"
	"nyaa/interpreter-go/pkg/diag"
	"nyaa/interpreter-go/pkg/runtime"
)

// Files

func (i *Interpreter) stringArg(expr ast.Expression, what string) (string, error) {
	v, err := i.evalValue(expr)
	if err != nil {
		return "", err
	}
	s, ok := v.(runtime.StringValue)
	if !ok {
		return "", runtimeErr(diag.ErrArgumentType, expr, "%s must be a string, got %s", what, describe(v))
	}
	return s.Val, nil
}

func (i *Interpreter) lookupFile(id *ast.Identifier) (*runtime.FileValue, error) {
	v, err := i.resolve(runtime.ReferenceValue{Name: id.Name}, id.Span())
	if err != nil {
		return nil, err
	}
	f, ok := v.(*runtime.FileValue)
	if !ok {
		return nil, runtimeErr(diag.ErrArgumentType, id, "'%s' is not a file handle, got %s", id.Name, describe(v))
	}
	return f, nil
}

func (i *Interpreter) evaluateFileOpen(n *ast.FileOpen) error {
	path, err := i.stringArg(n.Path, "file path")
	if err != nil {
		return err
	}
	mode, err := i.stringArg(n.Mode, "file mode")
	if err != nil {
		return err
	}
	f, err := runtime.OpenFile(path, mode)
	if err != nil {
		return diag.WithSpan(err, n.Span())
	}
	i.trace("open %s mode=%s as %s", path, mode, n.Target.Name)
	i.arena.Define(i.scope, n.Target.Name, f)
	return nil
}

func (i *Interpreter) evaluateFileClose(n *ast.FileClose) error {
	f, err := i.lookupFile(n.File)
	if err != nil {
		return err
	}
	return diag.WithSpan(f.Close(), n.Span())
}

func (i *Interpreter) evaluateFileRead(n *ast.FileRead) (runtime.Value, error) {
	f, err := i.lookupFile(n.File)
	if err != nil {
		return nil, err
	}
	count := -1
	if n.Count != nil {
		v, err := i.evalValue(n.Count)
		if err != nil {
			return nil, err
		}
		c, ok := v.(runtime.IntegerValue)
		if !ok || c.Val < 0 {
			return nil, runtimeErr(diag.ErrArgumentType, n.Count, "read count must be a non-negative integer, got %s", describe(v))
		}
		count = int(c.Val)
	}
	s, err := f.Read(count)
	if err != nil {
		return nil, diag.WithSpan(err, n.Span())
	}
	return runtime.StringValue{Val: s}, nil
}

func (i *Interpreter) evaluateFileReadLine(n *ast.FileReadLine) (runtime.Value, error) {
	f, err := i.lookupFile(n.File)
	if err != nil {
		return nil, err
	}
	s, err := f.ReadLine()
	if err != nil {
		return nil, diag.WithSpan(err, n.Span())
	}
	return runtime.StringValue{Val: s}, nil
}

func (i *Interpreter) evaluateFileWrite(file *ast.Identifier, value ast.Expression, newline bool, span diag.Span) error {
	f, err := i.lookupFile(file)
	if err != nil {
		return err
	}
	v, err := i.evalValue(value)
	if err != nil {
		return err
	}
	s := runtime.Format(v)
	if newline {
		s += "\n"
	}
	return diag.WithSpan(f.Write(s), span)
}

func (i *Interpreter) evaluateFileEOF(n *ast.FileEOF) (runtime.Value, error) {
	f, err := i.lookupFile(n.File)
	if err != nil {
		return nil, err
	}
	eof, err := f.AtEOF()
	if err != nil {
		return nil, diag.WithSpan(err, n.Span())
	}
	return runtime.BoolValue{Val: eof}, nil
}

// Arrays

func (i *Interpreter) evaluateArrayDefine(n *ast.ArrayDefine) error {
	if n.Size == nil {
		arr := &runtime.ArrayValue{Elements: make([]runtime.Value, len(n.Elements))}
		for idx, el := range n.Elements {
			v, err := i.evalValue(el)
			if err != nil {
				return err
			}
			arr.Elements[idx] = v
		}
		i.arena.Define(i.scope, n.Target.Name, arr)
		return nil
	}
	v, err := i.evalValue(n.Size)
	if err != nil {
		return err
	}
	size, ok := v.(runtime.IntegerValue)
	if !ok || size.Val < 0 {
		return runtimeErr(diag.ErrArgumentType, n.Size, "array size must be a non-negative integer, got %s", describe(v))
	}
	if size.Val > MaxAllocation {
		return runtimeErr(diag.ErrTooLarge, n.Size, "array size %d exceeds %d", size.Val, MaxAllocation)
	}
	i.arena.Define(i.scope, n.Target.Name, runtime.NewArray(int(size.Val)))
	return nil
}

// element resolves an access to its array and a bounds-checked index.
func (i *Interpreter) element(n *ast.ArrayAccess) (*runtime.ArrayValue, int, error) {
	v, err := i.resolve(runtime.ReferenceValue{Name: n.Array.Name}, n.Array.Span())
	if err != nil {
		return nil, 0, err
	}
	arr, ok := v.(*runtime.ArrayValue)
	if !ok {
		return nil, 0, typeErr(diag.ErrNotAnArray, n.Array, "'%s' is not an array, got %s", n.Array.Name, describe(v))
	}
	iv, err := i.evalValue(n.Index)
	if err != nil {
		return nil, 0, err
	}
	idx, ok := iv.(runtime.IntegerValue)
	if !ok {
		return nil, 0, typeErr(diag.ErrArgumentType, n.Index, "array index must be an integer, got %s", describe(iv))
	}
	if idx.Val < 0 || idx.Val >= int64(len(arr.Elements)) {
		return nil, 0, runtimeErr(diag.ErrIndexOutOfBounds, n, "index %d out of bounds for '%s' of length %d", idx.Val, n.Array.Name, len(arr.Elements))
	}
	return arr, int(idx.Val), nil
}

func (i *Interpreter) evaluateArrayAccess(n *ast.ArrayAccess) (runtime.Value, error) {
	arr, idx, err := i.element(n)
	if err != nil {
		return nil, err
	}
	return arr.Elements[idx], nil
}

func (i *Interpreter) evaluateArrayUpdate(n *ast.ArrayUpdate) error {
	arr, idx, err := i.element(n.Access)
	if err != nil {
		return err
	}
	v, err := i.evalValue(n.Value)
	if err != nil {
		return err
	}
	arr.Elements[idx] = v
	return nil
}

// Conversions

func (i *Interpreter) evaluateCharCode(n *ast.CharCode) (runtime.Value, error) {
	v, err := i.evalValue(n.Value)
	if err != nil {
		return nil, err
	}
	code, ok := v.(runtime.IntegerValue)
	if !ok || code.Val < 0 || code.Val > utf8.MaxRune || !utf8.ValidRune(rune(code.Val)) {
		return nil, runtimeErr(diag.ErrArgumentType, n, "asChar needs a valid character code, got %s", describe(v))
	}
	return runtime.StringValue{Val: string(rune(code.Val))}, nil
}

func (i *Interpreter) evaluateIntCode(n *ast.IntCode) (runtime.Value, error) {
	v, err := i.evalValue(n.Value)
	if err != nil {
		return nil, err
	}
	s, ok := v.(runtime.StringValue)
	if !ok || utf8.RuneCountInString(s.Val) != 1 {
		return nil, runtimeErr(diag.ErrArgumentType, n, "asInt needs a single character, got %s", describe(v))
	}
	r, _ := utf8.DecodeRuneInString(s.Val)
	return runtime.IntegerValue{Val: int64(r)}, nil
}

func (i *Interpreter) evaluateLength(n *ast.Length) (runtime.Value, error) {
	v, err := i.evalValue(n.Value)
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case runtime.StringValue:
		return runtime.IntegerValue{Val: int64(utf8.RuneCountInString(val.Val))}, nil
	case *runtime.ArrayValue:
		return runtime.IntegerValue{Val: int64(len(val.Elements))}, nil
	}
	return nil, runtimeErr(diag.ErrArgumentType, n, "len needs a string or array, got %s", describe(v))
}

func (i *Interpreter) evaluateSplit(n *ast.Split) error {
	src, err := i.stringArg(n.Source, "split source")
	if err != nil {
		return err
	}
	sep, err := i.stringArg(n.Separator, "split separator")
	if err != nil {
		return err
	}
	parts := strings.Split(src, sep)
	arr := &runtime.ArrayValue{Elements: make([]runtime.Value, len(parts))}
	for idx, p := range parts {
		arr.Elements[idx] = runtime.StringValue{Val: p}
	}
	i.arena.Define(i.scope, n.Target.Name, arr)
	return nil
}
