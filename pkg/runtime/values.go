package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"nyaa/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindString
	KindBool
	KindArray
	KindFunction
	KindReference
	KindFile
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	case KindReference:
		return "reference"
	case KindFile:
		return "file"
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// IsNumber reports whether k is integer or float.
func (k Kind) IsNumber() bool { return k == KindInteger || k == KindFloat }

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

type IntegerValue struct {
	Val int64
}

func (IntegerValue) Kind() Kind { return KindInteger }

type FloatValue struct {
	Val float64
}

func (FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (BoolValue) Kind() Kind { return KindBool }

// ArrayValue is shared by reference between every name bound to it.
type ArrayValue struct {
	Elements []Value
}

func (*ArrayValue) Kind() Kind { return KindArray }

// NewArray allocates size null slots.
func NewArray(size int) *ArrayValue {
	elems := make([]Value, size)
	for i := range elems {
		elems[i] = NullValue{}
	}
	return &ArrayValue{Elements: elems}
}

type FunctionValue struct {
	Name   string
	Params []string
	Body   *ast.Body
}

func (*FunctionValue) Kind() Kind { return KindFunction }

// NewFunction captures a definition.
func NewFunction(def *ast.FuncDef) *FunctionValue {
	params := make([]string, len(def.Params))
	for i, p := range def.Params {
		params[i] = p.Name
	}
	return &FunctionValue{Name: def.Name.Name, Params: params, Body: def.Body}
}

// ReferenceValue names a binding that has not been resolved yet.
type ReferenceValue struct {
	Name string
}

func (ReferenceValue) Kind() Kind { return KindReference }

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

// Format renders a value the way print statements show it. An array that
// contains itself renders the inner occurrence as [...].
func Format(v Value) string {
	return format(v, nil)
}

func format(v Value, open map[*ArrayValue]bool) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case IntegerValue:
		return strconv.FormatInt(val.Val, 10)
	case FloatValue:
		return formatFloat(val.Val)
	case StringValue:
		return val.Val
	case BoolValue:
		if val.Val {
			return "HAI"
		}
		return "IIE"
	case *ArrayValue:
		if open[val] {
			return "[...]"
		}
		if open == nil {
			open = make(map[*ArrayValue]bool)
		}
		open[val] = true
		defer delete(open, val)
		parts := make([]string, len(val.Elements))
		for i, el := range val.Elements {
			if s, ok := el.(StringValue); ok {
				parts[i] = strconv.Quote(s.Val)
				continue
			}
			parts[i] = format(el, open)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *FunctionValue:
		return fmt.Sprintf("<function %s(%s)>", val.Name, strings.Join(val.Params, ", "))
	case ReferenceValue:
		return val.Name
	case *FileValue:
		state := "open"
		if val.closed {
			state = "closed"
		}
		return fmt.Sprintf("<file %s mode=%s %s>", val.Path, val.Mode, state)
	case NullValue:
		return "null"
	default:
		return fmt.Sprintf("<%T>", v)
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eInN") {
		s += ".0"
	}
	return s
}

// Serialize renders a value unambiguously, tagged by kind, for hashing.
// A cycle back to an enclosing array is written as its nesting depth.
func Serialize(v Value) string {
	return serialize(v, nil)
}

func serialize(v Value, open []*ArrayValue) string {
	if v == nil {
		return "null"
	}
	switch val := v.(type) {
	case StringValue:
		return "string:" + strconv.Quote(val.Val)
	case *ArrayValue:
		for depth, enclosing := range open {
			if enclosing == val {
				return "cycle:" + strconv.Itoa(depth)
			}
		}
		open = append(open, val)
		parts := make([]string, len(val.Elements))
		for i, el := range val.Elements {
			parts[i] = serialize(el, open)
		}
		return "array:[" + strings.Join(parts, ",") + "]"
	case *FileValue:
		return fmt.Sprintf("file:%q:%s:%p", val.Path, val.Mode, val)
	default:
		return v.Kind().String() + ":" + Format(v)
	}
}

// Truthy reports whether v counts as true in a condition.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case BoolValue:
		return val.Val
	case IntegerValue:
		return val.Val != 0
	case FloatValue:
		return val.Val != 0
	case StringValue:
		return val.Val != ""
	case *ArrayValue:
		return len(val.Elements) > 0
	case *FunctionValue, *FileValue:
		return true
	default:
		return false
	}
}
