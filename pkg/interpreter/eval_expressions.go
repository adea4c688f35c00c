package interpreter

import (
	"math"
	"strings"

	"nyaa/interpreter-go/pkg/ast"
	"nyaa/interpreter-go/pkg/diag"
	"nyaa/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateBinary(node ast.Binary) (runtime.Value, error) {
	leftExpr, op, rightExpr := ast.Operands(node)
	left, err := i.evalValue(leftExpr)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return left, nil
	}
	right, err := i.evalValue(rightExpr)
	if err != nil {
		return nil, err
	}
	return applyBinary(node, op.Symbol, left, right)
}

func unsupported(node ast.Node, op string, left, right runtime.Value) error {
	return typeErr(diag.ErrInvalidOperation, node, "unsupported operand types for %s: %s and %s", op, left.Kind(), right.Kind())
}

func applyBinary(node ast.Node, op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if left.Kind().IsNumber() && right.Kind().IsNumber() {
			return arithmetic(node, op, left, right)
		}
		if op == ast.OpAdd {
			if l, ok := left.(runtime.StringValue); ok {
				if r, ok := right.(runtime.StringValue); ok {
					return runtime.StringValue{Val: l.Val + r.Val}, nil
				}
			}
		}
		if op == ast.OpMul {
			if v, ok, err := repeat(node, left, right); ok || err != nil {
				return v, err
			}
		}
		return nil, unsupported(node, op, left, right)
	case ast.OpAnd, ast.OpOr:
		l, lok := left.(runtime.BoolValue)
		r, rok := right.(runtime.BoolValue)
		if !lok || !rok {
			return nil, unsupported(node, op, left, right)
		}
		if op == ast.OpAnd {
			return runtime.BoolValue{Val: l.Val && r.Val}, nil
		}
		return runtime.BoolValue{Val: l.Val || r.Val}, nil
	case ast.OpEq, ast.OpNe:
		eq, err := equal(node, op, left, right)
		if err != nil {
			return nil, err
		}
		if op == ast.OpNe {
			eq = !eq
		}
		return runtime.BoolValue{Val: eq}, nil
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		cmp, err := compare(node, op, left, right)
		if err != nil {
			return nil, err
		}
		var out bool
		switch op {
		case ast.OpLt:
			out = cmp < 0
		case ast.OpLe:
			out = cmp <= 0
		case ast.OpGt:
			out = cmp > 0
		default:
			out = cmp >= 0
		}
		return runtime.BoolValue{Val: out}, nil
	default:
		return nil, typeErr(diag.ErrInvalidOperation, node, "unknown operator %s", op)
	}
}

// arithmetic applies op to two numbers. Integer pairs stay integers and
// divide with truncation; anything mixed is promoted to float.
func arithmetic(node ast.Node, op string, left, right runtime.Value) (runtime.Value, error) {
	l, lInt := left.(runtime.IntegerValue)
	r, rInt := right.(runtime.IntegerValue)
	if lInt && rInt {
		switch op {
		case ast.OpAdd:
			return runtime.IntegerValue{Val: l.Val + r.Val}, nil
		case ast.OpSub:
			return runtime.IntegerValue{Val: l.Val - r.Val}, nil
		case ast.OpMul:
			return runtime.IntegerValue{Val: l.Val * r.Val}, nil
		case ast.OpDiv:
			if r.Val == 0 {
				return nil, runtimeErr(diag.ErrDivisionByZero, node, "division by zero")
			}
			return runtime.IntegerValue{Val: l.Val / r.Val}, nil
		case ast.OpMod:
			if r.Val == 0 {
				return nil, runtimeErr(diag.ErrDivisionByZero, node, "modulo by zero")
			}
			return runtime.IntegerValue{Val: l.Val % r.Val}, nil
		}
	}
	lf, rf := toFloat(left), toFloat(right)
	switch op {
	case ast.OpAdd:
		return runtime.FloatValue{Val: lf + rf}, nil
	case ast.OpSub:
		return runtime.FloatValue{Val: lf - rf}, nil
	case ast.OpMul:
		return runtime.FloatValue{Val: lf * rf}, nil
	case ast.OpDiv:
		if rf == 0 {
			return nil, runtimeErr(diag.ErrDivisionByZero, node, "division by zero")
		}
		return runtime.FloatValue{Val: lf / rf}, nil
	default:
		if rf == 0 {
			return nil, runtimeErr(diag.ErrDivisionByZero, node, "modulo by zero")
		}
		return runtime.FloatValue{Val: math.Mod(lf, rf)}, nil
	}
}

func toFloat(v runtime.Value) float64 {
	switch n := v.(type) {
	case runtime.IntegerValue:
		return float64(n.Val)
	case runtime.FloatValue:
		return n.Val
	}
	return 0
}

// repeat handles integer*string in either order.
func repeat(node ast.Node, left, right runtime.Value) (runtime.Value, bool, error) {
	count, cok := left.(runtime.IntegerValue)
	s, sok := right.(runtime.StringValue)
	if !cok || !sok {
		count, cok = right.(runtime.IntegerValue)
		s, sok = left.(runtime.StringValue)
	}
	if !cok || !sok {
		return nil, false, nil
	}
	if count.Val < 0 {
		return nil, true, runtimeErr(diag.ErrArgumentType, node, "cannot repeat a string %d times", count.Val)
	}
	if len(s.Val) > 0 && count.Val > int64(MaxAllocation/len(s.Val)) {
		return nil, true, runtimeErr(diag.ErrTooLarge, node, "repeating a string of %d bytes %d times exceeds %d bytes", len(s.Val), count.Val, MaxAllocation)
	}
	return runtime.StringValue{Val: strings.Repeat(s.Val, int(count.Val))}, true, nil
}

func equal(node ast.Node, op string, left, right runtime.Value) (bool, error) {
	if left.Kind().IsNumber() && right.Kind().IsNumber() {
		if l, ok := left.(runtime.IntegerValue); ok {
			if r, ok := right.(runtime.IntegerValue); ok {
				return l.Val == r.Val, nil
			}
		}
		return toFloat(left) == toFloat(right), nil
	}
	switch l := left.(type) {
	case runtime.StringValue:
		if r, ok := right.(runtime.StringValue); ok {
			return l.Val == r.Val, nil
		}
	case runtime.BoolValue:
		if r, ok := right.(runtime.BoolValue); ok {
			return l.Val == r.Val, nil
		}
	case runtime.NullValue:
		if _, ok := right.(runtime.NullValue); ok {
			return true, nil
		}
	}
	return false, unsupported(node, op, left, right)
}

func compare(node ast.Node, op string, left, right runtime.Value) (int, error) {
	if left.Kind().IsNumber() && right.Kind().IsNumber() {
		if l, ok := left.(runtime.IntegerValue); ok {
			if r, ok := right.(runtime.IntegerValue); ok {
				return cmpOrdered(l.Val, r.Val), nil
			}
		}
		return cmpOrdered(toFloat(left), toFloat(right)), nil
	}
	if l, ok := left.(runtime.StringValue); ok {
		if r, ok := right.(runtime.StringValue); ok {
			return strings.Compare(l.Val, r.Val), nil
		}
	}
	return 0, unsupported(node, op, left, right)
}

func cmpOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (i *Interpreter) evaluateFactor(n *ast.Factor) (runtime.Value, error) {
	v, err := i.evalValue(n.Operand)
	if err != nil {
		return nil, err
	}
	if n.Op == nil {
		return v, nil
	}
	switch n.Op.Symbol {
	case ast.OpNot:
		switch val := v.(type) {
		case runtime.BoolValue, runtime.IntegerValue, runtime.FloatValue, runtime.StringValue, runtime.NullValue:
			return runtime.BoolValue{Val: !runtime.Truthy(val)}, nil
		}
	case ast.OpSub:
		switch val := v.(type) {
		case runtime.IntegerValue:
			return runtime.IntegerValue{Val: -val.Val}, nil
		case runtime.FloatValue:
			return runtime.FloatValue{Val: -val.Val}, nil
		}
	}
	return nil, typeErr(diag.ErrUnaryType, n, "invalid operand for unary %s: %s", n.Op.Symbol, describe(v))
}
