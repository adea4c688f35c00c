package ast

import "fmt"

// Binary layers. Op and Right are either both set or both nil; the
// constructors panic otherwise.

type binary struct {
	Left  Expression
	Op    *Operator
	Right Expression
}

func newBinary(left Expression, op *Operator, right Expression) binary {
	if (op == nil) != (right == nil) {
		panic(fmt.Sprintf("ast: operator and right operand must be given together (op=%v, right=%v)", op, right))
	}
	return binary{Left: left, Op: op, Right: right}
}

// HasRight reports whether the node carries an operator and right operand.
func (b *binary) HasRight() bool { return b.Op != nil }

func (b *binary) parts() (Expression, *Operator, Expression) { return b.Left, b.Op, b.Right }

// Expr is the relational layer.
type Expr struct {
	nodeImpl
	expressionMarker
	binary
}

func NewExpr(left Expression, op *Operator, right Expression) *Expr {
	return &Expr{nodeImpl: newNodeImpl(NodeExpr), binary: newBinary(left, op, right)}
}

// SimpleExpr is the additive layer (+, -, or).
type SimpleExpr struct {
	nodeImpl
	expressionMarker
	binary
}

func NewSimpleExpr(left Expression, op *Operator, right Expression) *SimpleExpr {
	return &SimpleExpr{nodeImpl: newNodeImpl(NodeSimpleExpr), binary: newBinary(left, op, right)}
}

// Term is the multiplicative layer (*, /, %, and).
type Term struct {
	nodeImpl
	expressionMarker
	binary
}

func NewTerm(left Expression, op *Operator, right Expression) *Term {
	return &Term{nodeImpl: newNodeImpl(NodeTerm), binary: newBinary(left, op, right)}
}

// Binary is implemented by the three layered expression nodes.
type Binary interface {
	Expression
	HasRight() bool
	parts() (Expression, *Operator, Expression)
}

// Operands unpacks any layered binary node.
func Operands(b Binary) (Expression, *Operator, Expression) { return b.parts() }

// Factor wraps a unary operator application, or a parenthesised
// expression when Op is nil.
type Factor struct {
	nodeImpl
	expressionMarker

	Op      *Operator
	Operand Expression
}

func NewFactor(op *Operator, operand Expression) *Factor {
	return &Factor{nodeImpl: newNodeImpl(NodeFactor), Op: op, Operand: operand}
}

// Leaves

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

type NumericLiteral struct {
	nodeImpl
	expressionMarker

	IsFloat bool
	Int     int64
	Float   float64
}

func NewIntegerLiteral(v int64) *NumericLiteral {
	return &NumericLiteral{nodeImpl: newNodeImpl(NodeNumericLiteral), Int: v}
}

func NewFloatLiteral(v float64) *NumericLiteral {
	return &NumericLiteral{nodeImpl: newNodeImpl(NodeNumericLiteral), IsFloat: true, Float: v}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string
}

func NewStringLiteral(v string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: v}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker

	Value bool
}

func NewBooleanLiteral(v bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: v}
}

// Operator symbols. Spelled-out and symbolic forms share one symbol.
const (
	OpAdd = "+"
	OpSub = "-"
	OpMul = "*"
	OpDiv = "/"
	OpMod = "%"
	OpAnd = "and"
	OpOr  = "or"
	OpNot = "not"
	OpEq  = "=="
	OpNe  = "!="
	OpLt  = "<"
	OpLe  = "<="
	OpGt  = ">"
	OpGe  = ">="
	OpInc = "++"
	OpDec = "--"
)

type Operator struct {
	nodeImpl

	Symbol string
}

func NewOperator(symbol string) *Operator {
	return &Operator{nodeImpl: newNodeImpl(NodeOperator), Symbol: symbol}
}

func (o *Operator) String() string {
	if o == nil {
		return "<nil>"
	}
	return o.Symbol
}
