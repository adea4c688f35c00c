package ast

import "nyaa/interpreter-go/pkg/diag"

type NodeType string

const (
	NodeProgram        NodeType = "Program"
	NodeFuncDef        NodeType = "FuncDef"
	NodeBody           NodeType = "Body"
	NodeReturn         NodeType = "Return"
	NodeBreak          NodeType = "Break"
	NodeContinue       NodeType = "Continue"
	NodeIf             NodeType = "If"
	NodeElif           NodeType = "Elif"
	NodeElse           NodeType = "Else"
	NodeWhile          NodeType = "While"
	NodeFor            NodeType = "For"
	NodeAssignment     NodeType = "Assignment"
	NodePostfix        NodeType = "Postfix"
	NodeCall           NodeType = "Call"
	NodePrint          NodeType = "Print"
	NodeInput          NodeType = "Input"
	NodeFileOpen       NodeType = "FileOpen"
	NodeFileClose      NodeType = "FileClose"
	NodeFileRead       NodeType = "FileRead"
	NodeFileReadLine   NodeType = "FileReadLine"
	NodeFileWrite      NodeType = "FileWrite"
	NodeFileWriteLine  NodeType = "FileWriteLine"
	NodeFileEOF        NodeType = "FileEOF"
	NodeArrayDefine    NodeType = "ArrayDefine"
	NodeArrayAccess    NodeType = "ArrayAccess"
	NodeArrayUpdate    NodeType = "ArrayUpdate"
	NodeCharCode       NodeType = "CharCode"
	NodeIntCode        NodeType = "IntCode"
	NodeLength         NodeType = "Length"
	NodeSplit          NodeType = "Split"
	NodeExpr           NodeType = "Expr"
	NodeSimpleExpr     NodeType = "SimpleExpr"
	NodeTerm           NodeType = "Term"
	NodeFactor         NodeType = "Factor"
	NodeIdentifier     NodeType = "Identifier"
	NodeNumericLiteral NodeType = "NumericLiteral"
	NodeStringLiteral  NodeType = "StringLiteral"
	NodeBooleanLiteral NodeType = "BooleanLiteral"
	NodeOperator       NodeType = "Operator"
)

type Node interface {
	NodeType() NodeType
	Span() diag.Span
	isNode()
}

type nodeImpl struct {
	Type NodeType
	span diag.Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n *nodeImpl) NodeType() NodeType     { return n.Type }
func (n *nodeImpl) Span() diag.Span        { return n.span }
func (n *nodeImpl) setSpan(span diag.Span) { n.span = span }
func (*nodeImpl) isNode()                  {}

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span diag.Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(diag.Span) }); ok {
		setter.setSpan(span)
	}
}

// Marker interfaces.

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

// Program

type Program struct {
	nodeImpl

	Functions []*FuncDef
	// Body is nil for a program made only of end of input.
	Body *Body
}

func NewProgram(functions []*FuncDef, body *Body) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Functions: functions, Body: body}
}

// Empty reports whether the program has nothing to run.
func (p *Program) Empty() bool { return len(p.Functions) == 0 && p.Body == nil }

type FuncDef struct {
	nodeImpl

	Name   *Identifier
	Params []*Identifier
	Body   *Body
}

func NewFuncDef(name *Identifier, params []*Identifier, body *Body) *FuncDef {
	return &FuncDef{nodeImpl: newNodeImpl(NodeFuncDef), Name: name, Params: params, Body: body}
}

type Body struct {
	nodeImpl

	Statements []Statement
}

func NewBody(statements []Statement) *Body {
	return &Body{nodeImpl: newNodeImpl(NodeBody), Statements: statements}
}

// Control flow

type Return struct {
	nodeImpl
	statementMarker

	// Value is nil for a bare return.
	Value Expression
}

func NewReturn(value Expression) *Return {
	return &Return{nodeImpl: newNodeImpl(NodeReturn), Value: value}
}

type Break struct {
	nodeImpl
	statementMarker
}

func NewBreak() *Break { return &Break{nodeImpl: newNodeImpl(NodeBreak)} }

type Continue struct {
	nodeImpl
	statementMarker
}

func NewContinue() *Continue { return &Continue{nodeImpl: newNodeImpl(NodeContinue)} }

type If struct {
	nodeImpl
	statementMarker

	Cond  Expression
	Body  *Body
	Elifs []*Elif
	Else  *Else
}

func NewIf(cond Expression, body *Body, elifs []*Elif, els *Else) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf), Cond: cond, Body: body, Elifs: elifs, Else: els}
}

type Elif struct {
	nodeImpl

	Cond Expression
	Body *Body
}

func NewElif(cond Expression, body *Body) *Elif {
	return &Elif{nodeImpl: newNodeImpl(NodeElif), Cond: cond, Body: body}
}

type Else struct {
	nodeImpl

	Body *Body
}

func NewElse(body *Body) *Else {
	return &Else{nodeImpl: newNodeImpl(NodeElse), Body: body}
}

type While struct {
	nodeImpl
	statementMarker

	Cond Expression
	Body *Body
}

func NewWhile(cond Expression, body *Body) *While {
	return &While{nodeImpl: newNodeImpl(NodeWhile), Cond: cond, Body: body}
}

// For iterates Var over the inclusive range [Start, End].
type For struct {
	nodeImpl
	statementMarker

	Var   *Identifier
	Start Expression
	End   Expression
	Body  *Body
}

func NewFor(v *Identifier, start, end Expression, body *Body) *For {
	return &For{nodeImpl: newNodeImpl(NodeFor), Var: v, Start: start, End: end, Body: body}
}

// Statements

type Assignment struct {
	nodeImpl
	statementMarker

	Target *Identifier
	Value  Expression
}

func NewAssignment(target *Identifier, value Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Target: target, Value: value}
}

// Postfix is `x++` or `x--`.
type Postfix struct {
	nodeImpl
	statementMarker

	Target *Identifier
	Op     *Operator
}

func NewPostfix(target *Identifier, op *Operator) *Postfix {
	return &Postfix{nodeImpl: newNodeImpl(NodePostfix), Target: target, Op: op}
}

type Call struct {
	nodeImpl
	statementMarker
	expressionMarker

	Callee *Identifier
	Args   []Expression
}

func NewCall(callee *Identifier, args []Expression) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall), Callee: callee, Args: args}
}

type Print struct {
	nodeImpl
	statementMarker

	Args    []Expression
	Newline bool
}

func NewPrint(args []Expression, newline bool) *Print {
	return &Print{nodeImpl: newNodeImpl(NodePrint), Args: args, Newline: newline}
}

type Input struct {
	nodeImpl
	statementMarker
	expressionMarker

	// Prompt is nil when no prompt was given.
	Prompt *StringLiteral
}

func NewInput(prompt *StringLiteral) *Input {
	return &Input{nodeImpl: newNodeImpl(NodeInput), Prompt: prompt}
}
