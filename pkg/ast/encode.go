package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one key of an encoded node.
type Field struct {
	Key   string
	Value any
}

// Object is an encoded node whose keys keep their declaration order.
type Object []Field

func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalIndent renders the encoded tree as indented JSON.
func MarshalIndent(node Node) ([]byte, error) {
	return json.MarshalIndent(Encode(node), "", "  ")
}

// Encode converts a tree into nested Objects. Absent children encode as nil.
func Encode(node Node) any {
	if node == nil || isNilNode(node) {
		return nil
	}
	obj := Object{{Key: "type", Value: string(node.NodeType())}}
	add := func(key string, v any) { obj = append(obj, Field{Key: key, Value: v}) }

	switch n := node.(type) {
	case *Program:
		add("functions", encodeFuncs(n.Functions))
		add("body", encodeBody(n.Body))
	case *FuncDef:
		add("name", n.Name.Name)
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		add("params", params)
		add("body", encodeBody(n.Body))
	case *Body:
		stmts := make([]any, len(n.Statements))
		for i, s := range n.Statements {
			stmts[i] = Encode(s)
		}
		add("statements", stmts)
	case *Return:
		add("value", encodeExpr(n.Value))
	case *Break, *Continue:
	case *If:
		add("cond", encodeExpr(n.Cond))
		add("body", encodeBody(n.Body))
		elifs := make([]any, len(n.Elifs))
		for i, e := range n.Elifs {
			elifs[i] = Encode(e)
		}
		add("elifs", elifs)
		if n.Else != nil {
			add("else", Encode(n.Else))
		} else {
			add("else", nil)
		}
	case *Elif:
		add("cond", encodeExpr(n.Cond))
		add("body", encodeBody(n.Body))
	case *Else:
		add("body", encodeBody(n.Body))
	case *While:
		add("cond", encodeExpr(n.Cond))
		add("body", encodeBody(n.Body))
	case *For:
		add("var", n.Var.Name)
		add("start", encodeExpr(n.Start))
		add("end", encodeExpr(n.End))
		add("body", encodeBody(n.Body))
	case *Assignment:
		add("target", n.Target.Name)
		add("value", encodeExpr(n.Value))
	case *Postfix:
		add("target", n.Target.Name)
		add("op", n.Op.Symbol)
	case *Call:
		add("callee", n.Callee.Name)
		add("args", encodeExprs(n.Args))
	case *Print:
		add("args", encodeExprs(n.Args))
		add("newline", n.Newline)
	case *Input:
		if n.Prompt != nil {
			add("prompt", n.Prompt.Value)
		} else {
			add("prompt", nil)
		}
	case *FileOpen:
		add("target", n.Target.Name)
		add("path", encodeExpr(n.Path))
		add("mode", encodeExpr(n.Mode))
	case *FileClose:
		add("file", n.File.Name)
	case *FileRead:
		add("file", n.File.Name)
		add("count", encodeExpr(n.Count))
	case *FileReadLine:
		add("file", n.File.Name)
	case *FileWrite:
		add("file", n.File.Name)
		add("value", encodeExpr(n.Value))
	case *FileWriteLine:
		add("file", n.File.Name)
		add("value", encodeExpr(n.Value))
	case *FileEOF:
		add("file", n.File.Name)
	case *ArrayDefine:
		add("target", n.Target.Name)
		if n.Size != nil {
			add("size", encodeExpr(n.Size))
		} else {
			add("elements", encodeExprs(n.Elements))
		}
	case *ArrayAccess:
		add("array", n.Array.Name)
		add("index", encodeExpr(n.Index))
	case *ArrayUpdate:
		add("access", Encode(n.Access))
		add("value", encodeExpr(n.Value))
	case *CharCode:
		add("value", encodeExpr(n.Value))
	case *IntCode:
		add("value", encodeExpr(n.Value))
	case *Length:
		add("value", encodeExpr(n.Value))
	case *Split:
		add("target", n.Target.Name)
		add("source", encodeExpr(n.Source))
		add("separator", encodeExpr(n.Separator))
	case *Expr:
		encodeBinary(&obj, n)
	case *SimpleExpr:
		encodeBinary(&obj, n)
	case *Term:
		encodeBinary(&obj, n)
	case *Factor:
		if n.Op != nil {
			add("op", n.Op.Symbol)
		} else {
			add("op", nil)
		}
		add("operand", encodeExpr(n.Operand))
	case *Identifier:
		add("name", n.Name)
	case *NumericLiteral:
		if n.IsFloat {
			add("float", n.Float)
		} else {
			add("int", n.Int)
		}
	case *StringLiteral:
		add("value", n.Value)
	case *BooleanLiteral:
		add("value", n.Value)
	case *Operator:
		add("symbol", n.Symbol)
	default:
		add("unsupported", fmt.Sprintf("%T", node))
	}
	if span := node.Span(); !span.IsZero() {
		add("span", span.String())
	}
	return obj
}

func encodeBinary(obj *Object, b Binary) {
	left, op, right := Operands(b)
	*obj = append(*obj, Field{Key: "left", Value: encodeExpr(left)})
	if op != nil {
		*obj = append(*obj, Field{Key: "op", Value: op.Symbol}, Field{Key: "right", Value: encodeExpr(right)})
	}
}

func encodeFuncs(fns []*FuncDef) []any {
	out := make([]any, len(fns))
	for i, fn := range fns {
		out[i] = Encode(fn)
	}
	return out
}

func encodeBody(b *Body) any {
	if b == nil {
		return nil
	}
	return Encode(b)
}

func encodeExpr(e Expression) any {
	if e == nil {
		return nil
	}
	return Encode(e)
}

func encodeExprs(exprs []Expression) []any {
	out := make([]any, len(exprs))
	for i, e := range exprs {
		out[i] = encodeExpr(e)
	}
	return out
}

// isNilNode catches typed nil pointers stored in a Node interface.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *Body:
		return v == nil
	case *Identifier:
		return v == nil
	case *Else:
		return v == nil
	case *StringLiteral:
		return v == nil
	case *ArrayAccess:
		return v == nil
	}
	return false
}
