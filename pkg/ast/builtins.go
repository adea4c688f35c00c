package ast

// Files

type FileOpen struct {
	nodeImpl
	statementMarker

	Target *Identifier
	Path   Expression
	Mode   Expression
}

func NewFileOpen(target *Identifier, path, mode Expression) *FileOpen {
	return &FileOpen{nodeImpl: newNodeImpl(NodeFileOpen), Target: target, Path: path, Mode: mode}
}

type FileClose struct {
	nodeImpl
	statementMarker

	File *Identifier
}

func NewFileClose(file *Identifier) *FileClose {
	return &FileClose{nodeImpl: newNodeImpl(NodeFileClose), File: file}
}

// FileRead reads Count characters, or the rest of the file when Count is nil.
type FileRead struct {
	nodeImpl
	statementMarker
	expressionMarker

	File  *Identifier
	Count Expression
}

func NewFileRead(file *Identifier, count Expression) *FileRead {
	return &FileRead{nodeImpl: newNodeImpl(NodeFileRead), File: file, Count: count}
}

type FileReadLine struct {
	nodeImpl
	statementMarker
	expressionMarker

	File *Identifier
}

func NewFileReadLine(file *Identifier) *FileReadLine {
	return &FileReadLine{nodeImpl: newNodeImpl(NodeFileReadLine), File: file}
}

type FileWrite struct {
	nodeImpl
	statementMarker

	File  *Identifier
	Value Expression
}

func NewFileWrite(file *Identifier, value Expression) *FileWrite {
	return &FileWrite{nodeImpl: newNodeImpl(NodeFileWrite), File: file, Value: value}
}

type FileWriteLine struct {
	nodeImpl
	statementMarker

	File  *Identifier
	Value Expression
}

func NewFileWriteLine(file *Identifier, value Expression) *FileWriteLine {
	return &FileWriteLine{nodeImpl: newNodeImpl(NodeFileWriteLine), File: file, Value: value}
}

type FileEOF struct {
	nodeImpl
	expressionMarker

	File *Identifier
}

func NewFileEOF(file *Identifier) *FileEOF {
	return &FileEOF{nodeImpl: newNodeImpl(NodeFileEOF), File: file}
}

// Arrays

// ArrayDefine is `a => [size]` (Size set) or `a => {e1, e2}` (Elements set).
type ArrayDefine struct {
	nodeImpl
	statementMarker

	Target   *Identifier
	Size     Expression
	Elements []Expression
}

func NewArraySized(target *Identifier, size Expression) *ArrayDefine {
	return &ArrayDefine{nodeImpl: newNodeImpl(NodeArrayDefine), Target: target, Size: size}
}

func NewArrayLiteral(target *Identifier, elements []Expression) *ArrayDefine {
	if elements == nil {
		elements = []Expression{}
	}
	return &ArrayDefine{nodeImpl: newNodeImpl(NodeArrayDefine), Target: target, Elements: elements}
}

type ArrayAccess struct {
	nodeImpl
	expressionMarker

	Array *Identifier
	Index Expression
}

func NewArrayAccess(array *Identifier, index Expression) *ArrayAccess {
	return &ArrayAccess{nodeImpl: newNodeImpl(NodeArrayAccess), Array: array, Index: index}
}

type ArrayUpdate struct {
	nodeImpl
	statementMarker

	Access *ArrayAccess
	Value  Expression
}

func NewArrayUpdate(access *ArrayAccess, value Expression) *ArrayUpdate {
	return &ArrayUpdate{nodeImpl: newNodeImpl(NodeArrayUpdate), Access: access, Value: value}
}

// Conversions and string helpers

// CharCode is asChar(n).
type CharCode struct {
	nodeImpl
	expressionMarker

	Value Expression
}

func NewCharCode(value Expression) *CharCode {
	return &CharCode{nodeImpl: newNodeImpl(NodeCharCode), Value: value}
}

// IntCode is asInt(s).
type IntCode struct {
	nodeImpl
	expressionMarker

	Value Expression
}

func NewIntCode(value Expression) *IntCode {
	return &IntCode{nodeImpl: newNodeImpl(NodeIntCode), Value: value}
}

type Length struct {
	nodeImpl
	expressionMarker

	Value Expression
}

func NewLength(value Expression) *Length {
	return &Length{nodeImpl: newNodeImpl(NodeLength), Value: value}
}

// Split is `target => split(source, separator)`.
type Split struct {
	nodeImpl
	statementMarker

	Target    *Identifier
	Source    Expression
	Separator Expression
}

func NewSplit(target *Identifier, source, separator Expression) *Split {
	return &Split{nodeImpl: newNodeImpl(NodeSplit), Target: target, Source: source, Separator: separator}
}
