package runtime

import "fmt"

// SymbolKind distinguishes the three things a name can be bound to.
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
	SymbolArray
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	case SymbolArray:
		return "array"
	default:
		return fmt.Sprintf("unknown_symbol_%d", int(k))
	}
}

// Symbol is one binding in a scope.
type Symbol struct {
	Kind  SymbolKind
	Value Value
}

func NewVariable(v Value) Symbol { return Symbol{Kind: SymbolVariable, Value: v} }

func NewFunctionSymbol(fn *FunctionValue) Symbol { return Symbol{Kind: SymbolFunction, Value: fn} }

func NewArraySymbol(arr *ArrayValue) Symbol { return Symbol{Kind: SymbolArray, Value: arr} }

// SymbolFor picks the symbol variant matching the value's kind.
func SymbolFor(v Value) Symbol {
	switch val := v.(type) {
	case *FunctionValue:
		return NewFunctionSymbol(val)
	case *ArrayValue:
		return NewArraySymbol(val)
	default:
		return NewVariable(v)
	}
}
