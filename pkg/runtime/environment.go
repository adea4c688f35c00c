package runtime

import (
	"hash/fnv"

	"github.com/emirpasic/gods/maps/treemap"

	"nyaa/interpreter-go/pkg/diag"
)

// ScopeID addresses a scope inside an Arena.
type ScopeID int

// GlobalScope is always present and has no parent.
const GlobalScope ScopeID = 0

const noParent ScopeID = -1

type scope struct {
	name    string
	level   int
	parent  ScopeID
	symbols *treemap.Map
}

// Arena owns every live scope. Scopes nest strictly, so popping a scope also
// discards anything pushed after it.
type Arena struct {
	scopes []*scope
}

// NewArena creates an arena holding only the global scope.
func NewArena() *Arena {
	a := &Arena{}
	a.scopes = append(a.scopes, newScope("global", 0, noParent))
	return a
}

func newScope(name string, level int, parent ScopeID) *scope {
	return &scope{name: name, level: level, parent: parent, symbols: treemap.NewWithStringComparator()}
}

// Push creates a scope parented at parent.
func (a *Arena) Push(name string, parent ScopeID) ScopeID {
	level := 0
	if s := a.get(parent); s != nil {
		level = s.level + 1
	}
	a.scopes = append(a.scopes, newScope(name, level, parent))
	return ScopeID(len(a.scopes) - 1)
}

// Pop discards id and every scope above it. The global scope is never popped.
func (a *Arena) Pop(id ScopeID) {
	if id <= GlobalScope || int(id) >= len(a.scopes) {
		return
	}
	a.scopes = a.scopes[:id]
}

// Reset drops everything but the global scope.
func (a *Arena) Reset() {
	a.scopes = a.scopes[:1]
}

// Depth is the number of live scopes, global included.
func (a *Arena) Depth() int { return len(a.scopes) }

func (a *Arena) get(id ScopeID) *scope {
	if id < 0 || int(id) >= len(a.scopes) {
		return nil
	}
	return a.scopes[id]
}

func (a *Arena) Name(id ScopeID) string {
	if s := a.get(id); s != nil {
		return s.name
	}
	return ""
}

func (a *Arena) Level(id ScopeID) int {
	if s := a.get(id); s != nil {
		return s.level
	}
	return -1
}

// Parent returns the parent scope and false for the global scope.
func (a *Arena) Parent(id ScopeID) (ScopeID, bool) {
	s := a.get(id)
	if s == nil || s.parent == noParent {
		return noParent, false
	}
	return s.parent, true
}

// Insert binds name in scope id, replacing any existing binding there.
func (a *Arena) Insert(id ScopeID, name string, sym Symbol) {
	if s := a.get(id); s != nil {
		s.symbols.Put(name, sym)
	}
}

// Define binds v under the symbol variant matching its kind.
func (a *Arena) Define(id ScopeID, name string, v Value) {
	a.Insert(id, name, SymbolFor(v))
}

// LookupSymbol finds name starting at id. With localOnly the parent chain
// is not consulted.
func (a *Arena) LookupSymbol(id ScopeID, name string, localOnly bool) (Symbol, bool) {
	for {
		s := a.get(id)
		if s == nil {
			return Symbol{}, false
		}
		if raw, ok := s.symbols.Get(name); ok {
			return raw.(Symbol), true
		}
		parent, ok := a.Parent(id)
		if localOnly || !ok {
			return Symbol{}, false
		}
		id = parent
	}
}

// Lookup returns the value bound to name.
func (a *Arena) Lookup(id ScopeID, name string, localOnly bool) (Value, error) {
	sym, ok := a.LookupSymbol(id, name, localOnly)
	if !ok {
		return nil, diag.New(diag.Runtime, diag.ErrUndefined, diag.Span{}, "undefined name '%s' in scope '%s'", name, a.Name(id))
	}
	return sym.Value, nil
}

// LookupFunction returns the function bound to name.
func (a *Arena) LookupFunction(id ScopeID, name string) (*FunctionValue, error) {
	sym, ok := a.LookupSymbol(id, name, false)
	if !ok {
		return nil, diag.New(diag.Runtime, diag.ErrUndefined, diag.Span{}, "undefined function '%s'", name)
	}
	fn, ok := sym.Value.(*FunctionValue)
	if !ok {
		return nil, diag.New(diag.Runtime, diag.ErrUndefined, diag.Span{}, "'%s' is a %s, not a function", name, sym.Kind)
	}
	return fn, nil
}

// Digest is a 128-bit content hash of one scope.
type Digest [16]byte

// Digest hashes the scope name and its sorted bindings. Parent scopes are
// not included.
func (a *Arena) Digest(id ScopeID) Digest {
	var out Digest
	s := a.get(id)
	if s == nil {
		return out
	}
	h := fnv.New128a()
	h.Write([]byte(s.name))
	h.Write([]byte{0})
	it := s.symbols.Iterator()
	for it.Next() {
		sym := it.Value().(Symbol)
		h.Write([]byte(it.Key().(string)))
		h.Write([]byte{'='})
		h.Write([]byte(sym.Kind.String()))
		h.Write([]byte{':'})
		h.Write([]byte(Serialize(sym.Value)))
		h.Write([]byte{0})
	}
	copy(out[:], h.Sum(nil))
	return out
}
