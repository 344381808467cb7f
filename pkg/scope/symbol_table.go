package scope

import "jsopt/pkg/parser"

// SymbolTable tracks the live chain of scopes during one traversal. The bottom of
// the stack is the root (global) scope, which can never be left.
type SymbolTable struct {
	stack  []*Scope
	nextID int
}

// NewSymbolTable creates a table holding only the root scope.
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{}
	st.stack = []*Scope{st.newScope(nil)}
	return st
}

func (st *SymbolTable) newScope(parent *Scope) *Scope {
	s := newScope(st.nextID, parent)
	st.nextID++
	return s
}

// EnterScope pushes a new scope enclosed by the current one.
func (st *SymbolTable) EnterScope() *Scope {
	s := st.newScope(st.Current())
	st.stack = append(st.stack, s)
	return s
}

// LeaveScope pops the current scope and returns it. Leaving the root scope is a
// no-op that returns nil.
func (st *SymbolTable) LeaveScope() *Scope {
	if len(st.stack) == 1 {
		return nil
	}
	top := st.stack[len(st.stack)-1]
	st.stack = st.stack[:len(st.stack)-1]
	return top
}

// Current returns the innermost live scope.
func (st *SymbolTable) Current() *Scope {
	return st.stack[len(st.stack)-1]
}

// Root returns the global scope.
func (st *SymbolTable) Root() *Scope {
	return st.stack[0]
}

// Depth returns the number of live scopes, root included.
func (st *SymbolTable) Depth() int {
	return len(st.stack)
}

// AddSymbol declares name in the current scope.
func (st *SymbolTable) AddSymbol(name string, node parser.Node) Entry {
	return st.Current().add(name, node)
}

// AddGlobalSymbol declares name directly in the root scope.
func (st *SymbolTable) AddGlobalSymbol(name string, node parser.Node) Entry {
	return st.Root().add(name, node)
}

// CheckSymbol reports whether the current scope itself declares name. Enclosing
// scopes are not consulted.
func (st *SymbolTable) CheckSymbol(name string) bool {
	return st.Current().Declares(name)
}

// Resolve looks up name starting from the current scope and moving outwards. It
// returns the entry and the scope that declares it.
func (st *SymbolTable) Resolve(name string) (Entry, *Scope, bool) {
	for i := len(st.stack) - 1; i >= 0; i-- {
		if e, ok := st.stack[i].Lookup(name); ok {
			return e, st.stack[i], true
		}
	}
	return Entry{}, nil, false
}

// FindSymbol returns the nearest declaring node of name on the live chain.
func (st *SymbolTable) FindSymbol(name string) (parser.Node, bool) {
	e, _, ok := st.Resolve(name)
	return e.Node, ok
}

// IsGlobalSymbol reports whether the nearest declaration of name is in the root
// scope.
func (st *SymbolTable) IsGlobalSymbol(name string) bool {
	_, s, ok := st.Resolve(name)
	return ok && s.IsRoot()
}
