package scope

import "jsopt/pkg/parser"

// Entry is one declaration recorded in a scope.
type Entry struct {
	Name string
	Node parser.Node // The declaring node (identifier, declarator or function)
}

// Scope is one function-level scope. Scopes form an append-only tree: a child is
// always created after its parent, so its ID is greater.
type Scope struct {
	ID      int
	Parent  *Scope
	Level   int     // Distance from the root scope
	Entries []Entry // Declarations in insertion order

	index map[string]int // name -> latest entry with that name
}

func newScope(id int, parent *Scope) *Scope {
	s := &Scope{ID: id, Parent: parent, index: make(map[string]int)}
	if parent != nil {
		s.Level = parent.Level + 1
	}
	return s
}

func (s *Scope) add(name string, node parser.Node) Entry {
	e := Entry{Name: name, Node: node}
	s.index[name] = len(s.Entries)
	s.Entries = append(s.Entries, e)
	return e
}

// Lookup returns the most recent entry for name declared directly in s.
func (s *Scope) Lookup(name string) (Entry, bool) {
	i, ok := s.index[name]
	if !ok {
		return Entry{}, false
	}
	return s.Entries[i], true
}

// Declares reports whether s itself declares name.
func (s *Scope) Declares(name string) bool {
	_, ok := s.index[name]
	return ok
}

// IsRoot reports whether s has no parent.
func (s *Scope) IsRoot() bool {
	return s.Parent == nil
}

// CommonParent returns the lowest common ancestor of s and other in the scope
// tree. The later-created of the two climbs towards the root until its ID is no
// greater than the earlier one's. It returns nil when the scopes do not share a
// tree.
func (s *Scope) CommonParent(other *Scope) *Scope {
	if s == nil || other == nil {
		return nil
	}
	if s == other {
		return s
	}

	a, b := s, other
	for a != nil && b != nil && a != b {
		// Always climb from the scope created later.
		if a.ID < b.ID {
			a, b = b, a
		} else if a.ID == b.ID {
			// Equal ids on distinct scopes come from different tables.
			return nil
		}
		low := b.ID
		for a != nil && a.ID > low {
			a = a.Parent
		}
	}
	if a == nil || b == nil {
		return nil
	}
	return a
}

// CommonParent is the nil-tolerant form of Scope.CommonParent: a nil argument
// yields the other scope, which makes it usable as a fold over occurrences.
func CommonParent(a, b *Scope) *Scope {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return a.CommonParent(b)
}
