package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsopt/pkg/parser"
)

func ident(name string) *parser.Identifier {
	return parser.NewIdentifier(parser.Span{}, name)
}

// buildTree creates:
//
//	root(0)
//	├── a(1)
//	│   ├── a1(2)
//	│   └── a2(3)
//	└── b(4)
func buildTree(t *testing.T) (st *SymbolTable, scopes map[string]*Scope) {
	t.Helper()
	st = NewSymbolTable()
	scopes = map[string]*Scope{"root": st.Root()}
	scopes["a"] = st.EnterScope()
	scopes["a1"] = st.EnterScope()
	st.LeaveScope()
	scopes["a2"] = st.EnterScope()
	st.LeaveScope()
	st.LeaveScope()
	scopes["b"] = st.EnterScope()
	st.LeaveScope()
	require.Equal(t, 1, st.Depth())
	return st, scopes
}

func TestScopeIDsIncrease(t *testing.T) {
	_, s := buildTree(t)
	assert.Equal(t, 0, s["root"].ID)
	assert.Equal(t, 1, s["a"].ID)
	assert.Equal(t, 2, s["a1"].ID)
	assert.Equal(t, 3, s["a2"].ID)
	assert.Equal(t, 4, s["b"].ID)
	assert.Equal(t, 2, s["a2"].Level)
	assert.Same(t, s["a"], s["a2"].Parent)
}

func TestCommonParent(t *testing.T) {
	_, s := buildTree(t)
	tests := []struct {
		a, b, want string
	}{
		{"a1", "a1", "a1"},
		{"a1", "a2", "a"},
		{"a1", "a", "a"},
		{"a2", "b", "root"},
		{"a1", "b", "root"},
		{"root", "a2", "root"},
		{"a", "b", "root"},
	}
	for _, tt := range tests {
		assert.Same(t, s[tt.want], s[tt.a].CommonParent(s[tt.b]), "lca(%s, %s)", tt.a, tt.b)
		assert.Same(t, s[tt.want], s[tt.b].CommonParent(s[tt.a]), "lca(%s, %s)", tt.b, tt.a)
	}
}

func TestCommonParentProperties(t *testing.T) {
	_, s := buildTree(t)
	for name, sc := range s {
		assert.Same(t, sc, sc.CommonParent(sc), "reflexive for %s", name)
		if sc.Parent != nil {
			assert.Same(t, sc.Parent, sc.CommonParent(sc.Parent), "child/parent for %s", name)
		}
		for other, oc := range s {
			assert.Same(t, sc.CommonParent(oc), oc.CommonParent(sc), "symmetric for %s/%s", name, other)
		}
	}
}

func TestCommonParentAcrossTables(t *testing.T) {
	_, s1 := buildTree(t)
	_, s2 := buildTree(t)
	assert.Nil(t, s1["a1"].CommonParent(s2["b"]))
	assert.Nil(t, s1["a"].CommonParent(s2["a"]))
}

func TestCommonParentFold(t *testing.T) {
	_, s := buildTree(t)
	assert.Same(t, s["a1"], CommonParent(nil, s["a1"]))
	assert.Same(t, s["a1"], CommonParent(s["a1"], nil))
	assert.Nil(t, CommonParent(nil, nil))
	assert.Same(t, s["a"], CommonParent(CommonParent(nil, s["a1"]), s["a2"]))
}

func TestLeaveRootIsNoop(t *testing.T) {
	st := NewSymbolTable()
	assert.Nil(t, st.LeaveScope())
	assert.Equal(t, 1, st.Depth())

	inner := st.EnterScope()
	assert.Same(t, inner, st.LeaveScope())
	assert.Same(t, st.Root(), st.Current())
}

func TestScopeIsolation(t *testing.T) {
	st := NewSymbolTable()
	st.EnterScope()
	decl := ident("x")
	st.AddSymbol("x", decl)

	assert.True(t, st.CheckSymbol("x"))
	node, ok := st.FindSymbol("x")
	require.True(t, ok)
	assert.Same(t, decl, node)
	assert.False(t, st.IsGlobalSymbol("x"))

	st.LeaveScope()
	assert.False(t, st.CheckSymbol("x"))
	_, ok = st.FindSymbol("x")
	assert.False(t, ok)
}

func TestCheckSymbolIgnoresAncestors(t *testing.T) {
	st := NewSymbolTable()
	st.AddSymbol("outer", ident("outer"))
	st.EnterScope()

	assert.False(t, st.CheckSymbol("outer"))
	_, ok := st.FindSymbol("outer")
	assert.True(t, ok)
	assert.True(t, st.IsGlobalSymbol("outer"))
}

func TestShadowingResolvesNearest(t *testing.T) {
	st := NewSymbolTable()
	global := ident("v")
	st.AddSymbol("v", global)
	st.EnterScope()
	local := ident("v")
	st.AddSymbol("v", local)

	node, ok := st.FindSymbol("v")
	require.True(t, ok)
	assert.Same(t, local, node)
	assert.False(t, st.IsGlobalSymbol("v"))

	st.LeaveScope()
	node, _ = st.FindSymbol("v")
	assert.Same(t, global, node)
}

func TestAddGlobalSymbol(t *testing.T) {
	st := NewSymbolTable()
	st.EnterScope()
	st.EnterScope()
	st.AddGlobalSymbol("g", ident("g"))

	assert.False(t, st.CheckSymbol("g"))
	assert.True(t, st.IsGlobalSymbol("g"))
	assert.True(t, st.Root().Declares("g"))
	require.Len(t, st.Root().Entries, 1)
	assert.Equal(t, "g", st.Root().Entries[0].Name)
}

func TestRedeclarationResolvesLatest(t *testing.T) {
	st := NewSymbolTable()
	first := ident("a")
	st.AddSymbol("a", first)
	st.AddSymbol("b", ident("b"))
	latest := ident("a")
	st.AddSymbol("a", latest)

	names := make([]string, len(st.Current().Entries))
	for i, e := range st.Current().Entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"a", "b", "a"}, names)

	assert.Same(t, first, st.Current().Entries[0].Node)

	e, ok := st.Current().Lookup("a")
	require.True(t, ok)
	assert.Same(t, latest, e.Node)
	node, ok := st.FindSymbol("a")
	require.True(t, ok)
	assert.Same(t, latest, node)
}
