package gojaconv

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jserrors "jsopt/pkg/errors"
	"jsopt/pkg/parser"
	"jsopt/pkg/passes"
	"jsopt/pkg/walker"
)

// shape lists the node types of the tree in pre-order.
func shape(n parser.Node) []parser.NodeType {
	out := []parser.NodeType{n.Type()}
	for _, c := range parser.Children(n) {
		out = append(out, shape(c.Node)...)
	}
	return out
}

func TestSameShapeAsInHouseParser(t *testing.T) {
	tests := []string{
		`var a = "x";`,
		`var a = 1, b;`,
		`a + b * c - d;`,
		`x = y = z;`,
		`n += 1; n >>>= 2;`,
		`a && b || !c;`,
		`typeof a === "undefined" ? void 0 : delete a.b;`,
		`i++; --j;`,
		`f(a, b)(c).d[e];`,
		`new Foo(1, 2); new Bar;`,
		`o = {a: 1, "b": 2, 3: c};`,
		`o = {get x() { return 1; }, set x(v) {}};`,
		`arr = [1, 2, [3]];`,
		`if (a) b(); else { c(); }`,
		`for (var i = 0; i < n; i++) { continue; }`,
		`for (k in o) {}`,
		`for (var k in o) {}`,
		`while (x) { break; }`,
		`do x--; while (x);`,
		`outer: for (;;) { break outer; }`,
		`switch (v) { case 1: a(); break; default: b(); }`,
		`try { a(); } catch (e) { throw e; } finally { c(); }`,
		`with (o) { p; }`,
		`function f(a, b) { "use strict"; return a, b; }`,
		`x = function g() { return this; };`,
		`re = /ab+c/gi;`,
		`debugger;`,
		`;`,
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			want, err := parser.ParseString(src)
			require.NoError(t, err)
			got, err := ParseString(src)
			require.NoError(t, err)
			assert.Equal(t, shape(want), shape(got))
		})
	}
}

func TestLiteralValues(t *testing.T) {
	program, err := ParseString(`f('it\'s', 0x10, 1.5, true, null);`)
	require.NoError(t, err)

	call := program.Body[0].(*parser.ExpressionStatement).Expression.Data.(*parser.CallExpression)
	require.Len(t, call.Arguments, 5)

	str := call.Arguments[0].Data.(*parser.Literal)
	assert.Equal(t, `'it\'s'`, str.Raw)
	assert.Equal(t, "it's", str.Str)

	hex := call.Arguments[1].Data.(*parser.Literal)
	assert.Equal(t, "0x10", hex.Raw)
	assert.Equal(t, 16.0, hex.Num)

	assert.Equal(t, 1.5, call.Arguments[2].Data.(*parser.Literal).Num)
	assert.True(t, call.Arguments[3].Data.(*parser.Literal).Bool)
	assert.Equal(t, parser.NullLiteral, call.Arguments[4].Data.(*parser.Literal).Kind)
}

func TestLexicalDeclarations(t *testing.T) {
	program, err := ParseString("let a = 1; const b = 2;")
	require.NoError(t, err)
	require.Len(t, program.Body, 2)
	assert.Equal(t, "let", program.Body[0].(*parser.VariableDeclaration).Kind)
	assert.Equal(t, "const", program.Body[1].(*parser.VariableDeclaration).Kind)
}

func TestDefaultAndRestParameters(t *testing.T) {
	program, err := ParseString("function f(a, b = 2, ...rest) {}")
	require.NoError(t, err)

	fn := program.Body[0].(*parser.FunctionDeclaration)
	require.Len(t, fn.Params, 2)
	require.Len(t, fn.Defaults, 2)
	assert.Nil(t, fn.Defaults[0])
	assert.Equal(t, "2", fn.Defaults[1].String())
	require.NotNil(t, fn.Rest)
	assert.Equal(t, "rest", fn.Rest.Name)
	assert.Len(t, fn.ParamNames(), 3)
}

func TestPositions(t *testing.T) {
	program, err := ParseString("var a;\n  b = a;")
	require.NoError(t, err)

	stmt := program.Body[1].(*parser.ExpressionStatement)
	assign := stmt.Expression.Data.(*parser.AssignmentExpression)
	target := assign.Left.Data.(*parser.Identifier)
	assert.Equal(t, 2, target.Start.Line)
	assert.Equal(t, 3, target.Start.Column)
	assert.Equal(t, 9, target.Start.Offset)
}

func TestUnsupportedConstructs(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"f(x => x);", "arrow function is not supported"},
		{"class A {}", "class declaration is not supported"},
		{"s = `t${x}`;", "template literal is not supported"},
		{"f(...args);", "spread element is not supported"},
		{"for (x of xs) {}", "for-of statement is not supported"},
		{"async function f() {}", "async function is not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := ParseString(tt.src)
			require.Error(t, err)
			var syntaxErr *jserrors.SyntaxError
			require.True(t, errors.As(err, &syntaxErr), err)
			assert.Equal(t, tt.want, syntaxErr.Message())
			assert.Equal(t, 1, syntaxErr.Line)
		})
	}
}

func TestGojaSyntaxError(t *testing.T) {
	_, err := ParseString("var = ;")
	require.Error(t, err)
	var syntaxErr *jserrors.SyntaxError
	require.True(t, errors.As(err, &syntaxErr), err)
	assert.Equal(t, 1, syntaxErr.Line)
	assert.NotEmpty(t, syntaxErr.Message())
	require.NotNil(t, syntaxErr.Source)
	assert.Equal(t, "<inline>", syntaxErr.Source.DisplayPath())
}

func TestPassesRunOnConvertedTree(t *testing.T) {
	program, err := ParseString(`let kept; function f() { x = "shared"; kept = "shared"; return "shared"; }`)
	require.NoError(t, err)

	c := passes.DefaultConfig()
	c.LiteralTag = "g"
	globals := passes.NewImplicitGlobals(nil)
	literals := passes.NewCachedLiterals(c)
	w := walker.New(nil)
	globals.Register(w)
	literals.Register(w)
	_, err = w.Walk(program)
	require.NoError(t, err)

	require.Len(t, globals.Globals(), 1)
	assert.Equal(t, "x", globals.Globals()[0].Name)
	require.Len(t, literals.Hoisted(), 1)
	assert.Equal(t, "__const_literal_$g1", literals.Hoisted()[0].Name)
}
