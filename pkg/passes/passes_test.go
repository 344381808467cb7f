package passes

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsopt/pkg/parser"
	"jsopt/pkg/walker"
)

func run(t *testing.T, src string, ps ...Pass) *parser.Program {
	t.Helper()
	program, err := parser.ParseString(src)
	require.NoError(t, err)
	w := walker.New(nil)
	for _, p := range ps {
		p.Register(w)
	}
	_, err = w.Walk(program)
	require.NoError(t, err)
	return program
}

func globalNames(p *ImplicitGlobals) []string {
	var names []string
	for _, g := range p.Globals() {
		names = append(names, g.Name)
	}
	return names
}

func TestImplicitGlobals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"undeclared in function", "function f(){ x = 1; }", []string{"x"}},
		{"declared in function", "function f(){ var x; x = 1; }", nil},
		{"declared at top level", "var y; function f(){ y = 2; } z = 3;", []string{"z"}},
		{"parameter", "function f(p){ p = 1; }", nil},
		{"function name", "function f(){} f = 1;", nil},
		{"member target", "a.b = 1; a[0] = 2;", nil},
		{"reported once", "x = 1; x = 2; function g(){ x = 3; }", []string{"x"}},
		{"compound assignment", "n += 1;", []string{"n"}},
		{"catch parameter", "try {} catch (e) { e = 1; }", nil},
		{"declared after use", "x = 1; var x;", []string{"x"}},
		{"sibling scopes", "function a(){ var v; } function b(){ v = 1; }", []string{"v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewImplicitGlobals(nil)
			run(t, tt.src, p)
			assert.Equal(t, tt.want, globalNames(p))
		})
	}
}

func TestImplicitGlobalPosition(t *testing.T) {
	p := NewImplicitGlobals(nil)
	run(t, "var a;\n  b = a;", p)
	require.Len(t, p.Globals(), 1)
	assert.Equal(t, parser.Pos{Line: 2, Column: 3, Offset: 9}, p.Globals()[0].Pos)
}

func TestImplicitGlobalsDoNotRewrite(t *testing.T) {
	src := "function f(){ x = 'abcdef'; }"
	p := NewImplicitGlobals(nil)
	program := run(t, src, p)
	assert.Equal(t, "function f() { x = 'abcdef'; }", program.String())
}

func testConfig() Config {
	c := DefaultConfig()
	c.LiteralTag = "t"
	return c
}

func TestHoistRepeatedString(t *testing.T) {
	p := NewCachedLiterals(testConfig())
	program := run(t, `var a = "hello"; var b = "hello"; var c = "hello";`, p)

	assert.Equal(t, strings.Join([]string{
		`var __const_literal_$t1 = "hello";`,
		`var a = __const_literal_$t1;`,
		`var b = __const_literal_$t1;`,
		`var c = __const_literal_$t1;`,
	}, "\n"), program.String())

	require.Len(t, p.Hoisted(), 1)
	h := p.Hoisted()[0]
	assert.Equal(t, "__const_literal_$t1", h.Name)
	assert.Equal(t, `"hello"`, h.Raw)
	assert.Equal(t, 3, h.Occurrences)
	assert.Equal(t, 0, h.ScopeLevel)
	assert.Equal(t, 21-(7+3+2), h.Saved)
}

func TestHoistIntoFunction(t *testing.T) {
	p := NewCachedLiterals(testConfig())
	src := `var keep = 1; function f() { g("abcdef", "abcdef"); h("abcdef"); return ["abcdef", "abcdef"]; }`
	program := run(t, src, p)

	require.Len(t, program.Body, 2, "nothing inserted at program level")
	fn := program.Body[1].(*parser.FunctionDeclaration)
	require.Len(t, fn.Body.Body, 4)
	assert.Equal(t, `var __const_literal_$t1 = "abcdef";`, fn.Body.Body[0].String())

	out := program.String()
	assert.Equal(t, 1, strings.Count(out, `"abcdef"`))
	assert.Equal(t, 6, strings.Count(out, "__const_literal_$t1"))
	assert.Equal(t, 1, p.Hoisted()[0].ScopeLevel)
}

func TestSingleOccurrenceNotHoisted(t *testing.T) {
	p := NewCachedLiterals(testConfig())
	program := run(t, `var a = "only once"; var b = "another";`, p)
	assert.Empty(t, p.Hoisted())
	assert.Equal(t, "var a = \"only once\";\nvar b = \"another\";", program.String())
}

func TestHoistingIsIdempotent(t *testing.T) {
	first := NewCachedLiterals(testConfig())
	program := run(t, `f("repeat"); f("repeat"); f("repeat");`, first)
	require.Len(t, first.Hoisted(), 1)
	out := program.String()

	reparsed, err := parser.ParseString(parser.NewJSEmitter().Emit(program))
	require.NoError(t, err)
	second := NewCachedLiterals(testConfig())
	w := walker.New(nil)
	second.Register(w)
	_, err = w.Walk(reparsed)
	require.NoError(t, err)

	assert.Empty(t, second.Hoisted())
	assert.Equal(t, out, reparsed.String())
}

func TestSizeThreshold(t *testing.T) {
	// "ab" is 4 bytes: two uses cost 8, hoisting costs 4+2+2.
	p := NewCachedLiterals(testConfig())
	run(t, `f("ab", "ab");`, p)
	assert.Empty(t, p.Hoisted())

	p = NewCachedLiterals(testConfig())
	run(t, `f("ab", "ab", "ab");`, p)
	assert.Len(t, p.Hoisted(), 1)
}

func TestSingleCharacterLiteralsIgnored(t *testing.T) {
	p := NewCachedLiterals(testConfig())
	run(t, "f(1, 1, 1, 1, 1, 1, 1, 1, 1, 1);", p)
	assert.Empty(t, p.Hoisted())
}

func TestCommonAncestorPlacement(t *testing.T) {
	p := NewCachedLiterals(testConfig())
	src := `function a() { return "shared!"; } function b() { return function () { return "shared!"; }; } x = "shared!";`
	program := run(t, src, p)
	require.Len(t, p.Hoisted(), 1)
	assert.Equal(t, 0, p.Hoisted()[0].ScopeLevel)
	assert.Equal(t, `var __const_literal_$t1 = "shared!";`, program.Body[0].String())
}

func TestSiblingFunctionsShareRoot(t *testing.T) {
	p := NewCachedLiterals(testConfig())
	program := run(t, `function a() { f("sibling", "sibling"); } function b() { f("sibling"); }`, p)
	require.Len(t, p.Hoisted(), 1)
	_, ok := program.Body[0].(*parser.VariableDeclaration)
	assert.True(t, ok, "declaration placed in program body, got %s", program.Body[0])
}

func TestDirectivePrologueKept(t *testing.T) {
	p := NewCachedLiterals(testConfig())
	src := `function f() { "use strict"; "use strict"; "use strict"; return ["xyzw", "xyzw", "xyzw"]; }`
	program := run(t, src, p)

	fn := program.Body[0].(*parser.FunctionDeclaration)
	require.Len(t, fn.Body.Body, 5)
	for i := 0; i < 3; i++ {
		assert.Equal(t, `"use strict";`, fn.Body.Body[i].String())
	}
	assert.Equal(t, `var __const_literal_$t1 = "xyzw";`, fn.Body.Body[3].String())
}

func TestPropertyKeysAndRegexSkipped(t *testing.T) {
	p := NewCachedLiterals(testConfig())
	src := `a = {"long": 1}; b = {"long": 2}; c = {"long": 3}; d = [/re+/g, /re+/g, /re+/g];`
	program := run(t, src, p)
	assert.Empty(t, p.Hoisted())
	assert.Contains(t, program.String(), `{"long": 1}`)

	// A computed key is an ordinary expression.
	p = NewCachedLiterals(testConfig())
	run(t, `x = o["computed"] + o["computed"] + o["computed"];`, p)
	assert.Len(t, p.Hoisted(), 1)
}

func TestLiteralsGroupByValue(t *testing.T) {
	p := NewCachedLiterals(testConfig())
	program := run(t, `x = [1.0, 1.00, 1.000]; y = ['same', "same", 'same'];`, p)
	require.Len(t, p.Hoisted(), 2)
	assert.Equal(t, "1.0", p.Hoisted()[0].Raw)
	assert.Equal(t, "'same'", p.Hoisted()[1].Raw)
	assert.Equal(t, "var __const_literal_$t1 = 1.0;", program.Body[0].String())
	assert.Equal(t, "var __const_literal_$t2 = 'same';", program.Body[1].String())
}

func TestStringAndNumberKeysDiffer(t *testing.T) {
	p := NewCachedLiterals(testConfig())
	run(t, `f("10", 10, "10", 10);`, p)
	assert.Empty(t, p.Hoisted(), "each group alone stays below the threshold")
}

func TestGeneratedNamesUseRandomTag(t *testing.T) {
	p := NewCachedLiterals(DefaultConfig())
	run(t, `f("tagged", "tagged", "tagged");`, p)
	require.Len(t, p.Hoisted(), 1)
	assert.Regexp(t, regexp.MustCompile(`^__const_literal_\$[0-9a-z]+1$`), p.Hoisted()[0].Name)
}

func TestCountersArePerInstance(t *testing.T) {
	for i := 0; i < 2; i++ {
		p := NewCachedLiterals(testConfig())
		run(t, `f("again", "again", "again");`, p)
		require.Len(t, p.Hoisted(), 1)
		assert.Equal(t, "__const_literal_$t1", p.Hoisted()[0].Name)
	}
}

func TestPassesShareOneWalk(t *testing.T) {
	globals := NewImplicitGlobals(nil)
	literals := NewCachedLiterals(testConfig())
	program := run(t, `function f() { out = "shared"; out = "shared"; out = "shared"; }`, globals, literals)

	assert.Equal(t, []string{"out"}, globalNames(globals))
	require.Len(t, literals.Hoisted(), 1)
	assert.NotContains(t, program.String(), `out = "shared"`)
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		p, err := ByName(name, DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}
	_, err := ByName("nope", DefaultConfig())
	assert.Error(t, err)
}
