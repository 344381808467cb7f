package estree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsopt/pkg/parser"
)

func TestObjectImplementsMarshaler(t *testing.T) {
	var _ json.Marshaler = &Object{}
}

func TestObjectKeepsKeyOrder(t *testing.T) {
	o := &Object{}
	o.Set("z", 1).Set("a", "x").Set("m", nil)
	out, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"x","m":null}`, string(out))
}

func TestVariableDeclarationShape(t *testing.T) {
	program, err := parser.ParseString(`var a = "x";`)
	require.NoError(t, err)

	out, err := Marshal(program)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "Program",
		"body": [{
			"type": "VariableDeclaration",
			"declarations": [{
				"type": "VariableDeclarator",
				"id": {"type": "Identifier", "name": "a"},
				"init": {"type": "Literal", "value": "x", "raw": "\"x\""}
			}],
			"kind": "var"
		}]
	}`, string(out))
}

func TestExpressionShapes(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{
			"a.b;",
			`{"type":"ExpressionStatement","expression":{"type":"MemberExpression","object":{"type":"Identifier","name":"a"},"property":{"type":"Identifier","name":"b"},"computed":false}}`,
		},
		{
			"i++;",
			`{"type":"ExpressionStatement","expression":{"type":"UpdateExpression","operator":"++","prefix":false,"argument":{"type":"Identifier","name":"i"}}}`,
		},
		{
			"[1,,2];",
			`{"type":"ExpressionStatement","expression":{"type":"ArrayExpression","elements":[{"type":"Literal","value":1,"raw":"1"},null,{"type":"Literal","value":2,"raw":"2"}]}}`,
		},
		{
			"/a+/g;",
			`{"type":"ExpressionStatement","expression":{"type":"Literal","value":null,"raw":"/a+/g","regex":{"flags":"g","pattern":"a+"}}}`,
		},
		{
			"x && y;",
			`{"type":"ExpressionStatement","expression":{"type":"LogicalExpression","operator":"&&","left":{"type":"Identifier","name":"x"},"right":{"type":"Identifier","name":"y"}}}`,
		},
		{
			`a < b && c > "<&>";`,
			`{"type":"ExpressionStatement","expression":{"type":"LogicalExpression","operator":"&&",` +
				`"left":{"type":"BinaryExpression","operator":"<","left":{"type":"Identifier","name":"a"},"right":{"type":"Identifier","name":"b"}},` +
				`"right":{"type":"BinaryExpression","operator":">","left":{"type":"Identifier","name":"c"},"right":{"type":"Literal","value":"<&>","raw":"\"<&>\""}}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			program, err := parser.ParseString(tt.src)
			require.NoError(t, err)
			out, err := Marshal(program.Body[0])
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestFunctionLayout(t *testing.T) {
	program, err := parser.ParseString("function f(a) { return a; }")
	require.NoError(t, err)

	o := Encoder{}.Node(program.Body[0]).(*Object)
	for _, key := range []string{"id", "params", "defaults", "rest", "body", "generator", "expression"} {
		_, ok := o.Get(key)
		assert.True(t, ok, "missing %q", key)
	}
	rest, _ := o.Get("rest")
	assert.Nil(t, rest)
}

func TestLocations(t *testing.T) {
	program, err := parser.ParseString("x;\n  y;")
	require.NoError(t, err)

	out, err := Encoder{Locations: true}.MarshalIndent(program.Body[1], "  ")
	require.NoError(t, err)

	var decoded struct {
		Loc struct {
			Start struct{ Line, Column int }
		}
		Range [2]int
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, 2, decoded.Loc.Start.Line)
	assert.Equal(t, 2, decoded.Loc.Start.Column)
	assert.Equal(t, 5, decoded.Range[0])
}
