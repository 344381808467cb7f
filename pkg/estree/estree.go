// Package estree serialises the optimizer's AST as ESTree JSON, the format
// external renderers such as escodegen consume. Functions use the
// SpiderMonkey layout with parallel defaults and a separate rest parameter.
package estree

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"jsopt/pkg/parser"
)

// Object is a JSON object that keeps its keys in insertion order, so the
// output always starts with "type".
type Object struct {
	keys   []string
	values []interface{}
}

func newObject(t parser.NodeType) *Object {
	o := &Object{}
	o.Set("type", string(t))
	return o
}

// Set appends a key. Keys are not deduplicated.
func (o *Object) Set(key string, value interface{}) *Object {
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
	return o
}

// Get returns the first value stored under key.
func (o *Object) Get(key string) (interface{}, bool) {
	for i, k := range o.keys {
		if k == key {
			return o.values[i], true
		}
	}
	return nil, false
}

// MarshalJSON implements json.Marshaler, writing keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var builder strings.Builder
	builder.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			builder.WriteByte(',')
		}
		keyJSON, err := encode(key, "")
		if err != nil {
			return nil, err
		}
		builder.Write(keyJSON)
		builder.WriteByte(':')

		valueJSON, err := encode(o.values[i], "")
		if err != nil {
			return nil, err
		}
		builder.Write(valueJSON)
	}
	builder.WriteByte('}')
	return []byte(builder.String()), nil
}

// encode is json.Marshal without HTML escaping, so operators such as "&&" and
// "<" stay readable. The setting also reaches nested MarshalJSON output.
func encode(v interface{}, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Encoder converts nodes into ESTree objects.
type Encoder struct {
	// Locations adds "loc" (0-based columns, as ESTree specifies) and "range".
	Locations bool
}

// Marshal encodes n as compact JSON without locations.
func Marshal(n parser.Node) ([]byte, error) {
	return encode(Encoder{}.Node(n), "")
}

// MarshalIndent encodes n as indented JSON.
func (e Encoder) MarshalIndent(n parser.Node, indent string) ([]byte, error) {
	return encode(e.Node(n), indent)
}

// Node converts n and its subtree. A nil node maps to nil (JSON null).
func (e Encoder) Node(n parser.Node) interface{} {
	if n == nil {
		return nil
	}
	if slot, ok := n.(*parser.Expr); ok {
		if slot == nil || slot.Data == nil {
			return nil
		}
		n = slot.Data
	}
	o := e.node(n)
	if o == nil {
		return nil
	}
	if e.Locations {
		span := n.Loc()
		o.Set("loc", map[string]interface{}{
			"start": position(span.Start),
			"end":   position(span.End),
		})
		o.Set("range", [2]int{span.Start.Offset, span.End.Offset})
	}
	return o
}

func position(p parser.Pos) map[string]int {
	return map[string]int{"line": p.Line, "column": p.Column - 1}
}

func (e Encoder) expr(slot *parser.Expr) interface{} {
	if slot == nil || slot.Data == nil {
		return nil
	}
	return e.Node(slot.Data)
}

// exprs keeps nil entries, which ESTree uses for array holes.
func (e Encoder) exprs(list []*parser.Expr) []interface{} {
	out := make([]interface{}, len(list))
	for i, slot := range list {
		out[i] = e.expr(slot)
	}
	return out
}

func (e Encoder) stmt(s parser.Statement) interface{} {
	if s == nil {
		return nil
	}
	return e.Node(s)
}

func (e Encoder) stmts(list []parser.Statement) []interface{} {
	out := make([]interface{}, len(list))
	for i, s := range list {
		out[i] = e.stmt(s)
	}
	return out
}

func (e Encoder) ident(id *parser.Identifier) interface{} {
	if id == nil {
		return nil
	}
	return e.Node(id)
}

func (e Encoder) block(b *parser.BlockStatement) interface{} {
	if b == nil {
		return nil
	}
	return e.Node(b)
}

func (e Encoder) forInit(init parser.ForInit) interface{} {
	switch init := init.(type) {
	case nil:
		return nil
	case *parser.Expr:
		return e.expr(init)
	case *parser.VariableDeclaration:
		if init == nil {
			return nil
		}
		return e.Node(init)
	}
	return nil
}

func (e Encoder) function(o *parser.Function, obj *Object) *Object {
	defaults := make([]interface{}, 0, len(o.Defaults))
	for _, d := range o.Defaults {
		defaults = append(defaults, e.expr(d))
	}
	return obj.
		Set("id", e.ident(o.ID)).
		Set("params", e.exprs(o.Params)).
		Set("defaults", defaults).
		Set("rest", e.ident(o.Rest)).
		Set("body", e.block(o.Body)).
		Set("generator", o.Generator).
		Set("expression", o.Expression)
}

func (e Encoder) node(n parser.Node) *Object {
	o := newObject(n.Type())
	switch n := n.(type) {
	case *parser.Program:
		o.Set("body", e.stmts(n.Body))
	case *parser.EmptyStatement, *parser.DebuggerStatement, *parser.ThisExpression:
	case *parser.BlockStatement:
		o.Set("body", e.stmts(n.Body))
	case *parser.ExpressionStatement:
		o.Set("expression", e.expr(n.Expression))
	case *parser.IfStatement:
		o.Set("test", e.expr(n.Test)).
			Set("consequent", e.stmt(n.Consequent)).
			Set("alternate", e.stmt(n.Alternate))
	case *parser.LabeledStatement:
		o.Set("label", e.ident(n.Label)).Set("body", e.stmt(n.Body))
	case *parser.BreakStatement:
		o.Set("label", e.ident(n.Label))
	case *parser.ContinueStatement:
		o.Set("label", e.ident(n.Label))
	case *parser.WithStatement:
		o.Set("object", e.expr(n.Object)).Set("body", e.stmt(n.Body))
	case *parser.SwitchStatement:
		cases := make([]interface{}, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = e.Node(c)
		}
		o.Set("discriminant", e.expr(n.Discriminant)).Set("cases", cases)
	case *parser.SwitchCase:
		o.Set("test", e.expr(n.Test)).Set("consequent", e.stmts(n.Consequent))
	case *parser.ReturnStatement:
		o.Set("argument", e.expr(n.Argument))
	case *parser.ThrowStatement:
		o.Set("argument", e.expr(n.Argument))
	case *parser.TryStatement:
		var handler interface{}
		if n.Handler != nil {
			handler = e.Node(n.Handler)
		}
		o.Set("block", e.block(n.Block)).
			Set("handler", handler).
			Set("finalizer", e.block(n.Finalizer))
	case *parser.CatchClause:
		o.Set("param", e.expr(n.Param)).Set("body", e.block(n.Body))
	case *parser.WhileStatement:
		o.Set("test", e.expr(n.Test)).Set("body", e.stmt(n.Body))
	case *parser.DoWhileStatement:
		o.Set("body", e.stmt(n.Body)).Set("test", e.expr(n.Test))
	case *parser.ForStatement:
		o.Set("init", e.forInit(n.Init)).
			Set("test", e.expr(n.Test)).
			Set("update", e.expr(n.Update)).
			Set("body", e.stmt(n.Body))
	case *parser.ForInStatement:
		o.Set("left", e.forInit(n.Left)).
			Set("right", e.expr(n.Right)).
			Set("body", e.stmt(n.Body)).
			Set("each", false)
	case *parser.FunctionDeclaration:
		e.function(&n.Function, o)
	case *parser.FunctionExpression:
		e.function(&n.Function, o)
	case *parser.VariableDeclaration:
		decls := make([]interface{}, len(n.Declarations))
		for i, d := range n.Declarations {
			decls[i] = e.Node(d)
		}
		o.Set("declarations", decls).Set("kind", n.Kind)
	case *parser.VariableDeclarator:
		o.Set("id", e.expr(n.ID)).Set("init", e.expr(n.Init))
	case *parser.Identifier:
		o.Set("name", n.Name)
	case *parser.Literal:
		o.Set("value", literalValue(n)).Set("raw", n.Raw)
		if n.Kind == parser.RegExpLiteral && n.Regex != nil {
			o.Set("regex", map[string]string{"pattern": n.Regex.Pattern, "flags": n.Regex.Flags})
		}
	case *parser.ArrayExpression:
		o.Set("elements", e.exprs(n.Elements))
	case *parser.ObjectExpression:
		o.Set("properties", e.properties(n.Properties))
	case *parser.Property:
		o.Set("key", e.expr(n.Key)).
			Set("value", e.expr(n.Value)).
			Set("kind", n.Kind).
			Set("computed", n.Computed).
			Set("shorthand", n.Shorthand)
	case *parser.SequenceExpression:
		o.Set("expressions", e.exprs(n.Expressions))
	case *parser.UnaryExpression:
		o.Set("operator", n.Operator).Set("prefix", n.Prefix).Set("argument", e.expr(n.Argument))
	case *parser.BinaryExpression:
		o.Set("operator", n.Operator).Set("left", e.expr(n.Left)).Set("right", e.expr(n.Right))
	case *parser.LogicalExpression:
		o.Set("operator", n.Operator).Set("left", e.expr(n.Left)).Set("right", e.expr(n.Right))
	case *parser.AssignmentExpression:
		o.Set("operator", n.Operator).Set("left", e.expr(n.Left)).Set("right", e.expr(n.Right))
	case *parser.UpdateExpression:
		o.Set("operator", n.Operator).Set("prefix", n.Prefix).Set("argument", e.expr(n.Argument))
	case *parser.ConditionalExpression:
		o.Set("test", e.expr(n.Test)).
			Set("consequent", e.expr(n.Consequent)).
			Set("alternate", e.expr(n.Alternate))
	case *parser.NewExpression:
		o.Set("callee", e.expr(n.Callee)).Set("arguments", e.exprs(n.Arguments))
	case *parser.CallExpression:
		o.Set("callee", e.expr(n.Callee)).Set("arguments", e.exprs(n.Arguments))
	case *parser.MemberExpression:
		o.Set("object", e.expr(n.Object)).
			Set("property", e.expr(n.Property)).
			Set("computed", n.Computed)
	case *parser.ObjectPattern:
		o.Set("properties", e.properties(n.Properties))
	case *parser.ArrayPattern:
		o.Set("elements", e.exprs(n.Elements))
	default:
		return nil
	}
	return o
}

func (e Encoder) properties(props []*parser.Property) []interface{} {
	out := make([]interface{}, len(props))
	for i, p := range props {
		out[i] = e.Node(p)
	}
	return out
}

// literalValue returns the JSON form of a literal's value. Regular
// expressions and non-finite numbers have no JSON form and become null.
func literalValue(l *parser.Literal) interface{} {
	switch l.Kind {
	case parser.StringLiteral:
		return l.Str
	case parser.NumberLiteral:
		if math.IsInf(l.Num, 0) || math.IsNaN(l.Num) {
			return nil
		}
		return l.Num
	case parser.BooleanLiteral:
		return l.Bool
	}
	return nil
}
