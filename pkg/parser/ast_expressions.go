package parser

import (
	"bytes"
	"strings"
)

// Function holds the parts shared by function declarations and expressions.
type Function struct {
	ID         *Identifier // nil for anonymous function expressions
	Params     []*Expr     // Identifiers, or patterns from the goja front end
	Defaults   []*Expr     // Parallel to Params; nil entries have no default
	Rest       *Identifier
	Body       *BlockStatement
	Generator  bool
	Expression bool
}

// FunctionNode is implemented by both function node types.
type FunctionNode interface {
	Node
	Func() *Function
}

// ParamNames returns every name bound by the parameter list, rest included.
func (f *Function) ParamNames() []*Identifier {
	var names []*Identifier
	for _, p := range f.Params {
		names = append(names, BoundNames(p)...)
	}
	if f.Rest != nil {
		names = append(names, f.Rest)
	}
	return names
}

func (f *Function) render() string {
	var out bytes.Buffer
	out.WriteString("function")
	if f.Generator {
		out.WriteString("*")
	}
	if f.ID != nil {
		out.WriteString(" " + f.ID.Name)
	}
	params := make([]string, 0, len(f.Params)+1)
	for i, p := range f.Params {
		s := p.String()
		if i < len(f.Defaults) && f.Defaults[i] != nil {
			s += " = " + f.Defaults[i].String()
		}
		params = append(params, s)
	}
	if f.Rest != nil {
		params = append(params, "..."+f.Rest.Name)
	}
	out.WriteString("(" + strings.Join(params, ", ") + ") ")
	out.WriteString(f.Body.String())
	return out.String()
}

// BoundNames collects the identifiers a binding target introduces.
func BoundNames(target *Expr) []*Identifier {
	if target == nil {
		return nil
	}
	switch t := target.Data.(type) {
	case *Identifier:
		return []*Identifier{t}
	case *ArrayPattern:
		var names []*Identifier
		for _, el := range t.Elements {
			names = append(names, BoundNames(el)...)
		}
		return names
	case *ObjectPattern:
		var names []*Identifier
		for _, prop := range t.Properties {
			names = append(names, BoundNames(prop.Value)...)
		}
		return names
	case *AssignmentExpression:
		// Pattern element with a default value.
		return BoundNames(t.Left)
	}
	return nil
}

// --- Expression Nodes ---

// FunctionExpression is a function used as a value.
type FunctionExpression struct {
	Span
	Function
}

func NewFunctionExpression(span Span, fn Function) *FunctionExpression {
	return &FunctionExpression{Span: span, Function: fn}
}

func (e *FunctionExpression) expressionNode() {}
func (e *FunctionExpression) Type() NodeType  { return FunctionExpressionNode }
func (e *FunctionExpression) String() string  { return e.Function.render() }
func (e *FunctionExpression) Func() *Function { return &e.Function }

// ThisExpression is the this keyword.
type ThisExpression struct {
	Span
}

func NewThisExpression(span Span) *ThisExpression { return &ThisExpression{Span: span} }

func (e *ThisExpression) expressionNode() {}
func (e *ThisExpression) Type() NodeType  { return ThisExpressionNode }
func (e *ThisExpression) String() string  { return "this" }

// ArrayExpression is an array literal. nil elements are holes.
type ArrayExpression struct {
	Span
	Elements []*Expr
}

func NewArrayExpression(span Span, elements []*Expr) *ArrayExpression {
	return &ArrayExpression{Span: span, Elements: elements}
}

func (e *ArrayExpression) expressionNode() {}
func (e *ArrayExpression) Type() NodeType  { return ArrayExpressionNode }
func (e *ArrayExpression) String() string  { return "[" + joinExprs(e.Elements, ", ") + "]" }

// ObjectExpression is an object literal.
type ObjectExpression struct {
	Span
	Properties []*Property
}

func NewObjectExpression(span Span, properties []*Property) *ObjectExpression {
	return &ObjectExpression{Span: span, Properties: properties}
}

func (e *ObjectExpression) expressionNode() {}
func (e *ObjectExpression) Type() NodeType  { return ObjectExpressionNode }
func (e *ObjectExpression) String() string  { return "{" + joinProperties(e.Properties) + "}" }

// Property is one entry of an object literal or object pattern. Kind is "init",
// "get" or "set".
type Property struct {
	Span
	Key       *Expr
	Value     *Expr
	Kind      string
	Computed  bool
	Shorthand bool
}

func NewProperty(span Span, kind string, key, value *Expr) *Property {
	return &Property{Span: span, Kind: kind, Key: key, Value: value}
}

func (p *Property) Type() NodeType { return PropertyNode }
func (p *Property) String() string {
	key := p.Key.String()
	if p.Computed {
		key = "[" + key + "]"
	}
	switch p.Kind {
	case "get", "set":
		if fn, ok := p.Value.Data.(*FunctionExpression); ok {
			return p.Kind + " " + key + strings.TrimPrefix(fn.render(), "function")
		}
	}
	if p.Shorthand {
		return key
	}
	return key + ": " + p.Value.String()
}

func joinProperties(props []*Property) string {
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// SequenceExpression is a comma-separated list evaluated left to right.
type SequenceExpression struct {
	Span
	Expressions []*Expr
}

func NewSequenceExpression(span Span, expressions []*Expr) *SequenceExpression {
	return &SequenceExpression{Span: span, Expressions: expressions}
}

func (e *SequenceExpression) expressionNode() {}
func (e *SequenceExpression) Type() NodeType  { return SequenceExpressionNode }
func (e *SequenceExpression) String() string  { return "(" + joinExprs(e.Expressions, ", ") + ")" }

// UnaryExpression is a prefix operator applied to Argument.
type UnaryExpression struct {
	Span
	Operator string
	Prefix   bool
	Argument *Expr
}

func NewUnaryExpression(span Span, operator string, argument *Expr) *UnaryExpression {
	return &UnaryExpression{Span: span, Operator: operator, Prefix: true, Argument: argument}
}

func (e *UnaryExpression) expressionNode() {}
func (e *UnaryExpression) Type() NodeType  { return UnaryExpressionNode }
func (e *UnaryExpression) String() string {
	op := e.Operator
	if isWordOperator(op) {
		op += " "
	}
	return "(" + op + e.Argument.String() + ")"
}

func isWordOperator(op string) bool {
	switch op {
	case "typeof", "void", "delete", "in", "instanceof":
		return true
	}
	return false
}

// BinaryExpression is an arithmetic, bitwise, relational or equality operation.
type BinaryExpression struct {
	Span
	Operator string
	Left     *Expr
	Right    *Expr
}

func NewBinaryExpression(span Span, operator string, left, right *Expr) *BinaryExpression {
	return &BinaryExpression{Span: span, Operator: operator, Left: left, Right: right}
}

func (e *BinaryExpression) expressionNode() {}
func (e *BinaryExpression) Type() NodeType  { return BinaryExpressionNode }
func (e *BinaryExpression) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}

// LogicalExpression is && or ||.
type LogicalExpression struct {
	Span
	Operator string
	Left     *Expr
	Right    *Expr
}

func NewLogicalExpression(span Span, operator string, left, right *Expr) *LogicalExpression {
	return &LogicalExpression{Span: span, Operator: operator, Left: left, Right: right}
}

func (e *LogicalExpression) expressionNode() {}
func (e *LogicalExpression) Type() NodeType  { return LogicalExpressionNode }
func (e *LogicalExpression) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}

// AssignmentExpression is '=' or a compound assignment.
type AssignmentExpression struct {
	Span
	Operator string
	Left     *Expr
	Right    *Expr
}

func NewAssignmentExpression(span Span, operator string, left, right *Expr) *AssignmentExpression {
	return &AssignmentExpression{Span: span, Operator: operator, Left: left, Right: right}
}

func (e *AssignmentExpression) expressionNode() {}
func (e *AssignmentExpression) Type() NodeType  { return AssignmentExpressionNode }
func (e *AssignmentExpression) String() string {
	return e.Left.String() + " " + e.Operator + " " + e.Right.String()
}

// UpdateExpression is ++ or -- in prefix or postfix position.
type UpdateExpression struct {
	Span
	Operator string
	Prefix   bool
	Argument *Expr
}

func NewUpdateExpression(span Span, operator string, prefix bool, argument *Expr) *UpdateExpression {
	return &UpdateExpression{Span: span, Operator: operator, Prefix: prefix, Argument: argument}
}

func (e *UpdateExpression) expressionNode() {}
func (e *UpdateExpression) Type() NodeType  { return UpdateExpressionNode }
func (e *UpdateExpression) String() string {
	if e.Prefix {
		return "(" + e.Operator + e.Argument.String() + ")"
	}
	return "(" + e.Argument.String() + e.Operator + ")"
}

// ConditionalExpression is Test ? Consequent : Alternate.
type ConditionalExpression struct {
	Span
	Test       *Expr
	Consequent *Expr
	Alternate  *Expr
}

func NewConditionalExpression(span Span, test, consequent, alternate *Expr) *ConditionalExpression {
	return &ConditionalExpression{Span: span, Test: test, Consequent: consequent, Alternate: alternate}
}

func (e *ConditionalExpression) expressionNode() {}
func (e *ConditionalExpression) Type() NodeType  { return ConditionalExpressionNode }
func (e *ConditionalExpression) String() string {
	return "(" + e.Test.String() + " ? " + e.Consequent.String() + " : " + e.Alternate.String() + ")"
}

// NewExpression is new Callee(Arguments).
type NewExpression struct {
	Span
	Callee    *Expr
	Arguments []*Expr
}

func NewNewExpression(span Span, callee *Expr, arguments []*Expr) *NewExpression {
	return &NewExpression{Span: span, Callee: callee, Arguments: arguments}
}

func (e *NewExpression) expressionNode() {}
func (e *NewExpression) Type() NodeType  { return NewExpressionNode }
func (e *NewExpression) String() string {
	return "new " + e.Callee.String() + "(" + joinExprs(e.Arguments, ", ") + ")"
}

// CallExpression is Callee(Arguments).
type CallExpression struct {
	Span
	Callee    *Expr
	Arguments []*Expr
}

func NewCallExpression(span Span, callee *Expr, arguments []*Expr) *CallExpression {
	return &CallExpression{Span: span, Callee: callee, Arguments: arguments}
}

func (e *CallExpression) expressionNode() {}
func (e *CallExpression) Type() NodeType  { return CallExpressionNode }
func (e *CallExpression) String() string {
	return e.Callee.String() + "(" + joinExprs(e.Arguments, ", ") + ")"
}

// MemberExpression is Object.Property or Object[Property] when Computed.
type MemberExpression struct {
	Span
	Object   *Expr
	Property *Expr
	Computed bool
}

func NewMemberExpression(span Span, object, property *Expr, computed bool) *MemberExpression {
	return &MemberExpression{Span: span, Object: object, Property: property, Computed: computed}
}

func (e *MemberExpression) expressionNode() {}
func (e *MemberExpression) Type() NodeType  { return MemberExpressionNode }
func (e *MemberExpression) String() string {
	if e.Computed {
		return e.Object.String() + "[" + e.Property.String() + "]"
	}
	return e.Object.String() + "." + e.Property.String()
}

// --- Patterns ---

// ObjectPattern is an object destructuring target.
type ObjectPattern struct {
	Span
	Properties []*Property
}

func NewObjectPattern(span Span, properties []*Property) *ObjectPattern {
	return &ObjectPattern{Span: span, Properties: properties}
}

func (p *ObjectPattern) expressionNode() {}
func (p *ObjectPattern) Type() NodeType  { return ObjectPatternNode }
func (p *ObjectPattern) String() string  { return "{" + joinProperties(p.Properties) + "}" }

// ArrayPattern is an array destructuring target. nil elements are elisions.
type ArrayPattern struct {
	Span
	Elements []*Expr
}

func NewArrayPattern(span Span, elements []*Expr) *ArrayPattern {
	return &ArrayPattern{Span: span, Elements: elements}
}

func (p *ArrayPattern) expressionNode() {}
func (p *ArrayPattern) Type() NodeType  { return ArrayPatternNode }
func (p *ArrayPattern) String() string  { return "[" + joinExprs(p.Elements, ", ") + "]" }
