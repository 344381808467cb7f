package parser

import (
	"bytes"
	"strconv"
	"strings"
)

// --- Interfaces ---

// NodeType is the ESTree type tag carried by every node.
type NodeType string

// Node is the base interface for all AST nodes.
type Node interface {
	Type() NodeType
	Loc() Span      // Source span of the node
	String() string // Compact JS-like rendering (for debugging)
}

// Statement represents a statement or declaration node in the AST.
type Statement interface {
	Node
	statementNode() // Dummy method for distinguishing statement types
}

// Expression represents an expression or pattern node in the AST.
type Expression interface {
	Node
	expressionNode() // Dummy method for distinguishing expression types
}

// ForInit is the left part of a for or for-in head: either a
// *VariableDeclaration or an expression slot.
type ForInit interface {
	Node
	forInitNode()
}

// Pos is a point in the source. Line and Column are 1-based.
type Pos struct {
	Line   int
	Column int
	Offset int // 0-based byte offset
}

// Span is the source range of a node, embedded by every node type.
type Span struct {
	Start Pos
	End   Pos
}

// Loc returns the span itself; embedding Span gives every node its Loc method.
func (s Span) Loc() Span { return s }

// SpanOf joins the two spans into one running from a's start to b's end.
func SpanOf(a, b Span) Span {
	return Span{Start: a.Start, End: b.End}
}

// --- Expression slots ---

// Expr is a replaceable slot holding one expression. Parents reference their
// expression children through *Expr, so assigning Data through any holder of the
// slot replaces the child for all of them.
type Expr struct {
	Data Expression
}

// Box wraps e in a fresh slot.
func Box(e Expression) *Expr {
	return &Expr{Data: e}
}

// Replace swaps the slot's payload for e.
func (e *Expr) Replace(x Expression) {
	e.Data = x
}

func (e *Expr) Type() NodeType {
	if e == nil || e.Data == nil {
		return ""
	}
	return e.Data.Type()
}

func (e *Expr) Loc() Span {
	if e == nil || e.Data == nil {
		return Span{}
	}
	return e.Data.Loc()
}

func (e *Expr) String() string {
	if e == nil || e.Data == nil {
		return ""
	}
	return e.Data.String()
}

func (e *Expr) forInitNode() {}

// --- Program Node ---

// Program is the root node of the AST.
type Program struct {
	Span
	Body []Statement
}

func NewProgram(span Span, body []Statement) *Program {
	return &Program{Span: span, Body: body}
}

func (p *Program) Type() NodeType { return ProgramNode }
func (p *Program) String() string {
	var out bytes.Buffer
	for i, s := range p.Body {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}
	return out.String()
}

// --- Leaf expressions ---

// Identifier is a name reference or binding.
type Identifier struct {
	Span
	Name string
}

func NewIdentifier(span Span, name string) *Identifier {
	return &Identifier{Span: span, Name: name}
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) Type() NodeType  { return IdentifierNode }
func (i *Identifier) String() string  { return i.Name }

// LiteralKind identifies which value field of a Literal is populated.
type LiteralKind int

const (
	InvalidLiteral LiteralKind = iota // No decoded value; passes must skip it
	StringLiteral
	NumberLiteral
	BooleanLiteral
	NullLiteral
	RegExpLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case StringLiteral:
		return "string"
	case NumberLiteral:
		return "number"
	case BooleanLiteral:
		return "boolean"
	case NullLiteral:
		return "null"
	case RegExpLiteral:
		return "regexp"
	}
	return "invalid"
}

// RegExpValue holds the parts of a regular expression literal.
type RegExpValue struct {
	Pattern string
	Flags   string
}

// Literal is any primitive literal. Raw is the source text; exactly one of the
// value fields is meaningful, selected by Kind.
type Literal struct {
	Span
	Kind  LiteralKind
	Raw   string
	Str   string
	Num   float64
	Bool  bool
	Regex *RegExpValue
}

func NewStringLiteral(span Span, raw, value string) *Literal {
	return &Literal{Span: span, Kind: StringLiteral, Raw: raw, Str: value}
}

func NewNumberLiteral(span Span, raw string, value float64) *Literal {
	return &Literal{Span: span, Kind: NumberLiteral, Raw: raw, Num: value}
}

func NewBooleanLiteral(span Span, value bool) *Literal {
	return &Literal{Span: span, Kind: BooleanLiteral, Raw: strconv.FormatBool(value), Bool: value}
}

func NewNullLiteral(span Span) *Literal {
	return &Literal{Span: span, Kind: NullLiteral, Raw: "null"}
}

func NewRegExpLiteral(span Span, raw, pattern, flags string) *Literal {
	return &Literal{Span: span, Kind: RegExpLiteral, Raw: raw, Regex: &RegExpValue{Pattern: pattern, Flags: flags}}
}

func (l *Literal) expressionNode() {}
func (l *Literal) Type() NodeType  { return LiteralNode }
func (l *Literal) String() string  { return l.Raw }

// Value returns the decoded value as a Go value (string, float64, bool, nil or
// *RegExpValue). ok is false when the literal carries no usable value.
func (l *Literal) Value() (v interface{}, ok bool) {
	switch l.Kind {
	case StringLiteral:
		return l.Str, true
	case NumberLiteral:
		return l.Num, true
	case BooleanLiteral:
		return l.Bool, true
	case NullLiteral:
		return nil, true
	case RegExpLiteral:
		if l.Regex == nil {
			return nil, false
		}
		return l.Regex, true
	}
	return nil, false
}

// --- Type tags and classification ---

const (
	ProgramNode NodeType = "Program"

	EmptyStatementNode      NodeType = "EmptyStatement"
	BlockStatementNode      NodeType = "BlockStatement"
	ExpressionStatementNode NodeType = "ExpressionStatement"
	IfStatementNode         NodeType = "IfStatement"
	LabeledStatementNode    NodeType = "LabeledStatement"
	BreakStatementNode      NodeType = "BreakStatement"
	ContinueStatementNode   NodeType = "ContinueStatement"
	WithStatementNode       NodeType = "WithStatement"
	SwitchStatementNode     NodeType = "SwitchStatement"
	ReturnStatementNode     NodeType = "ReturnStatement"
	ThrowStatementNode      NodeType = "ThrowStatement"
	TryStatementNode        NodeType = "TryStatement"
	WhileStatementNode      NodeType = "WhileStatement"
	DoWhileStatementNode    NodeType = "DoWhileStatement"
	ForStatementNode        NodeType = "ForStatement"
	ForInStatementNode      NodeType = "ForInStatement"
	DebuggerStatementNode   NodeType = "DebuggerStatement"

	FunctionDeclarationNode NodeType = "FunctionDeclaration"
	VariableDeclarationNode NodeType = "VariableDeclaration"
	VariableDeclaratorNode  NodeType = "VariableDeclarator"

	ThisExpressionNode        NodeType = "ThisExpression"
	ArrayExpressionNode       NodeType = "ArrayExpression"
	ObjectExpressionNode      NodeType = "ObjectExpression"
	FunctionExpressionNode    NodeType = "FunctionExpression"
	SequenceExpressionNode    NodeType = "SequenceExpression"
	UnaryExpressionNode       NodeType = "UnaryExpression"
	BinaryExpressionNode      NodeType = "BinaryExpression"
	AssignmentExpressionNode  NodeType = "AssignmentExpression"
	UpdateExpressionNode      NodeType = "UpdateExpression"
	LogicalExpressionNode     NodeType = "LogicalExpression"
	ConditionalExpressionNode NodeType = "ConditionalExpression"
	NewExpressionNode         NodeType = "NewExpression"
	CallExpressionNode        NodeType = "CallExpression"
	MemberExpressionNode      NodeType = "MemberExpression"

	ObjectPatternNode NodeType = "ObjectPattern"
	ArrayPatternNode  NodeType = "ArrayPattern"

	SwitchCaseNode  NodeType = "SwitchCase"
	CatchClauseNode NodeType = "CatchClause"

	IdentifierNode NodeType = "Identifier"
	LiteralNode    NodeType = "Literal"
	PropertyNode   NodeType = "Property"
)

// IsStatement reports whether t tags a statement (declarations included).
func IsStatement(t NodeType) bool {
	return strings.HasSuffix(string(t), "Statement") || IsDeclaration(t)
}

// IsDeclaration reports whether t tags a declaration statement.
func IsDeclaration(t NodeType) bool {
	return t == FunctionDeclarationNode || t == VariableDeclarationNode
}

// IsExpression reports whether t tags an expression, identifiers and literals included.
func IsExpression(t NodeType) bool {
	return strings.HasSuffix(string(t), "Expression") || t == IdentifierNode || t == LiteralNode
}

// IsPattern reports whether t tags a destructuring pattern.
func IsPattern(t NodeType) bool {
	return t == ObjectPatternNode || t == ArrayPatternNode
}

// IsFunction reports whether t tags a node that owns a function scope.
func IsFunction(t NodeType) bool {
	return t == FunctionDeclarationNode || t == FunctionExpressionNode
}

// IsScopeOwner reports whether entering a node of type t opens a new scope.
func IsScopeOwner(t NodeType) bool {
	return t == ProgramNode || IsFunction(t)
}

func joinExprs(list []*Expr, sep string) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}

func joinStatements(list []Statement, sep string) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = s.String()
	}
	return strings.Join(parts, sep)
}
