package parser

import (
	"bytes"
	"strings"
)

// --- Statement Nodes ---

// EmptyStatement is a lone ';'.
type EmptyStatement struct {
	Span
}

func NewEmptyStatement(span Span) *EmptyStatement { return &EmptyStatement{Span: span} }

func (s *EmptyStatement) statementNode() {}
func (s *EmptyStatement) Type() NodeType { return EmptyStatementNode }
func (s *EmptyStatement) String() string { return ";" }

// BlockStatement is a braced statement list.
type BlockStatement struct {
	Span
	Body []Statement
}

func NewBlockStatement(span Span, body []Statement) *BlockStatement {
	return &BlockStatement{Span: span, Body: body}
}

func (s *BlockStatement) statementNode() {}
func (s *BlockStatement) Type() NodeType { return BlockStatementNode }
func (s *BlockStatement) String() string {
	if len(s.Body) == 0 {
		return "{}"
	}
	return "{ " + joinStatements(s.Body, " ") + " }"
}

// ExpressionStatement wraps an expression evaluated for its effect.
type ExpressionStatement struct {
	Span
	Expression *Expr
}

func NewExpressionStatement(span Span, expr *Expr) *ExpressionStatement {
	return &ExpressionStatement{Span: span, Expression: expr}
}

func (s *ExpressionStatement) statementNode() {}
func (s *ExpressionStatement) Type() NodeType { return ExpressionStatementNode }
func (s *ExpressionStatement) String() string { return s.Expression.String() + ";" }

// IsDirective reports whether the statement is a bare literal, the shape of a
// directive prologue entry such as "use strict".
func (s *ExpressionStatement) IsDirective() bool {
	return s.Expression != nil && s.Expression.Type() == LiteralNode
}

// IfStatement represents if (Test) Consequent else Alternate.
type IfStatement struct {
	Span
	Test       *Expr
	Consequent Statement
	Alternate  Statement // nil when there is no else branch
}

func NewIfStatement(span Span, test *Expr, consequent, alternate Statement) *IfStatement {
	return &IfStatement{Span: span, Test: test, Consequent: consequent, Alternate: alternate}
}

func (s *IfStatement) statementNode() {}
func (s *IfStatement) Type() NodeType { return IfStatementNode }
func (s *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (" + s.Test.String() + ") " + s.Consequent.String())
	if s.Alternate != nil {
		out.WriteString(" else " + s.Alternate.String())
	}
	return out.String()
}

// LabeledStatement represents Label: Body.
type LabeledStatement struct {
	Span
	Label *Identifier
	Body  Statement
}

func NewLabeledStatement(span Span, label *Identifier, body Statement) *LabeledStatement {
	return &LabeledStatement{Span: span, Label: label, Body: body}
}

func (s *LabeledStatement) statementNode() {}
func (s *LabeledStatement) Type() NodeType { return LabeledStatementNode }
func (s *LabeledStatement) String() string { return s.Label.Name + ": " + s.Body.String() }

// BreakStatement represents break with an optional label name.
type BreakStatement struct {
	Span
	Label *Identifier
}

func NewBreakStatement(span Span, label *Identifier) *BreakStatement {
	return &BreakStatement{Span: span, Label: label}
}

func (s *BreakStatement) statementNode() {}
func (s *BreakStatement) Type() NodeType { return BreakStatementNode }
func (s *BreakStatement) String() string { return jumpString("break", s.Label) }

// ContinueStatement represents continue with an optional label name.
type ContinueStatement struct {
	Span
	Label *Identifier
}

func NewContinueStatement(span Span, label *Identifier) *ContinueStatement {
	return &ContinueStatement{Span: span, Label: label}
}

func (s *ContinueStatement) statementNode() {}
func (s *ContinueStatement) Type() NodeType { return ContinueStatementNode }
func (s *ContinueStatement) String() string { return jumpString("continue", s.Label) }

func jumpString(keyword string, label *Identifier) string {
	if label == nil {
		return keyword + ";"
	}
	return keyword + " " + label.Name + ";"
}

// WithStatement represents with (Object) Body.
type WithStatement struct {
	Span
	Object *Expr
	Body   Statement
}

func NewWithStatement(span Span, object *Expr, body Statement) *WithStatement {
	return &WithStatement{Span: span, Object: object, Body: body}
}

func (s *WithStatement) statementNode() {}
func (s *WithStatement) Type() NodeType { return WithStatementNode }
func (s *WithStatement) String() string {
	return "with (" + s.Object.String() + ") " + s.Body.String()
}

// SwitchStatement represents switch (Discriminant) { Cases }.
type SwitchStatement struct {
	Span
	Discriminant *Expr
	Cases        []*SwitchCase
}

func NewSwitchStatement(span Span, discriminant *Expr, cases []*SwitchCase) *SwitchStatement {
	return &SwitchStatement{Span: span, Discriminant: discriminant, Cases: cases}
}

func (s *SwitchStatement) statementNode() {}
func (s *SwitchStatement) Type() NodeType { return SwitchStatementNode }
func (s *SwitchStatement) String() string {
	var out bytes.Buffer
	out.WriteString("switch (" + s.Discriminant.String() + ") {")
	for _, c := range s.Cases {
		out.WriteString(" " + c.String())
	}
	out.WriteString(" }")
	return out.String()
}

// SwitchCase is one case (or default, when Test is nil) clause.
type SwitchCase struct {
	Span
	Test       *Expr
	Consequent []Statement
}

func NewSwitchCase(span Span, test *Expr, consequent []Statement) *SwitchCase {
	return &SwitchCase{Span: span, Test: test, Consequent: consequent}
}

func (c *SwitchCase) Type() NodeType { return SwitchCaseNode }
func (c *SwitchCase) String() string {
	head := "default:"
	if c.Test != nil {
		head = "case " + c.Test.String() + ":"
	}
	if len(c.Consequent) == 0 {
		return head
	}
	return head + " " + joinStatements(c.Consequent, " ")
}

// ReturnStatement represents return with an optional argument.
type ReturnStatement struct {
	Span
	Argument *Expr
}

func NewReturnStatement(span Span, argument *Expr) *ReturnStatement {
	return &ReturnStatement{Span: span, Argument: argument}
}

func (s *ReturnStatement) statementNode() {}
func (s *ReturnStatement) Type() NodeType { return ReturnStatementNode }
func (s *ReturnStatement) String() string {
	if s.Argument == nil {
		return "return;"
	}
	return "return " + s.Argument.String() + ";"
}

// ThrowStatement represents throw Argument.
type ThrowStatement struct {
	Span
	Argument *Expr
}

func NewThrowStatement(span Span, argument *Expr) *ThrowStatement {
	return &ThrowStatement{Span: span, Argument: argument}
}

func (s *ThrowStatement) statementNode() {}
func (s *ThrowStatement) Type() NodeType { return ThrowStatementNode }
func (s *ThrowStatement) String() string { return "throw " + s.Argument.String() + ";" }

// TryStatement represents try/catch/finally. At least one of Handler and
// Finalizer is set.
type TryStatement struct {
	Span
	Block     *BlockStatement
	Handler   *CatchClause
	Finalizer *BlockStatement
}

func NewTryStatement(span Span, block *BlockStatement, handler *CatchClause, finalizer *BlockStatement) *TryStatement {
	return &TryStatement{Span: span, Block: block, Handler: handler, Finalizer: finalizer}
}

func (s *TryStatement) statementNode() {}
func (s *TryStatement) Type() NodeType { return TryStatementNode }
func (s *TryStatement) String() string {
	var out bytes.Buffer
	out.WriteString("try " + s.Block.String())
	if s.Handler != nil {
		out.WriteString(" " + s.Handler.String())
	}
	if s.Finalizer != nil {
		out.WriteString(" finally " + s.Finalizer.String())
	}
	return out.String()
}

// CatchClause binds Param inside Body.
type CatchClause struct {
	Span
	Param *Expr
	Body  *BlockStatement
}

func NewCatchClause(span Span, param *Expr, body *BlockStatement) *CatchClause {
	return &CatchClause{Span: span, Param: param, Body: body}
}

func (c *CatchClause) Type() NodeType { return CatchClauseNode }
func (c *CatchClause) String() string {
	return "catch (" + c.Param.String() + ") " + c.Body.String()
}

// WhileStatement represents while (Test) Body.
type WhileStatement struct {
	Span
	Test *Expr
	Body Statement
}

func NewWhileStatement(span Span, test *Expr, body Statement) *WhileStatement {
	return &WhileStatement{Span: span, Test: test, Body: body}
}

func (s *WhileStatement) statementNode() {}
func (s *WhileStatement) Type() NodeType { return WhileStatementNode }
func (s *WhileStatement) String() string {
	return "while (" + s.Test.String() + ") " + s.Body.String()
}

// DoWhileStatement represents do Body while (Test).
type DoWhileStatement struct {
	Span
	Body Statement
	Test *Expr
}

func NewDoWhileStatement(span Span, body Statement, test *Expr) *DoWhileStatement {
	return &DoWhileStatement{Span: span, Body: body, Test: test}
}

func (s *DoWhileStatement) statementNode() {}
func (s *DoWhileStatement) Type() NodeType { return DoWhileStatementNode }
func (s *DoWhileStatement) String() string {
	return "do " + s.Body.String() + " while (" + s.Test.String() + ");"
}

// ForStatement represents for (Init; Test; Update) Body. Each head part may be nil.
type ForStatement struct {
	Span
	Init   ForInit
	Test   *Expr
	Update *Expr
	Body   Statement
}

func NewForStatement(span Span, init ForInit, test, update *Expr, body Statement) *ForStatement {
	return &ForStatement{Span: span, Init: init, Test: test, Update: update, Body: body}
}

func (s *ForStatement) statementNode() {}
func (s *ForStatement) Type() NodeType { return ForStatementNode }
func (s *ForStatement) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if s.Init != nil {
		out.WriteString(forInitString(s.Init))
	}
	out.WriteString("; ")
	out.WriteString(s.Test.String())
	out.WriteString("; ")
	out.WriteString(s.Update.String())
	out.WriteString(") " + s.Body.String())
	return out.String()
}

// ForInStatement represents for (Left in Right) Body.
type ForInStatement struct {
	Span
	Left  ForInit
	Right *Expr
	Body  Statement
}

func NewForInStatement(span Span, left ForInit, right *Expr, body Statement) *ForInStatement {
	return &ForInStatement{Span: span, Left: left, Right: right, Body: body}
}

func (s *ForInStatement) statementNode() {}
func (s *ForInStatement) Type() NodeType { return ForInStatementNode }
func (s *ForInStatement) String() string {
	return "for (" + forInitString(s.Left) + " in " + s.Right.String() + ") " + s.Body.String()
}

func forInitString(init ForInit) string {
	if decl, ok := init.(*VariableDeclaration); ok {
		return decl.head()
	}
	return init.String()
}

// DebuggerStatement is the debugger keyword.
type DebuggerStatement struct {
	Span
}

func NewDebuggerStatement(span Span) *DebuggerStatement { return &DebuggerStatement{Span: span} }

func (s *DebuggerStatement) statementNode() {}
func (s *DebuggerStatement) Type() NodeType { return DebuggerStatementNode }
func (s *DebuggerStatement) String() string { return "debugger;" }

// --- Declarations ---

// VariableDeclaration is a var statement (Kind is "var"; "let" and "const"
// arrive only from the goja front end).
type VariableDeclaration struct {
	Span
	Declarations []*VariableDeclarator
	Kind         string
}

func NewVariableDeclaration(span Span, kind string, declarations []*VariableDeclarator) *VariableDeclaration {
	return &VariableDeclaration{Span: span, Kind: kind, Declarations: declarations}
}

func (d *VariableDeclaration) statementNode() {}
func (d *VariableDeclaration) forInitNode()   {}
func (d *VariableDeclaration) Type() NodeType { return VariableDeclarationNode }
func (d *VariableDeclaration) String() string { return d.head() + ";" }

func (d *VariableDeclaration) head() string {
	parts := make([]string, len(d.Declarations))
	for i, decl := range d.Declarations {
		parts[i] = decl.String()
	}
	return d.Kind + " " + strings.Join(parts, ", ")
}

// VariableDeclarator binds ID (an identifier or pattern) to an optional Init.
type VariableDeclarator struct {
	Span
	ID   *Expr
	Init *Expr
}

func NewVariableDeclarator(span Span, id, init *Expr) *VariableDeclarator {
	return &VariableDeclarator{Span: span, ID: id, Init: init}
}

func (d *VariableDeclarator) Type() NodeType { return VariableDeclaratorNode }
func (d *VariableDeclarator) String() string {
	if d.Init == nil {
		return d.ID.String()
	}
	return d.ID.String() + " = " + d.Init.String()
}

// Name returns the bound name when ID is a plain identifier.
func (d *VariableDeclarator) Name() (string, bool) {
	if d.ID == nil {
		return "", false
	}
	id, ok := d.ID.Data.(*Identifier)
	if !ok {
		return "", false
	}
	return id.Name, true
}

// FunctionDeclaration is a named function statement.
type FunctionDeclaration struct {
	Span
	Function
}

func NewFunctionDeclaration(span Span, fn Function) *FunctionDeclaration {
	return &FunctionDeclaration{Span: span, Function: fn}
}

func (d *FunctionDeclaration) statementNode()  {}
func (d *FunctionDeclaration) Type() NodeType  { return FunctionDeclarationNode }
func (d *FunctionDeclaration) String() string  { return d.Function.render() }
func (d *FunctionDeclaration) Func() *Function { return &d.Function }
