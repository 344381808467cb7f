package parser

import (
	"bytes"
	"fmt"
	"strings"
)

// Expression levels used to decide where the emitter needs parentheses. Binary
// operators occupy one level per entry of the precedence table.
const (
	levelSequence = iota
	levelAssign
	levelConditional
	levelBinary

	levelUnary   = levelBinary + PRODUCT - LOGICAL_OR + 1
	levelPostfix = levelUnary + 1
	levelCall    = levelUnary + 2
	levelPrimary = levelUnary + 3
)

// binaryOperators maps an operator's source text to its precedence.
var binaryOperators = map[string]int{
	"**": PRODUCT,
	"??": LOGICAL_OR,
}

func init() {
	for tt, prec := range precedences {
		binaryOperators[strings.ToLower(string(tt))] = prec
	}
}

func binaryLevel(op string) int {
	prec, ok := binaryOperators[op]
	if !ok {
		prec = LOGICAL_OR
	}
	return levelBinary + prec - LOGICAL_OR
}

// JSEmitter is responsible for transforming AST nodes back into JavaScript code
type JSEmitter struct {
	indentLevel int
	buffer      bytes.Buffer
	noIn        bool // inside a for-init, where a bare 'in' must be parenthesized
}

// NewJSEmitter creates a new JavaScript emitter
func NewJSEmitter() *JSEmitter {
	return &JSEmitter{
		indentLevel: 0,
	}
}

// Emit converts a program AST to JavaScript code, one statement per line.
func (e *JSEmitter) Emit(program *Program) string {
	e.buffer.Reset()
	e.indentLevel = 0

	for _, stmt := range program.Body {
		e.emitStatement(stmt)
	}

	return e.buffer.String()
}

// EmitExpression renders a single expression.
func (e *JSEmitter) EmitExpression(expr Expression) string {
	e.buffer.Reset()
	e.emitExpression(expr, levelSequence)
	return e.buffer.String()
}

// Helper methods

func (e *JSEmitter) indent() {
	e.indentLevel++
}

func (e *JSEmitter) dedent() {
	if e.indentLevel > 0 {
		e.indentLevel--
	}
}

func (e *JSEmitter) writeIndent() {
	for i := 0; i < e.indentLevel; i++ {
		e.buffer.WriteString("  ")
	}
}

func (e *JSEmitter) write(format string, args ...interface{}) {
	fmt.Fprintf(&e.buffer, format, args...)
}

// sub renders through a scratch emitter sharing the current indentation.
func (e *JSEmitter) sub(fn func(*JSEmitter)) string {
	s := &JSEmitter{indentLevel: e.indentLevel, noIn: e.noIn}
	fn(s)
	return s.buffer.String()
}

// --- Statements ---

func (e *JSEmitter) emitStatement(stmt Statement) {
	e.writeIndent()
	e.emitStatementInline(stmt)
	e.buffer.WriteString("\n")
}

// emitStatementInline writes stmt at the current position with no leading
// indentation and no trailing newline.
func (e *JSEmitter) emitStatementInline(stmt Statement) {
	switch s := stmt.(type) {
	case *EmptyStatement:
		e.write(";")
	case *BlockStatement:
		e.emitBlock(s)
	case *ExpressionStatement:
		e.emitExpressionStatement(s)
	case *VariableDeclaration:
		e.emitVariableDeclaration(s)
		e.write(";")
	case *FunctionDeclaration:
		e.emitFunction("function", &s.Function)
	case *IfStatement:
		e.emitIfStatement(s)
	case *LabeledStatement:
		e.write("%s: ", s.Label.Name)
		e.emitStatementInline(s.Body)
	case *BreakStatement:
		e.emitJump("break", s.Label)
	case *ContinueStatement:
		e.emitJump("continue", s.Label)
	case *WithStatement:
		e.write("with (")
		e.emitExpr(s.Object, levelSequence)
		e.write(")")
		e.emitBody(s.Body)
	case *SwitchStatement:
		e.emitSwitchStatement(s)
	case *ReturnStatement:
		e.write("return")
		if s.Argument != nil {
			e.write(" ")
			e.emitExpr(s.Argument, levelSequence)
		}
		e.write(";")
	case *ThrowStatement:
		e.write("throw ")
		e.emitExpr(s.Argument, levelSequence)
		e.write(";")
	case *TryStatement:
		e.emitTryStatement(s)
	case *WhileStatement:
		e.write("while (")
		e.emitExpr(s.Test, levelSequence)
		e.write(")")
		e.emitBody(s.Body)
	case *DoWhileStatement:
		e.write("do")
		e.emitBody(s.Body)
		if _, ok := s.Body.(*BlockStatement); ok {
			e.write(" ")
		} else {
			e.write("\n")
			e.writeIndent()
		}
		e.write("while (")
		e.emitExpr(s.Test, levelSequence)
		e.write(");")
	case *ForStatement:
		e.emitForStatement(s)
	case *ForInStatement:
		e.write("for (")
		e.emitForInit(s.Left)
		e.write(" in ")
		e.emitExpr(s.Right, levelSequence)
		e.write(")")
		e.emitBody(s.Body)
	case *DebuggerStatement:
		e.write("debugger;")
	default:
		// Handle unknown statement types
		e.write("/* Unsupported statement type: %T */", s)
	}
}

func (e *JSEmitter) emitBlock(b *BlockStatement) {
	if len(b.Body) == 0 {
		e.write("{}")
		return
	}
	e.write("{\n")
	e.indent()
	for _, stmt := range b.Body {
		e.emitStatement(stmt)
	}
	e.dedent()
	e.writeIndent()
	e.write("}")
}

// emitBody writes the body of a compound statement: blocks stay on the header
// line, anything else goes on its own indented line.
func (e *JSEmitter) emitBody(body Statement) {
	if b, ok := body.(*BlockStatement); ok {
		e.write(" ")
		e.emitBlock(b)
		return
	}
	if _, ok := body.(*EmptyStatement); ok {
		e.write(";")
		return
	}
	e.write("\n")
	e.indent()
	e.writeIndent()
	e.emitStatementInline(body)
	e.dedent()
}

func (e *JSEmitter) emitExpressionStatement(s *ExpressionStatement) {
	text := e.sub(func(sub *JSEmitter) { sub.emitExpr(s.Expression, levelSequence) })
	// An expression statement cannot start with '{' or 'function'.
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "function") {
		text = "(" + text + ")"
	}
	e.buffer.WriteString(text)
	e.write(";")
}

func (e *JSEmitter) emitVariableDeclaration(d *VariableDeclaration) {
	e.write("%s ", d.Kind)
	for i, decl := range d.Declarations {
		if i > 0 {
			e.write(", ")
		}
		e.emitExpr(decl.ID, levelAssign)
		if decl.Init != nil {
			e.write(" = ")
			e.emitExpr(decl.Init, levelAssign)
		}
	}
}

func (e *JSEmitter) emitIfStatement(s *IfStatement) {
	e.write("if (")
	e.emitExpr(s.Test, levelSequence)
	e.write(")")
	consequent := s.Consequent
	// Keep a trailing else from binding to a nested if.
	if inner, ok := consequent.(*IfStatement); ok && s.Alternate != nil && inner.Alternate == nil {
		consequent = NewBlockStatement(inner.Span, []Statement{inner})
	}
	e.emitBody(consequent)
	if s.Alternate == nil {
		return
	}
	if _, ok := consequent.(*BlockStatement); ok {
		e.write(" ")
	} else {
		e.write("\n")
		e.writeIndent()
	}
	e.write("else")
	if _, ok := s.Alternate.(*IfStatement); ok {
		e.write(" ")
		e.emitStatementInline(s.Alternate)
		return
	}
	e.emitBody(s.Alternate)
}

func (e *JSEmitter) emitJump(keyword string, label *Identifier) {
	e.write("%s", keyword)
	if label != nil {
		e.write(" %s", label.Name)
	}
	e.write(";")
}

func (e *JSEmitter) emitSwitchStatement(s *SwitchStatement) {
	e.write("switch (")
	e.emitExpr(s.Discriminant, levelSequence)
	e.write(") {\n")
	e.indent()
	for _, c := range s.Cases {
		e.writeIndent()
		if c.Test == nil {
			e.write("default:\n")
		} else {
			e.write("case ")
			e.emitExpr(c.Test, levelSequence)
			e.write(":\n")
		}
		e.indent()
		for _, stmt := range c.Consequent {
			e.emitStatement(stmt)
		}
		e.dedent()
	}
	e.dedent()
	e.writeIndent()
	e.write("}")
}

func (e *JSEmitter) emitTryStatement(s *TryStatement) {
	e.write("try ")
	e.emitBlock(s.Block)
	if s.Handler != nil {
		e.write(" catch")
		if s.Handler.Param != nil {
			e.write(" (")
			e.emitExpr(s.Handler.Param, levelAssign)
			e.write(")")
		}
		e.write(" ")
		e.emitBlock(s.Handler.Body)
	}
	if s.Finalizer != nil {
		e.write(" finally ")
		e.emitBlock(s.Finalizer)
	}
}

func (e *JSEmitter) emitForStatement(s *ForStatement) {
	e.write("for (")
	e.emitForInit(s.Init)
	e.write(";")
	if s.Test != nil {
		e.write(" ")
		e.emitExpr(s.Test, levelSequence)
	}
	e.write(";")
	if s.Update != nil {
		e.write(" ")
		e.emitExpr(s.Update, levelSequence)
	}
	e.write(")")
	e.emitBody(s.Body)
}

func (e *JSEmitter) emitForInit(init ForInit) {
	saved := e.noIn
	e.noIn = true
	switch v := init.(type) {
	case *VariableDeclaration:
		e.emitVariableDeclaration(v)
	case *Expr:
		e.emitExpr(v, levelSequence)
	}
	e.noIn = saved
}

// --- Expressions ---

func (e *JSEmitter) emitExpr(slot *Expr, level int) {
	if slot == nil || slot.Data == nil {
		return
	}
	e.emitExpression(slot.Data, level)
}

// exprLevel returns the binding strength of expr's outermost operator.
func exprLevel(expr Expression) int {
	switch x := expr.(type) {
	case *SequenceExpression:
		return levelSequence
	case *AssignmentExpression:
		return levelAssign
	case *ConditionalExpression:
		return levelConditional
	case *BinaryExpression:
		return binaryLevel(x.Operator)
	case *LogicalExpression:
		return binaryLevel(x.Operator)
	case *UnaryExpression:
		return levelUnary
	case *UpdateExpression:
		if x.Prefix {
			return levelUnary
		}
		return levelPostfix
	case *NewExpression, *CallExpression, *MemberExpression:
		return levelCall
	}
	return levelPrimary
}

func (e *JSEmitter) emitExpression(expr Expression, level int) {
	wrap := exprLevel(expr) < level
	if e.noIn && !wrap {
		if b, ok := expr.(*BinaryExpression); ok && b.Operator == "in" {
			wrap = true
		}
	}
	if wrap {
		saved := e.noIn
		e.noIn = false
		e.write("(")
		e.emitExpressionBare(expr)
		e.write(")")
		e.noIn = saved
		return
	}
	e.emitExpressionBare(expr)
}

func (e *JSEmitter) emitExpressionBare(expr Expression) {
	switch x := expr.(type) {
	case *Identifier:
		e.write("%s", x.Name)
	case *Literal:
		e.write("%s", x.Raw)
	case *ThisExpression:
		e.write("this")
	case *ArrayExpression:
		e.emitElements(x.Elements)
	case *ArrayPattern:
		e.emitElements(x.Elements)
	case *ObjectExpression:
		e.emitProperties(x.Properties)
	case *ObjectPattern:
		e.emitProperties(x.Properties)
	case *FunctionExpression:
		e.emitFunction("function", &x.Function)
	case *SequenceExpression:
		for i, item := range x.Expressions {
			if i > 0 {
				e.write(", ")
			}
			e.emitExpr(item, levelAssign)
		}
	case *UnaryExpression:
		e.emitUnaryExpression(x)
	case *UpdateExpression:
		if x.Prefix {
			e.write("%s", x.Operator)
			e.emitExpr(x.Argument, levelUnary)
		} else {
			e.emitExpr(x.Argument, levelCall)
			e.write("%s", x.Operator)
		}
	case *BinaryExpression:
		e.emitInfix(x.Operator, x.Left, x.Right)
	case *LogicalExpression:
		e.emitInfix(x.Operator, x.Left, x.Right)
	case *AssignmentExpression:
		e.emitExpr(x.Left, levelCall)
		e.write(" %s ", x.Operator)
		e.emitExpr(x.Right, levelAssign)
	case *ConditionalExpression:
		e.emitExpr(x.Test, levelBinary)
		e.write(" ? ")
		e.emitExpr(x.Consequent, levelAssign)
		e.write(" : ")
		e.emitExpr(x.Alternate, levelAssign)
	case *NewExpression:
		e.write("new ")
		if hasCall(x.Callee) {
			e.write("(")
			e.emitExpr(x.Callee, levelSequence)
			e.write(")")
		} else {
			e.emitExpr(x.Callee, levelCall)
		}
		e.emitArguments(x.Arguments)
	case *CallExpression:
		e.emitExpr(x.Callee, levelCall)
		e.emitArguments(x.Arguments)
	case *MemberExpression:
		e.emitMemberExpression(x)
	default:
		e.write("/* Unsupported expression type: %T */", x)
	}
}

func (e *JSEmitter) emitUnaryExpression(x *UnaryExpression) {
	e.write("%s", x.Operator)
	text := e.sub(func(sub *JSEmitter) { sub.emitExpr(x.Argument, levelUnary) })
	// Word operators need a space, and '- -x' must not fuse into '--x'.
	if len(x.Operator) > 1 || (text != "" && (x.Operator == "+" || x.Operator == "-") && text[0] == x.Operator[0]) {
		e.write(" ")
	}
	e.buffer.WriteString(text)
}

func (e *JSEmitter) emitInfix(op string, left, right *Expr) {
	level := binaryLevel(op)
	e.emitExpr(left, level)
	e.write(" %s ", op)
	e.emitExpr(right, level+1)
}

func (e *JSEmitter) emitMemberExpression(x *MemberExpression) {
	// 1.toString would lex as a malformed number.
	if lit, ok := x.Object.Data.(*Literal); ok && lit.Kind == NumberLiteral && !x.Computed {
		e.write("(%s)", lit.Raw)
	} else {
		e.emitExpr(x.Object, levelCall)
	}
	if x.Computed {
		e.write("[")
		e.emitExpr(x.Property, levelSequence)
		e.write("]")
		return
	}
	e.write(".")
	e.emitExpr(x.Property, levelPrimary)
}

func (e *JSEmitter) emitArguments(args []*Expr) {
	saved := e.noIn
	e.noIn = false
	e.write("(")
	for i, arg := range args {
		if i > 0 {
			e.write(", ")
		}
		e.emitExpr(arg, levelAssign)
	}
	e.write(")")
	e.noIn = saved
}

func (e *JSEmitter) emitElements(elements []*Expr) {
	e.write("[")
	for i, el := range elements {
		if i > 0 {
			e.write(", ")
		}
		e.emitExpr(el, levelAssign)
	}
	// A trailing hole needs its own comma.
	if n := len(elements); n > 0 && elements[n-1] == nil {
		e.write(",")
	}
	e.write("]")
}

func (e *JSEmitter) emitProperties(props []*Property) {
	if len(props) == 0 {
		e.write("{}")
		return
	}
	e.write("{")
	for i, prop := range props {
		if i > 0 {
			e.write(",")
		}
		e.write(" ")
		e.emitProperty(prop)
	}
	e.write(" }")
}

func (e *JSEmitter) emitProperty(prop *Property) {
	key := e.sub(func(sub *JSEmitter) { sub.emitExpr(prop.Key, levelAssign) })
	if prop.Computed {
		key = "[" + key + "]"
	}
	switch prop.Kind {
	case "get", "set":
		if fn, ok := prop.Value.Data.(*FunctionExpression); ok {
			e.write("%s %s", prop.Kind, key)
			e.emitFunctionTail(&fn.Function)
			return
		}
	}
	if prop.Shorthand {
		e.buffer.WriteString(key)
		return
	}
	e.buffer.WriteString(key)
	e.write(": ")
	e.emitExpr(prop.Value, levelAssign)
}

func (e *JSEmitter) emitFunction(keyword string, fn *Function) {
	e.write("%s", keyword)
	if fn.Generator {
		e.write("*")
	}
	if fn.ID != nil {
		e.write(" %s", fn.ID.Name)
	}
	e.emitFunctionTail(fn)
}

// emitFunctionTail writes the parameter list and body.
func (e *JSEmitter) emitFunctionTail(fn *Function) {
	saved := e.noIn
	e.noIn = false
	e.write("(")
	for i, param := range fn.Params {
		if i > 0 {
			e.write(", ")
		}
		e.emitExpr(param, levelAssign)
		if i < len(fn.Defaults) && fn.Defaults[i] != nil {
			e.write(" = ")
			e.emitExpr(fn.Defaults[i], levelAssign)
		}
	}
	if fn.Rest != nil {
		if len(fn.Params) > 0 {
			e.write(", ")
		}
		e.write("...%s", fn.Rest.Name)
	}
	e.write(") ")
	if fn.Body != nil {
		e.emitBlock(fn.Body)
	} else {
		e.write("{}")
	}
	e.noIn = saved
}

// hasCall reports whether a call sits on the member chain of expr, which would
// make 'new' bind to the wrong callee without parentheses.
func hasCall(slot *Expr) bool {
	for slot != nil {
		switch x := slot.Data.(type) {
		case *CallExpression:
			return true
		case *MemberExpression:
			slot = x.Object
		default:
			return false
		}
	}
	return false
}
