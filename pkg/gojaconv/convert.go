// Package gojaconv turns a program parsed by goja into the optimizer's own AST,
// so goja can stand in for the in-house parser.
package gojaconv

import (
	"fmt"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	goparser "github.com/dop251/goja/parser"
	"github.com/dop251/goja/token"

	jserrors "jsopt/pkg/errors"
	"jsopt/pkg/parser"
	"jsopt/pkg/source"
)

// unsupported aborts a conversion from inside the recursive descent.
type unsupported struct {
	node ast.Node
	what string
}

type converter struct {
	file *file.File
	src  *source.SourceFile
}

// Parse runs goja's parser over sf and converts the result.
func Parse(sf *source.SourceFile) (*parser.Program, error) {
	program, err := goparser.ParseFile(nil, sf.DisplayPath(), sf.Content, 0)
	if err != nil {
		return nil, syntaxError(sf, err)
	}
	return Convert(program, sf)
}

// ParseString parses an inline snippet with goja.
func ParseString(input string) (*parser.Program, error) {
	return Parse(source.NewInlineSource(input))
}

// Convert maps a goja program onto the optimizer's AST. Constructs outside the
// supported subset (arrow functions, classes, templates, spread, async) yield a
// SyntaxError naming the construct.
func Convert(program *ast.Program, sf *source.SourceFile) (result *parser.Program, err error) {
	c := &converter{file: program.File, src: sf}
	defer func() {
		if r := recover(); r != nil {
			u, ok := r.(unsupported)
			if !ok {
				panic(r)
			}
			result, err = nil, c.unsupportedError(u)
		}
	}()

	body := c.statements(program.Body)
	return parser.NewProgram(c.span(program), body), nil
}

func syntaxError(sf *source.SourceFile, err error) error {
	if list, ok := err.(goparser.ErrorList); ok && len(list) > 0 {
		first := list[0]
		return (&jserrors.SyntaxError{
			Position: jserrors.Position{
				Line:   first.Position.Line,
				Column: first.Position.Column,
				Source: sf,
			},
			Msg: first.Message,
		}).CausedBy(err)
	}
	return (&jserrors.SyntaxError{
		Position: jserrors.Position{Source: sf},
		Msg:      err.Error(),
	}).CausedBy(err)
}

func (c *converter) unsupportedError(u unsupported) error {
	pos := jserrors.Position{Source: c.src}
	if u.node != nil {
		p := c.pos(u.node.Idx0())
		pos.Line, pos.Column, pos.StartPos = p.Line, p.Column, p.Offset
		pos.EndPos = c.pos(u.node.Idx1()).Offset
	}
	return &jserrors.SyntaxError{
		Position: pos,
		Msg:      fmt.Sprintf("%s is not supported", u.what),
		Actual:   u.what,
	}
}

func (c *converter) fail(n ast.Node, what string) {
	panic(unsupported{node: n, what: what})
}

// --- Positions ---

func (c *converter) pos(idx file.Idx) parser.Pos {
	if c.file == nil {
		return parser.Pos{}
	}
	offset := int(idx) - c.file.Base()
	p := c.file.Position(offset)
	return parser.Pos{Line: p.Line, Column: p.Column, Offset: offset}
}

func (c *converter) span(n ast.Node) parser.Span {
	return parser.Span{Start: c.pos(n.Idx0()), End: c.pos(n.Idx1())}
}

func (c *converter) spanIdx(from, to file.Idx) parser.Span {
	return parser.Span{Start: c.pos(from), End: c.pos(to)}
}

// --- Statements ---

func (c *converter) statements(list []ast.Statement) []parser.Statement {
	out := make([]parser.Statement, 0, len(list))
	for _, s := range list {
		if st := c.statement(s); st != nil {
			out = append(out, st)
		}
	}
	return out
}

func (c *converter) statement(s ast.Statement) parser.Statement {
	switch s := s.(type) {
	case nil:
		return nil
	case *ast.EmptyStatement:
		return parser.NewEmptyStatement(c.span(s))
	case *ast.BlockStatement:
		return c.block(s)
	case *ast.ExpressionStatement:
		return parser.NewExpressionStatement(c.span(s), c.expr(s.Expression))
	case *ast.IfStatement:
		return parser.NewIfStatement(c.span(s), c.expr(s.Test), c.statement(s.Consequent), c.statement(s.Alternate))
	case *ast.LabelledStatement:
		return parser.NewLabeledStatement(c.span(s), c.ident(s.Label), c.statement(s.Statement))
	case *ast.BranchStatement:
		var label *parser.Identifier
		if s.Label != nil {
			label = c.ident(s.Label)
		}
		if s.Token == token.CONTINUE {
			return parser.NewContinueStatement(c.span(s), label)
		}
		return parser.NewBreakStatement(c.span(s), label)
	case *ast.WithStatement:
		return parser.NewWithStatement(c.span(s), c.expr(s.Object), c.statement(s.Body))
	case *ast.SwitchStatement:
		cases := make([]*parser.SwitchCase, len(s.Body))
		for i, cs := range s.Body {
			cases[i] = parser.NewSwitchCase(c.span(cs), c.expr(cs.Test), c.statements(cs.Consequent))
		}
		return parser.NewSwitchStatement(c.span(s), c.expr(s.Discriminant), cases)
	case *ast.ReturnStatement:
		return parser.NewReturnStatement(c.span(s), c.expr(s.Argument))
	case *ast.ThrowStatement:
		return parser.NewThrowStatement(c.span(s), c.expr(s.Argument))
	case *ast.TryStatement:
		var handler *parser.CatchClause
		if s.Catch != nil {
			if s.Catch.Parameter == nil {
				c.fail(s.Catch, "catch without binding")
			}
			handler = parser.NewCatchClause(c.span(s.Catch), c.target(s.Catch.Parameter), c.block(s.Catch.Body))
		}
		var finalizer *parser.BlockStatement
		if s.Finally != nil {
			finalizer = c.block(s.Finally)
		}
		return parser.NewTryStatement(c.span(s), c.block(s.Body), handler, finalizer)
	case *ast.WhileStatement:
		return parser.NewWhileStatement(c.span(s), c.expr(s.Test), c.statement(s.Body))
	case *ast.DoWhileStatement:
		return parser.NewDoWhileStatement(c.span(s), c.statement(s.Body), c.expr(s.Test))
	case *ast.ForStatement:
		return parser.NewForStatement(c.span(s), c.forInitializer(s.Initializer), c.expr(s.Test), c.expr(s.Update), c.statement(s.Body))
	case *ast.ForInStatement:
		return parser.NewForInStatement(c.span(s), c.forInto(s.Into), c.expr(s.Source), c.statement(s.Body))
	case *ast.DebuggerStatement:
		return parser.NewDebuggerStatement(c.span(s))
	case *ast.VariableStatement:
		return parser.NewVariableDeclaration(c.span(s), "var", c.bindings(s.List))
	case *ast.LexicalDeclaration:
		return c.lexical(s)
	case *ast.FunctionDeclaration:
		if s.Function.Async {
			c.fail(s, "async function")
		}
		return parser.NewFunctionDeclaration(c.span(s), c.function(s.Function))
	case *ast.ClassDeclaration:
		c.fail(s, "class declaration")
	case *ast.ForOfStatement:
		c.fail(s, "for-of statement")
	default:
		c.fail(s, fmt.Sprintf("statement %T", s))
	}
	return nil
}

func (c *converter) block(b *ast.BlockStatement) *parser.BlockStatement {
	if b == nil {
		return nil
	}
	return parser.NewBlockStatement(c.span(b), c.statements(b.List))
}

func (c *converter) lexical(d *ast.LexicalDeclaration) *parser.VariableDeclaration {
	return parser.NewVariableDeclaration(c.span(d), d.Token.String(), c.bindings(d.List))
}

func (c *converter) bindings(list []*ast.Binding) []*parser.VariableDeclarator {
	out := make([]*parser.VariableDeclarator, len(list))
	for i, b := range list {
		out[i] = parser.NewVariableDeclarator(c.span(b), c.target(b.Target), c.expr(b.Initializer))
	}
	return out
}

func (c *converter) forInitializer(init ast.ForLoopInitializer) parser.ForInit {
	switch init := init.(type) {
	case nil:
		return nil
	case *ast.ForLoopInitializerExpression:
		return c.expr(init.Expression)
	case *ast.ForLoopInitializerVarDeclList:
		decls := c.bindings(init.List)
		span := c.spanIdx(init.Var, init.Var)
		if len(init.List) > 0 {
			span.End = c.pos(init.List[len(init.List)-1].Idx1())
		}
		return parser.NewVariableDeclaration(span, "var", decls)
	case *ast.ForLoopInitializerLexicalDecl:
		return c.lexical(&init.LexicalDeclaration)
	}
	panic(unsupported{what: fmt.Sprintf("for initializer %T", init)})
}

func (c *converter) forInto(into ast.ForInto) parser.ForInit {
	switch into := into.(type) {
	case *ast.ForIntoExpression:
		return c.expr(into.Expression)
	case *ast.ForIntoVar:
		b := into.Binding
		decl := parser.NewVariableDeclarator(c.span(b), c.target(b.Target), c.expr(b.Initializer))
		return parser.NewVariableDeclaration(c.span(b), "var", []*parser.VariableDeclarator{decl})
	case *ast.ForDeclaration:
		kind := "let"
		if into.IsConst {
			kind = "const"
		}
		span := c.span(into.Target)
		decl := parser.NewVariableDeclarator(span, c.target(into.Target), nil)
		return parser.NewVariableDeclaration(span, kind, []*parser.VariableDeclarator{decl})
	}
	panic(unsupported{what: fmt.Sprintf("for-in head %T", into)})
}

// --- Functions ---

func (c *converter) function(fn *ast.FunctionLiteral) parser.Function {
	if fn.Async {
		c.fail(fn, "async function")
	}
	out := parser.Function{Generator: fn.Generator}
	if fn.Name != nil {
		out.ID = c.ident(fn.Name)
	}
	if params := fn.ParameterList; params != nil {
		hasDefault := false
		for _, b := range params.List {
			out.Params = append(out.Params, c.target(b.Target))
			hasDefault = hasDefault || b.Initializer != nil
		}
		if hasDefault {
			out.Defaults = make([]*parser.Expr, len(params.List))
			for i, b := range params.List {
				out.Defaults[i] = c.expr(b.Initializer)
			}
		}
		if params.Rest != nil {
			rest, ok := params.Rest.(*ast.Identifier)
			if !ok {
				c.fail(params.Rest, "rest parameter pattern")
			}
			out.Rest = c.ident(rest)
		}
	}
	out.Body = c.block(fn.Body)
	return out
}

// --- Expressions ---

func (c *converter) expr(e ast.Expression) *parser.Expr {
	if e == nil {
		return nil
	}
	return parser.Box(c.expression(e))
}

func (c *converter) exprs(list []ast.Expression) []*parser.Expr {
	out := make([]*parser.Expr, len(list))
	for i, e := range list {
		out[i] = c.expr(e)
	}
	return out
}

func (c *converter) ident(id *ast.Identifier) *parser.Identifier {
	return parser.NewIdentifier(c.span(id), id.Name.String())
}

func (c *converter) expression(e ast.Expression) parser.Expression {
	switch e := e.(type) {
	case *ast.Identifier:
		return c.ident(e)
	case *ast.ThisExpression:
		return parser.NewThisExpression(c.span(e))
	case *ast.StringLiteral:
		return parser.NewStringLiteral(c.span(e), e.Literal, e.Value.String())
	case *ast.NumberLiteral:
		switch v := e.Value.(type) {
		case int64:
			return parser.NewNumberLiteral(c.span(e), e.Literal, float64(v))
		case float64:
			return parser.NewNumberLiteral(c.span(e), e.Literal, v)
		}
		c.fail(e, "bigint literal")
	case *ast.BooleanLiteral:
		return parser.NewBooleanLiteral(c.span(e), e.Value)
	case *ast.NullLiteral:
		return parser.NewNullLiteral(c.span(e))
	case *ast.RegExpLiteral:
		return parser.NewRegExpLiteral(c.span(e), e.Literal, e.Pattern, e.Flags)
	case *ast.ArrayLiteral:
		return parser.NewArrayExpression(c.span(e), c.exprs(e.Value))
	case *ast.ObjectLiteral:
		return parser.NewObjectExpression(c.span(e), c.properties(e.Value))
	case *ast.FunctionLiteral:
		return parser.NewFunctionExpression(c.span(e), c.function(e))
	case *ast.SequenceExpression:
		return parser.NewSequenceExpression(c.span(e), c.exprs(e.Sequence))
	case *ast.UnaryExpression:
		switch e.Operator {
		case token.INCREMENT, token.DECREMENT:
			return parser.NewUpdateExpression(c.span(e), e.Operator.String(), !e.Postfix, c.expr(e.Operand))
		}
		return parser.NewUnaryExpression(c.span(e), e.Operator.String(), c.expr(e.Operand))
	case *ast.BinaryExpression:
		op := e.Operator.String()
		switch e.Operator {
		case token.LOGICAL_AND, token.LOGICAL_OR, token.COALESCE:
			return parser.NewLogicalExpression(c.span(e), op, c.expr(e.Left), c.expr(e.Right))
		}
		return parser.NewBinaryExpression(c.span(e), op, c.expr(e.Left), c.expr(e.Right))
	case *ast.AssignExpression:
		// goja records compound assignments by their binary operator.
		op := "="
		if e.Operator != token.ASSIGN {
			op = e.Operator.String() + "="
		}
		return parser.NewAssignmentExpression(c.span(e), op, c.expr(e.Left), c.expr(e.Right))
	case *ast.ConditionalExpression:
		return parser.NewConditionalExpression(c.span(e), c.expr(e.Test), c.expr(e.Consequent), c.expr(e.Alternate))
	case *ast.NewExpression:
		return parser.NewNewExpression(c.span(e), c.expr(e.Callee), c.exprs(e.ArgumentList))
	case *ast.CallExpression:
		return parser.NewCallExpression(c.span(e), c.expr(e.Callee), c.exprs(e.ArgumentList))
	case *ast.DotExpression:
		prop := parser.NewIdentifier(c.span(&e.Identifier), e.Identifier.Name.String())
		return parser.NewMemberExpression(c.span(e), c.expr(e.Left), parser.Box(prop), false)
	case *ast.BracketExpression:
		return parser.NewMemberExpression(c.span(e), c.expr(e.Left), c.expr(e.Member), true)
	case *ast.ArrayPattern:
		if e.Rest != nil {
			c.fail(e.Rest, "rest element")
		}
		return parser.NewArrayPattern(c.span(e), c.exprs(e.Elements))
	case *ast.ObjectPattern:
		if e.Rest != nil {
			c.fail(e.Rest, "rest element")
		}
		return parser.NewObjectPattern(c.span(e), c.properties(e.Properties))
	case *ast.ArrowFunctionLiteral:
		c.fail(e, "arrow function")
	case *ast.ClassLiteral:
		c.fail(e, "class expression")
	case *ast.TemplateLiteral:
		c.fail(e, "template literal")
	case *ast.SpreadElement:
		c.fail(e, "spread element")
	default:
		c.fail(e, fmt.Sprintf("expression %T", e))
	}
	return nil
}

func (c *converter) target(t ast.BindingTarget) *parser.Expr {
	if t == nil {
		return nil
	}
	return parser.Box(c.expression(t))
}

func (c *converter) properties(list []ast.Property) []*parser.Property {
	out := make([]*parser.Property, 0, len(list))
	for _, p := range list {
		out = append(out, c.property(p))
	}
	return out
}

func (c *converter) property(p ast.Property) *parser.Property {
	switch p := p.(type) {
	case *ast.PropertyKeyed:
		kind := "init"
		switch p.Kind {
		case ast.PropertyKindGet:
			kind = "get"
		case ast.PropertyKindSet:
			kind = "set"
		}
		prop := parser.NewProperty(c.span(p), kind, c.propertyKey(p.Key, p.Computed), c.expr(p.Value))
		prop.Computed = p.Computed
		return prop
	case *ast.PropertyShort:
		key := parser.NewIdentifier(c.span(&p.Name), p.Name.Name.String())
		value := parser.Box(key)
		if p.Initializer != nil {
			value = parser.Box(parser.NewAssignmentExpression(c.span(p), "=", parser.Box(key), c.expr(p.Initializer)))
		}
		prop := parser.NewProperty(c.span(p), "init", parser.Box(key), value)
		prop.Shorthand = p.Initializer == nil
		return prop
	}
	panic(unsupported{what: fmt.Sprintf("property %T", p)})
}

// propertyKey renders a plain name key as an Identifier, the way the in-house
// parser does. goja stores those keys as string literals without quotes.
func (c *converter) propertyKey(key ast.Expression, computed bool) *parser.Expr {
	if s, ok := key.(*ast.StringLiteral); ok && !computed {
		if s.Literal == "" || (s.Literal[0] != '"' && s.Literal[0] != '\'') {
			return parser.Box(parser.NewIdentifier(c.span(s), s.Value.String()))
		}
	}
	return c.expr(key)
}
