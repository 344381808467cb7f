package parser

import (
	"jsopt/pkg/lexer"
)

// Precedence levels for binary operators.
const (
	_ int = iota
	LOWEST
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // &
	EQUALS      // == != === !==
	LESSGREATER // < > <= >= instanceof in
	SHIFT       // << >> >>>
	SUM         // + -
	PRODUCT     // * / %
)

var precedences = map[lexer.TokenType]int{
	lexer.LOGICAL_OR:    LOGICAL_OR,
	lexer.LOGICAL_AND:   LOGICAL_AND,
	lexer.BIT_OR:        BITWISE_OR,
	lexer.BIT_XOR:       BITWISE_XOR,
	lexer.BIT_AND:       BITWISE_AND,
	lexer.EQ:            EQUALS,
	lexer.NOT_EQ:        EQUALS,
	lexer.STRICT_EQ:     EQUALS,
	lexer.STRICT_NOT_EQ: EQUALS,
	lexer.LT:            LESSGREATER,
	lexer.GT:            LESSGREATER,
	lexer.LE:            LESSGREATER,
	lexer.GE:            LESSGREATER,
	lexer.INSTANCEOF:    LESSGREATER,
	lexer.IN:            LESSGREATER,
	lexer.LSHIFT:        SHIFT,
	lexer.RSHIFT:        SHIFT,
	lexer.URSHIFT:       SHIFT,
	lexer.PLUS:          SUM,
	lexer.MINUS:         SUM,
	lexer.ASTERISK:      PRODUCT,
	lexer.SLASH:         PRODUCT,
	lexer.PERCENT:       PRODUCT,
}

// curPrecedence returns the binary precedence of the current token, or 0 when
// it is not a binary operator. With noIn set, 'in' does not count.
func (p *Parser) curPrecedence(noIn bool) int {
	if noIn && p.curTokenIs(lexer.IN) {
		return 0
	}
	return precedences[p.curToken.Type]
}

// isAssignable reports whether e may appear as an assignment or update target.
func isAssignable(e Expression) bool {
	switch e.(type) {
	case *Identifier, *MemberExpression:
		return true
	}
	return false
}

// --- Expression Parsing ---

// parseExpression parses a comma-separated expression.
func (p *Parser) parseExpression(noIn bool) *Expr {
	first := p.parseAssignment(noIn)
	if !p.curTokenIs(lexer.COMMA) {
		return first
	}
	list := []*Expr{first}
	for p.accept(lexer.COMMA) {
		list = append(list, p.parseAssignment(noIn))
	}
	return p.box(NewSequenceExpression(p.span(first.Loc().Start), list))
}

// parseAssignment parses an assignment expression; assignment is
// right-associative.
func (p *Parser) parseAssignment(noIn bool) *Expr {
	targetTok := p.curToken
	left := p.parseConditional(noIn)
	if !p.curToken.Type.IsAssignment() {
		return left
	}
	if !isAssignable(left.Data) {
		p.failAt(targetTok, "invalid assignment target")
	}
	op := p.curToken.Literal
	p.nextToken()
	right := p.parseAssignment(noIn)
	return p.box(NewAssignmentExpression(SpanOf(left.Loc(), right.Loc()), op, left, right))
}

func (p *Parser) parseConditional(noIn bool) *Expr {
	test := p.parseBinary(LOGICAL_OR, noIn)
	if !p.accept(lexer.QUESTION) {
		return test
	}
	consequent := p.parseAssignment(false)
	p.expect(lexer.COLON)
	alternate := p.parseAssignment(noIn)
	return p.box(NewConditionalExpression(SpanOf(test.Loc(), alternate.Loc()), test, consequent, alternate))
}

// parseBinary is a precedence climber over the binary operator table. All binary
// operators are left-associative.
func (p *Parser) parseBinary(minPrec int, noIn bool) *Expr {
	left := p.parseUnary()
	for {
		prec := p.curPrecedence(noIn)
		if prec == 0 || prec < minPrec {
			return left
		}
		opTok := p.curToken
		p.nextToken()
		right := p.parseBinary(prec+1, noIn)
		span := SpanOf(left.Loc(), right.Loc())
		switch opTok.Type {
		case lexer.LOGICAL_AND, lexer.LOGICAL_OR:
			left = p.box(NewLogicalExpression(span, opTok.Literal, left, right))
		default:
			left = p.box(p.arena.NewBinaryExpression(span, opTok.Literal, left, right))
		}
	}
}

func (p *Parser) parseUnary() *Expr {
	start := p.pos()
	switch p.curToken.Type {
	case lexer.BANG, lexer.TILDE, lexer.PLUS, lexer.MINUS, lexer.TYPEOF, lexer.VOID, lexer.DELETE:
		op := p.curToken.Literal
		p.nextToken()
		arg := p.parseUnary()
		return p.box(NewUnaryExpression(p.span(start), op, arg))
	case lexer.INC, lexer.DEC:
		op := p.curToken.Literal
		p.nextToken()
		argTok := p.curToken
		arg := p.parseUnary()
		if !isAssignable(arg.Data) {
			p.failAt(argTok, "invalid left-hand side in prefix operation")
		}
		return p.box(NewUpdateExpression(p.span(start), op, true, arg))
	}
	return p.parsePostfix()
}

// parsePostfix handles x++ and x--. A line break before the operator ends the
// expression instead.
func (p *Parser) parsePostfix() *Expr {
	argTok := p.curToken
	expr := p.parseLeftHandSide()
	if (p.curTokenIs(lexer.INC) || p.curTokenIs(lexer.DEC)) && !p.curToken.NewlineBefore {
		if !isAssignable(expr.Data) {
			p.failAt(argTok, "invalid left-hand side in postfix operation")
		}
		op := p.curToken.Literal
		p.nextToken()
		return p.box(NewUpdateExpression(p.span(expr.Loc().Start), op, false, expr))
	}
	return expr
}

func (p *Parser) parseLeftHandSide() *Expr {
	var expr *Expr
	if p.curTokenIs(lexer.NEW) {
		expr = p.parseNew()
	} else {
		expr = p.parsePrimary()
	}
	return p.parseMemberTail(expr, true)
}

// parseNew parses 'new' callee [arguments]. The callee takes member accesses but
// no calls, so 'new a.b()' constructs a.b.
func (p *Parser) parseNew() *Expr {
	start := p.pos()
	p.expect(lexer.NEW)
	var callee *Expr
	if p.curTokenIs(lexer.NEW) {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	callee = p.parseMemberTail(callee, false)
	var args []*Expr
	if p.curTokenIs(lexer.LPAREN) {
		args = p.parseArguments()
	}
	return p.box(NewNewExpression(p.span(start), callee, args))
}

// parseMemberTail applies '.name', '[expr]' and, when allowCall is set, call
// suffixes to expr.
func (p *Parser) parseMemberTail(expr *Expr, allowCall bool) *Expr {
	for {
		start := expr.Loc().Start
		switch p.curToken.Type {
		case lexer.DOT:
			p.nextToken()
			prop := p.parseIdentifier()
			expr = p.box(p.arena.NewMemberExpression(p.span(start), expr, p.box(prop), false))
		case lexer.LBRACKET:
			p.nextToken()
			prop := p.parseExpression(false)
			p.expect(lexer.RBRACKET)
			expr = p.box(p.arena.NewMemberExpression(p.span(start), expr, prop, true))
		case lexer.LPAREN:
			if !allowCall {
				return expr
			}
			args := p.parseArguments()
			expr = p.box(p.arena.NewCallExpression(p.span(start), expr, args))
		default:
			return expr
		}
	}
}

func (p *Parser) parseArguments() []*Expr {
	p.expect(lexer.LPAREN)
	var args []*Expr
	for !p.accept(lexer.RPAREN) {
		if len(args) > 0 {
			p.expect(lexer.COMMA)
		}
		args = append(args, p.parseAssignment(false))
	}
	return args
}

func (p *Parser) parsePrimary() *Expr {
	tok := p.curToken
	switch tok.Type {
	case lexer.IDENT:
		return p.box(p.parseIdentifier())
	case lexer.THIS:
		p.nextToken()
		return p.box(NewThisExpression(tokenSpan(tok)))
	case lexer.NUMBER, lexer.STRING, lexer.REGEX, lexer.NULL, lexer.TRUE, lexer.FALSE:
		p.nextToken()
		return p.box(p.literal(tok))
	case lexer.LPAREN:
		p.nextToken()
		expr := p.parseExpression(false)
		p.expect(lexer.RPAREN)
		return expr
	case lexer.LBRACKET:
		return p.parseArrayLiteral()
	case lexer.LBRACE:
		return p.parseObjectLiteral()
	case lexer.FUNCTION:
		start := p.pos()
		p.nextToken()
		var id *Identifier
		if p.curTokenIs(lexer.IDENT) {
			id = p.parseIdentifier()
		}
		fn := p.parseFunctionRest(id)
		return p.box(NewFunctionExpression(p.span(start), fn))
	}
	p.unexpected("")
	return nil
}

// literal builds the Literal node for a literal token.
func (p *Parser) literal(tok lexer.Token) *Literal {
	lit := Literal{Span: tokenSpan(tok), Raw: tok.Literal}
	switch tok.Type {
	case lexer.NUMBER:
		lit.Kind, lit.Num = NumberLiteral, tok.Num
	case lexer.STRING:
		lit.Kind, lit.Str = StringLiteral, tok.Value
	case lexer.REGEX:
		lit.Kind, lit.Regex = RegExpLiteral, &RegExpValue{Pattern: tok.Value, Flags: tok.Flags}
	case lexer.NULL:
		lit.Kind = NullLiteral
	case lexer.TRUE, lexer.FALSE:
		lit.Kind, lit.Bool = BooleanLiteral, tok.Type == lexer.TRUE
	}
	return p.arena.NewLiteral(lit)
}

// parseArrayLiteral parses '[' elements ']'. Elided elements become nil slots.
func (p *Parser) parseArrayLiteral() *Expr {
	start := p.pos()
	p.expect(lexer.LBRACKET)
	var elements []*Expr
	for !p.accept(lexer.RBRACKET) {
		if p.accept(lexer.COMMA) {
			elements = append(elements, nil)
			continue
		}
		elements = append(elements, p.parseAssignment(false))
		if !p.curTokenIs(lexer.RBRACKET) {
			p.expect(lexer.COMMA)
		}
	}
	return p.box(NewArrayExpression(p.span(start), elements))
}

func (p *Parser) parseObjectLiteral() *Expr {
	start := p.pos()
	p.expect(lexer.LBRACE)
	var props []*Property
	for !p.accept(lexer.RBRACE) {
		props = append(props, p.parseProperty())
		if !p.curTokenIs(lexer.RBRACE) {
			p.expect(lexer.COMMA)
		}
	}
	return p.box(NewObjectExpression(p.span(start), props))
}

// parseProperty parses 'key: value' or a get/set accessor.
func (p *Parser) parseProperty() *Property {
	start := p.pos()
	tok := p.curToken
	if tok.Type == lexer.IDENT && (tok.Value == "get" || tok.Value == "set") {
		switch p.peekToken.Type {
		case lexer.COLON, lexer.COMMA, lexer.RBRACE:
		default:
			p.nextToken()
			key := p.parsePropertyKey()
			fnStart := p.pos()
			fn := p.parseFunctionRest(nil)
			if tok.Value == "get" && len(fn.Params) != 0 {
				p.failAt(tok, "getter must not have parameters")
			}
			if tok.Value == "set" && len(fn.Params) != 1 {
				p.failAt(tok, "setter must have exactly one parameter")
			}
			value := p.box(NewFunctionExpression(p.span(fnStart), fn))
			return NewProperty(p.span(start), tok.Value, key, value)
		}
	}

	key := p.parsePropertyKey()
	p.expect(lexer.COLON)
	value := p.parseAssignment(false)
	return NewProperty(p.span(start), "init", key, value)
}

// parsePropertyKey accepts identifier names (reserved words included), strings
// and numbers.
func (p *Parser) parsePropertyKey() *Expr {
	tok := p.curToken
	switch {
	case tok.Type == lexer.STRING || tok.Type == lexer.NUMBER:
		p.nextToken()
		return p.box(p.literal(tok))
	case tok.Type == lexer.IDENT:
		return p.box(p.parseIdentifier())
	case lexer.LookupIdent(tok.Literal) != lexer.IDENT:
		p.nextToken()
		return p.box(p.arena.NewIdentifier(tokenSpan(tok), tok.Literal))
	}
	p.unexpected("property name")
	return nil
}
