package parser

import (
	"fmt"

	"jsopt/pkg/errors"
	"jsopt/pkg/lexer"
	"jsopt/pkg/source"
)

// --- Debug Flag ---
const debugParser = false

func debugPrint(format string, args ...interface{}) {
	if debugParser {
		fmt.Printf("[Parser Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

// Parser takes a lexer and builds an AST. It stops at the first error.
type Parser struct {
	l      *lexer.Lexer
	source *source.SourceFile
	arena  *ASTArena

	curToken  lexer.Token
	peekToken lexer.Token
	lastToken lexer.Token // most recently consumed token

	// Context tracking for early errors.
	funcDepth   int
	loopDepth   int
	switchDepth int
	labels      map[string]bool
}

// bailout carries the fatal error up to ParseProgram.
type bailout struct {
	err errors.Error
}

// NewParser creates a parser reading from l.
func NewParser(l *lexer.Lexer) *Parser {
	return NewParserWithArena(l, NewASTArena())
}

// NewParserWithArena creates a parser that allocates hot nodes from arena.
func NewParserWithArena(l *lexer.Lexer, arena *ASTArena) *Parser {
	return &Parser{l: l, source: l.Source(), arena: arena, labels: map[string]bool{}}
}

// Parse is a convenience wrapper that lexes and parses sf in one go.
func Parse(sf *source.SourceFile) (*Program, error) {
	return NewParser(lexer.NewLexerFromSource(sf)).ParseProgram()
}

// ParseString parses an inline snippet.
func ParseString(input string) (*Program, error) {
	return Parse(source.NewInlineSource(input))
}

// ParseProgram parses the entire input. On a lexical or syntax error it returns
// a nil program and the positioned error.
func (p *Parser) ParseProgram() (program *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			program, err = nil, b.err
		}
	}()

	p.nextToken()
	p.nextToken()

	start := p.pos()
	var body []Statement
	for !p.curTokenIs(lexer.EOF) {
		body = append(body, p.parseStatement())
	}
	end := p.pos()
	return NewProgram(Span{Start: start, End: end}, body), nil
}

// --- Token helpers ---

// nextToken advances the current and peek tokens, skipping comments.
func (p *Parser) nextToken() {
	p.lastToken = p.curToken
	p.curToken = p.peekToken
	for {
		tok := p.l.NextToken()
		if tok.Type == lexer.COMMENT {
			continue
		}
		if tok.Type == lexer.ILLEGAL {
			p.failLexical()
		}
		p.peekToken = tok
		break
	}
	debugPrint("nextToken(): cur='%s' (%s), peek='%s' (%s)", p.curToken.Literal, p.curToken.Type, p.peekToken.Literal, p.peekToken.Type)
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

// accept consumes the current token when it has type t.
func (p *Parser) accept(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes a token of type t or fails.
func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	if !p.curTokenIs(t) {
		p.unexpected(fmt.Sprintf("'%s'", t))
	}
	tok := p.curToken
	p.nextToken()
	return tok
}

// consumeSemicolon applies automatic semicolon insertion: the ';' may be left
// out before '}', at end of input, or after a line break.
func (p *Parser) consumeSemicolon() {
	if p.accept(lexer.SEMICOLON) {
		return
	}
	if p.curTokenIs(lexer.RBRACE) || p.curTokenIs(lexer.EOF) || p.curToken.NewlineBefore {
		return
	}
	p.unexpected("';'")
}

// canInsertSemicolon reports whether a restricted production ends here.
func (p *Parser) canInsertSemicolon() bool {
	return p.curTokenIs(lexer.SEMICOLON) || p.curTokenIs(lexer.RBRACE) ||
		p.curTokenIs(lexer.EOF) || p.curToken.NewlineBefore
}

// --- Positions ---

func tokenStart(tok lexer.Token) Pos {
	return Pos{Line: tok.Line, Column: tok.Column, Offset: tok.StartPos}
}

func tokenEnd(tok lexer.Token) Pos {
	return Pos{Line: tok.Line, Column: tok.Column + (tok.EndPos - tok.StartPos), Offset: tok.EndPos}
}

func (p *Parser) pos() Pos {
	return tokenStart(p.curToken)
}

// span closes a node that started at start and ends at the last consumed token.
func (p *Parser) span(start Pos) Span {
	return Span{Start: start, End: tokenEnd(p.lastToken)}
}

func tokenSpan(tok lexer.Token) Span {
	return Span{Start: tokenStart(tok), End: tokenEnd(tok)}
}

// --- Error Handling ---

func (p *Parser) errorPosition(tok lexer.Token) errors.Position {
	return errors.Position{
		Line:     tok.Line,
		Column:   tok.Column,
		StartPos: tok.StartPos,
		EndPos:   tok.EndPos,
		Source:   p.source,
	}
}

// unexpected aborts the parse, reporting the current token against what the
// grammar expected (empty when nothing specific was expected).
func (p *Parser) unexpected(expected string) {
	err := errors.NewUnexpected(p.errorPosition(p.curToken), expected, p.curToken.String())
	panic(bailout{err: err})
}

// failAt aborts the parse with a custom message located at tok.
func (p *Parser) failAt(tok lexer.Token, format string, args ...interface{}) {
	err := &errors.SyntaxError{
		Position: p.errorPosition(tok),
		Msg:      fmt.Sprintf(format, args...),
		Actual:   tok.String(),
	}
	panic(bailout{err: err})
}

func (p *Parser) failLexical() {
	lexErr := p.l.Err()
	if lexErr.Source == nil {
		lexErr.Source = p.source
	}
	panic(bailout{err: lexErr})
}

// --- Node helpers ---

func (p *Parser) box(e Expression) *Expr {
	return p.arena.Box(e)
}

func (p *Parser) parseIdentifier() *Identifier {
	tok := p.curToken
	if tok.Type != lexer.IDENT {
		p.unexpected("identifier")
	}
	p.nextToken()
	return p.arena.NewIdentifier(tokenSpan(tok), tok.Value)
}

// --- Statement Parsing ---

func (p *Parser) parseStatement() Statement {
	switch p.curToken.Type {
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.VAR:
		return p.parseVarStatement()
	case lexer.SEMICOLON:
		tok := p.curToken
		p.nextToken()
		return NewEmptyStatement(tokenSpan(tok))
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.DO:
		return p.parseDoWhileStatement()
	case lexer.CONTINUE:
		return p.parseContinueStatement()
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.WITH:
		return p.parseWithStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.DEBUGGER:
		start := p.pos()
		p.nextToken()
		p.consumeSemicolon()
		return NewDebuggerStatement(p.span(start))
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration()
	case lexer.IDENT:
		if p.peekTokenIs(lexer.COLON) {
			return p.parseLabeledStatement()
		}
	}

	start := p.pos()
	expr := p.parseExpression(false)
	p.consumeSemicolon()
	return NewExpressionStatement(p.span(start), expr)
}

func (p *Parser) parseBlockStatement() *BlockStatement {
	start := p.pos()
	p.expect(lexer.LBRACE)
	var body []Statement
	for !p.curTokenIs(lexer.RBRACE) {
		if p.curTokenIs(lexer.EOF) {
			p.unexpected("'}'")
		}
		body = append(body, p.parseStatement())
	}
	p.nextToken()
	return NewBlockStatement(p.span(start), body)
}

func (p *Parser) parseVarStatement() *VariableDeclaration {
	decl := p.parseVarDeclarations(false)
	p.consumeSemicolon()
	decl.Span = p.span(decl.Start)
	return decl
}

// parseVarDeclarations parses 'var' and its declarator list. noIn forbids the
// in operator inside initializers (for-statement heads).
func (p *Parser) parseVarDeclarations(noIn bool) *VariableDeclaration {
	start := p.pos()
	p.expect(lexer.VAR)
	var list []*VariableDeclarator
	for {
		declStart := p.pos()
		id := p.parseIdentifier()
		var init *Expr
		if p.accept(lexer.ASSIGN) {
			init = p.parseAssignment(noIn)
		}
		list = append(list, NewVariableDeclarator(p.span(declStart), p.box(id), init))
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	return NewVariableDeclaration(p.span(start), "var", list)
}

func (p *Parser) parseIfStatement() *IfStatement {
	start := p.pos()
	p.expect(lexer.IF)
	p.expect(lexer.LPAREN)
	test := p.parseExpression(false)
	p.expect(lexer.RPAREN)
	consequent := p.parseStatement()
	var alternate Statement
	if p.accept(lexer.ELSE) {
		alternate = p.parseStatement()
	}
	return NewIfStatement(p.span(start), test, consequent, alternate)
}

func (p *Parser) parseLoopBody() Statement {
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	return body
}

func (p *Parser) parseWhileStatement() *WhileStatement {
	start := p.pos()
	p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	test := p.parseExpression(false)
	p.expect(lexer.RPAREN)
	body := p.parseLoopBody()
	return NewWhileStatement(p.span(start), test, body)
}

func (p *Parser) parseDoWhileStatement() *DoWhileStatement {
	start := p.pos()
	p.expect(lexer.DO)
	body := p.parseLoopBody()
	p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	test := p.parseExpression(false)
	p.expect(lexer.RPAREN)
	// The ';' after do-while is always optional.
	p.accept(lexer.SEMICOLON)
	return NewDoWhileStatement(p.span(start), body, test)
}

// parseForStatement handles both for (;;) and for (x in y).
func (p *Parser) parseForStatement() Statement {
	start := p.pos()
	p.expect(lexer.FOR)
	p.expect(lexer.LPAREN)

	var init ForInit
	switch {
	case p.curTokenIs(lexer.SEMICOLON):
	case p.curTokenIs(lexer.VAR):
		decl := p.parseVarDeclarations(true)
		if p.curTokenIs(lexer.IN) {
			if len(decl.Declarations) != 1 {
				p.failAt(p.curToken, "for-in loop variable declaration may declare only one variable")
			}
			return p.parseForIn(start, decl)
		}
		init = decl
	default:
		exprTok := p.curToken
		expr := p.parseExpression(true)
		if p.curTokenIs(lexer.IN) {
			if !isAssignable(expr.Data) {
				p.failAt(exprTok, "invalid left-hand side in for-in")
			}
			return p.parseForIn(start, expr)
		}
		init = expr
	}

	p.expect(lexer.SEMICOLON)
	var test, update *Expr
	if !p.curTokenIs(lexer.SEMICOLON) {
		test = p.parseExpression(false)
	}
	p.expect(lexer.SEMICOLON)
	if !p.curTokenIs(lexer.RPAREN) {
		update = p.parseExpression(false)
	}
	p.expect(lexer.RPAREN)
	body := p.parseLoopBody()
	return NewForStatement(p.span(start), init, test, update, body)
}

func (p *Parser) parseForIn(start Pos, left ForInit) *ForInStatement {
	p.expect(lexer.IN)
	right := p.parseExpression(false)
	p.expect(lexer.RPAREN)
	body := p.parseLoopBody()
	return NewForInStatement(p.span(start), left, right, body)
}

// parseJumpLabel reads the optional label of break/continue. A label must sit on
// the same line as the keyword.
func (p *Parser) parseJumpLabel() *Identifier {
	if !p.curTokenIs(lexer.IDENT) || p.curToken.NewlineBefore {
		return nil
	}
	tok := p.curToken
	label := p.parseIdentifier()
	if !p.labels[label.Name] {
		p.failAt(tok, "undefined label '%s'", label.Name)
	}
	return label
}

func (p *Parser) parseContinueStatement() *ContinueStatement {
	start := p.pos()
	keyword := p.expect(lexer.CONTINUE)
	label := p.parseJumpLabel()
	if p.loopDepth == 0 {
		p.failAt(keyword, "continue must be inside a loop")
	}
	p.consumeSemicolon()
	return NewContinueStatement(p.span(start), label)
}

func (p *Parser) parseBreakStatement() *BreakStatement {
	start := p.pos()
	keyword := p.expect(lexer.BREAK)
	label := p.parseJumpLabel()
	if label == nil && p.loopDepth == 0 && p.switchDepth == 0 {
		p.failAt(keyword, "break must be inside a loop or switch")
	}
	p.consumeSemicolon()
	return NewBreakStatement(p.span(start), label)
}

func (p *Parser) parseReturnStatement() *ReturnStatement {
	start := p.pos()
	keyword := p.expect(lexer.RETURN)
	if p.funcDepth == 0 {
		p.failAt(keyword, "return outside of function")
	}
	var arg *Expr
	if !p.canInsertSemicolon() {
		arg = p.parseExpression(false)
	}
	p.consumeSemicolon()
	return NewReturnStatement(p.span(start), arg)
}

func (p *Parser) parseWithStatement() *WithStatement {
	start := p.pos()
	p.expect(lexer.WITH)
	p.expect(lexer.LPAREN)
	object := p.parseExpression(false)
	p.expect(lexer.RPAREN)
	body := p.parseStatement()
	return NewWithStatement(p.span(start), object, body)
}

func (p *Parser) parseSwitchStatement() *SwitchStatement {
	start := p.pos()
	p.expect(lexer.SWITCH)
	p.expect(lexer.LPAREN)
	discriminant := p.parseExpression(false)
	p.expect(lexer.RPAREN)
	p.expect(lexer.LBRACE)

	p.switchDepth++
	var cases []*SwitchCase
	sawDefault := false
	for !p.accept(lexer.RBRACE) {
		caseStart := p.pos()
		var test *Expr
		switch p.curToken.Type {
		case lexer.CASE:
			p.nextToken()
			test = p.parseExpression(false)
		case lexer.DEFAULT:
			if sawDefault {
				p.failAt(p.curToken, "more than one default clause in switch statement")
			}
			sawDefault = true
			p.nextToken()
		default:
			p.unexpected("'case', 'default' or '}'")
		}
		p.expect(lexer.COLON)
		var consequent []Statement
		for !p.curTokenIs(lexer.CASE) && !p.curTokenIs(lexer.DEFAULT) && !p.curTokenIs(lexer.RBRACE) {
			if p.curTokenIs(lexer.EOF) {
				p.unexpected("'}'")
			}
			consequent = append(consequent, p.parseStatement())
		}
		cases = append(cases, NewSwitchCase(p.span(caseStart), test, consequent))
	}
	p.switchDepth--

	return NewSwitchStatement(p.span(start), discriminant, cases)
}

func (p *Parser) parseThrowStatement() *ThrowStatement {
	start := p.pos()
	p.expect(lexer.THROW)
	if p.curToken.NewlineBefore {
		p.failAt(p.curToken, "illegal newline after throw")
	}
	arg := p.parseExpression(false)
	p.consumeSemicolon()
	return NewThrowStatement(p.span(start), arg)
}

func (p *Parser) parseTryStatement() *TryStatement {
	start := p.pos()
	keyword := p.expect(lexer.TRY)
	block := p.parseBlockStatement()

	var handler *CatchClause
	if p.curTokenIs(lexer.CATCH) {
		catchStart := p.pos()
		p.nextToken()
		p.expect(lexer.LPAREN)
		param := p.parseIdentifier()
		p.expect(lexer.RPAREN)
		body := p.parseBlockStatement()
		handler = NewCatchClause(p.span(catchStart), p.box(param), body)
	}

	var finalizer *BlockStatement
	if p.accept(lexer.FINALLY) {
		finalizer = p.parseBlockStatement()
	}

	if handler == nil && finalizer == nil {
		p.failAt(keyword, "missing catch or finally after try")
	}
	return NewTryStatement(p.span(start), block, handler, finalizer)
}

func (p *Parser) parseLabeledStatement() *LabeledStatement {
	start := p.pos()
	tok := p.curToken
	label := p.parseIdentifier()
	p.expect(lexer.COLON)
	if p.labels[label.Name] {
		p.failAt(tok, "label '%s' has already been declared", label.Name)
	}
	p.labels[label.Name] = true
	body := p.parseStatement()
	delete(p.labels, label.Name)
	return NewLabeledStatement(p.span(start), label, body)
}

func (p *Parser) parseFunctionDeclaration() *FunctionDeclaration {
	start := p.pos()
	p.expect(lexer.FUNCTION)
	id := p.parseIdentifier()
	fn := p.parseFunctionRest(id)
	return NewFunctionDeclaration(p.span(start), fn)
}

// parseFunctionRest parses the parameter list and body after the optional name.
// Loop, switch and label context does not cross a function boundary.
func (p *Parser) parseFunctionRest(id *Identifier) Function {
	p.expect(lexer.LPAREN)
	var params []*Expr
	for !p.accept(lexer.RPAREN) {
		if len(params) > 0 {
			p.expect(lexer.COMMA)
		}
		params = append(params, p.box(p.parseIdentifier()))
	}

	savedLoop, savedSwitch, savedLabels := p.loopDepth, p.switchDepth, p.labels
	p.loopDepth, p.switchDepth, p.labels = 0, 0, map[string]bool{}
	p.funcDepth++
	body := p.parseBlockStatement()
	p.funcDepth--
	p.loopDepth, p.switchDepth, p.labels = savedLoop, savedSwitch, savedLabels

	return Function{ID: id, Params: params, Body: body}
}
