package passes

import (
	"math/rand"
	"strconv"

	"go.uber.org/zap"

	"jsopt/pkg/parser"
	"jsopt/pkg/scope"
	"jsopt/pkg/walker"
)

const CachedLiteralsName = "cached-literals"

// Hoist describes one literal group that was moved into a variable.
type Hoist struct {
	Name        string
	Raw         string
	Kind        parser.LiteralKind
	Occurrences int
	ScopeLevel  int // Level of the scope that received the declaration
	Saved       int // Estimated bytes saved
}

type occurrence struct {
	lit  *parser.Literal
	slot *parser.Expr
}

type literalGroup struct {
	occurrences []occurrence
	scope       *scope.Scope // Common ancestor of every occurrence so far
}

// CachedLiterals deduplicates repeated literals. Occurrences are collected
// during the walk; when the program is left, every group worth rewriting is bound
// to a fresh variable at the top of the deepest scope enclosing all of its uses
// and each occurrence is replaced with a reference to it.
type CachedLiterals struct {
	log      *zap.Logger
	prefix   string
	overhead int
	counter  int

	groups  map[string]*literalGroup
	order   []string            // group keys in first-seen order
	owners  map[int]parser.Node // scope id -> Program or function node
	inserts map[parser.Node]int // declarations already added per owner
	hoisted []Hoist
}

func NewCachedLiterals(c Config) *CachedLiterals {
	prefix := c.LiteralPrefix
	if prefix == "" {
		prefix = DefaultLiteralPrefix
	}
	tag := c.LiteralTag
	if tag == "" {
		tag = strconv.FormatUint(uint64(rand.Uint32()), 36)
	}
	return &CachedLiterals{
		log:      c.logger(),
		prefix:   prefix + tag,
		overhead: c.SizeOverhead,
		groups:   make(map[string]*literalGroup),
		owners:   make(map[int]parser.Node),
		inserts:  make(map[parser.Node]int),
	}
}

func (p *CachedLiterals) Name() string { return CachedLiteralsName }

func (p *CachedLiterals) Register(w *walker.Walker) {
	w.On(parser.ProgramNode, walker.Enter, p.enterOwner)
	w.On(parser.FunctionDeclarationNode, walker.Enter, p.enterOwner)
	w.On(parser.FunctionExpressionNode, walker.Enter, p.enterOwner)
	w.On(parser.LiteralNode, walker.Enter, p.enterLiteral)
	w.On(parser.ProgramNode, walker.Leave, p.leaveProgram)
}

// Hoisted reports every group rewritten so far, in first-seen order.
func (p *CachedLiterals) Hoisted() []Hoist {
	return p.hoisted
}

func (p *CachedLiterals) enterOwner(ev *walker.Event) error {
	p.owners[ev.Scope.ID] = ev.Node
	return nil
}

func (p *CachedLiterals) enterLiteral(ev *walker.Event) error {
	lit, ok := ev.Node.(*parser.Literal)
	if !ok || len(lit.Raw) <= 1 {
		return nil
	}
	if ev.Slot == nil || !hoistable(lit, ev) {
		return nil
	}
	key, ok := literalKey(lit)
	if !ok {
		p.log.Debug("skipping literal without value", zap.String("raw", lit.Raw))
		return nil
	}

	g, exists := p.groups[key]
	if !exists {
		g = &literalGroup{}
		p.groups[key] = g
		p.order = append(p.order, key)
	}
	g.occurrences = append(g.occurrences, occurrence{lit: lit, slot: ev.Slot})
	g.scope = scope.CommonParent(g.scope, ev.Scope)
	return nil
}

// hoistable rules out positions where an identifier cannot stand in for the
// literal, or where the literal's identity matters.
func hoistable(lit *parser.Literal, ev *walker.Event) bool {
	// Each evaluation of a regex literal yields a new object.
	if lit.Kind == parser.RegExpLiteral {
		return false
	}
	switch parent := ev.Parent.(type) {
	case *parser.Property:
		if parent.Key == ev.Slot && !parent.Computed {
			return false
		}
	case *parser.ExpressionStatement:
		// Bare literal statements form the directive prologue.
		return false
	}
	return true
}

// literalKey identifies a literal by runtime type and value, so 'a' and "a" or
// 1 and 1.0 share a group.
func literalKey(lit *parser.Literal) (string, bool) {
	switch lit.Kind {
	case parser.StringLiteral:
		return "string:" + lit.Str, true
	case parser.NumberLiteral:
		return "number:" + strconv.FormatFloat(lit.Num, 'g', -1, 64), true
	case parser.BooleanLiteral:
		return "boolean:" + strconv.FormatBool(lit.Bool), true
	case parser.NullLiteral:
		return "null", true
	}
	return "", false
}

func (p *CachedLiterals) leaveProgram(ev *walker.Event) error {
	for _, key := range p.order {
		g := p.groups[key]
		n := len(g.occurrences)
		if n < 2 {
			continue
		}
		first := g.occurrences[0].lit
		size := len(first.Raw)
		saved := n*size - (size + n + p.overhead)
		if saved <= 0 {
			continue
		}
		if g.scope == nil {
			continue
		}
		owner, ok := p.owners[g.scope.ID]
		if !ok {
			p.log.Debug("no owner for literal scope", zap.String("raw", first.Raw), zap.Int("scope", g.scope.ID))
			continue
		}
		body := ownerBody(owner)
		if body == nil {
			continue
		}

		p.counter++
		name := p.prefix + strconv.Itoa(p.counter)
		p.insertDeclaration(owner, body, name, first)
		for _, occ := range g.occurrences {
			occ.slot.Replace(parser.NewIdentifier(occ.lit.Span, name))
		}

		p.hoisted = append(p.hoisted, Hoist{
			Name:        name,
			Raw:         first.Raw,
			Kind:        first.Kind,
			Occurrences: n,
			ScopeLevel:  g.scope.Level,
			Saved:       saved,
		})
		p.log.Debug("hoisted literal",
			zap.String("name", name),
			zap.String("raw", first.Raw),
			zap.Int("occurrences", n),
			zap.Int("scope", g.scope.ID),
			zap.Int("saved", saved))
	}
	return nil
}

// ownerBody returns the statement list a declaration can be inserted into.
func ownerBody(owner parser.Node) *[]parser.Statement {
	switch o := owner.(type) {
	case *parser.Program:
		return &o.Body
	case parser.FunctionNode:
		if fn := o.Func(); fn.Body != nil {
			return &fn.Body.Body
		}
	}
	return nil
}

// insertDeclaration adds 'var name = literal;' after the directive prologue and
// after any declarations hoisted into the same owner earlier.
func (p *CachedLiterals) insertDeclaration(owner parser.Node, body *[]parser.Statement, name string, lit *parser.Literal) {
	at := 0
	for at < len(*body) {
		stmt, ok := (*body)[at].(*parser.ExpressionStatement)
		if !ok || !stmt.IsDirective() {
			break
		}
		at++
	}
	at += p.inserts[owner]
	p.inserts[owner]++

	init := *lit
	id := parser.NewIdentifier(lit.Span, name)
	decl := parser.NewVariableDeclaration(lit.Span, "var", []*parser.VariableDeclarator{
		parser.NewVariableDeclarator(lit.Span, parser.Box(id), parser.Box(&init)),
	})

	stmts := append(*body, nil)
	copy(stmts[at+1:], stmts[at:])
	stmts[at] = decl
	*body = stmts
}
