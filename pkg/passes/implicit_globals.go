package passes

import (
	"go.uber.org/zap"

	"jsopt/pkg/parser"
	"jsopt/pkg/walker"
)

const ImplicitGlobalsName = "implicit-globals"

// Global is a name first created by assignment without a declaration.
type Global struct {
	Name string
	Pos  parser.Pos // Position of the first assignment
}

// ImplicitGlobals records assignments to names that are not declared on the
// enclosing scope chain. It does not rewrite the tree.
type ImplicitGlobals struct {
	log     *zap.Logger
	globals []Global
	seen    map[string]bool
}

func NewImplicitGlobals(log *zap.Logger) *ImplicitGlobals {
	if log == nil {
		log = zap.NewNop()
	}
	return &ImplicitGlobals{log: log, seen: make(map[string]bool)}
}

func (p *ImplicitGlobals) Name() string { return ImplicitGlobalsName }

func (p *ImplicitGlobals) Register(w *walker.Walker) {
	w.On(parser.VariableDeclaratorNode, walker.Enter, p.enterDeclarator)
	w.On(parser.AssignmentExpressionNode, walker.Enter, p.enterAssignment)
}

// Globals returns the implicit globals in the order they were first assigned.
func (p *ImplicitGlobals) Globals() []Global {
	return p.globals
}

func (p *ImplicitGlobals) enterDeclarator(ev *walker.Event) error {
	decl, ok := ev.Node.(*parser.VariableDeclarator)
	if !ok {
		return nil
	}
	for _, id := range parser.BoundNames(decl.ID) {
		ev.Symbols.AddSymbol(id.Name, decl)
	}
	return nil
}

func (p *ImplicitGlobals) enterAssignment(ev *walker.Event) error {
	assign, ok := ev.Node.(*parser.AssignmentExpression)
	if !ok || assign.Left == nil {
		return nil
	}
	target, ok := assign.Left.Data.(*parser.Identifier)
	if !ok {
		return nil
	}
	if ev.Symbols.CheckSymbol(target.Name) {
		return nil
	}
	if _, found := ev.Symbols.FindSymbol(target.Name); found {
		return nil
	}

	ev.Symbols.AddGlobalSymbol(target.Name, target)
	if !p.seen[target.Name] {
		p.seen[target.Name] = true
		p.globals = append(p.globals, Global{Name: target.Name, Pos: target.Start})
		p.log.Debug("implicit global",
			zap.String("name", target.Name),
			zap.Int("line", target.Start.Line),
			zap.Int("column", target.Start.Column))
	}
	return nil
}
