// Package walker runs a single depth-first traversal over a program and
// dispatches enter/leave events to subscribed optimization passes, keeping a
// symbol table in step with the function scopes being visited.
package walker

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"jsopt/pkg/parser"
	"jsopt/pkg/scope"
)

// Phase says whether an event fires before or after a node's children.
type Phase int

const (
	Enter Phase = iota
	Leave
)

func (p Phase) String() string {
	if p == Leave {
		return "leave"
	}
	return "enter"
}

// Any subscribes a handler to every node type.
const Any parser.NodeType = "*"

// Event is passed to every handler.
type Event struct {
	Node    parser.Node
	Slot    *parser.Expr // The box holding Node, nil for statements and other non-expression nodes
	Parent  parser.Node  // nil for the root
	Phase   Phase
	Symbols *scope.SymbolTable
	Scope   *scope.Scope // Innermost scope; for functions, the function's own scope
}

// Handler reacts to an event. A non-nil error stops the walk.
type Handler func(ev *Event) error

type key struct {
	typ   parser.NodeType
	phase Phase
}

type subscription struct {
	seq int
	fn  Handler
}

// Walker holds the subscriber registry. One Walker may run many walks; each walk
// gets a fresh symbol table.
type Walker struct {
	handlers map[key][]subscription
	seq      int
	log      *zap.Logger
}

// New creates a walker. A nil logger disables logging.
func New(log *zap.Logger) *Walker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Walker{handlers: make(map[key][]subscription), log: log}
}

// On subscribes fn to phase events for nodes of type t (or Any). Handlers run in
// registration order.
func (w *Walker) On(t parser.NodeType, phase Phase, fn Handler) {
	k := key{typ: t, phase: phase}
	w.handlers[k] = append(w.handlers[k], subscription{seq: w.seq, fn: fn})
	w.seq++
}

// Walk visits root and everything below it once. The returned symbol table holds
// the scopes built during the walk.
func (w *Walker) Walk(root parser.Node) (*scope.SymbolTable, error) {
	st := &state{w: w, symbols: scope.NewSymbolTable()}
	if err := st.visit(root, nil, nil); err != nil {
		return st.symbols, err
	}
	w.log.Debug("walk complete", zap.Int("nodes", st.nodes), zap.Int("scopes", st.scopes))
	return st.symbols, nil
}

// dispatch runs the handlers for ev's node type merged with the wildcard
// handlers, in registration order.
func (w *Walker) dispatch(ev *Event) error {
	typed := w.handlers[key{typ: ev.Node.Type(), phase: ev.Phase}]
	wild := w.handlers[key{typ: Any, phase: ev.Phase}]
	for len(typed) > 0 || len(wild) > 0 {
		var next subscription
		if len(wild) == 0 || (len(typed) > 0 && typed[0].seq < wild[0].seq) {
			next, typed = typed[0], typed[1:]
		} else {
			next, wild = wild[0], wild[1:]
		}
		if err := next.fn(ev); err != nil {
			return errors.Wrapf(err, "%s:%s", ev.Phase, ev.Node.Type())
		}
	}
	return nil
}

type state struct {
	w       *Walker
	symbols *scope.SymbolTable
	nodes   int
	scopes  int
}

func (s *state) visit(node parser.Node, slot *parser.Expr, parent parser.Node) error {
	s.nodes++
	pushed := s.enterScope(node)

	ev := &Event{Node: node, Slot: slot, Parent: parent, Phase: Enter, Symbols: s.symbols, Scope: s.symbols.Current()}
	if err := s.w.dispatch(ev); err != nil {
		return err
	}
	// An enter handler may have replaced the node in its slot.
	if slot != nil && slot.Data != nil {
		node = slot.Data
	}

	for _, c := range parser.Children(node) {
		if err := s.visit(c.Node, c.Slot, node); err != nil {
			return err
		}
	}

	ev = &Event{Node: node, Slot: slot, Parent: parent, Phase: Leave, Symbols: s.symbols, Scope: s.symbols.Current()}
	if err := s.w.dispatch(ev); err != nil {
		return err
	}

	if pushed {
		s.symbols.LeaveScope()
	}
	return nil
}

// enterScope performs the built-in scope bookkeeping that must precede every pass
// handler. It reports whether a scope was pushed.
func (s *state) enterScope(node parser.Node) bool {
	switch n := node.(type) {
	case *parser.Program:
		// The program runs in the root scope.
		return false
	case *parser.CatchClause:
		// The catch parameter is recorded in the enclosing function scope.
		for _, id := range parser.BoundNames(n.Param) {
			s.symbols.AddSymbol(id.Name, id)
		}
		return false
	case parser.FunctionNode:
		fn := n.Func()
		if _, isDecl := n.(*parser.FunctionDeclaration); isDecl && fn.ID != nil {
			s.symbols.AddSymbol(fn.ID.Name, n)
		}
		s.symbols.EnterScope()
		s.scopes++
		// A named function expression sees its own name.
		if _, isExpr := n.(*parser.FunctionExpression); isExpr && fn.ID != nil {
			s.symbols.AddSymbol(fn.ID.Name, n)
		}
		for _, id := range fn.ParamNames() {
			s.symbols.AddSymbol(id.Name, id)
		}
		return true
	}
	return false
}
