package parser

// ASTArena provides arena-style allocation for the most frequent AST nodes.
// Nodes are allocated from pre-grown slices, reducing GC pressure for large
// inputs. An arena must not be shared between goroutines.
type ASTArena struct {
	exprs       []Expr
	identifiers []Identifier
	literals    []Literal
	members     []MemberExpression
	calls       []CallExpression
	binaries    []BinaryExpression
}

// NewASTArena creates a new arena with pre-allocated capacity.
func NewASTArena() *ASTArena {
	return &ASTArena{
		exprs:       make([]Expr, 0, 512),
		identifiers: make([]Identifier, 0, 256),
		literals:    make([]Literal, 0, 128),
		members:     make([]MemberExpression, 0, 128),
		calls:       make([]CallExpression, 0, 128),
		binaries:    make([]BinaryExpression, 0, 128),
	}
}

// Len reports how many nodes have been allocated since the last Reset.
func (a *ASTArena) Len() int {
	return len(a.exprs) + len(a.identifiers) + len(a.literals) +
		len(a.members) + len(a.calls) + len(a.binaries)
}

// Reset starts a fresh generation. Earlier nodes stay valid because each slab
// is replaced, not truncated: a program and its rewrites may outlive the next
// parse.
func (a *ASTArena) Reset() {
	*a = *NewASTArena()
}

// Allocation methods - each returns a pointer into the current slab. A full
// slab is abandoned to the previously returned pointers and a new one started,
// so no pointer ever moves.

func (a *ASTArena) Box(e Expression) *Expr {
	if len(a.exprs) == cap(a.exprs) {
		a.exprs = make([]Expr, 0, 2*cap(a.exprs)+1)
	}
	a.exprs = append(a.exprs, Expr{Data: e})
	return &a.exprs[len(a.exprs)-1]
}

func (a *ASTArena) NewIdentifier(span Span, name string) *Identifier {
	if len(a.identifiers) == cap(a.identifiers) {
		a.identifiers = make([]Identifier, 0, 2*cap(a.identifiers)+1)
	}
	a.identifiers = append(a.identifiers, Identifier{Span: span, Name: name})
	return &a.identifiers[len(a.identifiers)-1]
}

func (a *ASTArena) NewLiteral(lit Literal) *Literal {
	if len(a.literals) == cap(a.literals) {
		a.literals = make([]Literal, 0, 2*cap(a.literals)+1)
	}
	a.literals = append(a.literals, lit)
	return &a.literals[len(a.literals)-1]
}

func (a *ASTArena) NewMemberExpression(span Span, object, property *Expr, computed bool) *MemberExpression {
	if len(a.members) == cap(a.members) {
		a.members = make([]MemberExpression, 0, 2*cap(a.members)+1)
	}
	a.members = append(a.members, MemberExpression{Span: span, Object: object, Property: property, Computed: computed})
	return &a.members[len(a.members)-1]
}

func (a *ASTArena) NewCallExpression(span Span, callee *Expr, args []*Expr) *CallExpression {
	if len(a.calls) == cap(a.calls) {
		a.calls = make([]CallExpression, 0, 2*cap(a.calls)+1)
	}
	a.calls = append(a.calls, CallExpression{Span: span, Callee: callee, Arguments: args})
	return &a.calls[len(a.calls)-1]
}

func (a *ASTArena) NewBinaryExpression(span Span, operator string, left, right *Expr) *BinaryExpression {
	if len(a.binaries) == cap(a.binaries) {
		a.binaries = make([]BinaryExpression, 0, 2*cap(a.binaries)+1)
	}
	a.binaries = append(a.binaries, BinaryExpression{Span: span, Operator: operator, Left: left, Right: right})
	return &a.binaries[len(a.binaries)-1]
}
