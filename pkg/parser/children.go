package parser

// Child is one direct child of a node. Slot is set when the child sits in an
// expression slot and can be replaced through it.
type Child struct {
	Node Node
	Slot *Expr
}

type childList []Child

func (c *childList) expr(e *Expr) {
	if e != nil && e.Data != nil {
		*c = append(*c, Child{Node: e.Data, Slot: e})
	}
}

func (c *childList) exprs(list []*Expr) {
	for _, e := range list {
		c.expr(e)
	}
}

func (c *childList) stmt(s Statement) {
	if s != nil {
		*c = append(*c, Child{Node: s})
	}
}

func (c *childList) stmts(list []Statement) {
	for _, s := range list {
		c.stmt(s)
	}
}

func (c *childList) ident(id *Identifier) {
	if id != nil {
		*c = append(*c, Child{Node: id})
	}
}

func (c *childList) block(b *BlockStatement) {
	if b != nil {
		*c = append(*c, Child{Node: b})
	}
}

func (c *childList) forInit(init ForInit) {
	switch v := init.(type) {
	case nil:
	case *Expr:
		c.expr(v)
	case *VariableDeclaration:
		if v != nil {
			*c = append(*c, Child{Node: v})
		}
	}
}

func (c *childList) properties(props []*Property) {
	for _, p := range props {
		if p != nil {
			*c = append(*c, Child{Node: p})
		}
	}
}

func (c *childList) function(f *Function) {
	c.ident(f.ID)
	c.exprs(f.Params)
	c.exprs(f.Defaults)
	c.ident(f.Rest)
	c.block(f.Body)
}

// Children returns the direct children of n in field-declaration order. Absent
// optional children and array holes are omitted.
func Children(n Node) []Child {
	var c childList
	switch n := n.(type) {
	case *Program:
		c.stmts(n.Body)
	case *BlockStatement:
		c.stmts(n.Body)
	case *ExpressionStatement:
		c.expr(n.Expression)
	case *IfStatement:
		c.expr(n.Test)
		c.stmt(n.Consequent)
		c.stmt(n.Alternate)
	case *LabeledStatement:
		c.ident(n.Label)
		c.stmt(n.Body)
	case *BreakStatement:
		c.ident(n.Label)
	case *ContinueStatement:
		c.ident(n.Label)
	case *WithStatement:
		c.expr(n.Object)
		c.stmt(n.Body)
	case *SwitchStatement:
		c.expr(n.Discriminant)
		for _, sc := range n.Cases {
			c = append(c, Child{Node: sc})
		}
	case *SwitchCase:
		c.expr(n.Test)
		c.stmts(n.Consequent)
	case *ReturnStatement:
		c.expr(n.Argument)
	case *ThrowStatement:
		c.expr(n.Argument)
	case *TryStatement:
		c.block(n.Block)
		if n.Handler != nil {
			c = append(c, Child{Node: n.Handler})
		}
		c.block(n.Finalizer)
	case *CatchClause:
		c.expr(n.Param)
		c.block(n.Body)
	case *WhileStatement:
		c.expr(n.Test)
		c.stmt(n.Body)
	case *DoWhileStatement:
		c.stmt(n.Body)
		c.expr(n.Test)
	case *ForStatement:
		c.forInit(n.Init)
		c.expr(n.Test)
		c.expr(n.Update)
		c.stmt(n.Body)
	case *ForInStatement:
		c.forInit(n.Left)
		c.expr(n.Right)
		c.stmt(n.Body)
	case *FunctionDeclaration:
		c.function(&n.Function)
	case *VariableDeclaration:
		for _, d := range n.Declarations {
			c = append(c, Child{Node: d})
		}
	case *VariableDeclarator:
		c.expr(n.ID)
		c.expr(n.Init)
	case *ArrayExpression:
		c.exprs(n.Elements)
	case *ObjectExpression:
		c.properties(n.Properties)
	case *Property:
		c.expr(n.Key)
		if !n.Shorthand {
			c.expr(n.Value)
		}
	case *FunctionExpression:
		c.function(&n.Function)
	case *SequenceExpression:
		c.exprs(n.Expressions)
	case *UnaryExpression:
		c.expr(n.Argument)
	case *BinaryExpression:
		c.expr(n.Left)
		c.expr(n.Right)
	case *LogicalExpression:
		c.expr(n.Left)
		c.expr(n.Right)
	case *AssignmentExpression:
		c.expr(n.Left)
		c.expr(n.Right)
	case *UpdateExpression:
		c.expr(n.Argument)
	case *ConditionalExpression:
		c.expr(n.Test)
		c.expr(n.Consequent)
		c.expr(n.Alternate)
	case *NewExpression:
		c.expr(n.Callee)
		c.exprs(n.Arguments)
	case *CallExpression:
		c.expr(n.Callee)
		c.exprs(n.Arguments)
	case *MemberExpression:
		c.expr(n.Object)
		c.expr(n.Property)
	case *ObjectPattern:
		c.properties(n.Properties)
	case *ArrayPattern:
		c.exprs(n.Elements)
	}
	return c
}
