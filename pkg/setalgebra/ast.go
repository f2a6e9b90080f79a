package setalgebra

import "strings"

// Expr is a node of the expression tree: either an *AtomExpr or a
// *GroupExpr. The set of implementations is closed.
type Expr interface {
	// Pos returns the rune index of the first symbol of the node
	Pos() int
	exprNode()
}

// Chain is the parsed continuation that follows an atom or a group and
// describes what happens to the value accumulated so far: Identity,
// *UnionWith, *IntersectWith or *ComplementThen.
type Chain interface {
	chainNode()
}

// AtomExpr is an atom followed by its operator chain.
type AtomExpr struct {
	Name     string
	Chain    Chain
	Position int
}

// GroupExpr is a parenthesised expression followed by its operator chain.
type GroupExpr struct {
	Inner    Expr
	Chain    Chain
	Position int // position of '('
}

// Identity leaves the accumulated value unchanged.
type Identity struct{}

// UnionWith unites the accumulated value with the value of RHS.
type UnionWith struct {
	RHS Expr
}

// IntersectWith intersects the accumulated value with the value of RHS.
type IntersectWith struct {
	RHS Expr
}

// ComplementThen complements the accumulated value and continues with Rest.
type ComplementThen struct {
	Rest Chain
}

func (e *AtomExpr) Pos() int  { return e.Position }
func (e *GroupExpr) Pos() int { return e.Position }

func (*AtomExpr) exprNode()  {}
func (*GroupExpr) exprNode() {}

func (Identity) chainNode()        {}
func (*UnionWith) chainNode()      {}
func (*IntersectWith) chainNode()  {}
func (*ComplementThen) chainNode() {}

// Format renders expr back into canonical source text. Parsing the result
// yields an equivalent tree.
func Format(expr Expr) string {
	var b strings.Builder
	formatExpr(&b, expr)
	return b.String()
}

func formatExpr(b *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case *AtomExpr:
		b.WriteString(e.Name)
		formatChain(b, e.Chain)
	case *GroupExpr:
		b.WriteByte('(')
		formatExpr(b, e.Inner)
		b.WriteByte(')')
		formatChain(b, e.Chain)
	}
}

func formatChain(b *strings.Builder, chain Chain) {
	switch c := chain.(type) {
	case *UnionWith:
		b.WriteRune(UnionSymbol)
		formatExpr(b, c.RHS)
	case *IntersectWith:
		b.WriteRune(IntersectSymbol)
		formatExpr(b, c.RHS)
	case *ComplementThen:
		b.WriteRune(ComplementSymbol)
		formatChain(b, c.Rest)
	}
}

// Explain renders expr with explicit parentheses around every compound
// operand so that the evaluation order is visible. Operators associate to
// the right without precedence, so "A∪B∩C" explains as "A∪(B∩C)".
func Explain(expr Expr) string {
	return explainExpr(expr).text
}

// explained is a partially rendered operand; compound marks text with a
// top-level binary operator that needs parentheses when used as an operand.
type explained struct {
	text     string
	compound bool
}

func (x explained) operand() string {
	if x.compound {
		return "(" + x.text + ")"
	}
	return x.text
}

func explainExpr(expr Expr) explained {
	switch e := expr.(type) {
	case *AtomExpr:
		return explainChain(e.Chain, explained{text: e.Name})
	case *GroupExpr:
		return explainChain(e.Chain, explainExpr(e.Inner))
	default:
		return explained{}
	}
}

func explainChain(chain Chain, acc explained) explained {
	switch c := chain.(type) {
	case *UnionWith:
		rhs := explainExpr(c.RHS)
		return explained{text: acc.operand() + string(UnionSymbol) + rhs.operand(), compound: true}
	case *IntersectWith:
		rhs := explainExpr(c.RHS)
		return explained{text: acc.operand() + string(IntersectSymbol) + rhs.operand(), compound: true}
	case *ComplementThen:
		return explainChain(c.Rest, explained{text: acc.operand() + string(ComplementSymbol)})
	default:
		return acc
	}
}
