// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     setalgebra
// Description: Evaluation of expression trees against an atom table
// Author:      Mike Stoffels
// Created:     2026-09-28
// License:     MIT
// ============================================================================

package setalgebra

import (
	"fmt"
	"unicode/utf8"
)

// MaxExpressionLength bounds the number of non-whitespace runes Evaluate
// accepts. Recursion depth of the parser is linear in this length.
const MaxExpressionLength = 4096

// Evaluate parses expression and evaluates it against table. Whitespace is
// ignored. A non-nil error is always a *ParseError.
func Evaluate(expression string, table *AtomTable) (Set, error) {
	expr, err := ParseBounded(expression)
	if err != nil {
		return Set{}, err
	}
	return Eval(expr, table), nil
}

// ParseBounded is Parse with the MaxExpressionLength guard applied. Input
// longer than the limit fails with UnexpectedToken at the first rune past it.
func ParseBounded(expression string) (Expr, error) {
	stripped := StripWhitespace(expression)
	if n := utf8.RuneCountInString(stripped); n > MaxExpressionLength {
		runes, invalid := decodeRunes(stripped)
		return nil, &ParseError{
			Kind:     UnexpectedToken,
			Position: MaxExpressionLength,
			Found:    symbolText(runes, invalid, MaxExpressionLength),
			Expected: endOnly,
		}
	}
	return Parse(stripped)
}

// Eval evaluates a parsed expression. It cannot fail for trees produced by
// Parse; an atom missing from the table is a programming error and panics.
func Eval(expr Expr, table *AtomTable) Set {
	switch e := expr.(type) {
	case *AtomExpr:
		base, ok := table.Lookup(e.Name)
		if !ok {
			panic(fmt.Sprintf("setalgebra: atom %q not in atom table", e.Name))
		}
		return evalChain(e.Chain, base, table)
	case *GroupExpr:
		return evalChain(e.Chain, Eval(e.Inner, table), table)
	default:
		panic(fmt.Sprintf("setalgebra: unknown expression node %T", expr))
	}
}

func evalChain(chain Chain, acc Set, table *AtomTable) Set {
	switch c := chain.(type) {
	case Identity:
		return acc
	case *UnionWith:
		return acc.Union(Eval(c.RHS, table))
	case *IntersectWith:
		return acc.Intersect(Eval(c.RHS, table))
	case *ComplementThen:
		return evalChain(c.Rest, acc.Complement(table.Universe()), table)
	default:
		panic(fmt.Sprintf("setalgebra: unknown operator chain %T", chain))
	}
}
