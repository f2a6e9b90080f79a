// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     setalgebra
// Description: Atom table binding atom symbols to subsets of a universe
// Author:      Mike Stoffels
// Created:     2026-09-28
// License:     MIT
// ============================================================================

package setalgebra

import (
	"errors"
	"fmt"
)

// Atom symbols recognised by the tokenizer.
const (
	AtomA        = "A"
	AtomB        = "B"
	AtomC        = "C"
	UniverseAtom = "U"
	EmptySymbol  = "∅"
)

// ErrNotSubset is returned by NewAtomTable when an atom set contains
// elements outside the universe.
var ErrNotSubset = errors.New("atom set is not a subset of the universe")

// AtomTable maps every atom symbol to its base set. It is immutable once
// built and safe for concurrent use.
type AtomTable struct {
	atoms    map[string]Set
	universe Set
}

// NewAtomTable builds an atom table from the three named sets and the
// universe. U is bound to the universe and ∅ to the empty set.
func NewAtomTable(a, b, c, universe Set) (*AtomTable, error) {
	named := []struct {
		name string
		set  Set
	}{
		{AtomA, a},
		{AtomB, b},
		{AtomC, c},
	}

	atoms := make(map[string]Set, 5)
	for _, n := range named {
		if !n.set.IsSubsetOf(universe) {
			extra := n.set.Difference(universe)
			return nil, fmt.Errorf("atom %s: %w (extra elements %s)", n.name, ErrNotSubset, extra)
		}
		atoms[n.name] = n.set
	}
	atoms[UniverseAtom] = universe
	atoms[EmptySymbol] = Set{}

	return &AtomTable{atoms: atoms, universe: universe}, nil
}

// MustAtomTable is like NewAtomTable but panics on invalid input. It is
// intended for package-level tables built from constants.
func MustAtomTable(a, b, c, universe Set) *AtomTable {
	t, err := NewAtomTable(a, b, c, universe)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the set bound to the atom symbol.
func (t *AtomTable) Lookup(name string) (Set, bool) {
	s, ok := t.atoms[name]
	return s, ok
}

// Universe returns the universal set of the table.
func (t *AtomTable) Universe() Set {
	return t.universe
}

// ReferenceTable returns the eight-element reference universe used by the
// three-circle Venn diagram: every element stands for one region.
//
//	A = {1,4,5,7}  B = {2,5,6,7}  C = {3,4,6,7}  U = {1..8}
func ReferenceTable() *AtomTable {
	return MustAtomTable(
		NewSet(1, 4, 5, 7),
		NewSet(2, 5, 6, 7),
		NewSet(3, 4, 6, 7),
		Range(1, 8),
	)
}
