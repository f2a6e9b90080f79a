// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     setalgebra
// Description: Immutable finite sets of universe elements backed by bitsets
// Author:      Mike Stoffels
// Created:     2026-09-28
// License:     MIT
// ============================================================================

package setalgebra

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Element is an atomic member of a universe. The reference universe uses
// the identifiers 1..8.
type Element uint

// MaxElement is the largest identifier a set built from external input may
// hold. Sets are bitsets sized to their largest element.
const MaxElement Element = 1 << 16

// ErrElementRange is returned for identifiers above MaxElement
var ErrElementRange = errors.New("set element out of range")

// Set is an immutable finite set of elements. The zero value is the empty
// set. All operations return new sets and never modify their operands.
type Set struct {
	bits *bitset.BitSet
}

// NewSet returns the set containing the given elements.
func NewSet(elems ...Element) Set {
	if len(elems) == 0 {
		return Set{}
	}
	var max Element
	for _, e := range elems {
		if e > max {
			max = e
		}
	}
	b := bitset.New(uint(max) + 1)
	for _, e := range elems {
		b.Set(uint(e))
	}
	return Set{bits: b}
}

// SetOf builds a set from untrusted element identifiers, rejecting any
// above MaxElement.
func SetOf(elems []uint) (Set, error) {
	converted := make([]Element, len(elems))
	for i, e := range elems {
		if e > uint(MaxElement) {
			return Set{}, fmt.Errorf("%w: %d > %d", ErrElementRange, e, MaxElement)
		}
		converted[i] = Element(e)
	}
	return NewSet(converted...), nil
}

// Range returns the set {from, from+1, ..., to}. An empty set is returned
// when to < from.
func Range(from, to Element) Set {
	if to < from {
		return Set{}
	}
	b := bitset.New(uint(to) + 1)
	for e := from; e <= to; e++ {
		b.Set(uint(e))
	}
	return Set{bits: b}
}

func (s Set) raw() *bitset.BitSet {
	if s.bits == nil {
		return bitset.New(0)
	}
	return s.bits
}

// Union returns s ∪ other.
func (s Set) Union(other Set) Set {
	return Set{bits: s.raw().Union(other.raw())}
}

// Intersect returns s ∩ other.
func (s Set) Intersect(other Set) Set {
	return Set{bits: s.raw().Intersection(other.raw())}
}

// Difference returns s \ other.
func (s Set) Difference(other Set) Set {
	return Set{bits: s.raw().Difference(other.raw())}
}

// Complement returns universe \ s.
func (s Set) Complement(universe Set) Set {
	return universe.Difference(s)
}

// Contains reports whether e is a member of s.
func (s Set) Contains(e Element) bool {
	return s.bits != nil && s.bits.Test(uint(e))
}

// Len returns the number of elements in s.
func (s Set) Len() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}

// IsEmpty reports whether s has no elements.
func (s Set) IsEmpty() bool {
	return s.bits == nil || s.bits.None()
}

// Equal reports whether s and other contain the same elements, regardless
// of how they were built.
func (s Set) Equal(other Set) bool {
	return s.raw().SymmetricDifference(other.raw()).None()
}

// IsSubsetOf reports whether every element of s is in other.
func (s Set) IsSubsetOf(other Set) bool {
	return s.Difference(other).IsEmpty()
}

// Elements returns the members of s in ascending order.
func (s Set) Elements() []Element {
	elems := make([]Element, 0, s.Len())
	if s.bits == nil {
		return elems
	}
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		elems = append(elems, Element(i))
	}
	return elems
}

// String renders s as "{1, 4, 5, 7}" with elements in ascending order.
func (s Set) String() string {
	elems := s.Elements()
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = strconv.FormatUint(uint64(e), 10)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ParseSet parses the textual forms accepted in exercise files and on the
// command line: "{1, 4, 5, 7}", "1,4,5,7", "{}" and "∅".
func ParseSet(text string) (Set, error) {
	text = strings.TrimSpace(text)
	if text == EmptySymbol {
		return Set{}, nil
	}
	text = strings.TrimPrefix(text, "{")
	text = strings.TrimSuffix(text, "}")
	text = strings.TrimSpace(text)
	if text == "" {
		return Set{}, nil
	}

	fields := strings.Split(text, ",")
	elems := make([]uint, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		n, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return Set{}, fmt.Errorf("invalid set element %q: %w", f, err)
		}
		elems = append(elems, uint(n))
	}
	return SetOf(elems)
}
