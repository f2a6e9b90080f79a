package setalgebra

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSet_ZeroValueIsEmpty(t *testing.T) {
	var s Set

	if !s.IsEmpty() {
		t.Error("zero Set should be empty")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.Contains(0) {
		t.Error("zero Set should not contain 0")
	}
	if got := s.String(); got != "{}" {
		t.Errorf("String() = %q, want {}", got)
	}
	if got := s.Elements(); len(got) != 0 {
		t.Errorf("Elements() = %v, want empty", got)
	}
}

func TestSet_Operations(t *testing.T) {
	a := NewSet(1, 4, 5, 7)
	b := NewSet(2, 5, 6, 7)
	u := Range(1, 8)

	tests := []struct {
		name string
		got  Set
		want []Element
	}{
		{"union", a.Union(b), []Element{1, 2, 4, 5, 6, 7}},
		{"intersect", a.Intersect(b), []Element{5, 7}},
		{"difference", a.Difference(b), []Element{1, 4}},
		{"complement", a.Complement(u), []Element{2, 3, 6, 8}},
		{"union with empty", a.Union(Set{}), []Element{1, 4, 5, 7}},
		{"intersect with empty", a.Intersect(Set{}), []Element{}},
		{"complement of empty", Set{}.Complement(u), []Element{1, 2, 3, 4, 5, 6, 7, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got.Elements()); diff != "" {
				t.Errorf("elements mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSet_OperandsAreNotModified(t *testing.T) {
	a := NewSet(1, 2)
	b := NewSet(2, 3)

	_ = a.Union(b)
	_ = a.Intersect(b)
	_ = a.Difference(b)
	_ = a.Complement(Range(1, 8))

	if !a.Equal(NewSet(1, 2)) {
		t.Errorf("a modified: %s", a)
	}
	if !b.Equal(NewSet(2, 3)) {
		t.Errorf("b modified: %s", b)
	}
}

func TestSet_EqualIgnoresCapacity(t *testing.T) {
	small := NewSet(3)
	large := NewSet(3, 1000).Intersect(NewSet(3))

	if !small.Equal(large) {
		t.Errorf("%s should equal %s", small, large)
	}
	if !large.Equal(small) {
		t.Errorf("%s should equal %s", large, small)
	}
	if small.Equal(NewSet(4)) {
		t.Error("{3} should not equal {4}")
	}
	if !(Set{}).Equal(NewSet(5).Difference(NewSet(5))) {
		t.Error("empty sets should be equal")
	}
}

func TestSet_IsSubsetOf(t *testing.T) {
	u := Range(1, 8)

	if !NewSet(1, 8).IsSubsetOf(u) {
		t.Error("{1, 8} should be a subset of U")
	}
	if NewSet(0).IsSubsetOf(u) {
		t.Error("{0} should not be a subset of U")
	}
	if NewSet(9).IsSubsetOf(u) {
		t.Error("{9} should not be a subset of U")
	}
	if !(Set{}).IsSubsetOf(Set{}) {
		t.Error("empty set should be a subset of itself")
	}
}

func TestSet_ElementsSorted(t *testing.T) {
	s := NewSet(7, 1, 5, 4, 7)

	want := []Element{1, 4, 5, 7}
	if diff := cmp.Diff(want, s.Elements()); diff != "" {
		t.Errorf("Elements() mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
	if got := s.String(); got != "{1, 4, 5, 7}" {
		t.Errorf("String() = %q", got)
	}
}

func TestRange(t *testing.T) {
	if got := Range(3, 5).String(); got != "{3, 4, 5}" {
		t.Errorf("Range(3, 5) = %s", got)
	}
	if !Range(5, 3).IsEmpty() {
		t.Error("Range(5, 3) should be empty")
	}
}

func TestParseSet(t *testing.T) {
	tests := []struct {
		input   string
		want    []Element
		wantErr bool
	}{
		{"{1, 4, 5, 7}", []Element{1, 4, 5, 7}, false},
		{"1,4,5,7", []Element{1, 4, 5, 7}, false},
		{"{}", []Element{}, false},
		{"∅", []Element{}, false},
		{"  { 8 } ", []Element{8}, false},
		{"{1, x}", nil, true},
		{"{-1}", nil, true},
		{"{65536}", []Element{65536}, false},
		{"{65537}", nil, true},
		{"{4294967295}", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSet(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseSet(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSet(%q) unexpected error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got.Elements()); diff != "" {
				t.Errorf("ParseSet(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestNewAtomTable(t *testing.T) {
	u := Range(1, 8)

	table, err := NewAtomTable(NewSet(1), NewSet(2), NewSet(3), u)
	if err != nil {
		t.Fatalf("NewAtomTable failed: %v", err)
	}

	empty, ok := table.Lookup(EmptySymbol)
	if !ok || !empty.IsEmpty() {
		t.Errorf("∅ should be bound to the empty set, got %s (ok=%v)", empty, ok)
	}
	universe, ok := table.Lookup(UniverseAtom)
	if !ok || !universe.Equal(u) {
		t.Errorf("U should be bound to the universe, got %s", universe)
	}
	if _, ok := table.Lookup("D"); ok {
		t.Error("D should not be bound")
	}

	_, err = NewAtomTable(NewSet(1), NewSet(9), NewSet(3), u)
	if !errors.Is(err, ErrNotSubset) {
		t.Errorf("expected ErrNotSubset, got %v", err)
	}
}

func TestMustAtomTable_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustAtomTable should panic on invalid input")
		}
	}()
	MustAtomTable(NewSet(10), Set{}, Set{}, Range(1, 8))
}

func TestReferenceTable(t *testing.T) {
	table := ReferenceTable()

	want := map[string]string{
		AtomA:        "{1, 4, 5, 7}",
		AtomB:        "{2, 5, 6, 7}",
		AtomC:        "{3, 4, 6, 7}",
		UniverseAtom: "{1, 2, 3, 4, 5, 6, 7, 8}",
		EmptySymbol:  "{}",
	}
	for name, w := range want {
		s, ok := table.Lookup(name)
		if !ok {
			t.Errorf("atom %s missing", name)
			continue
		}
		if s.String() != w {
			t.Errorf("atom %s = %s, want %s", name, s, w)
		}
	}
}

func TestSetOf(t *testing.T) {
	got, err := SetOf([]uint{7, 1, 7})
	if err != nil {
		t.Fatalf("SetOf unexpected error: %v", err)
	}
	if diff := cmp.Diff([]Element{1, 7}, got.Elements()); diff != "" {
		t.Errorf("SetOf mismatch (-want +got):\n%s", diff)
	}

	_, err = SetOf([]uint{1, ^uint(0)})
	if !errors.Is(err, ErrElementRange) {
		t.Errorf("SetOf(max uint) error = %v, want ErrElementRange", err)
	}
}
