package setalgebra

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEvaluate(t *testing.T, expression string) Set {
	t.Helper()
	set, err := Evaluate(expression, ReferenceTable())
	require.NoError(t, err, "Evaluate(%q)", expression)
	return set
}

func TestEvaluate_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       []Element
	}{
		{"atom", "A", []Element{1, 4, 5, 7}},
		{"union", "A∪B", []Element{1, 2, 4, 5, 6, 7}},
		{"intersection", "A∩B", []Element{5, 7}},
		{"complement", "A'", []Element{2, 3, 6, 8}},
		{"complement of triple union", "(A∪B∪C)'", []Element{8}},
		// No precedence: A∪B∩C groups as A∪(B∩C), not (A∪B)∩C.
		{"right associative union first", "A∪B∩C", []Element{1, 4, 5, 6, 7}},
		{"right associative intersection first", "A∩B∪C", []Element{4, 5, 7}},
		{"complement then union", "A'∪B", []Element{2, 3, 5, 6, 7, 8}},
		{"universe", "U", []Element{1, 2, 3, 4, 5, 6, 7, 8}},
		{"empty", "∅", []Element{}},
		{"complement of universe", "U'", []Element{}},
		{"complement of empty", "∅'", []Element{1, 2, 3, 4, 5, 6, 7, 8}},
		{"nested groups", "((A))'", []Element{2, 3, 6, 8}},
		{"mixed", "A∪B'∩(C∪∅)", []Element{1, 3, 4, 5, 7}},
		{"whitespace", " A ∪\tB ", []Element{1, 2, 4, 5, 6, 7}},
		{"triple intersection", "A∩B∩C", []Element{7}},
		{"only A", "A∩B'∩C'", []Element{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEvaluate(t, tt.expression)
			if diff := cmp.Diff(tt.want, got.Elements()); diff != "" {
				t.Errorf("Evaluate(%q) mismatch (-want +got):\n%s", tt.expression, diff)
			}
		})
	}
}

func TestEvaluate_AlgebraicLaws(t *testing.T) {
	laws := []struct {
		name  string
		left  string
		right string
	}{
		{"De Morgan union", "(A∪B)'", "A'∩B'"},
		{"De Morgan intersection", "(A∩B)'", "A'∪B'"},
		{"double complement", "A''", "A"},
		{"union identity", "A∪∅", "A"},
		{"intersection identity", "A∩U", "A"},
		{"union idempotence", "A∪A", "A"},
		{"intersection idempotence", "A∩A", "A"},
		{"complement union", "A∪A'", "U"},
		{"complement intersection", "A∩A'", "∅"},
		{"union commutes", "A∪B", "B∪A"},
		{"distributive", "A∩(B∪C)", "(A∩B)∪(A∩C)"},
	}

	for _, law := range laws {
		t.Run(law.name, func(t *testing.T) {
			left := mustEvaluate(t, law.left)
			right := mustEvaluate(t, law.right)
			assert.True(t, left.Equal(right), "%s = %s, %s = %s", law.left, left, law.right, right)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		expression string
		kind       ErrorKind
		position   int
		found      string
	}{
		{"A∪", UnexpectedEnd, 2, ""},
		{"(A∪B", UnexpectedEnd, 4, ""},
		{"AB", UnexpectedToken, 1, "B"},
		{"X", UnexpectedToken, 0, "X"},
		{"", UnexpectedEnd, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			set, err := Evaluate(tt.expression, ReferenceTable())
			require.Error(t, err)
			assert.True(t, set.IsEmpty())

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Equal(t, tt.position, pe.Position)
			assert.Equal(t, tt.found, pe.Found)
		})
	}
}

func TestEvaluate_LengthLimit(t *testing.T) {
	atOK := strings.Repeat("'", MaxExpressionLength-1)
	_, err := Evaluate("A"+atOK, ReferenceTable())
	require.NoError(t, err)

	_, err = Evaluate("A"+atOK+"'", ReferenceTable())
	pe, ok := AsParseError(err)
	require.True(t, ok)
	assert.Equal(t, UnexpectedToken, pe.Kind)
	assert.Equal(t, MaxExpressionLength, pe.Position)
}

func TestEvaluate_DeepNesting(t *testing.T) {
	depth := 1000
	expr := strings.Repeat("(", depth) + "A" + strings.Repeat(")'", depth)

	got := mustEvaluate(t, expr)
	assert.True(t, got.Equal(mustEvaluate(t, "A")), "even number of complements should yield A")
}

func TestEvaluate_CustomUniverse(t *testing.T) {
	table, err := NewAtomTable(
		Range(1, 500),
		Range(250, 750),
		NewSet(1, 1000),
		Range(1, 1000),
	)
	require.NoError(t, err)

	got, err := Evaluate("(A∪B)'∩C", table)
	require.NoError(t, err)
	assert.Equal(t, []Element{1000}, got.Elements())

	got, err = Evaluate("A∩B", table)
	require.NoError(t, err)
	assert.Equal(t, 251, got.Len())
}

func TestEval_UnknownAtomPanics(t *testing.T) {
	expr := &AtomExpr{Name: "D", Chain: Identity{}}

	assert.PanicsWithValue(t, `setalgebra: atom "D" not in atom table`, func() {
		Eval(expr, ReferenceTable())
	})
}

func TestEvaluate_ConcurrentUse(t *testing.T) {
	table := ReferenceTable()
	expressions := map[string]string{
		"A∪B":      "{1, 2, 4, 5, 6, 7}",
		"(A∪B∪C)'": "{8}",
		"A∩B":      "{5, 7}",
		"A∪B∩C":    "{1, 4, 5, 6, 7}",
	}

	var wg sync.WaitGroup
	errs := make(chan string, 400)
	for i := 0; i < 100; i++ {
		for expr, want := range expressions {
			wg.Add(1)
			go func(expr, want string) {
				defer wg.Done()
				got, err := Evaluate(expr, table)
				if err != nil {
					errs <- err.Error()
					return
				}
				if got.String() != want {
					errs <- expr + " = " + got.String() + ", want " + want
				}
			}(expr, want)
		}
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}

// randomExpr generates a syntactically valid expression following the
// grammar, bounded by depth.
func randomExpr(r *rand.Rand, depth int) string {
	atoms := []string{AtomA, AtomB, AtomC, UniverseAtom, EmptySymbol}

	var b strings.Builder
	if depth > 0 && r.Intn(3) == 0 {
		b.WriteString("(" + randomExpr(r, depth-1) + ")")
	} else {
		b.WriteString(atoms[r.Intn(len(atoms))])
	}
	b.WriteString(randomChain(r, depth))
	return b.String()
}

func randomChain(r *rand.Rand, depth int) string {
	if depth <= 0 {
		return strings.Repeat("'", r.Intn(2))
	}
	switch r.Intn(4) {
	case 0:
		return ""
	case 1:
		return string(UnionSymbol) + randomExpr(r, depth-1)
	case 2:
		return string(IntersectSymbol) + randomExpr(r, depth-1)
	default:
		return "'" + randomChain(r, depth-1)
	}
}

func TestEvaluate_RandomExpressions(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	table := ReferenceTable()
	universe := table.Universe()

	for i := 0; i < 500; i++ {
		input := randomExpr(r, 5)

		expr, err := Parse(input)
		require.NoError(t, err, "Parse(%q)", input)

		got := Eval(expr, table)
		assert.True(t, got.IsSubsetOf(universe), "%q = %s escapes the universe", input, got)

		// Canonical form round-trips.
		assert.Equal(t, input, Format(expr))

		// The explained form is itself a valid expression with the same value.
		explained, err := Evaluate(Explain(expr), table)
		require.NoError(t, err, "Explain(%q) = %q", input, Explain(expr))
		assert.True(t, got.Equal(explained), "%q vs explained %q", input, Explain(expr))

		// Double complement of the whole expression.
		twice, err := Evaluate("("+input+")''", table)
		require.NoError(t, err)
		assert.True(t, got.Equal(twice), "(%s)'' should equal %s", input, input)
	}
}

func FuzzEvaluate(f *testing.F) {
	for _, seed := range []string{"A", "A∪B∩C", "(A∪B)'", "A''", "AB", "(A∪B", "A∪", ")", "X", "", "((∅)'∩U)"} {
		f.Add(seed)
	}
	table := ReferenceTable()

	f.Fuzz(func(t *testing.T, input string) {
		set, err := Evaluate(input, table)
		if err != nil {
			if _, ok := AsParseError(err); !ok {
				t.Fatalf("Evaluate(%q) returned %T, want *ParseError", input, err)
			}
			return
		}
		if !set.IsSubsetOf(table.Universe()) {
			t.Fatalf("Evaluate(%q) = %s escapes the universe", input, set)
		}
	})
}

func TestParseBounded(t *testing.T) {
	expr, err := ParseBounded(" (A ∪ B)' ")
	require.NoError(t, err)
	assert.Equal(t, "(A∪B)'", Format(expr))

	expr, err = ParseBounded(strings.Repeat("A∪", MaxExpressionLength))
	assert.Nil(t, expr)
	pe, ok := AsParseError(err)
	require.True(t, ok)
	assert.Equal(t, MaxExpressionLength, pe.Position)
	assert.Equal(t, "A", pe.Found)
}
