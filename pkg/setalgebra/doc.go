// Package setalgebra parses and evaluates set-algebra expressions over a
// small finite universe, as typed by students into the Venn diagram
// exercises.
//
// The language has five atoms (A, B, C, the universal set U and the empty
// set ∅), the binary operators ∪ and ∩, the postfix complement ' and
// parentheses. Whitespace is ignored.
//
//	table := setalgebra.ReferenceTable()
//	set, err := setalgebra.Evaluate("(A∪B)'", table)
//	if err != nil {
//		var pe *setalgebra.ParseError
//		errors.As(err, &pe) // pe.Kind, pe.Position, pe.Found, pe.Expected
//	}
//	fmt.Println(set) // {3, 8}
//
// Binary operators associate to the right and share one precedence level:
// "A∪B∩C" means "A∪(B∩C)". Use Explain to show the grouping to users.
//
// Parsing and evaluation are pure. An AtomTable is immutable, so one table
// may serve any number of concurrent evaluations.
package setalgebra
