// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     exercise
// Description: YAML exercise definitions binding atoms to concrete sets
// Author:      Mike Stoffels
// Created:     2026-09-30
// License:     MIT
// ============================================================================

package exercise

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/msto63/venn/pkg/setalgebra"
	"gopkg.in/yaml.v3"
)

// ReferenceID is the id of the built-in three-circle exercise
const ReferenceID = "reference"

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// SetSpec is a set as written in YAML: either a sequence of elements
// ([1, 4, 5, 7]) or a string ("{1, 4, 5, 7}", "∅").
type SetSpec struct {
	setalgebra.Set
}

// UnmarshalYAML accepts both sequence and string notation
func (s *SetSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var elems []uint
		if err := node.Decode(&elems); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		set, err := setalgebra.SetOf(elems)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrInvalidExercise, node.Line, err)
		}
		s.Set = set
		return nil
	case yaml.ScalarNode:
		set, err := setalgebra.ParseSet(node.Value)
		if errors.Is(err, setalgebra.ErrElementRange) {
			return fmt.Errorf("%w: line %d: %v", ErrInvalidExercise, node.Line, err)
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		s.Set = set
		return nil
	default:
		return fmt.Errorf("line %d: set must be a list or a string", node.Line)
	}
}

// MarshalYAML writes the set as a flow sequence
func (s SetSpec) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, e := range s.Elements() {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: fmt.Sprintf("%d", e),
		})
	}
	return node, nil
}

// Example is an expression with its expected result
type Example struct {
	Expression string  `yaml:"expression" json:"expression"`
	Expected   SetSpec `yaml:"expected" json:"-"`
	Note       string  `yaml:"note,omitempty" json:"note,omitempty"`
}

// Exercise represents an exercise definition loaded from YAML
type Exercise struct {
	ID          string             `yaml:"id"`
	Title       string             `yaml:"title"`
	Description string             `yaml:"description,omitempty"`
	Universe    SetSpec            `yaml:"universe"`
	Atoms       map[string]SetSpec `yaml:"atoms"`
	Examples    []Example          `yaml:"examples,omitempty"`

	// Region labels shown in the shell, keyed by element
	Labels map[uint]string `yaml:"labels,omitempty"`

	// Internal tracking (not from YAML)
	SourceFile string                `yaml:"-"`
	LoadedAt   time.Time             `yaml:"-"`
	table      *setalgebra.AtomTable `yaml:"-"`
	generation uint64
}

// Defaults applies default values to the exercise definition
func (e *Exercise) Defaults() {
	if e.Title == "" {
		e.Title = e.ID
	}
	if e.Atoms == nil {
		e.Atoms = make(map[string]SetSpec)
	}
}

// Validate checks the definition, builds its atom table and evaluates every
// example against it.
func (e *Exercise) Validate() error {
	if err := e.validateDefinition(); err != nil {
		return err
	}

	for _, result := range e.CheckExamples() {
		if !result.Passed {
			return fmt.Errorf("%w: %s: example %q: %s", ErrInvalidExercise, e.ID, result.Expression, result.Reason())
		}
	}
	return nil
}

// validateDefinition checks id, universe and atoms and builds the table
func (e *Exercise) validateDefinition() error {
	if e.ID == "" {
		return ErrMissingID
	}
	if !idPattern.MatchString(e.ID) {
		return fmt.Errorf("%w: id %q must be lowercase letters, digits, '-' or '_'", ErrInvalidExercise, e.ID)
	}
	if e.Universe.IsEmpty() {
		return fmt.Errorf("%w: %s", ErrMissingUniverse, e.ID)
	}

	for name := range e.Atoms {
		switch name {
		case setalgebra.AtomA, setalgebra.AtomB, setalgebra.AtomC:
		default:
			return fmt.Errorf("%w: %s defines %q", ErrUnknownAtom, e.ID, name)
		}
	}

	table, err := setalgebra.NewAtomTable(
		e.Atoms[setalgebra.AtomA].Set,
		e.Atoms[setalgebra.AtomB].Set,
		e.Atoms[setalgebra.AtomC].Set,
		e.Universe.Set,
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidExercise, e.ID, err)
	}
	e.table = table
	return nil
}

// Generation identifies this version of the exercise. The registry assigns
// a new one on every Put, so results cached for a replaced definition are
// never looked up again.
func (e *Exercise) Generation() uint64 {
	return e.generation
}

// Table returns the atom table built by Validate
func (e *Exercise) Table() *setalgebra.AtomTable {
	return e.table
}

// ExampleResult is the outcome of evaluating one example
type ExampleResult struct {
	Expression string
	Expected   setalgebra.Set
	Got        setalgebra.Set
	Err        error
	Passed     bool
}

// Reason describes why an example failed
func (r ExampleResult) Reason() string {
	switch {
	case r.Passed:
		return "ok"
	case r.Err != nil:
		return r.Err.Error()
	default:
		return fmt.Sprintf("got %s, expected %s", r.Got, r.Expected)
	}
}

// CheckExamples evaluates every example against the exercise's atom table.
// Validate must have succeeded in building the table.
func (e *Exercise) CheckExamples() []ExampleResult {
	results := make([]ExampleResult, 0, len(e.Examples))
	for _, ex := range e.Examples {
		got, err := setalgebra.Evaluate(ex.Expression, e.table)
		results = append(results, ExampleResult{
			Expression: ex.Expression,
			Expected:   ex.Expected.Set,
			Got:        got,
			Err:        err,
			Passed:     err == nil && got.Equal(ex.Expected.Set),
		})
	}
	return results
}

// Reference returns the built-in exercise over the eight-region universe
func Reference() *Exercise {
	set := func(elems ...setalgebra.Element) SetSpec {
		return SetSpec{setalgebra.NewSet(elems...)}
	}

	e := &Exercise{
		ID:          ReferenceID,
		Title:       "Drei Mengen",
		Description: "Drei sich überschneidende Kreise; jedes Element steht für eine Region des Diagramms.",
		Universe:    SetSpec{setalgebra.Range(1, 8)},
		Atoms: map[string]SetSpec{
			setalgebra.AtomA: set(1, 4, 5, 7),
			setalgebra.AtomB: set(2, 5, 6, 7),
			setalgebra.AtomC: set(3, 4, 6, 7),
		},
		Examples: []Example{
			{Expression: "A∪B", Expected: set(1, 2, 4, 5, 6, 7)},
			{Expression: "A∩B", Expected: set(5, 7)},
			{Expression: "(A∪B∪C)'", Expected: set(8)},
			{Expression: "A∪B∩C", Expected: set(1, 4, 5, 6, 7), Note: "wird als A∪(B∩C) gelesen"},
		},
		Labels: map[uint]string{
			1: "nur A",
			2: "nur B",
			3: "nur C",
			4: "A und C",
			5: "A und B",
			6: "B und C",
			7: "A, B und C",
			8: "außerhalb",
		},
	}
	e.Defaults()
	if err := e.Validate(); err != nil {
		panic(err)
	}
	return e
}
