package service

import (
	"fmt"
	"sort"

	"github.com/msto63/venn/internal/venn/exercise"
	"github.com/msto63/venn/pkg/setalgebra"
)

// ExerciseInfo is the transport form of an exercise
type ExerciseInfo struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Universe    []uint            `json:"universe"`
	Atoms       map[string][]uint `json:"atoms"`
	Examples    []ExampleInfo     `json:"examples,omitempty"`
	Labels      map[uint]string   `json:"labels,omitempty"`
	Builtin     bool              `json:"builtin"`
}

// ExampleInfo is an example expression with its expected result
type ExampleInfo struct {
	Expression string `json:"expression"`
	Expected   []uint `json:"expected"`
	Note       string `json:"note,omitempty"`
}

// Describe converts an exercise into its transport form
func Describe(ex *exercise.Exercise) ExerciseInfo {
	info := ExerciseInfo{
		ID:          ex.ID,
		Title:       ex.Title,
		Description: ex.Description,
		Universe:    elements(ex.Universe.Set),
		Atoms:       make(map[string][]uint, len(ex.Atoms)),
		Labels:      ex.Labels,
		Builtin:     ex.SourceFile == "",
	}
	for name, spec := range ex.Atoms {
		info.Atoms[name] = elements(spec.Set)
	}
	for _, e := range ex.Examples {
		info.Examples = append(info.Examples, ExampleInfo{
			Expression: e.Expression,
			Expected:   elements(e.Expected.Set),
			Note:       e.Note,
		})
	}
	return info
}

// DescribeAll converts exercises, keeping them sorted by id
func DescribeAll(exercises []*exercise.Exercise) []ExerciseInfo {
	infos := make([]ExerciseInfo, 0, len(exercises))
	for _, ex := range exercises {
		infos = append(infos, Describe(ex))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Table rebuilds the atom table described by info
func (info ExerciseInfo) Table() (*setalgebra.AtomTable, error) {
	var sets [4]setalgebra.Set
	for i, elems := range [][]uint{
		info.Atoms[setalgebra.AtomA],
		info.Atoms[setalgebra.AtomB],
		info.Atoms[setalgebra.AtomC],
		info.Universe,
	} {
		set, err := setalgebra.SetOf(elems)
		if err != nil {
			return nil, fmt.Errorf("exercise %q: %w", info.ID, err)
		}
		sets[i] = set
	}

	table, err := setalgebra.NewAtomTable(sets[0], sets[1], sets[2], sets[3])
	if err != nil {
		return nil, fmt.Errorf("exercise %q: %w", info.ID, err)
	}
	return table, nil
}

func elements(s setalgebra.Set) []uint {
	elems := s.Elements()
	out := make([]uint, len(elems))
	for i, e := range elems {
		out[i] = uint(e)
	}
	return out
}
