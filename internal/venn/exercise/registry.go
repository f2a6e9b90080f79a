package exercise

import (
	"sort"
	"sync"
)

// Registry holds the exercises available for evaluation. The reference
// exercise is always present; a file with id "reference" shadows it until
// the file is removed.
type Registry struct {
	mu        sync.RWMutex
	exercises map[string]*Exercise
	builtin   *Exercise
	lastGen   uint64
}

// NewRegistry creates a registry containing the built-in reference exercise
func NewRegistry() *Registry {
	ref := Reference()
	ref.generation = 1
	return &Registry{
		exercises: map[string]*Exercise{ref.ID: ref},
		builtin:   ref,
		lastGen:   1,
	}
}

// Get returns an exercise by id
func (r *Registry) Get(id string) (*Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.exercises[id]
	if !ok {
		return nil, ErrExerciseNotFound
	}
	return e, nil
}

// List returns all exercises sorted by id
func (r *Registry) List() []*Exercise {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Exercise, 0, len(r.exercises))
	for _, e := range r.exercises {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Len returns the number of registered exercises
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.exercises)
}

// Put adds or replaces a validated exercise and stamps it with a new
// generation. e must not be shared with readers yet.
func (r *Registry) Put(e *Exercise) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastGen++
	e.generation = r.lastGen
	r.exercises[e.ID] = e
}

// Remove deletes an exercise. Removing a file-backed "reference" restores
// the built-in one; the built-in itself cannot be removed.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.exercises[id]
	if !ok {
		return ErrExerciseNotFound
	}
	if id == r.builtin.ID {
		if e == r.builtin {
			return ErrBuiltin
		}
		r.exercises[id] = r.builtin
		return nil
	}
	delete(r.exercises, id)
	return nil
}

// removeSource deletes whichever exercise was loaded from path
func (r *Registry) removeSource(path string) (string, bool) {
	r.mu.RLock()
	var id string
	for _, e := range r.exercises {
		if e.SourceFile == path {
			id = e.ID
			break
		}
	}
	r.mu.RUnlock()

	if id == "" {
		return "", false
	}
	return id, r.Remove(id) == nil
}
