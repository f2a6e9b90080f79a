package exercise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, src string) *Exercise {
	t.Helper()
	e, err := Decode([]byte(src))
	require.NoError(t, err)
	return e
}

func TestRegistry_BuiltinPresent(t *testing.T) {
	r := NewRegistry()

	e, err := r.Get(ReferenceID)
	require.NoError(t, err)
	assert.Equal(t, "Drei Mengen", e.Title)
	assert.Equal(t, 1, r.Len())

	_, err = r.Get("missing")
	assert.True(t, IsNotFound(err))
}

func TestRegistry_ListSorted(t *testing.T) {
	r := NewRegistry()
	r.Put(mustDecode(t, "id: zeta\nuniverse: [1]\n"))
	r.Put(mustDecode(t, "id: alpha\nuniverse: [1]\n"))

	var ids []string
	for _, e := range r.List() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"alpha", ReferenceID, "zeta"}, ids)
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	r.Put(mustDecode(t, "id: kurse\nuniverse: [1]\n"))

	require.NoError(t, r.Remove("kurse"))
	assert.ErrorIs(t, r.Remove("kurse"), ErrExerciseNotFound)
	assert.ErrorIs(t, r.Remove(ReferenceID), ErrBuiltin)
}

func TestRegistry_ShadowBuiltin(t *testing.T) {
	r := NewRegistry()
	custom := mustDecode(t, "id: reference\ntitle: Eigene Referenz\nuniverse: [1, 2]\n")
	r.Put(custom)

	e, err := r.Get(ReferenceID)
	require.NoError(t, err)
	assert.Equal(t, "Eigene Referenz", e.Title)

	// Removing the shadow restores the built-in exercise
	require.NoError(t, r.Remove(ReferenceID))
	e, err = r.Get(ReferenceID)
	require.NoError(t, err)
	assert.Equal(t, "Drei Mengen", e.Title)
}

func TestRegistry_PutAssignsGeneration(t *testing.T) {
	r := NewRegistry()
	ref, err := r.Get(ReferenceID)
	require.NoError(t, err)
	assert.NotZero(t, ref.Generation())

	first := mustDecode(t, "id: kurse\nuniverse: [1]\n")
	second := mustDecode(t, "id: kurse\nuniverse: [1, 2]\n")
	r.Put(first)
	r.Put(second)

	assert.Greater(t, first.Generation(), ref.Generation())
	assert.Greater(t, second.Generation(), first.Generation())

	got, err := r.Get("kurse")
	require.NoError(t, err)
	assert.Equal(t, second.Generation(), got.Generation())
}
