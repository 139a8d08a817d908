package undo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshknife/pkg/math"
	"github.com/Faultbox/meshknife/pkg/mesh"
)

func triangle() *mesh.Mesh {
	m := mesh.New("tri")
	a := m.AddVertex(math.V3(0, 0, 0))
	b := m.AddVertex(math.V3(1, 0, 0))
	c := m.AddVertex(math.V3(0, 1, 0))
	m.AddFace(&mesh.Face{Vertices: []mesh.VertexKey{a, b, c}, UV: map[mesh.VertexKey]math.Vec2{}})
	return m
}

type fakeElement string

func (f fakeElement) ElementID() string { return string(f) }

func TestCancelRestores(t *testing.T) {
	m := triangle()
	box := mesh.NewBox("cube", math.V3(0, 0, 0), math.V3(16, 16, 16))
	before, beforeBox := m.Clone(), box.Clone()
	j := NewJournal(nil)

	require.NoError(t, j.Begin(m, box))
	assert.True(t, j.Open())
	m.AddVertex(math.V3(5, 5, 5))
	for _, fk := range m.FaceKeys() {
		m.RemoveFace(fk)
	}
	box.To = math.V3(16, 8, 16)

	require.NoError(t, j.Cancel())
	assert.False(t, j.Open())
	assert.Equal(t, before, m)
	assert.Equal(t, beforeBox, box)
	assert.Empty(t, j.Entries())
}

func TestCommitAndUndo(t *testing.T) {
	box := mesh.NewBox("cube", math.V3(0, 0, 0), math.V3(16, 16, 16))
	before := box.Clone()
	var removed []string
	j := NewJournal(func(id string) { removed = append(removed, id) })

	require.NoError(t, j.Begin(box))
	box.To = math.V3(16, 8, 16)
	upper := mesh.NewBox("cube-2", math.V3(0, 8, 0), math.V3(16, 16, 16))
	require.NoError(t, j.Commit("Split", box, upper))

	entries := j.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Split", entries[0].Label)
	assert.Equal(t, []string{"cube-2"}, entries[0].Created)

	label, err := j.Undo()
	require.NoError(t, err)
	assert.Equal(t, "Split", label)
	assert.Equal(t, before, box)
	assert.Equal(t, []string{"cube-2"}, removed)

	_, err = j.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestUndoOrder(t *testing.T) {
	m := triangle()
	original := m.Clone()
	j := NewJournal(nil)

	require.NoError(t, j.Begin(m))
	m.AddVertex(math.V3(1, 1, 0))
	require.NoError(t, j.Commit("first"))
	afterFirst := m.Clone()

	require.NoError(t, j.Begin(m))
	m.AddVertex(math.V3(2, 2, 0))
	require.NoError(t, j.Commit("second"))

	label, err := j.Undo()
	require.NoError(t, err)
	assert.Equal(t, "second", label)
	assert.Equal(t, afterFirst, m)

	label, err = j.Undo()
	require.NoError(t, err)
	assert.Equal(t, "first", label)
	assert.Equal(t, original, m)
}

func TestTransactionErrors(t *testing.T) {
	m := triangle()
	j := NewJournal(nil)

	assert.ErrorIs(t, j.Commit("x"), ErrNoTransaction)
	assert.ErrorIs(t, j.Cancel(), ErrNoTransaction)
	assert.ErrorIs(t, j.Begin(fakeElement("odd")), ErrUnsupportedType)
	assert.False(t, j.Open())

	require.NoError(t, j.Begin(m))
	assert.ErrorIs(t, j.Begin(m), ErrInTransaction)
	_, err := j.Undo()
	assert.ErrorIs(t, err, ErrInTransaction)
}
