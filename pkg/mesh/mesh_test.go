package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshknife/pkg/math"
)

// unitQuad builds a 1x1 quad on the XY plane with UVs matching positions.
func unitQuad() (*Mesh, FaceKey) {
	m := New("quad")
	a := m.AddVertex(math.V3(0, 0, 0))
	b := m.AddVertex(math.V3(1, 0, 0))
	c := m.AddVertex(math.V3(1, 1, 0))
	d := m.AddVertex(math.V3(0, 1, 0))
	fk := m.AddFace(&Face{
		Vertices: []VertexKey{a, b, c, d},
		UV: map[VertexKey]math.Vec2{
			a: {X: 0, Y: 0}, b: {X: 16, Y: 0}, c: {X: 16, Y: 16}, d: {X: 0, Y: 16},
		},
	})
	return m, fk
}

func TestAddVertexSkipsTakenKeys(t *testing.T) {
	m := New("m")
	m.Vertices["v1"] = math.V3(1, 1, 1)
	key := m.AddVertex(math.V3(0, 0, 0))
	assert.Equal(t, VertexKey("v2"), key)
	assert.Len(t, m.Vertices, 2)
}

func TestFaceEdges(t *testing.T) {
	m, fk := unitQuad()
	f := m.Faces[fk]
	assert.True(t, f.HasEdge("v1", "v2"))
	assert.True(t, f.HasEdge("v1", "v4"))
	assert.False(t, f.HasEdge("v1", "v3"), "diagonal is not an edge")
	assert.Equal(t, []Edge{{"v1", "v2"}, {"v2", "v3"}, {"v3", "v4"}, {"v1", "v4"}}, f.Edges())
}

func TestNewEdgeIsUnordered(t *testing.T) {
	assert.Equal(t, NewEdge("a", "b"), NewEdge("b", "a"))
	e := NewEdge("x", "y")
	assert.True(t, e.Has("y"))
	assert.Equal(t, VertexKey("x"), e.Other("y"))
}

func TestRemoveVertexDropsDegenerateFaces(t *testing.T) {
	m, fk := unitQuad()
	m.RemoveVertex("v1")
	require.Contains(t, m.Faces, fk)
	assert.Equal(t, []VertexKey{"v2", "v3", "v4"}, m.Faces[fk].Vertices)
	assert.NotContains(t, m.Faces[fk].UV, VertexKey("v1"))

	m.RemoveVertex("v2")
	assert.NotContains(t, m.Faces, fk)
}

func TestCloneIsIndependent(t *testing.T) {
	m, fk := unitQuad()
	c := m.Clone()
	c.Faces[fk].Vertices[0] = "zz"
	c.Vertices["v1"] = math.V3(9, 9, 9)
	assert.Equal(t, VertexKey("v1"), m.Faces[fk].Vertices[0])
	assert.Equal(t, math.V3(0, 0, 0), m.Vertices["v1"])

	m.AddVertex(math.V3(5, 5, 5))
	m.Restore(c)
	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, VertexKey("zz"), m.Faces[fk].Vertices[0])
}

func TestFaceGeometry(t *testing.T) {
	m, fk := unitQuad()
	assert.Equal(t, math.V3(0, 0, 1), m.Normal(fk))
	assert.InDelta(t, 1.0, m.Area(fk), 1e-12)
	assert.Equal(t, math.V3(0.5, 0.5, 0), m.Centroid(fk))
	assert.Equal(t, []FaceKey{fk}, m.FacesWithEdge("v2", "v3"))
	assert.Equal(t, []FaceKey{fk}, m.FacesWithVertex("v4"))
}

func TestUVRoundTrip(t *testing.T) {
	m, fk := unitQuad()
	uv, ok := m.UVAt(fk, math.V3(0.25, 0.75, 0))
	require.True(t, ok)
	assert.InDelta(t, 4, uv.X, 1e-9)
	assert.InDelta(t, 12, uv.Y, 1e-9)

	p, ok := m.PointAtUV(fk, math.V2(8, 4))
	require.True(t, ok)
	assert.InDelta(t, 0.5, p.X, 1e-9)
	assert.InDelta(t, 0.25, p.Y, 1e-9)
}

func TestValidate(t *testing.T) {
	m, fk := unitQuad()
	assert.Empty(t, Validate(m))

	dup := m.Faces[fk].Clone()
	dup.Vertices = []VertexKey{"v3", "v4", "v1", "v2"}
	m.AddFace(dup)
	problems := Validate(m)
	require.True(t, HasErrors(problems))
	assert.Contains(t, problems[0].Message, "duplicates face")

	m2, _ := unitQuad()
	m2.AddFace(&Face{Vertices: []VertexKey{"v1", "v2", "nope"}})
	m2.AddFace(&Face{Vertices: []VertexKey{"v1", "v2"}})
	m2.AddFace(&Face{Vertices: []VertexKey{"v1", "v2", "v2"}})
	problems = Validate(m2)
	var msgs []string
	for _, p := range problems {
		msgs = append(msgs, p.Message)
	}
	assert.Contains(t, msgs, "references missing vertex nope")
	assert.Contains(t, msgs, "has 2 vertices, want 3 or 4")
	assert.Contains(t, msgs, "repeats a vertex")
}

func TestValidateDegenerateAndFanIn(t *testing.T) {
	m := New("m")
	a := m.AddVertex(math.V3(0, 0, 0))
	b := m.AddVertex(math.V3(1, 0, 0))
	c := m.AddVertex(math.V3(2, 0, 0))
	m.AddFace(&Face{Vertices: []VertexKey{a, b, c}})
	problems := Validate(m)
	require.Len(t, problems, 1)
	assert.Equal(t, "is degenerate", problems[0].Message)

	m2 := New("fan")
	p := m2.AddVertex(math.V3(0, 0, 0))
	q := m2.AddVertex(math.V3(1, 0, 0))
	for _, tip := range []math.Vec3{{X: 0, Y: 1}, {X: 0, Y: -1}, {X: 0, Z: 1}} {
		r := m2.AddVertex(tip)
		m2.AddFace(&Face{Vertices: []VertexKey{p, q, r}})
	}
	problems = Validate(m2)
	assert.False(t, HasErrors(problems))
	assert.Len(t, problems, 3)
}
