package knife

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshknife/pkg/math"
)

// planarCut builds a faceCut in the XY plane from corner positions.
func planarCut(corners ...math.Vec2) *faceCut {
	fc := &faceCut{}
	for _, c := range corners {
		fc.addCorner(splitVertex{Pos: math.V3(c.X, c.Y, 0), Flat: c, UV: c})
	}
	return fc
}

func (fc *faceCut) edgeAt(edge int, t float64) int {
	a := fc.Vertices[edge].Flat
	b := fc.Vertices[(edge+1)%fc.Corners].Flat
	p := a.Lerp(b, t)
	return fc.addPoint(splitVertex{Pos: math.V3(p.X, p.Y, 0), Flat: p, UV: p, Edge: edge, T: t})
}

func (fc *faceCut) interior(x, y float64) int {
	return fc.addPoint(splitVertex{Pos: math.V3(x, y, 0), Flat: math.V2(x, y), UV: math.V2(x, y), Edge: -1})
}

func square() *faceCut {
	return planarCut(math.V2(0, 0), math.V2(1, 0), math.V2(1, 1), math.V2(0, 1))
}

// checkSplit verifies the properties every split must have: faces are CCW
// triangles or quads without repeated vertex sets, cover the original area,
// and keep every cut line as an edge of exactly two faces.
func checkSplit(t *testing.T, fc *faceCut, faces [][]int) {
	t.Helper()

	ring := make([]math.Vec2, fc.Corners)
	for i := range ring {
		ring[i] = fc.Vertices[i].Flat
	}
	want := gomath.Abs(math.PolygonArea(ring))

	var got float64
	seen := make(map[vertexSet]bool)
	edges := make(map[localEdge]int)
	for _, f := range faces {
		require.GreaterOrEqual(t, len(f), 3)
		require.LessOrEqual(t, len(f), 4)
		set := newVertexSet(f)
		require.False(t, seen[set], "duplicate face %v", f)
		seen[set] = true

		poly := make([]math.Vec2, len(f))
		for i, id := range f {
			poly[i] = fc.Vertices[id].Flat
			edges[newLocalEdge(id, f[(i+1)%len(f)])]++
		}
		area := math.PolygonArea(poly)
		require.Greater(t, area, 0.0, "face %v is not counter-clockwise", f)
		got += area
	}
	assert.InDelta(t, want, got, 1e-9)

	for _, e := range fc.cutLines() {
		assert.Equal(t, 2, edges[e], "cut line %v", e)
	}
	for e, n := range edges {
		assert.LessOrEqual(t, n, 2, "edge %v", e)
	}
	// Every inserted vertex is used.
	for id := fc.Corners; id < len(fc.Vertices); id++ {
		used := false
		for _, f := range faces {
			if indexOf(f, id) >= 0 {
				used = true
			}
		}
		assert.True(t, used, "vertex %d unused", id)
	}
}

func TestSplitOppositeEdges(t *testing.T) {
	fc := square()
	p1 := fc.edgeAt(0, 0.5)
	p2 := fc.edgeAt(2, 0.5)
	fc.Path = []int{p1, p2}

	faces, ok := splitFace(fc, 8)
	require.True(t, ok)
	require.Len(t, faces, 2)
	for _, f := range faces {
		assert.Len(t, f, 4, "expected two quads, got %v", faces)
		assert.True(t, hasSide(f, newLocalEdge(p1, p2)))
	}
	checkSplit(t, fc, faces)
}

func TestSplitDiagonal(t *testing.T) {
	fc := square()
	fc.Path = []int{0, 2}

	faces, ok := splitFace(fc, 8)
	require.True(t, ok)
	require.Len(t, faces, 2)
	for _, f := range faces {
		assert.Len(t, f, 3)
	}
	checkSplit(t, fc, faces)
}

func TestSplitTriangleFromCorner(t *testing.T) {
	fc := planarCut(math.V2(0, 0), math.V2(1, 0), math.V2(0, 1))
	mid := fc.edgeAt(1, 0.5)
	fc.Path = []int{0, mid}

	faces, ok := splitFace(fc, 8)
	require.True(t, ok)
	require.Len(t, faces, 2)
	checkSplit(t, fc, faces)
}

func TestSplitInteriorSlit(t *testing.T) {
	fc := square()
	m1 := fc.interior(0.3, 0.5)
	m2 := fc.interior(0.7, 0.5)
	fc.Path = []int{m1, m2}

	faces, ok := splitFace(fc, 8)
	require.True(t, ok)
	assert.Len(t, faces, 4)
	checkSplit(t, fc, faces)
}

func TestSplitPolyline(t *testing.T) {
	fc := square()
	p1 := fc.edgeAt(3, 0.5) // (0, 0.5)
	m := fc.interior(0.5, 0.6)
	p2 := fc.edgeAt(1, 0.5) // (1, 0.5)
	fc.Path = []int{p1, m, p2}

	faces, ok := splitFace(fc, 8)
	require.True(t, ok)
	checkSplit(t, fc, faces)
}

func TestSplitConforming(t *testing.T) {
	fc := square()
	fc.edgeAt(3, 0.5)
	fc.Conforming = true
	fc.Path = []int{4}

	assert.Empty(t, fc.cutLines())
	faces, ok := splitFace(fc, 8)
	require.True(t, ok)
	checkSplit(t, fc, faces)
}

func TestSplitDeterministic(t *testing.T) {
	build := func() *faceCut {
		fc := square()
		a := fc.edgeAt(0, 0.25)
		b := fc.interior(0.4, 0.4)
		c := fc.edgeAt(2, 0.75)
		fc.Path = []int{a, b, c}
		return fc
	}
	first, ok := splitFace(build(), 8)
	require.True(t, ok)
	second, ok := splitFace(build(), 8)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestSplitFailsOutsideFace(t *testing.T) {
	// An L-shaped ring where the cut line leaves the polygon cannot be
	// covered, so the caller keeps the original face.
	fc := planarCut(math.V2(0, 0), math.V2(2, 0), math.V2(2, 1), math.V2(1, 1), math.V2(1, 2), math.V2(0, 2))
	fc.Path = []int{2, 4}

	_, ok := splitFace(fc, 8)
	assert.False(t, ok)
}

func TestPerimeterRingOrder(t *testing.T) {
	fc := square()
	far := fc.edgeAt(0, 0.75)
	near := fc.edgeAt(0, 0.25)
	top := fc.edgeAt(2, 0.5)

	assert.Equal(t, []int{0, near, far, 1, 2, top, 3}, perimeterRing(fc))
}

func TestCutLinesSkipBoundary(t *testing.T) {
	fc := square()
	a := fc.edgeAt(0, 0.25)
	b := fc.edgeAt(0, 0.75)
	c := fc.interior(0.5, 0.5)
	fc.Path = []int{a, b, b, c, -1, a}

	assert.Equal(t, []localEdge{newLocalEdge(b, c)}, fc.cutLines())
}
