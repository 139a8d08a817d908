package knife

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshknife/internal/config"
	"github.com/Faultbox/meshknife/internal/picking"
	"github.com/Faultbox/meshknife/pkg/math"
	"github.com/Faultbox/meshknife/pkg/mesh"
)

// unitQuad returns a mesh with one quad [(0,0,0),(1,0,0),(1,1,0),(0,1,0)]
// whose UVs span 0..16.
func unitQuad(t *testing.T) (*mesh.Mesh, []mesh.VertexKey, mesh.FaceKey) {
	t.Helper()
	m := mesh.New("plane")
	keys := []mesh.VertexKey{
		m.AddVertex(math.V3(0, 0, 0)),
		m.AddVertex(math.V3(1, 0, 0)),
		m.AddVertex(math.V3(1, 1, 0)),
		m.AddVertex(math.V3(0, 1, 0)),
	}
	fk := m.AddFace(&mesh.Face{
		Vertices: keys,
		UV: map[mesh.VertexKey]math.Vec2{
			keys[0]: math.V2(0, 0),
			keys[1]: math.V2(16, 0),
			keys[2]: math.V2(16, 16),
			keys[3]: math.V2(0, 16),
		},
		Texture: "stone",
	})
	return m, keys, fk
}

// twoQuads returns two unit quads side by side sharing the edge x=1.
// Vertex order: a(0,0) b(1,0) c(1,1) d(0,1) e(2,0) f(2,1).
func twoQuads(t *testing.T) (*mesh.Mesh, map[string]mesh.VertexKey, [2]mesh.FaceKey) {
	t.Helper()
	m := mesh.New("strip")
	v := map[string]mesh.VertexKey{
		"a": m.AddVertex(math.V3(0, 0, 0)),
		"b": m.AddVertex(math.V3(1, 0, 0)),
		"c": m.AddVertex(math.V3(1, 1, 0)),
		"d": m.AddVertex(math.V3(0, 1, 0)),
		"e": m.AddVertex(math.V3(2, 0, 0)),
		"f": m.AddVertex(math.V3(2, 1, 0)),
	}
	uv := func(keys ...mesh.VertexKey) map[mesh.VertexKey]math.Vec2 {
		out := make(map[mesh.VertexKey]math.Vec2)
		for _, k := range keys {
			p := m.Vertices[k]
			out[k] = math.V2(p.X*16, p.Y*16)
		}
		return out
	}
	f1 := m.AddFace(&mesh.Face{Vertices: []mesh.VertexKey{v["a"], v["b"], v["c"], v["d"]}, UV: uv(v["a"], v["b"], v["c"], v["d"])})
	f2 := m.AddFace(&mesh.Face{Vertices: []mesh.VertexKey{v["b"], v["e"], v["f"], v["c"]}, UV: uv(v["b"], v["e"], v["f"], v["c"])})
	return m, v, [2]mesh.FaceKey{f1, f2}
}

func testConfig() config.KnifeConfig {
	return config.Default().Knife
}

func edgePoint(m *mesh.Mesh, a, b mesh.VertexKey, t float64) CutPoint {
	return CutPoint{
		Position: m.Vertices[a].Lerp(m.Vertices[b], t),
		Kind:     KindEdge,
		Edge:     [2]mesh.VertexKey{a, b},
		Snapped:  true,
	}
}

func facePoint(fk mesh.FaceKey, pos math.Vec3) CutPoint {
	return CutPoint{Position: pos, Kind: KindFace, Face: fk}
}

func vertexPoint(m *mesh.Mesh, vk mesh.VertexKey) CutPoint {
	return CutPoint{Position: m.Vertices[vk], Kind: KindVertex, Vertex: vk, Snapped: true}
}

func faceHit(fk mesh.FaceKey, pos math.Vec3) picking.Hit {
	return picking.Hit{Target: "plane", Kind: picking.HitFace, Face: fk, Point: pos, ViewScale: 0.1}
}

// requireValid checks the topology invariants every rebuilt mesh must keep.
func requireValid(t *testing.T, m *mesh.Mesh) {
	t.Helper()
	problems := mesh.Validate(m)
	require.False(t, mesh.HasErrors(problems), "problems: %v", problems)
	for e, n := range m.EdgeFaceCounts() {
		require.LessOrEqual(t, n, 2, "edge %v", e)
	}
}

func totalArea(m *mesh.Mesh, faces []mesh.FaceKey) float64 {
	var sum float64
	for _, fk := range faces {
		sum += m.Area(fk)
	}
	return sum
}

// host records every collaborator call.
type host struct {
	begun      [][]string
	committed  []string
	cancelled  int
	selections []Selection
	warnings   []string
	prompts    []string
	redraws    []string
	scene      map[string]bool
	added      []*mesh.Box
	beginErr   error
	commitErr  error
	removed    []string
}

func newHost(ids ...string) *host {
	h := &host{scene: make(map[string]bool)}
	for _, id := range ids {
		h.scene[id] = true
	}
	return h
}

func (h *host) Host() Host {
	return Host{Undo: h, Selection: h, Notify: h, Scene: h}
}

func (h *host) Begin(elements ...mesh.Element) error {
	if h.beginErr != nil {
		return h.beginErr
	}
	var ids []string
	for _, el := range elements {
		ids = append(ids, el.ElementID())
	}
	h.begun = append(h.begun, ids)
	return nil
}

func (h *host) Commit(label string, _ ...mesh.Element) error {
	if h.commitErr != nil {
		return h.commitErr
	}
	h.committed = append(h.committed, label)
	return nil
}

func (h *host) Cancel() error {
	h.cancelled++
	return nil
}

func (h *host) Select(sel Selection)    { h.selections = append(h.selections, sel) }
func (h *host) Warn(msg string)         { h.warnings = append(h.warnings, msg) }
func (h *host) ConfirmPrompt(id string) { h.prompts = append(h.prompts, id) }
func (h *host) Invalidate(id string)    { h.redraws = append(h.redraws, id) }
func (h *host) Contains(id string) bool { return h.scene[id] }

func (h *host) AddBox(b *mesh.Box) error {
	h.scene[b.ID] = true
	h.added = append(h.added, b)
	return nil
}

func (h *host) Remove(id string) {
	delete(h.scene, id)
	h.removed = append(h.removed, id)
}
