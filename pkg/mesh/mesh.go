// Package mesh holds the editable polygon mesh and box element data model.
//
// Vertices and faces are addressed by stable string keys rather than slice
// indices so that references survive insertions and deletions while a mesh
// is being edited.
package mesh

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/Faultbox/meshknife/pkg/math"
)

// VertexKey identifies a vertex within a mesh.
type VertexKey string

// FaceKey identifies a face within a mesh.
type FaceKey string

// Face is a triangle or quad. Vertices are in winding order; UV holds one
// texture coordinate per vertex key.
type Face struct {
	Vertices []VertexKey
	UV       map[VertexKey]math.Vec2
	Texture  string
}

// Contains reports whether the face references vk.
func (f *Face) Contains(vk VertexKey) bool {
	return slices.Contains(f.Vertices, vk)
}

// HasEdge reports whether a and b are adjacent on the face boundary.
func (f *Face) HasEdge(a, b VertexKey) bool {
	n := len(f.Vertices)
	for i, vk := range f.Vertices {
		next := f.Vertices[(i+1)%n]
		if (vk == a && next == b) || (vk == b && next == a) {
			return true
		}
	}
	return false
}

// Edges returns the boundary edges in winding order.
func (f *Face) Edges() []Edge {
	n := len(f.Vertices)
	edges := make([]Edge, 0, n)
	for i := range f.Vertices {
		edges = append(edges, NewEdge(f.Vertices[i], f.Vertices[(i+1)%n]))
	}
	return edges
}

// Clone returns a deep copy of the face.
func (f *Face) Clone() *Face {
	uv := make(map[VertexKey]math.Vec2, len(f.UV))
	maps.Copy(uv, f.UV)
	return &Face{
		Vertices: slices.Clone(f.Vertices),
		UV:       uv,
		Texture:  f.Texture,
	}
}

// Mesh is a polygon mesh made of triangles and quads.
type Mesh struct {
	ID       string
	Vertices map[VertexKey]math.Vec3
	Faces    map[FaceKey]*Face

	nextVertex int
	nextFace   int
}

// New creates an empty mesh.
func New(id string) *Mesh {
	return &Mesh{
		ID:       id,
		Vertices: make(map[VertexKey]math.Vec3),
		Faces:    make(map[FaceKey]*Face),
	}
}

// AddVertex inserts a vertex under a freshly generated key.
func (m *Mesh) AddVertex(pos math.Vec3) VertexKey {
	if m.Vertices == nil {
		m.Vertices = make(map[VertexKey]math.Vec3)
	}
	for {
		m.nextVertex++
		key := VertexKey(fmt.Sprintf("v%d", m.nextVertex))
		if _, taken := m.Vertices[key]; !taken {
			m.Vertices[key] = pos
			return key
		}
	}
}

// AddFace inserts a face under a freshly generated key.
func (m *Mesh) AddFace(f *Face) FaceKey {
	if m.Faces == nil {
		m.Faces = make(map[FaceKey]*Face)
	}
	for {
		m.nextFace++
		key := FaceKey(fmt.Sprintf("f%d", m.nextFace))
		if _, taken := m.Faces[key]; !taken {
			m.Faces[key] = f
			return key
		}
	}
}

// RemoveFace deletes a face. Vertices are left in place.
func (m *Mesh) RemoveFace(fk FaceKey) {
	delete(m.Faces, fk)
}

// RemoveVertex deletes a vertex and drops it from every face that uses it.
// Faces left with fewer than three vertices are removed.
func (m *Mesh) RemoveVertex(vk VertexKey) {
	delete(m.Vertices, vk)
	for fk, f := range m.Faces {
		if !f.Contains(vk) {
			continue
		}
		f.Vertices = slices.DeleteFunc(f.Vertices, func(k VertexKey) bool { return k == vk })
		delete(f.UV, vk)
		if len(f.Vertices) < 3 {
			delete(m.Faces, fk)
		}
	}
}

// FaceKeys returns all face keys in sorted order.
func (m *Mesh) FaceKeys() []FaceKey {
	keys := maps.Keys(m.Faces)
	slices.Sort(keys)
	return keys
}

// VertexKeys returns all vertex keys in sorted order.
func (m *Mesh) VertexKeys() []VertexKey {
	keys := maps.Keys(m.Vertices)
	slices.Sort(keys)
	return keys
}

// FacesWithVertex returns the sorted keys of faces that reference vk.
func (m *Mesh) FacesWithVertex(vk VertexKey) []FaceKey {
	var out []FaceKey
	for _, fk := range m.FaceKeys() {
		if m.Faces[fk].Contains(vk) {
			out = append(out, fk)
		}
	}
	return out
}

// FacesWithEdge returns the sorted keys of faces bounded by edge ab.
func (m *Mesh) FacesWithEdge(a, b VertexKey) []FaceKey {
	var out []FaceKey
	for _, fk := range m.FaceKeys() {
		if m.Faces[fk].HasEdge(a, b) {
			out = append(out, fk)
		}
	}
	return out
}

// Positions returns the positions of the face's vertices in winding order.
func (m *Mesh) Positions(fk FaceKey) []math.Vec3 {
	f, ok := m.Faces[fk]
	if !ok {
		return nil
	}
	out := make([]math.Vec3, len(f.Vertices))
	for i, vk := range f.Vertices {
		out[i] = m.Vertices[vk]
	}
	return out
}

// Clone returns a deep copy of the mesh including key counters.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		ID:         m.ID,
		Vertices:   make(map[VertexKey]math.Vec3, len(m.Vertices)),
		Faces:      make(map[FaceKey]*Face, len(m.Faces)),
		nextVertex: m.nextVertex,
		nextFace:   m.nextFace,
	}
	maps.Copy(c.Vertices, m.Vertices)
	for fk, f := range m.Faces {
		c.Faces[fk] = f.Clone()
	}
	return c
}

// Restore overwrites m with the contents of snapshot.
func (m *Mesh) Restore(snapshot *Mesh) {
	c := snapshot.Clone()
	m.ID = c.ID
	m.Vertices = c.Vertices
	m.Faces = c.Faces
	m.nextVertex = c.nextVertex
	m.nextFace = c.nextFace
}
