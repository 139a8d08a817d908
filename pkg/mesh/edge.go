package mesh

// Edge is an unordered pair of vertex keys, stored with the smaller key first
// so that equal edges compare equal.
type Edge [2]VertexKey

// NewEdge returns the canonical edge between a and b.
func NewEdge(a, b VertexKey) Edge {
	if b < a {
		a, b = b, a
	}
	return Edge{a, b}
}

// Has reports whether vk is one of the edge's endpoints.
func (e Edge) Has(vk VertexKey) bool {
	return e[0] == vk || e[1] == vk
}

// Other returns the endpoint opposite vk.
func (e Edge) Other(vk VertexKey) VertexKey {
	if e[0] == vk {
		return e[1]
	}
	return e[0]
}

// EdgeFaceCounts counts how many faces are bounded by each edge.
func (m *Mesh) EdgeFaceCounts() map[Edge]int {
	counts := make(map[Edge]int)
	for _, f := range m.Faces {
		for _, e := range f.Edges() {
			counts[e]++
		}
	}
	return counts
}
