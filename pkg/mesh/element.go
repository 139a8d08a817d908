package mesh

// Element is anything in a scene that can be edited and snapshotted: a Mesh
// or a Box.
type Element interface {
	ElementID() string
}

// ElementID returns the mesh's scene id.
func (m *Mesh) ElementID() string { return m.ID }

// ElementID returns the box's scene id.
func (b *Box) ElementID() string { return b.ID }
