package formats

import (
	"fmt"
	"io"

	"github.com/unixpickle/model3d/model3d"

	"github.com/Faultbox/meshknife/pkg/mesh"
)

// WriteSTL writes the faces of m as binary STL, fanning quads into
// triangles.
func WriteSTL(w io.Writer, m *mesh.Mesh) error {
	if err := model3d.WriteSTL(w, m.Triangles()); err != nil {
		return fmt.Errorf("writing STL for %s: %w", m.ID, err)
	}
	return nil
}

// SaveSTL writes m to path as STL.
func SaveSTL(path string, m *mesh.Mesh) error {
	tm := model3d.NewMeshTriangles(m.Triangles())
	if err := tm.SaveGroupedSTL(path); err != nil {
		return fmt.Errorf("saving STL for %s: %w", m.ID, err)
	}
	return nil
}
