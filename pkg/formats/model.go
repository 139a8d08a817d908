package formats

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshknife/pkg/math"
	"github.com/Faultbox/meshknife/pkg/mesh"
)

// Model document errors.
var (
	ErrDuplicateElement = errors.New("duplicate element id")
	ErrUnknownElement   = errors.New("unknown element id")
	ErrInvalidFace      = errors.New("invalid face")
	ErrUnknownDirection = errors.New("unknown box face direction")
)

// Model is a document holding the editable elements of a scene.
type Model struct {
	Meshes []MeshDoc `yaml:"meshes,omitempty"`
	Boxes  []BoxDoc  `yaml:"boxes,omitempty"`
}

// MeshDoc is the serialized form of a mesh.
type MeshDoc struct {
	ID       string                `yaml:"id"`
	Vertices map[string][3]float64 `yaml:"vertices"`
	Faces    map[string]FaceDoc    `yaml:"faces"`
}

// FaceDoc is the serialized form of a mesh face.
type FaceDoc struct {
	Vertices []string              `yaml:"vertices,flow"`
	UV       map[string][2]float64 `yaml:"uv,omitempty"`
	Texture  string                `yaml:"texture,omitempty"`
}

// BoxDoc is the serialized form of a box.
type BoxDoc struct {
	ID    string                `yaml:"id"`
	From  [3]float64            `yaml:"from,flow"`
	To    [3]float64            `yaml:"to,flow"`
	Faces map[string]BoxFaceDoc `yaml:"faces,omitempty"`
}

// BoxFaceDoc is the serialized form of one box side.
type BoxFaceDoc struct {
	UV      [4]float64 `yaml:"uv,flow"`
	Texture string     `yaml:"texture,omitempty"`
}

// ParseModel decodes a model document.
func ParseModel(data []byte) (*Model, error) {
	var doc Model
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}
	if err := doc.check(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadModel reads a model document from path.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	return ParseModel(data)
}

// Marshal encodes the document as YAML.
func (d *Model) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Save writes the document to path.
func (d *Model) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (d *Model) check() error {
	seen := make(map[string]bool)
	for _, md := range d.Meshes {
		if seen[md.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateElement, md.ID)
		}
		seen[md.ID] = true
		for fk, fd := range md.Faces {
			if len(fd.Vertices) < 3 || len(fd.Vertices) > 4 {
				return fmt.Errorf("%w: %s/%s has %d vertices", ErrInvalidFace, md.ID, fk, len(fd.Vertices))
			}
			for _, vk := range fd.Vertices {
				if _, ok := md.Vertices[vk]; !ok {
					return fmt.Errorf("%w: %s/%s references missing vertex %s", ErrInvalidFace, md.ID, fk, vk)
				}
			}
		}
	}
	for _, bd := range d.Boxes {
		if seen[bd.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateElement, bd.ID)
		}
		seen[bd.ID] = true
		for dir := range bd.Faces {
			if !validDirection(mesh.Direction(dir)) {
				return fmt.Errorf("%w: %s/%s", ErrUnknownDirection, bd.ID, dir)
			}
		}
	}
	return nil
}

func validDirection(d mesh.Direction) bool {
	for _, known := range mesh.Directions {
		if d == known {
			return true
		}
	}
	return false
}

// Mesh builds the mesh with the given id.
func (d *Model) Mesh(id string) (*mesh.Mesh, error) {
	for _, md := range d.Meshes {
		if md.ID == id {
			return md.ToMesh(), nil
		}
	}
	return nil, fmt.Errorf("%w: mesh %s", ErrUnknownElement, id)
}

// Box builds the box with the given id.
func (d *Model) Box(id string) (*mesh.Box, error) {
	for _, bd := range d.Boxes {
		if bd.ID == id {
			return bd.ToBox(), nil
		}
	}
	return nil, fmt.Errorf("%w: box %s", ErrUnknownElement, id)
}

// Contains reports whether an element with id exists.
func (d *Model) Contains(id string) bool {
	for _, md := range d.Meshes {
		if md.ID == id {
			return true
		}
	}
	for _, bd := range d.Boxes {
		if bd.ID == id {
			return true
		}
	}
	return false
}

// PutMesh stores m, replacing an element with the same id.
func (d *Model) PutMesh(m *mesh.Mesh) {
	doc := FromMesh(m)
	for i := range d.Meshes {
		if d.Meshes[i].ID == m.ID {
			d.Meshes[i] = doc
			return
		}
	}
	d.Meshes = append(d.Meshes, doc)
}

// PutBox stores b, replacing an element with the same id.
func (d *Model) PutBox(b *mesh.Box) {
	doc := FromBox(b)
	for i := range d.Boxes {
		if d.Boxes[i].ID == b.ID {
			d.Boxes[i] = doc
			return
		}
	}
	d.Boxes = append(d.Boxes, doc)
}

// Remove deletes the element with id.
func (d *Model) Remove(id string) {
	for i := range d.Meshes {
		if d.Meshes[i].ID == id {
			d.Meshes = append(d.Meshes[:i], d.Meshes[i+1:]...)
			return
		}
	}
	for i := range d.Boxes {
		if d.Boxes[i].ID == id {
			d.Boxes = append(d.Boxes[:i], d.Boxes[i+1:]...)
			return
		}
	}
}

// ToMesh converts the document to a mesh.
func (md MeshDoc) ToMesh() *mesh.Mesh {
	m := mesh.New(md.ID)
	for k, p := range md.Vertices {
		m.Vertices[mesh.VertexKey(k)] = math.V3(p[0], p[1], p[2])
	}
	for k, fd := range md.Faces {
		f := &mesh.Face{
			Vertices: make([]mesh.VertexKey, len(fd.Vertices)),
			UV:       make(map[mesh.VertexKey]math.Vec2, len(fd.UV)),
			Texture:  fd.Texture,
		}
		for i, vk := range fd.Vertices {
			f.Vertices[i] = mesh.VertexKey(vk)
		}
		for vk, uv := range fd.UV {
			f.UV[mesh.VertexKey(vk)] = math.V2(uv[0], uv[1])
		}
		m.Faces[mesh.FaceKey(k)] = f
	}
	return m
}

// FromMesh converts a mesh to its document form.
func FromMesh(m *mesh.Mesh) MeshDoc {
	md := MeshDoc{
		ID:       m.ID,
		Vertices: make(map[string][3]float64, len(m.Vertices)),
		Faces:    make(map[string]FaceDoc, len(m.Faces)),
	}
	for k, p := range m.Vertices {
		md.Vertices[string(k)] = p.Array()
	}
	for k, f := range m.Faces {
		fd := FaceDoc{Vertices: make([]string, len(f.Vertices)), Texture: f.Texture}
		for i, vk := range f.Vertices {
			fd.Vertices[i] = string(vk)
		}
		if len(f.UV) > 0 {
			fd.UV = make(map[string][2]float64, len(f.UV))
			for vk, uv := range f.UV {
				fd.UV[string(vk)] = [2]float64{uv.X, uv.Y}
			}
		}
		md.Faces[string(k)] = fd
	}
	return md
}

// ToBox converts the document to a box. Sides missing from the document
// get default UVs.
func (bd BoxDoc) ToBox() *mesh.Box {
	b := mesh.NewBox(bd.ID, math.V3(bd.From[0], bd.From[1], bd.From[2]), math.V3(bd.To[0], bd.To[1], bd.To[2]))
	for dir, fd := range bd.Faces {
		b.Faces[mesh.Direction(dir)] = &mesh.BoxFace{UV: fd.UV, Texture: fd.Texture}
	}
	return b
}

// FromBox converts a box to its document form.
func FromBox(b *mesh.Box) BoxDoc {
	bd := BoxDoc{
		ID:    b.ID,
		From:  b.From.Array(),
		To:    b.To.Array(),
		Faces: make(map[string]BoxFaceDoc, len(b.Faces)),
	}
	for dir, f := range b.Faces {
		bd.Faces[string(dir)] = BoxFaceDoc{UV: f.UV, Texture: f.Texture}
	}
	return bd
}
