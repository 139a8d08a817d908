package mesh

import "github.com/Faultbox/meshknife/pkg/math"

// Direction names one of the six faces of a box.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
	Up    Direction = "up"
	Down  Direction = "down"
)

// Directions lists all box faces in a fixed order.
var Directions = []Direction{North, East, South, West, Up, Down}

// Axis returns the axis (0=X, 1=Y, 2=Z) the face is perpendicular to.
func (d Direction) Axis() int {
	switch d {
	case East, West:
		return 0
	case Up, Down:
		return 1
	default:
		return 2
	}
}

// Normal returns the outward unit normal of the face.
func (d Direction) Normal() math.Vec3 {
	switch d {
	case North:
		return math.Vec3{Z: -1}
	case South:
		return math.Vec3{Z: 1}
	case East:
		return math.Vec3{X: 1}
	case West:
		return math.Vec3{X: -1}
	case Up:
		return math.Vec3{Y: 1}
	default:
		return math.Vec3{Y: -1}
	}
}

// UVMapping describes which box axis each texture direction follows.
// A flipped component decreases as the box coordinate increases.
type UVMapping struct {
	UAxis int
	UFlip bool
	VAxis int
	VFlip bool
}

// UVMapping returns the texture layout of the face as seen from outside.
func (d Direction) UVMapping() UVMapping {
	switch d {
	case North:
		return UVMapping{UAxis: 0, UFlip: true, VAxis: 1, VFlip: true}
	case South:
		return UVMapping{UAxis: 0, VAxis: 1, VFlip: true}
	case East:
		return UVMapping{UAxis: 2, UFlip: true, VAxis: 1, VFlip: true}
	case West:
		return UVMapping{UAxis: 2, VAxis: 1, VFlip: true}
	case Up:
		return UVMapping{UAxis: 0, VAxis: 2}
	default:
		return UVMapping{UAxis: 0, VAxis: 2, VFlip: true}
	}
}

// BoxFace is the texture assignment of one box side. UV is [u1, v1, u2, v2].
type BoxFace struct {
	UV      [4]float64
	Texture string
}

// Box is an axis-aligned cuboid element spanning From to To in local space.
type Box struct {
	ID    string
	From  math.Vec3
	To    math.Vec3
	Faces map[Direction]*BoxFace
}

// NewBox creates a box with default per-face UVs covering its size.
func NewBox(id string, from, to math.Vec3) *Box {
	b := &Box{ID: id, From: from, To: to, Faces: make(map[Direction]*BoxFace)}
	size := to.Sub(from)
	for _, d := range Directions {
		m := d.UVMapping()
		b.Faces[d] = &BoxFace{UV: [4]float64{0, 0, size.Axis(m.UAxis), size.Axis(m.VAxis)}}
	}
	return b
}

// Size returns the box extent on each axis.
func (b *Box) Size() math.Vec3 {
	return b.To.Sub(b.From)
}

// Clone returns a deep copy of the box.
func (b *Box) Clone() *Box {
	c := &Box{ID: b.ID, From: b.From, To: b.To, Faces: make(map[Direction]*BoxFace, len(b.Faces))}
	for d, f := range b.Faces {
		cf := *f
		c.Faces[d] = &cf
	}
	return c
}

// Restore overwrites b with the contents of snapshot.
func (b *Box) Restore(snapshot *Box) {
	c := snapshot.Clone()
	b.ID, b.From, b.To = c.ID, c.From, c.To
	b.Faces = c.Faces
}

// FaceDirections returns the directions that carry a face, in fixed order.
func (b *Box) FaceDirections() []Direction {
	var out []Direction
	for _, d := range Directions {
		if _, ok := b.Faces[d]; ok {
			out = append(out, d)
		}
	}
	return out
}
