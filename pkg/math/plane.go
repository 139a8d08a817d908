package math

// Basis is an orthonormal frame on a plane. Points projected through a Basis
// keep their counter-clockwise order when the plane is seen from the side
// the Normal points to.
type Basis struct {
	Origin Vec3
	U      Vec3
	V      Vec3
	Normal Vec3
}

// NewBasis builds a plane basis at origin. U follows the direction of hint
// with its normal component removed; V completes the right-handed frame.
func NewBasis(origin, normal, hint Vec3) Basis {
	n := normal.Normalize()
	u := hint.Sub(n.Scale(hint.Dot(n))).Normalize()
	if u.Length() == 0 {
		u = anyPerpendicular(n)
	}
	v := n.Cross(u)
	return Basis{Origin: origin, U: u, V: v, Normal: n}
}

// Project maps a 3D point to plane coordinates.
func (b Basis) Project(p Vec3) Vec2 {
	d := p.Sub(b.Origin)
	return Vec2{d.Dot(b.U), d.Dot(b.V)}
}

// Unproject maps plane coordinates back onto the plane in 3D.
func (b Basis) Unproject(p Vec2) Vec3 {
	return b.Origin.Add(b.U.Scale(p.X)).Add(b.V.Scale(p.Y))
}

// ProjectAll projects a list of points.
func (b Basis) ProjectAll(points []Vec3) []Vec2 {
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[i] = b.Project(p)
	}
	return out
}

// NewellNormal returns the unit normal of a polygon using Newell's method,
// which stays stable for slightly non-planar quads.
func NewellNormal(points []Vec3) Vec3 {
	var n Vec3
	for i := range points {
		cur := points[i]
		next := points[(i+1)%len(points)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n.Normalize()
}

func anyPerpendicular(n Vec3) Vec3 {
	ref := Vec3{1, 0, 0}
	if n.X*n.X > 0.81 {
		ref = Vec3{0, 1, 0}
	}
	return ref.Sub(n.Scale(ref.Dot(n))).Normalize()
}
