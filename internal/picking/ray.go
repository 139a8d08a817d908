package picking

import (
	gomath "math"

	"github.com/Faultbox/meshknife/pkg/math"
	"github.com/Faultbox/meshknife/pkg/mesh"
)

// Ray represents a ray in model space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay creates a ray, normalizing its direction.
func NewRay(origin, direction math.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectAABB tests ray intersection with an axis-aligned box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(boxMin, boxMax math.Vec3) (t float64, hit bool) {
	tmin := -gomath.MaxFloat64
	tmax := gomath.MaxFloat64

	for axis := 0; axis < 3; axis++ {
		o := r.Origin.Axis(axis)
		d := r.Direction.Axis(axis)
		lo, hi := boxMin.Axis(axis), boxMax.Axis(axis)
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = gomath.Max(tmin, t1)
		tmax = gomath.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle returns the distance along the ray to triangle abc.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (float64, bool) {
	const eps = 1e-9

	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	h := r.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if det > -eps && det < eps {
		return 0, false // Parallel to the triangle
	}

	f := 1 / det
	s := r.Origin.Sub(a)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t <= eps {
		return 0, false // Behind the origin
	}
	return t, true
}

// HitBox intersects the ray with a box and reports the face it enters
// through.
func HitBox(r Ray, box *mesh.Box) (Hit, bool) {
	lo := box.From
	hi := box.To
	for axis := 0; axis < 3; axis++ {
		if lo.Axis(axis) > hi.Axis(axis) {
			a, b := lo.Axis(axis), hi.Axis(axis)
			lo, hi = lo.WithAxis(axis, b), hi.WithAxis(axis, a)
		}
	}

	t, ok := r.IntersectAABB(lo, hi)
	if !ok {
		return Hit{}, false
	}
	p := r.At(t)

	side := mesh.North
	best := gomath.MaxFloat64
	for _, d := range mesh.Directions {
		axis := d.Axis()
		plane := lo.Axis(axis)
		if d.Normal().Axis(axis) > 0 {
			plane = hi.Axis(axis)
		}
		if dist := gomath.Abs(p.Axis(axis) - plane); dist < best {
			best = dist
			side = d
		}
	}
	return Hit{Target: box.ID, Kind: HitFace, Point: p, Side: side}, true
}

// HitMesh intersects the ray with every face of m and resolves the nearest
// hit to a vertex or edge when it lies within radius of one, else to the
// face itself.
func HitMesh(r Ray, m *mesh.Mesh, radius float64) (Hit, bool) {
	nearest := gomath.MaxFloat64
	var face mesh.FaceKey
	for _, fk := range m.FaceKeys() {
		pts := m.Positions(fk)
		for i := 1; i+1 < len(pts); i++ {
			if t, ok := r.IntersectTriangle(pts[0], pts[i], pts[i+1]); ok && t < nearest {
				nearest = t
				face = fk
			}
		}
	}
	if face == "" {
		return Hit{}, false
	}

	p := r.At(nearest)
	hit := Hit{Target: m.ID, Kind: HitFace, Point: p, Face: face}
	f := m.Faces[face]

	for _, vk := range f.Vertices {
		if m.Vertices[vk].Distance(p) <= radius {
			hit.Kind = HitVertex
			hit.Vertex = vk
			return hit, true
		}
	}
	for i, vk := range f.Vertices {
		next := f.Vertices[(i+1)%len(f.Vertices)]
		a, b := m.Vertices[vk], m.Vertices[next]
		t := math.Clamp(math.ProjectOntoLine(p, a, b), 0, 1)
		if a.Lerp(b, t).Distance(p) <= radius {
			hit.Kind = HitEdge
			hit.Edge = [2]mesh.VertexKey{vk, next}
			return hit, true
		}
	}
	return hit, true
}
