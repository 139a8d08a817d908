package mesh

import (
	"github.com/unixpickle/model3d/model3d"

	"github.com/Faultbox/meshknife/pkg/math"
)

// Normal returns the unit normal of a face, following its winding.
func (m *Mesh) Normal(fk FaceKey) math.Vec3 {
	return math.NewellNormal(m.Positions(fk))
}

// Basis returns a plane basis for the face anchored at its first vertex with
// U along its first edge.
func (m *Mesh) Basis(fk FaceKey) math.Basis {
	pts := m.Positions(fk)
	if len(pts) < 2 {
		return math.Basis{}
	}
	return math.NewBasis(pts[0], math.NewellNormal(pts), pts[1].Sub(pts[0]))
}

// Centroid returns the average of the face's vertex positions.
func (m *Mesh) Centroid(fk FaceKey) math.Vec3 {
	return math.Centroid(m.Positions(fk)...)
}

// Area returns the surface area of a face, summed over its triangle fan.
func (m *Mesh) Area(fk FaceKey) float64 {
	return PolygonArea(m.Positions(fk))
}

// PolygonArea returns the area of a 3D polygon, summed over its triangle fan.
func PolygonArea(pts []math.Vec3) float64 {
	var area float64
	for _, tri := range fanTriangles(pts) {
		area += tri.Area()
	}
	return area
}

// Triangles fans every face into triangles, in face key order, keeping the
// face winding.
func (m *Mesh) Triangles() []*model3d.Triangle {
	var tris []*model3d.Triangle
	for _, fk := range m.FaceKeys() {
		tris = append(tris, fanTriangles(m.Positions(fk))...)
	}
	return tris
}

func fanTriangles(pts []math.Vec3) []*model3d.Triangle {
	var tris []*model3d.Triangle
	for i := 1; i+1 < len(pts); i++ {
		tris = append(tris, &model3d.Triangle{
			toCoord(pts[0]), toCoord(pts[i]), toCoord(pts[i+1]),
		})
	}
	return tris
}

func toCoord(v math.Vec3) model3d.Coord3D {
	return model3d.XYZ(v.X, v.Y, v.Z)
}

// UVAt returns the texture coordinate of point p on a face, interpolated
// from the UVs of the fan triangle that contains p's projection.
func (m *Mesh) UVAt(fk FaceKey, p math.Vec3) (math.Vec2, bool) {
	f, ok := m.Faces[fk]
	if !ok || len(f.Vertices) < 3 {
		return math.Vec2{}, false
	}
	basis := m.Basis(fk)
	flat := basis.ProjectAll(m.Positions(fk))
	tri, w, ok := fanWeights(basis.Project(p), flat)
	if !ok {
		return math.Vec2{}, false
	}
	var uv math.Vec2
	for i, idx := range tri {
		uv = uv.Add(f.UV[f.Vertices[idx]].Scale(w[i]))
	}
	return uv, true
}

// PointAtUV is the inverse of UVAt: it returns the point on the face whose
// interpolated texture coordinate equals uv.
func (m *Mesh) PointAtUV(fk FaceKey, uv math.Vec2) (math.Vec3, bool) {
	f, ok := m.Faces[fk]
	if !ok || len(f.Vertices) < 3 {
		return math.Vec3{}, false
	}
	uvs := make([]math.Vec2, len(f.Vertices))
	for i, vk := range f.Vertices {
		uvs[i] = f.UV[vk]
	}
	tri, w, ok := fanWeights(uv, uvs)
	if !ok {
		return math.Vec3{}, false
	}
	var p math.Vec3
	for i, idx := range tri {
		p = p.Add(m.Vertices[f.Vertices[idx]].Scale(w[i]))
	}
	return p, true
}

// fanWeights finds the fan triangle of poly that best contains p and returns
// its vertex indices and p's barycentric weights. A point outside every
// triangle uses the triangle it is least outside of.
func fanWeights(p math.Vec2, poly []math.Vec2) (tri [3]int, w [3]float64, ok bool) {
	best := -1.0e300
	for i := 1; i+1 < len(poly); i++ {
		wa, wb, wc, valid := math.Barycentric(p, poly[0], poly[i], poly[i+1])
		if !valid {
			continue
		}
		worst := min(wa, wb, wc)
		if worst > best {
			best = worst
			tri = [3]int{0, i, i + 1}
			w = [3]float64{wa, wb, wc}
			ok = true
		}
	}
	return tri, w, ok
}
