package math

import (
	"math"
	"sort"
)

// Containment is the result of a point-in-polygon query.
type Containment int

const (
	Outside Containment = iota
	OnBoundary
	Inside
)

// Orient returns twice the signed area of triangle abc. Positive when
// a, b, c turn counter-clockwise.
func Orient(a, b, c Vec2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// Barycentric returns the weights of p relative to triangle abc.
// ok is false for a degenerate triangle.
func Barycentric(p, a, b, c Vec2) (wa, wb, wc float64, ok bool) {
	area := Orient(a, b, c)
	if math.Abs(area) < 1e-12 {
		return 0, 0, 0, false
	}
	wa = Orient(p, b, c) / area
	wb = Orient(a, p, c) / area
	wc = 1 - wa - wb
	return wa, wb, wc, true
}

// PointInTriangle reports whether p lies inside or on triangle abc, with eps
// slack on the barycentric weights.
func PointInTriangle(p, a, b, c Vec2, eps float64) bool {
	wa, wb, wc, ok := Barycentric(p, a, b, c)
	if !ok {
		return false
	}
	return wa >= -eps && wb >= -eps && wc >= -eps
}

// DistanceToSegment returns the distance from p to segment ab.
func DistanceToSegment(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom == 0 {
		return p.Distance(a)
	}
	t := Clamp(p.Sub(a).Dot(ab)/denom, 0, 1)
	return p.Distance(a.Add(ab.Scale(t)))
}

// SegmentsCross reports whether segments ab and cd intersect at a single
// point interior to both. Touching at endpoints and collinear overlap do not
// count.
func SegmentsCross(a, b, c, d Vec2, eps float64) bool {
	d1 := Orient(c, d, a)
	d2 := Orient(c, d, b)
	d3 := Orient(a, b, c)
	d4 := Orient(a, b, d)
	// Scale eps by segment lengths so the test is unit independent.
	e1 := eps * d.Sub(c).Length()
	e2 := eps * b.Sub(a).Length()
	return ((d1 > e1 && d2 < -e1) || (d1 < -e1 && d2 > e1)) &&
		((d3 > e2 && d4 < -e2) || (d3 < -e2 && d4 > e2))
}

// SegmentIntersection returns the intersection point of segments ab and cd.
func SegmentIntersection(a, b, c, d Vec2) (Vec2, bool) {
	r := b.Sub(a)
	s := d.Sub(c)
	denom := r.Cross(s)
	if math.Abs(denom) < 1e-12 {
		return Vec2{}, false
	}
	t := c.Sub(a).Cross(s) / denom
	u := c.Sub(a).Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Vec2{}, false
	}
	return a.Add(r.Scale(t)), true
}

// PolygonArea returns the signed area of a polygon (positive when CCW).
func PolygonArea(poly []Vec2) float64 {
	var sum float64
	for i := range poly {
		sum += poly[i].Cross(poly[(i+1)%len(poly)])
	}
	return sum / 2
}

// PointInPolygon classifies p against a simple polygon.
func PointInPolygon(p Vec2, poly []Vec2, eps float64) Containment {
	for i := range poly {
		if DistanceToSegment(p, poly[i], poly[(i+1)%len(poly)]) <= eps {
			return OnBoundary
		}
	}
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	if inside {
		return Inside
	}
	return Outside
}

// InteriorAngles returns the interior angle in degrees at each vertex of a
// counter-clockwise polygon. Reflex vertices report angles above 180.
func InteriorAngles(poly []Vec2) []float64 {
	n := len(poly)
	out := make([]float64, n)
	for i := range poly {
		prev := poly[(i+n-1)%n]
		cur := poly[i]
		next := poly[(i+1)%n]
		e1 := prev.Sub(cur).Normalize()
		e2 := next.Sub(cur).Normalize()
		angle := RadToDeg(math.Acos(Clamp(e1.Dot(e2), -1, 1)))
		if cur.Sub(prev).Cross(next.Sub(cur)) < 0 {
			angle = 360 - angle
		}
		out[i] = angle
	}
	return out
}

// SortCCW returns the indices of points ordered counter-clockwise by angle
// around their centroid. Ties keep input order.
func SortCCW(points []Vec2) []int {
	var c Vec2
	for _, p := range points {
		c = c.Add(p)
	}
	c = c.Scale(1 / float64(len(points)))
	idx := make([]int, len(points))
	angles := make([]float64, len(points))
	for i, p := range points {
		idx[i] = i
		angles[i] = math.Atan2(p.Y-c.Y, p.X-c.X)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return angles[idx[a]] < angles[idx[b]]
	})
	return idx
}

// ConvexOverlap reports whether two convex polygons share interior area
// deeper than eps. Polygons that only touch along an edge or at a vertex do
// not overlap.
func ConvexOverlap(a, b []Vec2, eps float64) bool {
	for _, poly := range [2][]Vec2{a, b} {
		for i := range poly {
			edge := poly[(i+1)%len(poly)].Sub(poly[i])
			axis := Vec2{-edge.Y, edge.X}.Normalize()
			if axis.Length() == 0 {
				continue
			}
			minA, maxA := projectRange(a, axis)
			minB, maxB := projectRange(b, axis)
			if maxA <= minB+eps || maxB <= minA+eps {
				return false
			}
		}
	}
	return true
}

func projectRange(poly []Vec2, axis Vec2) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range poly {
		d := p.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}
