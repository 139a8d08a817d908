package knife

import (
	gomath "math"

	"github.com/Faultbox/meshknife/internal/picking"
	"github.com/Faultbox/meshknife/pkg/math"
	"github.com/Faultbox/meshknife/pkg/mesh"
)

// BoxCut is a plane perpendicular to one box axis.
type BoxCut struct {
	Axis   int
	Offset float64
	// Fraction is Offset expressed in the box's From..To range on Axis.
	Fraction float64
}

// ResolveBox maps a hit on one side of box to a cut point. Grid snapping
// rounds the in-plane coordinates; center snapping moves the point to the
// middle of the side.
func (r *Resolver) ResolveBox(box *mesh.Box, hit picking.Hit, path *CutPath) (CutPoint, Resolution) {
	if hit.Kind == picking.HitNone {
		return CutPoint{}, Unresolved
	}
	if _, ok := box.Faces[hit.Side]; !ok {
		return CutPoint{}, Unresolved
	}

	p := CutPoint{Position: hit.Point, Kind: KindFace, Side: hit.Side}
	normalAxis := hit.Side.Axis()
	switch {
	case hit.Modifiers.Center:
		center := box.From.Lerp(box.To, 0.5)
		p.Position = center.WithAxis(normalAxis, hit.Point.Axis(normalAxis))
		p.Snapped = true
	case hit.Modifiers.Grid:
		divisions := r.GridCoarse
		if hit.Modifiers.Fine {
			divisions = r.GridFine
		}
		for axis := 0; axis < 3; axis++ {
			if axis == normalAxis {
				continue
			}
			v := math.RoundTo(p.Position.Axis(axis), float64(divisions))
			p.Position = p.Position.WithAxis(axis, math.Clamp(v, box.From.Axis(axis), box.To.Axis(axis)))
		}
		p.Snapped = true
	}
	return r.finish(p, hit, path)
}

// PlanBoxCut derives the cut plane from the first two points of a box path.
// The plane contains the segment between them and is perpendicular to the
// in-plane axis of the first point's side along which the segment moves
// least. ok is false when the plane would not split the box.
func PlanBoxCut(box *mesh.Box, points []CutPoint) (BoxCut, bool) {
	if len(points) < 2 {
		return BoxCut{}, false
	}
	p1, p2 := points[0], points[1]
	d := p2.Position.Sub(p1.Position)

	axis := -1
	for a := 0; a < 3; a++ {
		if a == p1.Side.Axis() {
			continue
		}
		if axis < 0 || gomath.Abs(d.Axis(a)) < gomath.Abs(d.Axis(axis)) {
			axis = a
		}
	}

	from, to := box.From.Axis(axis), box.To.Axis(axis)
	if to-from < PositionEpsilon {
		return BoxCut{}, false
	}
	offset := (p1.Position.Axis(axis) + p2.Position.Axis(axis)) / 2
	frac := (offset - from) / (to - from)
	if frac*(to-from) < PositionEpsilon || (1-frac)*(to-from) < PositionEpsilon {
		return BoxCut{}, false
	}
	return BoxCut{Axis: axis, Offset: offset, Fraction: frac}, true
}

// SplitBox truncates box to the From side of the cut and returns a new box
// with id newID covering the To side. Texture coordinates of the sides that
// run along the cut axis are interpolated so the texture stays continuous.
func SplitBox(box *mesh.Box, cut BoxCut, newID string) *mesh.Box {
	upper := box.Clone()
	upper.ID = newID
	upper.From = upper.From.WithAxis(cut.Axis, cut.Offset)
	box.To = box.To.WithAxis(cut.Axis, cut.Offset)

	for _, d := range box.FaceDirections() {
		m := d.UVMapping()
		lower, high := box.Faces[d], upper.Faces[d]
		if m.UAxis == cut.Axis {
			splitUV(&lower.UV, &high.UV, 0, cut.Fraction, m.UFlip)
		}
		if m.VAxis == cut.Axis {
			splitUV(&lower.UV, &high.UV, 1, cut.Fraction, m.VFlip)
		}
	}
	return upper
}

// splitUV divides the texture range at index i (0 for U, 1 for V) between
// the lower and upper halves of a box.
func splitUV(lower, upper *[4]float64, i int, frac float64, flip bool) {
	c1, c2 := lower[i], lower[i+2]
	if !flip {
		mid := math.Lerp(c1, c2, frac)
		lower[i+2] = mid
		upper[i] = mid
		return
	}
	mid := math.Lerp(c1, c2, 1-frac)
	lower[i] = mid
	upper[i+2] = mid
}
