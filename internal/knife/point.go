// Package knife implements the interactive mesh cutting tool: resolving
// pointer hits to cut points, accumulating a cut path, splitting every
// touched face along the path and rebuilding mesh topology, plus a planar
// variant that splits boxes in two.
package knife

import (
	"fmt"

	"github.com/Faultbox/meshknife/pkg/math"
	"github.com/Faultbox/meshknife/pkg/mesh"
)

// PointKind is the mesh feature a cut point is attached to.
type PointKind int

const (
	KindVertex PointKind = iota
	KindEdge
	KindFace
)

func (k PointKind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindEdge:
		return "edge"
	default:
		return "face"
	}
}

// CutPoint is one location of the cut path.
type CutPoint struct {
	Position math.Vec3
	Kind     PointKind

	// Vertex is set for KindVertex.
	Vertex mesh.VertexKey
	// Edge is set for KindEdge, in the order the hit reported it.
	Edge [2]mesh.VertexKey
	// Face is the face the hit landed on. Required for KindFace.
	Face mesh.FaceKey
	// Side is the box face for points on box targets.
	Side mesh.Direction

	// Snapped marks a position forced onto a feature or grid.
	Snapped bool
	// Reused marks an alias of the earlier path point at index ReuseOf.
	Reused  bool
	ReuseOf int
}

func (p CutPoint) String() string {
	switch {
	case p.Reused:
		return fmt.Sprintf("reuse(%d)", p.ReuseOf)
	case p.Kind == KindVertex:
		return fmt.Sprintf("vertex(%s)", p.Vertex)
	case p.Kind == KindEdge:
		return fmt.Sprintf("edge(%s-%s @ %.3f,%.3f,%.3f)", p.Edge[0], p.Edge[1], p.Position.X, p.Position.Y, p.Position.Z)
	default:
		return fmt.Sprintf("face(%s @ %.3f,%.3f,%.3f)", p.Face, p.Position.X, p.Position.Y, p.Position.Z)
	}
}

// CutPath is the ordered list of confirmed cut points plus an optional
// hover point shown only in previews.
type CutPath struct {
	points []CutPoint
	hover  *CutPoint
}

// Len returns the number of confirmed points.
func (c *CutPath) Len() int {
	return len(c.points)
}

// Points returns a copy of the confirmed points.
func (c *CutPath) Points() []CutPoint {
	return append([]CutPoint(nil), c.points...)
}

// At returns the confirmed point at index i.
func (c *CutPath) At(i int) CutPoint {
	return c.points[i]
}

// Last returns the most recently confirmed point.
func (c *CutPath) Last() (CutPoint, bool) {
	if len(c.points) == 0 {
		return CutPoint{}, false
	}
	return c.points[len(c.points)-1], true
}

// Append confirms a point and clears the hover point. Returns its index.
func (c *CutPath) Append(p CutPoint) int {
	c.points = append(c.points, p)
	c.hover = nil
	return len(c.points) - 1
}

// SetHover replaces the preview point.
func (c *CutPath) SetHover(p CutPoint) {
	c.hover = &p
}

// ClearHover removes the preview point.
func (c *CutPath) ClearHover() {
	c.hover = nil
}

// Hover returns the preview point, if any.
func (c *CutPath) Hover() (CutPoint, bool) {
	if c.hover == nil {
		return CutPoint{}, false
	}
	return *c.hover, true
}

// WithHover returns the confirmed points followed by the hover point.
func (c *CutPath) WithHover() []CutPoint {
	pts := c.Points()
	if c.hover != nil {
		pts = append(pts, *c.hover)
	}
	return pts
}

// Root follows reuse references back to the point that owns the position.
func (c *CutPath) Root(i int) int {
	return rootOf(c.points, i)
}

func rootOf(points []CutPoint, i int) int {
	// Aliases always point backwards, so this terminates.
	for points[i].Reused && points[i].ReuseOf < i {
		i = points[i].ReuseOf
	}
	return i
}
