package knife

import (
	gomath "math"

	"github.com/Faultbox/meshknife/internal/config"
	"github.com/Faultbox/meshknife/internal/picking"
	"github.com/Faultbox/meshknife/pkg/math"
	"github.com/Faultbox/meshknife/pkg/mesh"
)

// Resolver turns pointer hits into cut points, applying the snapping rules.
type Resolver struct {
	ReuseRadius       float64
	EdgeSnapDivisions int
	GridCoarse        int
	GridFine          int
}

// NewResolver creates a resolver from the knife configuration.
func NewResolver(cfg config.KnifeConfig) *Resolver {
	return &Resolver{
		ReuseRadius:       cfg.ReuseRadius,
		EdgeSnapDivisions: cfg.EdgeSnapDivisions,
		GridCoarse:        cfg.GridCoarse,
		GridFine:          cfg.GridFine,
	}
}

// Resolution tells how a hit was turned into a cut point.
type Resolution int

const (
	// Resolved means the returned point is usable.
	Resolved Resolution = iota
	// Unresolved means the hit is not on a feature of the target.
	Unresolved
	// Rejected means the point would coincide with the last path point.
	Rejected
)

func (r Resolution) String() string {
	switch r {
	case Resolved:
		return "resolved"
	case Unresolved:
		return "unresolved"
	default:
		return "rejected"
	}
}

// Resolve maps a hit on m to a cut point. path may be nil, in which case no
// path-relative snapping is applied.
func (r *Resolver) Resolve(m *mesh.Mesh, hit picking.Hit, path *CutPath) (CutPoint, Resolution) {
	var (
		p  CutPoint
		ok bool
	)
	switch hit.Kind {
	case picking.HitVertex:
		p, ok = r.resolveVertex(m, hit)
	case picking.HitEdge:
		p, ok = r.resolveEdge(m, hit)
	case picking.HitFace:
		p, ok = r.resolveFace(m, hit)
	}
	if !ok {
		return CutPoint{}, Unresolved
	}
	return r.finish(p, hit, path)
}

func (r *Resolver) resolveVertex(m *mesh.Mesh, hit picking.Hit) (CutPoint, bool) {
	pos, ok := m.Vertices[hit.Vertex]
	if !ok {
		return CutPoint{}, false
	}
	return CutPoint{
		Position: pos,
		Kind:     KindVertex,
		Vertex:   hit.Vertex,
		Face:     hit.Face,
		Snapped:  true,
	}, true
}

func (r *Resolver) resolveEdge(m *mesh.Mesh, hit picking.Hit) (CutPoint, bool) {
	a, okA := m.Vertices[hit.Edge[0]]
	b, okB := m.Vertices[hit.Edge[1]]
	if !okA || !okB || a.Distance(b) < PositionEpsilon {
		return CutPoint{}, false
	}

	t := math.ProjectOntoLine(hit.Point, a, b)
	if hit.Modifiers.Snap {
		t = math.RoundTo(t, float64(r.EdgeSnapDivisions))
	}

	// An edge point on an end vertex is that vertex.
	switch {
	case t <= EdgeEndSnap:
		return CutPoint{Position: a, Kind: KindVertex, Vertex: hit.Edge[0], Face: hit.Face, Snapped: true}, true
	case t >= 1-EdgeEndSnap:
		return CutPoint{Position: b, Kind: KindVertex, Vertex: hit.Edge[1], Face: hit.Face, Snapped: true}, true
	}

	return CutPoint{
		Position: a.Lerp(b, t),
		Kind:     KindEdge,
		Edge:     hit.Edge,
		Face:     hit.Face,
		Snapped:  true,
	}, true
}

func (r *Resolver) resolveFace(m *mesh.Mesh, hit picking.Hit) (CutPoint, bool) {
	if _, ok := m.Faces[hit.Face]; !ok {
		return CutPoint{}, false
	}
	p := CutPoint{Position: hit.Point, Kind: KindFace, Face: hit.Face}

	switch {
	case hit.Modifiers.Center:
		p.Position = m.Centroid(hit.Face)
		p.Snapped = true
	case hit.Modifiers.Grid:
		divisions := r.GridCoarse
		if hit.Modifiers.Fine {
			divisions = r.GridFine
		}
		uv, ok := m.UVAt(hit.Face, hit.Point)
		if !ok {
			break
		}
		if pos, ok := m.PointAtUV(hit.Face, uv.Round(float64(divisions))); ok {
			p.Position = pos
			p.Snapped = true
		}
	}
	return p, true
}

// finish applies the path-relative rules: snapping onto an earlier point and
// rejecting zero-length segments.
func (r *Resolver) finish(p CutPoint, hit picking.Hit, path *CutPath) (CutPoint, Resolution) {
	if path == nil {
		return p, Resolved
	}

	scale := hit.ViewScale
	if scale <= 0 {
		scale = 1
	}
	threshold := gomath.Max(r.ReuseRadius*scale, PositionEpsilon)

	best := -1
	bestDist := threshold
	for i := 0; i < path.Len(); i++ {
		if d := path.At(i).Position.Distance(p.Position); d <= bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		root := path.Root(best)
		alias := path.At(root)
		alias.Reused = true
		alias.ReuseOf = root
		alias.Snapped = true
		p = alias
	}

	if last, ok := path.Last(); ok && last.Position.Distance(p.Position) < PositionEpsilon {
		return CutPoint{}, Rejected
	}
	return p, Resolved
}

// Connectable reports whether two cut points share a face of m, so that a
// cut between them stays on the surface.
func Connectable(m *mesh.Mesh, a, b CutPoint) bool {
	faces := incidentFaces(m, a)
	for fk := range incidentFaces(m, b) {
		if _, ok := faces[fk]; ok {
			return true
		}
	}
	return false
}

func incidentFaces(m *mesh.Mesh, p CutPoint) map[mesh.FaceKey]struct{} {
	out := make(map[mesh.FaceKey]struct{})
	var keys []mesh.FaceKey
	switch p.Kind {
	case KindVertex:
		keys = m.FacesWithVertex(p.Vertex)
	case KindEdge:
		keys = m.FacesWithEdge(p.Edge[0], p.Edge[1])
	default:
		keys = []mesh.FaceKey{p.Face}
	}
	for _, fk := range keys {
		out[fk] = struct{}{}
	}
	return out
}
