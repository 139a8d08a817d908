package knife

import (
	gomath "math"
	"sort"

	"github.com/Faultbox/meshknife/pkg/math"
)

// splitVertex is a vertex of the polygon being rebuilt, projected into the
// plane of the original face.
type splitVertex struct {
	Pos  math.Vec3
	Flat math.Vec2
	UV   math.Vec2
	// Corner is the boundary index of an original corner, or -1.
	Corner int
	// Edge is the boundary edge (Edge to Edge+1) a perimeter point lies on,
	// or -1.
	Edge int
	// T orders points that share an edge, measured from the edge start.
	T float64
}

func (v splitVertex) perimeter() bool {
	return v.Corner >= 0 || v.Edge >= 0
}

// faceCut is the input of the splitter for one face: the original corners
// (first Corners entries of Vertices, in winding order), the cut points that
// fall on the face, and the order in which the path visits them.
type faceCut struct {
	Vertices []splitVertex
	Corners  int
	// Path holds one entry per path point: its vertex index, or -1 when
	// the point is not on this face.
	Path []int
	// Conforming cuts only insert perimeter points; the path does not draw
	// cut lines across the face.
	Conforming bool
}

func (fc *faceCut) addCorner(v splitVertex) int {
	v.Corner = fc.Corners
	v.Edge = -1
	fc.Vertices = append(fc.Vertices, v)
	fc.Corners++
	return v.Corner
}

func (fc *faceCut) addPoint(v splitVertex) int {
	v.Corner = -1
	fc.Vertices = append(fc.Vertices, v)
	return len(fc.Vertices) - 1
}

// distinctPoints counts the different vertices the path touches.
func (fc *faceCut) distinctPoints() int {
	seen := make(map[int]bool)
	for _, v := range fc.Path {
		if v >= 0 {
			seen[v] = true
		}
	}
	return len(seen)
}

// cutLines returns the cut segments the path draws across the face.
func (fc *faceCut) cutLines() []localEdge {
	if fc.Conforming {
		return nil
	}
	return newSplitState(fc, true).midEdges
}

// insertsVertices reports whether any vertex other than a corner is involved.
func (fc *faceCut) insertsVertices() bool {
	return len(fc.Vertices) > fc.Corners
}

// localEdge is an unordered pair of splitVertex indices, smaller first.
type localEdge [2]int

func newLocalEdge(a, b int) localEdge {
	if b < a {
		a, b = b, a
	}
	return localEdge{a, b}
}

// vertexSet identifies a face by its sorted vertex indices.
type vertexSet [4]int

func newVertexSet(ids []int) vertexSet {
	s := vertexSet{-1, -1, -1, -1}
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	copy(s[:], sorted)
	return s
}

// splitState is the topology built so far for one face. Each attempt starts
// from a fresh state so a failed attempt leaves nothing behind.
type splitState struct {
	fc         *faceCut
	ring       []int
	ringFlat   []math.Vec2
	perimeter  map[localEdge]bool
	midEdges   []localEdge
	counts     map[localEdge]int
	used       map[vertexSet]bool
	faces      [][]int
	polys      [][]math.Vec2
	allowQuads bool
}

// splitFace replaces the face described by fc with triangles and quads that
// cover the same area, keep every cut line as a face edge and contain every
// cut point as a vertex. Quads are preferred; if that fails the face is
// retried with triangles only. ok is false when no valid replacement was
// found, in which case the caller must keep the original face.
func splitFace(fc *faceCut, maxRetries int) (faces [][]int, ok bool) {
	for _, quads := range []bool{true, false} {
		s := newSplitState(fc, quads)
		if s.run(maxRetries) {
			return s.faces, true
		}
	}
	return nil, false
}

func newSplitState(fc *faceCut, allowQuads bool) *splitState {
	s := &splitState{
		fc:         fc,
		perimeter:  make(map[localEdge]bool),
		counts:     make(map[localEdge]int),
		used:       make(map[vertexSet]bool),
		allowQuads: allowQuads,
	}
	s.ring = perimeterRing(fc)
	for i, v := range s.ring {
		s.ringFlat = append(s.ringFlat, fc.Vertices[v].Flat)
		s.perimeter[newLocalEdge(v, s.ring[(i+1)%len(s.ring)])] = true
	}
	if !fc.Conforming {
		s.midEdges = cutEdges(fc, s.ringFlat, s.perimeter)
	}
	return s
}

// perimeterRing walks the original corners and inserts perimeter points
// between the corners of the edge they lie on, ordered along the edge.
func perimeterRing(fc *faceCut) []int {
	onEdge := make(map[int][]int)
	for i, v := range fc.Vertices {
		if v.Corner < 0 && v.Edge >= 0 {
			onEdge[v.Edge] = append(onEdge[v.Edge], i)
		}
	}
	ring := make([]int, 0, len(fc.Vertices))
	for c := 0; c < fc.Corners; c++ {
		ring = append(ring, c)
		pts := onEdge[c]
		sort.SliceStable(pts, func(a, b int) bool {
			return fc.Vertices[pts[a]].T < fc.Vertices[pts[b]].T
		})
		ring = append(ring, pts...)
	}
	return ring
}

// cutEdges returns the segments between consecutive path points that cross
// the face rather than run along its boundary.
func cutEdges(fc *faceCut, ringFlat []math.Vec2, perimeter map[localEdge]bool) []localEdge {
	var out []localEdge
	seen := make(map[localEdge]bool)
	for i := 0; i+1 < len(fc.Path); i++ {
		a, b := fc.Path[i], fc.Path[i+1]
		if a < 0 || b < 0 || a == b {
			continue
		}
		e := newLocalEdge(a, b)
		if seen[e] || perimeter[e] {
			continue
		}
		va, vb := fc.Vertices[a], fc.Vertices[b]
		if va.perimeter() && vb.perimeter() {
			mid := va.Flat.Add(vb.Flat).Scale(0.5)
			if math.PointInPolygon(mid, ringFlat, PositionEpsilon) == math.OnBoundary {
				continue
			}
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

func (s *splitState) limit(e localEdge) int {
	if s.perimeter[e] {
		return 1
	}
	return 2
}

func (s *splitState) run(maxRetries int) bool {
	for i, v := range s.ring {
		e := newLocalEdge(v, s.ring[(i+1)%len(s.ring)])
		if s.counts[e] < 1 {
			s.close(e)
		}
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		open := s.openEdges()
		if len(open) == 0 {
			break
		}
		progress := false
		for _, e := range open {
			if s.counts[e] < s.limit(e) && s.close(e) {
				progress = true
			}
		}
		if !progress {
			break
		}
	}

	if len(s.openEdges()) > 0 {
		return false
	}

	var covered float64
	for _, p := range s.polys {
		covered += gomath.Abs(math.PolygonArea(p))
	}
	total := gomath.Abs(math.PolygonArea(s.ringFlat))
	return gomath.Abs(covered-total) <= AreaTolerance*gomath.Max(total, 1)
}

// openEdges lists edges that still need a face: cut edges with fewer than
// two faces, inner edges of new faces with one face, and perimeter edges
// with none.
func (s *splitState) openEdges() []localEdge {
	var out []localEdge
	seen := make(map[localEdge]bool)
	add := func(e localEdge) {
		if !seen[e] && s.counts[e] < s.limit(e) {
			seen[e] = true
			out = append(out, e)
		}
	}
	for _, e := range s.midEdges {
		add(e)
	}
	for _, f := range s.faces {
		for i := range f {
			if e := newLocalEdge(f[i], f[(i+1)%len(f)]); !s.perimeter[e] {
				add(e)
			}
		}
	}
	for i, v := range s.ring {
		add(newLocalEdge(v, s.ring[(i+1)%len(s.ring)]))
	}
	return out
}

// close tries to build one face on edge e from the nearest other vertices,
// quads first.
func (s *splitState) close(e localEdge) bool {
	cands := s.candidates(e)

	if s.allowQuads {
		type pair struct {
			a, b int
			dist float64
		}
		var pairs []pair
		for i := 0; i < len(cands); i++ {
			for j := i + 1; j < len(cands); j++ {
				pairs = append(pairs, pair{cands[i].id, cands[j].id, cands[i].dist + cands[j].dist})
			}
		}
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].dist < pairs[j].dist })
		for _, p := range pairs {
			if ordered, ok := s.validate([]int{e[0], e[1], p.a, p.b}, e); ok {
				s.commit(ordered)
				return true
			}
		}
	}

	for _, c := range cands {
		if ordered, ok := s.validate([]int{e[0], e[1], c.id}, e); ok {
			s.commit(ordered)
			return true
		}
	}
	return false
}

type candidate struct {
	id   int
	dist float64
}

// candidates returns every other vertex ordered by distance from the
// midpoint of e, ties broken by index.
func (s *splitState) candidates(e localEdge) []candidate {
	mid := s.fc.Vertices[e[0]].Flat.Add(s.fc.Vertices[e[1]].Flat).Scale(0.5)
	var out []candidate
	for i, v := range s.fc.Vertices {
		if i == e[0] || i == e[1] {
			continue
		}
		out = append(out, candidate{i, v.Flat.Distance(mid)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].dist != out[j].dist {
			return out[i].dist < out[j].dist
		}
		return out[i].id < out[j].id
	})
	return out
}

// validate orders ids counter-clockwise and checks that the polygon is a
// valid new face with e as one of its sides. It returns the ordered ids.
func (s *splitState) validate(ids []int, e localEdge) ([]int, bool) {
	if s.used[newVertexSet(ids)] {
		return nil, false
	}

	flat := make([]math.Vec2, len(ids))
	for i, id := range ids {
		flat[i] = s.fc.Vertices[id].Flat
	}
	order := math.SortCCW(flat)
	ordered := make([]int, len(ids))
	poly := make([]math.Vec2, len(ids))
	for i, idx := range order {
		ordered[i] = ids[idx]
		poly[i] = flat[idx]
	}
	n := len(ordered)

	if !hasSide(ordered, e) {
		return nil, false
	}
	if math.PolygonArea(poly) <= 0 {
		return nil, false
	}
	for _, angle := range math.InteriorAngles(poly) {
		if angle < MinInteriorAngle || angle > MaxInteriorAngle {
			return nil, false
		}
	}

	for i := range ordered {
		side := newLocalEdge(ordered[i], ordered[(i+1)%n])
		if s.counts[side] >= s.limit(side) {
			return nil, false
		}
		if !s.insideFace(poly[i], poly[(i+1)%n]) {
			return nil, false
		}
	}

	for i, v := range s.fc.Vertices {
		if indexOf(ordered, i) >= 0 {
			continue
		}
		if math.PointInPolygon(v.Flat, poly, PositionEpsilon) != math.Outside {
			return nil, false
		}
	}

	for _, cut := range s.midEdges {
		ia, ib := indexOf(ordered, cut[0]), indexOf(ordered, cut[1])
		if ia >= 0 && ib >= 0 {
			// A cut line must stay an edge, never become a diagonal.
			if (ia+1)%n != ib && (ib+1)%n != ia {
				return nil, false
			}
			continue
		}
		a, b := s.fc.Vertices[cut[0]].Flat, s.fc.Vertices[cut[1]].Flat
		for i := range poly {
			if math.SegmentsCross(a, b, poly[i], poly[(i+1)%n], PositionEpsilon) {
				return nil, false
			}
		}
	}

	for _, other := range s.polys {
		if math.ConvexOverlap(poly, other, PositionEpsilon) {
			return nil, false
		}
	}

	return ordered, true
}

// insideFace reports whether segment ab stays within the original face.
func (s *splitState) insideFace(a, b math.Vec2) bool {
	n := len(s.ringFlat)
	for i := range s.ringFlat {
		if math.SegmentsCross(a, b, s.ringFlat[i], s.ringFlat[(i+1)%n], PositionEpsilon) {
			return false
		}
	}
	mid := a.Add(b).Scale(0.5)
	return math.PointInPolygon(mid, s.ringFlat, PositionEpsilon) != math.Outside
}

func (s *splitState) commit(ordered []int) {
	poly := make([]math.Vec2, len(ordered))
	for i, id := range ordered {
		poly[i] = s.fc.Vertices[id].Flat
		s.counts[newLocalEdge(id, ordered[(i+1)%len(ordered)])]++
	}
	s.used[newVertexSet(ordered)] = true
	s.faces = append(s.faces, ordered)
	s.polys = append(s.polys, poly)
}

func hasSide(ordered []int, e localEdge) bool {
	n := len(ordered)
	for i := range ordered {
		if newLocalEdge(ordered[i], ordered[(i+1)%n]) == e {
			return true
		}
	}
	return false
}

func indexOf(ids []int, id int) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
