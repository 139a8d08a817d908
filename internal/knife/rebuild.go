package knife

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/Faultbox/meshknife/internal/config"
	"github.com/Faultbox/meshknife/internal/logger"
	"github.com/Faultbox/meshknife/pkg/math"
	"github.com/Faultbox/meshknife/pkg/mesh"
)

// Rebuilder applies a cut path to a mesh, splitting every face the path
// touches.
type Rebuilder struct {
	MaxRetries int
}

// NewRebuilder creates a rebuilder from the knife configuration.
func NewRebuilder(cfg config.KnifeConfig) *Rebuilder {
	return &Rebuilder{MaxRetries: cfg.MaxEdgeRetries}
}

// Result describes the changes made by one rebuild.
type Result struct {
	NewVertices  []mesh.VertexKey
	NewFaces     []mesh.FaceKey
	RemovedFaces []mesh.FaceKey
	// CutEdges are the cut segments that ended up as mesh edges.
	CutEdges []mesh.Edge
	// Unsplit lists faces the path touched but that could not be split and
	// were left as they were.
	Unsplit []mesh.FaceKey

	Selection Selection
}

// Changed reports whether the mesh was modified.
func (r Result) Changed() bool {
	return len(r.NewFaces) > 0
}

// rebuild holds the state shared across faces during one Rebuild call.
type rebuild struct {
	m       *mesh.Mesh
	points  []CutPoint
	roots   []int
	retries int

	// assigned maps a root path index to the vertex it became.
	assigned map[int]mesh.VertexKey
	created  map[mesh.VertexKey]bool
	cuts     map[mesh.Edge]bool
	done     map[mesh.FaceKey]bool
	failed   map[mesh.FaceKey]bool
	res      Result
}

// Rebuild splits the faces of m along points. Faces are processed in key
// order so the result is deterministic. A face that cannot be split is left
// untouched and reported in Result.Unsplit. The only error is a cut point
// that refers to mesh data that no longer exists; m is not modified then.
func (r *Rebuilder) Rebuild(m *mesh.Mesh, points []CutPoint) (Result, error) {
	if err := checkReferences(m, points); err != nil {
		return Result{}, err
	}

	b := &rebuild{
		m:        m,
		points:   points,
		roots:    make([]int, len(points)),
		retries:  r.MaxRetries,
		assigned: make(map[int]mesh.VertexKey),
		created:  make(map[mesh.VertexKey]bool),
		cuts:     make(map[mesh.Edge]bool),
		done:     make(map[mesh.FaceKey]bool),
		failed:   make(map[mesh.FaceKey]bool),
	}
	for i := range points {
		b.roots[i] = rootOf(points, i)
	}
	log := logger.Named("knife").With(zap.String("mesh", m.ID))

	keys := m.FaceKeys()

	// Faces crossed by the path.
	for _, fk := range keys {
		fc := b.collect(fk, false)
		if fc == nil || fc.distinctPoints() < 2 {
			continue
		}
		if !fc.insertsVertices() && len(fc.cutLines()) == 0 {
			log.Debug("face unchanged by cut", zap.String("face", string(fk)))
			continue
		}
		b.split(fk, fc, log)
	}

	// Neighbours that received a new vertex on one of their edges.
	for _, fk := range keys {
		if b.done[fk] {
			continue
		}
		fc := b.collect(fk, true)
		if fc == nil || !fc.insertsVertices() {
			continue
		}
		b.split(fk, fc, log)
	}

	for _, fk := range keys {
		if b.failed[fk] && !b.done[fk] {
			b.res.Unsplit = append(b.res.Unsplit, fk)
		}
	}
	b.checkCutEdges(log)
	b.res.Selection = b.selection()
	return b.res, nil
}

func (b *rebuild) split(fk mesh.FaceKey, fc *faceCut, log *zap.Logger) {
	faces, ok := splitFace(fc, b.retries)
	if !ok {
		log.Warn("face could not be split, leaving it unchanged",
			zap.String("face", string(fk)), zap.Bool("conforming", fc.Conforming))
		b.failed[fk] = true
		return
	}
	b.commit(fk, fc, faces)
	b.done[fk] = true
	log.Debug("face split", zap.String("face", string(fk)), zap.Int("faces", len(faces)))
}

// collect gathers the path points attributable to face fk. In conforming
// mode only edge points that already became vertices are taken, and the
// path draws no cut lines across the face.
func (b *rebuild) collect(fk mesh.FaceKey, conforming bool) *faceCut {
	f, ok := b.m.Faces[fk]
	if !ok || len(f.Vertices) < 3 {
		return nil
	}
	basis := b.m.Basis(fk)
	fc := &faceCut{Conforming: conforming}
	for _, vk := range f.Vertices {
		pos := b.m.Vertices[vk]
		fc.addCorner(splitVertex{Pos: pos, Flat: basis.Project(pos), UV: f.UV[vk]})
	}

	local := make(map[int]int)
	fc.Path = make([]int, len(b.points))
	for i := range b.points {
		root := b.roots[i]
		id, seen := local[root]
		if !seen {
			id = b.attach(fc, f, fk, basis, root)
			local[root] = id
		}
		fc.Path[i] = id
	}
	return fc
}

// attach adds the root point to fc if it lies on face f and returns its
// local index, or -1.
func (b *rebuild) attach(fc *faceCut, f *mesh.Face, fk mesh.FaceKey, basis math.Basis, root int) int {
	p := b.points[root]
	n := len(f.Vertices)

	if fc.Conforming {
		if _, ok := b.assigned[root]; !ok || p.Kind != KindEdge {
			return -1
		}
	}

	switch p.Kind {
	case KindVertex:
		for i, vk := range f.Vertices {
			if vk == p.Vertex {
				return i
			}
		}
	case KindEdge:
		for i := range f.Vertices {
			a, c := f.Vertices[i], f.Vertices[(i+1)%n]
			if mesh.NewEdge(a, c) != mesh.NewEdge(p.Edge[0], p.Edge[1]) {
				continue
			}
			pa, pc := b.m.Vertices[a], b.m.Vertices[c]
			t := math.ProjectOntoLine(p.Position, pa, pc)
			return fc.addPoint(splitVertex{
				Pos:  p.Position,
				Flat: basis.Project(p.Position),
				UV:   f.UV[a].Lerp(f.UV[c], t),
				Edge: i,
				T:    t,
			})
		}
	case KindFace:
		if p.Face != fk {
			return -1
		}
		flat := basis.Project(p.Position)
		ring := make([]math.Vec2, 0, n)
		for i := 0; i < fc.Corners; i++ {
			ring = append(ring, fc.Vertices[i].Flat)
		}
		if math.PointInPolygon(flat, ring, PositionEpsilon) != math.Inside {
			return -1
		}
		uv, ok := b.m.UVAt(fk, p.Position)
		if !ok {
			return -1
		}
		return fc.addPoint(splitVertex{Pos: p.Position, Flat: flat, UV: uv, Edge: -1})
	}
	return -1
}

// commit replaces face fk with the split faces, allocating vertices for cut
// points the first time any face uses them.
func (b *rebuild) commit(fk mesh.FaceKey, fc *faceCut, faces [][]int) {
	orig := b.m.Faces[fk]
	normal := b.m.Normal(fk)

	// Local vertex index to the path root it came from.
	rootOfLocal := make(map[int]int)
	for i, id := range fc.Path {
		if id >= fc.Corners {
			rootOfLocal[id] = b.roots[i]
		}
	}
	key := func(id int) mesh.VertexKey {
		if id < fc.Corners {
			return orig.Vertices[id]
		}
		root := rootOfLocal[id]
		if vk, ok := b.assigned[root]; ok {
			return vk
		}
		vk := b.m.AddVertex(fc.Vertices[id].Pos)
		b.assigned[root] = vk
		b.created[vk] = true
		b.res.NewVertices = append(b.res.NewVertices, vk)
		return vk
	}

	for _, ids := range faces {
		nf := &mesh.Face{
			Vertices: make([]mesh.VertexKey, len(ids)),
			UV:       make(map[mesh.VertexKey]math.Vec2, len(ids)),
			Texture:  orig.Texture,
		}
		pos := make([]math.Vec3, len(ids))
		for i, id := range ids {
			vk := key(id)
			nf.Vertices[i] = vk
			nf.UV[vk] = fc.Vertices[id].UV
			pos[i] = fc.Vertices[id].Pos
		}
		if math.NewellNormal(pos).Dot(normal) < 0 {
			reverse(nf.Vertices)
		}
		b.res.NewFaces = append(b.res.NewFaces, b.m.AddFace(nf))
	}

	if !fc.Conforming {
		for _, e := range fc.cutLines() {
			b.cuts[mesh.NewEdge(key(e[0]), key(e[1]))] = true
		}
	}

	b.m.RemoveFace(fk)
	b.res.RemovedFaces = append(b.res.RemovedFaces, fk)
}

// checkCutEdges drops cut segments that did not become mesh edges and
// reports those with unexpected fan-in.
func (b *rebuild) checkCutEdges(log *zap.Logger) {
	counts := b.m.EdgeFaceCounts()
	edges := make([]mesh.Edge, 0, len(b.cuts))
	for e := range b.cuts {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(a, c mesh.Edge) int {
		return strings.Compare(edgeString(a), edgeString(c))
	})
	for _, e := range edges {
		switch n := counts[e]; {
		case n == 0:
			log.Warn("cut segment is not a mesh edge", zap.String("edge", edgeString(e)))
			continue
		case n > 2:
			log.Warn("cut edge shared by more than two faces",
				zap.String("edge", edgeString(e)), zap.Int("faces", n))
		}
		b.res.CutEdges = append(b.res.CutEdges, e)
	}
}

func (b *rebuild) selection() Selection {
	sel := Selection{
		Element:  b.m.ID,
		Vertices: append([]mesh.VertexKey(nil), b.res.NewVertices...),
		Edges:    append([]mesh.Edge(nil), b.res.CutEdges...),
	}
	for _, fk := range b.res.NewFaces {
		f, ok := b.m.Faces[fk]
		if !ok {
			continue
		}
		inner := true
		for _, vk := range f.Vertices {
			if !b.created[vk] {
				inner = false
				break
			}
		}
		if inner {
			sel.Faces = append(sel.Faces, fk)
		}
	}
	return sel
}

// checkReferences verifies every cut point still refers to existing data.
func checkReferences(m *mesh.Mesh, points []CutPoint) error {
	for i, p := range points {
		switch p.Kind {
		case KindVertex:
			if _, ok := m.Vertices[p.Vertex]; !ok {
				return fmt.Errorf("%w: point %d: vertex %s", ErrStaleReference, i, p.Vertex)
			}
		case KindEdge:
			for _, vk := range p.Edge {
				if _, ok := m.Vertices[vk]; !ok {
					return fmt.Errorf("%w: point %d: vertex %s", ErrStaleReference, i, vk)
				}
			}
		case KindFace:
			if _, ok := m.Faces[p.Face]; !ok {
				return fmt.Errorf("%w: point %d: face %s", ErrStaleReference, i, p.Face)
			}
		}
		if p.Reused && (p.ReuseOf < 0 || p.ReuseOf >= i) {
			return fmt.Errorf("%w: point %d reuses invalid index %d", ErrStaleReference, i, p.ReuseOf)
		}
	}
	return nil
}

func reverse(keys []mesh.VertexKey) {
	for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}
}

func edgeString(e mesh.Edge) string {
	return string(e[0]) + "-" + string(e[1])
}
