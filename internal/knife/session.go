package knife

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshknife/internal/config"
	"github.com/Faultbox/meshknife/internal/logger"
	"github.com/Faultbox/meshknife/internal/picking"
	"github.com/Faultbox/meshknife/pkg/mesh"
)

// Undo labels recorded by applied sessions.
const (
	LabelMeshCut  = "Knife cut"
	LabelBoxSplit = "Knife split box"
)

// Session is one knife interaction on a single target. A session ends with
// exactly one call to Apply or Cancel; every later call fails with
// ErrSessionClosed.
type Session interface {
	// Target returns the id of the element being cut.
	Target() string
	// Hover updates the preview point. It never modifies the target.
	Hover(hit picking.Hit) Resolution
	// AddPoint confirms a point on the path. It never modifies the target.
	AddPoint(hit picking.Hit) (CutPoint, Resolution)
	// Preview returns what the host should draw.
	Preview() Preview
	// Apply performs the cut inside one undo transaction.
	Apply() (Outcome, error)
	// Cancel ends the session without changes.
	Cancel() error
}

// Preview is the transient state of a session.
type Preview struct {
	Target string
	Points []CutPoint
	Hover  *CutPoint
	// Plane is the planned cut of a box session, if it can be determined.
	Plane *BoxCut
}

var (
	_ Session = (*MeshSession)(nil)
	_ Session = (*BoxSession)(nil)
)

// Tool opens knife sessions and makes sure a target has at most one.
type Tool struct {
	resolver  *Resolver
	rebuilder *Rebuilder
	host      Host
	sessions  map[string]Session
	log       *zap.Logger
}

// NewTool creates a knife tool talking to host.
func NewTool(cfg config.KnifeConfig, host Host) *Tool {
	return &Tool{
		resolver:  NewResolver(cfg),
		rebuilder: NewRebuilder(cfg),
		host:      host.withDefaults(),
		sessions:  make(map[string]Session),
		log:       logger.Named("knife"),
	}
}

// Session returns the open session on target, if any.
func (t *Tool) Session(target string) (Session, bool) {
	s, ok := t.sessions[target]
	return s, ok
}

// BeginMesh opens a cutting session on m.
func (t *Tool) BeginMesh(m *mesh.Mesh) (*MeshSession, error) {
	if m == nil {
		return nil, ErrNoTarget
	}
	if _, busy := t.sessions[m.ID]; busy {
		return nil, fmt.Errorf("%w: %s", ErrTargetBusy, m.ID)
	}
	s := &MeshSession{base: base{tool: t, target: m.ID}, mesh: m}
	t.sessions[m.ID] = s
	t.log.Debug("session started", zap.String("target", m.ID), zap.String("kind", "mesh"))
	return s, nil
}

// BeginBox opens a planar splitting session on b.
func (t *Tool) BeginBox(b *mesh.Box) (*BoxSession, error) {
	if b == nil {
		return nil, ErrNoTarget
	}
	if _, busy := t.sessions[b.ID]; busy {
		return nil, fmt.Errorf("%w: %s", ErrTargetBusy, b.ID)
	}
	s := &BoxSession{base: base{tool: t, target: b.ID}, box: b}
	t.sessions[b.ID] = s
	t.log.Debug("session started", zap.String("target", b.ID), zap.String("kind", "box"))
	return s, nil
}

func (t *Tool) inScene(id string) bool {
	return t.host.Scene == nil || t.host.Scene.Contains(id)
}

// newBoxID picks an id for the second half of a split box.
func (t *Tool) newBoxID(base string) string {
	for n := 2; ; n++ {
		id := fmt.Sprintf("%s-%d", base, n)
		if _, open := t.sessions[id]; open {
			continue
		}
		if t.host.Scene == nil || !t.host.Scene.Contains(id) {
			return id
		}
	}
}

// base is the state shared by mesh and box sessions.
type base struct {
	tool   *Tool
	target string
	path   CutPath
	closed bool

	hoverHit picking.Hit
}

func (s *base) Target() string {
	return s.target
}

func (s *base) preview() Preview {
	p := Preview{Target: s.target, Points: s.path.Points()}
	if h, ok := s.path.Hover(); ok {
		p.Hover = &h
	}
	return p
}

// hover stores the result of resolving hit as the preview point.
func (s *base) hover(hit picking.Hit, p CutPoint, res Resolution) Resolution {
	switch res {
	case Resolved:
		s.path.SetHover(p)
		s.hoverHit = hit
	case Unresolved:
		s.path.ClearHover()
	}
	s.tool.host.Notify.Invalidate(s.target)
	return res
}

// pending returns the hover point if hit is the one it was resolved from.
func (s *base) pending(hit picking.Hit) (CutPoint, bool) {
	h, ok := s.path.Hover()
	if !ok || hit != s.hoverHit {
		return CutPoint{}, false
	}
	return h, true
}

// confirm appends p and notifies the host.
func (s *base) confirm(p CutPoint) {
	first := s.path.Len() == 0
	s.path.Append(p)
	if first {
		s.tool.host.Notify.ConfirmPrompt(s.target)
	}
	s.tool.host.Notify.Invalidate(s.target)
}

// close ends the session and releases the target.
func (s *base) close() {
	s.closed = true
	s.path.ClearHover()
	delete(s.tool.sessions, s.target)
	s.tool.host.Notify.Invalidate(s.target)
}

func (s *base) Cancel() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.close()
	s.tool.log.Debug("session cancelled", zap.String("target", s.target))
	return nil
}

// MeshSession cuts a polygon mesh along a path of points.
type MeshSession struct {
	base
	mesh *mesh.Mesh
}

// Hover resolves hit and shows it as the next point.
func (s *MeshSession) Hover(hit picking.Hit) Resolution {
	if s.closed {
		return Unresolved
	}
	p, res := s.tool.resolver.Resolve(s.mesh, hit, &s.path)
	return s.hover(hit, p, res)
}

// AddPoint confirms a point. A point that does not share a face with the
// previous one is still added, but the host is warned.
func (s *MeshSession) AddPoint(hit picking.Hit) (CutPoint, Resolution) {
	if s.closed {
		return CutPoint{}, Unresolved
	}
	p, ok := s.pending(hit)
	if !ok {
		var res Resolution
		if p, res = s.tool.resolver.Resolve(s.mesh, hit, &s.path); res != Resolved {
			return CutPoint{}, res
		}
	}

	if last, ok := s.path.Last(); ok && !Connectable(s.mesh, last, p) {
		msg := fmt.Sprintf("cut from %s to %s does not follow a face", last, p)
		s.tool.log.Warn("unconnected cut segment",
			zap.String("target", s.target), zap.Stringer("from", last), zap.Stringer("to", p))
		s.tool.host.Notify.Warn(msg)
	}
	s.confirm(p)
	return p, Resolved
}

// Preview returns the path and hover point.
func (s *MeshSession) Preview() Preview {
	return s.preview()
}

// Apply rebuilds the mesh along the path. Without points, or when the mesh
// is no longer in the scene, it cancels instead and opens no transaction.
func (s *MeshSession) Apply() (Outcome, error) {
	if s.closed {
		return OutcomeCancelled, ErrSessionClosed
	}
	defer s.close()

	log := s.tool.log.With(zap.String("target", s.target))
	if s.mesh == nil || !s.tool.inScene(s.target) || s.path.Len() == 0 {
		log.Debug("nothing to apply", zap.Int("points", s.path.Len()))
		return OutcomeCancelled, nil
	}

	undo := s.tool.host.Undo
	if err := undo.Begin(s.mesh); err != nil {
		return OutcomeCancelled, fmt.Errorf("begin knife cut: %w", err)
	}
	res, err := s.tool.rebuilder.Rebuild(s.mesh, s.path.Points())
	if err != nil {
		if cerr := undo.Cancel(); cerr != nil {
			log.Error("failed to cancel transaction", zap.Error(cerr))
		}
		return OutcomeCancelled, fmt.Errorf("knife cut %s: %w", s.target, err)
	}
	if !res.Changed() {
		if cerr := undo.Cancel(); cerr != nil {
			log.Error("failed to cancel transaction", zap.Error(cerr))
		}
		s.tool.host.Notify.Warn("the cut did not change the mesh")
		return OutcomeCancelled, nil
	}
	if err := undo.Commit(LabelMeshCut, s.mesh); err != nil {
		if cerr := undo.Cancel(); cerr != nil {
			log.Error("failed to cancel transaction", zap.Error(cerr))
		}
		return OutcomeCancelled, fmt.Errorf("commit knife cut: %w", err)
	}

	s.tool.host.Selection.Select(res.Selection)
	log.Info("mesh cut",
		zap.Int("points", s.path.Len()),
		zap.Int("new_vertices", len(res.NewVertices)),
		zap.Int("new_faces", len(res.NewFaces)),
		zap.Int("unsplit", len(res.Unsplit)))
	return OutcomeApplied, nil
}

// BoxSession splits a box in two along a plane picked with two points.
type BoxSession struct {
	base
	box *mesh.Box
	// Split is the box created by the last successful Apply.
	Split *mesh.Box
}

// Hover resolves hit against the box sides.
func (s *BoxSession) Hover(hit picking.Hit) Resolution {
	if s.closed {
		return Unresolved
	}
	p, res := s.tool.resolver.ResolveBox(s.box, hit, &s.path)
	return s.hover(hit, p, res)
}

// AddPoint confirms one of the two points that define the cut plane.
func (s *BoxSession) AddPoint(hit picking.Hit) (CutPoint, Resolution) {
	if s.closed || s.path.Len() >= 2 {
		return CutPoint{}, Unresolved
	}
	p, ok := s.pending(hit)
	if !ok {
		var res Resolution
		if p, res = s.tool.resolver.ResolveBox(s.box, hit, &s.path); res != Resolved {
			return CutPoint{}, res
		}
	}
	s.confirm(p)
	return p, Resolved
}

// Preview returns the points and, when two are known, the cut plane.
func (s *BoxSession) Preview() Preview {
	p := s.preview()
	pts := p.Points
	if p.Hover != nil {
		pts = append(pts, *p.Hover)
	}
	if cut, ok := PlanBoxCut(s.box, pts); ok {
		p.Plane = &cut
	}
	return p
}

// Apply splits the box. Fewer than two points, or a plane that does not
// cross the box, cancels instead.
func (s *BoxSession) Apply() (Outcome, error) {
	if s.closed {
		return OutcomeCancelled, ErrSessionClosed
	}
	defer s.close()

	log := s.tool.log.With(zap.String("target", s.target))
	if s.box == nil || !s.tool.inScene(s.target) {
		return OutcomeCancelled, nil
	}
	cut, ok := PlanBoxCut(s.box, s.path.Points())
	if !ok {
		log.Debug("no box cut plane", zap.Int("points", s.path.Len()))
		return OutcomeCancelled, nil
	}

	undo := s.tool.host.Undo
	if err := undo.Begin(s.box); err != nil {
		return OutcomeCancelled, fmt.Errorf("begin box split: %w", err)
	}
	saved := s.box.Clone()
	upper := SplitBox(s.box, cut, s.tool.newBoxID(s.box.ID))
	added := false

	// rollback puts the box and the scene back the way Begin saw them.
	rollback := func() {
		if cerr := undo.Cancel(); cerr != nil {
			log.Error("failed to cancel transaction", zap.Error(cerr))
		}
		if added {
			s.tool.host.Scene.Remove(upper.ID)
		}
		s.box.Restore(saved)
	}

	if scene := s.tool.host.Scene; scene != nil {
		if err := scene.AddBox(upper); err != nil {
			rollback()
			return OutcomeCancelled, fmt.Errorf("add split box: %w", err)
		}
		added = true
	}
	if err := undo.Commit(LabelBoxSplit, s.box, upper); err != nil {
		rollback()
		return OutcomeCancelled, fmt.Errorf("commit box split: %w", err)
	}
	s.Split = upper

	s.tool.host.Selection.Select(Selection{Element: s.box.ID, Boxes: []string{s.box.ID, upper.ID}})
	s.tool.host.Notify.Invalidate(upper.ID)
	log.Info("box split",
		zap.Int("axis", cut.Axis),
		zap.Float64("offset", cut.Offset),
		zap.String("new_box", upper.ID))
	return OutcomeApplied, nil
}
