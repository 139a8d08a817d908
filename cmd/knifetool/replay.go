package main

import (
	"fmt"
	"io"

	"github.com/Faultbox/meshknife/internal/knife"
	"github.com/Faultbox/meshknife/internal/picking"
	"github.com/Faultbox/meshknife/pkg/formats"
	"github.com/Faultbox/meshknife/pkg/math"
	"github.com/Faultbox/meshknife/pkg/mesh"
)

// caster turns a recorded ray into a hit on the target.
type caster func(r picking.Ray, radius float64) (picking.Hit, bool)

func meshCaster(m *mesh.Mesh) caster {
	return func(r picking.Ray, radius float64) (picking.Hit, bool) {
		return picking.HitMesh(r, m, radius)
	}
}

func boxCaster(b *mesh.Box) caster {
	return func(r picking.Ray, _ float64) (picking.Hit, bool) {
		return picking.HitBox(r, b)
	}
}

func vec3(a [3]float64) math.Vec3 {
	return math.V3(a[0], a[1], a[2])
}

// hitFromDoc converts one recorded event into a hit on target. Ray events
// that miss report false.
func hitFromDoc(p formats.PointDoc, target string, cast caster, pickRadius float64) (picking.Hit, bool) {
	scale := p.ViewScale
	if scale <= 0 {
		scale = 1
	}

	var hit picking.Hit
	if p.Ray != nil {
		var ok bool
		hit, ok = cast(picking.NewRay(vec3(p.Ray.Origin), vec3(p.Ray.Direction)), pickRadius*scale)
		if !ok {
			return picking.Hit{}, false
		}
	} else {
		hit = picking.Hit{
			Target: target,
			Kind:   picking.ParseHitKind(p.Kind),
			Point:  vec3(p.Point),
			Vertex: mesh.VertexKey(p.Vertex),
			Face:   mesh.FaceKey(p.Face),
			Side:   mesh.Direction(p.Side),
		}
		if len(p.Edge) == 2 {
			hit.Edge = [2]mesh.VertexKey{mesh.VertexKey(p.Edge[0]), mesh.VertexKey(p.Edge[1])}
		}
	}

	hit.Modifiers = picking.Modifiers{Snap: p.Snap, Center: p.Center, Grid: p.Grid, Fine: p.Fine}
	hit.ViewScale = p.ViewScale
	return hit, true
}

// replay feeds the recorded events into s and reports each confirmed point.
func replay(s knife.Session, path *formats.CutPathDoc, cast caster, pickRadius float64, out io.Writer) {
	for i, p := range path.Points {
		hit, ok := hitFromDoc(p, s.Target(), cast, pickRadius)
		if !ok {
			fmt.Fprintf(out, "point %d: ray missed %s\n", i, s.Target())
			continue
		}
		if p.Hover {
			s.Hover(hit)
			continue
		}
		cp, res := s.AddPoint(hit)
		if res != knife.Resolved {
			fmt.Fprintf(out, "point %d: %s\n", i, res)
			continue
		}
		fmt.Fprintf(out, "point %d: %s\n", i, cp)
	}
}
