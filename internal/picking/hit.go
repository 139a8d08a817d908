// Package picking describes resolved pointer hits on mesh and box features.
// Raycasting against the scene happens in the host; the knife engine only
// consumes the resulting Hit values.
package picking

import (
	"github.com/Faultbox/meshknife/pkg/math"
	"github.com/Faultbox/meshknife/pkg/mesh"
)

// HitKind is the feature a pointer event landed on.
type HitKind int

const (
	// HitNone means the pointer is not over any feature of the target.
	HitNone HitKind = iota
	HitVertex
	HitEdge
	HitFace
)

func (k HitKind) String() string {
	switch k {
	case HitVertex:
		return "vertex"
	case HitEdge:
		return "edge"
	case HitFace:
		return "face"
	default:
		return "none"
	}
}

// ParseHitKind accepts the names used by hosts ("line" and "element" are
// accepted as aliases of edge and face).
func ParseHitKind(s string) HitKind {
	switch s {
	case "vertex":
		return HitVertex
	case "edge", "line":
		return HitEdge
	case "face", "element":
		return HitFace
	default:
		return HitNone
	}
}

// Modifiers is the modifier-key state at the time of the event.
type Modifiers struct {
	// Snap rounds edge positions to quarters of the edge.
	Snap bool
	// Center snaps face hits to the face centroid.
	Center bool
	// Grid snaps face hits to the texture grid.
	Grid bool
	// Fine switches the grid to its fine subdivision.
	Fine bool
}

// Hit is one resolved pointer event against a target element.
type Hit struct {
	Target string
	Kind   HitKind
	Point  math.Vec3

	Vertex mesh.VertexKey
	Edge   [2]mesh.VertexKey
	Face   mesh.FaceKey
	// Side is the box face for hits on box targets.
	Side mesh.Direction

	Modifiers Modifiers
	// ViewScale converts screen-relative distances into model units at
	// the hit depth. Zero means 1.
	ViewScale float64
}
