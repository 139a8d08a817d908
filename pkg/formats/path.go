package formats

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidPoint is returned for a cut path point that has neither a ray
// nor a usable feature reference.
var ErrInvalidPoint = errors.New("invalid cut path point")

// CutPathDoc is a recorded sequence of pointer events against one element.
type CutPathDoc struct {
	Target string     `yaml:"target"`
	Points []PointDoc `yaml:"points"`
}

// PointDoc is one pointer event. Either Ray is set and the host casts it
// against the target, or Kind names the feature that was hit.
type PointDoc struct {
	Ray *RayDoc `yaml:"ray,omitempty"`

	Kind   string     `yaml:"kind,omitempty"`
	Point  [3]float64 `yaml:"point,flow"`
	Vertex string     `yaml:"vertex,omitempty"`
	Edge   []string   `yaml:"edge,omitempty,flow"`
	Face   string     `yaml:"face,omitempty"`
	Side   string     `yaml:"side,omitempty"`

	Snap      bool    `yaml:"snap,omitempty"`
	Center    bool    `yaml:"center,omitempty"`
	Grid      bool    `yaml:"grid,omitempty"`
	Fine      bool    `yaml:"fine,omitempty"`
	ViewScale float64 `yaml:"view_scale,omitempty"`

	// Hover marks an event that only moves the preview.
	Hover bool `yaml:"hover,omitempty"`
}

// RayDoc is a pick ray in the element's local space.
type RayDoc struct {
	Origin    [3]float64 `yaml:"origin,flow"`
	Direction [3]float64 `yaml:"direction,flow"`
}

// ParseCutPath decodes a cut path document.
func ParseCutPath(data []byte) (*CutPathDoc, error) {
	var doc CutPathDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing cut path: %w", err)
	}
	for i, p := range doc.Points {
		if err := p.check(); err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
	}
	return &doc, nil
}

// LoadCutPath reads a cut path document from path.
func LoadCutPath(path string) (*CutPathDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cut path: %w", err)
	}
	return ParseCutPath(data)
}

func (p PointDoc) check() error {
	if p.Ray != nil {
		if p.Ray.Direction == [3]float64{} {
			return fmt.Errorf("%w: zero ray direction", ErrInvalidPoint)
		}
		return nil
	}
	switch p.Kind {
	case "vertex":
		if p.Vertex == "" {
			return fmt.Errorf("%w: vertex hit without vertex", ErrInvalidPoint)
		}
	case "edge", "line":
		if len(p.Edge) != 2 {
			return fmt.Errorf("%w: edge hit needs two vertices, got %d", ErrInvalidPoint, len(p.Edge))
		}
	case "face", "element":
		if p.Face == "" && p.Side == "" {
			return fmt.Errorf("%w: face hit without face or side", ErrInvalidPoint)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPoint, p.Kind)
	}
	return nil
}
