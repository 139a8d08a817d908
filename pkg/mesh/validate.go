package mesh

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Severity classifies a validation problem.
type Severity int

const (
	// SeverityError marks a broken invariant.
	SeverityError Severity = iota
	// SeverityWarning marks something legal but suspicious.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Problem is a single validation finding.
type Problem struct {
	Face     FaceKey
	Severity Severity
	Message  string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: face %s: %s", p.Severity, p.Face, p.Message)
}

// minFaceArea is the area below which a face is reported as degenerate.
const minFaceArea = 1e-9

// Validate checks the topology invariants of a mesh: faces have three or
// four distinct vertices that exist, no two faces share a vertex set, and no
// face is degenerate. Edges bounded by more than two faces are reported as
// warnings.
func Validate(m *Mesh) []Problem {
	var problems []Problem
	seen := make(map[string]FaceKey)

	for _, fk := range m.FaceKeys() {
		f := m.Faces[fk]
		if n := len(f.Vertices); n < 3 || n > 4 {
			problems = append(problems, Problem{fk, SeverityError, fmt.Sprintf("has %d vertices, want 3 or 4", n)})
			continue
		}

		missing := false
		for _, vk := range f.Vertices {
			if _, ok := m.Vertices[vk]; !ok {
				problems = append(problems, Problem{fk, SeverityError, fmt.Sprintf("references missing vertex %s", vk)})
				missing = true
			}
		}
		if missing {
			continue
		}

		sorted := slices.Clone(f.Vertices)
		slices.Sort(sorted)
		if len(slices.Compact(sorted)) != len(f.Vertices) {
			problems = append(problems, Problem{fk, SeverityError, "repeats a vertex"})
			continue
		}

		sig := vertexSetKey(sorted)
		if other, dup := seen[sig]; dup {
			problems = append(problems, Problem{fk, SeverityError, fmt.Sprintf("duplicates face %s", other)})
		} else {
			seen[sig] = fk
		}

		if m.Area(fk) < minFaceArea {
			problems = append(problems, Problem{fk, SeverityError, "is degenerate"})
		}
	}

	for e, count := range m.EdgeFaceCounts() {
		if count > 2 {
			for _, fk := range m.FacesWithEdge(e[0], e[1]) {
				problems = append(problems, Problem{fk, SeverityWarning,
					fmt.Sprintf("edge %s-%s is shared by %d faces", e[0], e[1], count)})
			}
		}
	}

	return problems
}

// HasErrors reports whether any problem is an error.
func HasErrors(problems []Problem) bool {
	return slices.IndexFunc(problems, func(p Problem) bool {
		return p.Severity == SeverityError
	}) >= 0
}

func vertexSetKey(sorted []VertexKey) string {
	parts := make([]string, len(sorted))
	for i, vk := range sorted {
		parts[i] = string(vk)
	}
	return strings.Join(parts, "|")
}
