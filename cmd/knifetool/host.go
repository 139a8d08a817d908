package main

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshknife/internal/knife"
	"github.com/Faultbox/meshknife/internal/logger"
	"github.com/Faultbox/meshknife/internal/undo"
	"github.com/Faultbox/meshknife/pkg/formats"
	"github.com/Faultbox/meshknife/pkg/mesh"
)

// modelScene exposes a model document to knife sessions.
type modelScene struct {
	doc *formats.Model
}

func (s modelScene) Contains(id string) bool {
	return s.doc.Contains(id)
}

func (s modelScene) AddBox(b *mesh.Box) error {
	if s.doc.Contains(b.ID) {
		return fmt.Errorf("%w: %s", formats.ErrDuplicateElement, b.ID)
	}
	s.doc.PutBox(b)
	return nil
}

func (s modelScene) Remove(id string) {
	s.doc.Remove(id)
}

// consoleHost reports warnings and selections on the command's output.
type consoleHost struct {
	out io.Writer
	log *zap.Logger

	warnings  []string
	selection knife.Selection
}

func newConsoleHost(out io.Writer) *consoleHost {
	return &consoleHost{out: out, log: logger.Named("knifetool")}
}

func (h *consoleHost) Warn(msg string) {
	h.warnings = append(h.warnings, msg)
	fmt.Fprintf(h.out, "warning: %s\n", msg)
}

func (h *consoleHost) ConfirmPrompt(target string) {
	h.log.Debug("first point placed", zap.String("target", target))
}

func (h *consoleHost) Invalidate(target string) {}

func (h *consoleHost) Select(sel knife.Selection) {
	h.selection = sel
}

// printSelection writes the selection left by an applied session.
func (h *consoleHost) printSelection() {
	sel := h.selection
	if sel.Empty() {
		return
	}
	if len(sel.Boxes) > 0 {
		fmt.Fprintf(h.out, "selected boxes: %s\n", strings.Join(sel.Boxes, ", "))
		return
	}
	vertices := make([]string, len(sel.Vertices))
	for i, vk := range sel.Vertices {
		vertices[i] = string(vk)
	}
	faces := make([]string, len(sel.Faces))
	for i, fk := range sel.Faces {
		faces[i] = string(fk)
	}
	fmt.Fprintf(h.out, "selected vertices: %s\n", strings.Join(vertices, ", "))
	fmt.Fprintf(h.out, "selected faces: %s\n", strings.Join(faces, ", "))
	fmt.Fprintf(h.out, "cut edges: %d\n", len(sel.Edges))
}

// newHost wires a journal, the console and the model document into a knife
// host.
func newHost(doc *formats.Model, console *consoleHost) (knife.Host, *undo.Journal) {
	journal := undo.NewJournal(doc.Remove)
	return knife.Host{
		Undo:      journal,
		Selection: console,
		Notify:    console,
		Scene:     modelScene{doc: doc},
	}, journal
}
