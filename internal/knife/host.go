package knife

import (
	"errors"

	"github.com/Faultbox/meshknife/pkg/mesh"
)

var (
	// ErrSessionClosed is returned by operations on a session that was
	// already applied or cancelled.
	ErrSessionClosed = errors.New("knife: session closed")
	// ErrTargetBusy is returned when a session is already open on the
	// target element.
	ErrTargetBusy = errors.New("knife: target already has an open session")
	// ErrNoTarget is returned when a session is started without a target.
	ErrNoTarget = errors.New("knife: no target")
	// ErrStaleReference is returned when a cut point refers to a vertex or
	// face that no longer exists in the mesh.
	ErrStaleReference = errors.New("knife: cut point references missing mesh data")
)

// Transactions is the host's undo collaborator. Begin snapshots the elements
// about to change. Commit records the change under a label together with the
// elements as they are afterwards, which may include new ones. Cancel
// restores the snapshots taken by Begin.
type Transactions interface {
	Begin(elements ...mesh.Element) error
	Commit(label string, elements ...mesh.Element) error
	Cancel() error
}

// Selector receives the selection produced by an applied cut.
type Selector interface {
	Select(sel Selection)
}

// Notifier receives transient messages and redraw requests.
type Notifier interface {
	// Warn shows a non-fatal hint, such as an unconnected cut segment.
	Warn(msg string)
	// ConfirmPrompt asks the host to show its apply/cancel prompt.
	ConfirmPrompt(target string)
	// Invalidate requests a redraw of one element.
	Invalidate(target string)
}

// Scene answers whether elements still exist and accepts new boxes. Remove
// takes back a box added by a split that could not be committed.
type Scene interface {
	Contains(id string) bool
	AddBox(box *mesh.Box) error
	Remove(id string)
}

// Host bundles the collaborators a session talks to. Nil Undo, Selection and
// Notify are replaced with no-op implementations. A nil Scene means every
// target is assumed present and new boxes are only returned to the caller.
type Host struct {
	Undo      Transactions
	Selection Selector
	Notify    Notifier
	Scene     Scene
}

func (h Host) withDefaults() Host {
	if h.Undo == nil {
		h.Undo = nopTransactions{}
	}
	if h.Selection == nil {
		h.Selection = nopSelector{}
	}
	if h.Notify == nil {
		h.Notify = nopNotifier{}
	}
	return h
}

// Selection is the set of elements the host should select after a cut.
type Selection struct {
	Element  string
	Vertices []mesh.VertexKey
	Faces    []mesh.FaceKey
	Edges    []mesh.Edge
	// Boxes lists element ids for box splits.
	Boxes []string
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.Vertices) == 0 && len(s.Faces) == 0 && len(s.Edges) == 0 && len(s.Boxes) == 0
}

// Outcome is how a session ended.
type Outcome int

const (
	// OutcomeApplied means the target was changed and the change committed.
	OutcomeApplied Outcome = iota
	// OutcomeCancelled means nothing changed.
	OutcomeCancelled
)

func (o Outcome) String() string {
	if o == OutcomeApplied {
		return "applied"
	}
	return "cancelled"
}

type nopTransactions struct{}

func (nopTransactions) Begin(...mesh.Element) error          { return nil }
func (nopTransactions) Commit(string, ...mesh.Element) error { return nil }
func (nopTransactions) Cancel() error                        { return nil }

type nopSelector struct{}

func (nopSelector) Select(Selection) {}

type nopNotifier struct{}

func (nopNotifier) Warn(string)          {}
func (nopNotifier) ConfirmPrompt(string) {}
func (nopNotifier) Invalidate(string)    {}
