// Package undo keeps an in-memory history of element snapshots so edits can
// be cancelled before they are committed and undone afterwards.
package undo

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshknife/internal/logger"
	"github.com/Faultbox/meshknife/pkg/mesh"
)

// Journal errors.
var (
	ErrInTransaction   = errors.New("undo: transaction already open")
	ErrNoTransaction   = errors.New("undo: no open transaction")
	ErrNothingToUndo   = errors.New("undo: history is empty")
	ErrUnsupportedType = errors.New("undo: unsupported element type")
)

// snapshot pairs a live element with a copy of its earlier state.
type snapshot struct {
	id      string
	restore func()
}

// Entry is one committed change.
type Entry struct {
	Label string
	// Created lists elements that did not exist before the change.
	Created []string

	before []snapshot
}

// Journal records snapshots of elements around each edit. It implements the
// knife package's Transactions interface.
type Journal struct {
	// Remove is called on Undo for elements the change created. It may be
	// nil when nothing ever creates elements.
	Remove func(id string)

	pending []snapshot
	open    bool
	entries []Entry
}

// NewJournal creates an empty journal.
func NewJournal(remove func(id string)) *Journal {
	return &Journal{Remove: remove}
}

// Begin snapshots elements and opens a transaction.
func (j *Journal) Begin(elements ...mesh.Element) error {
	if j.open {
		return ErrInTransaction
	}
	pending := make([]snapshot, 0, len(elements))
	for _, el := range elements {
		s, err := snapshotOf(el)
		if err != nil {
			return err
		}
		pending = append(pending, s)
	}
	j.pending = pending
	j.open = true
	return nil
}

// Commit closes the transaction and records it under label. elements are
// the edited elements as they are now; any not snapshotted by Begin are
// recorded as created.
func (j *Journal) Commit(label string, elements ...mesh.Element) error {
	if !j.open {
		return ErrNoTransaction
	}
	known := make(map[string]bool, len(j.pending))
	for _, s := range j.pending {
		known[s.id] = true
	}
	entry := Entry{Label: label, before: j.pending}
	for _, el := range elements {
		if id := el.ElementID(); !known[id] {
			entry.Created = append(entry.Created, id)
			known[id] = true
		}
	}
	j.entries = append(j.entries, entry)
	j.pending = nil
	j.open = false

	logger.Debug("undo entry recorded",
		zap.String("label", label),
		zap.Int("elements", len(entry.before)),
		zap.Strings("created", entry.Created))
	return nil
}

// Cancel restores every element snapshotted by Begin and closes the
// transaction.
func (j *Journal) Cancel() error {
	if !j.open {
		return ErrNoTransaction
	}
	for _, s := range j.pending {
		s.restore()
	}
	j.pending = nil
	j.open = false
	return nil
}

// Undo reverts the most recent committed entry and returns its label.
func (j *Journal) Undo() (string, error) {
	if j.open {
		return "", ErrInTransaction
	}
	if len(j.entries) == 0 {
		return "", ErrNothingToUndo
	}
	entry := j.entries[len(j.entries)-1]
	j.entries = j.entries[:len(j.entries)-1]

	for _, s := range entry.before {
		s.restore()
	}
	if j.Remove != nil {
		for _, id := range entry.Created {
			j.Remove(id)
		}
	}
	logger.Debug("undo", zap.String("label", entry.Label))
	return entry.Label, nil
}

// Open reports whether a transaction is in progress.
func (j *Journal) Open() bool {
	return j.open
}

// Entries returns the committed entries, oldest first.
func (j *Journal) Entries() []Entry {
	return append([]Entry(nil), j.entries...)
}

func snapshotOf(el mesh.Element) (snapshot, error) {
	switch v := el.(type) {
	case *mesh.Mesh:
		saved := v.Clone()
		return snapshot{id: v.ID, restore: func() { v.Restore(saved) }}, nil
	case *mesh.Box:
		saved := v.Clone()
		return snapshot{id: v.ID, restore: func() { v.Restore(saved) }}, nil
	default:
		return snapshot{}, fmt.Errorf("%w: %T", ErrUnsupportedType, el)
	}
}
