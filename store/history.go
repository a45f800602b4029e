package store

import "archdraw/diagram"

// DefaultHistoryDepth is the number of snapshots kept when none is configured.
const DefaultHistoryDepth = 50

// History keeps entity snapshots for undo and redo. Snapshots are deep
// copies so later edits never leak into the past.
type History struct {
	states  []*diagram.Diagram
	current int
	max     int
}

// NewHistory creates a history holding at most max snapshots.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistoryDepth
	}
	return &History{
		states:  make([]*diagram.Diagram, 0, max),
		current: -1,
		max:     max,
	}
}

// Save records d as the newest snapshot, dropping any redo tail.
func (h *History) Save(d *diagram.Diagram) {
	if h.current < len(h.states)-1 {
		h.states = h.states[:h.current+1]
	}
	h.states = append(h.states, d.Clone())
	if len(h.states) > h.max {
		h.states = h.states[1:]
	} else {
		h.current++
	}
}

// CanUndo reports whether there is an older snapshot.
func (h *History) CanUndo() bool {
	return h.current > 0
}

// CanRedo reports whether an undone snapshot can be restored.
func (h *History) CanRedo() bool {
	return h.current < len(h.states)-1
}

// Undo steps back and returns a copy of the previous snapshot, or nil.
func (h *History) Undo() *diagram.Diagram {
	if !h.CanUndo() {
		return nil
	}
	h.current--
	return h.states[h.current].Clone()
}

// Redo steps forward and returns a copy of the next snapshot, or nil.
func (h *History) Redo() *diagram.Diagram {
	if !h.CanRedo() {
		return nil
	}
	h.current++
	return h.states[h.current].Clone()
}

// Clear drops every snapshot.
func (h *History) Clear() {
	h.states = h.states[:0]
	h.current = -1
}

// Stats returns the 1-based position and the number of snapshots.
func (h *History) Stats() (current, total int) {
	return h.current + 1, len(h.states)
}
