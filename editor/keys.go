package editor

import (
	"slices"

	"archdraw/geometry"
	"archdraw/store"
)

// HandleKey processes a key press and reports whether it was consumed.
// While a label is being edited every key goes to the label editor.
func (e *Editor) HandleKey(ev KeyEvent) bool {
	if e.editing() {
		e.handleTextKey(ev)
		return true
	}
	if e.busy() {
		return false
	}
	if !ev.is('v') {
		e.pasteLocked = false
	}

	switch {
	case ev.is('c'):
		e.Copy()
	case ev.is('v'):
		if e.pasteLocked {
			return true
		}
		e.pasteLocked = true
		e.Paste()
	case ev.is('z') && ev.Mods.Has(ModShift), ev.is('y'):
		e.Redo()
	case ev.is('z'):
		e.Undo()
	default:
		return e.handleNormalKey(ev)
	}
	return true
}

// KeyUp releases the paste lock once the paste key is let go.
func (e *Editor) KeyUp(ev KeyEvent) {
	if ev.Key == KeyRune && (ev.Rune == 'v' || ev.Rune == 'V') {
		e.pasteLocked = false
	}
}

// handleNormalKey processes keys outside text editing
func (e *Editor) handleNormalKey(ev KeyEvent) bool {
	switch ev.Key {
	case KeyEscape:
		e.escape()
	case KeyDelete, KeyBackspace:
		e.DeleteSelection()
	case KeyArrowUp:
		e.Nudge(0, -e.cfg.NudgeStep)
	case KeyArrowDown:
		e.Nudge(0, e.cfg.NudgeStep)
	case KeyArrowLeft:
		e.Nudge(-e.cfg.NudgeStep, 0)
	case KeyArrowRight:
		e.Nudge(e.cfg.NudgeStep, 0)
	default:
		return false
	}
	return true
}

// escape cancels local interactions in priority order. Each step is
// checked on its own, so one press can clear several.
func (e *Editor) escape() {
	st := e.State()
	if st.Marquee != nil {
		e.apply(store.SetMarquee{})
	}
	if st.PendingEdge != nil {
		e.apply(store.SetPendingEdge{})
		if st.Mode == store.ModeDrawingEdge {
			e.apply(store.SetMode{Mode: store.ModeCreateEdgeReady})
		}
	}
	if st.NodeToAdd != "" {
		e.apply(store.SetNodeToAdd{}, store.SetPendingFrame{})
		if st.Mode == store.ModeCreateNodeReady || st.Mode == store.ModeCreateFrameReady {
			e.apply(store.SetMode{Mode: store.ModeSelect})
		}
	}
	if len(st.SelectedNodeIDs) > 0 {
		e.apply(store.SetSelectedNodes{})
	}
	if len(st.SelectedFrameIDs) > 0 {
		e.apply(store.SetSelectedFrames{})
	}
	if len(st.SelectedEdgeIDs) > 0 {
		e.apply(store.SetSelectedEdges{})
	}
}

// DeleteSelection deletes every selected node, frame and edge.
func (e *Editor) DeleteSelection() {
	st := e.State()
	if !st.HasSelection() {
		return
	}
	nodes := slices.Clone(st.SelectedNodeIDs)
	frames := slices.Clone(st.SelectedFrameIDs)
	edges := slices.Clone(st.SelectedEdgeIDs)
	e.apply(
		store.DeleteNodes{IDs: nodes},
		store.DeleteFrames{IDs: frames},
		store.DeleteEdges{IDs: edges},
		store.SetSelectedNodes{},
		store.SetSelectedFrames{},
		store.SetSelectedEdges{},
	)
	e.commit()
}

// Nudge moves the selected nodes and frames by (dx, dy).
func (e *Editor) Nudge(dx, dy float64) {
	nodes, frames := e.store.Positions()
	if len(nodes) == 0 && len(frames) == 0 {
		return
	}
	d := geometry.Point{X: dx, Y: dy}
	for id, p := range nodes {
		nodes[id] = p.Add(d)
	}
	for id, p := range frames {
		frames[id] = p.Add(d)
	}
	e.apply(store.MoveElements{Nodes: nodes, Frames: frames})
	e.commit()
}
