package editor

import (
	"math"
	"slices"

	"archdraw/diagram"
	"archdraw/geometry"
	"archdraw/store"
)

// PointerDown handles a button press.
func (e *Editor) PointerDown(ev PointerEvent) {
	if ev.Button != ButtonLeft || e.busy() {
		return
	}
	e.pasteLocked = false
	if e.editing() {
		e.cancelEditing()
	}
	p := e.toDiagram(ev)

	switch e.State().Mode {
	case store.ModeCreateNodeReady:
		// Nodes are placed on release.
	case store.ModeCreateFrameReady:
		if kind := e.State().NodeToAdd; kind != "" {
			e.apply(store.SetPendingFrame{Frame: &store.PendingFrame{Kind: kind, Start: p, Current: p}})
		}
	case store.ModeCreateEdgeReady:
		e.edgeSourceDown(p)
	case store.ModeDrawingEdge:
		e.edgeTargetDown(p)
	case store.ModeDrawPen:
		e.penDown(p)
	case store.ModeSelect:
		e.selectDown(p, ev.Mods)
	}
}

// PointerMove handles pointer motion, with or without a button held.
func (e *Editor) PointerMove(ev PointerEvent) {
	if e.busy() {
		return
	}
	p := e.toDiagram(ev)
	st := e.State()

	switch {
	case st.PendingFrame != nil:
		pf := *st.PendingFrame
		pf.Current = p
		e.apply(store.SetPendingFrame{Frame: &pf})
	case st.Marquee != nil:
		m := *st.Marquee
		m.Current = p
		e.apply(store.SetMarquee{Info: &m})
	case st.Drag != nil:
		e.dragTo(p)
	case st.Resize != nil:
		e.resizeTo(p)
	case st.PendingEdge != nil:
		pe := *st.PendingEdge
		pe.Cursor = p
		e.apply(store.SetPendingEdge{Edge: &pe})
	case st.Mode == store.ModeDrawPen:
		e.penMove(p)
	}
}

// PointerUp handles a button release.
func (e *Editor) PointerUp(ev PointerEvent) {
	if ev.Button != ButtonLeft || e.busy() {
		return
	}
	p := e.toDiagram(ev)
	st := e.State()

	switch {
	case st.PendingFrame != nil:
		e.finishFrame(p)
	case st.Mode == store.ModeCreateNodeReady && st.NodeToAdd != "":
		e.placeNode(p, ev.Mods)
	case st.Marquee != nil:
		e.finishMarquee(p, ev.Mods)
	case st.Drag != nil:
		moved := e.dragMoved()
		e.apply(store.SetDrag{})
		if moved {
			e.commit()
		}
	case st.Resize != nil:
		r := *st.Resize
		e.apply(store.SetResize{})
		if i := st.FrameIndex(r.FrameID); i >= 0 && st.Frames[i].Bounds() != r.StartFrame {
			e.commit()
		}
	case st.Mode == store.ModeDrawPen:
		e.penUp(p)
	}
}

// DoubleClick starts label editing on the node or frame under the pointer.
func (e *Editor) DoubleClick(ev PointerEvent) {
	if e.busy() || e.State().Mode != store.ModeSelect {
		return
	}
	h := e.hitElement(e.toDiagram(ev))
	switch h.Kind {
	case HitNode:
		if !e.State().IsNodeSelected(h.ID) {
			e.apply(store.SetSelectedNodes{IDs: []int{h.ID}})
		}
	case HitFrame:
		if !e.State().IsFrameSelected(h.ID) {
			e.apply(store.SetSelectedFrames{IDs: []int{h.ID}})
		}
	default:
		return
	}
	e.StartEditing(h.ID)
}

// Wheel zooms one tick around the pointer when the viewport supports it.
func (e *Editor) Wheel(ev PointerEvent, in bool) {
	if z, ok := e.viewport.(geometry.Zoomer); ok {
		z.ZoomAt(ev.X, ev.Y, in)
	}
}

func (e *Editor) edgeSourceDown(p geometry.Point) {
	h := e.hitElement(p)
	if h.Kind == HitNone {
		e.apply(store.SetActiveTool{Tool: store.ToolSelect}, store.SetMode{Mode: store.ModeSelect})
		return
	}
	e.apply(
		store.SetPendingEdge{Edge: &store.PendingEdge{From: h.ID, Cursor: p}},
		store.SetMode{Mode: store.ModeDrawingEdge},
	)
}

func (e *Editor) edgeTargetDown(p geometry.Point) {
	h := e.hitElement(p)
	pending := e.State().PendingEdge
	if h.Kind == HitNone {
		e.apply(
			store.SetPendingEdge{},
			store.SetActiveTool{Tool: store.ToolSelect},
			store.SetMode{Mode: store.ModeSelect},
		)
		return
	}
	if pending != nil && pending.From != h.ID {
		if e.apply(store.AddEdge{From: pending.From, To: h.ID}) == nil {
			e.commit()
		}
	}
	e.apply(store.SetPendingEdge{}, store.SetMode{Mode: store.ModeCreateEdgeReady})
}

func (e *Editor) selectDown(p geometry.Point, mods Modifiers) {
	h := e.HitTest(p)
	switch h.Kind {
	case HitHandle:
		st := e.State()
		f := st.Frames[st.FrameIndex(h.ID)]
		e.apply(store.SetResize{Info: &store.ResizeInfo{
			FrameID:    h.ID,
			Handle:     h.Handle,
			Start:      p,
			StartFrame: f.Bounds(),
		}})
	case HitEdge:
		e.edgeDown(h.ID, mods)
	case HitNode:
		e.nodeDown(h.ID, p, mods)
	case HitFrame:
		e.frameDown(h.ID, p, mods)
	default:
		if !mods.Has(ModShift) {
			e.apply(store.SetSelectedNodes{}, store.SetSelectedFrames{}, store.SetSelectedEdges{})
		}
		e.apply(store.SetMarquee{Info: &store.MarqueeInfo{Start: p, Current: p}})
	}
}

func (e *Editor) edgeDown(id int, mods Modifiers) {
	st := e.State()
	if mods.Toggle() {
		e.apply(store.SetSelectedEdges{IDs: toggle(st.SelectedEdgeIDs, id)})
		return
	}
	e.apply(
		store.SetSelectedEdges{IDs: []int{id}},
		store.SetSelectedNodes{},
		store.SetSelectedFrames{},
	)
}

// nodeDown selects a node and starts dragging the whole selection. A plain
// click on a selected node keeps the multi-selection so a group can be
// grabbed by any member.
func (e *Editor) nodeDown(id int, p geometry.Point, mods Modifiers) {
	st := e.State()
	if !mods.Toggle() && len(st.SelectedEdgeIDs) > 0 {
		e.apply(store.SetSelectedEdges{})
	}
	switch {
	case mods.Toggle():
		e.apply(store.SetSelectedNodes{IDs: toggle(st.SelectedNodeIDs, id)})
	case !st.IsNodeSelected(id):
		e.apply(store.SetSelectedNodes{IDs: []int{id}}, store.SetSelectedFrames{})
	}
	if !e.State().IsNodeSelected(id) {
		return
	}
	e.startDrag(p)
}

// frameDown is nodeDown for frames.
func (e *Editor) frameDown(id int, p geometry.Point, mods Modifiers) {
	st := e.State()
	if !mods.Toggle() && len(st.SelectedEdgeIDs) > 0 {
		e.apply(store.SetSelectedEdges{})
	}
	switch {
	case mods.Toggle():
		e.apply(store.SetSelectedFrames{IDs: toggle(st.SelectedFrameIDs, id)})
	case !st.IsFrameSelected(id):
		e.apply(store.SetSelectedFrames{IDs: []int{id}}, store.SetSelectedNodes{})
	}
	if !e.State().IsFrameSelected(id) {
		return
	}
	e.startDrag(p)
}

// startDrag captures the current selection and each member's position.
func (e *Editor) startDrag(p geometry.Point) {
	nodes, frames := e.store.Positions()
	e.apply(store.SetDrag{Info: &store.DragInfo{Start: p, NodeStarts: nodes, FrameStarts: frames}})
}

// dragTo moves every captured member to its start position plus the total
// pointer delta.
func (e *Editor) dragTo(p geometry.Point) {
	d := e.State().Drag
	delta := p.Sub(d.Start)
	move := store.MoveElements{
		Nodes:  make(map[int]geometry.Point, len(d.NodeStarts)),
		Frames: make(map[int]geometry.Point, len(d.FrameStarts)),
	}
	for id, start := range d.NodeStarts {
		move.Nodes[id] = start.Add(delta)
	}
	for id, start := range d.FrameStarts {
		move.Frames[id] = start.Add(delta)
	}
	e.apply(move)
}

// dragMoved reports whether any dragged member left its start position.
func (e *Editor) dragMoved() bool {
	st := e.State()
	for id, start := range st.Drag.NodeStarts {
		if i := st.NodeIndex(id); i >= 0 && (st.Nodes[i].X != start.X || st.Nodes[i].Y != start.Y) {
			return true
		}
	}
	for id, start := range st.Drag.FrameStarts {
		if i := st.FrameIndex(id); i >= 0 && (st.Frames[i].X != start.X || st.Frames[i].Y != start.Y) {
			return true
		}
	}
	return false
}

// resizeTo recomputes the frame from the handle delta. The corner opposite
// the handle stays fixed and the minimums apply at every step.
func (e *Editor) resizeTo(p geometry.Point) {
	r := e.State().Resize
	minW, minH := e.store.MinFrameSize()
	next := ResizeRect(r.StartFrame, r.Handle, p.Sub(r.Start), minW, minH)
	e.apply(store.UpdateFrame{ID: r.FrameID, Patch: store.FramePatch{
		X:      &next.X,
		Y:      &next.Y,
		Width:  &next.Width,
		Height: &next.Height,
	}})
}

// ResizeRect applies a handle drag of delta to start. Width and height
// never drop below the minimums; handles on the west or north side move
// the origin so the opposite corner stays put.
func ResizeRect(start geometry.Rect, h store.Handle, delta geometry.Point, minW, minH float64) geometry.Rect {
	out := start
	west := h == store.HandleNW || h == store.HandleSW
	north := h == store.HandleNW || h == store.HandleNE

	if west {
		out.Width = math.Max(minW, start.Width-delta.X)
		out.X = start.X + (start.Width - out.Width)
	} else {
		out.Width = math.Max(minW, start.Width+delta.X)
	}
	if north {
		out.Height = math.Max(minH, start.Height-delta.Y)
		out.Y = start.Y + (start.Height - out.Height)
	} else {
		out.Height = math.Max(minH, start.Height+delta.Y)
	}
	return out
}

// finishFrame turns the pending drag rectangle into a frame.
func (e *Editor) finishFrame(p geometry.Point) {
	pf := *e.State().PendingFrame
	pf.Current = p
	r := pf.Rect()
	minW, minH := e.store.MinFrameSize()
	e.apply(store.SetPendingFrame{})
	err := e.apply(store.AddFrame{
		Kind:   pf.Kind,
		X:      r.X,
		Y:      r.Y,
		Width:  math.Max(r.Width, minW),
		Height: math.Max(r.Height, minH),
	})
	e.apply(store.SetNodeToAdd{}, store.SetMode{Mode: store.ModeSelect})
	if err == nil {
		e.commit()
	}
}

// placeNode drops the armed shape centered on p and opens its label for
// editing. With Ctrl or Cmd held the shape stays armed for another click.
func (e *Editor) placeNode(p geometry.Point, mods Modifiers) {
	kind := e.State().NodeToAdd
	err := e.apply(store.AddNode{
		Kind: kind,
		X:    p.X - diagram.NodeWidth/2,
		Y:    p.Y - diagram.NodeHeight/2,
	})
	if err == nil {
		e.commit()
		e.StartEditing(e.store.LastID())
	}
	if mods.Command() {
		return
	}
	e.apply(store.SetNodeToAdd{}, store.SetMode{Mode: store.ModeSelect})
}

// finishMarquee selects what the rectangle encloses: nodes and frames when
// fully inside, edges when either endpoint's center is inside. Shift adds
// to the existing selection.
func (e *Editor) finishMarquee(p geometry.Point, mods Modifiers) {
	st := e.State()
	start := st.Marquee.Start

	var nodes, frames, edges []int
	for _, n := range st.Nodes {
		if geometry.InMarquee(n.Bounds(), start, p) {
			nodes = append(nodes, n.ID)
		}
	}
	for _, f := range st.Frames {
		if geometry.InMarquee(f.Bounds(), start, p) {
			frames = append(frames, f.ID)
		}
	}
	for _, ed := range st.Edges {
		from, okFrom := st.Element(ed.From)
		to, okTo := st.Element(ed.To)
		if !okFrom || !okTo {
			continue
		}
		if geometry.CenterInMarquee(from.Bounds(), start, p) || geometry.CenterInMarquee(to.Bounds(), start, p) {
			edges = append(edges, ed.ID)
		}
	}

	if mods.Has(ModShift) {
		nodes = append(slices.Clone(st.SelectedNodeIDs), nodes...)
		frames = append(slices.Clone(st.SelectedFrameIDs), frames...)
		edges = append(slices.Clone(st.SelectedEdgeIDs), edges...)
	}
	e.apply(
		store.SetSelectedNodes{IDs: nodes},
		store.SetSelectedFrames{IDs: frames},
		store.SetSelectedEdges{IDs: edges},
		store.SetMarquee{},
	)
}

// toggle adds id to ids or removes it when present.
func toggle(ids []int, id int) []int {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(slices.Clone(ids), i, i+1)
	}
	return append(slices.Clone(ids), id)
}
