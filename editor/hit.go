package editor

import (
	"archdraw/geometry"
	"archdraw/store"
)

// HitKind says what a pointer landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitHandle
	HitEdge
	HitFrame
	HitNode
)

// Hit is the result of a hit test.
type Hit struct {
	Kind   HitKind
	ID     int
	Handle store.Handle // Set for HitHandle
}

// HitTest finds what lies under p in select-mode priority order: a resize
// handle of a selected frame, an edge, a node, a frame. Later elements are
// drawn on top and win; nodes always sit above frames.
func (e *Editor) HitTest(p geometry.Point) Hit {
	if h, ok := e.hitHandle(p); ok {
		return h
	}
	if id, ok := e.hitEdge(p); ok {
		return Hit{Kind: HitEdge, ID: id}
	}
	return e.hitElement(p)
}

// hitElement tests nodes, then frames.
func (e *Editor) hitElement(p geometry.Point) Hit {
	st := e.State()
	for i := len(st.Nodes) - 1; i >= 0; i-- {
		if st.Nodes[i].Bounds().ContainsPoint(p) {
			return Hit{Kind: HitNode, ID: st.Nodes[i].ID}
		}
	}
	for i := len(st.Frames) - 1; i >= 0; i-- {
		if st.Frames[i].Bounds().ContainsPoint(p) {
			return Hit{Kind: HitFrame, ID: st.Frames[i].ID}
		}
	}
	return Hit{}
}

func (e *Editor) hitHandle(p geometry.Point) (Hit, bool) {
	st := e.State()
	half := e.cfg.HandleSize / 2
	for i := len(st.Frames) - 1; i >= 0; i-- {
		f := st.Frames[i]
		if !st.IsFrameSelected(f.ID) {
			continue
		}
		for _, h := range store.Handles {
			c := handlePoint(f.Bounds(), h)
			box := geometry.Rect{X: c.X - half, Y: c.Y - half, Width: e.cfg.HandleSize, Height: e.cfg.HandleSize}
			if box.ContainsPoint(p) {
				return Hit{Kind: HitHandle, ID: f.ID, Handle: h}, true
			}
		}
	}
	return Hit{}, false
}

func (e *Editor) hitEdge(p geometry.Point) (int, bool) {
	st := e.State()
	for i := len(st.Edges) - 1; i >= 0; i-- {
		route := st.EdgeRoute(st.Edges[i])
		if route.Empty() {
			continue
		}
		if geometry.NearPolyline(p, route.Points, e.cfg.EdgeHitTolerance) {
			return st.Edges[i].ID, true
		}
	}
	return 0, false
}

// handlePoint returns the corner of r a handle sits on.
func handlePoint(r geometry.Rect, h store.Handle) geometry.Point {
	switch h {
	case store.HandleNW:
		return geometry.Point{X: r.X, Y: r.Y}
	case store.HandleNE:
		return geometry.Point{X: r.Right(), Y: r.Y}
	case store.HandleSW:
		return geometry.Point{X: r.X, Y: r.Bottom()}
	default:
		return geometry.Point{X: r.Right(), Y: r.Bottom()}
	}
}

// HandleRects returns the resize handle squares of a frame, for renderers.
func (e *Editor) HandleRects(r geometry.Rect) map[store.Handle]geometry.Rect {
	half := e.cfg.HandleSize / 2
	out := make(map[store.Handle]geometry.Rect, len(store.Handles))
	for _, h := range store.Handles {
		c := handlePoint(r, h)
		out[h] = geometry.Rect{X: c.X - half, Y: c.Y - half, Width: e.cfg.HandleSize, Height: e.cfg.HandleSize}
	}
	return out
}
