package store

import (
	"maps"

	"archdraw/diagram"
	"archdraw/geometry"
)

// PendingEdge is the first half of the two-click edge protocol.
type PendingEdge struct {
	From   int
	Cursor geometry.Point
}

// PendingFrame is a frame being sized by dragging.
type PendingFrame struct {
	Kind    string
	Start   geometry.Point
	Current geometry.Point
}

// Rect returns the normalized drag rectangle.
func (p PendingFrame) Rect() geometry.Rect {
	return geometry.RectFromPoints(p.Start, p.Current)
}

// ResizeInfo records the frame geometry when a resize handle was grabbed.
type ResizeInfo struct {
	FrameID    int
	Handle     Handle
	Start      geometry.Point
	StartFrame geometry.Rect
}

// DragInfo captures the dragged selection and each member's start position.
type DragInfo struct {
	Start       geometry.Point
	NodeStarts  map[int]geometry.Point
	FrameStarts map[int]geometry.Point
}

// MarqueeInfo is a selection rectangle in progress.
type MarqueeInfo struct {
	Start   geometry.Point
	Current geometry.Point
}

// Rect returns the normalized marquee rectangle.
func (m MarqueeInfo) Rect() geometry.Rect {
	return geometry.RectFromPoints(m.Start, m.Current)
}

// Drawing is the freehand stroke in progress.
type Drawing struct {
	Active bool
	Color  string
	Erase  bool
	Points []geometry.Point
}

// State is the canonical in-memory model. Renderers read it; only
// Store.Apply writes it.
type State struct {
	diagram.Diagram

	ActiveTool Tool
	Mode       Mode

	SelectedNodeIDs  []int
	SelectedFrameIDs []int
	SelectedEdgeIDs  []int

	// At most one of these is non-nil.
	PendingEdge  *PendingEdge
	PendingFrame *PendingFrame
	Resize       *ResizeInfo
	Drag         *DragInfo
	Marquee      *MarqueeInfo

	NodeToAdd     string
	EditingNodeID int // 0 when no label is being edited

	Drawing Drawing

	AIGenerating   bool
	AIError        bool
	AIErrorMessage string
}

func initialState() *State {
	return &State{
		Diagram: diagram.Diagram{
			Nodes:  []diagram.Node{},
			Frames: []diagram.Frame{},
			Edges:  []diagram.Edge{},
		},
		ActiveTool: ToolSelect,
		Mode:       ModeSelect,
		Drawing:    Drawing{Color: diagram.PenBlack},
	}
}

// HasSelection reports whether anything is selected.
func (s *State) HasSelection() bool {
	return len(s.SelectedNodeIDs) > 0 || len(s.SelectedFrameIDs) > 0 || len(s.SelectedEdgeIDs) > 0
}

// IsNodeSelected reports whether node id is selected.
func (s *State) IsNodeSelected(id int) bool { return contains(s.SelectedNodeIDs, id) }

// IsFrameSelected reports whether frame id is selected.
func (s *State) IsFrameSelected(id int) bool { return contains(s.SelectedFrameIDs, id) }

// IsEdgeSelected reports whether edge id is selected.
func (s *State) IsEdgeSelected(id int) bool { return contains(s.SelectedEdgeIDs, id) }

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := *s
	c.Diagram = *s.Diagram.Clone()
	c.SelectedNodeIDs = append([]int(nil), s.SelectedNodeIDs...)
	c.SelectedFrameIDs = append([]int(nil), s.SelectedFrameIDs...)
	c.SelectedEdgeIDs = append([]int(nil), s.SelectedEdgeIDs...)
	if s.PendingEdge != nil {
		pe := *s.PendingEdge
		c.PendingEdge = &pe
	}
	if s.PendingFrame != nil {
		pf := *s.PendingFrame
		c.PendingFrame = &pf
	}
	if s.Resize != nil {
		r := *s.Resize
		c.Resize = &r
	}
	if s.Drag != nil {
		d := *s.Drag
		d.NodeStarts = maps.Clone(s.Drag.NodeStarts)
		d.FrameStarts = maps.Clone(s.Drag.FrameStarts)
		c.Drag = &d
	}
	if s.Marquee != nil {
		m := *s.Marquee
		c.Marquee = &m
	}
	c.Drawing.Points = append([]geometry.Point(nil), s.Drawing.Points...)
	return &c
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
