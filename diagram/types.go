// Package diagram contains the entity types shared by every other package:
// nodes, frames, edges and freehand strokes.
package diagram

import (
	"slices"

	"archdraw/geometry"
)

// Default footprints and size limits in diagram units.
const (
	NodeWidth      = 48
	NodeHeight     = 48
	TextBoxHeight  = 36
	FrameMinWidth  = 80
	FrameMinHeight = 60
)

// Kinds the core needs to know about. Everything else comes from the catalogue.
const (
	KindTextBox      = "TextBox"
	KindOtherService = "OtherService"
)

// Node is a point-anchored icon. X/Y is the top-left corner.
type Node struct {
	ID    int     `json:"id"`
	Kind  string  `json:"kind"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// ElementID implements Element.
func (n Node) ElementID() int { return n.ID }

// Bounds implements Element using the fixed node footprint.
func (n Node) Bounds() geometry.Rect {
	h := float64(NodeHeight)
	if n.Kind == KindTextBox {
		h = TextBoxHeight
	}
	return geometry.Rect{X: n.X, Y: n.Y, Width: NodeWidth, Height: h}
}

// Frame is a resizable container rectangle.
type Frame struct {
	ID     int     `json:"id"`
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Label  string  `json:"label,omitempty"`
}

// ElementID implements Element.
func (f Frame) ElementID() int { return f.ID }

// Bounds implements Element.
func (f Frame) Bounds() geometry.Rect {
	return geometry.Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
}

// Edge is a directed connector between two elements. From and To may each
// refer to a node or a frame.
type Edge struct {
	ID   int `json:"id"`
	From int `json:"from"`
	To   int `json:"to"`
}

// Pen colors and width for freehand strokes.
const (
	PenBlack       = "#111122"
	PenRed         = "#dc2020"
	PenStrokeWidth = 2
)

// Stroke is a persisted freehand pen path. Its id never comes from the
// entity pool.
type Stroke struct {
	ID     string           `json:"id"`
	Color  string           `json:"color"`
	Width  float64          `json:"strokeWidth,omitempty"`
	Points []geometry.Point `json:"points"`
}

// Element is the common view of nodes and frames used for routing,
// hit-testing and marquee selection.
type Element interface {
	ElementID() int
	Bounds() geometry.Rect
}

// Diagram is a snapshot of all entities.
type Diagram struct {
	Nodes   []Node   `json:"nodes"`
	Frames  []Frame  `json:"frames"`
	Edges   []Edge   `json:"edges"`
	Strokes []Stroke `json:"drawings,omitempty"`
}

// Clone creates a deep copy of the diagram.
func (d *Diagram) Clone() *Diagram {
	if d == nil {
		return nil
	}
	clone := &Diagram{
		Nodes:  slices.Clone(d.Nodes),
		Frames: slices.Clone(d.Frames),
		Edges:  slices.Clone(d.Edges),
	}
	if d.Strokes != nil {
		clone.Strokes = make([]Stroke, len(d.Strokes))
		for i, s := range d.Strokes {
			s.Points = slices.Clone(s.Points)
			clone.Strokes[i] = s
		}
	}
	return clone
}

// NodeIndex returns the slice index of the node with id, or -1.
func (d *Diagram) NodeIndex(id int) int {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// FrameIndex returns the slice index of the frame with id, or -1.
func (d *Diagram) FrameIndex(id int) int {
	for i := range d.Frames {
		if d.Frames[i].ID == id {
			return i
		}
	}
	return -1
}

// EdgeIndex returns the slice index of the edge with id, or -1.
func (d *Diagram) EdgeIndex(id int) int {
	for i := range d.Edges {
		if d.Edges[i].ID == id {
			return i
		}
	}
	return -1
}

// Element looks up a node or frame by id.
func (d *Diagram) Element(id int) (Element, bool) {
	if i := d.NodeIndex(id); i >= 0 {
		return d.Nodes[i], true
	}
	if i := d.FrameIndex(id); i >= 0 {
		return d.Frames[i], true
	}
	return nil, false
}

// EdgeRoute routes an edge between its endpoint elements. The route is
// empty when an endpoint is missing or the geometry is degenerate.
func (d *Diagram) EdgeRoute(e Edge) geometry.Route {
	from, ok := d.Element(e.From)
	if !ok {
		return geometry.Route{}
	}
	to, ok := d.Element(e.To)
	if !ok {
		return geometry.Route{}
	}
	return geometry.RouteOrthogonal(from.Bounds(), to.Bounds())
}

// IsEmpty reports whether the diagram has no entities at all.
func (d *Diagram) IsEmpty() bool {
	return len(d.Nodes) == 0 && len(d.Frames) == 0 && len(d.Edges) == 0 && len(d.Strokes) == 0
}

// Bounds returns the rectangle enclosing every node and frame.
func (d *Diagram) Bounds() geometry.Rect {
	first := true
	var minX, minY, maxX, maxY float64
	grow := func(r geometry.Rect) {
		if first {
			minX, minY, maxX, maxY = r.X, r.Y, r.Right(), r.Bottom()
			first = false
			return
		}
		minX = min(minX, r.X)
		minY = min(minY, r.Y)
		maxX = max(maxX, r.Right())
		maxY = max(maxY, r.Bottom())
	}
	for _, f := range d.Frames {
		grow(f.Bounds())
	}
	for _, n := range d.Nodes {
		grow(n.Bounds())
	}
	return geometry.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
