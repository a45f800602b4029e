package store

import (
	"archdraw/diagram"
	"archdraw/geometry"
)

// Action is a state transition request handled by Store.Apply.
type Action interface {
	Name() string
}

// SetActiveTool switches the toolbar tool. Leaving the arrow tool drops a
// pending edge; arrow and pen tools start without a node or frame selection.
type SetActiveTool struct{ Tool Tool }

// SetMode changes the interaction mode.
type SetMode struct{ Mode Mode }

// AddNode appends a node. A non-zero ID is honoured when free.
type AddNode struct {
	ID    int
	Kind  string
	X, Y  float64
	Label string
}

// NodePatch holds the node fields to change. Nil fields are left alone.
type NodePatch struct {
	Kind  *string
	X, Y  *float64
	Label *string
}

// UpdateNode patches a node in place.
type UpdateNode struct {
	ID    int
	Patch NodePatch
}

// DeleteNodes removes nodes and the edges attached to them.
type DeleteNodes struct{ IDs []int }

// AddFrame appends a frame. Width and height are clamped to the minimums.
type AddFrame struct {
	ID            int
	Kind          string
	X, Y          float64
	Width, Height float64
	Label         string
}

// FramePatch holds the frame fields to change. Nil fields are left alone.
type FramePatch struct {
	Kind          *string
	X, Y          *float64
	Width, Height *float64
	Label         *string
}

// UpdateFrame patches a frame in place.
type UpdateFrame struct {
	ID    int
	Patch FramePatch
}

// DeleteFrames removes frames and the edges attached to them.
type DeleteFrames struct{ IDs []int }

// MoveElements sets absolute positions for several nodes and frames in one
// transition.
type MoveElements struct {
	Nodes  map[int]geometry.Point
	Frames map[int]geometry.Point
}

// AddEdge connects two live elements. Unknown endpoints make it a no-op.
type AddEdge struct {
	ID       int
	From, To int
}

// DeleteEdges removes edges.
type DeleteEdges struct{ IDs []int }

// SetSelectedNodes replaces the node selection.
type SetSelectedNodes struct{ IDs []int }

// SetSelectedFrames replaces the frame selection.
type SetSelectedFrames struct{ IDs []int }

// SetSelectedEdges replaces the edge selection.
type SetSelectedEdges struct{ IDs []int }

// SetPendingEdge sets or clears (nil) the pending edge.
type SetPendingEdge struct{ Edge *PendingEdge }

// SetPendingFrame sets or clears (nil) the pending frame.
type SetPendingFrame struct{ Frame *PendingFrame }

// SetResize sets or clears (nil) the resize scratch state.
type SetResize struct{ Info *ResizeInfo }

// SetDrag sets or clears (nil) the drag scratch state.
type SetDrag struct{ Info *DragInfo }

// SetMarquee sets or clears (nil) the marquee.
type SetMarquee struct{ Info *MarqueeInfo }

// SetNodeToAdd arms a palette kind. Empty disarms.
type SetNodeToAdd struct{ Kind string }

// SetEditingNode starts (non-zero) or ends (0) inline label editing.
type SetEditingNode struct{ ID int }

// UpdateDrawing replaces the in-progress freehand stroke.
type UpdateDrawing struct{ Drawing Drawing }

// AddStroke persists a finished freehand stroke.
type AddStroke struct{ Stroke diagram.Stroke }

// DeleteStrokes removes strokes by id.
type DeleteStrokes struct{ IDs []string }

// Insert adds a batch of entities whose ids are local to the batch. Every
// entity gets a fresh id, edges are remapped through the new ids and edges
// with an endpoint outside the batch are dropped. The batch becomes the
// selection. Either every entity is inserted or none is.
type Insert struct {
	Nodes  []diagram.Node
	Frames []diagram.Frame
	Edges  []diagram.Edge
}

// Load merges a payload into the state. A nil slice means the key was not
// supplied and the current collection is kept.
type Load struct {
	Nodes   []diagram.Node
	Frames  []diagram.Frame
	Edges   []diagram.Edge
	Strokes []diagram.Stroke
}

// LoadDiagram builds a Load replacing every collection with d's.
func LoadDiagram(d *diagram.Diagram) Load {
	l := Load{Nodes: d.Nodes, Frames: d.Frames, Edges: d.Edges, Strokes: d.Strokes}
	if l.Nodes == nil {
		l.Nodes = []diagram.Node{}
	}
	if l.Frames == nil {
		l.Frames = []diagram.Frame{}
	}
	if l.Edges == nil {
		l.Edges = []diagram.Edge{}
	}
	if l.Strokes == nil {
		l.Strokes = []diagram.Stroke{}
	}
	return l
}

// Reset returns to the initial empty state.
type Reset struct{}

// SetAIGenerating toggles the generation-in-flight flag.
type SetAIGenerating struct{ On bool }

// SetAIError shows (On) or clears the AI error banner.
type SetAIError struct {
	On      bool
	Message string
}

func (SetActiveTool) Name() string     { return "SET_ACTIVE_TOOL" }
func (SetMode) Name() string           { return "SET_INTERACTION_MODE" }
func (AddNode) Name() string           { return "ADD_NODE" }
func (UpdateNode) Name() string        { return "UPDATE_NODE" }
func (DeleteNodes) Name() string       { return "DELETE_NODES" }
func (AddFrame) Name() string          { return "ADD_FRAME" }
func (UpdateFrame) Name() string       { return "UPDATE_FRAME" }
func (DeleteFrames) Name() string      { return "DELETE_FRAMES" }
func (MoveElements) Name() string      { return "MOVE_ELEMENTS" }
func (AddEdge) Name() string           { return "ADD_EDGE" }
func (DeleteEdges) Name() string       { return "DELETE_EDGES" }
func (SetSelectedNodes) Name() string  { return "SET_SELECTED_NODES" }
func (SetSelectedFrames) Name() string { return "SET_SELECTED_FRAMES" }
func (SetSelectedEdges) Name() string  { return "SET_SELECTED_EDGES" }
func (SetPendingEdge) Name() string    { return "SET_PENDING_EDGE" }
func (SetPendingFrame) Name() string   { return "SET_PENDING_FRAME" }
func (SetResize) Name() string         { return "SET_RESIZE_INFO" }
func (SetDrag) Name() string           { return "SET_DRAG_INFO" }
func (SetMarquee) Name() string        { return "SET_MARQUEE" }
func (SetNodeToAdd) Name() string      { return "SET_NODE_TO_ADD" }
func (SetEditingNode) Name() string    { return "SET_EDITING_NODE" }
func (UpdateDrawing) Name() string     { return "UPDATE_DRAWING" }
func (AddStroke) Name() string         { return "ADD_STROKE" }
func (DeleteStrokes) Name() string     { return "DELETE_STROKES" }
func (Insert) Name() string            { return "INSERT" }
func (Load) Name() string              { return "LOAD_STATE" }
func (Reset) Name() string             { return "RESET_STATE" }
func (SetAIGenerating) Name() string   { return "SET_AI_GENERATING" }
func (SetAIError) Name() string        { return "SET_AI_ERROR" }
