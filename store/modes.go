package store

// Mode is the interaction mode of the editor.
type Mode int

const (
	ModeSelect           Mode = iota // Selecting, dragging, resizing, marquee
	ModeCreateNodeReady              // Palette shape armed, next click places it
	ModeCreateFrameReady             // Container shape armed, next drag sizes it
	ModeCreateEdgeReady              // Arrow tool, waiting for a source element
	ModeDrawingEdge                  // Source picked, waiting for a target element
	ModeDrawPen                      // Freehand pen or eraser
	ModeWaitingAI                    // Generation request in flight
)

// String returns the mode name for display.
func (m Mode) String() string {
	switch m {
	case ModeSelect:
		return "select"
	case ModeCreateNodeReady:
		return "createNodeReady"
	case ModeCreateFrameReady:
		return "createFrameReady"
	case ModeCreateEdgeReady:
		return "createEdgeReady"
	case ModeDrawingEdge:
		return "drawingEdge"
	case ModeDrawPen:
		return "drawPen"
	case ModeWaitingAI:
		return "waitingAI"
	default:
		return "unknown"
	}
}

// Tool is the active toolbar tool.
type Tool string

const (
	ToolSelect   Tool = "select"
	ToolArrow    Tool = "arrow"
	ToolPenBlack Tool = "pen-black"
	ToolPenRed   Tool = "pen-red"
	ToolPenErase Tool = "penDelete"
)

// IsPen reports whether the tool draws or erases strokes.
func (t Tool) IsPen() bool {
	return t == ToolPenBlack || t == ToolPenRed || t == ToolPenErase
}

// Handle names a frame resize corner.
type Handle string

const (
	HandleNW Handle = "nw"
	HandleNE Handle = "ne"
	HandleSW Handle = "sw"
	HandleSE Handle = "se"
)

// Handles lists the resize corners in hit-test order.
var Handles = []Handle{HandleNW, HandleNE, HandleSW, HandleSE}
