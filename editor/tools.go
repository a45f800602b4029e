package editor

import "archdraw/store"

// SelectTool activates the select tool: any pending edge and armed shape
// are dropped.
func (e *Editor) SelectTool() {
	if e.busy() {
		return
	}
	e.apply(
		store.SetActiveTool{Tool: store.ToolSelect},
		store.SetNodeToAdd{},
		store.SetPendingFrame{},
		store.SetMode{Mode: store.ModeSelect},
	)
}

// ArmShape arms a palette kind. Containers are sized by dragging, other
// shapes are placed by a click.
func (e *Editor) ArmShape(kind string) {
	if e.busy() || kind == "" {
		return
	}
	mode := store.ModeCreateNodeReady
	if e.store.Catalog().IsFrame(kind) {
		mode = store.ModeCreateFrameReady
	}
	var actions []store.Action
	if e.State().ActiveTool != store.ToolSelect {
		actions = append(actions, store.SetActiveTool{Tool: store.ToolSelect})
	}
	actions = append(actions,
		store.SetNodeToAdd{Kind: kind},
		store.SetMode{Mode: mode},
	)
	e.apply(actions...)
}

// ArrowTool starts edge creation. The selection is cleared.
func (e *Editor) ArrowTool() {
	if e.busy() {
		return
	}
	e.cancelEditing()
	e.apply(
		store.SetActiveTool{Tool: store.ToolArrow},
		store.SetSelectedEdges{},
		store.SetNodeToAdd{},
		store.SetPendingFrame{},
		store.SetMode{Mode: store.ModeCreateEdgeReady},
	)
}

// PenTool switches to a freehand tool: store.ToolPenBlack, ToolPenRed or
// ToolPenErase. Other tools are ignored.
func (e *Editor) PenTool(t store.Tool) {
	if e.busy() || !t.IsPen() {
		return
	}
	e.cancelEditing()
	e.erasing = false
	e.apply(
		store.SetActiveTool{Tool: t},
		store.SetSelectedEdges{},
		store.SetNodeToAdd{},
		store.SetPendingFrame{},
		store.SetMode{Mode: store.ModeDrawPen},
	)
}
