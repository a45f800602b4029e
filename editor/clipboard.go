package editor

import (
	"archdraw/drawio"
	"archdraw/geometry"
	"archdraw/store"
)

// Clipboard is the system clipboard as seen by copy and paste. Failures are
// capability problems: they are logged and the operation is skipped.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// MemoryClipboard is an in-process Clipboard.
type MemoryClipboard struct {
	Text string
}

// ReadText implements Clipboard.
func (m *MemoryClipboard) ReadText() (string, error) { return m.Text, nil }

// WriteText implements Clipboard.
func (m *MemoryClipboard) WriteText(text string) error {
	m.Text = text
	return nil
}

// Copy writes the selection to the clipboard as an encoded draw.io model.
// It reports whether anything was copied.
func (e *Editor) Copy() bool {
	st := e.State()
	text, ok := drawio.ExportSelection(&st.Diagram, drawio.Selection{
		Nodes:  st.SelectedNodeIDs,
		Frames: st.SelectedFrameIDs,
		Edges:  st.SelectedEdgeIDs,
	})
	if !ok {
		return false
	}
	if err := e.clipboard.WriteText(text); err != nil {
		e.logger.Warn("clipboard write failed", "error", err)
		return false
	}
	e.pasteCount, e.lastPasted = 0, ""
	return true
}

// Paste inserts the clipboard content. Repeated pastes of the same content
// cascade by the paste offset so copies never land on each other. Text that
// is not a draw.io model is ignored. It reports whether anything was pasted.
func (e *Editor) Paste() bool {
	text, err := e.clipboard.ReadText()
	if err != nil {
		e.logger.Warn("clipboard read failed", "error", err)
		return false
	}
	parsed, err := drawio.Parse(text)
	if err != nil || parsed.Empty() {
		e.logger.Debug("clipboard content ignored", "error", err)
		return false
	}

	if text != e.lastPasted {
		e.pasteCount, e.lastPasted = 0, text
	}
	e.pasteCount++
	offset := geometry.Point{X: e.cfg.PasteOffset, Y: e.cfg.PasteOffset}
	offset.X *= float64(e.pasteCount)
	offset.Y *= float64(e.pasteCount)

	d := parsed.Diagram()
	for i := range d.Nodes {
		d.Nodes[i].X += offset.X
		d.Nodes[i].Y += offset.Y
	}
	for i := range d.Frames {
		d.Frames[i].X += offset.X
		d.Frames[i].Y += offset.Y
	}
	e.cancelEditing()
	if err := e.apply(store.Insert{Nodes: d.Nodes, Frames: d.Frames, Edges: d.Edges}); err != nil {
		e.pasteCount--
		return false
	}
	e.commit()
	return true
}
