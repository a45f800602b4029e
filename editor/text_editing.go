package editor

import (
	"strings"
	"unicode"

	"archdraw/store"
)

// StartEditing opens the inline label editor on a node or frame, loaded
// with its current label.
func (e *Editor) StartEditing(id int) {
	st := e.State()
	var label, kind string
	if i := st.NodeIndex(id); i >= 0 {
		label, kind = st.Nodes[i].Label, st.Nodes[i].Kind
	} else if i := st.FrameIndex(id); i >= 0 {
		label, kind = st.Frames[i].Label, st.Frames[i].Kind
	} else {
		return
	}
	if label == "" {
		label = e.store.Catalog().DefaultLabel(kind)
	}
	e.apply(store.SetEditingNode{ID: id})
	e.textBuffer = []rune(label)
	e.cursorPos = len(e.textBuffer)
}

// EditingText returns the label being typed and the cursor position.
func (e *Editor) EditingText() (string, int) {
	return string(e.textBuffer), e.cursorPos
}

// editing reports whether a label editor is open. The store clears the
// target when the element is deleted or the diagram reloaded.
func (e *Editor) editing() bool {
	return e.State().EditingNodeID != 0
}

// handleTextKey processes keys while a label is being edited. Every key is
// consumed so no global shortcut fires.
func (e *Editor) handleTextKey(ev KeyEvent) {
	switch ev.Key {
	case KeyEscape:
		e.cancelEditing()
	case KeyEnter:
		e.commitText()
	case KeyBackspace:
		if e.cursorPos > 0 {
			e.textBuffer = append(e.textBuffer[:e.cursorPos-1], e.textBuffer[e.cursorPos:]...)
			e.cursorPos--
		}
	case KeyDelete:
		if e.cursorPos < len(e.textBuffer) {
			e.textBuffer = append(e.textBuffer[:e.cursorPos], e.textBuffer[e.cursorPos+1:]...)
		}
	case KeyArrowLeft:
		if e.cursorPos > 0 {
			e.cursorPos--
		}
	case KeyArrowRight:
		if e.cursorPos < len(e.textBuffer) {
			e.cursorPos++
		}
	case KeyHome:
		e.cursorPos = 0
	case KeyEnd:
		e.cursorPos = len(e.textBuffer)
	case KeyRune:
		if ev.Mods.Has(ModCtrl) {
			switch ev.Rune {
			case 'w', 'W':
				e.deleteWordBackward()
			case 'u', 'U':
				e.deleteToBeginning()
			case 'k', 'K':
				e.textBuffer = e.textBuffer[:e.cursorPos]
			}
			return
		}
		if unicode.IsPrint(ev.Rune) {
			e.textBuffer = append(
				e.textBuffer[:e.cursorPos],
				append([]rune{ev.Rune}, e.textBuffer[e.cursorPos:]...)...,
			)
			e.cursorPos++
		}
	}
}

// commitText writes the buffer to the edited element. A blank label falls
// back to the kind's display name.
func (e *Editor) commitText() {
	st := e.State()
	id := st.EditingNodeID
	text := strings.TrimSpace(string(e.textBuffer))

	var changed bool
	if i := st.NodeIndex(id); i >= 0 {
		if text == "" {
			text = e.store.Catalog().DefaultLabel(st.Nodes[i].Kind)
		}
		changed = text != st.Nodes[i].Label
		e.apply(store.UpdateNode{ID: id, Patch: store.NodePatch{Label: &text}})
	} else if i := st.FrameIndex(id); i >= 0 {
		if text == "" {
			text = e.store.Catalog().DefaultLabel(st.Frames[i].Kind)
		}
		changed = text != st.Frames[i].Label
		e.apply(store.UpdateFrame{ID: id, Patch: store.FramePatch{Label: &text}})
	}
	e.cancelEditing()
	if changed {
		e.commit()
	}
}

// cancelEditing closes the label editor without saving.
func (e *Editor) cancelEditing() {
	if e.editing() {
		e.apply(store.SetEditingNode{})
	}
	e.textBuffer = e.textBuffer[:0]
	e.cursorPos = 0
}

// deleteWordBackward deletes the previous word (Ctrl+W)
func (e *Editor) deleteWordBackward() {
	if e.cursorPos == 0 {
		return
	}

	// Skip trailing spaces, then the word itself
	start := e.cursorPos - 1
	for start >= 0 && e.textBuffer[start] == ' ' {
		start--
	}
	for start >= 0 && e.textBuffer[start] != ' ' {
		start--
	}
	start++

	e.textBuffer = append(e.textBuffer[:start], e.textBuffer[e.cursorPos:]...)
	e.cursorPos = start
}

// deleteToBeginning deletes from the cursor to the start of the label (Ctrl+U)
func (e *Editor) deleteToBeginning() {
	e.textBuffer = append(e.textBuffer[:0], e.textBuffer[e.cursorPos:]...)
	e.cursorPos = 0
}
