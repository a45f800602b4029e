package editor

import (
	"context"
	"errors"
	"time"

	"archdraw/aigen"
	"archdraw/store"
)

// BeginAI enters waitingAI and remembers the current mode. cancel aborts
// the request; it may be nil. It returns false when a request is already
// in flight.
func (e *Editor) BeginAI(cancel context.CancelFunc) bool {
	st := e.State()
	if st.AIGenerating {
		return false
	}
	e.cancelEditing()
	e.aiCancel = cancel
	e.aiPrevMode = st.Mode
	e.apply(
		store.SetAIError{},
		store.SetAIGenerating{On: true},
		store.SetMode{Mode: store.ModeWaitingAI},
	)
	return true
}

// Generating reports whether an AI request is in flight.
func (e *Editor) Generating() bool {
	return e.State().AIGenerating
}

// CancelAI aborts the request in flight. The result still arrives through
// CompleteAI, carrying a context error.
func (e *Editor) CancelAI() {
	if e.aiCancel != nil {
		e.aiCancel()
	}
}

// CompleteAI settles the request started by BeginAI. On success the
// generated nodes, frames and edges replace the diagram in one load; on
// failure the diagram is untouched and an error banner is shown. A request
// cancelled by CancelAI ends quietly. The previous mode is restored either
// way.
func (e *Editor) CompleteAI(res *aigen.Result, err error) {
	if !e.State().AIGenerating {
		return
	}
	if e.aiCancel != nil {
		e.aiCancel()
		e.aiCancel = nil
	}
	e.apply(store.SetAIGenerating{}, store.SetMode{Mode: e.aiPrevMode})

	if err == nil && res != nil && res.Diagram != nil {
		d := res.Diagram
		err = e.apply(store.Load{Nodes: d.Nodes, Frames: d.Frames, Edges: d.Edges})
		if err == nil {
			e.commit()
			return
		}
	}
	if err == nil {
		err = aigen.ErrEmptyDiagram
	}
	if errors.Is(err, context.Canceled) {
		e.logger.Info("ai request cancelled")
		return
	}
	e.logger.Warn("ai request failed", "error", err)
	e.aiErrorAt = e.now()
	e.apply(store.SetAIError{On: true, Message: AIErrorPrefix + err.Error()})
}

// Tick clears the AI error banner once it has been shown long enough.
func (e *Editor) Tick(now time.Time) {
	if !e.State().AIError {
		return
	}
	if now.Sub(e.aiErrorAt) >= e.cfg.AIErrorDisplay {
		e.apply(store.SetAIError{})
	}
}
