// Package editor turns pointer and keyboard input into store transitions.
//
// The editor is a mode-driven state machine: select, shape placement, edge
// creation, freehand pen and waiting for an AI request. Every mutation goes
// through store.Apply; the editor itself only keeps input-side state such as
// the label being typed, the paste counter and the undo history.
package editor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"archdraw/diagram"
	"archdraw/geometry"
	"archdraw/registry"
	"archdraw/store"
)

// Config holds the interaction constants.
type Config struct {
	NudgeStep        float64       // Arrow key step in diagram units
	PasteOffset      float64       // Offset added per repeated paste
	HandleSize       float64       // Side of a resize handle square
	EdgeHitTolerance float64       // Max distance from a route that still hits the edge
	EraseThreshold   float64       // Eraser reach for freehand strokes
	AIErrorDisplay   time.Duration // How long an AI error banner stays up
	HistoryDepth     int           // Undo snapshots kept
}

// DefaultConfig returns the stock interaction constants.
func DefaultConfig() Config {
	return Config{
		NudgeStep:        5,
		PasteOffset:      20,
		HandleSize:       8,
		EdgeHitTolerance: 6,
		EraseThreshold:   2,
		AIErrorDisplay:   3 * time.Second,
		HistoryDepth:     store.DefaultHistoryDepth,
	}
}

// AIErrorPrefix starts every AI error banner.
const AIErrorPrefix = "APIの実行に失敗しました\n"

// Option configures an Editor.
type Option func(*Editor)

// WithViewport sets the screen to diagram transform.
func WithViewport(v geometry.ViewportProvider) Option {
	return func(e *Editor) { e.viewport = v }
}

// WithClipboard sets the clipboard used by copy and paste.
func WithClipboard(c Clipboard) Option {
	return func(e *Editor) { e.clipboard = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// WithConfig replaces the interaction constants. Zero fields keep defaults.
func WithConfig(c Config) Option {
	return func(e *Editor) {
		d := DefaultConfig()
		if c.NudgeStep > 0 {
			d.NudgeStep = c.NudgeStep
		}
		if c.PasteOffset > 0 {
			d.PasteOffset = c.PasteOffset
		}
		if c.HandleSize > 0 {
			d.HandleSize = c.HandleSize
		}
		if c.EdgeHitTolerance > 0 {
			d.EdgeHitTolerance = c.EdgeHitTolerance
		}
		if c.EraseThreshold > 0 {
			d.EraseThreshold = c.EraseThreshold
		}
		if c.AIErrorDisplay > 0 {
			d.AIErrorDisplay = c.AIErrorDisplay
		}
		if c.HistoryDepth > 0 {
			d.HistoryDepth = c.HistoryDepth
		}
		e.cfg = d
	}
}

// Editor is the interaction state machine. Like the store it wraps, it is
// driven from a single event loop and is not safe for concurrent use.
type Editor struct {
	store     *store.Store
	viewport  geometry.ViewportProvider
	clipboard Clipboard
	logger    *slog.Logger
	now       func() time.Time
	cfg       Config

	// Undo/redo of entity snapshots
	history *store.History

	// Inline label editing
	textBuffer []rune // Label being typed
	cursorPos  int    // Position in textBuffer

	// Clipboard state
	pasteLocked bool   // Set by a paste, released by the next other key
	pasteCount  int    // Pastes of lastPasted so far
	lastPasted  string // Clipboard text of the previous paste

	// Pen eraser held down
	erasing bool

	// AI request in flight
	aiCancel   context.CancelFunc
	aiPrevMode store.Mode
	aiErrorAt  time.Time

	status string // Last user-facing message
}

// New creates an editor over s.
func New(s *store.Store, opts ...Option) *Editor {
	e := &Editor{
		store:  s,
		logger: slog.Default(),
		now:    time.Now,
		cfg:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.viewport == nil {
		e.viewport = geometry.NewViewport(0, 0, geometry.DefaultMinZoom, geometry.DefaultMaxZoom)
	}
	if e.clipboard == nil {
		e.clipboard = &MemoryClipboard{}
	}
	e.history = store.NewHistory(e.cfg.HistoryDepth)
	e.history.Save(s.Diagram())
	return e
}

// Store returns the underlying store.
func (e *Editor) Store() *store.Store { return e.store }

// State returns the live store state. Callers must not modify it.
func (e *Editor) State() *store.State { return e.store.State() }

// Viewport returns the viewport provider.
func (e *Editor) Viewport() geometry.ViewportProvider { return e.viewport }

// Config returns the interaction constants.
func (e *Editor) Config() Config { return e.cfg }

// Status returns the last user-facing message, if any.
func (e *Editor) Status() string { return e.status }

// Load replaces the diagram and starts a fresh history.
func (e *Editor) Load(d *diagram.Diagram) error {
	if err := e.apply(store.LoadDiagram(d)); err != nil {
		return err
	}
	e.cancelEditing()
	e.history.Clear()
	e.history.Save(e.store.Diagram())
	return nil
}

// Reset empties the diagram and the history.
func (e *Editor) Reset() {
	e.apply(store.Reset{})
	e.cancelEditing()
	e.pasteCount, e.lastPasted = 0, ""
	e.history.Clear()
	e.history.Save(e.store.Diagram())
}

// Undo restores the previous snapshot.
func (e *Editor) Undo() bool {
	if e.busy() {
		return false
	}
	d := e.history.Undo()
	if d == nil {
		return false
	}
	return e.apply(store.LoadDiagram(d)) == nil
}

// Redo restores the snapshot undone last.
func (e *Editor) Redo() bool {
	if e.busy() {
		return false
	}
	d := e.history.Redo()
	if d == nil {
		return false
	}
	return e.apply(store.LoadDiagram(d)) == nil
}

// HistoryStats returns the current position and size of the history.
func (e *Editor) HistoryStats() (current, total int) {
	return e.history.Stats()
}

// apply runs actions in order and stops at the first failure, which is
// recorded as the status message.
func (e *Editor) apply(actions ...store.Action) error {
	for _, a := range actions {
		if err := e.store.Apply(a); err != nil {
			if errors.Is(err, registry.ErrPoolExhausted) {
				e.status = "cannot add more shapes: " + err.Error()
			}
			return err
		}
	}
	return nil
}

// commit records the current entities as an undo step.
func (e *Editor) commit() {
	e.history.Save(e.store.Diagram())
}

// busy reports whether input is blocked by an AI request.
func (e *Editor) busy() bool {
	return e.store.State().Mode == store.ModeWaitingAI
}

// toDiagram converts a pointer event position to diagram space.
func (e *Editor) toDiagram(ev PointerEvent) geometry.Point {
	return e.viewport.ToDiagramSpace(ev.X, ev.Y)
}
