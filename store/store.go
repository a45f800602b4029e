// Package store holds the diagram state and the single transition function
// every mutation goes through.
package store

import (
	"log/slog"
	"math"
	"slices"

	"github.com/google/uuid"

	"archdraw/catalog"
	"archdraw/diagram"
	"archdraw/geometry"
	"archdraw/registry"
	"archdraw/validation"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for rejected actions and strict-mode reports.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithStrict runs the invariant checks after every transition.
func WithStrict(on bool) Option {
	return func(s *Store) { s.strict = on }
}

// WithCapacity sets the id pool size.
func WithCapacity(n int) Option {
	return func(s *Store) { s.capacity = n }
}

// WithCatalog sets the shape catalogue used for kind validation.
func WithCatalog(c catalog.Catalog) Option {
	return func(s *Store) { s.catalog = c }
}

// WithMinFrameSize sets the frame minimums.
func WithMinFrameSize(w, h float64) Option {
	return func(s *Store) { s.minW, s.minH = w, h }
}

// Store owns the state and the id pool. It is not safe for concurrent use;
// the UI loop is its only writer.
type Store struct {
	state     *State
	pool      *registry.Pool
	catalog   catalog.Catalog
	sanitizer *registry.Sanitizer
	validator *validation.Validator
	logger    *slog.Logger

	strict     bool
	capacity   int
	minW, minH float64

	lastIDs []int
}

// New creates a store holding the initial empty state.
func New(opts ...Option) *Store {
	s := &Store{logger: slog.Default(), capacity: registry.DefaultCapacity}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	s.sanitizer = registry.NewSanitizer(s.catalog, s.minW, s.minH)
	s.minW, s.minH = s.sanitizer.MinSize()
	s.validator = validation.NewValidator(validation.Options{MinWidth: s.minW, MinHeight: s.minH})
	s.pool = registry.NewPool(s.capacity)
	s.state = initialState()
	return s
}

// State returns the live state. Callers must treat it as read-only.
func (s *Store) State() *State { return s.state }

// Snapshot returns a deep copy of the state.
func (s *Store) Snapshot() *State { return s.state.Clone() }

// Diagram returns a deep copy of the entities.
func (s *Store) Diagram() *diagram.Diagram { return s.state.Diagram.Clone() }

// Catalog returns the shape catalogue.
func (s *Store) Catalog() catalog.Catalog { return s.catalog }

// Sanitizer returns the sanitizer configured with the store's minimums.
func (s *Store) Sanitizer() *registry.Sanitizer { return s.sanitizer }

// MinFrameSize returns the frame minimums.
func (s *Store) MinFrameSize() (float64, float64) { return s.minW, s.minH }

// FreeIDs returns how many more entities can be created.
func (s *Store) FreeIDs() int { return s.pool.Free() }

// LastIDs returns the ids allocated by the most recent transition that
// adds entities. Transitions that only touch selection, modes or scratch
// state leave it alone.
func (s *Store) LastIDs() []int { return slices.Clone(s.lastIDs) }

// LastID returns the most recently allocated id, or 0.
func (s *Store) LastID() int {
	if len(s.lastIDs) == 0 {
		return 0
	}
	return s.lastIDs[len(s.lastIDs)-1]
}

// Check runs every invariant check against the current state.
func (s *Store) Check() []validation.ValidationError {
	st := s.state
	var errs []validation.ValidationError
	errs = append(errs, s.validator.Validate(&st.Diagram)...)
	errs = append(errs, s.validator.ValidateSelection(&st.Diagram, validation.Selection{
		Nodes:  st.SelectedNodeIDs,
		Frames: st.SelectedFrameIDs,
		Edges:  st.SelectedEdgeIDs,
	})...)
	errs = append(errs, s.validator.ValidateScratch(validation.Scratch{
		Drag:         st.Drag != nil,
		Resize:       st.Resize != nil,
		Marquee:      st.Marquee != nil,
		PendingFrame: st.PendingFrame != nil,
		PendingEdge:  st.PendingEdge != nil,
	})...)
	return errs
}

// Apply runs one transition. The only error is registry.ErrPoolExhausted,
// in which case the state is left exactly as it was.
func (s *Store) Apply(a Action) error {
	switch a.(type) {
	case AddNode, AddFrame, AddEdge, Insert, Load, Reset:
		s.lastIDs = s.lastIDs[:0]
	}
	if err := s.apply(a); err != nil {
		s.logger.Warn("action rejected", "action", a.Name(), "error", err)
		return err
	}
	if s.strict {
		for _, e := range s.Check() {
			s.logger.Error("invariant violated", "action", a.Name(), "rule", e.Rule, "id", e.ID, "message", e.Message)
		}
	}
	return nil
}

func (s *Store) apply(a Action) error {
	st := s.state
	switch a := a.(type) {
	case SetActiveTool:
		s.setTool(a.Tool)
	case SetMode:
		if st.Mode == ModeDrawPen && a.Mode != ModeDrawPen {
			st.Drawing.Active = false
			st.Drawing.Points = nil
		}
		st.Mode = a.Mode
	case AddNode:
		return s.addNode(a)
	case UpdateNode:
		s.updateNode(a)
	case DeleteNodes:
		s.deleteNodes(a.IDs)
	case AddFrame:
		return s.addFrame(a)
	case UpdateFrame:
		s.updateFrame(a)
	case DeleteFrames:
		s.deleteFrames(a.IDs)
	case MoveElements:
		s.moveElements(a)
	case AddEdge:
		return s.addEdge(a)
	case DeleteEdges:
		s.deleteEdges(a.IDs)
	case SetSelectedNodes:
		st.SelectedNodeIDs = liveIDs(a.IDs, func(id int) bool { return st.NodeIndex(id) >= 0 })
	case SetSelectedFrames:
		st.SelectedFrameIDs = liveIDs(a.IDs, func(id int) bool { return st.FrameIndex(id) >= 0 })
	case SetSelectedEdges:
		st.SelectedEdgeIDs = liveIDs(a.IDs, func(id int) bool { return st.EdgeIndex(id) >= 0 })
	case SetPendingEdge:
		if a.Edge != nil {
			s.clearScratch()
		}
		st.PendingEdge = a.Edge
	case SetPendingFrame:
		if a.Frame != nil {
			s.clearScratch()
		}
		st.PendingFrame = a.Frame
	case SetResize:
		if a.Info != nil {
			s.clearScratch()
		}
		st.Resize = a.Info
	case SetDrag:
		if a.Info != nil {
			s.clearScratch()
		}
		st.Drag = a.Info
	case SetMarquee:
		if a.Info != nil {
			s.clearScratch()
		}
		st.Marquee = a.Info
	case SetNodeToAdd:
		st.NodeToAdd = a.Kind
	case SetEditingNode:
		st.EditingNodeID = 0
		if _, ok := st.Element(a.ID); ok {
			st.EditingNodeID = a.ID
		}
	case UpdateDrawing:
		st.Drawing = a.Drawing
		st.Drawing.Points = slices.Clone(a.Drawing.Points)
	case AddStroke:
		s.addStroke(a.Stroke)
	case DeleteStrokes:
		drop := make(map[string]bool, len(a.IDs))
		for _, id := range a.IDs {
			drop[id] = true
		}
		st.Strokes = slices.DeleteFunc(st.Strokes, func(p diagram.Stroke) bool { return drop[p.ID] })
	case Insert:
		return s.insert(a)
	case Load:
		return s.load(a)
	case Reset:
		s.state = initialState()
		s.pool.Reset()
	case SetAIGenerating:
		st.AIGenerating = a.On
	case SetAIError:
		st.AIError = a.On
		st.AIErrorMessage = ""
		if a.On {
			st.AIErrorMessage = a.Message
		}
	default:
		s.logger.Debug("unknown action ignored", "action", a.Name())
	}
	return nil
}

func (s *Store) setTool(t Tool) {
	st := s.state
	st.ActiveTool = t
	if t != ToolArrow {
		st.PendingEdge = nil
	}
	if t == ToolArrow || t.IsPen() {
		st.SelectedNodeIDs = nil
		st.SelectedFrameIDs = nil
	}
	st.Drawing.Active = false
	st.Drawing.Points = nil
	switch t {
	case ToolPenBlack:
		st.Drawing.Color, st.Drawing.Erase = diagram.PenBlack, false
	case ToolPenRed:
		st.Drawing.Color, st.Drawing.Erase = diagram.PenRed, false
	case ToolPenErase:
		st.Drawing.Erase = true
	}
}

func (s *Store) clearScratch() {
	st := s.state
	st.PendingEdge = nil
	st.PendingFrame = nil
	st.Resize = nil
	st.Drag = nil
	st.Marquee = nil
}

// claim reserves id when it is non-zero and free, else allocates.
func (s *Store) claim(id int) (int, error) {
	if id != 0 {
		return s.pool.Reserve(id)
	}
	return s.pool.Allocate()
}

func (s *Store) selectOnly(nodes, frames, edges []int) {
	s.state.SelectedNodeIDs = nodes
	s.state.SelectedFrameIDs = frames
	s.state.SelectedEdgeIDs = edges
}

func (s *Store) addNode(a AddNode) error {
	id, err := s.claim(a.ID)
	if err != nil {
		return err
	}
	n := s.sanitizer.NormalizeNode(diagram.Node{ID: id, Kind: a.Kind, X: a.X, Y: a.Y, Label: a.Label})
	s.state.Nodes = append(s.state.Nodes, n)
	s.selectOnly([]int{id}, nil, nil)
	s.lastIDs = append(s.lastIDs, id)
	return nil
}

func (s *Store) addFrame(a AddFrame) error {
	id, err := s.claim(a.ID)
	if err != nil {
		return err
	}
	f := s.sanitizer.NormalizeFrame(diagram.Frame{
		ID: id, Kind: a.Kind, X: a.X, Y: a.Y, Width: a.Width, Height: a.Height, Label: a.Label,
	})
	s.state.Frames = append(s.state.Frames, f)
	s.selectOnly(nil, []int{id}, nil)
	s.lastIDs = append(s.lastIDs, id)
	return nil
}

func (s *Store) addEdge(a AddEdge) error {
	st := s.state
	_, okFrom := st.Element(a.From)
	_, okTo := st.Element(a.To)
	if !okFrom || !okTo {
		s.logger.Debug("edge endpoint missing", "from", a.From, "to", a.To)
		return nil
	}
	id, err := s.claim(a.ID)
	if err != nil {
		return err
	}
	st.Edges = append(st.Edges, diagram.Edge{ID: id, From: a.From, To: a.To})
	s.selectOnly(nil, nil, []int{id})
	s.lastIDs = append(s.lastIDs, id)
	return nil
}

func (s *Store) updateNode(a UpdateNode) {
	i := s.state.NodeIndex(a.ID)
	if i < 0 {
		return
	}
	n := &s.state.Nodes[i]
	p := a.Patch
	if p.X != nil {
		n.X = *p.X
	}
	if p.Y != nil {
		n.Y = *p.Y
	}
	if p.Label != nil {
		n.Label = *p.Label
	}
	if p.Kind != nil {
		n.Kind = *p.Kind
		if _, ok := s.catalog.Lookup(n.Kind); !ok {
			n.Kind = diagram.KindOtherService
		}
	}
}

func (s *Store) updateFrame(a UpdateFrame) {
	i := s.state.FrameIndex(a.ID)
	if i < 0 {
		return
	}
	f := &s.state.Frames[i]
	p := a.Patch
	if p.X != nil {
		f.X = *p.X
	}
	if p.Y != nil {
		f.Y = *p.Y
	}
	if p.Width != nil {
		f.Width = math.Max(s.minW, *p.Width)
	}
	if p.Height != nil {
		f.Height = math.Max(s.minH, *p.Height)
	}
	if p.Label != nil {
		f.Label = *p.Label
	}
	if p.Kind != nil {
		f.Kind = *p.Kind
		if _, ok := s.catalog.Lookup(f.Kind); !ok {
			f.Kind = registry.FrameFallbackKind
		}
	}
}

func (s *Store) moveElements(a MoveElements) {
	st := s.state
	for i := range st.Nodes {
		if p, ok := a.Nodes[st.Nodes[i].ID]; ok {
			st.Nodes[i].X, st.Nodes[i].Y = p.X, p.Y
		}
	}
	for i := range st.Frames {
		if p, ok := a.Frames[st.Frames[i].ID]; ok {
			st.Frames[i].X, st.Frames[i].Y = p.X, p.Y
		}
	}
}

func (s *Store) deleteNodes(ids []int) {
	drop := toSet(ids)
	var removed []int
	s.state.Nodes = slices.DeleteFunc(s.state.Nodes, func(n diagram.Node) bool {
		if drop[n.ID] {
			removed = append(removed, n.ID)
			return true
		}
		return false
	})
	s.removeElements(removed)
}

func (s *Store) deleteFrames(ids []int) {
	drop := toSet(ids)
	var removed []int
	s.state.Frames = slices.DeleteFunc(s.state.Frames, func(f diagram.Frame) bool {
		if drop[f.ID] {
			removed = append(removed, f.ID)
			return true
		}
		return false
	})
	s.removeElements(removed)
}

// removeElements finishes a node or frame deletion: attached edges go too,
// ids return to the pool, and selections and scratch state forget them.
func (s *Store) removeElements(removed []int) {
	if len(removed) == 0 {
		return
	}
	st := s.state
	gone := toSet(removed)
	s.deleteEdges(diagram.EdgesTouching(&st.Diagram, gone))
	for _, id := range removed {
		s.pool.Release(id)
	}

	st.SelectedNodeIDs = withoutIDs(st.SelectedNodeIDs, gone)
	st.SelectedFrameIDs = withoutIDs(st.SelectedFrameIDs, gone)
	if gone[st.EditingNodeID] {
		st.EditingNodeID = 0
	}
	if st.PendingEdge != nil && gone[st.PendingEdge.From] {
		st.PendingEdge = nil
	}
	if st.Resize != nil && gone[st.Resize.FrameID] {
		st.Resize = nil
	}
	if st.Drag != nil {
		for id := range gone {
			delete(st.Drag.NodeStarts, id)
			delete(st.Drag.FrameStarts, id)
		}
	}
}

func (s *Store) deleteEdges(ids []int) {
	if len(ids) == 0 {
		return
	}
	drop := toSet(ids)
	st := s.state
	st.Edges = slices.DeleteFunc(st.Edges, func(e diagram.Edge) bool {
		if drop[e.ID] {
			s.pool.Release(e.ID)
			return true
		}
		return false
	})
	st.SelectedEdgeIDs = withoutIDs(st.SelectedEdgeIDs, drop)
}

func (s *Store) addStroke(p diagram.Stroke) {
	if len(p.Points) < 2 {
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Width <= 0 {
		p.Width = diagram.PenStrokeWidth
	}
	p.Points = slices.Clone(p.Points)
	s.state.Strokes = append(s.state.Strokes, p)
}

func (s *Store) insert(a Insert) error {
	local := make(map[int]bool, len(a.Nodes)+len(a.Frames))
	for _, n := range a.Nodes {
		local[n.ID] = true
	}
	for _, f := range a.Frames {
		local[f.ID] = true
	}
	edges := make([]diagram.Edge, 0, len(a.Edges))
	for _, e := range a.Edges {
		if local[e.From] && local[e.To] {
			edges = append(edges, e)
		}
	}
	if len(a.Nodes)+len(a.Frames)+len(edges) > s.pool.Free() {
		return registry.ErrPoolExhausted
	}

	st := s.state
	remap := make(map[int]int, len(local))
	var nodeIDs, frameIDs, edgeIDs []int
	for _, n := range a.Nodes {
		id, _ := s.pool.Allocate()
		if _, seen := remap[n.ID]; !seen {
			remap[n.ID] = id
		}
		n.ID = id
		st.Nodes = append(st.Nodes, s.sanitizer.NormalizeNode(n))
		nodeIDs = append(nodeIDs, id)
	}
	for _, f := range a.Frames {
		id, _ := s.pool.Allocate()
		if _, seen := remap[f.ID]; !seen {
			remap[f.ID] = id
		}
		f.ID = id
		st.Frames = append(st.Frames, s.sanitizer.NormalizeFrame(f))
		frameIDs = append(frameIDs, id)
	}
	for _, e := range edges {
		id, _ := s.pool.Allocate()
		st.Edges = append(st.Edges, diagram.Edge{ID: id, From: remap[e.From], To: remap[e.To]})
		edgeIDs = append(edgeIDs, id)
	}

	s.clearScratch()
	st.EditingNodeID = 0
	s.selectOnly(nodeIDs, frameIDs, edgeIDs)
	s.lastIDs = append(s.lastIDs, nodeIDs...)
	s.lastIDs = append(s.lastIDs, frameIDs...)
	s.lastIDs = append(s.lastIDs, edgeIDs...)
	return nil
}

// load merges the payload into a copy of the state and swaps it in only
// when the pool could number every entity.
func (s *Store) load(a Load) error {
	next := s.state.Clone()
	if a.Nodes != nil {
		next.Nodes = make([]diagram.Node, 0, len(a.Nodes))
		for _, n := range a.Nodes {
			next.Nodes = append(next.Nodes, s.sanitizer.NormalizeNode(n))
		}
	}
	if a.Frames != nil {
		next.Frames = make([]diagram.Frame, 0, len(a.Frames))
		for _, f := range a.Frames {
			next.Frames = append(next.Frames, s.sanitizer.NormalizeFrame(f))
		}
	}
	if a.Edges != nil {
		next.Edges = slices.Clone(a.Edges)
	}
	if a.Strokes != nil {
		next.Strokes = nil
		for _, p := range a.Strokes {
			if len(p.Points) < 2 {
				continue
			}
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			p.Points = slices.Clone(p.Points)
			next.Strokes = append(next.Strokes, p)
		}
	}

	pool := registry.NewPool(s.pool.Capacity())
	if err := pool.Rebuild(&next.Diagram); err != nil {
		return err
	}

	next.SelectedNodeIDs = nil
	next.SelectedFrameIDs = nil
	next.SelectedEdgeIDs = nil
	next.EditingNodeID = 0
	next.PendingEdge = nil
	next.PendingFrame = nil
	next.Resize = nil
	next.Drag = nil
	next.Marquee = nil

	s.state = next
	s.pool = pool
	return nil
}

// Positions returns the current top-left corner of each selected node and
// frame, keyed by id. It is the starting point of a drag or nudge.
func (s *Store) Positions() (nodes, frames map[int]geometry.Point) {
	st := s.state
	nodes = make(map[int]geometry.Point, len(st.SelectedNodeIDs))
	frames = make(map[int]geometry.Point, len(st.SelectedFrameIDs))
	for _, id := range st.SelectedNodeIDs {
		if i := st.NodeIndex(id); i >= 0 {
			nodes[id] = geometry.Point{X: st.Nodes[i].X, Y: st.Nodes[i].Y}
		}
	}
	for _, id := range st.SelectedFrameIDs {
		if i := st.FrameIndex(id); i >= 0 {
			frames[id] = geometry.Point{X: st.Frames[i].X, Y: st.Frames[i].Y}
		}
	}
	return nodes, frames
}

func toSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func withoutIDs(ids []int, drop map[int]bool) []int {
	if len(ids) == 0 {
		return ids
	}
	return slices.DeleteFunc(ids, func(id int) bool { return drop[id] })
}

// liveIDs filters ids to those accepted by live, dropping duplicates.
func liveIDs(ids []int, live func(int) bool) []int {
	var out []int
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] || !live(id) {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
