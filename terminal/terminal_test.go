package terminal

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archdraw/aigen"
	"archdraw/diagram"
	"archdraw/editor"
	"archdraw/store"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func newTestApp(t *testing.T, opts ...Option) (*App, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	s.SetSize(80, 25)

	st := store.New(store.WithLogger(discard), store.WithStrict(true))
	v := NewCellViewport(80, 24, 0, 0)
	e := editor.New(st,
		editor.WithViewport(v),
		editor.WithLogger(discard),
		editor.WithClipboard(&editor.MemoryClipboard{}),
	)
	a := NewApp(s, e, v, append([]Option{WithLogger(discard)}, opts...)...)
	a.resize()
	return a, s
}

// rows returns the simulated screen as text, one string per row.
func rows(s tcell.SimulationScreen) []string {
	cells, w, h := s.GetContents()
	out := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) == 0 {
				sb.WriteRune(' ')
				continue
			}
			sb.WriteRune(c.Runes[0])
		}
		out[y] = sb.String()
	}
	return out
}

func keyRune(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func keyCode(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

// clickCell presses and releases the left button on a cell.
func clickCell(a *App, col, row int) {
	a.HandleEvent(tcell.NewEventMouse(col, row, tcell.Button1, tcell.ModNone))
	a.HandleEvent(tcell.NewEventMouse(col, row, tcell.ButtonNone, tcell.ModNone))
}

func TestRenderNode(t *testing.T) {
	a, s := newTestApp(t)
	require.NoError(t, a.editor.Store().Apply(store.AddNode{Kind: "EC2", X: 60, Y: 120, Label: "EC2"}))
	a.Draw()

	screen := rows(s)
	assert.Contains(t, screen[10], "╭───────╮")
	assert.Contains(t, screen[12], "│  EC2  │")
	assert.Contains(t, screen[14], "╰───────╯")
	assert.Contains(t, screen[24], "select")
}

func TestRenderFrameAndEdge(t *testing.T) {
	a, s := newTestApp(t)
	st := a.editor.Store()
	require.NoError(t, st.Apply(store.AddFrame{Kind: "VPC", X: 0, Y: 0, Width: 360, Height: 120, Label: "VPC"}))
	require.NoError(t, st.Apply(store.AddNode{Kind: "EC2", X: 24, Y: 24, Label: "a"}))
	from := st.LastID()
	require.NoError(t, st.Apply(store.AddNode{Kind: "RDS", X: 240, Y: 24, Label: "b"}))
	to := st.LastID()
	require.NoError(t, st.Apply(store.AddEdge{From: from, To: to}))
	a.Draw()

	screen := rows(s)
	assert.True(t, strings.HasPrefix(screen[0], "┌ VPC ─"), screen[0])
	assert.Contains(t, screen[4], "▶")
}

func TestToKeyEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want editor.KeyEvent
	}{
		{"rune", keyRune('x'), editor.KeyEvent{Key: editor.KeyRune, Rune: 'x'}},
		{"ctrl c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), editor.KeyEvent{Key: editor.KeyRune, Rune: 'c', Mods: editor.ModCtrl}},
		{"ctrl v no mod", tcell.NewEventKey(tcell.KeyCtrlV, 0, tcell.ModNone), editor.KeyEvent{Key: editor.KeyRune, Rune: 'v', Mods: editor.ModCtrl}},
		{"backspace", keyCode(tcell.KeyBackspace2), editor.KeyEvent{Key: editor.KeyBackspace}},
		{"enter", keyCode(tcell.KeyEnter), editor.KeyEvent{Key: editor.KeyEnter}},
		{"escape", keyCode(tcell.KeyEscape), editor.KeyEvent{Key: editor.KeyEscape}},
		{"shift arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), editor.KeyEvent{Key: editor.KeyArrowUp, Mods: editor.ModShift}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toKeyEvent(tt.ev)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := toKeyEvent(keyCode(tcell.KeyF5))
	assert.False(t, ok)
}

func TestPlaceNodeFromPalette(t *testing.T) {
	a, _ := newTestApp(t)
	a.palette = []string{"S3", "EC2"}

	a.HandleEvent(keyRune(']'))
	assert.Equal(t, "EC2", a.paletteKind())
	a.HandleEvent(keyRune('n'))
	assert.Equal(t, store.ModeCreateNodeReady, a.editor.State().Mode)

	clickCell(a, 20, 10)
	st := a.editor.State()
	require.Len(t, st.Nodes, 1)
	n := st.Nodes[0]
	assert.Equal(t, "EC2", n.Kind)
	assert.Equal(t, 123.0-diagram.NodeWidth/2, n.X)
	assert.Equal(t, 126.0-diagram.NodeHeight/2, n.Y)
	assert.Equal(t, n.ID, st.EditingNodeID)
	assert.Equal(t, store.ModeSelect, st.Mode)

	// typing goes to the label, not to the tool shortcuts
	a.HandleEvent(keyRune('a'))
	assert.Equal(t, store.ToolSelect, a.editor.State().ActiveTool)
	a.HandleEvent(keyCode(tcell.KeyEscape))
	assert.Zero(t, a.editor.State().EditingNodeID)
}

func TestToolShortcuts(t *testing.T) {
	a, _ := newTestApp(t)

	a.HandleEvent(keyRune('a'))
	assert.Equal(t, store.ModeCreateEdgeReady, a.editor.State().Mode)
	a.HandleEvent(keyRune('r'))
	assert.Equal(t, store.ToolPenRed, a.editor.State().ActiveTool)
	a.HandleEvent(keyRune('x'))
	assert.Equal(t, store.ToolPenErase, a.editor.State().ActiveTool)
	a.HandleEvent(keyRune('s'))
	assert.Equal(t, store.ModeSelect, a.editor.State().Mode)
	assert.Equal(t, store.ToolSelect, a.editor.State().ActiveTool)

	a.HandleEvent(keyRune('g'))
	assert.False(t, a.prompting, "no generator configured")
	assert.Equal(t, "AI endpoint not configured", a.message)

	a.HandleEvent(keyRune('q'))
	assert.True(t, a.Quit())
}

func TestDoubleClickEditsLabel(t *testing.T) {
	clock := newClock()
	a, _ := newTestApp(t, WithClock(clock.now))
	require.NoError(t, a.editor.Store().Apply(store.AddNode{Kind: "EC2", X: 60, Y: 120}))
	id := a.editor.Store().LastID()

	clickCell(a, 12, 11)
	assert.Zero(t, a.editor.State().EditingNodeID)
	clock.advance(200 * time.Millisecond)
	clickCell(a, 12, 11)
	assert.Equal(t, id, a.editor.State().EditingNodeID)
}

func TestSlowClicksAreNotDoubleClicks(t *testing.T) {
	clock := newClock()
	a, _ := newTestApp(t, WithClock(clock.now))
	require.NoError(t, a.editor.Store().Apply(store.AddNode{Kind: "EC2", X: 60, Y: 120}))

	clickCell(a, 12, 11)
	clock.advance(time.Second)
	clickCell(a, 12, 11)
	assert.Zero(t, a.editor.State().EditingNodeID)
}

func TestPasteRepeatDebounce(t *testing.T) {
	clock := newClock()
	a, _ := newTestApp(t, WithClock(clock.now))
	require.NoError(t, a.editor.Store().Apply(store.AddNode{Kind: "EC2", X: 60, Y: 120}))

	ctrlV := tcell.NewEventKey(tcell.KeyCtrlV, 0, tcell.ModCtrl)
	a.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))

	a.HandleEvent(ctrlV)
	require.Len(t, a.editor.State().Nodes, 2)

	// auto-repeat
	clock.advance(30 * time.Millisecond)
	a.HandleEvent(ctrlV)
	assert.Len(t, a.editor.State().Nodes, 2)

	// a fresh press
	clock.advance(time.Second)
	a.HandleEvent(ctrlV)
	assert.Len(t, a.editor.State().Nodes, 3)
}

func TestWheelZooms(t *testing.T) {
	a, _ := newTestApp(t)
	a.HandleEvent(tcell.NewEventMouse(10, 10, tcell.WheelUp, tcell.ModNone))
	assert.InDelta(t, 1.1, a.viewport.Zoom, 1e-9)
	a.HandleEvent(tcell.NewEventMouse(10, 10, tcell.WheelDown, tcell.ModNone))
	assert.InDelta(t, 0.99, a.viewport.Zoom, 1e-9)
}

func TestSaveWritesExtensionFormat(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.json", "out.drawio"} {
		path := filepath.Join(dir, name)
		a, _ := newTestApp(t, WithPath(path))
		require.NoError(t, a.editor.Store().Apply(store.AddNode{Kind: "EC2", X: 60, Y: 120, Label: "web"}))

		a.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl))
		assert.Equal(t, "saved "+path, a.message)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "web")
		if name == "out.drawio" {
			assert.True(t, strings.HasPrefix(string(data), "<mxfile"))
		}
	}
}

type fakeGenerator struct {
	res *aigen.Result
	err error
	// wait blocks Generate until the context is cancelled.
	wait bool
}

func (g *fakeGenerator) Generate(ctx context.Context, question string) (*aigen.Result, error) {
	if g.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return g.res, g.err
}

// awaitAI polls the screen until the generation result arrives.
func awaitAI(t *testing.T, a *App, s tcell.SimulationScreen) {
	t.Helper()
	for {
		ev := s.PollEvent()
		require.NotNil(t, ev)
		if done, ok := ev.(*aiDoneEvent); ok {
			a.HandleEvent(done)
			return
		}
	}
}

func typePrompt(a *App, text string) {
	a.HandleEvent(keyRune('g'))
	for _, r := range text {
		a.HandleEvent(keyRune(r))
	}
	a.HandleEvent(keyCode(tcell.KeyEnter))
}

func TestAIGeneration(t *testing.T) {
	gen := &fakeGenerator{res: &aigen.Result{Diagram: &diagram.Diagram{
		Nodes: []diagram.Node{{ID: 1, Kind: "EC2", X: 10, Y: 10, Label: "web"}},
	}}}
	a, s := newTestApp(t, WithGenerator(gen))

	typePrompt(a, "web server")
	assert.False(t, a.prompting)
	assert.True(t, a.editor.Generating())
	assert.Equal(t, store.ModeWaitingAI, a.editor.State().Mode)

	// input is ignored while waiting
	a.HandleEvent(keyRune('a'))
	assert.Equal(t, store.ModeWaitingAI, a.editor.State().Mode)

	awaitAI(t, a, s)
	st := a.editor.State()
	assert.False(t, st.AIGenerating)
	assert.Equal(t, store.ModeSelect, st.Mode)
	require.Len(t, st.Nodes, 1)
	assert.Equal(t, "web", st.Nodes[0].Label)
	assert.Equal(t, "diagram generated", a.message)
}

func TestAICancel(t *testing.T) {
	a, s := newTestApp(t, WithGenerator(&fakeGenerator{wait: true}))

	typePrompt(a, "anything")
	require.True(t, a.editor.Generating())
	a.HandleEvent(keyCode(tcell.KeyEscape))

	awaitAI(t, a, s)
	st := a.editor.State()
	assert.False(t, st.AIGenerating)
	assert.False(t, st.AIError)
	assert.Equal(t, store.ModeSelect, st.Mode)
}

func TestAIErrorShownInStatusLine(t *testing.T) {
	a, s := newTestApp(t, WithGenerator(&fakeGenerator{err: aigen.ErrNoEndpoint}))

	typePrompt(a, "anything")
	awaitAI(t, a, s)
	require.True(t, a.editor.State().AIError)

	line := a.statusLine()
	assert.True(t, line.Error)
	assert.NotContains(t, line.Message, "\n")
	assert.Contains(t, line.Message, aigen.ErrNoEndpoint.Error())

	a.HandleEvent(&tickEvent{})
	assert.True(t, a.editor.State().AIError, "a zero tick time is before the banner expiry")
}

func fillQueue(t *testing.T, s tcell.SimulationScreen) {
	t.Helper()
	for {
		if err := s.PostEvent(&tickEvent{}); err != nil {
			require.ErrorIs(t, err, tcell.ErrEventQFull)
			return
		}
	}
}

func waitPending(a *App, d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		a.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

func TestAIResultRetriedWhileQueueFull(t *testing.T) {
	gen := &fakeGenerator{res: &aigen.Result{Diagram: &diagram.Diagram{
		Nodes: []diagram.Node{{ID: 1, Kind: "EC2", X: 10, Y: 10, Label: "web"}},
	}}}
	a, s := newTestApp(t, WithGenerator(gen))
	fillQueue(t, s)

	typePrompt(a, "web server")
	assert.False(t, waitPending(a, 50*time.Millisecond), "result must wait for room in the queue")

	awaitAI(t, a, s)
	require.True(t, waitPending(a, 2*time.Second))
	assert.Len(t, a.editor.State().Nodes, 1)
}

func TestAIGoroutineExitsAfterStop(t *testing.T) {
	a, s := newTestApp(t, WithGenerator(&fakeGenerator{res: &aigen.Result{Diagram: &diagram.Diagram{}}}))
	fillQueue(t, s)

	typePrompt(a, "anything")
	a.stop()
	assert.True(t, waitPending(a, 2*time.Second), "generator goroutine blocked after the loop exited")
}

func TestPromptEditing(t *testing.T) {
	a, _ := newTestApp(t, WithGenerator(&fakeGenerator{}))
	a.HandleEvent(keyRune('g'))
	a.HandleEvent(keyRune('a'))
	a.HandleEvent(keyRune('b'))
	a.HandleEvent(keyCode(tcell.KeyBackspace2))
	assert.Equal(t, "a", string(a.prompt))
	assert.Contains(t, a.statusLine().Message, "AI> a")

	a.HandleEvent(keyCode(tcell.KeyEscape))
	assert.False(t, a.prompting)
	assert.False(t, a.editor.Generating())
}

func TestCellViewport(t *testing.T) {
	v := NewCellViewport(10, 5, 0, 0)
	assert.Equal(t, 60.0, v.ViewportSize().Width)
	assert.Equal(t, 60.0, v.ViewportSize().Height)

	sx, sy := v.CellToScreen(2, 1)
	assert.Equal(t, 15.0, sx)
	assert.Equal(t, 18.0, sy)

	p := v.ToDiagramSpace(sx, sy)
	col, row := v.Cell(p)
	assert.Equal(t, []int{2, 1}, []int{col, row})

	v.PanCells(1, 1)
	col, row = v.Cell(p)
	assert.Equal(t, []int{3, 2}, []int{col, row})
}
