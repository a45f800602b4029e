// Package terminal is the tcell front end of the editor. It translates
// terminal key and mouse events into editor input, renders the store state
// as box art and runs AI requests off the event loop.
package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"archdraw/aigen"
	"archdraw/catalog"
	"archdraw/diagram"
	"archdraw/editor"
	"archdraw/export"
	"archdraw/store"
)

// Timing of the event loop.
const (
	TickInterval     = 250 * time.Millisecond
	DoubleClickDelay = 400 * time.Millisecond
	// Terminals report no key release, so a paste key arriving sooner than
	// this after the previous one is treated as auto-repeat.
	PasteRepeatDelay = 150 * time.Millisecond
)

// DefaultSavePath is used by Ctrl+S when the editor was opened without a file.
const DefaultSavePath = "diagram.json"

// Generator produces a diagram from a prompt. *aigen.Client implements it.
type Generator interface {
	Generate(ctx context.Context, question string) (*aigen.Result, error)
}

// aiDoneEvent carries a finished generation back to the event loop.
type aiDoneEvent struct {
	tcell.EventTime
	res *aigen.Result
	err error
}

// tickEvent drives banner expiry.
type tickEvent struct {
	tcell.EventTime
}

// Option configures an App.
type Option func(*App)

// WithGenerator enables the AI prompt.
func WithGenerator(g Generator) Option {
	return func(a *App) { a.generator = g }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithPath sets the file Ctrl+S writes to. Its extension picks the format.
func WithPath(path string) Option {
	return func(a *App) { a.path = path }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// App owns the screen and the event loop. All editor calls happen on the
// goroutine running Run (or calling HandleEvent in tests); AI results and
// ticks reach it as posted events.
type App struct {
	screen    tcell.Screen
	editor    *editor.Editor
	viewport  *CellViewport
	renderer  *Renderer
	generator Generator
	logger    *slog.Logger
	path      string
	now       func() time.Time

	palette    []string
	paletteIdx int

	prompting bool
	prompt    []rune

	buttonDown  bool
	lastDownAt  time.Time
	lastDownCol int
	lastDownRow int
	dblPending  bool
	lastPasteAt time.Time

	message string
	quit    bool

	// pending tracks generator goroutines; stopped is closed once the
	// event loop has exited.
	pending  sync.WaitGroup
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewApp creates an app drawing e on screen. The editor must have been
// created with v as its viewport provider.
func NewApp(screen tcell.Screen, e *editor.Editor, v *CellViewport, opts ...Option) *App {
	cat := e.Store().Catalog()
	a := &App{
		screen:   screen,
		editor:   e,
		viewport: v,
		renderer: NewRenderer(cat),
		logger:   slog.Default(),
		now:      time.Now,
		palette:  cat.Kinds(),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run initialises the screen and processes events until the user quits or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer a.screen.Fini()
	a.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents | tcell.MouseMotionEvents)
	a.screen.Clear()
	a.resize()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.tick(ctx)
	go func() {
		<-ctx.Done()
		a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for !a.quit {
		a.Draw()
		ev := a.screen.PollEvent()
		if ev == nil {
			break
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			break
		}
		a.HandleEvent(ev)
	}
	a.stop()
	a.editor.CancelAI()
	a.pending.Wait()
	return nil
}

func (a *App) stop() {
	a.stopOnce.Do(func() { close(a.stopped) })
}

func (a *App) tick(ctx context.Context) {
	t := time.NewTicker(TickInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			ev := &tickEvent{}
			ev.SetEventTime(now)
			_ = a.screen.PostEvent(ev)
		}
	}
}

// Draw renders the current state and shows it.
func (a *App) Draw() {
	a.renderer.Render(a.screen, a.editor, a.viewport, a.statusLine())
	a.screen.Show()
}

// Quit reports whether the user asked to leave.
func (a *App) Quit() bool { return a.quit }

// HandleEvent dispatches one terminal or posted event.
func (a *App) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.resize()
	case *tcell.EventKey:
		a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *aiDoneEvent:
		a.editor.CompleteAI(ev.res, ev.err)
		if ev.err == nil {
			a.message = "diagram generated"
		}
	case *tickEvent:
		a.editor.Tick(ev.When())
	}
}

func (a *App) resize() {
	w, h := a.screen.Size()
	a.viewport.ResizeCells(w, max(h-1, 0))
}

func (a *App) handleKey(ev *tcell.EventKey) {
	if a.prompting {
		a.handlePromptKey(ev)
		return
	}
	ke, ok := toKeyEvent(ev)
	if !ok {
		return
	}
	if a.editor.Generating() {
		switch {
		case ke.Key == editor.KeyEscape:
			a.editor.CancelAI()
		case ke.Key == editor.KeyRune && ke.Rune == 'q' && ke.Mods.Has(editor.ModCtrl):
			a.quit = true
		}
		return
	}

	if ke.Key == editor.KeyRune && ke.Mods.Command() && (ke.Rune == 'v' || ke.Rune == 'V') {
		now := a.now()
		if now.Sub(a.lastPasteAt) > PasteRepeatDelay {
			a.editor.KeyUp(ke)
		}
		a.lastPasteAt = now
	}
	a.message = ""
	if a.editor.HandleKey(ke) {
		return
	}
	a.handleCommand(ke)
}

// handleCommand runs the front end shortcuts the editor did not consume.
func (a *App) handleCommand(ke editor.KeyEvent) {
	if ke.Key != editor.KeyRune {
		return
	}
	if ke.Mods.Command() {
		switch ke.Rune {
		case 'q', 'Q':
			a.quit = true
		case 's', 'S':
			a.save()
		}
		return
	}

	switch ke.Rune {
	case 'q':
		a.quit = true
	case 's':
		a.editor.SelectTool()
	case 'a':
		a.editor.ArrowTool()
	case 'p':
		a.editor.PenTool(store.ToolPenBlack)
	case 'r':
		a.editor.PenTool(store.ToolPenRed)
	case 'x':
		a.editor.PenTool(store.ToolPenErase)
	case '[':
		a.cyclePalette(-1)
	case ']':
		a.cyclePalette(1)
	case 'n':
		if kind := a.paletteKind(); kind != "" {
			a.editor.ArmShape(kind)
		}
	case 't':
		a.editor.ArmShape(diagram.KindTextBox)
	case 'g', '/':
		if a.generator == nil {
			a.message = "AI endpoint not configured"
			return
		}
		a.prompting = true
		a.prompt = a.prompt[:0]
	case '+', '=':
		a.zoomCenter(true)
	case '-':
		a.zoomCenter(false)
	case 'H':
		a.viewport.PanCells(4, 0)
	case 'L':
		a.viewport.PanCells(-4, 0)
	case 'K':
		a.viewport.PanCells(0, 2)
	case 'J':
		a.viewport.PanCells(0, -2)
	case '0':
		a.viewport.PanX, a.viewport.PanY = 0, 0
		a.viewport.Zoom = 1
	case '?':
		a.message = "s select  a arrow  [ ] n place  t text  p/r pen  x erase  g AI  +/- zoom  HJKL pan  ^S save  q quit"
	}
}

func (a *App) handlePromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.prompting = false
	case tcell.KeyEnter:
		a.prompting = false
		a.startAI(string(a.prompt))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.prompt) > 0 {
			a.prompt = a.prompt[:len(a.prompt)-1]
		}
	case tcell.KeyRune:
		a.prompt = append(a.prompt, ev.Rune())
	}
}

// startAI runs the generator on its own goroutine; the result comes back
// through the event queue.
func (a *App) startAI(question string) {
	if strings.TrimSpace(question) == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	if !a.editor.BeginAI(cancel) {
		cancel()
		return
	}
	gen, screen := a.generator, a.screen
	a.pending.Add(1)
	go func() {
		defer a.pending.Done()
		res, err := gen.Generate(ctx, question)
		ev := &aiDoneEvent{res: res, err: err}
		ev.SetEventNow()
		for screen.PostEvent(ev) != nil {
			select {
			case <-a.stopped:
				return
			case <-time.After(TickInterval):
			}
		}
	}()
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	col, row := ev.Position()
	sx, sy := a.viewport.CellToScreen(col, row)
	pe := editor.PointerEvent{X: sx, Y: sy, Button: editor.ButtonLeft, Mods: toMods(ev.Modifiers())}
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		a.editor.Wheel(pe, true)
		return
	case buttons&tcell.WheelDown != 0:
		a.editor.Wheel(pe, false)
		return
	}

	down := buttons&tcell.Button1 != 0
	switch {
	case down && !a.buttonDown:
		a.buttonDown = true
		now := a.now()
		a.dblPending = now.Sub(a.lastDownAt) <= DoubleClickDelay &&
			col == a.lastDownCol && row == a.lastDownRow
		a.lastDownAt, a.lastDownCol, a.lastDownRow = now, col, row
		a.message = ""
		a.editor.PointerDown(pe)
	case !down && a.buttonDown:
		a.buttonDown = false
		a.editor.PointerUp(pe)
		if a.dblPending {
			a.dblPending = false
			a.lastDownAt = time.Time{}
			a.editor.DoubleClick(pe)
		}
	default:
		a.editor.PointerMove(pe)
	}
}

func (a *App) zoomCenter(in bool) {
	size := a.viewport.ViewportSize()
	a.viewport.ZoomAt(size.Width/2, size.Height/2, in)
}

func (a *App) cyclePalette(step int) {
	if len(a.palette) == 0 {
		return
	}
	a.paletteIdx = (a.paletteIdx + step + len(a.palette)) % len(a.palette)
	a.message = "palette: " + a.paletteKind()
}

func (a *App) paletteKind() string {
	if len(a.palette) == 0 {
		return ""
	}
	return a.palette[a.paletteIdx]
}

// save writes the diagram to the app path in the format its extension
// names, JSON when the extension is unknown.
func (a *App) save() {
	path := a.path
	if path == "" {
		path = DefaultSavePath
	}
	format, err := export.ParseFormat(filepath.Ext(path))
	if err != nil {
		format = export.FormatJSON
	}
	table, ok := a.editor.Store().Catalog().(*catalog.Table)
	if !ok {
		table = catalog.Default()
	}
	exp, err := export.NewExporterWithCatalog(format, table)
	if err != nil {
		a.message = err.Error()
		return
	}
	out, err := exp.Export(a.editor.Store().Diagram())
	if err == nil {
		err = os.WriteFile(path, []byte(out), 0o644)
	}
	if err != nil {
		a.logger.Error("save failed", "path", path, "error", err)
		a.message = "save failed: " + err.Error()
		return
	}
	a.logger.Info("saved diagram", "path", path, "format", format)
	a.message = "saved " + path
}

func (a *App) statusLine() StatusLine {
	st := a.editor.State()
	left := fmt.Sprintf(" %s | %s | %s ", st.Mode, st.ActiveTool, a.paletteKind())
	switch {
	case a.prompting:
		return StatusLine{Left: left, Message: "AI> " + string(a.prompt) + "▏"}
	case st.AIGenerating:
		return StatusLine{Left: left, Message: "generating… (Esc to cancel)"}
	case st.AIError:
		return StatusLine{Left: left, Message: strings.ReplaceAll(st.AIErrorMessage, "\n", " "), Error: true}
	case a.message != "":
		return StatusLine{Left: left, Message: a.message}
	default:
		return StatusLine{Left: left, Message: a.editor.Status()}
	}
}

// toKeyEvent maps a tcell key to editor input. Control letters arrive as
// their own key codes and become Ctrl plus the letter.
func toKeyEvent(ev *tcell.EventKey) (editor.KeyEvent, bool) {
	mods := toMods(ev.Modifiers())
	special := func(k editor.Key) (editor.KeyEvent, bool) {
		return editor.KeyEvent{Key: k, Mods: mods}, true
	}
	switch ev.Key() {
	case tcell.KeyRune:
		return editor.KeyEvent{Key: editor.KeyRune, Rune: ev.Rune(), Mods: mods}, true
	case tcell.KeyUp:
		return special(editor.KeyArrowUp)
	case tcell.KeyDown:
		return special(editor.KeyArrowDown)
	case tcell.KeyLeft:
		return special(editor.KeyArrowLeft)
	case tcell.KeyRight:
		return special(editor.KeyArrowRight)
	case tcell.KeyHome:
		return special(editor.KeyHome)
	case tcell.KeyEnd:
		return special(editor.KeyEnd)
	case tcell.KeyDelete:
		return special(editor.KeyDelete)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return special(editor.KeyBackspace)
	case tcell.KeyEnter:
		return special(editor.KeyEnter)
	case tcell.KeyEscape:
		return special(editor.KeyEscape)
	}
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return editor.KeyEvent{Key: editor.KeyRune, Rune: 'a' + rune(k-tcell.KeyCtrlA), Mods: mods | editor.ModCtrl}, true
	}
	return editor.KeyEvent{}, false
}

func toMods(m tcell.ModMask) editor.Modifiers {
	var out editor.Modifiers
	if m&tcell.ModShift != 0 {
		out |= editor.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= editor.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= editor.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= editor.ModMeta
	}
	return out
}
