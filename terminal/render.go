package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"archdraw/canvas"
	"archdraw/catalog"
	"archdraw/diagram"
	"archdraw/editor"
	"archdraw/geometry"
	"archdraw/store"
)

// Styles used for everything that has no catalogue color.
var (
	styleBase     = tcell.StyleDefault
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	stylePending  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleMarquee  = tcell.StyleDefault.Foreground(tcell.ColorSilver).Dim(true)
	styleStatus   = tcell.StyleDefault.Reverse(true)
	styleError    = tcell.StyleDefault.Background(tcell.ColorMaroon).Foreground(tcell.ColorWhite)
	styleCursor   = tcell.StyleDefault.Reverse(true)
)

// frameBuffer is a rune canvas with a style per cell.
type frameBuffer struct {
	*canvas.MatrixCanvas
	styles [][]tcell.Style
}

func newFrameBuffer(w, h int) *frameBuffer {
	b := &frameBuffer{MatrixCanvas: canvas.NewMatrixCanvas(w, h)}
	w, h = b.Size()
	b.styles = make([][]tcell.Style, h)
	for y := range b.styles {
		b.styles[y] = make([]tcell.Style, w)
		for x := range b.styles[y] {
			b.styles[y][x] = styleBase
		}
	}
	return b
}

func (b *frameBuffer) paint(x, y int, st tcell.Style) {
	if y >= 0 && y < len(b.styles) && x >= 0 && x < len(b.styles[y]) {
		b.styles[y][x] = st
	}
}

// paintBorder styles the outline of a box.
func (b *frameBuffer) paintBorder(x0, y0, x1, y1 int, st tcell.Style) {
	for x := x0; x <= x1; x++ {
		b.paint(x, y0, st)
		b.paint(x, y1, st)
	}
	for y := y0; y <= y1; y++ {
		b.paint(x0, y, st)
		b.paint(x1, y, st)
	}
}

// paintPath styles the cells of an orthogonal polyline.
func (b *frameBuffer) paintPath(points []canvas.Point, st tcell.Style) {
	for i := 1; i < len(points); i++ {
		p, q := points[i-1], points[i]
		x0, x1 := min(p.X, q.X), max(p.X, q.X)
		y0, y1 := min(p.Y, q.Y), max(p.Y, q.Y)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				b.paint(x, y, st)
			}
		}
	}
}

// blit copies the buffer to the screen. Continuation cells of wide
// characters are skipped; tcell fills them itself.
func (b *frameBuffer) blit(s tcell.Screen) {
	m := b.Matrix()
	for y, row := range m {
		for x, r := range row {
			if r == '\x00' {
				continue
			}
			s.SetContent(x, y, r, nil, b.styles[y][x])
		}
	}
}

// Renderer draws the editor state onto a tcell screen: frames as square
// boxes, nodes as rounded boxes, edges along their routes and pen strokes
// as dots. Catalogue colors tint the borders; unselected frames are dimmed
// so nodes stand out.
type Renderer struct {
	catalog catalog.Catalog
	colors  map[string]tcell.Color
}

// NewRenderer creates a renderer using c for colors.
func NewRenderer(c catalog.Catalog) *Renderer {
	if c == nil {
		c = catalog.Default()
	}
	return &Renderer{catalog: c, colors: make(map[string]tcell.Color)}
}

// Render draws the canvas area and the status line. The last screen row
// is the status line.
func (r *Renderer) Render(s tcell.Screen, e *editor.Editor, v *CellViewport, status StatusLine) {
	w, h := s.Size()
	s.Clear()
	if w <= 0 || h <= 0 {
		return
	}

	st := e.State()
	b := newFrameBuffer(w, h-1)
	for _, f := range st.Frames {
		r.drawFrame(b, v, f, st.IsFrameSelected(f.ID))
	}
	for _, sk := range st.Strokes {
		r.drawStroke(b, v, sk.Points, sk.Color)
	}
	if st.Drawing.Active && !st.Drawing.Erase {
		r.drawStroke(b, v, st.Drawing.Points, st.Drawing.Color)
	}
	for _, n := range st.Nodes {
		r.drawNode(b, v, n, st.IsNodeSelected(n.ID))
	}
	for _, edge := range st.Edges {
		r.drawEdge(b, v, st.EdgeRoute(edge), st.IsEdgeSelected(edge.ID))
	}
	r.drawScratch(b, v, st)
	r.drawEditing(b, v, e)
	b.blit(s)

	status.draw(s, w, h-1)
}

// box returns the cells covered by a diagram rectangle, at least 2x2.
func box(v *CellViewport, rect geometry.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = v.Cell(geometry.Point{X: rect.X, Y: rect.Y})
	x1, y1 = v.Cell(geometry.Point{X: rect.Right(), Y: rect.Bottom()})
	return x0, y0, max(x1, x0+1), max(y1, y0+1)
}

func (r *Renderer) drawFrame(b *frameBuffer, v *CellViewport, f diagram.Frame, selected bool) {
	x0, y0, x1, y1 := box(v, f.Bounds())
	w := x1 - x0 + 1
	b.DrawBox(x0, y0, w, y1-y0+1, canvas.SquareBoxStyle)
	if title := canvas.FitText(r.label(f.Label, f.Kind), w-4, "…"); title != "" {
		b.DrawText(x0+1, y0, " "+title+" ")
	}
	st := tcell.StyleDefault.Foreground(r.color(f.Kind, !selected))
	if selected {
		st = styleSelected
	}
	b.paintBorder(x0, y0, x1, y1, st)
	if selected {
		for _, c := range [][2]int{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
			b.Put(canvas.Point{X: c[0], Y: c[1]}, '■')
		}
	}
}

func (r *Renderer) drawNode(b *frameBuffer, v *CellViewport, n diagram.Node, selected bool) {
	x0, y0, x1, y1 := box(v, n.Bounds())
	w, h := x1-x0+1, y1-y0+1
	label := r.label(n.Label, n.Kind)
	st := tcell.StyleDefault.Foreground(r.color(n.Kind, false))
	if selected {
		st = styleSelected
	}

	if n.Kind == diagram.KindTextBox {
		b.FillRect(x0, y0, w, h, ' ')
		drawLabel(b, x0, y0, w, h, label)
		if selected {
			b.paintBorder(x0, y0, x1, y1, st)
		}
		return
	}
	b.DrawBox(x0, y0, w, h, canvas.DefaultBoxStyle)
	b.FillRect(x0+1, y0+1, w-2, h-2, ' ')
	drawLabel(b, x0+1, y0+1, w-2, h-2, label)
	b.paintBorder(x0, y0, x1, y1, st)
}

// drawLabel wraps and centers a label inside a box interior.
func drawLabel(b *frameBuffer, x, y, w, h int, label string) {
	if w <= 0 || h <= 0 {
		return
	}
	lines := canvas.WrapText(label, w, canvas.WrapChar)
	if len(lines) > h {
		lines = lines[:h]
		lines[h-1] = canvas.FitText(lines[h-1]+"…", w, "…")
	}
	top := y + (h-len(lines))/2
	for i, line := range lines {
		b.DrawText(x+canvas.CenterOffset(line, w), top+i, line)
	}
}

func (r *Renderer) drawStroke(b *frameBuffer, v *CellViewport, pts []geometry.Point, color string) {
	st := tcell.StyleDefault.Foreground(r.hex(color, false))
	for i := 1; i < len(pts); i++ {
		x0, y0 := v.Cell(pts[i-1])
		x1, y1 := v.Cell(pts[i])
		b.DrawLine(canvas.Point{X: x0, Y: y0}, canvas.Point{X: x1, Y: y1}, '·')
		b.paintPath([]canvas.Point{{X: x0, Y: y0}, {X: x1, Y: y1}}, st)
	}
}

func (r *Renderer) drawEdge(b *frameBuffer, v *CellViewport, route geometry.Route, selected bool) {
	if route.Empty() {
		return
	}
	pts := make([]canvas.Point, len(route.Points))
	for i, p := range route.Points {
		x, y := v.Cell(p)
		pts[i] = canvas.Point{X: x, Y: y}
	}
	pts[0] = stepOut(pts[0], route.From)
	pts[len(pts)-1] = stepOut(pts[len(pts)-1], route.To)
	if err := b.DrawPath(pts, canvas.StandardArrows); err != nil {
		return
	}
	if selected {
		b.paintPath(pts, styleSelected)
	}
}

// stepOut moves a route endpoint one cell off the box border it sits on.
func stepOut(p canvas.Point, side geometry.Side) canvas.Point {
	switch side {
	case geometry.SideTop:
		p.Y--
	case geometry.SideBottom:
		p.Y++
	case geometry.SideLeft:
		p.X--
	case geometry.SideRight:
		p.X++
	}
	return p
}

// drawScratch draws the in-progress interaction: the rubber band of an
// edge being created, a frame being sized, or the marquee.
func (r *Renderer) drawScratch(b *frameBuffer, v *CellViewport, st *store.State) {
	switch {
	case st.PendingEdge != nil:
		el, ok := st.Element(st.PendingEdge.From)
		if !ok {
			return
		}
		x0, y0 := v.Cell(el.Bounds().Center())
		x1, y1 := v.Cell(st.PendingEdge.Cursor)
		pts := []canvas.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}}
		if err := b.DrawPath(pts, canvas.StandardArrows); err == nil {
			b.paintPath(pts, stylePending)
		}
	case st.PendingFrame != nil:
		rect := geometry.RectFromPoints(st.PendingFrame.Start, st.PendingFrame.Current)
		x0, y0, x1, y1 := box(v, rect)
		b.DrawBox(x0, y0, x1-x0+1, y1-y0+1, canvas.SquareBoxStyle)
		b.paintBorder(x0, y0, x1, y1, stylePending)
	case st.Marquee != nil:
		rect := geometry.RectFromPoints(st.Marquee.Start, st.Marquee.Current)
		x0, y0, x1, y1 := box(v, rect)
		b.DrawBox(x0, y0, x1-x0+1, y1-y0+1, canvas.SimpleBoxStyle)
		b.paintBorder(x0, y0, x1, y1, styleMarquee)
	}
}

// drawEditing overlays the label being typed on the element's top row and
// marks the cursor.
func (r *Renderer) drawEditing(b *frameBuffer, v *CellViewport, e *editor.Editor) {
	st := e.State()
	if st.EditingNodeID == 0 {
		return
	}
	el, ok := st.Element(st.EditingNodeID)
	if !ok {
		return
	}
	text, cursor := e.EditingText()
	x0, y0, x1, _ := box(v, el.Bounds())
	y := y0 + 1
	if _, isFrame := el.(diagram.Frame); isFrame {
		y = y0
	}
	w := max(x1-x0-1, 1)
	b.FillRect(x0+1, y, w, 1, ' ')
	runes := []rune(text)
	before := canvas.TruncateToWidth(string(runes[:cursor]), w-1)
	b.DrawText(x0+1, y, canvas.TruncateToWidth(text, w))
	cx := x0 + 1 + canvas.StringWidth(before)
	if cursor < len(runes) {
		b.paint(cx, y, styleCursor)
	} else {
		b.Put(canvas.Point{X: cx, Y: y}, ' ')
		b.paint(cx, y, styleCursor)
	}
}

// label returns the display label, falling back to the catalogue default.
func (r *Renderer) label(label, kind string) string {
	if label != "" {
		return label
	}
	return r.catalog.DefaultLabel(kind)
}

// color returns the catalogue color of kind, optionally dimmed.
func (r *Renderer) color(kind string, dim bool) tcell.Color {
	s, ok := r.catalog.Lookup(kind)
	if !ok {
		return tcell.ColorDefault
	}
	return r.hex(s.Color, dim)
}

// hex converts a #rrggbb color to a terminal color. Dimmed colors are
// blended halfway toward black in Lab space.
func (r *Renderer) hex(hex string, dim bool) tcell.Color {
	key := hex
	if dim {
		key += "/dim"
	}
	if c, ok := r.colors[key]; ok {
		return c
	}
	col, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorDefault
	}
	if dim {
		col = col.BlendLab(colorful.Color{}, 0.5).Clamped()
	}
	red, green, blue := col.RGB255()
	c := tcell.NewRGBColor(int32(red), int32(green), int32(blue))
	r.colors[key] = c
	return c
}

// StatusLine is the bottom row: mode and tool on the left, a message or
// prompt after them.
type StatusLine struct {
	Left    string
	Message string
	Error   bool
}

func (l StatusLine) draw(s tcell.Screen, w, y int) {
	st := styleStatus
	if l.Error {
		st = styleError
	}
	text := l.Left
	if l.Message != "" {
		text += "  " + l.Message
	}
	b := newFrameBuffer(w, 1)
	b.DrawText(0, 0, canvas.TruncateToWidth(text, w))
	for x, r := range b.Matrix()[0] {
		if r != '\x00' {
			s.SetContent(x, y, r, nil, st)
		}
	}
}
