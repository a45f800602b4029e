package export

import (
	"math"
	"strings"

	"archdraw/canvas"
	"archdraw/diagram"
	"archdraw/geometry"
)

// ASCIIExporter renders the diagram as Unicode box art: frames as square
// boxes titled with their label, nodes as rounded boxes, edges along their
// routed path and pen strokes as dotted lines.
type ASCIIExporter struct {
	// CellWidth and CellHeight are the diagram units covered by one
	// character cell.
	CellWidth  float64
	CellHeight float64
	Arrows     canvas.ArrowStyle
}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter() *ASCIIExporter {
	return &ASCIIExporter{CellWidth: 6, CellHeight: 12, Arrows: canvas.StandardArrows}
}

// grid maps diagram coordinates to cells, leaving a one cell margin.
type grid struct {
	origin geometry.Point
	cw, ch float64
}

func (g grid) col(x float64) int { return int(math.Round((x-g.origin.X)/g.cw)) + 1 }
func (g grid) row(y float64) int { return int(math.Round((y-g.origin.Y)/g.ch)) + 1 }

func (g grid) cell(p geometry.Point) canvas.Point {
	return canvas.Point{X: g.col(p.X), Y: g.row(p.Y)}
}

// Export converts the diagram to Unicode art
func (e *ASCIIExporter) Export(d *diagram.Diagram) (string, error) {
	if err := requireDiagram(d); err != nil {
		return "", err
	}
	bounds, ok := e.extent(d)
	if !ok {
		return "", nil
	}

	g := grid{origin: geometry.Point{X: bounds.X, Y: bounds.Y}, cw: e.CellWidth, ch: e.CellHeight}
	c := canvas.NewMatrixCanvas(g.col(bounds.Right())+2, g.row(bounds.Bottom())+2)

	for _, f := range d.Frames {
		e.drawFrame(c, g, f)
	}
	for _, s := range d.Strokes {
		for i := 1; i < len(s.Points); i++ {
			c.DrawLine(g.cell(s.Points[i-1]), g.cell(s.Points[i]), '·')
		}
	}
	for _, n := range d.Nodes {
		e.drawNode(c, g, n)
	}
	for _, edge := range d.Edges {
		e.drawEdge(c, g, d.EdgeRoute(edge))
	}

	lines := strings.Split(c.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// extent is the diagram bounds grown to cover pen strokes.
func (e *ASCIIExporter) extent(d *diagram.Diagram) (geometry.Rect, bool) {
	var pts []geometry.Point
	if len(d.Nodes) > 0 || len(d.Frames) > 0 {
		b := d.Bounds()
		pts = append(pts, geometry.Point{X: b.X, Y: b.Y}, geometry.Point{X: b.Right(), Y: b.Bottom()})
	}
	for _, s := range d.Strokes {
		pts = append(pts, s.Points...)
	}
	if len(pts) == 0 {
		return geometry.Rect{}, false
	}
	r := geometry.RectFromPoints(pts[0], pts[0])
	for _, p := range pts[1:] {
		r = geometry.RectFromPoints(
			geometry.Point{X: min(r.X, p.X), Y: min(r.Y, p.Y)},
			geometry.Point{X: max(r.Right(), p.X), Y: max(r.Bottom(), p.Y)},
		)
	}
	return r, true
}

func (e *ASCIIExporter) drawFrame(c *canvas.MatrixCanvas, g grid, f diagram.Frame) {
	x0, y0 := g.col(f.X), g.row(f.Y)
	x1, y1 := g.col(f.X+f.Width), g.row(f.Y+f.Height)
	w := x1 - x0 + 1
	c.DrawBox(x0, y0, w, y1-y0+1, canvas.SquareBoxStyle)
	if title := canvas.FitText(labelOf(f.Label, f.Kind), w-4, "…"); title != "" {
		c.DrawText(x0+1, y0, " "+title+" ")
	}
}

func (e *ASCIIExporter) drawNode(c *canvas.MatrixCanvas, g grid, n diagram.Node) {
	b := n.Bounds()
	x0, y0 := g.col(b.X), g.row(b.Y)
	x1, y1 := g.col(b.Right()), g.row(b.Bottom())
	w, h := x1-x0+1, y1-y0+1
	label := labelOf(n.Label, n.Kind)

	if n.Kind == diagram.KindTextBox {
		e.drawLabel(c, x0, y0, w, h, label)
		return
	}
	c.DrawBox(x0, y0, w, h, canvas.DefaultBoxStyle)
	c.FillRect(x0+1, y0+1, w-2, h-2, ' ')
	e.drawLabel(c, x0+1, y0+1, w-2, h-2, label)
}

// drawLabel wraps label into the box and centers it both ways. Lines that
// do not fit are dropped and the last visible one gets an ellipsis.
func (e *ASCIIExporter) drawLabel(c *canvas.MatrixCanvas, x, y, w, h int, label string) {
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
		c.DrawText(x+canvas.CenterOffset(line, w), top+i, line)
	}
}

// drawEdge draws a route, starting and ending one cell outside the
// endpoint boxes so the arrowhead sits next to the target.
func (e *ASCIIExporter) drawEdge(c *canvas.MatrixCanvas, g grid, r geometry.Route) {
	if r.Empty() {
		return
	}
	pts := make([]canvas.Point, len(r.Points))
	for i, p := range r.Points {
		pts[i] = g.cell(p)
	}
	pts[0] = step(pts[0], r.From)
	pts[len(pts)-1] = step(pts[len(pts)-1], r.To)
	_ = c.DrawPath(pts, e.Arrows)
}

// step moves p one cell outward from a box side.
func step(p canvas.Point, side geometry.Side) canvas.Point {
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

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "Unicode art"
}
