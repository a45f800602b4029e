package geometry

// Zoom limits and per-tick factors used when no configuration overrides them.
const (
	DefaultMinZoom = 0.25
	DefaultMaxZoom = 3.0
	ZoomInFactor   = 1.1
	ZoomOutFactor  = 0.9
)

// ViewportProvider converts raw pointer positions into diagram space.
// It replaces any dependency on a live drawing surface so the editor can be
// driven headlessly.
type ViewportProvider interface {
	// ToDiagramSpace inverts the current view transform for a screen position.
	ToDiagramSpace(sx, sy float64) Point

	// ViewportSize returns the visible area in screen units.
	ViewportSize() Size
}

// Zoomer is implemented by providers that support wheel zooming.
type Zoomer interface {
	ZoomAt(cx, cy float64, in bool)
}

// Viewport is a pan/zoom view transform: screen = diagram*Zoom + Pan.
type Viewport struct {
	PanX, PanY float64
	Zoom       float64
	MinZoom    float64
	MaxZoom    float64
	Width      float64
	Height     float64
}

// NewViewport creates an identity viewport of the given screen size.
func NewViewport(width, height, minZoom, maxZoom float64) *Viewport {
	if minZoom <= 0 {
		minZoom = DefaultMinZoom
	}
	if maxZoom < minZoom {
		maxZoom = DefaultMaxZoom
	}
	return &Viewport{
		Zoom:    1,
		MinZoom: minZoom,
		MaxZoom: maxZoom,
		Width:   width,
		Height:  height,
	}
}

// ToDiagramSpace implements ViewportProvider.
func (v *Viewport) ToDiagramSpace(sx, sy float64) Point {
	z := v.zoom()
	return Point{X: (sx - v.PanX) / z, Y: (sy - v.PanY) / z}
}

// ToScreenSpace applies the view transform to a diagram point.
func (v *Viewport) ToScreenSpace(p Point) (float64, float64) {
	z := v.zoom()
	return p.X*z + v.PanX, p.Y*z + v.PanY
}

// ViewportSize implements ViewportProvider.
func (v *Viewport) ViewportSize() Size {
	return Size{Width: v.Width, Height: v.Height}
}

// Resize updates the screen size.
func (v *Viewport) Resize(width, height float64) {
	v.Width, v.Height = width, height
}

// Pan shifts the view by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// SetZoom sets the zoom factor, clamped to the configured range, keeping
// the diagram point under (cx, cy) fixed on screen.
func (v *Viewport) SetZoom(z, cx, cy float64) {
	anchor := v.ToDiagramSpace(cx, cy)
	v.Zoom = Clamp(z, v.MinZoom, v.MaxZoom)
	v.PanX = cx - anchor.X*v.Zoom
	v.PanY = cy - anchor.Y*v.Zoom
}

// ZoomAt steps the zoom by one wheel tick around (cx, cy).
func (v *Viewport) ZoomAt(cx, cy float64, in bool) {
	factor := ZoomOutFactor
	if in {
		factor = ZoomInFactor
	}
	v.SetZoom(v.zoom()*factor, cx, cy)
}

// VisibleRect returns the diagram-space rectangle currently on screen.
func (v *Viewport) VisibleRect() Rect {
	tl := v.ToDiagramSpace(0, 0)
	br := v.ToDiagramSpace(v.Width, v.Height)
	return RectFromPoints(tl, br)
}

func (v *Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}
