package diagram

import "archdraw/geometry"

// RoughOptions controls a hand-drawn stroke.
type RoughOptions struct {
	Roughness   float64
	StrokeWidth float64
	Stroke      string
	Fill        string
	Seed        string
}

// DrawOp is one primitive produced by a rough renderer: a polyline to
// stroke, optionally closed and filled.
type DrawOp struct {
	Points []geometry.Point
	Closed bool
	Stroke string
	Fill   string
	Width  float64
}

// RoughRenderer turns path data into hand-drawn stroke primitives.
type RoughRenderer interface {
	// RenderRoughPath converts SVG path data into draw operations.
	// An empty or single-point path yields no operations.
	RenderRoughPath(path string, opts RoughOptions) []DrawOp
}

// Renderer draws a diagram snapshot to some output.
type Renderer interface {
	Render(d *Diagram) (string, error)
}
