package geometry

import "strings"

// Side identifies one of the four connection ports of a rectangle.
type Side int

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// IsVertical reports whether the port sits on the top or bottom edge.
func (s Side) IsVertical() bool {
	return s == SideTop || s == SideBottom
}

// Port is a connection point at the midpoint of a rectangle edge.
type Port struct {
	Point
	Side Side
}

// Ports returns the top, bottom, left and right ports of r, in that order.
func Ports(r Rect) [4]Port {
	c := r.Center()
	return [4]Port{
		{Point: Point{X: c.X, Y: r.Y}, Side: SideTop},
		{Point: Point{X: c.X, Y: r.Bottom()}, Side: SideBottom},
		{Point: Point{X: r.X, Y: c.Y}, Side: SideLeft},
		{Point: Point{X: r.Right(), Y: c.Y}, Side: SideRight},
	}
}

// Route is an orthogonal polyline between two rectangles.
type Route struct {
	Points []Point
	From   Side
	To     Side
}

// Empty reports whether no route could be computed.
func (r Route) Empty() bool {
	return len(r.Points) == 0
}

// Start returns the first point of the route.
func (r Route) Start() Point {
	if r.Empty() {
		return Point{}
	}
	return r.Points[0]
}

// End returns the last point of the route.
func (r Route) End() Point {
	if r.Empty() {
		return Point{}
	}
	return r.Points[len(r.Points)-1]
}

// SVG renders the route as path data: "M x,y L x,y L x,y L x,y".
func (r Route) SVG() string {
	var b strings.Builder
	for i, p := range r.Points {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(FormatNumber(p.X))
		b.WriteByte(',')
		b.WriteString(FormatNumber(p.Y))
	}
	return b.String()
}

// RouteOrthogonal picks a port pair on a and b and builds a four point
// elbow path between them.
//
// When the centers are further apart horizontally only left/right ports are
// considered, otherwise only top/bottom. The pair with the smallest
// Manhattan distance wins; ties keep the first candidate in port order.
// Degenerate input (an empty rectangle or two identical rectangles) yields
// an empty route.
func RouteOrthogonal(a, b Rect) Route {
	if a.Empty() || b.Empty() || a == b {
		return Route{}
	}

	ca, cb := a.Center(), b.Center()
	horizontal := IsHorizontal(ca, cb)

	var best Route
	bestDist := -1.0
	for _, from := range Ports(a) {
		if from.Side.IsVertical() == horizontal {
			continue
		}
		for _, to := range Ports(b) {
			if to.Side.IsVertical() == horizontal {
				continue
			}
			dist := ManhattanDistance(from.Point, to.Point)
			if bestDist >= 0 && dist >= bestDist {
				continue
			}
			bestDist = dist
			best = elbow(from, to)
		}
	}
	return best
}

func elbow(from, to Port) Route {
	var pts []Point
	if from.Side.IsVertical() && to.Side.IsVertical() {
		midY := (from.Y + to.Y) / 2
		pts = []Point{from.Point, {X: from.X, Y: midY}, {X: to.X, Y: midY}, to.Point}
	} else {
		// horizontal pairs and mixed pairs both jog through the x midpoint
		midX := (from.X + to.X) / 2
		pts = []Point{from.Point, {X: midX, Y: from.Y}, {X: midX, Y: to.Y}, to.Point}
	}
	return Route{Points: pts, From: from.Side, To: to.Side}
}
