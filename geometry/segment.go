package geometry

// DistSqPoints returns the squared distance between a and b.
func DistSqPoints(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// DistSqPointSegment returns the squared distance from p to the segment ab.
func DistSqPointSegment(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return DistSqPoints(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = Clamp(t, 0, 1)
	return DistSqPoints(p, Point{X: a.X + t*dx, Y: a.Y + t*dy})
}

// NearPolyline reports whether p is within threshold of any vertex or
// segment of the polyline. Distances are compared squared.
func NearPolyline(p Point, line []Point, threshold float64) bool {
	limit := threshold * threshold
	for i, q := range line {
		if DistSqPoints(p, q) <= limit {
			return true
		}
		if i > 0 && DistSqPointSegment(p, line[i-1], q) <= limit {
			return true
		}
	}
	return false
}
