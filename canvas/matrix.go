package canvas

import (
	"errors"
	"strings"

	"github.com/rivo/uniseg"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrShortPath   = errors.New("path must have at least 2 points")
)

// MatrixCanvas implements a rune matrix-based canvas with high-level drawing
// primitives. Every Draw* call clips to the canvas, so shapes that are only
// partly visible render their visible part.
//
// MatrixCanvas is NOT safe for concurrent writes.
type MatrixCanvas struct {
	matrix [][]rune
	width  int
	height int
	merger *CharacterMerger
}

// NewMatrixCanvas creates a new canvas with the specified dimensions.
// Non-positive dimensions produce an empty canvas.
func NewMatrixCanvas(width, height int) *MatrixCanvas {
	width, height = max(width, 0), max(height, 0)
	matrix := make([][]rune, height)
	for y := range matrix {
		matrix[y] = make([]rune, width)
		for x := range matrix[y] {
			matrix[y][x] = ' '
		}
	}
	return &MatrixCanvas{
		matrix: matrix,
		width:  width,
		height: height,
		merger: NewCharacterMerger(),
	}
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Matrix returns direct access to the underlying rune matrix.
func (c *MatrixCanvas) Matrix() [][]rune {
	return c.matrix
}

func (c *MatrixCanvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Get returns the character at the given position, or a space when out of
// bounds.
func (c *MatrixCanvas) Get(p Point) rune {
	if !c.inside(p.X, p.Y) {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// Set merges a character into the given position.
func (c *MatrixCanvas) Set(p Point, char rune) error {
	if !c.inside(p.X, p.Y) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = c.merger.Merge(c.matrix[p.Y][p.X], char)
	return nil
}

// Put overwrites a position without merging. Out of bounds is ignored.
func (c *MatrixCanvas) Put(p Point, char rune) {
	if c.inside(p.X, p.Y) {
		c.matrix[p.Y][p.X] = char
	}
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	for y := range c.matrix {
		for x := range c.matrix[y] {
			c.matrix[y][x] = ' '
		}
	}
}

// String returns the canvas as a string with newlines. Trailing spaces on
// each line are kept so columns line up.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			// Wide character continuation cells are skipped
			if r := c.matrix[y][x]; r != '\x00' {
				sb.WriteRune(r)
			}
		}
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// DrawBox draws a rectangle with the specified style.
func (c *MatrixCanvas) DrawBox(x, y, width, height int, style BoxStyle) {
	if width <= 0 || height <= 0 {
		return
	}
	right, bottom := x+width-1, y+height-1
	c.DrawHorizontalLine(x+1, y, right-1, style.Horizontal)
	c.DrawHorizontalLine(x+1, bottom, right-1, style.Horizontal)
	c.DrawVerticalLine(x, y+1, bottom-1, style.Vertical)
	c.DrawVerticalLine(right, y+1, bottom-1, style.Vertical)
	c.Set(Point{x, y}, style.TopLeft)
	c.Set(Point{right, y}, style.TopRight)
	c.Set(Point{x, bottom}, style.BottomLeft)
	c.Set(Point{right, bottom}, style.BottomRight)
}

// FillRect overwrites a rectangle with char.
func (c *MatrixCanvas) FillRect(x, y, width, height int, char rune) {
	for yy := max(y, 0); yy < min(y+height, c.height); yy++ {
		for xx := max(x, 0); xx < min(x+width, c.width); xx++ {
			c.matrix[yy][xx] = char
		}
	}
}

// DrawHorizontalLine draws a horizontal line.
func (c *MatrixCanvas) DrawHorizontalLine(x1, y, x2 int, char rune) {
	if y < 0 || y >= c.height {
		return
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := max(x1, 0); x <= min(x2, c.width-1); x++ {
		c.matrix[y][x] = c.merger.Merge(c.matrix[y][x], char)
	}
}

// DrawVerticalLine draws a vertical line.
func (c *MatrixCanvas) DrawVerticalLine(x, y1, y2 int, char rune) {
	if x < 0 || x >= c.width {
		return
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := max(y1, 0); y <= min(y2, c.height-1); y++ {
		c.matrix[y][x] = c.merger.Merge(c.matrix[y][x], char)
	}
}

// DrawLine draws a line between two points using Bresenham's algorithm.
func (c *MatrixCanvas) DrawLine(p1, p2 Point, char rune) {
	dx, dy := abs(p2.X-p1.X), abs(p2.Y-p1.Y)
	x, y := p1.X, p1.Y
	xInc, yInc := 1, 1
	if p1.X > p2.X {
		xInc = -1
	}
	if p1.Y > p2.Y {
		yInc = -1
	}

	if dx > dy {
		err := dx / 2
		for x != p2.X {
			c.Put(Point{x, y}, char)
			err -= dy
			if err < 0 {
				y += yInc
				err += dx
			}
			x += xInc
		}
	} else {
		err := dy / 2
		for y != p2.Y {
			c.Put(Point{x, y}, char)
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}
	c.Put(p2, char)
}

// DrawText renders text starting at (x, y), one grapheme cluster per cell
// run. Wide clusters occupy two cells; a cluster that would straddle the
// right edge is dropped.
func (c *MatrixCanvas) DrawText(x, y int, text string) {
	if y < 0 || y >= c.height {
		return
	}
	state := -1
	rest := text
	for len(rest) > 0 && x < c.width {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if w == 0 {
			continue
		}
		if x+w > c.width {
			break
		}
		if x >= 0 {
			c.matrix[y][x] = []rune(cluster)[0]
			for i := 1; i < w; i++ {
				c.matrix[y][x+i] = '\x00'
			}
		}
		x += w
	}
}

// DrawPath draws an orthogonal polyline with rounded corners at the bends
// and an arrowhead on the last point. Diagonal segments fall back to a
// dotted line.
func (c *MatrixCanvas) DrawPath(points []Point, arrows ArrowStyle) error {
	points = dedupe(points)
	if len(points) < 2 {
		return ErrShortPath
	}
	for i := 0; i < len(points)-1; i++ {
		p1, p2 := points[i], points[i+1]
		switch {
		case p1.Y == p2.Y:
			c.DrawHorizontalLine(p1.X, p1.Y, p2.X, '─')
		case p1.X == p2.X:
			c.DrawVerticalLine(p1.X, p1.Y, p2.Y, '│')
		default:
			c.DrawLine(p1, p2, '·')
		}
	}
	for i := 1; i < len(points)-1; i++ {
		c.Put(points[i], selectCorner(points[i-1], points[i], points[i+1]))
	}
	last := len(points) - 1
	c.Put(points[last], arrows.For(getDirection(points[last-1], points[last])))
	return nil
}

// dedupe drops consecutive repeated points.
func dedupe(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if len(out) == 0 || out[len(out)-1] != p {
			out = append(out, p)
		}
	}
	return out
}

// selectCorner chooses the corner character for a bend at curr.
func selectCorner(prev, curr, next Point) rune {
	fromDir := getDirection(prev, curr)
	toDir := getDirection(curr, next)

	switch {
	case fromDir == 'E' && toDir == 'S', fromDir == 'N' && toDir == 'W':
		return '╮'
	case fromDir == 'E' && toDir == 'N', fromDir == 'S' && toDir == 'W':
		return '╯'
	case fromDir == 'W' && toDir == 'S', fromDir == 'N' && toDir == 'E':
		return '╭'
	case fromDir == 'W' && toDir == 'N', fromDir == 'S' && toDir == 'E':
		return '╰'
	case fromDir == toDir && (fromDir == 'E' || fromDir == 'W'):
		return '─'
	case fromDir == toDir:
		return '│'
	default:
		return '┼'
	}
}

// getDirection returns the direction from p1 to p2.
func getDirection(p1, p2 Point) rune {
	switch {
	case p2.X > p1.X:
		return 'E'
	case p2.X < p1.X:
		return 'W'
	case p2.Y > p1.Y:
		return 'S'
	default:
		return 'N'
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
