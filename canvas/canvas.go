// Package canvas provides a 2D character grid for rendering diagrams as text.
package canvas

// Point is a cell position. Origin is top-left, X grows rightward and Y
// grows downward.
type Point struct {
	X, Y int
}

// Canvas represents a 2D grid for drawing.
type Canvas interface {
	Set(p Point, char rune) error
	Get(p Point) rune
	Size() (width, height int)
	Clear()
	String() string
}

// BoxStyle defines the characters used to draw a box.
type BoxStyle struct {
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
	Horizontal  rune
	Vertical    rune
}

// Predefined box styles
var (
	// DefaultBoxStyle uses rounded corners
	DefaultBoxStyle = BoxStyle{
		TopLeft:     '╭',
		TopRight:    '╮',
		BottomLeft:  '╰',
		BottomRight: '╯',
		Horizontal:  '─',
		Vertical:    '│',
	}

	// SquareBoxStyle draws group frames
	SquareBoxStyle = BoxStyle{
		TopLeft:     '┌',
		TopRight:    '┐',
		BottomLeft:  '└',
		BottomRight: '┘',
		Horizontal:  '─',
		Vertical:    '│',
	}

	// SimpleBoxStyle uses ASCII characters
	SimpleBoxStyle = BoxStyle{
		TopLeft:     '+',
		TopRight:    '+',
		BottomLeft:  '+',
		BottomRight: '+',
		Horizontal:  '-',
		Vertical:    '|',
	}
)

// ArrowStyle defines the arrowhead drawn for each direction of travel.
type ArrowStyle struct {
	Right rune
	Left  rune
	Up    rune
	Down  rune
}

// StandardArrows uses Unicode triangles
var StandardArrows = ArrowStyle{
	Right: '▶',
	Left:  '◀',
	Up:    '▲',
	Down:  '▼',
}

// For returns the arrowhead for a direction rune (N, S, E or W).
func (a ArrowStyle) For(dir rune) rune {
	switch dir {
	case 'E':
		return a.Right
	case 'W':
		return a.Left
	case 'N':
		return a.Up
	default:
		return a.Down
	}
}
