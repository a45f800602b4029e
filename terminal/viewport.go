package terminal

import (
	"math"

	"archdraw/geometry"
)

// Diagram units covered by one character cell at zoom 1. Cells are about
// twice as tall as wide.
const (
	DefaultCellWidth  = 6
	DefaultCellHeight = 12
)

// CellViewport is the view transform of the terminal canvas. Screen space
// is measured in diagram units at zoom 1, so a terminal cell (col, row)
// sits at (col*CellWidth, row*CellHeight).
type CellViewport struct {
	*geometry.Viewport
	CellWidth  float64
	CellHeight float64
}

// NewCellViewport creates a viewport cols by rows cells in size.
func NewCellViewport(cols, rows int, minZoom, maxZoom float64) *CellViewport {
	v := &CellViewport{
		Viewport:   geometry.NewViewport(0, 0, minZoom, maxZoom),
		CellWidth:  DefaultCellWidth,
		CellHeight: DefaultCellHeight,
	}
	v.ResizeCells(cols, rows)
	return v
}

// ResizeCells updates the screen size after a terminal resize.
func (v *CellViewport) ResizeCells(cols, rows int) {
	v.Resize(float64(cols)*v.CellWidth, float64(rows)*v.CellHeight)
}

// CellToScreen returns the screen position of the center of a cell.
func (v *CellViewport) CellToScreen(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * v.CellWidth, (float64(row) + 0.5) * v.CellHeight
}

// Cell returns the cell a diagram point falls in.
func (v *CellViewport) Cell(p geometry.Point) (int, int) {
	sx, sy := v.ToScreenSpace(p)
	return int(math.Floor(sx / v.CellWidth)), int(math.Floor(sy / v.CellHeight))
}

// PanCells shifts the view by whole cells.
func (v *CellViewport) PanCells(dcol, drow int) {
	v.Pan(float64(dcol)*v.CellWidth, float64(drow)*v.CellHeight)
}
