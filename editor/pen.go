package editor

import (
	"slices"

	"archdraw/diagram"
	"archdraw/geometry"
	"archdraw/store"
)

func (e *Editor) penDown(p geometry.Point) {
	st := e.State()
	if st.ActiveTool == store.ToolPenErase {
		e.erasing = true
		e.eraseAt(p)
		return
	}
	e.apply(store.UpdateDrawing{Drawing: store.Drawing{
		Active: true,
		Color:  st.Drawing.Color,
		Points: []geometry.Point{p},
	}})
}

func (e *Editor) penMove(p geometry.Point) {
	st := e.State()
	if e.erasing {
		e.eraseAt(p)
		return
	}
	if !st.Drawing.Active {
		return
	}
	d := st.Drawing
	d.Points = append(slices.Clone(d.Points), p)
	e.apply(store.UpdateDrawing{Drawing: d})
}

// penUp finishes the stroke. Strokes of fewer than two points are dropped.
func (e *Editor) penUp(p geometry.Point) {
	if e.erasing {
		e.erasing = false
		return
	}
	st := e.State()
	if !st.Drawing.Active {
		return
	}
	points := st.Drawing.Points
	if last := len(points) - 1; last < 0 || points[last] != p {
		points = append(slices.Clone(points), p)
	}
	color := st.Drawing.Color
	e.apply(store.UpdateDrawing{Drawing: store.Drawing{Color: color}})
	if len(points) < 2 {
		return
	}
	e.apply(store.AddStroke{Stroke: diagram.Stroke{
		Color:  color,
		Width:  diagram.PenStrokeWidth,
		Points: points,
	}})
	e.commit()
}

// eraseAt deletes every stroke passing within the erase threshold of p.
func (e *Editor) eraseAt(p geometry.Point) {
	var ids []string
	for _, s := range e.State().Strokes {
		if geometry.NearPolyline(p, s.Points, e.cfg.EraseThreshold) {
			ids = append(ids, s.ID)
		}
	}
	if len(ids) == 0 {
		return
	}
	e.apply(store.DeleteStrokes{IDs: ids})
	e.commit()
}
