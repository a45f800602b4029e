package export

import (
	"fmt"
	"slices"

	"archdraw/diagram"
	"archdraw/geometry"
)

// nesting places every node and frame inside the smallest frame that fully
// contains it. Frames with identical bounds nest in slice order, so the
// relation is always a forest.
type nesting struct {
	parent    map[int]int   // element id to frame id, 0 at top level
	frameKids map[int][]int // frame id (0 = root) to child frames
	nodeKids  map[int][]int // frame id (0 = root) to child nodes
}

func buildNesting(d *diagram.Diagram) *nesting {
	n := &nesting{
		parent:    make(map[int]int),
		frameKids: make(map[int][]int),
		nodeKids:  make(map[int][]int),
	}

	// canHold reports whether frame i may be the parent of a rect with the
	// given area sitting at slice index j (-1 for nodes).
	canHold := func(i int, area float64, j int) bool {
		a := d.Frames[i].Width * d.Frames[i].Height
		return a > area || (a == area && j >= 0 && i < j)
	}
	innermost := func(b diagramRect, j int) int {
		best, bestArea := 0, 0.0
		for i, f := range d.Frames {
			if i == j || !f.Bounds().ContainsRect(b.rect) || !canHold(i, b.area, j) {
				continue
			}
			area := f.Width * f.Height
			if best == 0 || area <= bestArea {
				best, bestArea = f.ID, area
			}
		}
		return best
	}

	for j, f := range d.Frames {
		p := innermost(diagramRect{f.Bounds(), f.Width * f.Height}, j)
		n.parent[f.ID] = p
		n.frameKids[p] = append(n.frameKids[p], f.ID)
	}
	for _, node := range d.Nodes {
		b := node.Bounds()
		p := innermost(diagramRect{b, b.Width * b.Height}, -1)
		n.parent[node.ID] = p
		n.nodeKids[p] = append(n.nodeKids[p], node.ID)
	}
	return n
}

type diagramRect struct {
	rect geometry.Rect
	area float64
}

// ancestors returns the frame chain above id, outermost first.
func (n *nesting) ancestors(id int) []int {
	var chain []int
	for p := n.parent[id]; p != 0; p = n.parent[p] {
		chain = append(chain, p)
	}
	slices.Reverse(chain)
	return chain
}

func elementName(d *diagram.Diagram, id int) string {
	if d.FrameIndex(id) >= 0 {
		return fmt.Sprintf("f%d", id)
	}
	return fmt.Sprintf("n%d", id)
}
