package diagram

import (
	"testing"

	"archdraw/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDiagram() *Diagram {
	return &Diagram{
		Nodes: []Node{
			{ID: 1, Kind: "EC2", X: 100, Y: 100},
			{ID: 2, Kind: "RDS", X: 300, Y: 100},
			{ID: 3, Kind: KindTextBox, X: 0, Y: 0, Label: "note"},
		},
		Frames: []Frame{{ID: 4, Kind: "VPC", X: 50, Y: 50, Width: 400, Height: 200}},
		Edges: []Edge{
			{ID: 5, From: 1, To: 2},
			{ID: 6, From: 4, To: 1},
		},
	}
}

func TestElementLookup(t *testing.T) {
	d := createTestDiagram()

	el, ok := d.Element(4)
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 50, Y: 50, Width: 400, Height: 200}, el.Bounds())

	el, ok = d.Element(3)
	require.True(t, ok)
	assert.Equal(t, float64(TextBoxHeight), el.Bounds().Height)

	_, ok = d.Element(5)
	assert.False(t, ok, "edges are not elements")
}

func TestEdgeRoute(t *testing.T) {
	d := createTestDiagram()
	r := d.EdgeRoute(d.Edges[0])
	require.False(t, r.Empty())
	assert.Equal(t, geometry.SideRight, r.From)
	assert.Equal(t, geometry.SideLeft, r.To)

	assert.True(t, d.EdgeRoute(Edge{ID: 9, From: 1, To: 42}).Empty())
}

func TestCloneIsDeep(t *testing.T) {
	d := createTestDiagram()
	d.Strokes = []Stroke{{ID: "s", Color: PenBlack, Points: []geometry.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}}}

	c := d.Clone()
	c.Nodes[0].X = 999
	c.Strokes[0].Points[0].X = 999

	assert.Equal(t, 100.0, d.Nodes[0].X)
	assert.Equal(t, 1.0, d.Strokes[0].Points[0].X)
}

func TestPruneDanglingEdges(t *testing.T) {
	d := createTestDiagram()
	d.Nodes = d.Nodes[1:]

	removed := PruneDanglingEdges(d)
	assert.Equal(t, []int{5, 6}, removed)
	assert.Empty(t, d.Edges)
}

func TestDuplicateIDs(t *testing.T) {
	d := createTestDiagram()
	assert.Empty(t, DuplicateIDs(d))

	d.Edges = append(d.Edges, Edge{ID: 2, From: 1, To: 4})
	assert.Equal(t, []int{2}, DuplicateIDs(d))
}

func TestEdgesTouching(t *testing.T) {
	d := createTestDiagram()
	assert.Equal(t, []int{5, 6}, EdgesTouching(d, map[int]bool{1: true}))
	assert.Equal(t, []int{6}, EdgesTouching(d, map[int]bool{4: true}))
}

func TestDiagramBounds(t *testing.T) {
	d := createTestDiagram()
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 450, Height: 250}, d.Bounds())
}
