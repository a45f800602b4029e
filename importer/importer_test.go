package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archdraw/catalog"
	"archdraw/diagram"
	"archdraw/export"
	"archdraw/geometry"
	"archdraw/registry"
)

func newRegistry() *ImporterRegistry {
	return NewImporterRegistry(registry.NewSanitizer(catalog.Default(), 80, 60))
}

func sample() *diagram.Diagram {
	return &diagram.Diagram{
		Nodes: []diagram.Node{
			{ID: 2, Kind: "EC2", X: 20, Y: 20, Label: "web"},
			{ID: 3, Kind: "RDS", X: 400, Y: 0, Label: "db"},
		},
		Frames: []diagram.Frame{{ID: 1, Kind: "VPC", X: 0, Y: 0, Width: 300, Height: 200, Label: "prod"}},
		Edges: []diagram.Edge{
			{ID: 4, From: 2, To: 3},
			{ID: 5, From: 3, To: 1},
		},
	}
}

func TestDetectFormat(t *testing.T) {
	r := newRegistry()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"json", `{"nodes": []}`, "JSON"},
		{"json with whitespace", "\n  {}", "JSON"},
		{"model", `<mxGraphModel><root></root></mxGraphModel>`, "drawio"},
		{"file", `<mxfile><diagram><mxGraphModel/></diagram></mxfile>`, "drawio"},
		{"encoded", "%3CmxGraphModel%3E%3C%2FmxGraphModel%3E", "drawio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp, err := r.DetectFormat(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, imp.GetFormatName())
		})
	}

	_, err := r.DetectFormat("graph LR\n A --> B")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = r.Import("")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = r.ImportWithFormat("{}", "mermaid")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Equal(t, []string{"JSON", "drawio"}, r.GetAvailableFormats())
}

func TestJSONRoundTrip(t *testing.T) {
	d := sample()
	d.Strokes = []diagram.Stroke{{ID: "s1", Color: diagram.PenRed, Width: 2, Points: []geometry.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}}}

	out, err := export.NewJSONExporter().Export(d)
	require.NoError(t, err)

	back, err := newRegistry().ImportFile("diagram.json", out)
	require.NoError(t, err)
	assert.Equal(t, d, back)
}

func TestJSONSanitizes(t *testing.T) {
	content := `{
		"nodes": [
			{"id": 1, "kind": "S3", "x": "10.6", "y": 4.4},
			{"id": 2, "kind": "NoSuchThing", "x": 0, "y": 0, "label": "x"},
			{"kind": "EC2"},
			"garbage"
		],
		"frames": [{"id": 3, "kind": "VPC", "x": 0, "y": 0, "width": 10, "height": 500}],
		"edges": [
			{"id": 4, "from": 1, "to": 3},
			{"id": 5, "from": 1, "to": 99}
		],
		"drawings": [
			{"id": "a", "color": "#111122", "points": [{"x": 0, "y": 0}, {"x": 1, "y": 1}]},
			{"id": "b", "points": [{"x": 0, "y": 0}]},
			{"points": "nope"},
			{"points": [{"x": 5, "y": 5}, {"x": 6, "y": 6}]}
		]
	}`
	d, err := newRegistry().Import(content)
	require.NoError(t, err)

	require.Len(t, d.Nodes, 2)
	assert.Equal(t, diagram.Node{ID: 1, Kind: "S3", X: 11, Y: 4, Label: catalog.Default().DefaultLabel("S3")}, d.Nodes[0])
	assert.Equal(t, diagram.KindOtherService, d.Nodes[1].Kind)
	assert.Equal(t, "x", d.Nodes[1].Label)

	require.Len(t, d.Frames, 1)
	assert.Equal(t, 80.0, d.Frames[0].Width)
	assert.Equal(t, 500.0, d.Frames[0].Height)

	assert.Equal(t, []diagram.Edge{{ID: 4, From: 1, To: 3}}, d.Edges)

	require.Len(t, d.Strokes, 2)
	assert.Equal(t, "a", d.Strokes[0].ID)
	assert.NotEmpty(t, d.Strokes[1].ID)
	assert.Equal(t, diagram.PenBlack, d.Strokes[1].Color)
	assert.Equal(t, float64(diagram.PenStrokeWidth), d.Strokes[1].Width)
}

func TestJSONWrongShapeIsEmpty(t *testing.T) {
	d, err := newRegistry().ImportWithFormat(`{"nodes": "nope", "frames": 3}`, "json")
	require.NoError(t, err)
	assert.Empty(t, d.Nodes)
	assert.Empty(t, d.Frames)
	assert.Empty(t, d.Edges)

	_, err = newRegistry().ImportWithFormat(`{"nodes": [`, "json")
	assert.Error(t, err)
}

func TestDrawioRoundTrip(t *testing.T) {
	out, err := export.NewDrawioExporter().Export(sample())
	require.NoError(t, err)

	d, err := newRegistry().ImportFile("diagram.drawio", out)
	require.NoError(t, err)

	require.Len(t, d.Nodes, 2)
	require.Len(t, d.Frames, 1)
	require.Len(t, d.Edges, 2)

	byLabel := make(map[string]diagram.Node)
	for _, n := range d.Nodes {
		byLabel[n.Label] = n
	}
	assert.Equal(t, "EC2", byLabel["web"].Kind)
	assert.Equal(t, 20.0, byLabel["web"].X)
	assert.Equal(t, "RDS", byLabel["db"].Kind)

	f := d.Frames[0]
	assert.Equal(t, "VPC", f.Kind)
	assert.Equal(t, 300.0, f.Width)

	// connectivity survives the renumbering
	assert.Contains(t, d.Edges, diagram.Edge{ID: d.Edges[0].ID, From: byLabel["web"].ID, To: byLabel["db"].ID})
	assert.Equal(t, f.ID, d.Edges[1].To)
}

func TestDrawioRejectsText(t *testing.T) {
	_, err := newRegistry().ImportWithFormat("hello", "drawio")
	assert.Error(t, err)
}
