package drawio

import (
	"strings"
	"testing"

	"archdraw/diagram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDiagram() *diagram.Diagram {
	return &diagram.Diagram{
		Frames: []diagram.Frame{
			{ID: 1, Kind: "VPC", X: 0, Y: 0, Width: 400, Height: 300, Label: "main"},
			{ID: 2, Kind: "PublicSubnet", X: 10, Y: 10, Width: 200, Height: 100},
			{ID: 3, Kind: "PrivateSubnet", X: 10, Y: 150, Width: 200, Height: 100},
			{ID: 4, Kind: "AZ", X: 5, Y: 5, Width: 250, Height: 280},
			{ID: 5, Kind: "AutoScaling", X: 20, Y: 20, Width: 100, Height: 80},
			{ID: 6, Kind: "StepFunctions", X: 500, Y: 0, Width: 100, Height: 80},
		},
		Nodes: []diagram.Node{
			{ID: 10, Kind: "EC2", X: 40, Y: 40, Label: `web <"a" & 'b'>`},
			{ID: 11, Kind: "TextBox", X: 450, Y: -8, Label: "note"},
			{ID: 12, Kind: "NATGW", X: 100, Y: 40, Label: "NAT"},
			{ID: 13, Kind: "SingleSignOn", X: 100, Y: 140, Label: "SSO"},
			{ID: 14, Kind: "Users", X: 100.5, Y: 240, Label: "users"},
		},
		Edges: []diagram.Edge{
			{ID: 20, From: 10, To: 12},
			{ID: 21, From: 14, To: 1},
		},
	}
}

func TestModelRoundTrip(t *testing.T) {
	d := sampleDiagram()
	parsed, err := Parse(Encode(BuildModel(d, PrefixedID)))
	require.NoError(t, err)

	require.Len(t, parsed.Frames, len(d.Frames))
	for i, f := range d.Frames {
		got := parsed.Frames[i]
		assert.Equal(t, f.Kind, got.Kind, "frame %d", f.ID)
		assert.Equal(t, PrefixedID(f.ID), got.OriginalID)
		assert.Equal(t, f.Width, got.Width)
		assert.Equal(t, f.Height, got.Height)
	}
	assert.Equal(t, "main", parsed.Frames[0].Label)
	assert.Equal(t, "PublicSubnet", parsed.Frames[1].Label, "label falls back to the kind")

	require.Len(t, parsed.Nodes, len(d.Nodes))
	for i, n := range d.Nodes {
		got := parsed.Nodes[i]
		assert.Equal(t, n.Kind, got.Kind, "node %d", n.ID)
		assert.Equal(t, n.X, got.X)
		assert.Equal(t, n.Y, got.Y)
		assert.Equal(t, n.Label, got.Label)
	}

	require.Len(t, parsed.Edges, 2)
	assert.Equal(t, EdgeDraft{OriginalID: PrefixedID(20), From: PrefixedID(10), To: PrefixedID(12)}, parsed.Edges[0])
}

func TestFileRoundTrip(t *testing.T) {
	d := sampleDiagram()
	file := BuildFile(d)
	assert.True(t, strings.HasPrefix(file, `<mxfile host="app.diagrams.net" version="28.2.5">`))
	assert.True(t, strings.HasSuffix(file, "</mxfile>"))

	parsed, err := Parse(file)
	require.NoError(t, err)
	assert.Len(t, parsed.Frames, 6)
	assert.Len(t, parsed.Nodes, 5)
	assert.Len(t, parsed.Edges, 2)
}

func TestEmptyFileParses(t *testing.T) {
	parsed, err := Parse(BuildFile(&diagram.Diagram{}))
	require.NoError(t, err)
	assert.True(t, parsed.Empty())
}

func TestParsedDiagramRemapsEdges(t *testing.T) {
	parsed, err := Parse(BuildModel(sampleDiagram(), PrefixedID))
	require.NoError(t, err)

	d := parsed.Diagram()
	// nodes 1..5, frames 6..11, edges 12..13
	assert.Equal(t, 1, d.Nodes[0].ID)
	assert.Equal(t, 6, d.Frames[0].ID)
	assert.Equal(t, diagram.Edge{ID: 12, From: 1, To: 3}, d.Edges[0])
	assert.Equal(t, diagram.Edge{ID: 13, From: 5, To: 6}, d.Edges[1])
}

func TestExportSelection(t *testing.T) {
	d := sampleDiagram()
	text, ok := ExportSelection(d, Selection{
		Nodes:  []int{10, 12, 14},
		Frames: []int{2},
		Edges:  []int{21},
	})
	require.True(t, ok)

	xml, ok := Decode(text)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(xml, `<mxGraphModel><root><mxCell id="0"/><mxCell id="1" parent="0"/>`))

	parsed, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, parsed.Frames, 1)
	assert.Equal(t, "ConvertFrom_YuruAws-1001", parsed.Frames[0].OriginalID)
	require.Len(t, parsed.Nodes, 3)
	assert.Equal(t, "ConvertFrom_YuruAws-1002", parsed.Nodes[0].OriginalID)
	assert.Equal(t, "ConvertFrom_YuruAws-1004", parsed.Nodes[2].OriginalID)

	// Edge 20 joins two copied nodes. Edge 21 is selected but frame 1 is not copied.
	require.Len(t, parsed.Edges, 1)
	assert.Equal(t, EdgeDraft{
		OriginalID: "ConvertFrom_YuruAws-1005",
		From:       "ConvertFrom_YuruAws-1002",
		To:         "ConvertFrom_YuruAws-1003",
	}, parsed.Edges[0])
}

func TestExportEmptySelection(t *testing.T) {
	_, ok := ExportSelection(sampleDiagram(), Selection{Edges: []int{21}})
	assert.False(t, ok)
}

func TestDecode(t *testing.T) {
	model := `<mxGraphModel><root></root></mxGraphModel>`
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"raw", "  " + model + "\n", model, true},
		{"encoded", Encode(model), model, true},
		{"mxfile", "<mxfile></mxfile>", "<mxfile></mxfile>", true},
		{"empty", "   ", "", false},
		{"plain text", "hello world", "", false},
		{"bad escape", "%E0%A4%A", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejectsNonModels(t *testing.T) {
	_, err := Parse("just some text")
	assert.ErrorIs(t, err, ErrNotDrawio)

	_, err = Parse("<mxGraphModel><root><mxCell id=")
	assert.ErrorIs(t, err, ErrNotDrawio)
}

func TestParseDefaultsAndFiltering(t *testing.T) {
	xml := `<mxGraphModel><root>
<mxCell id="0"/><mxCell id="1" parent="0"/>
<mxCell id="a" vertex="1" style="shape=mxgraph.aws4.resourceIcon;resIcon=mxgraph.aws4.s3;"><mxGeometry x="oops" as="geometry"/></mxCell>
<mxCell id="b" vertex="1" value="box" style="container=1;"><mxGeometry x="5" y="6" as="geometry"/></mxCell>
<mxCell id="c" vertex="1" style="rounded=1;"/>
<mxCell id="e1" edge="1" source="a" target="b"/>
<mxCell id="e2" edge="1" source="a" target="zzz"/>
<mxCell id="e3" edge="1" source="a"/>
</root></mxGraphModel>`

	parsed, err := Parse(xml)
	require.NoError(t, err)

	require.Len(t, parsed.Nodes, 2)
	assert.Equal(t, NodeDraft{OriginalID: "a", Kind: "S3"}, parsed.Nodes[0])
	assert.Equal(t, diagram.KindOtherService, parsed.Nodes[1].Kind)

	require.Len(t, parsed.Frames, 1)
	assert.Equal(t, FrameDraft{OriginalID: "b", Kind: "GeneralGroup", X: 5, Y: 6, Width: 48, Height: 48, Label: "box"}, parsed.Frames[0])

	require.Len(t, parsed.Edges, 1)
	assert.Equal(t, "e1", parsed.Edges[0].OriginalID)
}

func TestSecurityGroupFillSelectsSubnet(t *testing.T) {
	tests := map[string]string{
		"#E6F6F7": "PrivateSubnet",
		"#f2f6e8": "PublicSubnet",
		"#123456": "PublicSubnet",
	}
	for fill, want := range tests {
		style := parseStyle("grIcon=mxgraph.aws4.group_security_group;fillColor=" + fill)
		assert.Equal(t, want, frameKind(style), fill)
	}
}

func TestElementStyles(t *testing.T) {
	ec2 := elementStyles["EC2"].String()
	assert.Contains(t, ec2, pointsStyle)
	assert.Contains(t, ec2, "fillColor=#F58536;strokeColor=#ffffff;")
	assert.Contains(t, ec2, "shape=mxgraph.aws4.resourceIcon;resIcon=mxgraph.aws4.ec2;")
	assert.NotContains(t, ec2, "pointerEvents=1")

	mobile := elementStyles["Mobile"].String()
	assert.True(t, strings.HasPrefix(mobile, "sketch=0;outlineConnect=0;"))
	assert.Contains(t, mobile, "fillColor=#ffffff;strokeColor=#232F3E;")

	nat := elementStyles["NATGW"].String()
	assert.Contains(t, nat, "strokeColor=none;")
	assert.Contains(t, nat, "pointerEvents=1;shape=mxgraph.aws4.nat_gateway;")

	w, h := elementStyles["Disk"].size()
	assert.Equal(t, []float64{59, 78}, []float64{w, h})
	assert.Equal(t, "Storage", nodeKindsByShape["mxgraph.aws4.generic_database"])
}

func TestFrameStyles(t *testing.T) {
	assert.Contains(t, frameStyle("Region"), "grIcon=mxgraph.aws4.group_region;strokeColor=#00A4A6;fillColor=none;verticalAlign=top;align=left;spacingLeft=30;fontColor=#147EBA;dashed=1;")
	assert.Contains(t, frameStyle("AZ"), "align=center;spacingLeft=0;")
	assert.NotContains(t, frameStyle("AZ"), "grIcon")
	assert.Contains(t, frameStyle("Unknown"), "grIcon=mxgraph.aws4.group_generic;")
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "%3Ca%20b%3D'c'%2F%3E", Encode("<a b='c'/>"))
	assert.Equal(t, "%E3%81%82", Encode("あ"))
	assert.Equal(t, "AZaz09-_.!~*'()", Encode("AZaz09-_.!~*'()"))
}
