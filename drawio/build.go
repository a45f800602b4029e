// Package drawio converts diagrams to and from the draw.io (mxGraph) XML
// dialect used for clipboard exchange and .drawio export.
package drawio

import (
	"strconv"
	"strings"

	"archdraw/diagram"
	"archdraw/geometry"
)

const iconSize = diagram.NodeWidth

// IDPrefix marks cell ids written by this package.
const IDPrefix = "ConvertFrom_YuruAws-"

// ClipboardIDStart is the first scratch id handed out when a selection is
// copied.
const ClipboardIDStart = 1001

// IDFormatter turns an entity id into a cell id.
type IDFormatter func(id int) string

// PrefixedID is the IDFormatter used for clipboard and file export.
func PrefixedID(id int) string {
	return IDPrefix + strconv.Itoa(id)
}

// layout controls whitespace so one set of cell writers serves both the
// compact clipboard model and the indented file.
type layout struct {
	cell, child, grandchild string
	nl                      string
	selfClose               string
	join                    string
}

var (
	compactLayout = layout{selfClose: "/>"}
	fileLayout    = layout{
		cell:       "        ",
		child:      "          ",
		grandchild: "            ",
		nl:         "\n",
		selfClose:  " />",
		join:       "\n",
	}
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func num(v float64) string {
	return geometry.FormatNumber(v)
}

func labelOr(label, kind string) string {
	if label != "" {
		return label
	}
	return kind
}

func writeVertex(b *strings.Builder, l layout, id, value, style string, r geometry.Rect) {
	b.WriteString(l.cell)
	b.WriteString(`<mxCell id="` + id + `" value="` + xmlEscaper.Replace(value) + `" style="` + style + `" vertex="1" parent="1">`)
	b.WriteString(l.nl + l.child)
	b.WriteString(`<mxGeometry x="` + num(r.X) + `" y="` + num(r.Y) + `" width="` + num(r.Width) + `" height="` + num(r.Height) + `" as="geometry"` + l.selfClose)
	b.WriteString(l.nl + l.cell + "</mxCell>")
}

func writeNode(b *strings.Builder, l layout, n diagram.Node, format IDFormatter) {
	style, w, h := fallbackNodeStyle, float64(iconSize), float64(iconSize)
	if e, ok := elementStyles[n.Kind]; ok {
		style = e.String()
		w, h = e.size()
	}
	writeVertex(b, l, format(n.ID), labelOr(n.Label, n.Kind), style,
		geometry.Rect{X: n.X, Y: n.Y, Width: w, Height: h})
}

func writeFrame(b *strings.Builder, l layout, f diagram.Frame, format IDFormatter) {
	writeVertex(b, l, format(f.ID), labelOr(f.Label, f.Kind), frameStyle(f.Kind), f.Bounds())
}

func writeEdge(b *strings.Builder, l layout, e diagram.Edge, format IDFormatter) {
	b.WriteString(l.cell)
	b.WriteString(`<mxCell id="` + format(e.ID) + `" value="" style="` + edgeStyle + `" edge="1" parent="1" source="` + format(e.From) + `" target="` + format(e.To) + `">`)
	b.WriteString(l.nl + l.child + `<mxGeometry width="100" relative="1" as="geometry">`)
	b.WriteString(l.nl + l.grandchild + `<mxPoint x="0" y="0" as="sourcePoint"` + l.selfClose)
	b.WriteString(l.nl + l.grandchild + `<mxPoint x="100" y="0" as="targetPoint"` + l.selfClose)
	b.WriteString(l.nl + l.child + "</mxGeometry>")
	b.WriteString(l.nl + l.cell + "</mxCell>")
}

// writeCells emits frames first so draw.io stacks them beneath the icons.
func writeCells(b *strings.Builder, l layout, d *diagram.Diagram, format IDFormatter) {
	first := true
	sep := func() {
		if !first {
			b.WriteString(l.join)
		}
		first = false
	}
	for _, f := range d.Frames {
		sep()
		writeFrame(b, l, f, format)
	}
	for _, n := range d.Nodes {
		sep()
		writeNode(b, l, n, format)
	}
	for _, e := range d.Edges {
		sep()
		writeEdge(b, l, e, format)
	}
}

// BuildModel renders a bare mxGraphModel, the form draw.io places on the
// clipboard. A nil format writes plain numeric ids.
func BuildModel(d *diagram.Diagram, format IDFormatter) string {
	if format == nil {
		format = strconv.Itoa
	}
	var b strings.Builder
	b.WriteString(`<mxGraphModel><root><mxCell id="0"/><mxCell id="1" parent="0"/>`)
	writeCells(&b, compactLayout, d, format)
	b.WriteString(`</root></mxGraphModel>`)
	return b.String()
}

const fileHeader = `<mxfile host="app.diagrams.net" version="28.2.5">
  <diagram name="AWS Diagram" id="aws-diagram">
    <mxGraphModel dx="892" dy="678" grid="1" gridSize="10" guides="1" tooltips="1" connect="1" arrows="1" fold="1" page="1" pageScale="1" pageWidth="827" pageHeight="1169" math="0" shadow="0">
      <root>
        <mxCell id="0" />
        <mxCell id="1" parent="0" />`

const fileFooter = `      </root>
    </mxGraphModel>
  </diagram>
</mxfile>`

// BuildFile renders a complete .drawio document.
func BuildFile(d *diagram.Diagram) string {
	var b strings.Builder
	b.WriteString(fileHeader)
	b.WriteString("\n")
	if len(d.Frames)+len(d.Nodes)+len(d.Edges) > 0 {
		writeCells(&b, fileLayout, d, PrefixedID)
		b.WriteString("\n")
	}
	b.WriteString(fileFooter)
	return b.String()
}

// Encode percent-encodes xml the way draw.io expects clipboard text: every
// byte except letters, digits and -_.!~*'() is escaped.
func Encode(xml string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(xml) * 2)
	for i := 0; i < len(xml); i++ {
		c := xml[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// Selection names the entities to copy.
type Selection struct {
	Nodes  []int
	Frames []int
	Edges  []int
}

// ExportSelection builds the encoded clipboard text for sel. Edges are
// included when explicitly selected or when both endpoints are selected,
// and only when both endpoints are part of the copy. Ids are renumbered
// from ClipboardIDStart in the order frames, nodes, edges. It returns false
// when nothing would be copied.
func ExportSelection(d *diagram.Diagram, sel Selection) (string, bool) {
	nodeSet := toSet(sel.Nodes)
	frameSet := toSet(sel.Frames)
	edgeSet := toSet(sel.Edges)

	out := &diagram.Diagram{}
	remap := make(map[int]int)
	next := ClipboardIDStart
	for _, f := range d.Frames {
		if frameSet[f.ID] {
			remap[f.ID] = next
			f.ID = next
			next++
			out.Frames = append(out.Frames, f)
		}
	}
	for _, n := range d.Nodes {
		if nodeSet[n.ID] {
			remap[n.ID] = next
			n.ID = next
			next++
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, e := range d.Edges {
		bothEnds := (nodeSet[e.From] || frameSet[e.From]) && (nodeSet[e.To] || frameSet[e.To])
		if !edgeSet[e.ID] && !bothEnds {
			continue
		}
		from, okFrom := remap[e.From]
		to, okTo := remap[e.To]
		if !okFrom || !okTo {
			continue
		}
		out.Edges = append(out.Edges, diagram.Edge{ID: next, From: from, To: to})
		next++
	}

	if out.IsEmpty() {
		return "", false
	}
	return Encode(BuildModel(out, PrefixedID)), true
}

func toSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
