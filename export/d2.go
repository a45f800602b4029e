package export

import (
	"fmt"
	"strings"

	"archdraw/catalog"
	"archdraw/diagram"
)

// D2Exporter exports diagrams to D2 syntax. Frames become containers and
// edges address their endpoints by container path.
type D2Exporter struct {
	catalog *catalog.Table
}

// NewD2Exporter creates a new D2 exporter
func NewD2Exporter(c *catalog.Table) *D2Exporter {
	return &D2Exporter{catalog: c}
}

// Export converts the diagram to D2 syntax
func (e *D2Exporter) Export(d *diagram.Diagram) (string, error) {
	if err := requireDiagram(d); err != nil {
		return "", err
	}

	var sb strings.Builder
	n := buildNesting(d)
	e.writeLevel(&sb, d, n, 0, 0)

	if len(d.Edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range d.Edges {
		if _, ok := d.Element(edge.From); !ok {
			continue
		}
		if _, ok := d.Element(edge.To); !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s -> %s\n", e.path(d, n, edge.From), e.path(d, n, edge.To))
	}
	return sb.String(), nil
}

func (e *D2Exporter) writeLevel(sb *strings.Builder, d *diagram.Diagram, n *nesting, parent, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, id := range n.frameKids[parent] {
		f := d.Frames[d.FrameIndex(id)]
		name := elementName(d, id)
		fmt.Fprintf(sb, "%s%s: %s {\n", indent, name, e.escapeLabel(labelOf(f.Label, f.Kind)))
		fmt.Fprintf(sb, "%s  style.stroke-dash: 3\n", indent)
		if color := e.color(f.Kind); color != "" {
			fmt.Fprintf(sb, "%s  style.stroke: \"%s\"\n", indent, color)
		}
		e.writeLevel(sb, d, n, id, depth+1)
		fmt.Fprintf(sb, "%s}\n", indent)
	}
	for _, id := range n.nodeKids[parent] {
		node := d.Nodes[d.NodeIndex(id)]
		name := elementName(d, id)
		fmt.Fprintf(sb, "%s%s: %s\n", indent, name, e.escapeLabel(labelOf(node.Label, node.Kind)))
		if node.Kind == diagram.KindTextBox {
			fmt.Fprintf(sb, "%s%s.shape: text\n", indent, name)
			continue
		}
		if color := e.color(node.Kind); color != "" {
			fmt.Fprintf(sb, "%s%s.style.stroke: \"%s\"\n", indent, name, color)
		}
	}
}

// path returns the dotted container path of an element.
func (e *D2Exporter) path(d *diagram.Diagram, n *nesting, id int) string {
	var parts []string
	for _, p := range n.ancestors(id) {
		parts = append(parts, elementName(d, p))
	}
	return strings.Join(append(parts, elementName(d, id)), ".")
}

func (e *D2Exporter) color(kind string) string {
	if s, ok := e.catalog.Lookup(kind); ok {
		return s.Color
	}
	return ""
}

// escapeLabel quotes labels containing characters the D2 parser treats
// specially.
func (e *D2Exporter) escapeLabel(label string) string {
	if !strings.ContainsAny(label, ":-><|{}[]()\"'#;.&*\\\n") && label == strings.TrimSpace(label) {
		return label
	}
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	label = strings.ReplaceAll(label, "\n", `\n`)
	return `"` + label + `"`
}

// GetFileExtension returns the recommended file extension
func (e *D2Exporter) GetFileExtension() string {
	return ".d2"
}

// GetFormatName returns the format name
func (e *D2Exporter) GetFormatName() string {
	return "D2"
}
