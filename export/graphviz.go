package export

import (
	"fmt"
	"strings"

	"archdraw/diagram"
)

// GraphvizExporter exports diagrams to Graphviz DOT syntax. Frames become
// clusters; an edge ending on a frame is drawn to an invisible anchor
// inside the cluster and clipped at the cluster border.
type GraphvizExporter struct{}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{}
}

// Export converts the diagram to Graphviz DOT syntax
func (e *GraphvizExporter) Export(d *diagram.Diagram) (string, error) {
	if err := requireDiagram(d); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  compound=true;\n")
	sb.WriteString("  node [shape=box, style=rounded];\n")
	sb.WriteString("  edge [arrowhead=normal];\n")

	n := buildNesting(d)
	if len(d.Nodes) > 0 || len(d.Frames) > 0 {
		sb.WriteString("\n")
	}
	e.writeLevel(&sb, d, n, 0, 1)

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
		from, to := e.endpoint(d, edge.From), e.endpoint(d, edge.To)
		var attrs []string
		if d.FrameIndex(edge.From) >= 0 {
			attrs = append(attrs, "ltail="+e.clusterID(edge.From))
		}
		if d.FrameIndex(edge.To) >= 0 {
			attrs = append(attrs, "lhead="+e.clusterID(edge.To))
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&sb, "  %s -> %s [%s];\n", from, to, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&sb, "  %s -> %s;\n", from, to)
		}
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

func (e *GraphvizExporter) writeLevel(sb *strings.Builder, d *diagram.Diagram, n *nesting, parent, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, id := range n.frameKids[parent] {
		f := d.Frames[d.FrameIndex(id)]
		fmt.Fprintf(sb, "%ssubgraph %s {\n", indent, e.clusterID(id))
		fmt.Fprintf(sb, "%s  label=\"%s\";\n", indent, e.escapeLabel(labelOf(f.Label, f.Kind)))
		fmt.Fprintf(sb, "%s  style=dashed;\n", indent)
		fmt.Fprintf(sb, "%s  %s [shape=point, style=invis];\n", indent, e.endpoint(d, id))
		e.writeLevel(sb, d, n, id, depth+1)
		fmt.Fprintf(sb, "%s}\n", indent)
	}
	for _, id := range n.nodeKids[parent] {
		node := d.Nodes[d.NodeIndex(id)]
		label := e.escapeLabel(labelOf(node.Label, node.Kind))
		if node.Kind == diagram.KindTextBox {
			fmt.Fprintf(sb, "%s%s [label=\"%s\", shape=plaintext];\n", indent, e.endpoint(d, id), label)
			continue
		}
		fmt.Fprintf(sb, "%s%s [label=\"%s\"];\n", indent, e.endpoint(d, id), label)
	}
}

// endpoint returns the DOT node an edge attaches to for element id.
func (e *GraphvizExporter) endpoint(d *diagram.Diagram, id int) string {
	if d.FrameIndex(id) >= 0 {
		return fmt.Sprintf("f%d_anchor", id)
	}
	return elementName(d, id)
}

func (e *GraphvizExporter) clusterID(id int) string {
	return fmt.Sprintf("cluster_f%d", id)
}

// escapeLabel escapes special characters in labels
func (e *GraphvizExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	return strings.ReplaceAll(label, "\n", `\n`)
}

// GetFileExtension returns the recommended file extension
func (e *GraphvizExporter) GetFileExtension() string {
	return ".dot"
}

// GetFormatName returns the format name
func (e *GraphvizExporter) GetFormatName() string {
	return "Graphviz"
}
