package export

import (
	"fmt"
	"slices"
	"strings"

	"archdraw/catalog"
	"archdraw/diagram"
)

// MermaidExporter exports diagrams to a Mermaid flowchart. Frames become
// subgraphs, nested by geometric containment.
type MermaidExporter struct {
	catalog *catalog.Table
}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter(c *catalog.Table) *MermaidExporter {
	return &MermaidExporter{catalog: c}
}

// Export converts the diagram to Mermaid syntax
func (e *MermaidExporter) Export(d *diagram.Diagram) (string, error) {
	if err := requireDiagram(d); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("flowchart LR\n")
	e.writeLevel(&sb, d, buildNesting(d), 0, 1)

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
		fmt.Fprintf(&sb, "    %s --> %s\n", elementName(d, edge.From), elementName(d, edge.To))
	}

	e.writeClasses(&sb, d)
	return sb.String(), nil
}

// writeLevel writes the children of frame parent (0 = top level).
func (e *MermaidExporter) writeLevel(sb *strings.Builder, d *diagram.Diagram, n *nesting, parent, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, id := range n.frameKids[parent] {
		f := d.Frames[d.FrameIndex(id)]
		fmt.Fprintf(sb, "%ssubgraph %s[\"%s\"]\n", indent, elementName(d, id), e.escapeLabel(labelOf(f.Label, f.Kind)))
		e.writeLevel(sb, d, n, id, depth+1)
		fmt.Fprintf(sb, "%send\n", indent)
	}
	for _, id := range n.nodeKids[parent] {
		node := d.Nodes[d.NodeIndex(id)]
		label := e.escapeLabel(labelOf(node.Label, node.Kind))
		if node.Kind == diagram.KindTextBox {
			fmt.Fprintf(sb, "%s%s>\"%s\"]\n", indent, elementName(d, id), label)
			continue
		}
		fmt.Fprintf(sb, "%s%s[\"%s\"]\n", indent, elementName(d, id), label)
	}
}

// writeClasses colors node borders with their catalogue color.
func (e *MermaidExporter) writeClasses(sb *strings.Builder, d *diagram.Diagram) {
	members := make(map[string][]string)
	for _, node := range d.Nodes {
		s, ok := e.catalog.Lookup(node.Kind)
		if !ok || s.Color == "" {
			continue
		}
		class := "c" + strings.TrimPrefix(s.Color, "#")
		members[class] = append(members[class], elementName(d, node.ID))
	}
	if len(members) == 0 {
		return
	}
	classes := make([]string, 0, len(members))
	for class := range members {
		classes = append(classes, class)
	}
	slices.Sort(classes)

	sb.WriteString("\n")
	for _, class := range classes {
		fmt.Fprintf(sb, "    classDef %s stroke:#%s\n", class, strings.TrimPrefix(class, "c"))
	}
	for _, class := range classes {
		fmt.Fprintf(sb, "    class %s %s\n", strings.Join(members[class], ","), class)
	}
}

// escapeLabel makes a label safe inside a quoted Mermaid string.
func (e *MermaidExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, "#quot;")
	return strings.ReplaceAll(label, "\n", "<br>")
}

// GetFileExtension returns the recommended file extension
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}

// labelOf returns the label, or the kind when it is blank.
func labelOf(label, kind string) string {
	if strings.TrimSpace(label) == "" {
		return kind
	}
	return label
}
