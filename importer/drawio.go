package importer

import (
	"fmt"

	"archdraw/diagram"
	"archdraw/drawio"
	"archdraw/registry"
)

// DrawioImporter reads draw.io documents, either a bare mxGraphModel, a
// whole mxfile or their percent-encoded clipboard form.
type DrawioImporter struct {
	sanitizer *registry.Sanitizer
}

// NewDrawioImporter creates a new draw.io importer
func NewDrawioImporter(s *registry.Sanitizer) *DrawioImporter {
	return &DrawioImporter{sanitizer: s}
}

// CanImport checks if the content holds a draw.io model
func (d *DrawioImporter) CanImport(content string) bool {
	_, ok := drawio.Decode(content)
	return ok
}

// Import parses the model and numbers the cells 1..n. Unknown shapes fall
// back to the generic kinds and labels get their catalogue defaults.
func (d *DrawioImporter) Import(content string) (*diagram.Diagram, error) {
	parsed, err := drawio.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse drawio: %w", err)
	}
	out := parsed.Diagram()
	for i, n := range out.Nodes {
		out.Nodes[i] = d.sanitizer.NormalizeNode(n)
	}
	for i, f := range out.Frames {
		out.Frames[i] = d.sanitizer.NormalizeFrame(f)
	}
	diagram.PruneDanglingEdges(out)
	return out, nil
}

// GetFormatName returns the format name
func (d *DrawioImporter) GetFormatName() string {
	return "drawio"
}

// GetFileExtensions returns common file extensions
func (d *DrawioImporter) GetFileExtensions() []string {
	return []string{".drawio", ".xml"}
}
