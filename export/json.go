package export

import (
	"encoding/json"
	"fmt"

	"archdraw/diagram"
	"archdraw/geometry"
)

// JSONExporter writes the native snapshot: nodes, frames and edges always
// present as arrays, freehand drawings when there are any. Node and frame
// geometry is rounded to whole units.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a diagram to JSON
func (e *JSONExporter) Export(d *diagram.Diagram) (string, error) {
	if err := requireDiagram(d); err != nil {
		return "", err
	}
	out := d.Clone()
	if out.Nodes == nil {
		out.Nodes = []diagram.Node{}
	}
	if out.Frames == nil {
		out.Frames = []diagram.Frame{}
	}
	if out.Edges == nil {
		out.Edges = []diagram.Edge{}
	}
	for i := range out.Nodes {
		n := &out.Nodes[i]
		n.X, n.Y = geometry.Round(n.X), geometry.Round(n.Y)
	}
	for i := range out.Frames {
		f := &out.Frames[i]
		f.X, f.Y = geometry.Round(f.X), geometry.Round(f.Y)
		f.Width, f.Height = geometry.Round(f.Width), geometry.Round(f.Height)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(data) + "\n", nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
