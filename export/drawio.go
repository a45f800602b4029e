package export

import (
	"archdraw/diagram"
	"archdraw/drawio"
)

// DrawioExporter writes a standalone draw.io document.
type DrawioExporter struct{}

// NewDrawioExporter creates a new draw.io exporter
func NewDrawioExporter() *DrawioExporter {
	return &DrawioExporter{}
}

// Export converts the diagram to an mxfile document
func (e *DrawioExporter) Export(d *diagram.Diagram) (string, error) {
	if err := requireDiagram(d); err != nil {
		return "", err
	}
	return drawio.BuildFile(d), nil
}

// GetFileExtension returns the recommended file extension
func (e *DrawioExporter) GetFileExtension() string {
	return ".drawio"
}

// GetFormatName returns the format name
func (e *DrawioExporter) GetFormatName() string {
	return "draw.io"
}
