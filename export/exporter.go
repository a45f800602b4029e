// Package export renders a diagram snapshot to file formats: the native
// JSON snapshot, a draw.io document, terminal art and three diagram-as-code
// dialects.
package export

import (
	"errors"
	"fmt"
	"strings"

	"archdraw/catalog"
	"archdraw/diagram"
)

// Format represents an export format
type Format string

const (
	FormatJSON     Format = "json"
	FormatDrawio   Format = "drawio"
	FormatASCII    Format = "ascii"
	FormatMermaid  Format = "mermaid"
	FormatD2       Format = "d2"
	FormatGraphviz Format = "dot"
)

// ErrUnknownFormat is returned for a format name no exporter handles.
var ErrUnknownFormat = errors.New("unknown export format")

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a diagram to the target format
	Export(d *diagram.Diagram) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format. Exporters that
// need catalogue data use the built-in AWS table.
func NewExporter(format Format) (Exporter, error) {
	return NewExporterWithCatalog(format, catalog.Default())
}

// NewExporterWithCatalog is NewExporter with an explicit catalogue.
func NewExporterWithCatalog(format Format, c *catalog.Table) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatDrawio:
		return NewDrawioExporter(), nil
	case FormatASCII:
		return NewASCIIExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(c), nil
	case FormatD2:
		return NewD2Exporter(c), nil
	case FormatGraphviz:
		return NewGraphvizExporter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// ParseFormat converts a format name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "json":
		return FormatJSON, nil
	case "drawio", "xml":
		return FormatDrawio, nil
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "d2":
		return FormatD2, nil
	case "dot", "gv", "graphviz":
		return FormatGraphviz, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{FormatJSON, FormatDrawio, FormatASCII, FormatMermaid, FormatD2, FormatGraphviz}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatJSON:     "archdraw snapshot (nodes, frames, edges, drawings)",
		FormatDrawio:   "draw.io document with AWS shapes",
		FormatASCII:    "Unicode box art for terminals",
		FormatMermaid:  "Mermaid flowchart, frames as subgraphs",
		FormatD2:       "D2 with frames as containers",
		FormatGraphviz: "Graphviz DOT with frames as clusters",
	}
}

func requireDiagram(d *diagram.Diagram) error {
	if d == nil {
		return errors.New("diagram is nil")
	}
	return nil
}
