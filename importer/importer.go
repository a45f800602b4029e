// Package importer reads diagram files into sanitized snapshots. Every
// importer runs its entities through the registry sanitizer, so the result
// is safe to hand to the store as a Load.
package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"archdraw/diagram"
	"archdraw/registry"
)

// ErrUnknownFormat is returned when no importer accepts the content or the
// requested format name.
var ErrUnknownFormat = errors.New("unknown import format")

// Importer interface defines methods for importing diagrams from various formats
type Importer interface {
	// CanImport checks if the given content can be imported by this importer
	CanImport(content string) bool

	// Import converts the input content into a sanitized diagram
	Import(content string) (*diagram.Diagram, error)

	// GetFormatName returns the human-readable name of the format
	GetFormatName() string

	// GetFileExtensions returns common file extensions for this format
	GetFileExtensions() []string
}

// ImporterRegistry manages available importers
type ImporterRegistry struct {
	importers []Importer
}

// NewImporterRegistry creates a registry with the JSON and draw.io
// importers, both sanitizing through s.
func NewImporterRegistry(s *registry.Sanitizer) *ImporterRegistry {
	if s == nil {
		s = registry.NewSanitizer(nil, 0, 0)
	}
	return &ImporterRegistry{
		importers: []Importer{
			NewJSONImporter(s),
			NewDrawioImporter(s),
		},
	}
}

// Register adds a new importer to the registry
func (r *ImporterRegistry) Register(importer Importer) {
	r.importers = append(r.importers, importer)
}

// DetectFormat attempts to detect the format of the given content
func (r *ImporterRegistry) DetectFormat(content string) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("%w: unable to detect format", ErrUnknownFormat)
}

// Import attempts to import content using auto-detection
func (r *ImporterRegistry) Import(content string) (*diagram.Diagram, error) {
	importer, err := r.DetectFormat(content)
	if err != nil {
		return nil, err
	}
	return importer.Import(content)
}

// ImportWithFormat imports content using a specific format
func (r *ImporterRegistry) ImportWithFormat(content, format string) (*diagram.Diagram, error) {
	format = strings.ToLower(format)

	for _, imp := range r.importers {
		if strings.ToLower(imp.GetFormatName()) == format {
			return imp.Import(content)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// ImportFile imports content read from path. The file extension picks the
// importer when one claims it; otherwise the content is sniffed.
func (r *ImporterRegistry) ImportFile(path, content string) (*diagram.Diagram, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, imp := range r.importers {
		for _, e := range imp.GetFileExtensions() {
			if e == ext && imp.CanImport(content) {
				return imp.Import(content)
			}
		}
	}
	return r.Import(content)
}

// GetAvailableFormats returns a list of available import formats
func (r *ImporterRegistry) GetAvailableFormats() []string {
	formats := make([]string, len(r.importers))
	for i, imp := range r.importers {
		formats[i] = imp.GetFormatName()
	}
	return formats
}
