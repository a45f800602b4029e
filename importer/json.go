package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"archdraw/diagram"
	"archdraw/registry"
)

// JSONImporter reads the native snapshot format. Entities that fail the
// sanitizer are dropped, as are drawings with fewer than two points.
type JSONImporter struct {
	sanitizer *registry.Sanitizer
}

// NewJSONImporter creates a new JSON importer
func NewJSONImporter(s *registry.Sanitizer) *JSONImporter {
	return &JSONImporter{sanitizer: s}
}

// CanImport checks if the content is a JSON object
func (j *JSONImporter) CanImport(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "{")
}

// Import decodes and sanitizes a snapshot. Only content that is not JSON
// at all is an error; a JSON value of the wrong shape yields an empty
// diagram.
func (j *JSONImporter) Import(content string) (*diagram.Diagram, error) {
	var raw any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	d := j.sanitizer.SanitizeDocument(raw)
	d.Strokes = j.strokes(content)
	return d, nil
}

// strokes decodes the optional drawings array one entry at a time so a
// single bad stroke does not discard the rest.
func (j *JSONImporter) strokes(content string) []diagram.Stroke {
	var doc struct {
		Drawings []json.RawMessage `json:"drawings"`
	}
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil
	}
	var out []diagram.Stroke
	for _, msg := range doc.Drawings {
		var s diagram.Stroke
		if err := json.Unmarshal(msg, &s); err != nil || len(s.Points) < 2 {
			continue
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.Color == "" {
			s.Color = diagram.PenBlack
		}
		if s.Width <= 0 {
			s.Width = diagram.PenStrokeWidth
		}
		out = append(out, s)
	}
	return out
}

// GetFormatName returns the format name
func (j *JSONImporter) GetFormatName() string {
	return "JSON"
}

// GetFileExtensions returns common file extensions
func (j *JSONImporter) GetFileExtensions() []string {
	return []string{".json"}
}
