package aigen

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"archdraw/diagram"
	"archdraw/registry"
)

var (
	// ErrNoJSON is returned when a response holds no parseable JSON object.
	ErrNoJSON = errors.New("response contains no diagram JSON")

	// ErrEmptyDiagram is returned when the JSON parsed but no entity survived
	// sanitisation.
	ErrEmptyDiagram = errors.New("response did not include any diagram elements")
)

// Model name marker and the text box announcing it.
var modelMarker = regexp.MustCompile(`MODELID-(.*?)-MODELID`)

const (
	ModelLabelPrefix = "今回の基盤モデル： "
	modelNoteX       = 450
	modelNoteY       = -8
)

var unescaper = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\"`, `"`)

// Result is a sanitised diagram recovered from a response.
type Result struct {
	Diagram *diagram.Diagram
	Model   string
}

// ExtractJSON strips the model marker, keeps the text from the first '{' to
// the last '}' and undoes common escaping. It returns the JSON text and the
// model name, if any.
func ExtractJSON(raw string) (string, string) {
	var model string
	text := raw
	if m := modelMarker.FindStringSubmatchIndex(raw); m != nil {
		model = raw[m[2]:m[3]]
		text = raw[:m[0]] + raw[m[1]:]
	}
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first != -1 && last != -1 && first <= last {
		text = text[first : last+1]
	}
	return unescaper.Replace(text), model
}

// ParseResponse extracts, decodes and sanitises a diagram from raw response
// text. When the response names its model, a TextBox with id 0 announcing
// it is prepended; the store renumbers it on load.
func ParseResponse(raw string, s *registry.Sanitizer) (*Result, error) {
	if s == nil {
		s = registry.NewSanitizer(nil, 0, 0)
	}
	text, model := ExtractJSON(raw)

	var payload any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}

	d := s.SanitizeDocument(payload)
	if d.IsEmpty() {
		return nil, ErrEmptyDiagram
	}
	if model != "" {
		note := diagram.Node{
			ID:    0,
			Kind:  diagram.KindTextBox,
			X:     modelNoteX,
			Y:     modelNoteY,
			Label: ModelLabelPrefix + model,
		}
		d.Nodes = append([]diagram.Node{note}, d.Nodes...)
	}
	return &Result{Diagram: d, Model: model}, nil
}
