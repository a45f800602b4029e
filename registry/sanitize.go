package registry

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"archdraw/catalog"
	"archdraw/diagram"
	"archdraw/geometry"
)

// FrameFallbackKind replaces unknown frame kinds.
const FrameFallbackKind = "GeneralGroup"

// Sanitizer converts untrusted decoded JSON (file import, AI response,
// clipboard) into well-formed entities. Invalid entries are dropped and
// garbage input yields empty results; it never fails.
type Sanitizer struct {
	catalog   catalog.Catalog
	minWidth  float64
	minHeight float64
}

// NewSanitizer creates a sanitizer using c for kind validation and the
// given frame minimums. Non-positive minimums select the defaults.
func NewSanitizer(c catalog.Catalog, minWidth, minHeight float64) *Sanitizer {
	if c == nil {
		c = catalog.Default()
	}
	if minWidth <= 0 {
		minWidth = diagram.FrameMinWidth
	}
	if minHeight <= 0 {
		minHeight = diagram.FrameMinHeight
	}
	return &Sanitizer{catalog: c, minWidth: minWidth, minHeight: minHeight}
}

// MinSize returns the frame minimums.
func (s *Sanitizer) MinSize() (float64, float64) {
	return s.minWidth, s.minHeight
}

// SanitizeNodes accepts anything; only a []any of objects produces nodes.
func (s *Sanitizer) SanitizeNodes(raw any) []diagram.Node {
	items, ok := raw.([]any)
	if !ok {
		return []diagram.Node{}
	}
	out := make([]diagram.Node, 0, len(items))
	for _, item := range items {
		if n, ok := s.sanitizeNode(item); ok {
			out = append(out, n)
		}
	}
	return out
}

// SanitizeFrames is the frame counterpart of SanitizeNodes.
func (s *Sanitizer) SanitizeFrames(raw any) []diagram.Frame {
	items, ok := raw.([]any)
	if !ok {
		return []diagram.Frame{}
	}
	out := make([]diagram.Frame, 0, len(items))
	for _, item := range items {
		if f, ok := s.sanitizeFrame(item); ok {
			out = append(out, f)
		}
	}
	return out
}

// SanitizeEdges keeps entries with finite numeric id, from and to.
func (s *Sanitizer) SanitizeEdges(raw any) []diagram.Edge {
	items, ok := raw.([]any)
	if !ok {
		return []diagram.Edge{}
	}
	out := make([]diagram.Edge, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, okID := toNumber(obj, "id")
		from, okFrom := toNumber(obj, "from")
		to, okTo := toNumber(obj, "to")
		if !okID || !okFrom || !okTo {
			continue
		}
		out = append(out, diagram.Edge{ID: toID(id), From: toID(from), To: toID(to)})
	}
	return out
}

// SanitizeDocument sanitizes an object with nodes, frames and edges keys.
// Edges whose endpoints did not survive are dropped.
func (s *Sanitizer) SanitizeDocument(raw any) *diagram.Diagram {
	obj, _ := raw.(map[string]any)
	d := &diagram.Diagram{
		Nodes:  s.SanitizeNodes(obj["nodes"]),
		Frames: s.SanitizeFrames(obj["frames"]),
		Edges:  s.SanitizeEdges(obj["edges"]),
	}
	diagram.PruneDanglingEdges(d)
	return d
}

// NormalizeNode applies the sanitizer rules to an already typed node.
func (s *Sanitizer) NormalizeNode(n diagram.Node) diagram.Node {
	n.X = roundFinite(n.X)
	n.Y = roundFinite(n.Y)
	if _, ok := s.catalog.Lookup(n.Kind); !ok {
		n.Kind = diagram.KindOtherService
	}
	if n.Label == "" {
		n.Label = s.catalog.DefaultLabel(n.Kind)
	}
	return n
}

// NormalizeFrame applies the sanitizer rules to an already typed frame.
func (s *Sanitizer) NormalizeFrame(f diagram.Frame) diagram.Frame {
	f.X = roundFinite(f.X)
	f.Y = roundFinite(f.Y)
	f.Width = math.Max(s.minWidth, roundOr(f.Width, s.minWidth))
	f.Height = math.Max(s.minHeight, roundOr(f.Height, s.minHeight))
	if _, ok := s.catalog.Lookup(f.Kind); !ok {
		f.Kind = FrameFallbackKind
	}
	if f.Label == "" {
		f.Label = s.catalog.DefaultLabel(f.Kind)
	}
	return f
}

func (s *Sanitizer) sanitizeNode(raw any) (diagram.Node, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return diagram.Node{}, false
	}
	id, ok := toNumber(obj, "id")
	if !ok {
		return diagram.Node{}, false
	}
	kind, ok := obj["kind"].(string)
	if !ok {
		return diagram.Node{}, false
	}
	x, _ := toNumber(obj, "x")
	y, _ := toNumber(obj, "y")
	return s.NormalizeNode(diagram.Node{
		ID:    toID(id),
		Kind:  kind,
		X:     x,
		Y:     y,
		Label: label(obj),
	}), true
}

func (s *Sanitizer) sanitizeFrame(raw any) (diagram.Frame, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return diagram.Frame{}, false
	}
	id, ok := toNumber(obj, "id")
	if !ok {
		return diagram.Frame{}, false
	}
	kind, ok := obj["kind"].(string)
	if !ok {
		return diagram.Frame{}, false
	}
	x, _ := toNumber(obj, "x")
	y, _ := toNumber(obj, "y")
	w, okW := toNumber(obj, "width")
	if !okW {
		w = s.minWidth
	}
	h, okH := toNumber(obj, "height")
	if !okH {
		h = s.minHeight
	}
	return s.NormalizeFrame(diagram.Frame{
		ID:     toID(id),
		Kind:   kind,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		Label:  label(obj),
	}), true
}

// label reads "label", falling back to "text" which generated diagrams use.
func label(obj map[string]any) string {
	if l, ok := obj["label"].(string); ok && l != "" {
		return l
	}
	if l, ok := obj["text"].(string); ok {
		return l
	}
	return ""
}

// toNumber coerces obj[key] the way a loosely typed payload expects:
// numbers pass through, numeric strings parse, null and "" are zero,
// booleans are 0/1. A missing key or anything else is not a number.
func toNumber(obj map[string]any, key string) (float64, bool) {
	v, present := obj[key]
	if !present {
		return 0, false
	}
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, true
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, true
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toID(v float64) int {
	return int(geometry.Round(v))
}

func roundFinite(v float64) float64 {
	return roundOr(v, 0)
}

func roundOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return geometry.Round(v)
}
