package drawio

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"archdraw/diagram"
)

// ErrNotDrawio is returned for text that is not a draw.io model.
var ErrNotDrawio = errors.New("not a draw.io model")

// NodeDraft is a parsed vertex that is not a container.
type NodeDraft struct {
	OriginalID string
	Kind       string
	X, Y       float64
	Label      string
}

// FrameDraft is a parsed container vertex.
type FrameDraft struct {
	OriginalID    string
	Kind          string
	X, Y          float64
	Width, Height float64
	Label         string
}

// EdgeDraft is a parsed connector between two known vertices.
type EdgeDraft struct {
	OriginalID string
	From, To   string
}

// Parsed holds the drafts recovered from a model, still keyed by the cell
// ids found in the XML.
type Parsed struct {
	Nodes  []NodeDraft
	Frames []FrameDraft
	Edges  []EdgeDraft
}

// Empty reports whether nothing was recovered.
func (p *Parsed) Empty() bool {
	return len(p.Nodes) == 0 && len(p.Frames) == 0 && len(p.Edges) == 0
}

// Diagram numbers the drafts 1..n in the order nodes, frames, edges and
// rewrites edge endpoints to match. The ids are local to the result; the
// store assigns real ones on insert. Labels are left as parsed.
func (p *Parsed) Diagram() *diagram.Diagram {
	d := &diagram.Diagram{
		Nodes:  make([]diagram.Node, 0, len(p.Nodes)),
		Frames: make([]diagram.Frame, 0, len(p.Frames)),
		Edges:  make([]diagram.Edge, 0, len(p.Edges)),
	}
	ids := make(map[string]int, len(p.Nodes)+len(p.Frames))
	next := 1
	for _, n := range p.Nodes {
		ids[n.OriginalID] = next
		d.Nodes = append(d.Nodes, diagram.Node{ID: next, Kind: n.Kind, X: n.X, Y: n.Y, Label: n.Label})
		next++
	}
	for _, f := range p.Frames {
		ids[f.OriginalID] = next
		d.Frames = append(d.Frames, diagram.Frame{
			ID: next, Kind: f.Kind, X: f.X, Y: f.Y, Width: f.Width, Height: f.Height, Label: f.Label,
		})
		next++
	}
	for _, e := range p.Edges {
		d.Edges = append(d.Edges, diagram.Edge{ID: next, From: ids[e.From], To: ids[e.To]})
		next++
	}
	return d
}

// Decode extracts the XML from clipboard text, which is either raw XML or
// its percent-encoded form. It returns false when neither contains a model.
func Decode(raw string) (string, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", false
	}
	if looksLikeModel(text) {
		return text, true
	}
	decoded, err := url.PathUnescape(text)
	if err != nil || !looksLikeModel(decoded) {
		return "", false
	}
	return decoded, true
}

func looksLikeModel(s string) bool {
	return strings.Contains(s, "<mxGraphModel") || strings.Contains(s, "<mxfile")
}

type mxCell struct {
	ID       string      `xml:"id,attr"`
	Value    string      `xml:"value,attr"`
	Style    string      `xml:"style,attr"`
	Vertex   string      `xml:"vertex,attr"`
	Edge     string      `xml:"edge,attr"`
	Source   string      `xml:"source,attr"`
	Target   string      `xml:"target,attr"`
	Geometry *mxGeometry `xml:"mxGeometry"`
}

type mxGeometry struct {
	X      *string `xml:"x,attr"`
	Y      *string `xml:"y,attr"`
	Width  *string `xml:"width,attr"`
	Height *string `xml:"height,attr"`
}

// Parse decodes clipboard or file text and recovers nodes, frames and edges.
// Cells 0 and 1 are the draw.io root and default layer and are skipped.
// Edges are kept only when both ends are parsed vertices.
func Parse(raw string) (*Parsed, error) {
	text, ok := Decode(raw)
	if !ok {
		return nil, ErrNotDrawio
	}

	cells, err := readCells(text)
	if err != nil {
		return nil, err
	}

	p := &Parsed{}
	known := make(map[string]bool)
	var edges []EdgeDraft
	for _, c := range cells {
		if c.ID == "" || c.ID == "0" || c.ID == "1" {
			continue
		}
		style := parseStyle(c.Style)

		if c.Vertex == "1" {
			var g mxGeometry
			if c.Geometry != nil {
				g = *c.Geometry
			}
			x := parseNumber(g.X, 0)
			y := parseNumber(g.Y, 0)
			if isFrame(style) {
				p.Frames = append(p.Frames, FrameDraft{
					OriginalID: c.ID,
					Kind:       frameKind(style),
					X:          x,
					Y:          y,
					Width:      parseNumber(g.Width, iconSize),
					Height:     parseNumber(g.Height, iconSize),
					Label:      c.Value,
				})
			} else {
				p.Nodes = append(p.Nodes, NodeDraft{
					OriginalID: c.ID,
					Kind:       nodeKind(style),
					X:          x,
					Y:          y,
					Label:      c.Value,
				})
			}
			known[c.ID] = true
			continue
		}

		if c.Edge == "1" && c.Source != "" && c.Target != "" {
			edges = append(edges, EdgeDraft{OriginalID: c.ID, From: c.Source, To: c.Target})
		}
	}

	for _, e := range edges {
		if known[e.From] && known[e.To] {
			p.Edges = append(p.Edges, e)
		}
	}
	return p, nil
}

// readCells collects every mxCell element of the first model in text,
// whether it is a bare mxGraphModel or wrapped in an mxfile.
func readCells(text string) ([]mxCell, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	var cells []mxCell
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotDrawio, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "root":
			sawRoot = true
		case "mxCell":
			var c mxCell
			if err := dec.DecodeElement(&c, &start); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrNotDrawio, err)
			}
			cells = append(cells, c)
		}
	}
	if !sawRoot {
		return nil, fmt.Errorf("%w: no root element", ErrNotDrawio)
	}
	return cells, nil
}

func isFrame(style map[string]string) bool {
	if style["container"] == "1" {
		return true
	}
	if _, ok := style["grIcon"]; ok {
		return true
	}
	return strings.Contains(style["shape"], "mxgraph.aws4.group")
}

func frameKind(style map[string]string) string {
	icon := style["grIcon"]
	if icon == "mxgraph.aws4.group_security_group" {
		switch strings.ToLower(style["fillColor"]) {
		case "#e6f6f7":
			return "PrivateSubnet"
		default:
			return "PublicSubnet"
		}
	}
	if kind, ok := frameKindsByIcon[icon]; ok {
		return kind
	}
	if style["align"] == "center" && style["container"] == "1" {
		return "AZ"
	}
	return "GeneralGroup"
}

func nodeKind(style map[string]string) string {
	if _, ok := style["text"]; ok {
		return diagram.KindTextBox
	}
	if kind, ok := nodeKindsByResIcon[style["resIcon"]]; ok {
		return kind
	}
	if kind, ok := nodeKindsByShape[style["shape"]]; ok {
		return kind
	}
	return diagram.KindOtherService
}

// parseNumber reads a numeric attribute. Missing, empty, malformed or
// non-finite values yield fallback.
func parseNumber(v *string, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}
