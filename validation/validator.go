// Package validation checks the structural invariants of a diagram state.
package validation

import (
	"fmt"
	"strings"

	"archdraw/diagram"
)

// Rule names reported in violations.
const (
	RuleUniqueID      = "unique-id"
	RuleDanglingEdge  = "dangling-edge"
	RuleFrameMinSize  = "frame-min-size"
	RuleSelection     = "selection"
	RuleScratchStates = "scratch-exclusive"
)

// ValidationError describes one broken invariant.
type ValidationError struct {
	Rule    string
	ID      int
	Message string
}

// Error implements error.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// Options configures the checks.
type Options struct {
	MinWidth  float64
	MinHeight float64
}

// Selection is the set of selected ids per entity type.
type Selection struct {
	Nodes  []int
	Frames []int
	Edges  []int
}

// Scratch flags which interaction scratch states are active.
type Scratch struct {
	Drag         bool
	Resize       bool
	Marquee      bool
	PendingFrame bool
	PendingEdge  bool
}

// Validator runs the invariant checks.
type Validator struct {
	opts   Options
	errors []ValidationError
}

// NewValidator creates a validator. Zero minimums select the defaults.
func NewValidator(opts Options) *Validator {
	if opts.MinWidth <= 0 {
		opts.MinWidth = diagram.FrameMinWidth
	}
	if opts.MinHeight <= 0 {
		opts.MinHeight = diagram.FrameMinHeight
	}
	return &Validator{opts: opts}
}

// Validate checks id uniqueness, edge endpoints and frame sizes.
func (v *Validator) Validate(d *diagram.Diagram) []ValidationError {
	v.errors = nil
	if d == nil {
		return nil
	}

	for _, id := range diagram.DuplicateIDs(d) {
		v.addError(RuleUniqueID, id, "id %d is used by more than one entity", id)
	}

	for _, e := range d.Edges {
		if _, ok := d.Element(e.From); !ok {
			v.addError(RuleDanglingEdge, e.ID, "edge %d starts at missing element %d", e.ID, e.From)
		}
		if _, ok := d.Element(e.To); !ok {
			v.addError(RuleDanglingEdge, e.ID, "edge %d ends at missing element %d", e.ID, e.To)
		}
	}

	for _, f := range d.Frames {
		if f.Width < v.opts.MinWidth || f.Height < v.opts.MinHeight {
			v.addError(RuleFrameMinSize, f.ID, "frame %d is %gx%g, below %gx%g",
				f.ID, f.Width, f.Height, v.opts.MinWidth, v.opts.MinHeight)
		}
	}
	return v.errors
}

// ValidateSelection checks that every selected id names a live entity of
// the right type.
func (v *Validator) ValidateSelection(d *diagram.Diagram, sel Selection) []ValidationError {
	v.errors = nil
	for _, id := range sel.Nodes {
		if d.NodeIndex(id) < 0 {
			v.addError(RuleSelection, id, "selected node %d does not exist", id)
		}
	}
	for _, id := range sel.Frames {
		if d.FrameIndex(id) < 0 {
			v.addError(RuleSelection, id, "selected frame %d does not exist", id)
		}
	}
	for _, id := range sel.Edges {
		if d.EdgeIndex(id) < 0 {
			v.addError(RuleSelection, id, "selected edge %d does not exist", id)
		}
	}
	return v.errors
}

// ValidateScratch checks that at most one interaction is in progress.
func (v *Validator) ValidateScratch(s Scratch) []ValidationError {
	v.errors = nil
	var active []string
	for _, st := range []struct {
		name string
		on   bool
	}{
		{"drag", s.Drag},
		{"resize", s.Resize},
		{"marquee", s.Marquee},
		{"pending-frame", s.PendingFrame},
		{"pending-edge", s.PendingEdge},
	} {
		if st.on {
			active = append(active, st.name)
		}
	}
	if len(active) > 1 {
		v.addError(RuleScratchStates, 0, "%s active at once", strings.Join(active, ", "))
	}
	return v.errors
}

func (v *Validator) addError(rule string, id int, format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Rule:    rule,
		ID:      id,
		Message: fmt.Sprintf(format, args...),
	})
}

// FormatErrors joins violations into a multi-line report.
func FormatErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return "No validation errors found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d validation error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(&b, "  - %s\n", e.Error())
	}
	return b.String()
}
