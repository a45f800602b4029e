package validation

import (
	"testing"

	"archdraw/diagram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		d     *diagram.Diagram
		rules []string
	}{
		{
			name: "valid diagram",
			d: &diagram.Diagram{
				Nodes:  []diagram.Node{{ID: 1}, {ID: 2}},
				Frames: []diagram.Frame{{ID: 3, Width: 80, Height: 60}},
				Edges:  []diagram.Edge{{ID: 4, From: 1, To: 3}},
			},
		},
		{
			name: "shared id between node and edge",
			d: &diagram.Diagram{
				Nodes: []diagram.Node{{ID: 1}, {ID: 2}},
				Edges: []diagram.Edge{{ID: 2, From: 1, To: 1}},
			},
			rules: []string{RuleUniqueID},
		},
		{
			name: "dangling edge",
			d: &diagram.Diagram{
				Nodes: []diagram.Node{{ID: 1}},
				Edges: []diagram.Edge{{ID: 2, From: 1, To: 9}},
			},
			rules: []string{RuleDanglingEdge},
		},
		{
			name: "undersized frame",
			d: &diagram.Diagram{
				Frames: []diagram.Frame{{ID: 1, Width: 79, Height: 60}},
			},
			rules: []string{RuleFrameMinSize},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := NewValidator(Options{}).Validate(tt.d)
			var rules []string
			for _, e := range errs {
				rules = append(rules, e.Rule)
			}
			assert.Equal(t, tt.rules, rules)
		})
	}
}

func TestValidateSelection(t *testing.T) {
	d := &diagram.Diagram{
		Nodes:  []diagram.Node{{ID: 1}},
		Frames: []diagram.Frame{{ID: 2, Width: 80, Height: 60}},
	}
	v := NewValidator(Options{})
	assert.Empty(t, v.ValidateSelection(d, Selection{Nodes: []int{1}, Frames: []int{2}}))

	errs := v.ValidateSelection(d, Selection{Nodes: []int{2}, Edges: []int{7}})
	require.Len(t, errs, 2)
	assert.Equal(t, 2, errs[0].ID)
	assert.Equal(t, 7, errs[1].ID)
}

func TestValidateScratch(t *testing.T) {
	v := NewValidator(Options{})
	assert.Empty(t, v.ValidateScratch(Scratch{Drag: true}))

	errs := v.ValidateScratch(Scratch{Drag: true, Marquee: true})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "drag, marquee")
}

func TestFormatErrors(t *testing.T) {
	assert.Equal(t, "No validation errors found.", FormatErrors(nil))
	out := FormatErrors([]ValidationError{{Rule: RuleUniqueID, Message: "id 1 is used twice"}})
	assert.Contains(t, out, "Found 1 validation error(s)")
	assert.Contains(t, out, "unique-id: id 1 is used twice")
}
