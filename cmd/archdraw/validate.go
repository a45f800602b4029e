package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"archdraw/diagram"
	"archdraw/drawio"
	"archdraw/validation"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a diagram file for structural problems",
		Long: `Check a JSON or draw.io diagram as written, before any cleanup the
editor would apply on load: duplicate ids, edges to missing elements and
frames below the minimum size.

The command exits non-zero when a problem is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			path := args[0]
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			d, err := decodeRaw(string(content))
			if err != nil {
				return fmt.Errorf("decoding %s: %w", path, err)
			}

			v := validation.NewValidator(validation.Options{
				MinWidth:  cfg.Canvas.FrameMinWidth,
				MinHeight: cfg.Canvas.FrameMinHeight,
			})
			errs := v.Validate(d)
			report(cmd.OutOrStdout(), path, d, errs)
			if len(errs) > 0 {
				return fmt.Errorf("%s: %d problem(s) found", path, len(errs))
			}
			return nil
		},
	}
}

// decodeRaw reads a diagram without sanitizing it, so the problems the
// importer would silently repair stay visible.
func decodeRaw(content string) (*diagram.Diagram, error) {
	if xml, ok := drawio.Decode(content); ok {
		parsed, err := drawio.Parse(xml)
		if err != nil {
			return nil, err
		}
		return parsed.Diagram(), nil
	}
	var d diagram.Diagram
	if err := json.Unmarshal([]byte(content), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func report(w io.Writer, path string, d *diagram.Diagram, errs []validation.ValidationError) {
	if len(errs) == 0 {
		color.New(color.FgGreen, color.Bold).Fprintf(w, "✓ %s", path)
		fmt.Fprintf(w, ": %d nodes, %d frames, %d edges\n", len(d.Nodes), len(d.Frames), len(d.Edges))
		return
	}
	color.New(color.FgRed, color.Bold).Fprintf(w, "✗ %s", path)
	fmt.Fprintf(w, ": %d problem(s)\n", len(errs))
	rule := color.New(color.FgYellow)
	for _, e := range errs {
		fmt.Fprintf(w, "  %s %s\n", rule.Sprintf("[%s]", e.Rule), e.Message)
	}
}
