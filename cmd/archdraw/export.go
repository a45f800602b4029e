package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"archdraw/catalog"
	"archdraw/diagram"
	"archdraw/export"
	"archdraw/store"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Convert a diagram to another format",
		Long: `Read a JSON or draw.io diagram and write it in another format.

Formats: json, drawio, ascii, mermaid, d2, graphviz. Without --format the
extension of --output decides, and JSON is used when neither is given.

Examples:
  archdraw export web.json -o web.drawio
  archdraw export web.drawio -f ascii
  archdraw export web.json -f mermaid -o web.mmd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger, closer, err := cfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()

			f, err := exportFormat(format, output)
			if err != nil {
				return err
			}
			s := newStore(cfg, logger)
			d, err := readDiagram(s, args[0])
			if err != nil {
				return err
			}
			if err := s.Apply(store.LoadDiagram(d)); err != nil {
				return err
			}
			out, err := render(f, s.Diagram())
			if err != nil {
				return err
			}
			logger.Debug("exported diagram", "input", args[0], "format", f)
			return writeOutput(cmd, output, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json|drawio|ascii|mermaid|d2|graphviz)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

// exportFormat picks the explicit format, then the output extension, then
// JSON.
func exportFormat(flag, output string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	if ext := filepath.Ext(output); ext != "" {
		if f, err := export.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return export.FormatJSON, nil
}

func render(f export.Format, d *diagram.Diagram) (string, error) {
	exp, err := export.NewExporterWithCatalog(f, catalog.Default())
	if err != nil {
		return "", err
	}
	out, err := exp.Export(d)
	if err != nil {
		return "", fmt.Errorf("exporting %s: %w", f, err)
	}
	return out, nil
}
