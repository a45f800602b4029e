package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"archdraw/config"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a diagram from a prompt",
		Long: `Send a prompt to the configured AI endpoint and write the diagram it
returns. The endpoint comes from ai.endpoint or ARCHDRAW_AI_ENDPOINT.

Examples:
  archdraw generate "three tier web app" -o app.json
  archdraw generate "static site on S3 and CloudFront" -f ascii`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.AI.Endpoint == "" {
				return fmt.Errorf("no AI endpoint configured: set ai.endpoint or %s", config.EnvAIEndpoint)
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := newStore(cfg, logger)
			res, err := newClient(cfg, s, logger).Generate(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			logger.Info("generated diagram", "model", res.Model,
				"nodes", len(res.Diagram.Nodes), "frames", len(res.Diagram.Frames), "edges", len(res.Diagram.Edges))

			out, err := render(f, res.Diagram)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json|drawio|ascii|mermaid|d2|graphviz)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
