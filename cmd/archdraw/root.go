package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"archdraw/aigen"
	"archdraw/config"
	"archdraw/diagram"
	"archdraw/importer"
	"archdraw/store"
)

// Version is the current version of archdraw
var Version = "0.1.0"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "archdraw",
		Short: "Terminal editor for AWS architecture diagrams",
		Long: `archdraw draws AWS architecture diagrams: service nodes, grouping frames
such as VPCs and subnets, connecting arrows and freehand annotations.

Diagrams are stored as JSON and can be exchanged with draw.io. They can
also be exported as ASCII art, Mermaid, D2 or Graphviz, and generated
from a natural-language prompt when an AI endpoint is configured.

Configuration is read from ./archdraw.yaml or --config. The AI endpoint
may also be set with ARCHDRAW_AI_ENDPOINT.

Examples:
  archdraw edit web.json                    # Open or create a diagram
  archdraw export web.json -o web.drawio    # Convert to draw.io
  archdraw export web.json -f ascii         # Print box art
  archdraw generate "static site on S3"     # Ask the AI endpoint
  archdraw validate web.json                # Check the file`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default: ./archdraw.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug|info|warn|error), overrides the config")

	cmd.AddCommand(
		newEditCmd(opts),
		newExportCmd(opts),
		newGenerateCmd(opts),
		newValidateCmd(opts),
	)
	return cmd
}

// load reads the config file and applies the flag overrides.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		if _, err := config.ParseLevel(o.logLevel); err != nil {
			return nil, err
		}
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

func newStore(cfg *config.Config, logger *slog.Logger) *store.Store {
	return store.New(
		store.WithLogger(logger),
		store.WithCapacity(cfg.Canvas.PoolCapacity),
		store.WithMinFrameSize(cfg.Canvas.FrameMinWidth, cfg.Canvas.FrameMinHeight),
	)
}

func newClient(cfg *config.Config, s *store.Store, logger *slog.Logger) *aigen.Client {
	return aigen.NewClient(cfg.AI.Endpoint,
		aigen.WithTimeout(cfg.AI.Timeout),
		aigen.WithPromptAffixes(cfg.AI.PromptPrefix, cfg.AI.PromptSuffix),
		aigen.WithSanitizer(s.Sanitizer()),
		aigen.WithLogger(logger),
	)
}

// readDiagram imports a file through the importer registry, which picks
// the format from the extension or the content.
func readDiagram(s *store.Store, path string) (*diagram.Diagram, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	d, err := importer.NewImporterRegistry(s.Sanitizer()).ImportFile(path, string(content))
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	return d, nil
}

// writeOutput writes content to path, or to the command output when path
// is empty or "-".
func writeOutput(cmd *cobra.Command, path, content string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(cmd.OutOrStdout(), content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
