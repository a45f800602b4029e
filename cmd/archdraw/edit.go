package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"archdraw/editor"
	"archdraw/terminal"
)

func newEditCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the terminal editor",
		Long: `Open a diagram in the terminal editor. A missing file starts an empty
diagram that Ctrl+S writes to that path; the extension picks the format.

Keys:
  s select   a arrow   [ ] choose service   n place   t text box
  p / r pen   x eraser   g AI prompt   +/- zoom   H J K L pan
  Ctrl+C / Ctrl+V copy and paste (draw.io XML)   Ctrl+Z / Ctrl+Y undo and redo
  Ctrl+S save   q quit   ? help

Logs go to log.file from the config; without one they are discarded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger, closer, err := cfg.NewLogger(io.Discard)
			if err != nil {
				return err
			}
			defer closer.Close()

			var path string
			if len(args) == 1 {
				path = args[0]
			}

			s := newStore(cfg, logger)
			v := terminal.NewCellViewport(0, 0, cfg.Canvas.ZoomMin, cfg.Canvas.ZoomMax)
			e := editor.New(s,
				editor.WithViewport(v),
				editor.WithClipboard(terminal.SystemClipboard{}),
				editor.WithLogger(logger),
				editor.WithConfig(cfg.Editor()),
			)
			if path != "" {
				d, err := readDiagram(s, path)
				switch {
				case err == nil:
					if err := e.Load(d); err != nil {
						return err
					}
					logger.Info("opened diagram", "path", path, "nodes", len(d.Nodes), "frames", len(d.Frames))
				case errors.Is(err, fs.ErrNotExist):
					logger.Info("new diagram", "path", path)
				default:
					return err
				}
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to create screen: %w", err)
			}
			appOpts := []terminal.Option{terminal.WithLogger(logger), terminal.WithPath(path)}
			if cfg.AI.Endpoint != "" {
				appOpts = append(appOpts, terminal.WithGenerator(newClient(cfg, s, logger)))
			}
			app := terminal.NewApp(screen, e, v, appOpts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Run(ctx)
		},
	}
}
