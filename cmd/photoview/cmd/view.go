package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/zen-web-components/photo-viewer/internal/service"
	"github.com/zen-web-components/photo-viewer/internal/ui"
)

var (
	viewMode       string
	viewZoom       float64
	viewRotate     int
	viewWatch      bool
	viewAutoOrient bool
	viewCaptureDir string
	viewWidth      int
	viewHeight     int
)

var viewCmd = &cobra.Command{
	Use:   "view [dir|file|url]",
	Short: "Open images in a window",
	Long: `Open a window showing the images found under a directory, a single file
or a URL.

Keys:
  Left/Right   previous/next image
  +/-, wheel   zoom
  R            rotate a quarter turn
  M            toggle contain/cover
  0            reset zoom and pan
  F11          toggle fullscreen
  Q, Esc       quit

Drag with the mouse or one finger to pan.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVar(&viewMode, "mode", "", "fit mode: contain or cover")
	viewCmd.Flags().Float64Var(&viewZoom, "zoom", 0, "initial zoom factor")
	viewCmd.Flags().IntVar(&viewRotate, "rotate", 0, "initial rotation in quarter turns")
	viewCmd.Flags().BoolVar(&viewWatch, "watch", false, "reload the image when its file changes")
	viewCmd.Flags().BoolVar(&viewAutoOrient, "auto-orient", true, "rotate images upright using EXIF orientation")
	viewCmd.Flags().StringVar(&viewCaptureDir, "capture-dir", "", "write a snapshot of every changed frame to this directory")
	viewCmd.Flags().IntVar(&viewWidth, "width", 0, "window width")
	viewCmd.Flags().IntVar(&viewHeight, "height", 0, "window height")
}

func runView(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Viewer.Mode = viewMode
	}
	if flags.Changed("zoom") {
		cfg.Viewer.Zoom = viewZoom
	}
	if flags.Changed("rotate") {
		cfg.Viewer.Rotation = viewRotate
	}
	if flags.Changed("watch") {
		cfg.Watch.Enabled = viewWatch
	}
	if flags.Changed("auto-orient") {
		cfg.Viewer.AutoOrient = viewAutoOrient
	}
	if flags.Changed("capture-dir") {
		cfg.Capture.Dir = viewCaptureDir
	}
	if flags.Changed("width") {
		cfg.Window.Width = viewWidth
	}
	if flags.Changed("height") {
		cfg.Window.Height = viewHeight
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	playlist := service.NewPlaylist()
	if _, err := os.Stat(root); err != nil {
		// Not on disk: a URL, or a path whose load error will be shown.
		playlist.Add(root)
	} else {
		scanLog := logger.With("component", "scanner")
		scanner := service.NewScannerService(service.DirScanner{Log: scanLog}, scanLog)
		go scanner.Collect(ctx, root, playlist)
	}

	loader := service.NewLoader(nil, logger.With("component", "loader"))
	loader.Start(ctx)

	var watcher *service.SourceWatcher
	if cfg.Watch.Enabled {
		w, err := service.NewSourceWatcher(cfg.Watch.Debounce, logger.With("component", "watcher"))
		if err != nil {
			loader.Close()
			return err
		}
		watcher = w
	}

	game, err := ui.NewGame(cfg, logger, loader, playlist, watcher)
	if err != nil {
		if watcher != nil {
			watcher.Close()
		}
		loader.Close()
		return err
	}
	return game.Run()
}
