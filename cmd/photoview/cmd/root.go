package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zen-web-components/photo-viewer/internal/config"
	"github.com/zen-web-components/photo-viewer/internal/logging"
)

var (
	// Global flags
	configPath string
	logLevel   string
	logFormat  string

	// Set up by PersistentPreRunE for every subcommand.
	cfg    config.Config
	logger *logging.SlogAdapter
)

var rootCmd = &cobra.Command{
	Use:   "photoview",
	Short: "Zoomable, pannable photo viewer",
	Long: `A photo viewer that fits images to the window, lets you zoom, rotate
and drag them, and can render single frames without a window.

Examples:
  photoview view ~/Pictures                       # Browse a directory
  photoview view --mode cover --watch photo.jpg   # Follow edits to one file
  photoview snapshot photo.jpg -o out.jpg         # Render one frame headless`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
}

// setup loads the configuration, applies the global flags and builds the
// logger.
func setup(cmd *cobra.Command) error {
	cfg = config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	l, err := logging.New(os.Stderr, cfg.Log.Format, level)
	if err != nil {
		return err
	}
	logger = l
	return nil
}
