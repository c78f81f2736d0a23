// Package config provides configuration loading and validation for photoview.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/zen-web-components/photo-viewer/internal/geometry"
	"github.com/zen-web-components/photo-viewer/internal/render"
	"github.com/zen-web-components/photo-viewer/internal/service"
)

// Default values for configuration options.
const (
	// DefaultWidth is the default window width in pixels.
	DefaultWidth = 1024
	// DefaultHeight is the default window height in pixels.
	DefaultHeight = 768
	// DefaultTitle is the default window title.
	DefaultTitle = "photoview"
)

// Config is the complete photoview configuration.
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Viewer  ViewerConfig  `toml:"viewer"`
	Capture CaptureConfig `toml:"capture"`
	Watch   WatchConfig   `toml:"watch"`
	Log     LogConfig     `toml:"log"`
}

// WindowConfig holds the interactive window settings.
type WindowConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Title      string `toml:"title"`
	Fullscreen bool   `toml:"fullscreen"`
}

// ViewerConfig holds the initial viewer properties.
type ViewerConfig struct {
	Mode       string  `toml:"mode"`
	Zoom       float64 `toml:"zoom"`
	Rotation   int     `toml:"rotation"`
	AutoOrient bool    `toml:"auto_orient"`
	// ZoomStep is the factor applied per zoom key press or wheel notch.
	ZoomStep float64 `toml:"zoom_step"`
}

// CaptureConfig controls frame snapshots. Snapshots are only written when
// Dir is set.
type CaptureConfig struct {
	Dir     string `toml:"dir"`
	Format  string `toml:"format"`
	Quality int    `toml:"quality"`
}

// WatchConfig controls reloading the current image when its file changes.
type WatchConfig struct {
	Enabled  bool          `toml:"enabled"`
	Debounce time.Duration `toml:"debounce"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
		},
		Viewer: ViewerConfig{
			Mode:       geometry.Contain.String(),
			Zoom:       1,
			AutoOrient: true,
			ZoomStep:   1.1,
		},
		Capture: CaptureConfig{
			Format:  render.JPEG.String(),
			Quality: render.DefaultJPEGQuality,
		},
		Watch: WatchConfig{
			Debounce: service.DefaultWatchDebounce,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default values; unknown keys are an error. Environment variables in
// the capture directory are expanded.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("loading config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Capture.Dir = os.ExpandEnv(cfg.Capture.Dir)
	return cfg, nil
}

// Mode returns the parsed viewer mode.
func (c Config) Mode() (geometry.Mode, error) {
	return geometry.ParseMode(c.Viewer.Mode)
}

// SnapshotFormat returns the parsed capture format.
func (c Config) SnapshotFormat() (render.SnapshotFormat, error) {
	return render.ParseSnapshotFormat(c.Capture.Format)
}
