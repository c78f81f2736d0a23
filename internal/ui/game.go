// Package ui hosts the viewer in an ebiten window.
package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/zen-web-components/photo-viewer/internal/config"
	"github.com/zen-web-components/photo-viewer/internal/geometry"
	"github.com/zen-web-components/photo-viewer/internal/logging"
	"github.com/zen-web-components/photo-viewer/internal/render"
	"github.com/zen-web-components/photo-viewer/internal/service"
	"github.com/zen-web-components/photo-viewer/internal/viewer"
)

// Game is the ebiten.Game owning a Viewer. It plays the owner's part of the
// controlled-component contract: proposed pans are adopted with SetPan.
type Game struct {
	cfg      config.Config
	log      logging.Logger
	baseMode geometry.Mode
	format   render.SnapshotFormat

	viewer    *viewer.Viewer
	loader    *service.Loader
	playlist  *service.Playlist
	watcher   *service.SourceWatcher // nil when watching is off
	screen    *Screen
	pipeline  *render.Pipeline
	scheduler *render.Scheduler

	touch    touchTracker
	pointer  pointerTracker
	orient   orienter
	info     *service.ImageInfo // of the image on screen
	captures int
	lastErr  string

	layoutW, layoutH int
}

// NewGame wires a viewer to the loader, playlist and optional watcher. The
// loader must already be started. The scheduler starts immediately; Close
// stops it.
func NewGame(cfg config.Config, log logging.Logger, loader *service.Loader, playlist *service.Playlist, watcher *service.SourceWatcher) (*Game, error) {
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	format, err := cfg.SnapshotFormat()
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:      cfg,
		log:      logging.OrNop(log),
		baseMode: mode,
		format:   format,
		loader:   loader,
		playlist: playlist,
		watcher:  watcher,
		screen:   NewScreen(),
	}
	g.screen.Quality = cfg.Capture.Quality

	g.viewer = viewer.New(loader, g.log)
	g.viewer.OnChange = func(pan geometry.Point) {
		if err := g.viewer.SetPan(pan); err != nil {
			g.log.Warn("adopting pan", "error", err)
		}
	}
	if err := g.resetView(); err != nil {
		return nil, err
	}

	g.pipeline = render.NewPipeline(g.screen)
	g.pipeline.Format = format
	if cfg.Capture.Dir != "" {
		if err := os.MkdirAll(cfg.Capture.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating capture dir: %w", err)
		}
		g.pipeline.OnCapture = g.writeCapture
	}

	g.scheduler = render.NewScheduler(func() error {
		return g.viewer.Draw(g.pipeline)
	}, g.reportDrawError)
	g.scheduler.Start()
	return g, nil
}

// Viewer returns the hosted viewer.
func (g *Game) Viewer() *viewer.Viewer {
	return g.viewer
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.cfg.Window.Width, g.cfg.Window.Height)
	ebiten.SetWindowTitle(g.cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(g.cfg.Window.Fullscreen)
	defer g.Close()
	return ebiten.RunGame(g)
}

// Close stops drawing and releases the background workers and textures.
func (g *Game) Close() {
	g.scheduler.Stop()
	if g.watcher != nil {
		g.watcher.Close()
	}
	g.loader.Close()
	g.screen.Release()
}

func (g *Game) Update() error {
	// 1. Poll all input at the beginning of the frame.
	input := g.touch.pollInput()

	// 2. Handle inputs that do not depend on the viewer.
	if input.Quit {
		return ebiten.Termination
	}
	if input.ToggleFullscreen {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	// 3. Apply the layout size before anything that clamps against it.
	g.dispatch(viewer.Resize{Canvas: geometry.SizeOf(g.layoutW, g.layoutH)})

	// 4. Process results from the background image loader.
	for {
		result, ok := g.loader.Poll()
		if !ok {
			break
		}
		g.applyLoad(result)
	}

	// 5. Reload the current image when its file changes.
	if g.watcher != nil {
		select {
		case path := <-g.watcher.Changes():
			g.log.Info("image changed on disk, reloading", "path", path)
			g.loader.Request(g.viewer.State().Source)
		default:
		}
	}

	// 6. Pick up the first image once the scanner has found one.
	if g.viewer.State().Source == "" {
		if src, ok := g.playlist.Current(); ok {
			g.show(src)
		}
	}

	g.handleInput(input)
	return nil
}

// handleInput manages input that depends on the viewer state.
func (g *Game) handleInput(input InputState) {
	if input.NextImage {
		g.navigate(1)
	}
	if input.PrevImage {
		g.navigate(-1)
	}

	s := g.viewer.State()
	if steps := zoomSteps(input); steps != 0 {
		g.dispatch(viewer.SetZoom{Zoom: zoomBy(s.Zoom, g.cfg.Viewer.ZoomStep, steps)})
	}
	if input.Rotate {
		g.dispatch(viewer.SetRotation{Rotation: s.Rotation + 1})
	}
	if input.ToggleMode {
		g.dispatch(viewer.SetMode{Mode: toggleMode(s.Mode)})
	}
	if input.ResetView {
		g.dispatch(viewer.SetZoom{Zoom: g.cfg.Viewer.Zoom})
		g.dispatch(viewer.SetPan{Pan: geometry.Point{}})
	}

	for _, ev := range g.pointer.events(input) {
		g.dispatch(ev)
	}
}

// navigate moves through the playlist by delta, wrapping around.
func (g *Game) navigate(delta int) {
	src, ok := g.playlist.Navigate(delta)
	if !ok {
		return
	}
	g.show(src)
}

// show switches the viewer to src and follows it on disk when watching.
func (g *Game) show(src string) {
	if src == g.viewer.State().Source {
		return
	}
	if err := g.resetView(); err != nil {
		g.log.Warn("resetting view", "error", err)
	}
	g.orient.reset()
	g.info = nil
	g.dispatch(viewer.SetSource{Source: src})
	ebiten.SetWindowTitle(fmt.Sprintf("%s - %s", filepath.Base(localPath(src)), g.cfg.Window.Title))
	if g.watcher == nil {
		return
	}
	watched := ""
	if isLocalPath(src) {
		watched = localPath(src)
	}
	if err := g.watcher.Watch(watched); err != nil {
		g.log.Warn("cannot watch image", "source", src, "error", err)
	}
}

// resetView restores the configured zoom, mode and rotation and centers the
// pan.
func (g *Game) resetView() error {
	for _, ev := range []viewer.Event{
		viewer.SetZoom{Zoom: g.cfg.Viewer.Zoom},
		viewer.SetMode{Mode: g.baseMode},
		viewer.SetRotation{Rotation: g.cfg.Viewer.Rotation},
		viewer.SetPan{Pan: geometry.Point{}},
	} {
		if err := g.viewer.Dispatch(ev); err != nil {
			return err
		}
	}
	return nil
}

// applyLoad hands a loader result to the viewer, first turning a newly
// shown image upright when auto-orientation is on.
func (g *Game) applyLoad(r service.LoadResult) {
	if g.cfg.Viewer.AutoOrient {
		if rot, ok := g.orient.rotation(g.viewer.State(), r); ok {
			g.dispatch(viewer.SetRotation{Rotation: rot})
		}
	}
	if r.Err == nil && r.Source == g.viewer.State().Source {
		g.info = r.Info
	}
	g.dispatch(r.Event())
}

func (g *Game) dispatch(ev viewer.Event) {
	if err := g.viewer.Dispatch(ev); err != nil {
		g.log.Warn("viewer event rejected", "event", fmt.Sprintf("%T", ev), "error", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.screen.Bind(screen)
	g.scheduler.Frame()
	ebitenutil.DebugPrint(screen, statusText(g.viewer.State(), g.info, g.playlist.Index(), g.playlist.Len()))
}

// Layout keeps the logical screen the same size as the window, so the
// canvas maps 1:1 onto window pixels.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	g.layoutW, g.layoutH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// reportDrawError logs a draw error once until a different one occurs.
func (g *Game) reportDrawError(err error) {
	if msg := err.Error(); msg != g.lastErr {
		g.lastErr = msg
		g.log.Error("drawing frame", "error", err)
	}
}

func (g *Game) writeCapture(snapshot []byte) {
	g.captures++
	path := capturePath(g.cfg.Capture.Dir, g.captures, g.format)
	if err := os.WriteFile(path, snapshot, 0o644); err != nil {
		g.log.Warn("writing capture", "path", path, "error", err)
		return
	}
	g.log.Debug("captured frame", "path", path, "bytes", len(snapshot))
}
