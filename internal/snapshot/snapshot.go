// Package snapshot renders a single frame of an image without a window.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zen-web-components/photo-viewer/internal/geometry"
	"github.com/zen-web-components/photo-viewer/internal/logging"
	"github.com/zen-web-components/photo-viewer/internal/render"
	"github.com/zen-web-components/photo-viewer/internal/service"
	"github.com/zen-web-components/photo-viewer/internal/viewer"
)

// ErrNoSource is returned when Options.Source is empty.
var ErrNoSource = errors.New("no image source")

// Options describe the frame to render.
type Options struct {
	Source     string
	Width      int
	Height     int
	Mode       geometry.Mode
	Zoom       float64
	Rotation   int
	Pan        geometry.Point
	AutoOrient bool

	Format  render.SnapshotFormat
	Quality int
	// Interval is the frame period of the headless loop.
	Interval time.Duration
}

// Result is an encoded frame and the viewer state it was drawn from.
type Result struct {
	Data  []byte
	State viewer.State
}

// Render loads opts.Source and returns the first frame drawn after the image
// arrives. The pan is clamped like an interactive owner would: proposals
// from the viewer are adopted. ctx bounds the whole operation.
func Render(ctx context.Context, opts Options, log logging.Logger) (Result, error) {
	log = logging.OrNop(log)
	if opts.Source == "" {
		return Result{}, ErrNoSource
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return Result{}, fmt.Errorf("invalid snapshot size %dx%d", opts.Width, opts.Height)
	}

	loader := service.NewLoader(nil, log)
	loader.Start(ctx)
	defer loader.Close()

	v := viewer.New(loader, log)
	v.OnChange = func(pan geometry.Point) {
		if err := v.SetPan(pan); err != nil {
			log.Warn("adopting pan", "error", err)
		}
	}
	for _, ev := range []viewer.Event{
		viewer.Resize{Canvas: geometry.SizeOf(opts.Width, opts.Height)},
		viewer.SetZoom{Zoom: opts.Zoom},
		viewer.SetMode{Mode: opts.Mode},
		viewer.SetRotation{Rotation: opts.Rotation},
		viewer.SetPan{Pan: opts.Pan},
		viewer.SetSource{Source: opts.Source},
	} {
		if err := v.Dispatch(ev); err != nil {
			return Result{}, err
		}
	}

	raster := render.NewRaster()
	raster.Quality = opts.Quality
	pipeline := render.NewPipeline(raster)
	pipeline.Format = opts.Format

	var (
		data    []byte
		loadErr error
		drawErr error
		sched   *render.Scheduler
	)
	pipeline.OnCapture = func(snapshot []byte) {
		data = snapshot
		sched.Stop()
	}
	sched = render.NewScheduler(func() error {
		return v.Draw(pipeline)
	}, func(err error) {
		drawErr = err
		sched.Stop()
	})

	err := sched.RunTicker(ctx, opts.Interval, func() {
		r, ok := loader.Poll()
		if !ok {
			return
		}
		if r.Err != nil {
			loadErr = r.Err
			sched.Stop()
			return
		}
		if opts.AutoOrient {
			if err := v.SetRotation(opts.Rotation + r.Rotation()); err != nil {
				log.Warn("auto-orienting", "error", err)
			}
		}
		if err := v.Dispatch(r.Event()); err != nil {
			loadErr = err
			sched.Stop()
		}
	})

	switch {
	case loadErr != nil:
		return Result{}, fmt.Errorf("loading %s: %w", opts.Source, loadErr)
	case drawErr != nil:
		return Result{}, drawErr
	case err != nil:
		return Result{}, fmt.Errorf("waiting for %s: %w", opts.Source, err)
	case data == nil:
		return Result{}, errors.New("no frame captured")
	}
	log.Debug("rendered snapshot", "source", opts.Source, "bytes", len(data), "frames", sched.Frames())
	return Result{Data: data, State: v.State()}, nil
}
