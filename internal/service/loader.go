package service

import (
	"context"
	"image"
	"sync"

	"github.com/zen-web-components/photo-viewer/internal/geometry"
	"github.com/zen-web-components/photo-viewer/internal/logging"
	"github.com/zen-web-components/photo-viewer/internal/viewer"
)

// LoadResult holds the result of a background image loading operation.
type LoadResult struct {
	Source string
	Image  image.Image
	Info   *ImageInfo
	Err    error
}

// Event converts the result into the viewer's completion event.
func (r LoadResult) Event() viewer.LoadComplete {
	ev := viewer.LoadComplete{Source: r.Source, Image: r.Image, Err: r.Err}
	if r.Info != nil {
		ev.Size = geometry.SizeOf(r.Info.Width, r.Info.Height)
	}
	return ev
}

// Rotation is the upright rotation suggested by the image's EXIF data.
func (r LoadResult) Rotation() int {
	if r.Info == nil {
		return 0
	}
	return RotationForOrientation(r.Info.Orientation)
}

// Loader decodes images on a background goroutine. Requests are made and
// results collected from the host's event loop; each result carries the
// source it was requested for so the viewer can drop stale ones.
type Loader struct {
	svc     *ImageService
	log     logging.Logger
	jobs    chan string
	results chan LoadResult

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewLoader creates a loader. Call Start before requesting images.
func NewLoader(svc *ImageService, log logging.Logger) *Loader {
	if svc == nil {
		svc = NewImageService()
	}
	return &Loader{
		svc:     svc,
		log:     logging.OrNop(log),
		jobs:    make(chan string, 1),
		results: make(chan LoadResult, 1),
		done:    make(chan struct{}),
	}
}

// Start launches the worker. It stops when ctx is done or Close is called.
func (l *Loader) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		ctx, l.cancel = context.WithCancel(ctx)
		go l.worker(ctx)
	})
}

// Close stops the worker and waits for it to exit.
func (l *Loader) Close() {
	l.stopOnce.Do(func() {
		if l.cancel == nil {
			close(l.done)
			return
		}
		l.cancel()
		<-l.done
	})
}

// Request queues source for loading. Only the newest pending request is
// kept: one that has not been picked up yet is replaced.
func (l *Loader) Request(source string) {
	for {
		select {
		case l.jobs <- source:
			return
		default:
		}
		select {
		case old := <-l.jobs:
			l.log.Debug("superseded pending image load", "source", old)
		default:
		}
	}
}

// Results delivers completed loads.
func (l *Loader) Results() <-chan LoadResult {
	return l.results
}

// Poll returns a completed load if one is ready, without blocking.
func (l *Loader) Poll() (LoadResult, bool) {
	select {
	case r := <-l.results:
		return r, true
	default:
		return LoadResult{}, false
	}
}

func (l *Loader) worker(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case source := <-l.jobs:
			img, info, err := l.svc.Decode(ctx, source)
			if err != nil {
				l.log.Warn("error loading image", "source", source, "error", err)
			} else {
				l.log.Debug("decoded image", "source", source, "width", info.Width, "height", info.Height, "format", info.Format)
			}
			select {
			case l.results <- LoadResult{Source: source, Image: img, Info: info, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}
