package ui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/zen-web-components/photo-viewer/internal/geometry"
	"github.com/zen-web-components/photo-viewer/internal/render"
	"github.com/zen-web-components/photo-viewer/internal/service"
	"github.com/zen-web-components/photo-viewer/internal/viewer"
)

// Zoom limits for keyboard and wheel zooming.
const (
	MinZoom = 0.05
	MaxZoom = 20.0
)

// pointerTracker turns polled pointer state into viewer pointer events.
// The viewport fills the window, so the viewport origin is (0, 0).
type pointerTracker struct {
	down bool
	last geometry.Point
}

func (t *pointerTracker) events(in InputState) []viewer.Event {
	p := viewer.Pointer{Client: geometry.Point{X: float64(in.PointerX), Y: float64(in.PointerY)}}
	var evs []viewer.Event
	switch {
	case in.PointerPressed:
		t.down = true
		t.last = p.Client
		evs = append(evs, viewer.PointerDown{Pointer: p})
	case in.PointerReleased:
		if t.down {
			t.down = false
			evs = append(evs, viewer.PointerUp{Pointer: p})
		}
	case in.PointerHeld && t.down:
		if p.Client != t.last {
			t.last = p.Client
			evs = append(evs, viewer.PointerMove{Pointer: p})
		}
	case t.down:
		// The release happened where we could not see it.
		t.down = false
		evs = append(evs, viewer.PointerUp{Pointer: p})
	}
	return evs
}

// orienter turns each shown source upright once, on its first successful
// load. Later reloads of the same source keep whatever rotation the user
// has chosen since.
type orienter struct {
	done string
}

// rotation returns the rotation to apply before r is handed to the viewer,
// and false when r needs none.
func (o *orienter) rotation(s viewer.State, r service.LoadResult) (int, bool) {
	if r.Err != nil || r.Source != s.Source || r.Source == o.done {
		return 0, false
	}
	o.done = r.Source
	return s.Rotation + r.Rotation(), true
}

// reset forgets the oriented source, so showing it again re-applies EXIF.
func (o *orienter) reset() {
	o.done = ""
}

// zoomSteps is the number of zoom steps requested this frame, positive to
// zoom in.
func zoomSteps(in InputState) float64 {
	steps := in.WheelY
	if in.ZoomIn {
		steps++
	}
	if in.ZoomOut {
		steps--
	}
	return steps
}

// zoomBy applies steps zoom increments of factor step, keeping the result
// within MinZoom and MaxZoom.
func zoomBy(zoom, step, steps float64) float64 {
	return clamp(zoom*math.Pow(step, steps), MinZoom, MaxZoom)
}

// clamp restricts a value to a given range.
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func toggleMode(m geometry.Mode) geometry.Mode {
	if m == geometry.Cover {
		return geometry.Contain
	}
	return geometry.Cover
}

// isLocalPath reports whether source names a file the watcher can follow.
func isLocalPath(source string) bool {
	if source == "" {
		return false
	}
	scheme, _, ok := strings.Cut(source, ":")
	if !ok || len(scheme) == 1 {
		// No scheme, or a Windows drive letter.
		return true
	}
	return strings.EqualFold(scheme, "file") && strings.HasPrefix(source[len(scheme):], "://")
}

// localPath strips a file:// prefix.
func localPath(source string) string {
	if i := strings.Index(source, "://"); i >= 0 && strings.EqualFold(source[:i], "file") {
		return source[i+3:]
	}
	return source
}

// capturePath names the n-th snapshot written to dir.
func capturePath(dir string, n int, format render.SnapshotFormat) string {
	return filepath.Join(dir, fmt.Sprintf("frame-%05d%s", n, format.Extension()))
}

// statusText is the overlay shown in the top-left corner. info describes
// the loaded image and may be nil.
func statusText(s viewer.State, info *service.ImageInfo, index, count int) string {
	var b strings.Builder
	switch {
	case s.Source == "":
		b.WriteString("No image selected")
	case !s.Load.Loaded:
		fmt.Fprintf(&b, "Loading: %s", s.Source)
	default:
		fmt.Fprintf(&b, "Path: %s (%.0fx%.0f)", s.Source, s.Load.Size.W, s.Load.Size.H)
		if info != nil {
			fmt.Fprintf(&b, "\n%s", info.Summary())
		}
	}
	if count > 0 {
		fmt.Fprintf(&b, "\nIndex: %d/%d", index+1, count)
	}
	fmt.Fprintf(&b, "\nZoom: %.2f  Mode: %s  Rotation: %d°", s.Zoom, s.Mode, geometry.QuarterTurns(s.Rotation)*90)
	return b.String()
}
