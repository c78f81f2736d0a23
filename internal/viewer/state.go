// Package viewer holds the photo viewer's state machine. State changes are
// expressed as events applied by Apply, which returns the next state and the
// notifications the owner has to act on. Viewer wraps that function for hosts
// that prefer setters and callbacks.
package viewer

import (
	"errors"
	"image"

	"github.com/zen-web-components/photo-viewer/internal/geometry"
)

// ErrInvalidZoom is returned for a zoom that is not a finite positive number.
var ErrInvalidZoom = errors.New("zoom must be a finite number greater than zero")

// Props is the externally settable part of the state.
type Props struct {
	Zoom     float64
	Rotation int
	Mode     geometry.Mode
	Pan      geometry.Point
	Source   string
}

// LoadState describes the most recently completed load for the current
// source. Size and Image are meaningless until Loaded is true.
type LoadState struct {
	Loaded bool
	Size   geometry.Size
	Image  image.Image
}

// GestureState is the drag state machine: Idle when Dragging is false.
type GestureState struct {
	Dragging     bool
	StartPan     geometry.Point
	StartPointer geometry.Point
}

// State is everything the viewer knows.
type State struct {
	Props
	Canvas  geometry.Size
	Load    LoadState
	Gesture GestureState
	Report  ReportState
}

// NewState returns the initial state: zoom 1, no rotation, Contain, pan at
// the origin and no source.
func NewState() State {
	return State{
		Props: Props{
			Zoom: 1,
			Mode: geometry.Contain,
		},
	}
}

// Params returns the geometry inputs for the current state.
func (s State) Params() geometry.Params {
	return geometry.Params{
		Canvas:   s.Canvas,
		Image:    s.Load.Size,
		Rotation: s.Rotation,
		Zoom:     s.Zoom,
		Mode:     s.Mode,
	}
}

// Dragging reports whether a drag gesture is in progress.
func (s State) Dragging() bool {
	return s.Gesture.Dragging
}

// ReportState tracks whether something reportable changed since the last
// snapshot was emitted.
type ReportState struct {
	dirty bool
}

// MarkDirty records a reportable change.
func (r *ReportState) MarkDirty() {
	r.dirty = true
}

// Dirty reports whether a change is pending.
func (r ReportState) Dirty() bool {
	return r.dirty
}

// TakeDirtyAndClear returns the dirty flag and clears it.
func (r *ReportState) TakeDirtyAndClear() bool {
	d := r.dirty
	r.dirty = false
	return d
}
