package viewer

import (
	"image"

	"github.com/zen-web-components/photo-viewer/internal/geometry"
)

// Event is an input to Apply.
type Event interface {
	event()
}

// SetZoom changes the zoom factor applied on top of the fit scale.
type SetZoom struct{ Zoom float64 }

// SetRotation changes the number of quarter turns.
type SetRotation struct{ Rotation int }

// SetMode changes the fitting policy.
type SetMode struct{ Mode geometry.Mode }

// SetPan changes the pan offset. Owners send it to accept a PanProposed.
type SetPan struct{ Pan geometry.Point }

// SetSource switches to a new image source and starts loading it.
type SetSource struct{ Source string }

// Resize reports the on-screen size of the canvas.
type Resize struct{ Canvas geometry.Size }

// LoadComplete is delivered by the image loader. Source identifies the
// request it answers.
type LoadComplete struct {
	Source string
	Image  image.Image
	Size   geometry.Size
	Err    error
}

// Pointer is a pointer position in client coordinates together with the
// client position of the viewport's top-left corner.
type Pointer struct {
	Client geometry.Point
	Origin geometry.Point
}

// Local returns the pointer position relative to the viewport.
func (p Pointer) Local() geometry.Point {
	return p.Client.Sub(p.Origin)
}

// PointerDown starts a drag.
type PointerDown struct{ Pointer }

// PointerMove updates a drag in progress.
type PointerMove struct{ Pointer }

// PointerUp ends a drag.
type PointerUp struct{ Pointer }

func (SetZoom) event()      {}
func (SetRotation) event()  {}
func (SetMode) event()      {}
func (SetPan) event()       {}
func (SetSource) event()    {}
func (Resize) event()       {}
func (LoadComplete) event() {}
func (PointerDown) event()  {}
func (PointerMove) event()  {}
func (PointerUp) event()    {}

// Effect is a notification produced by Apply.
type Effect interface {
	effect()
}

// PanProposed asks the owner to adopt a new pan offset. The viewer never
// assigns it by itself.
type PanProposed struct{ Pan geometry.Point }

// LoadRequested asks the image loader to fetch Source.
type LoadRequested struct{ Source string }

// LoadDiscarded reports a load completion that was not applied, either
// because it answered an older source or because the load failed.
type LoadDiscarded struct {
	Source string
	Stale  bool
	Err    error
}

func (PanProposed) effect()   {}
func (LoadRequested) effect() {}
func (LoadDiscarded) effect() {}
