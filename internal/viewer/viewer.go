package viewer

import (
	"github.com/zen-web-components/photo-viewer/internal/geometry"
	"github.com/zen-web-components/photo-viewer/internal/logging"
	"github.com/zen-web-components/photo-viewer/internal/render"
)

// Requester starts an asynchronous load. The result must come back as a
// LoadComplete event tagged with the same source.
type Requester interface {
	Request(source string)
}

// Viewer applies events to a State and carries out the resulting effects.
// It is not safe for concurrent use; every method must be called from the
// host's event loop.
type Viewer struct {
	state  State
	loader Requester
	log    logging.Logger

	// OnChange receives proposed pan offsets. The owner adopts one by
	// calling SetPan; without that the pan never moves.
	OnChange func(pan geometry.Point)
}

// New returns a viewer in the initial state. loader may be nil when the
// host feeds LoadComplete events on its own.
func New(loader Requester, log logging.Logger) *Viewer {
	return &Viewer{
		state:  NewState(),
		loader: loader,
		log:    logging.OrNop(log),
	}
}

// State returns a copy of the current state.
func (v *Viewer) State() State {
	return v.state
}

// Dispatch applies ev and runs its effects. Callbacks run after the new
// state is in place, so they may dispatch further events.
func (v *Viewer) Dispatch(ev Event) error {
	next, effects, err := Apply(v.state, ev)
	v.state = next
	v.run(effects)
	return err
}

// Constrain re-clamps the current pan, proposing a change at most once.
func (v *Viewer) Constrain() error {
	effects, err := Constrain(v.state)
	v.run(effects)
	return err
}

func (v *Viewer) run(effects []Effect) {
	for _, e := range effects {
		switch e := e.(type) {
		case PanProposed:
			if v.OnChange != nil {
				v.OnChange(e.Pan)
			}
		case LoadRequested:
			if v.loader == nil {
				v.log.Warn("no loader for source", "source", e.Source)
				continue
			}
			v.log.Debug("loading image", "source", e.Source)
			v.loader.Request(e.Source)
		case LoadDiscarded:
			if e.Stale {
				v.log.Debug("dropping stale image load", "source", e.Source, "current", v.state.Source)
			} else {
				v.log.Warn("image load failed", "source", e.Source, "error", e.Err)
			}
		}
	}
}

func (v *Viewer) SetZoom(zoom float64) error       { return v.Dispatch(SetZoom{Zoom: zoom}) }
func (v *Viewer) SetRotation(rotation int) error   { return v.Dispatch(SetRotation{Rotation: rotation}) }
func (v *Viewer) SetMode(mode geometry.Mode) error { return v.Dispatch(SetMode{Mode: mode}) }
func (v *Viewer) SetPan(pan geometry.Point) error  { return v.Dispatch(SetPan{Pan: pan}) }
func (v *Viewer) SetSource(source string) error    { return v.Dispatch(SetSource{Source: source}) }

// Resize records the canvas size reported by the host's layout pass.
func (v *Viewer) Resize(canvas geometry.Size) error {
	return v.Dispatch(Resize{Canvas: canvas})
}

// TakeDirtyAndClear implements render.Reporter.
func (v *Viewer) TakeDirtyAndClear() bool {
	return v.state.Report.TakeDirtyAndClear()
}

// Frame returns what the render pipeline needs to draw the current state.
func (v *Viewer) Frame() render.Frame {
	return render.Frame{
		Params: v.state.Params(),
		Pan:    v.state.Pan,
		Loaded: v.state.Load.Loaded,
		Image:  v.state.Load.Image,
	}
}

// Draw renders the current state through p, emitting a snapshot when a
// reportable change is pending.
func (v *Viewer) Draw(p *render.Pipeline) error {
	return p.Draw(v.Frame(), v)
}
