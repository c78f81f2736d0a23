package viewer

import (
	"fmt"
	"math"
)

// Apply returns the state that results from ev together with the effects the
// owner must carry out. A non-nil error leaves the returned state valid: for
// an invalid zoom it is unchanged, for an invalid mode it holds the new mode
// and the error is reported again by every geometry computation.
func Apply(s State, ev Event) (State, []Effect, error) {
	switch ev := ev.(type) {
	case SetZoom:
		if math.IsNaN(ev.Zoom) || math.IsInf(ev.Zoom, 0) || ev.Zoom <= 0 {
			return s, nil, fmt.Errorf("set zoom %v: %w", ev.Zoom, ErrInvalidZoom)
		}
		if ev.Zoom == s.Zoom {
			return s, nil, nil
		}
		s.Zoom = ev.Zoom
		s.Report.MarkDirty()
		return constrained(s)

	case SetRotation:
		if ev.Rotation == s.Rotation {
			return s, nil, nil
		}
		s.Rotation = ev.Rotation
		return constrained(s)

	case SetMode:
		if ev.Mode == s.Mode {
			return s, nil, nil
		}
		s.Mode = ev.Mode
		s.Report.MarkDirty()
		if err := s.Mode.Validate(); err != nil {
			return s, nil, fmt.Errorf("set mode: %w", err)
		}
		return constrained(s)

	case SetPan:
		if ev.Pan == s.Pan {
			return s, nil, nil
		}
		s.Pan = ev.Pan
		return constrained(s)

	case Resize:
		if ev.Canvas == s.Canvas {
			return s, nil, nil
		}
		s.Canvas = ev.Canvas
		return constrained(s)

	case SetSource:
		if ev.Source == s.Source {
			return s, nil, nil
		}
		s.Source = ev.Source
		s.Load = LoadState{}
		s.Gesture = GestureState{}
		if s.Source == "" {
			return s, nil, nil
		}
		return s, []Effect{LoadRequested{Source: s.Source}}, nil

	case LoadComplete:
		if ev.Source != s.Source {
			return s, []Effect{LoadDiscarded{Source: ev.Source, Stale: true}}, nil
		}
		if ev.Err != nil {
			return s, []Effect{LoadDiscarded{Source: ev.Source, Err: ev.Err}}, nil
		}
		s.Load = LoadState{Loaded: true, Size: ev.Size, Image: ev.Image}
		s.Report.MarkDirty()
		return constrained(s)

	case PointerDown:
		return pointerDown(s, ev.Pointer), nil, nil

	case PointerMove:
		return pointerMove(s, ev.Pointer)

	case PointerUp:
		return pointerUp(s), nil, nil
	}
	return s, nil, fmt.Errorf("unknown event %T", ev)
}

// Constrain clamps the current pan and proposes the result when it differs.
// Before an image is loaded there is nothing to clamp against and it does
// nothing. Repeated calls without a state change propose nothing further.
func Constrain(s State) ([]Effect, error) {
	if !s.Load.Loaded {
		return nil, nil
	}
	pan, err := clampPan(s, s.Pan)
	if err != nil {
		return nil, err
	}
	if pan == s.Pan {
		return nil, nil
	}
	return []Effect{PanProposed{Pan: pan}}, nil
}

func constrained(s State) (State, []Effect, error) {
	effects, err := Constrain(s)
	return s, effects, err
}
