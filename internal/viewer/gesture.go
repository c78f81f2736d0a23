package viewer

import (
	"github.com/zen-web-components/photo-viewer/internal/geometry"
)

func clampPan(s State, candidate geometry.Point) (geometry.Point, error) {
	return geometry.ClampPan(s.Params(), candidate)
}

// pointerDown enters Dragging, remembering where the pointer and the pan
// started.
func pointerDown(s State, p Pointer) State {
	s.Gesture = GestureState{
		Dragging:     true,
		StartPointer: p.Local(),
		StartPan:     s.Pan,
	}
	return s
}

// pointerMove proposes the start pan moved by the pointer delta, clamped.
// Moves while idle or before the image has loaded are ignored.
func pointerMove(s State, p Pointer) (State, []Effect, error) {
	if !s.Gesture.Dragging || !s.Load.Loaded {
		return s, nil, nil
	}
	delta := p.Local().Sub(s.Gesture.StartPointer)
	pan, err := clampPan(s, s.Gesture.StartPan.Add(delta))
	if err != nil {
		return s, nil, err
	}
	if pan == s.Pan {
		return s, nil, nil
	}
	return s, []Effect{PanProposed{Pan: pan}}, nil
}

// pointerUp returns to Idle. A drag that moved the pan is reportable.
func pointerUp(s State) State {
	if !s.Gesture.Dragging {
		return s
	}
	if s.Load.Loaded && s.Pan != s.Gesture.StartPan {
		s.Report.MarkDirty()
	}
	s.Gesture = GestureState{StartPan: s.Pan}
	return s
}
