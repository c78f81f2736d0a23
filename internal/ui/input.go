package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputState holds the polled state of inputs for a single frame.
// This separates input polling from input handling logic.
type InputState struct {
	Quit             bool
	ToggleFullscreen bool
	NextImage        bool
	PrevImage        bool
	ZoomIn           bool
	ZoomOut          bool
	Rotate           bool
	ToggleMode       bool
	ResetView        bool

	WheelY float64

	// Pointer state, from the mouse or the first active touch.
	PointerPressed  bool // just went down
	PointerHeld     bool
	PointerReleased bool // just went up
	PointerX        int
	PointerY        int
}

// touchTracker follows the first touch that went down until it is lifted.
// Further fingers are ignored.
type touchTracker struct {
	active bool
	id     ebiten.TouchID
	ids    []ebiten.TouchID
}

func anyKeyJustPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

// pollInput gathers all raw input events for the current frame.
func (t *touchTracker) pollInput() InputState {
	_, wheelY := ebiten.Wheel()
	in := InputState{
		Quit:             anyKeyJustPressed(ebiten.KeyQ, ebiten.KeyEscape),
		ToggleFullscreen: anyKeyJustPressed(ebiten.KeyF11),
		NextImage:        anyKeyJustPressed(ebiten.KeyRight),
		PrevImage:        anyKeyJustPressed(ebiten.KeyLeft),
		ZoomIn:           anyKeyJustPressed(ebiten.KeyEqual, ebiten.KeyNumpadAdd),
		ZoomOut:          anyKeyJustPressed(ebiten.KeyMinus, ebiten.KeyNumpadSubtract),
		Rotate:           anyKeyJustPressed(ebiten.KeyR),
		ToggleMode:       anyKeyJustPressed(ebiten.KeyM),
		ResetView:        anyKeyJustPressed(ebiten.KeyDigit0, ebiten.KeyNumpad0),
		WheelY:           wheelY,
	}

	if t.pollTouch(&in) {
		return in
	}
	in.PointerPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	in.PointerReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	in.PointerHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.PointerX, in.PointerY = ebiten.CursorPosition()
	return in
}

// pollTouch fills the pointer fields from the tracked touch and reports
// whether a touch is driving the pointer this frame.
func (t *touchTracker) pollTouch(in *InputState) bool {
	if !t.active {
		t.ids = inpututil.AppendJustPressedTouchIDs(t.ids[:0])
		if len(t.ids) == 0 {
			return false
		}
		t.active = true
		t.id = t.ids[0]
		in.PointerPressed = true
		in.PointerHeld = true
		in.PointerX, in.PointerY = ebiten.TouchPosition(t.id)
		return true
	}
	if inpututil.IsTouchJustReleased(t.id) {
		t.active = false
		in.PointerReleased = true
		in.PointerX, in.PointerY = inpututil.TouchPositionInPreviousTick(t.id)
		return true
	}
	in.PointerHeld = true
	in.PointerX, in.PointerY = ebiten.TouchPosition(t.id)
	return true
}
