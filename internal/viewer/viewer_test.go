package viewer

import (
	"errors"
	"image"
	"math"
	"reflect"
	"testing"

	"github.com/zen-web-components/photo-viewer/internal/geometry"
	"github.com/zen-web-components/photo-viewer/internal/render"
)

type fakeLoader struct {
	requests []string
}

func (f *fakeLoader) Request(source string) {
	f.requests = append(f.requests, source)
}

// owner mimics a controlled component host: it records every proposal and
// adopts it as the new pan.
type owner struct {
	v         *Viewer
	proposals []geometry.Point
	adopt     bool
}

func newOwner(t *testing.T, adopt bool) (*owner, *fakeLoader) {
	t.Helper()
	l := &fakeLoader{}
	o := &owner{v: New(l, nil), adopt: adopt}
	o.v.OnChange = func(p geometry.Point) {
		o.proposals = append(o.proposals, p)
		if o.adopt {
			if err := o.v.SetPan(p); err != nil {
				t.Errorf("SetPan(%v): %v", p, err)
			}
		}
	}
	return o, l
}

// loaded returns an owner whose viewer shows an 800x400 image on a 400x300
// canvas in Cover mode, which allows panning by up to 100 pixels on x.
func loaded(t *testing.T) *owner {
	t.Helper()
	o, _ := newOwner(t, true)
	mustDispatch(t, o.v, Resize{Canvas: geometry.SizeOf(400, 300)})
	mustDispatch(t, o.v, SetMode{Mode: geometry.Cover})
	mustDispatch(t, o.v, SetSource{Source: "a.jpg"})
	mustDispatch(t, o.v, LoadComplete{Source: "a.jpg", Size: geometry.SizeOf(800, 400), Image: image.NewRGBA(image.Rect(0, 0, 800, 400))})
	o.v.TakeDirtyAndClear()
	o.proposals = nil
	return o
}

func mustDispatch(t *testing.T, v *Viewer, ev Event) {
	t.Helper()
	if err := v.Dispatch(ev); err != nil {
		t.Fatalf("Dispatch(%T): %v", ev, err)
	}
}

func at(x, y float64) Pointer {
	return Pointer{Client: geometry.Point{X: x, Y: y}}
}

func TestNewStateDefaults(t *testing.T) {
	s := NewState()
	if s.Zoom != 1 || s.Rotation != 0 || s.Mode != geometry.Contain || s.Pan != (geometry.Point{}) {
		t.Errorf("unexpected defaults %+v", s.Props)
	}
	if s.Load.Loaded || s.Dragging() || s.Report.Dirty() {
		t.Error("new state should be unloaded, idle and clean")
	}
}

func TestDragIsClamped(t *testing.T) {
	o := loaded(t)
	mustDispatch(t, o.v, PointerDown{at(50, 50)})
	mustDispatch(t, o.v, PointerMove{at(80, 65)})

	want := []geometry.Point{{X: 30, Y: 0}}
	if !reflect.DeepEqual(o.proposals, want) {
		t.Errorf("proposals = %v, want %v", o.proposals, want)
	}
	if got := o.v.State().Pan; got != want[0] {
		t.Errorf("pan = %v, want %v", got, want[0])
	}
}

func TestDragUsesViewportOrigin(t *testing.T) {
	o := loaded(t)
	origin := geometry.Point{X: 100, Y: 40}
	mustDispatch(t, o.v, PointerDown{Pointer{Client: geometry.Point{X: 150, Y: 90}, Origin: origin}})
	if got := o.v.State().Gesture.StartPointer; got != (geometry.Point{X: 50, Y: 50}) {
		t.Errorf("start pointer = %v, want local (50, 50)", got)
	}
	mustDispatch(t, o.v, PointerMove{Pointer{Client: geometry.Point{X: 140, Y: 90}, Origin: origin}})
	if got := o.v.State().Pan; got != (geometry.Point{X: -10, Y: 0}) {
		t.Errorf("pan = %v, want (-10, 0)", got)
	}
}

func TestDragIsRelativeToStart(t *testing.T) {
	o := loaded(t)
	mustDispatch(t, o.v, PointerDown{at(0, 0)})
	mustDispatch(t, o.v, PointerMove{at(20, 0)})
	mustDispatch(t, o.v, PointerMove{at(40, 0)})
	mustDispatch(t, o.v, PointerUp{at(40, 0)})

	mustDispatch(t, o.v, PointerDown{at(200, 200)})
	mustDispatch(t, o.v, PointerMove{at(190, 200)})
	if got := o.v.State().Pan; got != (geometry.Point{X: 30, Y: 0}) {
		t.Errorf("pan = %v, want (30, 0)", got)
	}
	mustDispatch(t, o.v, PointerMove{at(500, 200)})
	if got := o.v.State().Pan; got != (geometry.Point{X: 100, Y: 0}) {
		t.Errorf("pan = %v, want clamped (100, 0)", got)
	}
}

func TestMoveWhileIdleIsIgnored(t *testing.T) {
	o := loaded(t)
	mustDispatch(t, o.v, PointerMove{at(80, 65)})
	if len(o.proposals) != 0 {
		t.Errorf("idle move proposed %v", o.proposals)
	}
	mustDispatch(t, o.v, PointerUp{at(80, 65)})
	if o.v.State().Report.Dirty() {
		t.Error("stray pointer up marked the report dirty")
	}
}

func TestMoveBeforeLoadIsIgnored(t *testing.T) {
	o, _ := newOwner(t, true)
	mustDispatch(t, o.v, Resize{Canvas: geometry.SizeOf(400, 300)})
	mustDispatch(t, o.v, SetSource{Source: "a.jpg"})
	mustDispatch(t, o.v, PointerDown{at(0, 0)})
	mustDispatch(t, o.v, PointerMove{at(50, 0)})
	if len(o.proposals) != 0 {
		t.Errorf("move before load proposed %v", o.proposals)
	}
	mustDispatch(t, o.v, PointerUp{at(50, 0)})
	if o.v.State().Dragging() {
		t.Error("pointer up should always return to idle")
	}
}

func TestPointerUpMarksDirtyOnlyWhenMoved(t *testing.T) {
	o := loaded(t)
	mustDispatch(t, o.v, PointerDown{at(10, 10)})
	mustDispatch(t, o.v, PointerUp{at(10, 10)})
	if o.v.TakeDirtyAndClear() {
		t.Error("a click without movement should not be reportable")
	}

	mustDispatch(t, o.v, PointerDown{at(10, 10)})
	mustDispatch(t, o.v, PointerMove{at(15, 10)})
	mustDispatch(t, o.v, PointerUp{at(15, 10)})
	if !o.v.TakeDirtyAndClear() {
		t.Error("a drag that moved the pan should be reportable")
	}
	g := o.v.State().Gesture
	want := GestureState{StartPan: geometry.Point{X: 5, Y: 0}}
	if g != want {
		t.Errorf("gesture after up = %+v, want %+v", g, want)
	}
}

func TestDragBlockedByClampIsNotReportable(t *testing.T) {
	o := loaded(t)
	mustDispatch(t, o.v, PointerDown{at(10, 10)})
	mustDispatch(t, o.v, PointerMove{at(10, 90)})
	mustDispatch(t, o.v, PointerUp{at(10, 90)})
	if len(o.proposals) != 0 {
		t.Errorf("vertical drag with no vertical extent proposed %v", o.proposals)
	}
	if o.v.TakeDirtyAndClear() {
		t.Error("a drag that could not move the pan should not be reportable")
	}
}

func TestSourceChangeMidDragResetsGesture(t *testing.T) {
	o := loaded(t)
	mustDispatch(t, o.v, PointerDown{at(50, 50)})
	mustDispatch(t, o.v, PointerMove{at(80, 65)})
	mustDispatch(t, o.v, SetSource{Source: "b.jpg"})

	s := o.v.State()
	if s.Gesture != (GestureState{}) {
		t.Errorf("gesture = %+v, want zero", s.Gesture)
	}
	if s.Load.Loaded {
		t.Error("loaded should be cleared by a source change")
	}
}

func TestSourceChangeRequestsLoad(t *testing.T) {
	o, l := newOwner(t, true)
	mustDispatch(t, o.v, SetSource{Source: "a.jpg"})
	mustDispatch(t, o.v, SetSource{Source: "a.jpg"})
	mustDispatch(t, o.v, SetSource{Source: ""})
	mustDispatch(t, o.v, SetSource{Source: "b.jpg"})
	if want := []string{"a.jpg", "b.jpg"}; !reflect.DeepEqual(l.requests, want) {
		t.Errorf("requests = %v, want %v", l.requests, want)
	}
}

func TestStaleLoadIsIgnored(t *testing.T) {
	o, _ := newOwner(t, true)
	mustDispatch(t, o.v, Resize{Canvas: geometry.SizeOf(400, 300)})
	mustDispatch(t, o.v, SetSource{Source: "a.jpg"})
	mustDispatch(t, o.v, SetSource{Source: "b.jpg"})
	mustDispatch(t, o.v, LoadComplete{Source: "a.jpg", Size: geometry.SizeOf(800, 400)})

	if o.v.State().Load.Loaded {
		t.Fatal("completion for a previous source must not mark the viewer loaded")
	}
	mustDispatch(t, o.v, LoadComplete{Source: "b.jpg", Size: geometry.SizeOf(640, 480)})
	s := o.v.State()
	if !s.Load.Loaded || s.Load.Size != geometry.SizeOf(640, 480) {
		t.Errorf("load state = %+v, want b.jpg loaded", s.Load)
	}
}

func TestFailedLoadStaysUnloaded(t *testing.T) {
	o, _ := newOwner(t, true)
	mustDispatch(t, o.v, SetSource{Source: "a.jpg"})
	_, effects, err := Apply(o.v.State(), LoadComplete{Source: "a.jpg", Err: errors.New("corrupt")})
	if err != nil {
		t.Fatal(err)
	}
	if len(effects) != 1 {
		t.Fatalf("effects = %v, want one LoadDiscarded", effects)
	}
	if d, ok := effects[0].(LoadDiscarded); !ok || d.Stale || d.Err == nil {
		t.Errorf("effect = %#v, want failed LoadDiscarded", effects[0])
	}
	mustDispatch(t, o.v, LoadComplete{Source: "a.jpg", Err: errors.New("corrupt")})
	if o.v.State().Load.Loaded {
		t.Error("failed load marked the viewer loaded")
	}
}

func TestLoadMarksDirtyAndConstrains(t *testing.T) {
	o, _ := newOwner(t, true)
	mustDispatch(t, o.v, Resize{Canvas: geometry.SizeOf(400, 300)})
	mustDispatch(t, o.v, SetMode{Mode: geometry.Cover})
	mustDispatch(t, o.v, SetSource{Source: "a.jpg"})
	o.v.TakeDirtyAndClear()

	// Before the load there is nothing to clamp against, so the owner's
	// pan is kept as is.
	mustDispatch(t, o.v, SetPan{Pan: geometry.Point{X: 250, Y: -40}})
	if len(o.proposals) != 0 {
		t.Fatalf("unloaded viewer proposed %v", o.proposals)
	}

	mustDispatch(t, o.v, LoadComplete{Source: "a.jpg", Size: geometry.SizeOf(800, 400)})
	if want := []geometry.Point{{X: 100, Y: 0}}; !reflect.DeepEqual(o.proposals, want) {
		t.Errorf("proposals = %v, want %v", o.proposals, want)
	}
	if !o.v.TakeDirtyAndClear() {
		t.Error("load completion should be reportable")
	}
}

func TestConstrainIsIdempotent(t *testing.T) {
	o := loaded(t)
	mustDispatch(t, o.v, SetPan{Pan: geometry.Point{X: 500, Y: 10}})
	if want := []geometry.Point{{X: 100, Y: 0}}; !reflect.DeepEqual(o.proposals, want) {
		t.Fatalf("proposals = %v, want %v", o.proposals, want)
	}
	for i := 0; i < 2; i++ {
		if err := o.v.Constrain(); err != nil {
			t.Fatal(err)
		}
	}
	if len(o.proposals) != 1 {
		t.Errorf("Constrain proposed again: %v", o.proposals)
	}
}

func TestConstrainWithoutOwnerProposesEachTime(t *testing.T) {
	o := loaded(t)
	o.adopt = false
	mustDispatch(t, o.v, SetPan{Pan: geometry.Point{X: 500, Y: 0}})
	if err := o.v.Constrain(); err != nil {
		t.Fatal(err)
	}
	// The viewer never assigns its own proposals.
	if got := o.v.State().Pan; got != (geometry.Point{X: 500, Y: 0}) {
		t.Errorf("pan = %v, want the owner's value", got)
	}
	if len(o.proposals) != 2 {
		t.Errorf("proposals = %v, want one per call", o.proposals)
	}
}

func TestReclampOnZoomModeRotationAndResize(t *testing.T) {
	tests := []struct {
		name      string
		ev        Event
		wantPan   geometry.Point
		wantDirty bool
	}{
		{"zoom out to 0.5", SetZoom{Zoom: 0.5}, geometry.Point{}, true},
		{"mode contain", SetMode{Mode: geometry.Contain}, geometry.Point{}, true},
		{"quarter turn", SetRotation{Rotation: 1}, geometry.Point{}, false},
		{"half turn", SetRotation{Rotation: 2}, geometry.Point{X: 100, Y: 0}, false},
		{"wider canvas", Resize{Canvas: geometry.SizeOf(500, 300)}, geometry.Point{X: 50, Y: 0}, false},
		{"zoom in keeps pan", SetZoom{Zoom: 2}, geometry.Point{X: 100, Y: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := loaded(t)
			mustDispatch(t, o.v, SetPan{Pan: geometry.Point{X: 100, Y: 0}})
			o.v.TakeDirtyAndClear()

			mustDispatch(t, o.v, tt.ev)
			if got := o.v.State().Pan; got != tt.wantPan {
				t.Errorf("pan = %v, want %v", got, tt.wantPan)
			}
			if got := o.v.TakeDirtyAndClear(); got != tt.wantDirty {
				t.Errorf("dirty = %v, want %v", got, tt.wantDirty)
			}
		})
	}
}

func TestUnchangedSettersAreNoOps(t *testing.T) {
	o := loaded(t)
	mustDispatch(t, o.v, SetZoom{Zoom: 1})
	mustDispatch(t, o.v, SetMode{Mode: geometry.Cover})
	mustDispatch(t, o.v, SetRotation{Rotation: 0})
	if o.v.TakeDirtyAndClear() {
		t.Error("setting an unchanged value should not be reportable")
	}
}

func TestInvalidZoom(t *testing.T) {
	o := loaded(t)
	for _, z := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := o.v.SetZoom(z); !errors.Is(err, ErrInvalidZoom) {
			t.Errorf("SetZoom(%v) error = %v, want ErrInvalidZoom", z, err)
		}
	}
	if got := o.v.State().Zoom; got != 1 {
		t.Errorf("zoom = %v after rejected updates, want 1", got)
	}
}

func TestInvalidModeSurfacesError(t *testing.T) {
	o := loaded(t)
	err := o.v.SetMode(geometry.Mode(42))
	if !errors.Is(err, geometry.ErrInvalidMode) {
		t.Fatalf("SetMode error = %v, want ErrInvalidMode", err)
	}
	if err := o.v.Draw(render.NewPipeline(render.NewRaster())); !errors.Is(err, geometry.ErrInvalidMode) {
		t.Errorf("Draw error = %v, want ErrInvalidMode", err)
	}
	if err := o.v.SetMode(geometry.Contain); err != nil {
		t.Errorf("recovering with a valid mode: %v", err)
	}
}

func TestInvalidModeRejectedBeforeLoad(t *testing.T) {
	v := New(nil, nil)
	err := v.SetMode(geometry.Mode(7))
	var modeErr *geometry.InvalidModeError
	if !errors.As(err, &modeErr) || modeErr.Mode != geometry.Mode(7) {
		t.Fatalf("SetMode error = %v, want *InvalidModeError for mode 7", err)
	}
	if got := v.State().Mode; got != geometry.Mode(7) {
		t.Errorf("mode = %v, want the rejected mode stored", got)
	}
}

func TestDrawCapturesOncePerChange(t *testing.T) {
	o := loaded(t)
	p := render.NewPipeline(render.NewRaster())
	captures := 0
	p.OnCapture = func([]byte) { captures++ }

	mustDispatch(t, o.v, SetZoom{Zoom: 1.5})
	for i := 0; i < 3; i++ {
		if err := o.v.Draw(p); err != nil {
			t.Fatal(err)
		}
	}
	if captures != 1 {
		t.Errorf("captures = %d, want 1", captures)
	}
}

func TestUnknownEvent(t *testing.T) {
	type bogus struct{ SetZoom }
	if _, _, err := Apply(NewState(), bogus{}); err == nil {
		t.Error("expected an error for an unknown event type")
	}
}
