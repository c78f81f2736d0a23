//go:build !noebiten

package ui

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/zen-web-components/photo-viewer/internal/geometry"
	"github.com/zen-web-components/photo-viewer/internal/render"
	"github.com/zen-web-components/photo-viewer/internal/service"
	"github.com/zen-web-components/photo-viewer/internal/viewer"
)

func at(x, y float64) viewer.Pointer {
	return viewer.Pointer{Client: geometry.Point{X: x, Y: y}}
}

func TestPointerTrackerDrag(t *testing.T) {
	var tr pointerTracker
	frames := []struct {
		in   InputState
		want []viewer.Event
	}{
		{InputState{PointerX: 5, PointerY: 5}, nil},
		{InputState{PointerPressed: true, PointerHeld: true, PointerX: 10, PointerY: 10}, []viewer.Event{viewer.PointerDown{Pointer: at(10, 10)}}},
		{InputState{PointerHeld: true, PointerX: 10, PointerY: 10}, nil},
		{InputState{PointerHeld: true, PointerX: 40, PointerY: 12}, []viewer.Event{viewer.PointerMove{Pointer: at(40, 12)}}},
		{InputState{PointerReleased: true, PointerX: 41, PointerY: 12}, []viewer.Event{viewer.PointerUp{Pointer: at(41, 12)}}},
		{InputState{PointerReleased: true, PointerX: 41, PointerY: 12}, nil},
	}
	for i, f := range frames {
		if got := tr.events(f.in); !reflect.DeepEqual(got, f.want) {
			t.Errorf("frame %d: events = %#v, want %#v", i, got, f.want)
		}
	}
}

func TestPointerTrackerMissedRelease(t *testing.T) {
	var tr pointerTracker
	tr.events(InputState{PointerPressed: true, PointerHeld: true})
	got := tr.events(InputState{PointerX: 3, PointerY: 4})
	want := []viewer.Event{viewer.PointerUp{Pointer: at(3, 4)}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("events = %#v, want %#v", got, want)
	}
}

func TestZoomBy(t *testing.T) {
	tests := []struct {
		zoom, steps, want float64
	}{
		{1, 1, 1.25},
		{1, -1, 0.8},
		{1, 2, 1.5625},
		{1, 0, 1},
		{0.06, -5, MinZoom},
		{18, 3, MaxZoom},
	}
	for _, tt := range tests {
		if got := zoomBy(tt.zoom, 1.25, tt.steps); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("zoomBy(%v, 1.25, %v) = %v, want %v", tt.zoom, tt.steps, got, tt.want)
		}
	}
}

func TestZoomSteps(t *testing.T) {
	if got := zoomSteps(InputState{ZoomIn: true, WheelY: 2}); got != 3 {
		t.Errorf("zoomSteps = %v, want 3", got)
	}
	if got := zoomSteps(InputState{ZoomIn: true, ZoomOut: true}); got != 0 {
		t.Errorf("zoomSteps = %v, want 0", got)
	}
}

func TestToggleMode(t *testing.T) {
	if toggleMode(geometry.Contain) != geometry.Cover || toggleMode(geometry.Cover) != geometry.Contain {
		t.Error("toggleMode does not alternate")
	}
}

func TestLocalPaths(t *testing.T) {
	tests := []struct {
		source string
		local  bool
		path   string
	}{
		{"/photos/a.jpg", true, "/photos/a.jpg"},
		{"photos/a.jpg", true, "photos/a.jpg"},
		{`C:\photos\a.jpg`, true, `C:\photos\a.jpg`},
		{"file:///photos/a.jpg", true, "/photos/a.jpg"},
		{"https://example.com/a.jpg", false, "https://example.com/a.jpg"},
		{"data:image/png;base64,AAAA", false, "data:image/png;base64,AAAA"},
		{"", false, ""},
	}
	for _, tt := range tests {
		if got := isLocalPath(tt.source); got != tt.local {
			t.Errorf("isLocalPath(%q) = %v, want %v", tt.source, got, tt.local)
		}
		if got := localPath(tt.source); got != tt.path {
			t.Errorf("localPath(%q) = %q, want %q", tt.source, got, tt.path)
		}
	}
}

func TestCapturePath(t *testing.T) {
	got := capturePath("shots", 7, render.PNG)
	if !strings.HasSuffix(got, "frame-00007.png") || !strings.HasPrefix(got, "shots") {
		t.Errorf("capturePath = %q", got)
	}
}

func TestStatusText(t *testing.T) {
	s := viewer.NewState()
	if got := statusText(s, nil, 0, 0); !strings.HasPrefix(got, "No image selected") {
		t.Errorf("status = %q", got)
	}

	s.Source = "a.jpg"
	s.Rotation = -1
	got := statusText(s, nil, 1, 3)
	for _, want := range []string{"Loading: a.jpg", "Index: 2/3", "Rotation: 270°", "Mode: contain"} {
		if !strings.Contains(got, want) {
			t.Errorf("status %q missing %q", got, want)
		}
	}

	s.Load = viewer.LoadState{Loaded: true, Size: geometry.Size{W: 800, H: 600}}
	info := &service.ImageInfo{Format: "jpeg", Size: 2048, Camera: "X100V"}
	got = statusText(s, info, 0, 1)
	for _, want := range []string{"Path: a.jpg (800x600)", "jpeg  2.0 KB  X100V"} {
		if !strings.Contains(got, want) {
			t.Errorf("status %q missing %q", got, want)
		}
	}
}

func TestOrienterAppliesOncePerSource(t *testing.T) {
	var o orienter
	s := viewer.NewState()
	s.Source = "a.jpg"
	exif6 := service.LoadResult{Source: "a.jpg", Info: &service.ImageInfo{Orientation: 6}}

	rot, ok := o.rotation(s, exif6)
	if !ok || rot != 3 {
		t.Fatalf("first load rotation = %d, %v; want 3, true", rot, ok)
	}

	// The user turns the image; a reload of the same file keeps it.
	s.Rotation = 4
	if _, ok := o.rotation(s, exif6); ok {
		t.Error("reload of an oriented source changed the rotation")
	}

	// Failed and stale loads never orient.
	o.reset()
	if _, ok := o.rotation(s, service.LoadResult{Source: "a.jpg", Err: errors.New("gone")}); ok {
		t.Error("failed load oriented")
	}
	if _, ok := o.rotation(s, service.LoadResult{Source: "b.jpg", Info: exif6.Info}); ok {
		t.Error("stale load oriented")
	}

	// Once reset, the source is oriented again on top of the current turn.
	if rot, ok := o.rotation(s, exif6); !ok || rot != 7 {
		t.Errorf("rotation after reset = %d, %v; want 7, true", rot, ok)
	}
}
