package render

import (
	"context"
	"time"
)

// DefaultFrameInterval is roughly one frame at 60 Hz.
const DefaultFrameInterval = time.Second / 60

// Scheduler calls a draw function once per host frame while it is started.
// The host owns the frame clock and calls Frame from its per-frame callback;
// tests call Frame directly to single-step. A Scheduler is not safe for
// concurrent use: start, stop and frames all happen on the host's thread.
type Scheduler struct {
	draw    func() error
	onError func(error)
	running bool
	frames  uint64
}

// NewScheduler returns a stopped scheduler. onError, if non-nil, receives
// errors returned by draw; the loop keeps running after an error.
func NewScheduler(draw func() error, onError func(error)) *Scheduler {
	return &Scheduler{draw: draw, onError: onError}
}

// Start begins drawing on every frame. It is called on mount.
func (s *Scheduler) Start() {
	s.running = true
}

// Stop stops drawing. It is called on unmount.
func (s *Scheduler) Stop() {
	s.running = false
}

// Running reports whether frames are being drawn.
func (s *Scheduler) Running() bool {
	return s.running
}

// Frames returns the number of frames drawn so far.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// Frame draws one frame if the scheduler is running. It draws whether or
// not an image is loaded, so the first frame after a load is never missed.
func (s *Scheduler) Frame() error {
	if !s.running {
		return nil
	}
	s.frames++
	err := s.draw()
	if err != nil && s.onError != nil {
		s.onError(err)
	}
	return err
}

// RunTicker drives the scheduler from a ticker until ctx is done, for hosts
// without their own frame clock. before, if non-nil, runs ahead of each frame
// on the same goroutine and is where pending events should be applied.
func (s *Scheduler) RunTicker(ctx context.Context, interval time.Duration, before func()) error {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if before != nil {
				before()
			}
			if !s.running {
				return nil
			}
			s.Frame()
		}
	}
}
