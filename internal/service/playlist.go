package service

import "sync"

// Playlist is the ordered list of image sources the user can step through.
// It is filled by a scanner goroutine and read by the UI loop, so every
// method is safe for concurrent use.
type Playlist struct {
	mu    sync.RWMutex
	items []string
	seen  map[string]bool
	index int
}

// NewPlaylist creates an empty playlist.
func NewPlaylist(items ...string) *Playlist {
	p := &Playlist{seen: make(map[string]bool)}
	p.Add(items...)
	return p
}

// Add appends sources that are not already present.
func (p *Playlist) Add(items ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, it := range items {
		if p.seen[it] {
			continue
		}
		p.seen[it] = true
		p.items = append(p.items, it)
	}
}

// Len returns the number of sources.
func (p *Playlist) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}

// Index returns the current position.
func (p *Playlist) Index() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.index
}

// Current returns the source at the current position, or false when the
// playlist is empty.
func (p *Playlist) Current() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.items) == 0 {
		return "", false
	}
	return p.items[p.index], true
}

// Navigate moves the index by delta, wrapping around the list, and returns
// the new current source.
func (p *Playlist) Navigate(delta int) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.items)
	if n == 0 {
		return "", false
	}
	// (a % n + n) % n keeps negative deltas in range.
	p.index = (p.index + delta%n + n) % n
	return p.items[p.index], true
}
