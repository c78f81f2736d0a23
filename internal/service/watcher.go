package service

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zen-web-components/photo-viewer/internal/logging"
)

// DefaultWatchDebounce is the default debounce interval for file watch events.
const DefaultWatchDebounce = 300 * time.Millisecond

// SourceWatcher reports when the file behind the current image source is
// rewritten, so the host can load it again. It follows one file at a time;
// Watch switches to another.
type SourceWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      logging.Logger
	changes  chan string

	mu      sync.Mutex
	path    string // absolute path being followed, "" for none
	dir     string // directory registered with fsnotify
	stopCh  chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewSourceWatcher creates a watcher and starts its event loop.
func NewSourceWatcher(debounce time.Duration, log logging.Logger) (*SourceWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	sw := &SourceWatcher{
		watcher:  w,
		debounce: debounce,
		log:      logging.OrNop(log),
		changes:  make(chan string, 1),
		stopCh:   make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go sw.loop()
	return sw, nil
}

// Changes delivers the path of the followed file after it settles.
func (sw *SourceWatcher) Changes() <-chan string {
	return sw.changes
}

// Watch follows path, which must be a local file path. An empty path stops
// following. The directory is watched rather than the file so editors that
// save by renaming are noticed.
func (sw *SourceWatcher) Watch(path string) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	abs := ""
	dir := ""
	if path != "" {
		var err error
		if abs, err = filepath.Abs(path); err != nil {
			return err
		}
		dir = filepath.Dir(abs)
	}
	if dir != sw.dir {
		if sw.dir != "" {
			if err := sw.watcher.Remove(sw.dir); err != nil {
				sw.log.Debug("removing watch", "dir", sw.dir, "error", err)
			}
		}
		if dir != "" {
			if err := sw.watcher.Add(dir); err != nil {
				sw.dir, sw.path = "", ""
				return err
			}
		}
		sw.dir = dir
	}
	sw.path = abs
	return nil
}

func (sw *SourceWatcher) followed() string {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.path
}

// Close stops the watcher and waits for cleanup.
func (sw *SourceWatcher) Close() {
	sw.once.Do(func() {
		close(sw.stopCh)
		<-sw.stopped
	})
}

// loop is the event loop with debouncing.
func (sw *SourceWatcher) loop() {
	defer close(sw.stopped)
	defer sw.watcher.Close()

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time
	pending := ""

	for {
		select {
		case <-sw.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			target := sw.followed()
			if target == "" {
				continue
			}
			eventAbs, _ := filepath.Abs(event.Name)
			if eventAbs != target {
				continue
			}
			// Only react to write/create/rename events (covers atomic saves)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			pending = target
			debounceTimer = time.NewTimer(sw.debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			debounceTimer = nil
			debounceCh = nil
			if pending != sw.followed() {
				continue
			}
			select {
			case sw.changes <- pending:
			default:
				// A change for this file is already queued.
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.log.Warn("file watch error", "error", err)
		}
	}
}
