// Package watch monitors a briefs directory and reports brief files as
// they appear, so the CLI can run them without being re-invoked.
package watch

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"contentpipe/internal/brief"
)

// settleDelay is how long a file must stay quiet before it is reported.
// Editors and sync tools write brief files in several bursts.
const settleDelay = 500 * time.Millisecond

// Watcher reports brief files created or rewritten in a directory.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
	briefs  chan string
	done    chan struct{}

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

// New creates a watcher over the given briefs directory.
// The directory is created if it does not exist.
func New(dir string) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create briefs directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch briefs directory: %w", err)
	}

	w := &Watcher{
		dir:     dir,
		watcher: fsw,
		briefs:  make(chan string, 16),
		done:    make(chan struct{}),
		pending: make(map[string]*time.Timer),
	}
	go w.loop()
	return w, nil
}

// Briefs returns the channel of settled brief file paths.
func (w *Watcher) Briefs() <-chan string {
	return w.briefs
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// loop translates raw filesystem events into settled brief paths.
func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == 0 && event.Op&fsnotify.Write == 0 {
				continue
			}
			if !brief.IsBriefFile(event.Name) {
				continue
			}
			w.schedule(event.Name)
		case <-w.watcher.Errors:
			// Keep watching; a missed event only delays the brief until
			// the next write touches it.
		}
	}
}

// schedule (re)arms the settle timer for a path. Each new write pushes the
// report back by settleDelay so half-written files are not loaded.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	if timer, ok := w.pending[path]; ok {
		timer.Reset(settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.settle(path)
	})
}

// settle reports a path whose writes have gone quiet.
func (w *Watcher) settle(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	select {
	case w.briefs <- path:
	case <-w.done:
	}
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, timer := range w.pending {
		timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}
