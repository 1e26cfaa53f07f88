package clipboard

import (
	"sync"
	"time"
)

// Watcher drops the repeated change notifications some platforms fire for
// one physical copy. It remembers the last fingerprint and when it was seen.
type Watcher struct {
	lastAt time.Time
	now    func() time.Time
	last   string
	window time.Duration
	mu     sync.Mutex
}

// NewWatcher creates a watcher; nil now means time.Now
func NewWatcher(window time.Duration, now func() time.Time) *Watcher {
	if now == nil {
		now = time.Now
	}
	return &Watcher{window: window, now: now}
}

// Admit reports whether a snapshot with this fingerprint should be captured.
// A repeat of the last fingerprint inside the window is rejected.
func (w *Watcher) Admit(fingerprint string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if fingerprint == w.last && now.Sub(w.lastAt) < w.window {
		return false
	}

	w.last = fingerprint
	w.lastAt = now
	return true
}

// Reset forgets the last fingerprint
func (w *Watcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = ""
	w.lastAt = time.Time{}
}
