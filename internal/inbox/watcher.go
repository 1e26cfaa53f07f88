// Package inbox watches a drop folder and captures new files as path snapshots.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/iudanet/ideacapsule/internal/clipboard"
	"github.com/iudanet/ideacapsule/internal/ingest"
	"github.com/iudanet/ideacapsule/internal/metrics"
)

// ErrStarted is returned by Start on a running watcher
var ErrStarted = errors.New("inbox watcher already started")

// Capturer stores a snapshot under an optional category
type Capturer interface {
	CaptureClipboard(ctx context.Context, snap clipboard.Snapshot, target *int64) (*ingest.CaptureResult, error)
}

// Watcher captures files that appear in dir once they stop changing for settle
type Watcher struct {
	capture Capturer
	log     *slog.Logger
	metrics *metrics.Metrics
	fsw     *fsnotify.Watcher
	timers  map[string]*time.Timer
	cancel  context.CancelFunc
	dir     string
	wg      sync.WaitGroup
	settle  time.Duration
	mu      sync.Mutex
}

// New creates a watcher; call Start or Run
func New(dir string, settle time.Duration, capture Capturer, logger *slog.Logger, m *metrics.Metrics) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		capture: capture,
		log:     logger.With("component", "inbox"),
		metrics: m,
		timers:  make(map[string]*time.Timer),
		dir:     dir,
		settle:  settle,
	}
}

// Start creates the directory if needed and begins watching it
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsw != nil {
		return ErrStarted
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create inbox directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel

	w.wg.Add(1)
	go w.loop(ctx, fsw)

	w.log.Info("watching inbox", "dir", w.dir)
	return nil
}

// Run watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return w.Close()
}

// Close stops watching, drops pending captures and waits for running ones
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.fsw == nil {
		w.mu.Unlock()
		return nil
	}
	fsw := w.fsw
	w.fsw = nil
	w.cancel()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	err := fsw.Close()
	w.wg.Wait()
	return err
}

// loop owns fsw; Close may clear w.fsw before the goroutine is scheduled
func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if isHidden(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.schedule(ctx, event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.cancelPath(event.Name)
	}
	// Chmod игнорируем: его шлют индексаторы и антивирусы
}

// schedule (re)arms the settle timer of path
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsw == nil {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}

	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		// таймер мог сработать одновременно с Close
		if w.fsw == nil {
			w.mu.Unlock()
			return
		}
		delete(w.timers, path)
		w.wg.Add(1)
		w.mu.Unlock()

		defer w.wg.Done()
		w.captureFile(ctx, path)
	})
}

func (w *Watcher) cancelPath(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) captureFile(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	if _, err := os.Stat(path); err != nil {
		w.log.Debug("inbox file vanished", "path", path)
		return
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	w.metrics.InboxFile()
	res, err := w.capture.CaptureClipboard(ctx, clipboard.PathsSnapshot(abs), nil)
	if err != nil {
		w.log.Error("failed to capture inbox file", "path", abs, "error", err)
		return
	}
	w.log.Info("inbox file captured", "path", abs, "idea_id", res.ID, "status", res.Status)
}

// Pending returns the number of files waiting to settle
func (w *Watcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~")
}
