package clipboard

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatcher_Admit(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	w := NewWatcher(500*time.Millisecond, func() time.Time { return now })

	assert.True(t, w.Admit("a"))
	assert.False(t, w.Admit("a"), "repeat inside window")

	now = now.Add(499 * time.Millisecond)
	assert.False(t, w.Admit("a"))

	now = now.Add(time.Millisecond)
	assert.True(t, w.Admit("a"), "window elapsed")

	assert.True(t, w.Admit("b"), "different fingerprint")
	assert.True(t, w.Admit("a"), "a is no longer the last one")
}

func TestWatcher_Reset(t *testing.T) {
	w := NewWatcher(time.Hour, nil)
	assert.True(t, w.Admit("a"))
	w.Reset()
	assert.True(t, w.Admit("a"))
}

func TestWatcher_Concurrent(t *testing.T) {
	w := NewWatcher(time.Hour, nil)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if w.Admit("same") {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, admitted)
}
