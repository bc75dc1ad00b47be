package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/avalon/internal/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, root string, calls *atomic.Int32) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	w := New(root, 50*time.Millisecond, func(context.Context) { calls.Add(1) }, adapter.NullLogger())
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	// Give the watcher time to register before the test touches files
	time.Sleep(100 * time.Millisecond)
}

func TestWatcherDebouncesBurst(t *testing.T) {
	root := t.TempDir()
	var calls atomic.Int32
	startWatcher(t, root, &calls)

	for _, name := range []string{"01.mp3", "02.mp3", "03.mp3"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0644))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	var calls atomic.Int32
	startWatcher(t, root, &calls)

	album := filepath.Join(root, "Green Day", "Dookie")
	require.NoError(t, os.MkdirAll(album, 0755))
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)

	before := calls.Load()
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(album, "01.mp3"), []byte("x"), 0644))
	require.Eventually(t, func() bool { return calls.Load() > before }, 3*time.Second, 10*time.Millisecond)
}

func TestWatcherMissingRoot(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), 0, func(context.Context) {}, adapter.NullLogger())
	assert.Error(t, w.Run(context.Background()))
}
