package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestWatcher_DebouncedChange(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "a.ipynb")
	other := filepath.Join(dir, "b.ipynb")
	require.NoError(t, os.WriteFile(watched, []byte("{}"), 0o644))

	rec := &recorder{}
	w, err := New([]string{watched}, 50*time.Millisecond, rec.record, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(watched, []byte("{\"n\": 1}"), 0o644))
	}
	require.NoError(t, os.WriteFile(other, []byte("{}"), 0o644))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	got := rec.snapshot()
	assert.Len(t, got, 1, "a burst of writes is one change")
	assert.Equal(t, watched, got[0])
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ipynb")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	w, err := New([]string{path}, 0, func(string) {}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatcher_ContextCancelStopsLoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ipynb")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	w, err := New([]string{path}, 0, func(string) {}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))

	cancel()
	select {
	case <-w.stopped:
	case <-time.After(time.Second):
		t.Fatal("watch loop did not exit")
	}
	assert.NoError(t, w.Stop())
}
