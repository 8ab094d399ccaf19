package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 3 * time.Second

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()

	w, err := New(nil, Options{SettleDelay: 20 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, w.Watch(path))

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx) //nolint:errcheck // returns nil on shutdown

	t.Cleanup(func() {
		cancel()
		w.Stop() //nolint:errcheck // Test cleanup
	})
	return w
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func nextEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for watcher event")
		return Event{}
	}
}

func TestWatcher_Modified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	writeFile(t, path, "v1")
	w := startWatcher(t, path)

	writeFile(t, path, "version two")

	ev := nextEvent(t, w)
	assert.Equal(t, EventModified, ev.Type)
	assert.Equal(t, path, ev.Path)
	assert.Equal(t, int64(len("version two")), ev.Size)
}

func TestWatcher_Removed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	writeFile(t, path, "v1")
	w := startWatcher(t, path)

	require.NoError(t, os.Remove(path))

	ev := nextEvent(t, w)
	assert.Equal(t, EventRemoved, ev.Type)
}

func TestWatcher_ReplacedByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "games.db")
	writeFile(t, path, "v1")
	w := startWatcher(t, path)

	staged := filepath.Join(dir, "games.db.new")
	writeFile(t, staged, "replacement data")
	require.NoError(t, os.Rename(staged, path))

	ev := nextEvent(t, w)
	assert.Equal(t, EventModified, ev.Type)
	assert.Equal(t, int64(len("replacement data")), ev.Size)
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "games.db")
	writeFile(t, path, "v1")
	w := startWatcher(t, path)

	writeFile(t, filepath.Join(dir, "notes.txt"), "hello")

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %v for %s", ev.Type, ev.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_WALCommit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "games.db")
	writeFile(t, path, "v1")
	w := startWatcher(t, path)

	// A WAL-mode commit appends to the -wal file and leaves the main file alone.
	writeFile(t, path+"-wal", "committed frames")

	ev := nextEvent(t, w)
	assert.Equal(t, EventModified, ev.Type)
	assert.Equal(t, path, ev.Path)
	assert.Equal(t, int64(len("v1")), ev.Size)
}

func TestWatcher_IgnoresSharedMemoryFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "games.db")
	writeFile(t, path, "v1")
	w := startWatcher(t, path)

	writeFile(t, path+"-shm", "reader locks")

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %v for %s", ev.Type, ev.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_MissingFile(t *testing.T) {
	w, err := New(nil, Options{})
	require.NoError(t, err)
	defer w.Stop() //nolint:errcheck // Test cleanup

	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "missing.db")))
}

func TestWatch_Directory(t *testing.T) {
	w, err := New(nil, Options{})
	require.NoError(t, err)
	defer w.Stop() //nolint:errcheck // Test cleanup

	assert.Error(t, w.Watch(t.TempDir()))
}

func TestStop_ClosesEvents(t *testing.T) {
	w, err := New(nil, Options{})
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "modified", EventModified.String())
	assert.Equal(t, "removed", EventRemoved.String())
	assert.Equal(t, "unknown", EventType(42).String())
}
