package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherFiresOnExternalWrite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "watched.db")

	watched, err := Open(dbPath)
	require.NoError(t, err)
	defer watched.Close()

	writer, err := Open(dbPath)
	require.NoError(t, err)
	defer writer.Close()

	changes := make(chan string, 1)
	w := NewWatcher(watched, 10*time.Millisecond, func(key string) {
		select {
		case changes <- key:
		default:
		}
	})
	require.NoError(t, w.Start())
	defer w.Stop()

	_, err = writer.Create(CreateTask{Title: "from elsewhere"})
	require.NoError(t, err)

	select {
	case key := <-changes:
		require.Equal(t, EntryKey, key)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher never reported the external write")
	}
}

func TestWatcherSkipsBumpedWrites(t *testing.T) {
	s := newTestStore(t)

	changes := make(chan string, 4)
	w := NewWatcher(s, 50*time.Millisecond, func(key string) {
		changes <- key
	})
	require.NoError(t, w.Start())
	defer w.Stop()

	// A local write followed by Bump mimics the session's own mutation.
	// Both land well inside the first poll interval.
	_, err := s.Create(CreateTask{Title: "local"})
	require.NoError(t, err)
	w.Bump()

	select {
	case <-changes:
		t.Fatal("watcher fired for a write it was told about")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	w := NewWatcher(s, 10*time.Millisecond, func(string) {})
	require.NoError(t, w.Start())

	w.Stop()
	w.Stop()
}

func TestNewWatcherDefaultsInterval(t *testing.T) {
	s := newTestStore(t)

	w := NewWatcher(s, 0, func(string) {})
	require.Equal(t, DefaultPollInterval, w.interval)
}
