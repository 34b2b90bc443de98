package store

import (
	"sync/atomic"
	"time"
)

// DefaultPollInterval is how often the watcher checks the entry revision.
const DefaultPollInterval = 2 * time.Second

// Watcher observes the persisted entry for writes made by another
// process sharing the same database file and invokes a callback when
// one lands. Polling the revision counter keeps the mechanism local and
// swappable; the callback receives the entry key so the listener can
// decide whether it cares.
type Watcher struct {
	store    *Store
	interval time.Duration
	onChange func(key string)

	lastRev atomic.Int64
	done    chan struct{}
}

// NewWatcher creates a watcher for the store's persisted entry
func NewWatcher(s *Store, interval time.Duration, onChange func(key string)) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		store:    s,
		interval: interval,
		onChange: onChange,
	}
}

// Start begins polling. The initial revision is captured first so the
// watcher only fires for writes that happen after Start.
func (w *Watcher) Start() error {
	rev, err := w.store.Revision()
	if err != nil {
		return err
	}
	w.lastRev.Store(rev)
	w.done = make(chan struct{})

	go w.loop()
	return nil
}

// Stop halts polling. Safe to call more than once.
func (w *Watcher) Stop() {
	if w.done != nil {
		select {
		case <-w.done:
		default:
			close(w.done)
		}
	}
}

func (w *Watcher) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			rev, err := w.store.Revision()
			if err != nil {
				continue
			}
			if w.lastRev.Swap(rev) != rev {
				w.onChange(EntryKey)
			}
		}
	}
}

// Bump records a locally observed revision so the watcher does not fire
// for this session's own writes.
func (w *Watcher) Bump() {
	rev, err := w.store.Revision()
	if err != nil {
		return
	}
	w.lastRev.Store(rev)
}
