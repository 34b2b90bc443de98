package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/nvaih/taskdeck/internal/session"
	"github.com/nvaih/taskdeck/internal/store"
)

// App holds the application state and dependencies
type App struct {
	Store    *store.Store
	Session  *session.Session
	Watcher  *store.Watcher
	DataDir  string
	lockFile *flock.Flock
}

// Config holds application configuration
type Config struct {
	DataDir      string
	DBPath       string
	PollInterval time.Duration
}

// DefaultConfig returns the default application configuration
func DefaultConfig() *Config {
	dataDir := store.DefaultDataDir()
	return &Config{
		DataDir:      dataDir,
		DBPath:       filepath.Join(dataDir, "taskdeck.db"),
		PollInterval: store.DefaultPollInterval,
	}
}

// New creates a new application instance
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	a := &App{DataDir: cfg.DataDir}

	if err := a.acquireLock(); err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		a.releaseLock()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	a.Store = st

	sess, err := session.New(st)
	if err != nil {
		st.Close()
		a.releaseLock()
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	a.Session = sess

	a.Watcher = store.NewWatcher(st, cfg.PollInterval, sess.HandleChange)
	sess.SetAfterWrite(a.Watcher.Bump)
	if err := a.Watcher.Start(); err != nil {
		st.Close()
		a.releaseLock()
		return nil, fmt.Errorf("failed to start change watcher: %w", err)
	}

	return a, nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "taskdeck.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of taskdeck is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.Watcher != nil {
		a.Watcher.Stop()
	}

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}

	a.releaseLock()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
