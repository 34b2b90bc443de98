package session

import (
	"strings"
	"sync"
	"time"

	"github.com/nvaih/taskdeck/internal/model"
	"github.com/nvaih/taskdeck/internal/store"
)

// NoDueDate is the bucket key for tasks without a due date.
const NoDueDate = "No Due Date"

// Stats holds the aggregate counts derived from the task collection
type Stats struct {
	Total   int
	Done    int
	Pending int
	Overdue int
}

// Session keeps an in-memory mirror of the store's task collection for
// the UI to consume. Every mutation updates the mirror from the store's
// authoritative result, never from caller input, so stored ids and
// timestamps are always reflected. The mirror is disposable: Reload
// rebuilds it wholesale from the store.
type Session struct {
	store *store.Store

	mu    sync.Mutex
	tasks []model.Task

	// invoked after an externally triggered reload
	onReload func()

	// invoked after every successful store write from this session
	afterWrite func()
}

// New creates a session and loads the current collection into memory
func New(s *store.Store) (*Session, error) {
	tasks, err := s.List()
	if err != nil {
		return nil, err
	}
	return &Session{store: s, tasks: tasks}, nil
}

// SetOnReload registers an observer called after an external change
// forced a reload. Must be set before the watcher starts.
func (s *Session) SetOnReload(fn func()) {
	s.onReload = fn
}

// SetAfterWrite registers a hook run after this session's own writes,
// so the change watcher can skip them. Must be set before first use.
func (s *Session) SetAfterWrite(fn func()) {
	s.afterWrite = fn
}

func (s *Session) wrote() {
	if s.afterWrite != nil {
		s.afterWrite()
	}
}

// Tasks returns a copy of the in-memory collection
func (s *Session) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// AddTask creates a task through the store and mirrors the result.
// A blank title is silently ignored: no task is created, nil returned.
func (s *Session) AddTask(title string, dueDate *string, description string) (*model.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, nil
	}

	created, err := s.store.Create(store.CreateTask{
		Title:       title,
		DueDate:     dueDate,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, *created)
	s.mu.Unlock()
	s.wrote()

	return created, nil
}

// ToggleComplete flips completion on the task: a pending task gets a
// completion timestamp, a done task has it cleared. Unknown ids are a
// no-op. The mirror only changes once the store confirms the update.
func (s *Session) ToggleComplete(id string) (*model.Task, error) {
	s.mu.Lock()
	var cur *model.Task
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			cur = &s.tasks[i]
			break
		}
	}
	if cur == nil {
		s.mu.Unlock()
		return nil, nil
	}

	patch := store.TaskPatch{ID: id}
	if cur.IsDone() {
		patch.ClearCompletedAt = true
	} else {
		now := time.Now()
		patch.CompletedAt = &now
	}
	s.mu.Unlock()

	return s.applyUpdate(patch)
}

// UpdateTask applies a partial update through the store and mirrors the
// returned record. Unknown ids leave the mirror unchanged.
func (s *Session) UpdateTask(patch store.TaskPatch) (*model.Task, error) {
	return s.applyUpdate(patch)
}

func (s *Session) applyUpdate(patch store.TaskPatch) (*model.Task, error) {
	updated, err := s.store.Update(patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == updated.ID {
			s.tasks[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	s.wrote()

	return updated, nil
}

// DeleteTask removes the task from store and mirror. Deleting an absent
// id is not an error; the mirror is pruned regardless of the store's
// answer so the caller sees idempotent behavior.
func (s *Session) DeleteTask(id string) (bool, error) {
	changed, err := s.store.Delete(id)

	s.mu.Lock()
	next := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	s.tasks = next
	s.mu.Unlock()
	if changed {
		s.wrote()
	}

	return changed, err
}

// ClearAll empties both the store and the mirror
func (s *Session) ClearAll() error {
	if err := s.store.ClearAll(); err != nil {
		return err
	}

	s.mu.Lock()
	s.tasks = []model.Task{}
	s.mu.Unlock()
	s.wrote()

	return nil
}

// Reload discards the mirror and reloads from the store
func (s *Session) Reload() error {
	tasks, err := s.store.List()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()

	return nil
}

// HandleChange is the watcher callback: on a write to our entry from
// another session, reload wholesale. Last writer wins; there is no
// merge or conflict resolution.
func (s *Session) HandleChange(key string) {
	if key != store.EntryKey {
		return
	}
	if err := s.Reload(); err != nil {
		return
	}
	if s.onReload != nil {
		s.onReload()
	}
}

// Stats recomputes the aggregate counts from the mirror
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := model.Today()
	st := Stats{Total: len(s.tasks)}
	for i := range s.tasks {
		if s.tasks[i].IsDone() {
			st.Done++
		} else if s.tasks[i].IsOverdue(today) {
			st.Overdue++
		}
	}
	st.Pending = st.Total - st.Done
	return st
}

// ByDueDate groups tasks by their due date for calendar rendering.
// Tasks without one land under the NoDueDate key.
func (s *Session) ByDueDate() map[string][]model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	buckets := make(map[string][]model.Task)
	for _, t := range s.tasks {
		key := NoDueDate
		if t.DueDate != nil {
			key = *t.DueDate
		}
		buckets[key] = append(buckets[key], t)
	}
	return buckets
}

// ByWeekday counts tasks by the weekday their due date falls on. The
// second result counts tasks without a due date.
func (s *Session) ByWeekday() (map[time.Weekday]int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[time.Weekday]int)
	undated := 0
	for i := range s.tasks {
		if wd, ok := s.tasks[i].DueWeekday(); ok {
			counts[wd]++
		} else {
			undated++
		}
	}
	return counts, undated
}
