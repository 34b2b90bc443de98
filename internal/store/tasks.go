package store

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nvaih/taskdeck/internal/model"
)

// ErrEmptyTitle is returned when a create carries a blank title.
var ErrEmptyTitle = errors.New("task title is empty")

// CreateTask carries the caller-supplied fields for a new task
type CreateTask struct {
	Title       string
	DueDate     *string
	Description string
}

// TaskPatch is a partial update for a task. Nil fields are left
// unchanged; the Clear flags remove the corresponding value, which a
// nil pointer alone cannot express.
type TaskPatch struct {
	ID          string
	Title       *string
	Description *string
	DueDate     *string
	CompletedAt *time.Time

	ClearDescription bool
	ClearDueDate     bool
	ClearCompletedAt bool
}

// List returns the persisted task collection. A missing, corrupt, or
// non-list entry is treated as an empty collection, never as an error.
func (s *Store) List() ([]model.Task, error) {
	raw, err := s.loadRaw()
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return []model.Task{}, nil
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return []model.Task{}, nil
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Create appends a new task to the collection and returns it
func (s *Store) Create(in CreateTask) (*model.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrEmptyTitle
	}

	tasks, err := s.List()
	if err != nil {
		return nil, err
	}

	task := model.Task{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		CreatedAt:   time.Now(),
	}

	tasks = append(tasks, task)
	if err := s.save(tasks); err != nil {
		return nil, err
	}

	return &task, nil
}

// Update merges a patch onto the stored task. Returns nil, nil when no
// task with the patch's id exists; storage is untouched in that case.
func (s *Store) Update(patch TaskPatch) (*model.Task, error) {
	tasks, err := s.List()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range tasks {
		if tasks[i].ID == patch.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil
	}

	t := tasks[idx]

	// A blank title is rejected by retaining the previous one
	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.ClearDescription {
		t.Description = ""
	}
	if patch.DueDate != nil {
		t.DueDate = patch.DueDate
	}
	if patch.ClearDueDate {
		t.DueDate = nil
	}
	if patch.CompletedAt != nil {
		t.CompletedAt = patch.CompletedAt
	}
	if patch.ClearCompletedAt {
		t.CompletedAt = nil
	}

	tasks[idx] = t
	if err := s.save(tasks); err != nil {
		return nil, err
	}

	return &t, nil
}

// Delete removes the task with the given id. The returned bool reports
// whether anything was removed; storage is rewritten only on change.
func (s *Store) Delete(id string) (bool, error) {
	tasks, err := s.List()
	if err != nil {
		return false, err
	}

	next := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	if len(next) == len(tasks) {
		return false, nil
	}

	if err := s.save(next); err != nil {
		return false, err
	}
	return true, nil
}

// ClearAll overwrites the entry with an empty collection
func (s *Store) ClearAll() error {
	return s.save([]model.Task{})
}

func (s *Store) save(tasks []model.Task) error {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return s.saveRaw(string(raw))
}
