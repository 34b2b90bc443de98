package model

import (
	"time"
)

// DateLayout is the wire format for due dates: date only, no time component.
const DateLayout = "2006-01-02"

// Task represents a single unit of work
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *string    `json:"dueDate,omitempty"` // YYYY-MM-DD
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// IsDone returns true if the task has been completed
func (t *Task) IsDone() bool {
	return t.CompletedAt != nil
}

// IsOverdue returns true if the task is pending and its due date is
// strictly before today. A task due today is not overdue.
func (t *Task) IsOverdue(today string) bool {
	if t.DueDate == nil || t.IsDone() {
		return false
	}
	return *t.DueDate < today
}

// IsDueOn returns true if the task is due on the given date
func (t *Task) IsDueOn(date string) bool {
	return t.DueDate != nil && *t.DueDate == date
}

// DueWeekday returns the weekday the due date falls on.
// ok is false when the task has no due date or it does not parse.
func (t *Task) DueWeekday() (time.Weekday, bool) {
	if t.DueDate == nil {
		return 0, false
	}
	parsed, err := time.ParseInLocation(DateLayout, *t.DueDate, time.Local)
	if err != nil {
		return 0, false
	}
	return parsed.Weekday(), true
}

// Today returns the current local date in the due-date wire format
func Today() string {
	return time.Now().Format(DateLayout)
}
