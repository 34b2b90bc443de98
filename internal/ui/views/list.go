package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nvaih/taskdeck/internal/model"
	"github.com/nvaih/taskdeck/internal/session"
	"github.com/nvaih/taskdeck/internal/store"
	"github.com/nvaih/taskdeck/internal/ui/theme"
)

// Shared message types for the views package
type tasksLoadedMsg struct {
	tasks []model.Task
}

// taskMutatedMsg tells sibling views their data went stale
type taskMutatedMsg struct{}

// ErrorMsg carries a failed mutation up to the root model
type ErrorMsg struct {
	Err error
}

// Filter selects which tasks the list shows. Pure presentation: the
// session always exposes the full collection.
type Filter int

const (
	FilterAll Filter = iota
	FilterPending
	FilterDone
	FilterOverdue
)

// String returns the display name for a filter
func (f Filter) String() string {
	switch f {
	case FilterPending:
		return "pending"
	case FilterDone:
		return "done"
	case FilterOverdue:
		return "overdue"
	default:
		return "all"
	}
}

type listMode int

const (
	modeNormal listMode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
	modeConfirmClear
)

const (
	fieldTitle = iota
	fieldDue
	fieldDescription
	fieldCount
)

// ListView shows the task list with add/edit forms and filtering
type ListView struct {
	session *session.Session
	width   int
	height  int

	tasks  []model.Task
	cursor int
	filter Filter

	mode       listMode
	inputs     []textinput.Model
	focusIndex int
	editID     string

	statusMsg string
}

// NewListView creates a new list view
func NewListView(sess *session.Session) ListView {
	inputs := make([]textinput.Model, fieldCount)

	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200
	inputs[fieldTitle] = title

	due := textinput.New()
	due.Placeholder = "Due date (YYYY-MM-DD, optional)"
	due.CharLimit = 10
	inputs[fieldDue] = due

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 500
	inputs[fieldDescription] = desc

	return ListView{
		session: sess,
		inputs:  inputs,
	}
}

// Init initializes the list view
func (v ListView) Init() tea.Cmd {
	return v.loadTasks()
}

// SetSize sets the view dimensions
func (v ListView) SetSize(width, height int) ListView {
	v.width = width
	v.height = height
	for i := range v.inputs {
		v.inputs[i].Width = width - 8
	}
	return v
}

// IsInputMode returns whether the view is capturing text input
func (v ListView) IsInputMode() bool {
	return v.mode == modeAdd || v.mode == modeEdit
}

func (v ListView) loadTasks() tea.Cmd {
	return func() tea.Msg {
		return tasksLoadedMsg{tasks: v.session.Tasks()}
	}
}

// visible returns the tasks matching the active filter
func (v ListView) visible() []model.Task {
	if v.filter == FilterAll {
		return v.tasks
	}

	today := model.Today()
	var out []model.Task
	for _, t := range v.tasks {
		switch v.filter {
		case FilterPending:
			if !t.IsDone() {
				out = append(out, t)
			}
		case FilterDone:
			if t.IsDone() {
				out = append(out, t)
			}
		case FilterOverdue:
			if t.IsOverdue(today) {
				out = append(out, t)
			}
		}
	}
	return out
}

func (v *ListView) clampCursor() {
	max := len(v.visible()) - 1
	if v.cursor > max {
		v.cursor = max
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// Update handles messages
func (v ListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		v.tasks = msg.tasks
		v.clampCursor()
		return v, nil

	case taskMutatedMsg:
		return v, v.loadTasks()

	case tea.KeyMsg:
		switch v.mode {
		case modeAdd, modeEdit:
			return v.updateForm(msg)
		case modeConfirmDelete:
			return v.updateConfirmDelete(msg)
		case modeConfirmClear:
			return v.updateConfirmClear(msg)
		default:
			return v.updateNormal(msg)
		}
	}

	return v, nil
}

func (v ListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.statusMsg = ""
	visible := v.visible()

	switch msg.String() {
	case "j", "down":
		if v.cursor < len(visible)-1 {
			v.cursor++
		}
		return v, nil

	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case "g":
		v.cursor = 0
		return v, nil

	case "G":
		v.cursor = len(visible) - 1
		if v.cursor < 0 {
			v.cursor = 0
		}
		return v, nil

	case "f":
		v.filter = (v.filter + 1) % 4
		v.cursor = 0
		return v, nil

	case "a":
		v.mode = modeAdd
		v.editID = ""
		return v, v.focusForm("", "", "")

	case "enter":
		if v.cursor >= len(visible) {
			return v, nil
		}
		t := visible[v.cursor]
		v.mode = modeEdit
		v.editID = t.ID
		due := ""
		if t.DueDate != nil {
			due = *t.DueDate
		}
		return v, v.focusForm(t.Title, due, t.Description)

	case "tab":
		if v.cursor >= len(visible) {
			return v, nil
		}
		id := visible[v.cursor].ID
		return v, func() tea.Msg {
			if _, err := v.session.ToggleComplete(id); err != nil {
				return ErrorMsg{Err: err}
			}
			return taskMutatedMsg{}
		}

	case "d":
		if v.cursor < len(visible) {
			v.mode = modeConfirmDelete
		}
		return v, nil

	case "C":
		if len(v.tasks) > 0 {
			v.mode = modeConfirmClear
		}
		return v, nil

	case "s":
		if len(v.tasks) > 0 {
			v.statusMsg = "Demo data is for an empty list"
			return v, nil
		}
		return v, func() tea.Msg {
			if _, err := v.session.SeedDemo(); err != nil {
				return ErrorMsg{Err: err}
			}
			return taskMutatedMsg{}
		}
	}

	return v, nil
}

func (v ListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		visible := v.visible()
		v.mode = modeNormal
		if v.cursor >= len(visible) {
			return v, nil
		}
		id := visible[v.cursor].ID
		return v, func() tea.Msg {
			if _, err := v.session.DeleteTask(id); err != nil {
				return ErrorMsg{Err: err}
			}
			return taskMutatedMsg{}
		}
	default:
		v.mode = modeNormal
		return v, nil
	}
}

func (v ListView) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		v.mode = modeNormal
		return v, func() tea.Msg {
			if err := v.session.ClearAll(); err != nil {
				return ErrorMsg{Err: err}
			}
			return taskMutatedMsg{}
		}
	default:
		v.mode = modeNormal
		return v, nil
	}
}

func (v ListView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = modeNormal
		v.blurForm()
		return v, nil

	case "tab", "down":
		v.focusIndex = (v.focusIndex + 1) % fieldCount
		return v, v.refocus()

	case "shift+tab", "up":
		v.focusIndex = (v.focusIndex + fieldCount - 1) % fieldCount
		return v, v.refocus()

	case "enter":
		if v.focusIndex < fieldCount-1 {
			v.focusIndex++
			return v, v.refocus()
		}
		return v.submitForm()
	}

	var cmd tea.Cmd
	v.inputs[v.focusIndex], cmd = v.inputs[v.focusIndex].Update(msg)
	return v, cmd
}

func (v ListView) submitForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(v.inputs[fieldTitle].Value())
	due := strings.TrimSpace(v.inputs[fieldDue].Value())
	desc := strings.TrimSpace(v.inputs[fieldDescription].Value())

	if title == "" {
		v.statusMsg = "Title is required"
		v.focusIndex = fieldTitle
		return v, v.refocus()
	}
	if due != "" {
		if _, err := time.ParseInLocation(model.DateLayout, due, time.Local); err != nil {
			v.statusMsg = "Due date must be YYYY-MM-DD"
			v.focusIndex = fieldDue
			return v, v.refocus()
		}
	}

	sess := v.session
	editID := v.editID
	v.mode = modeNormal
	v.blurForm()
	v.statusMsg = ""

	return v, func() tea.Msg {
		if editID == "" {
			var duePtr *string
			if due != "" {
				duePtr = &due
			}
			if _, err := sess.AddTask(title, duePtr, desc); err != nil {
				return ErrorMsg{Err: err}
			}
			return taskMutatedMsg{}
		}

		patch := newEditPatch(editID, title, due, desc)
		if _, err := sess.UpdateTask(patch); err != nil {
			return ErrorMsg{Err: err}
		}
		return taskMutatedMsg{}
	}
}

func (v *ListView) focusForm(title, due, desc string) tea.Cmd {
	v.inputs[fieldTitle].SetValue(title)
	v.inputs[fieldDue].SetValue(due)
	v.inputs[fieldDescription].SetValue(desc)
	v.focusIndex = fieldTitle
	return v.refocus()
}

func (v *ListView) refocus() tea.Cmd {
	for i := range v.inputs {
		if i == v.focusIndex {
			v.inputs[i].Focus()
		} else {
			v.inputs[i].Blur()
		}
	}
	return textinput.Blink
}

func (v *ListView) blurForm() {
	for i := range v.inputs {
		v.inputs[i].Blur()
	}
}

// View renders the list
func (v ListView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	if v.mode == modeAdd || v.mode == modeEdit {
		return v.renderForm()
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	var lines []string

	stats := v.session.Stats()
	header := fmt.Sprintf("Tasks ─ %s   Total: %d • Done: %d • Overdue: %d",
		v.filter, stats.Total, stats.Done, stats.Overdue)
	lines = append(lines, styles.Title.Render(header))

	visible := v.visible()
	if len(visible) == 0 {
		empty := "No tasks yet. Press a to add one"
		if len(v.tasks) == 0 {
			empty += ", or s to seed demo data"
		} else {
			empty = fmt.Sprintf("No %s tasks", v.filter)
		}
		lines = append(lines, styles.Subtitle.Render(empty))
	}

	today := model.Today()
	for i, task := range visible {
		lines = append(lines, v.renderRow(task, i == v.cursor, today))
	}

	switch v.mode {
	case modeConfirmDelete:
		lines = append(lines, "")
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render("Delete this task? (y/n)"))
	case modeConfirmClear:
		lines = append(lines, "")
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render("Delete ALL tasks? (y/n)"))
	}

	if v.statusMsg != "" {
		lines = append(lines, "")
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg))
	}

	return strings.Join(lines, "\n")
}

func (v ListView) renderRow(task model.Task, selected bool, today string) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	checkbox := "☐"
	if task.IsDone() {
		checkbox = "☑"
	}

	titleStyle := styles.TaskNormal
	switch {
	case task.IsDone():
		titleStyle = styles.TaskDone
	case task.IsOverdue(today):
		titleStyle = styles.TaskOverdue
	}
	if selected {
		titleStyle = styles.TaskSelected
	}

	title := truncate(task.Title, v.width-24)

	var due string
	if task.DueDate != nil {
		dueStyle := styles.DueDate
		if task.IsOverdue(today) {
			dueStyle = lipgloss.NewStyle().Foreground(t.Error)
		}
		due = " " + dueStyle.Render(formatDue(*task.DueDate, today))
	}

	var desc string
	if task.Description != "" && selected {
		desc = "\n    " + styles.Label.Render(task.Description)
	}

	cursor := "  "
	if selected {
		cursor = lipgloss.NewStyle().Foreground(t.Primary).Render("❯ ")
	}

	return cursor + checkbox + " " + titleStyle.Render(title) + due + desc
}

func (v ListView) renderForm() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	header := "Add Task"
	if v.mode == modeEdit {
		header = "Edit Task"
	}

	var lines []string
	lines = append(lines, styles.Title.Render(header))

	labels := []string{"Title", "Due date", "Description"}
	for i, in := range v.inputs {
		box := styles.Input
		if i == v.focusIndex {
			box = styles.InputFocused
		}
		lines = append(lines, styles.Label.Render(labels[i]))
		lines = append(lines, box.Render(in.View()))
	}

	if v.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render(v.statusMsg))
	}

	lines = append(lines, "")
	lines = append(lines, styles.HelpDesc.Render("tab: next field • enter: save • esc: cancel"))

	return strings.Join(lines, "\n")
}

// newEditPatch maps the edit form back onto a store patch: blank
// optional fields clear the stored value instead of being skipped.
func newEditPatch(id, title, due, desc string) store.TaskPatch {
	patch := store.TaskPatch{ID: id, Title: &title}

	if due == "" {
		patch.ClearDueDate = true
	} else {
		patch.DueDate = &due
	}
	if desc == "" {
		patch.ClearDescription = true
	} else {
		patch.Description = &desc
	}
	return patch
}

// truncate shortens s to max runes, ellipsized. Counting runes keeps a
// multibyte title from being cut mid-sequence.
func truncate(s string, max int) string {
	if max <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// formatDue renders a due date relative to today
func formatDue(due, today string) string {
	dueT, err := time.ParseInLocation(model.DateLayout, due, time.Local)
	if err != nil {
		return due
	}
	todayT, _ := time.ParseInLocation(model.DateLayout, today, time.Local)

	days := int(dueT.Sub(todayT).Hours() / 24)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days < 0:
		return fmt.Sprintf("%dd overdue", -days)
	case days < 7:
		return dueT.Format("Mon")
	case dueT.Year() == todayT.Year():
		return dueT.Format("Jan 2")
	default:
		return dueT.Format("Jan 2, 2006")
	}
}
