package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nvaih/taskdeck/internal/model"
	"github.com/nvaih/taskdeck/internal/session"
	"github.com/nvaih/taskdeck/internal/ui/theme"
)

// CalendarView shows tasks on a month grid, bucketed by due date
type CalendarView struct {
	session *session.Session
	width   int
	height  int

	// Current month being displayed
	year  int
	month time.Month

	// Selected day
	selectedDay int

	// Tasks indexed by day of month, plus those without a due date
	tasksByDay map[int][]model.Task
	undated    int
}

// NewCalendarView creates a new calendar view
func NewCalendarView(sess *session.Session) CalendarView {
	now := time.Now()
	return CalendarView{
		session:     sess,
		year:        now.Year(),
		month:       now.Month(),
		selectedDay: now.Day(),
		tasksByDay:  make(map[int][]model.Task),
	}
}

// Init initializes the calendar view
func (v CalendarView) Init() tea.Cmd {
	return v.loadMonth()
}

// SetSize sets the view dimensions
func (v CalendarView) SetSize(width, height int) CalendarView {
	v.width = width
	v.height = height
	return v
}

// loadMonth buckets the collection for the displayed month
func (v CalendarView) loadMonth() tea.Cmd {
	return func() tea.Msg {
		buckets := v.session.ByDueDate()

		tasksByDay := make(map[int][]model.Task)
		undated := len(buckets[session.NoDueDate])

		for d := 1; d <= daysIn(v.year, v.month); d++ {
			key := time.Date(v.year, v.month, d, 0, 0, 0, 0, time.Local).Format(model.DateLayout)
			if items := buckets[key]; len(items) > 0 {
				tasksByDay[d] = items
			}
		}

		return calendarLoadedMsg{tasksByDay: tasksByDay, undated: undated}
	}
}

type calendarLoadedMsg struct {
	tasksByDay map[int][]model.Task
	undated    int
}

// Update handles messages
func (v CalendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarLoadedMsg:
		v.tasksByDay = msg.tasksByDay
		v.undated = msg.undated
		return v, nil

	case taskMutatedMsg:
		return v, v.loadMonth()

	case tea.KeyMsg:
		daysInMonth := daysIn(v.year, v.month)

		switch msg.String() {
		// Navigate days
		case "h", "left":
			if v.selectedDay > 1 {
				v.selectedDay--
			}
			return v, nil

		case "l", "right":
			if v.selectedDay < daysInMonth {
				v.selectedDay++
			}
			return v, nil

		case "k", "up":
			if v.selectedDay > 7 {
				v.selectedDay -= 7
			}
			return v, nil

		case "j", "down":
			if v.selectedDay+7 <= daysInMonth {
				v.selectedDay += 7
			}
			return v, nil

		// Navigate months
		case "H", "pgup":
			v.month--
			if v.month < 1 {
				v.month = 12
				v.year--
			}
			v.clampSelectedDay()
			return v, v.loadMonth()

		case "L", "pgdown":
			v.month++
			if v.month > 12 {
				v.month = 1
				v.year++
			}
			v.clampSelectedDay()
			return v, v.loadMonth()

		case "t": // Today
			now := time.Now()
			v.year = now.Year()
			v.month = now.Month()
			v.selectedDay = now.Day()
			return v, v.loadMonth()

		case "g":
			v.selectedDay = 1
			return v, nil

		case "G":
			v.selectedDay = daysInMonth
			return v, nil
		}
	}

	return v, nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// clampSelectedDay ensures selected day is valid for current month
func (v *CalendarView) clampSelectedDay() {
	daysInMonth := daysIn(v.year, v.month)
	if v.selectedDay > daysInMonth {
		v.selectedDay = daysInMonth
	}
}

// IsInputMode returns whether the view is in input mode
func (v CalendarView) IsInputMode() bool {
	return false
}

// View renders the calendar
func (v CalendarView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme

	// Split into two panels: calendar (left) and task list (right)
	calWidth := 28 // Fixed width for calendar grid
	listWidth := v.width - calWidth - 4

	calendar := v.renderGrid(calWidth)
	taskList := v.renderDayTasks(listWidth)

	panels := lipgloss.JoinHorizontal(lipgloss.Top, calendar, taskList)

	var lines []string
	lines = append(lines, panels)

	if v.undated > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Subtle).Render(
			fmt.Sprintf("%d tasks without a due date (shown in list view)", v.undated),
		))
	}

	hints := lipgloss.NewStyle().Foreground(t.Subtle).Render(
		"h/j/k/l: navigate days • H/L: change month • t: today",
	)
	lines = append(lines, hints)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderGrid renders the calendar grid
func (v CalendarView) renderGrid(width int) string {
	t := theme.Current.Theme

	monthName := fmt.Sprintf("%s %d", v.month.String(), v.year)
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Width(width).
		Align(lipgloss.Center)

	dayLabelStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Width(4).
		Align(lipgloss.Center)

	var lines []string
	lines = append(lines, headerStyle.Render(monthName))
	lines = append(lines, dayLabelStyle.Render("Su Mo Tu We Th Fr Sa"))

	firstDay := time.Date(v.year, v.month, 1, 0, 0, 0, 0, time.Local)
	startWeekday := int(firstDay.Weekday()) // 0 = Sunday

	daysInMonth := daysIn(v.year, v.month)

	now := time.Now()
	isCurrentMonth := v.year == now.Year() && v.month == now.Month()
	today := now.Day()

	var week []string
	for i := 0; i < startWeekday; i++ {
		week = append(week, "   ")
	}

	for day := 1; day <= daysInMonth; day++ {
		dayStyle := lipgloss.NewStyle().Width(3).Align(lipgloss.Center)

		hasTasks := len(v.tasksByDay[day]) > 0
		isSelected := day == v.selectedDay
		isToday := isCurrentMonth && day == today

		if isSelected {
			dayStyle = dayStyle.Background(t.Highlight).Bold(true)
		}
		if isToday {
			dayStyle = dayStyle.Foreground(t.Primary)
		}
		if hasTasks && !isSelected {
			dayStyle = dayStyle.Foreground(t.Info)
		}

		dayStr := fmt.Sprintf("%2d", day)
		if hasTasks {
			dayStr += "•"
		} else {
			dayStr += " "
		}

		week = append(week, dayStyle.Render(dayStr))

		if (startWeekday+day)%7 == 0 {
			lines = append(lines, strings.Join(week, ""))
			week = nil
		}
	}

	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, "   ")
		}
		lines = append(lines, strings.Join(week, ""))
	}

	content := strings.Join(lines, "\n")
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return boxStyle.Render(content)
}

// renderDayTasks renders the task list for the selected day
func (v CalendarView) renderDayTasks(width int) string {
	t := theme.Current.Theme

	date := time.Date(v.year, v.month, v.selectedDay, 0, 0, 0, 0, time.Local)
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Width(width)

	header := headerStyle.Render(date.Format("Monday, January 2"))

	tasks := v.tasksByDay[v.selectedDay]
	today := model.Today()

	var lines []string
	lines = append(lines, header)
	lines = append(lines, "")

	if len(tasks) == 0 {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(t.Subtle).
			Italic(true).
			Render("No tasks due this day"))
	} else {
		for _, task := range tasks {
			checkbox := "☐"
			if task.IsDone() {
				checkbox = "☑"
			}

			title := truncate(task.Title, width-8)

			taskStyle := lipgloss.NewStyle().Foreground(t.Foreground)
			if task.IsDone() {
				taskStyle = taskStyle.Strikethrough(true).Foreground(t.Subtle)
			} else if task.IsOverdue(today) {
				taskStyle = taskStyle.Foreground(t.StatusOverdue)
			}

			lines = append(lines, fmt.Sprintf("%s %s", checkbox, taskStyle.Render(title)))

			if task.Description != "" {
				lines = append(lines, "  "+lipgloss.NewStyle().Foreground(t.Subtle).Render(task.Description))
			}
		}
	}

	content := strings.Join(lines, "\n")
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		Width(width)

	return boxStyle.Render(content)
}
