package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nvaih/taskdeck/internal/session"
	"github.com/nvaih/taskdeck/internal/ui/theme"
)

// StatsView shows aggregate counts and distribution charts
type StatsView struct {
	session *session.Session
	width   int
	height  int

	stats   session.Stats
	byDay   map[time.Weekday]int
	undated int
}

// NewStatsView creates a new stats view
func NewStatsView(sess *session.Session) StatsView {
	return StatsView{
		session: sess,
		byDay:   make(map[time.Weekday]int),
	}
}

// Init initializes the stats view
func (v StatsView) Init() tea.Cmd {
	return v.loadStats()
}

// SetSize sets the view dimensions
func (v StatsView) SetSize(width, height int) StatsView {
	v.width = width
	v.height = height
	return v
}

func (v StatsView) loadStats() tea.Cmd {
	return func() tea.Msg {
		byDay, undated := v.session.ByWeekday()
		return statsLoadedMsg{
			stats:   v.session.Stats(),
			byDay:   byDay,
			undated: undated,
		}
	}
}

type statsLoadedMsg struct {
	stats   session.Stats
	byDay   map[time.Weekday]int
	undated int
}

// Update handles messages
func (v StatsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		v.stats = msg.stats
		v.byDay = msg.byDay
		v.undated = msg.undated
		return v, nil

	case taskMutatedMsg:
		return v, v.loadStats()

	case tea.KeyMsg:
		if msg.String() == "r" {
			return v, v.loadStats()
		}
	}

	return v, nil
}

// IsInputMode returns whether the view is in input mode
func (v StatsView) IsInputMode() bool {
	return false
}

// View renders the stats view
func (v StatsView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	sections = append(sections, titleStyle.Render("Statistics"))
	sections = append(sections, "")

	// Summary cards (side by side)
	cardStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 2).
		Width(14)

	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	card := func(value int, label string, color lipgloss.Color) string {
		vs := valueStyle
		if color != "" {
			vs = vs.Foreground(color)
		}
		return cardStyle.Render(
			vs.Render(fmt.Sprintf("%d", value)) + "\n" + labelStyle.Render(label),
		)
	}

	cardRow := lipgloss.JoinHorizontal(lipgloss.Top,
		card(v.stats.Total, "Total", ""),
		card(v.stats.Done, "Done", t.StatusDone),
		card(v.stats.Pending, "Pending", t.StatusPending),
		card(v.stats.Overdue, "Overdue", t.StatusOverdue),
	)
	sections = append(sections, cardRow)
	sections = append(sections, "")

	sections = append(sections, v.renderStatusChart())
	sections = append(sections, "")
	sections = append(sections, v.renderWeekdayChart())
	sections = append(sections, "")

	hints := lipgloss.NewStyle().Foreground(t.Subtle).Render("r: refresh • 1-3: views")
	sections = append(sections, hints)

	return strings.Join(sections, "\n")
}

// renderStatusChart renders the status distribution as horizontal bars
func (v StatsView) renderStatusChart() string {
	t := theme.Current.Theme

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)

	var lines []string
	lines = append(lines, headerStyle.Render("By Status"))

	rows := []struct {
		label string
		count int
		color lipgloss.Color
	}{
		{"Pending", v.stats.Pending - v.stats.Overdue, t.StatusPending},
		{"Done", v.stats.Done, t.StatusDone},
		{"Overdue", v.stats.Overdue, t.StatusOverdue},
	}

	max := 1
	for _, r := range rows {
		if r.count > max {
			max = r.count
		}
	}

	barMaxWidth := 30
	for _, r := range rows {
		barWidth := r.count * barMaxWidth / max
		if barWidth < 1 && r.count > 0 {
			barWidth = 1
		}
		bar := lipgloss.NewStyle().Foreground(r.color).Render(strings.Repeat("█", barWidth))
		lines = append(lines, fmt.Sprintf("%-8s %s %d", r.label, bar, r.count))
	}

	return strings.Join(lines, "\n")
}

// renderWeekdayChart renders the due-date weekday distribution
func (v StatsView) renderWeekdayChart() string {
	t := theme.Current.Theme

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)

	var lines []string
	lines = append(lines, headerStyle.Render("Due Dates by Weekday"))

	type row struct {
		label string
		count int
	}
	rows := make([]row, 0, 8)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		rows = append(rows, row{wd.String()[:3], v.byDay[wd]})
	}
	rows = append(rows, row{"N/A", v.undated})

	max := 1
	for _, r := range rows {
		if r.count > max {
			max = r.count
		}
	}

	barMaxWidth := 30
	for _, r := range rows {
		barWidth := r.count * barMaxWidth / max
		if barWidth < 1 && r.count > 0 {
			barWidth = 1
		}
		bar := lipgloss.NewStyle().Foreground(t.Info).Render(strings.Repeat("█", barWidth))
		lines = append(lines, fmt.Sprintf("%-4s %s %d", r.label, bar, r.count))
	}

	return strings.Join(lines, "\n")
}
