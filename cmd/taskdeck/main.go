package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nvaih/taskdeck/internal/app"
	"github.com/nvaih/taskdeck/internal/model"
	"github.com/nvaih/taskdeck/internal/notify"
	"github.com/nvaih/taskdeck/internal/session"
	"github.com/nvaih/taskdeck/internal/store"
	"github.com/nvaih/taskdeck/internal/ui"
	"github.com/nvaih/taskdeck/internal/ui/theme"
)

var (
	version = "0.1.0"
)

func main() {
	// Subcommand handling
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "add":
			handleAdd(os.Args[2:])
			return
		case "remind":
			handleRemind()
			return
		case "seed":
			handleSeed()
			return
		case "version":
			fmt.Printf("taskdeck v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	// Parse flags for TUI mode
	viewFlag := flag.String("view", "list", "Starting view (list, calendar, stats)")
	themeFlag := flag.String("theme", "", "Theme name (nord, dracula, gruvbox, catppuccin)")
	flag.Parse()

	if err := runTUI(*viewFlag, *themeFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `taskdeck - a single-user task manager

Usage:
  taskdeck                  Start the TUI
  taskdeck add <task>       Quick add a task
  taskdeck remind           Desktop notification with the overdue count
  taskdeck seed             Populate demo tasks
  taskdeck version          Show version
  taskdeck help             Show this help

Quick Add Syntax:
  taskdeck add "Buy groceries"
  taskdeck add "Hand in report due:friday"

  Due date:  due:today due:tomorrow due:friday due:2026-01-15

TUI Options:
  --view <name>     Starting view (list, calendar, stats)
  --theme <name>    Theme (nord, dracula, gruvbox, catppuccin)

Keybindings:
  Navigation:   ↑/↓ or j/k    Move cursor
                g/G           Go to top/bottom

  Actions:      a             Add new task
                enter         Edit task
                tab           Toggle done
                d             Delete (with confirm)
                f             Cycle filter

  Views:        1-3           Switch views
                ?             Help
                q             Quit`

	fmt.Println(help)
}

func handleAdd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: taskdeck add <task>")
		fmt.Fprintln(os.Stderr, "Example: taskdeck add \"Hand in report due:friday\"")
		os.Exit(1)
	}

	text := strings.Join(args, " ")
	title, dueDate := parseQuickAdd(text)

	// No lock needed for quick add; the running TUI picks the write up
	// through its change watcher
	st, err := store.Open(store.DefaultDBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	task, err := st.Create(store.CreateTask{Title: title, DueDate: dueDate})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating task: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created: %s\n", task.Title)
	if task.DueDate != nil {
		fmt.Printf("Due: %s\n", formatDueDate(*task.DueDate))
	}
}

func handleRemind() {
	st, err := store.Open(store.DefaultDBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	tasks, err := st.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing tasks: %v\n", err)
		os.Exit(1)
	}

	today := model.Today()
	overdue := 0
	for i := range tasks {
		if tasks[i].IsOverdue(today) {
			overdue++
		}
	}

	if err := notify.NewNotifier().SendOverdue(overdue); err != nil {
		// Fall back to stdout when no notification daemon is around
		fmt.Printf("%d overdue tasks\n", overdue)
		return
	}
	fmt.Printf("Notified: %d overdue tasks\n", overdue)
}

func handleSeed() {
	st, err := store.Open(store.DefaultDBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	sess, err := session.New(st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tasks: %v\n", err)
		os.Exit(1)
	}

	created, err := sess.SeedDemo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d demo tasks\n", len(created))
}

// parseQuickAdd splits a quick-add line into title and due date
func parseQuickAdd(text string) (string, *string) {
	words := strings.Fields(text)
	var titleParts []string
	var dueDate *string

	for _, word := range words {
		if strings.HasPrefix(strings.ToLower(word), "due:") {
			dateStr := strings.TrimPrefix(strings.ToLower(word), "due:")
			if parsed := parseNaturalDate(dateStr); parsed != nil {
				dueDate = parsed
				continue
			}
		}
		titleParts = append(titleParts, word)
	}

	return strings.Join(titleParts, " "), dueDate
}

// parseNaturalDate resolves today/tomorrow/weekday names and plain
// dates to the YYYY-MM-DD wire format
func parseNaturalDate(s string) *string {
	now := time.Now()

	format := func(t time.Time) *string {
		out := t.Format(model.DateLayout)
		return &out
	}

	switch strings.ToLower(s) {
	case "today":
		return format(now)
	case "tomorrow", "tom":
		return format(now.AddDate(0, 0, 1))
	case "monday", "mon":
		return format(nextWeekday(time.Monday))
	case "tuesday", "tue":
		return format(nextWeekday(time.Tuesday))
	case "wednesday", "wed":
		return format(nextWeekday(time.Wednesday))
	case "thursday", "thu":
		return format(nextWeekday(time.Thursday))
	case "friday", "fri":
		return format(nextWeekday(time.Friday))
	case "saturday", "sat":
		return format(nextWeekday(time.Saturday))
	case "sunday", "sun":
		return format(nextWeekday(time.Sunday))
	case "nextweek":
		return format(now.AddDate(0, 0, 7))
	}

	formats := []string{
		"2006-01-02",
		"01/02/2006",
		"01-02-2006",
		"Jan 2",
		"Jan 2, 2006",
	}

	for _, layout := range formats {
		if t, err := time.Parse(layout, s); err == nil {
			// If no year, use current year
			if t.Year() == 0 {
				t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
			}
			return format(t)
		}
	}

	return nil
}

func nextWeekday(day time.Weekday) time.Time {
	now := time.Now()

	daysUntil := int(day - now.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}

	return now.AddDate(0, 0, daysUntil)
}

func formatDueDate(due string) string {
	t, err := time.ParseInLocation(model.DateLayout, due, time.Local)
	if err != nil {
		return due
	}

	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return "today"
	}

	tomorrow := now.AddDate(0, 0, 1)
	if t.Year() == tomorrow.Year() && t.YearDay() == tomorrow.YearDay() {
		return "tomorrow"
	}

	if t.Year() == now.Year() {
		return t.Format("Mon, Jan 2")
	}

	return t.Format("Jan 2, 2006")
}

func runTUI(startView, themeName string) error {
	application, err := app.New(nil)
	if err != nil {
		return err
	}
	defer application.Close()

	if themeName != "" {
		if t, ok := theme.ByName(themeName); ok {
			theme.SetTheme(t)
		}
	}

	rootModel := ui.NewRootModel(application)
	switch startView {
	case "calendar":
		rootModel = rootModel.WithStartView(ui.ViewCalendar)
	case "stats":
		rootModel = rootModel.WithStartView(ui.ViewStats)
	}

	p := tea.NewProgram(
		rootModel,
		tea.WithAltScreen(),
	)

	// Push externally observed storage changes into the UI loop
	application.Session.SetOnReload(func() {
		p.Send(ui.ExternalChangeMsg{})
	})

	_, err = p.Run()
	return err
}
