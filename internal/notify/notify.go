package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier handles sending desktop notifications
type Notifier struct{}

// NewNotifier creates a new notifier
func NewNotifier() *Notifier {
	return &Notifier{}
}

// notifyArgs maps a notification onto the notify-send argument list
func notifyArgs(n Notification) []string {
	args := []string{}

	switch n.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	if n.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(n.Timeout.Milliseconds())))
	}

	if n.Icon != "" {
		args = append(args, "-i", n.Icon)
	}

	args = append(args, "-a", "taskdeck")

	args = append(args, n.Title)
	if n.Body != "" {
		args = append(args, n.Body)
	}

	return args
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	cmd := exec.Command("notify-send", notifyArgs(notification)...)
	return cmd.Run()
}

// SendOverdue reports how many tasks are past their due date
func (n *Notifier) SendOverdue(count int) error {
	if count == 0 {
		return n.Send(Notification{
			Title:   "All caught up",
			Body:    "No overdue tasks",
			Urgency: UrgencyLow,
			Timeout: 5 * time.Second,
			Icon:    "emblem-default-symbolic",
		})
	}

	body := fmt.Sprintf("%d tasks are past their due date", count)
	if count == 1 {
		body = "1 task is past its due date"
	}

	return n.Send(Notification{
		Title:   "Overdue tasks",
		Body:    body,
		Urgency: UrgencyCritical,
		Timeout: 15 * time.Second,
		Icon:    "emblem-important-symbolic",
	})
}
