package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNotifyArgs(t *testing.T) {
	args := notifyArgs(Notification{
		Title:   "Overdue tasks",
		Body:    "2 tasks are past their due date",
		Urgency: UrgencyCritical,
		Timeout: 15 * time.Second,
		Icon:    "emblem-important-symbolic",
	})

	require.Equal(t, []string{
		"-u", "critical",
		"-t", "15000",
		"-i", "emblem-important-symbolic",
		"-a", "taskdeck",
		"Overdue tasks",
		"2 tasks are past their due date",
	}, args)
}

func TestNotifyArgsDefaults(t *testing.T) {
	args := notifyArgs(Notification{Title: "hello"})
	require.Equal(t, []string{"-u", "normal", "-a", "taskdeck", "hello"}, args)
}

func TestNotifyArgsLowUrgency(t *testing.T) {
	args := notifyArgs(Notification{Title: "All caught up", Urgency: UrgencyLow})
	require.Equal(t, []string{"-u", "low", "-a", "taskdeck", "All caught up"}, args)
}
