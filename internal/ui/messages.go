package ui

// View represents the current active view
type View int

const (
	ViewList View = iota
	ViewCalendar
	ViewStats
	ViewHelp
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewList:
		return "List"
	case ViewCalendar:
		return "Calendar"
	case ViewStats:
		return "Stats"
	case ViewHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// ExternalChangeMsg indicates another session rewrote the persisted
// entry and the mirror was reloaded
type ExternalChangeMsg struct{}
