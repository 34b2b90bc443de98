package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/nvaih/taskdeck/internal/ui/views"
)

func TestRootSurfacesViewErrors(t *testing.T) {
	m := RootModel{keys: DefaultKeyMap()}

	updated, cmd := m.Update(views.ErrorMsg{Err: errors.New("write failed")})
	require.Nil(t, cmd)
	require.Equal(t, "write failed", updated.(RootModel).errorMsg)
}

func TestRootClearsErrorOnKeypress(t *testing.T) {
	m := RootModel{keys: DefaultKeyMap()}

	updated, _ := m.Update(views.ErrorMsg{Err: errors.New("write failed")})
	m = updated.(RootModel)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	require.Empty(t, updated.(RootModel).errorMsg)
}
