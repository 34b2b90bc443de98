package views

import (
	"path/filepath"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/nvaih/taskdeck/internal/session"
	"github.com/nvaih/taskdeck/internal/store"
)

func newTestListView(t *testing.T) (ListView, *session.Session, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	sess, err := session.New(st)
	require.NoError(t, err)

	return NewListView(sess), sess, st
}

func loadTasks(t *testing.T, v ListView, sess *session.Session) ListView {
	t.Helper()

	m, _ := v.Update(tasksLoadedMsg{tasks: sess.Tasks()})
	return m.(ListView)
}

func TestToggleCommandReportsMutation(t *testing.T) {
	v, sess, _ := newTestListView(t)

	_, err := sess.AddTask("toggle me", nil, "")
	require.NoError(t, err)
	v = loadTasks(t, v, sess)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	require.IsType(t, taskMutatedMsg{}, cmd())

	tasks := sess.Tasks()
	require.Len(t, tasks, 1)
	require.True(t, tasks[0].IsDone())
}

func TestToggleCommandSurfacesStoreError(t *testing.T) {
	v, sess, st := newTestListView(t)

	_, err := sess.AddTask("doomed write", nil, "")
	require.NoError(t, err)
	v = loadTasks(t, v, sess)

	// With the store gone every mutation fails; the command must carry
	// the error up instead of pretending the write landed
	require.NoError(t, st.Close())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)

	msg := cmd()
	errMsg, ok := msg.(ErrorMsg)
	require.True(t, ok, "got %T", msg)
	require.Error(t, errMsg.Err)
}

func TestClearAllCommandSurfacesStoreError(t *testing.T) {
	v, sess, st := newTestListView(t)

	_, err := sess.AddTask("survivor", nil, "")
	require.NoError(t, err)
	v = loadTasks(t, v, sess)

	require.NoError(t, st.Close())

	m, _ := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'C'}})
	v = m.(ListView)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.NotNil(t, cmd)

	msg := cmd()
	errMsg, ok := msg.(ErrorMsg)
	require.True(t, ok, "got %T", msg)
	require.Error(t, errMsg.Err)
}

func TestTruncateIsRuneSafe(t *testing.T) {
	title := "Ôn tập giải tích chương ba"

	got := truncate(title, 10)
	require.Equal(t, "Ôn tập ...", got)
	require.True(t, utf8.ValidString(got))
	require.LessOrEqual(t, len([]rune(got)), 10)
}

func TestTruncateLeavesShortStrings(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "ab", truncate("ab", 2))
	require.Equal(t, "untouched", truncate("untouched", 3))
}
