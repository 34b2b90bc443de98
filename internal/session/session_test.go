package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nvaih/taskdeck/internal/model"
	"github.com/nvaih/taskdeck/internal/store"
)

func newTestSession(t *testing.T) (*Session, *store.Store) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	sess, err := New(st)
	require.NoError(t, err)

	return sess, st
}

func strPtr(s string) *string { return &s }

func dateOffset(days int) string {
	return time.Now().AddDate(0, 0, days).Format(model.DateLayout)
}

func TestAddTaskMirrorsStoreResult(t *testing.T) {
	sess, st := newTestSession(t)

	created, err := sess.AddTask("Buy milk", strPtr("2026-09-10"), "two liters")
	require.NoError(t, err)
	require.NotNil(t, created)
	require.NotEmpty(t, created.ID)

	mirror := sess.Tasks()
	require.Len(t, mirror, 1)
	require.Equal(t, created.ID, mirror[0].ID)
	require.Equal(t, "Buy milk", mirror[0].Title)

	// The mirror must match what actually got persisted
	stored, err := st.List()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, mirror[0].ID, stored[0].ID)
}

func TestAddTaskBlankTitleIsSilentNoOp(t *testing.T) {
	sess, st := newTestSession(t)

	for _, title := range []string{"", "   "} {
		created, err := sess.AddTask(title, nil, "")
		require.NoError(t, err)
		require.Nil(t, created)
	}

	require.Empty(t, sess.Tasks())

	stored, err := st.List()
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestToggleCompleteFlipsBothWays(t *testing.T) {
	sess, _ := newTestSession(t)

	created, err := sess.AddTask("Toggle me", nil, "")
	require.NoError(t, err)

	done, err := sess.ToggleComplete(created.ID)
	require.NoError(t, err)
	require.NotNil(t, done)
	require.NotNil(t, done.CompletedAt)
	require.True(t, done.IsDone())

	undone, err := sess.ToggleComplete(created.ID)
	require.NoError(t, err)
	require.NotNil(t, undone)
	require.Nil(t, undone.CompletedAt)
	require.False(t, undone.IsDone())

	mirror := sess.Tasks()
	require.Len(t, mirror, 1)
	require.Nil(t, mirror[0].CompletedAt)
}

func TestToggleCompleteUnknownIDIsNoOp(t *testing.T) {
	sess, _ := newTestSession(t)

	_, err := sess.AddTask("bystander", nil, "")
	require.NoError(t, err)

	updated, err := sess.ToggleComplete("no-such-id")
	require.NoError(t, err)
	require.Nil(t, updated)
	require.Len(t, sess.Tasks(), 1)
}

func TestUpdateTaskUnknownIDLeavesMirrorUnchanged(t *testing.T) {
	sess, _ := newTestSession(t)

	created, err := sess.AddTask("Stable", nil, "")
	require.NoError(t, err)

	updated, err := sess.UpdateTask(store.TaskPatch{ID: "missing", Title: strPtr("x")})
	require.NoError(t, err)
	require.Nil(t, updated)

	mirror := sess.Tasks()
	require.Len(t, mirror, 1)
	require.Equal(t, created.ID, mirror[0].ID)
	require.Equal(t, "Stable", mirror[0].Title)
}

func TestDeleteTaskPrunesMirror(t *testing.T) {
	sess, _ := newTestSession(t)

	created, err := sess.AddTask("doomed", nil, "")
	require.NoError(t, err)

	changed, err := sess.DeleteTask(created.ID)
	require.NoError(t, err)
	require.True(t, changed)
	require.Empty(t, sess.Tasks())

	changed, err = sess.DeleteTask(created.ID)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestClearAll(t *testing.T) {
	sess, st := newTestSession(t)

	for i := 0; i < 3; i++ {
		_, err := sess.AddTask("t", nil, "")
		require.NoError(t, err)
	}

	require.NoError(t, sess.ClearAll())
	require.Empty(t, sess.Tasks())

	stored, err := st.List()
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestStatsInvariants(t *testing.T) {
	sess, _ := newTestSession(t)

	yesterday := dateOffset(-1)
	today := dateOffset(0)
	tomorrow := dateOffset(1)

	a, err := sess.AddTask("overdue", &yesterday, "")
	require.NoError(t, err)
	_, err = sess.AddTask("due today", &today, "")
	require.NoError(t, err)
	_, err = sess.AddTask("due tomorrow", &tomorrow, "")
	require.NoError(t, err)
	_, err = sess.AddTask("undated", nil, "")
	require.NoError(t, err)

	stats := sess.Stats()
	require.Equal(t, 4, stats.Total)
	require.Equal(t, 0, stats.Done)
	require.Equal(t, 4, stats.Pending)
	require.Equal(t, 1, stats.Overdue)
	require.Equal(t, stats.Total, stats.Done+stats.Pending)
	require.LessOrEqual(t, stats.Overdue, stats.Pending)

	// A completed task never counts as overdue even with a past due date
	_, err = sess.ToggleComplete(a.ID)
	require.NoError(t, err)

	stats = sess.Stats()
	require.Equal(t, 4, stats.Total)
	require.Equal(t, 1, stats.Done)
	require.Equal(t, 3, stats.Pending)
	require.Equal(t, 0, stats.Overdue)
}

func TestStatsDueTodayIsNotOverdue(t *testing.T) {
	sess, _ := newTestSession(t)

	today := dateOffset(0)
	_, err := sess.AddTask("due today", &today, "")
	require.NoError(t, err)

	stats := sess.Stats()
	require.Equal(t, 0, stats.Overdue)
}

func TestByDueDateBuckets(t *testing.T) {
	sess, _ := newTestSession(t)

	due := "2026-09-20"
	_, err := sess.AddTask("first", &due, "")
	require.NoError(t, err)
	_, err = sess.AddTask("second", &due, "")
	require.NoError(t, err)
	_, err = sess.AddTask("floating", nil, "")
	require.NoError(t, err)

	buckets := sess.ByDueDate()
	require.Len(t, buckets, 2)
	require.Len(t, buckets[due], 2)
	require.Len(t, buckets[NoDueDate], 1)
	require.Equal(t, "floating", buckets[NoDueDate][0].Title)
}

func TestByWeekday(t *testing.T) {
	sess, _ := newTestSession(t)

	// 2026-09-07 is a Monday
	monday := "2026-09-07"
	tuesday := "2026-09-08"
	_, err := sess.AddTask("a", &monday, "")
	require.NoError(t, err)
	_, err = sess.AddTask("b", &monday, "")
	require.NoError(t, err)
	_, err = sess.AddTask("c", &tuesday, "")
	require.NoError(t, err)
	_, err = sess.AddTask("d", nil, "")
	require.NoError(t, err)

	counts, undated := sess.ByWeekday()
	require.Equal(t, 2, counts[time.Monday])
	require.Equal(t, 1, counts[time.Tuesday])
	require.Equal(t, 1, undated)
}

func TestSeedDemo(t *testing.T) {
	sess, st := newTestSession(t)

	created, err := sess.SeedDemo()
	require.NoError(t, err)
	require.Len(t, created, 12)

	stats := sess.Stats()
	require.Equal(t, 12, stats.Total)
	require.Equal(t, 0, stats.Done)
	require.Equal(t, 12, stats.Pending)
	require.Equal(t, 0, stats.Overdue, "samples are due today or later")

	// Every sample carries a due date
	buckets := sess.ByDueDate()
	require.Empty(t, buckets[NoDueDate])

	stored, err := st.List()
	require.NoError(t, err)
	require.Len(t, stored, 12)
}

func TestSeedDemoIsNotIdempotent(t *testing.T) {
	sess, _ := newTestSession(t)

	_, err := sess.SeedDemo()
	require.NoError(t, err)
	_, err = sess.SeedDemo()
	require.NoError(t, err)

	require.Len(t, sess.Tasks(), 24)
}

func TestHandleChangeReloadsFromStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shared.db")

	a, err := store.Open(dbPath)
	require.NoError(t, err)
	defer a.Close()

	b, err := store.Open(dbPath)
	require.NoError(t, err)
	defer b.Close()

	sess, err := New(a)
	require.NoError(t, err)

	reloaded := false
	sess.SetOnReload(func() { reloaded = true })

	// Another session writes through its own handle
	_, err = b.Create(store.CreateTask{Title: "external"})
	require.NoError(t, err)

	// Mirror is stale until the change lands
	require.Empty(t, sess.Tasks())

	sess.HandleChange(store.EntryKey)
	require.True(t, reloaded)

	mirror := sess.Tasks()
	require.Len(t, mirror, 1)
	require.Equal(t, "external", mirror[0].Title)
}

func TestHandleChangeIgnoresOtherKeys(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shared.db")

	a, err := store.Open(dbPath)
	require.NoError(t, err)
	defer a.Close()

	b, err := store.Open(dbPath)
	require.NoError(t, err)
	defer b.Close()

	sess, err := New(a)
	require.NoError(t, err)

	reloaded := false
	sess.SetOnReload(func() { reloaded = true })

	_, err = b.Create(store.CreateTask{Title: "external"})
	require.NoError(t, err)

	sess.HandleChange("some.other.key")
	require.False(t, reloaded)
	require.Empty(t, sess.Tasks())
}

func TestAfterWriteHookFires(t *testing.T) {
	sess, _ := newTestSession(t)

	writes := 0
	sess.SetAfterWrite(func() { writes++ })

	created, err := sess.AddTask("hooked", nil, "")
	require.NoError(t, err)
	require.Equal(t, 1, writes)

	_, err = sess.ToggleComplete(created.ID)
	require.NoError(t, err)
	require.Equal(t, 2, writes)

	_, err = sess.DeleteTask(created.ID)
	require.NoError(t, err)
	require.Equal(t, 3, writes)

	// No-op mutations must not fire the hook
	_, err = sess.AddTask("   ", nil, "")
	require.NoError(t, err)
	_, err = sess.DeleteTask("missing")
	require.NoError(t, err)
	require.Equal(t, 3, writes)
}
