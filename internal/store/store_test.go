package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gtasksync/internal/service"
	"gtasksync/internal/store"
)

const account = "me@example.com"

func openStore(t *testing.T) *store.Store {
	t.Helper()
	clock := time.UnixMilli(1_000)
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"),
		store.WithClock(func() time.Time { return clock }),
		store.WithLocation(time.UTC))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestListRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	l, err := st.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	require.NotZero(t, l.ID)
	require.Equal(t, int64(1_000), l.Updated)

	got, err := st.GetList(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, l, got)

	got.Title = "Food"
	require.NoError(t, st.SaveList(ctx, got, 42))

	again, err := st.GetList(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, "Food", again.Title)
	require.Equal(t, int64(42), again.Updated)
}

func TestGetListNotFound(t *testing.T) {
	st := openStore(t)
	_, err := st.GetList(context.Background(), 99)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestResolveList(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	_, err := st.CreateList(ctx, "Work")
	require.NoError(t, err)
	_, err = st.CreateList(ctx, "Home")
	require.NoError(t, err)
	_, err = st.CreateList(ctx, "home ")
	require.NoError(t, err)

	l, err := st.ResolveList(ctx, "  WORK ")
	require.NoError(t, err)
	require.Equal(t, "Work", l.Title)

	_, err = st.ResolveList(ctx, "home")
	require.ErrorIs(t, err, store.ErrAmbiguous)

	_, err = st.ResolveList(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTaskRoundTripKeepsDueTime(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	l, err := st.CreateList(ctx, "Inbox")
	require.NoError(t, err)

	due := time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC)
	task, err := st.CreateTask(ctx, l.ID, "Call mom", "evening", &due)
	require.NoError(t, err)

	got, err := st.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, "Call mom", got.Title)
	require.Equal(t, "evening", got.Note)
	require.NotNil(t, got.Due)
	require.True(t, due.Equal(*got.Due))
	require.False(t, got.IsCompleted())
}

func TestCompleteTaskHidesFromOpenTasks(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	l, err := st.CreateList(ctx, "Inbox")
	require.NoError(t, err)
	a, err := st.CreateTask(ctx, l.ID, "a", "", nil)
	require.NoError(t, err)
	_, err = st.CreateTask(ctx, l.ID, "b", "", nil)
	require.NoError(t, err)

	require.NoError(t, st.CompleteTask(ctx, a.ID))

	open, err := st.Tasks(ctx, l.ID, false)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, "b", open[0].Title)

	all, err := st.Tasks(ctx, l.ID, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, int64(1_000), all[0].Completed)
}

func TestCreateTaskUnknownList(t *testing.T) {
	st := openStore(t)
	_, err := st.CreateTask(context.Background(), 7, "x", "", nil)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeletingLinkedListLeavesTombstone(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	l, err := st.CreateList(ctx, "Trips")
	require.NoError(t, err)
	task, err := st.CreateTask(ctx, l.ID, "Pack", "", nil)
	require.NoError(t, err)

	require.NoError(t, st.SaveListShadow(ctx, account, &service.TaskList{
		Link: service.Link{LocalID: l.ID, RemoteID: "L1", Updated: 5},
	}))
	require.NoError(t, st.SaveTaskShadow(ctx, account, &service.Task{
		Link:   service.Link{LocalID: task.ID, RemoteID: "T1", Updated: 5},
		ListID: l.ID,
	}))

	require.NoError(t, st.DeleteList(ctx, l.ID))

	lists, err := st.ListShadows(ctx, account)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	require.True(t, lists[0].Deleted)

	tasks, err := st.TaskShadows(ctx, account, l.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.True(t, tasks[0].Deleted, "cascade delete should tombstone the task shadow")

	require.NoError(t, st.DeleteListShadow(ctx, account, lists[0]))

	lists, err = st.ListShadows(ctx, account)
	require.NoError(t, err)
	require.Empty(t, lists)
	tasks, err = st.TaskShadows(ctx, account, l.ID)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestUnlinkedRows(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	linked, err := st.CreateList(ctx, "Linked")
	require.NoError(t, err)
	fresh, err := st.CreateList(ctx, "Fresh")
	require.NoError(t, err)
	require.NoError(t, st.SaveListShadow(ctx, account, &service.TaskList{
		Link: service.Link{LocalID: linked.ID, RemoteID: "L1"},
	}))

	lists, err := st.UnlinkedLists(ctx, account)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	require.Equal(t, fresh.ID, lists[0].ID)

	// Another account has not linked anything yet.
	lists, err = st.UnlinkedLists(ctx, "other@example.com")
	require.NoError(t, err)
	require.Len(t, lists, 2)

	t1, err := st.CreateTask(ctx, linked.ID, "one", "", nil)
	require.NoError(t, err)
	t2, err := st.CreateTask(ctx, linked.ID, "two", "", nil)
	require.NoError(t, err)
	require.NoError(t, st.SaveTaskShadow(ctx, account, &service.Task{
		Link:   service.Link{LocalID: t1.ID, RemoteID: "T1"},
		ListID: linked.ID,
	}))

	tasks, err := st.UnlinkedTasks(ctx, account, linked.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, t2.ID, tasks[0].ID)
}

func TestSaveShadowUpserts(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	sh := &service.TaskList{Link: service.Link{LocalID: 1, RemoteID: "L1", Updated: 10}}
	require.NoError(t, st.SaveListShadow(ctx, account, sh))
	sh.Updated = 20
	require.NoError(t, st.SaveListShadow(ctx, account, sh))

	lists, err := st.ListShadows(ctx, account)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	require.Equal(t, int64(20), lists[0].Updated)
	require.Equal(t, "L1", lists[0].RemoteID)
}

func TestSyncState(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	state, err := st.SyncState(ctx, account)
	require.NoError(t, err)
	require.True(t, state.LastSync.IsZero())
	require.False(t, state.FullResync)

	when := time.UnixMilli(123_456)
	require.NoError(t, st.MarkSynced(ctx, account, when))
	require.NoError(t, st.RequestFullResync(ctx, account))

	state, err = st.SyncState(ctx, account)
	require.NoError(t, err)
	require.True(t, when.Equal(state.LastSync))
	require.True(t, state.FullResync)

	later := time.UnixMilli(200_000)
	require.NoError(t, st.MarkSynced(ctx, account, later))

	state, err = st.SyncState(ctx, account)
	require.NoError(t, err)
	require.True(t, later.Equal(state.LastSync))
	require.False(t, state.FullResync)
}
