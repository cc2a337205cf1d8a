package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtasksync/internal/service"
	"gtasksync/internal/store"
)

func list(remoteID string, localID int64) *service.TaskList {
	return &service.TaskList{Link: service.Link{RemoteID: remoteID, LocalID: localID}}
}

func remoteIDs(lists []*service.TaskList) []string {
	ids := make([]string, len(lists))
	for i, l := range lists {
		ids[i] = l.RemoteID
	}
	return ids
}

func TestMergeCompleteSnapshot(t *testing.T) {
	deleted := list("b", 2)
	deleted.Deleted = true
	shadows := []*service.TaskList{deleted, list("c", 3)}
	remote := []*service.TaskList{list("a", 0), list("b", 0)}

	got := Merge(remote, shadows, true)

	require.Equal(t, []string{"a", "b", "c"}, remoteIDs(got))

	assert.Zero(t, got[0].LocalID)
	assert.False(t, got[0].RemotelyDeleted)

	assert.Equal(t, int64(2), got[1].LocalID)
	assert.True(t, got[1].Deleted)
	assert.False(t, got[1].RemotelyDeleted)

	assert.Equal(t, int64(3), got[2].LocalID)
	assert.True(t, got[2].RemotelyDeleted)
}

func TestMergeIncrementalKeepsBaseline(t *testing.T) {
	shadow := list("c", 3)
	shadow.Updated = 77

	got := Merge([]*service.TaskList{list("a", 0)}, []*service.TaskList{shadow}, false)

	require.Equal(t, []string{"a", "c"}, remoteIDs(got))
	assert.False(t, got[1].RemotelyDeleted)
	assert.Equal(t, int64(77), got[1].Updated)
}

func TestMergeEmpty(t *testing.T) {
	assert.Empty(t, Merge[*service.TaskList](nil, nil, true))
}

func TestMergeDue(t *testing.T) {
	local := time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC)

	got := mergeDue("2024-01-05", &local, time.UTC)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 1, 5, 18, 30, 0, 0, time.UTC), *got)

	got = mergeDue("2024-01-05", nil, time.UTC)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), *got)

	assert.Nil(t, mergeDue("", &local, time.UTC))
	assert.Nil(t, mergeDue("soon", &local, time.UTC))
}

func TestTaskToLocalCompletion(t *testing.T) {
	k := &taskKind{listID: 1, loc: time.UTC}
	done := &service.Task{
		Link:   service.Link{Updated: 300},
		Title:  "water plants",
		Status: service.StatusCompleted,
	}

	open := &store.Task{ID: 5}
	k.toLocal(done, open)
	assert.Equal(t, int64(300), open.Completed)
	assert.Equal(t, int64(1), open.ListID)
	assert.Equal(t, "water plants", open.Title)

	already := &store.Task{ID: 6, Completed: 250}
	k.toLocal(done, already)
	assert.Equal(t, int64(250), already.Completed)

	reopened := &service.Task{Link: service.Link{Updated: 400}, Status: service.StatusNeedsAction}
	k.toLocal(reopened, already)
	assert.Zero(t, already.Completed)
}

func TestTaskToShadow(t *testing.T) {
	k := &taskKind{listID: 1, loc: time.UTC}
	due := time.Date(2024, 3, 9, 23, 15, 0, 0, time.UTC)
	l := &store.Task{ID: 5, ListID: 1, Title: "pay rent", Note: "by card", Due: &due, Completed: 900}

	s := k.newShadow(l)
	assert.Equal(t, int64(5), s.LocalID)
	assert.Equal(t, "pay rent", s.Title)
	assert.Equal(t, "by card", s.Notes)
	assert.Equal(t, "2024-03-09", s.Due)
	assert.Equal(t, service.StatusCompleted, s.Status)
	assert.Equal(t, int64(900), s.Completed)

	l.Completed = 0
	l.Due = nil
	k.toShadow(l, s)
	assert.Equal(t, service.StatusNeedsAction, s.Status)
	assert.Empty(t, s.Due)
	assert.Zero(t, s.Completed)
}
