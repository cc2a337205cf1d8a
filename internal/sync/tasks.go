package sync

import (
	"context"
	"errors"
	"time"

	"gtasksync/internal/service"
	"gtasksync/internal/store"
)

// dateLayout is the calendar date format of remote due dates.
const dateLayout = "2006-01-02"

// taskKind reconciles the tasks of one list that has already been synced.
type taskKind struct {
	store   *store.Store
	remote  service.Remote
	account string

	listID       int64  // local id of the parent list
	listRemoteID string // remote id of the parent list

	// loc is the zone a date-only due is placed in when there is no local
	// time of day to keep.
	loc *time.Location
}

func (k *taskKind) name() string                       { return "task" }
func (k *taskKind) link(s *service.Task) *service.Link { return &s.Link }
func (k *taskKind) localID(l *store.Task) int64        { return l.ID }
func (k *taskKind) localUpdated(l *store.Task) int64   { return l.Updated }

func (k *taskKind) loadLocal(ctx context.Context, id int64) (*store.Task, error) {
	t, err := k.store.GetTask(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return t, err
}

func (k *taskKind) saveLocal(ctx context.Context, l *store.Task, updated int64) error {
	return k.store.SaveTask(ctx, l, updated)
}

func (k *taskKind) deleteLocal(ctx context.Context, l *store.Task) error {
	return k.store.DeleteTask(ctx, l.ID)
}

func (k *taskKind) unlinked(ctx context.Context) ([]*store.Task, error) {
	return k.store.UnlinkedTasks(ctx, k.account, k.listID)
}

func (k *taskKind) saveShadow(ctx context.Context, s *service.Task) error {
	return k.store.SaveTaskShadow(ctx, k.account, s)
}

func (k *taskKind) deleteShadow(ctx context.Context, s *service.Task) error {
	return k.store.DeleteTaskShadow(ctx, k.account, s)
}

func (k *taskKind) createRemote(ctx context.Context, s *service.Task) (*service.Task, error) {
	created, err := k.remote.CreateTask(ctx, k.listRemoteID, s)
	if err != nil {
		return nil, err
	}
	created.ListID = k.listID
	return created, nil
}

func (k *taskKind) updateRemote(ctx context.Context, s *service.Task) (*service.Task, error) {
	updated, err := k.remote.UpdateTask(ctx, k.listRemoteID, s)
	if err != nil {
		return nil, err
	}
	updated.ListID = k.listID
	return updated, nil
}

func (k *taskKind) deleteRemote(ctx context.Context, s *service.Task) error {
	return k.remote.DeleteTask(ctx, k.listRemoteID, s)
}

func (k *taskKind) newLocal(s *service.Task) *store.Task {
	l := &store.Task{}
	k.toLocal(s, l)
	return l
}

func (k *taskKind) newShadow(l *store.Task) *service.Task {
	s := &service.Task{Link: service.Link{LocalID: l.ID}}
	k.toShadow(l, s)
	return s
}

// toLocal applies the remote payload. The due date keeps the local time of
// day, and an existing local completion time is not overwritten.
func (k *taskKind) toLocal(s *service.Task, l *store.Task) {
	l.Title = s.Title
	l.Note = s.Notes
	l.ListID = s.ListID
	if l.ListID == 0 {
		l.ListID = k.listID
	}
	l.Due = mergeDue(s.Due, l.Due, k.loc)

	if s.IsCompleted() {
		if l.Completed == 0 {
			l.Completed = s.Updated
		}
	} else {
		l.Completed = 0
	}
}

func (k *taskKind) toShadow(l *store.Task, s *service.Task) {
	s.Title = l.Title
	s.Notes = l.Note
	s.ListID = l.ListID
	s.Due = ""
	if l.Due != nil {
		s.Due = l.Due.Format(dateLayout)
	}
	if l.IsCompleted() {
		s.Status = service.StatusCompleted
		s.Completed = l.Completed
	} else {
		s.Status = service.StatusNeedsAction
		s.Completed = 0
	}
}

// mergeDue combines a remote calendar date with the time of day of the
// local due. An empty or unparsable remote date clears the due.
func mergeDue(date string, local *time.Time, loc *time.Location) *time.Time {
	if date == "" {
		return nil
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil
	}

	var merged time.Time
	if local != nil {
		merged = time.Date(d.Year(), d.Month(), d.Day(),
			local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), local.Location())
	} else {
		if loc == nil {
			loc = time.Local
		}
		merged = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	}
	return &merged
}
