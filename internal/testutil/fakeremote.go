// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gtasksync/internal/service"
)

// ErrNotFound is returned when a remote entity does not exist.
var ErrNotFound = errors.New("not found")

// FakeRemote is an in-memory implementation of service.Remote for testing.
// Every write bumps a server clock, so returned Updated stamps always grow.
type FakeRemote struct {
	mu         sync.Mutex
	clock      int64
	nextID     int
	lists      []*service.TaskList
	tasks      map[string][]*service.Task // list remote id -> tasks
	tombstones map[string][]*service.Task // list remote id -> deleted tasks

	// Calls records every mutating call as "<Op> <remote id>".
	// ListLists and ListChangedTasks are not recorded.
	Calls []string

	// Closed counts Close calls.
	Closed int

	// Protected lists refuse deletion with a precondition error.
	Protected map[string]bool

	// Since records the since argument of every ListChangedTasks call.
	Since []time.Time

	// Error injection for testing
	ConnectErr    error
	ListListsErr  error
	CreateListErr error
	UpdateListErr error
	DeleteListErr error
	ListTasksErr  map[string]error // list remote id -> error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
}

// NewFakeRemote creates an empty FakeRemote whose clock starts at start.
func NewFakeRemote(start int64) *FakeRemote {
	return &FakeRemote{
		clock:        start,
		tasks:        make(map[string][]*service.Task),
		tombstones:   make(map[string][]*service.Task),
		Protected:    make(map[string]bool),
		ListTasksErr: make(map[string]error),
	}
}

// Connector returns a connector handing out f, or ConnectErr.
func (f *FakeRemote) Connector() service.Connector {
	return func(ctx context.Context) (service.Remote, error) {
		if f.ConnectErr != nil {
			return nil, f.ConnectErr
		}
		return f, nil
	}
}

func (f *FakeRemote) tick() int64 {
	f.clock++
	return f.clock
}

func (f *FakeRemote) record(op, id string) {
	f.Calls = append(f.Calls, op+" "+id)
}

// AddList seeds a list with a fixed updated stamp.
func (f *FakeRemote) AddList(id, title string, updated int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, &service.TaskList{
		Link:  service.Link{RemoteID: id, Updated: updated},
		Title: title,
	})
}

// PutTask seeds or replaces a task as another client would. The task's
// RemoteID and Updated are kept as given.
func (f *FakeRemote) PutTask(listID string, t service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.serverCopy(&t)
	c.Updated = t.Updated
	for i, existing := range f.tasks[listID] {
		if existing.RemoteID == t.RemoteID {
			f.tasks[listID][i] = c
			return
		}
	}
	f.tasks[listID] = append(f.tasks[listID], c)
}

// EditList changes a list title as another client would.
func (f *FakeRemote) EditList(id, title string, updated int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lists {
		if l.RemoteID == id {
			l.Title = title
			l.Updated = updated
		}
	}
}

// RemoveList deletes a list as another client would.
func (f *FakeRemote) RemoveList(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeList(id)
}

// RemoveTask deletes a task as another client would.
func (f *FakeRemote) RemoveTask(listID, taskID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeTask(listID, taskID)
}

// Lists returns copies of the remote lists.
func (f *FakeRemote) Lists() []service.TaskList {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.TaskList, len(f.lists))
	for i, l := range f.lists {
		out[i] = *l
	}
	return out
}

// Tasks returns copies of the live tasks of a list.
func (f *FakeRemote) Tasks(listID string) []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks[listID]))
	for i, t := range f.tasks[listID] {
		out[i] = *t
	}
	return out
}

// ListLists implements service.Remote.
func (f *FakeRemote) ListLists(ctx context.Context) ([]*service.TaskList, error) {
	if f.ListListsErr != nil {
		return nil, f.ListListsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*service.TaskList, len(f.lists))
	for i, l := range f.lists {
		c := *l
		out[i] = &c
	}
	return out, nil
}

// CreateList implements service.Remote.
func (f *FakeRemote) CreateList(ctx context.Context, list *service.TaskList) (*service.TaskList, error) {
	if f.CreateListErr != nil {
		return nil, f.CreateListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	created := &service.TaskList{
		Link:  service.Link{RemoteID: fmt.Sprintf("list-%d", f.nextID), Updated: f.tick()},
		Title: list.Title,
	}
	f.lists = append(f.lists, created)
	f.record("CreateList", created.RemoteID)
	c := *created
	return &c, nil
}

// UpdateList implements service.Remote.
func (f *FakeRemote) UpdateList(ctx context.Context, list *service.TaskList) (*service.TaskList, error) {
	if f.UpdateListErr != nil {
		return nil, f.UpdateListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, l := range f.lists {
		if l.RemoteID == list.RemoteID {
			l.Title = list.Title
			l.Updated = f.tick()
			f.record("UpdateList", l.RemoteID)
			c := *l
			return &c, nil
		}
	}
	return nil, service.Wrap(service.KindTransport, "update list", ErrNotFound)
}

// DeleteList implements service.Remote.
func (f *FakeRemote) DeleteList(ctx context.Context, list *service.TaskList) error {
	if f.DeleteListErr != nil {
		return f.DeleteListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Protected[list.RemoteID] {
		return service.Wrap(service.KindPrecondition, "delete list", errors.New("cannot delete default list"))
	}
	f.record("DeleteList", list.RemoteID)
	f.removeList(list.RemoteID)
	return nil
}

func (f *FakeRemote) removeList(id string) {
	for i, l := range f.lists {
		if l.RemoteID == id {
			f.lists = append(f.lists[:i], f.lists[i+1:]...)
			delete(f.tasks, id)
			delete(f.tombstones, id)
			return
		}
	}
}

// ListChangedTasks implements service.Remote.
func (f *FakeRemote) ListChangedTasks(ctx context.Context, listID string, since time.Time) ([]*service.Task, error) {
	if err, ok := f.ListTasksErr[listID]; ok && err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Since = append(f.Since, since)

	var out []*service.Task
	for _, t := range f.tasks[listID] {
		if since.IsZero() || t.Updated > since.UnixMilli() {
			c := *t
			out = append(out, &c)
		}
	}
	if !since.IsZero() {
		for _, t := range f.tombstones[listID] {
			if t.Updated > since.UnixMilli() {
				c := *t
				c.RemotelyDeleted = true
				out = append(out, &c)
			}
		}
	}
	return out, nil
}

// CreateTask implements service.Remote.
func (f *FakeRemote) CreateTask(ctx context.Context, listID string, task *service.Task) (*service.Task, error) {
	if f.CreateTaskErr != nil {
		return nil, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.hasList(listID) {
		return nil, service.Wrap(service.KindTransport, "create task", ErrNotFound)
	}
	f.nextID++
	created := f.serverCopy(task)
	created.RemoteID = fmt.Sprintf("task-%d", f.nextID)
	created.Updated = f.tick()
	f.tasks[listID] = append(f.tasks[listID], created)
	f.record("CreateTask", created.RemoteID)
	c := *created
	return &c, nil
}

// UpdateTask implements service.Remote.
func (f *FakeRemote) UpdateTask(ctx context.Context, listID string, task *service.Task) (*service.Task, error) {
	if f.UpdateTaskErr != nil {
		return nil, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks[listID] {
		if t.RemoteID == task.RemoteID {
			updated := f.serverCopy(task)
			updated.Updated = f.tick()
			f.tasks[listID][i] = updated
			f.record("UpdateTask", updated.RemoteID)
			c := *updated
			return &c, nil
		}
	}
	return nil, service.Wrap(service.KindTransport, "update task", ErrNotFound)
}

// DeleteTask implements service.Remote.
func (f *FakeRemote) DeleteTask(ctx context.Context, listID string, task *service.Task) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("DeleteTask", task.RemoteID)
	if !f.removeTask(listID, task.RemoteID) {
		return service.Wrap(service.KindTransport, "delete task", ErrNotFound)
	}
	return nil
}

func (f *FakeRemote) removeTask(listID, taskID string) bool {
	for i, t := range f.tasks[listID] {
		if t.RemoteID == taskID {
			f.tasks[listID] = append(f.tasks[listID][:i], f.tasks[listID][i+1:]...)
			t.Updated = f.tick()
			f.tombstones[listID] = append(f.tombstones[listID], t)
			return true
		}
	}
	return false
}

// Close implements service.Remote.
func (f *FakeRemote) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed++
	return nil
}

func (f *FakeRemote) hasList(id string) bool {
	for _, l := range f.lists {
		if l.RemoteID == id {
			return true
		}
	}
	return false
}

// serverCopy keeps only what the server stores of a task.
func (f *FakeRemote) serverCopy(t *service.Task) *service.Task {
	c := &service.Task{
		Link:      service.Link{RemoteID: t.RemoteID},
		Title:     t.Title,
		Notes:     t.Notes,
		Due:       t.Due,
		Status:    t.Status,
		Completed: t.Completed,
	}
	if c.Status == "" {
		c.Status = service.StatusNeedsAction
	}
	return c
}
