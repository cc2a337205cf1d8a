package service

import (
	"context"
	"time"
)

// Remote defines the operations the sync engine needs from the remote service.
// All Google Tasks API calls go through this interface.
// The sync engine never imports the Google SDK directly.
type Remote interface {
	// ListLists returns the complete set of remote task lists.
	ListLists(ctx context.Context) ([]*TaskList, error)

	// CreateList creates a list and returns it with the server-assigned
	// RemoteID and Updated.
	CreateList(ctx context.Context, list *TaskList) (*TaskList, error)

	// UpdateList pushes the list payload and returns the server's version.
	UpdateList(ctx context.Context, list *TaskList) (*TaskList, error)

	// DeleteList removes a list. Deleting the default list fails with a
	// precondition error.
	DeleteList(ctx context.Context, list *TaskList) error

	// ListChangedTasks returns tasks of a list modified after since.
	// A zero since returns every task, which is a complete snapshot.
	// A non-zero since includes server tombstones marked RemotelyDeleted.
	ListChangedTasks(ctx context.Context, listRemoteID string, since time.Time) ([]*Task, error)

	// CreateTask creates a task in the given remote list.
	CreateTask(ctx context.Context, listRemoteID string, task *Task) (*Task, error)

	// UpdateTask pushes the task payload and returns the server's version.
	UpdateTask(ctx context.Context, listRemoteID string, task *Task) (*Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, listRemoteID string, task *Task) error

	// Close releases the remote session.
	Close() error
}

// Connector opens a remote session.
// A failure here is reported as an auth error by the sync engine.
type Connector func(ctx context.Context) (Remote, error)
