// Package service defines the backend-agnostic view of the remote task service.
package service

// ServiceName identifies the Google Tasks backend in shadow rows.
const ServiceName = "googletasks"

// Status values of a remote task.
const (
	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

// Link carries the linkage between a remote entity and its local row.
// A zero LocalID means no local row is linked; an empty RemoteID means the
// entity has never been seen by the remote service.
type Link struct {
	LocalID  int64
	RemoteID string

	// Updated is the last known mutation time in Unix milliseconds.
	Updated int64

	// Deleted is a local tombstone waiting to be confirmed upstream.
	Deleted bool

	// RemotelyDeleted marks an entity that the remote service no longer has.
	RemotelyDeleted bool
}

// Linkage returns the link itself so shadow types can share sync code.
func (l *Link) Linkage() *Link { return l }

// TaskList is the remote shadow of a task list.
type TaskList struct {
	Link
	Title string
}

// Task is the remote shadow of a task.
type Task struct {
	Link

	// ListID is the local row id of the parent list.
	ListID int64

	Title string
	Notes string

	// Due is the calendar date (YYYY-MM-DD) or empty. The remote service
	// does not keep a time of day.
	Due string

	Status string // "needsAction" or "completed"

	// Completed is the completion time in Unix milliseconds, 0 if unset.
	Completed int64
}

// IsCompleted reports whether the remote status marks the task done.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}
