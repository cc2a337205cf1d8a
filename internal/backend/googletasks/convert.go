package googletasks

import (
	"time"

	tasks "google.golang.org/api/tasks/v1"

	"gtasksync/internal/service"
)

// dueSuffix turns a calendar date into the timestamp form the API expects.
// The API drops the time of day.
const dueSuffix = "T00:00:00.000Z"

func fromTaskList(l *tasks.TaskList) *service.TaskList {
	return &service.TaskList{
		Link: service.Link{
			RemoteID: l.Id,
			Updated:  parseMillis(l.Updated),
		},
		Title: l.Title,
	}
}

func fromTask(t *tasks.Task) *service.Task {
	out := &service.Task{
		Link: service.Link{
			RemoteID:        t.Id,
			Updated:         parseMillis(t.Updated),
			RemotelyDeleted: t.Deleted,
		},
		Title:  t.Title,
		Notes:  t.Notes,
		Status: t.Status,
	}
	if len(t.Due) >= len("2006-01-02") {
		out.Due = t.Due[:len("2006-01-02")]
	}
	if t.Completed != nil {
		out.Completed = parseMillis(*t.Completed)
	}
	return out
}

func toTask(t *service.Task) *tasks.Task {
	out := &tasks.Task{
		Id:     t.RemoteID,
		Title:  t.Title,
		Notes:  t.Notes,
		Status: t.Status,
	}
	if out.Status == "" {
		out.Status = service.StatusNeedsAction
	}
	if t.Due != "" {
		out.Due = t.Due + dueSuffix
	}
	if t.Status == service.StatusCompleted && t.Completed != 0 {
		completed := time.UnixMilli(t.Completed).UTC().Format(time.RFC3339Nano)
		out.Completed = &completed
	}
	return out
}

// parseMillis converts an RFC 3339 timestamp to Unix milliseconds.
// Unparsable values become 0, which loses every conflict.
func parseMillis(s string) int64 {
	if s == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
