package googletasks_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/option"

	"gtasksync/internal/backend/googletasks"
	"gtasksync/internal/service"
)

// newTestClient starts a fake API server and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *googletasks.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := googletasks.NewWithHTTPClient(context.Background(), server.Client(), option.WithEndpoint(server.URL+"/"))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func apiError(code int) string {
	return fmt.Sprintf(`{"error":{"code":%d,"message":%q}}`, code, http.StatusText(code))
}

func TestListLists(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/users/@me/lists") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, `{"items":[
			{"id":"L1","title":"Groceries","updated":"1970-01-01T00:00:00.100Z"},
			{"id":"L2","title":"Work","updated":"2024-01-01T00:00:00Z"}
		]}`)
	})

	lists, err := c.ListLists(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(lists))
	}
	if lists[0].RemoteID != "L1" || lists[0].Title != "Groceries" || lists[0].Updated != 100 {
		t.Errorf("unexpected first list: %+v", lists[0])
	}
	if lists[0].LocalID != 0 {
		t.Errorf("remote lists must not carry a local id, got %d", lists[0].LocalID)
	}
}

func TestListChangedTasks_Full(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("updatedMin") != "" {
			t.Errorf("full download must not send updatedMin")
		}
		if q.Get("showDeleted") == "true" {
			t.Errorf("full download must not ask for deleted tasks")
		}
		writeJSON(w, http.StatusOK, `{"items":[
			{"id":"t1","title":"Buy milk","notes":"2%","status":"completed",
			 "due":"2024-01-05T00:00:00.000Z","completed":"2024-01-02T10:00:00.000Z",
			 "updated":"2024-01-02T10:00:00.000Z"}
		]}`)
	})

	got, err := c.ListChangedTasks(context.Background(), "L1", time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got))
	}
	task := got[0]
	if task.Due != "2024-01-05" {
		t.Errorf("expected date-only due, got %q", task.Due)
	}
	if !task.IsCompleted() || task.Completed == 0 {
		t.Errorf("expected completed task, got %+v", task)
	}
	if task.Notes != "2%" {
		t.Errorf("unexpected notes %q", task.Notes)
	}
}

func TestListChangedTasks_Incremental(t *testing.T) {
	since := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("updatedMin") != "2024-03-01T12:00:00Z" {
			t.Errorf("unexpected updatedMin %q", q.Get("updatedMin"))
		}
		if q.Get("showDeleted") != "true" {
			t.Errorf("incremental download must include deleted tasks")
		}
		writeJSON(w, http.StatusOK, `{"items":[{"id":"t9","deleted":true,"updated":"2024-03-02T00:00:00Z"}]}`)
	})

	got, err := c.ListChangedTasks(context.Background(), "L1", since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].RemotelyDeleted {
		t.Fatalf("expected one remotely deleted task, got %+v", got)
	}
}

func TestUpdateTask_SendsDateOnlyDue(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if body["due"] != "2024-01-05T00:00:00.000Z" {
			t.Errorf("unexpected due %v", body["due"])
		}
		if body["status"] != service.StatusNeedsAction {
			t.Errorf("unexpected status %v", body["status"])
		}
		writeJSON(w, http.StatusOK, `{"id":"t1","title":"Buy milk","updated":"1970-01-01T00:00:00.300Z"}`)
	})

	updated, err := c.UpdateTask(context.Background(), "L1", &service.Task{
		Link:  service.Link{RemoteID: "t1", Updated: 150},
		Title: "Buy milk",
		Due:   "2024-01-05",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Updated != 300 {
		t.Errorf("expected server updated stamp, got %d", updated.Updated)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   service.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, service.KindAuth},
		{"forbidden", http.StatusForbidden, service.KindAuth},
		{"precondition", http.StatusPreconditionFailed, service.KindPrecondition},
		{"conflict", http.StatusConflict, service.KindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, apiError(tt.status))
			})
			_, err := c.ListLists(context.Background())
			if got := service.KindOf(err); got != tt.want {
				t.Errorf("expected %v, got %v (%v)", tt.want, got, err)
			}
		})
	}
}

func TestDeleteList_DefaultListIsPrecondition(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, apiError(http.StatusBadRequest))
	})

	err := c.DeleteList(context.Background(), &service.TaskList{Link: service.Link{RemoteID: "default"}})
	if service.KindOf(err) != service.KindPrecondition {
		t.Errorf("expected precondition error, got %v", err)
	}
}

func TestDeleteTask_AlreadyGone(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		writeJSON(w, http.StatusNotFound, apiError(http.StatusNotFound))
	})

	if err := c.DeleteTask(context.Background(), "L1", &service.Task{Link: service.Link{RemoteID: "t1"}}); err != nil {
		t.Errorf("deleting a missing task should succeed, got %v", err)
	}
}
