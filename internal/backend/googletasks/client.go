// Package googletasks implements service.Remote using the Google Tasks API.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"gtasksync/internal/config"
	"gtasksync/internal/service"
)

const (
	// PageSize is the number of items per page.
	PageSize = 100

	// TasksScope is the OAuth scope for Google Tasks.
	TasksScope = "https://www.googleapis.com/auth/tasks"
)

// Client implements service.Remote using Google Tasks API.
type Client struct {
	svc        *tasks.Service
	httpClient *http.Client
	timeout    time.Duration
}

// Connector returns a service.Connector that opens a client from cfg.
func Connector(cfg *config.Config) service.Connector {
	return func(ctx context.Context) (service.Remote, error) {
		return New(ctx, cfg)
	}
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, service.Wrap(service.KindAuth, "connect", err)
	}

	token, err := LoadToken(cfg.TokenPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, service.Wrap(service.KindAuth, "connect", fmt.Errorf("not logged in (run: gtasksync login): %w", err))
	}
	if err != nil {
		return nil, service.Wrap(service.KindAuth, "connect", err)
	}

	// Refresh now so an expired or revoked token fails before any mutation.
	tokenSource := oauthConfig.TokenSource(ctx, token)
	if _, err := tokenSource.Token(); err != nil {
		return nil, service.Wrap(service.KindAuth, "connect", fmt.Errorf("token expired or revoked (run: gtasksync login): %w", err))
	}

	c, err := NewWithHTTPClient(ctx, oauth2.NewClient(ctx, tokenSource))
	if err != nil {
		return nil, err
	}
	c.timeout = cfg.APITimeout
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client.
// Extra options such as option.WithEndpoint are passed to the Tasks service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, service.Wrap(service.KindUnexpected, "connect", fmt.Errorf("failed to create tasks service: %w", err))
	}
	return &Client{
		svc:        svc,
		httpClient: httpClient,
		timeout:    config.DefaultAPITimeout,
	}, nil
}

// Close releases idle connections of the session.
func (c *Client) Close() error {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	return nil
}

// ListLists returns all task lists.
func (c *Client) ListLists(ctx context.Context) ([]*service.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result []*service.TaskList
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, l := range resp.Items {
			result = append(result, fromTaskList(l))
		}
		return nil
	})
	if err != nil {
		return nil, classify("list lists", err)
	}
	return result, nil
}

// CreateList creates a new task list.
func (c *Client) CreateList(ctx context.Context, list *service.TaskList) (*service.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	created, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: list.Title}).Context(ctx).Do()
	if err != nil {
		return nil, classify("create list", err)
	}
	return fromTaskList(created), nil
}

// UpdateList replaces the title of a task list.
func (c *Client) UpdateList(ctx context.Context, list *service.TaskList) (*service.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	updated, err := c.svc.Tasklists.Update(list.RemoteID, &tasks.TaskList{
		Id:    list.RemoteID,
		Title: list.Title,
	}).Context(ctx).Do()
	if err != nil {
		return nil, classify("update list", err)
	}
	return fromTaskList(updated), nil
}

// DeleteList deletes a task list.
func (c *Client) DeleteList(ctx context.Context, list *service.TaskList) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.svc.Tasklists.Delete(list.RemoteID).Context(ctx).Do()
	return classifyDelete("delete list", err)
}

// ListChangedTasks returns the tasks of a list updated after since.
// With a zero since every task is returned and deleted tasks are left out.
func (c *Client) ListChangedTasks(ctx context.Context, listRemoteID string, since time.Time) ([]*service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := c.svc.Tasks.List(listRemoteID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true)
	if !since.IsZero() {
		call = call.ShowDeleted(true).UpdatedMin(since.UTC().Format(time.RFC3339))
	}

	var result []*service.Task
	err := call.Pages(ctx, func(resp *tasks.Tasks) error {
		for _, t := range resp.Items {
			result = append(result, fromTask(t))
		}
		return nil
	})
	if err != nil {
		return nil, classify("list tasks", err)
	}
	return result, nil
}

// CreateTask creates a new task in the specified list.
func (c *Client) CreateTask(ctx context.Context, listRemoteID string, task *service.Task) (*service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(listRemoteID, toTask(task)).Context(ctx).Do()
	if err != nil {
		return nil, classify("create task", err)
	}
	return fromTask(created), nil
}

// UpdateTask replaces a task.
func (c *Client) UpdateTask(ctx context.Context, listRemoteID string, task *service.Task) (*service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	updated, err := c.svc.Tasks.Update(listRemoteID, task.RemoteID, toTask(task)).Context(ctx).Do()
	if err != nil {
		return nil, classify("update task", err)
	}
	return fromTask(updated), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, listRemoteID string, task *service.Task) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.svc.Tasks.Delete(listRemoteID, task.RemoteID).Context(ctx).Do()
	return classifyDelete("delete task", err)
}
