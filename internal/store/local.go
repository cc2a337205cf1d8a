package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TaskList is a local list row.
type TaskList struct {
	ID      int64
	Title   string
	Updated int64 // Unix milliseconds
}

// Task is a local task row.
type Task struct {
	ID     int64
	ListID int64
	Title  string
	Note   string

	// Due carries both a date and a time of day; nil means no due date.
	Due *time.Time

	// Completed is the completion time in Unix milliseconds, 0 if open.
	Completed int64

	Updated int64 // Unix milliseconds
}

// IsCompleted reports whether the task has a completion time.
func (t *Task) IsCompleted() bool {
	return t.Completed != 0
}

const listColumns = "id, title, updated"

func scanList(rows *sql.Rows) (*TaskList, error) {
	var l TaskList
	if err := rows.Scan(&l.ID, &l.Title, &l.Updated); err != nil {
		return nil, err
	}
	return &l, nil
}

const taskColumns = "id, list_id, title, note, due, completed, updated"

func (s *Store) scanTask(rows *sql.Rows) (*Task, error) {
	var (
		t         Task
		due       sql.NullInt64
		completed sql.NullInt64
	)
	if err := rows.Scan(&t.ID, &t.ListID, &t.Title, &t.Note, &due, &completed, &t.Updated); err != nil {
		return nil, err
	}
	if due.Valid {
		d := time.UnixMilli(due.Int64).In(s.loc)
		t.Due = &d
	}
	if completed.Valid {
		t.Completed = completed.Int64
	}
	return &t, nil
}

// Lists returns all local lists ordered by id.
func (s *Store) Lists(ctx context.Context) ([]*TaskList, error) {
	lists, err := queryAll(ctx, s.db, scanList, "SELECT "+listColumns+" FROM lists ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	return lists, nil
}

// GetList loads a list by row id.
func (s *Store) GetList(ctx context.Context, id int64) (*TaskList, error) {
	lists, err := queryAll(ctx, s.db, scanList, "SELECT "+listColumns+" FROM lists WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("query list %d: %w", id, err)
	}
	if len(lists) == 0 {
		return nil, ErrNotFound
	}
	return lists[0], nil
}

// ResolveList finds a list by title (case-insensitive, trimmed).
func (s *Store) ResolveList(ctx context.Context, name string) (*TaskList, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	lists, err := s.Lists(ctx)
	if err != nil {
		return nil, err
	}

	var matches []*TaskList
	for _, l := range lists {
		if strings.ToLower(strings.TrimSpace(l.Title)) == name {
			matches = append(matches, l)
		}
	}

	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, ErrAmbiguous
	}
}

// SaveList inserts or updates l with the given updated stamp.
// On insert l.ID is assigned.
func (s *Store) SaveList(ctx context.Context, l *TaskList, updated int64) error {
	if l.ID == 0 {
		res, err := s.db.ExecContext(ctx, "INSERT INTO lists (title, updated) VALUES (?, ?)", l.Title, updated)
		if err != nil {
			return fmt.Errorf("insert list: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert list: %w", err)
		}
		l.ID = id
	} else {
		res, err := s.db.ExecContext(ctx, "UPDATE lists SET title = ?, updated = ? WHERE id = ?", l.Title, updated, l.ID)
		if err != nil {
			return fmt.Errorf("update list %d: %w", l.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("update list %d: %w", l.ID, ErrNotFound)
		}
	}
	l.Updated = updated
	return nil
}

// DeleteList removes a list and its tasks. Linked shadows become tombstones.
func (s *Store) DeleteList(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM lists WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete list %d: %w", id, err)
	}
	return nil
}

// CreateList adds a local list stamped with the current time.
func (s *Store) CreateList(ctx context.Context, title string) (*TaskList, error) {
	l := &TaskList{Title: title}
	if err := s.SaveList(ctx, l, s.stamp()); err != nil {
		return nil, err
	}
	return l, nil
}

// RenameList changes a list title as a local edit.
func (s *Store) RenameList(ctx context.Context, id int64, title string) error {
	l, err := s.GetList(ctx, id)
	if err != nil {
		return err
	}
	l.Title = title
	return s.SaveList(ctx, l, s.stamp())
}

// Tasks returns the tasks of a list ordered by id.
// Completed tasks are skipped unless withCompleted is set.
func (s *Store) Tasks(ctx context.Context, listID int64, withCompleted bool) ([]*Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE list_id = ?"
	if !withCompleted {
		query += " AND completed IS NULL"
	}
	query += " ORDER BY id"

	tasks, err := queryAll(ctx, s.db, s.scanTask, query, listID)
	if err != nil {
		return nil, fmt.Errorf("query tasks of list %d: %w", listID, err)
	}
	return tasks, nil
}

// GetTask loads a task by row id.
func (s *Store) GetTask(ctx context.Context, id int64) (*Task, error) {
	tasks, err := queryAll(ctx, s.db, s.scanTask, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("query task %d: %w", id, err)
	}
	if len(tasks) == 0 {
		return nil, ErrNotFound
	}
	return tasks[0], nil
}

// SaveTask inserts or updates t with the given updated stamp.
// On insert t.ID is assigned.
func (s *Store) SaveTask(ctx context.Context, t *Task, updated int64) error {
	var due, completed sql.NullInt64
	if t.Due != nil {
		due = sql.NullInt64{Int64: t.Due.UnixMilli(), Valid: true}
	}
	if t.Completed != 0 {
		completed = sql.NullInt64{Int64: t.Completed, Valid: true}
	}

	if t.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			"INSERT INTO tasks (list_id, title, note, due, completed, updated) VALUES (?, ?, ?, ?, ?, ?)",
			t.ListID, t.Title, t.Note, due, completed, updated)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		t.ID = id
	} else {
		res, err := s.db.ExecContext(ctx,
			"UPDATE tasks SET list_id = ?, title = ?, note = ?, due = ?, completed = ?, updated = ? WHERE id = ?",
			t.ListID, t.Title, t.Note, due, completed, updated, t.ID)
		if err != nil {
			return fmt.Errorf("update task %d: %w", t.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("update task %d: %w", t.ID, ErrNotFound)
		}
	}
	t.Updated = updated
	return nil
}

// DeleteTask removes a task. A linked shadow becomes a tombstone.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// CreateTask adds a local task stamped with the current time.
func (s *Store) CreateTask(ctx context.Context, listID int64, title, note string, due *time.Time) (*Task, error) {
	if _, err := s.GetList(ctx, listID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("list %d: %w", listID, ErrNotFound)
		}
		return nil, err
	}
	t := &Task{ListID: listID, Title: title, Note: note, Due: due}
	if err := s.SaveTask(ctx, t, s.stamp()); err != nil {
		return nil, err
	}
	return t, nil
}

// CompleteTask marks a task done as a local edit.
func (s *Store) CompleteTask(ctx context.Context, id int64) error {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}
	now := s.stamp()
	if t.Completed == 0 {
		t.Completed = now
	}
	return s.SaveTask(ctx, t, now)
}
