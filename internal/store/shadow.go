package store

import (
	"context"
	"database/sql"
	"fmt"

	"gtasksync/internal/service"
)

func scanListShadow(rows *sql.Rows) (*service.TaskList, error) {
	var (
		l       service.TaskList
		deleted int
	)
	if err := rows.Scan(&l.LocalID, &l.RemoteID, &l.Updated, &deleted); err != nil {
		return nil, err
	}
	l.Deleted = deleted != 0
	return &l, nil
}

func scanTaskShadow(rows *sql.Rows) (*service.Task, error) {
	var (
		t       service.Task
		deleted int
	)
	if err := rows.Scan(&t.LocalID, &t.ListID, &t.RemoteID, &t.Updated, &deleted); err != nil {
		return nil, err
	}
	t.Deleted = deleted != 0
	return &t, nil
}

// ListShadows returns every list shadow linked for account.
func (s *Store) ListShadows(ctx context.Context, account string) ([]*service.TaskList, error) {
	lists, err := queryAll(ctx, s.db, scanListShadow,
		`SELECT local_id, remote_id, updated, deleted FROM remote_lists
		 WHERE account = ? AND service = ? ORDER BY id`,
		account, service.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("query list shadows: %w", err)
	}
	return lists, nil
}

// SaveListShadow records the link of a list for account.
func (s *Store) SaveListShadow(ctx context.Context, account string, l *service.TaskList) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO remote_lists (local_id, account, service, remote_id, updated, deleted)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(account, service, remote_id) DO UPDATE SET
			local_id = excluded.local_id,
			updated = excluded.updated,
			deleted = excluded.deleted`,
		l.LocalID, account, service.ServiceName, l.RemoteID, l.Updated, boolToInt(l.Deleted))
	if err != nil {
		return fmt.Errorf("save list shadow %s: %w", l.RemoteID, err)
	}
	return nil
}

// DeleteListShadow purges the link of a list and of every task in it.
func (s *Store) DeleteListShadow(ctx context.Context, account string, l *service.TaskList) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete list shadow %s: %w", l.RemoteID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM remote_lists WHERE account = ? AND service = ? AND remote_id = ?",
		account, service.ServiceName, l.RemoteID); err != nil {
		return fmt.Errorf("delete list shadow %s: %w", l.RemoteID, err)
	}
	if l.LocalID != 0 {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM remote_tasks WHERE account = ? AND service = ? AND list_local_id = ?",
			account, service.ServiceName, l.LocalID); err != nil {
			return fmt.Errorf("delete task shadows of list %s: %w", l.RemoteID, err)
		}
	}
	return tx.Commit()
}

// UnlinkedLists returns local lists that have no shadow for account.
func (s *Store) UnlinkedLists(ctx context.Context, account string) ([]*TaskList, error) {
	lists, err := queryAll(ctx, s.db, scanList,
		`SELECT `+listColumns+` FROM lists WHERE id NOT IN (
			SELECT local_id FROM remote_lists WHERE account = ? AND service = ?
		 ) ORDER BY id`,
		account, service.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("query unlinked lists: %w", err)
	}
	return lists, nil
}

// TaskShadows returns every task shadow linked for account in a local list.
func (s *Store) TaskShadows(ctx context.Context, account string, listID int64) ([]*service.Task, error) {
	tasks, err := queryAll(ctx, s.db, scanTaskShadow,
		`SELECT local_id, list_local_id, remote_id, updated, deleted FROM remote_tasks
		 WHERE account = ? AND service = ? AND list_local_id = ? ORDER BY id`,
		account, service.ServiceName, listID)
	if err != nil {
		return nil, fmt.Errorf("query task shadows: %w", err)
	}
	return tasks, nil
}

// SaveTaskShadow records the link of a task for account.
func (s *Store) SaveTaskShadow(ctx context.Context, account string, t *service.Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO remote_tasks (local_id, list_local_id, account, service, remote_id, updated, deleted)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(account, service, remote_id) DO UPDATE SET
			local_id = excluded.local_id,
			list_local_id = excluded.list_local_id,
			updated = excluded.updated,
			deleted = excluded.deleted`,
		t.LocalID, t.ListID, account, service.ServiceName, t.RemoteID, t.Updated, boolToInt(t.Deleted))
	if err != nil {
		return fmt.Errorf("save task shadow %s: %w", t.RemoteID, err)
	}
	return nil
}

// DeleteTaskShadow purges the link of a task.
func (s *Store) DeleteTaskShadow(ctx context.Context, account string, t *service.Task) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM remote_tasks WHERE account = ? AND service = ? AND remote_id = ?",
		account, service.ServiceName, t.RemoteID); err != nil {
		return fmt.Errorf("delete task shadow %s: %w", t.RemoteID, err)
	}
	return nil
}

// UnlinkedTasks returns local tasks of a list that have no shadow for account.
func (s *Store) UnlinkedTasks(ctx context.Context, account string, listID int64) ([]*Task, error) {
	tasks, err := queryAll(ctx, s.db, s.scanTask,
		`SELECT `+taskColumns+` FROM tasks WHERE list_id = ? AND id NOT IN (
			SELECT local_id FROM remote_tasks WHERE account = ? AND service = ?
		 ) ORDER BY id`,
		listID, account, service.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("query unlinked tasks: %w", err)
	}
	return tasks, nil
}
