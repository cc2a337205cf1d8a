package store

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS lists (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	title   TEXT    NOT NULL DEFAULT '',
	updated INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	list_id   INTEGER NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
	title     TEXT    NOT NULL DEFAULT '',
	note      TEXT    NOT NULL DEFAULT '',
	due       INTEGER,
	completed INTEGER,
	updated   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_list ON tasks(list_id);

CREATE TABLE IF NOT EXISTS remote_lists (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	local_id  INTEGER NOT NULL,
	account   TEXT    NOT NULL,
	service   TEXT    NOT NULL,
	remote_id TEXT    NOT NULL,
	updated   INTEGER NOT NULL DEFAULT 0,
	deleted   INTEGER NOT NULL DEFAULT 0,
	UNIQUE(account, service, remote_id)
);

CREATE TABLE IF NOT EXISTS remote_tasks (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	local_id      INTEGER NOT NULL,
	list_local_id INTEGER NOT NULL,
	account       TEXT    NOT NULL,
	service       TEXT    NOT NULL,
	remote_id     TEXT    NOT NULL,
	updated       INTEGER NOT NULL DEFAULT 0,
	deleted       INTEGER NOT NULL DEFAULT 0,
	UNIQUE(account, service, remote_id)
);

CREATE INDEX IF NOT EXISTS idx_remote_tasks_list ON remote_tasks(account, service, list_local_id);

CREATE TRIGGER IF NOT EXISTS lists_tombstone AFTER DELETE ON lists
BEGIN
	UPDATE remote_lists SET deleted = 1 WHERE local_id = OLD.id;
END;

CREATE TRIGGER IF NOT EXISTS tasks_tombstone AFTER DELETE ON tasks
BEGIN
	UPDATE remote_tasks SET deleted = 1 WHERE local_id = OLD.id;
END;

CREATE TABLE IF NOT EXISTS sync_state (
	account     TEXT    PRIMARY KEY,
	last_sync   INTEGER NOT NULL DEFAULT 0,
	full_resync INTEGER NOT NULL DEFAULT 0
);
`

func migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
