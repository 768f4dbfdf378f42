package lock

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	lockTable      = "korm_migration_lock"
	staleLockAfter = 10 * time.Minute
)

const createLockTable = `CREATE TABLE IF NOT EXISTS ` + lockTable + ` (
	lock_key VARCHAR(255) PRIMARY KEY,
	owner VARCHAR(64) NOT NULL,
	acquired_at BIGINT NOT NULL
)`

// Table is the fallback for drivers without advisory locks: one row per
// key, and holding the lock means having inserted the row. Statements use ?
// placeholders, which holds for every driver routed here (Postgres gets the
// advisory lock instead). A runner that dies leaves its row behind; later
// runners clear rows older than staleLockAfter.
type Table struct {
	db    *sql.DB
	key   string
	owner string
	held  bool
}

func NewTable(db *sql.DB, key string) *Table {
	return &Table{db: db, key: key, owner: uuid.NewString()}
}

func (t *Table) Acquire(ctx context.Context, timeout time.Duration) error {
	if t.held {
		return nil
	}
	if _, err := t.db.ExecContext(ctx, createLockTable); err != nil {
		return err
	}
	deadline := time.Now().Add(timeout)
	for {
		_, err := t.db.ExecContext(ctx,
			"INSERT INTO "+lockTable+" (lock_key, owner, acquired_at) VALUES (?, ?, ?)",
			t.key, t.owner, time.Now().Unix())
		if err == nil {
			t.held = true
			return nil
		}
		// An insert conflict means someone holds the lock; clear any
		// stale row before waiting.
		cutoff := time.Now().Add(-staleLockAfter).Unix()
		_, _ = t.db.ExecContext(ctx,
			"DELETE FROM "+lockTable+" WHERE lock_key = ? AND acquired_at < ?", t.key, cutoff)
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (t *Table) Release(ctx context.Context) error {
	if !t.held {
		return nil
	}
	_, err := t.db.ExecContext(ctx,
		"DELETE FROM "+lockTable+" WHERE lock_key = ? AND owner = ?", t.key, t.owner)
	t.held = false
	return err
}

func (t *Table) Key() string { return t.key }
