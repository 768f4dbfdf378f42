// Package lock serializes migration runs across processes sharing a
// database. The engine itself never locks; a front-end acquires one of
// these around each mutating operation.
package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when the lock stayed held elsewhere for the whole
// wait.
var ErrTimeout = errors.New("migration lock: timed out waiting for lock")

// Lock is a cross-process mutex keyed by database and history table.
// Acquire blocks up to timeout. Release is safe to call when the lock was
// never acquired.
type Lock interface {
	Acquire(ctx context.Context, timeout time.Duration) error
	Release(ctx context.Context) error
	Key() string
}

// KeyFor names the lock for one database and history table, so unrelated
// schemas on a shared server do not contend.
func KeyFor(database, table string) string {
	return fmt.Sprintf("korm-migrate:%s:%s", database, table)
}

// ForDriver picks the implementation for a driver: server advisory locks on
// MySQL and Postgres, the lock table everywhere else.
func ForDriver(driver string, db *sql.DB, key string) Lock {
	switch driver {
	case "mysql":
		return NewMySQL(db, key)
	case "postgres", "pgx":
		return NewPostgres(db, key)
	default:
		return NewTable(db, key)
	}
}
