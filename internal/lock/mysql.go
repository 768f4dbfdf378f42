package lock

import (
	"context"
	"database/sql"
	"time"
)

// MySQL holds a server-wide advisory lock via GET_LOCK on a dedicated
// connection. The lock lives as long as the connection, so a runner that
// dies frees it without cleanup.
type MySQL struct {
	db   *sql.DB
	conn *sql.Conn
	key  string
	held bool
}

func NewMySQL(db *sql.DB, key string) *MySQL {
	return &MySQL{db: db, key: key}
}

func (m *MySQL) Acquire(ctx context.Context, timeout time.Duration) error {
	if m.held {
		return nil
	}
	var err error
	m.conn, err = m.db.Conn(ctx)
	if err != nil {
		return err
	}
	// GET_LOCK(name, timeout_seconds) waits server-side.
	row := m.conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", m.key, int(timeout.Seconds()))
	var got sql.NullInt64
	if err := row.Scan(&got); err != nil {
		_ = m.conn.Close()
		m.conn = nil
		return err
	}
	if !got.Valid || got.Int64 != 1 {
		_ = m.conn.Close()
		m.conn = nil
		return ErrTimeout
	}
	m.held = true
	return nil
}

func (m *MySQL) Release(ctx context.Context) error {
	if !m.held || m.conn == nil {
		return nil
	}
	row := m.conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", m.key)
	var rel sql.NullInt64
	_ = row.Scan(&rel) // do not fail on release
	m.held = false
	conn := m.conn
	m.conn = nil
	return conn.Close()
}

func (m *MySQL) Key() string { return m.key }
