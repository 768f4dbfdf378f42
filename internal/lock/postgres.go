package lock

import (
	"context"
	"database/sql"
	"hash/fnv"
	"time"
)

const pollInterval = 250 * time.Millisecond

// Postgres holds a session advisory lock via pg_try_advisory_lock on a
// dedicated connection, polling until the timeout. Advisory lock keys are
// 64-bit integers, so the string key is hashed with FNV-1a; a collision
// between distinct keys only over-serializes two runners.
type Postgres struct {
	db   *sql.DB
	conn *sql.Conn
	key  string
	id   int64
	held bool
}

func NewPostgres(db *sql.DB, key string) *Postgres {
	return &Postgres{db: db, key: key, id: hashKey(key)}
}

func hashKey(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64())
}

func (p *Postgres) Acquire(ctx context.Context, timeout time.Duration) error {
	if p.held {
		return nil
	}
	var err error
	p.conn, err = p.db.Conn(ctx)
	if err != nil {
		return err
	}
	deadline := time.Now().Add(timeout)
	for {
		var got bool
		if err := p.conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", p.id).Scan(&got); err != nil {
			p.drop()
			return err
		}
		if got {
			p.held = true
			return nil
		}
		if time.Now().After(deadline) {
			p.drop()
			return ErrTimeout
		}
		select {
		case <-ctx.Done():
			p.drop()
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (p *Postgres) Release(ctx context.Context) error {
	if !p.held || p.conn == nil {
		return nil
	}
	var unlocked bool
	_ = p.conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", p.id).Scan(&unlocked)
	p.held = false
	conn := p.conn
	p.conn = nil
	return conn.Close()
}

func (p *Postgres) Key() string { return p.key }

func (p *Postgres) drop() {
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
