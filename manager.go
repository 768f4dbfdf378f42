package migrate

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/kentolin/korm-migrate/ddl"
)

// Manager orchestrates a migration set against one database. All operations
// are synchronous and run migrations strictly one at a time, each inside its
// own transaction: migration N+1 never starts before N's transaction has
// committed. The Manager takes no cross-process lock of its own, so two
// processes migrating the same database concurrently must be serialized by
// the caller (the bundled CLI does this with an advisory lock).
type Manager struct {
	db         *sql.DB
	dialect    ddl.Dialect
	history    *historyStore
	migrations []*Migration
	byVersion  map[int64]*Migration
	events     EventFunc
}

// Option adjusts a Manager at construction.
type Option func(*Manager)

// WithTable overrides the history table name. The name must be a valid SQL
// identifier; NewManager rejects anything else.
func WithTable(name string) Option {
	return func(m *Manager) { m.history.table = name }
}

// WithEvents registers a callback receiving progress events during Migrate,
// MigrateTo and Rollback. Events are delivered synchronously on the calling
// goroutine.
func WithEvents(fn EventFunc) Option {
	return func(m *Manager) { m.events = fn }
}

// NewManager validates the migration set and builds a Manager over db. The
// set must contain fully built migrations with pairwise-distinct, positive
// versions, supplied in strictly ascending version order; any violation is a
// ConfigurationError and no database work happens. The set is deliberately
// not sorted on the caller's behalf: an unordered list usually means a
// misassembled deployment, and sorting it would hide that.
//
// The Manager keeps the supplied slice; callers must not mutate it afterward.
func NewManager(db *sql.DB, dialect ddl.Dialect, migrations []*Migration, opts ...Option) (*Manager, error) {
	if db == nil {
		return nil, configErrorf("a database handle is required")
	}
	if dialect == nil {
		return nil, configErrorf("a dialect is required")
	}
	if err := validateSet(migrations); err != nil {
		return nil, err
	}

	m := &Manager{
		db:         db,
		dialect:    dialect,
		history:    &historyStore{db: db, dialect: dialect, table: DefaultTable},
		migrations: migrations,
		byVersion:  make(map[int64]*Migration, len(migrations)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := ddl.ValidateIdentifier(m.history.table); err != nil {
		return nil, configErrorf("history table: %v", err)
	}
	for _, mig := range migrations {
		m.byVersion[mig.version] = mig
	}
	return m, nil
}

func validateSet(migrations []*Migration) error {
	for i, mig := range migrations {
		if mig == nil {
			return configErrorf("migration at index %d is nil", i)
		}
		if mig.up == nil {
			return configErrorf("migration %d must define an 'up' block", mig.version)
		}
		if mig.down == nil {
			return configErrorf("migration %d must define a 'down' block", mig.version)
		}
		if mig.version <= 0 {
			return configErrorf("migration version must be positive, got %d", mig.version)
		}
	}

	seen := make(map[int64]bool, len(migrations))
	dup := make(map[int64]bool)
	var dups []string
	for _, mig := range migrations {
		if seen[mig.version] && !dup[mig.version] {
			dup[mig.version] = true
			dups = append(dups, strconv.FormatInt(mig.version, 10))
		}
		seen[mig.version] = true
	}
	if len(dups) > 0 {
		return configErrorf("duplicate migration version(s): %s", strings.Join(dups, ", "))
	}

	for i := 1; i < len(migrations); i++ {
		if migrations[i].version <= migrations[i-1].version {
			return configErrorf("migrations must be supplied in ascending version order: %d appears after %d",
				migrations[i].version, migrations[i-1].version)
		}
	}
	return nil
}

// Migrate applies every pending migration in ascending version order. It
// stops at the first failure and returns a MigrationFailure naming the
// version; migrations applied earlier in the run stay applied, each having
// committed on its own.
func (m *Manager) Migrate(ctx context.Context) (Result, error) {
	if err := m.history.ensure(ctx); err != nil {
		return Result{}, err
	}
	applied, err := m.history.listApplied(ctx)
	if err != nil {
		return Result{}, err
	}
	return m.applyAll(ctx, m.pending(applied))
}

// MigrateTo moves the database to exactly target: pending migrations up to
// and including target are applied ascending, or applied migrations above
// target are reverted descending. Target does not have to name a version in
// the set; the Manager moves as close as the set allows without passing it.
// Target 0 reverts everything. A negative target is a ConfigurationError.
func (m *Manager) MigrateTo(ctx context.Context, target int64) (Result, error) {
	if target < 0 {
		return Result{}, configErrorf("target version must not be negative, got %d", target)
	}
	if err := m.history.ensure(ctx); err != nil {
		return Result{}, err
	}
	applied, err := m.history.listApplied(ctx)
	if err != nil {
		return Result{}, err
	}

	current := currentVersion(applied)
	switch {
	case target > current:
		var up []*Migration
		for _, mig := range m.pending(applied) {
			if mig.version <= target {
				up = append(up, mig)
			}
		}
		return m.applyAll(ctx, up)
	case target < current:
		var down []HistoryEntry
		for _, e := range applied {
			if e.Version > target {
				down = append(down, e)
			}
		}
		return m.revertEntries(ctx, down)
	default:
		return Result{}, nil
	}
}

// Rollback reverts the most recently applied migrations, newest first, up to
// steps of them. Fewer applied migrations than steps reverts what is there;
// steps <= 0 is a no-op.
func (m *Manager) Rollback(ctx context.Context, steps int) (Result, error) {
	if steps <= 0 {
		return Result{}, nil
	}
	applied, err := m.history.listApplied(ctx)
	if err != nil {
		return Result{}, err
	}
	if steps > len(applied) {
		steps = len(applied)
	}
	return m.revertEntries(ctx, applied[len(applied)-steps:])
}

// Status reports the current version, the applied and pending sets and the
// size of the supplied set. It is a pure read: no table creation, no schema
// changes, safe to call at any time, including before the history table
// exists.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	applied, err := m.history.listApplied(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		CurrentVersion: currentVersion(applied),
		Applied:        applied,
		Pending:        m.pending(applied),
		Total:          len(m.migrations),
	}, nil
}

func (m *Manager) applyAll(ctx context.Context, pending []*Migration) (Result, error) {
	var res Result
	for _, mig := range pending {
		if err := m.applyOne(ctx, mig); err != nil {
			res.Failed++
			return res, err
		}
		res.Applied++
	}
	return res, nil
}

// revertEntries reverts entries most recent first; entries must be ascending
// by version. An entry with no matching migration in the supplied set counts
// as failed and the loop moves on, but an error from a down procedure stops
// the run.
func (m *Manager) revertEntries(ctx context.Context, entries []HistoryEntry) (Result, error) {
	var res Result
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		mig, ok := m.byVersion[e.Version]
		if !ok {
			res.Failed++
			m.emit(Event{Kind: EventMissingRecord, Version: e.Version, Description: e.Description, Direction: Down})
			continue
		}
		if err := m.revertOne(ctx, mig); err != nil {
			res.Failed++
			return res, err
		}
		res.Applied++
	}
	return res, nil
}

// applyOne runs one migration's up procedure and records it in history,
// both inside a single transaction. The history row is written only after
// the procedure returns, so execution_time_ms covers the schema work alone.
func (m *Manager) applyOne(ctx context.Context, mig *Migration) error {
	m.emit(Event{Kind: EventApplyStart, Version: mig.version, Description: mig.description, Direction: Up})
	start := time.Now()
	err := inTransaction(ctx, m.db, func(tx *sql.Tx) error {
		exec := ddl.NewExecutor(tx, m.dialect)
		if err := mig.up(ctx, exec); err != nil {
			return err
		}
		return m.history.recordApplied(ctx, exec, HistoryEntry{
			Version:         mig.version,
			Description:     mig.description,
			AppliedAt:       time.Now().Format(time.RFC3339),
			ExecutionTimeMs: time.Since(start).Milliseconds(),
		})
	})
	elapsed := time.Since(start)
	if err != nil {
		m.emit(Event{Kind: EventFailed, Version: mig.version, Description: mig.description, Direction: Up, Elapsed: elapsed, Err: err})
		return &MigrationFailure{Version: mig.version, Direction: Up, Err: err}
	}
	m.emit(Event{Kind: EventApplied, Version: mig.version, Description: mig.description, Direction: Up, Elapsed: elapsed})
	return nil
}

// revertOne runs one migration's down procedure and deletes its history row,
// both inside a single transaction.
func (m *Manager) revertOne(ctx context.Context, mig *Migration) error {
	m.emit(Event{Kind: EventRevertStart, Version: mig.version, Description: mig.description, Direction: Down})
	start := time.Now()
	err := inTransaction(ctx, m.db, func(tx *sql.Tx) error {
		exec := ddl.NewExecutor(tx, m.dialect)
		if err := mig.down(ctx, exec); err != nil {
			return err
		}
		return m.history.recordReverted(ctx, exec, mig.version)
	})
	elapsed := time.Since(start)
	if err != nil {
		m.emit(Event{Kind: EventFailed, Version: mig.version, Description: mig.description, Direction: Down, Elapsed: elapsed, Err: err})
		return &MigrationFailure{Version: mig.version, Direction: Down, Err: err}
	}
	m.emit(Event{Kind: EventReverted, Version: mig.version, Description: mig.description, Direction: Down, Elapsed: elapsed})
	return nil
}

// pending returns the supplied migrations whose version has no history
// entry, in the set's (ascending) order.
func (m *Manager) pending(applied []HistoryEntry) []*Migration {
	seen := make(map[int64]bool, len(applied))
	for _, e := range applied {
		seen[e.Version] = true
	}
	var out []*Migration
	for _, mig := range m.migrations {
		if !seen[mig.version] {
			out = append(out, mig)
		}
	}
	return out
}

// currentVersion is the highest applied version, 0 when nothing is applied.
// Entries are ascending, so the last one holds the maximum.
func currentVersion(applied []HistoryEntry) int64 {
	if len(applied) == 0 {
		return 0
	}
	return applied[len(applied)-1].Version
}

func (m *Manager) emit(e Event) {
	if m.events != nil {
		m.events(e)
	}
}
