package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"unicode/utf8"

	"github.com/kentolin/korm-migrate/ddl"
)

// DefaultTable is the history table name used unless WithTable overrides it.
const DefaultTable = "korm_migrations"

// maxDescriptionLen matches the history table's description column width,
// measured in characters.
const maxDescriptionLen = 500

// HistoryEntry is one persisted row of the migration history table. A row
// exists exactly while its migration counts as applied: inserted in the same
// transaction as a successful up, deleted in the same transaction as a
// successful down, never updated in place.
type HistoryEntry struct {
	Version         int64
	Description     string
	AppliedAt       string
	ExecutionTimeMs int64
}

// historyStore reads and writes the history table through the configured
// dialect. Reads go to the database handle; writes go through the executor
// of the migration they belong to.
type historyStore struct {
	db      *sql.DB
	dialect ddl.Dialect
	table   string
}

// ensure creates the history table when absent. Creation is idempotent and
// is itself not tracked as a migration: the table has to exist before
// history can be recorded.
func (s *historyStore) ensure(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.CreateHistorySQL(s.table)); err != nil {
		return fmt.Errorf("create history table %s: %w", s.table, err)
	}
	return nil
}

// listApplied returns every history entry ascending by version. A missing
// history table yields an empty list, not an error, so status can be read
// before initialization.
func (s *historyStore) listApplied(ctx context.Context) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.SelectHistorySQL(s.table))
	if err != nil {
		if s.dialect.IsMissingTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("query history table %s: %w", s.table, err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.Version, &e.Description, &e.AppliedAt, &e.ExecutionTimeMs); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// recordApplied inserts a history row through the executor of the migration
// that just ran, so the schema change and its record commit or roll back
// together. Overlong descriptions are cut to the column's character width,
// never mid-rune.
func (s *historyStore) recordApplied(ctx context.Context, exec *ddl.Executor, e HistoryEntry) error {
	desc := e.Description
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		desc = string([]rune(desc)[:maxDescriptionLen])
	}
	err := exec.Exec(ctx, exec.Dialect().InsertHistorySQL(s.table),
		e.Version, desc, e.AppliedAt, e.ExecutionTimeMs)
	if err != nil {
		return fmt.Errorf("record migration %d: %w", e.Version, err)
	}
	return nil
}

// recordReverted deletes the history row for version through the executor of
// the revert.
func (s *historyStore) recordReverted(ctx context.Context, exec *ddl.Executor, version int64) error {
	if err := exec.Exec(ctx, exec.Dialect().DeleteHistorySQL(s.table), version); err != nil {
		return fmt.Errorf("remove migration record %d: %w", version, err)
	}
	return nil
}
