package ddl

import (
	"errors"
	"fmt"
	"strings"

	sqlite "modernc.org/sqlite"
)

// SQLite renders DDL for SQLite. DropColumnSQL and RenameColumnSQL use the
// ALTER TABLE forms added in SQLite 3.35 / 3.25; the bundled driver is well
// past both.
type SQLite struct{}

var _ Dialect = SQLite{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) QuoteIdent(name string) string { return quoteParts(name, '"') }

func (SQLite) Placeholder(int) string { return "?" }

func (d SQLite) CreateTableSQL(t Table) string { return createTable(d, t) }

func (d SQLite) DropTableSQL(name string, ifExists bool) string {
	if ifExists {
		return fmt.Sprintf("DROP TABLE IF EXISTS %s", d.QuoteIdent(name))
	}
	return fmt.Sprintf("DROP TABLE %s", d.QuoteIdent(name))
}

func (d SQLite) AddColumnSQL(table string, col Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.QuoteIdent(table), columnDef(d, col))
}

func (d SQLite) DropColumnSQL(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", d.QuoteIdent(table), d.QuoteIdent(column))
}

func (d SQLite) RenameColumnSQL(table, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		d.QuoteIdent(table), d.QuoteIdent(from), d.QuoteIdent(to))
}

func (d SQLite) CreateIndexSQL(idx Index) string { return createIndex(d, idx) }

// DropIndexSQL ignores the table: SQLite index names are database-wide.
func (d SQLite) DropIndexSQL(name, _ string) string {
	return fmt.Sprintf("DROP INDEX %s", d.QuoteIdent(name))
}

func (d SQLite) CreateHistorySQL(table string) string { return createHistory(d, table) }

func (d SQLite) SelectHistorySQL(table string) string { return selectHistory(d, table) }

func (d SQLite) InsertHistorySQL(table string) string { return insertHistory(d, table) }

func (d SQLite) DeleteHistorySQL(table string) string { return deleteHistory(d, table) }

// IsMissingTable matches on the message because SQLite reports a missing
// table as generic SQLITE_ERROR (code 1).
func (SQLite) IsMissingTable(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		return strings.Contains(se.Error(), "no such table")
	}
	return strings.Contains(err.Error(), "no such table")
}
