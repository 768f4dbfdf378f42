package ddl

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres renders DDL for PostgreSQL.
type Postgres struct{}

var _ Dialect = Postgres{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) QuoteIdent(name string) string { return quoteParts(name, '"') }

func (Postgres) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (d Postgres) CreateTableSQL(t Table) string { return createTable(d, t) }

func (d Postgres) DropTableSQL(name string, ifExists bool) string {
	if ifExists {
		return fmt.Sprintf("DROP TABLE IF EXISTS %s", d.QuoteIdent(name))
	}
	return fmt.Sprintf("DROP TABLE %s", d.QuoteIdent(name))
}

func (d Postgres) AddColumnSQL(table string, col Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.QuoteIdent(table), columnDef(d, col))
}

func (d Postgres) DropColumnSQL(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", d.QuoteIdent(table), d.QuoteIdent(column))
}

func (d Postgres) RenameColumnSQL(table, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		d.QuoteIdent(table), d.QuoteIdent(from), d.QuoteIdent(to))
}

func (d Postgres) CreateIndexSQL(idx Index) string { return createIndex(d, idx) }

// DropIndexSQL ignores the table: Postgres index names are schema-wide.
func (d Postgres) DropIndexSQL(name, _ string) string {
	return fmt.Sprintf("DROP INDEX %s", d.QuoteIdent(name))
}

func (d Postgres) CreateHistorySQL(table string) string { return createHistory(d, table) }

func (d Postgres) SelectHistorySQL(table string) string { return selectHistory(d, table) }

func (d Postgres) InsertHistorySQL(table string) string { return insertHistory(d, table) }

func (d Postgres) DeleteHistorySQL(table string) string { return deleteHistory(d, table) }

// pgUndefinedTable is SQLSTATE 42P01 (undefined_table).
const pgUndefinedTable = "42P01"

func (Postgres) IsMissingTable(err error) bool {
	var pe *pgconn.PgError
	return errors.As(err, &pe) && pe.Code == pgUndefinedTable
}
