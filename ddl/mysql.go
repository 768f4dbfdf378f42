package ddl

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQL renders DDL for MySQL and MariaDB. RenameColumnSQL uses the
// RENAME COLUMN form, which requires MySQL 8.0+ or MariaDB 10.5+.
type MySQL struct{}

var _ Dialect = MySQL{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) QuoteIdent(name string) string { return quoteParts(name, '`') }

func (MySQL) Placeholder(int) string { return "?" }

func (d MySQL) CreateTableSQL(t Table) string {
	return createTable(d, t) + " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
}

func (d MySQL) DropTableSQL(name string, ifExists bool) string {
	if ifExists {
		return fmt.Sprintf("DROP TABLE IF EXISTS %s", d.QuoteIdent(name))
	}
	return fmt.Sprintf("DROP TABLE %s", d.QuoteIdent(name))
}

func (d MySQL) AddColumnSQL(table string, col Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.QuoteIdent(table), columnDef(d, col))
}

func (d MySQL) DropColumnSQL(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", d.QuoteIdent(table), d.QuoteIdent(column))
}

func (d MySQL) RenameColumnSQL(table, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		d.QuoteIdent(table), d.QuoteIdent(from), d.QuoteIdent(to))
}

func (d MySQL) CreateIndexSQL(idx Index) string { return createIndex(d, idx) }

// DropIndexSQL needs the owning table: MySQL scopes index names per table.
func (d MySQL) DropIndexSQL(name, table string) string {
	return fmt.Sprintf("DROP INDEX %s ON %s", d.QuoteIdent(name), d.QuoteIdent(table))
}

func (d MySQL) CreateHistorySQL(table string) string {
	return createHistory(d, table) + " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
}

func (d MySQL) SelectHistorySQL(table string) string { return selectHistory(d, table) }

func (d MySQL) InsertHistorySQL(table string) string { return insertHistory(d, table) }

func (d MySQL) DeleteHistorySQL(table string) string { return deleteHistory(d, table) }

// mysqlErrNoSuchTable is server error 1146 (ER_NO_SUCH_TABLE).
const mysqlErrNoSuchTable = 1146

func (MySQL) IsMissingTable(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrNoSuchTable
}
