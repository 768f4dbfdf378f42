// Package ddl executes schema-altering operations for migration procedures.
// An Executor is handed to every migration's up/down function, bound to the
// transaction the engine opened for that migration and to the dialect of the
// target database.
package ddl

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect renders DDL and migration-history SQL for one database engine and
// recognizes the driver errors the engine has to classify. Type mapping is
// the caller's concern: column types are passed through verbatim.
type Dialect interface {
	// Name returns the canonical driver name ("mysql", "postgres", "sqlite").
	Name() string
	// QuoteIdent quotes an identifier, quoting each dot-separated part.
	QuoteIdent(name string) string
	// Placeholder returns the bind placeholder for 1-based position n.
	Placeholder(n int) string

	CreateTableSQL(t Table) string
	DropTableSQL(name string, ifExists bool) string
	AddColumnSQL(table string, col Column) string
	DropColumnSQL(table, column string) string
	RenameColumnSQL(table, from, to string) string
	CreateIndexSQL(idx Index) string
	DropIndexSQL(name, table string) string

	// History-table statements used by the migration engine itself.
	CreateHistorySQL(table string) string
	SelectHistorySQL(table string) string
	InsertHistorySQL(table string) string
	DeleteHistorySQL(table string) string

	// IsMissingTable reports whether err is the driver's "table does not
	// exist" error, so history reads can succeed before initialization.
	IsMissingTable(err error) bool
}

// ByName maps a driver name to its dialect.
func ByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "mysql":
		return MySQL{}, nil
	case "postgres", "pgx":
		return Postgres{}, nil
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q (supported: mysql, postgres, sqlite)", name)
	}
}

// validIdentifier matches safe SQL identifiers (alphanumeric, underscore,
// dot for schema.table).
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// ValidateIdentifier checks that a SQL identifier (table/column/index name)
// is safe to interpolate into a statement.
func ValidateIdentifier(name string) error {
	if !validIdentifier.MatchString(name) {
		return fmt.Errorf("invalid SQL identifier: %q", name)
	}
	return nil
}

// quoteParts quotes each dot-separated part of an identifier with the given
// quote rune, so "app.users" becomes "app"."users" rather than "app.users".
func quoteParts(name string, quote byte) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = string(quote) + p + string(quote)
	}
	return strings.Join(parts, ".")
}

// columnDef renders one column definition for CREATE TABLE / ADD COLUMN.
func columnDef(d Dialect, col Column) string {
	var b strings.Builder
	b.WriteString(d.QuoteIdent(col.Name))
	b.WriteByte(' ')
	b.WriteString(col.Type)
	if col.NotNull {
		b.WriteString(" NOT NULL")
	}
	if col.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(col.Default)
	}
	return b.String()
}

// createTable renders the CREATE TABLE statement shared by all dialects.
func createTable(d Dialect, t Table) string {
	defs := make([]string, 0, len(t.Columns)+1)
	for _, col := range t.Columns {
		defs = append(defs, columnDef(d, col))
	}
	if len(t.PrimaryKey) > 0 {
		quoted := make([]string, len(t.PrimaryKey))
		for i, c := range t.PrimaryKey {
			quoted[i] = d.QuoteIdent(c)
		}
		defs = append(defs, "PRIMARY KEY ("+strings.Join(quoted, ", ")+")")
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.QuoteIdent(t.Name), strings.Join(defs, ", "))
}

// createIndex renders the CREATE [UNIQUE] INDEX statement shared by all
// dialects. The index name must already be resolved.
func createIndex(d Dialect, idx Index) string {
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	quoted := make([]string, len(idx.Columns))
	for i, c := range idx.Columns {
		quoted[i] = d.QuoteIdent(c)
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
		unique, d.QuoteIdent(idx.Name), d.QuoteIdent(idx.Table), strings.Join(quoted, ", "))
}

// createHistory renders the history CREATE TABLE shared by all dialects.
func createHistory(d Dialect, table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  version BIGINT PRIMARY KEY,
  description VARCHAR(500) NOT NULL,
  applied_at VARCHAR(50) NOT NULL,
  execution_time_ms BIGINT NOT NULL
)`, d.QuoteIdent(table))
}

// selectHistory renders the ascending history SELECT shared by all dialects.
func selectHistory(d Dialect, table string) string {
	return fmt.Sprintf("SELECT version, description, applied_at, execution_time_ms FROM %s ORDER BY version ASC", d.QuoteIdent(table))
}

// insertHistory renders the history INSERT shared by all dialects, binding
// through the dialect's placeholders.
func insertHistory(d Dialect, table string) string {
	return fmt.Sprintf("INSERT INTO %s (version, description, applied_at, execution_time_ms) VALUES (%s, %s, %s, %s)",
		d.QuoteIdent(table), d.Placeholder(1), d.Placeholder(2), d.Placeholder(3), d.Placeholder(4))
}

// deleteHistory renders the history DELETE shared by all dialects.
func deleteHistory(d Dialect, table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE version = %s", d.QuoteIdent(table), d.Placeholder(1))
}

// SplitStatements splits a SQL script into individual statements on
// semicolons, dropping statements that contain only whitespace and line
// comments. It does not understand semicolons inside string literals;
// scripts that need those should be executed as a single statement.
func SplitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || commentOnly(stmt) {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

func commentOnly(stmt string) bool {
	for _, line := range strings.Split(stmt, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		return false
	}
	return true
}
