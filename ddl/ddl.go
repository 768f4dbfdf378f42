package ddl

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Execer is the minimal statement-execution surface the executor needs.
// Implemented by *sql.DB, *sql.Tx, and *sql.Conn.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Table describes a table to create. Column types are raw SQL type strings
// for the target dialect ("BIGINT", "VARCHAR(255)", ...).
type Table struct {
	Name       string
	Columns    []Column
	PrimaryKey []string
}

// Column describes one column of a table.
type Column struct {
	Name    string
	Type    string
	NotNull bool
	Default string
}

// Index describes an index to create. When Name is empty a name is derived
// from the table and column names.
type Index struct {
	Table   string
	Columns []string
	Name    string
	Unique  bool
}

// Executor performs schema-altering operations against one statement
// executor, usually the transaction a migration runs in. Migration up/down
// procedures receive an Executor as their execution context.
type Executor struct {
	execer  Execer
	dialect Dialect
}

// NewExecutor binds an executor to a statement executor and a dialect.
func NewExecutor(execer Execer, dialect Dialect) *Executor {
	return &Executor{execer: execer, dialect: dialect}
}

// Dialect returns the dialect this executor renders SQL for.
func (e *Executor) Dialect() Dialect { return e.dialect }

// CreateTable creates a table from its description.
func (e *Executor) CreateTable(ctx context.Context, t Table) error {
	if err := ValidateIdentifier(t.Name); err != nil {
		return err
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("create table %s: no columns defined", t.Name)
	}
	names := make([]string, 0, len(t.Columns)+len(t.PrimaryKey))
	for _, col := range t.Columns {
		names = append(names, col.Name)
	}
	names = append(names, t.PrimaryKey...)
	for _, name := range names {
		if err := ValidateIdentifier(name); err != nil {
			return err
		}
	}
	if _, err := e.execer.ExecContext(ctx, e.dialect.CreateTableSQL(t)); err != nil {
		return fmt.Errorf("create table %s: %w", t.Name, err)
	}
	return nil
}

// DropTable drops a table, optionally tolerating its absence.
func (e *Executor) DropTable(ctx context.Context, name string, ifExists bool) error {
	if err := ValidateIdentifier(name); err != nil {
		return err
	}
	if _, err := e.execer.ExecContext(ctx, e.dialect.DropTableSQL(name, ifExists)); err != nil {
		return fmt.Errorf("drop table %s: %w", name, err)
	}
	return nil
}

// AddColumn adds a column to an existing table.
func (e *Executor) AddColumn(ctx context.Context, table string, col Column) error {
	if err := validateAll(table, col.Name); err != nil {
		return err
	}
	if _, err := e.execer.ExecContext(ctx, e.dialect.AddColumnSQL(table, col)); err != nil {
		return fmt.Errorf("add column %s.%s: %w", table, col.Name, err)
	}
	return nil
}

// DropColumn removes a column from an existing table.
func (e *Executor) DropColumn(ctx context.Context, table, column string) error {
	if err := validateAll(table, column); err != nil {
		return err
	}
	if _, err := e.execer.ExecContext(ctx, e.dialect.DropColumnSQL(table, column)); err != nil {
		return fmt.Errorf("drop column %s.%s: %w", table, column, err)
	}
	return nil
}

// RenameColumn renames a column on an existing table.
func (e *Executor) RenameColumn(ctx context.Context, table, from, to string) error {
	if err := validateAll(table, from, to); err != nil {
		return err
	}
	if _, err := e.execer.ExecContext(ctx, e.dialect.RenameColumnSQL(table, from, to)); err != nil {
		return fmt.Errorf("rename column %s.%s to %s: %w", table, from, to, err)
	}
	return nil
}

// CreateIndex creates an index from its description.
func (e *Executor) CreateIndex(ctx context.Context, idx Index) error {
	if idx.Name == "" {
		idx.Name = indexName(idx)
	}
	if err := validateAll(append([]string{idx.Table, idx.Name}, idx.Columns...)...); err != nil {
		return err
	}
	if len(idx.Columns) == 0 {
		return fmt.Errorf("create index %s: no columns defined", idx.Name)
	}
	if _, err := e.execer.ExecContext(ctx, e.dialect.CreateIndexSQL(idx)); err != nil {
		return fmt.Errorf("create index %s: %w", idx.Name, err)
	}
	return nil
}

// DropIndex drops an index. The table is required by dialects that scope
// index names to a table (MySQL) and ignored by the rest.
func (e *Executor) DropIndex(ctx context.Context, name, table string) error {
	if err := ValidateIdentifier(name); err != nil {
		return err
	}
	if table != "" {
		if err := ValidateIdentifier(table); err != nil {
			return err
		}
	}
	if _, err := e.execer.ExecContext(ctx, e.dialect.DropIndexSQL(name, table)); err != nil {
		return fmt.Errorf("drop index %s: %w", name, err)
	}
	return nil
}

// Exec executes one raw SQL statement.
func (e *Executor) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := e.execer.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// ExecBatch executes raw SQL statements in order, stopping at the first
// failure.
func (e *Executor) ExecBatch(ctx context.Context, statements []string) error {
	for i, stmt := range statements {
		if _, err := e.execer.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec statement %d/%d: %w", i+1, len(statements), err)
		}
	}
	return nil
}

func validateAll(names ...string) error {
	for _, name := range names {
		if err := ValidateIdentifier(name); err != nil {
			return err
		}
	}
	return nil
}

// indexName derives a deterministic index name from table and columns,
// e.g. idx_users_email.
func indexName(idx Index) string {
	return "idx_" + strings.ReplaceAll(idx.Table, ".", "_") + "_" + strings.Join(idx.Columns, "_")
}
