// Package migrate versions, sequences, applies and reverts relational schema
// changes, keeping a persisted history of what has been applied. Migrations
// are code: each one pairs a version and description with an up and a down
// procedure that receive a DDL execution context bound to the migration's
// own transaction. SQL file pairs are supported through LoadDir/LoadFS.
package migrate

import (
	"context"

	"github.com/kentolin/korm-migrate/ddl"
)

// MigrationFunc is one side of a reversible schema change. It runs inside
// the transaction the Manager opened for that migration; returning an error
// rolls back both the schema change and the history write.
type MigrationFunc func(ctx context.Context, exec *ddl.Executor) error

// Migration pairs a version and description with forward and reverse
// procedures. A Migration is immutable once built; its identity is the
// version. Build one with New or load a set from SQL files with LoadDir.
type Migration struct {
	version     int64
	description string
	up          MigrationFunc
	down        MigrationFunc
}

// Version returns the caller-assigned version number.
func (m *Migration) Version() int64 { return m.version }

// Description returns the human-readable description.
func (m *Migration) Description() string { return m.description }

// Builder assembles a Migration. Procedures are stored, never executed, until
// the Manager runs them.
type Builder struct {
	m Migration
}

// New starts a migration with the given version and description. Versions
// are caller-assigned (a timestamp or a sequence number), must be positive,
// and are never reused.
func New(version int64, description string) *Builder {
	return &Builder{m: Migration{version: version, description: description}}
}

// Up sets the forward procedure.
func (b *Builder) Up(fn MigrationFunc) *Builder {
	b.m.up = fn
	return b
}

// Down sets the reverse procedure.
func (b *Builder) Down(fn MigrationFunc) *Builder {
	b.m.down = fn
	return b
}

// UpSQL sets the forward procedure to execute the given statements in order.
func (b *Builder) UpSQL(statements ...string) *Builder {
	return b.Up(execStatements(statements))
}

// DownSQL sets the reverse procedure to execute the given statements in
// order.
func (b *Builder) DownSQL(statements ...string) *Builder {
	return b.Down(execStatements(statements))
}

// Build finalizes the migration. Both procedures must have been set.
func (b *Builder) Build() (*Migration, error) {
	if b.m.up == nil {
		return nil, configErrorf("migration %d must define an 'up' block", b.m.version)
	}
	if b.m.down == nil {
		return nil, configErrorf("migration %d must define a 'down' block", b.m.version)
	}
	m := b.m
	return &m, nil
}

// MustBuild is like Build but panics on error. Intended for package-level
// migration sets where a malformed migration should stop the program at
// startup.
func (b *Builder) MustBuild() *Migration {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

func execStatements(statements []string) MigrationFunc {
	return func(ctx context.Context, exec *ddl.Executor) error {
		return exec.ExecBatch(ctx, statements)
	}
}
