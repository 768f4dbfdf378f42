package migrate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kentolin/korm-migrate/ddl"
)

func nopMigration(ctx context.Context, exec *ddl.Executor) error { return nil }

func TestBuilderRequiresUp(t *testing.T) {
	_, err := New(1, "x").Down(nopMigration).Build()
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "'up'") {
		t.Fatalf("error should name the up block: %v", err)
	}
}

func TestBuilderRequiresDown(t *testing.T) {
	_, err := New(1, "x").Up(nopMigration).Build()
	if err == nil || !strings.Contains(err.Error(), "'down'") {
		t.Fatalf("error should name the down block: %v", err)
	}
}

func TestMustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(1, "x").MustBuild()
}

func TestMigrationAccessors(t *testing.T) {
	m := New(42, "the_answer").Up(nopMigration).Down(nopMigration).MustBuild()
	if m.Version() != 42 {
		t.Fatalf("expected version 42, got %d", m.Version())
	}
	if m.Description() != "the_answer" {
		t.Fatalf("unexpected description %q", m.Description())
	}
}

func TestUpSQLExecutesStatementsInOrder(t *testing.T) {
	db := newTestDB(t)
	m := New(1, "two_steps").
		UpSQL(
			"CREATE TABLE steps (id INTEGER)",
			"INSERT INTO steps (id) VALUES (1)",
		).
		DownSQL("DROP TABLE steps").
		MustBuild()

	ctx := context.Background()
	exec := ddl.NewExecutor(db, ddl.SQLite{})
	if err := m.up(ctx, exec); err != nil {
		t.Fatalf("up: %v", err)
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM steps").Scan(&n); err != nil || n != 1 {
		t.Fatalf("expected seeded row, n=%d err=%v", n, err)
	}
	if err := m.down(ctx, exec); err != nil {
		t.Fatalf("down: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM steps").Scan(&n); err == nil {
		t.Fatal("steps should have been dropped")
	}
}

func TestBuildCopiesOutOfBuilder(t *testing.T) {
	b := New(1, "first").Up(nopMigration).Down(nopMigration)
	m1, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// Reusing the builder must not mutate the already built migration.
	b.m.description = "second"
	if m1.Description() != "first" {
		t.Fatalf("built migration changed: %q", m1.Description())
	}
}
