package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateTableSQL(t *testing.T) {
	table := Table{
		Name: "users",
		Columns: []Column{
			{Name: "id", Type: "BIGINT", NotNull: true},
			{Name: "email", Type: "VARCHAR(255)", NotNull: true, Default: "''"},
		},
		PrimaryKey: []string{"id"},
	}
	tests := []struct {
		name    string
		dialect Dialect
		want    string
	}{
		{
			name:    "mysql",
			dialect: MySQL{},
			want:    "CREATE TABLE `users` (`id` BIGINT NOT NULL, `email` VARCHAR(255) NOT NULL DEFAULT '', PRIMARY KEY (`id`)) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
		},
		{
			name:    "postgres",
			dialect: Postgres{},
			want:    `CREATE TABLE "users" ("id" BIGINT NOT NULL, "email" VARCHAR(255) NOT NULL DEFAULT '', PRIMARY KEY ("id"))`,
		},
		{
			name:    "sqlite",
			dialect: SQLite{},
			want:    `CREATE TABLE "users" ("id" BIGINT NOT NULL, "email" VARCHAR(255) NOT NULL DEFAULT '', PRIMARY KEY ("id"))`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.CreateTableSQL(table))
		})
	}
}

func TestColumnSQL(t *testing.T) {
	col := Column{Name: "age", Type: "INTEGER"}
	tests := []struct {
		name    string
		dialect Dialect
		add     string
		drop    string
		rename  string
	}{
		{
			name:    "mysql",
			dialect: MySQL{},
			add:     "ALTER TABLE `users` ADD COLUMN `age` INTEGER",
			drop:    "ALTER TABLE `users` DROP COLUMN `age`",
			rename:  "ALTER TABLE `users` RENAME COLUMN `age` TO `years`",
		},
		{
			name:    "postgres",
			dialect: Postgres{},
			add:     `ALTER TABLE "users" ADD COLUMN "age" INTEGER`,
			drop:    `ALTER TABLE "users" DROP COLUMN "age"`,
			rename:  `ALTER TABLE "users" RENAME COLUMN "age" TO "years"`,
		},
		{
			name:    "sqlite",
			dialect: SQLite{},
			add:     `ALTER TABLE "users" ADD COLUMN "age" INTEGER`,
			drop:    `ALTER TABLE "users" DROP COLUMN "age"`,
			rename:  `ALTER TABLE "users" RENAME COLUMN "age" TO "years"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.add, tt.dialect.AddColumnSQL("users", col))
			assert.Equal(t, tt.drop, tt.dialect.DropColumnSQL("users", "age"))
			assert.Equal(t, tt.rename, tt.dialect.RenameColumnSQL("users", "age", "years"))
		})
	}
}

func TestIndexSQL(t *testing.T) {
	idx := Index{Table: "users", Columns: []string{"email"}, Name: "idx_users_email", Unique: true}

	assert.Equal(t, "CREATE UNIQUE INDEX `idx_users_email` ON `users` (`email`)", MySQL{}.CreateIndexSQL(idx))
	assert.Equal(t, `CREATE UNIQUE INDEX "idx_users_email" ON "users" ("email")`, Postgres{}.CreateIndexSQL(idx))

	// MySQL scopes index names per table, the others do not.
	assert.Equal(t, "DROP INDEX `idx_users_email` ON `users`", MySQL{}.DropIndexSQL("idx_users_email", "users"))
	assert.Equal(t, `DROP INDEX "idx_users_email"`, Postgres{}.DropIndexSQL("idx_users_email", "users"))
	assert.Equal(t, `DROP INDEX "idx_users_email"`, SQLite{}.DropIndexSQL("idx_users_email", "users"))
}

func TestDropTableSQL(t *testing.T) {
	assert.Equal(t, "DROP TABLE `t`", MySQL{}.DropTableSQL("t", false))
	assert.Equal(t, "DROP TABLE IF EXISTS `t`", MySQL{}.DropTableSQL("t", true))
	assert.Equal(t, `DROP TABLE IF EXISTS "t"`, SQLite{}.DropTableSQL("t", true))
}

func TestHistorySQL(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO `h` (version, description, applied_at, execution_time_ms) VALUES (?, ?, ?, ?)",
		MySQL{}.InsertHistorySQL("h"))
	assert.Equal(t,
		`INSERT INTO "h" (version, description, applied_at, execution_time_ms) VALUES ($1, $2, $3, $4)`,
		Postgres{}.InsertHistorySQL("h"))
	assert.Equal(t,
		`INSERT INTO "h" (version, description, applied_at, execution_time_ms) VALUES (?, ?, ?, ?)`,
		SQLite{}.InsertHistorySQL("h"))
	assert.Equal(t,
		`DELETE FROM "h" WHERE version = $1`,
		Postgres{}.DeleteHistorySQL("h"))
	assert.Equal(t, "DELETE FROM `h` WHERE version = ?", MySQL{}.DeleteHistorySQL("h"))
	assert.Contains(t, SQLite{}.CreateHistorySQL("h"), "CREATE TABLE IF NOT EXISTS")
	assert.Contains(t, MySQL{}.SelectHistorySQL("h"), "ORDER BY version ASC")
}

func TestQuoteIdentDotted(t *testing.T) {
	assert.Equal(t, "`app`.`users`", MySQL{}.QuoteIdent("app.users"))
	assert.Equal(t, `"app"."users"`, Postgres{}.QuoteIdent("app.users"))
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "?", MySQL{}.Placeholder(3))
	assert.Equal(t, "$3", Postgres{}.Placeholder(3))
	assert.Equal(t, "?", SQLite{}.Placeholder(1))
}

func TestByName(t *testing.T) {
	for name, want := range map[string]string{
		"mysql":    "mysql",
		"postgres": "postgres",
		"pgx":      "postgres",
		"sqlite":   "sqlite",
		"sqlite3":  "sqlite",
		"MySQL":    "mysql",
	} {
		d, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		assert.Equal(t, want, d.Name())
	}
	_, err := ByName("oracle")
	assert.Error(t, err)
}

func TestValidateIdentifier(t *testing.T) {
	for _, ok := range []string{"users", "_tmp", "app.users", "t2", "UPPER_case"} {
		assert.NoError(t, ValidateIdentifier(ok), ok)
	}
	for _, bad := range []string{"", "2fast", "users; DROP TABLE x", "a-b", "na me", "`quoted`"} {
		assert.Error(t, ValidateIdentifier(bad), bad)
	}
}

func TestSplitStatements(t *testing.T) {
	script := `-- schema bootstrap
CREATE TABLE a (id INTEGER);

-- just a comment between statements
;
ALTER TABLE a ADD COLUMN name TEXT;
`
	got := SplitStatements(script)
	want := []string{
		"-- schema bootstrap\nCREATE TABLE a (id INTEGER)",
		"ALTER TABLE a ADD COLUMN name TEXT",
	}
	assert.Equal(t, want, got)

	assert.Empty(t, SplitStatements("  \n-- nothing here\n"))
}
