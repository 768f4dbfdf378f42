package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultAndLockTimeout(t *testing.T) {
	c := Default()
	if c.Driver != "mysql" || c.Dir != "migrations" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.Table != "" {
		t.Fatal("table should default to empty (engine default applies)")
	}
	if c.LockTimeout() != 30*time.Second {
		t.Fatal("default timeout mismatch")
	}
	c.LockTimeoutSec = -1
	if c.LockTimeout() != 30*time.Second {
		t.Fatal("non-positive timeout should fall back to 30s")
	}
}

func TestLoadYAMLAndMergeEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cfg.yaml")
	yaml := "driver: postgres\ndsn: postgres://u:p@localhost/db\ndir: ./migs\nhistory_table: t\nlock_timeout_sec: 10\n"
	if err := os.WriteFile(p, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	cfg, err := LoadYAML(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Driver != "postgres" || cfg.Dir != "./migs" || cfg.Table != "t" || cfg.LockTimeoutSec != 10 {
		t.Fatalf("yaml load mismatch: %+v", cfg)
	}

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "app.db")
	t.Setenv("MIGRATIONS_DIR", "./x")
	t.Setenv("HISTORY_TABLE", "y")
	t.Setenv("LOCK_TIMEOUT_SEC", "20")
	cfg = MergeEnv(cfg)
	if cfg.Driver != "sqlite" || cfg.DSN != "app.db" || cfg.Dir != "./x" || cfg.Table != "y" || cfg.LockTimeoutSec != 20 {
		t.Fatalf("env merge mismatch: %+v", cfg)
	}
}

func TestLoadYAMLMissingPath(t *testing.T) {
	cfg, err := LoadYAML("")
	if err != nil {
		t.Fatalf("empty path should load defaults: %v", err)
	}
	if cfg.Driver != "mysql" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if _, err := LoadYAML(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
