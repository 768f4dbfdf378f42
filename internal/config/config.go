package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Driver         string `yaml:"driver"`
	DSN            string `yaml:"dsn"`
	Dir            string `yaml:"dir"`
	Table          string `yaml:"history_table"`
	JSON           bool   `yaml:"json"`
	LockTimeoutSec int    `yaml:"lock_timeout_sec"`
}

// Default returns the baseline config. Table is left empty so the engine's
// own default table name applies unless the caller overrides it.
func Default() *Config {
	return &Config{
		Driver:         "mysql",
		Dir:            "migrations",
		LockTimeoutSec: 30,
	}
}

func LoadYAML(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func MergeEnv(cfg *Config) *Config {
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Driver = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		cfg.Dir = v
	}
	if v := os.Getenv("HISTORY_TABLE"); v != "" {
		cfg.Table = v
	}
	if v := os.Getenv("LOCK_TIMEOUT_SEC"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.LockTimeoutSec = i
		}
	}
	return cfg
}

func (c *Config) LockTimeout() time.Duration {
	if c.LockTimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.LockTimeoutSec) * time.Second
}
