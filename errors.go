package migrate

import "fmt"

// Direction identifies which procedure of a migration is being executed.
type Direction int

const (
	Up Direction = iota
	Down
)

// String returns "up" or "down".
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// ConfigurationError reports an invalid migration set or record. It is
// detected before any database work happens and is always fatal: a Manager
// whose construction failed must not be used.
type ConfigurationError struct {
	msg string
}

func (e *ConfigurationError) Error() string { return e.msg }

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

// MigrationFailure reports a migration procedure that returned an error
// during Migrate, MigrateTo or Rollback. The enclosing transaction has been
// rolled back by the time the failure is returned, so the schema and the
// history table are unchanged by the failing migration.
type MigrationFailure struct {
	Version   int64
	Direction Direction
	Err       error
}

func (e *MigrationFailure) Error() string {
	return fmt.Sprintf("migration %d %s failed: %v", e.Version, e.Direction, e.Err)
}

// Unwrap returns the underlying cause.
func (e *MigrationFailure) Unwrap() error { return e.Err }
