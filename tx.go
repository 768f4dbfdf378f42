package migrate

import (
	"context"
	"database/sql"
	"fmt"
)

// inTransaction runs fn inside a transaction on db, committing on a nil
// return and rolling back otherwise. fn's error is returned unchanged after
// rollback so callers keep the original cause.
func inTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}
