package db

import (
	"context"
	"database/sql"
	"fmt"
)

// RunInTx runs fn inside one transaction on conn. The transaction commits when fn returns nil
// and rolls back when fn returns an error or panics; fn's error is returned unchanged.
// A cancelled ctx aborts the transaction, leaving state unchanged.
func RunInTx(ctx context.Context, conn *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tx.Rollback()
		if p := recover(); p != nil {
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}
