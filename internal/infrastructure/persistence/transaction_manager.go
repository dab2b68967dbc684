package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// WithTransaction runs fn inside a transaction, committing on nil error and
// rolling back otherwise. Panics roll back and re-panic.
func WithTransaction(ctx context.Context, db *sql.DB, fn func(tx Executor) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("❌ Rollback after panic failed: %v", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("❌ Rollback failed: %v (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
