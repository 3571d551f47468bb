// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/migrations"
)

// busyRetries bounds how often a write is repeated after SQLITE_BUSY.
const busyRetries = 3

type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger

	// startupWarning is set when the database file had to be recreated.
	startupWarning error
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// inTx runs fn in a transaction. Transactions that fail with a retryable
// driver error (another writer holds the lock) are repeated with a short
// backoff; corruption is reported as ErrStorageCorruption.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	backoff := retry.WithMaxRetries(busyRetries, retry.NewConstant(25*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := db.runTx(ctx, fn)
		if err == nil {
			return nil
		}
		if db.errorClassificator.Classify(err) == Retryable {
			return retry.RetryableError(err)
		}
		return db.classify(err)
	})
}

func (db *DB) runTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

// classify wraps driver errors that indicate a damaged file.
func (db *DB) classify(err error) error {
	if err != nil && db.errorClassificator.Classify(err) == Corrupted {
		return fmt.Errorf("%w: %w", ErrStorageCorruption, err)
	}
	return err
}
