// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNotFound is returned when a record does not exist or is a tombstone.
	ErrNotFound = errors.New("record not found")

	// ErrRecordDeleted is returned when a write targets a tombstoned record.
	ErrRecordDeleted = errors.New("record is deleted")

	// ErrStorageCorruption is returned (wrapped) when the database file is
	// unreadable. At startup the file is moved aside and a fresh store is
	// created; the wrapped error is then available from StartupWarning.
	ErrStorageCorruption = errors.New("local storage is corrupted")

	// ErrVersionConflict is returned by the remote record repository when a
	// push was based on a version other than the stored one.
	ErrVersionConflict = errors.New("record version conflict")

	// ErrOwnerMismatch is returned by the remote record repository when a
	// record id already belongs to another owner.
	ErrOwnerMismatch = errors.New("record belongs to another owner")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing an INSERT, UPDATE or
	// DELETE fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning a single row fails.
	ErrScanningRow = errors.New("failed to scan record row")

	// ErrScanningRows is returned when scanning during multi-row iteration
	// fails.
	ErrScanningRows = errors.New("failed to scan record rows")
)

// VersionConflictError carries the stored remote record that rejected a push.
// It matches ErrVersionConflict with errors.Is.
type VersionConflictError struct {
	Current models.RemoteRecord
}

func (e *VersionConflictError) Error() string {
	return ErrVersionConflict.Error()
}

func (e *VersionConflictError) Unwrap() error {
	return ErrVersionConflict
}
