// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrorClassification is the result type returned by [ErrorClassificator.Classify].
// It tells whether a failed database operation should be retried, abandoned,
// or treated as a damaged database file.
type ErrorClassification int

const (
	// NonRetryable indicates that the failed operation should not be retried.
	// This is the default classification for unrecognised errors.
	NonRetryable ErrorClassification = iota

	// Retryable indicates that the operation may succeed if attempted again,
	// e.g. after another connection released its write lock.
	Retryable

	// Corrupted indicates that the database file itself is damaged.
	Corrupted
)

// ErrorClassificator classifies driver errors.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// SQLiteErrorClassifier implements [ErrorClassificator] for mattn/go-sqlite3.
type SQLiteErrorClassifier struct{}

func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

// Classify maps a sqlite3.Error to an [ErrorClassification] based on its
// primary result code.
//
// Retryable codes: SQLITE_BUSY, SQLITE_LOCKED.
// Corrupted codes: SQLITE_CORRUPT, SQLITE_NOTADB.
// Everything else, including non-driver errors, is NonRetryable.
func (c *SQLiteErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return NonRetryable
	}

	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return Retryable
	case sqlite3.ErrCorrupt, sqlite3.ErrNotADB:
		return Corrupted
	}

	return NonRetryable
}
