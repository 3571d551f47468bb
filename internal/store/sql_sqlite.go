// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cameronsaddress/SnapChef-sub018/internal/config"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
)

// sqliteParams enables WAL so readers never wait for the writer, and makes
// every transaction take the write lock up front.
const sqliteParams = "_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"

// NewConnectSQLite opens the client database at cfg.DSN and brings its schema
// up to date. A file that fails the integrity check or the migrations with a
// corruption error is moved to "<path>.corrupt-<unix>" and replaced by a new
// empty database; the returned DB then reports the event from StartupWarning.
func NewConnectSQLite(ctx context.Context, cfg config.ClientDB, log *logger.Logger) (*DB, error) {
	path := sqliteFilePath(cfg.DSN)
	if err := createLocalDBDirIfNotExists(path); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database directory")
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := openSQLite(ctx, cfg.DSN, log)
	if err == nil {
		return db, nil
	}
	if !errors.Is(err, ErrStorageCorruption) {
		return nil, err
	}

	log.Err(err).Str("func", "NewConnectSQLite").Str("path", path).Msg("database file is corrupted, recreating")

	moved, moveErr := moveAside(path)
	if moveErr != nil {
		log.Err(moveErr).Str("func", "NewConnectSQLite").Msg("error moving corrupted database aside")
		return nil, fmt.Errorf("error recovering corrupted database: %w", moveErr)
	}

	db, err = openSQLite(ctx, cfg.DSN, log)
	if err != nil {
		return nil, fmt.Errorf("error recreating database: %w", err)
	}

	db.startupWarning = fmt.Errorf("%w: previous file moved to %s", ErrStorageCorruption, moved)
	return db, nil
}

func openSQLite(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite3", withSQLiteParams(dsn))
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	db := &DB{
		DB:                 conn,
		errorClassificator: NewSQLiteErrorClassifier(),
		logger:             log,
	}

	if err = db.checkIntegrity(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		conn.Close()
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error migrating database")
		return nil, db.classify(fmt.Errorf("migration failed: %w", err))
	}

	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to database successfully")
	return db, nil
}

// checkIntegrity pings the database and runs PRAGMA quick_check.
func (db *DB) checkIntegrity(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		db.logger.Err(err).Str("func", "DB.checkIntegrity").Msg("error connecting database (ping)")
		return db.classify(err)
	}

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&result); err != nil {
		db.logger.Err(err).Str("func", "DB.checkIntegrity").Msg("integrity check failed")
		return db.classify(err)
	}
	if result != "ok" {
		return fmt.Errorf("%w: quick_check: %s", ErrStorageCorruption, result)
	}
	return nil
}

// StartupWarning returns the error describing a database recreated at
// startup, or nil.
func (db *DB) StartupWarning() error {
	return db.startupWarning
}

// sqliteFilePath extracts the file path from a go-sqlite3 DSN.
func sqliteFilePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

func withSQLiteParams(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqliteParams
	}
	return dsn + "?" + sqliteParams
}

func createLocalDBDirIfNotExists(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// moveAside renames the database file and drops its WAL side files.
func moveAside(path string) (string, error) {
	target := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())
	if err := os.Rename(path, target); err != nil && !os.IsNotExist(err) {
		return "", err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(path + suffix); err != nil && !os.IsNotExist(err) {
			return "", err
		}
	}
	return target, nil
}
