// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_DBError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// goose issues its own queries; none of them are expected by the mock.
	err = Migrate(db)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "migration error"), err.Error())
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	err := Migrate(db)
	assert.ErrorIs(t, err, ErrNilDB)
}

func TestMigrate_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	// Re-running is a no-op.
	require.NoError(t, Migrate(db))

	_, err = db.Exec(`INSERT INTO records (id, payload, owner, local_version, sync_state, conflict_version, last_error)
		VALUES ('r1', '{}', 'anonymous', 1, 'anonymous', NULL, '')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO sync_meta (key, value) VALUES ('pull_cursor', '')`)
	require.NoError(t, err)
}
