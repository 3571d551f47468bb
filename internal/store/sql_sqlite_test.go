// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsaddress/SnapChef-sub018/internal/config"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

func TestNewConnectSQLite_CreatesDirectoryAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "client.db")

	db, err := NewConnectSQLite(testContext(), config.ClientDB{DSN: path}, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.StartupWarning())
	assert.FileExists(t, path)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n))
	assert.Zero(t, n)
}

func TestNewConnectSQLite_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.db")
	cfg := config.ClientDB{DSN: path}

	db, err := NewConnectSQLite(testContext(), cfg, logger.Nop())
	require.NoError(t, err)
	repo := NewRecordRepository(db, nil, &seqIDs{}, logger.Nop())
	_, err = repo.Update(testContext(), "r1", func(rec *models.Record, found bool) (Mutation, error) {
		rec.Payload = recipe("kept")
		rec.Owner = "user42"
		rec.LocalVersion = 1
		rec.SyncState = models.SyncStatePending
		return MutationSave, nil
	})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	db, err = NewConnectSQLite(testContext(), cfg, logger.Nop())
	require.NoError(t, err)
	defer db.Close()
	assert.NoError(t, db.StartupWarning())

	rec, err := NewRecordRepository(db, nil, &seqIDs{}, logger.Nop()).Get(testContext(), "r1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatePending, rec.SyncState)
}

func TestNewConnectSQLite_RecoversFromCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.db")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("not a database "), 512), 0o600))

	db, err := NewConnectSQLite(testContext(), config.ClientDB{DSN: path}, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	warning := db.StartupWarning()
	require.Error(t, warning)
	assert.ErrorIs(t, warning, ErrStorageCorruption)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var moved bool
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "client.db.corrupt-") {
			moved = true
		}
	}
	assert.True(t, moved, "corrupted file must be kept next to the new one")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n))
	assert.Zero(t, n)
}

func TestSQLiteDSNHelpers(t *testing.T) {
	assert.Equal(t, "/tmp/a.db", sqliteFilePath("file:/tmp/a.db?cache=shared"))
	assert.Equal(t, "a.db", sqliteFilePath("a.db"))

	assert.Equal(t, "a.db?"+sqliteParams, withSQLiteParams("a.db"))
	assert.Equal(t, "file:a.db?cache=shared&"+sqliteParams, withSQLiteParams("file:a.db?cache=shared"))
}

func TestBuildListQuery(t *testing.T) {
	query, args, err := buildListQuery(listFilter{RecordFilter: models.RecordFilter{
		States: []models.SyncState{models.SyncStatePending},
		Owner:  "user42",
	}})
	require.NoError(t, err)
	assert.Contains(t, query, "sync_state IN (?)")
	assert.Contains(t, query, "owner = ?")
	assert.Contains(t, query, "deleted = ?")
	assert.True(t, strings.HasSuffix(query, "ORDER BY id"))
	assert.Equal(t, []any{"pending", "user42", false}, args)

	query, args, err = buildListQuery(listFilter{RecordFilter: models.RecordFilter{IncludeDeleted: true}})
	require.NoError(t, err)
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}
