// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/cameronsaddress/SnapChef-sub018/internal/config"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/validators"
)

type seqIDs struct{ n atomic.Int64 }

func (s *seqIDs) Generate() string {
	return fmt.Sprintf("id-%03d", s.n.Add(1))
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

func recipe(name string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"name":%q,"servings":2}`, name))
}

// newTestStore opens a real SQLite database in a temporary directory.
func newTestStore(t *testing.T) (*recordRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.db")

	db, err := NewConnectSQLite(testContext(), config.ClientDB{DSN: path}, logger.Nop())
	require.NoError(t, err)

	repo := NewRecordRepository(db, validators.NewRecordValidator(), &seqIDs{}, logger.Nop()).(*recordRepository)
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

// newMockStore wires the repository to sqlmock for driver error paths.
func newMockStore(t *testing.T) (*recordRepository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db := &DB{DB: conn, errorClassificator: NewSQLiteErrorClassifier(), logger: logger.Nop()}
	repo := NewRecordRepository(db, validators.NewRecordValidator(), &seqIDs{}, logger.Nop()).(*recordRepository)
	return repo, mock
}

