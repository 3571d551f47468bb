// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/cameronsaddress/SnapChef-sub018/internal/adapter"
	"github.com/cameronsaddress/SnapChef-sub018/internal/config"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
	"github.com/cameronsaddress/SnapChef-sub018/internal/utils"
	"github.com/cameronsaddress/SnapChef-sub018/internal/validators"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

const testOwner = "user42"

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

func recipe(name string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"name":%q,"servings":2}`, name))
}

func testSyncOptions() SyncOptions {
	return SyncOptions{
		MaxRetries:     2,
		BaseBackoff:    time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		RequestTimeout: time.Second,
	}
}

// stubIdentity is a switchable identity.
type stubIdentity struct {
	mu    sync.RWMutex
	owner string
}

func newStubIdentity(owner string) *stubIdentity {
	return &stubIdentity{owner: owner}
}

func (s *stubIdentity) Owner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.owner == "" {
		return models.AnonymousOwner
	}
	return s.owner
}

func (s *stubIdentity) IsAuthenticated() bool {
	return s.Owner() != models.AnonymousOwner
}

func (s *stubIdentity) set(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = owner
}

// newTestRecordStore opens a real SQLite store in a temporary directory.
func newTestRecordStore(t *testing.T) store.RecordStore {
	t.Helper()

	db, err := store.NewConnectSQLite(testContext(), config.ClientDB{DSN: filepath.Join(t.TempDir(), "client.db")}, logger.Nop())
	require.NoError(t, err)

	records := store.NewRecordRepository(db, validators.NewRecordValidator(), utils.NewUUIDGenerator(), logger.Nop())
	t.Cleanup(func() { records.Close() })
	return records
}

// boltRemote serves the remote contract from the bolt repository that backs
// the reference server, so tests exercise real version checks.
type boltRemote struct {
	repo     store.RemoteRecordRepository
	identity Identity

	pushes atomic.Int64
	// beforePush runs while the record is marked syncing and no store lock
	// is held.
	beforePush func(req models.PushRequest)
}

func newBoltRemote(t *testing.T, identity Identity) *boltRemote {
	t.Helper()

	repo, err := store.NewBoltRecordRepository(filepath.Join(t.TempDir(), "remote.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return &boltRemote{repo: repo, identity: identity}
}

func (r *boltRemote) Push(ctx context.Context, req models.PushRequest) (models.PushResult, error) {
	r.pushes.Add(1)
	if r.beforePush != nil {
		r.beforePush(req)
	}

	saved, err := r.repo.Push(ctx, r.identity.Owner(), req)
	var conflictErr *store.VersionConflictError
	switch {
	case errors.As(err, &conflictErr):
		return models.PushResult{}, &adapter.ConflictError{Remote: conflictErr.Current}
	case errors.Is(err, store.ErrOwnerMismatch):
		return models.PushResult{}, fmt.Errorf("%w: %w", adapter.ErrPermanent, err)
	case err != nil:
		return models.PushResult{}, fmt.Errorf("%w: %w", adapter.ErrTransient, err)
	}

	return models.PushResult{
		RecordID:   saved.RecordID,
		Version:    saved.Version,
		Payload:    saved.Payload,
		Deleted:    saved.Deleted,
		ModifiedAt: saved.ModifiedAt,
	}, nil
}

func (r *boltRemote) Pull(ctx context.Context, since time.Time) (models.PullResponse, error) {
	records, cursor, err := r.repo.Since(ctx, r.identity.Owner(), since)
	if err != nil {
		return models.PullResponse{}, fmt.Errorf("%w: %w", adapter.ErrTransient, err)
	}
	return models.PullResponse{Records: records, ServerTime: cursor}, nil
}

// remoteEdit writes a new revision of id as another device of the same
// user would.
func (r *boltRemote) remoteEdit(t *testing.T, id string, payload json.RawMessage, deleted bool) models.RemoteRecord {
	t.Helper()

	cur, ok := r.find(t, id)
	require.True(t, ok, "record %s is not on the remote", id)

	kind := models.OperationUpdate
	if deleted {
		kind = models.OperationDelete
	}
	saved, err := r.repo.Push(testContext(), r.identity.Owner(), models.PushRequest{
		RecordID:    id,
		Kind:        kind,
		Payload:     payload,
		BaseVersion: cur.Version,
		Version:     cur.Version + 1,
	})
	require.NoError(t, err)
	return saved
}

func (r *boltRemote) find(t *testing.T, id string) (models.RemoteRecord, bool) {
	t.Helper()

	records, _, err := r.repo.Since(testContext(), r.identity.Owner(), time.Time{})
	require.NoError(t, err)
	for _, rec := range records {
		if rec.RecordID == id {
			return rec, true
		}
	}
	return models.RemoteRecord{}, false
}

// syncFixture wires the client services on a real store.
type syncFixture struct {
	records  store.RecordStore
	identity *stubIdentity
	errors   *SyncErrorLog
	sync     *SyncManager
	service  *RecordService
	status   *StatusReporter
}

func newSyncFixture(t *testing.T, remote adapter.RemoteService, identity *stubIdentity) *syncFixture {
	t.Helper()

	records := newTestRecordStore(t)
	errLog := NewSyncErrorLog(10)
	mgr := NewSyncManager(records, remote, identity, errLog, testSyncOptions(), logger.Nop())

	return &syncFixture{
		records:  records,
		identity: identity,
		errors:   errLog,
		sync:     mgr,
		service:  NewRecordService(records, mgr, identity, logger.Nop()),
		status:   NewStatusReporter(records, errLog, logger.Nop()),
	}
}

// drain runs a pass and waits for it.
func (f *syncFixture) drain(t *testing.T) DrainResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(testContext(), 10*time.Second)
	defer cancel()

	res, err := f.sync.StartSync(ctx).Wait(ctx)
	require.NoError(t, err)
	return res
}

// seed writes rec as is, bypassing validation and versioning.
func (f *syncFixture) seed(t *testing.T, rec models.Record) models.Record {
	t.Helper()

	saved, err := f.records.Update(testContext(), rec.ID, func(cur *models.Record, _ bool) (store.Mutation, error) {
		*cur = rec
		return store.MutationSave, nil
	})
	require.NoError(t, err)
	return saved
}

func (f *syncFixture) load(t *testing.T, id string) models.Record {
	t.Helper()

	rec, err := f.records.Load(testContext(), id)
	require.NoError(t, err)
	return rec
}

// assertSyncedVersions checks that every synced record carries equal local
// and remote versions and every conflicted one keeps the remote side.
func (f *syncFixture) assertSyncedVersions(t *testing.T) {
	t.Helper()

	all, err := f.records.List(testContext(), models.RecordFilter{IncludeDeleted: true})
	require.NoError(t, err)

	for _, rec := range all {
		switch rec.SyncState {
		case models.SyncStateSynced:
			require.NotNil(t, rec.RemoteVersion, "synced record %s without remote version", rec.ID)
			require.Equal(t, rec.LocalVersion, *rec.RemoteVersion, "synced record %s", rec.ID)
		case models.SyncStateConflicted:
			require.NotNil(t, rec.Conflict, "conflicted record %s lost the remote side", rec.ID)
		case models.SyncStateSyncing:
			t.Fatalf("record %s left syncing", rec.ID)
		}
	}
}

func versionPtr(v int64) *int64 {
	return &v
}
