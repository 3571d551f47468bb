// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// Сценарии ниже гоняют синхронизацию против bolt-хранилища эталонного
// сервера, поэтому версии проверяются настоящей логикой.

func newFlow(t *testing.T) (*syncFixture, *boltRemote) {
	t.Helper()
	identity := newStubIdentity(testOwner)
	remote := newBoltRemote(t, identity)
	return newSyncFixture(t, remote, identity), remote
}

func TestSyncFlow_Lifecycle(t *testing.T) {
	f, remote := newFlow(t)
	ctx := testContext()

	rec, err := f.service.Create(ctx, recipe("pancakes"))
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatePending, rec.SyncState)

	res := f.drain(t)
	assert.Equal(t, 1, res.Pushed)
	got := f.load(t, rec.ID)
	assert.Equal(t, models.SyncStateSynced, got.SyncState)
	assert.Equal(t, int64(1), got.LocalVersion)

	_, err = f.service.Update(ctx, rec.ID, recipe("pancakes with syrup"))
	require.NoError(t, err)
	f.drain(t)
	got = f.load(t, rec.ID)
	assert.Equal(t, models.SyncStateSynced, got.SyncState)
	assert.Equal(t, int64(2), got.LocalVersion)

	onRemote, ok := remote.find(t, rec.ID)
	require.True(t, ok)
	assert.Equal(t, int64(2), onRemote.Version)
	assert.JSONEq(t, string(recipe("pancakes with syrup")), string(onRemote.Payload))

	require.NoError(t, f.service.Delete(ctx, rec.ID))
	res = f.drain(t)
	assert.Equal(t, 1, res.Purged, "acknowledged tombstone is purged")

	_, err = f.records.Load(ctx, rec.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	onRemote, _ = remote.find(t, rec.ID)
	assert.True(t, onRemote.Deleted)

	f.assertSyncedVersions(t)
}

func TestSyncFlow_EditDuringFlight(t *testing.T) {
	f, remote := newFlow(t)
	ctx := testContext()

	rec, err := f.service.Create(ctx, recipe("risotto"))
	require.NoError(t, err)

	var edited atomic.Bool
	remote.beforePush = func(req models.PushRequest) {
		if edited.CompareAndSwap(false, true) {
			// Пользователь правит запись, пока она летит на сервер
			_, err := f.service.Update(ctx, req.RecordID, recipe("mushroom risotto"))
			assert.NoError(t, err)
		}
	}

	f.drain(t)
	got := f.load(t, rec.ID)
	assert.Equal(t, models.SyncStatePending, got.SyncState, "edit made during the push must not be marked synced")
	assert.Equal(t, int64(2), got.LocalVersion)
	assert.Equal(t, int64(1), got.BaseVersion())
	assert.Equal(t, 1, f.sync.QueueLen())

	f.drain(t)
	got = f.load(t, rec.ID)
	assert.Equal(t, models.SyncStateSynced, got.SyncState)
	assert.Equal(t, int64(2), got.LocalVersion)

	onRemote, _ := remote.find(t, rec.ID)
	assert.JSONEq(t, string(recipe("mushroom risotto")), string(onRemote.Payload))
}

func TestSyncFlow_ClaimAnonymous(t *testing.T) {
	identity := newStubIdentity("")
	remote := newBoltRemote(t, identity)
	f := newSyncFixture(t, remote, identity)
	ctx := testContext()

	rec, err := f.service.Create(ctx, recipe("omelette"))
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateAnonymous, rec.SyncState)
	assert.Equal(t, models.AnonymousOwner, rec.Owner)
	assert.Equal(t, 0, f.sync.QueueLen())

	identity.set(testOwner)
	claimed, err := f.service.ClaimAnonymous(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, testOwner, claimed[0].Owner)
	assert.Equal(t, models.SyncStatePending, claimed[0].SyncState)

	f.drain(t)
	got := f.load(t, rec.ID)
	assert.Equal(t, models.SyncStateSynced, got.SyncState)
	assert.Equal(t, testOwner, got.Owner)

	_, ok := remote.find(t, rec.ID)
	assert.True(t, ok)
}

func TestSyncFlow_DeleteAgainstRemoteEdit(t *testing.T) {
	f, remote := newFlow(t)
	ctx := testContext()

	rec, err := f.service.Create(ctx, recipe("curry"))
	require.NoError(t, err)
	f.drain(t)

	remote.remoteEdit(t, rec.ID, recipe("green curry"), false)
	require.NoError(t, f.service.Delete(ctx, rec.ID))

	res := f.drain(t)
	assert.Equal(t, 1, res.Conflicts)

	got := f.load(t, rec.ID)
	assert.Equal(t, models.SyncStateConflicted, got.SyncState, "delete must not silently win")
	assert.True(t, got.Deleted)
	require.NotNil(t, got.Conflict)
	assert.False(t, got.Conflict.Deleted)
	assert.JSONEq(t, string(recipe("green curry")), string(got.Conflict.Payload))

	resolved, err := f.sync.ResolveConflict(ctx, rec.ID, models.KeepRemote, nil)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateSynced, resolved.SyncState)

	live, err := f.service.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.JSONEq(t, string(recipe("green curry")), string(live.Payload))
}

func TestSyncFlow_TwoDevices(t *testing.T) {
	phone, remote := newFlow(t)
	tabletIdentity := newStubIdentity(testOwner)
	tablet := newSyncFixture(t, &boltRemote{repo: remote.repo, identity: tabletIdentity}, tabletIdentity)
	ctx := testContext()

	rec, err := phone.service.Create(ctx, recipe("lasagna"))
	require.NoError(t, err)
	phone.drain(t)

	res := tablet.drain(t)
	assert.Equal(t, 1, res.Pulled)
	onTablet := tablet.load(t, rec.ID)
	assert.Equal(t, models.SyncStateSynced, onTablet.SyncState)

	_, err = tablet.service.Update(ctx, rec.ID, recipe("vegetable lasagna"))
	require.NoError(t, err)
	tablet.drain(t)

	phone.drain(t)
	onPhone := phone.load(t, rec.ID)
	onTablet = tablet.load(t, rec.ID)
	assert.Equal(t, models.SyncStateSynced, onPhone.SyncState)
	assert.Equal(t, onTablet.LocalVersion, onPhone.LocalVersion)
	assert.JSONEq(t, string(onTablet.Payload), string(onPhone.Payload))
}

// TestSyncFlow_RandomisedSyncedVersions mixes local edits, remote edits,
// drain passes and resolutions, checking after every step that a synced
// record always carries equal local and remote versions.
func TestSyncFlow_RandomisedSyncedVersions(t *testing.T) {
	for seed := uint64(1); seed <= 4; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			f, remote := newFlow(t)
			ctx := testContext()
			rnd := rand.New(rand.NewPCG(seed, seed*31))
			choices := []models.ConflictChoice{models.KeepLocal, models.KeepRemote, models.KeepCustom}

			pick := func(states ...models.SyncState) (models.Record, bool) {
				all, err := f.records.List(ctx, models.RecordFilter{States: states})
				require.NoError(t, err)
				if len(all) == 0 {
					return models.Record{}, false
				}
				return all[rnd.IntN(len(all))], true
			}

			for step := range 60 {
				switch rnd.IntN(6) {
				case 0:
					_, err := f.service.Create(ctx, recipe(fmt.Sprintf("created %d", step)))
					require.NoError(t, err)
				case 1:
					if rec, ok := pick(); ok {
						_, err := f.service.Update(ctx, rec.ID, recipe(fmt.Sprintf("edited %d", step)))
						require.NoError(t, err)
					}
				case 2:
					if rec, ok := pick(); ok {
						require.NoError(t, f.service.Delete(ctx, rec.ID))
					}
				case 3:
					if rec, ok := pick(models.SyncStateSynced, models.SyncStatePending); ok {
						if onRemote, found := remote.find(t, rec.ID); found && !onRemote.Deleted {
							remote.remoteEdit(t, rec.ID, recipe(fmt.Sprintf("remote %d", step)), false)
						}
					}
				case 4:
					f.drain(t)
				case 5:
					if rec, ok := pick(models.SyncStateConflicted); ok {
						choice := choices[rnd.IntN(len(choices))]
						_, err := f.sync.ResolveConflict(ctx, rec.ID, choice, recipe(fmt.Sprintf("merged %d", step)))
						require.NoError(t, err)
					}
				}
				f.assertSyncedVersions(t)
			}

			// Разрешаем оставшиеся конфликты и доводим очередь до конца
			conflictedFilter := models.RecordFilter{States: []models.SyncState{models.SyncStateConflicted}, IncludeDeleted: true}
			for range 5 {
				conflicted, err := f.records.List(ctx, conflictedFilter)
				require.NoError(t, err)
				for _, rec := range conflicted {
					_, err = f.sync.ResolveConflict(ctx, rec.ID, models.KeepRemote, nil)
					require.NoError(t, err)
				}
				f.drain(t)

				left, err := f.records.List(ctx, conflictedFilter)
				require.NoError(t, err)
				if len(left) == 0 && f.sync.QueueLen() == 0 {
					break
				}
			}
			f.assertSyncedVersions(t)

			all, err := f.records.List(ctx, models.RecordFilter{IncludeDeleted: true})
			require.NoError(t, err)
			for _, rec := range all {
				require.Equal(t, models.SyncStateSynced, rec.SyncState, "record %s", rec.ID)
				require.False(t, rec.Deleted, "synced tombstone %s was not purged", rec.ID)

				onRemote, ok := remote.find(t, rec.ID)
				require.True(t, ok)
				assert.Equal(t, onRemote.Version, rec.LocalVersion)
				assert.JSONEq(t, string(onRemote.Payload), string(rec.Payload))
			}
		})
	}
}

func TestSyncFlow_UpdateErrors(t *testing.T) {
	f, _ := newFlow(t)
	ctx := testContext()

	_, err := f.service.Update(ctx, "missing", recipe("x"))
	assert.ErrorIs(t, err, store.ErrNotFound)

	rec, err := f.service.Create(ctx, recipe("toast"))
	require.NoError(t, err)
	require.NoError(t, f.service.Delete(ctx, rec.ID))

	_, err = f.service.Update(ctx, rec.ID, recipe("y"))
	assert.True(t, errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrRecordDeleted))
}
