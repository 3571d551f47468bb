// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/cameronsaddress/SnapChef-sub018/internal/adapter"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
	"github.com/cameronsaddress/SnapChef-sub018/internal/utils"
	"github.com/cameronsaddress/SnapChef-sub018/internal/validators"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// followUp tells the caller of a store update what to do with the queue
// once the record lock is released.
type followUp int

const (
	followNone followUp = iota
	followRequeue
	followDrop
)

func (m *SyncManager) follow(rec models.Record, f followUp) {
	switch f {
	case followRequeue:
		m.queue(models.OperationFor(rec))
	case followDrop:
		m.drop(rec.ID)
	}
}

// applyAck records an acknowledged push of sent. The acknowledgement is
// checked against the current record: if the content changed while the push
// was in flight the record stays pending with the acknowledged version as its
// new base.
func (m *SyncManager) applyAck(ctx context.Context, sent models.Record, ack models.PushResult) error {
	f := followNone

	rec, err := m.records.Update(ctx, sent.ID, func(cur *models.Record, found bool) (store.Mutation, error) {
		if !found {
			return store.MutationKeep, nil
		}

		v := ack.Version
		if cur.RemoteVersion != nil && *cur.RemoteVersion >= v {
			// Replayed acknowledgement, the version is already known.
			if cur.SyncState != models.SyncStateSyncing {
				return store.MutationKeep, nil
			}
			if cur.InSync() {
				cur.SyncState = models.SyncStateSynced
			} else {
				cur.SyncState = models.SyncStatePending
				f = followRequeue
			}
			return store.MutationSave, nil
		}

		cur.RemoteVersion = &v
		cur.LastRemoteModified = ack.ModifiedAt
		cur.LastError = ""

		unchanged := cur.Deleted == sent.Deleted &&
			(cur.LocalVersion == sent.LocalVersion || utils.PayloadsEqual(cur.Payload, sent.Payload))
		if unchanged {
			cur.LocalVersion = v
			cur.SyncState = models.SyncStateSynced
			cur.Conflict = nil
			f = followDrop
			return store.MutationSave, nil
		}

		cur.LocalVersion = max(cur.LocalVersion, v+1)
		if cur.SyncState != models.SyncStateConflicted {
			cur.SyncState = models.SyncStatePending
			f = followRequeue
		}
		return store.MutationSave, nil
	})
	if err != nil {
		return err
	}

	m.follow(rec, f)
	return nil
}

// applyConflict resolves the current record against the remote copy
// returned with a version conflict.
func (m *SyncManager) applyConflict(ctx context.Context, remote models.RemoteRecord) error {
	f := followNone

	rec, err := m.records.Update(ctx, remote.RecordID, func(cur *models.Record, found bool) (store.Mutation, error) {
		if !found {
			return store.MutationKeep, nil
		}
		f = m.reconcile(cur, remote)
		return store.MutationSave, nil
	})
	if err != nil {
		return err
	}

	if rec.SyncState == models.SyncStateConflicted {
		logger.FromContext(ctx).Info().
			Str("func", "SyncManager.applyConflict").
			Str("record_id", rec.ID).
			Int64("local_version", rec.LocalVersion).
			Int64("remote_version", remote.Version).
			Msg("record conflicted")
	}
	m.follow(rec, f)
	return nil
}

// reconcile applies Resolve to cur and a newer remote copy.
//
// When the remote side wins the record is re-based onto the remote version.
// This is the only place, besides a KeepRemote resolution, where
// LocalVersion may move down: the local revision is either identical to the
// remote one or was discarded.
func (m *SyncManager) reconcile(cur *models.Record, remote models.RemoteRecord) followUp {
	res := Resolve(localRevision(*cur), remoteRevision(remote))
	v := remote.Version

	switch {
	case res.Kind == models.ResolutionConflict:
		cur.SyncState = models.SyncStateConflicted
		cur.Conflict = &models.ConflictSide{
			Version:    remote.Version,
			Payload:    remote.Payload,
			Deleted:    remote.Deleted,
			ModifiedAt: remote.ModifiedAt,
		}
		cur.LastRemoteModified = remote.ModifiedAt
		cur.LastError = adapter.ErrVersionConflict.Error()
		return followDrop

	case res.From == models.SideRemote:
		if len(remote.Payload) > 0 {
			cur.Payload = remote.Payload
		}
		cur.Deleted = remote.Deleted
		cur.LocalVersion = v
		cur.RemoteVersion = &v
		cur.LastRemoteModified = remote.ModifiedAt
		cur.SyncState = models.SyncStateSynced
		cur.Conflict = nil
		cur.LastError = ""
		return followDrop

	default:
		// The remote is behind the version this record was based on; push
		// the local revision again on top of what the remote has.
		cur.RemoteVersion = &v
		cur.LocalVersion = max(cur.LocalVersion, v+1)
		cur.SyncState = models.SyncStatePending
		cur.Conflict = nil
		return followRequeue
	}
}

// ResolveConflict implements [ClientSyncService].
//
// KeepRemote adopts the retained remote revision and marks the record synced
// without a round trip. KeepLocal and KeepCustom put a new local revision on
// top of the remote version and queue it.
func (m *SyncManager) ResolveConflict(ctx context.Context, id string, choice models.ConflictChoice, payload json.RawMessage) (models.Record, error) {
	log := logger.FromContext(ctx)

	switch choice {
	case models.KeepLocal, models.KeepRemote:
	case models.KeepCustom:
		// the merge is a new local revision and must pass the recipe schema
		if err := m.validator.Validate(ctx, models.Record{Payload: payload}); err != nil {
			return models.Record{}, fmt.Errorf("invalid merged payload: %w", err)
		}
	default:
		return models.Record{}, fmt.Errorf("%w: %q", ErrUnknownConflictChoice, choice)
	}

	enqueue := false
	rec, err := m.records.Update(ctx, id, func(cur *models.Record, found bool) (store.Mutation, error) {
		if !found {
			return store.MutationKeep, store.ErrNotFound
		}
		if cur.SyncState != models.SyncStateConflicted || cur.Conflict == nil {
			return store.MutationKeep, ErrNotConflicted
		}

		side := *cur.Conflict
		v := side.Version
		now := m.now()

		cur.RemoteVersion = &v
		cur.Conflict = nil
		cur.LastError = ""

		switch choice {
		case models.KeepRemote:
			if len(side.Payload) > 0 {
				cur.Payload = side.Payload
			}
			cur.Deleted = side.Deleted
			cur.LocalVersion = v
			cur.LastRemoteModified = side.ModifiedAt
			cur.SyncState = models.SyncStateSynced
			return store.MutationSave, nil

		case models.KeepCustom:
			cur.Payload = payload
			cur.Deleted = false
		}

		cur.LocalVersion = cur.NextLocalVersion()
		cur.LastLocalModified = &now
		cur.SyncState = models.SyncStatePending
		enqueue = true
		return store.MutationSave, nil
	})
	if err != nil {
		log.Err(err).Str("func", "SyncManager.ResolveConflict").Str("record_id", id).Msg("failed to resolve conflict")
		return models.Record{}, err
	}

	log.Info().Str("func", "SyncManager.ResolveConflict").
		Str("record_id", id).
		Str("choice", string(choice)).
		Msg("conflict resolved")

	if enqueue {
		m.queue(models.OperationFor(rec))
	}
	return rec, nil
}

// pull fetches remote changes after the stored cursor and applies them. A
// remote record that cannot be stored (malformed payload) is logged and
// skipped, so it does not hold back the rest of the page. A storage failure
// stops the pull without advancing the cursor.
func (m *SyncManager) pull(ctx context.Context) (applied, skipped int, err error) {
	log := logger.FromContext(ctx)
	storeCtx := context.WithoutCancel(ctx)

	cursor, err := m.pullCursor(storeCtx)
	if err != nil {
		return 0, 0, err
	}

	resp, err := retry.DoValue(ctx, m.backoff(), func(ctx context.Context) (models.PullResponse, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, m.opts.RequestTimeout)
		defer cancel()

		resp, err := m.remote.Pull(attemptCtx, cursor)
		if err != nil && retryable(ctx, err) {
			return models.PullResponse{}, retry.RetryableError(err)
		}
		return resp, err
	})
	if err != nil {
		return 0, 0, err
	}

	owner := m.identity.Owner()
	for _, r := range resp.Records {
		if r.Owner != "" && r.Owner != owner {
			log.Warn().Str("func", "SyncManager.pull").Str("record_id", r.RecordID).Msg("skipping record of another owner")
			continue
		}

		changed, err := m.applyRemote(storeCtx, r, owner)
		if errors.Is(err, validators.ErrValidation) {
			log.Warn().Err(err).Str("func", "SyncManager.pull").Str("record_id", r.RecordID).Msg("skipping unreadable remote record")
			m.errors.Add(newSyncError(r.RecordID, fmt.Errorf("pull: %w", err), true))
			skipped++
			continue
		}
		if err != nil {
			return applied, skipped, err
		}
		if changed {
			applied++
		}
	}

	if resp.ServerTime.After(cursor) {
		if err = m.records.SetMeta(storeCtx, metaPullCursor, resp.ServerTime.UTC().Format(time.RFC3339Nano)); err != nil {
			return applied, skipped, err
		}
	}
	return applied, skipped, nil
}

func (m *SyncManager) pullCursor(ctx context.Context) (time.Time, error) {
	raw, err := m.records.GetMeta(ctx, metaPullCursor)
	if err != nil || raw == "" {
		return time.Time{}, err
	}

	cursor, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		// A broken cursor only costs a full pull.
		logger.FromContext(ctx).Warn().Err(err).Str("func", "SyncManager.pullCursor").Msg("ignoring unreadable pull cursor")
		return time.Time{}, nil
	}
	return cursor, nil
}

// applyRemote merges one pulled record into the local store and reports
// whether anything changed.
func (m *SyncManager) applyRemote(ctx context.Context, r models.RemoteRecord, owner string) (bool, error) {
	changed := false
	f := followNone

	rec, err := m.records.Update(ctx, r.RecordID, func(cur *models.Record, found bool) (store.Mutation, error) {
		v := r.Version

		if !found {
			if r.Deleted {
				return store.MutationKeep, nil
			}
			*cur = models.Record{
				ID:                 r.RecordID,
				Payload:            r.Payload,
				Owner:              owner,
				LocalVersion:       v,
				RemoteVersion:      &v,
				SyncState:          models.SyncStateSynced,
				LastRemoteModified: r.ModifiedAt,
			}
			changed = true
			return store.MutationSave, nil
		}

		if cur.IsAnonymous() || v <= cur.BaseVersion() {
			return store.MutationKeep, nil
		}

		switch cur.SyncState {
		case models.SyncStateSyncing:
			// The push in flight will meet the new version as a conflict.
			return store.MutationKeep, nil

		case models.SyncStateSynced:
			changed = true
			if r.Deleted {
				return store.MutationRemove, nil
			}
			cur.Payload = r.Payload
			cur.Deleted = false
			cur.LocalVersion = v
			cur.RemoteVersion = &v
			cur.LastRemoteModified = r.ModifiedAt
			return store.MutationSave, nil

		case models.SyncStateConflicted:
			if cur.Conflict != nil && v <= cur.Conflict.Version {
				return store.MutationKeep, nil
			}
		}

		changed = true
		f = m.reconcile(cur, r)
		return store.MutationSave, nil
	})
	if err != nil {
		return false, err
	}

	m.follow(rec, f)
	return changed, nil
}
