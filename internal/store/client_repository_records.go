// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/utils"
	"github.com/cameronsaddress/SnapChef-sub018/internal/validators"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// IDGenerator issues ids for new records.
type IDGenerator interface {
	Generate() string
}

type listFilter struct {
	models.RecordFilter
	OnlyDeleted bool
}

type recordRepository struct {
	*DB
	validator validators.Validator
	ids       IDGenerator
	locks     *utils.KeyedMutex
	logger    *logger.Logger

	listenersMu sync.RWMutex
	listeners   []ChangeListener

	now func() time.Time
}

func NewRecordRepository(db *DB, validator validators.Validator, ids IDGenerator, logger *logger.Logger) RecordStore {
	return &recordRepository{
		DB:        db,
		validator: validator,
		ids:       ids,
		locks:     utils.NewKeyedMutex(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *recordRepository) Put(ctx context.Context, rec models.Record) (models.Record, error) {
	log := logger.FromContext(ctx)

	if err := r.validator.Validate(ctx, rec); err != nil {
		log.Err(err).Str("func", "recordRepository.Put").Str("record_id", rec.ID).Msg("record failed validation")
		return models.Record{}, fmt.Errorf("invalid record: %w", err)
	}

	if rec.ID == "" {
		rec.ID = r.ids.Generate()
	}

	saved, err := r.Update(ctx, rec.ID, func(cur *models.Record, found bool) (Mutation, error) {
		now := r.now()

		if !found {
			owner := rec.Owner
			if owner == "" {
				owner = models.AnonymousOwner
			}
			*cur = models.Record{
				ID:                rec.ID,
				Payload:           rec.Payload,
				Owner:             owner,
				LocalVersion:      1,
				SyncState:         models.SyncStateLocalOnly,
				LastLocalModified: &now,
			}
			if cur.IsAnonymous() {
				cur.SyncState = models.SyncStateAnonymous
			}
			return MutationSave, nil
		}

		if cur.Deleted {
			return MutationKeep, ErrRecordDeleted
		}
		if utils.PayloadsEqual(cur.Payload, rec.Payload) {
			return MutationKeep, nil
		}

		cur.Payload = rec.Payload
		cur.LocalVersion = cur.NextLocalVersion()
		cur.LastLocalModified = &now
		cur.SyncState = editedState(*cur)
		return MutationSave, nil
	})
	if err != nil {
		log.Err(err).Str("func", "recordRepository.Put").Str("record_id", rec.ID).Msg("failed to put record")
		return models.Record{}, err
	}

	return saved, nil
}

// editedState is the state of a record after a local mutation.
func editedState(rec models.Record) models.SyncState {
	switch {
	case rec.IsAnonymous():
		return models.SyncStateAnonymous
	case rec.SyncState == models.SyncStateConflicted:
		return models.SyncStateConflicted
	default:
		return models.SyncStateLocalOnly
	}
}

func (r *recordRepository) Get(ctx context.Context, id string) (models.Record, error) {
	rec, err := r.Load(ctx, id)
	if err != nil {
		return models.Record{}, err
	}
	if rec.Deleted {
		return models.Record{}, ErrNotFound
	}
	return rec, nil
}

func (r *recordRepository) Load(ctx context.Context, id string) (models.Record, error) {
	rec, err := scanRecord(r.DB.QueryRowContext(ctx, getRecordByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Record{}, ErrNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "recordRepository.Load").
			Str("record_id", id).
			Msg("failed to query record")
		return models.Record{}, r.classify(err)
	}
	return rec, nil
}

func (r *recordRepository) Delete(ctx context.Context, id string) (models.Record, error) {
	var deleted models.Record

	_, err := r.Update(ctx, id, func(cur *models.Record, found bool) (Mutation, error) {
		if !found || cur.Deleted {
			return MutationKeep, ErrNotFound
		}

		now := r.now()
		cur.Deleted = true
		cur.LocalVersion = cur.NextLocalVersion()
		cur.LastLocalModified = &now
		deleted = *cur

		// Anonymous records never reached the remote; nothing to propagate.
		if cur.IsAnonymous() {
			return MutationRemove, nil
		}

		cur.SyncState = editedState(*cur)
		deleted = *cur
		return MutationSave, nil
	})
	if err != nil {
		return models.Record{}, err
	}

	return deleted, nil
}

func (r *recordRepository) PurgeSyncedTombstones(ctx context.Context) (int, error) {
	tombstones, err := r.list(ctx, listFilter{
		RecordFilter: models.RecordFilter{States: []models.SyncState{models.SyncStateSynced}, IncludeDeleted: true},
		OnlyDeleted:  true,
	})
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, t := range tombstones {
		_, err = r.Update(ctx, t.ID, func(cur *models.Record, found bool) (Mutation, error) {
			if !found || !cur.Deleted || cur.SyncState != models.SyncStateSynced {
				return MutationKeep, nil
			}
			purged++
			return MutationRemove, nil
		})
		if err != nil {
			return purged, err
		}
	}

	return purged, nil
}

func (r *recordRepository) ClaimAnonymous(ctx context.Context, owner string) ([]models.Record, error) {
	if owner == "" || owner == models.AnonymousOwner {
		return nil, validators.ErrInvalidOwner
	}

	anonymous, err := r.list(ctx, listFilter{RecordFilter: models.RecordFilter{Owner: models.AnonymousOwner}})
	if err != nil {
		return nil, err
	}

	claimed := make([]models.Record, 0, len(anonymous))
	for _, a := range anonymous {
		rec, err := r.Update(ctx, a.ID, func(cur *models.Record, found bool) (Mutation, error) {
			if !found || cur.Deleted || !cur.IsAnonymous() {
				return MutationKeep, nil
			}
			cur.Owner = owner
			cur.SyncState = models.SyncStatePending
			return MutationSave, nil
		})
		if err != nil {
			logger.FromContext(ctx).Err(err).
				Str("func", "recordRepository.ClaimAnonymous").
				Str("record_id", a.ID).
				Msg("failed to claim record")
			return claimed, err
		}
		if rec.Owner == owner {
			claimed = append(claimed, rec)
		}
	}

	return claimed, nil
}

func (r *recordRepository) Update(ctx context.Context, id string, fn UpdateFunc) (models.Record, error) {
	unlock := r.locks.Lock(id)
	defer unlock()

	var (
		result   models.Record
		mutation Mutation
	)
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := scanRecord(tx.QueryRowContext(ctx, getRecordByID, id))
		found := true
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			cur = models.Record{ID: id}
		} else if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		mutation, err = fn(&cur, found)
		if err != nil {
			return err
		}
		cur.ID = id

		switch mutation {
		case MutationSave:
			if err = writeRecord(ctx, tx, &cur); err != nil {
				return err
			}
		case MutationRemove:
			if _, err = tx.ExecContext(ctx, deleteRecord, id); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}
		result = cur
		return nil
	})
	if err != nil {
		return models.Record{}, err
	}

	if mutation != MutationKeep {
		r.notify(id)
	}
	return result, nil
}

func (r *recordRepository) List(ctx context.Context, filter models.RecordFilter) ([]models.Record, error) {
	return r.list(ctx, listFilter{RecordFilter: filter})
}

func (r *recordRepository) list(ctx context.Context, filter listFilter) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "recordRepository.list").Msg("failed to execute query for listing records")
		return nil, r.classify(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "recordRepository.list").Msg("failed to scan record row")
			return nil, r.classify(fmt.Errorf("%w: %w", ErrScanningRows, scanErr))
		}
		records = append(records, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "recordRepository.list").Msg("error occurred during rows iteration")
		return nil, r.classify(fmt.Errorf("%w: %w", ErrScanningRows, rowsErr))
	}

	return records, nil
}

func (r *recordRepository) CountByState(ctx context.Context) (models.StateCounts, error) {
	rows, err := r.DB.QueryContext(ctx, countByState)
	if err != nil {
		return models.StateCounts{}, r.classify(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}
	defer rows.Close()

	var counts models.StateCounts
	for rows.Next() {
		var (
			state   string
			deleted bool
			n       int
		)
		if err = rows.Scan(&state, &deleted, &n); err != nil {
			return models.StateCounts{}, r.classify(fmt.Errorf("%w: %w", ErrScanningRows, err))
		}

		st := models.ParseSyncState(state)
		if deleted {
			counts.Tombstones += n
			if st != models.SyncStateSynced {
				counts.PendingDeletes += n
			}
			continue
		}
		counts.Add(st, n)
	}

	if err = rows.Err(); err != nil {
		return models.StateCounts{}, r.classify(fmt.Errorf("%w: %w", ErrScanningRows, err))
	}
	return counts, nil
}

// GetMeta returns the value stored under key, or "" if there is none.
func (r *recordRepository) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := r.DB.QueryRowContext(ctx, getMeta, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", r.classify(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}
	return value, nil
}

// SetMeta stores value under key. Listeners are notified with an empty id.
func (r *recordRepository) SetMeta(ctx context.Context, key, value string) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, setMeta, key, value); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.notify("")
	return nil
}

func (r *recordRepository) OnChange(fn ChangeListener) {
	r.listenersMu.Lock()
	defer r.listenersMu.Unlock()
	r.listeners = append(r.listeners, fn)
}

func (r *recordRepository) notify(id string) {
	r.listenersMu.RLock()
	defer r.listenersMu.RUnlock()
	for _, fn := range r.listeners {
		fn(id)
	}
}

func (r *recordRepository) Close() error {
	return r.DB.Close()
}

func writeRecord(ctx context.Context, tx *sql.Tx, rec *models.Record) error {
	hash, err := utils.PayloadHash(rec.Payload)
	if err != nil {
		return fmt.Errorf("%w: %w", validators.ErrMalformedPayload, err)
	}
	rec.PayloadHash = hash

	var (
		conflictVersion    sql.NullInt64
		conflictPayload    sql.NullString
		conflictDeleted    sql.NullBool
		conflictModifiedAt sql.NullTime
	)
	if c := rec.Conflict; c != nil {
		conflictVersion = sql.NullInt64{Int64: c.Version, Valid: true}
		conflictPayload = sql.NullString{String: string(c.Payload), Valid: true}
		conflictDeleted = sql.NullBool{Bool: c.Deleted, Valid: true}
		conflictModifiedAt = nullTime(c.ModifiedAt)
	}

	var remoteVersion sql.NullInt64
	if rec.RemoteVersion != nil {
		remoteVersion = sql.NullInt64{Int64: *rec.RemoteVersion, Valid: true}
	}

	_, err = tx.ExecContext(ctx, upsertRecord,
		rec.ID,
		string(rec.Payload),
		rec.PayloadHash,
		rec.Owner,
		rec.LocalVersion,
		remoteVersion,
		string(rec.SyncState),
		nullTime(rec.LastLocalModified),
		nullTime(rec.LastRemoteModified),
		rec.Deleted,
		conflictVersion,
		conflictPayload,
		conflictDeleted,
		conflictModifiedAt,
		rec.LastError,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.Record, error) {
	var (
		rec                models.Record
		payload            string
		state              string
		remoteVersion      sql.NullInt64
		lastLocal          sql.NullTime
		lastRemote         sql.NullTime
		conflictVersion    sql.NullInt64
		conflictPayload    sql.NullString
		conflictDeleted    sql.NullBool
		conflictModifiedAt sql.NullTime
		lastError          sql.NullString
	)

	err := row.Scan(
		&rec.ID,
		&payload,
		&rec.PayloadHash,
		&rec.Owner,
		&rec.LocalVersion,
		&remoteVersion,
		&state,
		&lastLocal,
		&lastRemote,
		&rec.Deleted,
		&conflictVersion,
		&conflictPayload,
		&conflictDeleted,
		&conflictModifiedAt,
		&lastError,
	)
	if err != nil {
		return models.Record{}, err
	}

	if payload != "" {
		rec.Payload = json.RawMessage(payload)
	}
	rec.SyncState = models.ParseSyncState(state)
	if remoteVersion.Valid {
		v := remoteVersion.Int64
		rec.RemoteVersion = &v
	}
	rec.LastLocalModified = timePtr(lastLocal)
	rec.LastRemoteModified = timePtr(lastRemote)
	if conflictVersion.Valid {
		rec.Conflict = &models.ConflictSide{
			Version:    conflictVersion.Int64,
			Deleted:    conflictDeleted.Bool,
			ModifiedAt: timePtr(conflictModifiedAt),
		}
		if conflictPayload.Valid && conflictPayload.String != "" {
			rec.Conflict.Payload = json.RawMessage(conflictPayload.String)
		}
	}
	rec.LastError = lastError.String

	return rec, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
