// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// RecordService writes to the local store and hands the change to the sync
// queue. It never waits for the network.
type RecordService struct {
	records  store.RecordStore
	sync     ClientSyncService
	identity Identity
	logger   *logger.Logger
}

func NewRecordService(records store.RecordStore, sync ClientSyncService, identity Identity, logger *logger.Logger) *RecordService {
	return &RecordService{
		records:  records,
		sync:     sync,
		identity: identity,
		logger:   logger,
	}
}

// Create implements [ClientRecordService].
func (s *RecordService) Create(ctx context.Context, payload json.RawMessage) (models.Record, error) {
	rec, err := s.records.Put(ctx, models.Record{
		Payload: payload,
		Owner:   s.identity.Owner(),
	})
	if err != nil {
		return models.Record{}, err
	}

	logger.FromContext(ctx).Debug().
		Str("func", "RecordService.Create").
		Str("record_id", rec.ID).
		Str("state", string(rec.SyncState)).
		Msg("record created")

	return s.enqueue(ctx, rec)
}

// Update implements [ClientRecordService].
func (s *RecordService) Update(ctx context.Context, id string, payload json.RawMessage) (models.Record, error) {
	// Put would create a record under an unknown id.
	before, err := s.records.Get(ctx, id)
	if err != nil {
		return models.Record{}, err
	}

	rec, err := s.records.Put(ctx, models.Record{ID: id, Payload: payload})
	if err != nil {
		return models.Record{}, err
	}
	if rec.LocalVersion == before.LocalVersion {
		return rec, nil
	}

	return s.enqueue(ctx, rec)
}

// Delete implements [ClientRecordService].
func (s *RecordService) Delete(ctx context.Context, id string) error {
	rec, err := s.records.Delete(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "RecordService.Delete").Str("record_id", id).Msg("failed to delete record")
		return err
	}

	// Anonymous records are removed outright.
	if rec.IsAnonymous() {
		return nil
	}

	_, err = s.enqueue(ctx, rec)
	return err
}

// Get implements [ClientRecordService].
func (s *RecordService) Get(ctx context.Context, id string) (models.Record, error) {
	return s.records.Get(ctx, id)
}

// List implements [ClientRecordService].
func (s *RecordService) List(ctx context.Context, states ...models.SyncState) ([]models.Record, error) {
	return s.records.List(ctx, models.RecordFilter{States: states})
}

// Conflicts implements [ClientRecordService].
func (s *RecordService) Conflicts(ctx context.Context) ([]models.Record, error) {
	return s.records.List(ctx, models.RecordFilter{
		States:         []models.SyncState{models.SyncStateConflicted},
		IncludeDeleted: true,
	})
}

// ClaimAnonymous implements [ClientRecordService].
func (s *RecordService) ClaimAnonymous(ctx context.Context, owner string) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	claimed, err := s.records.ClaimAnonymous(ctx, owner)
	if err != nil {
		log.Err(err).Str("func", "RecordService.ClaimAnonymous").Msg("failed to claim anonymous records")
		return claimed, err
	}

	var errs []error
	for _, rec := range claimed {
		if err = s.sync.Enqueue(ctx, models.OperationFor(rec)); err != nil {
			errs = append(errs, err)
		}
	}

	log.Info().Str("func", "RecordService.ClaimAnonymous").Int("claimed", len(claimed)).Msg("anonymous records claimed")

	if len(claimed) > 0 {
		s.sync.StartSync(ctx)
	}
	return claimed, errors.Join(errs...)
}

// enqueue queues rec unless it cannot reach the remote yet. A queue failure
// is not fatal for the caller: the record stays local-only and Recover picks
// it up.
func (s *RecordService) enqueue(ctx context.Context, rec models.Record) (models.Record, error) {
	if rec.IsAnonymous() || rec.SyncState == models.SyncStateConflicted {
		return rec, nil
	}

	if err := s.sync.Enqueue(ctx, models.OperationFor(rec)); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "RecordService.enqueue").
			Str("record_id", rec.ID).
			Msg("record saved but not queued")
		return rec, nil
	}

	queued, err := s.records.Load(ctx, rec.ID)
	if err != nil {
		return rec, nil
	}
	return queued, nil
}

var _ ClientRecordService = (*RecordService)(nil)
