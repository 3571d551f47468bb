// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

var (
	bucketRecords = []byte("records")
	bucketMeta    = []byte("meta")

	keyLastStamp = []byte("last_stamp")
)

// boltRecord is the stored form of a remote record. ChangedAt is assigned by
// the repository and strictly increases across commits, so it can serve as
// the pull cursor.
type boltRecord struct {
	models.RemoteRecord
	ChangedAt time.Time `json:"changed_at"`
}

type boltRecordRepository struct {
	db     *bbolt.DB
	logger *logger.Logger
	now    func() time.Time
}

// NewBoltRecordRepository opens (or creates) the bbolt file at path.
func NewBoltRecordRepository(path string, log *logger.Logger) (RemoteRecordRepository, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketRecords, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &boltRecordRepository{
		db:     db,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (r *boltRecordRepository) Push(ctx context.Context, owner string, req models.PushRequest) (models.RemoteRecord, error) {
	var saved models.RemoteRecord

	err := r.db.Update(func(tx *bbolt.Tx) error {
		records := tx.Bucket(bucketRecords)

		var current *boltRecord
		if data := records.Get([]byte(req.RecordID)); data != nil {
			current = &boltRecord{}
			if err := json.Unmarshal(data, current); err != nil {
				return fmt.Errorf("failed to unmarshal record: %w", err)
			}
		}

		next := int64(1)
		if current != nil {
			if current.Owner != owner {
				return ErrOwnerMismatch
			}
			if req.BaseVersion != current.Version {
				return &VersionConflictError{Current: current.RemoteRecord}
			}
			next = current.Version + 1
		}
		next = max(next, req.Version)

		stamp, err := r.nextStamp(tx)
		if err != nil {
			return err
		}

		modifiedAt := req.ModifiedAt
		if modifiedAt == nil {
			modifiedAt = &stamp
		}

		rec := boltRecord{
			RemoteRecord: models.RemoteRecord{
				RecordID:   req.RecordID,
				Owner:      owner,
				Version:    next,
				Payload:    req.Payload,
				Deleted:    req.Kind == models.OperationDelete,
				ModifiedAt: modifiedAt,
			},
			ChangedAt: stamp,
		}
		if rec.Deleted && current != nil {
			// A tombstone keeps the last content for conflict display.
			rec.Payload = current.Payload
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		if err = records.Put([]byte(req.RecordID), data); err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}

		saved = rec.RemoteRecord
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).
			Str("func", "boltRecordRepository.Push").
			Str("record_id", req.RecordID).
			Msg("push rejected")
		return models.RemoteRecord{}, err
	}

	return saved, nil
}

func (r *boltRecordRepository) Since(ctx context.Context, owner string, since time.Time) ([]models.RemoteRecord, time.Time, error) {
	var (
		changed []models.RemoteRecord
		cursor  = since
	)

	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).ForEach(func(k, v []byte) error {
			var rec boltRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal record: %w", err)
			}
			if rec.Owner != owner || !rec.ChangedAt.After(since) {
				return nil
			}

			changed = append(changed, rec.RemoteRecord)
			if rec.ChangedAt.After(cursor) {
				cursor = rec.ChangedAt
			}
			return nil
		})
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "boltRecordRepository.Since").Msg("failed to read records")
		return nil, since, err
	}

	return changed, cursor, nil
}

func (r *boltRecordRepository) Close() error {
	return r.db.Close()
}

// nextStamp returns a change stamp greater than every stamp issued before.
func (r *boltRecordRepository) nextStamp(tx *bbolt.Tx) (time.Time, error) {
	meta := tx.Bucket(bucketMeta)

	stamp := r.now()
	if last := meta.Get(keyLastStamp); len(last) == 8 {
		prev := time.Unix(0, int64(binary.BigEndian.Uint64(last))).UTC()
		if !stamp.After(prev) {
			stamp = prev.Add(time.Microsecond)
		}
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(stamp.UnixNano()))
	if err := meta.Put(keyLastStamp, buf); err != nil {
		return time.Time{}, fmt.Errorf("failed to save change stamp: %w", err)
	}
	return stamp, nil
}
