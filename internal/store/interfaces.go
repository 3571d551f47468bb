// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RemoteRecordRepository is the reference remote's durable record store.
type RemoteRecordRepository interface {
	// Push applies req for owner if req.BaseVersion matches the stored
	// version, otherwise it fails with a *VersionConflictError.
	Push(ctx context.Context, owner string, req models.PushRequest) (models.RemoteRecord, error)
	// Since returns owner's records changed after since, and the cursor to
	// pass on the next call.
	Since(ctx context.Context, owner string, since time.Time) ([]models.RemoteRecord, time.Time, error)
	Close() error
}
