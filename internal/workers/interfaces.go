// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers provides the background workers of the recipe sync client.
// It defines the Worker interface and a Workers aggregate that starts several
// workers in a unified way.
//
// Two workers are shipped: [SyncWorker] starts a drain pass at startup and
// then on a fixed interval, and [StatusPublisher] recomputes the sync status
// whenever the record store reports a change, which pushes the new snapshot to
// every status subscriber.
package workers

import (
	"context"

	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// Worker is the interface that must be implemented by any background worker.
//
// Run must not block: implementations spawn their goroutines and return.
// The goroutines exit once ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}

// StatusSource is the part of the status reporter the publisher drives.
type StatusSource interface {
	// Changes is signalled after the cached status was invalidated.
	Changes() <-chan struct{}
	Snapshot(ctx context.Context) models.SyncStatus
}

var _ StatusSource = (*service.StatusReporter)(nil)
