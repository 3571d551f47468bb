// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// Identity is the part of the identity provider the sync engine depends on.
type Identity interface {
	// Owner returns the signed-in user id or models.AnonymousOwner.
	Owner() string
	IsAuthenticated() bool
}

// ClientRecordService is the caller-facing API for recipe records. Every call
// returns after the local write; network work happens on the drain
// goroutine.
type ClientRecordService interface {
	// Create stores a new record owned by the current user (or anonymous) and
	// queues it for sync.
	Create(ctx context.Context, payload json.RawMessage) (models.Record, error)

	// Update replaces the payload of an existing record and queues the change.
	// An identical payload is a no-op.
	Update(ctx context.Context, id string, payload json.RawMessage) (models.Record, error)

	// Delete tombstones the record and queues the delete.
	Delete(ctx context.Context, id string) error

	Get(ctx context.Context, id string) (models.Record, error)

	// List returns live records, optionally narrowed to the given states.
	List(ctx context.Context, states ...models.SyncState) ([]models.Record, error)

	// Conflicts returns every conflicted record, including local tombstones
	// whose delete collided with a remote edit.
	Conflicts(ctx context.Context) ([]models.Record, error)

	// ClaimAnonymous assigns every anonymous record to owner, queues them and
	// starts a drain pass.
	ClaimAnonymous(ctx context.Context, owner string) ([]models.Record, error)
}

// ClientSyncService drives the outbound queue and the drain passes.
type ClientSyncService interface {
	// Enqueue adds op to the queue, coalescing it with a pending operation for
	// the same record. Anonymous and conflicted records are not queued.
	Enqueue(ctx context.Context, op models.Operation) error

	// StartSync starts a drain pass, or joins the one already running.
	StartSync(ctx context.Context) *DrainHandle

	// CancelSync stops the running pass. The in-flight record returns to
	// pending and stays queued.
	CancelSync()

	// RetryFailed moves parked operations back into the queue. Without ids
	// every parked operation is retried.
	RetryFailed(ctx context.Context, ids ...string) error

	// ResolveConflict applies the user's decision to a conflicted record.
	ResolveConflict(ctx context.Context, id string, choice models.ConflictChoice, payload json.RawMessage) (models.Record, error)

	// Recover rebuilds the queue from persisted record states after a
	// restart.
	Recover(ctx context.Context) error

	// QueueLen returns the number of queued (not parked) operations.
	QueueLen() int

	// Parked returns the ids of operations waiting for RetryFailed, sorted.
	Parked() []string
}

// ClientStatusService reports sync health.
type ClientStatusService interface {
	// Snapshot returns the current status, recomputing it if the cached one
	// was invalidated.
	Snapshot(ctx context.Context) models.SyncStatus

	// Subscribe returns a channel receiving every recomputed snapshot and a
	// function that cancels the subscription.
	Subscribe() (<-chan models.SyncStatus, func())

	// Invalidate drops the cached snapshot.
	Invalidate()
}

// ClientSyncJob defines the contract for a background worker that
// periodically starts a drain pass.
type ClientSyncJob interface {
	// Start launches the background goroutine. It triggers a pass every
	// interval, defaulting to 5 minutes if interval is zero or negative. Any
	// previously running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}
