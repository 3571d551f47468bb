// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// Mutation tells RecordStore.Update what to do with the record passed to the
// callback.
type Mutation int

const (
	// MutationKeep leaves the stored row untouched.
	MutationKeep Mutation = iota
	// MutationSave writes the (possibly new) record.
	MutationSave
	// MutationRemove physically deletes the row.
	MutationRemove
)

// UpdateFunc is the callback of RecordStore.Update. rec is the stored record
// or, when found is false, a zero record carrying only the id.
type UpdateFunc func(rec *models.Record, found bool) (Mutation, error)

// ChangeListener is notified after a record was written or removed.
type ChangeListener func(id string)

// RecordStore is the durable local record store of the client.
//
// Writers of one record are serialized; reads never wait for writers.
type RecordStore interface {
	// Put creates or edits a record from caller-supplied content.
	Put(ctx context.Context, rec models.Record) (models.Record, error)
	// Get returns a live record.
	Get(ctx context.Context, id string) (models.Record, error)
	// Load returns a record including tombstones.
	Load(ctx context.Context, id string) (models.Record, error)
	// Delete tombstones a record.
	Delete(ctx context.Context, id string) (models.Record, error)
	// PurgeSyncedTombstones removes tombstones the remote acknowledged.
	PurgeSyncedTombstones(ctx context.Context) (int, error)
	// ClaimAnonymous assigns owner to every anonymous record.
	ClaimAnonymous(ctx context.Context, owner string) ([]models.Record, error)
	// Update is the locked read-modify-write used by the sync engine.
	Update(ctx context.Context, id string, fn UpdateFunc) (models.Record, error)
	List(ctx context.Context, filter models.RecordFilter) ([]models.Record, error)
	CountByState(ctx context.Context) (models.StateCounts, error)

	GetMeta(ctx context.Context, key string) (string, error)
	SetMeta(ctx context.Context, key, value string) error

	OnChange(fn ChangeListener)
	StartupWarning() error
	Close() error
}
