// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// StateCounts holds the number of records per sync state.
type StateCounts struct {
	Synced     int `json:"synced"`
	Pending    int `json:"pending"`
	Syncing    int `json:"syncing"`
	Conflicted int `json:"conflicted"`
	Anonymous  int `json:"anonymous"`
	LocalOnly  int `json:"local_only"`
	Tombstones int `json:"tombstones"`

	// PendingDeletes counts tombstones whose delete was not acknowledged yet.
	PendingDeletes int `json:"pending_deletes"`
}

// Total returns the number of live records across all states.
func (c StateCounts) Total() int {
	return c.Synced + c.Pending + c.Syncing + c.Conflicted + c.Anonymous + c.LocalOnly
}

// Add increments the counter for state by n.
func (c *StateCounts) Add(state SyncState, n int) {
	switch state {
	case SyncStateSynced:
		c.Synced += n
	case SyncStatePending:
		c.Pending += n
	case SyncStateSyncing:
		c.Syncing += n
	case SyncStateConflicted:
		c.Conflicted += n
	case SyncStateAnonymous:
		c.Anonymous += n
	case SyncStateLocalOnly:
		c.LocalOnly += n
	}
}

// SyncStatus is a read-only summary of the local store's sync health.
type SyncStatus struct {
	StateCounts

	TotalRecords  int        `json:"total_records"`
	Coverage      float64    `json:"coverage"`
	NeedsSync     bool       `json:"needs_sync"`
	LastFullDrain *time.Time `json:"last_full_drain,omitempty"`

	ErrorCount int        `json:"error_count"`
	LastError  *SyncError `json:"last_error,omitempty"`

	// Stale is set when the store could not be read and the previous snapshot
	// is returned instead.
	Stale      bool      `json:"stale"`
	ComputedAt time.Time `json:"computed_at"`
}

// SyncErrorKind classifies entries of the sync error log.
type SyncErrorKind string

const (
	SyncErrorTransient  SyncErrorKind = "transient"
	SyncErrorPermanent  SyncErrorKind = "permanent"
	SyncErrorValidation SyncErrorKind = "validation"
	SyncErrorStorage    SyncErrorKind = "storage"
	SyncErrorCorruption SyncErrorKind = "corruption"
)

// SyncError is an entry of the bounded sync error log.
type SyncError struct {
	RecordID string        `json:"record_id,omitempty"`
	Kind     SyncErrorKind `json:"kind"`
	Message  string        `json:"message"`
	At       time.Time     `json:"at"`

	// Persistent is set once automatic retries for the operation were
	// exhausted or stopped.
	Persistent bool `json:"persistent"`
}
