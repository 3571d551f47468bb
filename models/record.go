// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// AnonymousOwner is the owner assigned to records created before the user
// signed in. Such records stay on the device until they are claimed.
const AnonymousOwner = "anonymous"

// SyncState describes where a record is in the synchronisation pipeline.
type SyncState string

const (
	// SyncStateLocalOnly marks a record with local changes that are not queued yet.
	SyncStateLocalOnly SyncState = "local_only"
	// SyncStateAnonymous marks a record created without an authenticated owner.
	SyncStateAnonymous SyncState = "anonymous"
	// SyncStatePending marks a record whose operation waits in the sync queue.
	SyncStatePending SyncState = "pending"
	// SyncStateSyncing marks a record whose operation is being sent right now.
	SyncStateSyncing SyncState = "syncing"
	// SyncStateSynced marks a record whose local version was acknowledged.
	SyncStateSynced SyncState = "synced"
	// SyncStateConflicted marks a record that diverged from the remote copy and
	// waits for an explicit resolution.
	SyncStateConflicted SyncState = "conflicted"
)

// ParseSyncState converts a persisted state string into a SyncState.
// Unknown values written by a newer application version are read back as
// pending so the record is re-examined by the next drain pass.
func ParseSyncState(s string) SyncState {
	switch st := SyncState(s); st {
	case SyncStateLocalOnly, SyncStateAnonymous, SyncStatePending,
		SyncStateSyncing, SyncStateSynced, SyncStateConflicted:
		return st
	default:
		return SyncStatePending
	}
}

// Record is a synchronisable unit of user content (one recipe).
//
// Payload is opaque to the sync engine; it is only validated on write and
// compared field-wise during conflict resolution.
type Record struct {
	// ID is generated on the device when the record is created and is never
	// reassigned.
	ID string `json:"id"`

	// Payload holds the recipe JSON document for LocalVersion.
	Payload json.RawMessage `json:"payload"`

	// PayloadHash is the BLAKE2b digest of the canonical payload form.
	PayloadHash string `json:"payload_hash"`

	// Owner is AnonymousOwner or a concrete user id.
	Owner string `json:"owner"`

	// LocalVersion grows on every local mutation.
	LocalVersion int64 `json:"local_version"`

	// RemoteVersion is the last version acknowledged by the remote service,
	// nil if the record was never synced.
	RemoteVersion *int64 `json:"remote_version,omitempty"`

	SyncState SyncState `json:"sync_state"`

	LastLocalModified  *time.Time `json:"last_local_modified,omitempty"`
	LastRemoteModified *time.Time `json:"last_remote_modified,omitempty"`

	// Deleted marks a tombstone kept until the remote acknowledges the delete.
	Deleted bool `json:"deleted"`

	// Conflict holds the remote side of a conflict while SyncState is
	// SyncStateConflicted.
	Conflict *ConflictSide `json:"conflict,omitempty"`

	// LastError is the last sync error reported for this record.
	LastError string `json:"last_error,omitempty"`
}

// ConflictSide is the retained remote revision of a conflicted record.
type ConflictSide struct {
	Version    int64           `json:"version"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Deleted    bool            `json:"deleted"`
	ModifiedAt *time.Time      `json:"modified_at,omitempty"`
}

// BaseVersion returns the remote version the local content was derived from,
// zero when the record never reached the remote.
func (r Record) BaseVersion() int64 {
	if r.RemoteVersion == nil {
		return 0
	}
	return *r.RemoteVersion
}

// IsAnonymous reports whether the record has no authenticated owner yet.
func (r Record) IsAnonymous() bool {
	return r.Owner == "" || r.Owner == AnonymousOwner
}

// InSync reports whether the local content equals the acknowledged remote one.
func (r Record) InSync() bool {
	return r.RemoteVersion != nil && *r.RemoteVersion == r.LocalVersion
}

// NextLocalVersion returns the version a new local mutation must carry.
func (r Record) NextLocalVersion() int64 {
	return max(r.LocalVersion, r.BaseVersion()) + 1
}

// RecordFilter narrows Record listings. Zero values mean "no filter".
type RecordFilter struct {
	States         []SyncState
	Owner          string
	IncludeDeleted bool
}
