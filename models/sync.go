// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// OperationKind is the kind of change a queued operation pushes.
type OperationKind string

const (
	OperationCreate OperationKind = "create"
	OperationUpdate OperationKind = "update"
	OperationDelete OperationKind = "delete"
)

// Operation is an entry of the outbound sync queue. The queue keeps at most
// one pending Operation per record.
type Operation struct {
	RecordID         string        `json:"record_id"`
	Kind             OperationKind `json:"kind"`
	VersionAtEnqueue int64         `json:"version_at_enqueue"`
	EnqueuedAt       time.Time     `json:"enqueued_at"`
	Attempts         int           `json:"attempts"`
}

// OperationFor derives the operation that pushes the current state of rec.
func OperationFor(rec Record) Operation {
	kind := OperationUpdate
	switch {
	case rec.Deleted:
		kind = OperationDelete
	case rec.RemoteVersion == nil:
		kind = OperationCreate
	}

	return Operation{
		RecordID:         rec.ID,
		Kind:             kind,
		VersionAtEnqueue: rec.LocalVersion,
		EnqueuedAt:       time.Now().UTC(),
	}
}

// Coalesce merges a newer operation for the same record into o and returns
// the result. The newest version wins; a create stays a create until the
// record is deleted.
func (o Operation) Coalesce(newer Operation) Operation {
	merged := newer
	if o.Kind == OperationCreate && newer.Kind == OperationUpdate {
		merged.Kind = OperationCreate
	}
	if o.VersionAtEnqueue > merged.VersionAtEnqueue {
		merged.VersionAtEnqueue = o.VersionAtEnqueue
	}
	merged.EnqueuedAt = o.EnqueuedAt
	return merged
}

// PushRequest is sent to the remote service for a single operation.
type PushRequest struct {
	RecordID    string          `json:"record_id"`
	Kind        OperationKind   `json:"kind"`
	Owner       string          `json:"owner"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	BaseVersion int64           `json:"base_version"`
	Version     int64           `json:"version"`
	ModifiedAt  *time.Time      `json:"modified_at,omitempty"`
}

// PushResult is the remote acknowledgement of a PushRequest.
type PushResult struct {
	RecordID   string          `json:"record_id"`
	Version    int64           `json:"version"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Deleted    bool            `json:"deleted"`
	ModifiedAt *time.Time      `json:"modified_at,omitempty"`
}

// RemoteRecord is the remote service's view of a record. It is returned by
// pull and attached to version conflicts.
type RemoteRecord struct {
	RecordID   string          `json:"record_id"`
	Owner      string          `json:"owner"`
	Version    int64           `json:"version"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Deleted    bool            `json:"deleted"`
	ModifiedAt *time.Time      `json:"modified_at,omitempty"`
}

// PullResponse carries remote changes newer than the requested cursor.
type PullResponse struct {
	Records    []RemoteRecord `json:"records"`
	ServerTime time.Time      `json:"server_time"`
}

// ConflictResponse is the body the remote returns with HTTP 409.
type ConflictResponse struct {
	Message string       `json:"message"`
	Remote  RemoteRecord `json:"remote"`
}
