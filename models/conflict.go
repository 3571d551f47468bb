// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// Revision is one side of a conflict check.
type Revision struct {
	// Version is the remote version of the revision. For the local side it is
	// the base version the local content was derived from.
	Version    int64
	Payload    json.RawMessage
	Deleted    bool
	ModifiedAt *time.Time
}

// ResolutionKind tells whether a conflict check produced a merged revision or
// a conflict that needs a decision.
type ResolutionKind int

const (
	ResolutionMerged ResolutionKind = iota
	ResolutionConflict
)

// Side names the revision a merge was taken from.
type Side string

const (
	SideLocal  Side = "local"
	SideRemote Side = "remote"
)

// Resolution is the outcome of comparing a local and a remote revision.
type Resolution struct {
	Kind ResolutionKind

	// Merged and From are set for ResolutionMerged.
	Merged Revision
	From   Side

	// Local and Remote are both retained for ResolutionConflict.
	Local  Revision
	Remote Revision
}

// ConflictChoice is the user's (or an automatic policy's) decision for a
// conflicted record.
type ConflictChoice string

const (
	// KeepLocal pushes the local revision on top of the remote one.
	KeepLocal ConflictChoice = "keep_local"
	// KeepRemote adopts the remote revision and drops the local change.
	KeepRemote ConflictChoice = "keep_remote"
	// KeepCustom pushes a caller-supplied merged payload.
	KeepCustom ConflictChoice = "custom"
)
