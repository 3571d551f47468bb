// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/cameronsaddress/SnapChef-sub018/internal/utils"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// Resolve compares the local revision of a record with the remote one.
//
// local.Version is the remote version the local content was derived from.
// When the remote has not moved past it the local revision wins. Otherwise the
// revisions are merged only when they say the same thing (both deleted, or the
// same payload with the same deleted flag); every other combination, including
// a local delete racing a remote edit, is a conflict.
//
// Resolve is pure: it never touches storage or the network.
func Resolve(local, remote models.Revision) models.Resolution {
	if remote.Version <= local.Version {
		return models.Resolution{Kind: models.ResolutionMerged, Merged: local, From: models.SideLocal}
	}

	switch {
	case local.Deleted && !remote.Deleted:
		return conflict(local, remote)
	case local.Deleted && remote.Deleted:
		return models.Resolution{Kind: models.ResolutionMerged, Merged: remote, From: models.SideRemote}
	case local.Deleted == remote.Deleted && utils.PayloadsEqual(local.Payload, remote.Payload):
		return models.Resolution{Kind: models.ResolutionMerged, Merged: remote, From: models.SideRemote}
	default:
		return conflict(local, remote)
	}
}

func conflict(local, remote models.Revision) models.Resolution {
	return models.Resolution{Kind: models.ResolutionConflict, Local: local, Remote: remote}
}

func localRevision(rec models.Record) models.Revision {
	return models.Revision{
		Version:    rec.BaseVersion(),
		Payload:    rec.Payload,
		Deleted:    rec.Deleted,
		ModifiedAt: rec.LastLocalModified,
	}
}

func remoteRevision(rec models.RemoteRecord) models.Revision {
	return models.Revision{
		Version:    rec.Version,
		Payload:    rec.Payload,
		Deleted:    rec.Deleted,
		ModifiedAt: rec.ModifiedAt,
	}
}
