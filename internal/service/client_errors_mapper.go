// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"

	"github.com/cameronsaddress/SnapChef-sub018/internal/adapter"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
	"github.com/cameronsaddress/SnapChef-sub018/internal/validators"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// syncErrorKind classifies an error for the sync error log.
func syncErrorKind(err error) models.SyncErrorKind {
	switch {
	case errors.Is(err, store.ErrStorageCorruption):
		return models.SyncErrorCorruption
	case errors.Is(err, validators.ErrValidation):
		return models.SyncErrorValidation
	case errors.Is(err, adapter.ErrPermanent),
		errors.Is(err, adapter.ErrUnauthorized),
		errors.Is(err, ErrNotAuthenticated):
		return models.SyncErrorPermanent
	case errors.Is(err, adapter.ErrTransient):
		return models.SyncErrorTransient
	default:
		return models.SyncErrorStorage
	}
}

// newSyncError builds an error log entry for err.
func newSyncError(recordID string, err error, persistent bool) models.SyncError {
	return models.SyncError{
		RecordID:   recordID,
		Kind:       syncErrorKind(err),
		Message:    err.Error(),
		Persistent: persistent,
	}
}
