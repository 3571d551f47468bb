// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	// ErrNotAuthenticated is returned by a drain pass started while nobody is
	// signed in. Nothing is pushed; local records stay queued.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotConflicted is returned by ResolveConflict for a record that is
	// not in the conflicted state.
	ErrNotConflicted = errors.New("record is not conflicted")

	ErrUnknownConflictChoice = errors.New("unknown conflict resolution choice")

	// ErrSyncCancelled is reported by a drain pass stopped with CancelSync.
	ErrSyncCancelled = errors.New("sync cancelled")
)

// Errors of the reference remote's services.
var (
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrVersionIsNotSpecified   = errors.New("app version is not specified")

	// ErrValidationNoOwner is returned when a request reaches the record
	// service without an authenticated owner.
	ErrValidationNoOwner = errors.New("no owner provided")

	// ErrUnauthorizedAccessToDifferentUserData is returned when a push names
	// an owner other than the one in the token.
	ErrUnauthorizedAccessToDifferentUserData = errors.New("access to another owner's records")
)
