// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

var (
	// ErrTransient marks failures worth retrying: timeouts, dropped
	// connections, throttling and 5xx responses.
	ErrTransient = errors.New("transient remote error")

	// ErrPermanent marks requests the remote rejected and will keep
	// rejecting until something changes locally.
	ErrPermanent = errors.New("permanent remote error")

	// ErrUnauthorized is returned when no token is available or the remote
	// refused it.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrVersionConflict is matched by *ConflictError.
	ErrVersionConflict = errors.New("version conflict")

	ErrInvalidBaseURL = errors.New("invalid remote address")
)

// ConflictError is returned by Push when the remote holds a version other
// than the pushed base version.
type ConflictError struct {
	Remote models.RemoteRecord
}

func (e *ConflictError) Error() string {
	return ErrVersionConflict.Error()
}

func (e *ConflictError) Unwrap() error {
	return ErrVersionConflict
}
