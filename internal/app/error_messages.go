// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// reference remote's handlers and middleware.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
// Keeping them in one place ensures consistent wording throughout the API.
package app

const (
	// MsgInvalidJSON is returned when a request body cannot be decoded.
	MsgInvalidJSON = "invalid JSON was passed"

	// MsgBodyTooLarge is returned when a push body exceeds the size limit.
	MsgBodyTooLarge = "request body is too large"

	// MsgInvalidSince is returned when the pull cursor is not an RFC 3339
	// timestamp.
	MsgInvalidSince = "invalid `since` parameter"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoOwnerProvided is returned when a handler requires an owner (taken
	// from the JWT subject) but none is present in the request context.
	MsgNoOwnerProvided = "no owner provided"

	// MsgAccessDenied is returned when the authenticated owner attempts to
	// modify a record that belongs to a different owner.
	MsgAccessDenied = "access denied"

	// MsgVersionConflict is returned when an optimistic-locking check fails:
	// the base version supplied by the client no longer matches the stored
	// version. The client should reconcile before retrying.
	MsgVersionConflict = "version conflict, please sync"
)
