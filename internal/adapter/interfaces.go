// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport used by the sync engine to talk to
// the remote persistence service.
//
// The primary abstraction is [RemoteService], which decouples the sync
// manager from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPRemoteService]).
//
// Transport failures are mapped onto a small set of sentinels so that the
// sync manager can decide what to do with an operation without knowing about
// HTTP: [ErrTransient] is retried with backoff, [ErrPermanent] parks the
// operation, [ErrVersionConflict] (carried by [*ConflictError]) hands the
// remote copy to conflict resolution and [ErrUnauthorized] stops the pass
// until the user signs in again.
package adapter

import (
	"context"
	"time"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_service_mock.go -package=mock

// RemoteService is the push/pull contract of the remote persistence service.
type RemoteService interface {
	// Push sends a single operation. On success the remote's authoritative
	// version is returned. A version mismatch is reported as *ConflictError
	// carrying the remote copy of the record.
	Push(ctx context.Context, req models.PushRequest) (models.PushResult, error)

	// Pull returns the records changed on the remote after since, together
	// with the cursor to use for the next call.
	Pull(ctx context.Context, since time.Time) (models.PullResponse, error)
}

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	Token() string
}
