// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// RemoteRecordService is the reference remote's record API. Every call is
// scoped to the owner taken from the request token.
type RemoteRecordService interface {
	// Push applies a single record change with an optimistic version check.
	Push(ctx context.Context, owner string, req models.PushRequest) (models.RemoteRecord, error)

	// Pull returns the owner's records changed after since.
	Pull(ctx context.Context, owner string, since time.Time) (models.PullResponse, error)
}

// RemoteRecordServiceWrapper defines middleware composition for
// RemoteRecordService. Implementations wrap an existing RemoteRecordService to
// add behavior such as validating.
type RemoteRecordServiceWrapper interface {
	Wrap(RemoteRecordService) RemoteRecordService
}

// AuthService issues and verifies the bearer tokens of the reference remote.
// The token subject is the owner id.
type AuthService interface {
	CreateToken(ctx context.Context, owner string) (string, error)
	ParseToken(ctx context.Context, tokenString string) (string, error)
}

// AppInfoService reports build information and the clock of the running
// server.
type AppInfoService interface {
	GetAppInfo(ctx context.Context) models.ServerInfo
}
