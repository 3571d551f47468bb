// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cameronsaddress/SnapChef-sub018/internal/validators"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// RemoteRecordValidationService rejects malformed pushes and pushes made on
// behalf of another owner before they reach the repository.
type RemoteRecordValidationService struct {
	inner     RemoteRecordService
	validator validators.Validator
}

func NewRemoteRecordValidationService() RemoteRecordServiceWrapper {
	return &RemoteRecordValidationService{
		validator: validators.NewRecordValidator(),
	}
}

func (v *RemoteRecordValidationService) Push(ctx context.Context, owner string, req models.PushRequest) (models.RemoteRecord, error) {
	if owner == "" || owner == models.AnonymousOwner {
		return models.RemoteRecord{}, ErrValidationNoOwner
	}
	if req.Owner != "" && req.Owner != owner {
		return models.RemoteRecord{}, ErrUnauthorizedAccessToDifferentUserData
	}
	if req.Version <= req.BaseVersion {
		return models.RemoteRecord{}, fmt.Errorf("%w: version %d is not above base %d", validators.ErrInvalidVersion, req.Version, req.BaseVersion)
	}

	if err := v.validator.Validate(ctx, req); err != nil {
		return models.RemoteRecord{}, fmt.Errorf("error during push validation: %w", err)
	}

	return v.inner.Push(ctx, owner, req)
}

func (v *RemoteRecordValidationService) Pull(ctx context.Context, owner string, since time.Time) (models.PullResponse, error) {
	if owner == "" || owner == models.AnonymousOwner {
		return models.PullResponse{}, ErrValidationNoOwner
	}
	return v.inner.Pull(ctx, owner, since)
}

func (v *RemoteRecordValidationService) Wrap(wrapped RemoteRecordService) RemoteRecordService {
	v.inner = wrapped
	return v
}
