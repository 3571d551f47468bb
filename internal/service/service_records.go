// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

type remoteRecordService struct {
	repository store.RemoteRecordRepository

	logger *logger.Logger
}

func NewRemoteRecordService(repository store.RemoteRecordRepository, logger *logger.Logger) RemoteRecordService {
	return &remoteRecordService{
		repository: repository,
		logger:     logger,
	}
}

func (s *remoteRecordService) Push(ctx context.Context, owner string, req models.PushRequest) (models.RemoteRecord, error) {
	req.Owner = owner

	saved, err := s.repository.Push(ctx, owner, req)
	if err != nil {
		return models.RemoteRecord{}, fmt.Errorf("error applying push: %w", err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "remoteRecordService.Push").
		Str("record_id", saved.RecordID).
		Int64("version", saved.Version).
		Bool("deleted", saved.Deleted).
		Msg("record accepted")

	return saved, nil
}

func (s *remoteRecordService) Pull(ctx context.Context, owner string, since time.Time) (models.PullResponse, error) {
	records, cursor, err := s.repository.Since(ctx, owner, since)
	if err != nil {
		return models.PullResponse{}, fmt.Errorf("error reading changed records: %w", err)
	}
	if records == nil {
		records = []models.RemoteRecord{}
	}

	// An empty page keeps the caller's cursor; the first pull gets the
	// current server time instead of the zero time.
	if cursor.IsZero() {
		cursor = time.Now().UTC()
	}

	return models.PullResponse{Records: records, ServerTime: cursor}, nil
}
