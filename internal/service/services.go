// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/cameronsaddress/SnapChef-sub018/internal/config"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// Services groups the reference remote's services.
type Services struct {
	AuthService    AuthService
	RecordService  RemoteRecordService
	AppInfoService AppInfoService
}

func NewServices(repository store.RemoteRecordRepository, cfg *config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(models.BuildInfo{
		Version: cfg.Version,
		Date:    cfg.BuildDate,
		Commit:  cfg.BuildCommit,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	records := NewRemoteRecordValidationService().Wrap(NewRemoteRecordService(repository, logger))

	return &Services{
		AuthService:    NewAuthService(cfg, logger),
		RecordService:  records,
		AppInfoService: appInfo,
	}, nil
}
