// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

type appInfoService struct {
	build models.BuildInfo
	now   func() time.Time
}

func NewAppInfoService(build models.BuildInfo) (AppInfoService, error) {
	if build.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		build: build,
		now:   time.Now,
	}, nil
}

func (s *appInfoService) GetAppInfo(_ context.Context) models.ServerInfo {
	return models.ServerInfo{
		BuildInfo:  s.build,
		ServerTime: s.now().UTC(),
	}
}
