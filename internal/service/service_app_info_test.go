// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

func TestNewAppInfoService(t *testing.T) {
	_, err := NewAppInfoService(models.BuildInfo{})
	assert.ErrorIs(t, err, ErrVersionIsNotSpecified)

	svc, err := NewAppInfoService(models.BuildInfo{Version: "1.4.0"})
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", svc.GetAppInfo(context.Background()).Version)
}

func TestGetAppInfo_ServerTimeIsUTC(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	svc := &appInfoService{
		build: models.BuildInfo{Version: "1.4.0", Commit: "9f1c2e7"},
		now:   func() time.Time { return time.Date(2026, 5, 3, 13, 0, 0, 0, moscow) },
	}

	info := svc.GetAppInfo(context.Background())

	assert.Equal(t, "9f1c2e7", info.Commit)
	assert.Equal(t, time.UTC, info.ServerTime.Location())
	assert.Equal(t, 10, info.ServerTime.Hour())
}
