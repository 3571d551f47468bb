// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

type stubAppInfoService struct {
	info models.ServerInfo
}

func (s *stubAppInfoService) GetAppInfo(_ context.Context) models.ServerInfo {
	return s.info
}

func newInfoHandler(version string) *Handler {
	return NewHandler(&service.Services{
		AppInfoService: &stubAppInfoService{info: models.ServerInfo{
			BuildInfo:  models.BuildInfo{Version: version, Date: "2026-05-03", Commit: "9f1c2e7"},
			ServerTime: time.Date(2026, 5, 3, 10, 0, 0, 0, time.UTC),
		}},
	}, logger.Nop())
}

func TestGetServerInfo(t *testing.T) {
	tests := []struct {
		name    string
		viaMux  bool
		version string
	}{
		{name: "handler", version: "1.4.0"},
		{name: "router", viaMux: true, version: "v2.0.0-beta+build.42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newInfoHandler(tt.version)
			req := httptest.NewRequest(http.MethodGet, "/api/version/", nil)
			rec := httptest.NewRecorder()

			if tt.viaMux {
				h.Init().ServeHTTP(rec, req)
			} else {
				h.getServerInfo(rec, req)
			}

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var got models.ServerInfo
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.version, got.Version)
			assert.Equal(t, "9f1c2e7", got.Commit)
			assert.True(t, got.ServerTime.Equal(time.Date(2026, 5, 3, 10, 0, 0, 0, time.UTC)))
		})
	}
}
