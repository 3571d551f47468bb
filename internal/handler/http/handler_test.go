// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
)

func TestNewHandler(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()

	h := NewHandler(svc, log)

	require.NotNil(t, h)
	assert.Same(t, svc, h.services)
	assert.Same(t, log, h.logger)
}

func TestInit_Routes(t *testing.T) {
	router := newInfoHandler("test-version").Init()

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantAllow  string
	}{
		// без токена защищённые маршруты отвечают 401, значит маршрут есть
		{method: http.MethodPost, path: "/api/records/push", wantStatus: http.StatusUnauthorized},
		{method: http.MethodGet, path: "/api/records/pull", wantStatus: http.StatusUnauthorized},
		{method: http.MethodGet, path: "/api/version/", wantStatus: http.StatusOK},

		{method: http.MethodPost, path: "/api/version/", wantStatus: http.StatusMethodNotAllowed, wantAllow: http.MethodGet},
		{method: http.MethodGet, path: "/api/records/push", wantStatus: http.StatusMethodNotAllowed, wantAllow: http.MethodPost},
		{method: http.MethodGet, path: "/api/nonexistent", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAllow, rec.Header().Get("Allow"))
		})
	}
}
