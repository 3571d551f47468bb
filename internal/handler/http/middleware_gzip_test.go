// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func gunzip(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(out)
}

const pullBody = "{\"records\":[],\"server_time\":\"2026-05-03T10:00:00Z\"}"

func TestWithGZip_Response(t *testing.T) {
	tests := []struct {
		name           string
		acceptEncoding string
		status         int
		body           string
		wantGzip       bool
	}{
		{name: "compressed for gzip clients", acceptEncoding: "gzip", status: http.StatusOK, body: pullBody, wantGzip: true},
		{name: "compressed with quality values", acceptEncoding: "br;q=1.0, gzip;q=0.8", status: http.StatusConflict, body: pullBody, wantGzip: true},
		{name: "plain without accept-encoding", status: http.StatusOK, body: pullBody},
		{name: "no content stays empty", acceptEncoding: "gzip", status: http.StatusNoContent},
		{name: "not modified stays empty", acceptEncoding: "gzip", status: http.StatusNotModified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			})

			req := httptest.NewRequest(http.MethodGet, "/api/records/pull", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()
			withGZip(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if !tt.wantGzip {
				assert.Empty(t, rec.Header().Get("Content-Encoding"))
				assert.Equal(t, tt.body, rec.Body.String())
				return
			}
			assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
			assert.Equal(t, "Accept-Encoding", rec.Header().Get("Vary"))
			assert.Equal(t, tt.body, gunzip(t, rec.Body.Bytes()))
		})
	}
}

func TestWithGZip_HandlerWritesNothing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()

	withGZip(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Zero(t, rec.Body.Len(), "no stray gzip footer")
}

func TestWithGZip_Request(t *testing.T) {
	push := []byte("{\"record_id\":\"r1\",\"kind\":\"create\",\"payload\":{\"name\":\"Плов\"},\"version\":1}")

	t.Run("gzip body is inflated", func(t *testing.T) {
		var got []byte
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var err error
			got, err = io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Empty(t, r.Header.Get("Content-Encoding"))
			require.NoError(t, r.Body.Close())
		})

		req := httptest.NewRequest(http.MethodPost, "/api/records/push", bytes.NewReader(gzipBytes(t, push)))
		req.Header.Set("Content-Encoding", "gzip")
		rec := httptest.NewRecorder()
		withGZip(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, push, got)
	})

	t.Run("broken gzip is rejected", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

		req := httptest.NewRequest(http.MethodPost, "/api/records/push", bytes.NewReader(push))
		req.Header.Set("Content-Encoding", "gzip")
		rec := httptest.NewRecorder()
		withGZip(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, called)
	})
}
