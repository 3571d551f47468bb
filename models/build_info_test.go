// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuildInfo(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		date      string
		commit    string
		want      BuildInfo
		wantKnown bool
	}{
		{
			name:    "stamped",
			version: "1.4.0", date: "2026-05-03", commit: "9f1c2e7",
			want:      BuildInfo{Version: "1.4.0", Date: "2026-05-03", Commit: "9f1c2e7"},
			wantKnown: true,
		},
		{
			name: "local build",
			want: BuildInfo{Version: "N/A", Date: "N/A", Commit: "N/A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBuildInfo(tt.version, tt.date, tt.commit)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantKnown, got.Known())
			assert.Contains(t, got.String(), "Build version: "+tt.want.Version)
		})
	}
}

func TestServerInfo_JSONIsFlat(t *testing.T) {
	info := ServerInfo{
		BuildInfo:  BuildInfo{Version: "1.4.0"},
		ServerTime: time.Date(2026, 5, 3, 10, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(info)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "1.4.0", raw["version"])
	assert.Equal(t, "2026-05-03T10:00:00Z", raw["server_time"])
}
