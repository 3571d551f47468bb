// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"time"
)

const notAvailable = "N/A"

// BuildInfo is stamped into both binaries with -ldflags "-X main.build...".
type BuildInfo struct {
	Version string `json:"version"`
	Date    string `json:"build_date"`
	Commit  string `json:"commit"`
}

// NewBuildInfo replaces blank values with "N/A".
func NewBuildInfo(version, date, commit string) BuildInfo {
	orNA := func(v string) string {
		if v == "" {
			return notAvailable
		}
		return v
	}
	return BuildInfo{Version: orNA(version), Date: orNA(date), Commit: orNA(commit)}
}

// Known reports whether the binary was built with a version stamp.
func (b BuildInfo) Known() bool {
	return b.Version != "" && b.Version != notAvailable
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s\n", b.Version, b.Date, b.Commit)
}

// ServerInfo is the body of GET /api/version/. ServerTime lets a client
// compare its clock against the remote before trusting pull cursors.
type ServerInfo struct {
	BuildInfo
	ServerTime time.Time `json:"server_time"`
}
