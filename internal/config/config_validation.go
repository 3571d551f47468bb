// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"net/url"
	"strings"
)

// validate checks the merged [StructuredConfig]. Binary-specific rules live
// on the client and server views.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, ":memory:") || strings.Contains(cfg.Storage.DB.DSN, "mode=memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}
	u, err := url.Parse(cfg.Adapter.HTTPAddress)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.Sync.MaxRetries < 0 || cfg.Sync.BaseBackoff <= 0 ||
		cfg.Sync.MaxBackoff < cfg.Sync.BaseBackoff || cfg.Sync.ErrorLogCapacity <= 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.HTTPAddress == "" || cfg.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.BoltPath == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.TokenSignKey == "" || cfg.TokenIssuer == "" || cfg.TokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}

	return nil
}
