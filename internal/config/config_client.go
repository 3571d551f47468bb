// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side identity settings.
type ClientApp struct {
	// Token is the bearer token to sign in with at startup, empty for an
	// anonymous start.
	Token string
	// Version is reported in the status view.
	Version string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the remote service base URL.
	HTTPAddress string
	// RequestTimeout bounds each push or pull attempt.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite connection string used by the client.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the background drain is triggered.
	SyncInterval time.Duration
}

// ClientSync is the retry policy of the sync engine.
type ClientSync struct {
	MaxRetries       int
	BaseBackoff      time.Duration
	MaxBackoff       time.Duration
	ErrorLogCapacity int
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	Sync    ClientSync
	// LogFile is the rotating client log file.
	LogFile string
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			Token:   cfg.App.Token,
			Version: cfg.App.Version,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
		Sync: ClientSync{
			MaxRetries:       cfg.Sync.MaxRetries,
			BaseBackoff:      cfg.Sync.BaseBackoff,
			MaxBackoff:       cfg.Sync.MaxBackoff,
			ErrorLogCapacity: cfg.Sync.ErrorLogCapacity,
		},
		LogFile: cfg.Log.File,
	}
}
