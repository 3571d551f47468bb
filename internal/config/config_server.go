// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ServerConfig is the reference remote's view of [StructuredConfig].
type ServerConfig struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	BoltPath       string

	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration

	// IssueToken is the owner id to print a token for, if any.
	IssueToken string

	Version     string
	BuildDate   string
	BuildCommit string
}

// GetServerConfig builds and validates the reference remote's configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := newServerConfig(cfg)
	return serverCfg, serverCfg.validate()
}

func newServerConfig(cfg *StructuredConfig) *ServerConfig {
	return &ServerConfig{
		HTTPAddress:    cfg.Server.HTTPAddress,
		RequestTimeout: cfg.Server.RequestTimeout,
		BoltPath:       cfg.Storage.Bolt.Path,
		TokenSignKey:   cfg.App.TokenSignKey,
		TokenIssuer:    cfg.App.TokenIssuer,
		TokenDuration:  cfg.App.TokenDuration,
		IssueToken:     cfg.Server.IssueToken,
		Version:        cfg.App.Version,
	}
}
