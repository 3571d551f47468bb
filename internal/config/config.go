// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container. It aggregates
// all sub-configurations and is populated by merging defaults, environment
// variables, command-line flags and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds identity and token settings.
	App App `envPrefix:"APP_"`

	// Storage holds the client SQLite database and the remote's bolt file.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the reference remote's listener settings.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's view of the remote service.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds background job settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Sync holds the retry policy and error log size of the sync engine.
	Sync Sync `envPrefix:"SYNC_"`

	// Log holds log output settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds identity and token settings.
type App struct {
	// Token is the bearer token the client signs in with at startup. Empty
	// means the client starts anonymous.
	// Env: APP_TOKEN
	Token string `env:"TOKEN"`

	// TokenSignKey is the secret used by the reference remote to sign and
	// verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of issued tokens.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of tokens issued with -issue-token.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is the application version reported by /api/version.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the persistence settings.
type Storage struct {
	// DB holds the client's local database settings.
	DB DB `envPrefix:"DB_"`

	// Bolt holds the reference remote's record file.
	Bolt Bolt `envPrefix:"BOLT_"`
}

// DB holds connection settings for the client's SQLite database.
type DB struct {
	// DSN is the go-sqlite3 data source name, a file path or "file:" URI.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Bolt holds the reference remote's bbolt database location.
type Bolt struct {
	// Path is the bbolt file path.
	// Env: STORAGE_BOLT_PATH
	Path string `env:"PATH"`
}

// Server holds network and timeout settings for the reference remote.
type Server struct {
	// HTTPAddress is the listen address in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// IssueToken, when set, makes the server print a token for this owner id
	// and exit. Flag only.
	IssueToken string
}

// Adapter holds the client's remote service endpoint.
type Adapter struct {
	// HTTPAddress is the base URL of the remote service
	// (e.g. "http://localhost:8080").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every push and pull attempt. Expiry is treated as
	// a transient failure.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval is the period of the background drain trigger.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// Sync holds the retry policy of the sync engine.
type Sync struct {
	// MaxRetries is the number of retries of a transient push failure within
	// one drain pass.
	// Env: SYNC_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`

	// BaseBackoff is the first retry delay; later delays double with jitter.
	// Env: SYNC_BASE_BACKOFF
	BaseBackoff time.Duration `env:"BASE_BACKOFF"`

	// MaxBackoff caps a single retry delay.
	// Env: SYNC_MAX_BACKOFF
	MaxBackoff time.Duration `env:"MAX_BACKOFF"`

	// ErrorLogCapacity bounds the in-memory sync error log.
	// Env: SYNC_ERROR_LOG_CAPACITY
	ErrorLogCapacity int `env:"ERROR_LOG_CAPACITY"`
}

// Log holds log output settings.
type Log struct {
	// File is the client log file. Empty means "logs/client.log" next to the
	// executable.
	// Env: LOG_FILE
	File string `env:"FILE"`
}

// defaultConfig returns the lowest-priority configuration layer.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   "snapchef",
			TokenDuration: 24 * time.Hour,
			Version:       "dev",
		},
		Storage: Storage{
			DB:   DB{DSN: "snapchef.db"},
			Bolt: Bolt{Path: "remote.db"},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:8080",
			RequestTimeout: 10 * time.Second,
		},
		Workers: Workers{SyncInterval: 30 * time.Second},
		Sync: Sync{
			MaxRetries:       5,
			BaseBackoff:      500 * time.Millisecond,
			MaxBackoff:       30 * time.Second,
			ErrorLogCapacity: 100,
		},
	}
}

// GetStructuredConfig loads and merges the configuration from all sources.
// See the package documentation for the precedence order.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags().
		withJSON().
		build()
}
