// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server listen address in format [host]:[port]
//	-r remote service base URL used by the client
//	-d client database DSN
//	-b reference remote bolt file path
//	-c/-config json file path with configs
//	-token client bearer token
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-request-timeout request timeout for server and adapter (e.g., "30s")
//	-sync-interval background sync period
//	-max-retries transient push retries per pass
//	-base-backoff first retry delay
//	-max-backoff retry delay cap
//	-error-log-capacity sync error log size
//	-log-file client log file
//	-issue-token print a token for the given owner and exit (server)
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var remoteURL string
	var databaseDSN string
	var boltPath string
	var jsonConfigPath string
	var token string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var syncInterval time.Duration
	var maxRetries int
	var baseBackoff time.Duration
	var maxBackoff time.Duration
	var errorLogCapacity int
	var logFile string
	var issueToken string

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&remoteURL, "r", "", "Remote service base URL")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&boltPath, "b", "", "Bolt file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&token, "token", "", "Bearer token to sign in with")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Background sync interval")
	flag.IntVar(&maxRetries, "max-retries", 0, "Transient push retries per pass")
	flag.DurationVar(&baseBackoff, "base-backoff", 0, "First retry delay")
	flag.DurationVar(&maxBackoff, "max-backoff", 0, "Retry delay cap")
	flag.IntVar(&errorLogCapacity, "error-log-capacity", 0, "Sync error log capacity")
	flag.StringVar(&logFile, "log-file", "", "Client log file")
	flag.StringVar(&issueToken, "issue-token", "", "Print a token for the given owner and exit")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			Token:         token,
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		Storage: Storage{
			DB:   DB{DSN: databaseDSN},
			Bolt: Bolt{Path: boltPath},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			IssueToken:     issueToken,
		},
		Adapter: Adapter{
			HTTPAddress:    remoteURL,
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{SyncInterval: syncInterval},
		Sync: Sync{
			MaxRetries:       maxRetries,
			BaseBackoff:      baseBackoff,
			MaxBackoff:       maxBackoff,
			ErrorLogCapacity: errorLogCapacity,
		},
		Log:          Log{File: logFile},
		JSONFilePath: jsonConfigPath,
	}
}

func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set accepts "host:port" where host is empty, "localhost" or an IP literal.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return fmt.Errorf("need address in a form `host:port`: %w", err)
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", rawPort, err)
	}
	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return fmt.Errorf("incorrect IP-address %q", host)
	}

	a.Host, a.Port = host, port
	return nil
}
