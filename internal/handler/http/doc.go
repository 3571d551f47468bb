// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the HTTP transport of the reference remote.
//
// It exposes the push and pull routes consumed by the client's remote
// adapter. Cross-cutting concerns such as bearer authentication, request
// tracing, access logging, response compression and payload integrity checks
// are handled in this package before requests are delegated to the service
// layer.
package http
