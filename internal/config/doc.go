// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// facilities for the sync client and the reference remote.
//
// Configuration is assembled from multiple sources in the following order
// (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags
//  4. JSON config file
//
// The entry points are [GetClientConfig] and [GetServerConfig]; both build a
// [StructuredConfig] and project the fields their binary needs.
package config
