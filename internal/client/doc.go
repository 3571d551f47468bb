// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It wires the terminal UI, the client services and the background workers
// into a single process lifecycle: the sync queue is rebuilt from the local
// store, anonymous records are claimed on sign-in, the drain job and the
// status publisher run while the UI is open, and everything is stopped when
// the UI exits.
package client
