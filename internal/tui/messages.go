// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

type listLoadedMsg struct {
	items []models.Record
	err   error
}

type statusMsg struct {
	status models.SyncStatus
}

// statusUpdateMsg comes from the status subscription.
type statusUpdateMsg struct {
	status models.SyncStatus
	// closed is set once the subscription channel was closed.
	closed bool
}

type syncDoneMsg struct {
	result service.DrainResult
	err    error
}

type itemSavedMsg struct {
	status string
	err    error
}

type itemDeletedMsg struct {
	err error
}

type conflictResolvedMsg struct {
	record models.Record
	err    error
}

type signedInMsg struct {
	owner string
	err   error
}
