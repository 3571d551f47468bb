// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

var ErrNoServices = errors.New("client services are not provided")

// Identity is the part of the identity provider the UI drives.
type Identity interface {
	Owner() string
	IsAuthenticated() bool
	SignIn(ctx context.Context, token string) error
	SignOut()
}

// ErrorLog exposes the sync error log entries, oldest first.
type ErrorLog interface {
	Entries() []models.SyncError
}

type TUI struct {
	records  service.ClientRecordService
	sync     service.ClientSyncService
	status   service.ClientStatusService
	errors   ErrorLog
	identity Identity

	buildInfo models.BuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, identity Identity, buildInfo models.BuildInfo, logger *logger.Logger) (*TUI, error) {
	if services == nil || identity == nil {
		return nil, ErrNoServices
	}

	return &TUI{
		records:   services.RecordService,
		sync:      services.SyncService,
		status:    services.StatusService,
		errors:    services.Errors,
		identity:  identity,
		buildInfo: buildInfo,
		logger:    logger,
	}, nil
}

// Run shows the main screen until the user quits or ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	updates, unsubscribe := t.status.Subscribe()
	defer unsubscribe()

	model := newMainModel(ctx, t, updates)
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		t.logger.Err(err).Str("func", "TUI.Run").Msg("terminal ui stopped with error")
	}
	return err
}
