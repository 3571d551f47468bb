// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cameronsaddress/SnapChef-sub018/internal/config"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
	"github.com/cameronsaddress/SnapChef-sub018/internal/workers"
)

// statusDebounce folds bursts of store writes into one status recomputation.
const statusDebounce = 100 * time.Millisecond

var (
	ErrNilServices = errors.New("client services are nil")
	ErrNilUI       = errors.New("ui is nil")
)

type App struct {
	services  *service.ClientServices
	ui        UI
	workers   *workers.Workers
	publisher *workers.StatusPublisher
	logger    *logger.Logger
}

func NewApp(services *service.ClientServices, signIns SignInNotifier, ui UI, cfg config.ClientWorkers, logger *logger.Logger) (*App, error) {
	if services == nil {
		return nil, ErrNilServices
	}
	if ui == nil {
		return nil, ErrNilUI
	}

	if signIns != nil {
		records := services.RecordService
		signIns.OnSignIn(func(ctx context.Context, owner string) {
			claimed, err := records.ClaimAnonymous(ctx, owner)
			if err != nil {
				logger.Err(err).Str("func", "App.onSignIn").Msg("failed to claim anonymous records")
				return
			}
			logger.Info().Str("func", "App.onSignIn").Int("claimed", len(claimed)).Msg("anonymous records claimed")
		})
	}

	publisher := workers.NewStatusPublisher(services.Status, statusDebounce)

	return &App{
		services: services,
		ui:       ui,
		workers: workers.NewWorkers(
			workers.NewSyncWorker(services.SyncService, services.SyncJob, cfg.SyncInterval),
			publisher,
		),
		publisher: publisher,
		logger:    logger,
	}, nil
}

// Run rebuilds the sync queue, starts the background workers and shows the
// UI. Workers are stopped before Run returns.
func (a *App) Run(ctx context.Context) error {
	ctx = a.logger.WithContext(ctx)

	if err := a.services.SyncService.Recover(ctx); err != nil {
		return fmt.Errorf("recover sync queue: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.workers.Run(ctx)

	uiErr := a.ui.Run(ctx)

	cancel()
	a.services.SyncService.CancelSync()
	a.services.SyncJob.Stop()
	<-a.publisher.Done()

	a.logger.Info().Str("func", "App.Run").Msg("client stopped")
	return uiErr
}
