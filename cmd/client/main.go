// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cameronsaddress/SnapChef-sub018/internal/adapter"
	"github.com/cameronsaddress/SnapChef-sub018/internal/client"
	"github.com/cameronsaddress/SnapChef-sub018/internal/config"
	"github.com/cameronsaddress/SnapChef-sub018/internal/identity"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
	"github.com/cameronsaddress/SnapChef-sub018/internal/tui"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Print(build)

	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	// Логи только в файл: терминал занят интерфейсом
	log := logger.NewClientLogger("snapchef-client", cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	provider, err := identity.NewProvider(cfg.App.Token, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid startup token")
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer storages.Records.Close()

	remote, err := adapter.NewHTTPRemoteService(cfg.Adapter, provider, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote adapter")
	}

	services := service.NewClientServices(storages.Records, remote, provider, cfg, log)

	if warn := storages.Records.StartupWarning(); warn != nil {
		log.Warn().Err(warn).Msg("local database was recreated")
		services.Errors.Add(models.SyncError{
			Kind:       models.SyncErrorCorruption,
			Message:    warn.Error(),
			Persistent: true,
		})
	}

	ui, err := tui.New(services, provider, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	app, err := client.NewApp(services, provider, ui, cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Err(err).Msg("client run error")
		storages.Records.Close()
		os.Exit(1)
	}
}
