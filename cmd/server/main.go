// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/cameronsaddress/SnapChef-sub018/internal/config"
	"github.com/cameronsaddress/SnapChef-sub018/internal/handler"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/server"
	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
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

	log := logger.NewLogger("snapchef-remote")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if build.Known() {
		cfg.Version = build.Version
	}
	cfg.BuildDate, cfg.BuildCommit = build.Date, build.Commit

	if cfg.IssueToken != "" {
		issueToken(cfg, log)
		return
	}

	repository, err := store.NewBoltRecordRepository(cfg.BoltPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating record repository")
	}
	defer repository.Close()

	services, err := service.NewServices(repository, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// issueToken prints a bearer token for a development client and exits.
func issueToken(cfg *config.ServerConfig, log *logger.Logger) {
	token, err := service.NewAuthService(cfg, log).CreateToken(context.Background(), cfg.IssueToken)
	if err != nil {
		log.Fatal().Err(err).Msg("error issuing token")
	}
	fmt.Println(token)
}
