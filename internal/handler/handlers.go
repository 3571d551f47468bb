// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import (
	"github.com/cameronsaddress/SnapChef-sub018/internal/config"
	"github.com/cameronsaddress/SnapChef-sub018/internal/handler/http"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
)

// Handlers groups the transport handlers of the reference remote.
type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg *config.ServerConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
