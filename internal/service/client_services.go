// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/cameronsaddress/SnapChef-sub018/internal/adapter"
	"github.com/cameronsaddress/SnapChef-sub018/internal/config"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
)

type ClientServices struct {
	RecordService ClientRecordService
	SyncService   ClientSyncService
	StatusService ClientStatusService
	SyncJob       ClientSyncJob

	// Status is the concrete reporter; the status worker waits on its change
	// signal.
	Status *StatusReporter
	Errors *SyncErrorLog
}

func NewClientServices(
	records store.RecordStore,
	remote adapter.RemoteService,
	identity Identity,
	cfg *config.ClientConfig,
	logger *logger.Logger,
) *ClientServices {
	errLog := NewSyncErrorLog(cfg.Sync.ErrorLogCapacity)
	syncSvc := NewSyncManager(records, remote, identity, errLog, SyncOptionsFromConfig(cfg), logger)
	status := NewStatusReporter(records, errLog, logger)

	return &ClientServices{
		RecordService: NewRecordService(records, syncSvc, identity, logger),
		SyncService:   syncSvc,
		StatusService: status,
		SyncJob:       NewClientSyncJob(syncSvc),
		Status:        status,
		Errors:        errLog,
	}
}

// SyncOptionsFromConfig maps the client config onto the drain retry policy.
func SyncOptionsFromConfig(cfg *config.ClientConfig) SyncOptions {
	return SyncOptions{
		MaxRetries:     cfg.Sync.MaxRetries,
		BaseBackoff:    cfg.Sync.BaseBackoff,
		MaxBackoff:     cfg.Sync.MaxBackoff,
		RequestTimeout: cfg.Adapter.RequestTimeout,
	}
}
