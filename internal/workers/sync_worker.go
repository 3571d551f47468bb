// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
)

// SyncWorker drains the queue once at startup and then hands over to the
// periodic sync job.
type SyncWorker struct {
	sync     service.ClientSyncService
	job      service.ClientSyncJob
	interval time.Duration
}

func NewSyncWorker(sync service.ClientSyncService, job service.ClientSyncJob, interval time.Duration) *SyncWorker {
	return &SyncWorker{sync: sync, job: job, interval: interval}
}

// Run implements [Worker]. The job is stopped when ctx is cancelled.
func (w *SyncWorker) Run(ctx context.Context) {
	logger.FromContext(ctx).Info().
		Str("func", "SyncWorker.Run").
		Dur("interval", w.interval).
		Msg("starting sync worker")

	w.sync.StartSync(ctx)
	w.job.Start(ctx, w.interval)

	go func() {
		<-ctx.Done()
		w.job.Stop()
	}()
}
