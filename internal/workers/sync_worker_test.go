// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsaddress/SnapChef-sub018/internal/service"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

type spySync struct {
	starts atomic.Int64
}

func (s *spySync) StartSync(context.Context) *service.DrainHandle {
	s.starts.Add(1)
	return nil
}

func (s *spySync) Enqueue(context.Context, models.Operation) error { return nil }
func (s *spySync) CancelSync()                                      {}
func (s *spySync) RetryFailed(context.Context, ...string) error     { return nil }
func (s *spySync) Recover(context.Context) error                    { return nil }
func (s *spySync) QueueLen() int                                    { return 0 }
func (s *spySync) Parked() []string                                 { return nil }
func (s *spySync) ResolveConflict(context.Context, string, models.ConflictChoice, json.RawMessage) (models.Record, error) {
	return models.Record{}, nil
}

type spyJob struct {
	interval atomic.Int64
	started  atomic.Bool
	stopped  atomic.Bool
}

func (j *spyJob) Start(_ context.Context, interval time.Duration) {
	j.interval.Store(int64(interval))
	j.started.Store(true)
}

func (j *spyJob) Stop() { j.stopped.Store(true) }

func TestSyncWorker_Run(t *testing.T) {
	sync := &spySync{}
	job := &spyJob{}
	w := NewSyncWorker(sync, job, 42*time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	w.Run(ctx)
	assert.Equal(t, int64(1), sync.starts.Load(), "startup pass")
	assert.True(t, job.started.Load())
	assert.Equal(t, int64(42*time.Second), job.interval.Load())
	assert.False(t, job.stopped.Load())

	cancel()
	require.Eventually(t, job.stopped.Load, time.Second, 5*time.Millisecond)
}
