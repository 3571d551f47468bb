// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

// StatusReporter derives sync health from the record store. The snapshot is
// cached until the store or the error log reports a change.
type StatusReporter struct {
	records store.RecordStore
	errors  *SyncErrorLog
	logger  *logger.Logger

	mu     sync.Mutex
	cached models.SyncStatus
	ready  bool
	dirty  atomic.Bool

	// lastFailure is the message of the store error already logged for the
	// current stale streak.
	lastFailure string

	// changes is signalled (without blocking) on every invalidation.
	changes chan struct{}

	subsMu sync.Mutex
	subs   map[int]chan models.SyncStatus
	nextID int

	now func() time.Time
}

func NewStatusReporter(records store.RecordStore, errLog *SyncErrorLog, logger *logger.Logger) *StatusReporter {
	r := &StatusReporter{
		records: records,
		errors:  errLog,
		logger:  logger,
		changes: make(chan struct{}, 1),
		subs:    make(map[int]chan models.SyncStatus),
		now:     func() time.Time { return time.Now().UTC() },
	}
	r.dirty.Store(true)

	records.OnChange(func(string) { r.Invalidate() })
	errLog.OnAdd(func(models.SyncError) { r.Invalidate() })
	return r
}

// Invalidate implements [ClientStatusService].
func (r *StatusReporter) Invalidate() {
	r.dirty.Store(true)
	select {
	case r.changes <- struct{}{}:
	default:
	}
}

// Changes is signalled after invalidations. Several invalidations may be
// folded into one signal.
func (r *StatusReporter) Changes() <-chan struct{} {
	return r.changes
}

// Snapshot implements [ClientStatusService]. A store failure never reaches
// the caller: it is logged to the sync error log once per distinct message and
// the previous snapshot is returned marked stale.
func (r *StatusReporter) Snapshot(ctx context.Context) models.SyncStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ready && !r.dirty.Swap(false) {
		return r.cached
	}
	r.dirty.Store(false)

	status, err := r.compute(ctx)
	if err != nil {
		// Retry on the next call without signalling Changes again.
		r.dirty.Store(true)
		if msg := err.Error(); msg != r.lastFailure {
			r.lastFailure = msg
			logger.FromContext(ctx).Err(err).Str("func", "StatusReporter.Snapshot").Msg("failed to compute sync status")
			r.errors.Add(newSyncError("", err, false))
		}

		stale := r.cached
		stale.Stale = true
		stale.ErrorCount = r.errors.Len()
		if last, ok := r.errors.Last(); ok {
			stale.LastError = &last
		}
		r.broadcast(stale)
		return stale
	}

	r.cached = status
	r.ready = true
	r.lastFailure = ""
	r.broadcast(status)
	return status
}

func (r *StatusReporter) compute(ctx context.Context) (models.SyncStatus, error) {
	counts, err := r.records.CountByState(ctx)
	if err != nil {
		return models.SyncStatus{}, err
	}

	status := models.SyncStatus{
		StateCounts:  counts,
		TotalRecords: counts.Total(),
		Coverage:     coverage(counts),
		NeedsSync:    needsSync(counts),
		ErrorCount:   r.errors.Len(),
		ComputedAt:   r.now(),
	}
	if last, ok := r.errors.Last(); ok {
		status.LastError = &last
	}

	raw, err := r.records.GetMeta(ctx, metaLastFullDrain)
	if err != nil {
		return models.SyncStatus{}, err
	}
	if raw != "" {
		if t, parseErr := time.Parse(time.RFC3339Nano, raw); parseErr == nil {
			status.LastFullDrain = &t
		}
	}

	return status, nil
}

// coverage is the share of live records in the synced state, in percent. An
// empty store is fully covered.
func coverage(c models.StateCounts) float64 {
	total := c.Total()
	if total == 0 {
		return 100
	}
	return float64(c.Synced) * 100 / float64(total)
}

// needsSync reports whether any record still has to reach the remote.
// Conflicted records wait for a decision and do not count.
func needsSync(c models.StateCounts) bool {
	return c.Pending+c.Syncing+c.LocalOnly+c.Anonymous+c.PendingDeletes > 0
}

// Subscribe implements [ClientStatusService]. The channel holds the latest
// snapshot only; a slow reader skips intermediate ones.
func (r *StatusReporter) Subscribe() (<-chan models.SyncStatus, func()) {
	ch := make(chan models.SyncStatus, 1)

	r.subsMu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = ch
	r.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.subsMu.Lock()
			delete(r.subs, id)
			r.subsMu.Unlock()
			close(ch)
		})
	}
}

func (r *StatusReporter) broadcast(status models.SyncStatus) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()

	for _, ch := range r.subs {
		// Replace an unread snapshot with the newer one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- status:
		default:
		}
	}
}
