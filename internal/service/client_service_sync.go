// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"

	"github.com/cameronsaddress/SnapChef-sub018/internal/adapter"
	"github.com/cameronsaddress/SnapChef-sub018/internal/logger"
	"github.com/cameronsaddress/SnapChef-sub018/internal/store"
	"github.com/cameronsaddress/SnapChef-sub018/internal/validators"
	"github.com/cameronsaddress/SnapChef-sub018/models"
)

const (
	drainKey = "drain"

	metaPullCursor    = "pull_cursor"
	metaLastFullDrain = "last_full_drain"

	defaultRequestTimeout = 10 * time.Second
	backoffJitterPercent  = 20
)

// SyncOptions is the retry policy of a drain pass.
type SyncOptions struct {
	MaxRetries     int
	BaseBackoff    time.Duration
	MaxBackoff     time.Duration
	RequestTimeout time.Duration
}

// DrainResult summarises one drain pass.
type DrainResult struct {
	Pushed    int
	Conflicts int
	// Failed counts operations left queued after a transient failure.
	Failed int
	Parked int
	Pulled int
	// Skipped counts pulled records that could not be stored locally.
	Skipped int
	Purged  int
	// Full is set when every operation settled and the pull succeeded.
	Full bool
}

// DrainHandle tracks a drain pass. Every caller that joined the same pass
// gets a handle observing the same result.
type DrainHandle struct {
	done   chan struct{}
	result DrainResult
	err    error
}

// Done is closed when the pass finished.
func (h *DrainHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the pass finished or ctx is done. Giving up on the wait
// does not stop the pass; use CancelSync for that.
func (h *DrainHandle) Wait(ctx context.Context) (DrainResult, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return DrainResult{}, ctx.Err()
	}
}

// outcome is what happened to a single queued operation.
type outcome int

const (
	outcomeSkipped outcome = iota
	outcomePushed
	outcomeConflict
	outcomeFailed
	outcomeParked
	outcomeStopped
)

// SyncManager owns the outbound queue. At most one operation per record is
// queued; a newer one coalesces into it. The operation being pushed is kept
// apart so that edits made during the push queue a fresh operation instead of
// changing the one in flight.
type SyncManager struct {
	records   store.RecordStore
	remote    adapter.RemoteService
	identity  Identity
	errors    *SyncErrorLog
	validator validators.Validator
	opts      SyncOptions
	logger    *logger.Logger

	mu       sync.Mutex
	pending  map[string]models.Operation
	order    []string
	inFlight string
	parked   map[string]models.Operation

	group singleflight.Group

	cancelMu sync.Mutex
	cancel   context.CancelFunc

	now func() time.Time
}

func NewSyncManager(
	records store.RecordStore,
	remote adapter.RemoteService,
	identity Identity,
	errLog *SyncErrorLog,
	opts SyncOptions,
	logger *logger.Logger,
) *SyncManager {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.MaxBackoff < opts.BaseBackoff {
		opts.MaxBackoff = opts.BaseBackoff
	}

	return &SyncManager{
		records:   records,
		remote:    remote,
		identity:  identity,
		errors:    errLog,
		validator: validators.NewRecordValidator(),
		opts:      opts,
		logger:    logger,
		pending:   make(map[string]models.Operation),
		parked:    make(map[string]models.Operation),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// queueable reports whether rec may enter the outbound queue.
func queueable(rec models.Record) bool {
	if rec.IsAnonymous() {
		return false
	}
	switch rec.SyncState {
	case models.SyncStateLocalOnly, models.SyncStatePending, models.SyncStateSyncing:
		return true
	default:
		return false
	}
}

// Enqueue implements [ClientSyncService].
func (m *SyncManager) Enqueue(ctx context.Context, op models.Operation) error {
	log := logger.FromContext(ctx)

	queued := false
	rec, err := m.records.Update(ctx, op.RecordID, func(rec *models.Record, found bool) (store.Mutation, error) {
		if !found {
			return store.MutationKeep, store.ErrNotFound
		}
		if !queueable(*rec) {
			return store.MutationKeep, nil
		}
		queued = true
		if rec.SyncState != models.SyncStateLocalOnly {
			return store.MutationKeep, nil
		}
		rec.SyncState = models.SyncStatePending
		return store.MutationSave, nil
	})
	if err != nil {
		log.Err(err).Str("func", "SyncManager.Enqueue").Str("record_id", op.RecordID).Msg("failed to enqueue operation")
		return fmt.Errorf("enqueue %s: %w", op.RecordID, err)
	}
	if !queued {
		log.Debug().Str("func", "SyncManager.Enqueue").
			Str("record_id", op.RecordID).
			Str("state", string(rec.SyncState)).
			Msg("record is not eligible for sync")
		return nil
	}

	op.VersionAtEnqueue = max(op.VersionAtEnqueue, rec.LocalVersion)
	m.queue(op)
	return nil
}

// queue adds op to the pending set, coalescing it with a queued operation
// for the same record. A parked operation for the record is dropped.
func (m *SyncManager) queue(op models.Operation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.parked, op.RecordID)

	if cur, ok := m.pending[op.RecordID]; ok {
		m.pending[op.RecordID] = cur.Coalesce(op)
		return
	}
	if op.EnqueuedAt.IsZero() {
		op.EnqueuedAt = m.now()
	}
	m.pending[op.RecordID] = op
	m.order = append(m.order, op.RecordID)
}

// take removes the queued operation for id and marks it in flight.
func (m *SyncManager) take(id string) (models.Operation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	op, ok := m.pending[id]
	if !ok {
		return models.Operation{}, false
	}
	m.removeLocked(id)
	m.inFlight = id
	return op, true
}

func (m *SyncManager) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = ""
}

// drop removes any queued operation for id.
func (m *SyncManager) drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(id)
}

func (m *SyncManager) removeLocked(id string) {
	if _, ok := m.pending[id]; !ok {
		return
	}
	delete(m.pending, id)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
}

func (m *SyncManager) park(op models.Operation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parked[op.RecordID] = op
}

// snapshot returns the ids queued right now, oldest first.
func (m *SyncManager) snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.order)
}

// QueueLen implements [ClientSyncService].
func (m *SyncManager) QueueLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Parked implements [ClientSyncService].
func (m *SyncManager) Parked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.parked))
	for id := range m.parked {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// RetryFailed implements [ClientSyncService]. Retried operations start with
// a fresh attempt budget and a drain pass is started.
func (m *SyncManager) RetryFailed(ctx context.Context, ids ...string) error {
	m.mu.Lock()
	var ops []models.Operation
	if len(ids) == 0 {
		for _, op := range m.parked {
			ops = append(ops, op)
		}
	} else {
		for _, id := range ids {
			if op, ok := m.parked[id]; ok {
				ops = append(ops, op)
			}
		}
	}
	m.mu.Unlock()

	if len(ops) == 0 {
		return nil
	}

	slices.SortFunc(ops, func(a, b models.Operation) int { return a.EnqueuedAt.Compare(b.EnqueuedAt) })
	for _, op := range ops {
		op.Attempts = 0
		m.queue(op)
	}

	logger.FromContext(ctx).Info().Str("func", "SyncManager.RetryFailed").Int("count", len(ops)).Msg("retrying parked operations")
	m.StartSync(ctx)
	return nil
}

// Recover implements [ClientSyncService]. Records left syncing by a crash go
// back to pending, and every local-only or pending record is queued again.
// Parked operations are not persisted, so they are retried after a restart.
func (m *SyncManager) Recover(ctx context.Context) error {
	log := logger.FromContext(ctx)

	syncing, err := m.records.List(ctx, models.RecordFilter{
		States:         []models.SyncState{models.SyncStateSyncing},
		IncludeDeleted: true,
	})
	if err != nil {
		return fmt.Errorf("list syncing records: %w", err)
	}
	for _, rec := range syncing {
		_, err = m.records.Update(ctx, rec.ID, func(cur *models.Record, found bool) (store.Mutation, error) {
			if !found || cur.SyncState != models.SyncStateSyncing {
				return store.MutationKeep, nil
			}
			cur.SyncState = models.SyncStatePending
			return store.MutationSave, nil
		})
		if err != nil {
			return fmt.Errorf("reset syncing record %s: %w", rec.ID, err)
		}
	}

	unsynced, err := m.records.List(ctx, models.RecordFilter{
		States:         []models.SyncState{models.SyncStateLocalOnly, models.SyncStatePending},
		IncludeDeleted: true,
	})
	if err != nil {
		return fmt.Errorf("list unsynced records: %w", err)
	}

	queued := 0
	for _, rec := range unsynced {
		if rec.IsAnonymous() {
			continue
		}
		if err = m.Enqueue(ctx, models.OperationFor(rec)); err != nil {
			return err
		}
		queued++
	}

	log.Info().Str("func", "SyncManager.Recover").
		Int("reset", len(syncing)).
		Int("queued", queued).
		Msg("sync queue recovered")
	return nil
}

// StartSync implements [ClientSyncService]. The pass runs detached from
// ctx's cancellation; only CancelSync stops it.
func (m *SyncManager) StartSync(ctx context.Context) *DrainHandle {
	h := &DrainHandle{done: make(chan struct{})}

	ch := m.group.DoChan(drainKey, func() (any, error) {
		passCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		m.setCancel(cancel)
		defer func() {
			m.setCancel(nil)
			cancel()
		}()
		return m.drain(passCtx)
	})

	go func() {
		res := <-ch
		if r, ok := res.Val.(DrainResult); ok {
			h.result = r
		}
		h.err = res.Err
		close(h.done)
	}()

	return h
}

// CancelSync implements [ClientSyncService].
func (m *SyncManager) CancelSync() {
	m.cancelMu.Lock()
	defer m.cancelMu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *SyncManager) setCancel(cancel context.CancelFunc) {
	m.cancelMu.Lock()
	defer m.cancelMu.Unlock()
	m.cancel = cancel
}

// drain pushes every operation queued when the pass started, then pulls
// remote changes and purges acknowledged tombstones.
func (m *SyncManager) drain(ctx context.Context) (DrainResult, error) {
	log := logger.FromContext(ctx)
	var res DrainResult

	if !m.identity.IsAuthenticated() {
		return res, ErrNotAuthenticated
	}

	started := m.now()
	clean := true

	for _, id := range m.snapshot() {
		if ctx.Err() != nil {
			return res, ErrSyncCancelled
		}

		op, ok := m.take(id)
		if !ok {
			continue
		}

		out, err := m.process(ctx, op)
		m.release()

		switch out {
		case outcomePushed:
			res.Pushed++
		case outcomeConflict:
			res.Conflicts++
		case outcomeFailed:
			res.Failed++
			clean = false
		case outcomeParked:
			res.Parked++
			clean = false
		case outcomeStopped:
			log.Info().Err(err).Str("func", "SyncManager.drain").Msg("drain pass stopped")
			return res, err
		}
	}

	// Store writes from here on must not be cut short by CancelSync.
	storeCtx := context.WithoutCancel(ctx)

	pulled, skipped, err := m.pull(ctx)
	res.Pulled, res.Skipped = pulled, skipped
	if skipped > 0 {
		clean = false
	}
	if err != nil {
		if ctx.Err() != nil {
			return res, ErrSyncCancelled
		}
		clean = false
		log.Err(err).Str("func", "SyncManager.drain").Msg("pull failed")
		m.errors.Add(newSyncError("", fmt.Errorf("pull: %w", err), true))
	}

	purged, err := m.records.PurgeSyncedTombstones(storeCtx)
	res.Purged = purged
	if err != nil {
		clean = false
		log.Err(err).Str("func", "SyncManager.drain").Msg("failed to purge tombstones")
		m.errors.Add(newSyncError("", err, false))
	}

	if clean {
		if err = m.records.SetMeta(storeCtx, metaLastFullDrain, started.Format(time.RFC3339Nano)); err != nil {
			log.Err(err).Str("func", "SyncManager.drain").Msg("failed to record drain time")
		} else {
			res.Full = true
		}
	}

	log.Info().Str("func", "SyncManager.drain").
		Int("pushed", res.Pushed).
		Int("conflicts", res.Conflicts).
		Int("failed", res.Failed).
		Int("parked", res.Parked).
		Int("pulled", res.Pulled).
		Int("skipped", res.Skipped).
		Bool("full", res.Full).
		Msg("drain pass finished")
	return res, nil
}

// process pushes a single operation and persists the outcome. The record is
// marked syncing first; no store lock is held while the request is in flight.
func (m *SyncManager) process(ctx context.Context, op models.Operation) (outcome, error) {
	log := logger.FromContext(ctx)
	storeCtx := context.WithoutCancel(ctx)

	sent, ok, err := m.markSyncing(storeCtx, op.RecordID)
	if err != nil {
		m.errors.Add(newSyncError(op.RecordID, err, false))
		m.queue(op)
		return outcomeFailed, nil
	}
	if !ok {
		return outcomeSkipped, nil
	}

	result, err := m.pushWithRetry(ctx, pushRequestFor(sent), &op)

	var conflictErr *adapter.ConflictError
	switch {
	case err == nil:
		if err = m.applyAck(storeCtx, sent, result); err != nil {
			return m.storageFailure(storeCtx, op, err)
		}
		return outcomePushed, nil

	case errors.As(err, &conflictErr):
		if err = m.applyConflict(storeCtx, conflictErr.Remote); err != nil {
			return m.storageFailure(storeCtx, op, err)
		}
		return outcomeConflict, nil

	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		m.revert(storeCtx, op, nil)
		m.queue(op)
		return outcomeStopped, ErrSyncCancelled

	case errors.Is(err, adapter.ErrUnauthorized):
		m.revert(storeCtx, op, err)
		m.queue(op)
		m.errors.Add(newSyncError(op.RecordID, err, true))
		return outcomeStopped, err

	case errors.Is(err, adapter.ErrPermanent):
		log.Err(err).Str("func", "SyncManager.process").Str("record_id", op.RecordID).Msg("operation rejected, parking it")
		m.revert(storeCtx, op, err)
		m.park(op)
		m.errors.Add(newSyncError(op.RecordID, err, true))
		return outcomeParked, nil

	default:
		log.Err(err).Str("func", "SyncManager.process").
			Str("record_id", op.RecordID).
			Int("attempts", op.Attempts).
			Msg("push failed after retries")
		m.revert(storeCtx, op, err)
		m.queue(op)
		m.errors.Add(newSyncError(op.RecordID, err, true))
		return outcomeFailed, nil
	}
}

func (m *SyncManager) storageFailure(ctx context.Context, op models.Operation, err error) (outcome, error) {
	logger.FromContext(ctx).Err(err).
		Str("func", "SyncManager.process").
		Str("record_id", op.RecordID).
		Msg("failed to persist push outcome")
	m.errors.Add(newSyncError(op.RecordID, err, false))
	m.revert(ctx, op, err)
	m.queue(op)
	return outcomeFailed, nil
}

// markSyncing moves a queueable record to syncing and returns the state that
// is about to be pushed.
func (m *SyncManager) markSyncing(ctx context.Context, id string) (models.Record, bool, error) {
	ok := false
	rec, err := m.records.Update(ctx, id, func(rec *models.Record, found bool) (store.Mutation, error) {
		if !found || !queueable(*rec) {
			return store.MutationKeep, nil
		}
		ok = true
		rec.SyncState = models.SyncStateSyncing
		return store.MutationSave, nil
	})
	if err != nil {
		return models.Record{}, false, err
	}
	return rec, ok, nil
}

// revert returns a syncing record to pending, remembering cause.
func (m *SyncManager) revert(ctx context.Context, op models.Operation, cause error) {
	_, err := m.records.Update(ctx, op.RecordID, func(rec *models.Record, found bool) (store.Mutation, error) {
		if !found {
			return store.MutationKeep, nil
		}
		if rec.SyncState == models.SyncStateSyncing {
			rec.SyncState = models.SyncStatePending
		}
		if cause != nil {
			rec.LastError = cause.Error()
		}
		return store.MutationSave, nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "SyncManager.revert").
			Str("record_id", op.RecordID).
			Msg("failed to return record to pending")
	}
}

func pushRequestFor(rec models.Record) models.PushRequest {
	req := models.PushRequest{
		RecordID:    rec.ID,
		Kind:        models.OperationFor(rec).Kind,
		Owner:       rec.Owner,
		BaseVersion: rec.BaseVersion(),
		Version:     rec.LocalVersion,
		ModifiedAt:  rec.LastLocalModified,
	}
	if !rec.Deleted {
		req.Payload = rec.Payload
	}
	return req
}

// backoff is exponential with jitter, capped per wait, and bounded by
// MaxRetries.
func (m *SyncManager) backoff() retry.Backoff {
	b := retry.NewExponential(m.opts.BaseBackoff)
	b = retry.WithJitterPercent(backoffJitterPercent, b)
	b = retry.WithCappedDuration(m.opts.MaxBackoff, b)
	return retry.WithMaxRetries(uint64(max(m.opts.MaxRetries, 0)), b)
}

// retryable reports whether err from a single attempt is worth repeating
// within the same pass.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return errors.Is(err, adapter.ErrTransient) || errors.Is(err, context.DeadlineExceeded)
}

func (m *SyncManager) pushWithRetry(ctx context.Context, req models.PushRequest, op *models.Operation) (models.PushResult, error) {
	return retry.DoValue(ctx, m.backoff(), func(ctx context.Context) (models.PushResult, error) {
		op.Attempts++

		attemptCtx, cancel := context.WithTimeout(ctx, m.opts.RequestTimeout)
		defer cancel()

		res, err := m.remote.Push(attemptCtx, req)
		if err != nil && retryable(ctx, err) {
			logger.FromContext(ctx).Debug().Err(err).
				Str("func", "SyncManager.pushWithRetry").
				Str("record_id", req.RecordID).
				Int("attempt", op.Attempts).
				Msg("push attempt failed")
			return models.PushResult{}, retry.RetryableError(err)
		}
		return res, err
	})
}
