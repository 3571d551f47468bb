// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"
	"time"

	"github.com/cameronsaddress/SnapChef-sub018/models"
)

const defaultErrorLogCapacity = 100

// SyncErrorLog is a bounded, ordered log of sync errors. When full, the
// oldest entry is evicted first.
type SyncErrorLog struct {
	mu      sync.RWMutex
	entries []models.SyncError
	head    int // index of the oldest entry
	size    int

	listeners []func(models.SyncError)
	now       func() time.Time
}

func NewSyncErrorLog(capacity int) *SyncErrorLog {
	if capacity <= 0 {
		capacity = defaultErrorLogCapacity
	}
	return &SyncErrorLog{
		entries: make([]models.SyncError, capacity),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Add appends e, stamping it with the current time when e.At is zero.
func (l *SyncErrorLog) Add(e models.SyncError) {
	if e.At.IsZero() {
		e.At = l.now()
	}

	l.mu.Lock()
	capacity := len(l.entries)
	if l.size < capacity {
		l.entries[(l.head+l.size)%capacity] = e
		l.size++
	} else {
		l.entries[l.head] = e
		l.head = (l.head + 1) % capacity
	}
	listeners := l.listeners
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(e)
	}
}

// Entries returns the logged errors, oldest first.
func (l *SyncErrorLog) Entries() []models.SyncError {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.SyncError, 0, l.size)
	for i := range l.size {
		out = append(out, l.entries[(l.head+i)%len(l.entries)])
	}
	return out
}

// Last returns the newest entry.
func (l *SyncErrorLog) Last() (models.SyncError, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.size == 0 {
		return models.SyncError{}, false
	}
	return l.entries[(l.head+l.size-1)%len(l.entries)], true
}

func (l *SyncErrorLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

// OnAdd registers fn to be called after every Add.
func (l *SyncErrorLog) OnAdd(fn func(models.SyncError)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}
