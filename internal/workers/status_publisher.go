// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"
)

// StatusPublisher keeps the status subscribers current. Bursts of store
// writes are folded into one recomputation per debounce window.
type StatusPublisher struct {
	source   StatusSource
	debounce time.Duration

	done chan struct{}
}

func NewStatusPublisher(source StatusSource, debounce time.Duration) *StatusPublisher {
	return &StatusPublisher{
		source:   source,
		debounce: debounce,
		done:     make(chan struct{}),
	}
}

// Run implements [Worker].
func (p *StatusPublisher) Run(ctx context.Context) {
	go p.loop(ctx)
}

// Done is closed once the publisher goroutine exited.
func (p *StatusPublisher) Done() <-chan struct{} {
	return p.done
}

func (p *StatusPublisher) loop(ctx context.Context) {
	defer close(p.done)

	// Initial snapshot for subscribers that joined before the first change.
	p.source.Snapshot(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.source.Changes():
		}

		if p.debounce > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.debounce):
			}
		}
		p.source.Snapshot(ctx)
	}
}
