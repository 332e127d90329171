// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package search

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a query update is searched.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer delays a callback until updates have been quiet for the wait
// window. It holds a single pending value: every Update supersedes it and
// restarts the timer, so only the last value of a burst fires.
type Debouncer struct {
	mu      sync.Mutex
	wait    time.Duration
	fire    func(query string)
	timer   *time.Timer
	pending string
	armed   bool
	seq     uint64
}

// NewDebouncer creates a debouncer calling fire on its own goroutine.
func NewDebouncer(wait time.Duration, fire func(query string)) *Debouncer {
	return &Debouncer{wait: wait, fire: fire}
}

// Update replaces the pending query and restarts the window.
func (d *Debouncer) Update(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()

	d.pending = query
	d.armed = true
	d.seq++

	seq := d.seq
	d.timer = time.AfterFunc(d.wait, func() { d.expire(seq) })
}

// Pending reports the query waiting to fire, if any.
func (d *Debouncer) Pending() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.pending, d.armed
}

// Cancel drops the pending query without firing.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.armed = false
	d.pending = ""
}

func (d *Debouncer) expire(seq uint64) {
	d.mu.Lock()
	// A later Update or Cancel won the race against this timer.
	if !d.armed || seq != d.seq {
		d.mu.Unlock()

		return
	}

	query := d.pending
	d.armed = false
	d.pending = ""
	d.timer = nil
	d.mu.Unlock()

	d.fire(query)
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.seq++
}
