/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package sched provides the timer capability consumed by the forwarding tables.
//
// Callbacks are always run on the goroutine that owns the tables, never concurrently with
// table operations.
package sched

import "time"

// Handle is a cancellable reference to a scheduled callback.
type Handle interface {
	// Cancel prevents the callback from running. Cancelling a callback that already ran,
	// or cancelling twice, has no effect.
	Cancel()
}

// Scheduler schedules callbacks to run after a delay.
type Scheduler interface {
	// Now returns the current time of the scheduler's clock.
	Now() time.Time
	// Schedule arranges for callback to run once, after the given delay.
	Schedule(after time.Duration, callback func()) Handle
}

// NopHandle is a Handle for a callback that will never run.
type NopHandle struct{}

// Cancel does nothing.
func (NopHandle) Cancel() {}
