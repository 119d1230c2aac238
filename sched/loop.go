/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sched

import (
	"sync"
	"sync/atomic"
	"time"
)

// LoopScheduler is a Scheduler for a goroutine running a select loop.
// Timers fire on runtime goroutines, but expired callbacks are only posted to C();
// the owning goroutine must receive from C() and invoke what it gets.
type LoopScheduler struct {
	expired  chan func()
	stopped  chan struct{}
	stopOnce sync.Once
}

type loopHandle struct {
	timer     *time.Timer
	cancelled atomic.Bool
}

// NewLoopScheduler creates a LoopScheduler whose expiry queue holds up to queueSize callbacks.
func NewLoopScheduler(queueSize int) *LoopScheduler {
	return &LoopScheduler{
		expired: make(chan func(), queueSize),
		stopped: make(chan struct{}),
	}
}

// C returns the channel of expired callbacks.
func (s *LoopScheduler) C() <-chan func() {
	return s.expired
}

// Now returns the wall clock time.
func (s *LoopScheduler) Now() time.Time {
	return time.Now()
}

// Schedule arranges for callback to be posted to C() after the given delay.
func (s *LoopScheduler) Schedule(after time.Duration, callback func()) Handle {
	h := new(loopHandle)
	h.timer = time.AfterFunc(after, func() {
		if h.cancelled.Load() || s.IsStopped() {
			return
		}
		select {
		case s.expired <- func() {
			// Cancel may have been called after the timer fired but before we got here
			if !h.cancelled.Load() {
				callback()
			}
		}:
		case <-s.stopped:
		}
	})
	return h
}

// Stop releases timers that fire after the owning goroutine stopped receiving from C().
// Their callbacks are dropped.
func (s *LoopScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopped) })
}

// IsStopped returns whether Stop was called.
func (s *LoopScheduler) IsStopped() bool {
	select {
	case <-s.stopped:
		return true
	default:
		return false
	}
}

func (h *loopHandle) Cancel() {
	h.cancelled.Store(true)
	h.timer.Stop()
}
