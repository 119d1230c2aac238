/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sched

import (
	"time"

	"github.com/named-data/ndncs/utils/priority_queue"
)

// ManualScheduler is a Scheduler driven by a virtual clock. Callbacks run synchronously
// inside Advance. It is not safe for concurrent use.
type ManualScheduler struct {
	now     time.Time
	pending priority_queue.Queue[*manualHandle, int64]
}

type manualHandle struct {
	callback  func()
	cancelled bool
}

// NewManualScheduler creates a ManualScheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{
		now:     start,
		pending: priority_queue.New[*manualHandle, int64](),
	}
}

// Now returns the virtual time.
func (s *ManualScheduler) Now() time.Time {
	return s.now
}

// Schedule arranges for callback to run once the clock has advanced by after.
func (s *ManualScheduler) Schedule(after time.Duration, callback func()) Handle {
	h := &manualHandle{callback: callback}
	s.pending.Push(h, s.now.Add(after).UnixNano())
	return h
}

// Advance moves the clock forward by d, running every callback that becomes due,
// in order of due time.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for s.pending.Len() > 0 && s.pending.PeekPriority() <= target.UnixNano() {
		due := s.pending.PeekPriority()
		h := s.pending.Pop()
		if due > s.now.UnixNano() {
			s.now = time.Unix(0, due)
		}
		if !h.cancelled {
			h.cancelled = true
			h.callback()
		}
	}
	s.now = target
}

// Pending returns the number of callbacks that have neither run nor been cancelled.
func (s *ManualScheduler) Pending() int {
	// Cancelled handles are dropped from the queue while counting
	n := 0
	kept := priority_queue.New[*manualHandle, int64]()
	for s.pending.Len() > 0 {
		due := s.pending.PeekPriority()
		h := s.pending.Pop()
		if !h.cancelled {
			n++
			kept.Push(h, due)
		}
	}
	s.pending = kept
	return n
}

func (h *manualHandle) Cancel() {
	h.cancelled = true
}
