/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualSchedulerOrder(t *testing.T) {
	start := time.Unix(1000, 0)
	s := NewManualScheduler(start)
	fired := make([]string, 0)
	var firedAt []time.Duration

	s.Schedule(30*time.Millisecond, func() {
		fired = append(fired, "c")
		firedAt = append(firedAt, s.Now().Sub(start))
	})
	s.Schedule(10*time.Millisecond, func() {
		fired = append(fired, "a")
		firedAt = append(firedAt, s.Now().Sub(start))
	})
	s.Schedule(20*time.Millisecond, func() {
		fired = append(fired, "b")
		firedAt = append(firedAt, s.Now().Sub(start))
	})

	s.Advance(15 * time.Millisecond)
	assert.Equal(t, []string{"a"}, fired)
	assert.Equal(t, 15*time.Millisecond, s.Now().Sub(start))

	s.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond}, firedAt)
	assert.Equal(t, 0, s.Pending())
}

func TestManualSchedulerCancel(t *testing.T) {
	s := NewManualScheduler(time.Unix(0, 0))
	count := 0
	h := s.Schedule(10*time.Millisecond, func() { count++ })
	s.Schedule(10*time.Millisecond, func() { count += 10 })
	assert.Equal(t, 2, s.Pending())

	h.Cancel()
	assert.Equal(t, 1, s.Pending())
	s.Advance(time.Second)
	assert.Equal(t, 10, count)

	// Cancelling after the callback ran is harmless
	h.Cancel()
	assert.Equal(t, 0, s.Pending())
}

func TestManualSchedulerNestedSchedule(t *testing.T) {
	s := NewManualScheduler(time.Unix(0, 0))
	count := 0
	s.Schedule(10*time.Millisecond, func() {
		count++
		s.Schedule(10*time.Millisecond, func() { count++ })
	})
	s.Advance(25 * time.Millisecond)
	assert.Equal(t, 2, count)
}
