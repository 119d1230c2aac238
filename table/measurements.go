/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"github.com/cornelk/hashmap"
)

// Measurements is a lock-free table of values written by forwarding threads and read by
// management and other goroutines.
type Measurements struct {
	table hashmap.HashMap
}

// NewMeasurements creates an empty measurements table.
func NewMeasurements() *Measurements {
	return new(Measurements)
}

// Get returns the measurement table value at the specified key or nil if it does not exist.
func (m *Measurements) Get(key string) interface{} {
	value, isOk := m.table.GetStringKey(key)
	if !isOk {
		return nil
	}
	return value
}

// GetInt returns the integer at the specified key, or 0.
func (m *Measurements) GetInt(key string) int {
	value, ok := m.Get(key).(int)
	if !ok {
		return 0
	}
	return value
}

// GetFloat returns the float at the specified key, or 0.
func (m *Measurements) GetFloat(key string) float64 {
	value, ok := m.Get(key).(float64)
	if !ok {
		return 0
	}
	return value
}

// Store unconditionally sets the value of the specified key.
func (m *Measurements) Store(key string, value interface{}) {
	m.table.Set(key, value)
}

// CompareAndSwap atomically sets the value of the specified measurement table key only if it is equal to the expected value, returning whether the operation was successful.
func (m *Measurements) CompareAndSwap(key string, expected interface{}, value interface{}) bool {
	return m.table.Cas(key, expected, value)
}

// AddToInt adds the specified value to the given measurement key, setting as value if unitialized.
func (m *Measurements) AddToInt(key string, value int) {
	wasSet := false
	for !wasSet {
		expected := m.Get(key)
		if expected != nil {
			wasSet = m.CompareAndSwap(key, expected, expected.(int)+value)
		} else {
			_, loaded := m.table.GetOrInsert(key, value)
			wasSet = !loaded
		}
	}
}

// AddSampleToEWMA adds a sample to an exponentially weighted moving average.
func (m *Measurements) AddSampleToEWMA(key string, sample float64, alpha float64) {
	wasSet := false
	for !wasSet {
		expected := m.Get(key)
		if expected != nil {
			average := expected.(float64)
			wasSet = m.CompareAndSwap(key, expected, average+alpha*(sample-average))
		} else {
			_, loaded := m.table.GetOrInsert(key, sample)
			wasSet = !loaded
		}
	}
}
