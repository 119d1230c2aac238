/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"bytes"
	"strconv"
	"time"

	"github.com/named-data/ndncs/ndn"
	"github.com/named-data/ndncs/sched"
)

// EntryRef identifies a Content Store slot for the duration of one residency.
// The zero EntryRef never refers to an entry.
type EntryRef struct {
	index      uint32
	generation uint32
}

// IsZero returns whether the reference is the zero EntryRef.
func (r EntryRef) IsZero() bool {
	return r.generation == 0
}

func (r EntryRef) String() string {
	return "#" + strconv.FormatUint(uint64(r.index), 10) + "/" + strconv.FormatUint(uint64(r.generation), 10)
}

// CsEntry is an entry in a thread's CS.
//
// An entry is either a query probe, which only carries a hash and is used to search the
// index, or a resident entry holding Data. Probes are never inserted into the index.
type CsEntry struct {
	ref  EntryRef
	hash []byte
	data *ndn.Data

	unsolicited bool
	fresh       bool
	staleTime   time.Time
	staleEvent  sched.Handle
}

func newCsQuery(hash []byte) *CsEntry {
	return &CsEntry{hash: hash}
}

// IsQuery returns whether the entry is a query probe.
func (e *CsEntry) IsQuery() bool {
	return e.data == nil
}

// Ref returns the slot reference of a resident entry.
func (e *CsEntry) Ref() EntryRef {
	return e.ref
}

// Hash returns the content hash of the entry.
func (e *CsEntry) Hash() []byte {
	return e.hash
}

// Data returns the cached Data, or nil for a query probe.
func (e *CsEntry) Data() *ndn.Data {
	return e.data
}

// IsUnsolicited returns whether the Data was admitted without a matching pending Interest.
func (e *CsEntry) IsUnsolicited() bool {
	return e.unsolicited
}

// IsFresh returns whether the Data is still within its freshness period.
func (e *CsEntry) IsFresh() bool {
	return e.fresh
}

// StaleTime returns the time at which the entry becomes (or became) stale.
func (e *CsEntry) StaleTime() time.Time {
	return e.staleTime
}

// UnsetUnsolicited marks the entry as solicited. It cannot be marked unsolicited again.
func (e *CsEntry) UnsetUnsolicited() {
	if e.IsQuery() {
		panic("table: UnsetUnsolicited called on a query entry")
	}
	e.unsolicited = false
}

func (e *CsEntry) setData(data *ndn.Data, isUnsolicited bool) {
	e.hash = data.Hash()
	e.data = data
	e.unsolicited = isUnsolicited
}

// reset drops the payload and all per-residency state. The slot reference is kept by the pool.
func (e *CsEntry) reset() {
	if e.staleEvent != nil {
		e.staleEvent.Cancel()
	}
	*e = CsEntry{}
}

func (e *CsEntry) String() string {
	str := "CsEntry(" + ndn.HashString(e.hash)
	if e.IsQuery() {
		return str + ", query)"
	}
	str += ", ref=" + e.ref.String()
	if e.unsolicited {
		str += ", unsolicited"
	}
	if e.fresh {
		str += ", fresh"
	}
	return str + ")"
}

// compareCsEntries orders entries by the bytes of their hash, whether they are probes or not.
func compareCsEntries(a, b *CsEntry) int {
	return bytes.Compare(a.hash, b.hash)
}

func lessCsEntries(a, b *CsEntry) bool {
	return compareCsEntries(a, b) < 0
}
