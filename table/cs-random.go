/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"math/rand"
	"time"
)

// CsRandom evicts a uniformly chosen entry.
type CsRandom struct {
	csPolicyBase
	refs      []EntryRef
	positions map[EntryRef]int
	rng       *rand.Rand
}

// NewCsRandom creates a new random replacement policy for the Content Store.
func NewCsRandom() *CsRandom {
	return NewCsRandomWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewCsRandomWithSource creates a random replacement policy drawing victims from source.
func NewCsRandomWithSource(source rand.Source) *CsRandom {
	r := new(CsRandom)
	r.limit = CsUnlimited
	r.positions = make(map[EntryRef]int)
	r.rng = rand.New(source)
	return r
}

func (r *CsRandom) String() string {
	return "random"
}

// SetLimit sets the maximum number of entries and evicts down to it.
func (r *CsRandom) SetLimit(limit int) {
	r.limit = limit
	r.evictEntries()
}

// AfterInsert is called after a new entry is inserted into the Content Store.
func (r *CsRandom) AfterInsert(entry *CsEntry) {
	if _, ok := r.positions[entry.Ref()]; ok {
		return
	}
	r.positions[entry.Ref()] = len(r.refs)
	r.refs = append(r.refs, entry.Ref())
	r.evictEntries()
}

// AfterRefresh does not change the eviction order.
func (r *CsRandom) AfterRefresh(entry *CsEntry) {
}

// BeforeErase is called before an entry is erased from the Content Store through management.
func (r *CsRandom) BeforeErase(entry *CsEntry) {
	r.remove(entry.Ref())
}

// BeforeUse does not change the eviction order.
func (r *CsRandom) BeforeUse(entry *CsEntry) {
}

// EvictEntry evicts a random entry.
func (r *CsRandom) EvictEntry() bool {
	for len(r.refs) > 0 {
		ref := r.refs[r.rng.Intn(len(r.refs))]
		r.remove(ref)
		if r.evict(ref) {
			return true
		}
	}
	return false
}

func (r *CsRandom) remove(ref EntryRef) {
	position, ok := r.positions[ref]
	if !ok {
		return
	}
	last := len(r.refs) - 1
	r.refs[position] = r.refs[last]
	r.positions[r.refs[position]] = position
	r.refs = r.refs[:last]
	delete(r.positions, ref)
}

func (r *CsRandom) evictEntries() {
	evictDown(func() int { return len(r.refs) }, r.limit, r.EvictEntry)
}
