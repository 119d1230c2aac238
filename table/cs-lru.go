/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"container/list"
)

// CsLRU is a least recently used (LRU) replacement policy for the Content Store.
type CsLRU struct {
	csPolicyBase
	queue     *list.List
	locations map[EntryRef]*list.Element
}

// NewCsLRU creates a new LRU replacement policy for the Content Store.
func NewCsLRU() *CsLRU {
	l := new(CsLRU)
	l.limit = CsUnlimited
	l.queue = list.New()
	l.locations = make(map[EntryRef]*list.Element)
	return l
}

func (l *CsLRU) String() string {
	return "lru"
}

// SetLimit sets the maximum number of entries and evicts down to it.
func (l *CsLRU) SetLimit(limit int) {
	l.limit = limit
	l.evictEntries()
}

// AfterInsert is called after a new entry is inserted into the Content Store.
func (l *CsLRU) AfterInsert(entry *CsEntry) {
	if _, ok := l.locations[entry.Ref()]; ok {
		l.touch(entry.Ref())
		return
	}
	l.locations[entry.Ref()] = l.queue.PushBack(entry.Ref())
	l.evictEntries()
}

// AfterRefresh is called after a new data packet refreshes an existing entry in the Content Store.
func (l *CsLRU) AfterRefresh(entry *CsEntry) {
	l.touch(entry.Ref())
}

// BeforeErase is called before an entry is erased from the Content Store through management.
func (l *CsLRU) BeforeErase(entry *CsEntry) {
	if location, ok := l.locations[entry.Ref()]; ok {
		l.queue.Remove(location)
		delete(l.locations, entry.Ref())
	}
}

// BeforeUse is called before an entry in the Content Store is used to satisfy a pending Interest.
func (l *CsLRU) BeforeUse(entry *CsEntry) {
	l.touch(entry.Ref())
}

// EvictEntry evicts the least recently used entry.
func (l *CsLRU) EvictEntry() bool {
	for front := l.queue.Front(); front != nil; front = l.queue.Front() {
		ref := l.queue.Remove(front).(EntryRef)
		delete(l.locations, ref)
		if l.evict(ref) {
			return true
		}
	}
	return false
}

func (l *CsLRU) touch(ref EntryRef) {
	if location, ok := l.locations[ref]; ok {
		l.queue.MoveToBack(location)
		return
	}
	l.locations[ref] = l.queue.PushBack(ref)
}

func (l *CsLRU) evictEntries() {
	evictDown(l.queue.Len, l.limit, l.EvictEntry)
}
