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

type lfuNode struct {
	ref     EntryRef
	freq    int
	element *list.Element
}

// CsLFU is a least frequently used (LFU) replacement policy for the Content Store.
// Entries with the same use count are evicted in insertion order.
type CsLFU struct {
	csPolicyBase
	nodes   map[EntryRef]*lfuNode
	buckets map[int]*list.List
	minFreq int
}

// NewCsLFU creates a new LFU replacement policy for the Content Store.
func NewCsLFU() *CsLFU {
	l := new(CsLFU)
	l.limit = CsUnlimited
	l.nodes = make(map[EntryRef]*lfuNode)
	l.buckets = make(map[int]*list.List)
	return l
}

func (l *CsLFU) String() string {
	return "lfu"
}

// SetLimit sets the maximum number of entries and evicts down to it.
func (l *CsLFU) SetLimit(limit int) {
	l.limit = limit
	l.evictEntries()
}

// AfterInsert is called after a new entry is inserted into the Content Store.
func (l *CsLFU) AfterInsert(entry *CsEntry) {
	ref := entry.Ref()
	if _, ok := l.nodes[ref]; ok {
		return
	}
	node := &lfuNode{ref: ref, freq: 1}
	node.element = l.bucket(1).PushBack(node)
	l.nodes[ref] = node
	l.minFreq = 1
	l.evictEntries()
}

// AfterRefresh is called after a new data packet refreshes an existing entry in the Content Store.
func (l *CsLFU) AfterRefresh(entry *CsEntry) {
	l.touch(entry.Ref())
}

// BeforeErase is called before an entry is erased from the Content Store through management.
func (l *CsLFU) BeforeErase(entry *CsEntry) {
	if node, ok := l.nodes[entry.Ref()]; ok {
		l.detach(node)
	}
}

// BeforeUse is called before an entry in the Content Store is used to satisfy a pending Interest.
func (l *CsLFU) BeforeUse(entry *CsEntry) {
	l.touch(entry.Ref())
}

// EvictEntry evicts the oldest of the least frequently used entries.
func (l *CsLFU) EvictEntry() bool {
	for len(l.nodes) > 0 {
		bucket, ok := l.buckets[l.minFreq]
		if !ok {
			l.recomputeMinFreq()
			continue
		}
		node := bucket.Front().Value.(*lfuNode)
		l.detach(node)
		if l.evict(node.ref) {
			return true
		}
	}
	return false
}

func (l *CsLFU) bucket(freq int) *list.List {
	bucket, ok := l.buckets[freq]
	if !ok {
		bucket = list.New()
		l.buckets[freq] = bucket
	}
	return bucket
}

func (l *CsLFU) touch(ref EntryRef) {
	node, ok := l.nodes[ref]
	if !ok {
		return
	}
	old := node.freq
	l.removeFromBucket(node)
	if old == l.minFreq {
		if _, ok := l.buckets[old]; !ok {
			l.minFreq = old + 1
		}
	}
	node.freq++
	node.element = l.bucket(node.freq).PushBack(node)
}

func (l *CsLFU) detach(node *lfuNode) {
	l.removeFromBucket(node)
	delete(l.nodes, node.ref)
}

// removeFromBucket drops empty buckets. minFreq may then point to a missing bucket until the
// next eviction recomputes it.
func (l *CsLFU) removeFromBucket(node *lfuNode) {
	bucket := l.buckets[node.freq]
	bucket.Remove(node.element)
	if bucket.Len() == 0 {
		delete(l.buckets, node.freq)
	}
}

func (l *CsLFU) recomputeMinFreq() {
	first := true
	for freq := range l.buckets {
		if first || freq < l.minFreq {
			l.minFreq = freq
			first = false
		}
	}
}

func (l *CsLFU) evictEntries() {
	evictDown(func() int { return len(l.nodes) }, l.limit, l.EvictEntry)
}
