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

type priorityFifoQueue int

const (
	priorityFifoUnsolicited priorityFifoQueue = iota
	priorityFifoStale
	priorityFifoFresh
	priorityFifoQueueCount
)

type priorityFifoLocation struct {
	queue   priorityFifoQueue
	element *list.Element
}

// CsPriorityFifo evicts unsolicited entries first, then stale entries, then fresh entries,
// each in insertion order.
type CsPriorityFifo struct {
	csPolicyBase
	queues    [priorityFifoQueueCount]*list.List
	locations map[EntryRef]priorityFifoLocation
}

// NewCsPriorityFifo creates a new priority FIFO replacement policy for the Content Store.
func NewCsPriorityFifo() *CsPriorityFifo {
	p := new(CsPriorityFifo)
	p.limit = CsUnlimited
	for i := range p.queues {
		p.queues[i] = list.New()
	}
	p.locations = make(map[EntryRef]priorityFifoLocation)
	return p
}

func (p *CsPriorityFifo) String() string {
	return "priority_fifo"
}

// SetLimit sets the maximum number of entries and evicts down to it.
func (p *CsPriorityFifo) SetLimit(limit int) {
	p.limit = limit
	p.evictEntries()
}

// AfterInsert is called after a new entry is inserted into the Content Store.
func (p *CsPriorityFifo) AfterInsert(entry *CsEntry) {
	p.detach(entry.Ref())
	p.attach(entry)
	p.evictEntries()
}

// AfterRefresh is called after a new data packet refreshes an existing entry in the Content Store.
func (p *CsPriorityFifo) AfterRefresh(entry *CsEntry) {
	p.detach(entry.Ref())
	p.attach(entry)
}

// BeforeErase is called before an entry is erased from the Content Store through management.
func (p *CsPriorityFifo) BeforeErase(entry *CsEntry) {
	p.detach(entry.Ref())
}

// BeforeUse does not change the eviction order.
func (p *CsPriorityFifo) BeforeUse(entry *CsEntry) {
}

// AfterStale moves a fresh entry to the stale queue.
func (p *CsPriorityFifo) AfterStale(entry *CsEntry) {
	location, ok := p.locations[entry.Ref()]
	if !ok || location.queue != priorityFifoFresh {
		return
	}
	p.detach(entry.Ref())
	p.attach(entry)
}

// EvictEntry evicts the front of the first non-empty queue.
func (p *CsPriorityFifo) EvictEntry() bool {
	for _, queue := range p.queues {
		for front := queue.Front(); front != nil; front = queue.Front() {
			ref := queue.Remove(front).(EntryRef)
			delete(p.locations, ref)
			if p.evict(ref) {
				return true
			}
		}
	}
	return false
}

func (p *CsPriorityFifo) attach(entry *CsEntry) {
	queue := priorityFifoFresh
	if entry.IsUnsolicited() {
		queue = priorityFifoUnsolicited
	} else if !entry.IsFresh() {
		queue = priorityFifoStale
	}
	p.locations[entry.Ref()] = priorityFifoLocation{
		queue:   queue,
		element: p.queues[queue].PushBack(entry.Ref()),
	}
}

func (p *CsPriorityFifo) detach(ref EntryRef) {
	if location, ok := p.locations[ref]; ok {
		p.queues[location.queue].Remove(location.element)
		delete(p.locations, ref)
	}
}

func (p *CsPriorityFifo) evictEntries() {
	evictDown(func() int { return len(p.locations) }, p.limit, p.EvictEntry)
}
