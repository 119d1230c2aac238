/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"fmt"
	"math"

	"github.com/named-data/ndncs/utils/comparison"
)

// CsUnlimited is the capacity limit of a Content Store without an upper bound.
const CsUnlimited = math.MaxInt

// csPool owns the storage of CS entries. Slots are addressed by index and recycled through a
// free stack. Every release bumps the slot's generation, so stale EntryRefs never resolve.
type csPool struct {
	slots       []*CsEntry // nil for indices whose storage was dropped by a shrink
	generations []uint32   // never truncated
	free        []uint32
	vacant      []uint32
	nResident   int

	capacity        int
	initialCapacity int
	limit           int
}

func newCsPool(initialCapacity int, limit int) *csPool {
	p := &csPool{
		initialCapacity: initialCapacity,
		limit:           limit,
	}
	p.resize(p.minCapacity())
	return p
}

// Size returns the number of resident entries.
func (p *csPool) Size() int {
	return p.nResident
}

// FreeSize returns the number of slots available without growing.
func (p *csPool) FreeSize() int {
	return len(p.free)
}

// Capacity returns the number of allocated slots.
func (p *csPool) Capacity() int {
	return p.capacity
}

// Limit returns the upper bound of the capacity.
func (p *csPool) Limit() int {
	return p.limit
}

func (p *csPool) minCapacity() int {
	return comparison.Min(p.initialCapacity, p.limit)
}

// IsFull returns whether every allocated slot is resident.
func (p *csPool) IsFull() bool {
	return len(p.free) == 0
}

// CanGrow returns whether the capacity is below the limit.
func (p *csPool) CanGrow() bool {
	return p.capacity < p.limit
}

// grow doubles the capacity, up to the limit, and returns the new capacity.
func (p *csPool) grow() int {
	newCapacity := p.limit
	if p.capacity <= p.limit/2 {
		newCapacity = comparison.Max(2*p.capacity, 1)
	}
	p.resize(newCapacity)
	return p.capacity
}

// resize allocates or drops free slots until the capacity equals capacity. It cannot drop
// resident entries: the caller must evict first.
func (p *csPool) resize(capacity int) {
	if capacity < p.nResident || capacity > p.limit {
		panic(fmt.Sprintf("table: cannot resize CS pool to %d (resident=%d, limit=%d)", capacity, p.nResident, p.limit))
	}
	for p.capacity < capacity {
		var index uint32
		if n := len(p.vacant); n > 0 {
			index = p.vacant[n-1]
			p.vacant = p.vacant[:n-1]
		} else {
			index = uint32(len(p.slots))
			p.slots = append(p.slots, nil)
			p.generations = append(p.generations, 1)
		}
		p.slots[index] = new(CsEntry)
		p.free = append(p.free, index)
		p.capacity++
	}
	for p.capacity > capacity {
		n := len(p.free)
		index := p.free[n-1]
		p.free = p.free[:n-1]
		p.slots[index] = nil
		p.vacant = append(p.vacant, index)
		p.capacity--
	}
}

// setLimit changes the limit and moves the capacity into [min(initial, limit), limit].
// The caller must ensure no more than limit entries are resident.
func (p *csPool) setLimit(limit int) {
	if p.nResident > limit {
		panic(fmt.Sprintf("table: CS pool limit %d below resident count %d", limit, p.nResident))
	}
	if limit < p.capacity {
		p.resize(limit)
	}
	p.limit = limit
	p.resize(comparison.Clamp(p.capacity, p.minCapacity(), p.limit))
}

// acquire takes a slot from the free stack. The pool must not be full.
func (p *csPool) acquire() *CsEntry {
	n := len(p.free)
	if n == 0 {
		panic("table: acquire from a full CS pool")
	}
	index := p.free[n-1]
	p.free = p.free[:n-1]
	entry := p.slots[index]
	entry.ref = EntryRef{index: index, generation: p.generations[index]}
	p.nResident++
	return entry
}

// release cancels the entry's staleness event, clears it and returns its slot to the free stack.
func (p *csPool) release(entry *CsEntry) {
	ref := entry.ref
	if resident, ok := p.get(ref); !ok || resident != entry {
		panic("table: release of an entry not owned by the CS pool")
	}
	entry.reset()
	p.generations[ref.index]++
	if p.generations[ref.index] == 0 {
		p.generations[ref.index] = 1
	}
	p.free = append(p.free, ref.index)
	p.nResident--
}

// get resolves ref to its entry if the slot is still in the same residency.
func (p *csPool) get(ref EntryRef) (*CsEntry, bool) {
	if ref.IsZero() || int(ref.index) >= len(p.slots) {
		return nil, false
	}
	entry := p.slots[ref.index]
	if entry == nil || entry.ref != ref {
		return nil, false
	}
	return entry, true
}

// shrinkTarget returns the capacity the pool should shrink to, or the current capacity if
// free slots do not outnumber twice the resident entries.
func (p *csPool) shrinkTarget() int {
	if len(p.free) <= 2*p.nResident {
		return p.capacity
	}
	return comparison.Max(p.capacity/2, p.minCapacity())
}

// checkInvariants panics if the pool accounting is inconsistent with itself or the index.
func (p *csPool) checkInvariants(nIndexed int) {
	switch {
	case p.nResident+len(p.free) != p.capacity:
		panic(fmt.Sprintf("table: CS pool resident=%d free=%d capacity=%d", p.nResident, len(p.free), p.capacity))
	case p.capacity > p.limit:
		panic(fmt.Sprintf("table: CS pool capacity=%d exceeds limit=%d", p.capacity, p.limit))
	case p.nResident != nIndexed:
		panic(fmt.Sprintf("table: CS pool resident=%d but index holds %d", p.nResident, nIndexed))
	}
}
