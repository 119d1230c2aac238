/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"github.com/named-data/ndncs/core"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// CsReplacementPolicy represents a cache replacement policy for the Content Store.
//
// Policies track entries by EntryRef only. When the number of tracked entries exceeds the
// limit, the policy evicts through the CsEvictor it was given.
type CsReplacementPolicy interface {
	String() string

	// SetEvictor attaches the policy to the Content Store it evicts from.
	SetEvictor(evictor CsEvictor)

	// SetLimit sets the maximum number of entries and evicts down to it.
	SetLimit(limit int)
	Limit() int

	// AfterInsert is called after a new entry is inserted into the Content Store.
	AfterInsert(entry *CsEntry)

	// AfterRefresh is called after a new data packet refreshes an existing entry in the Content Store.
	AfterRefresh(entry *CsEntry)

	// BeforeErase is called before an entry is erased from the Content Store through management.
	BeforeErase(entry *CsEntry)

	// BeforeUse is called before an entry in the Content Store is used to satisfy a pending Interest.
	BeforeUse(entry *CsEntry)

	// EvictEntry evicts the least valuable entry, returning whether one was evicted.
	EvictEntry() bool
}

// CsEvictor is the back channel from a replacement policy to its Content Store.
type CsEvictor interface {
	evictFromPolicy(ref EntryRef) bool
}

// CsStaleObserver is implemented by policies that care about entries becoming stale.
type CsStaleObserver interface {
	AfterStale(entry *CsEntry)
}

var csReplacementPolicies = map[string]func() CsReplacementPolicy{
	"lru":           func() CsReplacementPolicy { return NewCsLRU() },
	"lfu":           func() CsReplacementPolicy { return NewCsLFU() },
	"priority_fifo": func() CsReplacementPolicy { return NewCsPriorityFifo() },
	"random":        func() CsReplacementPolicy { return NewCsRandom() },
}

// NewCsReplacementPolicy creates the replacement policy with the given name.
func NewCsReplacementPolicy(name string) (CsReplacementPolicy, error) {
	create, ok := csReplacementPolicies[name]
	if !ok {
		return nil, core.ErrCsUnknownPolicy
	}
	return create(), nil
}

// CsReplacementPolicyNames returns the names of the available replacement policies, sorted.
func CsReplacementPolicyNames() []string {
	names := maps.Keys(csReplacementPolicies)
	slices.Sort(names)
	return names
}

// csPolicyBase holds the state shared by all replacement policies.
type csPolicyBase struct {
	evictor CsEvictor
	limit   int
}

func (p *csPolicyBase) SetEvictor(evictor CsEvictor) {
	p.evictor = evictor
}

func (p *csPolicyBase) Limit() int {
	return p.limit
}

func (p *csPolicyBase) evict(ref EntryRef) bool {
	if p.evictor == nil {
		return false
	}
	return p.evictor.evictFromPolicy(ref)
}

// evictDown evicts through evictEntry until at most limit entries are tracked.
func evictDown(tracked func() int, limit int, evictEntry func() bool) {
	for tracked() > limit {
		if !evictEntry() {
			return
		}
	}
}
