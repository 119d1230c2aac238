/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"strconv"
	"time"

	"github.com/named-data/ndncs/core"
	"github.com/named-data/ndncs/ndn"
	"github.com/named-data/ndncs/sched"
)

// CsInsertResult is the outcome of inserting Data into the Content Store.
type CsInsertResult int

const (
	// CsRejected means the Data was not admitted.
	CsRejected CsInsertResult = iota
	// CsInserted means a new entry was created.
	CsInserted
	// CsRefreshed means an entry with the same hash was already resident and was refreshed.
	CsRefreshed
)

func (r CsInsertResult) String() string {
	switch r {
	case CsInserted:
		return "inserted"
	case CsRefreshed:
		return "refreshed"
	default:
		return "rejected"
	}
}

// Cs is the Content Store of a forwarding thread. It is not safe for concurrent use: all
// calls, including staleness callbacks, must come from the owning thread.
type Cs struct {
	threadID    int
	scheduler   sched.Scheduler
	index       *csIndex
	pool        *csPool
	policy      CsReplacementPolicy
	metrics     CsMetrics
	evictReason CsEvictReason

	shouldAdmit bool
	shouldServe bool
}

// CsOption configures a Content Store at creation.
type CsOption func(*csOptions)

type csOptions struct {
	threadID        int
	limit           int
	initialCapacity int
	policy          CsReplacementPolicy
	metrics         CsMetrics
}

// WithCsThreadID sets the forwarding thread ID used in log messages.
func WithCsThreadID(threadID int) CsOption {
	return func(o *csOptions) { o.threadID = threadID }
}

// WithCsLimit sets the capacity limit. Use CsUnlimited for no limit.
func WithCsLimit(limit int) CsOption {
	return func(o *csOptions) { o.limit = limit }
}

// WithCsInitialCapacity sets the number of slots allocated up front.
func WithCsInitialCapacity(initialCapacity int) CsOption {
	return func(o *csOptions) { o.initialCapacity = initialCapacity }
}

// WithCsPolicy sets the replacement policy.
func WithCsPolicy(policy CsReplacementPolicy) CsOption {
	return func(o *csOptions) { o.policy = policy }
}

// WithCsMetrics sets the metrics sink.
func WithCsMetrics(metrics CsMetrics) CsOption {
	return func(o *csOptions) { o.metrics = metrics }
}

// NewCs creates a Content Store using scheduler for staleness timers. Options not given
// fall back to the configured defaults. If scheduler is nil, Data with a freshness period
// stays fresh.
func NewCs(scheduler sched.Scheduler, options ...CsOption) *Cs {
	o := csOptions{
		limit:           csCapacity,
		initialCapacity: csInitialCapacity,
		metrics:         NoopCsMetrics{},
	}
	for _, option := range options {
		option(&o)
	}
	if o.policy == nil {
		policy, err := NewCsReplacementPolicy(csReplacementPolicy)
		if err != nil {
			core.LogFatal("ContentStore", "Unable to create replacement policy ", csReplacementPolicy, ": ", err)
		}
		o.policy = policy
	}
	if o.limit < 0 {
		o.limit = CsUnlimited
	}

	c := &Cs{
		threadID:    o.threadID,
		scheduler:   scheduler,
		index:       newCsIndex(),
		pool:        newCsPool(o.initialCapacity, o.limit),
		policy:      o.policy,
		metrics:     o.metrics,
		shouldAdmit: csAdmit,
		shouldServe: csServe,
	}
	c.policy.SetEvictor(c)
	c.policy.SetLimit(o.limit)
	c.reportSize()
	return c
}

func (c *Cs) String() string {
	return "ContentStore-" + strconv.Itoa(c.threadID)
}

// Insert admits data into the Content Store.
func (c *Cs) Insert(data *ndn.Data, isUnsolicited bool) (CsInsertResult, error) {
	result, err := c.insert(data, isUnsolicited)
	c.metrics.Insert(result)
	c.reportSize()
	return result, err
}

func (c *Cs) insert(data *ndn.Data, isUnsolicited bool) (CsInsertResult, error) {
	if !c.shouldAdmit || c.pool.Limit() == 0 {
		core.LogTrace(c, "Not admitting ", data, ": admission disabled")
		return CsRejected, nil
	}
	if data.IsNoCache() {
		core.LogTrace(c, "Not admitting ", data, ": CachePolicy=NoCache")
		return CsRejected, nil
	}

	if entry := c.index.Find(data.Hash()); entry != nil {
		if entry.IsUnsolicited() && !isUnsolicited {
			entry.UnsetUnsolicited()
		}
		c.armStaleness(entry, data)
		c.policy.AfterRefresh(entry)
		core.LogTrace(c, "Refreshed ", entry)
		return CsRefreshed, nil
	}

	entry, err := c.acquire()
	if err != nil {
		core.LogWarn(c, "Unable to admit ", data, ": ", err)
		return CsRejected, err
	}
	entry.setData(data, isUnsolicited)
	c.index.Insert(entry)
	c.armStaleness(entry, data)
	ref := entry.Ref()
	core.LogTrace(c, "Inserted ", entry)
	c.evictReason = CsEvictPolicy
	c.policy.AfterInsert(entry)
	c.pool.checkInvariants(c.index.Len())

	if _, ok := c.pool.get(ref); !ok {
		core.LogTrace(c, "Replacement policy evicted ", data, " on insertion")
		return CsRejected, nil
	}
	return CsInserted, nil
}

// acquire takes a free slot, growing the pool or evicting one entry when full.
func (c *Cs) acquire() (*CsEntry, error) {
	if c.pool.IsFull() {
		if c.pool.CanGrow() {
			oldCapacity := c.pool.Capacity()
			newCapacity := c.pool.grow()
			core.LogDebug(c, "Grew capacity from ", oldCapacity, " to ", newCapacity)
			c.pool.checkInvariants(c.index.Len())
		} else {
			c.evictReason = CsEvictPolicy
			if !c.policy.EvictEntry() || c.pool.IsFull() {
				return nil, core.ErrCsCapacityExceeded
			}
		}
	}
	return c.pool.acquire(), nil
}

func (c *Cs) armStaleness(entry *CsEntry, data *ndn.Data) {
	if entry.staleEvent != nil {
		entry.staleEvent.Cancel()
		entry.staleEvent = nil
	}

	now := time.Now()
	if c.scheduler != nil {
		now = c.scheduler.Now()
	}
	freshnessPeriod := data.FreshnessPeriod()
	if freshnessPeriod == nil || *freshnessPeriod <= 0 {
		entry.fresh = false
		entry.staleTime = now
		return
	}

	entry.fresh = true
	entry.staleTime = now.Add(*freshnessPeriod)
	if c.scheduler != nil {
		ref := entry.Ref()
		entry.staleEvent = c.scheduler.Schedule(*freshnessPeriod, func() { c.markStale(ref) })
	}
}

// markStale runs from the scheduler. The slot may have been released or reused since the
// timer was armed, in which case nothing happens.
func (c *Cs) markStale(ref EntryRef) {
	entry, ok := c.pool.get(ref)
	if !ok {
		return
	}
	entry.fresh = false
	entry.staleEvent = nil
	core.LogTrace(c, "Stale ", entry)
	if observer, ok := c.policy.(CsStaleObserver); ok {
		observer.AfterStale(entry)
	}
}

// Find looks up the Data matching interest and calls onHit or onMiss before returning.
func (c *Cs) Find(interest *ndn.Interest, onHit func(*ndn.Interest, *ndn.Data), onMiss func(*ndn.Interest)) {
	if data, ok := c.Lookup(interest); ok {
		onHit(interest, data)
	} else {
		onMiss(interest)
	}
}

// Lookup returns the Data matching interest, if any.
func (c *Cs) Lookup(interest *ndn.Interest) (*ndn.Data, bool) {
	if !c.shouldServe || c.pool.Limit() == 0 {
		c.metrics.Miss()
		return nil, false
	}

	entry := c.index.Find(interest.Hash())
	if entry == nil {
		core.LogTrace(c, "No match for ", interest)
		c.metrics.Miss()
		return nil, false
	}
	if interest.MustBeFresh() && !entry.IsFresh() {
		core.LogTrace(c, "Match for ", interest, " is stale")
		c.metrics.Miss()
		return nil, false
	}

	c.policy.BeforeUse(entry)
	core.LogTrace(c, "Matching ", entry, " for ", interest)
	c.metrics.Hit()
	return entry.Data(), true
}

// Erase removes up to limit entries whose hash starts with prefix, then calls onDone with the
// number removed. An empty prefix matches all entries. A negative limit means no limit.
func (c *Cs) Erase(prefix []byte, limit int, onDone func(nErased int)) {
	var victims []*CsEntry
	c.index.AscendPrefix(prefix, func(entry *CsEntry) bool {
		if limit >= 0 && len(victims) >= limit {
			return false
		}
		victims = append(victims, entry)
		return true
	})

	for _, entry := range victims {
		c.policy.BeforeErase(entry)
		c.index.Erase(entry)
		c.pool.release(entry)
		c.metrics.Evict(CsEvictErase)
	}
	c.pool.checkInvariants(c.index.Len())
	c.maybeShrink()
	c.reportSize()

	core.LogDebug(c, "Erased ", len(victims), " entries with prefix ", ndn.HashString(prefix))
	if onDone != nil {
		onDone(len(victims))
	}
}

func (c *Cs) maybeShrink() {
	if target := c.pool.shrinkTarget(); target < c.pool.Capacity() {
		oldCapacity := c.pool.Capacity()
		if err := c.setCapacity(target); err != nil {
			core.LogWarn(c, "Unable to shrink: ", err)
			return
		}
		core.LogDebug(c, "Shrank capacity from ", oldCapacity, " to ", c.pool.Capacity())
	}
}

// setCapacity evicts through the policy, at most as many entries as there are in excess, and
// resizes the pool. On failure the capacity is unchanged.
func (c *Cs) setCapacity(capacity int) error {
	if err := c.evictDownTo(capacity, CsEvictLimit); err != nil {
		return err
	}
	c.pool.resize(capacity)
	c.pool.checkInvariants(c.index.Len())
	return nil
}

func (c *Cs) evictDownTo(size int, reason CsEvictReason) error {
	c.evictReason = reason
	for deficit := c.pool.Size() - size; deficit > 0; deficit-- {
		if !c.policy.EvictEntry() {
			break
		}
	}
	if c.pool.Size() > size {
		return core.ErrCsCapacityExceeded
	}
	return nil
}

// evictFromPolicy is called by the replacement policy to remove an entry.
func (c *Cs) evictFromPolicy(ref EntryRef) bool {
	entry, ok := c.pool.get(ref)
	if !ok {
		return false
	}
	core.LogTrace(c, "Evicting ", entry)
	c.index.Erase(entry)
	c.pool.release(entry)
	c.metrics.Evict(c.evictReason)
	return true
}

// EnableAdmit sets whether Data is admitted.
func (c *Cs) EnableAdmit(shouldAdmit bool) {
	if c.shouldAdmit == shouldAdmit {
		return
	}
	c.shouldAdmit = shouldAdmit
	if shouldAdmit {
		core.LogInfo(c, "Enabling admission")
	} else {
		core.LogInfo(c, "Disabling admission")
	}
}

// IsAdmitting returns whether Data is admitted.
func (c *Cs) IsAdmitting() bool {
	return c.shouldAdmit
}

// EnableServe sets whether lookups can hit.
func (c *Cs) EnableServe(shouldServe bool) {
	if c.shouldServe == shouldServe {
		return
	}
	c.shouldServe = shouldServe
	if shouldServe {
		core.LogInfo(c, "Enabling serving")
	} else {
		core.LogInfo(c, "Disabling serving")
	}
}

// IsServing returns whether lookups can hit.
func (c *Cs) IsServing() bool {
	return c.shouldServe
}

// Policy returns the replacement policy.
func (c *Cs) Policy() CsReplacementPolicy {
	return c.policy
}

// SetPolicy replaces the replacement policy. The new policy keeps the current limit and
// is told about every resident entry in hash order.
func (c *Cs) SetPolicy(policy CsReplacementPolicy) {
	if policy == c.policy {
		return
	}
	limit := c.policy.Limit()
	c.policy.SetEvictor(nil)
	policy.SetEvictor(c)
	policy.SetLimit(limit)
	c.policy = policy

	var entries []*CsEntry
	c.index.Ascend(func(entry *CsEntry) bool {
		entries = append(entries, entry)
		return true
	})
	c.evictReason = CsEvictPolicy
	for _, entry := range entries {
		if resident, ok := c.pool.get(entry.Ref()); ok {
			policy.AfterInsert(resident)
		}
	}
	c.pool.checkInvariants(c.index.Len())
	c.reportSize()
	core.LogInfo(c, "Set replacement policy to ", policy)
}

// SetLimit sets the maximum number of entries, evicting if needed. Use CsUnlimited for no
// limit. If the policy cannot evict enough entries, ErrCsCapacityExceeded is returned and
// the limit and capacity are unchanged, but entries already evicted are not restored.
func (c *Cs) SetLimit(limit int) error {
	if limit < 0 {
		return core.ErrCsInvalidLimit
	}
	oldLimit := c.policy.Limit()
	c.evictReason = CsEvictLimit
	c.policy.SetLimit(limit)
	if err := c.evictDownTo(limit, CsEvictLimit); err != nil {
		c.policy.SetLimit(oldLimit)
		core.LogWarn(c, "Unable to set limit to ", limit, ": ", err)
		c.reportSize()
		return err
	}
	c.pool.setLimit(limit)
	c.pool.checkInvariants(c.index.Len())
	c.reportSize()
	core.LogInfo(c, "Set limit to ", limit, ", capacity is ", c.pool.Capacity())
	return nil
}

// Limit returns the maximum number of entries.
func (c *Cs) Limit() int {
	return c.pool.Limit()
}

// Capacity returns the number of allocated slots.
func (c *Cs) Capacity() int {
	return c.pool.Capacity()
}

// Size returns the number of resident entries.
func (c *Cs) Size() int {
	return c.pool.Size()
}

// FreeSize returns the number of free slots.
func (c *Cs) FreeSize() int {
	return c.pool.FreeSize()
}

// Entry returns the resident entry with the given hash without affecting the policy.
func (c *Cs) Entry(hash []byte) (*CsEntry, bool) {
	entry := c.index.Find(hash)
	return entry, entry != nil
}

// Dump returns the hashes of all resident entries in index order.
func (c *Cs) Dump() [][]byte {
	core.LogDebug(c, "Dumping ", c.index.Len(), " entries")
	hashes := make([][]byte, 0, c.index.Len())
	c.index.Ascend(func(entry *CsEntry) bool {
		core.LogTrace(c, ndn.HashString(entry.Hash()))
		hashes = append(hashes, entry.Hash())
		return true
	})
	return hashes
}

// Close releases every entry and cancels pending staleness timers.
func (c *Cs) Close() {
	var entries []*CsEntry
	c.index.Ascend(func(entry *CsEntry) bool {
		entries = append(entries, entry)
		return true
	})
	c.index.Clear()
	for _, entry := range entries {
		c.policy.BeforeErase(entry)
		c.pool.release(entry)
	}
	c.pool.checkInvariants(c.index.Len())
	c.reportSize()
}

func (c *Cs) reportSize() {
	c.metrics.Size(c.pool.Size(), c.pool.Capacity())
}
