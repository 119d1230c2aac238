/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"runtime"
	"strconv"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/named-data/ndncs/core"
	"github.com/named-data/ndncs/ndn"
	"github.com/named-data/ndncs/sched"
	"github.com/named-data/ndncs/table"
)

// MaxFwThreads Maximum number of forwarding threads
const MaxFwThreads = 32

// Threads contains all forwarding threads
var Threads map[int]*Thread

// Measurements holds the Content Store counters of all forwarding threads.
var Measurements = table.NewMeasurements()

// HashContentToFwThread hashes a content hash to a forwarding thread.
func HashContentToFwThread(hash []byte) int {
	return HashContentToThread(hash, len(Threads))
}

// HashContentToThread hashes a content hash to one of nThreads threads.
func HashContentToThread(hash []byte, nThreads int) int {
	return int(xxhash.Sum64(hash) % uint64(nThreads))
}

// PendingInterest is an Interest waiting to be processed by a forwarding thread. Reply is
// called on the thread with the satisfying Data, or with nil when the Interest expires.
type PendingInterest struct {
	Interest *ndn.Interest
	Reply    func(*ndn.Data)
}

// pitEntry collects the requesters of Data that missed the Content Store.
type pitEntry struct {
	replies    []func(*ndn.Data)
	expiration sched.Handle
}

// Thread Represents a forwarding thread
type Thread struct {
	threadID         int
	pendingInterests chan *PendingInterest
	pendingDatas     chan *ndn.Data
	tasks            chan func()
	scheduler        *sched.LoopScheduler
	cs               *table.Cs
	csMetrics        *table.MeasurementCsMetrics
	pit              map[string]*pitEntry
	shouldQuit       chan interface{}
	HasQuit          chan interface{}

	// Counters
	NInInterests          uint64
	NInData               uint64
	NSatisfiedInterests   uint64
	NUnsatisfiedInterests uint64
	NUnsolicitedData      uint64
}

// NewThread creates a new forwarding thread. Content Store events are recorded in
// Measurements and also passed to any extra metrics given.
func NewThread(id int, extraMetrics ...table.CsMetrics) *Thread {
	t := new(Thread)
	t.threadID = id
	t.pendingInterests = make(chan *PendingInterest, fwQueueSize)
	t.pendingDatas = make(chan *ndn.Data, fwQueueSize)
	t.tasks = make(chan func(), fwQueueSize)
	t.scheduler = sched.NewLoopScheduler(table.QueueSize())
	t.csMetrics = table.NewMeasurementCsMetrics(Measurements, "cs."+strconv.Itoa(id))
	metrics := append(table.MultiCsMetrics{t.csMetrics}, extraMetrics...)
	t.cs = table.NewCs(t.scheduler, table.WithCsThreadID(id), table.WithCsMetrics(metrics))
	t.pit = make(map[string]*pitEntry)
	t.shouldQuit = make(chan interface{}, 1)
	t.HasQuit = make(chan interface{})
	return t
}

func (t *Thread) String() string {
	return "FwThread-" + strconv.Itoa(t.threadID)
}

// GetID returns the ID of the forwarding thread
func (t *Thread) GetID() int {
	return t.threadID
}

// GetNumPitEntries returns the number of Interests waiting for Data. It must be called
// from the thread, for example through Call.
func (t *Thread) GetNumPitEntries() int {
	return len(t.pit)
}

// GetNumCsEntries returns the number of entries in this thread's ContentStore.
func (t *Thread) GetNumCsEntries() int {
	return Measurements.GetInt(t.csMetrics.Key("entries"))
}

// GetCsCounters returns the number of Content Store hits and misses on this thread.
func (t *Thread) GetCsCounters() (nHits int, nMisses int) {
	return Measurements.GetInt(t.csMetrics.Key("hits")), Measurements.GetInt(t.csMetrics.Key("misses"))
}

// TellToQuit tells the forwarding thread to quit
func (t *Thread) TellToQuit() {
	core.LogInfo(t, "Told to quit")
	t.shouldQuit <- true
}

// Run forwarding thread
func (t *Thread) Run() {
	if lockThreadsToCores {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	for {
		select {
		case pendingInterest := <-t.pendingInterests:
			t.processIncomingInterest(pendingInterest)
		case data := <-t.pendingDatas:
			t.processIncomingData(data)
		case expired := <-t.scheduler.C():
			expired()
		case task := <-t.tasks:
			task()
		case <-t.shouldQuit:
			core.LogInfo(t, "Stopping thread")
			t.expireAllPitEntries()
			t.cs.Close()
			t.scheduler.Stop()
			t.HasQuit <- true
			return
		}
	}
}

// QueueInterest queues an Interest for processing by this forwarding thread.
func (t *Thread) QueueInterest(interest *PendingInterest) {
	t.pendingInterests <- interest
}

// QueueData queues a Data packet for processing by this forwarding thread.
func (t *Thread) QueueData(data *ndn.Data) {
	t.pendingDatas <- data
}

// Post queues task to run on the forwarding thread with access to its Content Store.
func (t *Thread) Post(task func(cs *table.Cs)) {
	t.tasks <- func() { task(t.cs) }
}

// Call runs task on the forwarding thread and waits for it to finish.
func (t *Thread) Call(task func(cs *table.Cs)) {
	done := make(chan struct{})
	t.tasks <- func() {
		defer close(done)
		task(t.cs)
	}
	<-done
}

func (t *Thread) processIncomingInterest(pendingInterest *PendingInterest) {
	atomic.AddUint64(&t.NInInterests, 1)
	interest := pendingInterest.Interest
	core.LogTrace(t, "OnIncomingInterest: ", interest)

	t.cs.Find(interest, func(interest *ndn.Interest, data *ndn.Data) {
		core.LogTrace(t, "Content Store hit for ", interest)
		atomic.AddUint64(&t.NSatisfiedInterests, 1)
		pendingInterest.Reply(data)
	}, func(interest *ndn.Interest) {
		t.insertPitEntry(interest, pendingInterest.Reply)
	})
}

func (t *Thread) insertPitEntry(interest *ndn.Interest, reply func(*ndn.Data)) {
	key := string(interest.Hash())
	entry, ok := t.pit[key]
	if ok {
		core.LogTrace(t, "Interest ", interest, " is already pending")
		entry.expiration.Cancel()
	} else {
		entry = new(pitEntry)
		t.pit[key] = entry
	}
	entry.replies = append(entry.replies, reply)
	entry.expiration = t.scheduler.Schedule(interestLifetime, func() { t.expirePitEntry(key) })
}

func (t *Thread) expirePitEntry(key string) {
	entry, ok := t.pit[key]
	if !ok {
		return
	}
	delete(t.pit, key)
	core.LogDebug(t, "Interest ", ndn.HashString([]byte(key)), " expired with ", len(entry.replies), " requesters")
	for _, reply := range entry.replies {
		atomic.AddUint64(&t.NUnsatisfiedInterests, 1)
		reply(nil)
	}
}

// expireAllPitEntries cancels every pending Interest, replying nil to its requesters.
func (t *Thread) expireAllPitEntries() {
	for key, entry := range t.pit {
		entry.expiration.Cancel()
		t.expirePitEntry(key)
	}
}

func (t *Thread) processIncomingData(data *ndn.Data) {
	atomic.AddUint64(&t.NInData, 1)
	core.LogTrace(t, "OnIncomingData: ", data)

	key := string(data.Hash())
	entry, isSolicited := t.pit[key]
	if isSolicited {
		delete(t.pit, key)
		entry.expiration.Cancel()
	} else {
		atomic.AddUint64(&t.NUnsolicitedData, 1)
		core.LogDebug(t, "Unsolicited data ", data)
	}

	if _, err := t.cs.Insert(data, !isSolicited); err != nil {
		core.LogWarn(t, "Unable to cache ", data, ": ", err)
	}

	if isSolicited {
		for _, reply := range entry.replies {
			atomic.AddUint64(&t.NSatisfiedInterests, 1)
			reply(data)
		}
	}
}
