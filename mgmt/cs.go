/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package mgmt

import (
	"math"

	"github.com/named-data/ndncs/core"
	"github.com/named-data/ndncs/fw"
	"github.com/named-data/ndncs/ndn"
	"github.com/named-data/ndncs/table"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// ContentStoreModule is the module that handles Content Store Management.
type ContentStoreModule struct{}

func (c *ContentStoreModule) String() string {
	return "ContentStoreMgmt"
}

// HandleCommand dispatches a management command by verb.
func (c *ContentStoreModule) HandleCommand(verb string, params *ControlParameters) *ControlResponse {
	switch verb {
	case "config":
		return c.config(params)
	case "erase":
		return c.erase(params)
	case "info":
		return c.info()
	case "query":
		return c.query()
	default:
		core.LogWarn(c, "Received command for non-existent verb '", verb, "'")
		return makeControlResponse(501, "Unknown verb", nil)
	}
}

// threads returns the forwarding threads in ID order.
func (c *ContentStoreModule) threads() []*fw.Thread {
	threads := maps.Values(fw.Threads)
	slices.SortFunc(threads, func(a, b *fw.Thread) bool { return a.GetID() < b.GetID() })
	return threads
}

func (c *ContentStoreModule) config(params *ControlParameters) *ControlResponse {
	if params == nil {
		core.LogWarn(c, "Missing ControlParameters in config command")
		return makeControlResponse(400, "ControlParameters is incorrect", nil)
	}

	if (params.Flags == nil && params.Mask != nil) || (params.Flags != nil && params.Mask == nil) {
		core.LogWarn(c, "Flags and Mask fields must either both be present or both be not present")
		return makeControlResponse(409, "ControlParameters are incorrect", nil)
	}

	if params.Capacity != nil && *params.Capacity > math.MaxInt {
		core.LogWarn(c, "Capacity ", *params.Capacity, " is out of range")
		return makeControlResponse(409, "ControlParameters are incorrect", nil)
	}

	threads := c.threads()
	if params.Capacity != nil {
		if err := c.setLimit(threads, int(*params.Capacity)); err != nil {
			core.LogWarn(c, "Unable to configure Content Store: ", err)
			return makeControlResponse(500, "Unable to set capacity", nil)
		}
		core.LogInfo(c, "Setting CS capacity to ", *params.Capacity)
		table.SetCsCapacity(int(*params.Capacity))
	}

	if params.Flags != nil {
		var group errgroup.Group
		for _, thread := range threads {
			thread := thread
			group.Go(func() error {
				thread.Call(func(cs *table.Cs) {
					if *params.Mask&uint64(CsFlagEnableAdmit) > 0 {
						cs.EnableAdmit(*params.Flags&uint64(CsFlagEnableAdmit) > 0)
					}
					if *params.Mask&uint64(CsFlagEnableServe) > 0 {
						cs.EnableServe(*params.Flags&uint64(CsFlagEnableServe) > 0)
					}
				})
				return nil
			})
		}
		_ = group.Wait()
	}

	capacity, flags := c.status()
	return makeControlResponse(200, "OK", &ControlParameters{
		Capacity: uint64Ptr(capacity),
		Flags:    uint64Ptr(uint64(flags)),
	})
}

// setLimit sets the limit on every thread. If any thread fails, threads that succeeded are
// set back to their previous limit.
func (c *ContentStoreModule) setLimit(threads []*fw.Thread, limit int) error {
	oldLimits := make([]int, len(threads))
	succeeded := make([]bool, len(threads))
	var group errgroup.Group
	for i, thread := range threads {
		i, thread := i, thread
		group.Go(func() error {
			var err error
			thread.Call(func(cs *table.Cs) {
				oldLimits[i] = cs.Limit()
				err = cs.SetLimit(limit)
			})
			succeeded[i] = err == nil
			return err
		})
	}
	err := group.Wait()
	if err == nil {
		return nil
	}

	for i, thread := range threads {
		if !succeeded[i] || oldLimits[i] == limit {
			continue
		}
		oldLimit := oldLimits[i]
		thread.Call(func(cs *table.Cs) {
			if rollbackErr := cs.SetLimit(oldLimit); rollbackErr != nil {
				core.LogError(c, "Unable to restore limit ", oldLimit, " on ", thread, ": ", rollbackErr)
			}
		})
	}
	return err
}

// erase removes entries whose hash starts with Prefix, up to Count entries in total.
func (c *ContentStoreModule) erase(params *ControlParameters) *ControlResponse {
	if params == nil {
		core.LogWarn(c, "Missing ControlParameters in erase command")
		return makeControlResponse(400, "ControlParameters is incorrect", nil)
	}

	remaining := -1
	if params.Count != nil {
		if *params.Count == 0 || *params.Count > math.MaxInt {
			return makeControlResponse(409, "ControlParameters are incorrect", nil)
		}
		remaining = int(*params.Count)
	}

	nErased := 0
	for _, thread := range c.threads() {
		if remaining == 0 {
			break
		}
		thread.Call(func(cs *table.Cs) {
			cs.Erase(params.Prefix, remaining, func(n int) {
				nErased += n
				if remaining > 0 {
					remaining -= n
				}
			})
		})
	}
	core.LogInfo(c, "Erased ", nErased, " entries with prefix ", ndn.HashString(params.Prefix))

	response := &ControlParameters{
		Prefix:  params.Prefix,
		NErased: uint64Ptr(uint64(nErased)),
	}
	if params.Count != nil && remaining == 0 {
		response.Count = params.Count
	}
	return makeControlResponse(200, "OK", response)
}

func (c *ContentStoreModule) info() *ControlResponse {
	capacity, flags := c.status()
	info := &CsInfo{
		Capacity: capacity,
		Flags:    flags,
	}
	for _, thread := range c.threads() {
		nHits, nMisses := thread.GetCsCounters()
		info.NCsEntries += uint64(thread.GetNumCsEntries())
		info.NHits += uint64(nHits)
		info.NMisses += uint64(nMisses)
	}
	core.LogTrace(c, "Generated CS info with ", info.NCsEntries, " entries")

	response := makeControlResponse(200, "OK", nil)
	response.Info = info
	return response
}

// query lists the hashes of all resident entries across threads, sorted.
func (c *ContentStoreModule) query() *ControlResponse {
	var entries []string
	for _, thread := range c.threads() {
		thread.Call(func(cs *table.Cs) {
			for _, hash := range cs.Dump() {
				entries = append(entries, ndn.HashString(hash))
			}
		})
	}
	slices.Sort(entries)

	response := makeControlResponse(200, "OK", nil)
	response.Entries = entries
	return response
}

// status returns the configured capacity and the flags of the first thread's Content Store.
func (c *ContentStoreModule) status() (uint64, CsFlag) {
	capacity := uint64(table.CsCapacity())
	var flags CsFlag
	threads := c.threads()
	if len(threads) == 0 {
		return capacity, CsFlagEnableAdmit | CsFlagEnableServe
	}
	threads[0].Call(func(cs *table.Cs) {
		if cs.IsAdmitting() {
			flags |= CsFlagEnableAdmit
		}
		if cs.IsServing() {
			flags |= CsFlagEnableServe
		}
	})
	return capacity, flags
}
