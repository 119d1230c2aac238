/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"time"

	"github.com/named-data/ndncs/core"
)

// fwQueueSize is the maxmimum number of packets that can be buffered to be processed by a forwarding thread.
var fwQueueSize = 1024

// NumFwThreads indicates the number of forwarding threads in the forwarder.
var NumFwThreads = 4

// lockThreadsToCores indicates whether forwarding threads will be locked to cores.
var lockThreadsToCores bool

// interestLifetime is how long an Interest that missed the Content Store waits for Data.
var interestLifetime = 4 * time.Second

// Configure configures the forwarding system.
func Configure() {
	fwQueueSize = core.GetConfigIntDefault("fw.queue_size", 1024)
	NumFwThreads = core.GetConfigIntDefault("fw.threads", 4)
	lockThreadsToCores = core.GetConfigBoolDefault("fw.lock_threads_to_cores", false)
	interestLifetime = time.Duration(core.GetConfigIntDefault("fw.interest_lifetime", 4000)) * time.Millisecond

	if NumFwThreads < 1 || NumFwThreads > MaxFwThreads {
		core.LogFatal("Forwarder", "fw.threads must be between 1 and ", MaxFwThreads, ", got ", NumFwThreads)
	}
	core.NumForwardingThreads = NumFwThreads
}
