/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/named-data/ndncs/core"
	"golang.org/x/exp/slices"
)

// tableQueueSize is the maxmimum size of queues in the tables.
var tableQueueSize = 1024

// csCapacity contains the default capacity limit of each forwarding thread's Content Store.
var csCapacity = 1024

// csInitialCapacity contains the number of slots each Content Store allocates up front.
var csInitialCapacity = 16

// csAdmit determines whether contents will be admitted to the Content Store.
var csAdmit = true

// csServe determines whether contents will be served from the Content Store.
var csServe = true

// csReplacementPolicy contains the replacement policy used by Content Stores in the forwarder.
var csReplacementPolicy = "lru"

// Configure configures the tables from the loaded configuration.
func Configure() {
	if err := configure(); err != nil {
		core.LogFatal("ContentStore", "Invalid configuration: ", err)
	}
}

func configure() error {
	queueSize := core.GetConfigIntDefault("tables.queue_size", 1024)
	capacity := core.GetConfigIntDefault("tables.content_store.capacity", 1024)
	initialCapacity := core.GetConfigIntDefault("tables.content_store.initial_capacity", 16)
	policy := core.GetConfigStringDefault("tables.content_store.replacement_policy", "lru")

	var result *multierror.Error
	if queueSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("tables.queue_size must be positive, got %d", queueSize))
	}
	if capacity < -1 {
		result = multierror.Append(result, fmt.Errorf("tables.content_store.capacity: %w", core.ErrCsInvalidLimit))
	}
	if initialCapacity < 1 {
		result = multierror.Append(result, fmt.Errorf("tables.content_store.initial_capacity must be positive, got %d", initialCapacity))
	}
	if !slices.Contains(CsReplacementPolicyNames(), policy) {
		result = multierror.Append(result, fmt.Errorf("tables.content_store.replacement_policy %q (want one of %s): %w",
			policy, strings.Join(CsReplacementPolicyNames(), ", "), core.ErrCsUnknownPolicy))
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	tableQueueSize = queueSize
	csCapacity = capacity
	if capacity == -1 {
		csCapacity = CsUnlimited
	}
	csInitialCapacity = initialCapacity
	csAdmit = core.GetConfigBoolDefault("tables.content_store.admit", true)
	csServe = core.GetConfigBoolDefault("tables.content_store.serve", true)
	csReplacementPolicy = policy
	return nil
}

// QueueSize returns the configured size of table queues.
func QueueSize() int {
	return tableQueueSize
}

// SetCsCapacity sets the default CS capacity limit for Content Stores created afterwards.
func SetCsCapacity(capacity int) {
	csCapacity = capacity
}

// CsCapacity returns the default CS capacity limit.
func CsCapacity() int {
	return csCapacity
}
