/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import "errors"

// Error definitions
var (
	ErrCsCapacityExceeded = errors.New("content store could not free enough entries")
	ErrCsUnknownPolicy    = errors.New("unknown content store replacement policy")
	ErrCsInvalidLimit     = errors.New("content store limit must be -1 (unlimited) or non-negative")
)
