/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

// CachePolicyType is the value of the NDNLPv2 CachePolicyType field.
type CachePolicyType uint64

// Cache policy types.
const (
	CachePolicyNoCache CachePolicyType = 1
)

func (c CachePolicyType) String() string {
	switch c {
	case CachePolicyNoCache:
		return "NoCache"
	default:
		return "Unknown"
	}
}
