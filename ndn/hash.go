/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import (
	"encoding/hex"

	"github.com/multiformats/go-multihash"
)

// ContentHash computes the content-derived hash of a payload as a SHA2-256 multihash.
func ContentHash(content []byte) []byte {
	sum, err := multihash.Sum(content, multihash.SHA2_256, -1)
	if err != nil {
		// SHA2-256 with the default length cannot fail
		panic(err)
	}
	return sum
}

// HashString renders a content hash for logs and diagnostics.
// Multihashes are printed in base58, anything else in hex.
func HashString(hash []byte) string {
	if mh, err := multihash.Cast(hash); err == nil {
		return mh.B58String()
	}
	return hex.EncodeToString(hash)
}
