/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import "strconv"

// Interest represents a request for a content object, addressed by its exact content hash.
type Interest struct {
	hash        []byte
	mustBeFresh bool
}

// NewInterest creates a new Interest for the given content hash.
func NewInterest(hash []byte) *Interest {
	i := new(Interest)
	i.hash = make([]byte, len(hash))
	copy(i.hash, hash)
	return i
}

func (i *Interest) String() string {
	return "Interest(" + HashString(i.hash) + ", MustBeFresh=" + strconv.FormatBool(i.mustBeFresh) + ")"
}

// Hash returns the content hash requested by the Interest.
func (i *Interest) Hash() []byte {
	return i.hash
}

// MustBeFresh returns whether the Interest only accepts fresh content.
func (i *Interest) MustBeFresh() bool {
	return i.mustBeFresh
}

// SetMustBeFresh sets whether the Interest only accepts fresh content.
func (i *Interest) SetMustBeFresh(mustBeFresh bool) {
	i.mustBeFresh = mustBeFresh
}
