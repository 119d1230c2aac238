/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package ndn

import (
	"strconv"
	"time"
)

// Data represents a content object as seen by the Content Store: an immutable payload,
// its content hash, and the metadata that controls caching.
type Data struct {
	hash            []byte
	content         []byte
	freshnessPeriod *time.Duration
	cachePolicy     *CachePolicyType
}

// NewData creates a new Data object with the given content. The content hash is derived
// from the content.
func NewData(content []byte) *Data {
	d := new(Data)
	d.content = make([]byte, len(content))
	copy(d.content, content)
	d.hash = ContentHash(d.content)
	return d
}

// NewDataWithHash creates a new Data object whose hash has already been computed elsewhere.
func NewDataWithHash(hash []byte, content []byte) *Data {
	if len(hash) == 0 {
		return nil
	}

	d := new(Data)
	d.hash = make([]byte, len(hash))
	copy(d.hash, hash)
	d.content = make([]byte, len(content))
	copy(d.content, content)
	return d
}

func (d *Data) String() string {
	str := "Data(" + HashString(d.hash)
	if d.freshnessPeriod != nil {
		str += ", FreshnessPeriod=" + strconv.FormatInt(d.freshnessPeriod.Milliseconds(), 10) + "ms"
	}
	if d.cachePolicy != nil {
		str += ", CachePolicy=" + d.cachePolicy.String()
	}
	str += ", ContentLen=" + strconv.Itoa(len(d.content)) + ")"
	return str
}

// Hash returns the content hash of the Data. The returned slice must not be modified.
func (d *Data) Hash() []byte {
	return d.hash
}

// Content returns the payload of the Data. The returned slice is shared and must not be modified.
func (d *Data) Content() []byte {
	return d.content
}

// FreshnessPeriod returns the freshness period of the Data or nil if it is not set.
func (d *Data) FreshnessPeriod() *time.Duration {
	return d.freshnessPeriod
}

// SetFreshnessPeriod sets the freshness period of the Data.
func (d *Data) SetFreshnessPeriod(freshnessPeriod *time.Duration) {
	d.freshnessPeriod = freshnessPeriod
}

// CachePolicy returns the cache policy hint attached to the Data or nil if it is not set.
func (d *Data) CachePolicy() *CachePolicyType {
	return d.cachePolicy
}

// SetCachePolicy sets the cache policy hint attached to the Data.
func (d *Data) SetCachePolicy(cachePolicy *CachePolicyType) {
	d.cachePolicy = cachePolicy
}

// IsNoCache returns whether the Data carries a NoCache hint.
func (d *Data) IsNoCache() bool {
	return d.cachePolicy != nil && *d.cachePolicy == CachePolicyNoCache
}
