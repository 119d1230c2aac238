/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package table

import (
	"bytes"

	"github.com/google/btree"
)

const csIndexDegree = 16

// csIndex is the hash-ordered index of resident CS entries. Keys are unique.
type csIndex struct {
	tree *btree.BTreeG[*CsEntry]
}

func newCsIndex() *csIndex {
	return &csIndex{
		tree: btree.NewG[*CsEntry](csIndexDegree, lessCsEntries),
	}
}

// Len returns the number of indexed entries.
func (i *csIndex) Len() int {
	return i.tree.Len()
}

// LowerBound returns the first entry whose hash is not less than hash, or nil.
func (i *csIndex) LowerBound(hash []byte) *CsEntry {
	var found *CsEntry
	i.tree.AscendGreaterOrEqual(newCsQuery(hash), func(e *CsEntry) bool {
		found = e
		return false
	})
	return found
}

// UpperBound returns the first entry whose hash is greater than hash, or nil.
func (i *csIndex) UpperBound(hash []byte) *CsEntry {
	var found *CsEntry
	i.tree.AscendGreaterOrEqual(newCsQuery(hash), func(e *CsEntry) bool {
		if bytes.Equal(e.hash, hash) {
			return true
		}
		found = e
		return false
	})
	return found
}

// Find returns the entry with exactly the given hash, or nil.
// A lower bound that does not carry the same hash is a miss.
func (i *csIndex) Find(hash []byte) *CsEntry {
	if e := i.LowerBound(hash); e != nil && bytes.Equal(e.hash, hash) {
		return e
	}
	return nil
}

// Insert indexes entry unless an entry with the same hash is already present, in which
// case the resident entry is returned along with false.
func (i *csIndex) Insert(entry *CsEntry) (*CsEntry, bool) {
	if entry.IsQuery() {
		panic("table: query entries cannot be indexed")
	}
	if existing, ok := i.tree.Get(entry); ok {
		return existing, false
	}
	i.tree.ReplaceOrInsert(entry)
	return entry, true
}

// Erase removes entry from the index. It does not release the entry's slot.
func (i *csIndex) Erase(entry *CsEntry) bool {
	existing, ok := i.tree.Get(entry)
	if !ok || existing != entry {
		return false
	}
	i.tree.Delete(entry)
	return true
}

// AscendPrefix calls fn for each entry whose hash starts with prefix, in hash order,
// until fn returns false.
func (i *csIndex) AscendPrefix(prefix []byte, fn func(*CsEntry) bool) {
	i.tree.AscendGreaterOrEqual(newCsQuery(prefix), func(e *CsEntry) bool {
		if !bytes.HasPrefix(e.hash, prefix) {
			return false
		}
		return fn(e)
	})
}

// Ascend calls fn for each entry in hash order until fn returns false.
func (i *csIndex) Ascend(fn func(*CsEntry) bool) {
	i.tree.Ascend(fn)
}

// Clear removes all entries from the index.
func (i *csIndex) Clear() {
	i.tree.Clear(false)
}

// EqualRange returns the entries whose hash equals hash. Keys are unique, so the result
// holds at most one entry.
func (i *csIndex) EqualRange(hash []byte) []*CsEntry {
	if e := i.Find(hash); e != nil {
		return []*CsEntry{e}
	}
	return nil
}
