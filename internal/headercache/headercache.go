// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package headercache memoizes gzip header/trailer inspections keyed by
// a fingerprint of a file's path, size and leading bytes, so that a CLI
// invocation touching the same path more than once doesn't re-parse it.
// The key includes the path, so the same file reached under another path
// (e.g. a hardlink) is a separate entry.
// It is purely an optimization: evicting or bypassing it never changes
// what a caller observes, only how many times it was computed.
package headercache

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	tinylfu "github.com/dgryski/go-tinylfu"
)

// maxEntries bounds the cache per spec (§4, HeaderCache): 256 entries,
// with TinyLFU's own admission-and-eviction policy deciding what stays.
const maxEntries = 256

// sampleSize is how many leading bytes of a file are folded into its
// cache key, alongside its path and size. A gzip header plus the first
// DEFLATE block comfortably fits in 64KiB for the files this cache is
// meant to help with; two distinct files that share path, size and
// first 64KiB are treated as the same entry, which is the documented
// trade-off of this fingerprint rather than a content hash.
const sampleSize = 64 * 1024

// Cache memoizes HeaderInspection-shaped values keyed by Key. The value
// type is left as interface{} so this package has no dependency on the
// root package's HeaderInspection type; callers type-assert on Get.
type Cache struct {
	t *tinylfu.T
}

// New returns an empty Cache bounded to maxEntries entries. samples
// controls TinyLFU's frequency sketch width; 10x capacity is the
// library's own suggested starting point for small caches like this
// one.
func New() *Cache {
	return &Cache{t: tinylfu.New(maxEntries, maxEntries*10)}
}

// Key fingerprints a file for cache lookups: its path, its size, and up
// to sampleSize leading bytes, all folded through xxhash. Two calls
// with the same inputs always produce the same key; this is the only
// guarantee callers should rely on.
func Key(path string, size int64, head []byte) uint64 {
	if len(head) > sampleSize {
		head = head[:sampleSize]
	}
	var d xxhash.Digest
	d.Reset()
	d.WriteString(path)
	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(size))
	d.Write(sizeBuf[:])
	d.Write(head)
	return d.Sum64()
}

// Get returns the cached value for key, if present.
func (c *Cache) Get(key uint64) (interface{}, bool) {
	return c.t.Get(keyString(key))
}

// Put stores value under key, evicting per TinyLFU's policy if the
// cache is at capacity.
func (c *Cache) Put(key uint64, value interface{}) {
	c.t.Add(keyString(key), value)
}

// keyString adapts a uint64 fingerprint to go-tinylfu's string-keyed
// API without an allocation-heavy fmt.Sprintf.
func keyString(key uint64) string {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return string(buf[:])
}
