// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package huffman builds and decodes the canonical Huffman codes used by
// DEFLATE (RFC 1951 §3.2.2): the literal/length alphabet, the distance
// alphabet, and the code-length alphabet used to transmit the other two.
//
// This is a different representation from the binary-tree decoder this
// module's bzip2 ancestor used (see cosnicolaou/pbzip2's
// internal/bzip2/huffman.go): DEFLATE's dynamic-table construction relies
// on detecting over- and under-subscribed code-length vectors and on a
// singleton fix-up that only make sense against the counts/offsets/symbols
// array layout RFC 1951 implementations conventionally use, so the table
// here is array-based rather than tree-based. The underlying idea —
// assign canonical codes by sorting symbols on (length, symbol index) —
// is the same one the bzip2 tree-builder uses.
package huffman

import "github.com/arlofuchs/gzinflate/internal/gzerr"

const maxBits = 15

// Table is a canonical Huffman decoding table built from a vector of
// per-symbol code lengths.
type Table struct {
	counts  [maxBits + 1]uint16 // counts[length], length in 1..15
	symbols []uint16            // symbols in canonical order
	maxSym  int                 // largest symbol with nonzero length, or -1
}

// EmptySym is returned by MaxSym when no symbol has been assigned a code.
const EmptySym = -1

// MaxSym returns the largest symbol index with a nonzero code length, or
// EmptySym if the table has no codes.
func (t *Table) MaxSym() int { return t.maxSym }

// SetMaxSym overrides the table's max-symbol sentinel. The only legitimate
// callers are the fixed table builders: RFC 1951 §3.2.6 assigns codes to
// the reserved literal/length symbols 286-287 and distance symbols 30-31
// to keep each tree complete, but requires decoders to treat them as
// illegal, so each table's max-symbol boundary is pinned below them even
// though they hold real codes.
func (t *Table) SetMaxSym(max int) { t.maxSym = max }

// Build constructs t from lengths, where lengths[i] is the code length of
// symbol i (0 meaning "symbol unused"). capacity bounds how many symbols
// the alphabet may contain (288 for literal/length, 32 for distance, 19
// for the code-length alphabet); len(lengths) must not exceed it.
func Build(t *Table, lengths []uint8, capacity int) error {
	if len(lengths) > capacity {
		return gzerr.DataError("too many code lengths for alphabet")
	}

	for i := range t.counts {
		t.counts[i] = 0
	}
	t.maxSym = EmptySym
	for i, l := range lengths {
		if l == 0 {
			continue
		}
		if int(l) > maxBits {
			return gzerr.DataError("code length exceeds 15 bits")
		}
		t.counts[l]++
		t.maxSym = i
	}

	if t.maxSym == EmptySym {
		// No symbols at all: legal only for the distance table of a block
		// with no back-references, and for nothing else. Callers decide
		// whether an empty table is an error in their context.
		t.symbols = t.symbols[:0]
		return nil
	}

	var offs [maxBits + 1]uint16
	available := 1
	numCodes := 0
	for length := 1; length <= maxBits; length++ {
		available *= 2
		used := int(t.counts[length])
		if used > available {
			return gzerr.DataError("over-subscribed Huffman code-length vector")
		}
		available -= used
		offs[length] = uint16(numCodes)
		numCodes += used
	}
	if numCodes > 1 && available > 0 {
		return gzerr.DataError("under-subscribed Huffman code-length vector")
	}
	if numCodes == 1 && t.counts[1] != 1 {
		// The only legal singleton table is a single length-1 code; a
		// lone code of any other length still leaves the code space
		// under-subscribed.
		return gzerr.DataError("under-subscribed Huffman code-length vector")
	}

	if cap(t.symbols) < capacity {
		t.symbols = make([]uint16, capacity)
	}
	t.symbols = t.symbols[:numCodes]
	for i, l := range lengths {
		if l == 0 {
			continue
		}
		t.symbols[offs[l]] = uint16(i)
		offs[l]++
	}

	if numCodes == 1 {
		// The sole legal singleton table: one code of length 1. Extend
		// the symbols slice by one so that the alternate 1-bit code
		// decodes to an out-of-range sentinel rather than running off
		// the end of the slice.
		t.counts[1] = 2
		t.symbols = append(t.symbols[:1], uint16(t.maxSym+1))
	}

	return nil
}

// BitReader is the minimal surface Decode needs; satisfied by
// *bitreader.Reader.
type BitReader interface {
	GetBits(n uint) uint32
}

// Decode walks br bit by bit against t and returns the decoded symbol.
// It returns a DataError if 15 bits are consumed without landing on a
// valid code, or if the walk would index outside the symbols table
// (which can only happen against a table built from a corrupt or
// maliciously hand-built length vector).
func Decode(t *Table, br BitReader) (int, error) {
	base, offs := 0, 0
	for length := 1; length <= maxBits; length++ {
		offs = offs<<1 | int(br.GetBits(1))
		count := int(t.counts[length])
		if offs < count {
			idx := base + offs
			if idx < 0 || idx >= len(t.symbols) {
				return 0, gzerr.DataError("huffman decode index out of range")
			}
			return int(t.symbols[idx]), nil
		}
		base += count
		offs -= count
	}
	return 0, gzerr.DataError("malformed huffman code")
}
