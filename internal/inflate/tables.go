// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inflate

import "github.com/arlofuchs/gzinflate/internal/huffman"

// Alphabet sizes, RFC 1951 §3.2.5-3.2.7.
const (
	litLenCapacity = 288
	distCapacity   = 32
	clCapacity     = 19
)

// length_base / length_bits, RFC 1951 §3.2.5. Index 28 (symbol 285) has no
// extra bits and a fixed length of 258. Index 29 is reserved/illegal and
// carries a sentinel that must never be looked up without first checking
// the symbol against maxCodeLenSym.
var lengthBase = [30]uint32{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258, 0,
}

var lengthBits = [30]uint{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0, 127,
}

// maxCodeLenSym is the last legal length symbol; symbol 285 (s=28).
const maxCodeLenSym = 285

// dist_base / dist_bits, RFC 1951 §3.2.5.
var distBase = [30]uint32{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var distBits = [30]uint{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// clOrder is the order in which code-length-alphabet code lengths are
// transmitted for a dynamic block, RFC 1951 §3.2.7.
var clOrder = [clCapacity]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

var (
	fixedLitTable  huffman.Table
	fixedDistTable huffman.Table
)

func init() {
	// RFC 1951 §3.2.6: literal/length lengths 8,9,7,8 by range; all
	// distance codes fixed at length 5.
	lengths := make([]uint8, litLenCapacity)
	for i := 0; i < 144; i++ {
		lengths[i] = 8
	}
	for i := 144; i < 256; i++ {
		lengths[i] = 9
	}
	for i := 256; i < 280; i++ {
		lengths[i] = 7
	}
	for i := 280; i < 288; i++ {
		lengths[i] = 8
	}
	if err := huffman.Build(&fixedLitTable, lengths, litLenCapacity); err != nil {
		panic("inflate: fixed literal/length table failed to build: " + err.Error())
	}
	// Symbols 286-287 occupy code space (RFC 1951 §3.2.6) but are reserved;
	// pin max_sym below them so the block decoder rejects them.
	fixedLitTable.SetMaxSym(maxCodeLenSym)

	// All 32 possible 5-bit codes are assigned (keeping the code complete),
	// but only 0-29 are legal; 30-31 are reserved.
	distLengths := make([]uint8, distCapacity)
	for i := range distLengths {
		distLengths[i] = 5
	}
	if err := huffman.Build(&fixedDistTable, distLengths, distCapacity); err != nil {
		panic("inflate: fixed distance table failed to build: " + err.Error())
	}
	fixedDistTable.SetMaxSym(29)
}
