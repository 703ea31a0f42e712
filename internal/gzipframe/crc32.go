// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gzipframe

import (
	"hash/crc32"
	"io"
)

// nibbleTable is the reference decoder's 16-entry nibble-wise CRC-32
// (IEEE, reflected) table, reproduced bit-for-bit from
// original_source/src/tinf_data.h's tinf_crc32tab. Any table size that
// folds the same polynomial produces identical results (spec §4.8); this
// one is kept purely to match the reference implementation's table size.
var nibbleTable = [16]uint32{
	0x00000000, 0x1DB71064, 0x3B6E20C8, 0x26D930AC, 0x76DC4190,
	0x6B6B51F4, 0x4DB26158, 0x5005713C, 0xEDB88320, 0xF00F9344,
	0xD6D6A3E8, 0xCB61B38C, 0x9B64C2B0, 0x86D3D2D4, 0xA00AE278,
	0xBDBDF21C,
}

// CRC32 computes the IEEE CRC-32 of data by folding it nibble by nibble
// through nibbleTable. crc32("") == 0.
func CRC32(data []byte) uint32 {
	if len(data) == 0 {
		return 0
	}
	crc := uint32(0xFFFFFFFF)
	for _, b := range data {
		crc = nibbleTable[(crc^uint32(b))&0x0f] ^ (crc >> 4)
		crc = nibbleTable[(crc^uint32(b>>4))&0x0f] ^ (crc >> 4)
	}
	return crc ^ 0xFFFFFFFF
}

// StreamingCRC32 computes the IEEE CRC-32 of everything read from r
// using hash/crc32's table-based implementation, rather than the
// nibble table above. It exists for callers that already hold an
// io.Reader and would otherwise have to buffer an entire stream in
// memory just to pass it to CRC32; crc32_test.go checks that the two
// implementations always agree.
func StreamingCRC32(r io.Reader) (uint32, error) {
	h := crc32.NewIEEE()
	if _, err := io.Copy(h, r); err != nil {
		return 0, err
	}
	return h.Sum32(), nil
}
