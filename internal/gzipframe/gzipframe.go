// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package gzipframe parses and validates the RFC 1952 gzip container:
// the 10-byte-plus-optional-fields header and the 8-byte trailer. It
// does not touch the DEFLATE payload between them; see internal/inflate
// for that.
package gzipframe

import (
	"encoding/binary"

	"github.com/arlofuchs/gzinflate/internal/gzerr"
)

const (
	minStreamLen = 18 // 10-byte header + 8-byte trailer, no optional fields
	deflateMethod = 8

	flagFHCRC    = 1 << 1
	flagFEXTRA   = 1 << 2
	flagFNAME    = 1 << 3
	flagFCOMMENT = 1 << 4
	reservedMask = 0xE0
)

// Header holds everything the gzip header carries that a caller might
// want, plus the payload start offset.
type Header struct {
	MTime    uint32
	Name     string
	Comment  string
	Extra    []byte
	PayloadOffset int // offset of the first DEFLATE byte within src
}

// ParseHeader validates and parses the gzip header at the start of src,
// per RFC 1952 and spec §4.8. It requires len(src) >= 18 even though the
// header itself may be as short as 10 bytes, because a valid gzip stream
// always also carries an 8-byte trailer.
func ParseHeader(src []byte) (Header, error) {
	var h Header
	if len(src) < minStreamLen {
		return h, gzerr.DataError("input too short to be a gzip stream")
	}
	if src[0] != 0x1F || src[1] != 0x8B {
		return h, gzerr.DataError("bad gzip magic")
	}
	if src[2] != deflateMethod {
		return h, gzerr.DataError("unsupported compression method")
	}
	flags := src[3]
	if flags&reservedMask != 0 {
		return h, gzerr.DataError("reserved header flag bits set")
	}
	h.MTime = binary.LittleEndian.Uint32(src[4:8])
	// src[8] (XFL) and src[9] (OS) are ignored.

	pos := 10
	srcLen := len(src)

	if flags&flagFEXTRA != 0 {
		if pos+2 > srcLen {
			return h, gzerr.DataError("truncated FEXTRA length")
		}
		xlen := int(binary.LittleEndian.Uint16(src[pos : pos+2]))
		pos += 2
		if xlen > srcLen-12 {
			return h, gzerr.DataError("FEXTRA field too long")
		}
		if pos+xlen > srcLen {
			return h, gzerr.DataError("truncated FEXTRA field")
		}
		h.Extra = append([]byte(nil), src[pos:pos+xlen]...)
		pos += xlen
	}

	if flags&flagFNAME != 0 {
		start := pos
		for {
			if pos >= srcLen {
				return h, gzerr.DataError("unterminated FNAME field")
			}
			if src[pos] == 0 {
				break
			}
			pos++
		}
		h.Name = string(src[start:pos])
		pos++ // consume the NUL
	}

	if flags&flagFCOMMENT != 0 {
		start := pos
		for {
			if pos >= srcLen {
				return h, gzerr.DataError("unterminated FCOMMENT field")
			}
			if src[pos] == 0 {
				break
			}
			pos++
		}
		h.Comment = string(src[start:pos])
		pos++
	}

	if flags&flagFHCRC != 0 {
		if pos+2 > srcLen {
			return h, gzerr.DataError("truncated FHCRC field")
		}
		want := binary.LittleEndian.Uint16(src[pos : pos+2])
		got := uint16(CRC32(src[:pos]) & 0xffff)
		if want != got {
			return h, gzerr.DataError("header CRC16 mismatch")
		}
		pos += 2
	}

	h.PayloadOffset = pos
	return h, nil
}

// Trailer holds the two 32-bit little-endian values at the end of a
// gzip stream.
type Trailer struct {
	CRC32 uint32
	ISIZE uint32
}

// ParseTrailer reads the last 8 bytes of src as the gzip trailer.
func ParseTrailer(src []byte) (Trailer, error) {
	if len(src) < 8 {
		return Trailer{}, gzerr.DataError("input too short for a gzip trailer")
	}
	tail := src[len(src)-8:]
	return Trailer{
		CRC32: binary.LittleEndian.Uint32(tail[0:4]),
		ISIZE: binary.LittleEndian.Uint32(tail[4:8]),
	}, nil
}

// PayloadEnd returns the offset of the first trailer byte within src,
// i.e. where the DEFLATE payload stops.
func PayloadEnd(src []byte) int {
	return len(src) - 8
}

// Verify checks a decoded stream's CRC-32 and size against the trailer.
func Verify(trailer Trailer, uncompressed []byte) error {
	if CRC32(uncompressed) != trailer.CRC32 {
		return gzerr.DataError("CRC-32 mismatch")
	}
	if uint32(len(uncompressed)) != trailer.ISIZE {
		return gzerr.DataError("ISIZE mismatch")
	}
	return nil
}
