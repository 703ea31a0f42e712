// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inflate implements the DEFLATE (RFC 1951) block decoder: the
// bit-level block-header dispatch loop, the three block types, and the
// dynamic-table mini-language used to transmit the per-block Huffman
// tables. It knows nothing about the gzip container; see
// internal/gzipframe for that layer.
package inflate

import (
	"github.com/arlofuchs/gzinflate/internal/bitreader"
	"github.com/arlofuchs/gzinflate/internal/gzerr"
	"github.com/arlofuchs/gzinflate/internal/huffman"
)

const maxDistance = 32768

// State holds everything one DEFLATE stream decode needs: the bit
// reader, the destination cursor, and the two dynamic Huffman tables,
// reused across blocks without reallocation.
type State struct {
	br  *bitreader.Reader
	dst []byte
	pos int

	lt, dt huffman.Table
}

// New returns a State that will read compressed bits from src and write
// decompressed bytes into dst, starting at offset 0. dst bounds the
// maximum output size; writing past its end surfaces as a BufError.
func New(src, dst []byte) *State {
	return &State{br: bitreader.New(src), dst: dst}
}

// Written returns the number of bytes written to dst so far.
func (s *State) Written() int { return s.pos }

// Run decodes DEFLATE blocks until the final-block marker, returning the
// number of bytes written to dst.
func (s *State) Run() (int, error) {
	for {
		bfinal := s.br.GetBits(1)
		btype := s.br.GetBits(2)

		var err error
		switch btype {
		case 0:
			err = s.storedBlock()
		case 1:
			err = s.compressedBlock(&fixedLitTable, &fixedDistTable)
		case 2:
			lt, dt, derr := s.dynamicTables()
			if derr != nil {
				return s.pos, derr
			}
			err = s.compressedBlock(lt, dt)
		default:
			return s.pos, gzerr.DataError("reserved block type")
		}
		if err != nil {
			return s.pos, err
		}
		if s.br.Overflow() {
			return s.pos, gzerr.DataError("unexpected end of compressed input")
		}
		if bfinal != 0 {
			return s.pos, nil
		}
	}
}

func (s *State) emitLiteral(b byte) error {
	if s.pos >= len(s.dst) {
		return gzerr.BufError("output buffer full")
	}
	s.dst[s.pos] = b
	s.pos++
	return nil
}

// copyMatch copies length bytes from dist bytes behind the output
// cursor. The loop is byte-at-a-time because dist may be smaller than
// length (an overlapping run, e.g. dist=1 fills with the last byte); a
// bulk copy that assumes non-overlapping source and destination would
// silently produce wrong output here.
func (s *State) copyMatch(length int, dist int) error {
	if dist <= 0 || dist > s.pos || dist > maxDistance {
		return gzerr.DataError("distance too far back")
	}
	if length > len(s.dst)-s.pos {
		return gzerr.BufError("output buffer full")
	}
	src := s.pos - dist
	for i := 0; i < length; i++ {
		s.dst[s.pos] = s.dst[src]
		s.pos++
		src++
	}
	return nil
}

// storedBlock implements §4.5: align, read LEN/NLEN, copy verbatim.
func (s *State) storedBlock() error {
	s.br.AlignToByte()

	lenLo, ok := s.br.ReadByte()
	if !ok {
		return gzerr.DataError("truncated stored block length")
	}
	lenHi, ok := s.br.ReadByte()
	if !ok {
		return gzerr.DataError("truncated stored block length")
	}
	nlenLo, ok := s.br.ReadByte()
	if !ok {
		return gzerr.DataError("truncated stored block length")
	}
	nlenHi, ok := s.br.ReadByte()
	if !ok {
		return gzerr.DataError("truncated stored block length")
	}

	length := int(lenLo) | int(lenHi)<<8
	nlen := int(nlenLo) | int(nlenHi)<<8
	if length != (^nlen)&0xffff {
		return gzerr.DataError("stored block length check failed")
	}

	if length > len(s.dst)-s.pos {
		return gzerr.BufError("output buffer full")
	}
	for i := 0; i < length; i++ {
		b, ok := s.br.ReadByte()
		if !ok {
			return gzerr.DataError("truncated stored block payload")
		}
		s.dst[s.pos] = b
		s.pos++
	}
	return nil
}

// compressedBlock implements §4.6: decode literal/length and distance
// symbols against lt/dt until the end-of-block symbol.
func (s *State) compressedBlock(lt, dt *huffman.Table) error {
	for {
		sym, err := huffman.Decode(lt, s.br)
		if err != nil {
			return err
		}
		if s.br.Overflow() {
			return gzerr.DataError("unexpected end of compressed input")
		}

		switch {
		case sym < 256:
			if err := s.emitLiteral(byte(sym)); err != nil {
				return err
			}
		case sym == 256:
			return nil
		default:
			idx := sym - 257
			if sym > lt.MaxSym() || idx > 28 || dt.MaxSym() == huffman.EmptySym {
				return gzerr.DataError("invalid length symbol")
			}
			length := int(s.br.GetBitsBase(lengthBits[idx], lengthBase[idx]))

			dsym, err := huffman.Decode(dt, s.br)
			if err != nil {
				return err
			}
			if dsym > dt.MaxSym() || dsym > 29 {
				return gzerr.DataError("invalid distance symbol")
			}
			dist := int(s.br.GetBitsBase(distBits[dsym], distBase[dsym]))

			if err := s.copyMatch(length, dist); err != nil {
				return err
			}
		}
	}
}

// dynamicTables implements §4.4: read HLIT/HDIST/HCLEN, build the
// code-length alphabet, then decode the literal/length and distance
// code-length vectors through it.
func (s *State) dynamicTables() (*huffman.Table, *huffman.Table, error) {
	hlit := int(s.br.GetBits(5)) + 257
	hdist := int(s.br.GetBits(5)) + 1
	hclen := int(s.br.GetBits(4)) + 4

	if hlit > 286 || hdist > 30 {
		return nil, nil, gzerr.DataError("HLIT or HDIST out of range")
	}

	var clLengths [clCapacity]uint8
	for i := 0; i < hclen; i++ {
		clLengths[clOrder[i]] = uint8(s.br.GetBits(3))
	}

	var cl huffman.Table
	if err := huffman.Build(&cl, clLengths[:], clCapacity); err != nil {
		return nil, nil, err
	}
	if cl.MaxSym() == huffman.EmptySym {
		return nil, nil, gzerr.DataError("empty code-length table")
	}

	total := hlit + hdist
	lengths := make([]uint8, total)
	n := 0
	for n < total {
		sym, err := huffman.Decode(&cl, s.br)
		if err != nil {
			return nil, nil, err
		}
		if sym > cl.MaxSym() {
			return nil, nil, gzerr.DataError("invalid code-length symbol")
		}

		switch {
		case sym < 16:
			lengths[n] = uint8(sym)
			n++
		case sym == 16:
			if n == 0 {
				return nil, nil, gzerr.DataError("repeat code with no previous length")
			}
			repeat := int(s.br.GetBitsBase(2, 3))
			if n+repeat > total {
				return nil, nil, gzerr.DataError("repeat run exceeds code-length vector")
			}
			prev := lengths[n-1]
			for i := 0; i < repeat; i++ {
				lengths[n] = prev
				n++
			}
		case sym == 17:
			repeat := int(s.br.GetBitsBase(3, 3))
			if n+repeat > total {
				return nil, nil, gzerr.DataError("repeat run exceeds code-length vector")
			}
			for i := 0; i < repeat; i++ {
				lengths[n] = 0
				n++
			}
		case sym == 18:
			repeat := int(s.br.GetBitsBase(7, 11))
			if n+repeat > total {
				return nil, nil, gzerr.DataError("repeat run exceeds code-length vector")
			}
			for i := 0; i < repeat; i++ {
				lengths[n] = 0
				n++
			}
		default:
			return nil, nil, gzerr.DataError("invalid code-length symbol")
		}
	}

	if lengths[256] == 0 {
		return nil, nil, gzerr.DataError("missing end-of-block symbol")
	}

	if err := huffman.Build(&s.lt, lengths[:hlit], litLenCapacity); err != nil {
		return nil, nil, err
	}
	if err := huffman.Build(&s.dt, lengths[hlit:], distCapacity); err != nil {
		return nil, nil, err
	}
	return &s.lt, &s.dt, nil
}
